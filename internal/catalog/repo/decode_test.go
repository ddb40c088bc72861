package repo

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NemecSoft/YunGame/internal/catalog/entity"
)

func TestDecodeGameDefaultsMissingColumns(t *testing.T) {
	id := uuid.New()
	g, err := decodeGame(row{"Id": id.String(), "Name": "Bare"})
	require.NoError(t, err)
	assert.Equal(t, id, g.ID)
	assert.Equal(t, "Bare", g.Name)
	assert.Equal(t, entity.LevelBeginner, g.Level)
	assert.Zero(t, g.Names.Len())
	assert.Nil(t, g.LastPlayed)
	assert.Nil(t, g.ReleaseDate)
	assert.False(t, g.Installed)
}

func TestDecodeGameColumnTypes(t *testing.T) {
	g, err := decodeGame(row{
		"id":          []byte(uuid.NewString()),
		"name":        []byte("bytes"),
		"SortOrder":   float64(3),
		"Level":       int64(42),
		"IsInstalled": int64(1),
		"Names":       `["a","a","b"]`,
		"ReleaseYear": int64(1998),
	})
	require.NoError(t, err)
	assert.Equal(t, "bytes", g.Name, "column lookup ignores case")
	assert.Equal(t, 3, g.SortOrder)
	assert.Equal(t, entity.LevelAdmin, g.Level)
	assert.True(t, g.Installed)
	assert.Equal(t, []string{"a", "b"}, g.Names.Values())
	assert.Equal(t, 1998, g.ReleaseYear())
}

func TestDecodeGameInvalidIDGetsFreshOne(t *testing.T) {
	a, err := decodeGame(row{"Id": "not-a-uuid", "Name": "x"})
	require.NoError(t, err)
	b, err := decodeGame(row{"Id": "not-a-uuid", "Name": "x"})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestDecodeGameMalformedNames(t *testing.T) {
	g, err := decodeGame(row{"Id": uuid.NewString(), "Name": "x", "Names": "{broken"})
	require.NoError(t, err)
	assert.Zero(t, g.Names.Len())
}

func TestDecodeGameLastPlayedLayouts(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Time
	}{
		{"2024-03-01T20:30:15.5Z", time.Date(2024, 3, 1, 20, 30, 15, 500000000, time.UTC)},
		{"2024-03-01T21:30:15+01:00", time.Date(2024, 3, 1, 20, 30, 15, 0, time.UTC)},
		{"2024-03-01 20:30:15", time.Date(2024, 3, 1, 20, 30, 15, 0, time.Local)},
		{"2024-03-01", time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local)},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			g, err := decodeGame(row{"Id": uuid.NewString(), "Name": "x", "LastPlayed": tt.raw})
			require.NoError(t, err)
			require.NotNil(t, g.LastPlayed)
			assert.True(t, tt.want.Equal(*g.LastPlayed), "got %s", g.LastPlayed)
			assert.Equal(t, time.UTC, g.LastPlayed.Location())
		})
	}
}

func TestDecodeGameUnreadableTimes(t *testing.T) {
	id := uuid.NewString()
	_, err := decodeGame(row{"Id": id, "Name": "x", "LastPlayed": "yesterday"})
	var rowErr *RowError
	require.True(t, errors.As(err, &rowErr))
	assert.Equal(t, id, rowErr.ID)
	assert.Equal(t, "LastPlayed", rowErr.Column)

	_, err = decodeGame(row{"Id": id, "Name": "x", "ReleaseDate": "soon"})
	require.True(t, errors.As(err, &rowErr))
	assert.Equal(t, "ReleaseDate", rowErr.Column)

	g, err := decodeGame(row{"Id": id, "Name": "x", "LastPlayed": "  ", "ReleaseDate": ""})
	require.NoError(t, err)
	assert.Nil(t, g.LastPlayed)
}

func TestDecodeGameReleaseDateWinsOverYear(t *testing.T) {
	g, err := decodeGame(row{"Id": uuid.NewString(), "Name": "x", "ReleaseDate": "2017-03-03", "ReleaseYear": int64(2000)})
	require.NoError(t, err)
	require.NotNil(t, g.ReleaseDate)
	assert.Equal(t, time.Date(2017, 3, 3, 0, 0, 0, 0, time.UTC), *g.ReleaseDate)
}
