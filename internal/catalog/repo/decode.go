package repo

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/NemecSoft/YunGame/internal/catalog/entity"
	"github.com/NemecSoft/YunGame/pkg/utilities"
)

const (
	dateLayout       = "2006-01-02"
	legacyTimeLayout = "2006-01-02 15:04:05"
)

var (
	lastPlayedLayouts  = []string{time.RFC3339Nano, legacyTimeLayout, "2006-01-02T15:04:05", dateLayout}
	releaseDateLayouts = []string{dateLayout, time.RFC3339Nano}
)

// RowError reports a stored row that could not be turned into a Game.
type RowError struct {
	ID     string
	Column string
	Err    error
}

func (e *RowError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("decode row: %s: %v", e.Column, e.Err)
	}
	return fmt.Sprintf("decode row %s: %s: %v", e.ID, e.Column, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// row holds one MapScan result. Columns missing from older files are simply
// absent.
type row map[string]any

func (r row) value(col string) any {
	if v, ok := r[col]; ok {
		return v
	}
	for k, v := range r {
		if strings.EqualFold(k, col) {
			return v
		}
	}
	return nil
}

// Field decoders return the zero value on NULL and on type mismatch.

func stringField(r row, col string) string {
	switch v := r.value(col).(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return ""
	}
}

func intField(r row, col string) int {
	switch v := r.value(col).(type) {
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

func boolField(r row, col string) bool {
	switch v := r.value(col).(type) {
	case int64:
		return v != 0
	case bool:
		return v
	default:
		return false
	}
}

// timeField parses a text timestamp. Empty text is absent; text matching no
// layout is an error because the value exists but is unreadable.
func timeField(r row, col string, loc *time.Location, layouts []string) (*time.Time, error) {
	if v, ok := r.value(col).(time.Time); ok {
		return &v, nil
	}
	s := strings.TrimSpace(stringField(r, col))
	if s == "" {
		return nil, nil
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("unrecognized time %q", s)
}

func namesField(r row, col string) entity.NameSet {
	s := stringField(r, col)
	if s == "" {
		return entity.NameSet{}
	}
	var names entity.NameSet
	if err := json.Unmarshal([]byte(s), &names); err != nil {
		return entity.NameSet{}
	}
	return names
}

func decodeGame(r row) (entity.Game, error) {
	rawID := stringField(r, "Id")
	id, ok := utilities.ParseEntryID(rawID)
	if !ok {
		// the stored id stays as is; only this in-memory copy gets a new one
		id = utilities.NewEntryID()
	}

	g := entity.Game{
		ID:              id,
		Name:            stringField(r, "Name"),
		AlternativeName: stringField(r, "AlternativeName"),
		Version:         stringField(r, "Version"),
		Description:     stringField(r, "Description"),
		Genre:           stringField(r, "Genre"),
		Platform:        stringField(r, "Platform"),
		Names:           namesField(r, "Names"),
		SortOrder:       intField(r, "SortOrder"),
		LibraryPath:     stringField(r, "LibraryPath"),
		GameFolder:      stringField(r, "GameFolder"),
		ExecutablePath:  stringField(r, "ExecutablePath"),
		Path:            stringField(r, "Path"),
		IconPath:        stringField(r, "IconPath"),
		CoverPath:       stringField(r, "CoverPath"),
		Screenshot1:     stringField(r, "Screenshot1"),
		Screenshot2:     stringField(r, "Screenshot2"),
		Screenshot3:     stringField(r, "Screenshot3"),
		Screenshot4:     stringField(r, "Screenshot4"),
		Level:           entity.LevelFromInt(intField(r, "Level")),
		PlayTimeMinutes: intField(r, "PlayTime"),
		Installed:       boolField(r, "IsInstalled"),
	}

	lastPlayed, err := timeField(r, "LastPlayed", time.Local, lastPlayedLayouts)
	if err != nil {
		return entity.Game{}, &RowError{ID: rawID, Column: "LastPlayed", Err: err}
	}
	if lastPlayed != nil {
		utc := lastPlayed.UTC()
		g.LastPlayed = &utc
	}

	releaseDate, err := timeField(r, "ReleaseDate", time.UTC, releaseDateLayouts)
	if err != nil {
		return entity.Game{}, &RowError{ID: rawID, Column: "ReleaseDate", Err: err}
	}
	switch {
	case releaseDate != nil:
		d := time.Date(releaseDate.Year(), releaseDate.Month(), releaseDate.Day(), 0, 0, 0, 0, time.UTC)
		g.ReleaseDate = &d
	case intField(r, "ReleaseYear") > 0:
		g.SetReleaseYear(intField(r, "ReleaseYear"))
	}
	return g, nil
}
