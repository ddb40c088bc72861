package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NemecSoft/YunGame/internal/catalog/entity"
)

func setupCLI(t *testing.T) string {
	t.Helper()
	for _, k := range []string{"YUNGAME_DB_PATH", "YUNGAME_BUSY_TIMEOUT_MS", "LOG_DEV", "LOGS_DIR", "YUNGAME_USER_LEVEL", "YUNGAME_MODE", "YUNGAME_LIBRARY_ROOTS"} {
		t.Setenv(k, "")
	}
	t.Setenv("LOG_LEVEL", "error")
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return filepath.Join(t.TempDir(), "games.db")
}

func run(t *testing.T, db string, args ...string) (string, error) {
	t.Helper()
	a := &app{}
	root := a.root()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--db", db}, args...))
	err := root.ExecuteContext(context.Background())
	a.close()
	return out.String(), err
}

func TestCountSeededCatalog(t *testing.T) {
	db := setupCLI(t)
	out, err := run(t, db, "count")
	require.NoError(t, err)
	assert.Equal(t, "4\n", out)
}

func TestListTable(t *testing.T) {
	db := setupCLI(t)
	out, err := run(t, db, "list", "--sorted")
	require.NoError(t, err)
	assert.Contains(t, strings.ToUpper(out), "LAST PLAYED")
	assert.Contains(t, out, "赛博朋克 2077")
	assert.Less(t, strings.Index(out, "赛博朋克 2077"), strings.Index(out, "只狼: 影逝二度"))
}

func TestPlayModeIsReadOnly(t *testing.T) {
	db := setupCLI(t)
	_, err := run(t, db, "add", "Celeste")
	assert.ErrorIs(t, err, errNotAllowed)

	_, err = run(t, db, "roots", "add", "/games")
	assert.ErrorIs(t, err, errNotAllowed)

	_, err = run(t, db, "list", "--mode", "sideways")
	assert.Error(t, err)
}

func TestAddShowEditRemove(t *testing.T) {
	db := setupCLI(t)

	out, err := run(t, db, "--mode", "manage", "add", "Hollow Knight",
		"--genre", "Metroidvania", "--names", "HK,空洞骑士", "--level", "intermediate",
		"--year", "2017", "--installed", "--library", "/games", "--exe", "hollow_knight")
	require.NoError(t, err)
	id := strings.TrimSpace(out)
	require.NotEmpty(t, id)

	out, err = run(t, db, "show", id, "--json")
	require.NoError(t, err)
	var g entity.Game
	require.NoError(t, json.Unmarshal([]byte(out), &g))
	assert.Equal(t, "Hollow Knight", g.Name)
	assert.Equal(t, "hollow-knight", g.GameFolder)
	assert.Equal(t, []string{"HK", "空洞骑士"}, g.Names.Values())
	assert.Equal(t, entity.LevelIntermediate, g.Level)
	assert.Equal(t, 2017, g.ReleaseYear())
	assert.True(t, g.Installed)
	assert.Equal(t, filepath.Join("/games", "hollow-knight", "hollow_knight"), g.EffectivePath())

	_, err = run(t, db, "--mode", "manage", "edit", id, "--name", "Hollow Knight: Voidheart", "--sort=-1", "--screenshots", "a.png,b.png")
	require.NoError(t, err)

	out, err = run(t, db, "list", "--sorted", "--json")
	require.NoError(t, err)
	var games []entity.Game
	require.NoError(t, json.Unmarshal([]byte(out), &games))
	require.Len(t, games, 5)
	assert.Equal(t, "Hollow Knight: Voidheart", games[0].Name)
	assert.Equal(t, "Metroidvania", games[0].Genre, "untouched fields survive edit")
	assert.Equal(t, "b.png", games[0].Screenshot2)

	out, err = run(t, db, "show", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Hollow Knight: Voidheart")

	_, err = run(t, db, "--mode", "manage", "rm", id)
	require.NoError(t, err)
	_, err = run(t, db, "show", id)
	assert.ErrorIs(t, err, errGameNotFound)
}

func TestEditRejectsBadInput(t *testing.T) {
	db := setupCLI(t)
	_, err := run(t, db, "--mode", "manage", "edit", "not-an-id", "--name", "x")
	assert.Error(t, err)

	out, err := run(t, db, "list", "--json")
	require.NoError(t, err)
	var games []entity.Game
	require.NoError(t, json.Unmarshal([]byte(out), &games))
	id := games[0].ID.String()

	_, err = run(t, db, "--mode", "manage", "edit", id, "--level", "godlike")
	assert.Error(t, err)
	_, err = run(t, db, "--mode", "manage", "edit", id, "--screenshots", "1,2,3,4,5")
	assert.Error(t, err)
}

func TestRoots(t *testing.T) {
	db := setupCLI(t)
	lib := t.TempDir()

	_, err := run(t, db, "--mode", "manage", "roots", "add", lib)
	require.NoError(t, err)

	out, err := run(t, db, "roots")
	require.NoError(t, err)
	assert.Contains(t, out, lib)
	assert.Contains(t, out, "true")

	_, err = run(t, db, "--mode", "manage", "roots", "rm", lib)
	require.NoError(t, err)
	out, err = run(t, db, "roots")
	require.NoError(t, err)
	assert.NotContains(t, out, lib)
}
