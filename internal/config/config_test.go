package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NemecSoft/YunGame/internal/access"
)

var envKeys = []string{
	"YUNGAME_DB_PATH", "YUNGAME_BUSY_TIMEOUT_MS", "LOG_LEVEL", "LOG_DEV", "LOGS_DIR",
	"YUNGAME_USER_LEVEL", "YUNGAME_MODE", "YUNGAME_LIBRARY_ROOTS",
}

// clearEnv blanks every variable Load reads and moves into an empty
// directory so no config.yaml is picked up.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "yungame.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.DatabasePath)

	u, m := cfg.Access()
	assert.Equal(t, access.UserNormal, u)
	assert.Equal(t, access.ModePlay, m)

	db := cfg.Database()
	assert.Equal(t, 5*time.Second, db.BusyTimeout)
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	p := writeConfig(t, `
databasePath: /data/games.db
busyTimeoutMs: 250
logLevel: debug
logsDir: /var/log/yungame
userLevel: premium
mode: manage
libraryRoots:
  - /games
  - /mnt/games
`)
	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "/data/games.db", cfg.DatabasePath)
	assert.Equal(t, []string{"/games", "/mnt/games"}, cfg.LibraryRoots)
	assert.Equal(t, 250*time.Millisecond, cfg.Database().BusyTimeout)
	assert.Equal(t, "/var/log/yungame", cfg.Logger().Dir)

	u, m := cfg.Access()
	assert.Equal(t, access.UserPremium, u)
	assert.Equal(t, access.ModeManage, m)
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	p := writeConfig(t, "databasePath: /from/file.db\nmode: manage\n")
	t.Setenv("YUNGAME_DB_PATH", "/from/env.db")
	t.Setenv("YUNGAME_MODE", "play")
	t.Setenv("LOG_DEV", "true")
	t.Setenv("YUNGAME_LIBRARY_ROOTS", "/a"+string(os.PathListSeparator)+"/b")

	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "/from/env.db", cfg.DatabasePath)
	assert.Equal(t, "play", cfg.Mode)
	assert.True(t, cfg.LogDev)
	assert.Equal(t, []string{"/a", "/b"}, cfg.LibraryRoots)
}

func TestDefaultConfigFileIsRead(t *testing.T) {
	clearEnv(t)
	require.NoError(t, os.WriteFile(ConfigPath, []byte("userLevel: admin\n"), 0o644))
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "admin", cfg.UserLevel)
}

func TestLoadErrors(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err, "explicit file must exist")

	_, err = Load(writeConfig(t, "logLevel: [oops"))
	assert.Error(t, err)

	for _, body := range []string{
		"logLevel: loud\n",
		"userLevel: root\n",
		"mode: edit\n",
		"busyTimeoutMs: -1\n",
		"libraryRoots: ['']\n",
	} {
		_, err := Load(writeConfig(t, body))
		assert.Error(t, err, body)
	}
}

func TestBusyTimeoutEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("YUNGAME_BUSY_TIMEOUT_MS", "1500")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, cfg.Database().BusyTimeout)

	t.Setenv("YUNGAME_BUSY_TIMEOUT_MS", "soon")
	_, err = Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "YUNGAME_BUSY_TIMEOUT_MS")

	t.Setenv("YUNGAME_BUSY_TIMEOUT_MS", "-5")
	_, err = Load("")
	assert.Error(t, err)
}
