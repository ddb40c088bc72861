package database

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const (
	// DriverName is the database/sql driver registered by modernc.org/sqlite.
	DriverName = "sqlite"

	// AppDirName is the per-user directory that holds the catalog file.
	AppDirName = "YunGame"
	// FileName is the fixed catalog file name inside AppDirName.
	FileName = "games.db"
)

func init() {
	// sqlx does not know the modernc driver name; it uses ? placeholders.
	sqlx.BindDriver(DriverName, sqlx.QUESTION)
}

type Config struct {
	Path        string
	MaxConns    int
	Timeout     time.Duration
	BusyTimeout time.Duration
}

// DefaultConfig returns settings for a single-user desktop catalog file.
func DefaultConfig(path string) Config {
	return Config{Path: path, MaxConns: 4, Timeout: 5 * time.Second, BusyTimeout: 5 * time.Second}
}

// ResolvePath returns the catalog file location. An empty path resolves to
// <user config dir>/YunGame/games.db. The parent directory is created when
// missing.
func ResolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("resolve user config dir: %w", err)
		}
		path = filepath.Join(base, AppDirName, FileName)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create data dir: %w", err)
	}
	return path, nil
}

// DSN builds a modernc sqlite URI for the given file with the session pragmas
// applied on every new connection. The path is percent-escaped so '#', '?'
// and '%' in directory names reach the driver unchanged.
func DSN(cfg Config) string {
	q := url.Values{}
	busy := cfg.BusyTimeout
	if busy <= 0 {
		busy = 5 * time.Second
	}
	q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", busy.Milliseconds()))
	q.Add("_pragma", "foreign_keys(1)")
	u := url.URL{Scheme: "file", OmitHost: true, Path: filepath.ToSlash(cfg.Path), RawQuery: q.Encode()}
	return u.String()
}

// Connect opens a *sqlx.DB on the catalog file and verifies it with a ping.
func Connect(cfg Config) (*sqlx.DB, error) {
	db, err := sqlx.Open(DriverName, DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	maxConns := cfg.MaxConns
	if maxConns <= 0 {
		maxConns = 1
	}
	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(maxConns)
	db.SetConnMaxLifetime(30 * time.Minute)

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return db, nil
}

// QuoteIdent wraps an identifier in double quotes so it can be used in DDL
// statements which don't accept parameter placeholders.
func QuoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
