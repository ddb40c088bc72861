package repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/NemecSoft/YunGame/pkg/database"
)

const (
	GamesTable = "Games"
	NamesTable = "GameNames"
)

// createGames is the base column set of the first catalog version. Later
// fields arrive through GameColumns.
const createGames = `
CREATE TABLE IF NOT EXISTS Games (
  Id TEXT PRIMARY KEY,
  Name TEXT NOT NULL,
  Names TEXT,
  SortOrder INTEGER DEFAULT 0,
  Description TEXT,
  Path TEXT,
  IconPath TEXT,
  CoverPath TEXT,
  Genre TEXT,
  ReleaseYear INTEGER,
  PlayTime INTEGER DEFAULT 0,
  LastPlayed TEXT,
  IsInstalled INTEGER DEFAULT 0,
  Platform TEXT
)`

// createGameNames is reserved for a normalized alternate-name relation. The
// CRUD surface still reads and writes the Names JSON column.
const createGameNames = `
CREATE TABLE IF NOT EXISTS GameNames (
  GameId TEXT NOT NULL,
  Name TEXT NOT NULL,
  PRIMARY KEY (GameId, Name)
)`

// Column is one additive schema step.
type Column struct {
	Name    string
	Type    string
	Default string // SQL literal, empty for none
}

func (c Column) definition() string {
	def := database.QuoteIdent(c.Name) + " " + c.Type
	if c.Default != "" {
		def += " DEFAULT " + c.Default
	}
	return def
}

// GameColumns lists every column added to Games after the base version, in
// the order they were introduced. Entries are only ever appended.
var GameColumns = []Column{
	{Name: "Names", Type: "TEXT", Default: "'[]'"},
	{Name: "SortOrder", Type: "INTEGER", Default: "0"},
	{Name: "AlternativeName", Type: "TEXT", Default: "''"},
	{Name: "Version", Type: "TEXT", Default: "''"},
	{Name: "LibraryPath", Type: "TEXT", Default: "''"},
	{Name: "GameFolder", Type: "TEXT", Default: "''"},
	{Name: "ExecutablePath", Type: "TEXT", Default: "''"},
	{Name: "Screenshot1", Type: "TEXT", Default: "''"},
	{Name: "Screenshot2", Type: "TEXT", Default: "''"},
	{Name: "Screenshot3", Type: "TEXT", Default: "''"},
	{Name: "Screenshot4", Type: "TEXT", Default: "''"},
	{Name: "Level", Type: "INTEGER", Default: "1"},
	{Name: "ReleaseDate", Type: "TEXT", Default: "''"},
}

// ColumnError reports a column that could not be added. It never aborts
// the remaining steps.
type ColumnError struct {
	Table  string
	Column string
	Err    error
}

func (e *ColumnError) Error() string {
	return fmt.Sprintf("add column %s.%s: %v", e.Table, e.Column, e.Err)
}

func (e *ColumnError) Unwrap() error { return e.Err }

// EnsureTable creates the Games and GameNames tables if they do not exist,
// then applies GameColumns. Table creation failures are returned as err;
// per-column failures are collected in warnings.
func (r *GameRepo) EnsureTable(ctx context.Context) (warnings []*ColumnError, err error) {
	err = r.withConn(ctx, func(conn *sqlx.Conn) error {
		if _, err := conn.ExecContext(ctx, createGames); err != nil {
			return fmt.Errorf("create %s: %w", GamesTable, err)
		}
		if _, err := conn.ExecContext(ctx, createGameNames); err != nil {
			return fmt.Errorf("create %s: %w", NamesTable, err)
		}
		warnings = ensureColumns(ctx, conn, GamesTable, GameColumns)
		return nil
	})
	return warnings, err
}

// EnsureColumns applies cols to table independently of each other.
func (r *GameRepo) EnsureColumns(ctx context.Context, table string, cols []Column) (warnings []*ColumnError, err error) {
	err = r.withConn(ctx, func(conn *sqlx.Conn) error {
		warnings = ensureColumns(ctx, conn, table, cols)
		return nil
	})
	return warnings, err
}

// Columns returns the column names of table in declaration order.
func (r *GameRepo) Columns(ctx context.Context, table string) ([]string, error) {
	var names []string
	err := r.withConn(ctx, func(conn *sqlx.Conn) error {
		var err error
		names, err = tableColumns(ctx, conn, table)
		return err
	})
	return names, err
}

func ensureColumns(ctx context.Context, conn *sqlx.Conn, table string, cols []Column) []*ColumnError {
	var failed []*ColumnError
	for _, c := range cols {
		if err := addColumnIfNotExists(ctx, conn, table, c); err != nil {
			failed = append(failed, &ColumnError{Table: table, Column: c.Name, Err: err})
		}
	}
	return failed
}

func addColumnIfNotExists(ctx context.Context, conn *sqlx.Conn, table string, c Column) error {
	existing, err := tableColumns(ctx, conn, table)
	if err != nil {
		return err
	}
	for _, name := range existing {
		// sqlite identifiers are case-insensitive
		if strings.EqualFold(name, c.Name) {
			return nil
		}
	}
	_, err = conn.ExecContext(ctx, "ALTER TABLE "+database.QuoteIdent(table)+" ADD COLUMN "+c.definition())
	return err
}

func tableColumns(ctx context.Context, conn *sqlx.Conn, table string) ([]string, error) {
	var names []string
	if err := conn.SelectContext(ctx, &names, `SELECT name FROM pragma_table_info(?)`, table); err != nil {
		return nil, fmt.Errorf("table info %s: %w", table, err)
	}
	return names, nil
}
