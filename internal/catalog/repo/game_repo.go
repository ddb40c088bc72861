package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/NemecSoft/YunGame/internal/catalog/entity"
)

// writeColumns are written by both insert and update. Id is handled apart.
var writeColumns = []string{
	"Name", "Names", "SortOrder", "AlternativeName", "Version", "Description",
	"Path", "LibraryPath", "GameFolder", "ExecutablePath", "IconPath", "CoverPath",
	"Screenshot1", "Screenshot2", "Screenshot3", "Screenshot4",
	"Genre", "Platform", "Level", "ReleaseYear", "ReleaseDate",
	"PlayTime", "LastPlayed", "IsInstalled",
}

var (
	insertGameSQL = buildInsert()
	updateGameSQL = buildUpdate()
)

func buildInsert() string {
	cols := append([]string{"Id"}, writeColumns...)
	params := make([]string, len(cols))
	for i, c := range cols {
		params[i] = ":" + c
	}
	return "INSERT INTO Games (" + strings.Join(cols, ", ") + ") VALUES (" + strings.Join(params, ", ") + ")"
}

func buildUpdate() string {
	sets := make([]string, len(writeColumns))
	for i, c := range writeColumns {
		sets[i] = c + " = :" + c
	}
	return "UPDATE Games SET " + strings.Join(sets, ", ") + " WHERE Id = :Id"
}

// GameRepo provides data access for the Games table using sqlx. Every call
// runs on its own connection which is released before returning.
type GameRepo struct {
	db *sqlx.DB
}

func NewGameRepo(db *sqlx.DB) *GameRepo { return &GameRepo{db: db} }

func (r *GameRepo) withConn(ctx context.Context, fn func(*sqlx.Conn) error) error {
	conn, err := r.db.Connx(ctx)
	if err != nil {
		return fmt.Errorf("acquire conn: %w", err)
	}
	defer conn.Close()
	return fn(conn)
}

// gameParams normalizes g into column values. Nothing is written as NULL.
func gameParams(g *entity.Game) (map[string]any, error) {
	names, err := json.Marshal(g.Names)
	if err != nil {
		return nil, fmt.Errorf("encode names: %w", err)
	}
	releaseDate := ""
	if g.ReleaseDate != nil {
		releaseDate = g.ReleaseDate.Format(dateLayout)
	}
	lastPlayed := ""
	if g.LastPlayed != nil {
		lastPlayed = g.LastPlayed.UTC().Format(time.RFC3339Nano)
	}
	installed := 0
	if g.Installed {
		installed = 1
	}
	return map[string]any{
		"Id":              g.ID.String(),
		"Name":            g.Name,
		"Names":           string(names),
		"SortOrder":       g.SortOrder,
		"AlternativeName": g.AlternativeName,
		"Version":         g.Version,
		"Description":     g.Description,
		"Path":            g.Path,
		"LibraryPath":     g.LibraryPath,
		"GameFolder":      g.GameFolder,
		"ExecutablePath":  g.ExecutablePath,
		"IconPath":        g.IconPath,
		"CoverPath":       g.CoverPath,
		"Screenshot1":     g.Screenshot1,
		"Screenshot2":     g.Screenshot2,
		"Screenshot3":     g.Screenshot3,
		"Screenshot4":     g.Screenshot4,
		"Genre":           g.Genre,
		"Platform":        g.Platform,
		"Level":           int(entity.LevelFromInt(int(g.Level))),
		"ReleaseYear":     g.ReleaseYear(),
		"ReleaseDate":     releaseDate,
		"PlayTime":        g.PlayTimeMinutes,
		"LastPlayed":      lastPlayed,
		"IsInstalled":     installed,
	}, nil
}

func (r *GameRepo) exec(ctx context.Context, query string, g *entity.Game) (int64, error) {
	params, err := gameParams(g)
	if err != nil {
		return 0, err
	}
	q, args, err := r.db.BindNamed(query, params)
	if err != nil {
		return 0, fmt.Errorf("bind params: %w", err)
	}
	var affected int64
	err = r.withConn(ctx, func(conn *sqlx.Conn) error {
		res, err := conn.ExecContext(ctx, q, args...)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	return affected, err
}

// Create inserts a new row.
func (r *GameRepo) Create(ctx context.Context, g *entity.Game) error {
	_, err := r.exec(ctx, insertGameSQL, g)
	return err
}

// Update overwrites every column of the row with g.ID and returns the
// number of rows affected.
func (r *GameRepo) Update(ctx context.Context, g *entity.Game) (int64, error) {
	return r.exec(ctx, updateGameSQL, g)
}

// Delete removes the row with id and returns the number of rows affected.
func (r *GameRepo) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	var affected int64
	err := r.withConn(ctx, func(conn *sqlx.Conn) error {
		res, err := conn.ExecContext(ctx, `DELETE FROM Games WHERE Id = ?`, id.String())
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	return affected, err
}

// GetByID returns the row with id. found is false when no row matches; a
// row that fails to decode is returned as *RowError.
func (r *GameRepo) GetByID(ctx context.Context, id uuid.UUID) (g entity.Game, found bool, err error) {
	err = r.withConn(ctx, func(conn *sqlx.Conn) error {
		rows, err := conn.QueryxContext(ctx, `SELECT * FROM Games WHERE Id = ?`, id.String())
		if err != nil {
			return err
		}
		defer rows.Close()
		if !rows.Next() {
			return rows.Err()
		}
		m := row{}
		if err := rows.MapScan(m); err != nil {
			return &RowError{ID: id.String(), Column: "*", Err: err}
		}
		g, err = decodeGame(m)
		if err != nil {
			return err
		}
		found = true
		return nil
	})
	if err != nil {
		return entity.Game{}, false, err
	}
	return g, found, nil
}

// List returns every decodable row, in storage order or sorted by
// SortOrder then Name (BINARY collation). Rows that fail to decode are
// left out and reported in skipped.
func (r *GameRepo) List(ctx context.Context, sorted bool) (games []entity.Game, skipped []error, err error) {
	q := `SELECT * FROM Games`
	if sorted {
		q += ` ORDER BY COALESCE(SortOrder, 0) ASC, COALESCE(Name, '') ASC`
	}
	err = r.withConn(ctx, func(conn *sqlx.Conn) error {
		rows, err := conn.QueryxContext(ctx, q)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			m := row{}
			if err := rows.MapScan(m); err != nil {
				skipped = append(skipped, &RowError{Column: "*", Err: err})
				continue
			}
			g, err := decodeGame(m)
			if err != nil {
				skipped = append(skipped, err)
				continue
			}
			games = append(games, g)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, skipped, err
	}
	return games, skipped, nil
}

// Count returns the number of rows.
func (r *GameRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.withConn(ctx, func(conn *sqlx.Conn) error {
		return conn.GetContext(ctx, &n, `SELECT COUNT(*) FROM Games`)
	})
	return n, err
}
