package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/NemecSoft/YunGame/internal/setting/entity"
)

// Repo is the repository implementation for settings backed by the catalog
// SQLite file.
type Repo struct {
	db *sqlx.DB
}

// NewRepo constructs a new Repo with an existing *sqlx.DB connection.
func NewRepo(db *sqlx.DB) *Repo {
	return &Repo{db: db}
}

type settingRow struct {
	ID         string `db:"id"`
	ParentID   string `db:"parent_id"`
	RootID     string `db:"root_id"`
	RecordMeta string `db:"record_meta"`
	Category   string `db:"category"`
	Metadata   string `db:"metadata"`
}

func (r settingRow) toEntity() *entity.Setting {
	return &entity.Setting{
		ID:         r.ID,
		ParentID:   r.ParentID,
		RootID:     r.RootID,
		RecordMeta: json.RawMessage(r.RecordMeta),
		Category:   r.Category,
		Metadata:   json.RawMessage(r.Metadata),
	}
}

const selectSettings = `SELECT id, COALESCE(parent_id, '') AS parent_id, COALESCE(root_id, '') AS root_id,
	COALESCE(record_meta, '{}') AS record_meta, COALESCE(category, '') AS category,
	COALESCE(metadata, '{}') AS metadata FROM settings`

func (r *Repo) exists(ctx context.Context, kind, name string) (bool, error) {
	var found string
	err := r.db.QueryRowContext(ctx, `SELECT name FROM sqlite_master WHERE type = ? AND name = ?`, kind, name).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// EnsureTable ensures the settings table and its indexes exist.
// Fields:
// - id TEXT PRIMARY KEY
// - record_meta TEXT (JSON)
// - category TEXT (indexed)
// - metadata TEXT (JSON)
func (r *Repo) EnsureTable(ctx context.Context) error {
	ok, err := r.exists(ctx, "table", "settings")
	if err != nil {
		return err
	}
	if !ok {
		createTable := `CREATE TABLE settings (
			id TEXT PRIMARY KEY,
			parent_id TEXT DEFAULT '',
			root_id TEXT DEFAULT '',
			record_meta TEXT DEFAULT '{}',
			category TEXT DEFAULT '',
			metadata TEXT DEFAULT '{}'
		)`
		if _, err := r.db.ExecContext(ctx, createTable); err != nil {
			return err
		}
	}

	indexes := map[string]string{
		"idx_settings_category":  `CREATE INDEX idx_settings_category ON settings (category)`,
		"idx_settings_parent_id": `CREATE INDEX idx_settings_parent_id ON settings (parent_id)`,
	}
	for name, ddl := range indexes {
		ok, err := r.exists(ctx, "index", name)
		if err != nil {
			return err
		}
		if ok {
			continue
		}
		if _, err := r.db.ExecContext(ctx, ddl); err != nil {
			return err
		}
	}
	return nil
}

// List returns settings of category (all when empty) in insertion order.
func (r *Repo) List(ctx context.Context, category string) ([]*entity.Setting, error) {
	q := selectSettings
	args := []any{}
	if category != "" {
		q += ` WHERE category = ?`
		args = append(args, category)
	}
	q += ` ORDER BY rowid`
	var rows []settingRow
	if err := r.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, err
	}
	out := make([]*entity.Setting, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}

// GetByID returns the setting or sql.ErrNoRows.
func (r *Repo) GetByID(ctx context.Context, id string) (*entity.Setting, error) {
	var row settingRow
	if err := r.db.GetContext(ctx, &row, selectSettings+` WHERE id = ?`, id); err != nil {
		return nil, err
	}
	return row.toEntity(), nil
}

// Create inserts a setting row.
func (r *Repo) Create(ctx context.Context, s *entity.Setting) error {
	q := `INSERT INTO settings (id, parent_id, root_id, record_meta, category, metadata)
		VALUES (:id, :parent_id, :root_id, :record_meta, :category, :metadata)`
	params := map[string]any{
		"id":          s.ID,
		"parent_id":   s.ParentID,
		"root_id":     s.RootID,
		"record_meta": string(s.RecordMeta),
		"category":    s.Category,
		"metadata":    string(s.Metadata),
	}
	_, err := r.db.NamedExecContext(ctx, q, params)
	return err
}

// Delete removes a setting and returns the affected row count.
func (r *Repo) Delete(ctx context.Context, id string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM settings WHERE id = ?`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
