// Package catalog is the local game catalog store: CRUD and listing over a
// single SQLite table that tolerates additive schema drift between
// versions.
package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/NemecSoft/YunGame/internal/catalog/entity"
	"github.com/NemecSoft/YunGame/internal/catalog/repo"
	"github.com/NemecSoft/YunGame/pkg/database"
	"github.com/NemecSoft/YunGame/pkg/utilities"
)

// Store owns the catalog file. It keeps no copies of entries between calls;
// every read goes to the database.
type Store struct {
	db       *sqlx.DB
	repo     *repo.GameRepo
	logger   *zap.SugaredLogger
	path     string
	warnings []error
	now      func() time.Time
}

// Open resolves the catalog file (default location when cfg.Path is empty),
// applies the schema and seeds sample entries into an empty catalog.
func Open(ctx context.Context, cfg database.Config, logger *zap.SugaredLogger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	path, err := database.ResolvePath(cfg.Path)
	if err != nil {
		return nil, initFailed(logger, "resolve path", err)
	}
	cfg.Path = path
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, initFailed(logger, "connect", err)
	}
	s := &Store{
		db:     db,
		repo:   repo.NewGameRepo(db),
		logger: logger.With("catalog", path),
		path:   path,
		now:    time.Now,
	}
	if err := s.init(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func initFailed(logger *zap.SugaredLogger, step string, err error) error {
	logger.Errorw("catalog init failed", "step", step, "err", err)
	return &InitError{Step: step, Err: err}
}

func (s *Store) init(ctx context.Context) error {
	warnings, err := s.repo.EnsureTable(ctx)
	for _, w := range warnings {
		s.logger.Warnw("catalog migration step failed", "table", w.Table, "column", w.Column, "err", w.Err)
		s.warnings = append(s.warnings, w)
	}
	if err != nil {
		return initFailed(s.logger, "ensure schema", err)
	}

	n, err := s.repo.Count(ctx)
	if err != nil {
		return initFailed(s.logger, "count", err)
	}
	if n > 0 {
		return nil
	}
	samples := SampleGames(s.now())
	for _, g := range samples {
		if err := s.repo.Create(ctx, g); err != nil {
			return initFailed(s.logger, "seed", err)
		}
	}
	s.logger.Infow("seeded empty catalog", "entries", len(samples))
	return nil
}

// Path is the resolved catalog file.
func (s *Store) Path() string { return s.path }

// MigrationWarnings lists the columns that could not be added on open.
func (s *Store) MigrationWarnings() []error {
	out := make([]error, len(s.warnings))
	copy(out, s.warnings)
	return out
}

// DB exposes the underlying handle for collaborators sharing the file.
func (s *Store) DB() *sqlx.DB { return s.db }

func (s *Store) Close() error { return s.db.Close() }

// normalize fills defaults before a write.
func normalize(g *entity.Game) error {
	if g == nil {
		return fmt.Errorf("%w: nil entry", ErrInvalidEntry)
	}
	if strings.TrimSpace(g.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidEntry)
	}
	if g.ID == uuid.Nil {
		g.ID = utilities.NewEntryID()
	}
	g.Level = entity.LevelFromInt(int(g.Level))
	if g.PlayTimeMinutes < 0 {
		g.PlayTimeMinutes = 0
	}
	return nil
}

// Create inserts g. A zero id is replaced with a fresh one. Names are not
// unique; only the id is.
func (s *Store) Create(ctx context.Context, g *entity.Game) error {
	if err := normalize(g); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, g); err != nil {
		s.logger.Errorw("create entry failed", "id", g.ID, "err", err)
		return &StorageError{Op: "create", ID: g.ID.String(), Err: err}
	}
	s.logger.Debugw("entry created", "id", g.ID, "name", g.Name)
	return nil
}

// GetByID returns the entry with id. The bool is false when there is none.
func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (entity.Game, bool, error) {
	g, found, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Errorw("get entry failed", "id", id, "err", err)
		return entity.Game{}, false, err
	}
	return g, found, nil
}

// ListAll returns every readable entry in storage order. Unreadable rows are
// logged and skipped.
func (s *Store) ListAll(ctx context.Context) ([]entity.Game, error) {
	return s.list(ctx, false)
}

// ListAllSorted returns every readable entry ordered by SortOrder, then by
// Name using byte-wise (case-sensitive) comparison.
func (s *Store) ListAllSorted(ctx context.Context) ([]entity.Game, error) {
	return s.list(ctx, true)
}

func (s *Store) list(ctx context.Context, sorted bool) ([]entity.Game, error) {
	games, skipped, err := s.repo.List(ctx, sorted)
	for _, e := range skipped {
		s.logger.Warnw("skipping unreadable catalog row", "err", e)
	}
	if err != nil {
		s.logger.Errorw("list entries failed", "sorted", sorted, "err", err)
		return nil, fmt.Errorf("list entries: %w", err)
	}
	if games == nil {
		games = []entity.Game{}
	}
	return games, nil
}

// Update overwrites every field of the stored entry with g.ID. Updating an
// id that is not stored does nothing.
func (s *Store) Update(ctx context.Context, g *entity.Game) error {
	if err := normalize(g); err != nil {
		return err
	}
	n, err := s.repo.Update(ctx, g)
	if err != nil {
		s.logger.Errorw("update entry failed", "id", g.ID, "err", err)
		return &StorageError{Op: "update", ID: g.ID.String(), Err: err}
	}
	if n == 0 {
		s.logger.Debugw("update matched no entry", "id", g.ID)
	}
	return nil
}

// Delete removes the entry with id, if any.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Errorw("delete entry failed", "id", id, "err", err)
		return &StorageError{Op: "delete", ID: id.String(), Err: err}
	}
	return nil
}

// Count returns the number of stored rows, readable or not.
func (s *Store) Count(ctx context.Context) (int, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}
	return n, nil
}
