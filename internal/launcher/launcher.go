// Package launcher starts a catalog entry's executable and records when and
// for how long it was played.
package launcher

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/NemecSoft/YunGame/internal/access"
	"github.com/NemecSoft/YunGame/internal/catalog/entity"
	"github.com/NemecSoft/YunGame/pkg/utilities"
)

var (
	ErrNotFound     = errors.New("game not found")
	ErrNotInstalled = errors.New("game not installed")
	ErrAccessDenied = errors.New("user level too low for game")
	ErrNoExecutable = errors.New("no executable path for game")
)

// Catalog is the part of the catalog store the launcher needs.
type Catalog interface {
	GetByID(ctx context.Context, id uuid.UUID) (entity.Game, bool, error)
	Update(ctx context.Context, g *entity.Game) error
}

// Finder resolves a game folder against the library roots.
type Finder interface {
	FindExecutable(ctx context.Context, folder, exe string) (string, error)
}

// Process is a started game.
type Process interface {
	Wait() error
}

// Starter starts the executable at path.
type Starter interface {
	Start(ctx context.Context, path string) (Process, error)
}

// ExecStarter runs games as child processes in their own directory. The
// process is not bound to ctx so it outlives the caller.
type ExecStarter struct{}

func (ExecStarter) Start(_ context.Context, path string) (Process, error) {
	cmd := exec.Command(path)
	cmd.Dir = filepath.Dir(path)
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return cmd, nil
}

// Session is one launch of one game.
type Session struct {
	ID        string
	GameID    uuid.UUID
	Path      string
	StartedAt time.Time
	proc      Process
}

type Launcher struct {
	games   Catalog
	finder  Finder
	starter Starter
	logger  *zap.SugaredLogger
	now     func() time.Time
}

// New builds a Launcher. finder may be nil when no library roots are used;
// starter defaults to ExecStarter.
func New(games Catalog, finder Finder, starter Starter, logger *zap.SugaredLogger) *Launcher {
	if starter == nil {
		starter = ExecStarter{}
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Launcher{games: games, finder: finder, starter: starter, logger: logger, now: time.Now}
}

// Launch starts the game with id on behalf of user and stamps LastPlayed.
func (l *Launcher) Launch(ctx context.Context, id uuid.UUID, user access.UserLevel) (*Session, error) {
	g, found, err := l.games.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load game: %w", err)
	}
	if !found {
		return nil, ErrNotFound
	}
	if !g.Installed {
		return nil, ErrNotInstalled
	}
	if !access.CanPlay(user, g.Level) {
		return nil, fmt.Errorf("%w: user %s, game %s", ErrAccessDenied, user, g.Level)
	}
	path, err := l.resolve(ctx, &g)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return nil, ErrNoExecutable
	}

	proc, err := l.starter.Start(ctx, path)
	if err != nil {
		l.logger.Warnw("launch failed", "id", id, "path", path, "err", err)
		return nil, fmt.Errorf("start %s: %w", path, err)
	}
	started := l.now().UTC()
	s := &Session{ID: utilities.NewKSUID(), GameID: id, Path: path, StartedAt: started, proc: proc}
	l.logger.Infow("game launched", "session", s.ID, "id", id, "name", g.Name, "path", path)

	g.LastPlayed = &started
	if err := l.games.Update(ctx, &g); err != nil {
		// the process is already running; the timestamp is best effort
		l.logger.Warnw("record last played failed", "id", id, "err", err)
	}
	return s, nil
}

func (l *Launcher) resolve(ctx context.Context, g *entity.Game) (string, error) {
	if p := g.EffectivePath(); p != "" {
		return p, nil
	}
	if g.GameFolder == "" || l.finder == nil {
		return "", nil
	}
	p, err := l.finder.FindExecutable(ctx, g.GameFolder, g.ExecutablePath)
	if err != nil {
		return "", fmt.Errorf("search library roots: %w", err)
	}
	return p, nil
}

// Wait blocks until the session's process exits, then adds the elapsed
// whole minutes to the game's play time. A non-zero exit status is not an
// error.
func (l *Launcher) Wait(ctx context.Context, s *Session) (int, error) {
	done := make(chan error, 1)
	go func() { done <- s.proc.Wait() }()

	var werr error
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case werr = <-done:
	}
	var exitErr *exec.ExitError
	if werr != nil && !errors.As(werr, &exitErr) {
		return 0, fmt.Errorf("wait for game: %w", werr)
	}

	minutes := int(l.now().UTC().Sub(s.StartedAt) / time.Minute)
	l.logger.Infow("game exited", "session", s.ID, "id", s.GameID, "minutes", minutes, "exit", werr)
	if minutes <= 0 {
		return 0, nil
	}
	g, found, err := l.games.GetByID(ctx, s.GameID)
	if err != nil {
		return minutes, fmt.Errorf("reload game: %w", err)
	}
	if !found {
		// deleted while running
		return minutes, nil
	}
	g.PlayTimeMinutes += minutes
	if err := l.games.Update(ctx, &g); err != nil {
		return minutes, fmt.Errorf("record play time: %w", err)
	}
	return minutes, nil
}
