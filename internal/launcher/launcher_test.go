package launcher

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NemecSoft/YunGame/internal/access"
	"github.com/NemecSoft/YunGame/internal/catalog/entity"
)

type fakeCatalog struct {
	games     map[uuid.UUID]entity.Game
	updates   int
	updateErr error
}

func newFakeCatalog(games ...*entity.Game) *fakeCatalog {
	c := &fakeCatalog{games: map[uuid.UUID]entity.Game{}}
	for _, g := range games {
		c.games[g.ID] = *g
	}
	return c
}

func (c *fakeCatalog) GetByID(_ context.Context, id uuid.UUID) (entity.Game, bool, error) {
	g, ok := c.games[id]
	return g, ok, nil
}

func (c *fakeCatalog) Update(_ context.Context, g *entity.Game) error {
	c.updates++
	if c.updateErr != nil {
		return c.updateErr
	}
	if _, ok := c.games[g.ID]; ok {
		c.games[g.ID] = *g
	}
	return nil
}

type fakeFinder struct{ path string }

func (f fakeFinder) FindExecutable(context.Context, string, string) (string, error) {
	return f.path, nil
}

type fakeProcess struct {
	exit chan error
}

func (p *fakeProcess) Wait() error { return <-p.exit }

type fakeStarter struct {
	started []string
	proc    *fakeProcess
	err     error
}

func (s *fakeStarter) Start(_ context.Context, path string) (Process, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.started = append(s.started, path)
	return s.proc, nil
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func installedGame(path string) *entity.Game {
	g := entity.NewGame("Celeste")
	g.Path = path
	g.Installed = true
	return g
}

func newTestLauncher(c Catalog, f Finder, s Starter, clk *clock) *Launcher {
	l := New(c, f, s, nil)
	l.now = clk.now
	return l
}

func TestLaunchRecordsLastPlayed(t *testing.T) {
	ctx := context.Background()
	g := installedGame("/games/celeste/Celeste")
	cat := newFakeCatalog(g)
	starter := &fakeStarter{proc: &fakeProcess{exit: make(chan error, 1)}}
	clk := &clock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}

	s, err := newTestLauncher(cat, nil, starter, clk).Launch(ctx, g.ID, access.UserNormal)
	require.NoError(t, err)
	assert.Equal(t, []string{"/games/celeste/Celeste"}, starter.started)
	assert.Equal(t, g.ID, s.GameID)
	assert.NotEmpty(t, s.ID)

	stored := cat.games[g.ID]
	require.NotNil(t, stored.LastPlayed)
	assert.Equal(t, clk.t, *stored.LastPlayed)
}

func TestLaunchRefusals(t *testing.T) {
	ctx := context.Background()
	notInstalled := entity.NewGame("Zelda")
	hard := installedGame("/games/sekiro")
	hard.Level = entity.LevelExpert
	noPath := installedGame("")
	cat := newFakeCatalog(notInstalled, hard, noPath)
	starter := &fakeStarter{proc: &fakeProcess{}}
	l := newTestLauncher(cat, nil, starter, &clock{})

	_, err := l.Launch(ctx, uuid.New(), access.UserAdmin)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = l.Launch(ctx, notInstalled.ID, access.UserAdmin)
	assert.ErrorIs(t, err, ErrNotInstalled)
	_, err = l.Launch(ctx, hard.ID, access.UserPremium)
	assert.ErrorIs(t, err, ErrAccessDenied)
	_, err = l.Launch(ctx, noPath.ID, access.UserAdmin)
	assert.ErrorIs(t, err, ErrNoExecutable)

	assert.Empty(t, starter.started)
	assert.Zero(t, cat.updates)
}

func TestLaunchUsesFinderForFolderOnlyEntries(t *testing.T) {
	ctx := context.Background()
	g := installedGame("")
	g.GameFolder = "Celeste"
	g.ExecutablePath = "Celeste"
	cat := newFakeCatalog(g)
	starter := &fakeStarter{proc: &fakeProcess{}}

	l := newTestLauncher(cat, fakeFinder{path: "/lib/Celeste/Celeste"}, starter, &clock{})
	_, err := l.Launch(ctx, g.ID, access.UserNormal)
	require.NoError(t, err)
	assert.Equal(t, []string{"/lib/Celeste/Celeste"}, starter.started)
}

func TestLaunchStartFailure(t *testing.T) {
	g := installedGame("/x")
	cat := newFakeCatalog(g)
	boom := errors.New("exec format error")
	l := newTestLauncher(cat, nil, &fakeStarter{err: boom}, &clock{})

	_, err := l.Launch(context.Background(), g.ID, access.UserNormal)
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, cat.games[g.ID].LastPlayed)
}

func TestLaunchSurvivesFailedTimestamp(t *testing.T) {
	g := installedGame("/x")
	cat := newFakeCatalog(g)
	cat.updateErr = errors.New("disk full")
	l := newTestLauncher(cat, nil, &fakeStarter{proc: &fakeProcess{}}, &clock{})

	s, err := l.Launch(context.Background(), g.ID, access.UserNormal)
	require.NoError(t, err)
	assert.NotNil(t, s)
}

func TestWaitAddsPlayTime(t *testing.T) {
	ctx := context.Background()
	g := installedGame("/x")
	g.PlayTimeMinutes = 10
	cat := newFakeCatalog(g)
	proc := &fakeProcess{exit: make(chan error, 1)}
	clk := &clock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	l := newTestLauncher(cat, nil, &fakeStarter{proc: proc}, clk)

	s, err := l.Launch(ctx, g.ID, access.UserNormal)
	require.NoError(t, err)

	clk.t = clk.t.Add(95 * time.Minute)
	proc.exit <- nil
	minutes, err := l.Wait(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, 95, minutes)
	assert.Equal(t, 105, cat.games[g.ID].PlayTimeMinutes)
}

func TestWaitShortSessionRecordsNothing(t *testing.T) {
	ctx := context.Background()
	g := installedGame("/x")
	cat := newFakeCatalog(g)
	proc := &fakeProcess{exit: make(chan error, 1)}
	clk := &clock{t: time.Now()}
	l := newTestLauncher(cat, nil, &fakeStarter{proc: proc}, clk)

	s, err := l.Launch(ctx, g.ID, access.UserNormal)
	require.NoError(t, err)
	updates := cat.updates

	clk.t = clk.t.Add(30 * time.Second)
	proc.exit <- nil
	minutes, err := l.Wait(ctx, s)
	require.NoError(t, err)
	assert.Zero(t, minutes)
	assert.Equal(t, updates, cat.updates)
}

func TestWaitProcessError(t *testing.T) {
	ctx := context.Background()
	g := installedGame("/x")
	cat := newFakeCatalog(g)
	proc := &fakeProcess{exit: make(chan error, 1)}
	l := newTestLauncher(cat, nil, &fakeStarter{proc: proc}, &clock{})

	s, err := l.Launch(ctx, g.ID, access.UserNormal)
	require.NoError(t, err)
	proc.exit <- errors.New("wait: no child processes")
	_, err = l.Wait(ctx, s)
	assert.Error(t, err)
}

func TestWaitHonorsContext(t *testing.T) {
	g := installedGame("/x")
	cat := newFakeCatalog(g)
	proc := &fakeProcess{exit: make(chan error)}
	l := newTestLauncher(cat, nil, &fakeStarter{proc: proc}, &clock{})

	s, err := l.Launch(context.Background(), g.ID, access.UserNormal)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = l.Wait(ctx, s)
	assert.ErrorIs(t, err, context.Canceled)
	close(proc.exit)
}
