package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/NemecSoft/YunGame/internal/access"
	"github.com/NemecSoft/YunGame/internal/catalog"
	"github.com/NemecSoft/YunGame/internal/config"
	"github.com/NemecSoft/YunGame/internal/launcher"
	"github.com/NemecSoft/YunGame/internal/library"
	"github.com/NemecSoft/YunGame/internal/setting"
	settingrepo "github.com/NemecSoft/YunGame/internal/setting/repo"
	"github.com/NemecSoft/YunGame/pkg/utilities"
)

var errNotAllowed = errors.New("not allowed")

// app holds what every command needs. It is filled in by setup before any
// subcommand runs.
type app struct {
	configPath string
	dbPath     string
	modeFlag   string

	logger   *zap.Logger
	sugar    *zap.SugaredLogger
	store    *catalog.Store
	library  *library.Service
	launcher *launcher.Launcher
	user     access.UserLevel
	mode     access.Mode
}

func (a *app) root() *cobra.Command {
	root := &cobra.Command{
		Use:   "yungame",
		Short: "Local game catalog",
		Long: `yungame keeps a catalog of locally installed games in a single SQLite file
and launches them.

Without --db the catalog lives in the per-user config directory. An empty
catalog is seeded with a few sample entries on first open.`,
		PersistentPreRunE: a.setup,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default is ./config.yaml when present)")
	root.PersistentFlags().StringVar(&a.dbPath, "db", "", "catalog file (overrides config and YUNGAME_DB_PATH)")
	root.PersistentFlags().StringVar(&a.modeFlag, "mode", "", "application mode: play or manage")

	root.AddCommand(
		a.listCommand(),
		a.showCommand(),
		a.addCommand(),
		a.editCommand(),
		a.removeCommand(),
		a.countCommand(),
		a.launchCommand(),
		a.rootsCommand(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.dbPath != "" {
		cfg.DatabasePath = a.dbPath
	}
	if a.modeFlag != "" {
		if _, err := access.ParseMode(a.modeFlag); err != nil {
			return err
		}
		cfg.Mode = a.modeFlag
	}
	a.user, a.mode = cfg.Access()

	lg, err := utilities.Init(cfg.Logger())
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	a.logger = lg
	a.sugar = lg.Sugar()

	ctx := cmd.Context()
	store, err := catalog.Open(ctx, cfg.Database(), a.sugar)
	if err != nil {
		return err
	}
	a.store = store

	settings := settingrepo.NewRepo(store.DB())
	if err := settings.EnsureTable(ctx); err != nil {
		return fmt.Errorf("ensure settings table: %w", err)
	}
	a.library = library.NewService(setting.NewService(settings), cfg.LibraryRoots, a.sugar)
	a.launcher = launcher.New(store, a.library, nil, a.sugar)
	a.sugar.Debugw("ready", "catalog", store.Path(), "user", a.user, "mode", a.mode)
	return nil
}

// require fails unless the current mode permits action.
func (a *app) require(action access.Action, what string) error {
	if access.CanPerform(a.mode, action) {
		return nil
	}
	return fmt.Errorf("%w: %s in %s mode", errNotAllowed, what, a.mode)
}

func (a *app) close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil && a.sugar != nil {
			a.sugar.Warnf("close catalog: %v", err)
		}
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}
