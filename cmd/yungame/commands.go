package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/NemecSoft/YunGame/internal/access"
	"github.com/NemecSoft/YunGame/internal/catalog/entity"
	"github.com/NemecSoft/YunGame/internal/library"
)

var errGameNotFound = errors.New("game not found")

func parseID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid game id %q: %w", s, err)
	}
	return id, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func (a *app) listCommand() *cobra.Command {
	var sorted, asJSON bool
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List catalog entries",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.require(access.ActionViewGameInfo, "list games"); err != nil {
				return err
			}
			list := a.store.ListAll
			if sorted {
				list = a.store.ListAllSorted
			}
			games, err := list(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), games)
			}
			rows := make([][]string, 0, len(games))
			for _, g := range games {
				rows = append(rows, []string{
					g.ID.String(), strconv.Itoa(g.SortOrder), g.Name, g.Level.String(),
					strconv.FormatBool(g.Installed), strconv.Itoa(g.PlayTimeMinutes), formatTime(g.LastPlayed),
				})
			}
			return renderTable(cmd.OutOrStdout(),
				[]string{"ID", "Sort", "Name", "Level", "Installed", "Played (min)", "Last played"}, rows)
		},
	}
	cmd.Flags().BoolVar(&sorted, "sorted", false, "order by sort order, then name")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func (a *app) showCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one catalog entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.require(access.ActionViewGameInfo, "show game"); err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			g, found, err := a.store.GetByID(cmd.Context(), id)
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("%w: %s", errGameNotFound, id)
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), g)
			}
			return printGame(cmd.OutOrStdout(), &g)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func printGame(w io.Writer, g *entity.Game) error {
	var rows [][]string
	row := func(k, v string) {
		if v != "" {
			rows = append(rows, []string{k, v})
		}
	}
	row("ID", g.ID.String())
	row("Name", g.Name)
	row("Alternative name", g.AlternativeName)
	row("Other names", strings.Join(g.Names.Values(), ", "))
	row("Version", g.Version)
	row("Genre", g.Genre)
	row("Platform", g.Platform)
	row("Level", g.Level.String())
	if y := g.ReleaseYear(); y > 0 {
		row("Release", g.ReleaseDate.Format("2006-01-02"))
	}
	row("Sort order", strconv.Itoa(g.SortOrder))
	row("Installed", strconv.FormatBool(g.Installed))
	row("Play time (min)", strconv.Itoa(g.PlayTimeMinutes))
	row("Last played", formatTime(g.LastPlayed))
	row("Launch path", g.EffectivePath())
	row("Icon", g.IconPath)
	row("Cover", g.CoverPath)
	for i, s := range []string{g.Screenshot1, g.Screenshot2, g.Screenshot3, g.Screenshot4} {
		row(fmt.Sprintf("Screenshot %d", i+1), s)
	}
	row("Description", g.Description)
	return renderTable(w, nil, rows)
}

// registerGameFlags adds the editable entry fields to cmd.
func registerGameFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("name", "", "display name")
	f.String("alt-name", "", "alternative name")
	f.StringSlice("names", nil, "other names, replaces the stored set")
	f.String("version", "", "version")
	f.String("description", "", "description")
	f.String("genre", "", "genre")
	f.String("platform", "", "platform")
	f.Int("sort", 0, "sort order")
	f.String("library", "", "library root")
	f.String("folder", "", "game folder inside the library root")
	f.String("exe", "", "executable relative to the game folder")
	f.String("path", "", "literal launch path, used when library or folder is blank")
	f.String("icon", "", "icon image path")
	f.String("cover", "", "cover image path")
	f.StringSlice("screenshots", nil, "up to four screenshot paths")
	f.String("level", "", "beginner, intermediate, advanced, expert or admin")
	f.Int("year", 0, "release year, 0 clears it")
	f.String("release-date", "", "release date as YYYY-MM-DD")
	f.Bool("installed", false, "whether the game is installed")
	f.Int("play-time", 0, "accumulated play time in minutes")
}

// applyGameFlags copies every flag the user set onto g.
func applyGameFlags(cmd *cobra.Command, g *entity.Game) error {
	f := cmd.Flags()
	str := func(name string, dst *string) {
		if f.Changed(name) {
			*dst, _ = f.GetString(name)
		}
	}
	num := func(name string, dst *int) {
		if f.Changed(name) {
			*dst, _ = f.GetInt(name)
		}
	}
	str("name", &g.Name)
	str("alt-name", &g.AlternativeName)
	str("version", &g.Version)
	str("description", &g.Description)
	str("genre", &g.Genre)
	str("platform", &g.Platform)
	str("library", &g.LibraryPath)
	str("folder", &g.GameFolder)
	str("exe", &g.ExecutablePath)
	str("path", &g.Path)
	str("icon", &g.IconPath)
	str("cover", &g.CoverPath)
	num("sort", &g.SortOrder)
	num("play-time", &g.PlayTimeMinutes)

	if f.Changed("names") {
		names, _ := f.GetStringSlice("names")
		g.Names = entity.NewNameSet(names...)
	}
	if f.Changed("screenshots") {
		shots, _ := f.GetStringSlice("screenshots")
		if len(shots) > 4 {
			return fmt.Errorf("at most 4 screenshots, got %d", len(shots))
		}
		slots := []*string{&g.Screenshot1, &g.Screenshot2, &g.Screenshot3, &g.Screenshot4}
		for i, dst := range slots {
			*dst = ""
			if i < len(shots) {
				*dst = shots[i]
			}
		}
	}
	if f.Changed("level") {
		s, _ := f.GetString("level")
		l, err := entity.ParseLevel(s)
		if err != nil {
			return err
		}
		g.Level = l
	}
	if f.Changed("year") {
		y, _ := f.GetInt("year")
		g.SetReleaseYear(y)
	}
	if f.Changed("release-date") {
		s, _ := f.GetString("release-date")
		if s == "" {
			g.ReleaseDate = nil
		} else {
			d, err := time.Parse("2006-01-02", s)
			if err != nil {
				return fmt.Errorf("invalid release date %q: %w", s, err)
			}
			g.ReleaseDate = &d
		}
	}
	if f.Changed("installed") {
		g.Installed, _ = f.GetBool("installed")
	}
	return nil
}

func (a *app) addCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a catalog entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.require(access.ActionAddGame, "add game"); err != nil {
				return err
			}
			g := entity.NewGame(args[0])
			if err := applyGameFlags(cmd, g); err != nil {
				return err
			}
			if g.LibraryPath != "" && g.GameFolder == "" {
				g.GameFolder = entity.SuggestFolder(g.Name)
			}
			if err := a.store.Create(cmd.Context(), g); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), g.ID)
			return nil
		},
	}
	registerGameFlags(cmd)
	return cmd
}

func (a *app) editCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a catalog entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.require(access.ActionEditGame, "edit game"); err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			g, found, err := a.store.GetByID(cmd.Context(), id)
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("%w: %s", errGameNotFound, id)
			}
			if err := applyGameFlags(cmd, &g); err != nil {
				return err
			}
			return a.store.Update(cmd.Context(), &g)
		},
	}
	registerGameFlags(cmd)
	return cmd
}

func (a *app) removeCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>...",
		Aliases: []string{"delete"},
		Short:   "Delete catalog entries",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.require(access.ActionDeleteGame, "delete game"); err != nil {
				return err
			}
			for _, arg := range args {
				id, err := parseID(arg)
				if err != nil {
					return err
				}
				if err := a.store.Delete(cmd.Context(), id); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func (a *app) countCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Print the number of stored entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.require(access.ActionViewStatistics, "count games"); err != nil {
				return err
			}
			n, err := a.store.Count(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		},
	}
}

func (a *app) launchCommand() *cobra.Command {
	var wait bool
	cmd := &cobra.Command{
		Use:   "launch <id>",
		Short: "Start a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.require(access.ActionLaunchGame, "launch game"); err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			s, err := a.launcher.Launch(cmd.Context(), id, a.user)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "started %s (session %s)\n", s.Path, s.ID)
			if !wait {
				return nil
			}
			minutes, err := a.launcher.Wait(cmd.Context(), s)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "played %d min\n", minutes)
			return nil
		},
	}
	cmd.Flags().BoolVar(&wait, "wait", false, "wait for the game to exit and record play time")
	return cmd
}

func (a *app) rootsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roots",
		Short: "Manage library roots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			roots, err := a.library.Roots(cmd.Context())
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(roots))
			for _, r := range roots {
				rows = append(rows, []string{r, strconv.FormatBool(library.IsValidRoot(r))})
			}
			return renderTable(cmd.OutOrStdout(), []string{"Root", "Exists"}, rows)
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "add <path>",
		Short: "Persist a library root",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.require(access.ActionManageLibraries, "add library root"); err != nil {
				return err
			}
			if !library.IsValidRoot(args[0]) {
				a.sugar.Warnw("library root does not exist yet", "path", args[0])
			}
			return a.library.AddRoot(cmd.Context(), args[0])
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "rm <path>",
		Short: "Forget a persisted library root",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.require(access.ActionManageLibraries, "remove library root"); err != nil {
				return err
			}
			return a.library.RemoveRoot(cmd.Context(), args[0])
		},
	})
	return cmd
}
