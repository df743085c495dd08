// Package cli implements the planner command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tgienger/planner/internal/config"
	"github.com/tgienger/planner/internal/db"
	"github.com/tgienger/planner/internal/models"
	"github.com/tgienger/planner/internal/plan"
	"github.com/tgienger/planner/internal/ui"
)

// BuildInfo is stamped into the binary via ldflags
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// app carries the state shared by every command of one invocation
type app struct {
	v        *viper.Viper
	build    BuildInfo
	settings *config.Settings
	logger   *slog.Logger
	logFile  *os.File
	store    *db.DB
	props    *config.Properties
	runTUI   func(m tea.Model) error
}

// Execute runs the root command against os.Args
func Execute(ctx context.Context, build BuildInfo) error {
	root, a := newRootCmd(build)
	defer a.close()
	return root.ExecuteContext(ctx)
}

// newRootCmd builds a fresh command tree with its own viper instance
func newRootCmd(build BuildInfo) (*cobra.Command, *app) {
	a := &app{
		v:     config.NewViper(),
		build: build,
		runTUI: func(m tea.Model) error {
			_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
			return err
		},
	}

	root := &cobra.Command{
		Use:   "planner",
		Short: "Project plan tracker",
		Long: `planner tracks a delivery plan as projects, phases, epics, tasks and
subtasks, with a daily status log per project.

Run without arguments to open the terminal interface.

Commands taking <project> accept its name, its numeric id, or #<id>. A
project named with digits only is matched by name first; use #<id> to
pick by id.

Quick start:
  planner project create Atlas --start 2025-01-06 --end 2025-07-31
  planner plan populate Atlas
  planner phase add Atlas "Phase 4: Hypercare" --start 2025-08-01
  planner epic add 4 "Production Support"
  planner task list Atlas
  planner log add Atlas --decisions "Use CDC for egress"`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInteractive(cmd.Context())
		},
	}

	root.Version = build.Version
	root.SetVersionTemplate(versionLine(build))

	flags := root.PersistentFlags()
	flags.String("data-dir", "", "directory for the database, property file and logs")
	flags.String("db", "", "database file (default <data-dir>/planner.db)")
	flags.String("properties", "", "property file (default <data-dir>/project_config.ini)")
	flags.String("log-level", "info", "log level: debug, info, warn, error")
	_ = a.v.BindPFlag(config.KeyDataDir, flags.Lookup("data-dir"))
	_ = a.v.BindPFlag(config.KeyDB, flags.Lookup("db"))
	_ = a.v.BindPFlag(config.KeyProperties, flags.Lookup("properties"))
	_ = a.v.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))

	root.AddCommand(newProjectCmd(a))
	root.AddCommand(newPlanCmd(a))
	root.AddCommand(newPhaseCmd(a))
	root.AddCommand(newEpicCmd(a))
	root.AddCommand(newTaskCmd(a))
	root.AddCommand(newSubTaskCmd(a))
	root.AddCommand(newLogCmd(a))
	root.AddCommand(newConfigCmd(a))
	root.AddCommand(newVersionCmd(a))

	return root, a
}

// setup resolves settings and the logger. The terminal interface owns
// stdout and stderr, so it logs to a file instead.
func (a *app) setup(cmd *cobra.Command) error {
	s, err := config.LoadSettings(a.v)
	if err != nil {
		return err
	}
	a.settings = s

	level, err := s.Level()
	if err != nil {
		return err
	}

	var out io.Writer = cmd.ErrOrStderr()
	if cmd == cmd.Root() {
		if err := os.MkdirAll(s.DataDir, 0755); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
		f, err := os.OpenFile(s.LogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		a.logFile = f
		out = f
	}
	a.logger = slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))

	if s.SettingsFile != "" {
		a.logger.Debug("settings loaded", "file", s.SettingsFile)
	}
	return nil
}

func (a *app) close() error {
	var errs []error
	if a.store != nil {
		errs = append(errs, a.store.Close())
		a.store = nil
	}
	if a.logFile != nil {
		errs = append(errs, a.logFile.Close())
		a.logFile = nil
	}
	return errors.Join(errs...)
}

// openStore opens the database on first use
func (a *app) openStore() (*db.DB, error) {
	if a.store != nil {
		return a.store, nil
	}
	store, err := db.Open(a.settings.DBPath, db.WithLogger(a.logger))
	if err != nil {
		return nil, err
	}
	a.store = store
	return store, nil
}

// loadProps reads the property file, creating it with defaults if absent
func (a *app) loadProps() (*config.Properties, error) {
	if a.props != nil {
		return a.props, nil
	}
	props, err := config.Load(a.settings.PropertiesPath)
	if err != nil {
		return nil, err
	}
	a.props = props
	return props, nil
}

// resolveProject accepts a project name, a numeric id, or "#<id>". A
// name wins over an id with the same digits; "#<id>" always means the id.
func (a *app) resolveProject(ctx context.Context, ref string) (*models.Project, error) {
	store, err := a.openStore()
	if err != nil {
		return nil, err
	}
	if strings.HasPrefix(ref, "#") {
		id, err := parseID(ref)
		if err != nil {
			return nil, err
		}
		return store.GetProject(ctx, id)
	}

	p, err := store.GetProjectByName(ctx, ref)
	if err == nil || !errors.Is(err, db.ErrNotFound) {
		return p, err
	}
	if id, perr := strconv.ParseInt(ref, 10, 64); perr == nil {
		return store.GetProject(ctx, id)
	}
	return nil, err
}

func (a *app) runInteractive(ctx context.Context) error {
	store, err := a.openStore()
	if err != nil {
		return err
	}
	props, err := a.loadProps()
	if err != nil {
		return err
	}

	a.logger.Info("starting interactive session", "db", a.settings.DBPath)
	model := ui.NewApp(ctx, ui.Deps{
		Store:     store,
		Props:     props,
		Generator: plan.NewGenerator(store, a.logger),
		Logger:    a.logger,
	})
	if err := a.runTUI(model); err != nil {
		return fmt.Errorf("run interface: %w", err)
	}
	return nil
}

// parseID reads an id written either bare or as "#<id>"
func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(s, "#"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), versionLine(a.build))
		},
	}
}

func versionLine(b BuildInfo) string {
	return fmt.Sprintf("planner %s (commit: %s, built: %s)\n", b.Version, b.Commit, b.Date)
}
