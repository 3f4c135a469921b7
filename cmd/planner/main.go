package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/matt-steen/day-planner/pkg/automation"
	"github.com/matt-steen/day-planner/pkg/config"
	"github.com/matt-steen/day-planner/pkg/db"
	"github.com/matt-steen/day-planner/pkg/notify"
	"github.com/matt-steen/day-planner/pkg/tasks"
	"github.com/matt-steen/day-planner/pkg/template"
)

// app holds the open database and the core components the commands call.
type app struct {
	cfg          config.Config
	db           *db.Database
	tasks        *tasks.Manager
	automation   *automation.Engine
	templates    *template.Instantiator
	notify       *notify.Checker
	logFile      *os.File
	configPath   string
	overrideDB   string
}

func main() {
	a := &app{}

	root := &cobra.Command{
		Use:           "planner",
		Short:         "personal planner: tasks, schedule, calendar, automations",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.Context())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.teardown()
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default: user config dir)")
	root.PersistentFlags().StringVar(&a.overrideDB, "db", "", "database file (overrides config)")

	root.AddCommand(
		a.taskCommand(),
		a.scheduleCommand(),
		a.calendarCommand(),
		a.automationCommand(),
		a.templateCommand(),
		a.noteCommand(),
		a.focusCommand(),
		a.exportCommand(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func (a *app) setup(ctx context.Context) error {
	configPath := a.configPath

	if configPath == "" {
		var err error
		if configPath, err = config.DefaultPath(); err != nil {
			return err
		}
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if a.overrideDB != "" {
		cfg.DBPath = a.overrideDB
	}

	a.cfg = cfg

	if err := config.EnsureDir(cfg.LogPath); err != nil {
		return err
	}

	filePerms := 0o666

	logFile, err := os.OpenFile(cfg.LogPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, fs.FileMode(filePerms))
	if err != nil {
		return err
	}

	a.logFile = logFile

	log.Logger = log.With().Caller().Logger().Output(zerolog.ConsoleWriter{
		Out: logFile, TimeFormat: "2006-01-02_15:04:05",
	})

	if err := config.EnsureDir(cfg.DBPath); err != nil {
		return err
	}

	database, err := db.NewDatabase(ctx, cfg.DBPath)
	if err != nil {
		return err
	}

	a.db = database
	a.tasks = tasks.NewManager(database)
	a.automation = automation.NewEngine(database)
	a.templates = template.NewInstantiator(database)
	a.notify = notify.NewChecker(database)

	return nil
}

func (a *app) teardown() {
	if a.db != nil {
		a.db.Close()
	}

	if a.logFile != nil {
		a.logFile.Close()
	}
}
