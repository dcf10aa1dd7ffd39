package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"pupkeep/internal/cli"
	"pupkeep/internal/config"
	"pupkeep/internal/lifecycle"
	"pupkeep/internal/logging"
	"pupkeep/internal/profile"
	"pupkeep/internal/scheduler"
	"pupkeep/internal/storage"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path." type:"path" default:"~/.config/pupkeep/config.yaml"`
	Data    string `help:"Storage file path (overrides config; .json selects the JSON backend)." type:"path"`

	Init     cli.InitCmd     `cmd:"" help:"Initialize pupkeep storage."`
	Onboard  cli.OnboardCmd  `cmd:"" help:"Create or update a pet profile and its schedule."`
	Tui      cli.TuiCmd      `cmd:"" help:"Launch the interactive day view." default:"1"`
	Day      cli.DayCmd      `cmd:"" help:"Show tasks for a day."`
	Rollover cli.RolloverCmd `cmd:"" help:"Materialize a day's tasks from the schedule."`
	Sweep    cli.SweepCmd    `cmd:"" help:"Mark stale pending tasks as missed."`
	Watch    cli.WatchCmd    `cmd:"" help:"Run the rollover daemon."`
	Debug    cli.DebugCmd    `cmd:"" help:"Show storage diagnostics."`
	Task     struct {
		List     cli.TaskListCmd     `cmd:"" help:"List today's tasks."`
		Start    cli.TaskStartCmd    `cmd:"" help:"Start a task."`
		Complete cli.TaskCompleteCmd `cmd:"" help:"Complete a task."`
		Delay    cli.TaskDelayCmd    `cmd:"" help:"Delay a task."`
		Skip     cli.TaskSkipCmd     `cmd:"" help:"Skip a task."`
		Rescue   cli.TaskRescueCmd   `cmd:"" help:"Rescue a missed task."`
	} `cmd:"" help:"Manage tasks."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("pupkeep"),
		kong.Description("Daily pet care task tracker"),
		kong.UsageOnError(),
		kong.Vars{"version": "v0.1.0"},
	)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if CLI.Data != "" {
		cfg.DataPath = CLI.Data
	}

	log := logging.New(cfg.LogLevel)

	var store storage.Provider
	if strings.HasSuffix(cfg.DataPath, ".json") {
		store = storage.NewJSONStore(cfg.DataPath)
	} else {
		store = storage.NewSQLiteStore(cfg.DataPath)
	}

	sched := scheduler.New(store, log)
	appCtx := &cli.Context{
		Store:     store,
		Scheduler: sched,
		Engine:    lifecycle.New(store, log),
		Profiles:  profile.New(store, sched, log),
		Config:    cfg,
		Log:       log,
	}

	err = ctx.Run(appCtx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
