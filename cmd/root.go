// Package cmd implements the CLI command structure for covenant.
package cmd

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/nibzard/covenant-go/internal/config"
	"github.com/nibzard/covenant-go/internal/covenant"
	"github.com/nibzard/covenant-go/internal/logging"
	"github.com/nibzard/covenant-go/internal/store"
	"github.com/nibzard/covenant-go/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Run executes the covenant CLI.
func Run(ctx context.Context, args []string) error {
	root, a := newRoot()
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if cerr := a.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

// NewRootCommand creates the root command for the covenant CLI.
func NewRootCommand() *cobra.Command {
	root, _ := newRoot()
	return root
}

func newRoot() (*cobra.Command, *app) {
	a := &app{}
	show := &showOptions{}

	root := &cobra.Command{
		Use:   "covenant",
		Short: "Track a 90-day covenant of daily devotions",
		Long: `Track a 90-day covenant of daily devotions.

Set a start date, then check off each day's tasks. Running covenant with
no command shows the daily log, newest day first, and how long ago the
last confession was.`,
		Args:          usageArgs(cobra.NoArgs),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd, a, show)
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return WrapExitError(ExitUsage, "invalid flags", err)
	})

	config.RegisterFlags(root.PersistentFlags())
	a.flags = root.PersistentFlags()
	show.register(root)

	root.AddCommand(
		newShowCommand(a),
		newSetCommand(a),
		newResetCommand(a),
		newToggleCommand(a),
		newMarkCommand(a, "check", true),
		newMarkCommand(a, "uncheck", false),
		newSummaryCommand(a),
		newStatusCommand(a),
		newTasksCommand(),
		newExportCommand(a),
		newTUICommand(a),
		newConfigCommand(a),
		newVersionCommand(),
	)
	return root, a
}

// app builds config, logger, store, and controller on first use.
type app struct {
	flags   *pflag.FlagSet
	cfg     *config.ConfigWithSources
	logger  *log.Logger
	logFile *os.File
	store   store.Store
	ctrl    *covenant.Controller

	// quiet sends logs to the log file only, for the TUI.
	quiet bool
}

func (a *app) config() (*config.ConfigWithSources, error) {
	if a.cfg != nil {
		return a.cfg, nil
	}
	cws, err := config.LoadWithSources(a.flags)
	if err != nil {
		if errors.Is(err, config.ErrInvalid) {
			return nil, WrapExitError(ExitUsage, "invalid configuration", err)
		}
		return nil, WrapExitError(ExitFailure, "loading config", err)
	}
	a.cfg = cws
	return cws, nil
}

func (a *app) openLogger(stderr io.Writer) (*log.Logger, error) {
	if a.logger != nil {
		return a.logger, nil
	}
	cws, err := a.config()
	if err != nil {
		return nil, err
	}
	cfg := cws.Config
	opts, err := logging.FromStrings(cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps)
	if err != nil {
		return nil, WrapExitError(ExitUsage, "invalid logging configuration", err)
	}

	switch {
	case cfg.LogFile != "":
		f, err := logging.OpenFile(cfg.LogFile)
		if err != nil {
			return nil, WrapExitError(ExitFailure, "opening log file", err)
		}
		a.logFile = f
		a.logger = logging.New(f, opts)
	case a.quiet:
		a.logger = logging.Discard()
	default:
		a.logger = logging.New(stderr, opts)
	}
	return a.logger, nil
}

// controller returns a loaded controller.
func (a *app) controller(cmd *cobra.Command) (*covenant.Controller, error) {
	if a.ctrl != nil {
		return a.ctrl, nil
	}
	ctx := cmd.Context()
	logger, err := a.openLogger(cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	cfg := a.cfg.Config

	st, err := store.Open(ctx, cfg.StoreOptions())
	if err != nil {
		return nil, WrapExitError(ExitFailure, "opening store", err)
	}
	a.store = st

	ctrl := covenant.NewController(st,
		covenant.WithClock(cfg.Clock()),
		covenant.WithLocation(cfg.Location),
		covenant.WithLogger(logger),
		covenant.WithStrictLoad(cfg.StrictLoad),
	)
	if err := ctrl.Load(ctx); err != nil {
		return nil, WrapExitError(ExitFailure, "loading saved state", err)
	}
	a.ctrl = ctrl
	return ctrl, nil
}

// Close releases the store and log file.
func (a *app) Close() error {
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

// isTerminal reports whether v is a terminal file.
func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}
	return ui.IsTTY(f)
}
