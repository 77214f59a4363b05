package cmd

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/nibzard/covenant-go/internal/covenant"
	"github.com/nibzard/covenant-go/internal/ui"
)

type showOptions struct {
	limit int
	plain bool
}

func (o *showOptions) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&o.limit, "limit", "n", 0, "Show at most N days (0 shows the whole period)")
	cmd.Flags().BoolVar(&o.plain, "plain", false, "Plain output without borders or colors")
}

func newShowCommand(a *app) *cobra.Command {
	opts := &showOptions{}
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the start date, summary, and daily log",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd, a, opts)
		},
	}
	opts.register(cmd)
	return cmd
}

func runShow(cmd *cobra.Command, a *app, opts *showOptions) error {
	if opts.limit < 0 {
		return NewExitError(ExitUsage, "--limit must not be negative")
	}
	ctrl, err := a.controller(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	render := ui.RenderOptions{Plain: opts.plain || !isTerminal(out)}

	l := ctrl.Log()
	if opts.limit > 0 && len(l.Cards) > opts.limit {
		l.Cards = l.Cards[:opts.limit]
	}
	fmt.Fprintln(out, ui.RenderHeader(ctrl.State(), ctrl.Summary(), render))
	fmt.Fprintln(out)
	fmt.Fprintln(out, ui.RenderLog(l, render))
	return nil
}

func newSummaryCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print how long ago the last confession was",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := a.controller(cmd)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ctrl.Summary())
			return nil
		},
	}
}

func newStatusCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show period progress and storage details",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := a.controller(cmd)
			if err != nil {
				return err
			}
			info, err := a.store.Info(cmd.Context())
			if err != nil {
				return WrapExitError(ExitFailure, "reading store info", err)
			}

			var b strings.Builder
			line := func(label string, value any) {
				fmt.Fprintf(&b, "%-20s %v\n", label+":", value)
			}
			state := ctrl.State()
			if state.Configured() {
				start := state.Start()
				line("Covenant Start Date", start.Label())
				line("Period End", covenant.PeriodEnd(start).Label())
				line("Progress", progress(start, ctrl.Today()))
				line("Recorded Days", state.RecordedDays())
			} else {
				line("Covenant Start Date", "not set")
			}
			line("Last Confession", ctrl.Summary())
			line("Storage", info.Backend+" ("+info.Location+")")
			if info.SavedAt != nil {
				line("Last Saved", humanize.Time(*info.SavedAt))
			} else {
				line("Last Saved", "never")
			}
			fmt.Fprint(cmd.OutOrStdout(), b.String())
			return nil
		},
	}
}

// progress describes where today falls in the period.
func progress(start, today covenant.Date) string {
	total := covenant.PeriodDays + 1
	switch {
	case today.Before(start):
		days := start.DaysSince(today)
		return fmt.Sprintf("starts in %d %s", days, plural(days, "day", "days"))
	case today.After(covenant.PeriodEnd(start)):
		return fmt.Sprintf("complete (%d days)", total)
	default:
		return fmt.Sprintf("day %d of %d", today.DaysSince(start)+1, total)
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func newTasksCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tasks",
		Short: "List the daily tasks",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, t := range covenant.Tasks() {
				line := fmt.Sprintf("%-18s %s", t.ID, t.Label)
				if t.Conditional() {
					line += " (" + t.Condition() + ")"
				}
				if t.ID == covenant.SummaryTask {
					line += " [summary]"
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
}
