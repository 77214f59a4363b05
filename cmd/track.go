package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nibzard/covenant-go/internal/covenant"
	"github.com/nibzard/covenant-go/internal/ui"
)

func newSetCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set <YYYY-MM-DD|today|yesterday>",
		Short: "Set the covenant start date",
		Long: `Set the covenant start date and begin tracking.

The start date can only be set once. Use "covenant reset" to start over.`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := a.controller(cmd)
			if err != nil {
				return err
			}
			d, err := ctrl.SetStartDate(cmd.Context(), args[0])
			if err != nil {
				if errors.Is(err, covenant.ErrAlreadyConfigured) {
					return WrapExitError(ExitUsage, "cannot set start date", fmt.Errorf("%w (run \"covenant reset\" first)", err))
				}
				return domainError("cannot set start date", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Covenant started on %s.\n", d.Label())
			return nil
		},
	}
}

func newResetCommand(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear the start date and every recorded day",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := a.controller(cmd)
			if err != nil {
				return err
			}
			if !yes {
				if !isTerminal(cmd.InOrStdin()) {
					return NewExitError(ExitUsage, "reset discards all records; pass --yes to confirm")
				}
				ok, err := confirm(cmd, "Reset the covenant? All recorded days will be discarded. [y/N]: ")
				if err != nil {
					return WrapExitError(ExitFailure, "reading confirmation", err)
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
					return nil
				}
			}
			discarded := ctrl.State().RecordedDays()
			if err := ctrl.Reset(cmd.Context()); err != nil {
				return domainError("cannot reset", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Covenant reset. %d recorded day(s) discarded.\n", discarded)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func confirm(cmd *cobra.Command, prompt string) (bool, error) {
	fmt.Fprint(cmd.OutOrStdout(), prompt)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

func newToggleCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <YYYY-MM-DD|today|yesterday> <task>",
		Short: "Flip a task on a day",
		Long: `Flip a task on a day. Run "covenant tasks" for task IDs.

Task IDs are case-insensitive and accept dashes, e.g. night-prayer.`,
		Args: usageArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMark(cmd, a, args, nil)
		},
	}
}

func newMarkCommand(a *app, name string, done bool) *cobra.Command {
	short := "Mark a task done on a day"
	if !done {
		short = "Mark a task not done on a day"
	}
	return &cobra.Command{
		Use:   name + " <YYYY-MM-DD|today|yesterday> <task>",
		Short: short,
		Args:  usageArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMark(cmd, a, args, &done)
		},
	}
}

// runMark toggles when done is nil and sets the value otherwise.
func runMark(cmd *cobra.Command, a *app, args []string, done *bool) error {
	ctrl, err := a.controller(cmd)
	if err != nil {
		return err
	}
	d, err := covenant.ParseDateInput(args[0], ctrl.Today())
	if err != nil {
		return WrapExitError(ExitUsage, "invalid date", err)
	}
	id, err := covenant.ParseTaskID(args[1])
	if err != nil {
		return WrapExitError(ExitUsage, "invalid task", err)
	}

	var (
		value   bool
		summary covenant.Summary
	)
	if done == nil {
		value, summary, err = ctrl.Toggle(cmd.Context(), d, id)
	} else {
		value = *done
		summary, err = ctrl.Mark(cmd.Context(), d, id, value)
	}
	if err != nil {
		return domainError("cannot update task", err)
	}

	task, _ := covenant.LookupTask(id)
	state := "not done"
	if value {
		state = "done"
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s on %s: %s\n", task.Label, d.Label(), state)
	fmt.Fprintln(out, ui.RenderSummary(summary, ui.RenderOptions{Plain: !isTerminal(out)}))
	return nil
}
