package cmd

import (
	"github.com/spf13/cobra"

	"github.com/nibzard/covenant-go/internal/ui"
)

func newTUICommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive tracker",
		Long: `Open the interactive tracker.

Logs are written to --log-file when set and discarded otherwise, so they
do not draw over the screen.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isTerminal(cmd.OutOrStdout()) {
				return NewExitError(ExitUsage, "tui requires a terminal")
			}
			a.quiet = true
			ctrl, err := a.controller(cmd)
			if err != nil {
				return err
			}
			if err := ui.RunTUI(cmd.Context(), ctrl); err != nil {
				return WrapExitError(ExitFailure, "tui", err)
			}
			return nil
		},
	}
}
