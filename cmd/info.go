package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newConfigCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration and where each value came from",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			cws, err := a.config()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, s := range cws.Config.Settings() {
				value := s.Value
				if value == "" {
					value = `""`
				}
				fmt.Fprintf(out, "%-15s = %-40s (%s)\n", s.Key, value, cws.Sources[s.Key])
			}
			if len(cws.Files) == 0 {
				fmt.Fprintln(out, "\nNo config file found.")
				return nil
			}
			fmt.Fprintln(out, "\nConfig files:")
			for _, f := range cws.Files {
				fmt.Fprintln(out, "  "+f)
			}
			return nil
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "covenant %s\n", Version)
			return nil
		},
	}
}
