package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/nibzard/covenant-go/internal/covenant"
	"github.com/nibzard/covenant-go/internal/store"
)

// exportRecord mirrors the persisted layout for YAML output.
type exportRecord struct {
	StartDate *string                    `yaml:"startDate"`
	Data      map[string]map[string]bool `yaml:"data"`
}

func newExportCommand(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the saved record to stdout",
		Long: `Write the saved record to stdout.

JSON output is byte-for-byte the record the file backend stores, so it
can be copied into a state file to restore it.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "json" && format != "yaml" {
				return NewExitError(ExitUsage, fmt.Sprintf("invalid format %q: must be json or yaml", format))
			}
			ctrl, err := a.controller(cmd)
			if err != nil {
				return err
			}
			var data []byte
			if format == "json" {
				data, err = store.Encode(ctrl.State())
			} else {
				data, err = yaml.Marshal(newExportRecord(ctrl.State()))
			}
			if err != nil {
				return WrapExitError(ExitFailure, "encoding record", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format (json|yaml)")
	return cmd
}

func newExportRecord(st *covenant.State) exportRecord {
	rec := exportRecord{Data: make(map[string]map[string]bool, len(st.Days))}
	if st.Configured() {
		s := st.Start().String()
		rec.StartDate = &s
	}
	for key, flags := range st.Days {
		day := make(map[string]bool, len(flags))
		for id, done := range flags {
			day[string(id)] = done
		}
		rec.Data[key] = day
	}
	return rec
}
