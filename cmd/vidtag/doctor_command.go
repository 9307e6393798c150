package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lmercier/vidtag/internal/deps"
)

func newDoctorCommand(ctx *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check external binaries and configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			statuses := deps.CheckBinaries(deps.Defaults())
			rows := make([][]string, 0, len(statuses))
			for _, s := range statuses {
				state := "ok"
				if !s.Available {
					state = "missing"
					if s.Optional {
						state = "missing (optional)"
					}
				}
				rows = append(rows, []string{s.Name, s.Command, state, s.Description})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Binary", "Command", "Status", "Purpose"},
				rows,
				nil,
			))

			cfg := ctx.cfg
			fmt.Fprintf(out, "\nConfig: %s\n", cfg.Path())
			if len(cfg.SourceFolders) == 0 {
				fmt.Fprintln(out, "No source folders configured.")
			} else {
				for _, folder := range cfg.SourceFolders {
					state := "ok"
					if _, err := os.Stat(folder); err != nil {
						state = "missing"
					}
					fmt.Fprintf(out, "Source: %s (%s)\n", folder, state)
				}
			}
			if cfg.DestinationFolder == "" {
				fmt.Fprintln(out, "Destination folder not set.")
			} else {
				state := "ok"
				if _, err := os.Stat(cfg.DestinationFolder); err != nil {
					state = "missing"
				}
				fmt.Fprintf(out, "Destination: %s (%s)\n", cfg.DestinationFolder, state)
			}

			if missing := deps.MissingRequired(statuses); len(missing) > 0 {
				return fmt.Errorf("missing required binaries: %s", strings.Join(missing, ", "))
			}
			return nil
		},
	}
}
