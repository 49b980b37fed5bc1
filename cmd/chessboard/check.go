package main

import (
	"encoding/json"
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lgbarn/chessboard-go/internal/audit"
)

func (a *app) checkCmd() *cobra.Command {
	var (
		workers int
		asJSON  bool
	)
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate every save and report identical positions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := audit.Run(cmd.Context(), a.store, workers, a.log)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(a.out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(report); err != nil {
					return err
				}
			} else {
				fmt.Fprintf(a.out, "%d saves checked, %d valid\n", report.Checked, report.Valid)
				for _, p := range report.Problems {
					fmt.Fprintf(a.out, "malformed: %s: %s\n", p.Name, p.Err)
				}
				for _, group := range report.Duplicates {
					fmt.Fprintf(a.out, "identical: %s\n", strings.Join(group, ", "))
				}
			}

			if !report.OK() {
				return fmt.Errorf("%d malformed saves", len(report.Problems))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&workers, "workers", "j", runtime.NumCPU(), "number of saves to load in parallel")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return cmd
}
