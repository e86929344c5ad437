package main

import (
	"fmt"
	"os"

	"lunarbase-server/internal/layout"
	"lunarbase-server/internal/safety"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

type scoreReport struct {
	File    string                `json:"file"`
	Objects int                   `json:"objects"`
	Dropped []layout.DroppedEntry `json:"dropped"`
	safety.Report
}

func newScoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "score <layout.json>",
		Short: "Print the safety report of an exported layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read layout: %w", err)
			}

			objects, report, err := layout.Import(data)
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(scoreReport{
				File:    args[0],
				Objects: report.Imported,
				Dropped: report.Dropped,
				Report:  safety.Evaluate(objects),
			}, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode report: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return err
		},
	}
}
