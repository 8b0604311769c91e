package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"vivosprep/internal/history"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var format string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded prepare runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(strings.TrimSpace(format))
			switch format {
			case formatTable, formatJSON, formatYAML:
			default:
				return fmt.Errorf("unsupported format %q (want table, json or yaml)", format)
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.History.Enabled {
				return errors.New("run history is disabled (history.enabled = false)")
			}
			store, err := history.Open(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer store.Close()

			runs, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if runs == nil {
				runs = []history.Run{}
			}

			out := cmd.OutOrStdout()
			switch format {
			case formatJSON:
				return writeJSON(out, runs)
			case formatYAML:
				return writeYAML(out, runs)
			}

			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}
			printRuns(newPrinter(out), runs)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum runs to show (0 for all)")
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "Output format: table, json or yaml")
	return cmd
}

func printRuns(out *printer, runs []history.Run) {
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		totals := run.Totals()
		status := string(run.Status)
		if run.Error != "" {
			status += ": " + truncate(run.Error, 48)
		}
		rows = append(rows, []string{
			shortID(run.ID),
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			status,
			formatDuration(run.Duration),
			formatCount(totals.Utterances),
			formatBytes(totals.AudioBytes),
			run.ProcessedDir,
		})
	}
	out.table(
		[]string{"Run", "Started", "Status", "Duration", "Utterances", "Audio", "Processed dir"},
		rows,
		nil,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft},
	)
}

func truncate(value string, max int) string {
	runes := []rune(value)
	if len(runes) <= max {
		return value
	}
	return string(runes[:max-3]) + "..."
}
