package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/sentype/internal/model"
	"github.com/verte-zerg/sentype/internal/stats"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show completed rounds",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().StringVar(&historySince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&historyLast, "last", 0, "limit to last N rounds")
	cmd.Flags().IntVar(&historyCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().IntVar(&historyRows, "rows", defaultHistoryRows, "number of rounds in the table")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	var sinceTime *time.Time
	if historySince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", historySince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if historyLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	if historyCurveWindow <= 0 {
		return fmt.Errorf("--curve-window must be > 0")
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	cfg := model.HistoryConfig{
		Since:       sinceTime,
		Last:        historyLast,
		CurveWindow: historyCurveWindow,
	}
	report, err := stats.BuildReport(context.Background(), a.store, cfg)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	return report.Render(cmd.OutOrStdout(), cfg.CurveWindow, stats.TerminalWidth(), historyRows)
}
