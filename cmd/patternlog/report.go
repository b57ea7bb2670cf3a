package main

import (
	"fmt"
	"io"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/JonnyWalker81/patternlog/internal/models"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print a period report as JSON",
	Long: `Build the short (7 day), long (30 day) or custom report from the
configured store and print it as JSON.`,
	RunE: runReport,
}

var (
	granularity string
	reportStart string
	reportEnd   string
)

func init() {
	reportCmd.Flags().StringVarP(&granularity, "granularity", "g", string(models.GranularityShort), "short, long or custom")
	reportCmd.Flags().StringVar(&reportStart, "start", "", "Custom window start (RFC3339)")
	reportCmd.Flags().StringVar(&reportEnd, "end", "", "Custom window end (RFC3339)")
}

func runReport(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	var w models.Window
	switch models.Granularity(granularity) {
	case models.GranularityShort:
		w = a.engine.ShortWindow()
	case models.GranularityLong:
		w = a.engine.LongWindow()
	case models.GranularityCustom:
		start, err := time.Parse(time.RFC3339, reportStart)
		if err != nil {
			return fmt.Errorf("invalid --start: %w", err)
		}
		end, err := time.Parse(time.RFC3339, reportEnd)
		if err != nil {
			return fmt.Errorf("invalid --end: %w", err)
		}
		w = a.engine.CustomWindow(start, end)
	default:
		return fmt.Errorf("unknown granularity %q", granularity)
	}

	ch, err := a.engine.ReportAsync(cmd.Context(), w)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}
	res := <-ch
	if res.Err != nil {
		return fmt.Errorf("failed to build report: %w", res.Err)
	}
	return printJSON(cmd.OutOrStdout(), res.Report)
}

func printJSON(out io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}
