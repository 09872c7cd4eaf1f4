package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"tga-liquidity/internal/ingest"
	"tga-liquidity/internal/marketdata"
	"tga-liquidity/internal/model"

	"github.com/spf13/cobra"
)

// fetch-prices downloads daily adjusted closes once so alignment runs can use
// the csv provider offline.
func main() {
	if err := newFetchCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newFetchCmd() *cobra.Command {
	var (
		symbol     string
		start, end string
		days       int
		baseURL    string
		outputPath string
	)
	cmd := &cobra.Command{
		Use:          "fetch-prices",
		Short:        "Download daily index prices to a CSV",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			to := model.Day(time.Now())
			if end != "" {
				d, err := ingest.ParseDate(end)
				if err != nil {
					return fmt.Errorf("--end: %w", err)
				}
				to = d
			}
			from := to.AddDate(0, 0, -days)
			if start != "" {
				d, err := ingest.ParseDate(start)
				if err != nil {
					return fmt.Errorf("--start: %w", err)
				}
				from = d
			}

			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil))
			client := marketdata.NewYahooClient(baseURL, logger)

			fmt.Fprintf(cmd.OutOrStdout(), "Fetching %s from %s to %s\n",
				symbol, from.Format(model.DateLayout), to.Format(model.DateLayout))
			points, err := client.FetchDaily(cmd.Context(), symbol, from, to)
			if err != nil {
				return err
			}

			if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
				return err
			}
			if err := marketdata.WritePriceCSV(outputPath, points); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d prices to %s\n", len(points), outputPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&symbol, "symbol", "^GSPC", "Index symbol")
	cmd.Flags().StringVar(&start, "start", "", "First date (default: --days before --end)")
	cmd.Flags().StringVar(&end, "end", "", "Last date, inclusive (default: today)")
	cmd.Flags().IntVar(&days, "days", 365, "Days to look back when --start is empty")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "Chart API base URL (default: Yahoo Finance)")
	cmd.Flags().StringVar(&outputPath, "output", "data/prices.csv", "Output file path")
	return cmd
}
