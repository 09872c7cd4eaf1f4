package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"tga-liquidity/internal/backtest"
	"tga-liquidity/internal/config"
	"tga-liquidity/internal/ingest"
	"tga-liquidity/internal/ingest/samples"
	"tga-liquidity/internal/model"

	"github.com/spf13/cobra"
)

// Demo:
// - Load the bundled signal sample (or --data)
// - Apply the configured score/flag filter
// - Print the first rows of the ledger to show how the pieces fit together
func main() {
	if err := newDemoCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newDemoCmd() *cobra.Command {
	var (
		dataPath string
		cfgPath  string
		n        int
		outCSV   string
	)
	cmd := &cobra.Command{
		Use:          "demo",
		Short:        "Walk through a backtest of the bundled signal sample",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			btCfg := cfg.BacktestConfig()

			var src io.Reader
			name := dataPath
			if dataPath == "" {
				name = "sample_backtest_signals.csv"
				raw, err := samples.Open(name)
				if err != nil {
					return err
				}
				src = bytes.NewReader(raw)
			} else {
				f, err := os.Open(dataPath)
				if err != nil {
					return err
				}
				defer f.Close()
				src = f
			}

			rows, err := ingest.ReadSignals(src)
			if err != nil {
				return err
			}
			result, err := backtest.Backtest(rows, btCfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Loaded %d rows from %s\n", len(rows), name)
			fmt.Fprintf(out, "Filter: score >= %g, require flag=%t\n\n", btCfg.ScoreThreshold, btCfg.RequireFlag)

			for i := 0; i < min(n, len(result.Ledger)); i++ {
				r := result.Ledger[i]
				fmt.Fprintf(out,
					"%s score=%5.1f flag=%-3s mkt=%6.2f%%  signal=%d  strat=%6.2f%%  cum=%.4f vs %.4f\n",
					r.Date.Format(model.DateLayout),
					r.Score,
					r.Flag,
					r.MarketReturnPct,
					r.Signal,
					r.StrategyReturnPct,
					r.StrategyCumReturn,
					r.MarketCumReturn,
				)
			}

			if outCSV != "" {
				if err := backtest.WriteLedgerCSV(outCSV, result.Ledger); err != nil {
					return err
				}
				fmt.Fprintf(out, "\nWrote CSV: %s\n", outCSV)
			}

			if result.Summary == nil {
				fmt.Fprintln(out, "\nDone. No rows.")
				return nil
			}
			s := result.Summary
			fmt.Fprintf(out, "\nDone. Strategy=%.2f%%  Market=%.2f%%  WinRate=%.1f%%  Signals=%d/%d\n",
				s.TotalStrategyReturn*100, s.TotalMarketReturn*100, s.WinRate*100, s.SignalCount, s.Rows)
			return nil
		},
	}
	cmd.Flags().StringVar(&dataPath, "data", "", "Signal CSV (bundled sample when empty)")
	cmd.Flags().StringVar(&cfgPath, "config", "", "Path to YAML config (optional)")
	cmd.Flags().IntVarP(&n, "n", "n", 12, "Number of ledger rows to print")
	cmd.Flags().StringVar(&outCSV, "out", "", "Optional path to write ledger CSV (e.g. results/ledger.csv)")
	return cmd
}
