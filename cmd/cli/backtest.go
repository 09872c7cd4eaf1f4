package main

import (
	"fmt"
	"io"
	"os"

	"tga-liquidity/internal/analysis"
	"tga-liquidity/internal/backtest"
	"tga-liquidity/internal/ingest"
	"tga-liquidity/internal/model"

	"github.com/spf13/cobra"
)

func readSignals(path string) ([]model.SignalRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ingest.ReadSignals(f)
}

func newBacktestCmd(root *rootOptions) *cobra.Command {
	var (
		signalsPath string
		threshold   float64
		requireFlag bool
		outPath     string
	)
	cmd := &cobra.Command{
		Use:     "backtest",
		Short:   "Run the score/flag filter over a signal table",
		Example: `  tga backtest --signals sample_backtest_signals.csv --threshold 60 --require-flag --out results/ledger.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			btCfg := cfg.BacktestConfig()
			if cmd.Flags().Changed("threshold") {
				btCfg.ScoreThreshold = threshold
			}
			if cmd.Flags().Changed("require-flag") {
				btCfg.RequireFlag = requireFlag
			}

			rows, err := readSignals(signalsPath)
			if err != nil {
				return err
			}
			res, err := backtest.Backtest(rows, btCfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if outPath != "" {
				if err := ensureDir(outPath); err != nil {
					return err
				}
				if err := backtest.WriteLedgerCSV(outPath, res.Ledger); err != nil {
					return err
				}
				fmt.Fprintf(out, "Wrote %d rows to %s\n", len(res.Ledger), outPath)
			}
			printSummary(out, btCfg, res.Summary)
			return nil
		},
	}
	cmd.Flags().StringVar(&signalsPath, "signals", "", "Signal CSV (date, score, flag, market_return_pct)")
	cmd.Flags().Float64Var(&threshold, "threshold", backtest.DefaultConfig().ScoreThreshold, "Inclusive score threshold")
	cmd.Flags().BoolVar(&requireFlag, "require-flag", backtest.DefaultConfig().RequireFlag, "Also require the pivot flag")
	cmd.Flags().StringVar(&outPath, "out", "", "Ledger CSV output path")
	_ = cmd.MarkFlagRequired("signals")
	return cmd
}

func printSummary(out io.Writer, cfg backtest.Config, s *backtest.Summary) {
	fmt.Fprintf(out, "Filter: score >= %g, require flag=%t\n", cfg.ScoreThreshold, cfg.RequireFlag)
	if s == nil {
		fmt.Fprintln(out, "No rows: empty result")
		return
	}
	fmt.Fprintf(out, "Rows=%d Signals=%d Window=%s..%s\n", s.Rows, s.SignalCount,
		s.Start.Format(model.DateLayout), s.End.Format(model.DateLayout))
	fmt.Fprintf(out, "Strategy=%.2f%% Market=%.2f%% WinRate=%.1f%%\n",
		s.TotalStrategyReturn*100, s.TotalMarketReturn*100, s.WinRate*100)
}

func newRankCmd(root *rootOptions) *cobra.Command {
	var (
		signalsPath string
		thresholds  []float64
	)
	cmd := &cobra.Command{
		Use:     "rank",
		Short:   "Rank filter settings by total strategy return",
		Example: `  tga rank --signals sample_backtest_signals.csv --thresholds 40,50,60,70`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := root.loadConfig(); err != nil {
				return err
			}
			rows, err := readSignals(signalsPath)
			if err != nil {
				return err
			}

			var vars []analysis.Variation
			for _, th := range thresholds {
				for _, req := range []bool{true, false} {
					cfg := backtest.Config{ScoreThreshold: th, RequireFlag: req}
					res, err := backtest.Backtest(rows, cfg)
					if err != nil {
						return err
					}
					vars = append(vars, analysis.Variation{
						Name:    fmt.Sprintf("score>=%g flag=%t", th, req),
						Config:  cfg,
						Summary: res.Summary,
					})
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-4s %-26s %-8s %-10s %-10s\n", "rank", "variation", "signals", "strategy%", "winrate%")
			for _, r := range analysis.RankByStrategyReturn(vars) {
				if r.Summary == nil {
					fmt.Fprintf(out, "%-4d %-26s %-8s\n", r.Rank, r.Name, "empty")
					continue
				}
				fmt.Fprintf(out, "%-4d %-26s %-8d %-10.2f %-10.1f\n",
					r.Rank, r.Name, r.Summary.SignalCount,
					r.Summary.TotalStrategyReturn*100, r.Summary.WinRate*100)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&signalsPath, "signals", "", "Signal CSV")
	cmd.Flags().Float64SliceVar(&thresholds, "thresholds", []float64{40, 50, 60, 70, 80}, "Score thresholds to try")
	_ = cmd.MarkFlagRequired("signals")
	return cmd
}
