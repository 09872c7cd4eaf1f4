package main

import (
	"fmt"
	"os"

	"tga-liquidity/internal/align"
	"tga-liquidity/internal/analysis"
	"tga-liquidity/internal/config"
	"tga-liquidity/internal/ingest"
	"tga-liquidity/internal/marketdata"

	"github.com/spf13/cobra"
)

func newAlignCmd(root *rootOptions) *cobra.Command {
	var (
		tgaPath    string
		pricesPath string
		symbol     string
		anchor     string
		outPath    string
	)
	cmd := &cobra.Command{
		Use:   "align",
		Short: "Join weekly TGA balance changes with weekly index returns",
		Example: `  tga align --tga sample_tga.csv --prices spx.csv --out results/joint.csv
  tga align --tga sample_tga.csv --symbol ^GSPC`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			if pricesPath != "" {
				cfg.MarketData.Provider = config.ProviderCSV
				cfg.MarketData.PriceFile = pricesPath
			}
			if symbol != "" {
				cfg.MarketData.Symbol = symbol
			}
			if anchor != "" {
				cfg.Alignment.Anchor = anchor
			}
			opts, err := cfg.AlignOptions()
			if err != nil {
				return err
			}

			f, err := os.Open(tgaPath)
			if err != nil {
				return err
			}
			defer f.Close()
			balances, err := ingest.ReadBalances(f)
			if err != nil {
				return err
			}

			logger := root.logger(cmd.ErrOrStderr())
			built, err := marketdata.FromConfig(cmd.Context(), cfg, nil, logger)
			if err != nil {
				return err
			}
			defer built.Close()

			res, err := align.New(built.Source, logger).Align(cmd.Context(), balances, opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if outPath != "" {
				if err := ensureDir(outPath); err != nil {
					return err
				}
				if err := align.WriteJointCSV(outPath, res.Joint); err != nil {
					return err
				}
				fmt.Fprintf(out, "Wrote %d rows to %s\n", len(res.Joint), outPath)
			} else if err := align.EncodeJointCSV(out, res.Joint); err != nil {
				return err
			}

			if res.Empty() {
				fmt.Fprintln(out, "No overlapping weeks between balances and prices")
				return nil
			}
			s := analysis.ComputeJointStats(res.Joint)
			fmt.Fprintf(out, "Weeks=%d corr=%.3f slope=%.6f %%/unit\n", s.Count, s.Correlation, s.Slope)
			return nil
		},
	}
	cmd.Flags().StringVar(&tgaPath, "tga", "", "TGA balance CSV (date, tga_balance)")
	cmd.Flags().StringVar(&pricesPath, "prices", "", "Daily price CSV with Adj Close; overrides the configured provider")
	cmd.Flags().StringVar(&symbol, "symbol", "", "Index symbol (default from config, ^GSPC)")
	cmd.Flags().StringVar(&anchor, "anchor", "", "Weekday that ends each week (default thursday)")
	cmd.Flags().StringVar(&outPath, "out", "", "Output CSV path (stdout when empty)")
	_ = cmd.MarkFlagRequired("tga")
	return cmd
}
