package main

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"tga-liquidity/internal/config"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "tga",
		Short: "TGA liquidity alignment and signal backtests",
		Long: `Align Treasury General Account balance changes with weekly index returns,
and backtest a score/flag filter over weekly signal tables.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to YAML config (defaults plus TGA_* env when empty)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Debug logging")

	root.AddCommand(newAlignCmd(opts))
	root.AddCommand(newBacktestCmd(opts))
	root.AddCommand(newRankCmd(opts))
	return root
}

func (o *rootOptions) loadConfig() (*config.Config, error) {
	return config.Load(o.configPath)
}

func (o *rootOptions) logger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func ensureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
