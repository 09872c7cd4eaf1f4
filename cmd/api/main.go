package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"tga-liquidity/internal/align"
	"tga-liquidity/internal/api"
	"tga-liquidity/internal/config"
	"tga-liquidity/internal/marketdata"
	"tga-liquidity/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	if err := run(logger); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	// Get configuration from environment
	port := os.Getenv("API_PORT")
	if port == "" {
		port = "8080"
	}
	if os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	cfg, err := config.Load(os.Getenv("TGA_CONFIG"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	alignOpts, err := cfg.AlignOptions()
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	prices, err := marketdata.FromConfig(ctx, cfg, m, logger)
	if err != nil {
		return fmt.Errorf("market data: %w", err)
	}
	defer prices.Close()

	var origins []string
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		origins = strings.Split(v, ",")
	}

	router := api.NewRouter(api.Deps{
		Engine:         align.New(prices.Source, logger),
		AlignOptions:   alignOpts,
		Backtest:       cfg.BacktestConfig(),
		Metrics:        m,
		Gatherer:       reg,
		Logger:         logger,
		CORSOrigins:    origins,
		MaxUploadBytes: 8 << 20,
	})

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting API server",
			"addr", srv.Addr,
			"provider", cfg.MarketData.Provider,
			"symbol", alignOpts.Symbol,
			"anchor", alignOpts.Anchor.String(),
			"cache", cfg.Cache.Enabled)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}
	logger.Info("server exited")
	return nil
}
