// Package api assembles the HTTP surface: routes, middleware and handlers.
package api

import (
	"log/slog"
	"net/http"

	"tga-liquidity/internal/align"
	"tga-liquidity/internal/api/handlers"
	"tga-liquidity/internal/api/middleware"
	"tga-liquidity/internal/backtest"
	"tga-liquidity/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Engine       *align.Engine
	AlignOptions align.Options
	Backtest     backtest.Config
	Metrics      *metrics.Metrics
	Gatherer     prometheus.Gatherer // serves /metrics when set
	Logger       *slog.Logger
	CORSOrigins  []string
	// MaxUploadBytes caps multipart memory; 0 keeps gin's default.
	MaxUploadBytes int64
}

func NewRouter(d Deps) *gin.Engine {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}

	router := gin.New()
	if d.MaxUploadBytes > 0 {
		router.MaxMultipartMemory = d.MaxUploadBytes
	}

	router.Use(middleware.RequestID())
	router.Use(middleware.CORS(d.CORSOrigins...))
	router.Use(middleware.Logger(d.Logger))
	router.Use(middleware.ErrorHandler(d.Logger))

	alignHandler := handlers.NewAlignHandler(d.Engine, d.AlignOptions, d.Metrics, d.Logger)
	backtestHandler := handlers.NewBacktestHandler(d.Backtest, d.Metrics, d.Logger)
	strategyHandler := handlers.NewStrategyHandler(d.Backtest)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if d.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	api := router.Group("/api/v1")
	{
		api.POST("/align", alignHandler.Align)
		api.POST("/backtest", backtestHandler.RunBacktest)
		api.POST("/backtest/compare", backtestHandler.CompareBacktests)

		api.GET("/strategies", strategyHandler.ListStrategies)

		api.GET("/samples", handlers.ListSamples)
		api.GET("/samples/:name", handlers.DownloadSample)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"code": "NOT_FOUND", "message": "Not found"}})
	})
	return router
}
