package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"tga-liquidity/internal/analysis"
	"tga-liquidity/internal/api/models"
	"tga-liquidity/internal/backtest"
	"tga-liquidity/internal/ingest"
	"tga-liquidity/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// maxVariations bounds a single compare request.
const maxVariations = 32

// BacktestHandler handles backtest-related requests
type BacktestHandler struct {
	defaults backtest.Config
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// NewBacktestHandler creates a new backtest handler
func NewBacktestHandler(defaults backtest.Config, m *metrics.Metrics, logger *slog.Logger) *BacktestHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &BacktestHandler{defaults: defaults, metrics: m, logger: logger.With("component", "api")}
}

// RunBacktest handles POST /api/v1/backtest
func (h *BacktestHandler) RunBacktest(c *gin.Context) {
	var req models.BacktestRequest
	if err := c.ShouldBind(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return
	}

	cfg := h.defaults
	if req.ScoreThreshold != nil {
		cfg.ScoreThreshold = *req.ScoreThreshold
	}
	if req.RequireFlag != nil {
		cfg.RequireFlag = *req.RequireFlag
	}
	if _, err := cfg.Strategy(); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_CONFIG", err.Error(), nil)
		return
	}

	f, ok := openUpload(c)
	if !ok {
		return
	}
	defer f.Close()

	start := time.Now()
	rows, err := ingest.ReadSignals(f)
	if err != nil {
		h.metrics.ObserveRun(metrics.PipelineBacktest, metrics.OutcomeError, start)
		respondError(c, err)
		return
	}

	result, err := backtest.Backtest(rows, cfg)
	h.metrics.ObserveRun(metrics.PipelineBacktest, metrics.Outcome(err, result.Empty()), start)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "BACKTEST_ERROR", err.Error(), nil)
		return
	}

	strategyCurve, marketCurve := buildCurves(result)
	resp := models.BacktestResponse{
		ID:            uuid.NewString(),
		Status:        "completed",
		Empty:         result.Empty(),
		Config:        filterConfig(cfg),
		Summary:       buildSummary(result.Summary),
		StrategyCurve: strategyCurve,
		MarketCurve:   marketCurve,
	}
	if req.IncludeLedger {
		resp.Ledger = buildLedger(result.Ledger)
	}
	c.JSON(http.StatusOK, resp)
}

// CompareBacktests handles POST /api/v1/backtest/compare
func (h *BacktestHandler) CompareBacktests(c *gin.Context) {
	var req models.CompareBacktestRequest
	if err := c.ShouldBind(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return
	}
	if len(req.Variations) == 0 {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "at least one variation is required", nil)
		return
	}
	if len(req.Variations) > maxVariations {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST",
			fmt.Sprintf("at most %d variations are allowed", maxVariations), nil)
		return
	}

	variations := make([]models.BacktestVariation, 0, len(req.Variations))
	for _, raw := range req.Variations {
		v, err := models.ParseVariation(raw)
		if err != nil {
			writeError(c, http.StatusBadRequest, "INVALID_VARIATION", err.Error(), nil)
			return
		}
		variations = append(variations, v)
	}

	f, ok := openUpload(c)
	if !ok {
		return
	}
	defer f.Close()

	rows, err := ingest.ReadSignals(f)
	if err != nil {
		respondError(c, err)
		return
	}

	// Each variation reads the shared rows and writes only its own slot.
	results := make([]analysis.Variation, len(variations))
	g, _ := errgroup.WithContext(c.Request.Context())
	g.SetLimit(4)
	for i, v := range variations {
		g.Go(func() error {
			cfg := backtest.Config{ScoreThreshold: v.ScoreThreshold, RequireFlag: v.RequireFlag}
			start := time.Now()
			res, err := backtest.Backtest(rows, cfg)
			h.metrics.ObserveRun(metrics.PipelineBacktest, metrics.Outcome(err, res.Empty()), start)
			if err != nil {
				return fmt.Errorf("variation %s: %w", v.Name, err)
			}
			results[i] = analysis.Variation{Name: v.Name, Config: cfg, Summary: res.Summary}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_VARIATION", err.Error(), nil)
		return
	}

	ranked := analysis.RankByStrategyReturn(results)
	comparison := make([]models.ComparisonResult, 0, len(ranked))
	for _, r := range ranked {
		comparison = append(comparison, models.ComparisonResult{
			Rank:    r.Rank,
			Name:    r.Name,
			Config:  filterConfig(r.Config),
			Empty:   r.Summary == nil,
			Summary: buildSummary(r.Summary),
		})
	}

	h.logger.Info("compared variations", "variations", len(comparison), "rows", len(rows))
	c.JSON(http.StatusOK, models.CompareBacktestResponse{
		ID:         uuid.NewString(),
		Comparison: comparison,
	})
}
