package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"tga-liquidity/internal/align"
	"tga-liquidity/internal/analysis"
	"tga-liquidity/internal/api/models"
	"tga-liquidity/internal/config"
	"tga-liquidity/internal/ingest"
	"tga-liquidity/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AlignHandler handles TGA upload alignment.
type AlignHandler struct {
	engine   *align.Engine
	defaults align.Options
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

func NewAlignHandler(engine *align.Engine, defaults align.Options, m *metrics.Metrics, logger *slog.Logger) *AlignHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AlignHandler{engine: engine, defaults: defaults, metrics: m, logger: logger.With("component", "api")}
}

// Align handles POST /api/v1/align
func (h *AlignHandler) Align(c *gin.Context) {
	var req models.AlignRequest
	if err := c.ShouldBind(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return
	}

	opts := h.defaults
	if s := strings.TrimSpace(req.Symbol); s != "" {
		opts.Symbol = s
	}
	if req.Anchor != "" {
		anchor, err := config.ParseWeekday(req.Anchor)
		if err != nil {
			writeError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
			return
		}
		opts.Anchor = anchor
	}

	f, ok := openUpload(c)
	if !ok {
		return
	}
	defer f.Close()

	start := time.Now()
	balances, err := ingest.ReadBalances(f)
	if err != nil {
		h.metrics.ObserveRun(metrics.PipelineAlign, metrics.OutcomeError, start)
		respondError(c, err)
		return
	}

	res, err := h.engine.Align(c.Request.Context(), balances, opts)
	h.metrics.ObserveRun(metrics.PipelineAlign, metrics.Outcome(err, res.Empty()), start)
	if err != nil {
		h.logger.Warn("alignment failed", "symbol", opts.Symbol, "error", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.AlignResponse{
		ID:     uuid.NewString(),
		Status: "completed",
		Empty:  res.Empty(),
		Symbol: opts.Symbol,
		Anchor: strings.ToLower(opts.Anchor.String()),
		PriceWindow: models.TimeWindow{
			Start: res.PriceStart,
			End:   res.PriceEnd,
		},
		Rows:         buildJointRows(res),
		WeeklyPrices: buildPricePoints(res.WeeklyPrices),
		Stats:        analysis.ComputeJointStats(res.Joint),
	})
}
