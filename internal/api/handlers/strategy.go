package handlers

import (
	"net/http"

	"tga-liquidity/internal/api/models"
	"tga-liquidity/internal/backtest"

	"github.com/gin-gonic/gin"
)

// StrategyHandler handles strategy-related requests
type StrategyHandler struct {
	defaults backtest.Config
}

// NewStrategyHandler creates a new strategy handler
func NewStrategyHandler(defaults backtest.Config) *StrategyHandler {
	return &StrategyHandler{defaults: defaults}
}

// ListStrategies handles GET /api/v1/strategies
func (h *StrategyHandler) ListStrategies(c *gin.Context) {
	strategies := []models.StrategyInfo{
		{
			Name:        "threshold",
			Description: "Long the index for a period when its sentiment score clears the threshold and, optionally, its pivot flag is set. Flat otherwise.",
			Parameters: []models.ParameterInfo{
				{
					Name:        "score_threshold",
					Type:        "float",
					Description: "Inclusive lower bound on the score (0-100 scale)",
					Default:     h.defaults.ScoreThreshold,
				},
				{
					Name:        "require_flag",
					Type:        "bool",
					Description: "Also require the pivot flag to be yes",
					Default:     h.defaults.RequireFlag,
				},
			},
		},
	}
	c.JSON(http.StatusOK, gin.H{"strategies": strategies})
}
