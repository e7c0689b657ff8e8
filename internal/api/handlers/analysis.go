package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"solar-treasury/internal/analysis"
	"solar-treasury/internal/api/models"
	"solar-treasury/internal/config"
	"solar-treasury/internal/model"
	"solar-treasury/internal/settlement/stub"
	"solar-treasury/internal/sim"
)

// AnalysisHandler serves run summaries and risk-tolerance rankings.
type AnalysisHandler struct {
	engine *sim.Engine
	cfg    config.Config
}

func NewAnalysisHandler(engine *sim.Engine, cfg config.Config) *AnalysisHandler {
	return &AnalysisHandler{engine: engine, cfg: cfg}
}

// GetSummary handles GET /api/v1/summary over the live history.
func (h *AnalysisHandler) GetSummary(c *gin.Context) {
	c.JSON(http.StatusOK, models.SummaryResponse{
		Summary: analysis.Summarize(h.engine.History()),
	})
}

// RankRiskTolerances handles POST /api/v1/rank. Each candidate runs in a
// throwaway engine against the in-memory gateway; the live portfolio is
// never touched.
func (h *AnalysisHandler) RankRiskTolerances(c *gin.Context) {
	var req models.RankRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "INVALID_REQUEST", Message: err.Error()},
		})
		return
	}
	if len(req.RiskTolerances) == 0 {
		req.RiskTolerances = []float64{0.2, 0.5, 0.7, 0.9}
	}
	if req.Epochs <= 0 {
		req.Epochs = 50
	}
	seed := req.Seed
	if seed == 0 {
		seed = 1
	}

	ctx := c.Request.Context()
	run := func(riskTolerance float64, epochs int) []model.EpochRecord {
		engine := sim.New(h.cfg, sim.Options{Gateway: stub.NewGateway(), Seed: seed})
		for i := 0; i < epochs; i++ {
			if _, err := engine.RunEpoch(ctx, riskTolerance); err != nil {
				break
			}
		}
		return engine.History()
	}

	c.JSON(http.StatusOK, models.RankResponse{
		Rankings: analysis.RankRiskTolerances(req.RiskTolerances, req.Epochs, run),
	})
}
