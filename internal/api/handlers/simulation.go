package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"solar-treasury/internal/api/models"
	"solar-treasury/internal/sim"
)

// SimulationHandler exposes the epoch engine over HTTP. The engine
// serializes epoch invocations internally; handlers stay thin.
type SimulationHandler struct {
	engine *sim.Engine
}

func NewSimulationHandler(engine *sim.Engine) *SimulationHandler {
	return &SimulationHandler{engine: engine}
}

// RunEpoch handles POST /api/v1/epoch.
func (h *SimulationHandler) RunEpoch(c *gin.Context) {
	var req models.EpochRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "INVALID_REQUEST", Message: err.Error()},
		})
		return
	}

	if req.ForceCrisis != "" {
		if err := h.engine.ForceCrisis(req.ForceCrisis); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error: models.ErrorDetail{Code: "UNKNOWN_CRISIS_KIND", Message: err.Error()},
			})
			return
		}
	}

	record, err := h.engine.RunEpoch(c.Request.Context(), req.RiskTolerance)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "EPOCH_ERROR", Message: err.Error()},
		})
		return
	}
	c.JSON(http.StatusOK, record)
}

// GetHistory handles GET /api/v1/history.
func (h *SimulationHandler) GetHistory(c *gin.Context) {
	history := h.engine.History()
	c.JSON(http.StatusOK, models.HistoryResponse{Count: len(history), Epochs: history})
}

// Reset handles POST /api/v1/reset.
func (h *SimulationHandler) Reset(c *gin.Context) {
	h.engine.Reset()
	c.JSON(http.StatusOK, h.engine.CurrentSnapshot())
}

// ForceCrisis handles POST /api/v1/crisis.
func (h *SimulationHandler) ForceCrisis(c *gin.Context) {
	var req models.CrisisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "INVALID_REQUEST", Message: err.Error()},
		})
		return
	}
	if err := h.engine.ForceCrisis(req.Kind); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "UNKNOWN_CRISIS_KIND", Message: err.Error()},
		})
		return
	}
	c.JSON(http.StatusOK, models.StatusResponse{Status: "ok"})
}

// GetPortfolio handles GET /api/v1/portfolio.
func (h *SimulationHandler) GetPortfolio(c *gin.Context) {
	c.JSON(http.StatusOK, h.engine.CurrentSnapshot())
}
