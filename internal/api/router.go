package api

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"solar-treasury/internal/api/handlers"
	"solar-treasury/internal/api/middleware"
	"solar-treasury/internal/config"
	"solar-treasury/internal/sim"
)

// NewRouter assembles the gin engine serving the simulation API.
func NewRouter(engine *sim.Engine, cfg config.Config, log zerolog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))

	simulation := handlers.NewSimulationHandler(engine)
	runs := handlers.NewAnalysisHandler(engine, cfg)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	{
		v1.POST("/epoch", simulation.RunEpoch)
		v1.GET("/history", simulation.GetHistory)
		v1.POST("/reset", simulation.Reset)
		v1.POST("/crisis", simulation.ForceCrisis)
		v1.GET("/portfolio", simulation.GetPortfolio)

		v1.GET("/summary", runs.GetSummary)
		v1.POST("/rank", runs.RankRiskTolerances)
	}

	return router
}
