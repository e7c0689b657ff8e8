package forecast

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"solar-treasury/internal/model"
)

func TestForecastErrorBands(t *testing.T) {
	sim := NewSimulator(rand.New(rand.NewSource(1)))
	state := model.EnvironmentState{ProductionFactor: 80, Price: 0.20}

	for i := 0; i < 1000; i++ {
		b := sim.Basic(state)
		assert.InDelta(t, state.ProductionFactor, b.Production, state.ProductionFactor*BasicProductionError+1e-9)
		assert.InDelta(t, state.Price, b.Price, state.Price*BasicPriceError+1e-9)

		p := sim.Premium(state)
		assert.InDelta(t, state.ProductionFactor, p.Production, state.ProductionFactor*PremiumProductionError+1e-9)
		assert.InDelta(t, state.Price, p.Price, state.Price*PremiumPriceError+1e-9)
	}
}

func TestForecastFlooredAtZero(t *testing.T) {
	sim := NewSimulator(rand.New(rand.NewSource(1)))
	state := model.EnvironmentState{ProductionFactor: 0, Price: 0}
	b := sim.Basic(state)
	assert.GreaterOrEqual(t, b.Production, 0.0)
	assert.GreaterOrEqual(t, b.Price, 0.0)
}

func TestEstimateEVPIFormula(t *testing.T) {
	state := model.EnvironmentState{ProductionFactor: 100, Price: 0.20}
	basic := model.Forecast{Production: 110, Price: 0.24}   // errors: 10, 0.04
	premium := model.Forecast{Production: 101, Price: 0.21} // errors: 1, 0.01

	// deltaProduction = 10 - 1 = 9; deltaPrice = 0.04 - 0.01 = 0.03
	// infoGain = (0.6*9 + 1.0*0.03) * 0.08 = 5.43 * 0.08 = 0.4344
	got := EstimateEVPI(state, basic, premium)
	assert.InDelta(t, 0.4344+0.20, got, 1e-9)
}

func TestEstimateEVPIClampsNegativeGain(t *testing.T) {
	// A premium forecast that happened to land worse than the basic one
	// still carries the fixed penalty-avoidance value.
	state := model.EnvironmentState{ProductionFactor: 100, Price: 0.20}
	basic := model.Forecast{Production: 100, Price: 0.20}
	premium := model.Forecast{Production: 90, Price: 0.10}

	assert.Equal(t, 0.20, EstimateEVPI(state, basic, premium))
}

func TestEstimateEVPIRoundsToFourDecimals(t *testing.T) {
	state := model.EnvironmentState{ProductionFactor: 100, Price: 0.20}
	basic := model.Forecast{Production: 100.123456, Price: 0.20}
	premium := model.Forecast{Production: 100, Price: 0.20}

	got := EstimateEVPI(state, basic, premium)
	assert.Equal(t, math.Round(got*10000)/10000, got)
}
