package forecast

import (
	"math"
	"math/rand"
	"time"

	"solar-treasury/internal/model"
)

// Relative estimation error bands. The premium feed is an order of magnitude
// more accurate than the basic one; the gap is what the EVPI proxy prices.
const (
	BasicProductionError = 0.20
	BasicPriceError      = 0.12

	PremiumProductionError = 0.03
	PremiumPriceError      = 0.02
)

// EVPI proxy weights. The additive constant is a fixed stand-in for expected
// penalty-avoidance value (avoided blackout cost) and is always included,
// regardless of how the two forecasts happened to land.
const (
	evpiProductionWeight  = 0.6
	evpiPriceWeight       = 1.0
	evpiScale             = 0.08
	penaltyAvoidanceValue = 0.20
)

// Simulator derives noisy production/price estimates from a true
// environment state.
type Simulator struct {
	rng *rand.Rand
}

// NewSimulator creates a forecast simulator. A nil rng gets a time-seeded
// source; pass a seeded rng for reproducible runs.
func NewSimulator(rng *rand.Rand) *Simulator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Simulator{rng: rng}
}

// Basic returns the free low-accuracy estimate.
func (s *Simulator) Basic(state model.EnvironmentState) model.Forecast {
	return model.Forecast{
		Production: perturb(s.rng, state.ProductionFactor, BasicProductionError),
		Price:      perturb(s.rng, state.Price, BasicPriceError),
	}
}

// Premium returns the paid high-accuracy estimate.
func (s *Simulator) Premium(state model.EnvironmentState) model.Forecast {
	return model.Forecast{
		Production: perturb(s.rng, state.ProductionFactor, PremiumProductionError),
		Price:      perturb(s.rng, state.Price, PremiumPriceError),
	}
}

// perturb applies a uniform relative error in ±maxErr and floors at 0.
func perturb(rng *rand.Rand, value, maxErr float64) float64 {
	err := (rng.Float64()*2 - 1) * maxErr
	return math.Max(0, value*(1+err))
}

// EstimateEVPI scores how much the premium estimate improved on the basic
// one for this state. It is a crude proxy, monotone in accuracy gain, not a
// true Bayesian expected value of perfect information.
func EstimateEVPI(state model.EnvironmentState, basic, premium model.Forecast) float64 {
	deltaProduction := math.Abs(basic.Production-state.ProductionFactor) - math.Abs(premium.Production-state.ProductionFactor)
	deltaPrice := math.Abs(basic.Price-state.Price) - math.Abs(premium.Price-state.Price)

	infoGain := math.Max(0, evpiProductionWeight*deltaProduction+evpiPriceWeight*deltaPrice) * evpiScale
	return round4(infoGain + penaltyAvoidanceValue)
}

func round4(x float64) float64 {
	return math.Round(x*10000) / 10000
}
