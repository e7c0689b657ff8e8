package env

import (
	"math/rand"
	"time"

	"solar-treasury/internal/model"
)

// Ranges for the uniform environment distribution.
const (
	ProductionMin  = 20.0
	ProductionMax  = 100.0
	PriceMin       = 0.05
	PriceMax       = 0.30
	ConsumptionMin = 30.0
	ConsumptionMax = 90.0
)

// Sampler produces one environment reading per call. Draws are independent
// and identically distributed; sampling has no side effects and no failure mode.
type Sampler interface {
	Sample() model.EnvironmentState
}

// UniformSampler draws each field uniformly from its fixed range.
type UniformSampler struct {
	rng *rand.Rand
}

// NewUniformSampler creates a sampler. A nil rng gets a time-seeded source;
// pass a seeded rng for reproducible runs.
func NewUniformSampler(rng *rand.Rand) *UniformSampler {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &UniformSampler{rng: rng}
}

func (s *UniformSampler) Sample() model.EnvironmentState {
	return model.EnvironmentState{
		ProductionFactor: uniform(s.rng, ProductionMin, ProductionMax),
		Price:            uniform(s.rng, PriceMin, PriceMax),
		Consumption:      uniform(s.rng, ConsumptionMin, ConsumptionMax),
	}
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
