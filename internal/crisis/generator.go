package crisis

import (
	"fmt"
	"math/rand"
	"time"

	"solar-treasury/internal/model"
)

// DefaultProbability is the chance of drawing a crisis in any given epoch.
// The value is deliberately a tunable, not a law of the simulation; demo
// runs want crises often enough to be visible.
const DefaultProbability = 0.35

// DefaultGridFailurePenalty is the contract penalty charged when the grid
// fails and production cannot be sold.
const DefaultGridFailurePenalty = 4.00

// Generator draws at most one crisis per epoch from a fixed catalog.
// A forced kind, if set, wins exactly once and is cleared on the next draw.
type Generator struct {
	rng         *rand.Rand
	probability float64
	catalog     []model.Crisis
	forced      model.CrisisKind
}

// NewGenerator creates a crisis generator. probability is clamped to [0, 1];
// a nil rng gets a time-seeded source.
func NewGenerator(probability, gridFailurePenalty float64, rng *rand.Rand) *Generator {
	if probability < 0 {
		probability = 0
	}
	if probability > 1 {
		probability = 1
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Generator{
		rng:         rng,
		probability: probability,
		catalog:     catalog(gridFailurePenalty),
	}
}

func catalog(gridFailurePenalty float64) []model.Crisis {
	return []model.Crisis{
		{
			Kind:           model.CrisisCloudCover,
			ProductionDrop: 0.95,
			AssetImpact:    0.80,
			Message:        "Cloud cover: solar production -95%",
		},
		{
			Kind:        model.CrisisPriceCrash,
			PriceDrop:   0.90,
			AssetImpact: 0.78,
			Message:     "Price crash: energy price -90%",
		},
		{
			Kind:           model.CrisisGridFailure,
			ProductionDrop: 0.30,
			AssetImpact:    0.88,
			CashPenalty:    gridFailurePenalty,
			Message:        fmt.Sprintf("Grid failure: cannot sell, contract penalties -%.2f", gridFailurePenalty),
		},
	}
}

// Force arms a one-shot forced crisis for the next Detect call.
// kind "none" (or empty) clears any pending force. An unrecognized kind is
// rejected without mutating the pending state.
func (g *Generator) Force(kind string) error {
	if kind == "" || kind == "none" {
		g.forced = ""
		return nil
	}
	if _, ok := g.Lookup(model.CrisisKind(kind)); !ok {
		return fmt.Errorf("unknown crisis kind %q", kind)
	}
	g.forced = model.CrisisKind(kind)
	return nil
}

// Forced returns the currently armed one-shot kind, if any.
func (g *Generator) Forced() model.CrisisKind {
	return g.forced
}

// Detect draws this epoch's crisis, or nil for a stable epoch. A pending
// forced kind is honored deterministically and cleared regardless of outcome.
func (g *Generator) Detect() *model.Crisis {
	if g.forced != "" {
		kind := g.forced
		g.forced = ""
		if c, ok := g.Lookup(kind); ok {
			return &c
		}
		return nil
	}
	if g.rng.Float64() >= g.probability {
		return nil
	}
	c := g.catalog[g.rng.Intn(len(g.catalog))]
	return &c
}

// Lookup returns the catalog entry for a kind.
func (g *Generator) Lookup(kind model.CrisisKind) (model.Crisis, bool) {
	for _, c := range g.catalog {
		if c.Kind == kind {
			return c, true
		}
	}
	return model.Crisis{}, false
}
