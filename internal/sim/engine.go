package sim

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"solar-treasury/internal/config"
	"solar-treasury/internal/crisis"
	"solar-treasury/internal/env"
	"solar-treasury/internal/forecast"
	"solar-treasury/internal/model"
	"solar-treasury/internal/policy"
	"solar-treasury/internal/portfolio"
	"solar-treasury/internal/settlement"
)

// MitigationMessage is recorded when a purchased premium signal turns a
// grid failure into a non-event.
const MitigationMessage = "Grid failure forecast: blackout avoided thanks to premium signal"

// Engine owns the portfolio and sequences one epoch per RunEpoch call:
// sample environment, maybe buy the premium signal, maybe suffer a crisis,
// produce and earn, value the book, decide, maybe deploy capital.
//
// The engine is the portfolio's single writer. All entry points serialize
// through one mutex; within an epoch the dependency chain (revenue depends
// on crisis, NAV on revenue, decision on NAV, deployment on decision) is
// strictly sequential, so no finer locking would buy anything.
type Engine struct {
	mu sync.Mutex

	cfg       config.Config
	portfolio *portfolio.Portfolio
	sampler   env.Sampler
	forecasts *forecast.Simulator
	crises    *crisis.Generator
	gateway   settlement.Gateway
	journal   *settlement.Journal
	rng       *rand.Rand
	log       zerolog.Logger
}

// Options configures an Engine. Zero values get working defaults; tests
// pass a Seed and a stub Gateway for determinism.
type Options struct {
	Sampler env.Sampler
	Gateway settlement.Gateway
	Seed    int64
	Logger  zerolog.Logger
}

// New creates an engine with a freshly seeded portfolio.
func New(cfg config.Config, opts Options) *Engine {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	sampler := opts.Sampler
	if sampler == nil {
		sampler = env.NewUniformSampler(rng)
	}

	return &Engine{
		cfg: cfg,
		portfolio: portfolio.New(portfolio.SeedParams{
			Cash:            cfg.Simulation.SeedCash,
			AssetCapacityKW: cfg.Simulation.SeedAssetCapacityKW,
			AssetEfficiency: cfg.Simulation.SeedAssetEfficiency,
		}, cfg.Simulation.AssetValueMultiplier),
		sampler:   sampler,
		forecasts: forecast.NewSimulator(rng),
		crises:    crisis.NewGenerator(cfg.Simulation.CrisisProbability, cfg.Simulation.GridFailureCashPenalty, rng),
		gateway:   opts.Gateway,
		journal:   settlement.NewJournal(),
		rng:       rng,
		log:       opts.Logger.With().Str("component", "engine").Logger(),
	}
}

// RunEpoch advances the simulation by one epoch and returns its record.
// Collaborator failures never escape: a failed premium payment falls back
// to the basic forecast, a failed deployment settlement downgrades the
// decision. The returned error is reserved for corrupted-state faults.
func (e *Engine) RunEpoch(ctx context.Context, riskTolerance float64) (model.EpochRecord, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	riskTolerance = clamp(riskTolerance, 0, 1)
	p := e.portfolio
	step := len(p.History)

	// 1. Sample the environment and derive both forecasts up front.
	state := e.sampler.Sample()
	basic := e.forecasts.Basic(state)
	premium := e.forecasts.Premium(state)
	evpi := forecast.EstimateEVPI(state, basic, premium)

	// 2. Information purchase: pay first, then adopt the premium figures.
	used := basic
	usedPremium := false
	infoSpent := 0.0
	premiumCost := e.cfg.Information.PremiumCost
	if policy.ShouldBuyPremium(p.Cash, premiumCost, evpi, riskTolerance, e.cfg.Information.MinCashBuffer) {
		key := e.journal.Begin(settlement.IntentPremiumPurchase, premiumCost, step)
		receipt, err := e.settle(ctx, e.cfg.Settlement.PremiumDestination, premiumCost)
		if err != nil {
			// Fall back silently to the basic forecast.
			e.journal.Fail(key)
			e.log.Debug().Err(err).Msg("premium purchase failed, using basic forecast")
		} else {
			e.journal.Confirm(key, receipt.TxID)
			usedPremium = true
			used = premium
			infoSpent = premiumCost
			p.Debit(premiumCost)
			p.InfoSpendTotal += premiumCost
			e.journal.Complete(key)
		}
	}

	// 3. Crisis draw, honoring any one-shot forced kind.
	cr := e.crises.Detect()

	// 4. Premium holders dodge grid failures more often than not.
	crisisMessage := ""
	if cr != nil && cr.Kind == model.CrisisGridFailure && usedPremium &&
		e.rng.Float64() < e.cfg.Simulation.MitigationChance {
		cr = nil
		crisisMessage = MitigationMessage
	} else if cr != nil {
		crisisMessage = cr.Message
	}

	// 5. Market stress: multiplicative shock, linear recovery.
	if cr != nil {
		p.ApplyCrisisStress(cr.AssetImpact)
	} else {
		p.RecoverStress()
	}

	// 6. Production and revenue at forecast figures, with crisis penalties.
	totalRevenue := 0.0
	for _, a := range p.Assets {
		production := a.Production(used.Production)
		price := used.Price
		if cr != nil {
			switch cr.Kind {
			case model.CrisisCloudCover:
				production *= 1 - cr.ProductionDrop
			case model.CrisisPriceCrash:
				price *= 1 - cr.PriceDrop
			case model.CrisisGridFailure:
				// Handled below against total revenue.
			}
		}
		totalRevenue += production * price * e.cfg.Simulation.RevenueScale
	}

	// 7. Fixed operating expense per asset.
	p.Debit(e.cfg.Simulation.OpexPerAsset * float64(len(p.Assets)))

	// 8. Grid failure: contract penalty plus unsold production.
	if cr != nil && cr.Kind == model.CrisisGridFailure {
		p.Debit(cr.CashPenalty)
		totalRevenue *= 1 - cr.ProductionDrop
	}

	// 9. Book the revenue.
	p.Credit(totalRevenue)

	// 10. Value the book against the prior peak.
	nav := p.NAV(p.MarketStress)
	drawdown, hwm := p.DrawdownAgainstPriorPeak(nav)
	survivalMode := drawdown < e.cfg.Simulation.SurvivalDrawdown

	// 11. Net informational edge after what was spent this epoch.
	netEdge := evpi - infoSpent

	// 12. Investment decision.
	outcome := policy.Decide(policy.Context{
		Cash:           p.Cash,
		Drawdown:       drawdown,
		RiskTolerance:  riskTolerance,
		CrisisActive:   cr != nil,
		NetEdge:        netEdge,
		Step:           step,
		LastDeployStep: p.LastDeployStep,
		MinCashBuffer:  e.cfg.Deployment.MinCashBuffer,
		DeployCost:     e.cfg.Deployment.DeployCost,
	})
	decision := outcome.Decision
	rationale := outcome.Rationale

	// 13. Execute the deployment, settlement first, mutation second.
	txID := ""
	if decision == model.DecisionDeployCapital {
		deployCost := e.cfg.Deployment.DeployCost
		switch {
		case survivalMode:
			decision = model.DecisionHoldCash
			rationale = append(rationale, "survival mode active: deployment suppressed")
		case p.Cash < deployCost+e.cfg.Deployment.MinCashBuffer:
			decision = model.DecisionHoldCash
			rationale = append(rationale, "insufficient cash at execution time: deployment suppressed")
		default:
			key := e.journal.Begin(settlement.IntentAssetAcquisition, deployCost, step)
			receipt, err := e.settle(ctx, e.cfg.Settlement.DeployDestination, deployCost)
			if err != nil {
				// Portfolio state from before the attempt is preserved untouched.
				e.journal.Fail(key)
				decision = model.DecisionDeployFailed
				rationale = append(rationale, "settlement failed: deployment aborted")
				e.log.Warn().Err(err).Int("step", step).Msg("deployment settlement failed")
			} else {
				e.journal.Confirm(key, receipt.TxID)
				p.Debit(deployCost)
				asset := p.AddAsset(
					uniform(e.rng, e.cfg.Simulation.NewAssetCapacityMinKW, e.cfg.Simulation.NewAssetCapacityMaxKW),
					uniform(e.rng, e.cfg.Simulation.NewAssetEfficiencyMin, e.cfg.Simulation.NewAssetEfficiencyMax),
					deployCost,
				)
				deployedAt := step
				p.LastDeployStep = &deployedAt
				txID = receipt.TxID
				e.journal.Complete(key)

				// Revalue against the same prior-peak baseline.
				nav = p.NAV(p.MarketStress)
				drawdown, hwm = p.DrawdownAgainstPriorPeak(nav)
				survivalMode = drawdown < e.cfg.Simulation.SurvivalDrawdown

				e.log.Info().Str("asset", asset.ID).Str("tx", txID).Int("step", step).Msg("capital deployed")
			}
		}
	}

	// 14. Append the epoch record.
	record := model.EpochRecord{
		Step:               step,
		NAV:                nav,
		HWM:                hwm,
		Drawdown:           drawdown,
		CrisisMessage:      crisisMessage,
		SurvivalMode:       survivalMode,
		Decision:           decision,
		Cash:               p.Cash,
		AssetCount:         len(p.Assets),
		SettlementTxID:     txID,
		UsedPremium:        usedPremium,
		EVPI:               evpi,
		InfoSpend:          p.InfoSpendTotal,
		NetEdge:            netEdge,
		MarketStress:       p.MarketStress,
		Regime:             portfolio.Regime(p.MarketStress),
		ForecastProduction: used.Production,
		ForecastPrice:      used.Price,
		Rationale:          rationale,
		PolicyMeta:         outcome.Meta,
	}
	if cr != nil {
		record.CrisisKind = cr.Kind
	}
	if err := p.Append(record); err != nil {
		return model.EpochRecord{}, err
	}
	return record, nil
}

// settle guards against a missing gateway so offline construction of an
// engine still works; settlement simply always fails.
func (e *Engine) settle(ctx context.Context, destination string, amount float64) (settlement.Receipt, error) {
	if e.gateway == nil {
		return settlement.Receipt{}, settlement.ErrSettlementFailed
	}
	return e.gateway.Settle(ctx, destination, amount)
}

// ForceCrisis arms (or clears, with "none") the one-shot forced crisis for
// the next epoch. Unknown kinds are rejected without mutation.
func (e *Engine) ForceCrisis(kind string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.crises.Force(kind)
}

// History returns a copy of the NAV history.
func (e *Engine) History() []model.EpochRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]model.EpochRecord, len(e.portfolio.History))
	copy(out, e.portfolio.History)
	return out
}

// Reset restores the portfolio to its exact initial state.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.portfolio.Reset()
	e.log.Info().Msg("simulation reset")
}

// Snapshot is a read-only view of the current portfolio.
type Snapshot struct {
	Cash           float64       `json:"cash"`
	Assets         []model.Asset `json:"assets"`
	AssetCount     int           `json:"asset_count"`
	NAV            float64       `json:"nav"`
	MarketStress   float64       `json:"market_stress"`
	Regime         model.Regime  `json:"regime"`
	InfoSpendTotal float64       `json:"info_spend_total"`
	Epochs         int           `json:"epochs"`
}

// CurrentSnapshot returns the portfolio as it stands between epochs.
func (e *Engine) CurrentSnapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	p := e.portfolio
	assets := make([]model.Asset, len(p.Assets))
	copy(assets, p.Assets)
	return Snapshot{
		Cash:           p.Cash,
		Assets:         assets,
		AssetCount:     len(assets),
		NAV:            p.NAV(p.MarketStress),
		MarketStress:   p.MarketStress,
		Regime:         portfolio.Regime(p.MarketStress),
		InfoSpendTotal: p.InfoSpendTotal,
		Epochs:         len(p.History),
	}
}

// Unreconciled exposes settlement intents that confirmed on chain but whose
// local mutation never completed. Always empty in a healthy run; see the
// settlement journal for the consistency gap this surfaces.
func (e *Engine) Unreconciled() []settlement.Intent {
	return e.journal.Unreconciled()
}

func clamp(x, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, x))
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
