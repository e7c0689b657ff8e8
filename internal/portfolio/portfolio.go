package portfolio

import (
	"fmt"
	"math"

	"solar-treasury/internal/model"
)

// DefaultAssetValueMultiplier converts installed capacity into NAV terms:
// one asset contributes CapacityKW * Efficiency * multiplier * marketStress.
const DefaultAssetValueMultiplier = 0.004

// Market stress bounds and recovery rate. Stress starts at 1.0, is pushed
// down multiplicatively by crisis impact, and recovers linearly.
const (
	MinMarketStress      = 0.50
	MarketStressRecovery = 0.08
)

// Regime bands over market stress.
const (
	crisisStressBand = 0.80
	stressStressBand = 0.95
)

// SeedParams describes the initial portfolio restored by Reset.
type SeedParams struct {
	Cash            float64
	AssetCapacityKW float64
	AssetEfficiency float64
}

// DefaultSeed returns the canonical starting portfolio: one seed farm and
// just enough cash to buy one premium signal series.
func DefaultSeed() SeedParams {
	return SeedParams{Cash: 1.0, AssetCapacityKW: 100, AssetEfficiency: 0.85}
}

// Portfolio is the single mutable state of the simulation. It is not
// self-synchronizing: the epoch engine owns exclusive write access and
// serializes all mutation.
type Portfolio struct {
	Cash           float64
	Assets         []model.Asset
	History        []model.EpochRecord
	InfoSpendTotal float64
	LastDeployStep *int
	MarketStress   float64

	seed            SeedParams
	valueMultiplier float64
	nextAssetID     int
}

// New creates a portfolio seeded with the given initial state.
func New(seed SeedParams, valueMultiplier float64) *Portfolio {
	if valueMultiplier <= 0 {
		valueMultiplier = DefaultAssetValueMultiplier
	}
	p := &Portfolio{seed: seed, valueMultiplier: valueMultiplier}
	p.Reset()
	return p
}

// Reset restores the exact initial state regardless of prior history.
func (p *Portfolio) Reset() {
	p.nextAssetID = 1
	p.Cash = p.seed.Cash
	p.Assets = []model.Asset{{
		ID:              p.mintAssetID(),
		CapacityKW:      p.seed.AssetCapacityKW,
		Efficiency:      p.seed.AssetEfficiency,
		AcquisitionCost: 0,
	}}
	p.History = nil
	p.InfoSpendTotal = 0
	p.LastDeployStep = nil
	p.MarketStress = 1.0
}

// mintAssetID assigns the next monotonic "SOLAR-N" identifier.
func (p *Portfolio) mintAssetID() string {
	id := fmt.Sprintf("SOLAR-%d", p.nextAssetID)
	p.nextAssetID++
	return id
}

// AddAsset appends a newly acquired asset, assigning its identifier.
func (p *Portfolio) AddAsset(capacityKW, efficiency, acquisitionCost float64) model.Asset {
	a := model.Asset{
		ID:              p.mintAssetID(),
		CapacityKW:      capacityKW,
		Efficiency:      efficiency,
		AcquisitionCost: acquisitionCost,
	}
	p.Assets = append(p.Assets, a)
	return a
}

// Debit removes amount from cash, clamping at zero. Cash is never allowed
// to go negative.
func (p *Portfolio) Debit(amount float64) {
	p.Cash = math.Max(0, p.Cash-amount)
}

// Credit adds amount to cash, clamping at zero for negative inflows.
func (p *Portfolio) Credit(amount float64) {
	p.Cash = math.Max(0, p.Cash+amount)
}

// NAV values the portfolio: cash plus stress-adjusted asset valuation,
// rounded to 4 decimals.
func (p *Portfolio) NAV(assetMultiplier float64) float64 {
	total := p.Cash
	for _, a := range p.Assets {
		total += a.CapacityKW * a.Efficiency * p.valueMultiplier * assetMultiplier
	}
	return round4(total)
}

// DrawdownAgainstPriorPeak computes the current drawdown against the
// high-water mark of all *prior* epochs; the NAV being evaluated is
// excluded from its own baseline. The returned hwm folds the current NAV
// back in for display.
func (p *Portfolio) DrawdownAgainstPriorPeak(currentNAV float64) (drawdown, hwm float64) {
	prevHWM := currentNAV
	if len(p.History) > 0 {
		prevHWM = p.History[0].NAV
		for _, rec := range p.History[1:] {
			if rec.NAV > prevHWM {
				prevHWM = rec.NAV
			}
		}
	}
	if prevHWM > 0 {
		drawdown = math.Min(0, (currentNAV-prevHWM)/prevHWM)
	}
	return drawdown, math.Max(prevHWM, currentNAV)
}

// ApplyCrisisStress pushes market stress down by the crisis impact factor,
// floored at the minimum band.
func (p *Portfolio) ApplyCrisisStress(assetImpact float64) {
	p.MarketStress = math.Max(MinMarketStress, p.MarketStress*assetImpact)
}

// RecoverStress applies one epoch of linear stress recovery.
func (p *Portfolio) RecoverStress() {
	p.MarketStress = math.Min(1.0, p.MarketStress+MarketStressRecovery)
}

// Regime classifies a market stress level.
func Regime(stress float64) model.Regime {
	switch {
	case stress < crisisStressBand:
		return model.RegimeCrisis
	case stress < stressStressBand:
		return model.RegimeStress
	default:
		return model.RegimeNormal
	}
}

// Append records a completed epoch. The record's step must equal the
// current history length; this is the only place history grows.
func (p *Portfolio) Append(rec model.EpochRecord) error {
	if rec.Step != len(p.History) {
		return fmt.Errorf("record step %d does not match history length %d", rec.Step, len(p.History))
	}
	p.History = append(p.History, rec)
	return nil
}

func round4(x float64) float64 {
	return math.Round(x*10000) / 10000
}
