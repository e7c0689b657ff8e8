package model

// CrisisKind names one entry of the fixed crisis catalog.
// Keep these values stable; they are accepted verbatim on the force-crisis API.
type CrisisKind string

const (
	CrisisCloudCover  CrisisKind = "cloud_cover"
	CrisisPriceCrash  CrisisKind = "price_crash"
	CrisisGridFailure CrisisKind = "grid_failure"
)

// Crisis is one stochastic event drawn for an epoch.
//
// Impact fields:
//   - ProductionDrop: fraction of production lost (cloud_cover per asset,
//     grid_failure applied to total revenue)
//   - PriceDrop: fraction of the sale price lost (price_crash)
//   - AssetImpact: multiplicative market stress factor, applied to asset valuation
//   - CashPenalty: fixed cash deduction (grid_failure contract penalties)
type Crisis struct {
	Kind           CrisisKind `json:"kind"`
	ProductionDrop float64    `json:"production_drop,omitempty"`
	PriceDrop      float64    `json:"price_drop,omitempty"`
	AssetImpact    float64    `json:"asset_impact"`
	CashPenalty    float64    `json:"cash_penalty,omitempty"`
	Message        string     `json:"message"`
}
