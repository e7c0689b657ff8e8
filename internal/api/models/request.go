package models

// EpochRequest is the body of POST /api/v1/epoch.
// RiskTolerance outside [0,1] is clamped, not rejected. ForceCrisis, if
// set, arms a one-shot forced crisis before the epoch runs.
type EpochRequest struct {
	RiskTolerance float64 `json:"risk_tolerance"`
	ForceCrisis   string  `json:"force_crisis,omitempty"`
}

// CrisisRequest is the body of POST /api/v1/crisis.
// Kind "none" clears any pending forced crisis.
type CrisisRequest struct {
	Kind string `json:"kind" binding:"required"`
}

// RankRequest is the body of POST /api/v1/rank.
type RankRequest struct {
	RiskTolerances []float64 `json:"risk_tolerances"`
	Epochs         int       `json:"epochs"`
	Seed           int64     `json:"seed,omitempty"`
}
