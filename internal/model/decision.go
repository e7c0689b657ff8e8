package model

// Decision is the investment policy verdict for one epoch.
// Keep these values stable; they are intended for JSON and CSV output.
type Decision string

const (
	DecisionHoldCash      Decision = "hold_cash"
	DecisionDeployCapital Decision = "deploy_capital"
	DecisionDeployFailed  Decision = "deploy_failed"
)

// Regime classifies market stress into coarse bands.
type Regime string

const (
	RegimeNormal Regime = "NORMAL"
	RegimeStress Regime = "STRESS"
	RegimeCrisis Regime = "CRISIS"
)

// PolicyMeta carries the thresholds the investment policy computed for one
// decision. Observability only; nothing reads it back for control flow.
type PolicyMeta struct {
	NormalThreshold   float64 `json:"normal_threshold"`
	CrisisThreshold   float64 `json:"crisis_threshold"`
	DipThreshold      float64 `json:"dip_threshold"`
	Cooldown          int     `json:"cooldown"`
	CooldownRemaining int     `json:"cooldown_remaining"`
}
