package model

// EpochRecord is one row of the portfolio's NAV history. Records are
// immutable once appended; Step equals the record's index in the history.
// This is the primary artifact for "what happened" in an epoch.
type EpochRecord struct {
	Step int `json:"step"`

	NAV      float64 `json:"nav"`
	HWM      float64 `json:"hwm"`
	Drawdown float64 `json:"drawdown"`

	CrisisKind    CrisisKind `json:"crisis_kind,omitempty"`
	CrisisMessage string     `json:"crisis_message,omitempty"`
	SurvivalMode  bool       `json:"survival_mode"`

	Decision       Decision `json:"decision"`
	Cash           float64  `json:"cash"`
	AssetCount     int      `json:"asset_count"`
	SettlementTxID string   `json:"settlement_tx_id,omitempty"`

	UsedPremium bool    `json:"used_premium"`
	EVPI        float64 `json:"evpi"`
	InfoSpend   float64 `json:"info_spend"`
	NetEdge     float64 `json:"net_edge"`

	MarketStress float64 `json:"market_stress"`
	Regime       Regime  `json:"regime"`

	ForecastProduction float64 `json:"forecast_production"`
	ForecastPrice      float64 `json:"forecast_price"`

	Rationale  []string   `json:"rationale"`
	PolicyMeta PolicyMeta `json:"policy_meta"`
}
