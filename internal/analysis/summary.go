package analysis

import (
	"gonum.org/v1/gonum/stat"

	"solar-treasury/internal/model"
)

// Summary aggregates one simulation run into the numbers worth comparing
// across runs.
type Summary struct {
	Epochs int `json:"epochs"`

	FinalNAV      float64 `json:"final_nav"`
	PeakNAV       float64 `json:"peak_nav"`
	MeanNAV       float64 `json:"mean_nav"`
	NAVVolatility float64 `json:"nav_volatility"`
	MaxDrawdown   float64 `json:"max_drawdown"`
	FinalCash     float64 `json:"final_cash"`

	Deploys          int     `json:"deploys"`
	FailedDeploys    int     `json:"failed_deploys"`
	PremiumPurchases int     `json:"premium_purchases"`
	InfoSpend        float64 `json:"info_spend"`
	CrisisEpochs     int     `json:"crisis_epochs"`
	SurvivalEpochs   int     `json:"survival_epochs"`
}

// Summarize computes a Summary over an epoch history.
func Summarize(history []model.EpochRecord) Summary {
	s := Summary{Epochs: len(history)}
	if len(history) == 0 {
		return s
	}

	navs := make([]float64, 0, len(history))
	for _, r := range history {
		navs = append(navs, r.NAV)
		if r.NAV > s.PeakNAV {
			s.PeakNAV = r.NAV
		}
		if r.Drawdown < s.MaxDrawdown {
			s.MaxDrawdown = r.Drawdown
		}
		if r.Decision == model.DecisionDeployCapital {
			s.Deploys++
		}
		if r.Decision == model.DecisionDeployFailed {
			s.FailedDeploys++
		}
		if r.UsedPremium {
			s.PremiumPurchases++
		}
		if r.CrisisKind != "" {
			s.CrisisEpochs++
		}
		if r.SurvivalMode {
			s.SurvivalEpochs++
		}
	}

	last := history[len(history)-1]
	s.FinalNAV = last.NAV
	s.FinalCash = last.Cash
	s.InfoSpend = last.InfoSpend

	s.MeanNAV = stat.Mean(navs, nil)
	if len(navs) > 1 {
		s.NAVVolatility = stat.StdDev(navs, nil)
	}
	return s
}
