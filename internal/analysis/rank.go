package analysis

import (
	"sort"

	"solar-treasury/internal/model"
)

// RiskRanking scores one risk-tolerance candidate over a simulated run.
type RiskRanking struct {
	Rank          int     `json:"rank"`
	RiskTolerance float64 `json:"risk_tolerance"`
	Score         float64 `json:"score"`
	Summary       Summary `json:"summary"`
}

// Runner executes a fresh simulation at the given risk tolerance for a
// number of epochs and returns the resulting history.
type Runner func(riskTolerance float64, epochs int) []model.EpochRecord

// RankRiskTolerances runs each candidate through the simulation and ranks
// them by drawdown-penalized final NAV. Callers wanting comparable results
// should hand in a Runner with a fixed seed per candidate.
func RankRiskTolerances(candidates []float64, epochs int, run Runner) []RiskRanking {
	out := make([]RiskRanking, 0, len(candidates))
	for _, rt := range candidates {
		s := Summarize(run(rt, epochs))
		out = append(out, RiskRanking{
			RiskTolerance: rt,
			Summary:       s,
			// MaxDrawdown is <= 0, so deep drawdowns discount the final NAV.
			Score: s.FinalNAV * (1 + s.MaxDrawdown),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}
