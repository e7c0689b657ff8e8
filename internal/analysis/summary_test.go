package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"solar-treasury/internal/model"
)

func history() []model.EpochRecord {
	return []model.EpochRecord{
		{Step: 0, NAV: 1.0, Cash: 1.0, Decision: model.DecisionHoldCash},
		{Step: 1, NAV: 2.0, Cash: 1.5, Decision: model.DecisionDeployCapital, UsedPremium: true, InfoSpend: 0.05},
		{Step: 2, NAV: 1.5, Drawdown: -0.25, Cash: 0.5, Decision: model.DecisionDeployFailed,
			CrisisKind: model.CrisisPriceCrash, SurvivalMode: true, InfoSpend: 0.05},
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(history())

	assert.Equal(t, 3, s.Epochs)
	assert.Equal(t, 1.5, s.FinalNAV)
	assert.Equal(t, 2.0, s.PeakNAV)
	assert.InDelta(t, 1.5, s.MeanNAV, 1e-9)
	assert.InDelta(t, 0.5, s.NAVVolatility, 1e-9)
	assert.Equal(t, -0.25, s.MaxDrawdown)
	assert.Equal(t, 0.5, s.FinalCash)
	assert.Equal(t, 1, s.Deploys)
	assert.Equal(t, 1, s.FailedDeploys)
	assert.Equal(t, 1, s.PremiumPurchases)
	assert.Equal(t, 0.05, s.InfoSpend)
	assert.Equal(t, 1, s.CrisisEpochs)
	assert.Equal(t, 1, s.SurvivalEpochs)
}

func TestSummarizeEmptyHistory(t *testing.T) {
	s := Summarize(nil)
	assert.Equal(t, 0, s.Epochs)
	assert.Equal(t, 0.0, s.FinalNAV)
	assert.Equal(t, 0.0, s.NAVVolatility)
}

func TestRankRiskTolerances(t *testing.T) {
	// A runner whose final NAV grows with risk tolerance, with no drawdown:
	// ranking should be descending in tolerance.
	run := func(rt float64, epochs int) []model.EpochRecord {
		return []model.EpochRecord{{Step: 0, NAV: rt * 10}}
	}
	rankings := RankRiskTolerances([]float64{0.2, 0.8, 0.5}, 1, run)

	assert.Equal(t, 0.8, rankings[0].RiskTolerance)
	assert.Equal(t, 1, rankings[0].Rank)
	assert.Equal(t, 0.5, rankings[1].RiskTolerance)
	assert.Equal(t, 0.2, rankings[2].RiskTolerance)
	assert.Equal(t, 3, rankings[2].Rank)
}

func TestRankPenalizesDrawdown(t *testing.T) {
	run := func(rt float64, epochs int) []model.EpochRecord {
		if rt > 0.5 {
			// Higher final NAV, but a brutal drawdown along the way.
			return []model.EpochRecord{{NAV: 12, Drawdown: -0.6}}
		}
		return []model.EpochRecord{{NAV: 10}}
	}
	rankings := RankRiskTolerances([]float64{0.9, 0.3}, 1, run)
	assert.Equal(t, 0.3, rankings[0].RiskTolerance)
}
