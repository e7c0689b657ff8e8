package sim

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solar-treasury/internal/config"
	"solar-treasury/internal/model"
	"solar-treasury/internal/settlement/stub"
)

func newTestEngine(t *testing.T, mutate func(*config.Config)) (*Engine, *stub.Gateway) {
	t.Helper()
	cfg := config.Default()
	if mutate != nil {
		mutate(&cfg)
	}
	require.NoError(t, cfg.Validate())
	gw := stub.NewGateway()
	return New(cfg, Options{Gateway: gw, Seed: 42}), gw
}

func TestStableGrowthScenario(t *testing.T) {
	engine, _ := newTestEngine(t, func(c *config.Config) {
		c.Simulation.CrisisProbability = 0
	})
	ctx := context.Background()

	var records []model.EpochRecord
	for i := 0; i < 2; i++ {
		rec, err := engine.RunEpoch(ctx, 0.7)
		require.NoError(t, err)
		records = append(records, rec)
	}

	require.Len(t, engine.History(), 2)
	prevStress := 0.0
	for i, rec := range records {
		assert.Equal(t, i, rec.Step)
		assert.Empty(t, rec.CrisisMessage, "epoch %d should be stable", i)
		assert.Empty(t, rec.CrisisKind)
		assert.GreaterOrEqual(t, rec.Cash, 0.0)
		assert.GreaterOrEqual(t, rec.MarketStress, prevStress)
		prevStress = rec.MarketStress
	}
}

func TestForcedGridFailureWithoutPremium(t *testing.T) {
	engine, _ := newTestEngine(t, func(c *config.Config) {
		// Price the premium signal out of reach so mitigation cannot occur.
		c.Information.PremiumCost = 10
	})
	ctx := context.Background()

	require.NoError(t, engine.ForceCrisis("grid_failure"))
	rec, err := engine.RunEpoch(ctx, 0.7)
	require.NoError(t, err)

	assert.False(t, rec.UsedPremium)
	assert.Equal(t, model.CrisisGridFailure, rec.CrisisKind)
	assert.Contains(t, rec.CrisisMessage, "Grid failure")
	assert.InDelta(t, 0.88, rec.MarketStress, 1e-9)
	assert.GreaterOrEqual(t, rec.MarketStress, 0.50)

	// The 4.0 contract penalty wipes the seed cash; only the scaled-down
	// revenue of the epoch remains.
	assert.GreaterOrEqual(t, rec.Cash, 0.0)
	assert.Less(t, rec.Cash, 0.3)
	assert.Equal(t, model.DecisionHoldCash, rec.Decision)
}

func TestPremiumMitigationStatistics(t *testing.T) {
	engine, _ := newTestEngine(t, func(c *config.Config) {
		c.Simulation.CrisisProbability = 0
		c.Simulation.GridFailureCashPenalty = 0
		c.Simulation.SeedCash = 1000
		// Keep deployments out of the picture.
		c.Deployment.DeployCost = 1e6
	})
	ctx := context.Background()

	const trials = 1000
	avoided := 0
	for i := 0; i < trials; i++ {
		require.NoError(t, engine.ForceCrisis("grid_failure"))
		rec, err := engine.RunEpoch(ctx, 0.7)
		require.NoError(t, err)
		require.True(t, rec.UsedPremium, "trial %d must have bought premium", i)

		if rec.CrisisMessage == MitigationMessage {
			avoided++
			assert.Empty(t, rec.CrisisKind)
		} else {
			assert.Equal(t, model.CrisisGridFailure, rec.CrisisKind)
		}
	}

	// 60% mitigation chance; allow a generous statistical band.
	assert.InDelta(t, 0.60, float64(avoided)/trials, 0.05)
}

func TestDeploymentAndCooldownEndToEnd(t *testing.T) {
	engine, gw := newTestEngine(t, func(c *config.Config) {
		c.Simulation.CrisisProbability = 0
		c.Simulation.SeedCash = 10
	})
	ctx := context.Background()

	rec, err := engine.RunEpoch(ctx, 0.7)
	require.NoError(t, err)
	assert.Equal(t, model.DecisionDeployCapital, rec.Decision)
	assert.NotEmpty(t, rec.SettlementTxID)
	assert.Equal(t, 2, rec.AssetCount)

	// Two settlements so far: the premium signal and the deployment.
	require.Len(t, gw.Settled, 2)
	assert.Equal(t, 1.0, gw.Settled[1].Amount)

	// Cooldown is 2 at risk tolerance 0.7: steps 1 and 2 must hold.
	for step := 1; step <= 2; step++ {
		rec, err = engine.RunEpoch(ctx, 0.7)
		require.NoError(t, err)
		assert.Equal(t, model.DecisionHoldCash, rec.Decision, "step %d within cooldown", step)
		assert.Equal(t, 2, rec.AssetCount)
	}

	// Step 3 is past the cooldown and cash is still ample.
	rec, err = engine.RunEpoch(ctx, 0.7)
	require.NoError(t, err)
	assert.Equal(t, model.DecisionDeployCapital, rec.Decision)
	assert.Equal(t, 3, rec.AssetCount)
}

func TestSettlementFailureDowngradesDeploy(t *testing.T) {
	engine, gw := newTestEngine(t, func(c *config.Config) {
		c.Simulation.CrisisProbability = 0
		c.Simulation.SeedCash = 10
	})
	gw.FailAlways = true
	ctx := context.Background()

	rec, err := engine.RunEpoch(ctx, 0.7)
	require.NoError(t, err)

	// Premium payment failed silently; the epoch proceeded on basic data.
	assert.False(t, rec.UsedPremium)
	assert.Equal(t, 0.0, rec.InfoSpend)

	// Deployment settlement failed: decision downgraded, state untouched.
	assert.Equal(t, model.DecisionDeployFailed, rec.Decision)
	assert.Equal(t, 1, rec.AssetCount)
	assert.Empty(t, rec.SettlementTxID)
	assert.Contains(t, rec.Rationale[len(rec.Rationale)-1], "settlement failed")

	// No deploy happened, so no cooldown either: a later epoch with a
	// working gateway deploys normally.
	gw.FailAlways = false
	rec, err = engine.RunEpoch(ctx, 0.7)
	require.NoError(t, err)
	assert.Equal(t, model.DecisionDeployCapital, rec.Decision)
	assert.Equal(t, 2, rec.AssetCount)
}

func TestInvariantsOverLongRun(t *testing.T) {
	engine, _ := newTestEngine(t, nil)
	ctx := context.Background()

	prevHWM := 0.0
	prevAssets := 0
	for i := 0; i < 300; i++ {
		risk := float64(i%11) / 10.0
		rec, err := engine.RunEpoch(ctx, risk)
		require.NoError(t, err)

		assert.Equal(t, i, rec.Step)
		assert.GreaterOrEqual(t, rec.Cash, 0.0)
		assert.LessOrEqual(t, rec.Drawdown, 0.0)
		assert.GreaterOrEqual(t, rec.MarketStress, 0.50)
		assert.LessOrEqual(t, rec.MarketStress, 1.0)
		assert.GreaterOrEqual(t, rec.HWM, prevHWM, "hwm must not decrease")
		assert.GreaterOrEqual(t, rec.AssetCount, prevAssets, "assets never disposed")
		assert.NotEmpty(t, rec.Rationale)

		prevHWM = rec.HWM
		prevAssets = rec.AssetCount
	}

	history := engine.History()
	require.Len(t, history, 300)
	for i, rec := range history {
		assert.Equal(t, i, rec.Step)
	}
	assert.Empty(t, engine.Unreconciled())
}

func TestSurvivalModeSuppressesDeployAtExecution(t *testing.T) {
	// A drawdown can clear every policy rule yet still sit below the
	// survival threshold; the engine must then refuse to execute the
	// deployment the policy asked for.
	engine, gw := newTestEngine(t, func(c *config.Config) {
		c.Simulation.CrisisProbability = 0
		c.Simulation.SeedCash = 10
		// Freeze cash so NAV moves on market stress alone.
		c.Simulation.RevenueScale = 1e-9
		c.Simulation.OpexPerAsset = 0
		// A hair-trigger survival threshold, well above the -10% the
		// policy needs before its own drawdown rules react.
		c.Simulation.SurvivalDrawdown = -0.005
		// Price the premium signal out of reach.
		c.Information.PremiumCost = 100
	})
	ctx := context.Background()

	// Epoch 0: clean book, no drawdown, normal deployment goes through.
	rec, err := engine.RunEpoch(ctx, 0.9)
	require.NoError(t, err)
	require.Equal(t, model.DecisionDeployCapital, rec.Decision)
	require.Equal(t, 2, rec.AssetCount)
	require.Len(t, gw.Settled, 1)

	// Epoch 1: cloud cover knocks market stress to 0.80; the fresh
	// deployment's cooldown keeps the policy on hold regardless.
	require.NoError(t, engine.ForceCrisis("cloud_cover"))
	rec, err = engine.RunEpoch(ctx, 0.9)
	require.NoError(t, err)
	assert.Equal(t, model.DecisionHoldCash, rec.Decision)
	assert.True(t, rec.SurvivalMode)

	// Epoch 2: cooldown expired, no crisis, ample cash, edge above the
	// normal threshold. The policy decides to deploy, but the partial
	// stress recovery leaves the drawdown under the survival line, so
	// the engine downgrades the decision at execution time.
	rec, err = engine.RunEpoch(ctx, 0.9)
	require.NoError(t, err)
	assert.True(t, rec.SurvivalMode)
	assert.Less(t, rec.Drawdown, -0.005)
	assert.Greater(t, rec.Drawdown, -0.10)
	assert.Equal(t, model.DecisionHoldCash, rec.Decision)
	assert.Contains(t, rec.Rationale[0], "deploying capital")
	assert.Contains(t, rec.Rationale[len(rec.Rationale)-1], "survival mode active")

	// Nothing was settled and nothing was bought.
	assert.Equal(t, 2, rec.AssetCount)
	assert.Empty(t, rec.SettlementTxID)
	assert.Len(t, gw.Settled, 1)
	assert.Empty(t, engine.Unreconciled())
}

func TestRiskToleranceClamped(t *testing.T) {
	engine, _ := newTestEngine(t, func(c *config.Config) {
		c.Simulation.CrisisProbability = 0
	})
	ctx := context.Background()

	// Out-of-range values are clamped silently, never rejected.
	_, err := engine.RunEpoch(ctx, -3.5)
	require.NoError(t, err)
	_, err = engine.RunEpoch(ctx, 7.0)
	require.NoError(t, err)
}

func TestForceCrisisUnknownKindRejected(t *testing.T) {
	engine, _ := newTestEngine(t, nil)
	assert.Error(t, engine.ForceCrisis("volcano"))
	assert.NoError(t, engine.ForceCrisis("none"))
}

func TestEngineResetRestoresInitialState(t *testing.T) {
	engine, _ := newTestEngine(t, nil)
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		_, err := engine.RunEpoch(ctx, 0.9)
		require.NoError(t, err)
	}
	engine.Reset()

	snap := engine.CurrentSnapshot()
	assert.Equal(t, 1.0, snap.Cash)
	assert.Equal(t, 1, snap.AssetCount)
	assert.Equal(t, "SOLAR-1", snap.Assets[0].ID)
	assert.Equal(t, 1.0, snap.MarketStress)
	assert.Equal(t, model.RegimeNormal, snap.Regime)
	assert.Equal(t, 0.0, snap.InfoSpendTotal)
	assert.Equal(t, 0, snap.Epochs)
	assert.Empty(t, engine.History())
}
