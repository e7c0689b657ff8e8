package policy

import (
	"fmt"

	"solar-treasury/internal/model"
)

// Fixed regime thresholds. Only the normal-regime threshold scales with
// risk tolerance; crisis and dip entries demand a larger edge no matter who
// is asking.
const (
	crisisThreshold = 0.20
	dipThreshold    = 0.25

	killSwitchDrawdown = -0.30
	deepDrawdown       = -0.10
)

// DefaultDeployCost and DefaultDeployCashBuffer guard capital deployment
// feasibility.
const (
	DefaultDeployCost       = 1.0
	DefaultDeployCashBuffer = 1.0
)

// Context carries everything the investment policy reads for one decision.
type Context struct {
	Cash          float64
	Drawdown      float64
	RiskTolerance float64
	CrisisActive  bool
	NetEdge       float64

	Step           int
	LastDeployStep *int

	MinCashBuffer float64
	DeployCost    float64
}

// Outcome is the policy verdict plus its human-readable trace.
type Outcome struct {
	Decision  model.Decision
	Rationale []string
	Meta      model.PolicyMeta
}

// Decide evaluates the deployment rules in strict priority order; the first
// matching rule wins. Every path appends at least one rationale line so a
// dashboard can replay why capital moved or did not.
func Decide(ctx Context) Outcome {
	normalThreshold := 0.12 - 0.06*ctx.RiskTolerance
	cooldown := 2
	if ctx.RiskTolerance >= 0.75 {
		cooldown = 1
	}

	meta := model.PolicyMeta{
		NormalThreshold: normalThreshold,
		CrisisThreshold: crisisThreshold,
		DipThreshold:    dipThreshold,
		Cooldown:        cooldown,
	}
	if ctx.LastDeployStep != nil {
		since := ctx.Step - *ctx.LastDeployStep
		if remaining := cooldown - since + 1; remaining > 0 {
			meta.CooldownRemaining = remaining
		}
	}

	hold := func(lines ...string) Outcome {
		return Outcome{Decision: model.DecisionHoldCash, Rationale: lines, Meta: meta}
	}
	deploy := func(lines ...string) Outcome {
		return Outcome{Decision: model.DecisionDeployCapital, Rationale: lines, Meta: meta}
	}

	// 1. Hard kill-switch: capital preservation overrides everything.
	if ctx.Drawdown <= killSwitchDrawdown {
		return hold(fmt.Sprintf("drawdown %.1f%% breaches %.0f%% kill-switch: preserving capital",
			ctx.Drawdown*100, killSwitchDrawdown*100))
	}

	// 2. Feasibility.
	if ctx.Cash < ctx.DeployCost+ctx.MinCashBuffer {
		return hold(fmt.Sprintf("cash %.4f below deploy cost %.2f + buffer %.2f: cannot deploy",
			ctx.Cash, ctx.DeployCost, ctx.MinCashBuffer))
	}

	// 3. Cooldown after the previous deployment.
	if ctx.LastDeployStep != nil && ctx.Step-*ctx.LastDeployStep <= cooldown {
		return hold(fmt.Sprintf("deployed %d epoch(s) ago, cooldown is %d: waiting",
			ctx.Step-*ctx.LastDeployStep, cooldown))
	}

	// 4. Deep drawdown: contrarian entry only for the most aggressive
	// profile, and never while a crisis is still active.
	if ctx.Drawdown <= deepDrawdown {
		if !ctx.CrisisActive && ctx.RiskTolerance >= 0.8 && ctx.NetEdge >= dipThreshold {
			return deploy(fmt.Sprintf("drawdown %.1f%% with edge %.4f >= %.2f and no active crisis: buying the dip",
				ctx.Drawdown*100, ctx.NetEdge, dipThreshold))
		}
		return hold(fmt.Sprintf("drawdown %.1f%% too deep: holding cash", ctx.Drawdown*100))
	}

	// 5. Crisis regime: hold unless an aggressive profile sees a large edge.
	if ctx.CrisisActive {
		if ctx.RiskTolerance >= 0.75 && ctx.NetEdge >= crisisThreshold {
			return deploy(fmt.Sprintf("crisis active but edge %.4f >= %.2f at risk tolerance %.2f: deploying",
				ctx.NetEdge, crisisThreshold, ctx.RiskTolerance))
		}
		return hold("crisis active: holding cash")
	}

	// 6. Normal regime.
	if ctx.NetEdge >= normalThreshold {
		return deploy(fmt.Sprintf("edge %.4f >= normal threshold %.4f: deploying capital",
			ctx.NetEdge, normalThreshold))
	}
	return hold(fmt.Sprintf("edge %.4f below normal threshold %.4f: holding cash",
		ctx.NetEdge, normalThreshold))
}
