package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"solar-treasury/internal/crisis"
	"solar-treasury/internal/policy"
)

// Config is the on-disk configuration shape (YAML). Every tunable the
// simulation exposes lives here; the zero value of a field means "use the
// default". The crisis probability and EVPI-adjacent costs are deliberately
// configuration, not literals: they are demo knobs, not physical constants.
type Config struct {
	Simulation  SimulationConfig  `yaml:"simulation"`
	Information InformationConfig `yaml:"information"`
	Deployment  DeploymentConfig  `yaml:"deployment"`
	Settlement  SettlementConfig  `yaml:"settlement"`
}

type SimulationConfig struct {
	CrisisProbability      float64 `yaml:"crisis_probability"`
	MitigationChance       float64 `yaml:"mitigation_chance"`
	GridFailureCashPenalty float64 `yaml:"grid_failure_cash_penalty"`

	AssetValueMultiplier float64 `yaml:"asset_value_multiplier"`
	RevenueScale         float64 `yaml:"revenue_scale"`
	OpexPerAsset         float64 `yaml:"opex_per_asset"`
	SurvivalDrawdown     float64 `yaml:"survival_drawdown"`

	SeedCash            float64 `yaml:"seed_cash"`
	SeedAssetCapacityKW float64 `yaml:"seed_asset_capacity_kw"`
	SeedAssetEfficiency float64 `yaml:"seed_asset_efficiency"`

	NewAssetCapacityMinKW float64 `yaml:"new_asset_capacity_min_kw"`
	NewAssetCapacityMaxKW float64 `yaml:"new_asset_capacity_max_kw"`
	NewAssetEfficiencyMin float64 `yaml:"new_asset_efficiency_min"`
	NewAssetEfficiencyMax float64 `yaml:"new_asset_efficiency_max"`
}

type InformationConfig struct {
	PremiumCost   float64 `yaml:"premium_cost"`
	MinCashBuffer float64 `yaml:"min_cash_buffer"`
}

type DeploymentConfig struct {
	DeployCost    float64 `yaml:"deploy_cost"`
	MinCashBuffer float64 `yaml:"min_cash_buffer"`
}

type SettlementConfig struct {
	// RPCURL selects the payment backend. Empty means the in-memory gateway.
	RPCURL string `yaml:"rpc_url"`

	PremiumDestination string `yaml:"premium_destination"`
	DeployDestination  string `yaml:"deploy_destination"`
}

// Default returns the reference configuration.
func Default() Config {
	return Config{
		Simulation: SimulationConfig{
			CrisisProbability:      crisis.DefaultProbability,
			MitigationChance:       0.60,
			GridFailureCashPenalty: crisis.DefaultGridFailurePenalty,
			AssetValueMultiplier:   0.004,
			RevenueScale:           0.01,
			OpexPerAsset:           0.02,
			SurvivalDrawdown:       -0.15,
			SeedCash:               1.0,
			SeedAssetCapacityKW:    100,
			SeedAssetEfficiency:    0.85,
			NewAssetCapacityMinKW:  80,
			NewAssetCapacityMaxKW:  120,
			NewAssetEfficiencyMin:  0.80,
			NewAssetEfficiencyMax:  0.92,
		},
		Information: InformationConfig{
			PremiumCost:   0.05,
			MinCashBuffer: policy.DefaultInfoCashBuffer,
		},
		Deployment: DeploymentConfig{
			DeployCost:    policy.DefaultDeployCost,
			MinCashBuffer: policy.DefaultDeployCashBuffer,
		},
		Settlement: SettlementConfig{
			PremiumDestination: "treasury:forecast-provider",
			DeployDestination:  "treasury:asset-vendor",
		},
	}
}

// Load reads a YAML file over the defaults and validates the result.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	s := c.Simulation
	if s.CrisisProbability < 0 || s.CrisisProbability > 1 {
		return errors.New("simulation.crisis_probability must be in [0, 1]")
	}
	if s.MitigationChance < 0 || s.MitigationChance > 1 {
		return errors.New("simulation.mitigation_chance must be in [0, 1]")
	}
	if s.AssetValueMultiplier <= 0 {
		return errors.New("simulation.asset_value_multiplier must be > 0")
	}
	if s.RevenueScale <= 0 {
		return errors.New("simulation.revenue_scale must be > 0")
	}
	if s.OpexPerAsset < 0 {
		return errors.New("simulation.opex_per_asset must be >= 0")
	}
	if s.SurvivalDrawdown >= 0 {
		return errors.New("simulation.survival_drawdown must be < 0")
	}
	if s.SeedCash < 0 {
		return errors.New("simulation.seed_cash must be >= 0")
	}
	if s.SeedAssetEfficiency <= 0 || s.SeedAssetEfficiency >= 1 {
		return errors.New("simulation.seed_asset_efficiency must be in (0, 1)")
	}
	if s.NewAssetCapacityMinKW <= 0 || s.NewAssetCapacityMaxKW < s.NewAssetCapacityMinKW {
		return errors.New("simulation new asset capacity range is invalid")
	}
	if s.NewAssetEfficiencyMin <= 0 || s.NewAssetEfficiencyMax < s.NewAssetEfficiencyMin || s.NewAssetEfficiencyMax >= 1 {
		return errors.New("simulation new asset efficiency range is invalid")
	}
	if c.Information.PremiumCost < 0 {
		return errors.New("information.premium_cost must be >= 0")
	}
	if c.Information.MinCashBuffer < 0 {
		return errors.New("information.min_cash_buffer must be >= 0")
	}
	if c.Deployment.DeployCost <= 0 {
		return errors.New("deployment.deploy_cost must be > 0")
	}
	if c.Deployment.MinCashBuffer < 0 {
		return errors.New("deployment.min_cash_buffer must be >= 0")
	}
	return nil
}
