package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"solar-treasury/internal/analysis"
	"solar-treasury/internal/config"
	"solar-treasury/internal/model"
	"solar-treasury/internal/settlement"
	"solar-treasury/internal/settlement/stub"
	"solar-treasury/internal/sim"
)

// CLI runner: load a YAML config, run a batch of epochs, optionally rank a
// set of risk tolerances, and write the ledger to CSV.
func main() {
	cfgPath := flag.String("config", "", "Path to YAML config (optional)")
	epochs := flag.Int("epochs", 100, "Number of epochs to simulate")
	risk := flag.Float64("risk", 0.7, "Risk tolerance in [0,1]")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	outCSV := flag.String("out", "", "Optional path to write the ledger CSV")
	rank := flag.Bool("rank", false, "Rank a grid of risk tolerances instead of a single run")
	rpcURL := flag.String("rpc", "", "Settlement RPC URL (empty = in-memory gateway)")
	verbose := flag.Bool("v", false, "Verbose logging")
	flag.Parse()

	level := zerolog.WarnLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level)

	cfg := config.Default()
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "load config: %v\n", err)
			os.Exit(1)
		}
		cfg = *loaded
	}

	var gateway settlement.Gateway = stub.NewGateway()
	if *rpcURL != "" {
		gateway = settlement.NewChainClient(*rpcURL, log)
	}

	if *rank {
		candidates := []float64{0.1, 0.3, 0.5, 0.7, 0.9}
		rankSeed := *seed
		if rankSeed == 0 {
			rankSeed = 1
		}
		run := func(rt float64, n int) []model.EpochRecord {
			engine := sim.New(cfg, sim.Options{Gateway: gateway, Seed: rankSeed, Logger: log})
			ctx := context.Background()
			for i := 0; i < n; i++ {
				if _, err := engine.RunEpoch(ctx, rt); err != nil {
					break
				}
			}
			return engine.History()
		}
		rankings := analysis.RankRiskTolerances(candidates, *epochs, run)
		for _, r := range rankings {
			fmt.Printf("#%d risk=%.1f score=%8.4f final_nav=%8.4f max_dd=%6.2f%% deploys=%d\n",
				r.Rank, r.RiskTolerance, r.Score, r.Summary.FinalNAV, r.Summary.MaxDrawdown*100, r.Summary.Deploys)
		}
		return
	}

	engine := sim.New(cfg, sim.Options{Gateway: gateway, Seed: *seed, Logger: log})
	ctx := context.Background()
	for i := 0; i < *epochs; i++ {
		if _, err := engine.RunEpoch(ctx, *risk); err != nil {
			fmt.Fprintf(os.Stderr, "epoch %d: %v\n", i, err)
			os.Exit(1)
		}
	}

	history := engine.History()
	if *outCSV != "" {
		if err := sim.WriteHistoryCSV(*outCSV, history); err != nil {
			fmt.Fprintf(os.Stderr, "write csv: %v\n", err)
			os.Exit(1)
		}
	}

	s := analysis.Summarize(history)
	fmt.Printf("epochs=%d final_nav=%.4f peak=%.4f mean=%.4f vol=%.4f max_dd=%.2f%%\n",
		s.Epochs, s.FinalNAV, s.PeakNAV, s.MeanNAV, s.NAVVolatility, s.MaxDrawdown*100)
	fmt.Printf("deploys=%d failed=%d premium=%d info_spend=%.4f crises=%d survival=%d cash=%.4f\n",
		s.Deploys, s.FailedDeploys, s.PremiumPurchases, s.InfoSpend, s.CrisisEpochs, s.SurvivalEpochs, s.FinalCash)
}
