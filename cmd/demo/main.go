package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"solar-treasury/internal/analysis"
	"solar-treasury/internal/config"
	"solar-treasury/internal/settlement/stub"
	"solar-treasury/internal/sim"
)

// Demo:
//   - Seed a portfolio with one solar farm and a little cash
//   - Step the simulation for a number of epochs, optionally forcing a crisis
//     partway through
//   - Print the per-epoch ledger and a run summary
func main() {
	epochs := flag.Int("epochs", 20, "Number of epochs to simulate")
	risk := flag.Float64("risk", 0.7, "Risk tolerance in [0,1]")
	seed := flag.Int64("seed", 42, "RNG seed (0 = time-based)")
	forceKind := flag.String("force", "grid_failure", "Crisis kind to force (empty = none)")
	forceAt := flag.Int("force-at", 10, "Epoch at which to force the crisis (-1 = never)")
	outCSV := flag.String("out", "", "Optional path to write the ledger CSV")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(zerolog.WarnLevel)

	cfg := config.Default()
	engine := sim.New(cfg, sim.Options{Gateway: stub.NewGateway(), Seed: *seed, Logger: log})

	ctx := context.Background()
	for i := 0; i < *epochs; i++ {
		if *forceAt == i && *forceKind != "" {
			if err := engine.ForceCrisis(*forceKind); err != nil {
				fmt.Fprintf(os.Stderr, "force crisis: %v\n", err)
				os.Exit(1)
			}
		}
		record, err := engine.RunEpoch(ctx, *risk)
		if err != nil {
			fmt.Fprintf(os.Stderr, "epoch %d: %v\n", i, err)
			os.Exit(1)
		}

		event := record.CrisisMessage
		if event == "" {
			event = "stable"
		}
		fmt.Printf("epoch %3d  nav=%8.4f  dd=%+6.2f%%  cash=%7.4f  assets=%d  stress=%.2f  %-14s  %s\n",
			record.Step, record.NAV, record.Drawdown*100, record.Cash,
			record.AssetCount, record.MarketStress, record.Decision, event)
	}

	history := engine.History()
	if *outCSV != "" {
		if err := sim.WriteHistoryCSV(*outCSV, history); err != nil {
			fmt.Fprintf(os.Stderr, "write csv: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("\nledger written to %s\n", *outCSV)
	}

	s := analysis.Summarize(history)
	fmt.Printf("\nsummary: final_nav=%.4f peak=%.4f max_dd=%.2f%% deploys=%d premium=%d info_spend=%.4f crises=%d\n",
		s.FinalNAV, s.PeakNAV, s.MaxDrawdown*100, s.Deploys, s.PremiumPurchases, s.InfoSpend, s.CrisisEpochs)
}
