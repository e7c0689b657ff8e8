package main

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"solar-treasury/internal/api"
	"solar-treasury/internal/config"
	"solar-treasury/internal/settlement"
	"solar-treasury/internal/settlement/stub"
	"solar-treasury/internal/sim"
)

func main() {
	_ = godotenv.Load()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	cfg := config.Default()
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			log.Fatal().Err(err).Str("path", path).Msg("failed to load config")
		}
		cfg = *loaded
	}

	// An RPC URL selects the real payment backend; otherwise settlements
	// run against the in-memory gateway, which is all a local demo needs.
	if url := os.Getenv("SETTLEMENT_RPC_URL"); url != "" {
		cfg.Settlement.RPCURL = url
	}
	var gateway settlement.Gateway
	if cfg.Settlement.RPCURL != "" {
		gateway = settlement.NewChainClient(cfg.Settlement.RPCURL, log)
		log.Info().Str("rpc", cfg.Settlement.RPCURL).Msg("using chain settlement")
	} else {
		gateway = stub.NewGateway()
		log.Info().Msg("using in-memory settlement")
	}

	engine := sim.New(cfg, sim.Options{Gateway: gateway, Logger: log})

	// Optional autopilot: step one epoch per cron tick at a fixed risk
	// tolerance, mirroring a client polling /epoch.
	if spec := os.Getenv("AUTOPILOT_CRON"); spec != "" {
		risk := 0.7
		if v := os.Getenv("AUTOPILOT_RISK"); v != "" {
			parsed, err := strconv.ParseFloat(v, 64)
			if err != nil {
				log.Fatal().Err(err).Msg("invalid AUTOPILOT_RISK")
			}
			risk = parsed
		}
		c := cron.New()
		if _, err := c.AddFunc(spec, func() {
			record, err := engine.RunEpoch(context.Background(), risk)
			if err != nil {
				log.Error().Err(err).Msg("autopilot epoch failed")
				return
			}
			log.Info().
				Int("step", record.Step).
				Float64("nav", record.NAV).
				Str("decision", string(record.Decision)).
				Msg("autopilot epoch")
		}); err != nil {
			log.Fatal().Err(err).Str("spec", spec).Msg("invalid AUTOPILOT_CRON")
		}
		c.Start()
		defer c.Stop()
		log.Info().Str("spec", spec).Float64("risk", risk).Msg("autopilot enabled")
	}

	if os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(engine, cfg, log)
	handler := cors.Default().Handler(router)

	port := os.Getenv("API_PORT")
	if port == "" {
		port = "8080"
	}
	log.Info().Str("port", port).Msg("starting api server")
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
