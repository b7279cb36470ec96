package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"flightwatch_web/internal/adapters/observability"
	"flightwatch_web/internal/adapters/watchapi"
	"flightwatch_web/internal/app"
	"flightwatch_web/internal/shared"
)

func main() {
	file := flag.String("file", "watches.json", "JSON array of watches to register")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	raw, err := os.ReadFile(*file)
	if err != nil {
		log.Fatal().Err(err).Str("file", *file).Msg("read seed file failed")
	}
	var entries []app.SeedEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		log.Fatal().Err(err).Str("file", *file).Msg("seed file is not a JSON array of watches")
	}

	api, err := watchapi.New(cfg.APIURL, nil, cfg.APIRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize watch API client")
	}

	log.Info().
		Str("api_url", api.Base()).
		Int("workers", cfg.SeedWorkers).
		Int("watches", len(entries)).
		Msg("seeder starting")

	results := app.NewSeeder(api, cfg.SeedWorkers).Run(ctx, entries)

	failed := 0
	for _, r := range results {
		e := entries[r.Index]
		if r.Err != nil {
			failed++
			log.Warn().Int("index", r.Index).Str("origin", e.Origin).Str("destination", e.Destination).
				Str("date", e.DepartureDate).Err(r.Err).Msg("register failed")
			continue
		}
		log.Info().Int("index", r.Index).Str("origin", r.Watch.Origin).Str("destination", r.Watch.Destination).
			Str("date", r.Watch.DepartureDate).Msg("registered")
	}

	log.Info().Int("ok", len(results)-failed).Int("failed", failed).Msg("seeding completed")
	if failed > 0 {
		os.Exit(1)
	}
}
