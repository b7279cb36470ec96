package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	server "flightwatch_web/internal/adapters/http_server"
	"flightwatch_web/internal/adapters/observability"
	redisad "flightwatch_web/internal/adapters/redis"
	"flightwatch_web/internal/adapters/watchapi"
	"flightwatch_web/internal/shared"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	observability.Serve(cfg.MetricsAddr)

	api, err := watchapi.New(cfg.APIURL, nil, cfg.APIRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize watch API client")
	}
	log.Info().Str("api_url", api.Base()).Msg("watch backend configured")

	views, err := server.NewViews()
	if err != nil {
		log.Fatal().Err(err).Msg("parse templates failed")
	}
	h := &server.Handlers{API: api, Views: views}

	// submit throttle is optional
	if cfg.RedisAddr != "" {
		lim := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, cfg.SubmitLimit, cfg.SubmitWindow)
		pctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := lim.Ping(pctx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis ping failed; throttle will fail open")
		}
		cancel()
		defer lim.Close()
		h.Limiter = lim
		log.Info().Int("limit", cfg.SubmitLimit).Dur("window", cfg.SubmitWindow).Msg("submit throttle on")
	}

	// http
	srv := server.New(cfg.RequestTimeout, cfg.TrustedProxies)
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(h)

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Mux(),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("web listening")
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("stopped")
}
