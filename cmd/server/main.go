package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"slipgate/internal/platform/config"
	"slipgate/internal/platform/httpserver"
	"slipgate/internal/platform/logger"
	"slipgate/internal/platform/metrics"
	platformredis "slipgate/internal/platform/redis"
	"slipgate/internal/slip/inquiry"
	"slipgate/internal/slip/qrdecode"
	"slipgate/internal/slip/replay"
	"slipgate/internal/slip/service"
	httptransport "slipgate/internal/transport/http"
)

// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal/slip packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	client, err := inquiry.NewClient(
		cfg.Inquiry.BaseURL,
		cfg.Inquiry.ClientID,
		cfg.Inquiry.ClientSecret,
		inquiry.WithHTTPClient(&http.Client{Timeout: cfg.Inquiry.Timeout}),
		inquiry.WithLogger(log),
	)
	if err != nil {
		log.Error("inquiry client init failed", "error", err)
		os.Exit(1)
	}

	decoder, err := qrdecode.New(qrdecode.NewZXing())
	if err != nil {
		log.Error("qr decoder init failed", "error", err)
		os.Exit(1)
	}

	m := metrics.New()

	opts := []service.Option{
		service.WithMetrics(m),
		service.WithLogger(log),
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis init failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		store, err := replay.NewRedis(redisClient)
		if err != nil {
			log.Error("replay store init failed", "error", err)
			os.Exit(1)
		}
		guard, err := replay.NewGuard(store, cfg.ReplayTTL)
		if err != nil {
			log.Error("replay guard init failed", "error", err)
			os.Exit(1)
		}
		opts = append(opts, service.WithReplayGuard(guard))
		defer redisClient.Close()
	}

	svc, err := service.New(client, decoder, opts...)
	if err != nil {
		log.Error("service init failed", "error", err)
		os.Exit(1)
	}

	handler := httptransport.NewHandler(svc, log)

	var health httptransport.HealthChecker
	if redisClient != nil {
		health = redisClient
	}
	router := httptransport.NewRouter(handler, log, health)

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting slipgate", "addr", cfg.Addr, "inquiry_url", cfg.Inquiry.BaseURL)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}
