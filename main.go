package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dinedesk-pos-service/internal/config"
	httpapi "dinedesk-pos-service/internal/http"
	"dinedesk-pos-service/internal/kds"
	"dinedesk-pos-service/internal/logger"
	"dinedesk-pos-service/internal/pos"
	"dinedesk-pos-service/internal/reports"
	"dinedesk-pos-service/internal/upstream"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log, err := logger.New(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if cfg.JWTSecret == "" {
		log.Warn("JWT_SECRET is empty; every session check will fail")
	}

	client := upstream.New(cfg.UpstreamBaseURL, cfg.UpstreamTimeout, log)
	registry := pos.NewRegistry(client, log, cfg.POSPollInterval)
	kitchen := kds.NewService(client, log)
	feed := kds.NewFeed(kitchen, log, cfg.KDSPollInterval)
	reporting := reports.NewService(client, log)

	apiServer := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: httpapi.NewRouter(httpapi.Deps{
			Logger:   log,
			Config:   cfg,
			Registry: registry,
			Kitchen:  kitchen,
			Feed:     feed,
			Reports:  reporting,
			Upstream: client,
		}),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("pos api ready", zap.String("base", "/api"))
		log.Info("kitchen feed ready", zap.String("base", "/ws/kds"))
		log.Info("pos service listening", zap.String("addr", cfg.HTTPAddr), zap.String("upstream", cfg.UpstreamBaseURL))
		if err := apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	feed.Shutdown()
	registry.Shutdown()

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctxShutdown); err != nil {
		log.Error("http server shutdown failed", zap.Error(err))
	}
}
