package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"forklift-fleet-backend/config"
	"forklift-fleet-backend/internal/api"
	"forklift-fleet-backend/internal/db"
	"forklift-fleet-backend/internal/metrics"
	"forklift-fleet-backend/internal/notification"
	"forklift-fleet-backend/internal/session"
	"forklift-fleet-backend/internal/status"
	"forklift-fleet-backend/internal/store"
	"forklift-fleet-backend/internal/sweep"
)

func main() {
	logger := log.New(os.Stdout, "fleet-backend ", log.LstdFlags)

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	logger.Printf("configuration loaded successfully from %s", configPath)

	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	logger.Println("database initialized successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Database.Seed {
		if err := db.Seed(ctx, gormDB); err != nil {
			logger.Fatalf("failed to seed database: %v", err)
		}
	}

	appStore := store.NewGormStore(gormDB, cfg.Fleet.IDStrategy)
	if err := appStore.PrimeIDs(ctx); err != nil {
		logger.Fatalf("failed to prime id sequences: %v", err)
	}
	logger.Println("data store initialized")

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	classifier := status.NewClassifier(cfg.Fleet.WarningWindowDays, cfg.Fleet.Location())
	sessions := session.NewManager(appStore, cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute)

	var webpushOptions *webpush.Options
	if cfg.Push.PublicKey != "" && cfg.Push.PrivateKey != "" {
		webpushOptions = &webpush.Options{
			VAPIDPublicKey:  cfg.Push.PublicKey,
			VAPIDPrivateKey: cfg.Push.PrivateKey,
			Subscriber:      cfg.Push.Subject,
			TTL:             cfg.Push.TTL,
		}
	} else {
		logger.Println("VAPID keys are not configured; push notifications are disabled")
	}

	if cfg.Sweep.Enabled {
		var dispatcher sweep.Dispatcher
		if webpushOptions != nil {
			pool := notification.NewWorkerPool(cfg.WorkerPool.Size, appStore, webpushOptions, m)
			pool.Start(ctx)
			dispatcher = pool
		}
		sweepSvc := sweep.NewService(appStore.Operators(), classifier, dispatcher, m, cfg.Sweep.Interval)
		go sweepSvc.Run(ctx)
	} else {
		logger.Println("certificate sweep is disabled")
	}

	handler := api.NewHandler(appStore, classifier, sessions, api.Options{
		Metrics:             m,
		Webpush:             webpushOptions,
		MaintenanceInterval: cfg.Fleet.MaintenanceIntervalHours,
	})
	router := api.NewRouter(handler, api.RouterConfig{
		RateLimitPerSec: cfg.Server.RateLimitPerSec,
		RateLimitBurst:  cfg.Server.RateLimitBurst,
		CacheTTL:        time.Duration(cfg.Server.CacheTTLSeconds) * time.Second,
		Gatherer:        registry,
	})
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logger.Println("Shutdown signal received, stopping services...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}

	logger.Println("Server gracefully stopped")
}
