package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sentryline-systems/sentryline-receiver/internal/broadcast"
	"github.com/sentryline-systems/sentryline-receiver/internal/config"
	"github.com/sentryline-systems/sentryline-receiver/internal/logging"
	"github.com/sentryline-systems/sentryline-receiver/internal/ratelimit"
	"github.com/sentryline-systems/sentryline-receiver/internal/receiver"
	"github.com/sentryline-systems/sentryline-receiver/internal/registry"
	"github.com/sentryline-systems/sentryline-receiver/internal/service"
	"github.com/sentryline-systems/sentryline-receiver/internal/storage"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize structured logging
	logger := logging.New(
		logging.ParseLevel(cfg.Logging.Level),
		cfg.Logging.Format,
	).With(logging.Service("receiver"))
	logging.SetDefault(logger)

	slog.Info("Starting alarm receiver",
		slog.String("listen_addr", cfg.Server.ListenAddr),
		slog.String("log_level", cfg.Logging.Level),
		slog.String("log_format", cfg.Logging.Format),
	)
	if *configPath != "" {
		slog.Info("Loaded configuration", slog.String("config_path", *configPath))
	}

	connString := cfg.Database.ConnString()

	// Run database migrations
	m, err := migrate.New("file://migrations", connString)
	if err != nil {
		log.Fatalf("Failed to initialize migrations: %v", err)
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	// Shared connection pool for the panel registry and the event store
	pool, err := storage.NewPool(context.Background(), connString)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer pool.Close()

	panels := registry.NewPostgresRegistry(pool)
	events := storage.NewPostgresStore(pool)

	// Initialize rate limiter
	var limiter ratelimit.Limiter
	if cfg.Redis.Enabled && cfg.RateLimit.Enabled {
		limiter, err = ratelimit.NewRedisLimiter(
			cfg.Redis.URL,
			cfg.RateLimit.Messages,
			cfg.RateLimit.Window,
		)
		if err != nil {
			log.Printf("WARNING: Failed to initialize Redis rate limiter: %v", err)
			log.Println("Continuing without rate limiting")
			limiter = &ratelimit.NoOpLimiter{}
		} else {
			log.Printf("Rate limiting enabled: %d messages per %s per account",
				cfg.RateLimit.Messages, cfg.RateLimit.Window)
		}
	} else {
		limiter = &ratelimit.NoOpLimiter{}
	}
	defer limiter.Close()

	// Live broadcast hub plus optional bus mirror
	hub := broadcast.NewHub(logger)
	defer hub.Close()

	broadcasters := []service.Broadcaster{hub}
	if cfg.NATS.Enabled {
		natsPub, err := broadcast.NewNATSPublisher(cfg.NATS.URL, logger)
		if err != nil {
			log.Printf("WARNING: Failed to connect to NATS: %v", err)
			log.Println("Continuing without bus mirror")
		} else {
			broadcasters = append(broadcasters, natsPub)
			defer natsPub.Close()
		}
	}

	pipeline := service.NewPipeline(panels, events, limiter, logger, broadcasters...)

	srv := receiver.New(receiver.Config{
		ListenAddr:     cfg.Server.ListenAddr,
		MaxMessageSize: cfg.Server.MaxMessageSize,
		IdleTimeout:    cfg.Server.IdleTimeout,
		ShutdownGrace:  cfg.Server.ShutdownGrace,
	}, pipeline, logger)

	if err := srv.Start(); err != nil {
		log.Fatalf("Failed to start alarm receiver: %v", err)
	}

	// Ops listener: metrics, health, live-monitor websocket
	var opsServer *http.Server
	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{
				"status":      "ok",
				"connections": srv.ConnectionCount(),
				"subscribers": hub.SubscriberCount(),
			})
		})
		mux.HandleFunc("/ws", broadcast.Handler(hub, broadcast.WSConfig{
			SendTimeout: cfg.Broadcast.SendTimeout,
			Buffer:      cfg.Broadcast.Buffer,
		}, logger))

		opsServer = &http.Server{Addr: cfg.Metrics.Addr, Handler: mux}
		go func() {
			slog.Info("Ops listener started", slog.String("addr", cfg.Metrics.Addr))
			if err := opsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				slog.Error("Ops listener failed", logging.Error(err))
			}
		}()
	}

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	slog.Info("Shutting down", slog.String("signal", sig.String()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownGrace+5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Receiver shutdown failed", logging.Error(err))
	}
	if opsServer != nil {
		opsServer.Shutdown(shutdownCtx)
	}

	slog.Info("Shutdown complete")
}
