package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/config"
	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/infra"
	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/router"
	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/worker"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Data source: postgres for deployments, memory for demos and local
	// hacking without a database.
	var db *gorm.DB
	if cfg.DataSource == "memory" {
		log.Warn().Msg("running on the in-memory store: data is lost on restart")
	} else {
		db, err = infra.NewDatabase(cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to postgres")
		}
	}

	// Redis backs the job queues and the menu cache. In memory mode it is
	// optional; without it async receipts and statistics are disabled.
	var rdb *redis.Client
	rdb, err = infra.NewRedis(cfg.RedisURL)
	if err != nil {
		if cfg.DataSource == "memory" {
			log.Warn().Err(err).Msg("redis unavailable, async jobs disabled")
			rdb = nil
		} else {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repos := router.NewRepos(db)
	dispatcher := worker.NewDispatcher(rdb)
	mailer := infra.NewMailer(cfg)
	menuCB := infra.NewCircuitBreaker(infra.DefaultCBConfig())

	// Worker handlers are wired here (composition root) so the pool has
	// full access to repositories and infrastructure.
	worker.StartWorkerPool(ctx, rdb, cfg.WorkerPoolSize, worker.Handlers{
		Receipt: worker.NewReceiptWorker(repos.Orders, repos.Tables, repos.Users, dispatcher, cfg.ReceiptStoragePath),
		Email:   worker.NewEmailWorker(mailer, rdb),
		Stats:   worker.NewStatsWorker(repos.Stats),
	})

	r := router.New(cfg, db, rdb, repos, dispatcher, menuCB)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("restaurant backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
