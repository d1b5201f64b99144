// Command api runs the civic-stream grievance portal: the HTTP API plus the
// periodic SLA escalation scheduler.
//
// @title        Civic Stream API
// @version      1.0
// @description  Citizen grievance intake and SLA escalation service.
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kshitij-kamdi/civic-stream/internal/api"
	"github.com/kshitij-kamdi/civic-stream/internal/core/ports"
	"github.com/kshitij-kamdi/civic-stream/internal/core/service"
	"github.com/kshitij-kamdi/civic-stream/internal/infrastructure/config"
	mongodb "github.com/kshitij-kamdi/civic-stream/internal/infrastructure/db/mongo"
	redisdb "github.com/kshitij-kamdi/civic-stream/internal/infrastructure/db/redis"
	"github.com/kshitij-kamdi/civic-stream/internal/infrastructure/notify"
	"github.com/kshitij-kamdi/civic-stream/internal/infrastructure/scheduler"
	"github.com/kshitij-kamdi/civic-stream/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Dependencies ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	clock := ports.SystemClock()

	grievanceRepo := mongodb.NewGrievanceRepository(db, clock)
	userRepo := mongodb.NewUserRepository(db)
	if err := grievanceRepo.EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to ensure grievance indexes")
	}
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to ensure user indexes")
	}

	// --- Core services ---
	grievanceService := service.NewGrievanceService(grievanceRepo, userRepo, clock, log)
	escalationService := service.NewEscalationService(grievanceRepo, clock, log)
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, 24*time.Hour)

	// --- Escalation scheduler ---
	sweepLock := redisdb.NewSweepLock(rdb, cfg.Escalation.Interval)
	notifier := notify.NewRedisNotifier(rdb, log)
	sched := scheduler.New(cfg.Escalation.Interval, escalationService, notifier, sweepLock, log)
	sched.Start(ctx)

	// --- HTTP ---
	e := api.NewRouter(api.Deps{
		Grievances: grievanceService,
		Auth:       authService,
		Clock:      clock,
		JWTSecret:  cfg.JWTSecret,
		DB:         db,
		Redis:      rdb,
		Logger:     log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()
	log.Info().Str("port", cfg.Port).Msg("civic-stream api started")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}
}
