package main

import (
	"fmt"
	"log"
	"os"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"peerchat-service/internal/broker"
	"peerchat-service/internal/config"
	"peerchat-service/internal/database"
	"peerchat-service/internal/job"
	"peerchat-service/internal/repository"
	"peerchat-service/internal/router"
)

func main() {
	cfg, err := config.Load(configPath())
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("Starting peerchat service",
		zap.Int("port", cfg.Server.Port),
		zap.String("base_path", cfg.Server.BasePath),
		zap.String("env", cfg.Server.Env))

	db, err := database.NewDB(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	redisClient, err := database.NewRedis(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to redis", zap.Error(err))
	}

	// Without redis every instance fans out locally; with redis the
	// room channels span all instances.
	var eventBroker broker.Broker
	if redisClient != nil {
		eventBroker = broker.NewRedisBroker(redisClient, logger)
		logger.Info("Using redis broker")
	} else {
		eventBroker = broker.NewMemoryBroker(logger)
		logger.Info("Using in-memory broker")
	}
	defer eventBroker.Close()

	// Hourly sweep of stale pending invitations.
	scheduler := cron.New()
	sweep := job.NewInvitationSweepJob(repository.NewInvitationRepository(db), logger)
	if _, err := scheduler.AddJob("@hourly", sweep); err != nil {
		logger.Fatal("Failed to schedule invitation sweep", zap.Error(err))
	}
	scheduler.Start()
	defer scheduler.Stop()

	r := router.Setup(cfg, db, redisClient, eventBroker, logger)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Info("Peerchat service listening", zap.String("address", addr))

	if err := r.Run(addr); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}

func configPath() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}
	return "config.yaml"
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Server.Env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
