package main

import (
	"context"
	"log"
	"time"

	"cinebook/cmd"
	"cinebook/internal/data/repository"
	"cinebook/internal/job"
	"cinebook/internal/usecase"
	"cinebook/internal/wire"
	"cinebook/migrations"
	"cinebook/pkg/database"
	"cinebook/pkg/mailer"
	"cinebook/pkg/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	migrateCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
	err = migrations.Apply(migrateCtx, db, logger)
	cancel()
	if err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}

	bills, purger, closeBills := newBillStore(config.Redis, logger)
	defer closeBills()

	repos := repository.NewRepository(db, bills, logger)

	var receipts usecase.ReceiptSender
	if config.Email.Enabled() {
		receipts = mailer.New(config.Email, logger)
	} else {
		logger.Info("SMTP not configured, bill receipts are disabled")
	}

	app := wire.Wiring(repos, config, receipts, logger)

	scheduler, err := job.NewScheduler(app.Service.Auth, app.Service.Movie, purger, logger)
	if err != nil {
		logger.Fatal("Failed to create scheduler", zap.Error(err))
	}
	scheduler.Start()
	defer func() {
		if err := scheduler.Shutdown(); err != nil {
			logger.Warn("Scheduler shutdown failed", zap.Error(err))
		}
	}()

	if err := cmd.APIServer(app.Router, config.App.Port, logger); err != nil {
		logger.Error("Server error", zap.Error(err))
	}
}

// newBillStore prefers Redis and falls back to process memory when no
// address is configured. The purger is nil for Redis, which expires keys itself.
func newBillStore(config utils.RedisConfig, logger *zap.Logger) (repository.BillRepository, job.BillPurger, func()) {
	if config.Addr == "" {
		logger.Warn("REDIS_ADDR not set, bills are kept in process memory")
		store := repository.NewMemoryBillRepository()
		return store, store, func() {}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Fatal("Failed to connect to redis", zap.Error(err), zap.String("addr", config.Addr))
	}

	logger.Info("Redis connected", zap.String("addr", config.Addr))
	return repository.NewRedisBillRepository(client, logger), nil, func() {
		if err := client.Close(); err != nil {
			logger.Warn("Redis close failed", zap.Error(err))
		}
	}
}
