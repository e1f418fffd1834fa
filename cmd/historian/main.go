// cmd/historian/main.go drains recorded game actions from Redis into PostgreSQL
// and marks games abandoned after a period of inactivity.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jason-s-yu/daifugo/internal/cache"
	"github.com/jason-s-yu/daifugo/internal/config"
	"github.com/jason-s-yu/daifugo/internal/database"
	"github.com/jason-s-yu/daifugo/internal/historian"
	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}
	logger := cfg.NewLogger()
	if cfg.RedisAddr == "" || cfg.DatabaseURL == "" {
		logger.Fatal("REDIS_ADDR and DATABASE_URL are required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb, err := cache.Connect(ctx, cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to redis")
	}
	defer rdb.Close()

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to database")
	}
	defer pool.Close()

	store := database.NewStore(pool, logger)
	if err := store.Migrate(ctx); err != nil {
		logger.WithError(err).Fatal("failed to migrate database")
	}

	logger.WithField("queue", cfg.Queue).Info("historian started")
	historian.New(rdb, store, cfg.HistorianConfig(), logger).Run(ctx)
	logger.Info("historian shutting down")
}
