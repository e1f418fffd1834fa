// cmd/daifugo/main.go runs a multi-day Daifugo cycle between automated players.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jason-s-yu/daifugo/internal/ai"
	"github.com/jason-s-yu/daifugo/internal/cache"
	"github.com/jason-s-yu/daifugo/internal/config"
	"github.com/jason-s-yu/daifugo/internal/database"
	"github.com/jason-s-yu/daifugo/internal/dice"
	"github.com/jason-s-yu/daifugo/internal/game"
	"github.com/jason-s-yu/daifugo/internal/match"
	"github.com/jason-s-yu/daifugo/internal/progression"
	"github.com/jason-s-yu/daifugo/internal/rating"
	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}
	logger := cfg.NewLogger()
	if err := run(cfg, logger); err != nil {
		logger.WithError(err).Error("cycle stopped early")
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *logrus.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	seed := cfg.Seed
	if seed == 0 {
		var err error
		if seed, err = dice.NewSeed(); err != nil {
			return fmt.Errorf("seed randomness: %w", err)
		}
	}
	src := dice.NewSeeded(seed)
	rules, err := cfg.HouseRules()
	if err != nil {
		return err
	}

	engineOpts := []game.Option{
		game.WithSource(src),
		game.WithLogger(logger),
		game.WithRules(rules),
	}
	if cfg.RedisAddr != "" {
		rdb, err := cache.Connect(ctx, cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer rdb.Close()
		pub := cache.NewPublisher(rdb, cfg.Queue, logger)
		defer pub.Close()
		engineOpts = append(engineOpts, game.WithRecorder(pub))
	}

	eng, err := game.NewEngine(cfg.Players, engineOpts...)
	if err != nil {
		return err
	}

	sessionOpts := []match.Option{match.WithConfig(cfg.MatchConfig())}
	if settings, ok := cfg.LLMSettings(); ok {
		llm := ai.NewLLM(ai.NewOpenAICompleter(settings), logger)
		sessionOpts = append(sessionOpts, match.WithCollaborator(llm))
	}
	session := match.NewSession(eng, sessionOpts...)
	session.LoadPersonalities(ctx)

	runner := match.NewRunner(session, progression.NewCycle(cfg.Players, cfg.Days, src, logger))
	runner.MaxSteps = cfg.MaxSteps
	runner.Board = rating.NewBoard()

	if cfg.DatabaseURL != "" {
		pool, err := database.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer pool.Close()
		store := database.NewStore(pool, logger)
		if err := store.Migrate(ctx); err != nil {
			return err
		}
		runner.Archive = store
	}

	logger.WithFields(logrus.Fields{
		"players": cfg.Players,
		"days":    cfg.Days,
		"seed":    seed,
	}).Info("starting cycle")

	reports, err := runner.Run(ctx)
	for _, r := range reports {
		logger.WithFields(logrus.Fields{
			"day":     r.Summary.Day,
			"ranking": r.Summary.Ranking,
			"caught":  r.Summary.Caught,
			"titles":  r.Evening.Titles,
		}).Info("day report")
	}
	for i, s := range runner.Board.Leaderboard() {
		logger.WithFields(logrus.Fields{
			"place":  i + 1,
			"player": s.Player,
			"rating": int(s.Rating),
			"games":  s.Games,
		}).Info("leaderboard")
	}
	return err
}
