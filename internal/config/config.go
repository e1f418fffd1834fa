// internal/config/config.go
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/jason-s-yu/daifugo/internal/ai"
	"github.com/jason-s-yu/daifugo/internal/game"
	"github.com/jason-s-yu/daifugo/internal/historian"
	"github.com/jason-s-yu/daifugo/internal/match"
	"github.com/sirupsen/logrus"
)

var ErrInvalid = errors.New("invalid configuration")

// Config is read from the environment. Empty REDIS_ADDR, DATABASE_URL or
// MISTRAL_API_KEY disable the matching integration.
type Config struct {
	LogLevel  string `env:"DAIFUGO_LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"DAIFUGO_LOG_FORMAT" envDefault:"text"`

	Players           []string `env:"DAIFUGO_PLAYERS"            envSeparator:"," envDefault:"Player 1,Player 2,Player 3,Player 4"`
	Days              int      `env:"DAIFUGO_DAYS"               envDefault:"3"`
	Seed              int64    `env:"DAIFUGO_SEED"`
	MaxSteps          int      `env:"DAIFUGO_MAX_STEPS"          envDefault:"5000"`
	Rules             string   `env:"DAIFUGO_RULES"`
	SpontaneousChance float64  `env:"DAIFUGO_SPONTANEOUS_CHANCE" envDefault:"0.2"`
	SkillChance       float64  `env:"DAIFUGO_SKILL_CHANCE"       envDefault:"0.1"`

	MistralAPIKey  string        `env:"MISTRAL_API_KEY"`
	LLMBaseURL     string        `env:"DAIFUGO_LLM_BASE_URL"    envDefault:"https://api.mistral.ai/v1"`
	LLMModel       string        `env:"DAIFUGO_LLM_MODEL"       envDefault:"mistral-small-latest"`
	LLMTemperature float64       `env:"DAIFUGO_LLM_TEMPERATURE" envDefault:"0.7"`
	LLMMaxTokens   int64         `env:"DAIFUGO_LLM_MAX_TOKENS"  envDefault:"200"`
	LLMTimeout     time.Duration `env:"DAIFUGO_LLM_TIMEOUT"     envDefault:"20s"`

	RedisAddr   string `env:"REDIS_ADDR"`
	RedisDB     int    `env:"REDIS_DB"             envDefault:"0"`
	Queue       string `env:"HISTORIAN_QUEUE_NAME" envDefault:"daifugo_actions"`
	DatabaseURL string `env:"DATABASE_URL"`

	HistorianBatchSize int           `env:"HISTORIAN_BATCH_SIZE"     envDefault:"20"`
	HistorianFlush     time.Duration `env:"HISTORIAN_FLUSH_INTERVAL" envDefault:"500ms"`
	Inactivity         time.Duration `env:"GAME_INACTIVITY_TIMEOUT"  envDefault:"10m"`
}

// Load parses the process environment.
func Load() (Config, error) {
	return parse(env.Options{})
}

// LoadFrom parses the given variables instead of the process environment.
func LoadFrom(vars map[string]string) (Config, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: DAIFUGO_LOG_LEVEL: %v", ErrInvalid, err)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("%w: DAIFUGO_LOG_FORMAT must be text or json, got %q", ErrInvalid, c.LogFormat)
	}
	if c.Days < 1 {
		return fmt.Errorf("%w: DAIFUGO_DAYS must be positive", ErrInvalid)
	}
	for _, p := range []float64{c.SpontaneousChance, c.SkillChance} {
		if p < 0 || p > 1 {
			return fmt.Errorf("%w: chances must be in [0,1], got %v", ErrInvalid, p)
		}
	}
	if _, err := c.HouseRules(); err != nil {
		return err
	}
	return nil
}

// NewLogger builds the process logger from LogLevel and LogFormat.
func (c Config) NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	if lvl, err := logrus.ParseLevel(c.LogLevel); err == nil {
		logger.SetLevel(lvl)
	}
	if c.LogFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return logger
}

// HouseRules applies the DAIFUGO_RULES JSON overrides to the defaults.
func (c Config) HouseRules() (game.HouseRules, error) {
	rules := game.DefaultHouseRules()
	if c.Rules == "" {
		return rules, nil
	}
	var overrides map[string]interface{}
	if err := json.Unmarshal([]byte(c.Rules), &overrides); err != nil {
		return rules, fmt.Errorf("%w: DAIFUGO_RULES: %v", ErrInvalid, err)
	}
	parsed, err := game.ParseRules(overrides, rules)
	if err != nil {
		return rules, fmt.Errorf("%w: DAIFUGO_RULES: %v", ErrInvalid, err)
	}
	return parsed, nil
}

// LLMSettings returns the collaborator client settings, or false when no API
// key is configured.
func (c Config) LLMSettings() (ai.Settings, bool) {
	if c.MistralAPIKey == "" {
		return ai.Settings{}, false
	}
	return ai.Settings{
		APIKey:      c.MistralAPIKey,
		BaseURL:     c.LLMBaseURL,
		Model:       c.LLMModel,
		Temperature: c.LLMTemperature,
		MaxTokens:   c.LLMMaxTokens,
		Timeout:     c.LLMTimeout,
	}, true
}

// MatchConfig returns the automated-play tuning.
func (c Config) MatchConfig() match.Config {
	mc := match.DefaultConfig()
	mc.SpontaneousChance = c.SpontaneousChance
	mc.SkillChance = c.SkillChance
	mc.CallTimeout = c.LLMTimeout
	return mc
}

// HistorianConfig returns the historian tuning.
func (c Config) HistorianConfig() historian.Config {
	return historian.Config{
		Queue:         c.Queue,
		BatchSize:     c.HistorianBatchSize,
		FlushInterval: c.HistorianFlush,
		Inactivity:    c.Inactivity,
	}
}
