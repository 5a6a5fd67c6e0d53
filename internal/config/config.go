package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr              string
	DBPath            string
	LogLevel          string
	RecalcWorkerCount int
	RecalcQueueSize   int
	DuelRiseAmount    int
	DuelPenaltyAmount int
	ReviewPageLimit   int
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:              envOr("ADDR", ":8080"),
		DBPath:            envOr("DB_PATH", "file:koreanparty.db"),
		LogLevel:          envOr("LOG_LEVEL", "INFO"),
		RecalcWorkerCount: envIntOr("RECALC_WORKER_COUNT", 2),
		RecalcQueueSize:   envIntOr("RECALC_QUEUE_SIZE", 64),
		DuelRiseAmount:    envIntOr("DUEL_RISE_AMOUNT", 10),
		DuelPenaltyAmount: envIntOr("DUEL_PENALTY_AMOUNT", 5),
		ReviewPageLimit:   envIntOr("REVIEW_PAGE_LIMIT", 20),
	}
}

// Validate checks the loaded configuration and reports every problem at once.
func (c Config) Validate() error {
	var problems []string

	if c.Addr == "" {
		problems = append(problems, "ADDR cannot be empty")
	}
	if c.DBPath == "" {
		problems = append(problems, "DB_PATH cannot be empty")
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
	default:
		problems = append(problems, "LOG_LEVEL must be one of DEBUG, INFO, WARN, ERROR")
	}
	if c.RecalcWorkerCount <= 0 {
		problems = append(problems, "RECALC_WORKER_COUNT must be positive")
	}
	if c.RecalcQueueSize <= 0 {
		problems = append(problems, "RECALC_QUEUE_SIZE must be positive")
	}
	if c.DuelRiseAmount <= 0 {
		problems = append(problems, "DUEL_RISE_AMOUNT must be positive")
	}
	if c.DuelPenaltyAmount <= 0 {
		problems = append(problems, "DUEL_PENALTY_AMOUNT must be positive")
	}
	if c.ReviewPageLimit <= 0 {
		problems = append(problems, "REVIEW_PAGE_LIMIT must be positive")
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}
