package config_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hangeulsoft/koreanparty/internal/config"
)

func validConfig() config.Config {
	return config.Config{
		Addr:              ":8080",
		DBPath:            "test.db",
		LogLevel:          "INFO",
		RecalcWorkerCount: 2,
		RecalcQueueSize:   64,
		DuelRiseAmount:    10,
		DuelPenaltyAmount: 5,
		ReviewPageLimit:   20,
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_EmptyAddr(t *testing.T) {
	cfg := validConfig()
	cfg.Addr = ""

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ADDR cannot be empty")
}

func TestValidate_EmptyDBPath(t *testing.T) {
	cfg := validConfig()
	cfg.DBPath = ""

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "DB_PATH cannot be empty")
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	cfg := validConfig()
	cfg.LogLevel = "LOUD"

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "LOG_LEVEL")

	// Lowercase is accepted.
	cfg.LogLevel = "debug"
	assert.NoError(t, cfg.Validate())
}

func TestValidate_InvalidDuelConstants(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		message string
	}{
		{"zero rise", func(c *config.Config) { c.DuelRiseAmount = 0 }, "DUEL_RISE_AMOUNT"},
		{"negative penalty", func(c *config.Config) { c.DuelPenaltyAmount = -1 }, "DUEL_PENALTY_AMOUNT"},
		{"zero review limit", func(c *config.Config) { c.ReviewPageLimit = 0 }, "REVIEW_PAGE_LIMIT"},
		{"zero workers", func(c *config.Config) { c.RecalcWorkerCount = 0 }, "RECALC_WORKER_COUNT"},
		{"zero queue", func(c *config.Config) { c.RecalcQueueSize = 0 }, "RECALC_QUEUE_SIZE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	t.Setenv("ADDR", ":9090")
	t.Setenv("DB_PATH", "custom.db")
	t.Setenv("DUEL_RISE_AMOUNT", "12")

	cfg := config.Load()

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "custom.db", cfg.DBPath)
	assert.Equal(t, 12, cfg.DuelRiseAmount)
}

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"ADDR", "DB_PATH", "LOG_LEVEL", "DUEL_RISE_AMOUNT", "DUEL_PENALTY_AMOUNT", "REVIEW_PAGE_LIMIT"} {
		old, had := os.LookupEnv(key)
		os.Unsetenv(key)
		if had {
			defer os.Setenv(key, old)
		}
	}

	cfg := config.Load()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 10, cfg.DuelRiseAmount)
	assert.Equal(t, 5, cfg.DuelPenaltyAmount)
	assert.Equal(t, 20, cfg.ReviewPageLimit)
}
