package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.True(t, cfg.IsDevelopment())
	assert.True(t, cfg.GetMinimumSalary().Equal(decimal.NewFromInt(200000)))
	assert.True(t, cfg.GetAdvanceLimitRate().Equal(decimal.NewFromFloat(0.5)))
	assert.Equal(t, 30, cfg.Business.AdvanceRepaymentDays)
	assert.Equal(t, "UGX", cfg.Business.Currency)
	assert.Equal(t, 5*time.Minute, cfg.GetCacheTTL())
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server:   ServerConfig{Port: "8080"},
			Database: DatabaseConfig{Name: "lending"},
			Redis:    RedisConfig{CacheTTL: "5m"},
			Business: BusinessConfig{
				MinimumSalary:        "200000",
				AdvanceLimitRate:     "0.5",
				AdvanceRepaymentDays: 30,
				Currency:             "UGX",
			},
		}
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, base().Validate())
	})

	t.Run("bad minimum salary", func(t *testing.T) {
		cfg := base()
		cfg.Business.MinimumSalary = "not-a-number"
		assert.Error(t, cfg.Validate())
	})

	t.Run("limit rate above one", func(t *testing.T) {
		cfg := base()
		cfg.Business.AdvanceLimitRate = "1.5"
		assert.Error(t, cfg.Validate())
	})

	t.Run("non-positive repayment days", func(t *testing.T) {
		cfg := base()
		cfg.Business.AdvanceRepaymentDays = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("bad cache ttl", func(t *testing.T) {
		cfg := base()
		cfg.Redis.CacheTTL = "soon"
		assert.Error(t, cfg.Validate())
	})
}

func TestDatabaseDSN(t *testing.T) {
	db := DatabaseConfig{
		Host:     "localhost",
		Port:     "5432",
		User:     "postgres",
		Password: "secret",
		Name:     "lending",
		SSLMode:  "disable",
	}

	assert.Equal(t,
		"host=localhost port=5432 user=postgres password=secret dbname=lending sslmode=disable",
		db.DSN())
}
