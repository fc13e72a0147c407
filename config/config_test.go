package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("STORE_DRIVER", "Postgres")
	t.Setenv("MOCK_LATENCY", "250ms")
	t.Setenv("MOCK_FAILURE_RATE", "0.25")
	t.Setenv("DB_MAX_CONNS", "20")
	t.Setenv("SEED_DATA", "false")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("ELASTICSEARCH_ADDRS", "http://es:9200")

	cfg := Load()
	assert.Equal(t, "postgres", cfg.StoreDriver)
	assert.Equal(t, 250*time.Millisecond, cfg.MockLatency)
	assert.Equal(t, 0.25, cfg.MockFailureRate)
	assert.Equal(t, int32(20), cfg.DBMaxConns)
	assert.False(t, cfg.SeedData)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins())
	assert.Equal(t, []string{"http://es:9200"}, cfg.ESAddrs())
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		check func(t *testing.T, cfg *Config)
	}{
		{"unknown driver", "STORE_DRIVER", "mongo", func(t *testing.T, cfg *Config) {
			assert.Equal(t, "memory", cfg.StoreDriver)
		}},
		{"failure rate above one", "MOCK_FAILURE_RATE", "1.5", func(t *testing.T, cfg *Config) {
			assert.Zero(t, cfg.MockFailureRate)
		}},
		{"negative failure rate", "MOCK_FAILURE_RATE", "-0.1", func(t *testing.T, cfg *Config) {
			assert.Zero(t, cfg.MockFailureRate)
		}},
		{"bad duration", "MOCK_LATENCY", "soon", func(t *testing.T, cfg *Config) {
			assert.Equal(t, 500*time.Millisecond, cfg.MockLatency)
		}},
		{"bad bool", "DEBUG_METRICS_ENABLED", "perhaps", func(t *testing.T, cfg *Config) {
			assert.True(t, cfg.DebugMetricsEnabled)
		}},
		{"bad int", "REDIS_DB", "two", func(t *testing.T, cfg *Config) {
			assert.Zero(t, cfg.RedisDB)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			tt.check(t, Load())
		})
	}
}

func TestPostgresDSN(t *testing.T) {
	cfg := &Config{DBUser: "u", DBPassword: "p", DBHost: "db", DBPort: "5433", DBName: "pulse", DBSSLMode: "require"}
	assert.Equal(t, "postgres://u:p@db:5433/pulse?sslmode=require", cfg.PostgresDSN())
}

func TestSplitList(t *testing.T) {
	assert.Empty(t, splitList(""))
	assert.Equal(t, []string{"a"}, splitList(" a ,"))
}
