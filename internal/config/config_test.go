package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.Server.Enabled)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, int64(42), cfg.Simulation.Seed)
	assert.Equal(t, 200, cfg.Simulation.ContentCount)
	assert.Equal(t, 10000, cfg.Simulation.UserCount)
	assert.Equal(t, 100000, cfg.Simulation.EventCount)
	assert.Equal(t, "2024-01-01", cfg.Simulation.WindowStart)
	assert.Equal(t, 60, cfg.Simulation.WindowDays)
	assert.Equal(t, 5, cfg.Simulation.SegmentCount)
	assert.Equal(t, "viewing-events", cfg.Kafka.Topics.ViewingEvents)
	assert.Equal(t, time.Hour, cfg.Redis.BundleTTL)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.True(t, cfg.Output.Enabled)
	assert.Equal(t, "/metrics", cfg.Monitoring.MetricsPath)
	assert.NotEmpty(t, cfg.Security.CORS.AllowedOrigins)
}

func TestValidateRejectsBadValues(t *testing.T) {
	base, err := Load()
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"zero content count", func(c *Config) { c.Simulation.ContentCount = 0 }},
		{"negative event count", func(c *Config) { c.Simulation.EventCount = -1 }},
		{"missing window start", func(c *Config) { c.Simulation.WindowStart = "" }},
		{"malformed window start", func(c *Config) { c.Simulation.WindowStart = "Jan 1 2024" }},
		{"negative workers", func(c *Config) { c.Simulation.Workers = -2 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := *base
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestWindowStartTime(t *testing.T) {
	cfg := SimulationConfig{WindowStart: "2024-03-15"}
	start := cfg.WindowStartTime()
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), start)
}
