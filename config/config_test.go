package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "crm-service", cfg.Service.Name)
	assert.Equal(t, "3000", cfg.Service.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Tracing.Enabled)
	assert.False(t, cfg.Profiling.Enabled)
	assert.Equal(t, 10, cfg.ShutdownTimeoutSeconds)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("TRACING_ENABLED", "true")
	t.Setenv("TRACING_SAMPLE_RATE", "0.25")
	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "30")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Service.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Tracing.Enabled)
	assert.Equal(t, 0.25, cfg.Tracing.SampleRate)
	assert.Equal(t, 30, cfg.ShutdownTimeoutSeconds)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "soon")
	t.Setenv("TRACING_ENABLED", "yep")

	cfg := Load()

	assert.Equal(t, 10, cfg.ShutdownTimeoutSeconds)
	assert.False(t, cfg.Tracing.Enabled)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults are valid", func(c *Config) {}, ""},
		{"empty port", func(c *Config) { c.Service.Port = "" }, "PORT"},
		{"non-numeric port", func(c *Config) { c.Service.Port = "http" }, "PORT"},
		{"empty dsn", func(c *Config) { c.Database.DSN = "" }, "DATABASE_DSN"},
		{"zero shutdown timeout", func(c *Config) { c.ShutdownTimeoutSeconds = 0 }, "SHUTDOWN_TIMEOUT_SECONDS"},
		{"negative drain delay", func(c *Config) { c.ReadinessDrainDelaySeconds = -1 }, "READINESS_DRAIN_DELAY_SECONDS"},
		{"sample rate out of range", func(c *Config) { c.Tracing.SampleRate = 2 }, "TRACING_SAMPLE_RATE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Load()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDurationAccessors(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "7")
	t.Setenv("READINESS_DRAIN_DELAY_SECONDS", "3")

	cfg := Load()

	assert.Equal(t, "7s", cfg.GetShutdownTimeoutDuration().String())
	assert.Equal(t, "3s", cfg.GetReadinessDrainDelayDuration().String())
}
