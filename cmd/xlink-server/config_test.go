package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json5")
	err := os.WriteFile(path, []byte(`{
		nitter_instance: "nitter.file",
		port: 6000,
		rate_limit: { window: "1m" },
		mcp: { session_ttl: "2h" },
	}`), 0600)
	require.NoError(t, err)

	t.Setenv("PORT", "7000")
	t.Setenv("CORS_ORIGIN", "https://a.example, https://b.example")
	t.Setenv("RATE_LIMIT_MAX_REQUESTS", "5")
	t.Setenv("REQUEST_TIMEOUT", "2500")
	t.Setenv("CLOUDFLARE_BYPASS", "false")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	require.Equal(t, "nitter.file", cfg.NitterInstance)
	require.Equal(t, 7000, cfg.Port)
	require.Equal(t, time.Minute, cfg.RateLimit.Window.Std())
	require.Equal(t, 5, cfg.RateLimit.MaxRequests)
	require.Equal(t, 2500*time.Millisecond, cfg.RequestTimeout.Std())
	require.Equal(t, 2*time.Hour, cfg.MCP.SessionTTL.Std())
	require.Equal(t, 1024, cfg.MCP.MaxSessions)
	require.False(t, cfg.CloudflareBypass)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CorsOrigins())
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.Equal(t, "nitter.poast.org", cfg.NitterInstance)
	require.Equal(t, 5001, cfg.Port)
	require.Equal(t, "development", cfg.Environment)
	require.Equal(t, 10*time.Second, cfg.RequestTimeout.Std())
	require.Equal(t, 15*time.Minute, cfg.RateLimit.Window.Std())
	require.Equal(t, 100, cfg.RateLimit.MaxRequests)
	require.Equal(t, []string{"*"}, cfg.CorsOrigins())
	require.True(t, cfg.CloudflareBypass)
	require.Zero(t, cfg.MCP.SessionTTL)
}

func TestTelemetryResolve(t *testing.T) {
	cfg := TelemetryConfig{}
	require.False(t, cfg.Resolve().Otlp.Traces.Enabled())
	require.False(t, cfg.Resolve().Otlp.Metrics.Enabled())

	cfg.TracesEndpoint = "http://localhost:4317"
	resolved := cfg.Resolve()
	require.True(t, resolved.Otlp.Traces.Enabled())
	require.Equal(t, "http://localhost:4317", resolved.Otlp.Traces.GrpcEndpoint)
	require.False(t, resolved.Otlp.Metrics.Enabled())
}
