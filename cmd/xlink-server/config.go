package main

import (
	"strings"
	"time"
	"xlinkfetcher/lib/configutil"
	"xlinkfetcher/lib/telemetry"
	"xlinkfetcher/services/mcptransport"
	"xlinkfetcher/services/mirror"
)

type RateLimitConfig struct {
	Window      configutil.Duration `json:"window" env:"RATE_LIMIT_WINDOW"`
	MaxRequests int                 `json:"max_requests" env:"RATE_LIMIT_MAX_REQUESTS"`
}

type MCPConfig struct {
	MaxSessions int                 `json:"max_sessions" env:"MCP_MAX_SESSIONS"`
	SessionTTL  configutil.Duration `json:"session_ttl" env:"MCP_SESSION_TTL"`
}

type TelemetryConfig struct {
	Otlp telemetry.OtlpConfig `json:"otlp"`
	// shorthands for otlp.*.grpc_endpoint, full urls like http://collector:4317
	TracesEndpoint  string `json:"-" env:"OTEL_TRACES_ENDPOINT"`
	MetricsEndpoint string `json:"-" env:"OTEL_METRICS_ENDPOINT"`
}

func (c TelemetryConfig) Resolve() telemetry.Config {
	otlp := c.Otlp
	if c.TracesEndpoint != "" {
		otlp.Traces = telemetry.OtlpConnConfig{GrpcEndpoint: c.TracesEndpoint}
	}
	if c.MetricsEndpoint != "" {
		otlp.Metrics = telemetry.OtlpConnConfig{GrpcEndpoint: c.MetricsEndpoint}
	}
	return telemetry.Config{Otlp: otlp}
}

type Config struct {
	NitterInstance   string              `json:"nitter_instance" env:"NITTER_INSTANCE"`
	Port             int                 `json:"port" env:"PORT"`
	Environment      string              `json:"environment" env:"APP_ENV"`
	CorsOrigin       string              `json:"cors_origin" env:"CORS_ORIGIN"`
	RequestTimeout   configutil.Duration `json:"request_timeout" env:"REQUEST_TIMEOUT"`
	ShutdownTimeout  configutil.Duration `json:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
	SelectorsFile    string              `json:"selectors_file" env:"SELECTORS_FILE"`
	CloudflareBypass bool                `json:"cloudflare_bypass" env:"CLOUDFLARE_BYPASS"`
	RateLimit        RateLimitConfig     `json:"rate_limit"`
	MCP              MCPConfig           `json:"mcp"`
	Telemetry        TelemetryConfig     `json:"telemetry"`
}

func DefaultConfig() Config {
	return Config{
		NitterInstance:   mirror.DefaultMirrorHost,
		Port:             5001,
		Environment:      telemetry.EnvironmentDevelopment,
		CorsOrigin:       "*",
		RequestTimeout:   configutil.Duration(mirror.DefaultTimeout),
		ShutdownTimeout:  configutil.Duration(10 * time.Second),
		CloudflareBypass: true,
		RateLimit: RateLimitConfig{
			Window:      configutil.Duration(15 * time.Minute),
			MaxRequests: 100,
		},
		MCP: MCPConfig{
			MaxSessions: mcptransport.DefaultMaxSessions,
		},
	}
}

// LoadConfig reads `name` (and its .local override) over the defaults, then
// applies the environment.
func LoadConfig(name string) (Config, error) {
	return configutil.Load(name, DefaultConfig())
}

// CorsOrigins splits the comma separated cors_origin setting.
func (c Config) CorsOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(c.CorsOrigin, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
