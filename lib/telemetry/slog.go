package telemetry

import (
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/log"
)

const (
	EnvironmentDevelopment = "development"
	EnvironmentProduction  = "production"
	EnvironmentTest        = "test"
)

// NewSlogHandler picks the handler for an environment: JSON lines in
// production, charmbracelet's colored output everywhere else.
func NewSlogHandler(out io.Writer, environment string, verbose bool) slog.Handler {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	if environment == EnvironmentProduction {
		return slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level})
	}

	charmLevel := log.InfoLevel
	if verbose {
		charmLevel = log.DebugLevel
	}
	return log.NewWithOptions(out, log.Options{
		Prefix:          "xlink",
		ReportTimestamp: true,
		Level:           charmLevel,
	})
}

// InitSlog replaces the default slog logger.
func InitSlog(environment string, verbose bool) {
	slog.SetDefault(slog.New(NewSlogHandler(os.Stderr, environment, verbose)))
}
