package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProductionHandlerWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewSlogHandler(&buf, EnvironmentProduction, false))
	logger.Info("fetched tweet", "mirror", "nitter.example")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "fetched tweet", line["msg"])
	require.Equal(t, "nitter.example", line["mirror"])
}

func TestVerboseEnablesDebug(t *testing.T) {
	var buf bytes.Buffer
	quiet := NewSlogHandler(&buf, EnvironmentProduction, false)
	require.False(t, quiet.Enabled(context.Background(), slog.LevelDebug))

	loud := NewSlogHandler(&buf, EnvironmentDevelopment, true)
	require.True(t, loud.Enabled(context.Background(), slog.LevelDebug))
}

func TestSetupWithoutEndpoints(t *testing.T) {
	tel, err := Setup(context.Background(), "test:telemetry", EnvironmentTest, Config{})
	require.NoError(t, err)
	require.Nil(t, tel.TracerProvider)
	require.Nil(t, tel.MeterProvider)
	require.NoError(t, tel.Shutdown(context.Background()))
}
