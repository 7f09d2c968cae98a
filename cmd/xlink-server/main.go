package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"time"
	"xlinkfetcher/lib/serviceutil"
)

const version = "1.0.0"

func main() {
	verbose := flag.Bool("v", false, "Enable verbose logging/instrumentation.")
	configPath := flag.String("config", "config.json5", "The json5 config file, <name>.local.json5 overrides it.")
	flag.Parse()

	ctx, cancel := serviceutil.SignalContext()
	defer cancel()

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		serviceutil.Fatal("read config", err)
	}

	tel := InitTelemetry(ctx, cfg, *verbose)

	mux := http.NewServeMux()
	registry, err := InitServices(mux, cfg)
	if err != nil {
		serviceutil.Fatal("init services", err)
	}

	err = serviceutil.StartHttpServer(ctx, cfg.Port, InitMiddleware(mux, cfg), cfg.ShutdownTimeout.Std())
	registry.CloseAll()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	telErr := tel.Shutdown(shutdownCtx)
	if telErr != nil {
		slog.Warn("failed to flush telemetry", "err", telErr)
	}

	if err != nil {
		serviceutil.Fatal("http server", err)
	}
	slog.Info("server stopped")
}
