package main

import (
	"context"
	"log/slog"
	devenv "xlinkfetcher/dev/env"
	"xlinkfetcher/lib/restyutil"
	"xlinkfetcher/lib/serviceutil"
	"xlinkfetcher/lib/telemetry"
	"xlinkfetcher/services/mirror"
)

func InitTelemetry(ctx context.Context, cfg Config, verbose bool) telemetry.Telemetry {
	telemetry.InitSlog(cfg.Environment, verbose)

	if verbose {
		slog.DebugContext(ctx, "verbose logging enabled")
	}

	tel, err := telemetry.Setup(ctx, "xlink-server", cfg.Environment, cfg.Telemetry.Resolve())
	if err != nil {
		serviceutil.Fatal("setup telemetry", err)
	}
	telemetry.InstrumentPerfStats(ctx)

	if !verbose {
		return tel
	}

	dir, err := devenv.ResolvePath("<dev_state>/resty/mirror")
	if err != nil {
		slog.WarnContext(ctx, "mirror exchanges won't be dumped", "err", err)
		return tel
	}
	out, err := restyutil.NewFilesystemOutput(dir)
	if err != nil {
		slog.WarnContext(ctx, "mirror exchanges won't be dumped", "err", err)
		return tel
	}
	mirror.SetRestyInstrumentOutput(out)
	return tel
}
