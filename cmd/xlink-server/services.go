package main

import (
	"log/slog"
	"net/http"
	"xlinkfetcher/services/api"
	"xlinkfetcher/services/mcptransport"
	"xlinkfetcher/services/mirror"
	"xlinkfetcher/services/tools"
)

// InitServices mounts the REST surface and both MCP session transports on
// mux. The returned registry owns every open MCP session.
func InitServices(mux *http.ServeMux, cfg Config) (*mcptransport.Registry, error) {
	selectors, err := mirror.LoadSelectors(cfg.SelectorsFile)
	if err != nil {
		return nil, err
	}
	fetcher, err := mirror.NewFetcher(mirror.FetcherOptions{
		MirrorHost:       cfg.NitterInstance,
		Selectors:        selectors,
		Timeout:          cfg.RequestTimeout.Std(),
		CloudflareBypass: cfg.CloudflareBypass,
	})
	if err != nil {
		return nil, err
	}
	slog.Info(
		"using nitter instance",
		"host", fetcher.MirrorHost(),
		"selectors", selectors.Version,
	)

	toolService := tools.NewService(fetcher, version)
	api.NewService(toolService, api.Options{
		MirrorHost: fetcher.MirrorHost(),
		Version:    version,
	}).Register(mux)

	registry := mcptransport.NewRegistry(cfg.MCP.MaxSessions, cfg.MCP.SessionTTL.Std())
	mcptransport.Mount(mux, toolService.MCPServer(), registry)

	return registry, nil
}
