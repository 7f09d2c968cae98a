package mcptransport

import (
	"net/http"

	"github.com/mark3labs/mcp-go/server"
)

const (
	StreamablePath      = "/sse"
	StreamableAliasPath = "/mcp-stream"
	LegacyPath          = "/messages"
)

// Mount registers both streaming transports on mux, sharing `registry`.
func Mount(mux *http.ServeMux, srv *server.MCPServer, registry *Registry) {
	streamable := NewStreamable(srv, registry)
	mux.Handle(StreamablePath, streamable)
	mux.Handle(StreamableAliasPath, streamable)
	mux.Handle(LegacyPath, NewLegacySSE(srv, registry, LegacyPath))
}
