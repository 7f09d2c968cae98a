package mcptransport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const enqueueTimeout = 5 * time.Second

// LegacySSE serves the HTTP+SSE transport: GET opens the event stream and
// announces where to POST, responses to those POSTs arrive on the stream.
type LegacySSE struct {
	mcp      *server.MCPServer
	registry *Registry
	// path clients POST to, announced in the endpoint event
	endpoint string
}

var _ ToolTransport = (*LegacySSE)(nil)

func NewLegacySSE(srv *server.MCPServer, registry *Registry, endpoint string) *LegacySSE {
	return &LegacySSE{mcp: srv, registry: registry, endpoint: endpoint}
}

func (t *LegacySSE) Lookup(r *http.Request) (*Session, error) {
	id := r.URL.Query().Get("sessionId")
	if id == "" {
		id = r.Header.Get(SessionIDHeader)
	}
	return t.registry.Lookup(id)
}

func (t *LegacySSE) Respond(w http.ResponseWriter, r *http.Request, session *Session, message mcp.JSONRPCMessage) {
	data, err := json.Marshal(message)
	if err != nil {
		writeRPCError(w, http.StatusInternalServerError, mcp.INTERNAL_ERROR, "Internal server error")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), enqueueTimeout)
	defer cancel()
	err = session.enqueue(ctx, data)
	if errors.Is(err, ErrSessionClosed) {
		writeBadSession(w)
		return
	}
	if err != nil {
		slog.WarnContext(ctx, "failed to queue mcp response", "session_id", session.SessionID(), "err", err)
		writeRPCError(w, http.StatusServiceUnavailable, mcp.INTERNAL_ERROR, "Session stream is not accepting messages")
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (t *LegacySSE) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		t.open(w, r)
	case http.MethodPost:
		session, err := t.Lookup(r)
		if err != nil {
			writeBadSession(w)
			return
		}
		m, err := readMessage(r)
		if err != nil {
			writeBadMessage(w, err)
			return
		}
		dispatch(w, r, t.mcp, t, session, m)
	default:
		writeBadSession(w)
	}
}

func (t *LegacySSE) open(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session, err := openSession(ctx, t.mcp)
	if err != nil {
		slog.ErrorContext(ctx, "failed to open mcp session", "err", err)
		writeRPCError(w, http.StatusInternalServerError, mcp.INTERNAL_ERROR, "Internal server error")
		return
	}
	t.registry.Add(session)
	defer t.registry.Remove(session.SessionID())

	flusher, ok := startEventStream(w)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	slog.InfoContext(ctx, "mcp sse stream opened", "session_id", session.SessionID())
	endpoint := fmt.Sprintf("%s?sessionId=%s", t.endpoint, session.SessionID())
	err = writeEvent(w, flusher, "endpoint", []byte(endpoint))
	if err != nil {
		return
	}
	stream(w, r, flusher, session)
	slog.InfoContext(ctx, "mcp sse stream closed", "session_id", session.SessionID())
}
