package mcptransport

import (
	"log/slog"
	"net/http"
	"xlinkfetcher/lib/serviceutil"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Streamable serves the Streamable HTTP transport: a session starts with an
// initialize POST and is named by the Mcp-Session-Id header afterwards.
type Streamable struct {
	mcp      *server.MCPServer
	registry *Registry
}

var _ ToolTransport = (*Streamable)(nil)

func NewStreamable(srv *server.MCPServer, registry *Registry) *Streamable {
	return &Streamable{mcp: srv, registry: registry}
}

func (t *Streamable) Lookup(r *http.Request) (*Session, error) {
	return t.registry.Lookup(r.Header.Get(SessionIDHeader))
}

func (t *Streamable) Respond(w http.ResponseWriter, _ *http.Request, session *Session, message mcp.JSONRPCMessage) {
	w.Header().Set(SessionIDHeader, session.SessionID())
	serviceutil.WriteJSON(w, http.StatusOK, message)
}

func (t *Streamable) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		t.post(w, r)
	case http.MethodGet:
		session, err := t.Lookup(r)
		if err != nil {
			writeBadSession(w)
			return
		}
		flusher, ok := startEventStream(w)
		if !ok {
			http.Error(w, "streaming not supported", http.StatusInternalServerError)
			return
		}
		stream(w, r, flusher, session)
	case http.MethodDelete:
		session, err := t.Lookup(r)
		if err != nil {
			writeBadSession(w)
			return
		}
		t.registry.Remove(session.SessionID())
		slog.InfoContext(r.Context(), "mcp session deleted", "session_id", session.SessionID())
		w.WriteHeader(http.StatusOK)
	default:
		writeBadSession(w)
	}
}

func (t *Streamable) post(w http.ResponseWriter, r *http.Request) {
	m, err := readMessage(r)
	if err != nil {
		writeBadMessage(w, err)
		return
	}

	if r.Header.Get(SessionIDHeader) == "" && m.isInitialize() {
		session, err := openSession(r.Context(), t.mcp)
		if err != nil {
			slog.ErrorContext(r.Context(), "failed to open mcp session", "err", err)
			writeRPCError(w, http.StatusInternalServerError, mcp.INTERNAL_ERROR, "Internal server error")
			return
		}
		t.registry.Add(session)
		slog.InfoContext(r.Context(), "mcp session initialized", "session_id", session.SessionID())
		dispatch(w, r, t.mcp, t, session, m)
		return
	}

	session, err := t.Lookup(r)
	if err != nil {
		writeBadSession(w)
		return
	}
	dispatch(w, r, t.mcp, t, session, m)
}
