package mcptransport

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
	"xlinkfetcher/lib/serviceutil"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	SessionIDHeader = "Mcp-Session-Id"

	maxMessageBytes = 4 << 20
	heartbeatPeriod = 30 * time.Second
)

var (
	errBatch   = errors.New("batch messages are not supported")
	errMessage = errors.New("invalid json-rpc message")
)

// ToolTransport is what a streaming binding supplies to the shared message
// path: how a request names its session and how a response gets back to the
// client.
type ToolTransport interface {
	Lookup(r *http.Request) (*Session, error)
	Respond(w http.ResponseWriter, r *http.Request, session *Session, message mcp.JSONRPCMessage)
}

type message struct {
	raw    json.RawMessage
	ID     json.RawMessage `json:"id"`
	Method string          `json:"method"`
}

func (m message) isRequest() bool {
	return m.Method != "" && len(m.ID) > 0 && string(m.ID) != "null"
}

func (m message) isInitialize() bool {
	return m.isRequest() && m.Method == string(mcp.MethodInitialize)
}

func readMessage(r *http.Request) (message, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxMessageBytes))
	if err != nil {
		return message{}, err
	}
	body = bytes.TrimSpace(body)
	if len(body) > 0 && body[0] == '[' {
		return message{}, errBatch
	}

	var m message
	err = json.Unmarshal(body, &m)
	if err != nil {
		return message{}, fmt.Errorf("%w: %w", errMessage, err)
	}
	m.raw = body
	return m, nil
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcErrorBody struct {
	JSONRPC string   `json:"jsonrpc"`
	Error   rpcError `json:"error"`
	ID      any      `json:"id"`
}

func writeRPCError(w http.ResponseWriter, status, code int, msg string) {
	serviceutil.WriteJSON(w, status, rpcErrorBody{
		JSONRPC: mcp.JSONRPC_VERSION,
		Error:   rpcError{Code: code, Message: msg},
		ID:      nil,
	})
}

func writeBadSession(w http.ResponseWriter) {
	writeRPCError(w, http.StatusBadRequest, -32000, "Bad Request: No valid session ID provided")
}

func writeBadMessage(w http.ResponseWriter, err error) {
	if errors.Is(err, errBatch) {
		writeRPCError(w, http.StatusBadRequest, mcp.INVALID_REQUEST, "Invalid Request: "+err.Error())
		return
	}
	writeRPCError(w, http.StatusBadRequest, mcp.PARSE_ERROR, "Parse error: "+err.Error())
}

// dispatch is the one message path shared by the streaming transports.
// Requests are answered through the transport, notifications and client
// responses are acknowledged with 202.
func dispatch(w http.ResponseWriter, r *http.Request, srv *server.MCPServer, t ToolTransport, session *Session, m message) {
	if m.Method == "" {
		w.WriteHeader(http.StatusAccepted)
		return
	}

	ctx := srv.WithContext(r.Context(), session)
	res := srv.HandleMessage(ctx, m.raw)
	if res == nil || !m.isRequest() {
		w.WriteHeader(http.StatusAccepted)
		return
	}

	slog.DebugContext(ctx, "handled mcp request", "session_id", session.SessionID(), "method", m.Method)
	t.Respond(w, r, session, res)
}

func writeEvent(w io.Writer, flusher http.Flusher, event string, data []byte) error {
	_, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	if err != nil {
		return fmt.Errorf("write %s event: %w", event, err)
	}
	flusher.Flush()
	return nil
}

func startEventStream(w http.ResponseWriter) (http.Flusher, bool) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, false
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()
	return flusher, true
}

// stream writes the session's notifications and queued responses as
// `message` events until the client goes away or the session closes.
func stream(w http.ResponseWriter, r *http.Request, flusher http.Flusher, session *Session) {
	ctx := r.Context()
	heartbeat := time.NewTicker(heartbeatPeriod)
	defer heartbeat.Stop()

	for {
		var data []byte
		select {
		case <-ctx.Done():
			return
		case <-session.Done():
			return
		case <-heartbeat.C:
			_, err := io.WriteString(w, ": ping\n\n")
			if err != nil {
				return
			}
			flusher.Flush()
			continue
		case notification := <-session.notifications:
			encoded, err := json.Marshal(notification)
			if err != nil {
				slog.WarnContext(ctx, "failed to encode notification", "err", err)
				continue
			}
			data = encoded
		case data = <-session.outbound:
		}

		err := writeEvent(w, flusher, "message", data)
		if err != nil {
			slog.DebugContext(ctx, "client disconnected", "session_id", session.SessionID(), "err", err)
			return
		}
	}
}
