package mcptransport

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

var ErrSessionClosed = errors.New("session closed")

const (
	notificationBuffer = 64
	outboundBuffer     = 64
)

// Session is one client connection to the MCP server, it is registered with
// the server (so notifications reach it) and with a Registry (so transports
// can find it by id).
type Session struct {
	id            string
	initialized   atomic.Bool
	notifications chan mcp.JSONRPCNotification
	// responses waiting to be written to the client's event stream, only
	// used by the legacy SSE transport.
	outbound chan []byte

	done      chan struct{}
	closeOnce sync.Once
	mcp       *server.MCPServer
}

var _ server.ClientSession = (*Session)(nil)

// openSession creates a session and registers it with the MCP server.
func openSession(ctx context.Context, srv *server.MCPServer) (*Session, error) {
	s := &Session{
		id:            uuid.NewString(),
		notifications: make(chan mcp.JSONRPCNotification, notificationBuffer),
		outbound:      make(chan []byte, outboundBuffer),
		done:          make(chan struct{}),
		mcp:           srv,
	}
	err := srv.RegisterSession(ctx, s)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) SessionID() string {
	return s.id
}

func (s *Session) Initialize() {
	s.initialized.Store(true)
}

func (s *Session) Initialized() bool {
	return s.initialized.Load()
}

func (s *Session) NotificationChannel() chan<- mcp.JSONRPCNotification {
	return s.notifications
}

// Done is closed once the session is closed.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Close unregisters the session from the MCP server and ends its streams.
// It is safe to call more than once. Close must not touch the Registry, it
// runs inside the registry's eviction callback.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.mcp.UnregisterSession(context.Background(), s.id)
	})
}

// enqueue hands a message to the session's event stream.
func (s *Session) enqueue(ctx context.Context, message []byte) error {
	select {
	case s.outbound <- message:
		return nil
	case <-s.done:
		return ErrSessionClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}
