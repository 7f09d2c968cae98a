package mcptransport

import (
	"errors"
	"log/slog"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

var ErrSessionNotFound = errors.New("session not found")

const DefaultMaxSessions = 1024

// Registry maps session ids to live sessions. Removing a session, evicting
// it for capacity or age, or purging the registry closes the session.
type Registry struct {
	sessions *expirable.LRU[string, *Session]
}

// NewRegistry holds at most `maxSessions` sessions (<= 0 uses
// DefaultMaxSessions), each for at most `ttl` (<= 0 means forever).
func NewRegistry(maxSessions int, ttl time.Duration) *Registry {
	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}
	onEvict := func(id string, s *Session) {
		slog.Debug("session closed", "session_id", id)
		s.Close()
	}
	return &Registry{
		sessions: expirable.NewLRU[string, *Session](maxSessions, onEvict, ttl),
	}
}

func (r *Registry) Add(s *Session) {
	r.sessions.Add(s.SessionID(), s)
}

func (r *Registry) Lookup(id string) (*Session, error) {
	if id == "" {
		return nil, ErrSessionNotFound
	}
	s, ok := r.sessions.Get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Remove closes and forgets a session, unknown ids are ignored.
func (r *Registry) Remove(id string) {
	r.sessions.Remove(id)
}

func (r *Registry) Len() int {
	return r.sessions.Len()
}

// CloseAll closes every session, used on shutdown.
func (r *Registry) CloseAll() {
	count := r.sessions.Len()
	r.sessions.Purge()
	if count > 0 {
		slog.Info("closed mcp sessions", "count", count)
	}
}
