package testutil

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/go-resty/resty/v2"
)

// Mirror is a TLS server standing in for a Nitter instance. Point a fetcher
// at Host() with Client() and post urls land on the handler.
type Mirror struct {
	Server *httptest.Server
	hits   atomic.Int32
}

func NewMirror(t testing.TB, handler http.HandlerFunc) *Mirror {
	t.Helper()
	m := &Mirror{}
	m.Server = httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.hits.Add(1)
		handler(w, r)
	}))
	t.Cleanup(m.Server.Close)
	return m
}

// Host is the mirror's host:port.
func (m *Mirror) Host() string {
	return m.Server.Listener.Addr().String()
}

// Client returns a resty client that trusts the mirror's certificate.
func (m *Mirror) Client() *resty.Client {
	return resty.NewWithClient(m.Server.Client())
}

// Hits counts the requests the mirror has received.
func (m *Mirror) Hits() int {
	return int(m.hits.Load())
}
