package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	"xlinkfetcher/lib/configutil"

	"github.com/stretchr/testify/require"
)

func TestMiddleware(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RateLimit.MaxRequests = 2
	cfg.RateLimit.Window = configutil.Duration(time.Hour)
	cfg.CorsOrigin = "https://client.example"

	mux := http.NewServeMux()
	mux.HandleFunc("GET /ok", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("GET /panic", func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
	h := InitMiddleware(mux, cfg)

	request := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.RemoteAddr = "10.0.0.1:1234"
		req.Header.Set("Origin", "https://client.example")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	rec := request("/ok")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "https://client.example", rec.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	require.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))

	rec = request("/panic")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, map[string]any{"success": false, "error": "Internal server error"}, body)

	rec = request("/ok")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, false, body["success"])
}
