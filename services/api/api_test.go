package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"
	"xlinkfetcher/lib/serviceutil"
	"xlinkfetcher/lib/telemetry"
	"xlinkfetcher/lib/testutil"
	"xlinkfetcher/services/mirror"
	"xlinkfetcher/services/tools"

	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	cleanup := telemetry.SetupForTesting("services/api")
	code := m.Run()
	cleanup()
	os.Exit(code)
}

const statusPage = `<html><body>
	<a class="fullname">jack</a><a class="username">@jack</a>
	<div class="tweet-content">just setting up my twttr</div>
	<span class="tweet-date"><a title="Mar 21, 2006 · 8:50 PM UTC">Mar 21</a></span>
	<span><span class="icon-heart"></span> 5</span>
	<div class="attachment image"><img src="/pic/a.jpg"></div>
</body></html>`

// newHandler serves the REST surface with fetches going to `mirrorHandler`,
// a nil handler means a mirror that can't be reached.
func newHandler(t *testing.T, mirrorHost string, mirrorHandler http.HandlerFunc) http.Handler {
	t.Helper()
	opts := mirror.FetcherOptions{MirrorHost: mirrorHost}
	if mirrorHandler != nil {
		upstream := testutil.NewMirror(t, mirrorHandler)
		opts.MirrorHost = upstream.Host()
		opts.Client = upstream.Client()
	}
	fetcher, err := mirror.NewFetcher(opts)
	require.NoError(t, err)

	service := NewService(tools.NewService(fetcher, "test"), Options{
		MirrorHost: opts.MirrorHost,
		Version:    "test",
	})
	service.now = func() time.Time {
		return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	}

	mux := http.NewServeMux()
	service.Register(mux)
	return serviceutil.Recover(mux)
}

func serve(t *testing.T, h http.Handler, method, target, body string) (int, map[string]any) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded), rec.Body.String())
	return rec.Code, decoded
}

func TestHealth(t *testing.T) {
	h := newHandler(t, "nitter.example", nil)
	code, body := serve(t, h, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, map[string]any{
		"status":         "ok",
		"timestamp":      "2024-06-01T12:00:00.000Z",
		"nitterInstance": "nitter.example",
	}, body)
}

func TestDescribe(t *testing.T) {
	h := newHandler(t, "nitter.example", nil)
	code, body := serve(t, h, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "X Link Fetcher", body["name"])
	endpoints := body["endpoints"].(map[string]any)
	require.Equal(t, "/health", endpoints["health"])
	require.Contains(t, endpoints, "sse")
}

func TestTransform(t *testing.T) {
	h := newHandler(t, "nitter.example", nil)

	code, body := serve(t, h, http.MethodGet, "/transform?url=https://x.com/u/status/1?s%3D20", "")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, true, body["success"])
	require.Equal(t, "https://x.com/u/status/1?s=20", body["originalUrl"])
	require.Equal(t, "https://nitter.example/u/status/1?s=20", body["nitterUrl"])

	cases := []struct {
		target  string
		message string
	}{
		{target: "/transform", message: "URL parameter is required"},
		{target: "/transform?url=", message: "URL parameter is required"},
		{target: "/transform?url=https://example.com/u/status/1", message: "not a valid Twitter/X url"},
		{target: "/transform?url=status/1", message: "invalid url"},
	}
	for _, test := range cases {
		code, body := serve(t, h, http.MethodGet, test.target, "")
		require.Equal(t, http.StatusBadRequest, code, test.target)
		require.Equal(t, false, body["success"], test.target)
		require.Contains(t, body["error"], test.message, test.target)
	}
}

func TestFetch(t *testing.T) {
	h := newHandler(t, "", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(statusPage))
	})

	code, body := serve(t, h, http.MethodGet, "/fetch?url=https://x.com/jack/status/20", "")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, true, body["success"])
	require.Equal(t, "https://x.com/jack/status/20", body["originalUrl"])

	content := body["content"].(map[string]any)
	require.Equal(t, "just setting up my twttr", content["text"])
	require.Equal(t, "jack", content["author"])
	require.Equal(t, "@jack", content["username"])
	require.Equal(t, true, content["hasContent"])
	require.Equal(t, map[string]any{"replies": "0", "retweets": "0", "likes": "5"}, content["stats"])
	require.Len(t, content["media"], 1)
}

func TestFetchMissingURL(t *testing.T) {
	h := newHandler(t, "nitter.example", nil)
	code, body := serve(t, h, http.MethodGet, "/fetch", "")
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, false, body["success"])
	require.Equal(t, "URL parameter is required", body["error"])
}

func TestFetchNoContent(t *testing.T) {
	h := newHandler(t, "", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	code, body := serve(t, h, http.MethodGet, "/fetch?url=https://x.com/u/status/1", "")
	require.Equal(t, http.StatusNotFound, code)
	require.Equal(t, false, body["success"])
	require.Equal(t, "Tweet not found or could not be parsed", body["error"])
}

func TestFetchUpstreamFailure(t *testing.T) {
	h := newHandler(t, "", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	code, body := serve(t, h, http.MethodGet, "/fetch?url=https://x.com/u/status/1", "")
	require.Equal(t, http.StatusInternalServerError, code)
	require.Equal(t, false, body["success"])
	require.Contains(t, body["error"], "failed to fetch content")
}

func TestDispatch(t *testing.T) {
	h := newHandler(t, "nitter.example", nil)
	code, body := serve(t, h, http.MethodPost, "/mcp", `{"method":"transform_url","params":{"url":"https://twitter.com/a/status/2"}}`)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, map[string]any{
		"result": map[string]any{
			"originalUrl": "https://twitter.com/a/status/2",
			"nitterUrl":   "https://nitter.example/a/status/2",
		},
	}, body)
}

func TestDispatchFetch(t *testing.T) {
	h := newHandler(t, "", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(statusPage))
	})
	code, body := serve(t, h, http.MethodPost, "/mcp", `{"method":"fetch_tweet","params":{"url":"https://x.com/jack/status/20"}}`)
	require.Equal(t, http.StatusOK, code)
	result := body["result"].(map[string]any)
	require.Equal(t, "https://x.com/jack/status/20", result["originalUrl"])
	require.Equal(t, "@jack", result["content"].(map[string]any)["username"])
}

func TestDispatchErrors(t *testing.T) {
	h := newHandler(t, "", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	methods := []any{tools.FetchTweet, tools.TransformURL}

	cases := []struct {
		name       string
		body       string
		status     int
		error      string
		available  bool
		suggestion string
	}{
		{name: "missing method", body: `{"params":{"url":"https://x.com/a"}}`, status: 400, error: "Method is required", available: true},
		{name: "empty body", body: "", status: 400, error: "Method is required", available: true},
		{name: "bad json", body: `{"method":`, status: 400, error: "Invalid JSON body"},
		{name: "missing url", body: `{"method":"fetch_tweet"}`, status: 400, error: "URL parameter is required"},
		{name: "unknown method", body: `{"method":"fetch_twet","params":{"url":"https://x.com/a"}}`, status: 400, error: "Unknown method: fetch_twet (did you mean fetch_tweet?)", available: true, suggestion: "fetch_tweet"},
		{name: "unrelated method", body: `{"method":"ping"}`, status: 400, error: "Unknown method: ping", available: true},
		{name: "unsupported domain", body: `{"method":"transform_url","params":{"url":"https://example.com/a"}}`, status: 400},
		{name: "no content", body: `{"method":"fetch_tweet","params":{"url":"https://x.com/a/status/1"}}`, status: 404, error: "Tweet not found or could not be parsed"},
	}

	for _, test := range cases {
		code, body := serve(t, h, http.MethodPost, "/mcp", test.body)
		require.Equal(t, test.status, code, test.name)
		require.NotEmpty(t, body["error"], test.name)
		if test.error != "" {
			require.Equal(t, test.error, body["error"], test.name)
		}
		if test.available {
			require.Equal(t, methods, body["availableMethods"], test.name)
		} else {
			require.NotContains(t, body, "availableMethods", test.name)
		}
		if test.suggestion != "" {
			require.Equal(t, test.suggestion, body["suggestion"], test.name)
		}
	}
}

func TestNotFound(t *testing.T) {
	h := newHandler(t, "nitter.example", nil)

	for _, target := range []string{"/nope", "/health/extra", "/mcp"} {
		code, body := serve(t, h, http.MethodGet, target, "")
		require.Equal(t, http.StatusNotFound, code, target)
		require.Equal(t, map[string]any{"success": false, "error": "Endpoint not found"}, body, target)
	}
}

func TestOAuthDiscovery(t *testing.T) {
	h := newHandler(t, "nitter.example", nil)

	cases := map[string]string{
		"/.well-known/oauth-authorization-server":     "OAuth not configured - public access",
		"/.well-known/oauth-protected-resource":       "Resource not protected - public access",
		"/.well-known/oauth-protected-resource/sse":   "Resource not protected - public access",
		"/.well-known/oauth-protected-resource/a/b/c": "Resource not protected - public access",
	}
	for target, message := range cases {
		code, body := serve(t, h, http.MethodGet, target, "")
		require.Equal(t, http.StatusNotFound, code, target)
		require.Equal(t, message, body["error"], target)
	}
}

func TestStatusFor(t *testing.T) {
	require.Equal(t, http.StatusBadRequest, statusFor(tools.ErrMissingURL))
	require.Equal(t, http.StatusBadRequest, statusFor(tools.UnknownToolError{Name: "x"}))
	require.Equal(t, http.StatusBadRequest, statusFor(mirror.ErrInvalidURL))
	require.Equal(t, http.StatusNotFound, statusFor(mirror.ErrNoContent))
	require.Equal(t, http.StatusInternalServerError, statusFor(mirror.ErrFetchFailed))
	require.Equal(t, http.StatusInternalServerError, statusFor(os.ErrDeadlineExceeded))
}
