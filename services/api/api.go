package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"
	"xlinkfetcher/lib/serviceutil"
	"xlinkfetcher/lib/telemetry"
	"xlinkfetcher/services/mirror"
	"xlinkfetcher/services/tools"
)

var tracer = telemetry.Tracer("xlinkfetcher.services.api")

const maxBodyBytes = 1 << 20

// ToolCaller runs a tool by name, see tools.Service.
type ToolCaller interface {
	Call(ctx context.Context, name string, args map[string]any) (any, error)
}

type Options struct {
	MirrorHost string
	Version    string
}

type Service struct {
	tools ToolCaller
	opts  Options
	now   func() time.Time
}

func NewService(toolCaller ToolCaller, opts Options) Service {
	return Service{
		tools: toolCaller,
		opts:  opts,
		now:   time.Now,
	}
}

// Register mounts the REST surface on mux, including the JSON 404 for
// every path nothing else claims.
func (s Service) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", s.health)
	mux.HandleFunc("GET /{$}", s.describe)
	mux.HandleFunc("GET /transform", s.transform)
	mux.HandleFunc("GET /fetch", s.fetch)
	mux.HandleFunc("POST /mcp", s.dispatch)

	mux.HandleFunc("GET /.well-known/oauth-authorization-server", notConfigured("OAuth not configured - public access"))
	mux.HandleFunc("GET /.well-known/oauth-protected-resource", notConfigured("Resource not protected - public access"))
	mux.HandleFunc("GET /.well-known/oauth-protected-resource/{path...}", notConfigured("Resource not protected - public access"))

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		serviceutil.WriteJSON(w, http.StatusNotFound, failure{Error: "Endpoint not found"})
	})
}

type failure struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func writeFailure(w http.ResponseWriter, err error) {
	serviceutil.WriteJSON(w, statusFor(err), failure{Error: errorMessage(err)})
}

func notConfigured(message string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		serviceutil.WriteJSON(w, http.StatusNotFound, map[string]string{"error": message})
	}
}

func (s Service) health(w http.ResponseWriter, r *http.Request) {
	serviceutil.WriteJSON(w, http.StatusOK, map[string]string{
		"status":         "ok",
		"timestamp":      s.now().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		"nitterInstance": s.opts.MirrorHost,
	})
}

func (s Service) describe(w http.ResponseWriter, r *http.Request) {
	serviceutil.WriteJSON(w, http.StatusOK, map[string]any{
		"name":        "X Link Fetcher",
		"version":     s.opts.Version,
		"description": "Transform X/Twitter URLs to Nitter and fetch tweet content without API keys",
		"endpoints": map[string]string{
			"health":    "/health",
			"fetch":     "/fetch?url=<twitter_url>",
			"transform": "/transform?url=<twitter_url>",
			"mcp":       "/mcp (POST) - Legacy MCP endpoint",
			"sse":       "/sse (GET/POST/DELETE) - Streamable HTTP MCP endpoint",
			"mcpStream": "/mcp-stream - alias of /sse",
			"messages":  "/messages (GET/POST) - HTTP+SSE MCP endpoint",
		},
	})
}

func (s Service) transform(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "transform")
	defer span.End()

	result, err := s.tools.Call(ctx, tools.TransformURL, map[string]any{
		"url": r.URL.Query().Get("url"),
	})
	if err != nil {
		writeFailure(w, err)
		return
	}
	res := result.(mirror.TransformResult)
	serviceutil.WriteJSON(w, http.StatusOK, struct {
		Success bool `json:"success"`
		mirror.TransformResult
	}{true, res})
}

func (s Service) fetch(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "fetch")
	defer span.End()

	result, err := s.tools.Call(ctx, tools.FetchTweet, map[string]any{
		"url": r.URL.Query().Get("url"),
	})
	if err != nil {
		writeFailure(w, err)
		return
	}
	res := result.(mirror.FetchResult)
	serviceutil.WriteJSON(w, http.StatusOK, struct {
		Success bool `json:"success"`
		mirror.FetchResult
	}{true, res})
}

type dispatchRequest struct {
	Method string         `json:"method"`
	Params map[string]any `json:"params"`
}

type dispatchFailure struct {
	Error            string   `json:"error"`
	AvailableMethods []string `json:"availableMethods,omitempty"`
	Suggestion       string   `json:"suggestion,omitempty"`
}

// dispatch is the synchronous binding: {method, params} in, {result} out.
func (s Service) dispatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "dispatch")
	defer span.End()

	var req dispatchRequest
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req)
	if err != nil && !errors.Is(err, io.EOF) {
		slog.DebugContext(ctx, "invalid dispatch body", "err", err)
		serviceutil.WriteJSON(w, http.StatusBadRequest, dispatchFailure{Error: "Invalid JSON body"})
		return
	}
	if req.Method == "" {
		serviceutil.WriteJSON(w, http.StatusBadRequest, dispatchFailure{
			Error:            "Method is required",
			AvailableMethods: tools.AvailableMethods(),
		})
		return
	}

	result, err := s.tools.Call(ctx, req.Method, req.Params)
	if err != nil {
		body := dispatchFailure{Error: errorMessage(err)}
		var unknown tools.UnknownToolError
		if errors.As(err, &unknown) {
			body.AvailableMethods = tools.AvailableMethods()
			body.Suggestion = unknown.Suggestion
		}
		serviceutil.WriteJSON(w, statusFor(err), body)
		return
	}
	serviceutil.WriteJSON(w, http.StatusOK, map[string]any{"result": result})
}
