package tools

import (
	"context"
	"encoding/json"
	"log/slog"
	"xlinkfetcher/lib/telemetry"
	"xlinkfetcher/lib/textutil"
	"xlinkfetcher/services/mirror"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = telemetry.Tracer("xlinkfetcher.services.tools")

const (
	ServerName = "x-link-fetcher"

	TransformURL = "transform_url"
	FetchTweet   = "fetch_tweet"
)

// AvailableMethods lists the tool names in the order they are advertised.
func AvailableMethods() []string {
	return []string{FetchTweet, TransformURL}
}

// Fetcher is the part of mirror.Fetcher the tools depend on.
type Fetcher interface {
	Transform(postURL string) (mirror.TransformResult, error)
	Fetch(ctx context.Context, postURL string) (mirror.FetchResult, error)
}

// Service is the single place tool calls are executed, every transport
// binding goes through Call.
type Service struct {
	fetcher Fetcher
	mcp     *server.MCPServer
}

func NewService(fetcher Fetcher, version string) *Service {
	s := &Service{fetcher: fetcher}
	s.mcp = server.NewMCPServer(
		ServerName, version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	s.mcp.AddTool(
		mcp.NewTool(
			FetchTweet,
			mcp.WithDescription("Fetch and parse tweet content from X/Twitter URL"),
			mcp.WithString(
				"url",
				mcp.Required(),
				mcp.Description("X/Twitter URL to fetch (e.g., https://x.com/user/status/123)"),
			),
		),
		s.handler(FetchTweet),
	)
	s.mcp.AddTool(
		mcp.NewTool(
			TransformURL,
			mcp.WithDescription("Transform X/Twitter URL to Nitter URL"),
			mcp.WithString(
				"url",
				mcp.Required(),
				mcp.Description("X/Twitter URL to transform (e.g., https://x.com/user/status/123)"),
			),
		),
		s.handler(TransformURL),
	)
	return s
}

// MCPServer is the protocol engine the streaming transports feed messages to.
func (s *Service) MCPServer() *server.MCPServer {
	return s.mcp
}

// Call runs tool `name`. The result is a mirror.TransformResult or a
// mirror.FetchResult, a fetch without post text fails with
// mirror.ErrNoContent.
func (s *Service) Call(ctx context.Context, name string, args map[string]any) (any, error) {
	ctx, span := tracer.Start(ctx, "Service:Call")
	defer span.End()
	span.SetAttributes(attribute.String("tool", name))

	result, err := s.call(ctx, name, args)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "tool call failed")
		slog.WarnContext(ctx, "tool call failed", "tool", name, "err", err)
		return nil, err
	}
	slog.DebugContext(ctx, "tool call finished", "tool", name)
	return result, nil
}

func (s *Service) call(ctx context.Context, name string, args map[string]any) (any, error) {
	switch name {
	case TransformURL, FetchTweet:
	default:
		return nil, UnknownToolError{
			Name:       name,
			Suggestion: textutil.Suggest(name, AvailableMethods()),
		}
	}

	postURL, _ := args["url"].(string)
	if postURL == "" {
		return nil, ErrMissingURL
	}

	if name == TransformURL {
		return s.fetcher.Transform(postURL)
	}

	res, err := s.fetcher.Fetch(ctx, postURL)
	if err != nil {
		return nil, err
	}
	err = mirror.RequireContent(res)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// failures are reported to the client as tool results with isError set,
// the protocol exchange itself still succeeds.
func (s *Service) handler(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := s.Call(ctx, name, req.GetArguments())
		if err != nil {
			return mcp.NewToolResultError("Error: " + err.Error()), nil
		}
		text, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return mcp.NewToolResultError("Error: " + err.Error()), nil
		}
		return mcp.NewToolResultText(string(text)), nil
	}
}
