package mirror

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"xlinkfetcher/lib/restyutil"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	DefaultMirrorHost = "nitter.poast.org"
	DefaultTimeout    = 10 * time.Second
	DefaultUserAgent  = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

type TransformResult struct {
	OriginalURL string `json:"originalUrl"`
	MirrorURL   string `json:"nitterUrl"`
}

type FetchResult struct {
	OriginalURL string  `json:"originalUrl"`
	MirrorURL   string  `json:"nitterUrl"`
	Content     Content `json:"content"`
}

type FetcherOptions struct {
	MirrorHost string
	// zero value uses DefaultSelectors
	Selectors SelectorSet
	// zero value uses DefaultTimeout
	Timeout time.Duration
	// empty uses DefaultUserAgent
	UserAgent        string
	CloudflareBypass bool
	// Client replaces the http client resty would create, its transport is
	// left untouched.
	Client *resty.Client
}

// Fetcher turns post urls into extracted content: transform, GET, extract.
type Fetcher struct {
	transformer Transformer
	extractor   Extractor
	http        *resty.Client
}

func NewFetcher(opts FetcherOptions) (*Fetcher, error) {
	if opts.MirrorHost == "" {
		return nil, errors.New("mirror host is required")
	}
	if opts.Selectors.IsZero() {
		opts.Selectors = DefaultSelectors()
	}
	err := opts.Selectors.Validate()
	if err != nil {
		return nil, err
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}

	client := opts.Client
	if client == nil {
		client = resty.New()
		if opts.CloudflareBypass {
			client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
		}
	}
	client.SetHeader("User-Agent", opts.UserAgent)
	client.SetTimeout(opts.Timeout)
	restyutil.InstrumentClient(client, tracer, restyInstrumentOutput)

	return &Fetcher{
		transformer: Transformer{MirrorHost: opts.MirrorHost},
		extractor: Extractor{
			MirrorHost: opts.MirrorHost,
			Selectors:  opts.Selectors,
		},
		http: client,
	}, nil
}

func (f *Fetcher) MirrorHost() string {
	return f.transformer.MirrorHost
}

func (f *Fetcher) Selectors() SelectorSet {
	return f.extractor.Selectors
}

func (f *Fetcher) Transform(postURL string) (TransformResult, error) {
	mirrorURL, err := f.transformer.Transform(postURL)
	if err != nil {
		return TransformResult{}, err
	}
	return TransformResult{OriginalURL: postURL, MirrorURL: mirrorURL}, nil
}

// Fetch does not retry. A page without post text is returned with
// hasContent=false and no error, see RequireContent.
func (f *Fetcher) Fetch(ctx context.Context, postURL string) (FetchResult, error) {
	ctx, span := tracer.Start(ctx, "Fetcher:Fetch")
	defer span.End()
	start := time.Now()

	mirrorURL, err := f.transformer.Transform(postURL)
	if err != nil {
		recordFetch(ctx, outcomeInvalid, start)
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to transform url")
		return FetchResult{}, err
	}
	span.SetAttributes(attribute.String("mirror_url", mirrorURL))

	res, err := f.http.R().
		SetContext(ctx).
		Get(mirrorURL)
	if err != nil {
		recordFetch(ctx, outcomeFailed, start)
		span.SetStatus(codes.Error, "failed to fetch mirror page")
		return FetchResult{}, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	if !res.IsSuccess() {
		recordFetch(ctx, outcomeFailed, start)
		span.SetStatus(codes.Error, "mirror responded with an error status")
		return FetchResult{}, fmt.Errorf("%w: mirror responded with %s", ErrFetchFailed, res.Status())
	}

	content := f.extractor.Extract(ctx, res.Body())
	if content.HasContent {
		recordFetch(ctx, outcomeOk, start)
	} else {
		recordFetch(ctx, outcomeNoContent, start)
		slog.DebugContext(ctx, "mirror page had no post text", "mirror_url", mirrorURL)
	}

	return FetchResult{
		OriginalURL: postURL,
		MirrorURL:   mirrorURL,
		Content:     content,
	}, nil
}

// RequireContent maps an empty extraction to ErrNoContent.
func RequireContent(res FetchResult) error {
	if !res.Content.HasContent {
		return ErrNoContent
	}
	return nil
}
