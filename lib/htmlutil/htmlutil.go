package htmlutil

import (
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("xlinkfetcher.lib.htmlutil")

// FirstText returns the trimmed text of the first node in `sel`, or "".
// Characters inside the text are left untouched.
func FirstText(sel *goquery.Selection) string {
	return strings.TrimSpace(sel.First().Text())
}

// FirstAttr returns the trimmed attribute of the first node in `sel`, or "".
func FirstAttr(sel *goquery.Selection, attr string) string {
	return strings.TrimSpace(sel.First().AttrOr(attr, ""))
}

// GetLinks resolves `attr` of every node in `sel` against `base`, in document
// order. Empty or unparsable values are skipped.
func GetLinks(ctx context.Context, base *url.URL, sel *goquery.Selection, attr string) []string {
	_, span := tracer.Start(ctx, "GetLinks")
	defer span.End()

	links := []string{}
	for _, n := range sel.Nodes {
		ref := ""
		for _, a := range n.Attr {
			if a.Key == attr {
				ref = strings.TrimSpace(a.Val)
				break
			}
		}
		if ref == "" {
			continue
		}

		link, err := url.Parse(ref)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "got error while parsing url")
			continue
		}

		linkStr := base.ResolveReference(link).String()
		links = append(links, linkStr)
		span.AddEvent("link", trace.WithAttributes(
			attribute.String("url", linkStr),
		))
	}

	return links
}
