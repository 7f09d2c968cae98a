package mirror

import (
	"bytes"
	"context"
	"net/url"
	"strings"
	"xlinkfetcher/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
)

type Stats struct {
	Replies  string `json:"replies"`
	Retweets string `json:"retweets"`
	Likes    string `json:"likes"`
}

// Content is the post record extracted from a mirror status page.
type Content struct {
	Text       string   `json:"text"`
	Author     string   `json:"author"`
	Username   string   `json:"username"`
	Timestamp  string   `json:"timestamp"`
	Stats      Stats    `json:"stats"`
	Media      []string `json:"media"`
	HasContent bool     `json:"hasContent"`
}

const missingStat = "0"

func emptyContent() Content {
	return Content{
		Stats: Stats{
			Replies:  missingStat,
			Retweets: missingStat,
			Likes:    missingStat,
		},
		Media: []string{},
	}
}

type Extractor struct {
	MirrorHost string
	Selectors  SelectorSet
}

// Extract never fails, fields it can't find are left empty (counts become
// "0") and hasContent reports whether any post text was found.
func (e Extractor) Extract(ctx context.Context, markup []byte) Content {
	ctx, span := tracer.Start(ctx, "Extractor:Extract")
	defer span.End()

	content := emptyContent()
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(markup))
	if err != nil {
		span.RecordError(err)
		return content
	}

	sel := e.Selectors
	content.Text = htmlutil.FirstText(doc.Find(sel.Text))
	content.Author = htmlutil.FirstText(doc.Find(sel.Author))
	content.Username = htmlutil.FirstText(doc.Find(sel.Username))
	content.Timestamp = htmlutil.FirstAttr(doc.Find(sel.Timestamp.Selector), sel.Timestamp.Attr)
	content.Stats = Stats{
		Replies:  statText(doc, sel.Stats.Replies),
		Retweets: statText(doc, sel.Stats.Retweets),
		Likes:    statText(doc, sel.Stats.Likes),
	}

	base := &url.URL{Scheme: "https", Host: e.MirrorHost, Path: "/"}
	content.Media = htmlutil.GetLinks(ctx, base, doc.Find(sel.Media.Selector), sel.Media.Attr)

	content.HasContent = len(strings.TrimSpace(content.Text)) > 0

	span.SetAttributes(
		attribute.String("selectors.version", sel.Version),
		attribute.Bool("has_content", content.HasContent),
		attribute.Int("media", len(content.Media)),
	)
	return content
}

func statText(doc *goquery.Document, iconSelector string) string {
	icon := doc.Find(iconSelector).First()
	text := strings.TrimSpace(icon.Parent().Text())
	if text == "" {
		return missingStat
	}
	return text
}
