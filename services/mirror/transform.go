package mirror

import (
	"fmt"
	"net/url"
	"strings"
	"xlinkfetcher/lib/textutil"
)

// SourceDomains are matched as substrings of the post url's hostname.
var SourceDomains = []string{"twitter.com", "x.com"}

type Transformer struct {
	MirrorHost string
}

// Transform swaps the host of a post url for the mirror host, everything
// else (scheme, userinfo, path, query, fragment) is kept as is. A url that
// already points at the mirror is returned unchanged.
func (t Transformer) Transform(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("url transformation failed: %w: %s", ErrInvalidURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("url transformation failed: %w: %q is not absolute", ErrInvalidURL, raw)
	}

	if strings.EqualFold(u.Host, t.MirrorHost) {
		return u.String(), nil
	}
	if !textutil.MatchName(u.Hostname(), SourceDomains) {
		return "", fmt.Errorf("url transformation failed: %w: %s", ErrUnsupportedDomain, u.Hostname())
	}

	u.Host = t.MirrorHost
	return u.String(), nil
}
