package mirror

import (
	_ "embed"
	"errors"
	"fmt"
	"xlinkfetcher/lib/configutil"

	"github.com/andybalholm/cascadia"
	"github.com/titanous/json5"
)

type AttrSelector struct {
	Selector string `json:"selector"`
	Attr     string `json:"attr"`
}

// StatSelectors address the icon nodes, the count is the text of the icon's
// parent.
type StatSelectors struct {
	Replies  string `json:"replies"`
	Retweets string `json:"retweets"`
	Likes    string `json:"likes"`
}

// SelectorSet is the versioned description of where post fields live in the
// mirror's markup.
type SelectorSet struct {
	Version   string        `json:"version"`
	Text      string        `json:"text"`
	Author    string        `json:"author"`
	Username  string        `json:"username"`
	Timestamp AttrSelector  `json:"timestamp"`
	Stats     StatSelectors `json:"stats"`
	Media     AttrSelector  `json:"media"`
}

//go:embed selectors.json5
var defaultSelectorsFile []byte

// DefaultSelectors returns the embedded selector set.
func DefaultSelectors() SelectorSet {
	var set SelectorSet
	err := json5.Unmarshal(defaultSelectorsFile, &set)
	if err != nil {
		panic(fmt.Sprintf("embedded selectors.json5 is invalid: %s", err))
	}
	return set
}

// LoadSelectors reads a selector set from a json5 file, an empty path
// yields the embedded set.
func LoadSelectors(path string) (SelectorSet, error) {
	if path == "" {
		return DefaultSelectors(), nil
	}
	set, err := configutil.ReadFile[SelectorSet](path)
	if err != nil {
		return SelectorSet{}, err
	}
	err = set.Validate()
	if err != nil {
		return SelectorSet{}, fmt.Errorf("selectors %s: %w", path, err)
	}
	return set, nil
}

func (s SelectorSet) IsZero() bool {
	return s == SelectorSet{}
}

// Validate checks that every selector is present and compiles.
func (s SelectorSet) Validate() error {
	fields := []struct {
		name     string
		selector string
	}{
		{"text", s.Text},
		{"author", s.Author},
		{"username", s.Username},
		{"timestamp.selector", s.Timestamp.Selector},
		{"stats.replies", s.Stats.Replies},
		{"stats.retweets", s.Stats.Retweets},
		{"stats.likes", s.Stats.Likes},
		{"media.selector", s.Media.Selector},
	}

	var errlist []error
	for _, f := range fields {
		if f.selector == "" {
			errlist = append(errlist, fmt.Errorf("%s: missing selector", f.name))
			continue
		}
		_, err := cascadia.Compile(f.selector)
		if err != nil {
			errlist = append(errlist, fmt.Errorf("%s: %w", f.name, err))
		}
	}
	if s.Timestamp.Attr == "" {
		errlist = append(errlist, errors.New("timestamp.attr: missing attribute"))
	}
	if s.Media.Attr == "" {
		errlist = append(errlist, errors.New("media.attr: missing attribute"))
	}
	return errors.Join(errlist...)
}
