package textutil

import (
	"regexp"
	"strings"

	"github.com/antzucaro/matchr"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.Trim(name, " \n\t")
	name = whitespaceRegex.ReplaceAllString(name, "")
	return name
}

func MatchName(name string, matchers []string) bool {
	name = NormalizeName(name)
	for _, m := range matchers {
		if strings.Contains(name, m) {
			return true
		}
	}
	return false
}

// minSuggestSimilarity is the Jaro-Winkler score below which a candidate is
// considered unrelated.
const minSuggestSimilarity = 0.8

// Suggest returns the candidate closest to `name`, or "" when nothing is
// similar enough to be worth suggesting.
func Suggest(name string, candidates []string) string {
	normalized := NormalizeName(name)
	if normalized == "" {
		return ""
	}

	best := ""
	bestScore := 0.0
	for _, c := range candidates {
		score := matchr.JaroWinkler(normalized, NormalizeName(c), false)
		if score > bestScore {
			best = c
			bestScore = score
		}
	}
	if bestScore < minSuggestSimilarity {
		return ""
	}
	return best
}
