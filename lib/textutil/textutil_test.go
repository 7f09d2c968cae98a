package textutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMatchName(t *testing.T) {
	table := []struct {
		input    string
		matchers []string
		expected bool
	}{
		{input: "x.com", matchers: []string{"twitter.com", "x.com"}, expected: true},
		{input: "Mobile.Twitter.com", matchers: []string{"twitter.com", "x.com"}, expected: true},
		{input: "nitter.example", matchers: []string{"twitter.com", "x.com"}, expected: false},
	}

	for _, row := range table {
		require.Equal(t, row.expected, MatchName(row.input, row.matchers), row.input)
	}
}

func TestSuggest(t *testing.T) {
	candidates := []string{"fetch_tweet", "transform_url"}

	table := []struct {
		input    string
		expected string
	}{
		{input: "fetch_twet", expected: "fetch_tweet"},
		{input: "transform", expected: "transform_url"},
		{input: "FETCH_TWEET", expected: "fetch_tweet"},
		{input: "ping", expected: ""},
		{input: "", expected: ""},
	}

	for _, row := range table {
		require.Equal(t, row.expected, Suggest(row.input, candidates), row.input)
	}
}
