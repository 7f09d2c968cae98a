package mirror

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultSelectors(t *testing.T) {
	set := DefaultSelectors()
	require.NoError(t, set.Validate())
	require.False(t, set.IsZero())
	require.NotEmpty(t, set.Version)
	require.Equal(t, ".tweet-content", set.Text)
	require.Equal(t, AttrSelector{Selector: ".tweet-date a", Attr: "title"}, set.Timestamp)
	require.Equal(t, AttrSelector{Selector: ".attachment.image img", Attr: "src"}, set.Media)
}

func TestLoadSelectors(t *testing.T) {
	set, err := LoadSelectors("")
	require.NoError(t, err)
	require.Equal(t, DefaultSelectors(), set)

	path := filepath.Join(t.TempDir(), "selectors.json5")
	err = os.WriteFile(path, []byte(`{
		version: "custom-1",
		text: "article p",
		author: ".name",
		username: ".handle",
		timestamp: { selector: "time", attr: "datetime" },
		stats: { replies: ".r", retweets: ".rt", likes: ".l" },
		media: { selector: "figure img", attr: "data-src" },
	}`), 0600)
	require.NoError(t, err)

	set, err = LoadSelectors(path)
	require.NoError(t, err)
	require.Equal(t, "custom-1", set.Version)
	require.Equal(t, "article p", set.Text)
	require.Equal(t, "datetime", set.Timestamp.Attr)
}

func TestLoadSelectorsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "selectors.json5")
	err := os.WriteFile(path, []byte(`{ version: "broken", text: "div[", author: ".a" }`), 0600)
	require.NoError(t, err)

	_, err = LoadSelectors(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "text")
	require.Contains(t, err.Error(), "username: missing selector")
	require.Contains(t, err.Error(), "media.attr: missing attribute")

	_, err = LoadSelectors(filepath.Join(t.TempDir(), "absent.json5"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
