package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"xlinkfetcher/services/mirror"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var fetchJson *bool

func init() {
	fetchJson = fetchCmd.Flags().Bool("json", false, "Print the fetch result as JSON instead of a table.")
	rootCmd.AddCommand(fetchCmd)
}

var fetchCmd = &cobra.Command{
	Use:   "fetch <url> [--json]",
	Short: "Fetch a post through the Nitter instance and print what was extracted.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fetcher, err := newFetcher()
		if err != nil {
			return err
		}

		res, err := fetcher.Fetch(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		err = mirror.RequireContent(res)
		if err != nil {
			return fmt.Errorf("%s: %w", res.MirrorURL, err)
		}

		if *fetchJson {
			return writeJSON(cmd.OutOrStdout(), res)
		}
		renderFetchResult(cmd.OutOrStdout(), res)
		return nil
	},
}

func writeJSON(out io.Writer, value any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}

func renderFetchResult(out io.Writer, res mirror.FetchResult) {
	content := res.Content

	t := newTable(out)
	t.AppendRows([]table.Row{
		{"Nitter", res.MirrorURL},
		{"Author", fmt.Sprintf("%s (%s)", content.Author, content.Username)},
		{"Posted", content.Timestamp},
		{"Text", content.Text},
		{"Replies", content.Stats.Replies},
		{"Retweets", content.Stats.Retweets},
		{"Likes", content.Stats.Likes},
	})
	if len(content.Media) > 0 {
		t.AppendRow(table.Row{"Media", strings.Join(content.Media, "\n")})
	}
	t.Render()
}
