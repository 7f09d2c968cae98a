package commands

import (
	"xlinkfetcher/services/mirror"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(selectorsCmd)
}

var selectorsCmd = &cobra.Command{
	Use:   "selectors",
	Short: "Show the selector set posts are extracted with.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		set, err := mirror.LoadSelectors(cfg.SelectorsFile)
		if err != nil {
			return err
		}
		source := "embedded"
		if cfg.SelectorsFile != "" {
			source = cfg.SelectorsFile
		}

		t := newTable(cmd.OutOrStdout())
		t.SetTitle("selectors %s (%s)", set.Version, source)
		t.AppendHeader(table.Row{"Field", "Selector", "Attribute"})
		t.AppendRows([]table.Row{
			{"text", set.Text, ""},
			{"author", set.Author, ""},
			{"username", set.Username, ""},
			{"timestamp", set.Timestamp.Selector, set.Timestamp.Attr},
			{"stats.replies", set.Stats.Replies, ""},
			{"stats.retweets", set.Stats.Retweets, ""},
			{"stats.likes", set.Stats.Likes, ""},
			{"media", set.Media.Selector, set.Media.Attr},
		})
		t.Render()
		return nil
	},
}
