package commands

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(transformCmd)
}

var transformCmd = &cobra.Command{
	Use:   "transform <url> [url...]",
	Short: "Rewrite X/Twitter links to the Nitter instance.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fetcher, err := newFetcher()
		if err != nil {
			return err
		}

		t := newTable(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"Original", "Nitter"})
		for _, arg := range args {
			res, err := fetcher.Transform(arg)
			if err != nil {
				t.AppendRow(table.Row{arg, err.Error()})
				continue
			}
			t.AppendRow(table.Row{res.OriginalURL, res.MirrorURL})
		}
		t.Render()
		return nil
	},
}
