package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/bilisonic/bilisonic/bilibili"
	"github.com/bilisonic/bilisonic/network"
	"github.com/bilisonic/bilisonic/selector"
	"github.com/bilisonic/bilisonic/source"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(streamsCmd)
	streamsCmd.Flags().BoolP("urls", "u", false, "Include stream URLs")
	streamsCmd.SetOut(os.Stdout)
}

// streamsCmd shows every candidate stream of a video, best first.
var streamsCmd = &cobra.Command{
	Use:     "streams <bvid|url>",
	Short:   "List the candidate streams of a video in the order they would be picked",
	Args:    cobra.ExactArgs(1),
	Example: "  bilisonic streams BV1xx411c7mD",
	Run: func(cmd *cobra.Command, args []string) {
		track, err := bilibili.ParseTrack(args[0])
		handleErr(err)

		ctx, cancel := context.WithTimeout(context.Background(), network.DefaultTimeout)
		defer cancel()

		streams, err := newClient().Resolve(ctx, track)
		handleErr(err)

		cmd.Println(renderStreams(selector.Sort(streams), lo.Must(cmd.Flags().GetBool("urls"))))
	},
}

// renderStreams lays out ranked streams as a table.
func renderStreams(ranked []*source.Stream, withURLs bool) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := table.Row{"#", "Kind", "Quality", "Code"}
	if withURLs {
		header = append(header, "URL")
	}
	tw.AppendHeader(header)

	for i, s := range ranked {
		row := table.Row{i + 1, s.Kind, s.Quality, strconv.Itoa(int(s.Quality))}
		if withURLs {
			row = append(row, s.URL)
		}
		tw.AppendRow(row)
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 4, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	tw.SetCaption(fmt.Sprintf("%d candidates", len(ranked)))

	return tw.Render()
}
