package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bilisonic/bilisonic/bilibili"
	"github.com/bilisonic/bilisonic/color"
	"github.com/bilisonic/bilisonic/history"
	"github.com/bilisonic/bilisonic/icon"
	"github.com/bilisonic/bilisonic/key"
	"github.com/bilisonic/bilisonic/log"
	"github.com/bilisonic/bilisonic/network"
	"github.com/bilisonic/bilisonic/selector"
	"github.com/bilisonic/bilisonic/session"
	"github.com/bilisonic/bilisonic/style"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(playCmd)
}

// playCmd plays a single video without the interactive interface.
var playCmd = &cobra.Command{
	Use:     "play <bvid|url>",
	Short:   "Play the audio of a single video without the interface",
	Long:    "Resolve a video, pick its best stream and play it until it ends. Ctrl-C stops playback.",
	Example: "  bilisonic play BV1xx411c7mD\n  bilisonic play 'https://www.bilibili.com/video/BV1xx411c7mD?p=2'",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		track, err := bilibili.ParseTrack(args[0])
		handleErr(err)

		engine := newEngine()
		CheckDependencies(engine)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		client := newClient()

		resolveCtx, cancel := context.WithTimeout(ctx, network.DefaultTimeout)
		if view, err := client.View(resolveCtx, track.BVID); err == nil {
			track.Title = view.Title
		}
		streams, err := client.Resolve(resolveCtx, track)
		cancel()
		handleErr(err)

		stream, err := selector.Select(streams)
		handleErr(err)

		sess := newSession(engine, client)
		defer sess.Close()

		completion, err := sess.Start(stream.URL)
		handleErr(err)

		fmt.Printf(
			"%s %s %s\n",
			style.Fg(color.Green)(icon.Get(icon.Play)),
			style.Bold(track.String()),
			style.Faint(fmt.Sprintf("(%s %s)", stream.Kind, stream.Quality)),
		)

		result, err := completion.Wait(ctx)
		if err != nil {
			// interrupted
			sess.Stop()
			result, _ = completion.Wait(context.Background())
		}

		if viper.GetBool(key.HistorySaveOnPlay) {
			if err := history.Save(track, result.Outcome == session.Finished); err != nil {
				log.Warn(err)
			}
		}

		if result.Outcome == session.Failed {
			sess.Close()
			handleErr(result.Err)
		}

		fmt.Printf("%s %s\n", icon.Get(icon.Stop), result.Outcome)
	},
}
