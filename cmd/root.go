// Package cmd implements the command-line interface for bilisonic.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/bilisonic/bilisonic/color"
	"github.com/bilisonic/bilisonic/constant"
	"github.com/bilisonic/bilisonic/icon"
	"github.com/bilisonic/bilisonic/key"
	"github.com/bilisonic/bilisonic/log"
	"github.com/bilisonic/bilisonic/playlist"
	"github.com/bilisonic/bilisonic/style"
	"github.com/bilisonic/bilisonic/tui"
	"github.com/bilisonic/bilisonic/util"
	"github.com/bilisonic/bilisonic/version"
	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Set the visual icon variant (e.g., nerd, emoji, squares)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.PersistentFlags().Bool("write-history", true, "Record played tracks in the history")
	lo.Must0(viper.BindPFlag(key.HistorySaveOnPlay, rootCmd.PersistentFlags().Lookup("write-history")))

	rootCmd.Flags().Bool("autoplay", true, "Play the next track when the current one finishes")
	lo.Must0(viper.BindPFlag(key.PlayerAutoplay, rootCmd.Flags().Lookup("autoplay")))

	rootCmd.Flags().BoolP("history", "H", false, "Open the recently played list first")
	rootCmd.Flags().StringP("filter", "f", "", "Only keep tracks whose title fuzzy-matches the query")

	helpFunc := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		helpFunc(cmd, args)
		version.Notify()
	})
}

// rootCmd opens a playlist in the interactive player.
var rootCmd = &cobra.Command{
	Use:   constant.App + " [playlist]",
	Short: "A terminal player for Bilibili playlists",
	Long: constant.AsciiArtLogo + "\n" +
		style.New().Italic(true).Foreground(color.HiRed).Render("    - A terminal player for Bilibili playlists"),
	Example: "  bilisonic favourites\n  bilisonic ./mix.json --filter lofi",
	Args:    cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		path, err := playlistPath(args)
		handleErr(err)

		tracks, err := playlist.Load(path)
		handleErr(err)

		if query := lo.Must(cmd.Flags().GetString("filter")); query != "" {
			tracks = playlist.Filter(tracks, query)
			if len(tracks) == 0 {
				handleErr(fmt.Errorf("no track matches %q", query))
			}
		}

		engine := newEngine()
		CheckDependencies(engine)

		client := newClient()
		sess := newSession(engine, client)
		defer sess.Close()

		handleErr(tui.Run(&tui.Options{
			Title:    util.FileStem(path),
			Tracks:   tracks,
			Resolver: client,
			Player:   sess,
			History:  lo.Must(cmd.Flags().GetBool("history")),
		}))
	},
}

// playlistPath picks the playlist from the argument or the configured default.
func playlistPath(args []string) (string, error) {
	if len(args) > 0 {
		return playlist.Path(args[0]), nil
	}

	if name := viper.GetString(key.PlaylistDefault); name != "" {
		return playlist.Path(name), nil
	}

	return "", errors.New("no playlist given and " + key.PlaylistDefault + " is not set")
}

// Execute initializes child command routing and processes the CLI entry point.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}
