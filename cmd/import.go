package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/bilisonic/bilisonic/color"
	"github.com/bilisonic/bilisonic/filesystem"
	"github.com/bilisonic/bilisonic/icon"
	"github.com/bilisonic/bilisonic/log"
	"github.com/bilisonic/bilisonic/playlist"
	"github.com/bilisonic/bilisonic/source"
	"github.com/bilisonic/bilisonic/style"
	"github.com/bilisonic/bilisonic/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().StringP("output", "o", "", "Playlist file or name to write")
	importCmd.Flags().BoolP("force", "f", false, "Overwrite the output without asking")
	lo.Must0(importCmd.MarkFlagRequired("output"))
}

// importCmd merges saved favourite folder responses into a playlist.
var importCmd = &cobra.Command{
	Use:   "import <dir>",
	Short: "Build a playlist from saved favourite folder responses",
	Long: `Merge every *.json file in a directory, each a saved response of the
x/v3/fav/resource/list endpoint, into one playlist. Files are read in name order;
unreadable files are skipped.`,
	Args:    cobra.ExactArgs(1),
	Example: "  bilisonic import ./dumps -o favourites",
	Run: func(cmd *cobra.Command, args []string) {
		tracks, failed, err := playlist.ImportDumps(args[0], log.For("import"))
		handleErr(err)

		for _, f := range failed {
			fmt.Printf("%s skipped %s\n", style.Fg(color.Yellow)(icon.Get(icon.Fail)), f)
		}

		if len(tracks) == 0 {
			handleErr(playlist.ErrEmpty)
		}

		output := playlist.Path(lo.Must(cmd.Flags().GetString("output")))
		handleErr(writePlaylist(output, tracks, lo.Must(cmd.Flags().GetBool("force"))))
	},
}

var errNotOverwritten = errors.New("aborted, playlist left untouched")

// writePlaylist saves tracks, asking before replacing an existing file unless force is set.
func writePlaylist(path string, tracks []*source.Track, force bool) error {
	exists, err := filesystem.API().Exists(path)
	if err != nil {
		return err
	}

	if exists && !force {
		confirm := survey.Confirm{
			Message: fmt.Sprintf("%s already exists. Overwrite?", path),
			Default: false,
		}

		var overwrite bool
		if err := survey.AskOne(&confirm, &overwrite); err != nil {
			return err
		}

		if !overwrite {
			return errNotOverwritten
		}
	}

	if err := playlist.Save(path, tracks); err != nil {
		return err
	}

	fmt.Fprintf(
		os.Stdout,
		"%s wrote %s to %s\n",
		style.Fg(color.Green)(icon.Get(icon.Success)),
		util.Quantify(len(tracks), "track", "tracks"),
		path,
	)
	return nil
}
