package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/bilisonic/bilisonic/color"
	"github.com/bilisonic/bilisonic/playlist"
	"github.com/bilisonic/bilisonic/style"
	"github.com/bilisonic/bilisonic/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(favCmd)
	favCmd.Flags().StringP("output", "o", "", "Playlist file or name to write, defaults to the folder title")
	favCmd.Flags().BoolP("force", "f", false, "Overwrite the output without asking")
}

// favCmd downloads a favourite folder as a playlist.
var favCmd = &cobra.Command{
	Use:   "fav <media-id>",
	Short: "Fetch a favourite folder and save it as a playlist",
	Long: `Fetch every page of a favourite folder and save its videos as a playlist.
Private folders require a SESSDATA cookie, see "bilisonic auth set".`,
	Args:    cobra.ExactArgs(1),
	Example: "  bilisonic fav 1052622027 -o favourites",
	Run: func(cmd *cobra.Command, args []string) {
		mediaID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil || mediaID <= 0 {
			handleErr(fmt.Errorf("invalid media id %q", args[0]))
		}

		folder, err := newClient().FavouriteFolder(context.Background(), mediaID)
		handleErr(err)

		fmt.Printf("%s %s\n", style.Fg(color.Purple)(folder.Title), style.Faint(util.Quantify(len(folder.Tracks), "video", "videos")))

		output := lo.Must(cmd.Flags().GetString("output"))
		if output == "" {
			output = util.SanitizeFilename(folder.Title)
		}
		if output == "" {
			output = args[0]
		}

		handleErr(writePlaylist(playlist.Path(output), folder.Tracks, lo.Must(cmd.Flags().GetBool("force"))))
	},
}
