package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/bilisonic/bilisonic/color"
	"github.com/bilisonic/bilisonic/filesystem"
	"github.com/bilisonic/bilisonic/playlist"
	"github.com/bilisonic/bilisonic/style"
	"github.com/bilisonic/bilisonic/util"
	"github.com/bilisonic/bilisonic/where"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(playlistCmd)
}

// playlistCmd groups playlist file helpers.
var playlistCmd = &cobra.Command{
	Use:   "playlist",
	Short: "Inspect playlist files",
}

func init() {
	playlistCmd.AddCommand(playlistSchemaCmd)
	playlistSchemaCmd.SetOut(os.Stdout)
}

var playlistSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of playlist files",
	Run: func(cmd *cobra.Command, args []string) {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		handleErr(encoder.Encode(playlist.Schema()))
	},
}

func init() {
	playlistCmd.AddCommand(playlistListCmd)
	playlistListCmd.SetOut(os.Stdout)
}

var playlistListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the playlists saved in the playlists directory",
	Run: func(cmd *cobra.Command, args []string) {
		infos, err := filesystem.API().ReadDir(where.Playlists())
		handleErr(err)

		for _, info := range infos {
			if info.IsDir() {
				continue
			}

			name := util.FileStem(info.Name())
			tracks, err := playlist.Load(filepath.Join(where.Playlists(), info.Name()))
			if err != nil {
				cmd.Printf("%s %s\n", name, style.Fg(color.Red)("invalid"))
				continue
			}

			cmd.Printf("%s %s\n", name, style.Faint(util.Quantify(len(tracks), "track", "tracks")))
		}
	},
}

func init() {
	playlistCmd.AddCommand(playlistCheckCmd)
	playlistCheckCmd.SetOut(os.Stdout)
}

var playlistCheckCmd = &cobra.Command{
	Use:   "check <playlist>",
	Short: "Validate a playlist file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		tracks, err := playlist.Load(playlist.Path(args[0]))
		handleErr(err)
		cmd.Printf("%s\n", util.Quantify(len(tracks), "valid track", "valid tracks"))
	},
}
