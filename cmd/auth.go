package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/bilisonic/bilisonic/auth"
	"github.com/bilisonic/bilisonic/color"
	"github.com/bilisonic/bilisonic/icon"
	"github.com/bilisonic/bilisonic/open"
	"github.com/bilisonic/bilisonic/style"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/zalando/go-keyring"
)

const loginPage = "https://passport.bilibili.com/login"

func init() {
	rootCmd.AddCommand(authCmd)
}

// authCmd manages the SESSDATA cookie used for logged-in requests.
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the Bilibili session cookie",
	Long: `Store the SESSDATA cookie of a logged-in browser session in the system keyring.
Logged-in requests unlock higher audio qualities and private favourite folders.`,
}

func init() {
	authCmd.AddCommand(authSetCmd)
	authSetCmd.Flags().BoolP("browser", "b", false, "Open the login page first")
}

var authSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Store the SESSDATA cookie",
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("browser")) {
			if err := open.Start(loginPage); err != nil {
				fmt.Printf("%s open %s manually\n", style.Fg(color.Yellow)(icon.Get(icon.Fail)), loginPage)
			}
		}

		input := survey.Password{
			Message: "SESSDATA cookie:",
			Help:    "Copy the value of the SESSDATA cookie from a logged-in bilibili.com tab",
		}

		var value string
		handleErr(survey.AskOne(&input, &value, survey.WithValidator(survey.Required)))
		handleErr(auth.SetSessData(value))

		fmt.Printf("%s SESSDATA stored\n", style.Fg(color.Green)(icon.Get(icon.Success)))
	},
}

func init() {
	authCmd.AddCommand(authGetCmd)
	authGetCmd.SetOut(os.Stdout)
}

var authGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the stored SESSDATA cookie",
	Run: func(cmd *cobra.Command, args []string) {
		value, err := auth.GetSessData()
		if errors.Is(err, keyring.ErrNotFound) {
			handleErr(errors.New("no SESSDATA stored"))
		}
		handleErr(err)

		cmd.Println(value)
	},
}

func init() {
	authCmd.AddCommand(authDeleteCmd)
}

var authDeleteCmd = &cobra.Command{
	Use:     "delete",
	Short:   "Remove the stored SESSDATA cookie",
	Aliases: []string{"remove", "logout"},
	Run: func(cmd *cobra.Command, args []string) {
		err := auth.DeleteSessData()
		if errors.Is(err, keyring.ErrNotFound) {
			err = nil
		}
		handleErr(err)

		fmt.Printf("%s SESSDATA removed\n", style.Fg(color.Green)(icon.Get(icon.Success)))
	},
}
