package cmd

import (
	"os"
	"sort"

	"github.com/bilisonic/bilisonic/color"
	"github.com/bilisonic/bilisonic/config"
	"github.com/bilisonic/bilisonic/style"
	"github.com/bilisonic/bilisonic/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(envCmd)
	envCmd.Flags().BoolP("set-only", "s", false, "Only show variables that are set")
	envCmd.Flags().BoolP("unset-only", "u", false, "Only show variables that are not set")

	envCmd.MarkFlagsMutuallyExclusive("set-only", "unset-only")
	envCmd.SetOut(os.Stdout)
}

// envVars lists every environment variable bilisonic reads, sorted.
func envVars() []string {
	vars := lo.Map(lo.Values(config.Default), func(f config.Field, _ int) string {
		return f.Env()
	})
	vars = append(vars, where.EnvConfigPath)
	sort.Strings(vars)
	return vars
}

// envCmd shows the environment variables that override the configuration.
var envCmd = &cobra.Command{
	Use:   "env",
	Short: "List the environment variables that override the configuration",
	Run: func(cmd *cobra.Command, args []string) {
		setOnly := lo.Must(cmd.Flags().GetBool("set-only"))
		unsetOnly := lo.Must(cmd.Flags().GetBool("unset-only"))

		for _, env := range envVars() {
			value, present := os.LookupEnv(env)
			if (setOnly && !present) || (unsetOnly && present) {
				continue
			}

			cmd.Print(style.New().Bold(true).Foreground(color.Purple).Render(env))
			cmd.Print("=")

			if present {
				cmd.Println(style.Fg(color.Green)(value))
			} else {
				cmd.Println(style.Fg(color.Red)("unset"))
			}
		}
	},
}
