package cmd

import (
	"fmt"
	"os"
	"runtime"

	"github.com/bilisonic/bilisonic/constant"
	"github.com/bilisonic/bilisonic/icon"
	"github.com/bilisonic/bilisonic/player"
	"github.com/bilisonic/bilisonic/style"
	"github.com/charmbracelet/lipgloss"
)

// CheckDependencies exits with install instructions when the decode engine is missing.
func CheckDependencies(engine *player.MPV) {
	if !engine.Available() {
		printMissingDependencyError(engine.Binary)
		os.Exit(1)
	}
}

func installHint() string {
	switch runtime.GOOS {
	case constant.Darwin:
		return "brew install mpv"
	case constant.Linux:
		return "sudo apt install mpv"
	case constant.Windows:
		return "scoop install mpv"
	default:
		return ""
	}
}

func printMissingDependencyError(binary string) {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(style.HiRed).
		Padding(1, 2).
		Margin(1, 0)

	title := style.New().Bold(true).Foreground(style.HiRed).Render(fmt.Sprintf("%s mpv not found", icon.Get(icon.Fail)))
	body := style.New().Foreground(style.Text).Render(fmt.Sprintf("Audio is decoded by mpv, but '%s' is not in your PATH.\nSet %s to point at it.", binary, style.Bold("player.binary")))

	var suggestion string
	if hint := installHint(); hint != "" {
		suggestion = fmt.Sprintf("\nTo install it, try running:\n  %s", style.New().Foreground(style.AccentColor).Bold(true).Render(hint))
	}

	fmt.Println(box.Render(lipgloss.JoinVertical(lipgloss.Left, title, "", body, suggestion)))
}
