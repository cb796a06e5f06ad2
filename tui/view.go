package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/bilisonic/bilisonic/color"
	"github.com/bilisonic/bilisonic/icon"
	"github.com/bilisonic/bilisonic/session"
	"github.com/bilisonic/bilisonic/style"
	"github.com/bilisonic/bilisonic/util"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wrap"
)

// nowPlayingHeight is the number of lines the now-playing pane takes.
const nowPlayingHeight = 4

var (
	listExtraPaddingStyle = lipgloss.NewStyle().Padding(1, 2, 1, 0)
	paddingStyle          = lipgloss.NewStyle().Padding(1, 2)
	nowPlayingStyle       = lipgloss.NewStyle().Padding(0, 2)
)

func (b *statefulBubble) View() string {
	var output string

	switch b.state {
	case tracksState:
		output = b.viewTracks()
	case historyState:
		output = listExtraPaddingStyle.Render(b.historyC.View())
	case errorState:
		output = b.viewError()
	default:
		output = "Unknown state"
	}

	return b.notifier.View(output)
}

func (b *statefulBubble) viewTracks() string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		listExtraPaddingStyle.Render(b.tracksC.View()),
		nowPlayingStyle.Render(b.viewNowPlaying()),
	)
}

// viewNowPlaying renders the title, status, elapsed time and progress of the current track.
func (b *statefulBubble) viewNowPlaying() string {
	np, ok := b.playing.Get()
	if !ok {
		return strings.Join([]string{
			style.Faint(icon.Get(icon.Stop) + " Stopped"),
			"",
			"",
		}, "\n")
	}

	title := np.track.String()
	if md, ok := np.metadata.Get(); ok && np.track.Title == "" && md.Title != "" {
		title = md.Title
	}
	title = truncate.StringWithTail(title, uint(util.Max(b.width-4, 1)), "…")

	var status string
	switch {
	case np.resolving:
		status = b.spinnerC.View() + " Resolving"
	case np.state == session.Loading:
		status = b.spinnerC.View() + " Loading"
	case np.paused:
		status = style.Fg(color.Yellow)(icon.Get(icon.Pause) + " Paused")
	default:
		status = style.Fg(color.Green)(icon.Get(icon.Play) + " Playing")
	}

	if np.stream != nil {
		status += style.Faint(fmt.Sprintf("  %s %s", np.stream.Kind, np.stream.Quality))
	}

	progressLine := util.FormatDuration(np.elapsed)
	if md, ok := np.metadata.Get(); ok && md.Duration > 0 {
		total := time.Duration(md.Duration * float64(time.Second))
		ratio := float64(np.elapsed) / float64(total)
		progressLine = fmt.Sprintf("%s %s / %s", b.progressC.ViewAs(util.Min(ratio, 1)), util.FormatDuration(np.elapsed), util.FormatDuration(total))
	}

	return strings.Join([]string{
		style.Fg(color.Purple)(icon.Get(icon.Track) + " " + title),
		status,
		progressLine,
	}, "\n")
}

func (b *statefulBubble) viewError() string {
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	errorMsg := wrap.String(errorStyle.Render(b.lastError.Error()), b.width)
	return b.renderLines(
		true,
		[]string{
			style.ErrorTitle("Error"),
			"",
			icon.Get(icon.Fail) + " An error occurred:",
			"",
			errorMsg,
		},
	)
}

func (b *statefulBubble) renderLines(addHelp bool, lines []string) string {
	h := len(lines)
	l := strings.Join(lines, "\n")
	if addHelp {
		if b.height > h {
			l += strings.Repeat("\n", b.height-h)
		}
		l += b.helpC.View(b.keymap)
	}

	return paddingStyle.Render(l)
}
