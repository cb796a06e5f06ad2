package tui

import (
	"fmt"
	"sort"

	"github.com/bilisonic/bilisonic/history"
	"github.com/bilisonic/bilisonic/icon"
	"github.com/bilisonic/bilisonic/source"
	"github.com/bilisonic/bilisonic/style"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
)

// listItem implements the list.Item interface, wrapping domain models for terminal display.
type listItem struct {
	internal interface{}
	// index is the position in the playlist for tracks.
	index  int
	marked bool
}

func (t *listItem) getMark() string {
	return lipgloss.NewStyle().Bold(true).Foreground(style.AccentColor).Render(icon.Get(icon.Play))
}

// Title retrieves the primary display text for the list item.
func (t *listItem) Title() (title string) {
	title = t.FilterValue()

	if title != "" && t.marked {
		title = fmt.Sprintf("%s %s", title, t.getMark())
	}

	return
}

// Description retrieves the secondary text for the list item.
func (t *listItem) Description() (description string) {
	switch e := t.internal.(type) {
	case *source.Track:
		description = e.BVID
		if e.Page > 1 {
			description += style.Faint(fmt.Sprintf(" p%d", e.Page))
		}
	case *history.Entry:
		var status string
		if e.Finished {
			status = lipgloss.NewStyle().Foreground(style.Green).Render("finished")
		} else {
			status = lipgloss.NewStyle().Foreground(style.Yellow).Render("stopped")
		}
		description = fmt.Sprintf("%s • played %dx • %s • %s", e.BVID, e.Plays, e.LastPlayed.Format("2006-01-02 15:04"), status)
	}

	return
}

// FilterValue returns the string used for real-time list filtering and searching.
func (t *listItem) FilterValue() string {
	switch e := t.internal.(type) {
	case *source.Track:
		return e.String()
	case *history.Entry:
		return e.Title
	case string:
		return e
	default:
		return ""
	}
}

// fuzzyFilter ranks list items by fuzzy title match.
func fuzzyFilter(term string, targets []string) []list.Rank {
	ranks := fuzzy.RankFindNormalizedFold(term, targets)
	sort.Stable(ranks)

	return lo.Map(ranks, func(r fuzzy.Rank, _ int) list.Rank {
		return list.Rank{Index: r.OriginalIndex}
	})
}
