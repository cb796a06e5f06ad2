package tui

import (
	"fmt"
	"time"

	"github.com/bilisonic/bilisonic/constant"
	"github.com/bilisonic/bilisonic/internal/ui"
	"github.com/bilisonic/bilisonic/key"
	"github.com/bilisonic/bilisonic/log"
	"github.com/bilisonic/bilisonic/player"
	"github.com/bilisonic/bilisonic/session"
	"github.com/bilisonic/bilisonic/source"
	"github.com/bilisonic/bilisonic/style"
	"github.com/bilisonic/bilisonic/util"
	"github.com/charmbracelet/bubbles/help"
	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// nowPlaying is what the front end knows about the current play attempt.
type nowPlaying struct {
	index  int
	track  *source.Track
	stream *source.Stream
	// resolving is true until the session accepted the stream.
	resolving bool
	paused    bool
	// toggling and polling are set while a pause or status request is in flight.
	toggling bool
	polling  bool
	state    session.State
	elapsed  time.Duration
	metadata mo.Option[*player.Metadata]
}

// statefulBubble encapsulates the comprehensive application state, including component models and workflow tracking.
type statefulBubble struct {
	state         state
	statesHistory util.Stack[state]

	keymap *statefulKeymap

	// components
	spinnerC  spinner.Model
	tracksC   list.Model
	historyC  list.Model
	progressC progress.Model
	helpC     help.Model

	resolver source.Resolver
	player   Player
	log      logrus.FieldLogger

	// gen identifies the latest play request. Results of older requests are dropped.
	gen     uint64
	playing mo.Option[*nowPlaying]

	lastError error

	width, height int
	notifier      *ui.Model

	options *Options
}

// raiseError dispatches a terminal error and transitions the application to the failure view.
func (b *statefulBubble) raiseError(err error) {
	b.lastError = err
	b.newState(errorState)
}

// setState performs a synchronous transition of both the application workflow and its associated keymap.
func (b *statefulBubble) setState(s state) {
	b.state = s
	b.keymap.setState(s)
}

// newState transitions to s, recording the previous state for back navigation.
func (b *statefulBubble) newState(s state) {
	if b.state == s {
		return
	}

	b.statesHistory.Push(b.state)
	b.setState(s)
}

// previousState restores the application to its immediate predecessor in the navigation stack.
func (b *statefulBubble) previousState() {
	if b.statesHistory.Len() > 0 {
		b.setState(b.statesHistory.Pop())
	}
}

// resize propagates terminal dimension changes to all child component models.
func (b *statefulBubble) resize(width, height int) {
	x, y := paddingStyle.GetFrameSize()
	xx, yy := listExtraPaddingStyle.GetFrameSize()

	listWidth := width - xx
	listHeight := height - yy - nowPlayingHeight

	b.tracksC.SetSize(listWidth, listHeight)
	b.tracksC.Help.Width = listWidth

	b.historyC.SetSize(listWidth, listHeight)
	b.historyC.Help.Width = listWidth

	b.progressC.Width = util.Max(listWidth-20, 10)

	b.width = width - x
	b.height = height - y
	b.helpC.Width = listWidth
}

// newBubble performs a complete initialization of the application's primary UI model.
func newBubble(options *Options) *statefulBubble {
	keymap := newStatefulKeymap()
	bubble := statefulBubble{
		statesHistory: util.Stack[state]{},
		keymap:        keymap,
		resolver:      options.Resolver,
		player:        options.Player,
		log:           log.For("tui"),
		playing:       mo.None[*nowPlaying](),
		notifier:      &ui.Model{},
		options:       options,
	}

	makeList := func(title string, titleColor lipgloss.Color) list.Model {
		delegate := list.NewDefaultDelegate()
		delegate.SetSpacing(viper.GetInt(key.TUIItemSpacing))
		delegate.ShowDescription = viper.GetBool(key.TUIShowBVID)
		delegate.Styles.SelectedTitle = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder(), false, false, false, true).
			BorderForeground(style.AccentColor).
			Foreground(style.AccentColor).
			Padding(0, 0, 0, 1)
		delegate.Styles.NormalTitle = delegate.Styles.NormalTitle.Foreground(lipgloss.Color("7"))
		delegate.Styles.SelectedDesc = delegate.Styles.SelectedTitle

		listC := list.New([]list.Item{}, delegate, 0, 0)
		listC.KeyMap = bubble.keymap.forList()
		listC.AdditionalShortHelpKeys = bubble.keymap.ShortHelp
		listC.AdditionalFullHelpKeys = func() []bubblesKey.Binding {
			return bubble.keymap.FullHelp()[0]
		}
		listC.Filter = fuzzyFilter
		listC.Title = title
		listC.Styles.NoItems = paddingStyle
		listC.Styles.Title = lipgloss.NewStyle().Foreground(style.Base).Background(titleColor).Padding(0, 1)
		listC.StatusMessageLifetime = time.Hour * 999
		listC.SetShowPagination(false)
		listC.SetShowStatusBar(false)

		return listC
	}

	bubble.helpC = help.New()

	bubble.spinnerC = spinner.New()
	bubble.spinnerC.Spinner = spinner.Dot
	bubble.spinnerC.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	bubble.progressC = progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())

	title := options.Title
	if title == "" {
		title = "Playlist"
	}
	bubble.tracksC = makeList(fmt.Sprintf("%s (%s v%s)", title, constant.App, constant.Version), style.AccentColor)
	bubble.tracksC.SetStatusBarItemName("track", "tracks")
	bubble.tracksC.SetItems(lo.Map(options.Tracks, func(t *source.Track, i int) list.Item {
		return &listItem{internal: t, index: i}
	}))

	bubble.historyC = makeList("Recently Played", style.Yellow)
	bubble.historyC.SetStatusBarItemName("entry", "entries")

	if w, h, err := util.TerminalSize(); err == nil {
		bubble.resize(w, h)
	}

	bubble.setState(tracksState)

	return &bubble
}
