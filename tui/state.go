package tui

type state int

const (
	tracksState state = iota
	historyState
	errorState
)
