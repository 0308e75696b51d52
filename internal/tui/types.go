package tui

import "github.com/csheth/teleprompter/internal/watch"

type stage int

const (
	stagePrompt stage = iota
	stageEdit
	stageOpen
	stageHelp
)

const (
	minBodyWidth  = 20
	minBodyHeight = 3
	minWrapWidth  = 12
	headerHeight  = 1
	statusHeight  = 1
	footerHeight  = 1
	toastHeight   = 3
	wheelStep     = 3
)

const aboutText = "Your script and settings never leave this machine. They are kept in a local state file and can be cleared with R."

// scrollTickMsg fires once per tick period. Ticks carry the generation they
// were scheduled for so that a speed change retires the old schedule.
type scrollTickMsg struct {
	gen uint64
}

// releaseCheckMsg asks whether a toggle key has stopped repeating.
type releaseCheckMsg struct {
	key string
	seq uint64
}

type toastExpiredMsg struct {
	id string
}

type clipboardResultMsg struct {
	text string
	err  error
}

type watchEventMsg struct {
	gen   uint64
	event watch.Event
}

type watchErrMsg struct {
	gen uint64
	err error
}
