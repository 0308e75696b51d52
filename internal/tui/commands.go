package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/teleprompter/internal/prompter"
	"github.com/csheth/teleprompter/internal/watch"
)

// ClipboardReader returns the clipboard's text content.
type ClipboardReader func() (string, error)

var errClipboardTimeout = errors.New("clipboard did not answer in time")

func readClipboardJob(read ClipboardReader) jobRunner {
	return func(ctx context.Context) (tea.Msg, error) {
		type result struct {
			text string
			err  error
		}
		done := make(chan result, 1)
		go func() {
			text, err := read()
			done <- result{text: text, err: err}
		}()
		select {
		case <-ctx.Done():
			return clipboardResultMsg{err: errClipboardTimeout}, errClipboardTimeout
		case r := <-done:
			if r.err != nil {
				err := fmt.Errorf("read clipboard: %w", r.err)
				return clipboardResultMsg{err: err}, err
			}
			return clipboardResultMsg{text: r.text}, nil
		}
	}
}

func scheduleTick(period time.Duration, gen uint64) tea.Cmd {
	return tea.Tick(period, func(time.Time) tea.Msg {
		return scrollTickMsg{gen: gen}
	})
}

// rescheduleTick starts the tick chain of a new generation. It returns nil
// when the speed did not change, so the running chain is not doubled.
func rescheduleTick(timing prompter.Timing) tea.Cmd {
	if !timing.Restarted {
		return nil
	}
	return scheduleTick(timing.Period, timing.Generation)
}

func scheduleReleaseCheck(window time.Duration, key string, seq uint64) tea.Cmd {
	return tea.Tick(window, func(time.Time) tea.Msg {
		return releaseCheckMsg{key: key, seq: seq}
	})
}

func scheduleToastExpiry(after time.Duration, id string) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}

// waitForWatch blocks until the watcher reports something. It returns nil
// once the watcher is closed.
func waitForWatch(w *watch.Watcher, gen uint64) tea.Cmd {
	if w == nil {
		return nil
	}
	events, errs := w.Events(), w.Errors()
	return func() tea.Msg {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			return watchEventMsg{gen: gen, event: ev}
		case err, ok := <-errs:
			if !ok {
				return nil
			}
			return watchErrMsg{gen: gen, err: err}
		}
	}
}
