// Package prompter is the teleprompter core: it composes the settings,
// content buffer, scroll engine and input arbitrator around one persistence
// store and one notifier, and turns every failure into a notification.
//
// A Session is not safe for concurrent use. Callers dispatch input events
// and ticks one at a time, each running to completion.
package prompter

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/csheth/teleprompter/internal/content"
	"github.com/csheth/teleprompter/internal/input"
	"github.com/csheth/teleprompter/internal/notify"
	"github.com/csheth/teleprompter/internal/scroll"
	"github.com/csheth/teleprompter/internal/settings"
	"github.com/csheth/teleprompter/internal/storage"
)

// User-facing messages.
const (
	MsgEmptyContent      = "File is empty."
	MsgUnsupportedFormat = "Only text files are supported."
	MsgEditModeActive    = "Disable edit mode to start scrolling."
	MsgPlaceholder       = "Load some text before starting the teleprompter."
	MsgSettingsCleared   = "App settings cleared."
	MsgScriptCleared     = "Script cleared."
	MsgEditModeOn        = "Enabled. Spacebar and mouse will function normally."
	MsgEditModeOff       = "Disabled. Spacebar and mouse will pause/resume teleprompter scrolling."
)

// Options configures a Session.
type Options struct {
	Store     storage.Store
	Notifier  notify.Notifier
	Logger    *slog.Logger
	TickUnit  time.Duration
	ToggleKey string
}

// Timing describes the tick schedule after a speed change. When Restarted
// is set the driver must schedule one tick for Generation after Period;
// otherwise the tick already in flight is still current.
type Timing struct {
	Period     time.Duration
	Generation uint64
	Restarted  bool
}

type Session struct {
	store    storage.Store
	notifier notify.Notifier
	logger   *slog.Logger
	settings *settings.Store
	buffer   *content.Buffer
	engine   *scroll.Engine
	input    *input.Arbitrator
	detach   func()
	source   string
	closed   bool
}

// Open restores persisted settings and content and attaches the input
// arbitrator. Read failures are reported through the notifier and leave
// defaults in place.
func Open(opts Options) (*Session, error) {
	if opts.Store == nil {
		return nil, errors.New("prompter: store is required")
	}
	if opts.Notifier == nil {
		opts.Notifier = notify.Discard
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	s := &Session{
		store:    opts.Store,
		notifier: opts.Notifier,
		logger:   opts.Logger.With("component", "prompter"),
		input:    input.New(opts.ToggleKey),
	}

	prefs, err := settings.Open(opts.Store)
	if err != nil {
		s.fail("Could not read saved settings", err)
	}
	s.settings = prefs

	buffer, err := content.Restore(opts.Store)
	if err != nil {
		s.fail("Could not read the saved script", err)
	}
	s.buffer = buffer

	s.engine = scroll.New(prefs.Speed(), opts.TickUnit)
	s.detach = s.input.Attach(s)
	s.logger.Debug("session opened",
		"speed", prefs.Speed(),
		"text_size", prefs.TextSize(),
		"placeholder", buffer.Placeholder(),
		"period", s.engine.Period())
	return s, nil
}

// Close deregisters input handling and stops the tick schedule. It is safe
// to call more than once.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.detach()
	s.engine.Stop()
	s.logger.Debug("session closed")
}

// ToggleScroll implements input.Toggler.
func (s *Session) ToggleScroll() {
	s.Toggle()
}

// Toggle starts or stops scrolling. A refused start produces exactly one
// warning and changes nothing.
func (s *Session) Toggle() bool {
	if s.closed {
		return false
	}
	err := s.engine.Toggle(s.input.EditMode(), s.buffer.Placeholder())
	switch {
	case errors.Is(err, scroll.ErrEditMode):
		s.notifier.Notify(MsgEditModeActive, notify.CategoryWarning)
		return false
	case errors.Is(err, scroll.ErrPlaceholder):
		s.notifier.Notify(MsgPlaceholder, notify.CategoryWarning)
		return false
	}
	s.logger.Debug("scroll toggled", "active", s.engine.Active(), "offset", s.engine.Offset())
	return true
}

// ResetScroll stops scrolling and returns to the top.
func (s *Session) ResetScroll() {
	s.engine.Reset()
	s.logger.Debug("scroll reset")
}

// Paste loads pasted text. It never starts scrolling.
func (s *Session) Paste(text string) bool {
	if err := content.CheckText(text); err != nil {
		s.reportContentError("", err)
		return false
	}
	if !s.load(text, "") {
		return false
	}
	s.notifier.Notify(fmt.Sprintf("Pasted %s.", lineCount(s.buffer.Lines())), notify.CategoryLoaded)
	return true
}

// Drop loads a dropped file. It never starts scrolling. The source is kept
// as an absolute path so watcher events can be matched against it.
func (s *Session) Drop(path string) bool {
	path = absPath(path)
	text, err := content.ReadFile(path)
	if err != nil {
		s.reportContentError(path, err)
		return false
	}
	if !s.load(text, path) {
		return false
	}
	s.notifier.Notify(fmt.Sprintf("Loaded %s (%s).", filepath.Base(path), lineCount(s.buffer.Lines())), notify.CategoryLoaded)
	return true
}

// Reload re-reads the dropped file after an external edit. It keeps the
// offset and the scrolling state, like a manual edit.
func (s *Session) Reload(path string) bool {
	if path == "" || absPath(path) != s.source {
		return false
	}
	path = s.source
	text, err := content.ReadFile(path)
	if err != nil {
		s.reportContentError(path, err)
		return false
	}
	if err := s.buffer.Edit(text); err != nil {
		s.fail("Could not save the script", err)
	}
	s.logger.Debug("script reloaded", "path", path, "lines", s.buffer.Lines())
	return true
}

// Edit applies the full edited text without moving the viewport.
func (s *Session) Edit(text string) {
	if err := s.buffer.Edit(text); err != nil {
		s.fail("Could not save the script", err)
	}
}

// ResetContent restores the placeholder, stops scrolling and clears the
// persisted script.
func (s *Session) ResetContent() {
	s.engine.Reset()
	s.source = ""
	if err := s.buffer.Reset(); err != nil {
		s.fail("Could not clear the saved script", err)
		return
	}
	s.notifier.Notify(MsgScriptCleared, notify.CategorySuccess)
}

// ResetAll restores default settings and the placeholder, clears every
// persisted key and restarts the tick schedule at the default speed.
func (s *Session) ResetAll() Timing {
	s.engine.Reset()
	s.source = ""
	var failed error
	if err := s.settings.ResetAll(); err != nil {
		failed = err
	}
	if err := s.buffer.Reset(); err != nil && failed == nil {
		failed = err
	}
	if err := s.store.Delete(storage.AllKeys...); err != nil && failed == nil {
		failed = err
	}
	timing := s.reconfigure()
	if failed != nil {
		s.fail("Could not clear saved settings", failed)
		return timing
	}
	s.notifier.Notify(MsgSettingsCleared, notify.CategorySuccess)
	return timing
}

// SetSpeed clamps, persists and applies a new speed.
func (s *Session) SetSpeed(v int) Timing {
	if _, err := s.settings.SetSpeed(v); err != nil {
		s.fail("Could not save the speed", err)
	}
	return s.reconfigure()
}

// StepSpeed moves the speed by delta. A step past either end leaves the
// speed as it is and says so.
func (s *Session) StepSpeed(delta int) Timing {
	before := s.settings.Speed()
	timing := s.SetSpeed(before + delta)
	if delta != 0 && s.settings.Speed() == before {
		s.notifier.Notify(fmt.Sprintf("Speed is already at its %s (%d).", bound(delta > 0), before), notify.CategorySettings)
	}
	return timing
}

// SetTextSize clamps, persists and applies a new text size.
func (s *Session) SetTextSize(v float64) float64 {
	applied, err := s.settings.SetTextSize(v)
	if err != nil {
		s.fail("Could not save the text size", err)
	}
	return applied
}

// StepTextSize moves the text size by delta, with the same feedback at
// either end as StepSpeed.
func (s *Session) StepTextSize(delta float64) float64 {
	before := s.settings.TextSize()
	applied := s.SetTextSize(before + delta)
	if delta != 0 && applied == before {
		s.notifier.Notify(fmt.Sprintf("Text size is already at its %s (%s).", bound(delta > 0), settings.FormatTextSize(before)), notify.CategorySettings)
	}
	return applied
}

// SetEditMode switches edit mode and describes what the inputs now do. The
// scrolling state is left as it is.
func (s *Session) SetEditMode(on bool) {
	if !s.input.SetEditMode(on) {
		return
	}
	message := MsgEditModeOff
	if on {
		message = MsgEditModeOn
	}
	s.notifier.Notify(message, notify.CategoryEditMode)
	s.logger.Debug("edit mode changed", "on", on)
}

// KeyDown routes a key press through the arbitrator.
func (s *Session) KeyDown(key string) bool {
	return s.input.KeyDown(key)
}

// KeyUp clears the key's hold latch.
func (s *Session) KeyUp(key string) {
	s.input.KeyUp(key)
}

// Click routes a pointer press on the content through the arbitrator.
func (s *Session) Click(button input.Button) bool {
	return s.input.Click(button)
}

// Tick advances the viewport for a current-generation tick. It reports
// whether the driver should keep the schedule going.
func (s *Session) Tick(gen uint64) bool {
	return s.engine.Tick(gen)
}

// Timing returns the current tick schedule.
func (s *Session) Timing() Timing {
	return Timing{Period: s.engine.Period(), Generation: s.engine.Generation()}
}

// SetScrollLimit caps the offset at the last line that can be scrolled to.
func (s *Session) SetScrollLimit(limit int) {
	s.engine.SetLimit(limit)
}

// Seek moves the viewport manually.
func (s *Session) Seek(offset int) {
	s.engine.Seek(offset)
}

func (s *Session) Text() string              { return s.buffer.Text() }
func (s *Session) Placeholder() bool         { return s.buffer.Placeholder() }
func (s *Session) EditMode() bool            { return s.input.EditMode() }
func (s *Session) ToggleKey() string         { return s.input.ToggleKey() }
func (s *Session) State() scroll.State       { return s.engine.State() }
func (s *Session) Speed() int                { return s.settings.Speed() }
func (s *Session) TextSize() float64         { return s.settings.TextSize() }
func (s *Session) Period() time.Duration     { return s.engine.Period() }
func (s *Session) Source() string            { return s.source }
func (s *Session) Closed() bool              { return s.closed }
func (s *Session) Settings() *settings.Store { return s.settings }

func (s *Session) load(text, source string) bool {
	err := s.buffer.Load(text)
	if errors.Is(err, content.ErrEmptyContent) {
		s.notifier.Notify(MsgEmptyContent, notify.CategoryError)
		return false
	}
	s.engine.Reset()
	s.source = source
	s.logger.Debug("script loaded", "source", source, "lines", s.buffer.Lines())
	if err != nil {
		s.fail("Could not save the script", err)
	}
	return true
}

func (s *Session) reconfigure() Timing {
	before := s.engine.Generation()
	period, gen := s.engine.Reconfigure(s.settings.Speed())
	timing := Timing{Period: period, Generation: gen, Restarted: gen != before}
	if timing.Restarted {
		s.logger.Debug("tick schedule rebuilt", "speed", s.settings.Speed(), "period", period, "generation", gen)
	}
	return timing
}

func (s *Session) reportContentError(path string, err error) {
	switch {
	case errors.Is(err, content.ErrEmptyContent):
		s.notifier.Notify(MsgEmptyContent, notify.CategoryError)
	case content.IsUnsupported(err):
		s.notifier.Notify(MsgUnsupportedFormat, notify.CategoryError)
	default:
		s.fail(fmt.Sprintf("Could not read %s", filepath.Base(path)), err)
	}
	s.logger.Debug("content rejected", "path", path, "err", err)
}

func (s *Session) fail(what string, err error) {
	s.logger.Warn(what, "err", err)
	s.notifier.Notify(fmt.Sprintf("%s: %v", what, err), notify.CategoryError)
}

func bound(upper bool) string {
	if upper {
		return "maximum"
	}
	return "minimum"
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

func lineCount(n int) string {
	if n == 1 {
		return "1 line"
	}
	return fmt.Sprintf("%d lines", n)
}
