// Package scroll drives the prompter viewport. The engine itself never
// sleeps: a driver schedules one tick per period and hands each tick's
// generation back to Tick. Reconfiguring bumps the generation, so the tick
// that was in flight for the old period is discarded instead of doubling up
// with the first tick of the new one.
package scroll

import (
	"errors"
	"time"
)

// DefaultUnit is the period contributed by each step of speed below the
// maximum. One line per tick at speed 50 then takes about one second.
const DefaultUnit = 20 * time.Millisecond

const (
	minSpeed = 1
	maxSpeed = 100
)

var (
	// ErrEditMode rejects starting to scroll while the text is being edited.
	ErrEditMode = errors.New("scroll: edit mode is on")
	// ErrPlaceholder rejects starting to scroll the placeholder caption.
	ErrPlaceholder = errors.New("scroll: nothing to scroll")
)

// State is the engine's observable state.
type State struct {
	Active bool
	Offset int
}

// Engine is the scroll state machine: Idle or Scrolling, plus the viewport
// offset in lines.
type Engine struct {
	unit       time.Duration
	speed      int
	period     time.Duration
	generation uint64
	active     bool
	offset     int
	limit      int
	stopped    bool
}

// New returns an idle engine configured for speed. A non-positive unit
// falls back to DefaultUnit.
func New(speed int, unit time.Duration) *Engine {
	if unit <= 0 {
		unit = DefaultUnit
	}
	e := &Engine{unit: unit, limit: -1}
	e.Reconfigure(speed)
	return e
}

// Period maps a speed to a tick period. Higher speeds give strictly shorter
// periods and the result is always positive.
func Period(speed int, unit time.Duration) time.Duration {
	if unit <= 0 {
		unit = DefaultUnit
	}
	return unit * time.Duration(maxSpeed+1-clampSpeed(speed))
}

// Reconfigure applies a new speed and starts a new tick generation. The
// caller must schedule a tick for the returned generation; ticks of earlier
// generations are ignored. Active state and offset are preserved. A speed
// that clamps to the current one keeps the generation, so the in-flight tick
// stays valid and nothing new needs scheduling.
func (e *Engine) Reconfigure(speed int) (time.Duration, uint64) {
	speed = clampSpeed(speed)
	if e.generation > 0 && speed == e.speed {
		return e.period, e.generation
	}
	e.speed = speed
	e.period = Period(e.speed, e.unit)
	e.generation++
	return e.period, e.generation
}

// Toggle flips between Idle and Scrolling. Starting is refused while
// editing, and while the buffer holds the placeholder; stopping is always
// allowed outside edit mode.
func (e *Engine) Toggle(editing, placeholder bool) error {
	if editing {
		return ErrEditMode
	}
	if placeholder && !e.active {
		return ErrPlaceholder
	}
	e.active = !e.active
	return nil
}

// Pause forces Idle without moving the offset.
func (e *Engine) Pause() {
	e.active = false
}

// Reset forces Idle at offset zero.
func (e *Engine) Reset() {
	e.active = false
	e.offset = 0
}

// Tick advances the offset by one line if gen is current and the engine is
// scrolling. It reports whether gen is current, i.e. whether the driver
// should schedule the next tick.
func (e *Engine) Tick(gen uint64) bool {
	if e.stopped || gen != e.generation {
		return false
	}
	if e.active && (e.limit < 0 || e.offset < e.limit) {
		e.offset++
	}
	return true
}

// SetLimit caps the offset; a negative limit removes the cap.
func (e *Engine) SetLimit(limit int) {
	e.limit = limit
	if limit >= 0 && e.offset > limit {
		e.offset = limit
	}
}

// Seek moves the offset manually, clamped to [0, limit].
func (e *Engine) Seek(offset int) {
	if offset < 0 {
		offset = 0
	}
	if e.limit >= 0 && offset > e.limit {
		offset = e.limit
	}
	e.offset = offset
}

// Stop tears the engine down. Every later tick is ignored.
func (e *Engine) Stop() {
	e.stopped = true
	e.active = false
	e.generation++
}

func (e *Engine) State() State {
	return State{Active: e.active, Offset: e.offset}
}

func (e *Engine) Active() bool          { return e.active }
func (e *Engine) Offset() int           { return e.offset }
func (e *Engine) Limit() int            { return e.limit }
func (e *Engine) Speed() int            { return e.speed }
func (e *Engine) Period() time.Duration { return e.period }
func (e *Engine) Generation() uint64    { return e.generation }
func (e *Engine) Stopped() bool         { return e.stopped }
func (e *Engine) Unit() time.Duration   { return e.unit }

func clampSpeed(speed int) int {
	switch {
	case speed < minSpeed:
		return minSpeed
	case speed > maxSpeed:
		return maxSpeed
	default:
		return speed
	}
}
