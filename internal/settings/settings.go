// Package settings holds the prompter's speed and text size. Both values are
// clamped to their domains before they reach storage, so a programmatic
// caller cannot persist an out-of-range value.
package settings

import (
	"fmt"
	"math"
	"strconv"

	"github.com/csheth/teleprompter/internal/storage"
)

// Key names a setting.
type Key string

const (
	Speed    Key = storage.KeySpeed
	TextSize Key = storage.KeyFontSize
)

// Domains and defaults.
const (
	DefaultSpeed    = 50
	MinSpeed        = 1
	MaxSpeed        = 100
	DefaultTextSize = 16.0
	MinTextSize     = 10.0
	MaxTextSize     = 40.0
	TextSizeStep    = 0.5
)

// Store keeps the current values in memory and writes through to the
// persistence boundary on every change.
type Store struct {
	backend  storage.Store
	speed    int
	textSize float64
}

// Open reads persisted values, falling back to defaults for missing or
// unparsable entries. A read error leaves the defaults in place and is
// returned so the caller can surface it.
func Open(backend storage.Store) (*Store, error) {
	s := &Store{backend: backend, speed: DefaultSpeed, textSize: DefaultTextSize}
	var firstErr error
	if raw, ok, err := backend.Get(string(Speed)); err != nil {
		firstErr = fmt.Errorf("settings: read speed: %w", err)
	} else if ok {
		if v, parsed := parse(raw); parsed {
			s.speed = ClampSpeed(v)
		}
	}
	if raw, ok, err := backend.Get(string(TextSize)); err != nil {
		if firstErr == nil {
			firstErr = fmt.Errorf("settings: read text size: %w", err)
		}
	} else if ok {
		if v, parsed := parse(raw); parsed {
			s.textSize = ClampTextSize(v)
		}
	}
	return s, firstErr
}

// Get returns the current value of key, or its default for unknown keys.
func (s *Store) Get(key Key) float64 {
	switch key {
	case Speed:
		return float64(s.speed)
	case TextSize:
		return s.textSize
	default:
		return Default(key)
	}
}

// Set clamps value into the key's domain, applies it and persists it. The
// applied value is returned even when persisting fails.
func (s *Store) Set(key Key, value float64) (float64, error) {
	switch key {
	case Speed:
		v, err := s.SetSpeed(ClampSpeed(value))
		return float64(v), err
	case TextSize:
		return s.SetTextSize(value)
	default:
		return 0, fmt.Errorf("settings: unknown key %q", key)
	}
}

func (s *Store) Speed() int {
	return s.speed
}

func (s *Store) TextSize() float64 {
	return s.textSize
}

func (s *Store) SetSpeed(v int) (int, error) {
	s.speed = ClampSpeed(float64(v))
	if err := s.backend.Set(string(Speed), strconv.Itoa(s.speed)); err != nil {
		return s.speed, fmt.Errorf("settings: persist speed: %w", err)
	}
	return s.speed, nil
}

func (s *Store) SetTextSize(v float64) (float64, error) {
	s.textSize = ClampTextSize(v)
	if err := s.backend.Set(string(TextSize), FormatTextSize(s.textSize)); err != nil {
		return s.textSize, fmt.Errorf("settings: persist text size: %w", err)
	}
	return s.textSize, nil
}

// StepSpeed moves the speed by delta.
func (s *Store) StepSpeed(delta int) (int, error) {
	return s.SetSpeed(s.speed + delta)
}

// StepTextSize moves the text size by delta.
func (s *Store) StepTextSize(delta float64) (float64, error) {
	return s.SetTextSize(s.textSize + delta)
}

// ResetAll restores both defaults and removes the persisted entries.
func (s *Store) ResetAll() error {
	s.speed = DefaultSpeed
	s.textSize = DefaultTextSize
	if err := s.backend.Delete(string(Speed), string(TextSize)); err != nil {
		return fmt.Errorf("settings: clear: %w", err)
	}
	return nil
}

// Default returns the documented default for key.
func Default(key Key) float64 {
	switch key {
	case Speed:
		return DefaultSpeed
	case TextSize:
		return DefaultTextSize
	default:
		return 0
	}
}

// ClampSpeed rounds v and forces it into [MinSpeed, MaxSpeed].
func ClampSpeed(v float64) int {
	if math.IsNaN(v) {
		return DefaultSpeed
	}
	r := math.Round(v)
	switch {
	case r < MinSpeed:
		return MinSpeed
	case r > MaxSpeed:
		return MaxSpeed
	default:
		return int(r)
	}
}

// ClampTextSize snaps v to the 0.5 grid and forces it into [MinTextSize, MaxTextSize].
func ClampTextSize(v float64) float64 {
	if math.IsNaN(v) {
		return DefaultTextSize
	}
	snapped := math.Round(v/TextSizeStep) * TextSizeStep
	return math.Min(MaxTextSize, math.Max(MinTextSize, snapped))
}

// FormatTextSize renders a size the way it is persisted ("16", "22.5").
func FormatTextSize(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func parse(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
