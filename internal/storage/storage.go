package storage

import (
	"errors"
	"os"
	"path/filepath"
)

// Keys written by the prompter. Values are always strings.
const (
	KeySpeed    = "speed"
	KeyFontSize = "fontSize"
	KeyText     = "teleprompterText"
)

// AllKeys lists every key owned by the prompter, in the order resetAll removes them.
var AllKeys = []string{KeySpeed, KeyFontSize, KeyText}

const stateEnvVar = "TELEPROMPTER_STATE"

// ErrLocked is returned when the state file lock cannot be acquired in time.
var ErrLocked = errors.New("storage: state file is locked")

// Store is a flat string key/value store. Absence of a key is reported by
// the second return value of Get, never by an error.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(keys ...string) error
}

// DefaultPath returns the state file location, honouring TELEPROMPTER_STATE.
func DefaultPath() string {
	if path := os.Getenv(stateEnvVar); path != "" {
		return path
	}
	base, err := os.UserConfigDir()
	if err != nil {
		base = filepath.Join(os.TempDir(), "teleprompter-state")
	}
	return filepath.Join(base, "teleprompter", "state.json")
}
