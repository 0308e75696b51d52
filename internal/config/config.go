// Package config reads the optional teleprompter.toml file. Every field is a
// pointer so an absent key falls back to its default through the Get*
// accessors.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/csheth/teleprompter/internal/input"
	"github.com/csheth/teleprompter/internal/notify"
	"github.com/csheth/teleprompter/internal/scroll"
	"github.com/csheth/teleprompter/internal/storage"
)

const fileName = "config.toml"

type Config struct {
	StatePath           *string `toml:"state_path,omitempty"`
	TickUnitMS          *int    `toml:"tick_unit_ms,omitempty"`
	KeyReleaseMS        *int    `toml:"key_release_ms,omitempty"`
	NotificationSeconds *int    `toml:"notification_seconds,omitempty"`
	ToggleKey           *string `toml:"toggle_key,omitempty"`
	Watch               *bool   `toml:"watch,omitempty"`
	Mouse               *bool   `toml:"mouse,omitempty"`
}

// DefaultPath returns $XDG_CONFIG_HOME/teleprompter/config.toml, or an empty
// string when no config directory is known.
func DefaultPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, "teleprompter", fileName)
}

// Load decodes path. A missing file yields an empty config.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path == "" {
		return cfg, nil
	}
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("parsing %s: unknown key %q", path, undecoded[0].String())
	}
	return cfg, nil
}

func (c *Config) GetStatePath() string {
	if c == nil || c.StatePath == nil || *c.StatePath == "" {
		return storage.DefaultPath()
	}
	return *c.StatePath
}

func (c *Config) GetTickUnit() time.Duration {
	if c == nil || c.TickUnitMS == nil || *c.TickUnitMS <= 0 {
		return scroll.DefaultUnit
	}
	return time.Duration(*c.TickUnitMS) * time.Millisecond
}

func (c *Config) GetKeyReleaseWindow() time.Duration {
	if c == nil || c.KeyReleaseMS == nil || *c.KeyReleaseMS <= 0 {
		return input.DefaultReleaseWindow
	}
	return time.Duration(*c.KeyReleaseMS) * time.Millisecond
}

func (c *Config) GetNotificationDuration() time.Duration {
	if c == nil || c.NotificationSeconds == nil || *c.NotificationSeconds <= 0 {
		return notify.DefaultToastDuration
	}
	return time.Duration(*c.NotificationSeconds) * time.Second
}

func (c *Config) GetToggleKey() string {
	if c == nil || c.ToggleKey == nil || *c.ToggleKey == "" {
		return input.DefaultToggleKey
	}
	return *c.ToggleKey
}

func (c *Config) GetWatch() bool {
	if c == nil || c.Watch == nil {
		return false
	}
	return *c.Watch
}

func (c *Config) GetMouse() bool {
	if c == nil || c.Mouse == nil {
		return true
	}
	return *c.Mouse
}
