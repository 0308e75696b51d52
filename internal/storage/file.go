package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

const (
	defaultLockTimeout = 2 * time.Second
	lockRetryDelay     = 50 * time.Millisecond
	lockSuffix         = ".lock"
	tempSuffix         = ".tmp"
)

// File persists keys as a single JSON object. Writes take an exclusive lock
// on a sibling lock file, re-read the current contents and replace the file
// atomically, so concurrent prompters never drop each other's keys.
type File struct {
	path        string
	lockTimeout time.Duration
	logger      *slog.Logger
}

// NewFile returns a store backed by path. The parent directory is created on
// first write.
func NewFile(path string, logger *slog.Logger) *File {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &File{
		path:        path,
		lockTimeout: defaultLockTimeout,
		logger:      logger.With("component", "storage"),
	}
}

// Path reports the backing file.
func (f *File) Path() string {
	return f.path
}

func (f *File) Get(key string) (string, bool, error) {
	entries, err := f.load()
	if err != nil {
		return "", false, err
	}
	value, ok := entries[key]
	return value, ok, nil
}

func (f *File) Set(key, value string) error {
	return f.mutate(func(entries map[string]string) bool {
		if current, ok := entries[key]; ok && current == value {
			return false
		}
		entries[key] = value
		return true
	})
}

func (f *File) Delete(keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return f.mutate(func(entries map[string]string) bool {
		changed := false
		for _, key := range keys {
			if _, ok := entries[key]; ok {
				delete(entries, key)
				changed = true
			}
		}
		return changed
	})
}

func (f *File) mutate(apply func(map[string]string) bool) error {
	return f.withLock(func() error {
		entries, err := f.load()
		if err != nil {
			return err
		}
		if !apply(entries) {
			return nil
		}
		return f.write(entries)
	})
}

func (f *File) withLock(fn func() error) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("storage: create state dir: %w", err)
	}
	lock := flock.New(f.path + lockSuffix)
	ctx, cancel := context.WithTimeout(context.Background(), f.lockTimeout)
	defer cancel()

	locked, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w (waited %s)", ErrLocked, f.lockTimeout)
		}
		return fmt.Errorf("storage: acquire lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("%w (waited %s)", ErrLocked, f.lockTimeout)
	}
	defer func() {
		if unlockErr := lock.Unlock(); unlockErr != nil {
			f.logger.Warn("release state lock", "path", f.path, "err", unlockErr)
		}
	}()
	return fn()
}

func (f *File) load() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("storage: read %s: %w", f.path, err)
	}
	entries := map[string]string{}
	if len(bytes.TrimSpace(data)) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("storage: decode %s: %w", f.path, err)
	}
	return entries, nil
}

func (f *File) write(entries map[string]string) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("storage: encode state: %w", err)
	}
	tmp := f.path + tempSuffix
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("storage: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("storage: replace %s: %w", f.path, err)
	}
	f.logger.Debug("state written", "path", f.path, "keys", len(entries))
	return nil
}
