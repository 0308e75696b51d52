package storage

import "sync"

// Memory is an in-process Store. Setting Err makes every call fail with it,
// which lets callers exercise their persistence failure paths.
type Memory struct {
	mu      sync.Mutex
	entries map[string]string
	writes  int
	Err     error
}

// NewMemory returns a store pre-populated with seed.
func NewMemory(seed map[string]string) *Memory {
	entries := make(map[string]string, len(seed))
	for k, v := range seed {
		entries[k] = v
	}
	return &Memory{entries: entries}
}

func (m *Memory) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return "", false, m.Err
	}
	value, ok := m.entries[key]
	return value, ok, nil
}

func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.entries[key] = value
	m.writes++
	return nil
}

func (m *Memory) Delete(keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	for _, key := range keys {
		delete(m.entries, key)
	}
	m.writes++
	return nil
}

// Writes counts successful Set and Delete calls.
func (m *Memory) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// Snapshot returns a copy of the stored entries.
func (m *Memory) Snapshot() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]string, len(m.entries))
	for k, v := range m.entries {
		out[k] = v
	}
	return out
}
