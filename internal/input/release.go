package input

import "time"

// DefaultReleaseWindow exceeds the initial auto-repeat delay of common
// keyboard settings, so a held key keeps refreshing its press before the
// window runs out.
const DefaultReleaseWindow = 650 * time.Millisecond

// ReleaseTimer infers key releases on terminals, which only report presses.
// Every press or repeat gets a sequence number; when the window elapses
// without a newer press, the key counts as released.
type ReleaseTimer struct {
	window time.Duration
	seq    map[string]uint64
}

func NewReleaseTimer(window time.Duration) *ReleaseTimer {
	if window <= 0 {
		window = DefaultReleaseWindow
	}
	return &ReleaseTimer{window: window, seq: map[string]uint64{}}
}

// Window is how long to wait before checking for a release.
func (r *ReleaseTimer) Window() time.Duration {
	return r.window
}

// Press records a press or repeat of key and returns its sequence number.
func (r *ReleaseTimer) Press(key string) uint64 {
	r.seq[key]++
	return r.seq[key]
}

// Released reports whether the press numbered seq was the last one seen for
// key, meaning no repeat arrived within the window.
func (r *ReleaseTimer) Released(key string, seq uint64) bool {
	current, ok := r.seq[key]
	return ok && current == seq
}
