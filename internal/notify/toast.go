package notify

import (
	"time"

	"github.com/google/uuid"
)

const DefaultToastDuration = 3 * time.Second

// Toast holds the notification currently on screen. A newer notification
// replaces the older one; each carries its own id so an expiry scheduled for
// a replaced toast does not hide its successor.
type Toast struct {
	current  Notification
	id       string
	shownAt  time.Time
	duration time.Duration
	pending  bool
	now      func() time.Time
}

// NewToast returns a toast controller that hides messages after duration.
func NewToast(duration time.Duration) *Toast {
	if duration <= 0 {
		duration = DefaultToastDuration
	}
	return &Toast{duration: duration, now: time.Now}
}

// Notify implements Notifier.
func (t *Toast) Notify(message, category string) {
	t.current = Notification{Message: message, Category: category}
	t.id = uuid.New().String()
	t.shownAt = t.now()
	t.pending = true
}

// Expiry reports the id of a toast whose hide timer has not been scheduled
// yet. The caller schedules a timer for Duration and passes the id back to
// Expire when it fires.
func (t *Toast) Expiry() (string, bool) {
	if !t.pending {
		return "", false
	}
	t.pending = false
	return t.id, true
}

// Expire hides the toast if id still names the visible one.
func (t *Toast) Expire(id string) bool {
	if id == "" || id != t.id {
		return false
	}
	t.Clear()
	return true
}

// Clear hides the current toast.
func (t *Toast) Clear() {
	t.current = Notification{}
	t.id = ""
	t.pending = false
}

// Current returns the visible notification.
func (t *Toast) Current() (Notification, bool) {
	if t.id == "" {
		return Notification{}, false
	}
	return t.current, true
}

// Duration is how long a toast stays visible.
func (t *Toast) Duration() time.Duration {
	return t.duration
}

// Age reports how long the current toast has been visible.
func (t *Toast) Age() time.Duration {
	if t.id == "" {
		return 0
	}
	return t.now().Sub(t.shownAt)
}
