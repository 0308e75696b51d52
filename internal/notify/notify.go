// Package notify carries transient user feedback from the prompter core to
// whatever surface renders it. The category string doubles as the severity
// signal: renderers match it case-insensitively against "error" and
// "warning", anything else is informational.
package notify

import "strings"

// Categories used by the core.
const (
	CategoryError    = "Error"
	CategoryWarning  = "Warning"
	CategorySuccess  = "Success"
	CategoryEditMode = "Edit mode"
	CategorySettings = "Settings"
	CategoryLoaded   = "Loaded"
)

// Notifier receives (message, category) pairs. Calls are fire-and-forget.
type Notifier interface {
	Notify(message, category string)
}

// Func adapts a function to Notifier.
type Func func(message, category string)

func (f Func) Notify(message, category string) { f(message, category) }

// Discard drops every notification.
var Discard Notifier = Func(func(string, string) {})

// Severity is the visual class a renderer picks for a category.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "info"
	}
}

// Classify maps a category to a severity. "error" wins over "warning" when a
// caption contains both.
func Classify(category string) Severity {
	lower := strings.ToLower(category)
	switch {
	case strings.Contains(lower, "error"):
		return SeverityError
	case strings.Contains(lower, "warning"):
		return SeverityWarning
	default:
		return SeverityInfo
	}
}

// Notification is one recorded message.
type Notification struct {
	Message  string
	Category string
}

// Severity classifies the notification's category.
func (n Notification) Severity() Severity {
	return Classify(n.Category)
}
