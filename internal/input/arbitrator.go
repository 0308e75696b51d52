// Package input reconciles keyboard and pointer events into scroll toggles.
// Outside edit mode the toggle key and the primary button start and stop
// scrolling; in edit mode they are left alone so they keep their normal
// text-editing meaning.
package input

import "sync"

// DefaultToggleKey is the reserved key that toggles scrolling.
const DefaultToggleKey = "space"

// Button identifies a pointer button.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonSecondary
	ButtonMiddle
)

// Toggler is the action the arbitrator triggers.
type Toggler interface {
	ToggleScroll()
}

// ToggleFunc adapts a function to Toggler.
type ToggleFunc func()

func (f ToggleFunc) ToggleScroll() { f() }

// Arbitrator tracks edit mode and one latch per key so a held key toggles
// once per physical press.
type Arbitrator struct {
	mu        sync.Mutex
	toggleKey string
	editMode  bool
	held      map[string]bool
	target    Toggler
	binding   uint64
}

// New returns an arbitrator reserving toggleKey, or DefaultToggleKey when empty.
func New(toggleKey string) *Arbitrator {
	if toggleKey == "" {
		toggleKey = DefaultToggleKey
	}
	return &Arbitrator{toggleKey: toggleKey, held: map[string]bool{}}
}

// Attach registers the toggle target and returns the function that removes
// it. Until something is attached, and after detach, no event is consumed.
func (a *Arbitrator) Attach(t Toggler) (detach func()) {
	a.mu.Lock()
	a.binding++
	id := a.binding
	a.target = t
	a.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			a.mu.Lock()
			defer a.mu.Unlock()
			if a.binding == id {
				a.target = nil
				a.held = map[string]bool{}
			}
		})
	}
}

// ToggleKey names the reserved key.
func (a *Arbitrator) ToggleKey() string {
	return a.toggleKey
}

// KeyDown handles a press (or an auto-repeat) of key and reports whether it
// was consumed as a toggle.
func (a *Arbitrator) KeyDown(key string) bool {
	a.mu.Lock()
	if key != a.toggleKey || a.editMode || a.target == nil {
		a.mu.Unlock()
		return false
	}
	if a.held[key] {
		a.mu.Unlock()
		return true
	}
	a.held[key] = true
	target := a.target
	a.mu.Unlock()

	target.ToggleScroll()
	return true
}

// KeyUp clears the latch for key. It is idempotent.
func (a *Arbitrator) KeyUp(key string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.held, key)
}

// Held reports whether key's latch is set.
func (a *Arbitrator) Held(key string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.held[key]
}

// Click handles a pointer press on the content surface.
func (a *Arbitrator) Click(button Button) bool {
	a.mu.Lock()
	if button != ButtonPrimary || a.editMode || a.target == nil {
		a.mu.Unlock()
		return false
	}
	target := a.target
	a.mu.Unlock()

	target.ToggleScroll()
	return true
}

// SetEditMode switches the interpretation of future events. It reports
// whether the mode changed.
func (a *Arbitrator) SetEditMode(on bool) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.editMode == on {
		return false
	}
	a.editMode = on
	return true
}

func (a *Arbitrator) EditMode() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.editMode
}
