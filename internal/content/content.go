// Package content holds the script shown by the prompter.
package content

import (
	"errors"
	"fmt"
	"strings"

	"github.com/csheth/teleprompter/internal/storage"
)

// Placeholder is shown until real content has been loaded.
const Placeholder = "Drag and drop a text file here."

// ErrEmptyContent is returned when a source yields only whitespace.
var ErrEmptyContent = errors.New("content: empty")

// UnsupportedFormatError is returned for sources that are not plain text.
type UnsupportedFormatError struct {
	MediaType string
	Source    string
}

func (e *UnsupportedFormatError) Error() string {
	if e.MediaType == "" {
		return fmt.Sprintf("content: unsupported source %s", e.Source)
	}
	return fmt.Sprintf("content: unsupported format %s (%s)", e.MediaType, e.Source)
}

// Buffer is the single mutable text value plus its placeholder flag.
type Buffer struct {
	backend     storage.Store
	text        string
	placeholder bool
}

// Restore opens the buffer from persisted content. Missing or blank content
// leaves the buffer at the placeholder. A read error is returned alongside a
// usable placeholder buffer.
func Restore(backend storage.Store) (*Buffer, error) {
	b := &Buffer{backend: backend, text: Placeholder, placeholder: true}
	raw, ok, err := backend.Get(storage.KeyText)
	if err != nil {
		return b, fmt.Errorf("content: read persisted text: %w", err)
	}
	if ok && strings.TrimSpace(raw) != "" && raw != Placeholder {
		b.text = raw
		b.placeholder = false
	}
	return b, nil
}

func (b *Buffer) Text() string {
	return b.text
}

// Placeholder reports whether the buffer still shows the default caption.
func (b *Buffer) Placeholder() bool {
	return b.placeholder
}

// Load replaces the buffer wholesale. Blank input fails with ErrEmptyContent
// and leaves the buffer untouched. On a persistence error the new text is
// kept in memory and the error is returned.
func (b *Buffer) Load(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyContent
	}
	b.text = text
	b.placeholder = false
	return b.persist()
}

// Edit replaces the buffer with the full edited value. Editing never fails
// on blank text; the placeholder flag clears as soon as the value differs
// from the caption.
func (b *Buffer) Edit(text string) error {
	if text == b.text {
		return nil
	}
	b.text = text
	if text != Placeholder {
		b.placeholder = false
	}
	return b.persist()
}

// Reset restores the placeholder and clears the persisted text.
func (b *Buffer) Reset() error {
	b.text = Placeholder
	b.placeholder = true
	if err := b.backend.Delete(storage.KeyText); err != nil {
		return fmt.Errorf("content: clear persisted text: %w", err)
	}
	return nil
}

// Lines counts the lines of the current text.
func (b *Buffer) Lines() int {
	return strings.Count(b.text, "\n") + 1
}

func (b *Buffer) persist() error {
	if err := b.backend.Set(storage.KeyText, b.text); err != nil {
		return fmt.Errorf("content: persist text: %w", err)
	}
	return nil
}
