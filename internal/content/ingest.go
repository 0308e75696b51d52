package content

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

const (
	sniffLen      = 512
	plainTextType = "text/plain"
)

// ReadFile reads a dropped file. Only regular files whose content sniffs as
// plain text are accepted.
func ReadFile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("content: open %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return "", &UnsupportedFormatError{Source: path}
	}
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("content: open %s: %w", path, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("content: read %s: %w", path, err)
	}
	if media := DetectType(data); media != plainTextType {
		return "", &UnsupportedFormatError{MediaType: media, Source: path}
	}
	text := string(data)
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyContent
	}
	return text, nil
}

// DetectType sniffs data and returns its media type without parameters.
// Empty input is treated as plain text so emptiness is reported separately.
func DetectType(data []byte) string {
	if len(data) == 0 {
		return plainTextType
	}
	head := data
	if len(head) > sniffLen {
		head = head[:sniffLen]
	}
	media := http.DetectContentType(head)
	if i := strings.IndexByte(media, ';'); i >= 0 {
		media = media[:i]
	}
	media = strings.TrimSpace(media)
	if media == plainTextType && !utf8.Valid(data) {
		return "application/octet-stream"
	}
	return media
}

// CheckText validates pasted text before it is loaded.
func CheckText(text string) error {
	if !utf8.ValidString(text) || strings.ContainsRune(text, 0) {
		return &UnsupportedFormatError{MediaType: "application/octet-stream", Source: "clipboard"}
	}
	if strings.TrimSpace(text) == "" {
		return ErrEmptyContent
	}
	return nil
}

// ParseDroppedPath recognises the text a terminal pastes when a single file
// is dragged onto it: a path, optionally quoted, with backslash-escaped
// spaces or a file:// prefix. Only absolute, home-relative or file:// paths
// count, since terminals paste absolute paths and a pasted word must stay
// text even when it matches a name in the working directory. It returns the
// path when it names an existing file or directory.
func ParseDroppedPath(pasted string) (string, bool) {
	candidate := strings.TrimSpace(pasted)
	if candidate == "" || strings.ContainsAny(candidate, "\n\r") {
		return "", false
	}
	if n := len(candidate); n >= 2 {
		if (candidate[0] == '\'' && candidate[n-1] == '\'') || (candidate[0] == '"' && candidate[n-1] == '"') {
			candidate = candidate[1 : n-1]
		}
	}
	if strings.HasPrefix(candidate, "file://") {
		u, err := url.Parse(candidate)
		if err != nil {
			return "", false
		}
		candidate = u.Path
	} else {
		candidate = unescapeSpaces(candidate)
	}
	if strings.HasPrefix(candidate, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", false
		}
		candidate = filepath.Join(home, candidate[2:])
	}
	if !filepath.IsAbs(candidate) {
		return "", false
	}
	if _, err := os.Stat(candidate); err != nil {
		return "", false
	}
	return candidate, true
}

func unescapeSpaces(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// IsUnsupported reports whether err is an UnsupportedFormatError.
func IsUnsupported(err error) bool {
	var target *UnsupportedFormatError
	return errors.As(err, &target)
}
