package tui

import (
	"strings"

	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"

	"github.com/csheth/teleprompter/internal/settings"
)

type pageLayout struct {
	windowWidth  int
	windowHeight int
	bodyTop      int
	bodyWidth    int
	bodyHeight   int
}

func newPageLayout() pageLayout {
	return pageLayout{
		windowWidth:  80,
		windowHeight: 24,
		bodyTop:      headerHeight,
		bodyWidth:    80,
		bodyHeight:   24 - headerHeight - statusHeight - footerHeight - toastHeight,
	}
}

func (l *pageLayout) Update(width, height int) {
	l.windowWidth = width
	l.windowHeight = height
	l.bodyTop = headerHeight
	l.bodyWidth = width
	if l.bodyWidth < minBodyWidth {
		l.bodyWidth = minBodyWidth
	}
	l.bodyHeight = height - headerHeight - statusHeight - footerHeight - toastHeight
	if l.bodyHeight < minBodyHeight {
		l.bodyHeight = minBodyHeight
	}
}

// contains reports whether the cell at (x, y) lies on the script surface.
func (l pageLayout) contains(x, y int) bool {
	return x >= 0 && x < l.bodyWidth && y >= l.bodyTop && y < l.bodyTop+l.bodyHeight
}

// wrapWidth scales the column count inversely with the text size, so the
// default size uses the full body width and larger sizes fit fewer words
// per line.
func wrapWidth(bodyWidth int, textSize float64) int {
	if textSize <= 0 {
		textSize = settings.DefaultTextSize
	}
	width := int(float64(bodyWidth) * settings.DefaultTextSize / textSize)
	if width > bodyWidth {
		width = bodyWidth
	}
	if width < minWrapWidth {
		width = minWrapWidth
	}
	return width
}

// renderScript wraps text to width and centres the block in bodyWidth.
func renderScript(text string, bodyWidth int, width int) string {
	wrapped := wrap.String(wordwrap.String(text, width), width)
	margin := (bodyWidth - width) / 2
	if margin <= 0 {
		return wrapped
	}
	return indentMultiline(wrapped, strings.Repeat(" ", margin))
}

func indentMultiline(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line == "" {
			continue
		}
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}
