package tui

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"github.com/csheth/teleprompter/internal/notify"
	"github.com/csheth/teleprompter/internal/settings"
)

func (m *model) View() string {
	if m.quitting {
		return ""
	}
	m.refreshViewportIfDirty()
	var body string
	switch m.stage {
	case stageEdit:
		body = m.editor.View()
	case stageOpen:
		body = m.openPanel()
	case stageHelp:
		body = m.helpPanel()
	default:
		body = m.viewport.View()
	}
	body = lipgloss.NewStyle().
		Height(m.layout.bodyHeight).
		MaxHeight(m.layout.bodyHeight).
		Render(body)
	return lipgloss.JoinVertical(lipgloss.Left,
		m.headerView(),
		body,
		m.toastView(),
		m.statusBarView(),
		m.footerView(),
	)
}

func (m *model) headerView() string {
	source := "untitled script"
	if path := m.session.Source(); path != "" {
		source = filepath.Base(path)
	} else if m.session.Placeholder() {
		source = "no script loaded"
	}
	parts := []string{titleStyle.Render("Teleprompter"), helperStyle.Render(source)}
	if m.session.EditMode() {
		parts = append(parts, editBadgeStyle.Render("EDIT MODE"))
	}
	return truncate.StringWithTail(strings.Join(parts, "  "), uint(m.layout.windowWidth), "…")
}

func (m *model) modeLabel() string {
	switch {
	case m.session.EditMode():
		return editBadgeStyle.Render("EDITING")
	case m.session.State().Active:
		return scrollingStyle.Render("SCROLLING")
	default:
		return pausedStyle.Render("PAUSED")
	}
}

func (m *model) statusBarView() string {
	stats := []string{
		fmt.Sprintf("Speed %d", m.session.Speed()),
		fmt.Sprintf("%s/line", m.session.Period()),
		fmt.Sprintf("Text %s", settings.FormatTextSize(m.session.TextSize())),
		fmt.Sprintf("%d%%", m.progress()),
	}
	stats = append(stats, m.jobStatusBadges()...)
	bar := statusBarStyle.Render(strings.Join(stats, "  •  "))
	return lipgloss.JoinHorizontal(lipgloss.Top, m.modeLabel(), bar)
}

func (m *model) progress() int {
	limit := m.maxOffset()
	if limit == 0 {
		if m.session.Placeholder() {
			return 0
		}
		return 100
	}
	return m.session.State().Offset * 100 / limit
}

func (m *model) jobStatusBadges() []string {
	if len(m.runningJobs) == 0 {
		return nil
	}
	kinds := make([]string, 0, len(m.runningJobs))
	for _, snapshot := range m.runningJobs {
		kinds = append(kinds, fmt.Sprintf("%s…", snapshot.Kind))
	}
	sort.Strings(kinds)
	return kinds
}

func (m *model) footerView() string {
	if m.stage == stageEdit {
		return m.help.View(editKeyMap{keys: m.keys})
	}
	return m.help.View(m.keys)
}

func (m *model) toastView() string {
	n, ok := m.toast.Current()
	if !ok {
		return strings.Repeat("\n", toastHeight-1)
	}
	style := toastInfoStyle
	switch n.Severity() {
	case notify.SeverityError:
		style = toastErrorStyle
	case notify.SeverityWarning:
		style = toastWarningStyle
	}
	text := toastCaptionStyle.Render(n.Category) + "  " + n.Message
	limit := m.layout.windowWidth - 4
	if limit < minWrapWidth {
		limit = minWrapWidth
	}
	text = truncate.StringWithTail(text, uint(limit), "…")
	return lipgloss.PlaceHorizontal(m.layout.windowWidth, lipgloss.Right, style.Render(text))
}

func (m *model) openPanel() string {
	lines := []string{
		sectionHeaderStyle.Render("Open a text file"),
		m.openInput.View(),
		helperStyle.Render("Enter to load, Esc to cancel. Dragging a file onto the terminal works too."),
	}
	return strings.Join(lines, "\n\n")
}

func (m *model) helpPanel() string {
	lines := []string{
		sectionHeaderStyle.Render("About"),
		helperStyle.Render(aboutText),
	}
	if m.config.StatePath != "" {
		lines = append(lines, helperStyle.Render("State file: "+m.config.StatePath))
	}
	lines = append(lines, "", sectionHeaderStyle.Render("Keys"), m.help.FullHelpView(m.keys.FullHelp()))
	return helpBoxStyle.Render(strings.Join(lines, "\n"))
}
