package tui

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/teleprompter/internal/content"
	"github.com/csheth/teleprompter/internal/notify"
	"github.com/csheth/teleprompter/internal/prompter"
	"github.com/csheth/teleprompter/internal/settings"
	"github.com/csheth/teleprompter/internal/storage"
)

func newTestModel(t *testing.T, seed map[string]string) *model {
	t.Helper()
	toast := notify.NewToast(0)
	session, err := prompter.Open(prompter.Options{Store: storage.NewMemory(seed), Notifier: toast})
	if err != nil {
		t.Fatalf("open session: %v", err)
	}
	t.Cleanup(session.Close)
	teaModel, ok := New(Config{Session: session, Toast: toast}).(*model)
	if !ok {
		t.Fatalf("expected *model, got %T", teaModel)
	}
	teaModel.Update(tea.WindowSizeMsg{Width: 60, Height: 16})
	return teaModel
}

func scriptSeed(lines int) map[string]string {
	body := make([]string, lines)
	for i := range body {
		body[i] = "line"
	}
	return map[string]string{storage.KeyText: strings.Join(body, "\n")}
}

func space() tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func lastToast(t *testing.T, m *model) notify.Notification {
	t.Helper()
	n, ok := m.toast.Current()
	if !ok {
		t.Fatal("expected a visible toast")
	}
	return n
}

func TestSpaceTogglesScrolling(t *testing.T) {
	m := newTestModel(t, scriptSeed(40))

	_, cmd := m.Update(space())
	if !m.session.State().Active {
		t.Fatal("space should start scrolling")
	}
	if cmd == nil {
		t.Fatal("space should schedule a release check")
	}
	if !strings.Contains(m.View(), "SCROLLING") {
		t.Fatal("status bar should show SCROLLING")
	}
}

func TestHeldSpaceTogglesOnce(t *testing.T) {
	m := newTestModel(t, scriptSeed(40))

	for i := 0; i < 4; i++ {
		m.Update(space())
	}
	if !m.session.State().Active {
		t.Fatal("auto-repeat should toggle exactly once")
	}
}

func TestReleaseCheckClearsLatch(t *testing.T) {
	m := newTestModel(t, scriptSeed(40))

	m.Update(space())
	m.Update(space())
	m.Update(releaseCheckMsg{key: "space", seq: 1})
	m.Update(space())
	if !m.session.State().Active {
		t.Fatal("stale release check must not clear the latch")
	}

	m.Update(releaseCheckMsg{key: "space", seq: 3})
	m.Update(space())
	if m.session.State().Active {
		t.Fatal("space after release should stop scrolling")
	}
}

func TestSpaceOnPlaceholderWarns(t *testing.T) {
	m := newTestModel(t, nil)

	_, cmd := m.Update(space())
	if m.session.State().Active {
		t.Fatal("placeholder must not scroll")
	}
	n := lastToast(t, m)
	if n.Message != prompter.MsgPlaceholder || n.Severity() != notify.SeverityWarning {
		t.Fatalf("unexpected toast %+v", n)
	}
	if cmd == nil {
		t.Fatal("expected toast expiry to be scheduled")
	}
}

func TestTicksAdvanceAndStaleTicksDrop(t *testing.T) {
	m := newTestModel(t, scriptSeed(40))
	gen := m.session.Timing().Generation
	m.Update(space())

	if _, cmd := m.Update(scrollTickMsg{gen: gen}); cmd == nil {
		t.Fatal("current tick should reschedule itself")
	}
	if got := m.session.State().Offset; got != 1 {
		t.Fatalf("offset after tick = %d, want 1", got)
	}
	if got := m.viewport.YOffset; got != 1 {
		t.Fatalf("viewport offset = %d, want 1", got)
	}

	m.Update(runes("+"))
	if m.session.Speed() != settings.DefaultSpeed+1 {
		t.Fatalf("speed = %d", m.session.Speed())
	}
	if _, cmd := m.Update(scrollTickMsg{gen: gen}); cmd != nil {
		t.Fatal("stale tick should not reschedule")
	}
	if got := m.session.State().Offset; got != 1 {
		t.Fatalf("stale tick moved offset to %d", got)
	}
	if !m.session.State().Active {
		t.Fatal("speed change must keep scrolling active")
	}
}

func TestScrollStopsAtLastPage(t *testing.T) {
	m := newTestModel(t, scriptSeed(12))
	gen := m.session.Timing().Generation
	m.Update(space())

	for i := 0; i < 50; i++ {
		m.Update(scrollTickMsg{gen: gen})
	}
	if got, want := m.session.State().Offset, m.maxOffset(); got != want {
		t.Fatalf("offset = %d, want limit %d", got, want)
	}
	if m.progress() != 100 {
		t.Fatalf("progress = %d", m.progress())
	}
}

func TestSpeedKeys(t *testing.T) {
	m := newTestModel(t, nil)

	m.Update(runes(">"))
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if got := m.session.Speed(); got != 61 {
		t.Fatalf("speed = %d, want 61", got)
	}
	m.Update(runes("<"))
	m.Update(runes("-"))
	if got := m.session.Speed(); got != 50 {
		t.Fatalf("speed = %d, want 50", got)
	}
}

func TestTextSizeKeysRewrap(t *testing.T) {
	m := newTestModel(t, map[string]string{storage.KeyText: strings.Repeat("word ", 40)})
	before := m.viewport.TotalLineCount()

	for i := 0; i < 32; i++ {
		m.Update(runes("]"))
	}
	if got := m.session.TextSize(); got != 32 {
		t.Fatalf("text size = %v, want 32", got)
	}
	if after := m.viewport.TotalLineCount(); after <= before {
		t.Fatalf("larger text should wrap to more lines (%d -> %d)", before, after)
	}
}

func TestEditModeTypesSpaceIntoScript(t *testing.T) {
	m := newTestModel(t, map[string]string{storage.KeyText: "Hello"})

	m.Update(runes("e"))
	if m.stage != stageEdit || !m.session.EditMode() {
		t.Fatal("e should enter edit mode")
	}
	if n := lastToast(t, m); n.Message != prompter.MsgEditModeOn || n.Category != notify.CategoryEditMode {
		t.Fatalf("unexpected toast %+v", n)
	}

	m.Update(space())
	m.Update(runes("x"))
	if m.session.State().Active {
		t.Fatal("space in edit mode must not toggle")
	}
	if got := m.session.Text(); got != "Hello x" {
		t.Fatalf("text = %q, want %q", got, "Hello x")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.stage != stagePrompt || m.session.EditMode() {
		t.Fatal("esc should leave edit mode")
	}
	if n := lastToast(t, m); n.Message != prompter.MsgEditModeOff {
		t.Fatalf("unexpected toast %+v", n)
	}
}

func TestStartInEditModeWarns(t *testing.T) {
	m := newTestModel(t, map[string]string{storage.KeyText: "Hello"})
	m.Update(runes("e"))

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	if m.session.State().Active {
		t.Fatal("start must be refused in edit mode")
	}
	if n := lastToast(t, m); n.Message != prompter.MsgEditModeActive || n.Severity() != notify.SeverityWarning {
		t.Fatalf("unexpected toast %+v", n)
	}
}

func TestBracketedPasteLoadsText(t *testing.T) {
	m := newTestModel(t, nil)

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("First line\nSecond line"), Paste: true})
	if m.session.Placeholder() {
		t.Fatal("paste should replace the placeholder")
	}
	if m.session.State().Active {
		t.Fatal("loading must not start scrolling")
	}
	if !strings.Contains(m.View(), "Second line") {
		t.Fatal("pasted text should be visible")
	}
}

func TestPastedPathActsAsDrop(t *testing.T) {
	m := newTestModel(t, nil)
	path := filepath.Join(t.TempDir(), "talk notes.txt")
	if err := os.WriteFile(path, []byte("Hello world"), 0o644); err != nil {
		t.Fatal(err)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("'" + path + "'"), Paste: true})
	if got := m.session.Text(); got != "Hello world" {
		t.Fatalf("text = %q", got)
	}
	if m.session.Source() != path {
		t.Fatalf("source = %q", m.session.Source())
	}
	if !strings.Contains(m.headerView(), "talk notes.txt") {
		t.Fatal("header should name the loaded file")
	}
}

func TestDroppedBinaryFileIsRejected(t *testing.T) {
	m := newTestModel(t, nil)
	path := filepath.Join(t.TempDir(), "slides.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.7\n%\xe2\xe3\xcf\xd3\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(path), Paste: true})
	if !m.session.Placeholder() {
		t.Fatal("unsupported file must not replace the script")
	}
	if n := lastToast(t, m); n.Message != prompter.MsgUnsupportedFormat || n.Severity() != notify.SeverityError {
		t.Fatalf("unexpected toast %+v", n)
	}
}

func TestClipboardPaste(t *testing.T) {
	m := newTestModel(t, nil)
	m.config.Clipboard = func() (string, error) { return "From the clipboard", nil }

	_, cmd := m.Update(runes("p"))
	if cmd == nil {
		t.Fatal("p should start a clipboard job")
	}
	m.Update(clipboardResultMsg{text: "From the clipboard"})
	if got := m.session.Text(); got != "From the clipboard" {
		t.Fatalf("text = %q", got)
	}

	m.Update(clipboardResultMsg{err: errors.New("no clipboard utility")})
	if n := lastToast(t, m); n.Severity() != notify.SeverityError {
		t.Fatalf("unexpected toast %+v", n)
	}
	if got := m.session.Text(); got != "From the clipboard" {
		t.Fatal("a failed clipboard read must not change the script")
	}
}

func TestOpenPromptLoadsFile(t *testing.T) {
	m := newTestModel(t, nil)
	path := filepath.Join(t.TempDir(), "script.txt")
	if err := os.WriteFile(path, []byte("Opened"), 0o644); err != nil {
		t.Fatal(err)
	}

	m.Update(runes("o"))
	if m.stage != stageOpen {
		t.Fatal("o should open the prompt")
	}
	m.openInput.SetValue(path)
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.stage != stagePrompt {
		t.Fatal("enter should close the prompt")
	}
	if got := m.session.Text(); got != "Opened" {
		t.Fatalf("text = %q", got)
	}
}

func TestOpenPromptEscCancels(t *testing.T) {
	m := newTestModel(t, nil)

	m.Update(runes("o"))
	m.Update(runes("q"))
	if m.openInput.Value() != "q" {
		t.Fatalf("prompt should capture typing, got %q", m.openInput.Value())
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.stage != stagePrompt || m.openInput.Value() != "" {
		t.Fatal("esc should clear and close the prompt")
	}
	if m.quitting {
		t.Fatal("q inside the prompt must not quit")
	}
}

func TestClickTogglesOnlyOnScriptSurface(t *testing.T) {
	m := newTestModel(t, scriptSeed(40))

	m.Update(tea.MouseMsg{X: 5, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if m.session.State().Active {
		t.Fatal("click on the header must not toggle")
	}

	m.Update(tea.MouseMsg{X: 5, Y: 3, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m.Update(tea.MouseMsg{X: 5, Y: 3, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if !m.session.State().Active {
		t.Fatal("a held click should toggle once")
	}
	m.Update(tea.MouseMsg{X: 5, Y: 3, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	m.Update(tea.MouseMsg{X: 5, Y: 3, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if m.session.State().Active {
		t.Fatal("second click should stop scrolling")
	}
}

func TestResetKeys(t *testing.T) {
	m := newTestModel(t, scriptSeed(40))
	m.Update(space())
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m.Update(runes("r"))
	if st := m.session.State(); st.Active || st.Offset != 0 {
		t.Fatalf("r should reset scroll, got %+v", st)
	}

	m.Update(runes("+"))
	m.Update(runes("R"))
	if m.session.Speed() != settings.DefaultSpeed || !m.session.Placeholder() {
		t.Fatal("R should restore defaults and the placeholder")
	}
	if n := lastToast(t, m); n.Message != prompter.MsgSettingsCleared {
		t.Fatalf("unexpected toast %+v", n)
	}
}

func TestClearScriptKey(t *testing.T) {
	m := newTestModel(t, scriptSeed(3))

	m.Update(runes("X"))
	if !m.session.Placeholder() {
		t.Fatal("X should restore the placeholder")
	}
	if !strings.Contains(m.View(), content.Placeholder) {
		t.Fatal("placeholder should be rendered")
	}
}

func TestToastExpiry(t *testing.T) {
	m := newTestModel(t, nil)
	m.Update(space())
	if !strings.Contains(m.toastView(), "Load some text") {
		t.Fatal("toast should be rendered")
	}

	m.Update(toastExpiredMsg{id: "stale"})
	if _, ok := m.toast.Current(); !ok {
		t.Fatal("a stale expiry must not hide the toast")
	}

	m.toast.Clear()
	if strings.TrimSpace(m.toastView()) != "" {
		t.Fatal("no toast should render blank space")
	}
}

func TestAboutNoteShownUntilFirstLoad(t *testing.T) {
	m := newTestModel(t, nil)
	if !strings.Contains(m.View(), "Your script") {
		t.Fatal("first launch should show the privacy note")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("Opening remarks"), Paste: true})
	if strings.Contains(m.View(), "Your script") {
		t.Fatal("privacy note should hide once a script is loaded")
	}

	m.Update(runes("X"))
	if strings.Contains(m.View(), "Your script") {
		t.Fatal("privacy note should not come back after clearing")
	}
}

func TestAboutNoteHiddenWhenScriptRestored(t *testing.T) {
	m := newTestModel(t, scriptSeed(3))
	m.Update(runes("X"))
	if strings.Contains(m.View(), "Your script") {
		t.Fatal("privacy note is only for a first launch")
	}
}

func TestSpeedStepAtFloorKeepsTickChain(t *testing.T) {
	seed := scriptSeed(40)
	seed[storage.KeySpeed] = "1"
	m := newTestModel(t, seed)
	gen := m.session.Timing().Generation
	m.Update(space())

	if _, cmd := m.Update(runes("-")); cmd == nil {
		t.Fatal("expected the settings notice to schedule its expiry")
	}
	if m.session.Timing().Generation != gen {
		t.Fatal("a step that changes nothing must keep the tick generation")
	}
	if tick := rescheduleTick(m.session.StepSpeed(-1)); tick != nil {
		t.Fatal("no new tick chain for an unchanged speed")
	}
	m.Update(scrollTickMsg{gen: gen})
	if got := m.session.State().Offset; got != 1 {
		t.Fatalf("in-flight tick should still advance, offset = %d", got)
	}
	if n := lastToast(t, m); n.Category != notify.CategorySettings {
		t.Fatalf("unexpected toast %+v", n)
	}
}

func TestPastedRelativeNameStaysText(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "cmd"), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)
	m := newTestModel(t, nil)

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("cmd"), Paste: true})
	if got := m.session.Text(); got != "cmd" {
		t.Fatalf("text = %q, want the pasted word", got)
	}
}

func TestHelpPanel(t *testing.T) {
	m := newTestModel(t, nil)

	m.Update(runes("?"))
	if m.stage != stageHelp {
		t.Fatal("? should open help")
	}
	if !strings.Contains(m.View(), "never leave this machine") {
		t.Fatal("help should describe local data handling")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.stage != stagePrompt {
		t.Fatal("esc should close help")
	}
}

func TestQuitClosesSession(t *testing.T) {
	m := newTestModel(t, nil)

	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if !m.session.Closed() {
		t.Fatal("quit should close the session")
	}
	if m.View() != "" {
		t.Fatal("view should be empty after quit")
	}
}
