package tui

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/csheth/teleprompter/internal/content"
	"github.com/csheth/teleprompter/internal/input"
	"github.com/csheth/teleprompter/internal/notify"
	"github.com/csheth/teleprompter/internal/prompter"
	"github.com/csheth/teleprompter/internal/settings"
	"github.com/csheth/teleprompter/internal/watch"
)

// Config wires runtime options into the TUI program.
type Config struct {
	Session *prompter.Session
	// Toast is rendered on screen. The session's notifier must feed it.
	Toast *notify.Toast
	// Notifier receives messages raised by the TUI itself. Defaults to Toast.
	Notifier      notify.Notifier
	Logger        *slog.Logger
	ReleaseWindow time.Duration
	Watch         bool
	WatchDebounce time.Duration
	StatePath     string
	Clipboard     ClipboardReader
}

// New returns a tea.Model ready to be mounted into a Program.
func New(config Config) tea.Model {
	if config.Toast == nil {
		config.Toast = notify.NewToast(0)
	}
	if config.Notifier == nil {
		config.Notifier = config.Toast
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	if config.Clipboard == nil {
		config.Clipboard = clipboard.ReadAll
	}

	editor := textarea.New()
	editor.ShowLineNumbers = false
	editor.Prompt = ""
	editor.CharLimit = 0
	editor.MaxHeight = 0
	editor.Placeholder = content.Placeholder

	openInput := textinput.New()
	openInput.Placeholder = "~/scripts/keynote.txt"
	openInput.CharLimit = 4096

	layout := newPageLayout()
	vp := viewport.New(layout.bodyWidth, layout.bodyHeight)
	vp.MouseWheelEnabled = false

	m := &model{
		config:        config,
		session:       config.Session,
		toast:         config.Toast,
		notifier:      config.Notifier,
		logger:        config.Logger.With("component", "tui"),
		jobs:          newJobBus(config.Logger),
		keys:          newKeyMap(config.Session.ToggleKey()),
		help:          help.New(),
		layout:        layout,
		stage:         stagePrompt,
		viewport:      vp,
		editor:        editor,
		openInput:     openInput,
		release:       input.NewReleaseTimer(config.ReleaseWindow),
		runningJobs:   map[string]jobSnapshot{},
		aboutVisible:  config.Session.Placeholder(),
		viewportDirty: true,
	}
	m.applyLayout()
	return m
}

type model struct {
	config   Config
	session  *prompter.Session
	toast    *notify.Toast
	notifier notify.Notifier
	logger   *slog.Logger
	jobs     *jobBus
	keys     keyMap
	help     help.Model
	layout   pageLayout
	stage    stage

	viewport  viewport.Model
	editor    textarea.Model
	openInput textinput.Model

	release     *input.ReleaseTimer
	clickHeld   bool
	watcher     *watch.Watcher
	watchGen    uint64
	runningJobs map[string]jobSnapshot

	// aboutVisible shows the privacy note under the placeholder until the
	// first script is loaded.
	aboutVisible  bool
	viewportDirty bool
	quitting      bool
}

func (m *model) Init() tea.Cmd {
	timing := m.session.Timing()
	cmds := []tea.Cmd{scheduleTick(timing.Period, timing.Generation)}
	if source := m.session.Source(); source != "" {
		cmds = append(cmds, m.watchFile(source))
	}
	_, cmd := m.finish(cmds...)
	return cmd
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout.Update(msg.Width, msg.Height)
		m.applyLayout()
		m.markViewportDirty()
		return m.finish()
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case scrollTickMsg:
		if !m.session.Tick(msg.gen) {
			return m, nil
		}
		return m.finish(scheduleTick(m.session.Period(), msg.gen))
	case releaseCheckMsg:
		if m.release.Released(msg.key, msg.seq) {
			m.session.KeyUp(msg.key)
		}
		return m, nil
	case toastExpiredMsg:
		m.toast.Expire(msg.id)
		return m, nil
	case jobSignalMsg:
		m.runningJobs[msg.Snapshot.ID] = msg.Snapshot
		return m, nil
	case jobResultEnvelope:
		delete(m.runningJobs, msg.Snapshot.ID)
		if msg.Payload == nil {
			return m, nil
		}
		return m.Update(msg.Payload)
	case clipboardResultMsg:
		if msg.err != nil {
			m.notifier.Notify(fmt.Sprintf("Could not read the clipboard: %v", msg.err), notify.CategoryError)
			return m.finish()
		}
		return m.finish(m.ingest(msg.text))
	case watchEventMsg:
		if msg.gen != m.watchGen {
			return m, nil
		}
		if msg.event.Removed {
			m.notifier.Notify(fmt.Sprintf("%s was removed. The loaded script is kept.", filepath.Base(msg.event.Path)), notify.CategoryWarning)
		} else if m.session.Reload(msg.event.Path) {
			m.syncEditor()
			m.markViewportDirty()
		}
		return m.finish(waitForWatch(m.watcher, m.watchGen))
	case watchErrMsg:
		if msg.gen != m.watchGen {
			return m, nil
		}
		m.logger.Warn("watch error", "err", msg.err)
		return m.finish(waitForWatch(m.watcher, m.watchGen))
	}
	return m, nil
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Paste && m.stage != stageEdit && m.stage != stageOpen {
		m.stage = stagePrompt
		return m.finish(m.ingest(string(msg.Runes)))
	}
	if m.stage == stagePrompt || m.stage == stageEdit {
		name := keyName(msg)
		if m.session.KeyDown(name) {
			seq := m.release.Press(name)
			return m.finish(scheduleReleaseCheck(m.release.Window(), name, seq))
		}
	}
	switch m.stage {
	case stageEdit:
		return m.handleEditKey(msg)
	case stageOpen:
		return m.handleOpenKey(msg)
	case stageHelp:
		return m.handleHelpKey(msg)
	default:
		return m.handlePromptKey(msg)
	}
}

func (m *model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	offset := m.session.State().Offset
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Start):
		m.session.Toggle()
	case key.Matches(msg, m.keys.ResetScroll):
		m.session.ResetScroll()
	case key.Matches(msg, m.keys.Faster):
		return m.finish(m.stepSpeed(1))
	case key.Matches(msg, m.keys.Slower):
		return m.finish(m.stepSpeed(-1))
	case key.Matches(msg, m.keys.MuchFaster):
		return m.finish(m.stepSpeed(10))
	case key.Matches(msg, m.keys.MuchSlower):
		return m.finish(m.stepSpeed(-10))
	case key.Matches(msg, m.keys.Larger):
		m.session.StepTextSize(settings.TextSizeStep)
		m.markViewportDirty()
	case key.Matches(msg, m.keys.Smaller):
		m.session.StepTextSize(-settings.TextSizeStep)
		m.markViewportDirty()
	case key.Matches(msg, m.keys.Edit):
		return m.finish(m.enterEditMode())
	case key.Matches(msg, m.keys.Open):
		m.stage = stageOpen
		m.openInput.Reset()
		return m.finish(m.openInput.Focus())
	case key.Matches(msg, m.keys.Paste):
		return m.finish(m.jobs.Start(jobKindClipboard, readClipboardJob(m.config.Clipboard)))
	case key.Matches(msg, m.keys.ClearScript):
		m.stopWatching()
		m.session.ResetContent()
		m.markViewportDirty()
	case key.Matches(msg, m.keys.ResetApp):
		m.stopWatching()
		timing := m.session.ResetAll()
		m.markViewportDirty()
		return m.finish(rescheduleTick(timing))
	case key.Matches(msg, m.keys.Up):
		m.session.Seek(offset - 1)
	case key.Matches(msg, m.keys.Down):
		m.session.Seek(offset + 1)
	case key.Matches(msg, m.keys.PageUp):
		m.session.Seek(offset - m.viewport.Height)
	case key.Matches(msg, m.keys.PageDown):
		m.session.Seek(offset + m.viewport.Height)
	case key.Matches(msg, m.keys.Top):
		m.session.Seek(0)
	case key.Matches(msg, m.keys.Bottom):
		m.session.Seek(m.maxOffset())
	case key.Matches(msg, m.keys.Help):
		m.stage = stageHelp
	}
	return m.finish()
}

func (m *model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ForceQuit):
		return m.quit()
	case key.Matches(msg, m.keys.LeaveEdit):
		m.leaveEditMode()
		return m.finish()
	case key.Matches(msg, m.keys.Start):
		m.session.Toggle()
		return m.finish()
	}
	before := m.editor.Value()
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	if after := m.editor.Value(); after != before {
		m.session.Edit(after)
		m.markViewportDirty()
	}
	return m.finish(cmd)
}

func (m *model) handleOpenKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m.quit()
	case tea.KeyEsc:
		m.closeOpenPrompt()
		return m.finish()
	case tea.KeyEnter:
		path := expandHome(strings.TrimSpace(m.openInput.Value()))
		m.closeOpenPrompt()
		if path == "" {
			return m.finish()
		}
		return m.finish(m.loadFile(path))
	}
	var cmd tea.Cmd
	m.openInput, cmd = m.openInput.Update(msg)
	return m, cmd
}

func (m *model) handleHelpKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Help), msg.Type == tea.KeyEsc:
		m.stage = stagePrompt
	}
	return m.finish()
}

func (m *model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Action == tea.MouseActionRelease:
		m.clickHeld = false
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if m.clickHeld || !m.layout.contains(msg.X, msg.Y) {
			return m, nil
		}
		m.clickHeld = true
		if m.stage == stagePrompt || m.stage == stageEdit {
			m.session.Click(input.ButtonPrimary)
		}
	case msg.Button == tea.MouseButtonWheelUp:
		if m.stage == stagePrompt {
			m.session.Seek(m.session.State().Offset - wheelStep)
		}
	case msg.Button == tea.MouseButtonWheelDown:
		if m.stage == stagePrompt {
			m.session.Seek(m.session.State().Offset + wheelStep)
		}
	default:
		return m, nil
	}
	return m.finish()
}

// ingest routes pasted text: a lone path to an existing file is treated as
// a dropped file, anything else as script text.
func (m *model) ingest(text string) tea.Cmd {
	if path, ok := content.ParseDroppedPath(text); ok {
		return m.loadFile(path)
	}
	if m.session.Paste(text) {
		m.stopWatching()
		m.markViewportDirty()
	}
	return nil
}

func (m *model) loadFile(path string) tea.Cmd {
	if !m.session.Drop(path) {
		return nil
	}
	m.markViewportDirty()
	return m.watchFile(m.session.Source())
}

func (m *model) watchFile(path string) tea.Cmd {
	if !m.config.Watch {
		return nil
	}
	m.stopWatching()
	w, err := watch.New(path, m.config.WatchDebounce, m.config.Logger)
	if err != nil {
		m.notifier.Notify(fmt.Sprintf("Could not watch %s: %v", filepath.Base(path), err), notify.CategoryError)
		return nil
	}
	m.watcher = w
	m.watchGen++
	return waitForWatch(w, m.watchGen)
}

func (m *model) stopWatching() {
	if m.watcher == nil {
		return
	}
	if err := m.watcher.Close(); err != nil {
		m.logger.Warn("close watcher", "err", err)
	}
	m.watcher = nil
	m.watchGen++
}

func (m *model) stepSpeed(delta int) tea.Cmd {
	return rescheduleTick(m.session.StepSpeed(delta))
}

func (m *model) enterEditMode() tea.Cmd {
	m.session.SetEditMode(true)
	m.stage = stageEdit
	m.syncEditor()
	return m.editor.Focus()
}

func (m *model) leaveEditMode() {
	m.session.SetEditMode(false)
	m.editor.Blur()
	m.stage = stagePrompt
	m.markViewportDirty()
}

func (m *model) syncEditor() {
	if m.stage != stageEdit || m.editor.Value() == m.session.Text() {
		return
	}
	m.editor.SetValue(m.session.Text())
}

func (m *model) closeOpenPrompt() {
	m.openInput.Blur()
	m.openInput.Reset()
	m.stage = stagePrompt
}

func (m *model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.stopWatching()
	m.session.Close()
	return m, tea.Quit
}

func (m *model) applyLayout() {
	m.viewport.Width = m.layout.bodyWidth
	m.viewport.Height = m.layout.bodyHeight
	m.editor.SetWidth(m.layout.bodyWidth)
	m.editor.SetHeight(m.layout.bodyHeight)
	m.openInput.Width = m.layout.bodyWidth - 4
	m.help.Width = m.layout.windowWidth
}

func (m *model) markViewportDirty() {
	m.viewportDirty = true
}

func (m *model) refreshViewportIfDirty() {
	if !m.viewportDirty {
		return
	}
	m.viewportDirty = false
	width := wrapWidth(m.layout.bodyWidth, m.session.TextSize())
	text := m.session.Text()
	if !m.session.Placeholder() {
		m.aboutVisible = false
	} else if m.aboutVisible {
		text += "\n\n" + aboutText
	}
	body := renderScript(text, m.layout.bodyWidth, width)
	if m.session.Placeholder() {
		body = helperStyle.Render(body)
	}
	m.viewport.SetContent(body)
	m.session.SetScrollLimit(m.maxOffset())
}

func (m *model) maxOffset() int {
	limit := m.viewport.TotalLineCount() - m.viewport.Height
	if limit < 0 {
		return 0
	}
	return limit
}

// finish runs after every handled message: it re-renders stale content,
// moves the viewport to the engine's offset and schedules the hide timer of
// a freshly raised toast.
func (m *model) finish(cmds ...tea.Cmd) (tea.Model, tea.Cmd) {
	m.refreshViewportIfDirty()
	m.viewport.SetYOffset(m.session.State().Offset)
	if id, ok := m.toast.Expiry(); ok {
		cmds = append(cmds, scheduleToastExpiry(m.toast.Duration(), id))
	}
	return m, tea.Batch(cmds...)
}

// keyName maps a key press to the names used for the toggle key.
func keyName(msg tea.KeyMsg) string {
	if msg.Type == tea.KeySpace || (msg.Type == tea.KeyRunes && string(msg.Runes) == " ") {
		return "space"
	}
	return msg.String()
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

var (
	titleStyle         = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	sectionHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	helperStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	editBadgeStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#ffd166")).Padding(0, 1)
	statusBarStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6")).Padding(0, 1)
	scrollingStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#a3be8c")).Padding(0, 1)
	pausedStyle        = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#e0def4")).Padding(0, 1)
	helpBoxStyle       = lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("#7f5af0")).Padding(0, 2)
	toastBaseStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	toastInfoStyle     = toastBaseStyle.BorderForeground(lipgloss.Color("#8ecae6"))
	toastWarningStyle  = toastBaseStyle.BorderForeground(lipgloss.Color("#ffd166")).Foreground(lipgloss.Color("#ffd166"))
	toastErrorStyle    = toastBaseStyle.BorderForeground(lipgloss.Color("9")).Foreground(lipgloss.Color("9"))
	toastCaptionStyle  = lipgloss.NewStyle().Bold(true)
)
