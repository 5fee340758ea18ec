package ui

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/margin/internal/calendar"
	"github.com/five82/margin/internal/prefs"
	"github.com/five82/margin/internal/state"
	"github.com/five82/margin/internal/tracker"
)

// View represents the current active view.
type View int

const (
	ViewDashboard View = iota
	ViewBooks
	ViewSessions
	ViewStats
	ViewWrapped
	ViewLogs
)

var viewNames = []string{"dashboard", "books", "sessions", "stats", "wrapped", "logs"}

var viewTitles = []string{"Dashboard", "Books", "Sessions", "Stats", "Wrapped", "Logs"}

func (v View) String() string {
	if v < 0 || int(v) >= len(viewNames) {
		return "unknown"
	}
	return viewNames[v]
}

// ParseView maps a preference name like "books" to a View.
func ParseView(name string) (View, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range viewNames {
		if n == name {
			return View(i), true
		}
	}
	return ViewDashboard, false
}

// Options configures the UI.
type Options struct {
	Context   context.Context
	Client    *tracker.Client
	Store     *state.Store
	Refresh   func() // asks the heartbeat poller for an immediate refresh
	Logger    *slog.Logger
	LogFile   string
	Theme     string
	StartView string
	PrefsPath string
	Tick      time.Duration

	// Today overrides the local date used for form defaults and validation.
	Today func() calendar.Date
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	client    *tracker.Client
	store     *state.Store
	refresh   func()
	logger    *slog.Logger
	logFile   string
	prefsPath string
	startView string
	tick      time.Duration
	today     func() calendar.Date
	now       func() time.Time

	// UI state
	keys    keyMap
	theme   Theme
	current View
	width   int
	height  int
	ready   bool

	// Heartbeat data
	snapshot state.Snapshot

	// Per-view data, fetched on entry
	dash     dashboardState
	books    booksState
	sessions sessionsState
	stats    statsState
	wrapped  wrappedState
	logs     logState

	logViewport viewport.Model

	// Overlays
	form     *formState
	confirm  *confirmState
	showHelp bool
	toasts   []toast
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	tick := opts.Tick
	if tick <= 0 {
		tick = DefaultUIInterval
	}
	today := opts.Today
	if today == nil {
		today = calendar.Today
	}
	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	start, _ := ParseView(opts.StartView)

	m := Model{
		ctx:       ctx,
		client:    opts.Client,
		store:     opts.Store,
		refresh:   opts.Refresh,
		logger:    logger,
		logFile:   opts.LogFile,
		prefsPath: prefsPath,
		startView: start.String(),
		tick:      tick,
		today:     today,
		now:       time.Now,
		keys:      DefaultKeyMap(),
		theme:     GetTheme(opts.Theme),
		current:   start,
		logs:      newLogState(),
	}
	if m.store != nil {
		m.snapshot = m.store.Snapshot()
	}
	m.markLoading(start)
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tickCmd(m.tick),
		m.fetchCmd(m.current),
	}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.updateLogViewport()
		return m, nil

	case tickMsg:
		return m.handleTick(time.Time(msg))

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		return m, nil

	case dashboardMsg:
		m.handleDashboard(msg)
		return m, nil

	case booksMsg:
		m.handleBooks(msg)
		return m, nil

	case sessionsMsg:
		m.handleSessions(msg)
		return m, nil

	case statsMsg:
		m.handleStats(msg)
		return m, nil

	case wrappedMsg:
		m.handleWrapped(msg)
		return m, nil

	case logsMsg:
		m.handleLogs(msg)
		return m, nil

	case mutationMsg:
		return m.handleMutation(msg)
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.confirm != nil {
		return m.renderConfirm()
	}
	if m.form != nil {
		return m.renderForm()
	}
	return m.renderMain()
}

// handleKey routes a key press to the topmost overlay, then the global
// bindings, then the active view.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if m.confirm != nil {
		return m.handleConfirmKey(msg)
	}
	if m.form != nil {
		return m.handleFormKey(msg)
	}
	if m.current == ViewLogs && m.logs.searchActive {
		return m.handleLogSearchInput(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		return m, m.cycleTheme()

	case key.Matches(msg, m.keys.Tab):
		return m, m.switchView((m.current + 1) % View(len(viewNames)))

	case key.Matches(msg, m.keys.ShiftTab):
		return m, m.switchView((m.current + View(len(viewNames)) - 1) % View(len(viewNames)))

	case key.Matches(msg, m.keys.ViewDashboard):
		return m, m.switchView(ViewDashboard)
	case key.Matches(msg, m.keys.ViewBooks):
		return m, m.switchView(ViewBooks)
	case key.Matches(msg, m.keys.ViewSessions):
		return m, m.switchView(ViewSessions)
	case key.Matches(msg, m.keys.ViewStats):
		return m, m.switchView(ViewStats)
	case key.Matches(msg, m.keys.ViewWrapped):
		return m, m.switchView(ViewWrapped)
	case key.Matches(msg, m.keys.ViewLogs):
		return m, m.switchView(ViewLogs)

	case key.Matches(msg, m.keys.Reload):
		return m, m.startLoad(m.current)
	}

	switch m.current {
	case ViewDashboard:
		return m.handleDashboardKey(msg)
	case ViewBooks:
		return m.handleBooksKey(msg)
	case ViewSessions:
		return m.handleSessionsKey(msg)
	case ViewStats:
		return m.handleStatsKey(msg)
	case ViewWrapped:
		return m.handleWrappedKey(msg)
	case ViewLogs:
		return m.handleLogsKey(msg)
	}
	return m, nil
}

// switchView activates v and re-fetches its data.
func (m *Model) switchView(v View) tea.Cmd {
	m.current = v
	return m.startLoad(v)
}

// startLoad marks v as loading and returns the command fetching its data.
func (m *Model) startLoad(v View) tea.Cmd {
	m.markLoading(v)
	return m.fetchCmd(v)
}

func (m *Model) markLoading(v View) {
	switch v {
	case ViewDashboard:
		m.dash.loading = true
	case ViewBooks:
		m.books.loading = true
	case ViewSessions:
		m.sessions.loading = true
	case ViewStats:
		m.stats.loading = true
	case ViewWrapped:
		if m.wrapped.year == 0 {
			m.wrapped.year = m.defaultWrappedYear()
		}
		m.wrapped.loading = true
	case ViewLogs:
		m.logs.loading = true
	}
}

// fetchCmd returns the command that loads v's data without touching the
// model.
func (m Model) fetchCmd(v View) tea.Cmd {
	if m.client == nil && v != ViewLogs {
		return nil
	}
	switch v {
	case ViewDashboard:
		return fetchDashboardCmd(m.ctx, m.client, m.today())
	case ViewBooks:
		return fetchBooksCmd(m.ctx, m.client)
	case ViewSessions:
		return fetchSessionsCmd(m.ctx, m.client, m.sessions.book)
	case ViewStats:
		return fetchStatsCmd(m.ctx, m.client, m.stats.year)
	case ViewWrapped:
		return fetchWrappedCmd(m.ctx, m.client, m.wrapped.year)
	case ViewLogs:
		return fetchLogsCmd(m.logFile)
	}
	return nil
}

// cycleTheme switches to the next theme and persists the choice.
func (m *Model) cycleTheme() tea.Cmd {
	m.theme = GetTheme(NextTheme(m.theme.Name))
	m.logs.version++
	m.updateLogViewport()
	if m.prefsPath == "" {
		return nil
	}
	p := prefs.Prefs{Theme: m.theme.Name, StartView: m.startView}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.logger.Warn("save preferences failed", slog.String("error", err.Error()))
		m.pushToast(toastError, "Could not save theme: "+err.Error())
	}
	return nil
}

// handleTick processes the UI refresh tick.
func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	m.pruneToasts(now)

	var cmds []tea.Cmd
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	if m.current == ViewLogs && m.logs.follow && !m.logs.loading {
		cmds = append(cmds, fetchLogsCmd(m.logFile))
	}
	cmds = append(cmds, tickCmd(m.tick))
	return m, tea.Batch(cmds...)
}

// handleMutation finishes a create, update or delete started from a form or
// the confirm dialog.
func (m Model) handleMutation(msg mutationMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		text := errorText(msg.err)
		m.logger.Warn("request failed", slog.String("action", msg.action), slog.String("error", text))
		if m.form != nil {
			m.form.submitting = false
			m.form.applyError(msg.err)
		}
		m.pushToast(toastError, text)
		return m, nil
	}

	m.logger.Info(msg.action)
	m.form = nil
	m.pushToast(toastSuccess, msg.action)
	if msg.after != nil {
		msg.after(&m)
	}
	if m.refresh != nil {
		m.refresh()
	}
	return m, m.startLoad(m.current)
}

// renderMain renders the header, command bar, active view and footer.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderContent())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

// renderContent renders the main content area based on current view.
func (m Model) renderContent() string {
	switch m.current {
	case ViewDashboard:
		return m.renderDashboard()
	case ViewBooks:
		return m.renderBooks()
	case ViewSessions:
		return m.renderSessions()
	case ViewStats:
		return m.renderStats()
	case ViewWrapped:
		return m.renderWrapped()
	case ViewLogs:
		return m.renderLogs()
	default:
		return ""
	}
}

// errorText turns an error into the message shown to the user.
func errorText(err error) string {
	if err == nil {
		return ""
	}
	if apiErr, ok := tracker.AsError(err); ok {
		return apiErr.Message
	}
	return err.Error()
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

// mutationMsg reports the outcome of a write. after runs on success, before
// the current view reloads.
type mutationMsg struct {
	action string
	err    error
	after  func(*Model)
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

func mutationCmd(action string, run func() error, after func(*Model)) tea.Cmd {
	return func() tea.Msg {
		return mutationMsg{action: action, err: run(), after: after}
	}
}

// Run starts the Bubble Tea program and blocks until the user quits or the
// context is cancelled.
func Run(opts Options) error {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	p := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if err != nil && errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
