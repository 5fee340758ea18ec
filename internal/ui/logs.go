package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/margin/internal/logtail"
)

// Level filter cycle; empty shows everything.
var logLevels = []string{"", "INFO", "WARN", "ERROR"}

// logState holds all log-related state.
type logState struct {
	loading bool
	records []logtail.Record
	err     error
	follow  bool

	minLevel string

	// Search
	searchActive bool
	searchInput  textinput.Model
	query        string

	// Bumped whenever the rendered content would change.
	version  uint64
	rendered uint64
}

type logsMsg struct {
	records []logtail.Record
	err     error
}

func newLogState() logState {
	ti := textinput.New()
	ti.Placeholder = "Search logs..."
	ti.CharLimit = 100
	ti.Cursor.SetMode(cursor.CursorStatic)
	return logState{follow: true, searchInput: ti}
}

func fetchLogsCmd(path string) tea.Cmd {
	return func() tea.Msg {
		if path == "" {
			return logsMsg{}
		}
		records, err := logtail.ReadRecords(path, LogReadLimit)
		return logsMsg{records: records, err: err}
	}
}

func (m *Model) handleLogs(msg logsMsg) {
	m.logs.loading = false
	m.logs.err = msg.err
	if msg.err == nil {
		m.logs.records = msg.records
	}
	m.logs.version++
	m.updateLogViewport()
}

// visibleRecords applies the level filter and search query.
func (s logState) visibleRecords() []logtail.Record {
	query := strings.ToLower(s.query)
	out := make([]logtail.Record, 0, len(s.records))
	for _, r := range s.records {
		if s.minLevel != "" && !logtail.AtLeast(r, s.minLevel) {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(r.Raw), query) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// updateLogViewport resizes the viewport and re-renders content when it
// changed.
func (m *Model) updateLogViewport() {
	width, height := m.innerSize()
	if m.logViewport.Width == 0 {
		m.logViewport = viewport.New(width, height-2)
	}
	m.logViewport.Width = width
	m.logViewport.Height = height - 2

	if m.logs.rendered == 0 || m.logs.version != m.logs.rendered {
		m.logViewport.SetContent(m.renderLogContent(width))
		m.logs.rendered = m.logs.version
	}
	if m.logs.follow {
		m.logViewport.GotoBottom()
	}
}

func (m Model) renderLogContent(width int) string {
	styles := m.theme.Styles()
	if m.logs.err != nil {
		return styles.DangerText.Render("Could not read log file: " + m.logs.err.Error())
	}
	records := m.logs.visibleRecords()
	if len(records) == 0 {
		return styles.MutedText.Render("No log entries")
	}

	var b strings.Builder
	for i, r := range records {
		line := truncate(logtail.Format(r, "app"), width)
		b.WriteString(m.levelStyle(r.Level, styles).Render(line))
		if i < len(records)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) levelStyle(level string, styles Styles) lipgloss.Style {
	switch strings.ToUpper(level) {
	case "ERROR":
		return styles.DangerText
	case "WARN":
		return styles.WarningText
	case "DEBUG":
		return styles.FaintText
	default:
		return styles.Text
	}
}

func levelLabel(level string) string {
	if level == "" {
		return "all"
	}
	return strings.ToLower(level) + "+"
}

func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ToggleFollow):
		m.logs.follow = !m.logs.follow
		m.updateLogViewport()
		return m, nil

	case key.Matches(msg, m.keys.CycleLevel):
		for i, lvl := range logLevels {
			if lvl == m.logs.minLevel {
				m.logs.minLevel = logLevels[(i+1)%len(logLevels)]
				break
			}
		}
		m.logs.version++
		m.updateLogViewport()
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.logs.searchActive = true
		m.logs.searchInput.SetValue(m.logs.query)
		m.logs.searchInput.Focus()
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		if m.logs.query != "" {
			m.logs.query = ""
			m.logs.version++
			m.updateLogViewport()
		}
		return m, nil

	case key.Matches(msg, m.keys.Top):
		m.logViewport.GotoTop()
		m.logs.follow = false
	case key.Matches(msg, m.keys.Bottom):
		m.logViewport.GotoBottom()
		m.logs.follow = true
	case key.Matches(msg, m.keys.Down):
		m.logViewport.ScrollDown(1)
		m.logs.follow = false
	case key.Matches(msg, m.keys.Up):
		m.logViewport.ScrollUp(1)
		m.logs.follow = false
	case key.Matches(msg, m.keys.HalfPageDown):
		m.logViewport.HalfPageDown()
		m.logs.follow = false
	case key.Matches(msg, m.keys.HalfPageUp):
		m.logViewport.HalfPageUp()
		m.logs.follow = false
	}
	return m, nil
}

// handleLogSearchInput handles keyboard input while typing a search.
func (m Model) handleLogSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.logs.query = strings.TrimSpace(m.logs.searchInput.Value())
		m.logs.searchActive = false
		m.logs.searchInput.Blur()
		m.logs.version++
		m.updateLogViewport()
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		m.logs.searchActive = false
		m.logs.searchInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.logs.searchInput, cmd = m.logs.searchInput.Update(msg)
	return m, cmd
}

func (m Model) renderLogs() string {
	styles := m.theme.Styles()
	title := "Logs"
	if m.logFile != "" {
		title += " · " + m.logFile
	}

	visible := len(m.logs.visibleRecords())
	follow := "off"
	if m.logs.follow {
		follow = "on"
	}
	status := styles.FaintText.Render(fmt.Sprintf("%d of %d lines · level %s · follow %s",
		visible, len(m.logs.records), levelLabel(m.logs.minLevel), follow))
	if m.logs.searchActive {
		status = styles.AccentText.Render("search: ") + m.logs.searchInput.View()
	} else if m.logs.query != "" {
		status += styles.AccentText.Render("  /" + m.logs.query)
	}

	return m.renderBox(title, m.logViewport.View()+"\n"+status)
}
