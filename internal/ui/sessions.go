package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/margin/internal/tracker"
)

type sessionsState struct {
	loadState
	items  []tracker.SessionWithBook
	cursor int
	book   *tracker.Book // non-nil when showing one book's sessions
}

type sessionsMsg struct {
	bookID int64
	items  []tracker.SessionWithBook
	err    error
}

// fetchSessionsCmd loads every session joined with its book, or only the
// sessions of book when it is set.
func fetchSessionsCmd(ctx context.Context, client *tracker.Client, book *tracker.Book) tea.Cmd {
	if book == nil {
		return func() tea.Msg {
			items, err := client.Sessions().Detailed(ctx)
			return sessionsMsg{items: items, err: err}
		}
	}
	b := *book
	return func() tea.Msg {
		sessions, err := client.Books().Sessions(ctx, b.ID)
		items := make([]tracker.SessionWithBook, len(sessions))
		for i, s := range sessions {
			items[i] = tracker.SessionWithBook{Session: s, BookTitle: b.Title, BookAuthor: b.Author}
		}
		return sessionsMsg{bookID: b.ID, items: items, err: err}
	}
}

func (m *Model) handleSessions(msg sessionsMsg) {
	s := &m.sessions
	if msg.bookID != s.filterID() {
		return // stale response for a previous filter
	}
	s.finish(msg.err)
	if msg.err != nil {
		if s.loaded {
			m.pushToast(toastError, errorText(msg.err))
		}
		return
	}
	s.items = msg.items
	s.cursor = clamp(s.cursor, 0, len(s.items)-1)
}

func (s sessionsState) filterID() int64 {
	if s.book == nil {
		return 0
	}
	return s.book.ID
}

func (m Model) handleSessionsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys
	switch {
	case key.Matches(msg, k.New):
		return m, m.openSessionForm(m.sessions.filterID())

	case key.Matches(msg, k.Escape):
		if m.sessions.book != nil {
			m.sessions = sessionsState{}
			return m, m.startLoad(ViewSessions)
		}
		return m, nil

	case key.Matches(msg, k.Delete):
		if m.sessions.cursor < len(m.sessions.items) {
			m.confirmDeleteSession(m.sessions.items[m.sessions.cursor])
		}
		return m, nil
	}

	_, rows := m.innerSize()
	m.sessions.cursor = m.moveCursor(msg, m.sessions.cursor, len(m.sessions.items), rows-2)
	return m, nil
}

func (m *Model) confirmDeleteSession(s tracker.SessionWithBook) {
	ctx, client := m.ctx, m.client
	m.confirm = &confirmState{
		prompt: fmt.Sprintf("Delete the %s session of %s?", formatMinutes(s.MinutesRead), s.Date),
		detail: s.BookTitle,
		run: mutationCmd("Session deleted", func() error {
			return client.Sessions().Delete(ctx, s.ID)
		}, nil),
	}
}

func (m Model) renderSessions() string {
	title := fmt.Sprintf("Sessions (%d)", len(m.sessions.items))
	empty := "No sessions logged yet. Press n to log one."
	if b := m.sessions.book; b != nil {
		title = fmt.Sprintf("Sessions of %s (%d)", truncate(b.Title, 40), len(m.sessions.items))
		empty = "No sessions for this book. Press n to log one, esc for all sessions."
	}
	if out, ok := m.renderState(title, m.sessions.loadState, len(m.sessions.items) == 0, empty); ok {
		return out
	}

	styles := m.theme.Styles()
	width, rows := m.innerSize()

	titleW := width - 10 - 8 - 4
	authorW := 0
	if m.width >= LayoutWideWidth {
		authorW = 24
		titleW -= authorW + 2
	}
	if titleW < 12 {
		titleW = 12
	}

	header := padRight("Date", 10) + "  " + padRight("Book", titleW)
	if authorW > 0 {
		header += "  " + padRight("Author", authorW)
	}
	header += "  " + padLeft("Time", 8)
	lines := []string{styles.FaintText.Render(header)}

	total := 0
	for _, s := range m.sessions.items {
		total += s.MinutesRead
	}

	start, end := visibleRange(m.sessions.cursor, len(m.sessions.items), rows-3)
	for i := start; i < end; i++ {
		s := m.sessions.items[i]
		row := padRight(s.Date.String(), 10) + "  " + padRight(truncate(s.BookTitle, titleW), titleW)
		if authorW > 0 {
			row += "  " + padRight(truncate(s.BookAuthor, authorW), authorW)
		}
		row += "  " + padLeft(formatMinutes(s.MinutesRead), 8)
		if i == m.sessions.cursor {
			lines = append(lines, styles.Selected.Render(row))
		} else {
			lines = append(lines, styles.Text.Render(row))
		}
	}
	lines = append(lines, styles.FaintText.Render(fmt.Sprintf("Total %s over %s",
		formatMinutes(total), plural(len(m.sessions.items), "session"))))
	return m.renderBox(title, joinLines(lines))
}
