package ui

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/margin/internal/tracker"
)

type booksState struct {
	loadState
	items  []tracker.Book
	cursor int
}

type booksMsg struct {
	items []tracker.Book
	err   error
}

func fetchBooksCmd(ctx context.Context, client *tracker.Client) tea.Cmd {
	return func() tea.Msg {
		items, err := client.Books().List(ctx)
		return booksMsg{items: items, err: err}
	}
}

func (m *Model) handleBooks(msg booksMsg) {
	b := &m.books
	b.finish(msg.err)
	if msg.err != nil {
		if b.loaded {
			m.pushToast(toastError, errorText(msg.err))
		}
		return
	}
	b.items = msg.items
	b.cursor = clamp(b.cursor, 0, len(b.items)-1)
}

// selectedBook returns the book under the cursor, or nil.
func (m Model) selectedBook() *tracker.Book {
	if m.books.cursor < 0 || m.books.cursor >= len(m.books.items) {
		return nil
	}
	b := m.books.items[m.books.cursor]
	return &b
}

func (m Model) handleBooksKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys
	if key.Matches(msg, k.New) {
		return m, m.openNewBookForm()
	}

	book := m.selectedBook()
	switch {
	case book == nil:
	case key.Matches(msg, k.Edit):
		return m, m.openEditBookForm(*book)
	case key.Matches(msg, k.Finish):
		if book.Finished() {
			m.pushToast(toastInfo, fmt.Sprintf("%q is already finished", book.Title))
			return m, nil
		}
		return m, m.openFinishForm(*book)
	case key.Matches(msg, k.Delete):
		m.confirmDeleteBook(*book)
		return m, nil
	case key.Matches(msg, k.Open):
		m.sessions = sessionsState{book: book}
		return m, m.switchView(ViewSessions)
	}

	_, rows := m.innerSize()
	m.books.cursor = m.moveCursor(msg, m.books.cursor, len(m.books.items), rows-2)
	return m, nil
}

func (m *Model) confirmDeleteBook(book tracker.Book) {
	ctx, client := m.ctx, m.client
	m.confirm = &confirmState{
		prompt: fmt.Sprintf("Delete %q?", book.Title),
		detail: "Books with reading sessions cannot be deleted.",
		run: mutationCmd("Book deleted", func() error {
			return client.Books().Delete(ctx, book.ID)
		}, nil),
	}
}

func (m Model) renderBooks() string {
	title := fmt.Sprintf("Books (%d)", len(m.books.items))
	if out, ok := m.renderState(title, m.books.loadState, len(m.books.items) == 0,
		"No books yet. Press n to add one."); ok {
		return out
	}

	styles := m.theme.Styles()
	width, rows := m.innerSize()
	today := m.today()
	wide := m.width >= LayoutWideWidth

	titleW := width - 24 - 12 - 10
	if wide {
		titleW -= 24
	}
	if titleW < 12 {
		titleW = 12
	}

	header := padRight("Title", titleW) + " " + padRight("Author", 23) + " " + padRight("Status", 11) + " " + padLeft("Days", 6)
	if wide {
		header += "  " + padRight("Started", 10) + "  " + padRight("Finished", 10)
	}
	lines := []string{styles.FaintText.Render(header)}

	start, end := visibleRange(m.books.cursor, len(m.books.items), rows-2)
	for i := start; i < end; i++ {
		b := m.books.items[i]
		row := padRight(truncate(b.Title, titleW), titleW) + " " + padRight(truncate(b.Author, 23), 23) + " "
		status := styles.StatusStyle(b.Status).Render(padRight(b.Status, 11))
		rest := " " + padLeft(strconv.Itoa(b.DaysReading(today)), 6)
		if wide {
			rest += "  " + padRight(formatDate(b.StartDate), 10) + "  " + padRight(formatDate(b.EndDate), 10)
		}
		if i == m.books.cursor {
			lines = append(lines, styles.Selected.Render(row)+status+styles.Selected.Render(rest))
		} else {
			lines = append(lines, styles.Text.Render(row)+status+styles.MutedText.Render(rest))
		}
	}
	return m.renderBox(title, joinLines(lines))
}
