package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// contentHeight is the height of the view box, borders included.
func (m Model) contentHeight() int {
	h := m.height - chromeLines
	if h < 3 {
		return 3
	}
	return h
}

// innerSize returns the text area inside the view box.
func (m Model) innerSize() (width, height int) {
	width = m.width - 4
	if width < 10 {
		width = 10
	}
	return width, m.contentHeight() - 2
}

// renderBox frames body with a rounded border, the title on the first line.
func (m Model) renderBox(title, body string) string {
	styles := m.theme.Styles()
	width, height := m.innerSize()

	lines := []string{styles.AccentText.Bold(true).Render(title)}
	if body != "" {
		lines = append(lines, strings.Split(body, "\n")...)
	}
	if len(lines) > height {
		lines = lines[:height]
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Frame)).
		Padding(0, 1).
		Width(width + 2).
		Height(height).
		Render(strings.Join(lines, "\n"))
}

// renderState renders the loading, error and empty placeholders shared by
// the views. ok is false when the caller should render its data instead.
func (m Model) renderState(title string, ls loadState, empty bool, emptyText string) (string, bool) {
	styles := m.theme.Styles()
	switch {
	case ls.err != nil && !ls.loaded:
		body := styles.DangerText.Render("Could not load: "+errorText(ls.err)) + "\n\n" +
			styles.MutedText.Render("Press r to retry.")
		return m.renderBox(title, body), true
	case !ls.loaded:
		return m.renderBox(title, styles.MutedText.Render("Loading...")), true
	case empty:
		return m.renderBox(title, styles.MutedText.Render(emptyText)), true
	}
	return "", false
}

// loadState tracks one view's fetch.
type loadState struct {
	loading bool
	loaded  bool
	err     error
}

func (ls *loadState) finish(err error) {
	ls.loading = false
	ls.err = err
	if err == nil {
		ls.loaded = true
	}
}

// moveCursor applies a navigation key to a list cursor.
func (m Model) moveCursor(msg tea.KeyMsg, cursor, total, page int) int {
	if total == 0 {
		return 0
	}
	if page < 1 {
		page = 1
	}
	switch {
	case key.Matches(msg, m.keys.Down):
		cursor++
	case key.Matches(msg, m.keys.Up):
		cursor--
	case key.Matches(msg, m.keys.Top):
		cursor = 0
	case key.Matches(msg, m.keys.Bottom):
		cursor = total - 1
	case key.Matches(msg, m.keys.HalfPageDown):
		cursor += page / 2
	case key.Matches(msg, m.keys.HalfPageUp):
		cursor -= page / 2
	}
	return clamp(cursor, 0, total-1)
}

// moveScroll applies a navigation key to a scroll offset over total lines
// shown rows at a time.
func (m Model) moveScroll(msg tea.KeyMsg, offset, total, rows int) int {
	maxOffset := total - rows
	if maxOffset < 0 {
		maxOffset = 0
	}
	switch {
	case key.Matches(msg, m.keys.Down):
		offset++
	case key.Matches(msg, m.keys.Up):
		offset--
	case key.Matches(msg, m.keys.Top):
		offset = 0
	case key.Matches(msg, m.keys.Bottom):
		offset = maxOffset
	case key.Matches(msg, m.keys.HalfPageDown):
		offset += rows / 2
	case key.Matches(msg, m.keys.HalfPageUp):
		offset -= rows / 2
	}
	return clamp(offset, 0, maxOffset)
}

// visibleRange returns the slice bounds of a list window of rows lines that
// keeps cursor in view.
func visibleRange(cursor, total, rows int) (start, end int) {
	if rows <= 0 || total <= rows {
		return 0, total
	}
	start = cursor - rows + 1
	if start < 0 {
		start = 0
	}
	end = start + rows
	if end > total {
		end = total
		start = end - rows
	}
	return start, end
}

// scrollWindow returns at most rows lines starting at offset.
func scrollWindow(lines []string, offset, rows int) []string {
	if offset > len(lines) {
		offset = len(lines)
	}
	if offset < 0 {
		offset = 0
	}
	end := offset + rows
	if rows <= 0 || end > len(lines) {
		end = len(lines)
	}
	return lines[offset:end]
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
