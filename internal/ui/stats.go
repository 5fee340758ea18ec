package ui

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/margin/internal/tracker"
)

type statsState struct {
	loadState
	year    int // 0 = all time
	summary tracker.SummaryStats
	scroll  int
}

type statsMsg struct {
	year    int
	summary tracker.SummaryStats
	err     error
}

func fetchStatsCmd(ctx context.Context, client *tracker.Client, year int) tea.Cmd {
	return func() tea.Msg {
		summary, err := client.Stats().Summary(ctx, year)
		return statsMsg{year: year, summary: summary, err: err}
	}
}

func (m *Model) handleStats(msg statsMsg) {
	s := &m.stats
	if msg.year != s.year {
		return
	}
	s.finish(msg.err)
	if msg.err != nil {
		if s.loaded {
			m.pushToast(toastError, errorText(msg.err))
		}
		return
	}
	s.summary = msg.summary
}

// stepYear moves through choices (newest first) by delta and reports
// whether the selection changed. "[" steps to older years.
func stepYear(choices []int, current, delta int) (int, bool) {
	if len(choices) == 0 {
		return current, false
	}
	idx := -1
	for i, y := range choices {
		if y == current {
			idx = i
			break
		}
	}
	next := clamp(idx+delta, 0, len(choices)-1)
	if idx == -1 {
		next = 0
	}
	if choices[next] == current {
		return current, false
	}
	return choices[next], true
}

// statsYears is "all time" followed by the years with data.
func (m Model) statsYears() []int {
	return append([]int{0}, m.snapshot.Years...)
}

func (m Model) handleStatsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	delta := 0
	switch {
	case key.Matches(msg, m.keys.PrevYear):
		delta = 1
	case key.Matches(msg, m.keys.NextYear):
		delta = -1
	}
	if delta != 0 {
		year, changed := stepYear(m.statsYears(), m.stats.year, delta)
		if !changed {
			return m, nil
		}
		m.stats = statsState{year: year}
		return m, m.startLoad(ViewStats)
	}

	_, rows := m.innerSize()
	m.stats.scroll = m.moveScroll(msg, m.stats.scroll, len(m.statsLines()), rows-1)
	return m, nil
}

func (m Model) statsLines() []string {
	styles := m.theme.Styles()
	width, _ := m.innerSize()
	s := m.stats.summary

	label := func(text string) string { return styles.MutedText.Render(padRight(text, 18)) }

	lines := []string{
		label("Reading time") + styles.Text.Bold(true).Render(formatMinutes(s.TotalMinutesRead)) +
			styles.FaintText.Render(fmt.Sprintf("  (%.2f hours)", s.TotalHoursRead)),
		label("Books finished") + styles.SuccessText.Render(strconv.Itoa(s.BooksFinished)),
		label("Current streak") + styles.WarningText.Render(plural(s.CurrentStreak, "day")) +
			styles.FaintText.Render(fmt.Sprintf("  (best %s)", plural(s.MaxStreak, "day"))),
	}
	if b := s.MostReadBook; b != nil {
		lines = append(lines, label("Most read book")+styles.Text.Render(b.Title)+
			styles.FaintText.Render(fmt.Sprintf("  %s, %s", b.Author, formatMinutes(b.TotalMinutes))))
	}
	if s.MostReadAuthor != "" {
		lines = append(lines, label("Most read author")+styles.InfoText.Render(s.MostReadAuthor))
	}

	if len(s.BookStats) > 0 {
		lines = append(lines, "", styles.AccentText.Render("Time per book"))
		entries := make([]barEntry, 0, StatsChartRows)
		for i, b := range s.BookStats {
			if i == StatsChartRows {
				break
			}
			entries = append(entries, barEntry{label: b.Title, value: b.TotalMinutes})
		}
		lines = append(lines, renderBars(entries, width, styles)...)
	}

	if len(s.DailyStats) > 0 {
		lines = append(lines, "", styles.AccentText.Render("Most recent reading days"))
		entries := make([]barEntry, 0, StatsChartRows)
		for i, d := range s.DailyStats {
			if i == StatsChartRows {
				break
			}
			entries = append(entries, barEntry{label: d.Date.String(), value: d.TotalMinutes})
		}
		lines = append(lines, renderBars(entries, width, styles)...)
	}

	if len(s.BooksFinishedByYear) > 0 {
		lines = append(lines, "", styles.AccentText.Render("Books finished per year"))
		entries := make([]barEntry, len(s.BooksFinishedByYear))
		for i, y := range s.BooksFinishedByYear {
			entries[i] = barEntry{label: strconv.Itoa(y.Year), value: y.BooksFinished, note: plural(y.BooksFinished, "book")}
		}
		lines = append(lines, renderBars(entries, width, styles)...)
	}
	return lines
}

func (m Model) renderStats() string {
	title := "Stats · " + yearLabel(m.stats.year)
	empty := m.stats.summary.TotalMinutesRead == 0 && m.stats.summary.BooksFinished == 0
	if out, ok := m.renderState(title, m.stats.loadState, empty, "No reading recorded for this period."); ok {
		return out
	}
	_, rows := m.innerSize()
	return m.renderBox(title, joinLines(scrollWindow(m.statsLines(), m.stats.scroll, rows-1)))
}
