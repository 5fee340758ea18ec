package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/margin/internal/tracker"
)

type wrappedState struct {
	loadState
	year    int
	summary tracker.WrappedSummary
	scroll  int
}

type wrappedMsg struct {
	year    int
	summary tracker.WrappedSummary
	err     error
}

func fetchWrappedCmd(ctx context.Context, client *tracker.Client, year int) tea.Cmd {
	return func() tea.Msg {
		summary, err := client.Wrapped().Summary(ctx, year)
		return wrappedMsg{year: year, summary: summary, err: err}
	}
}

func (m *Model) handleWrapped(msg wrappedMsg) {
	w := &m.wrapped
	if msg.year != w.year {
		return
	}
	w.finish(msg.err)
	if msg.err != nil {
		if w.loaded {
			m.pushToast(toastError, errorText(msg.err))
		}
		return
	}
	w.summary = msg.summary
}

// defaultWrappedYear is the newest year with data, or the current year.
func (m Model) defaultWrappedYear() int {
	if len(m.snapshot.Years) > 0 {
		return m.snapshot.Years[0]
	}
	return m.today().Year()
}

// wrappedYears returns the selectable years, newest first. The shown year
// is always included.
func (m Model) wrappedYears() []int {
	years := append([]int(nil), m.snapshot.Years...)
	for _, y := range years {
		if y == m.wrapped.year {
			return years
		}
	}
	return append([]int{m.wrapped.year}, years...)
}

func (m Model) handleWrappedKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	delta := 0
	switch {
	case key.Matches(msg, m.keys.PrevYear):
		delta = 1
	case key.Matches(msg, m.keys.NextYear):
		delta = -1
	}
	if delta != 0 {
		year, changed := stepYear(m.wrappedYears(), m.wrapped.year, delta)
		if !changed {
			return m, nil
		}
		m.wrapped = wrappedState{year: year}
		return m, m.startLoad(ViewWrapped)
	}

	_, rows := m.innerSize()
	m.wrapped.scroll = m.moveScroll(msg, m.wrapped.scroll, len(m.wrappedLines()), rows-1)
	return m, nil
}

func (m Model) wrappedLines() []string {
	styles := m.theme.Styles()
	width, _ := m.innerSize()
	w := m.wrapped.summary

	section := func(title string) string { return styles.AccentText.Bold(true).Render(title) }
	label := func(text string) string { return styles.MutedText.Render(padRight(text, 22)) }
	value := func(text string) string { return styles.Text.Render(text) }

	var lines []string

	// Personality leads, as the headline of the year.
	p := w.Personality
	lines = append(lines,
		styles.Title.Render(titleCase(p.Type)),
		styles.MutedText.Render(p.Description),
		"",
	)

	g := w.GeneralStats
	lines = append(lines, section("The year in numbers"),
		label("Books finished")+styles.SuccessText.Render(strconv.Itoa(g.TotalBooksFinished)),
		label("Time read")+value(formatMinutes(g.TotalMinutes))+styles.FaintText.Render(fmt.Sprintf("  (%.1f hours)", g.TotalHours)),
		label("Days with reading")+value(strconv.Itoa(g.TotalDaysWithReading)),
		label("Average per day")+value(fmt.Sprintf("%.0f min", g.AverageMinutesPerActiveDay)),
		label("Longest streak")+styles.WarningText.Render(plural(g.LongestStreak, "day")),
		"",
	)

	pb := w.ProtagonistBook
	lines = append(lines, section("Protagonists"))
	if h := pb.MostReadByMinutes; h != nil {
		lines = append(lines, label("Most time spent")+value(h.Title)+styles.FaintText.Render("  "+formatMinutes(h.Minutes)))
	}
	if h := pb.MostSessions; h != nil {
		lines = append(lines, label("Most sessions")+value(h.Title)+styles.FaintText.Render("  "+plural(h.Sessions, "session")))
	}
	if b := pb.Fastest; b != nil {
		lines = append(lines, label("Fastest finish")+value(b.Title)+styles.FaintText.Render("  "+plural(b.Days, "day")))
	}
	if b := pb.Slowest; b != nil {
		lines = append(lines, label("Slowest finish")+value(b.Title)+styles.FaintText.Render("  "+plural(b.Days, "day")))
	}
	if pb.MostReadByMinutes == nil && pb.Fastest == nil {
		lines = append(lines, styles.FaintText.Render("No books read this year."))
	}
	lines = append(lines, "")

	a := w.Authors
	lines = append(lines, section("Authors"),
		label("Unique authors")+value(strconv.Itoa(a.UniqueAuthors)))
	if len(a.TopAuthors) > 0 {
		entries := make([]barEntry, len(a.TopAuthors))
		for i, au := range a.TopAuthors {
			entries[i] = barEntry{label: au.Name, value: au.Minutes}
		}
		lines = append(lines, renderBars(entries, width, styles)...)
	}
	lines = append(lines, "")

	h := w.Habits
	c := h.Classification
	lines = append(lines, section("Habits"),
		label("Average session")+value(fmt.Sprintf("%d min", h.AverageSessionDuration)),
		label("Favorite day")+value(h.FavoriteDay),
	)
	if bm := h.BestMonth; bm != nil {
		lines = append(lines, label("Best month")+value(bm.Name)+styles.FaintText.Render("  "+formatMinutes(bm.Minutes)))
	}
	lines = append(lines, renderBars([]barEntry{
		{label: "Short (<20m)", value: c.Short, note: fmt.Sprintf("%d · %.0f%%", c.Short, c.ShortPercentage)},
		{label: "Medium (20-45m)", value: c.Medium, note: fmt.Sprintf("%d · %.0f%%", c.Medium, c.MediumPercentage)},
		{label: "Long (>45m)", value: c.Long, note: fmt.Sprintf("%d · %.0f%%", c.Long, c.LongPercentage)},
	}, width, styles)...)
	lines = append(lines, "")

	if d := w.BiggestDay; d != nil {
		lines = append(lines, section("Biggest day"),
			value(d.Date.Time().Format("Monday, January 2"))+
				styles.FaintText.Render(fmt.Sprintf("  %s in %s", formatMinutes(d.Minutes), plural(d.Sessions, "session"))),
			"")
	}

	st := w.Status
	lines = append(lines, section("Status"),
		label("Started")+value(strconv.Itoa(st.BooksStarted)),
		label("Finished")+styles.SuccessText.Render(strconv.Itoa(st.BooksFinished)),
		label("Still reading")+value(strconv.Itoa(st.CurrentlyReading)),
		label("Completion rate")+value(fmt.Sprintf("%.1f%%", st.CompletionRate)),
	)
	for _, b := range st.LongestInReading {
		lines = append(lines, styles.FaintText.Render("  · ")+value(b.Title)+styles.FaintText.Render(fmt.Sprintf("  %s open", plural(b.Days, "day"))))
	}
	return lines
}

func (m Model) renderWrapped() string {
	title := fmt.Sprintf("Wrapped · %d", m.wrapped.year)
	if out, ok := m.renderState(title, m.wrapped.loadState, false, ""); ok {
		return out
	}
	_, rows := m.innerSize()
	return m.renderBox(title, joinLines(scrollWindow(m.wrappedLines(), m.wrapped.scroll, rows-1)))
}

// titleCase turns "constant_reader" into "Constant Reader".
func titleCase(value string) string {
	parts := strings.Split(strings.TrimSpace(value), "_")
	for i, part := range parts {
		if part == "" {
			continue
		}
		lower := strings.ToLower(part)
		parts[i] = strings.ToUpper(lower[:1]) + lower[1:]
	}
	return strings.Join(parts, " ")
}
