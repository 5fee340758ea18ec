package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/five82/margin/internal/calendar"
	"github.com/five82/margin/internal/tracker"
)

type dashboardState struct {
	loadState
	basic   tracker.BasicStats
	daily   []tracker.DailyStats
	reading []tracker.Book
	recent  []tracker.SessionWithBook
	today   calendar.Date
	scroll  int
}

type dashboardMsg struct {
	basic   tracker.BasicStats
	daily   []tracker.DailyStats
	reading []tracker.Book
	recent  []tracker.SessionWithBook
	today   calendar.Date
	err     error
}

// fetchDashboardCmd loads the dashboard's four sources in parallel. The
// first failure cancels the rest.
func fetchDashboardCmd(ctx context.Context, client *tracker.Client, today calendar.Date) tea.Cmd {
	return func() tea.Msg {
		msg := dashboardMsg{today: today}
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			msg.basic, err = client.Stats().Basic(gctx, 0)
			return err
		})
		g.Go(func() error {
			var err error
			msg.daily, err = client.Stats().Daily(gctx, 0)
			return err
		})
		g.Go(func() error {
			books, err := client.Books().List(gctx)
			for _, b := range books {
				if !b.Finished() {
					msg.reading = append(msg.reading, b)
				}
			}
			return err
		})
		g.Go(func() error {
			var err error
			msg.recent, err = client.Sessions().Detailed(gctx)
			if len(msg.recent) > DashboardRecentSessions {
				msg.recent = msg.recent[:DashboardRecentSessions]
			}
			return err
		})
		msg.err = g.Wait()
		return msg
	}
}

func (m *Model) handleDashboard(msg dashboardMsg) {
	d := &m.dash
	d.finish(msg.err)
	if msg.err != nil {
		if d.loaded {
			m.pushToast(toastError, errorText(msg.err))
		}
		return
	}
	d.basic = msg.basic
	d.daily = msg.daily
	d.reading = msg.reading
	d.recent = msg.recent
	d.today = msg.today
}

func (m Model) handleDashboardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.New) {
		return m, m.openSessionForm(0)
	}
	_, rows := m.innerSize()
	m.dash.scroll = m.moveScroll(msg, m.dash.scroll, len(m.dashboardLines()), rows-1)
	return m, nil
}

// lastDays returns one chart entry per day for the n days ending at today,
// oldest first. Days without reading have a zero value.
func lastDays(daily []tracker.DailyStats, today calendar.Date, n int) []barEntry {
	byDate := make(map[calendar.Date]int, len(daily))
	for _, d := range daily {
		byDate[d.Date] += d.TotalMinutes
	}
	entries := make([]barEntry, 0, n)
	for i := n - 1; i >= 0; i-- {
		day := today.AddDays(-i)
		label := fmt.Sprintf("%s %s", day.Weekday().String()[:3], day.Time().Format("Jan 02"))
		entries = append(entries, barEntry{label: label, value: byDate[day]})
	}
	return entries
}

func (m Model) dashboardLines() []string {
	styles := m.theme.Styles()
	width, _ := m.innerSize()
	d := m.dash

	lines := []string{
		styles.MutedText.Render("Total read ") + styles.Text.Bold(true).Render(formatMinutes(d.basic.TotalMinutesRead)) +
			styles.FaintText.Render(fmt.Sprintf(" (%.2f h)", d.basic.TotalHoursRead)) + "   " +
			styles.MutedText.Render("Books finished ") + styles.SuccessText.Render(fmt.Sprintf("%d", d.basic.BooksFinished)) + "   " +
			styles.MutedText.Render("Current streak ") + styles.WarningText.Render(plural(d.basic.CurrentStreak, "day")),
	}
	if d.basic.MostReadAuthor != "" {
		lines = append(lines, styles.MutedText.Render("Most read author ")+styles.InfoText.Render(d.basic.MostReadAuthor))
	}

	lines = append(lines, "", styles.AccentText.Render(fmt.Sprintf("Last %d days", DashboardDays)))
	lines = append(lines, renderBars(lastDays(d.daily, d.today, DashboardDays), width, styles)...)

	lines = append(lines, "", styles.AccentText.Render("Currently reading"))
	if len(d.reading) == 0 {
		lines = append(lines, styles.FaintText.Render("Nothing in progress. Add a book with n in the Books view."))
	}
	for _, b := range d.reading {
		lines = append(lines, fmt.Sprintf("%s %s %s",
			styles.Text.Render(truncate(b.Title, 40)),
			styles.MutedText.Render(truncate(b.Author, 24)),
			styles.FaintText.Render(fmt.Sprintf("· %s", plural(b.DaysReading(d.today), "day"))),
		))
	}

	lines = append(lines, "", styles.AccentText.Render("Recent sessions"))
	if len(d.recent) == 0 {
		lines = append(lines, styles.FaintText.Render("No sessions logged yet."))
	}
	for _, s := range d.recent {
		lines = append(lines, fmt.Sprintf("%s  %s  %s",
			styles.FaintText.Render(s.Date.String()),
			styles.Text.Render(padRight(truncate(s.BookTitle, 40), 40)),
			styles.InfoText.Render(padLeft(formatMinutes(s.MinutesRead), 7)),
		))
	}
	return lines
}

func (m Model) renderDashboard() string {
	if out, ok := m.renderState("Dashboard", m.dash.loadState, false, ""); ok {
		return out
	}
	_, rows := m.innerSize()
	lines := scrollWindow(m.dashboardLines(), m.dash.scroll, rows-1)
	return m.renderBox("Dashboard", joinLines(lines))
}
