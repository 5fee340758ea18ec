package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/margin/internal/tracker"
)

// renderHeader renders the status bar: logo, view tabs and the heartbeat
// numbers, or the offline banner.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < LayoutCompactWidth
	sep := bg.Spaces(2)

	parts := []string{bg.Render("margin", styles.Title), m.renderTabs(styles, bg, compact)}

	snap := m.snapshot
	switch {
	case snap.IsOffline():
		parts = append(parts,
			bg.Render("● "+connectionLabel(snap.LastError), styles.DangerText),
			bg.Render("Retrying...", styles.WarningText.Bold(true)),
		)
		if !compact && snap.LastError != nil {
			parts = append(parts, bg.Render(truncate(errorText(snap.LastError), 50), styles.MutedText))
		}
	case !snap.HasStats && snap.LastError == nil:
		parts = append(parts, bg.Render("Connecting...", styles.WarningText.Bold(true)))
	default:
		parts = append(parts, m.renderHeartbeat(styles, bg, compact))
		if snap.LastError != nil {
			parts = append(parts, bg.Render("!", styles.WarningText.Bold(true)))
		}
	}

	if ts := formatAgo(snap.LastUpdated, m.now()); ts != "" && !compact {
		parts = append(parts, bg.Render(ts, styles.FaintText))
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Foreground(lipgloss.Color(m.theme.Text)).
		Padding(0, 1).
		Width(m.width).
		Render(strings.Join(parts, sep))
}

// renderTabs renders "1 Dashboard 2 Books ..." with the active view
// highlighted.
func (m Model) renderTabs(styles Styles, bg BgStyle, compact bool) string {
	tabs := make([]string, len(viewTitles))
	for i, title := range viewTitles {
		label := title
		if compact {
			label = title[:1]
		}
		num := bg.Render(fmt.Sprintf("%d", i+1), styles.FaintText)
		if View(i) == m.current {
			tabs[i] = num + bg.Space() + bg.Render(label, styles.AccentText.Bold(true))
		} else {
			tabs[i] = num + bg.Space() + bg.Render(label, styles.MutedText)
		}
	}
	return strings.Join(tabs, bg.Space())
}

// renderHeartbeat renders the all-time numbers from the poller.
func (m Model) renderHeartbeat(styles Styles, bg BgStyle, compact bool) string {
	s := m.snapshot.Stats
	parts := []string{
		bg.Render("Read:", styles.MutedText) + bg.Space() + bg.Render(formatMinutes(s.TotalMinutesRead), styles.Text),
		bg.Render("Finished:", styles.MutedText) + bg.Space() + bg.Render(fmt.Sprintf("%d", s.BooksFinished), styles.SuccessText),
	}
	streakStyle := styles.MutedText
	if s.CurrentStreak > 0 {
		streakStyle = styles.WarningText
	}
	parts = append(parts,
		bg.Render("Streak:", styles.MutedText)+bg.Space()+bg.Render(fmt.Sprintf("%dd", s.CurrentStreak), streakStyle))
	if !compact && s.MostReadAuthor != "" {
		parts = append(parts,
			bg.Render("Top author:", styles.MutedText)+bg.Space()+bg.Render(truncate(s.MostReadAuthor, 24), styles.InfoText))
	}
	return strings.Join(parts, bg.Spaces(2))
}

// connectionLabel returns a short description of a heartbeat failure.
func connectionLabel(err error) string {
	apiErr, ok := tracker.AsError(err)
	if !ok {
		return "OFFLINE"
	}
	switch apiErr.Kind {
	case tracker.KindTimeout:
		return "TIMEOUT"
	case tracker.KindHTTP5xx:
		return "SERVER ERROR"
	case tracker.KindHTTP4xx:
		return "API ERROR"
	default:
		return "OFFLINE"
	}
}

type cmdHint struct{ key, desc string }

// renderCommandBar renders the key hints for the active view.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	k := m.keys

	var hints []cmdHint
	switch m.current {
	case ViewBooks:
		hints = []cmdHint{
			helpHint(k.New, "New"), helpHint(k.Edit, "Edit"), helpHint(k.Finish, "Finish"),
			helpHint(k.Delete, ""), helpHint(k.Open, "Sessions"), {"j/k", "Navigate"},
		}
	case ViewSessions:
		hints = []cmdHint{helpHint(k.New, "Log session"), helpHint(k.Delete, ""), {"j/k", "Navigate"}}
		if m.sessions.book != nil {
			hints = append(hints, helpHint(k.Escape, "All sessions"))
		}
	case ViewStats, ViewWrapped:
		hints = []cmdHint{{"[/]", "Year"}, {"j/k", "Scroll"}}
	case ViewLogs:
		follow := "Pause"
		if !m.logs.follow {
			follow = "Follow"
		}
		hints = []cmdHint{
			helpHint(k.ToggleFollow, follow),
			helpHint(k.CycleLevel, "Level "+levelLabel(m.logs.minLevel)),
			helpHint(k.Search, "Search"),
		}
	default:
		hints = []cmdHint{helpHint(k.New, "Log session"), {"j/k", "Scroll"}}
	}
	hints = append(hints, helpHint(k.Reload, ""), cmdHint{"?", "More"}, helpHint(k.Quit, ""))

	colon := bg.Sep(":")
	segments := make([]string, 0, len(hints)+2)
	for _, h := range hints {
		segments = append(segments, bg.Render(h.key, styles.AccentText)+colon+bg.Render(h.desc, styles.MutedText))
	}

	if m.current == ViewLogs && m.logs.query != "" {
		segments = append(segments, bg.Render("/"+truncate(m.logs.query, 18), styles.AccentText))
	}
	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, bg.Spaces(2)))
}
