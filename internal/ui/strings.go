package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/five82/margin/internal/calendar"
)

// truncate shortens a string to the given rune limit, adding an ellipsis if
// needed.
func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}

// padRight pads a string with spaces to the given width.
func padRight(s string, width int) string {
	if width <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(r))
}

// padLeft right-aligns s within width.
func padLeft(s string, width int) string {
	r := []rune(s)
	if len(r) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(r)) + s
}

// formatMinutes renders a reading time as "45m", "2h" or "2h 15m".
func formatMinutes(minutes int) string {
	if minutes <= 0 {
		return "0m"
	}
	h, m := minutes/60, minutes%60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh %dm", h, m)
	}
}

// formatDate renders a date, or a dash when unset.
func formatDate(d calendar.Date) string {
	if d.IsZero() {
		return "-"
	}
	return d.String()
}

// formatAgo renders t relative to now, e.g. "15:04:05 (3m ago)".
func formatAgo(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	since := now.Sub(t)
	stamp := t.Format("15:04:05")
	switch {
	case since < time.Minute:
		return stamp + " (now)"
	case since < time.Hour:
		return fmt.Sprintf("%s (%dm ago)", stamp, int(since.Minutes()))
	case since < 24*time.Hour:
		return fmt.Sprintf("%s (%dh ago)", stamp, int(since.Hours()))
	default:
		return stamp
	}
}

// plural returns "1 book" or "3 books".
func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// yearLabel renders a stats year filter; zero means all time.
func yearLabel(year int) string {
	if year == 0 {
		return "All time"
	}
	return fmt.Sprintf("%d", year)
}

func joinLines(lines []string) string {
	return strings.Join(lines, "\n")
}
