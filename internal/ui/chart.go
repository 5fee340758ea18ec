package ui

import (
	"strings"
)

const (
	barFull  = "█"
	barTrack = "░"
)

// barEntry is one row of a horizontal bar chart.
type barEntry struct {
	label string
	value int
	note  string // printed after the bar; defaults to the formatted minutes
}

// barLength scales value into width cells against max. Any positive value
// gets at least one cell.
func barLength(value, max, width int) int {
	if value <= 0 || max <= 0 || width <= 0 {
		return 0
	}
	if value >= max {
		return width
	}
	n := value * width / max
	if n == 0 {
		n = 1
	}
	return n
}

// renderBars draws a horizontal bar chart width cells wide, one line per
// entry, bars scaled to the largest value.
func renderBars(entries []barEntry, width int, styles Styles) []string {
	if len(entries) == 0 {
		return nil
	}

	labelWidth, noteWidth, max := 0, 0, 0
	notes := make([]string, len(entries))
	for i, e := range entries {
		if n := len([]rune(e.label)); n > labelWidth {
			labelWidth = n
		}
		notes[i] = e.note
		if notes[i] == "" {
			notes[i] = formatMinutes(e.value)
		}
		if n := len([]rune(notes[i])); n > noteWidth {
			noteWidth = n
		}
		if e.value > max {
			max = e.value
		}
	}
	if labelWidth > 24 {
		labelWidth = 24
	}

	barWidth := width - labelWidth - noteWidth - 2
	if barWidth < 4 {
		barWidth = 4
	}

	lines := make([]string, len(entries))
	for i, e := range entries {
		filled := barLength(e.value, max, barWidth)
		lines[i] = styles.MutedText.Render(padRight(truncate(e.label, labelWidth), labelWidth)) + " " +
			styles.Bar.Render(strings.Repeat(barFull, filled)) +
			styles.BarEmpty.Render(strings.Repeat(barTrack, barWidth-filled)) + " " +
			styles.Text.Render(padLeft(notes[i], noteWidth))
	}
	return lines
}
