package ui

import (
	"fmt"
	"time"
)

type toastLevel int

const (
	toastInfo toastLevel = iota
	toastSuccess
	toastError
)

const maxToasts = 3

// toast is a transient notification shown in the footer.
type toast struct {
	text    string
	level   toastLevel
	expires time.Time
}

// pushToast queues a notification. Only the newest few are kept.
func (m *Model) pushToast(level toastLevel, text string) {
	m.toasts = append(m.toasts, toast{
		text:    text,
		level:   level,
		expires: m.now().Add(ToastDuration),
	})
	if len(m.toasts) > maxToasts {
		m.toasts = m.toasts[len(m.toasts)-maxToasts:]
	}
}

// pruneToasts drops notifications that have expired by now.
func (m *Model) pruneToasts(now time.Time) {
	kept := m.toasts[:0]
	for _, t := range m.toasts {
		if now.Before(t.expires) {
			kept = append(kept, t)
		}
	}
	m.toasts = kept
}

// renderFooter shows the newest toast, or nothing.
func (m Model) renderFooter() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	if len(m.toasts) == 0 {
		return styles.Header.Width(m.width).Render("")
	}
	t := m.toasts[len(m.toasts)-1]

	var content string
	switch t.level {
	case toastError:
		content = bg.Render("✗", styles.DangerText) + bg.Space() + bg.Render(t.text, styles.DangerText)
	case toastSuccess:
		content = bg.Render("✓", styles.SuccessText) + bg.Space() + bg.Render(t.text, styles.Text)
	default:
		content = bg.Render("•", styles.InfoText) + bg.Space() + bg.Render(t.text, styles.Text)
	}
	if n := len(m.toasts) - 1; n > 0 {
		content += bg.Spaces(2) + bg.Render(fmt.Sprintf("+%d", n), styles.FaintText)
	}
	return styles.Header.Width(m.width).Render(content)
}
