package ui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

const sampleLog = `{"time":"2024-03-02T09:00:00Z","level":"INFO","msg":"margin starting","app":"margin"}
{"time":"2024-03-02T09:00:01Z","level":"DEBUG","msg":"request finished","path":"/books"}
{"time":"2024-03-02T09:00:02Z","level":"WARN","msg":"heartbeat poll failed","error":"request timed out"}
{"time":"2024-03-02T09:00:03Z","level":"ERROR","msg":"save preferences failed"}
`

func writeLog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "margin.log")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}
	return path
}

func TestLogsViewFilters(t *testing.T) {
	path := writeLog(t, sampleLog)
	m, _ := newTestModel(t, func(o *Options) { o.LogFile = path })

	m = press(t, m, runes("6"))
	if m.current != ViewLogs {
		t.Fatalf("current = %v, want logs", m.current)
	}
	if len(m.logs.records) != 4 || m.logs.err != nil {
		t.Fatalf("records = %d err %v, want 4", len(m.logs.records), m.logs.err)
	}
	if !m.logs.follow {
		t.Fatal("logs should follow by default")
	}

	m = press(t, m, runes("v"))
	if m.logs.minLevel != "INFO" || len(m.logs.visibleRecords()) != 3 {
		t.Fatalf("level %q shows %d records, want INFO and 3", m.logs.minLevel, len(m.logs.visibleRecords()))
	}
	m = press(t, m, runes("v"))
	if m.logs.minLevel != "WARN" || len(m.logs.visibleRecords()) != 2 {
		t.Fatalf("level %q shows %d records, want WARN and 2", m.logs.minLevel, len(m.logs.visibleRecords()))
	}

	m = press(t, m, runes("/"))
	if !m.logs.searchActive {
		t.Fatal("/ did not start a search")
	}
	// Keys go to the search input, not the view bindings.
	m = press(t, m, runes("v"))
	if m.logs.minLevel != "WARN" {
		t.Fatal("typing in the search box changed the level")
	}
	m.logs.searchInput.SetValue("Heartbeat")
	m = press(t, m, enterKey)
	if m.logs.searchActive || m.logs.query != "Heartbeat" {
		t.Fatalf("search = active %v query %q", m.logs.searchActive, m.logs.query)
	}

	visible := m.logs.visibleRecords()
	if len(visible) != 1 || visible[0].Message != "heartbeat poll failed" {
		t.Fatalf("visible = %+v, want the heartbeat warning", visible)
	}
	view := m.View()
	if !strings.Contains(view, "heartbeat poll failed") || strings.Contains(view, "save preferences failed") {
		t.Fatalf("logs view does not reflect the filter:\n%s", view)
	}

	m = press(t, m, escKey)
	if m.logs.query != "" || len(m.logs.visibleRecords()) != 2 {
		t.Fatalf("esc left query %q", m.logs.query)
	}
}

func TestLogsFollowToggle(t *testing.T) {
	m, _ := newTestModel(t, func(o *Options) { o.LogFile = writeLog(t, sampleLog) })
	m = press(t, m, runes("6"))

	m = press(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if m.logs.follow {
		t.Fatal("space did not pause follow")
	}
	m = press(t, m, runes("G"))
	if !m.logs.follow {
		t.Fatal("G should resume follow")
	}
	m = press(t, m, runes("k"))
	if m.logs.follow {
		t.Fatal("scrolling up should pause follow")
	}
}

func TestLogsMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.log")
	m, _ := newTestModel(t, func(o *Options) { o.LogFile = path })

	m = press(t, m, runes("6"))
	if m.logs.err != nil || len(m.logs.records) != 0 {
		t.Fatalf("missing file: err %v records %d, want none", m.logs.err, len(m.logs.records))
	}
	if !strings.Contains(m.View(), "No log entries") {
		t.Fatal("empty placeholder not rendered")
	}
}

func TestLogsUnreadableFile(t *testing.T) {
	dir := t.TempDir()
	m, _ := newTestModel(t, func(o *Options) { o.LogFile = dir })

	m = press(t, m, runes("6"))
	if m.logs.err == nil {
		t.Fatal("reading a directory reported no error")
	}
	if !strings.Contains(m.View(), "Could not read log file") {
		t.Fatal("error not rendered")
	}
}

func TestLevelLabel(t *testing.T) {
	if got := levelLabel(""); got != "all" {
		t.Fatalf("levelLabel(\"\") = %q", got)
	}
	if got := levelLabel("WARN"); got != "warn+" {
		t.Fatalf("levelLabel(WARN) = %q", got)
	}
}
