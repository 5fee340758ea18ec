// Package logtail reads margin's own log file back for the in-app log view.
//
// # Overview
//
// margin logs JSON lines through log/slog (see package logging). This
// package extracts the last N lines of that file and turns them into
// Records the UI can filter and render.
//
// # Reading Log Files
//
// Read uses a ring buffer of maxLines entries, so the file is scanned once
// and memory stays proportional to the tail, not the file:
//
//	lines, err := logtail.Read(cfg.LogFile, 400)
//
// A missing file is not an error; it simply has no lines yet.
//
// # Parsing
//
// Parse decodes one slog JSON object. The standard time, level and msg keys
// become fields of Record; every other key becomes an Attr, sorted by key so
// rendering is stable. Lines that are not JSON are kept verbatim as the
// message.
//
//	{"time":"2025-03-01T10:00:00Z","level":"WARN","msg":"request failed","path":"/books","kind":"network"}
//
// Format renders that as:
//
//	10:00:00 WARN  request failed kind=network path=/books
//
// # Filtering
//
// AtLeast compares levels in the order DEBUG < INFO < WARN < ERROR. The log
// view uses it for its level filter.
package logtail
