package logtail

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"
)

// Read returns at most maxLines from the end of the file at path. A
// non-positive maxLines returns every line. A missing file yields no lines.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer func() { _ = file.Close() }()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if maxLines <= 0 {
		var lines []string
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return lines, nil
	}

	ring := make([]string, maxLines)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Record is one parsed log line.
type Record struct {
	Time    time.Time
	Level   string
	Message string
	// Attrs are the remaining fields, sorted by key.
	Attrs []Attr
	// Raw is the original line.
	Raw string
}

// Attr is a key/value pair of a Record.
type Attr struct {
	Key   string
	Value string
}

// Attr returns the value of key, or "".
func (r Record) Attr(key string) string {
	for _, a := range r.Attrs {
		if a.Key == key {
			return a.Value
		}
	}
	return ""
}

// ReadRecords reads and parses the last maxLines of a JSON log file.
func ReadRecords(path string, maxLines int) ([]Record, error) {
	lines, err := Read(path, maxLines)
	if err != nil {
		return nil, err
	}
	records := make([]Record, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		records = append(records, Parse(line))
	}
	return records, nil
}

// Parse decodes one slog JSON line. Lines that are not JSON objects come
// back with only Message and Raw set.
func Parse(line string) Record {
	rec := Record{Raw: line}
	var fields map[string]any
	if err := json.Unmarshal([]byte(line), &fields); err != nil {
		rec.Message = line
		return rec
	}

	if v, ok := fields["time"].(string); ok {
		if ts, err := time.Parse(time.RFC3339Nano, v); err == nil {
			rec.Time = ts
		}
	}
	if v, ok := fields["level"].(string); ok {
		rec.Level = strings.ToUpper(v)
	}
	if v, ok := fields["msg"].(string); ok {
		rec.Message = v
	}
	for k, v := range fields {
		switch k {
		case "time", "level", "msg":
			continue
		}
		rec.Attrs = append(rec.Attrs, Attr{Key: k, Value: stringify(v)})
	}
	sort.Slice(rec.Attrs, func(i, j int) bool { return rec.Attrs[i].Key < rec.Attrs[j].Key })
	return rec
}

func stringify(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case nil:
		return "null"
	case float64, bool:
		return fmt.Sprint(val)
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(b)
	}
}

// Format renders a record as a single plain-text line:
// "15:04:05 LEVEL message key=value ...". Attributes named in skip are left
// out.
func Format(r Record, skip ...string) string {
	if r.Level == "" && r.Time.IsZero() {
		return r.Message
	}
	var b strings.Builder
	if !r.Time.IsZero() {
		b.WriteString(r.Time.Local().Format("15:04:05"))
		b.WriteByte(' ')
	}
	if r.Level != "" {
		fmt.Fprintf(&b, "%-5s ", r.Level)
	}
	b.WriteString(r.Message)
	for _, a := range r.Attrs {
		if contains(skip, a.Key) {
			continue
		}
		value := a.Value
		if strings.ContainsAny(value, " \t") {
			value = fmt.Sprintf("%q", value)
		}
		fmt.Fprintf(&b, " %s=%s", a.Key, value)
	}
	return b.String()
}

// AtLeast reports whether the record's level is at or above min
// (DEBUG < INFO < WARN < ERROR). Records without a level always pass.
func AtLeast(r Record, min string) bool {
	if r.Level == "" {
		return true
	}
	return rank(r.Level) >= rank(min)
}

func rank(level string) int {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return 0
	case "INFO":
		return 1
	case "WARN", "WARNING":
		return 2
	case "ERROR":
		return 3
	default:
		return 1
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
