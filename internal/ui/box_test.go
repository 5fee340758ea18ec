package ui

import (
	"testing"
)

func TestVisibleRange(t *testing.T) {
	tests := []struct {
		name                string
		cursor, total, rows int
		wantStart, wantEnd  int
	}{
		{"fits", 2, 5, 10, 0, 5},
		{"top", 0, 20, 5, 0, 5},
		{"cursor past window", 7, 20, 5, 3, 8},
		{"bottom", 19, 20, 5, 15, 20},
		{"no rows", 3, 20, 0, 0, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := visibleRange(tt.cursor, tt.total, tt.rows)
			if start != tt.wantStart || end != tt.wantEnd {
				t.Fatalf("visibleRange = [%d,%d), want [%d,%d)", start, end, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestScrollWindow(t *testing.T) {
	lines := []string{"a", "b", "c", "d"}
	if got := scrollWindow(lines, 1, 2); len(got) != 2 || got[0] != "b" {
		t.Fatalf("scrollWindow(1,2) = %v", got)
	}
	if got := scrollWindow(lines, 3, 5); len(got) != 1 || got[0] != "d" {
		t.Fatalf("scrollWindow(3,5) = %v", got)
	}
	if got := scrollWindow(lines, 10, 2); len(got) != 0 {
		t.Fatalf("scrollWindow(10,2) = %v, want empty", got)
	}
}

func TestStepYear(t *testing.T) {
	choices := []int{0, 2024, 2023}

	tests := []struct {
		name        string
		current     int
		delta       int
		want        int
		wantChanged bool
	}{
		{"older from all time", 0, 1, 2024, true},
		{"older", 2024, 1, 2023, true},
		{"oldest stays", 2023, 1, 2023, false},
		{"newer", 2023, -1, 2024, true},
		{"newest stays", 0, -1, 0, false},
		{"unknown resets", 1999, 1, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed := stepYear(choices, tt.current, tt.delta)
			if got != tt.want || changed != tt.wantChanged {
				t.Fatalf("stepYear(%d, %d) = (%d, %v), want (%d, %v)", tt.current, tt.delta, got, changed, tt.want, tt.wantChanged)
			}
		})
	}

	if _, changed := stepYear(nil, 2024, 1); changed {
		t.Fatal("stepYear with no choices changed")
	}
}

func TestLoadStateFinish(t *testing.T) {
	var ls loadState
	ls.loading = true
	ls.finish(nil)
	if ls.loading || !ls.loaded || ls.err != nil {
		t.Fatalf("after success = %+v", ls)
	}

	ls.loading = true
	ls.finish(errTest)
	if !ls.loaded || ls.err != errTest {
		t.Fatalf("failed reload should keep loaded and record the error, got %+v", ls)
	}
}
