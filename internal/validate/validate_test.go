package validate

import (
	"errors"
	"strings"
	"testing"

	"github.com/five82/margin/internal/calendar"
)

var today = calendar.MustParse("2025-06-15")

func TestBook_EmptyTitleAndFutureStart(t *testing.T) {
	r := Book(BookForm{Title: "", StartDate: "2099-01-01"})
	if r.Valid() {
		t.Fatalf("Valid() = true, want false")
	}
	if len(r.Errors) != 2 {
		t.Fatalf("errors = %#v, want 2", r.Errors)
	}
	byField := r.ByField()
	if byField[FieldTitle] != "Title is required" {
		t.Fatalf("title error = %q", byField[FieldTitle])
	}
	if byField[FieldStartDate] != "Start date cannot be in the future" {
		t.Fatalf("start_date error = %q", byField[FieldStartDate])
	}
}

func TestBookOn_Rules(t *testing.T) {
	long := strings.Repeat("x", 201)
	tests := []struct {
		name   string
		form   BookForm
		fields []string
	}{
		{"valid minimal", BookForm{Title: "Dune", StartDate: "2025-01-01"}, nil},
		{"valid today", BookForm{Title: "Dune", StartDate: "2025-06-15"}, nil},
		{"valid full", BookForm{Title: "Dune", Author: "Herbert", StartDate: "2025-01-01", EndDate: "2025-02-01", Status: "finished"}, nil},
		{"title too long", BookForm{Title: long, StartDate: "2025-01-01"}, []string{FieldTitle}},
		{"title exactly 200 runes", BookForm{Title: strings.Repeat("é", 200), StartDate: "2025-01-01"}, nil},
		{"blank title", BookForm{Title: "   ", StartDate: "2025-01-01"}, []string{FieldTitle}},
		{"author too long", BookForm{Title: "a", Author: strings.Repeat("b", 101), StartDate: "2025-01-01"}, []string{FieldAuthor}},
		{"missing start", BookForm{Title: "a"}, []string{FieldStartDate}},
		{"bad start", BookForm{Title: "a", StartDate: "01/02/2025"}, []string{FieldStartDate}},
		{"end before start", BookForm{Title: "a", StartDate: "2025-03-01", EndDate: "2025-02-28"}, []string{FieldEndDate}},
		{"bad end", BookForm{Title: "a", StartDate: "2025-03-01", EndDate: "soon"}, []string{FieldEndDate}},
		{"bad status", BookForm{Title: "a", StartDate: "2025-03-01", Status: "abandoned"}, []string{FieldStatus}},
		{"everything wrong", BookForm{Author: long, StartDate: "nope", EndDate: "nope", Status: "x"}, []string{FieldTitle, FieldAuthor, FieldStartDate, FieldEndDate, FieldStatus}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := BookOn(tt.form, today)
			if len(r.Errors) != len(tt.fields) {
				t.Fatalf("errors = %#v, want fields %v", r.Errors, tt.fields)
			}
			for i, field := range tt.fields {
				if r.Errors[i].Field != field {
					t.Fatalf("errors[%d].Field = %q, want %q", i, r.Errors[i].Field, field)
				}
			}
		})
	}
}

func TestChangesOn_OnlyPresentFields(t *testing.T) {
	empty := ""
	if r := ChangesOn(BookChanges{}, today); !r.Valid() {
		t.Fatalf("empty changes invalid: %#v", r.Errors)
	}

	r := ChangesOn(BookChanges{Title: &empty}, today)
	if r.ByField()[FieldTitle] != "Title is required" {
		t.Fatalf("present empty title = %#v, want required error", r.Errors)
	}

	end := "2025-01-01"
	if r := ChangesOn(BookChanges{EndDate: &end}, today); !r.Valid() {
		t.Fatalf("end date alone should not be compared: %#v", r.Errors)
	}

	start := "2025-02-01"
	r = ChangesOn(BookChanges{StartDate: &start, EndDate: &end}, today)
	if r.ByField()[FieldEndDate] != "End date cannot be before start date" {
		t.Fatalf("errors = %#v, want end-before-start", r.Errors)
	}

	status := "finished"
	if r := ChangesOn(BookChanges{Status: &status, EndDate: &empty}, today); !r.Valid() {
		t.Fatalf("errors = %#v, want valid", r.Errors)
	}
}

func TestSession_PastDateAllowed(t *testing.T) {
	r := Session(SessionForm{BookID: "3", Date: "2020-01-01", MinutesRead: "45"})
	if !r.Valid() {
		t.Fatalf("errors = %#v, want valid", r.Errors)
	}
}

func TestSessionOn_MinutesBoundary(t *testing.T) {
	base := SessionForm{BookID: "3", Date: "2025-06-01"}

	base.MinutesRead = "1440"
	if r := SessionOn(base, today); !r.Valid() {
		t.Fatalf("1440 minutes invalid: %#v", r.Errors)
	}

	base.MinutesRead = "1441"
	r := SessionOn(base, today)
	if r.Valid() {
		t.Fatalf("1441 minutes valid, want error")
	}
	if msg := r.ByField()[FieldMinutesRead]; !strings.Contains(msg, "exceeds 1440") {
		t.Fatalf("message = %q, want exceeds 1440", msg)
	}

	for _, bad := range []string{"", "0", "-5", "4.5", "ten"} {
		base.MinutesRead = bad
		if r := SessionOn(base, today); r.ByField()[FieldMinutesRead] == "" {
			t.Fatalf("minutes %q accepted, want error", bad)
		}
	}
}

func TestSessionOn_ReportsEveryField(t *testing.T) {
	r := SessionOn(SessionForm{BookID: "x", Date: "2025-06-16", MinutesRead: ""}, today)
	got := r.Messages()
	want := []string{"Book must be a valid book id", "Date cannot be in the future", "Minutes read is required"}
	if len(got) != len(want) {
		t.Fatalf("Messages = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Messages[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFinishDateOn(t *testing.T) {
	if r := FinishDateOn("2025-01-01", "", today); !r.Valid() {
		t.Fatalf("empty end date invalid: %#v", r.Errors)
	}
	if r := FinishDateOn("2025-01-01", "2024-12-31", today); r.Valid() {
		t.Fatalf("end before start accepted")
	}
	if r := FinishDateOn("", "2025-06-16", today); r.ByField()[FieldEndDate] != "End date cannot be in the future" {
		t.Fatalf("future end date = %#v", r.Errors)
	}
	if r := FinishDateOn("", "2025-06-15", today); !r.Valid() {
		t.Fatalf("today rejected: %#v", r.Errors)
	}
}

func TestResultErr(t *testing.T) {
	if err := (Result{}).Err(); err != nil {
		t.Fatalf("Err() = %v, want nil", err)
	}
	r := SessionOn(SessionForm{}, today)
	err := r.Err()
	var verr *Error
	if !errors.As(err, &verr) {
		t.Fatalf("Err() = %T, want *Error", err)
	}
	if len(verr.Fields) != 3 {
		t.Fatalf("Fields = %#v, want 3", verr.Fields)
	}
	if !strings.HasPrefix(err.Error(), "validation failed: Book is required") {
		t.Fatalf("Error() = %q", err.Error())
	}
}
