// Package validate checks user-entered book and session fields before any
// request is sent to the tracker backend.
//
// Every function here is pure: it never touches the network and reports all
// violated rules at once so a form can annotate each invalid field in a
// single pass.
package validate

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/five82/margin/internal/calendar"
)

// Field names used in results. They match the tracker's JSON keys.
const (
	FieldTitle       = "title"
	FieldAuthor      = "author"
	FieldStartDate   = "start_date"
	FieldEndDate     = "end_date"
	FieldStatus      = "status"
	FieldBookID      = "book_id"
	FieldDate        = "date"
	FieldMinutesRead = "minutes_read"
)

// Limits enforced by the forms.
const (
	MaxTitleLength  = 200
	MaxAuthorLength = 100
	MinMinutes      = 1
	MaxMinutes      = 1440
)

// Book statuses accepted by the backend.
const (
	StatusReading  = "reading"
	StatusFinished = "finished"
)

// FieldError describes one violated rule.
type FieldError struct {
	Field   string
	Message string
}

// Result collects the violations of one validation call, in field order.
type Result struct {
	Errors []FieldError
}

// Valid reports whether no rule was violated.
func (r Result) Valid() bool { return len(r.Errors) == 0 }

// Messages returns the violation messages in order.
func (r Result) Messages() []string {
	if len(r.Errors) == 0 {
		return nil
	}
	out := make([]string, len(r.Errors))
	for i, fe := range r.Errors {
		out[i] = fe.Message
	}
	return out
}

// ByField maps each invalid field to its first message.
func (r Result) ByField() map[string]string {
	out := make(map[string]string, len(r.Errors))
	for _, fe := range r.Errors {
		if _, ok := out[fe.Field]; !ok {
			out[fe.Field] = fe.Message
		}
	}
	return out
}

// Err returns nil for a valid result and an *Error otherwise.
func (r Result) Err() error {
	if r.Valid() {
		return nil
	}
	fields := make([]FieldError, len(r.Errors))
	copy(fields, r.Errors)
	return &Error{Fields: fields}
}

func (r *Result) add(field, message string) {
	r.Errors = append(r.Errors, FieldError{Field: field, Message: message})
}

// Error is returned by tracker calls whose payload failed validation. It is
// never produced by a network failure.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(e.Fields))
	for i, fe := range e.Fields {
		msgs[i] = fe.Message
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// BookForm holds the raw text of a book form.
type BookForm struct {
	Title     string
	Author    string
	StartDate string
	EndDate   string
	Status    string
}

// Book validates a complete book form against today's local date.
func Book(f BookForm) Result {
	return BookOn(f, calendar.Today())
}

// BookOn validates a complete book form relative to today.
func BookOn(f BookForm, today calendar.Date) Result {
	var r Result
	checkTitle(&r, f.Title)
	checkAuthor(&r, f.Author)
	start, startOK := checkStartDate(&r, f.StartDate, today)
	if strings.TrimSpace(f.EndDate) != "" {
		checkEndDate(&r, f.EndDate, start, startOK)
	}
	if strings.TrimSpace(f.Status) != "" {
		checkStatus(&r, f.Status)
	}
	return r
}

// BookChanges holds a partial book update. Nil fields are left untouched and
// are not validated.
type BookChanges struct {
	Title     *string
	Author    *string
	StartDate *string
	EndDate   *string
	Status    *string
}

// Changes validates the present fields of a partial update.
func Changes(c BookChanges) Result {
	return ChangesOn(c, calendar.Today())
}

// ChangesOn validates the present fields of a partial update relative to
// today.
func ChangesOn(c BookChanges, today calendar.Date) Result {
	var r Result
	if c.Title != nil {
		checkTitle(&r, *c.Title)
	}
	if c.Author != nil {
		checkAuthor(&r, *c.Author)
	}
	var start calendar.Date
	startOK := false
	if c.StartDate != nil {
		start, startOK = checkStartDate(&r, *c.StartDate, today)
	}
	if c.EndDate != nil && strings.TrimSpace(*c.EndDate) != "" {
		checkEndDate(&r, *c.EndDate, start, startOK)
	}
	if c.Status != nil {
		checkStatus(&r, *c.Status)
	}
	return r
}

// FinishDate validates the optional end date used to mark a book finished.
// start may be empty when unknown.
func FinishDate(start, end string) Result {
	return FinishDateOn(start, end, calendar.Today())
}

// FinishDateOn is FinishDate relative to today.
func FinishDateOn(start, end string, today calendar.Date) Result {
	var r Result
	if strings.TrimSpace(end) == "" {
		return r
	}
	startDate, err := calendar.Parse(start)
	endDate, ok := checkEndDate(&r, end, startDate, err == nil)
	if ok && endDate.After(today) {
		r.add(FieldEndDate, "End date cannot be in the future")
	}
	return r
}

// SessionForm holds the raw text of a reading-session form.
type SessionForm struct {
	BookID      string
	Date        string
	MinutesRead string
}

// Session validates a session form against today's local date. Past dates
// are allowed.
func Session(f SessionForm) Result {
	return SessionOn(f, calendar.Today())
}

// SessionOn validates a session form relative to today.
func SessionOn(f SessionForm, today calendar.Date) Result {
	var r Result

	bookID := strings.TrimSpace(f.BookID)
	if bookID == "" {
		r.add(FieldBookID, "Book is required")
	} else if id, err := strconv.ParseInt(bookID, 10, 64); err != nil || id <= 0 {
		r.add(FieldBookID, "Book must be a valid book id")
	}

	date := strings.TrimSpace(f.Date)
	if date == "" {
		r.add(FieldDate, "Date is required")
	} else if d, err := calendar.Parse(date); err != nil {
		r.add(FieldDate, "Date must be a valid date (YYYY-MM-DD)")
	} else if d.After(today) {
		r.add(FieldDate, "Date cannot be in the future")
	}

	minutes := strings.TrimSpace(f.MinutesRead)
	switch n, err := strconv.Atoi(minutes); {
	case minutes == "":
		r.add(FieldMinutesRead, "Minutes read is required")
	case err != nil:
		r.add(FieldMinutesRead, "Minutes read must be a whole number")
	case n < MinMinutes:
		r.add(FieldMinutesRead, "Minutes read must be at least 1")
	case n > MaxMinutes:
		r.add(FieldMinutesRead, "Minutes read exceeds 1440 (24 hours)")
	}
	return r
}

func checkTitle(r *Result, title string) {
	trimmed := strings.TrimSpace(title)
	switch {
	case trimmed == "":
		r.add(FieldTitle, "Title is required")
	case utf8.RuneCountInString(trimmed) > MaxTitleLength:
		r.add(FieldTitle, "Title must be at most 200 characters")
	}
}

func checkAuthor(r *Result, author string) {
	if utf8.RuneCountInString(strings.TrimSpace(author)) > MaxAuthorLength {
		r.add(FieldAuthor, "Author must be at most 100 characters")
	}
}

func checkStartDate(r *Result, value string, today calendar.Date) (calendar.Date, bool) {
	if strings.TrimSpace(value) == "" {
		r.add(FieldStartDate, "Start date is required")
		return calendar.Date{}, false
	}
	d, err := calendar.Parse(value)
	if err != nil {
		r.add(FieldStartDate, "Start date must be a valid date (YYYY-MM-DD)")
		return calendar.Date{}, false
	}
	if d.After(today) {
		r.add(FieldStartDate, "Start date cannot be in the future")
	}
	return d, true
}

func checkEndDate(r *Result, value string, start calendar.Date, startOK bool) (calendar.Date, bool) {
	d, err := calendar.Parse(value)
	if err != nil {
		r.add(FieldEndDate, "End date must be a valid date (YYYY-MM-DD)")
		return calendar.Date{}, false
	}
	if startOK && d.Before(start) {
		r.add(FieldEndDate, "End date cannot be before start date")
	}
	return d, true
}

func checkStatus(r *Result, status string) {
	switch strings.TrimSpace(status) {
	case StatusReading, StatusFinished:
	default:
		r.add(FieldStatus, "Status must be either 'reading' or 'finished'")
	}
}
