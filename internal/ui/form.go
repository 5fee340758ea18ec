package ui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/margin/internal/calendar"
	"github.com/five82/margin/internal/tracker"
	"github.com/five82/margin/internal/validate"
)

type formKind int

const (
	formNewBook formKind = iota
	formEditBook
	formFinishBook
	formNewSession
)

const formWidth = 56

type formField struct {
	key   string // validate field name
	label string
	input textinput.Model
}

// formState is an open create or edit dialog.
type formState struct {
	kind     formKind
	title    string
	original tracker.Book // book being edited or finished
	fields   []formField
	focus    int

	errors     map[string]string // field key -> message
	submitErr  string
	submitting bool
}

func newFormInput(value, placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Width = formWidth - 8
	ti.Cursor.SetMode(cursor.CursorStatic)
	ti.SetValue(value)
	return ti
}

func newFormState(kind formKind, title string, fields ...formField) *formState {
	f := &formState{kind: kind, title: title, fields: fields, errors: map[string]string{}}
	f.setFocus(0)
	return f
}

func (f *formState) setFocus(i int) {
	if len(f.fields) == 0 {
		return
	}
	f.focus = (i + len(f.fields)) % len(f.fields)
	for j := range f.fields {
		if j == f.focus {
			_ = f.fields[j].input.Focus()
		} else {
			f.fields[j].input.Blur()
		}
	}
}

func (f *formState) value(key string) string {
	for _, fld := range f.fields {
		if fld.key == key {
			return strings.TrimSpace(fld.input.Value())
		}
	}
	return ""
}

// applyValidation replaces the field annotations with r's violations.
func (f *formState) applyValidation(r validate.Result) bool {
	f.errors = r.ByField()
	f.submitErr = ""
	return r.Valid()
}

// applyError annotates the form with a failed submission.
func (f *formState) applyError(err error) {
	var vErr *validate.Error
	if errors.As(err, &vErr) {
		f.applyValidation(validate.Result{Errors: vErr.Fields})
		return
	}
	f.submitErr = errorText(err)
}

func (m *Model) openNewBookForm() tea.Cmd {
	m.form = newFormState(formNewBook, "New book",
		formField{key: validate.FieldTitle, label: "Title", input: newFormInput("", "The Left Hand of Darkness", validate.MaxTitleLength)},
		formField{key: validate.FieldAuthor, label: "Author", input: newFormInput("", "optional", validate.MaxAuthorLength)},
		formField{key: validate.FieldStartDate, label: "Started", input: newFormInput(m.today().String(), "YYYY-MM-DD", 10)},
	)
	return nil
}

func (m *Model) openEditBookForm(book tracker.Book) tea.Cmd {
	end := ""
	if !book.EndDate.IsZero() {
		end = book.EndDate.String()
	}
	m.form = newFormState(formEditBook, "Edit book",
		formField{key: validate.FieldTitle, label: "Title", input: newFormInput(book.Title, "", validate.MaxTitleLength)},
		formField{key: validate.FieldAuthor, label: "Author", input: newFormInput(book.Author, "optional", validate.MaxAuthorLength)},
		formField{key: validate.FieldStartDate, label: "Started", input: newFormInput(book.StartDate.String(), "YYYY-MM-DD", 10)},
		formField{key: validate.FieldEndDate, label: "Finished", input: newFormInput(end, "YYYY-MM-DD", 10)},
	)
	m.form.original = book
	return nil
}

func (m *Model) openFinishForm(book tracker.Book) tea.Cmd {
	m.form = newFormState(formFinishBook, fmt.Sprintf("Finish %q", truncate(book.Title, 36)),
		formField{key: validate.FieldEndDate, label: "Finished on", input: newFormInput(m.today().String(), "YYYY-MM-DD, empty for today", 10)},
	)
	m.form.original = book
	return nil
}

// openSessionForm opens the log-session dialog, prefilled with bookID when
// it is positive.
func (m *Model) openSessionForm(bookID int64) tea.Cmd {
	id := ""
	if bookID > 0 {
		id = strconv.FormatInt(bookID, 10)
	}
	fields := []formField{
		{key: validate.FieldBookID, label: "Book id", input: newFormInput(id, "id from the books view", 12)},
		{key: validate.FieldDate, label: "Date", input: newFormInput(m.today().String(), "YYYY-MM-DD", 10)},
		{key: validate.FieldMinutesRead, label: "Minutes", input: newFormInput("", "1-1440", 4)},
	}
	m.form = newFormState(formNewSession, "Log reading session", fields...)
	if bookID > 0 {
		m.form.setFocus(2)
	}
	return nil
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.form
	switch msg.Type {
	case tea.KeyEsc:
		m.form = nil
		return m, nil
	case tea.KeyTab, tea.KeyDown:
		f.setFocus(f.focus + 1)
		return m, nil
	case tea.KeyShiftTab, tea.KeyUp:
		f.setFocus(f.focus - 1)
		return m, nil
	case tea.KeyEnter:
		if f.submitting {
			return m, nil
		}
		return m, m.submitForm()
	}

	var cmd tea.Cmd
	f.fields[f.focus].input, cmd = f.fields[f.focus].input.Update(msg)
	return m, cmd
}

// submitForm validates the open form and returns the write command, or nil
// when the form stays open with annotations.
func (m *Model) submitForm() tea.Cmd {
	f := m.form
	today := m.today()
	if m.client == nil {
		f.submitErr = "Not connected to the tracker"
		return nil
	}
	ctx, client := m.ctx, m.client

	var cmd tea.Cmd
	switch f.kind {
	case formNewBook:
		form := validate.BookForm{
			Title:     f.value(validate.FieldTitle),
			Author:    f.value(validate.FieldAuthor),
			StartDate: f.value(validate.FieldStartDate),
		}
		if !f.applyValidation(validate.BookOn(form, today)) {
			return nil
		}
		in := tracker.BookInput{Title: form.Title, Author: form.Author, StartDate: calendar.MustParse(form.StartDate)}
		cmd = mutationCmd("Book added", func() error {
			_, err := client.Books().Create(ctx, in)
			return err
		}, nil)

	case formEditBook:
		form := validate.BookForm{
			Title:     f.value(validate.FieldTitle),
			Author:    f.value(validate.FieldAuthor),
			StartDate: f.value(validate.FieldStartDate),
			EndDate:   f.value(validate.FieldEndDate),
		}
		if !f.applyValidation(validate.BookOn(form, today)) {
			return nil
		}
		changes, changed := bookChanges(f.original, form)
		if !changed {
			m.form = nil
			m.pushToast(toastInfo, "Nothing to change")
			return nil
		}
		id := f.original.ID
		cmd = mutationCmd("Book updated", func() error {
			_, err := client.Books().Patch(ctx, id, changes)
			return err
		}, nil)

	case formFinishBook:
		end := f.value(validate.FieldEndDate)
		if !f.applyValidation(validate.FinishDateOn(f.original.StartDate.String(), end, today)) {
			return nil
		}
		var endDate calendar.Date
		if end != "" {
			endDate = calendar.MustParse(end)
		}
		id := f.original.ID
		cmd = mutationCmd("Book finished", func() error {
			_, err := client.Books().Finish(ctx, id, endDate)
			return err
		}, nil)

	case formNewSession:
		form := validate.SessionForm{
			BookID:      f.value(validate.FieldBookID),
			Date:        f.value(validate.FieldDate),
			MinutesRead: f.value(validate.FieldMinutesRead),
		}
		if !f.applyValidation(validate.SessionOn(form, today)) {
			return nil
		}
		bookID, _ := strconv.ParseInt(form.BookID, 10, 64)
		minutes, _ := strconv.Atoi(form.MinutesRead)
		in := tracker.SessionInput{BookID: bookID, Date: calendar.MustParse(form.Date), MinutesRead: minutes}
		cmd = mutationCmd("Session logged", func() error {
			_, err := client.Sessions().Create(ctx, in)
			return err
		}, nil)
	}

	f.submitting = true
	return cmd
}

// bookChanges returns the fields of form that differ from book. A cleared
// end date is left untouched.
func bookChanges(book tracker.Book, form validate.BookForm) (tracker.BookChanges, bool) {
	var c tracker.BookChanges
	changed := false
	if form.Title != book.Title {
		title := form.Title
		c.Title = &title
		changed = true
	}
	if form.Author != book.Author {
		author := form.Author
		c.Author = &author
		changed = true
	}
	if start := calendar.MustParse(form.StartDate); !start.Equal(book.StartDate) {
		c.StartDate = &start
		changed = true
	}
	if form.EndDate != "" {
		end := calendar.MustParse(form.EndDate)
		if book.EndDate.IsZero() || !end.Equal(book.EndDate) {
			c.EndDate = &end
			changed = true
		}
	}
	return c, changed
}

func (m Model) renderForm() string {
	f := m.form
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(styles.Header.Render(f.title))
	b.WriteString("\n\n")

	for i, fld := range f.fields {
		label := styles.MutedText.Render(padRight(fld.label, 12))
		if i == f.focus {
			label = styles.AccentText.Render(padRight(fld.label, 12))
		}
		b.WriteString(label)
		b.WriteString(fld.input.View())
		b.WriteString("\n")
		if msg, ok := f.errors[fld.key]; ok {
			b.WriteString(strings.Repeat(" ", 12))
			b.WriteString(styles.DangerText.Render(msg))
			b.WriteString("\n")
		}
	}

	if f.submitErr != "" {
		b.WriteString("\n")
		b.WriteString(styles.DangerText.Render(f.submitErr))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if f.submitting {
		b.WriteString(styles.FaintText.Render("Saving..."))
	} else {
		b.WriteString(styles.FaintText.Render("enter save · tab next field · esc cancel"))
	}

	return m.renderModal(b.String(), formWidth)
}
