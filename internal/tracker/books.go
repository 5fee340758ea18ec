package tracker

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/five82/margin/internal/calendar"
	"github.com/five82/margin/internal/validate"
)

// Books groups the /books endpoints.
type Books struct {
	c *Client
}

// Books returns the books resource client.
func (c *Client) Books() Books { return Books{c: c} }

// List returns every book.
func (b Books) List(ctx context.Context) ([]Book, error) {
	return decode[[]Book](b.c.get(ctx, "/books", nil))
}

// Get returns one book.
func (b Books) Get(ctx context.Context, id int64) (Book, error) {
	if err := requireID("book", id); err != nil {
		return Book{}, err
	}
	return decode[Book](b.c.get(ctx, bookPath(id), nil))
}

// Create validates in and, when valid, creates the book.
func (b Books) Create(ctx context.Context, in BookInput) (Book, error) {
	form := validate.BookForm{Title: in.Title, Author: in.Author, StartDate: in.StartDate.String()}
	if err := validate.Book(form).Err(); err != nil {
		return Book{}, err
	}
	in.Title = strings.TrimSpace(in.Title)
	in.Author = strings.TrimSpace(in.Author)
	return decode[Book](b.c.send(ctx, http.MethodPost, "/books", in))
}

// Update sends a PUT with the present fields of changes.
func (b Books) Update(ctx context.Context, id int64, changes BookChanges) (Book, error) {
	if err := checkChanges(id, changes); err != nil {
		return Book{}, err
	}
	return decode[Book](b.c.send(ctx, http.MethodPut, bookPath(id), changes))
}

// Patch sends a PATCH with the present fields of changes.
func (b Books) Patch(ctx context.Context, id int64, changes BookChanges) (Book, error) {
	if err := checkChanges(id, changes); err != nil {
		return Book{}, err
	}
	return decode[Book](b.c.send(ctx, http.MethodPatch, bookPath(id), changes))
}

// Finish marks a book finished on endDate. A zero endDate lets the backend
// default to today.
func (b Books) Finish(ctx context.Context, id int64, endDate calendar.Date) (Book, error) {
	if err := requireID("book", id); err != nil {
		return Book{}, err
	}
	if !endDate.IsZero() {
		if err := validate.FinishDate("", endDate.String()).Err(); err != nil {
			return Book{}, err
		}
	}
	path := withQuery(bookPath(id)+"/finish", Params{{Key: "end_date", Value: optionalDate(endDate)}})
	return decode[Book](b.c.send(ctx, http.MethodPatch, path, nil))
}

// Delete removes a book. A book that still has reading sessions cannot be
// deleted; that failure is returned as a *Error with Code
// CodeBookHasSessions.
func (b Books) Delete(ctx context.Context, id int64) error {
	if err := requireID("book", id); err != nil {
		return err
	}
	_, err := b.c.Delete(ctx, bookPath(id))
	if err == nil {
		return nil
	}
	if apiErr, ok := AsError(err); ok && hasSessionsConflict(apiErr) {
		return &Error{
			Message:    msgBookHasSessions,
			StatusCode: apiErr.StatusCode,
			Kind:       apiErr.Kind,
			Code:       CodeBookHasSessions,
			Cause:      apiErr,
		}
	}
	return err
}

// Sessions returns the reading sessions logged against a book.
func (b Books) Sessions(ctx context.Context, id int64) ([]Session, error) {
	return b.c.Sessions().ByBook(ctx, id)
}

// hasSessionsConflict recognizes the backend's refusal to delete a book with
// sessions. The backend has no stable code for it yet, so the message text
// is matched as a fallback.
func hasSessionsConflict(err *Error) bool {
	if err.Code == CodeBookHasSessions {
		return true
	}
	if err.Kind != KindHTTP4xx {
		return false
	}
	msg := strings.ToLower(err.Message)
	return strings.Contains(msg, "reading sessions") || strings.Contains(msg, "has sessions")
}

func checkChanges(id int64, changes BookChanges) error {
	if err := requireID("book", id); err != nil {
		return err
	}
	return validate.Changes(validate.BookChanges{
		Title:     changes.Title,
		Author:    changes.Author,
		StartDate: dateString(changes.StartDate),
		EndDate:   dateString(changes.EndDate),
		Status:    changes.Status,
	}).Err()
}

func dateString(d *calendar.Date) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}

func bookPath(id int64) string {
	return fmt.Sprintf("/books/%d", id)
}

func requireID(what string, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%s id must be positive, got %d", what, id)
	}
	return nil
}
