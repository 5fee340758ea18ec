package tracker

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/five82/margin/internal/calendar"
	"github.com/five82/margin/internal/validate"
)

// Sessions groups the /sessions endpoints.
type Sessions struct {
	c *Client
}

// Sessions returns the sessions resource client.
func (c *Client) Sessions() Sessions { return Sessions{c: c} }

// List returns every session, most recent first.
func (s Sessions) List(ctx context.Context) ([]Session, error) {
	return decode[[]Session](s.c.get(ctx, "/sessions", nil))
}

// Detailed returns every session joined with its book's title and author.
func (s Sessions) Detailed(ctx context.Context) ([]SessionWithBook, error) {
	return decode[[]SessionWithBook](s.c.get(ctx, "/sessions/detailed", nil))
}

// ByDate returns the sessions logged on date.
func (s Sessions) ByDate(ctx context.Context, date calendar.Date) ([]Session, error) {
	return decode[[]Session](s.c.get(ctx, "/sessions/by-date", Params{{Key: "date", Value: optionalDate(date)}}))
}

// ByRange returns the sessions between start and end, inclusive.
func (s Sessions) ByRange(ctx context.Context, start, end calendar.Date) ([]Session, error) {
	params := Params{}.
		Add("start_date", optionalDate(start)).
		Add("end_date", optionalDate(end))
	return decode[[]Session](s.c.get(ctx, "/sessions/by-range", params))
}

// ByBook returns the sessions logged against a book.
func (s Sessions) ByBook(ctx context.Context, bookID int64) ([]Session, error) {
	if err := requireID("book", bookID); err != nil {
		return nil, err
	}
	return decode[[]Session](s.c.get(ctx, fmt.Sprintf("/sessions/by-book/%d", bookID), nil))
}

// Create validates in and, when valid, logs the session.
func (s Sessions) Create(ctx context.Context, in SessionInput) (Session, error) {
	form := validate.SessionForm{
		Date:        in.Date.String(),
		MinutesRead: strconv.Itoa(in.MinutesRead),
	}
	if in.BookID != 0 {
		form.BookID = strconv.FormatInt(in.BookID, 10)
	}
	if err := validate.Session(form).Err(); err != nil {
		return Session{}, err
	}
	return decode[Session](s.c.send(ctx, http.MethodPost, "/sessions", in))
}

// Delete removes a session. Deleting a missing session is a 404 *Error.
func (s Sessions) Delete(ctx context.Context, id int64) error {
	if err := requireID("session", id); err != nil {
		return err
	}
	_, err := s.c.Delete(ctx, fmt.Sprintf("/sessions/%d", id))
	return err
}
