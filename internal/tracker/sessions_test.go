package tracker

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/five82/margin/internal/calendar"
	"github.com/five82/margin/internal/tracker/trackertest"
	"github.com/five82/margin/internal/validate"
)

func TestSessions_CreateAndDeleteTwice(t *testing.T) {
	c, srv := newFakeClient(t)
	ctx := context.Background()
	b := srv.AddBook(trackertest.Book{Title: "Dune", Author: "Frank Herbert", StartDate: calendar.MustParse("2024-02-01")})

	sess, err := c.Sessions().Create(ctx, SessionInput{BookID: b.ID, Date: calendar.MustParse("2024-02-03"), MinutesRead: 45})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if sess.ID == 0 || sess.BookID != b.ID || sess.MinutesRead != 45 {
		t.Fatalf("Create = %#v", sess)
	}

	if err := c.Sessions().Delete(ctx, sess.ID); err != nil {
		t.Fatalf("first Delete returned error: %v", err)
	}
	err = c.Sessions().Delete(ctx, sess.ID)
	apiErr, ok := AsError(err)
	if !ok {
		t.Fatalf("err = %v, want *Error", err)
	}
	if apiErr.Kind != KindHTTP4xx || apiErr.StatusCode != http.StatusNotFound || apiErr.Message != "Session not found" {
		t.Fatalf("got %v, want 404 Session not found", apiErr)
	}
}

func TestSessions_CreateValidatesBeforeSending(t *testing.T) {
	c, srv := newFakeClient(t)

	_, err := c.Sessions().Create(context.Background(), SessionInput{
		Date:        calendar.Today().AddDays(3),
		MinutesRead: 2000,
	})
	var verr *validate.Error
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want *validate.Error", err)
	}
	want := []string{"Book is required", "Date cannot be in the future", "Minutes read exceeds 1440 (24 hours)"}
	if len(verr.Fields) != len(want) {
		t.Fatalf("fields = %#v, want %d", verr.Fields, len(want))
	}
	for i, msg := range want {
		if verr.Fields[i].Message != msg {
			t.Fatalf("message %d = %q, want %q", i, verr.Fields[i].Message, msg)
		}
	}
	if n := len(srv.Requests()); n != 0 {
		t.Fatalf("requests = %d, want 0", n)
	}
}

func TestSessions_Queries(t *testing.T) {
	c, srv := newFakeClient(t)
	ctx := context.Background()
	dune := srv.AddBook(trackertest.Book{Title: "Dune", Author: "Frank Herbert", StartDate: calendar.MustParse("2024-02-01")})
	emma := srv.AddBook(trackertest.Book{Title: "Emma", Author: "Jane Austen", StartDate: calendar.MustParse("2024-02-01")})
	srv.AddSession(trackertest.Session{BookID: dune.ID, Date: calendar.MustParse("2024-02-02"), MinutesRead: 30})
	srv.AddSession(trackertest.Session{BookID: emma.ID, Date: calendar.MustParse("2024-02-05"), MinutesRead: 20})
	srv.AddSession(trackertest.Session{BookID: dune.ID, Date: calendar.MustParse("2024-02-10"), MinutesRead: 60})

	all, err := c.Sessions().List(ctx)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(all) != 3 || all[0].Date.String() != "2024-02-10" {
		t.Fatalf("List = %#v, want 3 sessions newest first", all)
	}

	byDate, err := c.Sessions().ByDate(ctx, calendar.MustParse("2024-02-05"))
	if err != nil {
		t.Fatalf("ByDate returned error: %v", err)
	}
	if len(byDate) != 1 || byDate[0].BookID != emma.ID {
		t.Fatalf("ByDate = %#v", byDate)
	}

	byRange, err := c.Sessions().ByRange(ctx, calendar.MustParse("2024-02-01"), calendar.MustParse("2024-02-05"))
	if err != nil {
		t.Fatalf("ByRange returned error: %v", err)
	}
	if len(byRange) != 2 {
		t.Fatalf("ByRange = %#v, want 2", byRange)
	}
	if got := srv.LastRequest().RawQuery; got != "start_date=2024-02-01&end_date=2024-02-05" {
		t.Fatalf("query = %q", got)
	}

	byBook, err := c.Books().Sessions(ctx, dune.ID)
	if err != nil {
		t.Fatalf("Books().Sessions returned error: %v", err)
	}
	if len(byBook) != 2 {
		t.Fatalf("by book = %#v, want 2", byBook)
	}

	detailed, err := c.Sessions().Detailed(ctx)
	if err != nil {
		t.Fatalf("Detailed returned error: %v", err)
	}
	if len(detailed) != 3 || detailed[1].BookTitle != "Emma" || detailed[1].BookAuthor != "Jane Austen" {
		t.Fatalf("Detailed = %#v", detailed)
	}
}

func TestSessions_ByRangeMissingParamIsFlattened(t *testing.T) {
	c, _ := newFakeClient(t)

	_, err := c.Sessions().ByRange(context.Background(), calendar.MustParse("2024-02-01"), calendar.Date{})
	apiErr, ok := AsError(err)
	if !ok {
		t.Fatalf("err = %v, want *Error", err)
	}
	if apiErr.StatusCode != http.StatusUnprocessableEntity || apiErr.Message != "end_date: Field required" {
		t.Fatalf("got %v, want 422 end_date: Field required", apiErr)
	}
}
