// Package trackertest runs an in-memory reading tracker backend for tests.
//
// The fake mirrors the real API's routes, status codes and error details
// closely enough that client and UI code can be exercised end to end without
// a database. It does not import package tracker, so tracker's own internal
// tests can use it.
package trackertest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/gorilla/mux"

	"github.com/five82/margin/internal/calendar"
)

// Book is the fake's book record.
type Book struct {
	ID        int64         `json:"id"`
	Title     string        `json:"title"`
	Author    string        `json:"author"`
	StartDate calendar.Date `json:"start_date"`
	EndDate   calendar.Date `json:"end_date"`
	Status    string        `json:"status"`
}

// Session is the fake's reading session record.
type Session struct {
	ID          int64         `json:"id"`
	BookID      int64         `json:"book_id"`
	Date        calendar.Date `json:"date"`
	MinutesRead int           `json:"minutes_read"`
}

// Request is a request the fake received.
type Request struct {
	Method   string
	Path     string
	RawQuery string
	Header   http.Header
	Body     []byte
}

type fault struct {
	status int
	body   string
}

// Server is a running fake backend. Its zero value is not usable; call New.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	today    calendar.Date
	codes    bool
	books    map[int64]Book
	sessions map[int64]Session
	nextBook int64
	nextSess int64
	faults   map[string]fault
	requests []Request
}

// Option configures a Server.
type Option func(*Server)

// WithToday pins the date the fake treats as today.
func WithToday(d calendar.Date) Option {
	return func(s *Server) { s.today = d }
}

// WithErrorCodes makes the fake send machine-readable "code" fields
// alongside error details, as newer backends do.
func WithErrorCodes() Option {
	return func(s *Server) { s.codes = true }
}

// New starts a fake backend. It is closed when the test finishes.
func New(t interface{ Cleanup(func()) }, opts ...Option) *Server {
	s := &Server{
		today:    calendar.Today(),
		books:    make(map[int64]Book),
		sessions: make(map[int64]Session),
		faults:   make(map[string]fault),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Server = httptest.NewServer(s.routes())
	t.Cleanup(s.Close)
	return s
}

// Today returns the date the fake treats as today.
func (s *Server) Today() calendar.Date { return s.today }

// AddBook stores b, assigning an id and a default status.
func (s *Server) AddBook(b Book) Book {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextBook++
	b.ID = s.nextBook
	if b.Status == "" {
		b.Status = "reading"
		if !b.EndDate.IsZero() {
			b.Status = "finished"
		}
	}
	s.books[b.ID] = b
	return b
}

// AddSession stores sess, assigning an id. The book is not checked.
func (s *Server) AddSession(sess Session) Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSess++
	sess.ID = s.nextSess
	s.sessions[sess.ID] = sess
	return sess
}

// Books returns the stored books ordered by id.
func (s *Server) Books() []Book {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedBooks()
}

// Sessions returns the stored sessions, most recent first.
func (s *Server) Sessions() []Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedSessions(func(Session) bool { return true })
}

// Fail makes the next request matching method and path answer with status
// and body instead of reaching the handler.
func (s *Server) Fail(method, path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[method+" "+path] = fault{status: status, body: body}
}

// Requests returns every request received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// LastRequest returns the most recent request, or the zero Request.
func (s *Server) LastRequest() Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return Request{}
	}
	return s.requests[len(s.requests)-1]
}

func (s *Server) routes() http.Handler {
	r := mux.NewRouter()
	r.Use(s.record)

	r.HandleFunc("/books", s.listBooks).Methods(http.MethodGet)
	r.HandleFunc("/books", s.createBook).Methods(http.MethodPost)
	r.HandleFunc("/books/{id:[0-9]+}", s.getBook).Methods(http.MethodGet)
	r.HandleFunc("/books/{id:[0-9]+}", s.updateBook).Methods(http.MethodPut, http.MethodPatch)
	r.HandleFunc("/books/{id:[0-9]+}", s.deleteBook).Methods(http.MethodDelete)
	r.HandleFunc("/books/{id:[0-9]+}/finish", s.finishBook).Methods(http.MethodPatch)

	r.HandleFunc("/sessions", s.listSessions).Methods(http.MethodGet)
	r.HandleFunc("/sessions", s.createSession).Methods(http.MethodPost)
	r.HandleFunc("/sessions/detailed", s.detailedSessions).Methods(http.MethodGet)
	r.HandleFunc("/sessions/by-date", s.sessionsByDate).Methods(http.MethodGet)
	r.HandleFunc("/sessions/by-range", s.sessionsByRange).Methods(http.MethodGet)
	r.HandleFunc("/sessions/by-book/{id:[0-9]+}", s.sessionsByBook).Methods(http.MethodGet)
	r.HandleFunc("/sessions/{id:[0-9]+}", s.deleteSession).Methods(http.MethodDelete)

	stats := r.PathPrefix("/stats").Subrouter()
	stats.HandleFunc("/{name}", s.stats).Methods(http.MethodGet)

	wrapped := r.PathPrefix("/wrapped").Subrouter()
	wrapped.HandleFunc("/available-years", s.availableYears).Methods(http.MethodGet)
	wrapped.HandleFunc("/{name}", s.wrapped).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeDetail(w, http.StatusNotFound, "Not Found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeDetail(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})
	return r
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = r.Body.Close()
		r.Body = io.NopCloser(strings.NewReader(string(body)))

		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method:   r.Method,
			Path:     r.URL.Path,
			RawQuery: r.URL.RawQuery,
			Header:   r.Header.Clone(),
			Body:     body,
		})
		key := r.Method + " " + r.URL.Path
		f, failed := s.faults[key]
		delete(s.faults, key)
		s.mu.Unlock()

		if failed {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(f.status)
			_, _ = io.WriteString(w, f.body)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Books.

type bookPayload struct {
	Title     *string        `json:"title"`
	Author    *string        `json:"author"`
	StartDate *calendar.Date `json:"start_date"`
	EndDate   *calendar.Date `json:"end_date"`
	Status    *string        `json:"status"`
}

func (s *Server) listBooks(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.sortedBooks())
}

func (s *Server) getBook(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.books[pathID(r)]
	if !ok {
		writeDetail(w, http.StatusNotFound, "Book not found")
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *Server) createBook(w http.ResponseWriter, r *http.Request) {
	var in bookPayload
	if !decodeBody(w, r, &in) {
		return
	}
	var missing []string
	if in.Title == nil {
		missing = append(missing, "title")
	}
	if in.StartDate == nil || in.StartDate.IsZero() {
		missing = append(missing, "start_date")
	}
	if len(missing) > 0 {
		writeMissing(w, missing...)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	title := strings.TrimSpace(*in.Title)
	if title == "" {
		writeDetail(w, http.StatusBadRequest, "Title cannot be empty")
		return
	}
	if in.StartDate.After(s.today) {
		writeDetail(w, http.StatusBadRequest, "Start date cannot be in the future")
		return
	}
	s.nextBook++
	b := Book{ID: s.nextBook, Title: title, StartDate: *in.StartDate, Status: "reading"}
	if in.Author != nil {
		b.Author = strings.TrimSpace(*in.Author)
	}
	s.books[b.ID] = b
	writeJSON(w, http.StatusCreated, b)
}

func (s *Server) updateBook(w http.ResponseWriter, r *http.Request) {
	var in bookPayload
	if !decodeBody(w, r, &in) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.books[pathID(r)]
	if !ok {
		writeDetail(w, http.StatusNotFound, "Book not found")
		return
	}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			writeDetail(w, http.StatusBadRequest, "Title cannot be empty")
			return
		}
		b.Title = title
	}
	if in.Author != nil {
		b.Author = strings.TrimSpace(*in.Author)
	}
	if in.StartDate != nil {
		if in.StartDate.After(s.today) {
			writeDetail(w, http.StatusBadRequest, "Start date cannot be in the future")
			return
		}
		b.StartDate = *in.StartDate
	}
	if in.EndDate != nil {
		b.EndDate = *in.EndDate
	}
	if !b.EndDate.IsZero() && b.EndDate.Before(b.StartDate) {
		writeDetail(w, http.StatusBadRequest, "End date cannot be before start date")
		return
	}
	if in.Status != nil {
		if *in.Status != "reading" && *in.Status != "finished" {
			writeDetail(w, http.StatusBadRequest, "Status must be 'reading' or 'finished'")
			return
		}
		b.Status = *in.Status
	}
	s.books[b.ID] = b
	writeJSON(w, http.StatusOK, b)
}

func (s *Server) finishBook(w http.ResponseWriter, r *http.Request) {
	end := s.Today()
	if raw := r.URL.Query().Get("end_date"); raw != "" {
		d, err := calendar.Parse(raw)
		if err != nil {
			writeInvalid(w, "query", "end_date", "Input should be a valid date")
			return
		}
		end = d
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.books[pathID(r)]
	if !ok {
		writeDetail(w, http.StatusNotFound, "Book not found")
		return
	}
	if end.Before(b.StartDate) {
		writeDetail(w, http.StatusBadRequest, "End date cannot be before start date")
		return
	}
	b.EndDate = end
	b.Status = "finished"
	s.books[b.ID] = b
	writeJSON(w, http.StatusOK, b)
}

func (s *Server) deleteBook(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := pathID(r)
	if _, ok := s.books[id]; !ok {
		writeDetail(w, http.StatusNotFound, "Book not found")
		return
	}
	for _, sess := range s.sessions {
		if sess.BookID == id {
			s.writeError(w, http.StatusBadRequest, "Cannot delete book with reading sessions", "book_has_sessions")
			return
		}
	}
	delete(s.books, id)
	w.WriteHeader(http.StatusNoContent)
}

// Sessions.

type sessionPayload struct {
	BookID      *int64         `json:"book_id"`
	Date        *calendar.Date `json:"date"`
	MinutesRead *int           `json:"minutes_read"`
}

type detailedSession struct {
	Session
	BookTitle  string `json:"book_title"`
	BookAuthor string `json:"book_author"`
}

func (s *Server) listSessions(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.sortedSessions(func(Session) bool { return true }))
}

func (s *Server) detailedSessions(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sessions := s.sortedSessions(func(Session) bool { return true })
	out := make([]detailedSession, 0, len(sessions))
	for _, sess := range sessions {
		b := s.books[sess.BookID]
		out = append(out, detailedSession{Session: sess, BookTitle: b.Title, BookAuthor: b.Author})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) sessionsByDate(w http.ResponseWriter, r *http.Request) {
	date, ok := queryDate(w, r, "date")
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.sortedSessions(func(sess Session) bool { return sess.Date.Equal(date) }))
}

func (s *Server) sessionsByRange(w http.ResponseWriter, r *http.Request) {
	start, ok := queryDate(w, r, "start_date")
	if !ok {
		return
	}
	end, ok := queryDate(w, r, "end_date")
	if !ok {
		return
	}
	if end.Before(start) {
		writeDetail(w, http.StatusBadRequest, "End date cannot be before start date")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.sortedSessions(func(sess Session) bool {
		return !sess.Date.Before(start) && !sess.Date.After(end)
	}))
}

func (s *Server) sessionsByBook(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := pathID(r)
	if _, ok := s.books[id]; !ok {
		writeDetail(w, http.StatusNotFound, "Book not found")
		return
	}
	writeJSON(w, http.StatusOK, s.sortedSessions(func(sess Session) bool { return sess.BookID == id }))
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	var in sessionPayload
	if !decodeBody(w, r, &in) {
		return
	}
	var missing []string
	if in.BookID == nil {
		missing = append(missing, "book_id")
	}
	if in.Date == nil || in.Date.IsZero() {
		missing = append(missing, "date")
	}
	if in.MinutesRead == nil {
		missing = append(missing, "minutes_read")
	}
	if len(missing) > 0 {
		writeMissing(w, missing...)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.books[*in.BookID]; !ok {
		writeDetail(w, http.StatusNotFound, "Book not found")
		return
	}
	if *in.MinutesRead <= 0 {
		writeDetail(w, http.StatusBadRequest, "Minutes read must be greater than 0")
		return
	}
	if in.Date.After(s.today) {
		writeDetail(w, http.StatusBadRequest, "Session date cannot be in the future")
		return
	}
	s.nextSess++
	sess := Session{ID: s.nextSess, BookID: *in.BookID, Date: *in.Date, MinutesRead: *in.MinutesRead}
	s.sessions[sess.ID] = sess
	writeJSON(w, http.StatusCreated, sess)
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := pathID(r)
	if _, ok := s.sessions[id]; !ok {
		writeDetail(w, http.StatusNotFound, "Session not found")
		return
	}
	delete(s.sessions, id)
	w.WriteHeader(http.StatusNoContent)
}

// Helpers. Callers hold s.mu where noted by the sorted* names.

func (s *Server) sortedBooks() []Book {
	out := make([]Book, 0, len(s.books))
	for _, b := range s.books {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Server) sortedSessions(keep func(Session) bool) []Session {
	out := make([]Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		if keep(sess) {
			out = append(out, sess)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (s *Server) writeError(w http.ResponseWriter, status int, detail, code string) {
	body := map[string]string{"detail": detail}
	if s.codes && code != "" {
		body["code"] = code
	}
	writeJSON(w, status, body)
}

func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id
}

func queryDate(w http.ResponseWriter, r *http.Request, key string) (calendar.Date, bool) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		writeMissingIn(w, "query", key)
		return calendar.Date{}, false
	}
	d, err := calendar.Parse(raw)
	if err != nil {
		writeInvalid(w, "query", key, "Input should be a valid date")
		return calendar.Date{}, false
	}
	return d, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeInvalid(w, "body", "", "JSON decode error")
		return false
	}
	return true
}

type issue struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

func writeMissing(w http.ResponseWriter, fields ...string) {
	writeMissingIn(w, "body", fields...)
}

func writeMissingIn(w http.ResponseWriter, where string, fields ...string) {
	issues := make([]issue, 0, len(fields))
	for _, f := range fields {
		issues = append(issues, issue{Loc: []string{where, f}, Msg: "Field required", Type: "missing"})
	}
	writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": issues})
}

func writeInvalid(w http.ResponseWriter, where, field, msg string) {
	loc := []string{where}
	if field != "" {
		loc = append(loc, field)
	}
	writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
		"detail": []issue{{Loc: loc, Msg: msg, Type: "value_error"}},
	})
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
