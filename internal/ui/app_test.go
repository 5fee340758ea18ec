package ui

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/margin/internal/calendar"
	"github.com/five82/margin/internal/logging"
	"github.com/five82/margin/internal/prefs"
	"github.com/five82/margin/internal/state"
	"github.com/five82/margin/internal/tracker"
	"github.com/five82/margin/internal/tracker/trackertest"
)

var errTest = errors.New("test failure")

var testToday = calendar.MustParse("2024-03-02")

type testEnv struct {
	srv   *trackertest.Server
	store *state.Store
	prefs string
}

func newTestModel(t *testing.T, opts ...func(*Options)) (Model, *testEnv) {
	t.Helper()
	srv := trackertest.New(t, trackertest.WithToday(testToday))
	client, err := tracker.NewClient(srv.URL, tracker.WithTimeout(2*time.Second))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	env := &testEnv{
		srv:   srv,
		store: &state.Store{},
		prefs: filepath.Join(t.TempDir(), "prefs.toml"),
	}

	o := Options{
		Client:    client,
		Store:     env.store,
		Logger:    logging.Discard(),
		PrefsPath: env.prefs,
		Today:     srv.Today,
	}
	for _, opt := range opts {
		opt(&o)
	}

	m := New(o)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 200, Height: 40})
	return next.(Model), env
}

// load runs the fetch of the current view.
func load(t *testing.T, m Model) Model {
	t.Helper()
	return drain(t, m, m.fetchCmd(m.current))
}

// drain runs cmd and every command it leads to, feeding the messages back
// into the model. Ticks and quit are dropped.
func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 50 {
			t.Fatal("command chain did not settle")
		}
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}

		msg := runCmd(t, c)
		switch msg := msg.(type) {
		case nil, tickMsg, tea.QuitMsg:
			continue
		case tea.BatchMsg:
			queue = append(queue, msg...)
			continue
		}

		next, nextCmd := m.Update(msg)
		m = next.(Model)
		queue = append(queue, nextCmd)
	}
	return m
}

func runCmd(t *testing.T, c tea.Cmd) tea.Msg {
	t.Helper()
	done := make(chan tea.Msg, 1)
	go func() { done <- c() }()
	select {
	case msg := <-done:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("command did not return")
		return nil
	}
}

func press(t *testing.T, m Model, k tea.KeyMsg) Model {
	t.Helper()
	next, cmd := m.Update(k)
	return drain(t, next.(Model), cmd)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	enterKey = tea.KeyMsg{Type: tea.KeyEnter}
	escKey   = tea.KeyMsg{Type: tea.KeyEsc}
)

func lastToast(t *testing.T, m Model) toast {
	t.Helper()
	if len(m.toasts) == 0 {
		t.Fatal("no toast shown")
	}
	return m.toasts[len(m.toasts)-1]
}

func countRequests(srv *trackertest.Server, method, path string) int {
	n := 0
	for _, r := range srv.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

func addPiranesi(env *testEnv) trackertest.Book {
	book := env.srv.AddBook(trackertest.Book{Title: "Piranesi", Author: "Susanna Clarke", StartDate: calendar.MustParse("2024-02-20")})
	env.srv.AddSession(trackertest.Session{BookID: book.ID, Date: calendar.MustParse("2024-02-21"), MinutesRead: 40})
	return book
}

func TestParseView(t *testing.T) {
	tests := []struct {
		name   string
		want   View
		wantOK bool
	}{
		{"books", ViewBooks, true},
		{" Wrapped ", ViewWrapped, true},
		{"logs", ViewLogs, true},
		{"", ViewDashboard, false},
		{"queue", ViewDashboard, false},
	}
	for _, tt := range tests {
		got, ok := ParseView(tt.name)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseView(%q) = (%v, %v), want (%v, %v)", tt.name, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestStartViewFromOptions(t *testing.T) {
	m, _ := newTestModel(t, func(o *Options) { o.StartView = "stats" })
	if m.current != ViewStats {
		t.Fatalf("current = %v, want stats", m.current)
	}
	if !m.stats.loading {
		t.Fatal("start view not marked loading")
	}
}

func TestDashboardLoads(t *testing.T) {
	m, env := newTestModel(t)
	addPiranesi(env)

	m = load(t, m)
	if !m.dash.loaded || m.dash.err != nil {
		t.Fatalf("dashboard state = %+v", m.dash.loadState)
	}
	if m.dash.basic.TotalMinutesRead != 40 {
		t.Fatalf("TotalMinutesRead = %d, want 40", m.dash.basic.TotalMinutesRead)
	}
	if len(m.dash.reading) != 1 || m.dash.reading[0].Title != "Piranesi" {
		t.Fatalf("reading = %+v, want Piranesi", m.dash.reading)
	}
	if len(m.dash.recent) != 1 {
		t.Fatalf("recent sessions = %d, want 1", len(m.dash.recent))
	}
	if view := m.View(); !strings.Contains(view, "Piranesi") {
		t.Fatal("dashboard does not show the book being read")
	}
}

func TestSwitchViewFetches(t *testing.T) {
	m, env := newTestModel(t)
	addPiranesi(env)

	m = press(t, m, runes("2"))
	if m.current != ViewBooks {
		t.Fatalf("current = %v, want books", m.current)
	}
	if !m.books.loaded || len(m.books.items) != 1 {
		t.Fatalf("books = %+v", m.books)
	}
	if !strings.Contains(m.View(), "Books (1)") {
		t.Fatal("books view title missing")
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.current != ViewSessions {
		t.Fatalf("tab: current = %v, want sessions", m.current)
	}
	if len(m.sessions.items) != 1 || m.sessions.items[0].BookTitle != "Piranesi" {
		t.Fatalf("sessions = %+v", m.sessions.items)
	}
}

func TestFirstLoadErrorRendersInline(t *testing.T) {
	m, env := newTestModel(t)
	env.srv.Fail(http.MethodGet, "/books", http.StatusServiceUnavailable, `{"detail":"database locked"}`)

	m = press(t, m, runes("2"))
	if m.books.err == nil || m.books.loaded {
		t.Fatalf("books state = %+v, want unloaded error", m.books.loadState)
	}
	view := m.View()
	if !strings.Contains(view, "Could not load") || !strings.Contains(view, "database locked") {
		t.Fatalf("view missing inline error:\n%s", view)
	}

	m = press(t, m, runes("r"))
	if !m.books.loaded || m.books.err != nil {
		t.Fatalf("retry did not recover: %+v", m.books.loadState)
	}
}

func TestCreateBookThroughForm(t *testing.T) {
	m, env := newTestModel(t)
	m = press(t, m, runes("2"))

	m = press(t, m, runes("n"))
	if m.form == nil || m.form.kind != formNewBook {
		t.Fatal("n did not open the new book form")
	}
	if got := m.form.value("start_date"); got != "2024-03-02" {
		t.Fatalf("start date default = %q, want today", got)
	}
	m.form.fields[0].input.SetValue("The Dispossessed")
	m.form.fields[1].input.SetValue("Ursula K. Le Guin")

	m = press(t, m, enterKey)
	if m.form != nil {
		t.Fatalf("form still open: %+v", m.form.errors)
	}
	books := env.srv.Books()
	if len(books) != 1 || books[0].Title != "The Dispossessed" {
		t.Fatalf("server books = %+v", books)
	}
	if got := lastToast(t, m); got.level != toastSuccess || got.text != "Book added" {
		t.Fatalf("toast = %+v", got)
	}
	if len(m.books.items) != 1 {
		t.Fatalf("books view not reloaded, items = %d", len(m.books.items))
	}
}

func TestFormValidationSendsNothing(t *testing.T) {
	m, env := newTestModel(t)
	m = press(t, m, runes("2"))
	m = press(t, m, runes("n"))

	m.form.fields[0].input.SetValue("   ")
	m.form.fields[2].input.SetValue("2024-03-09")
	m = press(t, m, enterKey)

	if m.form == nil {
		t.Fatal("invalid form was closed")
	}
	if m.form.errors["title"] == "" || m.form.errors["start_date"] == "" {
		t.Fatalf("errors = %v, want title and start_date", m.form.errors)
	}
	if n := countRequests(env.srv, http.MethodPost, "/books"); n != 0 {
		t.Fatalf("POST /books sent %d times, want 0", n)
	}

	view := m.View()
	if !strings.Contains(view, "Title is required") {
		t.Fatalf("form does not show the title error:\n%s", view)
	}

	m = press(t, m, escKey)
	if m.form != nil {
		t.Fatal("esc did not close the form")
	}
}

func TestFormSubmitFailureKeepsForm(t *testing.T) {
	m, env := newTestModel(t)
	m = press(t, m, runes("2"))
	m = press(t, m, runes("n"))
	m.form.fields[0].input.SetValue("Kindred")

	env.srv.Fail(http.MethodPost, "/books", http.StatusServiceUnavailable, `{"detail":"disk full"}`)
	m = press(t, m, enterKey)

	if m.form == nil {
		t.Fatal("form closed after a failed request")
	}
	if m.form.submitting {
		t.Fatal("form still submitting")
	}
	if m.form.submitErr != "disk full" {
		t.Fatalf("submitErr = %q, want server detail", m.form.submitErr)
	}
	if got := lastToast(t, m); got.level != toastError {
		t.Fatalf("toast = %+v, want error", got)
	}
}

func TestFormFocusCycles(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(t, m, runes("2"))
	m = press(t, m, runes("n"))

	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.form.focus != 1 {
		t.Fatalf("focus after tab = %d, want 1", m.form.focus)
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	m = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.form.focus != 2 {
		t.Fatalf("focus after wrapping back = %d, want 2", m.form.focus)
	}

	// Letters bound to navigation go to the input while a form is open.
	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = press(t, m, runes("j"))
	if m.form.focus != 0 || m.form.fields[0].input.Value() != "j" {
		t.Fatalf("typing j: focus %d value %q", m.form.focus, m.form.fields[0].input.Value())
	}
}

func TestEditBookPatchesChangedFields(t *testing.T) {
	m, env := newTestModel(t)
	addPiranesi(env)
	m = press(t, m, runes("2"))

	m = press(t, m, runes("e"))
	if m.form == nil || m.form.kind != formEditBook {
		t.Fatal("e did not open the edit form")
	}
	m = press(t, m, enterKey)
	if m.form != nil {
		t.Fatal("unchanged edit left the form open")
	}
	if got := lastToast(t, m); got.text != "Nothing to change" {
		t.Fatalf("toast = %+v", got)
	}
	if n := countRequests(env.srv, http.MethodPatch, "/books/1"); n != 0 {
		t.Fatalf("PATCH sent %d times for an unchanged form", n)
	}

	m = press(t, m, runes("e"))
	m.form.fields[0].input.SetValue("Piranesi (illustrated)")
	m = press(t, m, enterKey)

	req := env.srv.LastRequest()
	for _, r := range env.srv.Requests() {
		if r.Method == http.MethodPatch {
			req = r
		}
	}
	if req.Method != http.MethodPatch {
		t.Fatal("no PATCH request sent")
	}
	body := string(req.Body)
	if !strings.Contains(body, `"title":"Piranesi (illustrated)"`) || strings.Contains(body, "author") {
		t.Fatalf("PATCH body = %s, want only the title", body)
	}
	if got := env.srv.Books()[0].Title; got != "Piranesi (illustrated)" {
		t.Fatalf("server title = %q", got)
	}
}

func TestFinishBook(t *testing.T) {
	m, env := newTestModel(t)
	addPiranesi(env)
	m = press(t, m, runes("2"))

	m = press(t, m, runes("f"))
	if m.form == nil || m.form.kind != formFinishBook {
		t.Fatal("f did not open the finish form")
	}
	m = press(t, m, enterKey)
	if m.form != nil {
		t.Fatalf("finish form still open: %v %q", m.form.errors, m.form.submitErr)
	}

	book := env.srv.Books()[0]
	if book.Status != "finished" || !book.EndDate.Equal(testToday) {
		t.Fatalf("book = %+v, want finished today", book)
	}

	m = press(t, m, runes("f"))
	if m.form != nil {
		t.Fatal("finish form opened for a finished book")
	}
	if got := lastToast(t, m); got.level != toastInfo {
		t.Fatalf("toast = %+v, want info", got)
	}
}

func TestFinishBookRejectsDateBeforeStart(t *testing.T) {
	m, env := newTestModel(t)
	addPiranesi(env)
	m = press(t, m, runes("2"))
	m = press(t, m, runes("f"))

	m.form.fields[0].input.SetValue("2024-01-01")
	m = press(t, m, enterKey)
	if m.form == nil || m.form.errors["end_date"] == "" {
		t.Fatal("end date before start was accepted")
	}
	if n := countRequests(env.srv, http.MethodPatch, "/books/1/finish"); n != 0 {
		t.Fatalf("finish sent %d times", n)
	}
}

func TestDeleteBookWithSessionsShowsToast(t *testing.T) {
	m, env := newTestModel(t)
	addPiranesi(env)
	m = press(t, m, runes("2"))

	m = press(t, m, runes("d"))
	if m.confirm == nil {
		t.Fatal("d did not ask for confirmation")
	}
	if !strings.Contains(m.View(), "Delete \"Piranesi\"?") {
		t.Fatal("confirm dialog not rendered")
	}

	m = press(t, m, runes("y"))
	if m.confirm != nil {
		t.Fatal("confirm still open")
	}
	got := lastToast(t, m)
	if got.level != toastError || !strings.Contains(got.text, "reading sessions") {
		t.Fatalf("toast = %+v, want sessions conflict", got)
	}
	if len(env.srv.Books()) != 1 {
		t.Fatal("book was deleted")
	}
}

func TestDeleteBookConfirmCancel(t *testing.T) {
	m, env := newTestModel(t)
	env.srv.AddBook(trackertest.Book{Title: "Beloved", StartDate: calendar.MustParse("2024-01-10")})
	m = press(t, m, runes("2"))

	m = press(t, m, runes("d"))
	m = press(t, m, runes("n"))
	if m.confirm != nil || m.form != nil {
		t.Fatal("n should only cancel the dialog")
	}
	if n := countRequests(env.srv, http.MethodDelete, "/books/1"); n != 0 {
		t.Fatalf("DELETE sent %d times after cancel", n)
	}

	m = press(t, m, runes("d"))
	m = press(t, m, runes("y"))
	if len(env.srv.Books()) != 0 {
		t.Fatal("book without sessions was not deleted")
	}
	if len(m.books.items) != 0 {
		t.Fatalf("books view shows %d items after delete", len(m.books.items))
	}
}

func TestLogAndDeleteSession(t *testing.T) {
	m, env := newTestModel(t)
	book := addPiranesi(env)
	m = press(t, m, runes("2"))

	// Open the book's sessions, then log one against it.
	m = press(t, m, enterKey)
	if m.current != ViewSessions || m.sessions.book == nil || m.sessions.book.ID != book.ID {
		t.Fatalf("enter did not open the book's sessions: %v %+v", m.current, m.sessions.book)
	}
	m = press(t, m, runes("n"))
	if got := m.form.value("book_id"); got != "1" {
		t.Fatalf("book id prefill = %q, want 1", got)
	}
	m.form.fields[2].input.SetValue("25")
	m = press(t, m, enterKey)
	if m.form != nil {
		t.Fatalf("session form still open: %v %q", m.form.errors, m.form.submitErr)
	}
	if len(env.srv.Sessions()) != 2 || len(m.sessions.items) != 2 {
		t.Fatalf("sessions: server %d, view %d, want 2", len(env.srv.Sessions()), len(m.sessions.items))
	}

	m = press(t, m, runes("d"))
	m = press(t, m, runes("y"))
	if got := lastToast(t, m); got.text != "Session deleted" {
		t.Fatalf("toast = %+v", got)
	}
	if len(env.srv.Sessions()) != 1 {
		t.Fatalf("server sessions = %d, want 1", len(env.srv.Sessions()))
	}

	m = press(t, m, escKey)
	if m.sessions.book != nil {
		t.Fatal("esc did not clear the book filter")
	}
}

func TestSessionFormRejectsBadMinutes(t *testing.T) {
	m, env := newTestModel(t)
	addPiranesi(env)
	m = load(t, m)

	m = press(t, m, runes("n"))
	m.form.fields[0].input.SetValue("1")
	m.form.fields[2].input.SetValue("1441")
	m = press(t, m, enterKey)
	if m.form == nil || m.form.errors["minutes_read"] == "" {
		t.Fatal("1441 minutes accepted")
	}
	if n := countRequests(env.srv, http.MethodPost, "/sessions"); n != 0 {
		t.Fatalf("POST /sessions sent %d times", n)
	}
}

func TestStatsYearCycling(t *testing.T) {
	m, env := newTestModel(t)
	addPiranesi(env)
	env.store.Update(&tracker.BasicStats{}, []int{2024, 2023}, nil)
	next, _ := m.Update(snapshotMsg(env.store.Snapshot()))
	m = next.(Model)

	m = press(t, m, runes("4"))
	if m.stats.year != 0 || !m.stats.loaded {
		t.Fatalf("stats = year %d loaded %v", m.stats.year, m.stats.loaded)
	}
	if !strings.Contains(m.View(), "Stats · All time") {
		t.Fatal("stats title missing")
	}

	m = press(t, m, runes("["))
	if m.stats.year != 2024 {
		t.Fatalf("year = %d, want 2024", m.stats.year)
	}
	if q := env.srv.LastRequest().RawQuery; q != "year=2024" {
		t.Fatalf("query = %q, want year=2024", q)
	}
	if m.stats.summary.TotalMinutesRead != 40 {
		t.Fatalf("2024 minutes = %d, want 40", m.stats.summary.TotalMinutesRead)
	}

	m = press(t, m, runes("["))
	m = press(t, m, runes("["))
	if m.stats.year != 2023 {
		t.Fatalf("year = %d, want 2023 (oldest)", m.stats.year)
	}

	m = press(t, m, runes("]"))
	if m.stats.year != 2024 {
		t.Fatalf("year = %d, want 2024", m.stats.year)
	}
}

func TestStaleStatsResponseIgnored(t *testing.T) {
	m, _ := newTestModel(t)
	m.current = ViewStats
	m.stats = statsState{year: 2023}
	m.stats.loading = true

	next, _ := m.Update(statsMsg{year: 2024, summary: tracker.SummaryStats{TotalMinutesRead: 99}})
	m = next.(Model)
	if m.stats.loaded || m.stats.summary.TotalMinutesRead != 0 {
		t.Fatal("response for another year was applied")
	}
}

func TestWrappedView(t *testing.T) {
	m, env := newTestModel(t)
	addPiranesi(env)
	env.store.Update(&tracker.BasicStats{}, []int{2024}, nil)
	next, _ := m.Update(snapshotMsg(env.store.Snapshot()))
	m = next.(Model)

	m = press(t, m, runes("5"))
	if m.wrapped.year != 2024 || !m.wrapped.loaded {
		t.Fatalf("wrapped = year %d loaded %v err %v", m.wrapped.year, m.wrapped.loaded, m.wrapped.err)
	}
	view := m.View()
	if !strings.Contains(view, "Wrapped · 2024") || !strings.Contains(view, "The year in numbers") {
		t.Fatalf("wrapped view:\n%s", view)
	}
}

func TestHeaderConnectionStates(t *testing.T) {
	m, env := newTestModel(t)

	if !strings.Contains(m.renderHeader(), "Connecting...") {
		t.Fatal("header should say connecting before the first poll")
	}

	env.store.Update(&tracker.BasicStats{TotalMinutesRead: 75, MostReadAuthor: "Octavia E. Butler"}, nil, nil)
	next, _ := m.Update(snapshotMsg(env.store.Snapshot()))
	m = next.(Model)
	header := m.renderHeader()
	if !strings.Contains(header, "1h 15m") || !strings.Contains(header, "Octavia E. Butler") {
		t.Fatalf("heartbeat header = %q", header)
	}

	timeout := &tracker.Error{Kind: tracker.KindTimeout, Message: "request timed out"}
	env.store.Update(nil, nil, timeout)
	next, _ = m.Update(snapshotMsg(env.store.Snapshot()))
	m = next.(Model)
	if header := m.renderHeader(); strings.Contains(header, "TIMEOUT") || !strings.Contains(header, "!") {
		t.Fatalf("one failure should only flag the heartbeat, got %q", header)
	}

	env.store.Update(nil, nil, timeout)
	next, _ = m.Update(snapshotMsg(env.store.Snapshot()))
	m = next.(Model)
	header = m.renderHeader()
	if !strings.Contains(header, "TIMEOUT") || !strings.Contains(header, "Retrying...") {
		t.Fatalf("offline header = %q", header)
	}
}

func TestConnectionLabel(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&tracker.Error{Kind: tracker.KindTimeout}, "TIMEOUT"},
		{&tracker.Error{Kind: tracker.KindHTTP5xx}, "SERVER ERROR"},
		{&tracker.Error{Kind: tracker.KindHTTP4xx}, "API ERROR"},
		{&tracker.Error{Kind: tracker.KindNetwork}, "OFFLINE"},
		{errTest, "OFFLINE"},
	}
	for _, tt := range tests {
		if got := connectionLabel(tt.err); got != tt.want {
			t.Errorf("connectionLabel(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestCycleThemeSavesPrefs(t *testing.T) {
	m, env := newTestModel(t, func(o *Options) {
		o.Theme = "Slate"
		o.StartView = "books"
	})
	if m.theme.Name != "Slate" {
		t.Fatalf("theme = %q, want Slate", m.theme.Name)
	}

	m = press(t, m, runes("T"))
	if m.theme.Name != "Nightfox" {
		t.Fatalf("theme after T = %q, want Nightfox", m.theme.Name)
	}

	saved, err := prefs.Load(env.prefs)
	if err != nil {
		t.Fatalf("prefs.Load: %v", err)
	}
	if saved.Theme != "Nightfox" || saved.StartView != "books" {
		t.Fatalf("saved prefs = %+v", saved)
	}
}

func TestCommandBarHints(t *testing.T) {
	m, _ := newTestModel(t)

	bar := m.renderCommandBar()
	for _, want := range []string{"Log session", "More", "Nightfox"} {
		if !strings.Contains(bar, want) {
			t.Fatalf("dashboard command bar missing %q:\n%s", want, bar)
		}
	}

	m = press(t, m, runes("2"))
	bar = m.renderCommandBar()
	for _, want := range []string{"Finish", "Sessions", "More"} {
		if !strings.Contains(bar, want) {
			t.Fatalf("books command bar missing %q:\n%s", want, bar)
		}
	}
}

func TestHelpOverlay(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(t, m, runes("?"))
	if !m.showHelp {
		t.Fatal("? did not open help")
	}
	m = press(t, m, runes("2"))
	if m.showHelp || m.current != ViewDashboard {
		t.Fatal("a key while help is open should only close it")
	}
}

func TestToastsExpire(t *testing.T) {
	m, _ := newTestModel(t)
	now := time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	for i := 0; i < maxToasts+2; i++ {
		m.pushToast(toastInfo, "hello")
	}
	if len(m.toasts) != maxToasts {
		t.Fatalf("toasts = %d, want %d", len(m.toasts), maxToasts)
	}

	m.pruneToasts(now.Add(ToastDuration - time.Second))
	if len(m.toasts) != maxToasts {
		t.Fatal("toasts pruned early")
	}
	m.pruneToasts(now.Add(ToastDuration + time.Second))
	if len(m.toasts) != 0 {
		t.Fatalf("toasts = %d after expiry, want 0", len(m.toasts))
	}
}

func TestQuitKeys(t *testing.T) {
	m, _ := newTestModel(t)
	for _, k := range []tea.KeyMsg{runes("q"), {Type: tea.KeyCtrlC}} {
		_, cmd := m.Update(k)
		if cmd == nil {
			t.Fatalf("%s returned no command", k)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Fatalf("%s did not quit", k)
		}
	}
}
