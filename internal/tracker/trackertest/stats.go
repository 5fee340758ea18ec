package trackertest

import (
	"math"
	"net/http"
	"sort"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/five82/margin/internal/calendar"
)

type bookStats struct {
	BookID       int64  `json:"book_id"`
	Title        string `json:"title"`
	Author       string `json:"author"`
	TotalMinutes int    `json:"total_minutes"`
}

type dailyStats struct {
	Date         calendar.Date `json:"date"`
	TotalMinutes int           `json:"total_minutes"`
}

type yearlyBooks struct {
	Year          int `json:"year"`
	BooksFinished int `json:"books_finished"`
}

// snapshot is a year-filtered view of the store. year 0 keeps everything.
type snapshot struct {
	today    calendar.Date
	year     int
	books    []Book
	byID     map[int64]Book
	sessions []Session
}

func (s *Server) snapshot(year int) snapshot {
	snap := snapshot{today: s.today, year: year, books: s.sortedBooks(), byID: make(map[int64]Book, len(s.books))}
	for _, b := range snap.books {
		snap.byID[b.ID] = b
	}
	snap.sessions = s.sortedSessions(func(sess Session) bool {
		return year == 0 || sess.Date.Year() == year
	})
	return snap
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	year, ok := queryYear(w, r, 0)
	if !ok {
		return
	}
	s.mu.Lock()
	snap := s.snapshot(year)
	s.mu.Unlock()

	switch mux.Vars(r)["name"] {
	case "summary":
		total := snap.totalMinutes()
		writeJSON(w, http.StatusOK, map[string]any{
			"total_minutes_read":     total,
			"total_hours_read":       round(float64(total)/60, 2),
			"books_finished":         snap.booksFinished(),
			"current_streak":         snap.currentStreak(),
			"max_streak":             snap.maxStreak(),
			"most_read_book":         snap.mostReadBook(),
			"most_read_author":       snap.mostReadAuthor(),
			"daily_stats":            snap.daily(),
			"book_stats":             snap.perBook(),
			"books_finished_by_year": snap.finishedByYear(),
		})
	case "basic":
		total := snap.totalMinutes()
		writeJSON(w, http.StatusOK, map[string]any{
			"total_minutes_read": total,
			"total_hours_read":   round(float64(total)/60, 2),
			"books_finished":     snap.booksFinished(),
			"current_streak":     snap.currentStreak(),
			"most_read_author":   snap.mostReadAuthor(),
		})
	case "daily":
		writeJSON(w, http.StatusOK, snap.daily())
	case "books":
		writeJSON(w, http.StatusOK, snap.perBook())
	case "streaks":
		writeJSON(w, http.StatusOK, map[string]int{
			"current_streak": snap.currentStreak(),
			"max_streak":     snap.maxStreak(),
		})
	case "most-read-book":
		writeJSON(w, http.StatusOK, snap.mostReadBook())
	case "most-read-author":
		writeJSON(w, http.StatusOK, map[string]any{"author": snap.mostReadAuthor()})
	case "books-finished":
		writeJSON(w, http.StatusOK, map[string]int{"books_finished": snap.booksFinished()})
	case "books-finished-by-year":
		writeJSON(w, http.StatusOK, snap.finishedByYear())
	case "total-time":
		total := snap.totalMinutes()
		writeJSON(w, http.StatusOK, map[string]any{
			"total_minutes": total,
			"total_hours":   round(float64(total)/60, 2),
		})
	default:
		writeDetail(w, http.StatusNotFound, "Not Found")
	}
}

func (snap snapshot) totalMinutes() int {
	total := 0
	for _, sess := range snap.sessions {
		total += sess.MinutesRead
	}
	return total
}

func (snap snapshot) finished() []Book {
	var out []Book
	for _, b := range snap.books {
		if b.Status != "finished" || b.EndDate.IsZero() {
			continue
		}
		if snap.year != 0 && b.EndDate.Year() != snap.year {
			continue
		}
		out = append(out, b)
	}
	return out
}

func (snap snapshot) booksFinished() int { return len(snap.finished()) }

func (snap snapshot) finishedByYear() []yearlyBooks {
	counts := map[int]int{}
	for _, b := range snap.finished() {
		counts[b.EndDate.Year()]++
	}
	out := make([]yearlyBooks, 0, len(counts))
	for y, n := range counts {
		out = append(out, yearlyBooks{Year: y, BooksFinished: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year > out[j].Year })
	return out
}

func (snap snapshot) daily() []dailyStats {
	totals := map[calendar.Date]int{}
	for _, sess := range snap.sessions {
		totals[sess.Date] += sess.MinutesRead
	}
	out := make([]dailyStats, 0, len(totals))
	for d, m := range totals {
		out = append(out, dailyStats{Date: d, TotalMinutes: m})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

func (snap snapshot) perBook() []bookStats {
	totals := map[int64]int{}
	for _, sess := range snap.sessions {
		totals[sess.BookID] += sess.MinutesRead
	}
	out := make([]bookStats, 0, len(totals))
	for id, m := range totals {
		b := snap.byID[id]
		out = append(out, bookStats{BookID: id, Title: b.Title, Author: b.Author, TotalMinutes: m})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalMinutes != out[j].TotalMinutes {
			return out[i].TotalMinutes > out[j].TotalMinutes
		}
		return out[i].BookID < out[j].BookID
	})
	return out
}

func (snap snapshot) mostReadBook() *bookStats {
	books := snap.perBook()
	if len(books) == 0 {
		return nil
	}
	return &books[0]
}

func (snap snapshot) authorMinutes() []authorMinutes {
	totals := map[string]int{}
	for _, sess := range snap.sessions {
		if author := snap.byID[sess.BookID].Author; author != "" {
			totals[author] += sess.MinutesRead
		}
	}
	out := make([]authorMinutes, 0, len(totals))
	for name, m := range totals {
		out = append(out, authorMinutes{Name: name, Minutes: m, Hours: round(float64(m)/60, 1)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Minutes != out[j].Minutes {
			return out[i].Minutes > out[j].Minutes
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func (snap snapshot) mostReadAuthor() *string {
	authors := snap.authorMinutes()
	if len(authors) == 0 {
		return nil
	}
	return &authors[0].Name
}

func (snap snapshot) readingDays() map[calendar.Date]bool {
	days := make(map[calendar.Date]bool, len(snap.sessions))
	for _, sess := range snap.sessions {
		days[sess.Date] = true
	}
	return days
}

// currentStreak counts back from today, or from yesterday when nothing was
// read today yet.
func (snap snapshot) currentStreak() int {
	days := snap.readingDays()
	d := snap.today
	if !days[d] {
		d = d.AddDays(-1)
	}
	streak := 0
	for days[d] {
		streak++
		d = d.AddDays(-1)
	}
	return streak
}

func (snap snapshot) maxStreak() int {
	days := snap.readingDays()
	sorted := make([]calendar.Date, 0, len(days))
	for d := range days {
		sorted = append(sorted, d)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })
	best, run := 0, 0
	for i, d := range sorted {
		if i > 0 && sorted[i-1].DaysUntil(d) == 1 {
			run++
		} else {
			run = 1
		}
		best = max(best, run)
	}
	return best
}

func queryYear(w http.ResponseWriter, r *http.Request, fallback int) (int, bool) {
	raw := r.URL.Query().Get("year")
	if raw == "" {
		return fallback, true
	}
	year, err := strconv.Atoi(raw)
	if err != nil || year < 1 || year > 9999 {
		writeDetail(w, http.StatusBadRequest, "Invalid year")
		return 0, false
	}
	return year, true
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
