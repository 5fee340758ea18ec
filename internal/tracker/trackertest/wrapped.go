package trackertest

import (
	"net/http"
	"sort"
	"time"

	"github.com/gorilla/mux"

	"github.com/five82/margin/internal/calendar"
)

type authorMinutes struct {
	Name    string  `json:"name"`
	Minutes int     `json:"minutes"`
	Hours   float64 `json:"hours"`
}

type bookPace struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Days   int    `json:"days"`
}

func (s *Server) availableYears(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	seen := map[int]bool{}
	for _, sess := range s.sessions {
		seen[sess.Date.Year()] = true
	}
	s.mu.Unlock()

	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	writeJSON(w, http.StatusOK, map[string][]int{"years": years})
}

func (s *Server) wrapped(w http.ResponseWriter, r *http.Request) {
	year, ok := queryYear(w, r, s.today.Year())
	if !ok {
		return
	}
	s.mu.Lock()
	snap := s.snapshot(year)
	s.mu.Unlock()

	switch mux.Vars(r)["name"] {
	case "summary":
		writeJSON(w, http.StatusOK, map[string]any{
			"year":                year,
			"general_stats":       snap.generalStats(),
			"protagonist_book":    snap.protagonist(),
			"authors_stats":       snap.authors(),
			"reading_habits":      snap.habits(),
			"biggest_reading_day": snap.biggestDay(),
			"reading_status":      snap.status(),
			"reader_personality":  snap.personality(),
		})
	case "general-stats":
		writeJSON(w, http.StatusOK, map[string]any{"year": year, "stats": snap.generalStats()})
	case "protagonist-book":
		writeJSON(w, http.StatusOK, map[string]any{"year": year, "protagonist": snap.protagonist()})
	case "authors":
		writeJSON(w, http.StatusOK, map[string]any{"year": year, "authors": snap.authors()})
	case "habits":
		writeJSON(w, http.StatusOK, map[string]any{"year": year, "habits": snap.habits()})
	case "biggest-day":
		writeJSON(w, http.StatusOK, map[string]any{"year": year, "biggest_day": snap.biggestDay()})
	case "status":
		writeJSON(w, http.StatusOK, map[string]any{"year": year, "status": snap.status()})
	case "personality":
		writeJSON(w, http.StatusOK, map[string]any{"year": year, "personality": snap.personality()})
	default:
		writeDetail(w, http.StatusNotFound, "Not Found")
	}
}

func (snap snapshot) generalStats() map[string]any {
	total := snap.totalMinutes()
	days := len(snap.readingDays())
	avg := 0
	if days > 0 {
		avg = total / days
	}
	return map[string]any{
		"total_books_finished":           snap.booksFinished(),
		"total_minutes":                  total,
		"total_hours":                    round(float64(total)/60, 1),
		"total_days_with_reading":        days,
		"average_minutes_per_active_day": avg,
		"longest_streak":                 snap.maxStreak(),
	}
}

func (snap snapshot) protagonist() map[string]any {
	if len(snap.sessions) == 0 {
		return map[string]any{}
	}
	minutes := map[int64]int{}
	counts := map[int64]int{}
	for _, sess := range snap.sessions {
		minutes[sess.BookID] += sess.MinutesRead
		counts[sess.BookID]++
	}
	out := map[string]any{
		"most_read_by_minutes": nil,
		"most_sessions":        nil,
		"fastest":              nil,
		"slowest":              nil,
	}
	if id := argmax(minutes); id != 0 {
		b := snap.byID[id]
		out["most_read_by_minutes"] = map[string]any{"id": b.ID, "title": b.Title, "author": b.Author, "minutes": minutes[id]}
	}
	if id := argmax(counts); id != 0 {
		b := snap.byID[id]
		out["most_sessions"] = map[string]any{"id": b.ID, "title": b.Title, "author": b.Author, "sessions": counts[id]}
	}

	var paces []bookPace
	for _, b := range snap.books {
		if b.Status == "finished" && !b.EndDate.IsZero() {
			paces = append(paces, bookPace{Title: b.Title, Author: b.Author, Days: b.StartDate.DaysUntil(b.EndDate)})
		}
	}
	if len(paces) > 0 {
		sort.SliceStable(paces, func(i, j int) bool { return paces[i].Days < paces[j].Days })
		out["fastest"] = paces[0]
		out["slowest"] = paces[len(paces)-1]
	}
	return out
}

// argmax returns the key with the largest value, preferring the lowest key on
// ties. It returns 0 for an empty map.
func argmax(m map[int64]int) int64 {
	var best int64
	bestVal := -1
	for k, v := range m {
		if v > bestVal || (v == bestVal && k < best) {
			best, bestVal = k, v
		}
	}
	return best
}

func (snap snapshot) authors() map[string]any {
	ranked := snap.authorMinutes()
	if len(ranked) == 0 {
		return map[string]any{"most_read_author": nil, "unique_authors": 0, "top_3_authors": []authorMinutes{}}
	}
	top := ranked
	if len(top) > 3 {
		top = top[:3]
	}
	return map[string]any{
		"most_read_author": ranked[0],
		"unique_authors":   len(ranked),
		"top_3_authors":    top,
	}
}

func (snap snapshot) habits() map[string]any {
	n := len(snap.sessions)
	if n == 0 {
		return map[string]any{}
	}
	var total, short, medium, long int
	weekdays := map[time.Weekday]int{}
	months := map[time.Month]int{}
	for _, sess := range snap.sessions {
		total += sess.MinutesRead
		switch {
		case sess.MinutesRead < 20:
			short++
		case sess.MinutesRead <= 45:
			medium++
		default:
			long++
		}
		weekdays[sess.Date.Weekday()]++
		months[sess.Date.Month()] += sess.MinutesRead
	}

	// Monday first, matching the backend's tie order.
	favorite := time.Monday
	for i := 0; i < 7; i++ {
		day := time.Weekday((int(time.Monday) + i) % 7)
		if weekdays[day] > weekdays[favorite] {
			favorite = day
		}
	}
	best := time.January
	for m := time.January; m <= time.December; m++ {
		if months[m] > months[best] {
			best = m
		}
	}
	pct := func(k int) float64 { return round(float64(k)/float64(n)*100, 1) }
	return map[string]any{
		"average_session_duration": total / n,
		"session_classification": map[string]any{
			"short":             short,
			"medium":            medium,
			"long":              long,
			"short_percentage":  pct(short),
			"medium_percentage": pct(medium),
			"long_percentage":   pct(long),
		},
		"favorite_day": favorite.String(),
		"best_month": map[string]any{
			"name":    best.String(),
			"minutes": months[best],
			"hours":   round(float64(months[best])/60, 1),
		},
	}
}

func (snap snapshot) biggestDay() map[string]any {
	if len(snap.sessions) == 0 {
		return nil
	}
	minutes := map[calendar.Date]int{}
	counts := map[calendar.Date]int{}
	for _, sess := range snap.sessions {
		minutes[sess.Date] += sess.MinutesRead
		counts[sess.Date]++
	}
	var best calendar.Date
	for d, m := range minutes {
		if best.IsZero() || m > minutes[best] || (m == minutes[best] && d.Before(best)) {
			best = d
		}
	}
	return map[string]any{
		"date":     best,
		"minutes":  minutes[best],
		"hours":    round(float64(minutes[best])/60, 1),
		"sessions": counts[best],
	}
}

func (snap snapshot) startedInYear() int {
	n := 0
	for _, b := range snap.books {
		if !b.StartDate.IsZero() && b.StartDate.Year() == snap.year {
			n++
		}
	}
	return n
}

func (snap snapshot) status() map[string]any {
	finished := snap.booksFinished()
	started := snap.startedInYear()
	var reading []bookPace
	for _, b := range snap.books {
		if b.Status == "reading" {
			reading = append(reading, bookPace{Title: b.Title, Author: b.Author, Days: b.StartDate.DaysUntil(snap.today)})
		}
	}
	sort.SliceStable(reading, func(i, j int) bool { return reading[i].Days > reading[j].Days })
	longest := reading
	if len(longest) > 3 {
		longest = longest[:3]
	}
	if longest == nil {
		longest = []bookPace{}
	}
	rate := 0.0
	if started > 0 {
		rate = round(float64(finished)/float64(started)*100, 1)
	}
	return map[string]any{
		"books_finished":     finished,
		"books_started":      started,
		"currently_reading":  len(reading),
		"completion_rate":    rate,
		"longest_in_reading": longest,
	}
}

func (snap snapshot) personality() map[string]string {
	n := len(snap.sessions)
	if n == 0 {
		return map[string]string{"type": "beginner", "description": "You're just starting your reading journey!"}
	}
	avg := float64(snap.totalMinutes()) / float64(n)
	started := snap.startedInYear()
	finished := snap.booksFinished()
	rate := 0.0
	if started > 0 {
		rate = float64(finished) / float64(started) * 100
	}
	switch {
	case n > 100 && avg < 30:
		return map[string]string{"type": "constant_reader", "description": "You're a constant reader! You prefer short, frequent sessions and make reading a daily habit."}
	case n < 50 && avg > 45:
		return map[string]string{"type": "intensive_reader", "description": "You're an intensive reader! When you read, you dive deep with long, immersive sessions."}
	case started > finished*2:
		return map[string]string{"type": "explorer", "description": "You're an explorer! You love starting new books and discovering different stories."}
	case rate > 80:
		return map[string]string{"type": "finisher", "description": "You're a finisher! You're committed to completing what you start."}
	default:
		return map[string]string{"type": "balanced_reader", "description": "You're a balanced reader! You have a healthy mix of reading habits."}
	}
}
