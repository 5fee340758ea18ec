package tracker

import (
	"github.com/five82/margin/internal/calendar"
)

// Book statuses reported by the backend.
const (
	StatusReading  = "reading"
	StatusFinished = "finished"
)

// Book mirrors the backend's book record.
type Book struct {
	ID        int64         `json:"id"`
	Title     string        `json:"title"`
	Author    string        `json:"author"`
	StartDate calendar.Date `json:"start_date"`
	EndDate   calendar.Date `json:"end_date"`
	Status    string        `json:"status"`
}

// Finished reports whether the book has been marked finished.
func (b Book) Finished() bool { return b.Status == StatusFinished }

// DaysReading returns how long the book has been (or was) in progress,
// counting to its end date when finished and to today otherwise.
func (b Book) DaysReading(today calendar.Date) int {
	if b.StartDate.IsZero() {
		return 0
	}
	end := today
	if !b.EndDate.IsZero() {
		end = b.EndDate
	}
	if days := b.StartDate.DaysUntil(end); days > 0 {
		return days
	}
	return 0
}

// BookInput is the payload for creating a book.
type BookInput struct {
	Title     string        `json:"title"`
	Author    string        `json:"author,omitempty"`
	StartDate calendar.Date `json:"start_date"`
}

// BookChanges is a partial book update. Nil fields are not sent.
type BookChanges struct {
	Title     *string        `json:"title,omitempty"`
	Author    *string        `json:"author,omitempty"`
	StartDate *calendar.Date `json:"start_date,omitempty"`
	EndDate   *calendar.Date `json:"end_date,omitempty"`
	Status    *string        `json:"status,omitempty"`
}

// Session mirrors the backend's reading session record.
type Session struct {
	ID          int64         `json:"id"`
	BookID      int64         `json:"book_id"`
	Date        calendar.Date `json:"date"`
	MinutesRead int           `json:"minutes_read"`
}

// SessionWithBook is a session joined with its book's title and author.
type SessionWithBook struct {
	Session
	BookTitle  string `json:"book_title"`
	BookAuthor string `json:"book_author"`
}

// SessionInput is the payload for logging a reading session.
type SessionInput struct {
	BookID      int64         `json:"book_id"`
	Date        calendar.Date `json:"date"`
	MinutesRead int           `json:"minutes_read"`
}

// BookStats is the reading time accumulated on one book.
type BookStats struct {
	BookID       int64  `json:"book_id"`
	Title        string `json:"title"`
	Author       string `json:"author"`
	TotalMinutes int    `json:"total_minutes"`
}

// DailyStats is the reading time of one day.
type DailyStats struct {
	Date         calendar.Date `json:"date"`
	TotalMinutes int           `json:"total_minutes"`
}

// Streaks holds consecutive-day reading streaks.
type Streaks struct {
	CurrentStreak int `json:"current_streak"`
	MaxStreak     int `json:"max_streak"`
}

// YearlyBooks is the number of books finished in a year.
type YearlyBooks struct {
	Year          int `json:"year"`
	BooksFinished int `json:"books_finished"`
}

// BasicStats is the dashboard-sized statistics payload.
type BasicStats struct {
	TotalMinutesRead int     `json:"total_minutes_read"`
	TotalHoursRead   float64 `json:"total_hours_read"`
	BooksFinished    int     `json:"books_finished"`
	CurrentStreak    int     `json:"current_streak"`
	MostReadAuthor   string  `json:"most_read_author"`
}

// SummaryStats is the full statistics payload.
type SummaryStats struct {
	TotalMinutesRead    int           `json:"total_minutes_read"`
	TotalHoursRead      float64       `json:"total_hours_read"`
	BooksFinished       int           `json:"books_finished"`
	CurrentStreak       int           `json:"current_streak"`
	MaxStreak           int           `json:"max_streak"`
	MostReadBook        *BookStats    `json:"most_read_book"`
	MostReadAuthor      string        `json:"most_read_author"`
	DailyStats          []DailyStats  `json:"daily_stats"`
	BookStats           []BookStats   `json:"book_stats"`
	BooksFinishedByYear []YearlyBooks `json:"books_finished_by_year"`
}

// TotalTime is the total reading time in minutes and hours.
type TotalTime struct {
	TotalMinutes int     `json:"total_minutes"`
	TotalHours   float64 `json:"total_hours"`
}

// WrappedSummary is the year-in-review report.
type WrappedSummary struct {
	Year            int             `json:"year"`
	GeneralStats    GeneralStats    `json:"general_stats"`
	ProtagonistBook ProtagonistBook `json:"protagonist_book"`
	Authors         AuthorsStats    `json:"authors_stats"`
	Habits          ReadingHabits   `json:"reading_habits"`
	BiggestDay      *BiggestDay     `json:"biggest_reading_day"`
	Status          ReadingStatus   `json:"reading_status"`
	Personality     Personality     `json:"reader_personality"`
}

// GeneralStats aggregates a year's reading time.
type GeneralStats struct {
	TotalBooksFinished         int     `json:"total_books_finished"`
	TotalMinutes               int     `json:"total_minutes"`
	TotalHours                 float64 `json:"total_hours"`
	TotalDaysWithReading       int     `json:"total_days_with_reading"`
	AverageMinutesPerActiveDay float64 `json:"average_minutes_per_active_day"`
	LongestStreak              int     `json:"longest_streak"`
}

// ProtagonistBook names the standout books of a year. Any entry is nil when
// the year has no qualifying data.
type ProtagonistBook struct {
	MostReadByMinutes *BookHighlight `json:"most_read_by_minutes"`
	MostSessions      *BookHighlight `json:"most_sessions"`
	Fastest           *BookPace      `json:"fastest"`
	Slowest           *BookPace      `json:"slowest"`
}

// BookHighlight is a book with the metric it won on.
type BookHighlight struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Author   string `json:"author"`
	Minutes  int    `json:"minutes"`
	Sessions int    `json:"sessions"`
}

// BookPace is a book with the number of days it took or has taken.
type BookPace struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Days   int    `json:"days"`
}

// AuthorsStats ranks the authors read in a year.
type AuthorsStats struct {
	MostReadAuthor *AuthorMinutes  `json:"most_read_author"`
	UniqueAuthors  int             `json:"unique_authors"`
	TopAuthors     []AuthorMinutes `json:"top_3_authors"`
}

// AuthorMinutes is an author's reading time.
type AuthorMinutes struct {
	Name    string  `json:"name"`
	Minutes int     `json:"minutes"`
	Hours   float64 `json:"hours"`
}

// ReadingHabits describes session length and timing patterns.
type ReadingHabits struct {
	AverageSessionDuration int                   `json:"average_session_duration"`
	Classification         SessionClassification `json:"session_classification"`
	FavoriteDay            string                `json:"favorite_day"`
	BestMonth              *BestMonth            `json:"best_month"`
}

// SessionClassification buckets sessions: short (<20 min), medium (20-45)
// and long (>45).
type SessionClassification struct {
	Short            int     `json:"short"`
	Medium           int     `json:"medium"`
	Long             int     `json:"long"`
	ShortPercentage  float64 `json:"short_percentage"`
	MediumPercentage float64 `json:"medium_percentage"`
	LongPercentage   float64 `json:"long_percentage"`
}

// BestMonth is the month with the most reading time.
type BestMonth struct {
	Name    string  `json:"name"`
	Minutes int     `json:"minutes"`
	Hours   float64 `json:"hours"`
}

// BiggestDay is the single day with the most reading time.
type BiggestDay struct {
	Date     calendar.Date `json:"date"`
	Minutes  int           `json:"minutes"`
	Hours    float64       `json:"hours"`
	Sessions int           `json:"sessions"`
}

// ReadingStatus counts books started and finished in a year.
type ReadingStatus struct {
	BooksFinished    int        `json:"books_finished"`
	BooksStarted     int        `json:"books_started"`
	CurrentlyReading int        `json:"currently_reading"`
	CompletionRate   float64    `json:"completion_rate"`
	LongestInReading []BookPace `json:"longest_in_reading"`
}

// Personality is the backend's interpretive reader label.
type Personality struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}
