package tracker

import "context"

// Stats groups the /stats endpoints. Every call takes an optional year;
// zero asks for all time.
type Stats struct {
	c *Client
}

// Stats returns the statistics resource client.
func (c *Client) Stats() Stats { return Stats{c: c} }

func (s Stats) get(ctx context.Context, endpoint string, year int) (response, error) {
	return s.c.get(ctx, "/stats/"+endpoint, Params{{Key: "year", Value: optionalYear(year)}})
}

// Summary returns the full statistics payload.
func (s Stats) Summary(ctx context.Context, year int) (SummaryStats, error) {
	return decode[SummaryStats](s.get(ctx, "summary", year))
}

// Basic returns the dashboard statistics.
func (s Stats) Basic(ctx context.Context, year int) (BasicStats, error) {
	return decode[BasicStats](s.get(ctx, "basic", year))
}

// Daily returns reading time per day, most recent first.
func (s Stats) Daily(ctx context.Context, year int) ([]DailyStats, error) {
	return decode[[]DailyStats](s.get(ctx, "daily", year))
}

// Books returns reading time per book, largest first.
func (s Stats) Books(ctx context.Context, year int) ([]BookStats, error) {
	return decode[[]BookStats](s.get(ctx, "books", year))
}

// Streaks returns the current and longest reading streaks.
func (s Stats) Streaks(ctx context.Context, year int) (Streaks, error) {
	return decode[Streaks](s.get(ctx, "streaks", year))
}

// MostReadBook returns the book with the most reading time, or nil when no
// session exists.
func (s Stats) MostReadBook(ctx context.Context, year int) (*BookStats, error) {
	return decode[*BookStats](s.get(ctx, "most-read-book", year))
}

// MostReadAuthor returns the author with the most reading time, or "" when
// none.
func (s Stats) MostReadAuthor(ctx context.Context, year int) (string, error) {
	out, err := decode[struct {
		Author *string `json:"author"`
	}](s.get(ctx, "most-read-author", year))
	if err != nil || out.Author == nil {
		return "", err
	}
	return *out.Author, nil
}

// BooksFinished returns the number of finished books.
func (s Stats) BooksFinished(ctx context.Context, year int) (int, error) {
	out, err := decode[struct {
		BooksFinished int `json:"books_finished"`
	}](s.get(ctx, "books-finished", year))
	return out.BooksFinished, err
}

// BooksFinishedByYear returns finished-book counts per year, newest first.
func (s Stats) BooksFinishedByYear(ctx context.Context, year int) ([]YearlyBooks, error) {
	return decode[[]YearlyBooks](s.get(ctx, "books-finished-by-year", year))
}

// TotalTime returns the total reading time.
func (s Stats) TotalTime(ctx context.Context, year int) (TotalTime, error) {
	return decode[TotalTime](s.get(ctx, "total-time", year))
}
