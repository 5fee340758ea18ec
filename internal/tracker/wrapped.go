package tracker

import "context"

// Wrapped groups the /wrapped year-in-review endpoints. Year zero lets the
// backend pick the current year.
type Wrapped struct {
	c *Client
}

// Wrapped returns the year-in-review resource client.
func (c *Client) Wrapped() Wrapped { return Wrapped{c: c} }

func (w Wrapped) get(ctx context.Context, endpoint string, year int) (response, error) {
	return w.c.get(ctx, "/wrapped/"+endpoint, Params{{Key: "year", Value: optionalYear(year)}})
}

// Summary returns the complete report for a year.
func (w Wrapped) Summary(ctx context.Context, year int) (WrappedSummary, error) {
	return decode[WrappedSummary](w.get(ctx, "summary", year))
}

// GeneralStats returns the year's reading totals.
func (w Wrapped) GeneralStats(ctx context.Context, year int) (GeneralStats, error) {
	out, err := decode[struct {
		Stats GeneralStats `json:"stats"`
	}](w.get(ctx, "general-stats", year))
	return out.Stats, err
}

// ProtagonistBook returns the year's standout books.
func (w Wrapped) ProtagonistBook(ctx context.Context, year int) (ProtagonistBook, error) {
	out, err := decode[struct {
		Protagonist ProtagonistBook `json:"protagonist"`
	}](w.get(ctx, "protagonist-book", year))
	return out.Protagonist, err
}

// Authors returns the year's author ranking.
func (w Wrapped) Authors(ctx context.Context, year int) (AuthorsStats, error) {
	out, err := decode[struct {
		Authors AuthorsStats `json:"authors"`
	}](w.get(ctx, "authors", year))
	return out.Authors, err
}

// Habits returns the year's session patterns.
func (w Wrapped) Habits(ctx context.Context, year int) (ReadingHabits, error) {
	out, err := decode[struct {
		Habits ReadingHabits `json:"habits"`
	}](w.get(ctx, "habits", year))
	return out.Habits, err
}

// BiggestDay returns the year's biggest reading day, or nil without
// sessions.
func (w Wrapped) BiggestDay(ctx context.Context, year int) (*BiggestDay, error) {
	out, err := decode[struct {
		BiggestDay *BiggestDay `json:"biggest_day"`
	}](w.get(ctx, "biggest-day", year))
	return out.BiggestDay, err
}

// Status returns the year's started/finished counts.
func (w Wrapped) Status(ctx context.Context, year int) (ReadingStatus, error) {
	out, err := decode[struct {
		Status ReadingStatus `json:"status"`
	}](w.get(ctx, "status", year))
	return out.Status, err
}

// Personality returns the year's reader label.
func (w Wrapped) Personality(ctx context.Context, year int) (Personality, error) {
	out, err := decode[struct {
		Personality Personality `json:"personality"`
	}](w.get(ctx, "personality", year))
	return out.Personality, err
}

// AvailableYears returns the years that have reading sessions, newest first.
func (w Wrapped) AvailableYears(ctx context.Context) ([]int, error) {
	out, err := decode[struct {
		Years []int `json:"years"`
	}](w.c.get(ctx, "/wrapped/available-years", nil))
	return out.Years, err
}
