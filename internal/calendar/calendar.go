// Package calendar generates month pages for the pickers: each page is a list
// of week rows holding seven days, including overflow days from the adjacent
// months so every row is complete.
package calendar

import (
	"time"

	"github.com/marcus/rangepick/internal/dateformat"
	"github.com/marcus/rangepick/internal/timeutil"
)

// Week is one row of seven consecutive days.
type Week []time.Time

// Page is the grid for one month.
type Page []Week

// Generate returns pageCount month pages. Page i shows the month of viewing
// plus i months. Rows start on weekStart.
func Generate(viewing time.Time, pageCount int, weekStart time.Weekday) []Page {
	if pageCount < 1 {
		pageCount = 1
	}
	first := timeutil.StartOfMonth(viewing)
	pages := make([]Page, 0, pageCount)
	for i := 0; i < pageCount; i++ {
		pages = append(pages, monthPage(first.AddDate(0, i, 0), weekStart))
	}
	return pages
}

func monthPage(first time.Time, weekStart time.Weekday) Page {
	last := first.AddDate(0, 1, -1)

	lead := (int(first.Weekday()) - int(weekStart) + 7) % 7
	start := first.AddDate(0, 0, -lead)
	trail := (int(weekStart) + 6 - int(last.Weekday()) + 7) % 7
	end := last.AddDate(0, 0, trail)

	var page Page
	for day := start; !day.After(end); {
		week := make(Week, 7)
		for i := range week {
			week[i] = day
			day = day.AddDate(0, 0, 1)
		}
		page = append(page, week)
	}
	return page
}

// Grid is a stateful month-grid provider. It owns the viewing anchor and
// regenerates pages from it on demand.
type Grid struct {
	viewing   time.Time
	pages     int
	weekStart time.Weekday
	now       func() time.Time

	// OnView is called with the new anchor after every navigation.
	OnView func(time.Time)
}

// Option configures a Grid.
type Option func(*Grid)

// WithPages sets the number of month pages shown side by side.
func WithPages(n int) Option {
	return func(g *Grid) {
		if n > 0 {
			g.pages = n
		}
	}
}

// WithWeekStart sets the first day of each week row.
func WithWeekStart(d time.Weekday) Option {
	return func(g *Grid) { g.weekStart = d }
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(g *Grid) {
		if now != nil {
			g.now = now
		}
	}
}

// WithViewing sets the initial anchor. The default is today.
func WithViewing(t time.Time) Option {
	return func(g *Grid) { g.viewing = timeutil.StartOfMonth(t) }
}

// New returns a Grid showing one page for the current month on Sundays-first
// rows unless options say otherwise.
func New(opts ...Option) *Grid {
	g := &Grid{pages: 1, weekStart: time.Sunday, now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	if g.viewing.IsZero() {
		g.viewing = timeutil.StartOfMonth(g.now())
	}
	return g
}

// Viewing returns the first day of the first visible month.
func (g *Grid) Viewing() time.Time { return g.viewing }

// PageCount returns the number of visible months.
func (g *Grid) PageCount() int { return g.pages }

// WeekStart returns the first weekday of each row.
func (g *Grid) WeekStart() time.Weekday { return g.weekStart }

// Pages returns the grids for the visible months.
func (g *Grid) Pages() []Page {
	return Generate(g.viewing, g.pages, g.weekStart)
}

// Month returns the first day of visible page i.
func (g *Grid) Month(i int) time.Time {
	return g.viewing.AddDate(0, i, 0)
}

// MonthLabel returns a label such as "Jan 2024" for visible page i.
func (g *Grid) MonthLabel(i int) string {
	return dateformat.Format(g.Month(i), dateformat.MonthPattern)
}

// Weekdays returns the short weekday names in row order.
func (g *Grid) Weekdays() []string {
	names := make([]string, 7)
	for i := range names {
		names[i] = time.Weekday((int(g.weekStart) + i) % 7).String()[:2]
	}
	return names
}

// SetViewing moves the anchor to the month containing t.
func (g *Grid) SetViewing(t time.Time) {
	g.viewing = timeutil.StartOfMonth(t)
	if g.OnView != nil {
		g.OnView(g.viewing)
	}
}

// NextMonth advances the anchor by one month.
func (g *Grid) NextMonth() { g.SetViewing(g.viewing.AddDate(0, 1, 0)) }

// PrevMonth moves the anchor back one month.
func (g *Grid) PrevMonth() { g.SetViewing(g.viewing.AddDate(0, -1, 0)) }

// NextYear advances the anchor by one year.
func (g *Grid) NextYear() { g.SetViewing(g.viewing.AddDate(1, 0, 0)) }

// PrevYear moves the anchor back one year.
func (g *Grid) PrevYear() { g.SetViewing(g.viewing.AddDate(-1, 0, 0)) }

// Today moves the anchor to the current month.
func (g *Grid) Today() { g.SetViewing(g.now()) }
