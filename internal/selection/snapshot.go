package selection

import (
	"time"

	"github.com/marcus/rangepick/internal/timeutil"
)

// Snapshot is an immutable view of a Machine. Every predicate a host needs
// for rendering is a method here, so one render pass always sees one state.
type Snapshot struct {
	Focused     Endpoint
	Selection   Selection
	Hovering    *time.Time
	Hovered     bool
	Min         *time.Time
	Max         *time.Time
	Viewing     time.Time
	Pages       int
	DateTime    bool
	ColorScheme string
	Pattern     string
	Now         time.Time
}

// Open reports whether an endpoint is focused, i.e. the calendar is shown.
func (s Snapshot) Open() bool { return s.Focused != NoFocus }

// Month returns the first day of the month shown on page.
func (s Snapshot) Month(page int) time.Time {
	return timeutil.StartOfMonth(s.Viewing).AddDate(0, page, 0)
}

// InScope reports whether day belongs to the month shown on page rather than
// being an overflow day from a neighbouring month.
func (s Snapshot) InScope(page int, day time.Time) bool {
	month := s.Month(page)
	return timeutil.InRange(day, month, timeutil.EndOfMonth(month))
}

// IsSelected reports whether day is the calendar day of either endpoint.
func (s Snapshot) IsSelected(day time.Time) bool {
	if start := s.Selection.Start; start != nil && timeutil.SameDay(*start, day) {
		return true
	}
	if end := s.Selection.End; end != nil && timeutil.SameDay(*end, day) {
		return true
	}
	return false
}

// InSelectionRange reports whether day lies within a complete selection.
func (s Snapshot) InSelectionRange(day time.Time) bool {
	if !s.Selection.Complete() {
		return false
	}
	return timeutil.InRange(day, *s.Selection.Start, *s.Selection.End)
}

// InHoverRange previews the range that selecting the hovered day would
// produce. It is false unless the pointer is over the grid and exactly one
// side of the edit is anchored by the opposite endpoint.
func (s Snapshot) InHoverRange(day time.Time) bool {
	if !s.Hovered || s.Hovering == nil {
		return false
	}
	if start := s.Selection.Start; start != nil && s.Focused == End {
		return timeutil.InRange(day, *start, *s.Hovering)
	}
	if end := s.Selection.End; end != nil && s.Focused == Start {
		return timeutil.InRange(day, *s.Hovering, *end)
	}
	return false
}

// IsDisabled reports whether day may not be selected: it lies outside the
// bounds, or picking it for the focused endpoint would invert the range.
func (s Snapshot) IsDisabled(day time.Time) bool {
	if s.Max != nil && day.After(*s.Max) {
		return true
	}
	if s.Min != nil && day.Before(*s.Min) {
		return true
	}
	if start := s.Selection.Start; start != nil && s.Focused == End {
		return day.Before(*start)
	}
	if end := s.Selection.End; end != nil && s.Focused == Start {
		return day.After(*end)
	}
	return false
}

// IsToday reports whether day is the current calendar day.
func (s Snapshot) IsToday(day time.Time) bool {
	return timeutil.SameDay(day, s.Now)
}

// Highlight resolves the background for day on page. The first matching rule
// wins: out of scope, disabled, selected endpoint, hover preview or committed
// range.
func (s Snapshot) Highlight(page int, day time.Time) Highlight {
	switch {
	case !s.InScope(page, day):
		return HighlightNone
	case s.IsDisabled(day):
		return HighlightDisabled
	case s.IsSelected(day):
		return HighlightSelected
	case s.InHoverRange(day), s.InSelectionRange(day):
		return HighlightRange
	}
	return HighlightNone
}

// Day collects the flags for one cell.
func (s Snapshot) Day(page int, day time.Time) DayFlags {
	return DayFlags{
		InScope:   s.InScope(page, day),
		Selected:  s.IsSelected(day),
		Disabled:  s.IsDisabled(day),
		Today:     s.IsToday(day),
		Highlight: s.Highlight(page, day),
	}
}

// Value returns a copy of the committed selection.
func (s Snapshot) Value() Selection {
	return s.Selection.Clone()
}
