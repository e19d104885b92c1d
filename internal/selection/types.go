// Package selection is the range-selection core shared by every picker
// variant. A Machine owns the focused endpoint, the committed selection, the
// hover preview and the validation bounds; Snapshot exposes the per-day
// predicates the host uses to draw and hit-test the calendar.
//
// All writers go through Machine's methods so the ordering and bounds rules
// cannot be bypassed. Readers take a Snapshot, or Subscribe to receive one
// after every accepted operation.
package selection

import (
	"log/slog"
	"time"
)

// Endpoint identifies one half of a range. The zero value NoFocus is used for
// the focus pointer when the picker is closed.
type Endpoint string

const (
	NoFocus Endpoint = ""
	Start   Endpoint = "start"
	End     Endpoint = "end"
)

// Valid reports whether e names an endpoint.
func (e Endpoint) Valid() bool { return e == Start || e == End }

// Other returns the opposite endpoint.
func (e Endpoint) Other() Endpoint {
	switch e {
	case Start:
		return End
	case End:
		return Start
	}
	return NoFocus
}

func (e Endpoint) String() string {
	if e == NoFocus {
		return "none"
	}
	return string(e)
}

// Selection is a possibly incomplete range. A nil slot means "no value".
type Selection struct {
	Start *time.Time
	End   *time.Time
}

// NewSelection builds a complete selection from two dates.
func NewSelection(start, end time.Time) Selection {
	return Selection{Start: &start, End: &end}
}

// Get returns the slot for e.
func (s Selection) Get(e Endpoint) *time.Time {
	switch e {
	case Start:
		return s.Start
	case End:
		return s.End
	}
	return nil
}

func (s *Selection) set(e Endpoint, t *time.Time) {
	if t != nil {
		v := *t
		t = &v
	}
	switch e {
	case Start:
		s.Start = t
	case End:
		s.End = t
	}
}

// Clone returns a deep copy so callers cannot alias the machine's state.
func (s Selection) Clone() Selection {
	var c Selection
	c.set(Start, s.Start)
	c.set(End, s.End)
	return c
}

// Complete reports whether both endpoints are set.
func (s Selection) Complete() bool { return s.Start != nil && s.End != nil }

// Empty reports whether neither endpoint is set.
func (s Selection) Empty() bool { return s.Start == nil && s.End == nil }

// Equal compares both slots by instant.
func (s Selection) Equal(o Selection) bool {
	return sameInstant(s.Start, o.Start) && sameInstant(s.End, o.End)
}

func sameInstant(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

// Navigator moves the visible calendar. calendar.Grid implements it.
type Navigator interface {
	SetViewing(t time.Time)
}

// Options configures a Machine. The zero value is a two-page date picker with
// no bounds and no owner.
type Options struct {
	// Value makes the machine controlled: its slots seed the selection and
	// the owner keeps calling Reconcile with its authoritative value.
	Value *Selection
	// DefaultValue seeds the selection of an uncontrolled machine. Value
	// takes precedence slot by slot.
	DefaultValue *Selection
	// OnChange receives a copy of the selection after every change. The
	// seed from Value or DefaultValue is not reported.
	OnChange func(Selection)

	Min *time.Time
	Max *time.Time

	// ColorScheme is cosmetic and only passed through to the host.
	ColorScheme string
	// DateTime switches to minute granularity and the date-time pattern.
	DateTime bool
	// Pages is the number of visible month pages. Zero picks 2 for dates and
	// 1 for date-times.
	Pages int
	// RelativeInput lets typed text use expressions such as "today" or "+7d".
	RelativeInput bool
	// Guards replaces DefaultGuards for typed input and Apply.
	Guards []Guard

	Location *time.Location
	Now      func() time.Time
	Logger   *slog.Logger
}

// Highlight is the background a host should give a day cell.
type Highlight int

const (
	HighlightNone Highlight = iota
	HighlightDisabled
	HighlightSelected
	HighlightRange
)

func (h Highlight) String() string {
	switch h {
	case HighlightDisabled:
		return "disabled"
	case HighlightSelected:
		return "selected"
	case HighlightRange:
		return "range"
	default:
		return "none"
	}
}

// DayFlags is everything a host needs to draw one day cell.
type DayFlags struct {
	InScope   bool
	Selected  bool
	Disabled  bool
	Today     bool
	Highlight Highlight
}
