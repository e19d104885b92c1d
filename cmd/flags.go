package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/marcus/rangepick/internal/dateformat"
	"github.com/marcus/rangepick/internal/selection"
)

// flagNow is the reference time for relative flag values.
var flagNow = time.Now

// parseDateArg accepts a date, a date-time or a relative expression such as
// "today" or "-7d".
func parseDateArg(s string) (time.Time, error) {
	if t, ok := dateformat.Parse(s, dateformat.DateTimePattern); ok {
		return t, nil
	}
	t, err := dateformat.ParseRelative(s, flagNow())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// dateFlag is a pflag.Value holding an optional point in time.
type dateFlag struct {
	raw string
	t   *time.Time
}

var _ pflag.Value = (*dateFlag)(nil)

func (f *dateFlag) String() string { return f.raw }

func (f *dateFlag) Type() string { return "date" }

func (f *dateFlag) Set(s string) error {
	t, err := parseDateArg(s)
	if err != nil {
		return err
	}
	f.raw, f.t = s, &t
	return nil
}

// Time returns the parsed value, or nil when the flag was not given.
func (f *dateFlag) Time() *time.Time {
	return f.t
}

// rangeFlag is a pflag.Value for "START..END". Either side may be empty.
type rangeFlag struct {
	raw string
	sel *selection.Selection
}

var _ pflag.Value = (*rangeFlag)(nil)

func (f *rangeFlag) String() string { return f.raw }

func (f *rangeFlag) Type() string { return "range" }

func (f *rangeFlag) Set(s string) error {
	sel, err := parseRangeArg(s)
	if err != nil {
		return err
	}
	f.raw, f.sel = s, &sel
	return nil
}

// Selection returns the parsed range, or nil when the flag was not given.
func (f *rangeFlag) Selection() *selection.Selection {
	return f.sel
}

func parseRangeArg(s string) (selection.Selection, error) {
	start, end, ok := strings.Cut(s, "..")
	if !ok {
		return selection.Selection{}, fmt.Errorf("invalid range %q: expected START..END", s)
	}
	var sel selection.Selection
	if start = strings.TrimSpace(start); start != "" {
		t, err := parseDateArg(start)
		if err != nil {
			return selection.Selection{}, err
		}
		sel.Start = &t
	}
	if end = strings.TrimSpace(end); end != "" {
		t, err := parseDateArg(end)
		if err != nil {
			return selection.Selection{}, err
		}
		sel.End = &t
	}
	if sel.Complete() && sel.Start.After(*sel.End) {
		return selection.Selection{}, fmt.Errorf("invalid range %q: start is after end", s)
	}
	return sel, nil
}
