package dateformat

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Parser parses text typed into a picker field. It always accepts Pattern and,
// when Relative is set, falls back to relative expressions such as "today",
// "+7d" or "friday".
type Parser struct {
	Pattern  string
	Relative bool
	Location *time.Location
	Now      func() time.Time
}

// Parse returns the time described by s, or ok=false.
func (p *Parser) Parse(s string) (time.Time, bool) {
	loc := p.Location
	if loc == nil {
		loc = time.Local
	}
	if t, ok := ParseInLocation(s, p.Pattern, loc); ok {
		return t, true
	}
	if !p.Relative {
		return time.Time{}, false
	}
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	t, err := ParseRelative(s, now().In(loc))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ParseRelative resolves a relative date expression against now. The result
// is always at midnight in now's location.
//
// Supported forms:
//   - Exact dates: "2026-03-01"
//   - Relative offsets: "+7d", "-2w", "+1m", "-1y"
//   - Day names: "monday", "tue", ... (next occurrence, never today)
//   - Keywords: "today", "tomorrow", "yesterday", "next-week", "next-month",
//     "start-of-month", "end-of-month", "start-of-year"
func ParseRelative(input string, now time.Time) (time.Time, error) {
	input = strings.TrimSpace(strings.ToLower(input))
	if input == "" {
		return time.Time{}, fmt.Errorf("empty date input")
	}
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())

	if t, err := time.ParseInLocation("2006-01-02", input, now.Location()); err == nil {
		return t, nil
	}

	switch input {
	case "today", "t":
		return today, nil
	case "tomorrow":
		return today.AddDate(0, 0, 1), nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	case "next-week":
		// Next Monday
		daysUntilMonday := (int(time.Monday) - int(now.Weekday()) + 7) % 7
		if daysUntilMonday == 0 {
			daysUntilMonday = 7
		}
		return today.AddDate(0, 0, daysUntilMonday), nil
	case "next-month":
		return time.Date(y, m+1, 1, 0, 0, 0, 0, now.Location()), nil
	case "start-of-month":
		return time.Date(y, m, 1, 0, 0, 0, 0, now.Location()), nil
	case "end-of-month":
		return time.Date(y, m+1, 0, 0, 0, 0, 0, now.Location()), nil
	case "start-of-year":
		return time.Date(y, 1, 1, 0, 0, 0, 0, now.Location()), nil
	}

	if (input[0] == '+' || input[0] == '-') && len(input) >= 3 {
		sign := 1
		if input[0] == '-' {
			sign = -1
		}
		unit := input[len(input)-1]
		n, err := strconv.Atoi(input[1 : len(input)-1])
		if err == nil && n >= 0 {
			n *= sign
			switch unit {
			case 'd':
				return today.AddDate(0, 0, n), nil
			case 'w':
				return today.AddDate(0, 0, n*7), nil
			case 'm':
				return today.AddDate(0, n, 0), nil
			case 'y':
				return today.AddDate(n, 0, 0), nil
			default:
				return time.Time{}, fmt.Errorf("unknown relative unit %q in %q (use d, w, m or y)", string(unit), input)
			}
		}
	}

	if target, ok := weekdays[input]; ok {
		daysAhead := (int(target) - int(now.Weekday()) + 7) % 7
		if daysAhead == 0 {
			daysAhead = 7 // always advance to next occurrence
		}
		return today.AddDate(0, 0, daysAhead), nil
	}

	return time.Time{}, fmt.Errorf("unrecognized date format: %q", input)
}

var weekdays = map[string]time.Weekday{
	"sunday": time.Sunday, "sun": time.Sunday,
	"monday": time.Monday, "mon": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday,
	"friday": time.Friday, "fri": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday,
}
