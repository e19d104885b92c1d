// Package dateformat formats and parses dates with Unicode-style patterns such
// as "yyyy-MM-dd" or "yyyy-MM-dd'T'HH:mm".
//
// Patterns are translated to Go reference layouts. Parse never panics and
// reports failure with ok=false, so callers can silently ignore bad input.
package dateformat

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Patterns used by the pickers.
const (
	DatePattern     = "yyyy-MM-dd"
	DateTimePattern = "yyyy-MM-dd'T'HH:mm"
	MonthPattern    = "MMM yyyy"
)

// PatternFor returns the pattern used by a picker in date or date-time mode.
func PatternFor(dateTime bool) string {
	if dateTime {
		return DateTimePattern
	}
	return DatePattern
}

var tokens = map[byte][]struct {
	min    int
	layout string
}{
	'y': {{3, "2006"}, {2, "06"}, {1, "2006"}},
	'M': {{4, "January"}, {3, "Jan"}, {2, "01"}, {1, "1"}},
	'd': {{2, "02"}, {1, "2"}},
	'E': {{4, "Monday"}, {1, "Mon"}},
	'H': {{1, "15"}},
	'h': {{2, "03"}, {1, "3"}},
	'm': {{2, "04"}, {1, "4"}},
	's': {{2, "05"}, {1, "5"}},
	'a': {{1, "PM"}},
}

var layouts sync.Map // pattern -> string

// Layout converts pattern to a Go time layout.
//
// Supported tokens: yyyy yy y, MMMM MMM MM M, dd d, EEEE EEE, HH H, hh h, mm m,
// ss s and a. Text between single quotes is copied verbatim and '' yields a
// single quote. Any other ASCII letter is rejected. Literal text must not
// contain Go layout tokens (digits 1-7, "Jan", "Mon", ...).
func Layout(pattern string) (string, error) {
	if l, ok := layouts.Load(pattern); ok {
		return l.(string), nil
	}

	var sb strings.Builder
	for i := 0; i < len(pattern); {
		c := pattern[i]
		switch {
		case c == '\'':
			if i+1 < len(pattern) && pattern[i+1] == '\'' {
				sb.WriteByte('\'')
				i += 2
				continue
			}
			end := strings.IndexByte(pattern[i+1:], '\'')
			if end < 0 {
				return "", fmt.Errorf("unterminated quote in pattern %q", pattern)
			}
			sb.WriteString(pattern[i+1 : i+1+end])
			i += end + 2
		case isLetter(c):
			n := 1
			for i+n < len(pattern) && pattern[i+n] == c {
				n++
			}
			layout, ok := tokenLayout(c, n)
			if !ok {
				return "", fmt.Errorf("unsupported token %q in pattern %q", strings.Repeat(string(c), n), pattern)
			}
			sb.WriteString(layout)
			i += n
		default:
			sb.WriteByte(c)
			i++
		}
	}

	l := sb.String()
	layouts.Store(pattern, l)
	return l, nil
}

func tokenLayout(c byte, n int) (string, bool) {
	for _, t := range tokens[c] {
		if n >= t.min {
			return t.layout, true
		}
	}
	return "", false
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// Format formats t with pattern. An invalid pattern yields an empty string.
func Format(t time.Time, pattern string) string {
	layout, err := Layout(pattern)
	if err != nil {
		return ""
	}
	return t.Format(layout)
}

// Parse parses s with pattern in the local time zone. It returns ok=false for
// empty input, an invalid pattern or text that does not match.
func Parse(s, pattern string) (time.Time, bool) {
	return ParseInLocation(s, pattern, time.Local)
}

// ParseInLocation is like Parse but interprets s in loc.
func ParseInLocation(s, pattern string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	layout, err := Layout(pattern)
	if err != nil {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(layout, s, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
