package models

import (
	"strings"
	"time"
)

// Config is the per-directory picker configuration stored in
// .rangepick/config.json. Zero values mean "use the built-in default".
type Config struct {
	Pages          int    `json:"pages,omitempty"`
	WeekStart      string `json:"week_start,omitempty"`
	ColorScheme    string `json:"color_scheme,omitempty"`
	DateTime       bool   `json:"date_time,omitempty"`
	RelativeInput  bool   `json:"relative_input,omitempty"`
	HistoryLimit   int    `json:"history_limit,omitempty"`
	DisableHistory bool   `json:"disable_history,omitempty"`
	LastPreset     string `json:"last_preset,omitempty"`
}

// Default config values
const (
	DefaultHistoryLimit = 200
	DefaultColorScheme  = "blue"
)

// ColorSchemes lists the accepted color scheme names.
var ColorSchemes = []string{"blue", "green", "purple", "orange", "red", "teal", "gray"}

// IsValidColorScheme checks if a color scheme name is known
func IsValidColorScheme(s string) bool {
	for _, c := range ColorSchemes {
		if c == s {
			return true
		}
	}
	return false
}

// ParseWeekday parses a weekday name or its three letter abbreviation.
func ParseWeekday(s string) (time.Weekday, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if s == name || s == name[:3] {
			return d, true
		}
	}
	return time.Sunday, false
}

// WeekStartDay returns the configured first day of the week, Sunday when
// unset or unknown.
func (c *Config) WeekStartDay() time.Weekday {
	d, _ := ParseWeekday(c.WeekStart)
	return d
}

// EffectiveHistoryLimit returns HistoryLimit or its default.
func (c *Config) EffectiveHistoryLimit() int {
	if c.HistoryLimit > 0 {
		return c.HistoryLimit
	}
	return DefaultHistoryLimit
}

// PickSource records which command produced a Pick.
type PickSource string

const (
	SourcePicker PickSource = "picker"
	SourceCheck  PickSource = "check"
	SourcePreset PickSource = "preset"
)

// Pick is a committed range kept in the history database.
type Pick struct {
	ID        string     `json:"id"`
	Start     *time.Time `json:"start"`
	End       *time.Time `json:"end"`
	DateTime  bool       `json:"date_time"`
	Source    PickSource `json:"source"`
	Preset    string     `json:"preset,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// Complete reports whether both endpoints were set.
func (p *Pick) Complete() bool {
	return p.Start != nil && p.End != nil
}

// Days returns the number of calendar days covered, counting both ends.
// Incomplete picks cover zero days.
func (p *Pick) Days() int {
	if !p.Complete() {
		return 0
	}
	s := time.Date(p.Start.Year(), p.Start.Month(), p.Start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(p.End.Year(), p.End.Month(), p.End.Day(), 0, 0, 0, 0, time.UTC)
	return int(e.Sub(s).Hours()/24) + 1
}
