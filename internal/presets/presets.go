// Package presets provides named date ranges such as "last-7-days" that can
// be applied to a picker in one step. Built-in presets are computed from a
// reference time; more can be declared in a TOML file.
package presets

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/sahilm/fuzzy"

	"github.com/marcus/rangepick/internal/dateformat"
	"github.com/marcus/rangepick/internal/timeutil"
)

const presetsFile = ".rangepick/presets.toml"

// Source tells where a preset was defined.
type Source string

const (
	SourceBuiltin Source = "builtin"
	SourceFile    Source = "file"
)

// Preset is a named range resolved against a reference time.
type Preset struct {
	Name        string
	Description string
	Source      Source

	// StartExpr and EndExpr hold the expressions of file presets.
	StartExpr string
	EndExpr   string

	resolve func(now time.Time) (time.Time, time.Time, error)
}

// Resolve returns the range the preset denotes at now.
func (p Preset) Resolve(now time.Time) (start, end time.Time, err error) {
	if p.resolve == nil {
		return time.Time{}, time.Time{}, fmt.Errorf("preset %q has no range", p.Name)
	}
	start, end, err = p.resolve(now)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("preset %q: %w", p.Name, err)
	}
	if start.After(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("preset %q: start %s is after end %s",
			p.Name, start.Format("2006-01-02"), end.Format("2006-01-02"))
	}
	return start, end, nil
}

func fixed(f func(now time.Time) (time.Time, time.Time)) func(time.Time) (time.Time, time.Time, error) {
	return func(now time.Time) (time.Time, time.Time, error) {
		s, e := f(now)
		return s, e, nil
	}
}

// Builtin returns the built-in presets. Weeks begin on weekStart.
func Builtin(weekStart time.Weekday) []Preset {
	weekOf := func(t time.Time) time.Time {
		d := timeutil.StartOfDay(t)
		offset := (int(d.Weekday()) - int(weekStart) + 7) % 7
		return d.AddDate(0, 0, -offset)
	}

	return []Preset{
		{Name: "today", Description: "Today only", resolve: fixed(func(now time.Time) (time.Time, time.Time) {
			d := timeutil.StartOfDay(now)
			return d, d
		})},
		{Name: "yesterday", Description: "Yesterday only", resolve: fixed(func(now time.Time) (time.Time, time.Time) {
			d := timeutil.StartOfDay(now).AddDate(0, 0, -1)
			return d, d
		})},
		{Name: "last-7-days", Description: "The past week including today", resolve: fixed(func(now time.Time) (time.Time, time.Time) {
			d := timeutil.StartOfDay(now)
			return d.AddDate(0, 0, -6), d
		})},
		{Name: "last-30-days", Description: "The past 30 days including today", resolve: fixed(func(now time.Time) (time.Time, time.Time) {
			d := timeutil.StartOfDay(now)
			return d.AddDate(0, 0, -29), d
		})},
		{Name: "this-week", Description: "The current calendar week", resolve: fixed(func(now time.Time) (time.Time, time.Time) {
			s := weekOf(now)
			return s, s.AddDate(0, 0, 6)
		})},
		{Name: "last-week", Description: "The previous calendar week", resolve: fixed(func(now time.Time) (time.Time, time.Time) {
			s := weekOf(now).AddDate(0, 0, -7)
			return s, s.AddDate(0, 0, 6)
		})},
		{Name: "this-month", Description: "The current calendar month", resolve: fixed(func(now time.Time) (time.Time, time.Time) {
			s := timeutil.StartOfMonth(now)
			return s, timeutil.StartOfDay(timeutil.EndOfMonth(now))
		})},
		{Name: "last-month", Description: "The previous calendar month", resolve: fixed(func(now time.Time) (time.Time, time.Time) {
			s := timeutil.AddMonths(timeutil.StartOfMonth(now), -1)
			return s, timeutil.StartOfDay(timeutil.EndOfMonth(s))
		})},
		{Name: "this-year", Description: "January 1 through December 31", resolve: fixed(func(now time.Time) (time.Time, time.Time) {
			y := now.Year()
			return time.Date(y, 1, 1, 0, 0, 0, 0, now.Location()), time.Date(y, 12, 31, 0, 0, 0, 0, now.Location())
		})},
	}
}

type fileEntry struct {
	Name        string `toml:"name"`
	Description string `toml:"description"`
	Start       string `toml:"start"`
	End         string `toml:"end"`
}

type file struct {
	Presets []fileEntry `toml:"preset"`
}

// Read decodes presets from TOML:
//
//	[[preset]]
//	name = "sprint"
//	start = "-13d"
//	end = "today"
//
// Start and end accept exact dates and the relative forms of
// dateformat.ParseRelative. They are checked here and resolved later.
func Read(r io.Reader) ([]Preset, error) {
	var f file
	if _, err := toml.DecodeReader(r, &f); err != nil {
		return nil, err
	}
	probe := time.Date(2000, 1, 1, 0, 0, 0, 0, time.Local)

	var out []Preset
	for i, e := range f.Presets {
		if e.Name == "" {
			return nil, fmt.Errorf("preset %d: missing name", i+1)
		}
		for _, expr := range []string{e.Start, e.End} {
			if _, err := dateformat.ParseRelative(expr, probe); err != nil {
				return nil, fmt.Errorf("preset %q: %w", e.Name, err)
			}
		}
		start, end := e.Start, e.End
		out = append(out, Preset{
			Name:        e.Name,
			Description: e.Description,
			Source:      SourceFile,
			StartExpr:   start,
			EndExpr:     end,
			resolve: func(now time.Time) (time.Time, time.Time, error) {
				s, err := dateformat.ParseRelative(start, now)
				if err != nil {
					return time.Time{}, time.Time{}, err
				}
				e, err := dateformat.ParseRelative(end, now)
				if err != nil {
					return time.Time{}, time.Time{}, err
				}
				return s, e, nil
			},
		})
	}
	return out, nil
}

// ReadFile reads presets from the TOML file at path. A missing file yields
// no presets.
func ReadFile(path string) ([]Preset, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

// Set is an ordered, name-unique collection of presets.
type Set struct {
	presets []Preset
}

// NewSet builds a Set. A later preset replaces an earlier one of the same
// name, keeping the earlier position.
func NewSet(groups ...[]Preset) *Set {
	s := &Set{}
	index := make(map[string]int)
	for _, g := range groups {
		for _, p := range g {
			if p.Source == "" {
				p.Source = SourceBuiltin
			}
			if i, ok := index[p.Name]; ok {
				s.presets[i] = p
				continue
			}
			index[p.Name] = len(s.presets)
			s.presets = append(s.presets, p)
		}
	}
	return s
}

// Load returns the built-in presets overlaid with those in
// baseDir/.rangepick/presets.toml.
func Load(baseDir string, weekStart time.Weekday) (*Set, error) {
	custom, err := ReadFile(filepath.Join(baseDir, presetsFile))
	if err != nil {
		return nil, fmt.Errorf("read presets: %w", err)
	}
	return NewSet(Builtin(weekStart), custom), nil
}

// All returns every preset in order.
func (s *Set) All() []Preset {
	out := make([]Preset, len(s.presets))
	copy(out, s.presets)
	return out
}

// Len returns the number of presets.
func (s *Set) Len() int { return len(s.presets) }

// String returns the name of preset i. Together with Len it lets the set act
// as a fuzzy.Source.
func (s *Set) String(i int) string { return s.presets[i].Name }

// Get looks a preset up by exact name.
func (s *Set) Get(name string) (Preset, bool) {
	for _, p := range s.presets {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}

// Find ranks presets whose names fuzzy-match query, best first. An empty
// query returns every preset in order.
func (s *Set) Find(query string) []Preset {
	if query == "" {
		return s.All()
	}
	matches := fuzzy.FindFrom(query, s)
	out := make([]Preset, 0, len(matches))
	for _, m := range matches {
		out = append(out, s.presets[m.Index])
	}
	return out
}
