package presets

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// 2024-03-14 is a Thursday.
var now = time.Date(2024, 3, 14, 15, 4, 0, 0, time.Local)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func TestBuiltinResolve(t *testing.T) {
	tests := []struct {
		name      string
		weekStart time.Weekday
		start     time.Time
		end       time.Time
	}{
		{"today", time.Sunday, date(2024, 3, 14), date(2024, 3, 14)},
		{"yesterday", time.Sunday, date(2024, 3, 13), date(2024, 3, 13)},
		{"last-7-days", time.Sunday, date(2024, 3, 8), date(2024, 3, 14)},
		{"last-30-days", time.Sunday, date(2024, 2, 14), date(2024, 3, 14)},
		{"this-week", time.Sunday, date(2024, 3, 10), date(2024, 3, 16)},
		{"this-week", time.Monday, date(2024, 3, 11), date(2024, 3, 17)},
		{"last-week", time.Sunday, date(2024, 3, 3), date(2024, 3, 9)},
		{"this-month", time.Sunday, date(2024, 3, 1), date(2024, 3, 31)},
		{"last-month", time.Sunday, date(2024, 2, 1), date(2024, 2, 29)},
		{"this-year", time.Sunday, date(2024, 1, 1), date(2024, 12, 31)},
	}
	for _, tt := range tests {
		t.Run(tt.name+"/"+tt.weekStart.String(), func(t *testing.T) {
			set := NewSet(Builtin(tt.weekStart))
			p, ok := set.Get(tt.name)
			if !ok {
				t.Fatalf("preset %q not found", tt.name)
			}
			start, end, err := p.Resolve(now)
			if err != nil {
				t.Fatalf("Resolve failed: %v", err)
			}
			if !start.Equal(tt.start) || !end.Equal(tt.end) {
				t.Errorf("Resolve = %s..%s, want %s..%s",
					start.Format("2006-01-02"), end.Format("2006-01-02"),
					tt.start.Format("2006-01-02"), tt.end.Format("2006-01-02"))
			}
			if p.Source != SourceBuiltin {
				t.Errorf("Source = %q, want builtin", p.Source)
			}
		})
	}
}

func TestRead(t *testing.T) {
	src := `
[[preset]]
name = "sprint"
description = "Two weeks back"
start = "-13d"
end = "today"

[[preset]]
name = "q1"
start = "2024-01-01"
end = "2024-03-31"
`
	ps, err := Read(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(ps) != 2 {
		t.Fatalf("got %d presets, want 2", len(ps))
	}

	start, end, err := ps[0].Resolve(now)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !start.Equal(date(2024, 3, 1)) || !end.Equal(date(2024, 3, 14)) {
		t.Errorf("sprint = %v..%v", start, end)
	}
	if ps[0].Source != SourceFile || ps[0].Description != "Two weeks back" {
		t.Errorf("sprint metadata = %+v", ps[0])
	}

	start, _, err = ps[1].Resolve(now)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !start.Equal(date(2024, 1, 1)) {
		t.Errorf("q1 start = %v", start)
	}
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"bad toml", "[[preset]\nname=", ""},
		{"missing name", "[[preset]]\nstart = \"today\"\nend = \"today\"", "missing name"},
		{"bad expression", "[[preset]]\nname = \"x\"\nstart = \"someday\"\nend = \"today\"", "unrecognized"},
		{"missing end", "[[preset]]\nname = \"x\"\nstart = \"today\"", "empty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.src))
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.want != "" && !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should contain %q", err, tt.want)
			}
		})
	}
}

func TestResolveInverted(t *testing.T) {
	ps, err := Read(strings.NewReader("[[preset]]\nname = \"backwards\"\nstart = \"+3d\"\nend = \"today\""))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if _, _, err := ps[0].Resolve(now); err == nil {
		t.Error("inverted preset should fail to resolve")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	set, err := Load(dir, time.Sunday)
	if err != nil {
		t.Fatalf("Load without file failed: %v", err)
	}
	if set.Len() != len(Builtin(time.Sunday)) {
		t.Errorf("Len = %d, want built-ins only", set.Len())
	}

	path := filepath.Join(dir, presetsFile)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	content := "[[preset]]\nname = \"today\"\nstart = \"yesterday\"\nend = \"today\"\n\n[[preset]]\nname = \"fortnight\"\nstart = \"-2w\"\nend = \"today\"\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	set, err = Load(dir, time.Sunday)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if set.Len() != len(Builtin(time.Sunday))+1 {
		t.Errorf("Len = %d, want built-ins plus one", set.Len())
	}
	all := set.All()
	if all[0].Name != "today" || all[0].Source != SourceFile {
		t.Errorf("file preset should override built-in in place, got %+v", all[0])
	}
	if last := all[len(all)-1]; last.Name != "fortnight" {
		t.Errorf("last preset = %q, want fortnight", last.Name)
	}
}

func TestFind(t *testing.T) {
	set := NewSet(Builtin(time.Sunday))

	if got := set.Find(""); len(got) != set.Len() {
		t.Errorf("Find(\"\") returned %d presets, want %d", len(got), set.Len())
	}

	got := set.Find("lm")
	if len(got) == 0 || got[0].Name != "last-month" {
		t.Errorf("Find(lm) = %v, want last-month first", names(got))
	}

	got = set.Find("week")
	for _, p := range got {
		if !strings.Contains(p.Name, "week") {
			t.Errorf("Find(week) returned %q", p.Name)
		}
	}
	if len(got) != 2 {
		t.Errorf("Find(week) = %v, want 2 matches", names(got))
	}

	if got := set.Find("zzz"); len(got) != 0 {
		t.Errorf("Find(zzz) = %v, want none", names(got))
	}
}

func names(ps []Preset) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Name
	}
	return out
}
