package selection

import (
	"log/slog"
	"sync"
	"time"

	"github.com/marcus/rangepick/internal/dateformat"
	"github.com/marcus/rangepick/internal/timeutil"
)

// Machine is the selection state of one picker instance.
type Machine struct {
	mu sync.Mutex

	focused  Endpoint
	sel      Selection
	hovering *time.Time
	hovered  bool
	min      *time.Time
	max      *time.Time
	viewing  time.Time

	pages       int
	dateTime    bool
	colorScheme string
	pattern     string
	parser      *dateformat.Parser
	guards      []Guard

	controlled  bool
	initialView *time.Time
	viewed      bool

	onChange  func(Selection)
	listeners map[int]func(Snapshot)
	nextID    int

	now func() time.Time
	log *slog.Logger
}

// New creates a Machine from opts. The picker starts closed.
func New(opts Options) *Machine {
	m := &Machine{
		dateTime:    opts.DateTime,
		pages:       opts.Pages,
		colorScheme: opts.ColorScheme,
		pattern:     dateformat.PatternFor(opts.DateTime),
		guards:      opts.Guards,
		onChange:    opts.OnChange,
		listeners:   make(map[int]func(Snapshot)),
		now:         opts.Now,
		log:         opts.Logger,
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.log == nil {
		m.log = slog.Default()
	}
	if m.colorScheme == "" {
		m.colorScheme = "blue"
	}
	if m.pages <= 0 {
		m.pages = 2
		if opts.DateTime {
			m.pages = 1
		}
	}
	if len(m.guards) == 0 {
		m.guards = DefaultGuards()
	}

	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	m.parser = &dateformat.Parser{Pattern: m.pattern, Relative: opts.RelativeInput, Location: loc, Now: m.now}

	var value, def Selection
	if opts.Value != nil {
		m.controlled = true
		value = *opts.Value
		if value.Start != nil {
			v := *value.Start
			m.initialView = &v
		}
	}
	if opts.DefaultValue != nil {
		def = *opts.DefaultValue
	}
	m.sel.set(Start, firstSet(value.Start, def.Start))
	m.sel.set(End, firstSet(value.End, def.End))
	m.min = copyTime(opts.Min)
	m.max = copyTime(opts.Max)
	m.viewing = timeutil.StartOfMonth(m.now())
	return m
}

func firstSet(ts ...*time.Time) *time.Time {
	for _, t := range ts {
		if t != nil {
			return t
		}
	}
	return nil
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// Controlled reports whether the machine was created with an owner value.
func (m *Machine) Controlled() bool {
	return m.controlled
}

// Pattern returns the format pattern for typed input and display.
func (m *Machine) Pattern() string {
	return m.pattern
}

// update runs fn under the lock and, when it succeeds, notifies the owner and
// subscribers with a snapshot taken before the lock is released.
func (m *Machine) update(op string, fn func() error) error {
	m.mu.Lock()
	prev, prevFocus := m.sel.Clone(), m.focused
	err := fn()
	changed := !prev.Equal(m.sel)
	refocused := prevFocus != m.focused
	snap := m.snapshotLocked()
	onChange := m.onChange
	listeners := make([]func(Snapshot), 0, len(m.listeners))
	for _, l := range m.listeners {
		listeners = append(listeners, l)
	}
	m.mu.Unlock()

	if err != nil {
		m.log.Debug("selection: rejected", "op", op, "err", err)
		// a rejected edit may still move focus; the selection never changes
		if refocused {
			for _, l := range listeners {
				l(snap)
			}
		}
		return err
	}
	if changed {
		m.log.Debug("selection: changed", "op", op,
			"start", formatSlot(snap.Selection.Start, m.pattern),
			"end", formatSlot(snap.Selection.End, m.pattern))
		if onChange != nil {
			onChange(snap.Selection.Clone())
		}
	}
	for _, l := range listeners {
		l(snap)
	}
	return nil
}

func formatSlot(t *time.Time, pattern string) string {
	if t == nil {
		return ""
	}
	return dateformat.Format(*t, pattern)
}

// Open focuses the start endpoint when the picker is closed. It does not
// disturb an edit in progress.
func (m *Machine) Open() {
	m.update("open", func() error {
		if m.focused == NoFocus {
			m.focused = Start
		}
		return nil
	})
}

// Close drops focus, which hides the calendar.
func (m *Machine) Close() {
	m.update("close", func() error {
		m.focused = NoFocus
		return nil
	})
}

// Focus points the next edit at e, as when the user enters one of the text
// fields.
func (m *Machine) Focus(e Endpoint) error {
	return m.update("focus", func() error {
		if !e.Valid() {
			return ErrInvalidEndpoint
		}
		m.focused = e
		return nil
	})
}

// Next advances focus from start to end and from end to closed. It backs the
// "Next" button of the date-time picker.
func (m *Machine) Next() {
	m.update("next", func() error {
		switch m.focused {
		case Start:
			m.focused = End
		case End:
			m.focused = NoFocus
		}
		return nil
	})
}

// Select writes day into the focused endpoint and advances focus: after the
// start comes the end, and after the end the picker closes unless the start
// is still missing. A call while closed writes nothing but focuses the start,
// and reports ErrNotFocused. A disabled day is ignored.
func (m *Machine) Select(day time.Time) error {
	return m.update("select", func() error {
		if m.focused == NoFocus {
			m.focused = Start
			return ErrNotFocused
		}
		if m.snapshotLocked().IsDisabled(day) {
			return ErrDisabled
		}
		m.sel.set(m.focused, &day)
		switch m.focused {
		case End:
			if m.sel.Start != nil {
				m.focused = NoFocus
			} else {
				m.focused = Start
			}
		case Start:
			m.focused = End
		}
		return nil
	})
}

// Clear removes both endpoints. Focus is left alone.
func (m *Machine) Clear() {
	m.update("clear", func() error {
		m.sel = Selection{}
		return nil
	})
}

// Hover records the day under the pointer for the range preview.
func (m *Machine) Hover(day time.Time) {
	m.update("hover", func() error {
		m.hovering = &day
		m.hovered = true
		return nil
	})
}

// Unhover marks the pointer as having left the grid. The last hovered day
// is kept but no longer previewed.
func (m *Machine) Unhover() {
	m.update("unhover", func() error {
		m.hovered = false
		return nil
	})
}

// SetFromText parses text with the machine's pattern and commits it to e when
// every guard passes. The typed field becomes the focused one; focus does not
// auto-advance. On any rejection the selection is left untouched.
func (m *Machine) SetFromText(e Endpoint, text string) error {
	return m.update("text", func() error {
		if !e.Valid() {
			return ErrInvalidEndpoint
		}
		parsed, ok := m.parser.Parse(text)
		if !ok {
			return ErrUnparseable
		}
		ctx := &EditContext{
			Endpoint:  e,
			Value:     parsed,
			Selection: m.sel,
			Min:       m.min,
			Max:       m.max,
			Pattern:   m.pattern,
		}
		verr := &ValidationError{}
		runGuards(m.guards, ctx, verr)
		if verr.HasErrors() {
			return verr
		}
		m.sel.set(e, &parsed)
		m.focused = e
		return nil
	})
}

// Apply commits a whole range at once, for presets and programmatic fills.
// Each present endpoint must pass the guards and start may not follow end.
// The picker closes on success.
func (m *Machine) Apply(sel Selection) error {
	return m.update("apply", func() error {
		verr := &ValidationError{}
		for _, e := range []Endpoint{Start, End} {
			v := sel.Get(e)
			if v == nil {
				continue
			}
			ctx := &EditContext{
				Endpoint:  e,
				Value:     *v,
				Selection: Selection{},
				Min:       m.min,
				Max:       m.max,
				Pattern:   m.pattern,
			}
			runGuards(m.guards, ctx, verr)
		}
		if sel.Complete() && sel.Start.After(*sel.End) {
			verr.Add(&GuardError{Guard: "OrderGuard", Reason: "start is after end"})
		}
		if verr.HasErrors() {
			return verr
		}
		m.sel = sel.Clone()
		m.focused = NoFocus
		return nil
	})
}

// SetHour replaces the hour of the focused endpoint, keeping date and minute.
func (m *Machine) SetHour(h int) error {
	if h < 0 || h > 23 {
		return ErrOutOfRange
	}
	return m.setClock("hour", func(t time.Time) time.Time { return timeutil.SetHour(t, h) })
}

// SetMinute replaces the minute of the focused endpoint, keeping date and hour.
func (m *Machine) SetMinute(minute int) error {
	if minute < 0 || minute > 59 {
		return ErrOutOfRange
	}
	return m.setClock("minute", func(t time.Time) time.Time { return timeutil.SetMinute(t, minute) })
}

func (m *Machine) setClock(op string, fn func(time.Time) time.Time) error {
	return m.update(op, func() error {
		if m.focused == NoFocus {
			return ErrNotFocused
		}
		cur := m.sel.Get(m.focused)
		if cur == nil {
			return ErrNoValue
		}
		v := fn(*cur)
		m.sel.set(m.focused, &v)
		return nil
	})
}

// SetViewing records the first visible month. Hosts wire this to the grid
// provider's navigation hook.
func (m *Machine) SetViewing(t time.Time) {
	m.update("viewing", func() error {
		m.viewing = timeutil.StartOfMonth(t)
		return nil
	})
}

// SetColorScheme replaces the cosmetic color scheme.
func (m *Machine) SetColorScheme(s string) {
	m.update("color", func() error {
		if s != "" {
			m.colorScheme = s
		}
		return nil
	})
}

// Subscribe registers fn to receive a snapshot after every accepted
// operation, and after a rejected one that still moved focus. The returned
// func removes it.
func (m *Machine) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.listeners, id)
		m.mu.Unlock()
	}
}

// Snapshot returns a consistent copy of the current state.
func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Machine) snapshotLocked() Snapshot {
	return Snapshot{
		Focused:     m.focused,
		Selection:   m.sel.Clone(),
		Hovering:    copyTime(m.hovering),
		Hovered:     m.hovered,
		Min:         copyTime(m.min),
		Max:         copyTime(m.max),
		Viewing:     m.viewing,
		Pages:       m.pages,
		DateTime:    m.dateTime,
		ColorScheme: m.colorScheme,
		Pattern:     m.pattern,
		Now:         m.now(),
	}
}
