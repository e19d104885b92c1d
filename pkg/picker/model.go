// Package picker is the terminal host for the range selection core. It draws
// the calendar pages, the two date fields and, in date-time mode, the clock
// columns, and translates keys and mouse events into Machine operations.
package picker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/rangepick/internal/calendar"
	"github.com/marcus/rangepick/internal/models"
	"github.com/marcus/rangepick/internal/presets"
	"github.com/marcus/rangepick/internal/selection"
	"github.com/marcus/rangepick/internal/timeutil"
	"github.com/marcus/rangepick/pkg/picker/mouse"
)

type mode int

const (
	modeCalendar mode = iota
	modeInput
	modePresets
	modeHelp
)

// Region IDs registered by View.
const (
	regionBackdrop = "backdrop"
	regionDay      = "day"
	regionInput    = "input"
	regionPrev     = "nav-prev"
	regionNext     = "nav-next"
	regionHours    = "hours"
	regionHour     = "hour"
	regionMinutes  = "minutes"
	regionMinute   = "minute"
	regionClear    = "clear"
	regionNextBtn  = "next"
	regionDone     = "done"
	regionPanel    = "panel"
	regionPreset   = "preset"
	regionHelp     = "help"
)

const (
	clockVisible   = 6
	presetsVisible = 8
)

// Config configures a Model.
type Config struct {
	Selection selection.Options
	WeekStart time.Weekday
	Presets   *presets.Set
	Logger    *slog.Logger
}

// Model is the bubbletea model of one picker.
type Model struct {
	machine *selection.Machine
	grid    *calendar.Grid
	mouse   *mouse.Handler
	presets *presets.Set
	log     *slog.Logger
	now     func() time.Time
	st      styles

	mode   mode
	cursor time.Time
	inputs [2]textinput.Model

	hours   *scrollWindow
	minutes *scrollWindow

	presetFilter  textinput.Model
	presetMatches []presets.Preset
	presetIdx     int
	presetWindow  *scrollWindow

	width, height int
	status        string
	statusErr     bool
	helpText      string

	confirmed bool
	quitting  bool
	applied   string
}

type attachedMsg struct{}

// New builds a Model. The machine is created from cfg.Selection; its grid
// is attached when the program starts.
func New(cfg Config) Model {
	opts := cfg.Selection
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = cfg.Logger
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	machine := selection.New(opts)
	snap := machine.Snapshot()

	cursor := timeutil.StartOfDay(opts.Now())
	gridOpts := []calendar.Option{
		calendar.WithPages(snap.Pages),
		calendar.WithWeekStart(cfg.WeekStart),
		calendar.WithClock(opts.Now),
	}
	// A controlled value is brought into view by Attach; a default one is
	// shown right away.
	if !machine.Controlled() && snap.Selection.Start != nil {
		cursor = timeutil.StartOfDay(*snap.Selection.Start)
		gridOpts = append(gridOpts, calendar.WithViewing(cursor))
	}
	grid := calendar.New(gridOpts...)
	grid.OnView = machine.SetViewing
	machine.SetViewing(grid.Viewing())

	m := Model{
		machine:      machine,
		grid:         grid,
		mouse:        mouse.NewHandler(),
		presets:      cfg.Presets,
		log:          log,
		now:          opts.Now,
		st:           newStyles(snap.ColorScheme),
		cursor:       cursor,
		hours:        newScrollWindow(24, clockVisible),
		minutes:      newScrollWindow(60, clockVisible),
		presetWindow: newScrollWindow(0, presetsVisible),
	}
	for i := range m.inputs {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = snap.Pattern
		in.CharLimit = 32
		in.Width = len(snap.Pattern) + 2
		m.inputs[i] = in
	}
	m.presetFilter = textinput.New()
	m.presetFilter.Prompt = "/ "
	m.presetFilter.Placeholder = "filter presets"
	m.syncInputs()
	return m
}

// Init attaches the machine to the calendar on the first update.
func (m Model) Init() tea.Cmd {
	return func() tea.Msg { return attachedMsg{} }
}

// Machine exposes the selection core driven by this model.
func (m Model) Machine() *selection.Machine {
	return m.machine
}

// Result returns the selection and whether the user confirmed it.
func (m Model) Result() (selection.Selection, bool) {
	return m.machine.Snapshot().Value(), m.confirmed
}

// AppliedPreset returns the name of the last preset applied, if any.
func (m Model) AppliedPreset() string {
	return m.applied
}

// Run starts an interactive program for m and returns the final model.
func Run(ctx context.Context, m Model, opts ...tea.ProgramOption) (Model, error) {
	opts = append([]tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithContext(ctx),
	}, opts...)
	final, err := tea.NewProgram(m, opts...).Run()
	if err != nil {
		return Model{}, err
	}
	return final.(Model), nil
}

func endpointIndex(e selection.Endpoint) int {
	if e == selection.End {
		return 1
	}
	return 0
}

// nextColorScheme returns the scheme after cur, wrapping around.
func nextColorScheme(cur string) string {
	for i, c := range models.ColorSchemes {
		if c == cur {
			return models.ColorSchemes[(i+1)%len(models.ColorSchemes)]
		}
	}
	return models.ColorSchemes[0]
}

func (m *Model) setStatus(format string, args ...any) {
	m.status = fmt.Sprintf(format, args...)
	m.statusErr = false
}

func (m *Model) setError(err error) {
	m.status = errorText(err, m.machine.Pattern())
	m.statusErr = true
	m.log.Debug("picker: edit rejected", "err", err)
}

// errorText turns a rejection into a short status line.
func errorText(err error, pattern string) string {
	var gerr *selection.GuardError
	switch {
	case errors.Is(err, selection.ErrUnparseable):
		return "expected " + pattern
	case errors.Is(err, selection.ErrDisabled):
		return "that day is not selectable"
	case errors.Is(err, selection.ErrNoValue):
		return "pick a day first"
	case errors.Is(err, selection.ErrNotFocused):
		return "open the calendar first"
	case errors.As(err, &gerr):
		return gerr.Reason
	}
	return err.Error()
}

// syncInputs mirrors the selection into the fields that are not being typed in.
func (m *Model) syncInputs() {
	snap := m.machine.Snapshot()
	for _, e := range []selection.Endpoint{selection.Start, selection.End} {
		i := endpointIndex(e)
		if m.inputs[i].Focused() {
			continue
		}
		m.inputs[i].SetValue(formatSlot(snap.Selection.Get(e), snap.Pattern))
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case attachedMsg:
		before := m.grid.Viewing()
		m.machine.Attach(m.grid)
		if !m.grid.Viewing().Equal(before) {
			m.cursor = m.grid.Viewing()
			if start := m.machine.Snapshot().Selection.Start; start != nil {
				m.cursor = timeutil.StartOfDay(*start)
			}
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.helpText = ""
		return m, nil

	case copiedMsg:
		if msg.err != nil {
			m.status = "copy failed: " + msg.err.Error()
			m.statusErr = true
		} else {
			m.setStatus("copied %s", msg.text)
		}
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		switch m.mode {
		case modeInput:
			return m.handleInputKey(msg)
		case modePresets:
			return m.handlePresetKey(msg)
		case modeHelp:
			m.mode = modeCalendar
			return m, nil
		default:
			return m.handleCalendarKey(msg)
		}
	}

	if m.mode == modeInput {
		i := endpointIndex(m.machine.Snapshot().Focused)
		var cmd tea.Cmd
		m.inputs[i], cmd = m.inputs[i].Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleCalendarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	snap := m.machine.Snapshot()

	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit

	case "?":
		return m.openHelp(), nil

	case "/":
		return m.openPresets()

	case "i":
		return m.startTyping()

	case "y":
		if snap.Selection.Empty() {
			m.setStatus("nothing to copy")
			break
		}
		return m, copyRangeCmd(snap.Selection, snap.Pattern)

	case "s":
		scheme := nextColorScheme(snap.ColorScheme)
		m.machine.SetColorScheme(scheme)
		m.setStatus("color scheme %s", scheme)

	case "o":
		m.machine.Open()
		m.hoverCursor()

	case "esc":
		if !snap.Open() {
			m.quitting = true
			return m, tea.Quit
		}
		m.machine.Unhover()
		m.machine.Close()

	case "enter", " ":
		if !snap.Open() {
			if msg.String() == "enter" {
				m.confirmed = true
				m.quitting = true
				return m, tea.Quit
			}
			m.machine.Open()
			m.hoverCursor()
			break
		}
		m.selectDay(m.cursor)

	case "left", "h":
		m.moveCursor(snap, -1)
	case "right", "l":
		m.moveCursor(snap, 1)
	case "up", "k":
		m.moveCursor(snap, -7)
	case "down", "j":
		m.moveCursor(snap, 7)

	case "n":
		m.grid.NextMonth()
		m.shiftCursor(1)
	case "p":
		m.grid.PrevMonth()
		m.shiftCursor(-1)
	case "N":
		m.grid.NextYear()
		m.shiftCursor(12)
	case "P":
		m.grid.PrevYear()
		m.shiftCursor(-12)

	case "t":
		m.grid.Today()
		m.cursor = timeutil.StartOfDay(m.now())
		m.hoverCursor()

	case "tab", "shift+tab":
		next := snap.Focused.Other()
		if next == selection.NoFocus {
			next = selection.Start
		}
		m.machine.Focus(next)
		m.hoverCursor()

	case "c":
		m.machine.Clear()
		m.setStatus("cleared")

	case "x":
		if snap.DateTime {
			m.machine.Next()
		}

	case "[":
		m.adjustClock(snap, -1, 0)
	case "]":
		m.adjustClock(snap, 1, 0)
	case "{":
		m.adjustClock(snap, 0, -1)
	case "}":
		m.adjustClock(snap, 0, 1)
	}

	m.syncInputs()
	return m, nil
}

// moveCursor moves the keyboard cursor by days, opening a closed picker
// instead of moving.
func (m *Model) moveCursor(snap selection.Snapshot, days int) {
	if !snap.Open() {
		m.machine.Open()
		m.hoverCursor()
		return
	}
	m.cursor = m.cursor.AddDate(0, 0, days)
	m.ensureCursorVisible()
	m.hoverCursor()
}

// shiftCursor keeps the cursor on the same day of month after the grid moved.
func (m *Model) shiftCursor(months int) {
	m.cursor = timeutil.AddMonths(m.cursor, months)
	m.ensureCursorVisible()
	m.hoverCursor()
}

// ensureCursorVisible pages the grid so the cursor's month is shown.
func (m *Model) ensureCursorVisible() {
	first := timeutil.StartOfMonth(m.grid.Viewing())
	last := timeutil.AddMonths(first, m.grid.PageCount()-1)
	c := timeutil.StartOfMonth(m.cursor)
	switch {
	case c.Before(first):
		m.grid.SetViewing(c)
	case c.After(last):
		m.grid.SetViewing(timeutil.AddMonths(c, -(m.grid.PageCount() - 1)))
	}
}

func (m *Model) hoverCursor() {
	if m.machine.Snapshot().Open() {
		m.machine.Hover(m.cursor)
	}
}

func (m *Model) selectDay(day time.Time) {
	if err := m.machine.Select(day); err != nil {
		m.setError(err)
		return
	}
	m.status = ""
	snap := m.machine.Snapshot()
	if !snap.Open() {
		m.machine.Unhover()
		if snap.Selection.Complete() {
			m.setStatus("press enter to confirm, o to edit")
		}
	}
	m.hours.Follow()
	m.minutes.Follow()
}

// adjustClock steps the hour or minute of the focused endpoint, wrapping at
// the ends of the dial.
func (m *Model) adjustClock(snap selection.Snapshot, dh, dm int) {
	if !snap.DateTime {
		return
	}
	cur := snap.Selection.Get(snap.Focused)
	if snap.Focused == selection.NoFocus || cur == nil {
		m.setError(selection.ErrNoValue)
		return
	}
	var err error
	if dh != 0 {
		err = m.machine.SetHour((cur.Hour() + dh + 24) % 24)
		m.hours.Follow()
	} else {
		err = m.machine.SetMinute((cur.Minute() + dm + 60) % 60)
		m.minutes.Follow()
	}
	if err != nil {
		m.setError(err)
	}
}

func (m Model) openHelp() Model {
	if m.helpText == "" {
		m.helpText = renderHelp(m.width)
	}
	m.mode = modeHelp
	return m
}

func (m Model) startTyping() (tea.Model, tea.Cmd) {
	snap := m.machine.Snapshot()
	e := snap.Focused
	if e == selection.NoFocus {
		e = selection.Start
		m.machine.Focus(e)
	}
	return m.typeInto(e)
}

func (m Model) typeInto(e selection.Endpoint) (tea.Model, tea.Cmd) {
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	m.syncInputs()
	m.mode = modeInput
	i := endpointIndex(e)
	m.inputs[i].CursorEnd()
	return m, m.inputs[i].Focus()
}

func (m *Model) stopTyping() {
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	m.mode = modeCalendar
	m.syncInputs()
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	snap := m.machine.Snapshot()
	e := snap.Focused
	if e == selection.NoFocus {
		e = selection.Start
	}
	i := endpointIndex(e)

	switch msg.String() {
	case "esc":
		m.stopTyping()
		m.status = ""
		return m, nil

	case "enter":
		if err := m.machine.SetFromText(e, m.inputs[i].Value()); err != nil {
			m.setError(err)
			return m, nil
		}
		m.stopTyping()
		if v := m.machine.Snapshot().Selection.Get(e); v != nil {
			m.cursor = timeutil.StartOfDay(*v)
			m.ensureCursorVisible()
		}
		m.setStatus("%s set", e)
		return m, nil

	case "tab", "shift+tab":
		other := e.Other()
		m.machine.Focus(other)
		return m.typeInto(other)
	}

	var cmd tea.Cmd
	m.inputs[i], cmd = m.inputs[i].Update(msg)
	return m, cmd
}

func (m Model) openPresets() (tea.Model, tea.Cmd) {
	if m.presets == nil || m.presets.Len() == 0 {
		m.setStatus("no presets configured")
		return m, nil
	}
	m.mode = modePresets
	m.presetFilter.SetValue("")
	m.refreshPresets()
	return m, m.presetFilter.Focus()
}

func (m *Model) refreshPresets() {
	m.presetMatches = m.presets.Find(m.presetFilter.Value())
	m.presetIdx = 0
	m.presetWindow.Resize(len(m.presetMatches))
	m.presetWindow.Follow()
}

func (m Model) handlePresetKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.presetFilter.Blur()
		m.mode = modeCalendar
		return m, nil

	case "up", "ctrl+p":
		if m.presetIdx > 0 {
			m.presetIdx--
		}
		m.presetWindow.Follow()
		return m, nil

	case "down", "ctrl+n":
		if m.presetIdx < len(m.presetMatches)-1 {
			m.presetIdx++
		}
		m.presetWindow.Follow()
		return m, nil

	case "enter":
		if m.presetIdx < len(m.presetMatches) {
			m.applyPreset(m.presetMatches[m.presetIdx])
		}
		return m, nil
	}

	var cmd tea.Cmd
	before := m.presetFilter.Value()
	m.presetFilter, cmd = m.presetFilter.Update(msg)
	if m.presetFilter.Value() != before {
		m.refreshPresets()
	}
	return m, cmd
}

func (m *Model) applyPreset(p presets.Preset) {
	start, end, err := p.Resolve(m.now())
	if err != nil {
		m.setError(err)
		return
	}
	if err := m.machine.Apply(selection.NewSelection(start, end)); err != nil {
		m.setError(err)
		return
	}
	m.presetFilter.Blur()
	m.mode = modeCalendar
	m.applied = p.Name
	m.cursor = timeutil.StartOfDay(start)
	m.grid.SetViewing(start)
	m.machine.Unhover()
	m.syncInputs()
	m.setStatus("applied %s", p.Name)
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	a := m.mouse.HandleMouse(msg)
	if m.mode == modeHelp {
		if a.Type == mouse.ActionClick {
			m.mode = modeCalendar
		}
		return m, nil
	}

	snap := m.machine.Snapshot()
	switch a.Type {
	case mouse.ActionHover:
		if a.Region != nil && a.Region.ID == regionDay {
			day := a.Region.Data.(time.Time)
			m.cursor = day
			m.machine.Hover(day)
		} else if snap.Hovered {
			m.machine.Unhover()
		}
		return m, nil

	case mouse.ActionScrollUp, mouse.ActionScrollDown:
		delta := 1
		if a.Type == mouse.ActionScrollUp {
			delta = -1
		}
		id := ""
		if a.Region != nil {
			id = a.Region.ID
		}
		switch id {
		case regionHours, regionHour:
			m.hours.Scroll(delta)
		case regionMinutes, regionMinute:
			m.minutes.Scroll(delta)
		case regionPreset:
			m.presetWindow.Scroll(delta)
		default:
			if snap.Open() {
				if delta > 0 {
					m.grid.NextMonth()
				} else {
					m.grid.PrevMonth()
				}
			}
		}
		return m, nil

	case mouse.ActionScrollLeft:
		if snap.Open() {
			m.grid.PrevYear()
		}
		return m, nil
	case mouse.ActionScrollRight:
		if snap.Open() {
			m.grid.NextYear()
		}
		return m, nil

	case mouse.ActionClick:
		if a.Region == nil {
			return m, nil
		}
		return m.handleClick(*a.Region, snap)
	}
	return m, nil
}

func (m Model) handleClick(r mouse.Region, snap selection.Snapshot) (tea.Model, tea.Cmd) {
	switch r.ID {
	case regionBackdrop:
		if m.mode == modePresets {
			m.presetFilter.Blur()
			m.mode = modeCalendar
			return m, nil
		}
		if m.mode == modeInput {
			m.stopTyping()
		}
		m.machine.Unhover()
		m.machine.Close()

	case regionDay:
		day := r.Data.(time.Time)
		m.cursor = day
		m.selectDay(day)

	case regionInput:
		e := r.Data.(selection.Endpoint)
		m.machine.Focus(e)
		return m.typeInto(e)

	case regionPrev:
		m.grid.PrevMonth()
	case regionNext:
		m.grid.NextMonth()

	case regionHour:
		if err := m.machine.SetHour(r.Data.(int)); err != nil {
			m.setError(err)
		}
		m.hours.Follow()
	case regionMinute:
		if err := m.machine.SetMinute(r.Data.(int)); err != nil {
			m.setError(err)
		}
		m.minutes.Follow()

	case regionClear:
		m.machine.Clear()
		m.setStatus("cleared")

	case regionNextBtn:
		m.machine.Next()

	case regionDone:
		m.machine.Unhover()
		m.confirmed = true
		m.quitting = true
		return m, tea.Quit

	case regionHelp:
		return m.openHelp(), nil

	case regionPreset:
		idx := r.Data.(int)
		if idx < len(m.presetMatches) {
			m.presetIdx = idx
			m.applyPreset(m.presetMatches[idx])
		}
	}

	m.syncInputs()
	return m, nil
}
