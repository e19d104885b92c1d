package picker

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/rangepick/internal/calendar"
	"github.com/marcus/rangepick/internal/presets"
	"github.com/marcus/rangepick/internal/selection"
	"github.com/marcus/rangepick/pkg/picker/mouse"
)

var fixedNow = time.Date(2024, time.March, 14, 9, 30, 0, 0, time.Local)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func newTestModel(t *testing.T, opts selection.Options) Model {
	t.Helper()
	opts.Now = func() time.Time { return fixedNow }
	m := New(Config{
		Selection: opts,
		Presets:   presets.NewSet(presets.Builtin(time.Sunday)),
	})
	m = step(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	return step(t, m, m.Init()())
}

func step(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return out
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m = step(t, m, msg)
	}
	return m
}

// findRegion renders m and returns the first region with id whose data
// satisfies match.
func findRegion(t *testing.T, m Model, id string, match func(any) bool) mouse.Region {
	t.Helper()
	m.View()
	for _, r := range m.mouse.HitMap.Regions() {
		if r.ID == id && (match == nil || match(r.Data)) {
			return r
		}
	}
	t.Fatalf("no %q region rendered", id)
	return mouse.Region{}
}

func click(t *testing.T, m Model, r mouse.Region) Model {
	t.Helper()
	return step(t, m, tea.MouseMsg{
		X: r.Rect.X, Y: r.Rect.Y,
		Action: tea.MouseActionPress, Button: tea.MouseButtonLeft,
	})
}

func dayRegion(t *testing.T, m Model, want time.Time) mouse.Region {
	t.Helper()
	return findRegion(t, m, regionDay, func(d any) bool {
		got, ok := d.(time.Time)
		return ok && got.Equal(want)
	})
}

func assertDay(t *testing.T, label string, got *time.Time, want time.Time) {
	t.Helper()
	if got == nil {
		t.Fatalf("%s = nil, want %s", label, want.Format("2006-01-02"))
	}
	if !got.Equal(want) {
		t.Errorf("%s = %s, want %s", label, got.Format("2006-01-02 15:04"), want.Format("2006-01-02 15:04"))
	}
}

func TestViewHidesCalendarWhenClosed(t *testing.T) {
	m := newTestModel(t, selection.Options{})

	view := m.View()
	if strings.Contains(view, "Mar 2024") {
		t.Error("closed picker should not render month pages")
	}
	if !strings.Contains(view, "o open") {
		t.Errorf("closed picker should show the open hint, got:\n%s", view)
	}

	m = press(t, m, "o")
	view = m.View()
	for _, label := range []string{"Mar 2024", "Apr 2024", "Su", "Sa"} {
		if !strings.Contains(view, label) {
			t.Errorf("open view missing %q", label)
		}
	}
	if strings.Contains(view, "May 2024") {
		t.Error("two-page picker rendered a third month")
	}
}

func TestKeyboardSelectsRange(t *testing.T) {
	m := newTestModel(t, selection.Options{})

	m = press(t, m, "o", "enter")
	if got := m.machine.Snapshot().Focused; got != selection.End {
		t.Fatalf("focus after first select = %s, want end", got)
	}
	m = press(t, m, "right", "right", "right", "enter")

	snap := m.machine.Snapshot()
	if snap.Open() {
		t.Error("picker should close after both endpoints are set")
	}
	assertDay(t, "start", snap.Selection.Start, day(2024, time.March, 14))
	assertDay(t, "end", snap.Selection.End, day(2024, time.March, 17))

	if _, ok := m.Result(); ok {
		t.Error("result should not be confirmed before enter on the closed picker")
	}
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter on a closed picker should quit")
	}
	sel, ok := next.(Model).Result()
	if !ok {
		t.Error("result should be confirmed")
	}
	if !sel.Complete() {
		t.Errorf("confirmed selection incomplete: %+v", sel)
	}
}

func TestCursorPagesGrid(t *testing.T) {
	m := newTestModel(t, selection.Options{})
	m = press(t, m, "o")

	// Seven weeks from March 14 lands in May, past the second page.
	for i := 0; i < 7; i++ {
		m = press(t, m, "down")
	}
	if got := m.grid.Viewing(); !got.Equal(day(2024, time.April, 1)) {
		t.Errorf("viewing = %s, want 2024-04-01", got.Format("2006-01-02"))
	}
	if got := m.machine.Snapshot().Viewing; !got.Equal(day(2024, time.April, 1)) {
		t.Errorf("machine viewing not synced: %s", got.Format("2006-01-02"))
	}

	m = press(t, m, "p", "p")
	if got := m.grid.Viewing(); !got.Equal(day(2024, time.February, 1)) {
		t.Errorf("viewing after p p = %s, want 2024-02-01", got.Format("2006-01-02"))
	}
}

func TestMouseSelectsRange(t *testing.T) {
	m := newTestModel(t, selection.Options{})
	m = press(t, m, "o")

	m = click(t, m, dayRegion(t, m, day(2024, time.March, 5)))
	m = click(t, m, dayRegion(t, m, day(2024, time.April, 9)))

	snap := m.machine.Snapshot()
	assertDay(t, "start", snap.Selection.Start, day(2024, time.March, 5))
	assertDay(t, "end", snap.Selection.End, day(2024, time.April, 9))
	if snap.Open() {
		t.Error("picker should close after the end is clicked")
	}
}

func TestMouseHoverPreviewsRange(t *testing.T) {
	m := newTestModel(t, selection.Options{})
	m = press(t, m, "o", "enter")

	r := dayRegion(t, m, day(2024, time.March, 20))
	m = step(t, m, tea.MouseMsg{X: r.Rect.X, Y: r.Rect.Y, Action: tea.MouseActionMotion})

	snap := m.machine.Snapshot()
	if !snap.InHoverRange(day(2024, time.March, 18)) {
		t.Error("day between start and hovered day should be previewed")
	}

	m = step(t, m, tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionMotion})
	if m.machine.Snapshot().Hovered {
		t.Error("leaving the grid should clear the hover flag")
	}
}

func TestBackdropClickCloses(t *testing.T) {
	m := newTestModel(t, selection.Options{})
	m = press(t, m, "o")

	m = click(t, m, findRegion(t, m, regionBackdrop, nil))
	if m.machine.Snapshot().Open() {
		t.Error("clicking outside the picker should close it")
	}
}

func TestClickOnPanelKeepsOpen(t *testing.T) {
	m := newTestModel(t, selection.Options{})
	m = press(t, m, "o")

	// The weekday header is inside the panel but not on any control.
	panel := findRegion(t, m, regionPanel, nil)
	m = step(t, m, tea.MouseMsg{
		X: panel.Rect.X + 5, Y: panel.Rect.Y + 1,
		Action: tea.MouseActionPress, Button: tea.MouseButtonLeft,
	})
	if !m.machine.Snapshot().Open() {
		t.Error("clicking inside the panel should not close the picker")
	}
}

func TestDisabledDayShowsError(t *testing.T) {
	min := day(2024, time.March, 10)
	m := newTestModel(t, selection.Options{Min: &min})
	m = press(t, m, "o")

	m = click(t, m, dayRegion(t, m, day(2024, time.March, 5)))
	if m.machine.Snapshot().Selection.Start != nil {
		t.Error("disabled day should not be selected")
	}
	if !m.statusErr || !strings.Contains(m.status, "not selectable") {
		t.Errorf("status = %q (err=%v)", m.status, m.statusErr)
	}
}

func TestTypedInput(t *testing.T) {
	m := newTestModel(t, selection.Options{})

	m = press(t, m, "i")
	if m.mode != modeInput {
		t.Fatalf("mode = %d, want input", m.mode)
	}
	m = press(t, m, "2024-03-02", "enter")
	if m.mode != modeCalendar {
		t.Error("enter should leave input mode")
	}
	assertDay(t, "start", m.machine.Snapshot().Selection.Start, day(2024, time.March, 2))
	if got := m.inputs[0].Value(); got != "2024-03-02" {
		t.Errorf("start field = %q", got)
	}

	m = press(t, m, "tab")
	if got := m.machine.Snapshot().Focused; got != selection.End {
		t.Fatalf("tab in input mode focused %s, want end", got)
	}
	m = press(t, m, "i")
	m = press(t, m, "march 9", "enter")
	if !m.statusErr || m.status != "expected yyyy-MM-dd" {
		t.Errorf("status = %q, want pattern hint", m.status)
	}
	if m.machine.Snapshot().Selection.End != nil {
		t.Error("unparseable text should not change the end")
	}
}

func TestTypedInputTab(t *testing.T) {
	m := newTestModel(t, selection.Options{})
	m = press(t, m, "i", "tab")
	if !m.inputs[1].Focused() || m.inputs[0].Focused() {
		t.Error("tab should move typing to the end field")
	}
	m = press(t, m, "esc")
	if m.mode != modeCalendar || m.inputs[1].Focused() {
		t.Error("esc should stop typing")
	}
}

func TestInputClickFocusesEndpoint(t *testing.T) {
	m := newTestModel(t, selection.Options{})

	end := findRegion(t, m, regionInput, func(d any) bool { return d == selection.End })
	m = click(t, m, end)
	if got := m.machine.Snapshot().Focused; got != selection.End {
		t.Errorf("focus = %s, want end", got)
	}
	if m.mode != modeInput || !m.inputs[1].Focused() {
		t.Error("clicking a field should start typing in it")
	}
}

func TestPresetApply(t *testing.T) {
	m := newTestModel(t, selection.Options{})

	m = press(t, m, "/")
	if m.mode != modePresets {
		t.Fatalf("mode = %d, want presets", m.mode)
	}
	if !strings.Contains(m.View(), "last-7-days") {
		t.Error("preset list should show built-in presets")
	}
	m = press(t, m, "yesterday", "enter")

	if m.mode != modeCalendar {
		t.Error("applying a preset should return to the calendar")
	}
	if got := m.AppliedPreset(); got != "yesterday" {
		t.Errorf("applied = %q, want yesterday", got)
	}
	snap := m.machine.Snapshot()
	assertDay(t, "start", snap.Selection.Start, day(2024, time.March, 13))
	assertDay(t, "end", snap.Selection.End, day(2024, time.March, 13))
}

func TestPresetRejectedByBounds(t *testing.T) {
	min := day(2024, time.March, 10)
	m := newTestModel(t, selection.Options{Min: &min})

	m = press(t, m, "/", "last-30-days", "enter")
	if m.machine.Snapshot().Selection.Start != nil {
		t.Error("out of bounds preset should not apply")
	}
	if !m.statusErr {
		t.Error("rejection should be reported in the status line")
	}
	if m.mode != modePresets {
		t.Error("a rejected preset should leave the list open")
	}
}

func TestEscClosesThenQuits(t *testing.T) {
	m := newTestModel(t, selection.Options{})
	m = press(t, m, "o")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(Model)
	if cmd != nil || m.machine.Snapshot().Open() {
		t.Fatal("first esc should only close")
	}
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Error("esc on a closed picker should quit")
	}
	if _, ok := m.Result(); ok {
		t.Error("esc must not confirm")
	}
}

func TestClearKey(t *testing.T) {
	start, end := day(2024, time.March, 1), day(2024, time.March, 3)
	def := selection.NewSelection(start, end)
	m := newTestModel(t, selection.Options{DefaultValue: &def})

	if got := m.inputs[0].Value(); got != "2024-03-01" {
		t.Errorf("start field = %q, want seeded value", got)
	}
	m = press(t, m, "c")
	if !m.machine.Snapshot().Selection.Empty() {
		t.Error("c should clear the selection")
	}
	if m.inputs[0].Value() != "" || m.inputs[1].Value() != "" {
		t.Error("fields should be emptied")
	}
}

func TestCopyWithoutRange(t *testing.T) {
	m := newTestModel(t, selection.Options{})

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	if cmd != nil {
		t.Error("copy with no dates should not start a clipboard command")
	}
	if got := next.(Model).status; got != "nothing to copy" {
		t.Errorf("status = %q, want %q", got, "nothing to copy")
	}
}

func TestColorSchemeKey(t *testing.T) {
	m := newTestModel(t, selection.Options{ColorScheme: "teal"})

	m = press(t, m, "s")
	if got := m.machine.Snapshot().ColorScheme; got != "gray" {
		t.Errorf("scheme after s = %q, want gray", got)
	}
	m = press(t, m, "s")
	if got := m.machine.Snapshot().ColorScheme; got != "blue" {
		t.Errorf("scheme should wrap to blue, got %q", got)
	}
	if m.status != "color scheme blue" {
		t.Errorf("status = %q", m.status)
	}
}

func TestNextColorScheme(t *testing.T) {
	tests := []struct {
		cur, want string
	}{
		{"blue", "green"},
		{"gray", "blue"},
		{"", "blue"},
		{"unknown", "blue"},
	}
	for _, tt := range tests {
		if got := nextColorScheme(tt.cur); got != tt.want {
			t.Errorf("nextColorScheme(%q) = %q, want %q", tt.cur, got, tt.want)
		}
	}
}

func TestDateTimeClock(t *testing.T) {
	m := newTestModel(t, selection.Options{DateTime: true})
	if got := m.grid.PageCount(); got != 1 {
		t.Errorf("date-time picker pages = %d, want 1", got)
	}

	m = press(t, m, "o", "enter", "tab")
	m = press(t, m, "]", "]", "}")
	start := m.machine.Snapshot().Selection.Start
	assertDay(t, "start", start, time.Date(2024, time.March, 14, 2, 1, 0, 0, time.Local))

	m = press(t, m, "[", "[", "[")
	start = m.machine.Snapshot().Selection.Start
	if start.Hour() != 23 {
		t.Errorf("hour after wrapping back = %d, want 23", start.Hour())
	}

	r := findRegion(t, m, regionMinute, func(d any) bool { return d == 3 })
	m = click(t, m, r)
	if got := m.machine.Snapshot().Selection.Start.Minute(); got != 3 {
		t.Errorf("minute after click = %d, want 3", got)
	}
	if got := m.inputs[0].Value(); got != "2024-03-14T23:03" {
		t.Errorf("start field = %q", got)
	}

	m = click(t, m, findRegion(t, m, regionNextBtn, nil))
	if got := m.machine.Snapshot().Focused; got != selection.End {
		t.Errorf("focus after next = %s, want end", got)
	}
}

func TestClockWithoutValue(t *testing.T) {
	m := newTestModel(t, selection.Options{DateTime: true})
	m = press(t, m, "o", "]")
	if !m.statusErr || m.status != "pick a day first" {
		t.Errorf("status = %q", m.status)
	}
}

func TestWheelChangesMonth(t *testing.T) {
	m := newTestModel(t, selection.Options{})
	m = press(t, m, "o")
	m.View()

	m = step(t, m, tea.MouseMsg{X: 5, Y: 10, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown})
	if got := m.grid.Viewing(); !got.Equal(day(2024, time.April, 1)) {
		t.Errorf("viewing after wheel = %s", got.Format("2006-01-02"))
	}
	m = step(t, m, tea.MouseMsg{X: 5, Y: 10, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp, Shift: true})
	if got := m.grid.Viewing(); !got.Equal(day(2023, time.April, 1)) {
		t.Errorf("viewing after shift+wheel = %s", got.Format("2006-01-02"))
	}
}

func TestAttachShowsControlledValue(t *testing.T) {
	v := selection.NewSelection(day(2024, time.July, 4), day(2024, time.July, 8))
	m := newTestModel(t, selection.Options{Value: &v})

	if got := m.grid.Viewing(); !got.Equal(day(2024, time.July, 1)) {
		t.Errorf("viewing = %s, want the owner's month", got.Format("2006-01-02"))
	}
	if !m.cursor.Equal(day(2024, time.July, 4)) {
		t.Errorf("cursor = %s, want the owner's start", m.cursor.Format("2006-01-02"))
	}

	// Navigation after attach is not pulled back.
	m = press(t, m, "n")
	m = step(t, m, attachedMsg{})
	if got := m.grid.Viewing(); !got.Equal(day(2024, time.August, 1)) {
		t.Errorf("second attach moved the grid to %s", got.Format("2006-01-02"))
	}
}

func TestHelpMode(t *testing.T) {
	m := newTestModel(t, selection.Options{})
	m = press(t, m, "?")
	if m.mode != modeHelp || m.helpText == "" {
		t.Fatal("? should open help")
	}
	m = press(t, m, "x")
	if m.mode != modeCalendar {
		t.Error("any key should leave help")
	}
}

func TestErrorText(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{selection.ErrUnparseable, "expected yyyy-MM-dd"},
		{selection.ErrDisabled, "that day is not selectable"},
		{selection.ErrNoValue, "pick a day first"},
		{&selection.GuardError{Guard: "order", Reason: "end is before start"}, "end is before start"},
		{errors.New("boom"), "boom"},
	}
	for _, tt := range tests {
		if got := errorText(tt.err, "yyyy-MM-dd"); got != tt.want {
			t.Errorf("errorText(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestFormatRange(t *testing.T) {
	start := day(2024, time.March, 1)
	if got := FormatRange(selection.Selection{Start: &start}, "yyyy-MM-dd"); got != "2024-03-01.." {
		t.Errorf("FormatRange = %q", got)
	}
}

func TestRenderStatic(t *testing.T) {
	m := selection.New(selection.Options{Now: func() time.Time { return fixedNow }})
	grid := calendar.New(
		calendar.WithViewing(day(2024, time.February, 1)),
		calendar.WithPages(2),
		calendar.WithClock(func() time.Time { return fixedNow }),
	)
	m.SetViewing(grid.Viewing())

	out := RenderStatic(grid, m.Snapshot())
	lines := strings.Split(out, "\n")
	if !strings.Contains(lines[0], "Feb 2024") || !strings.Contains(lines[0], "Mar 2024") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "Su Mo Tu") {
		t.Errorf("weekday row = %q", lines[1])
	}
	// February 2024 starts on a Thursday and spans five rows; March needs six.
	if len(lines) != 8 {
		t.Errorf("expected 8 lines, got %d:\n%s", len(lines), out)
	}
	if !strings.Contains(out, "29") {
		t.Error("leap day missing")
	}
}

func TestDefaultValueShownImmediately(t *testing.T) {
	def := selection.NewSelection(day(2023, time.December, 24), day(2024, time.January, 2))
	m := newTestModel(t, selection.Options{DefaultValue: &def})

	if got := m.grid.Viewing(); !got.Equal(day(2023, time.December, 1)) {
		t.Errorf("viewing = %s, want the default's month", got.Format("2006-01-02"))
	}
	m = press(t, m, "o")
	if !strings.Contains(m.View(), "Jan 2024") {
		t.Error("second page should show the default's end month")
	}
}
