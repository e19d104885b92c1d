package picker

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/marcus/rangepick/internal/calendar"
	"github.com/marcus/rangepick/internal/dateformat"
	"github.com/marcus/rangepick/internal/selection"
	"github.com/marcus/rangepick/internal/timeutil"
)

// Calendar geometry. Every day cell is three columns wide, so a page is 21
// columns and pages are separated by pageGap. The navigation arrows take
// navWidth columns on either side.
const (
	cellWidth = 3
	pageWidth = 7 * cellWidth
	pageGap   = 3
	navWidth  = 3
	clockGap  = 2
)

func formatSlot(t *time.Time, pattern string) string {
	if t == nil {
		return ""
	}
	return dateformat.Format(*t, pattern)
}

// pageX returns the first column of visible page p.
func pageX(p int) int {
	return navWidth + p*(pageWidth+pageGap)
}

// View renders the picker and rebuilds the mouse hit map to match. Regions
// registered later win, so the backdrop goes first.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	hm := m.mouse.HitMap
	hm.Clear()

	if m.mode == modeHelp {
		return m.helpText
	}

	snap := m.machine.Snapshot()
	st := m.st
	if snap.ColorScheme != "" {
		st = newStyles(snap.ColorScheme)
	}

	w, h := m.width, m.height
	if w <= 0 {
		w = 200
	}
	if h <= 0 {
		h = 100
	}
	hm.AddRect(regionBackdrop, 0, 0, w, h, nil)

	var lines []string
	add := func(ls ...string) {
		lines = append(lines, ls...)
	}

	title := st.Title.Render("rangepick")
	if snap.DateTime {
		title += st.MutedText.Render("  date & time")
	}
	if m.applied != "" {
		title += st.MutedText.Render("  preset: " + m.applied)
	}
	add(title, "")

	add(m.renderInputs(snap, st, len(lines))...)

	switch {
	case m.mode == modePresets:
		add("")
		add(m.renderPresets(st, len(lines))...)
	case snap.Open():
		add("")
		add(m.renderCalendar(snap, st, len(lines))...)
	default:
		add("")
	}

	if m.status != "" {
		style := st.MutedText
		if m.statusErr {
			style = st.ErrorText
		}
		add(style.Render(ansi.Truncate(m.status, w, "…")))
	} else {
		add("")
	}

	hint := m.hints(snap)
	y := len(lines)
	helpLabel := "? help"
	hm.AddRect(regionHelp, lipgloss.Width(hint)+2, y, len(helpLabel), 1, nil)
	add(st.MutedText.Render(hint + "  " + helpLabel))

	return strings.Join(lines, "\n")
}

func (m Model) hints(snap selection.Snapshot) string {
	switch {
	case m.mode == modeInput:
		return "enter apply · tab other field · esc cancel"
	case m.mode == modePresets:
		return "↑/↓ choose · enter apply · esc back"
	case snap.Open():
		h := "←↓↑→ move · enter select · n/p month · tab switch end · esc close"
		if snap.DateTime {
			h += " · [ ] hour · { } minute · x next"
		}
		return h
	}
	return "enter confirm · o open · i type · / presets · y copy · q quit"
}

// renderInputs draws the labelled start and end fields with the clear
// button beside them. top is the line the block starts on.
func (m Model) renderInputs(snap selection.Snapshot, st styles, top int) []string {
	hm := m.mouse.HitMap
	boxes := make([]string, 2)
	for i, e := range []selection.Endpoint{selection.Start, selection.End} {
		style := st.Input
		if snap.Focused == e {
			style = st.InputFocused
		}
		content := m.inputs[i].View()
		if !m.inputs[i].Focused() && m.inputs[i].Value() == "" {
			content = st.MutedText.Render(snap.Pattern)
		}
		boxes[i] = style.Width(m.inputs[i].Width + 3).Render(content)
	}

	sep := "  →  "
	startW := lipgloss.Width(boxes[0])
	endX := startW + lipgloss.Width(sep)
	endW := lipgloss.Width(boxes[1])
	boxH := lipgloss.Height(boxes[0])

	labels := st.Label.Render(padRight("Start", endX)) + st.Label.Render("End")

	clearStyle := st.Button
	if m.mouse.Hovered() == regionClear {
		clearStyle = st.ButtonHover
	}
	clearBtn := clearStyle.Render("Clear")
	clearX := endX + endW + 2

	arrow := lipgloss.Place(lipgloss.Width(sep), boxH, lipgloss.Center, lipgloss.Center, sep)
	button := lipgloss.Place(lipgloss.Width(clearBtn)+2, boxH, lipgloss.Right, lipgloss.Center, clearBtn)
	row := lipgloss.JoinHorizontal(lipgloss.Top, boxes[0], arrow, boxes[1], button)

	hm.AddRect(regionInput, 0, top+1, startW, boxH, selection.Start)
	hm.AddRect(regionInput, endX, top+1, endW, boxH, selection.End)
	hm.AddRect(regionClear, clearX, top+1+boxH/2, lipgloss.Width(clearBtn), 1, nil)

	return append([]string{labels}, strings.Split(row, "\n")...)
}

// renderCalendar draws the month pages, and the clock columns and buttons in
// date-time mode.
func (m Model) renderCalendar(snap selection.Snapshot, st styles, top int) []string {
	hm := m.mouse.HitMap
	pages := m.grid.Pages()
	n := len(pages)
	calW := pageX(n) - pageGap + navWidth

	rows := 0
	for _, p := range pages {
		rows = max(rows, len(p))
	}
	if snap.DateTime {
		rows = max(rows, clockVisible)
	}
	hm.AddRect(regionPanel, 0, top, calW, rows+2, nil)

	var header strings.Builder
	header.WriteString(" ‹ ")
	for i := range pages {
		if i > 0 {
			header.WriteString(strings.Repeat(" ", pageGap))
		}
		header.WriteString(st.MonthLabel.Render(center(m.grid.MonthLabel(i), pageWidth)))
	}
	header.WriteString(" › ")
	hm.AddRect(regionPrev, 0, top, navWidth, 1, nil)
	hm.AddRect(regionNext, pageX(n)-pageGap, top, navWidth, 1, nil)

	var weekdays strings.Builder
	for _, d := range m.grid.Weekdays() {
		weekdays.WriteString(fmt.Sprintf("%-3s", d))
	}
	wd := weekdays.String()
	var wdLine strings.Builder
	wdLine.WriteString(strings.Repeat(" ", navWidth))
	for i := range pages {
		if i > 0 {
			wdLine.WriteString(strings.Repeat(" ", pageGap))
		}
		wdLine.WriteString(st.Weekday.Render(wd))
	}

	lines := []string{header.String(), wdLine.String()}
	for r := 0; r < rows; r++ {
		var b strings.Builder
		b.WriteString(strings.Repeat(" ", navWidth))
		for p, page := range pages {
			if p > 0 {
				b.WriteString(strings.Repeat(" ", pageGap))
			}
			if r >= len(page) {
				b.WriteString(strings.Repeat(" ", pageWidth))
				continue
			}
			for c, day := range page[r] {
				b.WriteString(m.renderDay(snap, st, p, day))
				if snap.InScope(p, day) {
					hm.AddRect(regionDay, pageX(p)+c*cellWidth, top+2+r, cellWidth, 1, day)
				}
			}
		}
		lines = append(lines, b.String())
	}

	if snap.DateTime {
		lines = m.appendClock(lines, snap, st, calW+clockGap, top)
	}

	lines = append(lines, "", m.renderButtons(snap, st, top+len(lines)+1))
	return lines
}

func (m Model) renderDay(snap selection.Snapshot, st styles, page int, day time.Time) string {
	return dayCell(snap, st, page, day, m.cursor)
}

// dayCell renders one three-column day cell. A zero cursor marks nothing.
func dayCell(snap selection.Snapshot, st styles, page int, day, cursor time.Time) string {
	flags := snap.Day(page, day)
	text := fmt.Sprintf("%2d ", day.Day())
	if !flags.InScope {
		return st.DayOverflow.Render(text)
	}

	style := st.Day
	switch flags.Highlight {
	case selection.HighlightDisabled:
		style = st.DayDisabled
	case selection.HighlightSelected:
		style = st.DaySelected
	case selection.HighlightRange:
		style = st.DayRange
	}
	if flags.Today {
		style = style.Bold(true)
	}
	if !cursor.IsZero() && timeutil.SameDay(day, cursor) {
		style = style.Inherit(st.Cursor)
	}
	return style.Render(text)
}

// RenderStatic draws the pages of grid with the highlighting of snap and no
// controls, for non-interactive output.
func RenderStatic(grid *calendar.Grid, snap selection.Snapshot) string {
	st := newStyles(snap.ColorScheme)
	pages := grid.Pages()

	var header, weekdays strings.Builder
	var wd strings.Builder
	for _, d := range grid.Weekdays() {
		wd.WriteString(fmt.Sprintf("%-3s", d))
	}
	rows := 0
	for i, p := range pages {
		if i > 0 {
			header.WriteString(strings.Repeat(" ", pageGap))
			weekdays.WriteString(strings.Repeat(" ", pageGap))
		}
		header.WriteString(st.MonthLabel.Render(center(grid.MonthLabel(i), pageWidth)))
		weekdays.WriteString(st.Weekday.Render(wd.String()))
		rows = max(rows, len(p))
	}

	lines := []string{header.String(), weekdays.String()}
	for r := 0; r < rows; r++ {
		var b strings.Builder
		for p, page := range pages {
			if p > 0 {
				b.WriteString(strings.Repeat(" ", pageGap))
			}
			if r >= len(page) {
				b.WriteString(strings.Repeat(" ", pageWidth))
				continue
			}
			for _, day := range page[r] {
				b.WriteString(dayCell(snap, st, p, day, time.Time{}))
			}
		}
		lines = append(lines, strings.TrimRight(b.String(), " "))
	}
	return strings.Join(lines, "\n")
}

// appendClock draws the hour and minute columns to the right of the pages,
// aligned with the week rows.
func (m Model) appendClock(lines []string, snap selection.Snapshot, st styles, x, top int) []string {
	hm := m.mouse.HitMap
	hour, minute := -1, -1
	if v := snap.Selection.Get(snap.Focused); v != nil {
		hour, minute = v.Hour(), v.Minute()
	}
	hours, firstHour := renderClockColumn(m.hours, hour, st)
	minutes, firstMinute := renderClockColumn(m.minutes, minute, st)

	col := clockColumnWidth + 1
	lines[1] = padRight(lines[1], x) + st.Weekday.Render(" hh  mm ")
	hm.AddRect(regionHours, x, top+2, clockColumnWidth, len(hours), nil)
	hm.AddRect(regionMinutes, x+col, top+2, clockColumnWidth, len(minutes), nil)

	for i := 0; i < max(len(hours), len(minutes)); i++ {
		row := 2 + i
		for len(lines) <= row {
			lines = append(lines, "")
		}
		line := padRight(lines[row], x)
		if i < len(hours) {
			line += hours[i]
			hm.AddRect(regionHour, x, top+row, clockColumnWidth, 1, firstHour+i)
		} else {
			line += strings.Repeat(" ", clockColumnWidth)
		}
		line += " "
		if i < len(minutes) {
			line += minutes[i]
			hm.AddRect(regionMinute, x+col, top+row, clockColumnWidth, 1, firstMinute+i)
		}
		lines[row] = line
	}
	return lines
}

// renderButtons draws the action row under the calendar.
func (m Model) renderButtons(snap selection.Snapshot, st styles, y int) string {
	hm := m.mouse.HitMap
	var parts []string
	x := navWidth
	button := func(id, label string, focused bool) {
		style := st.Button
		switch {
		case focused:
			style = st.ButtonFocused
		case m.mouse.Hovered() == id:
			style = st.ButtonHover
		}
		r := style.Render(label)
		hm.AddRect(id, x, y, lipgloss.Width(r), 1, nil)
		x += lipgloss.Width(r) + 2
		parts = append(parts, r)
	}
	if snap.DateTime {
		button(regionNextBtn, "Next", false)
	}
	button(regionDone, "Done", snap.Selection.Complete())
	return strings.Repeat(" ", navWidth) + strings.Join(parts, "  ")
}

// renderPresets draws the filter field and the visible part of the match
// list in place of the calendar.
func (m Model) renderPresets(st styles, top int) []string {
	hm := m.mouse.HitMap
	lines := []string{m.presetFilter.View()}

	if len(m.presetMatches) == 0 {
		return append(lines, st.MutedText.Render("  no matching presets"))
	}

	first, count := m.presetWindow.Window(m.presetIdx)
	if m.presetWindow.MoreAbove() {
		lines = append(lines, st.MutedText.Render("  ▲"))
	} else {
		lines = append(lines, "")
	}

	nameW := 0
	for _, p := range m.presetMatches {
		nameW = max(nameW, len(p.Name))
	}
	for i := first; i < first+count; i++ {
		p := m.presetMatches[i]
		cursor, style := "  ", st.ListItemNormal
		if i == m.presetIdx {
			cursor, style = st.ListCursor.Render("> "), st.ListItemSelected
		}
		line := cursor + style.Render(padRight(p.Name, nameW)) + "  " + st.MutedText.Render(p.Description)
		hm.AddRect(regionPreset, 0, top+len(lines), lipgloss.Width(line), 1, i)
		lines = append(lines, line)
	}

	if m.presetWindow.MoreBelow() {
		lines = append(lines, st.MutedText.Render("  ▼"))
	}
	return lines
}

// padRight pads s with spaces to width display columns.
func padRight(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

func center(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	left := (width - w) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-w-left)
}
