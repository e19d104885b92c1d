package picker

import (
	"fmt"
)

// scrollWindow is the visible slice of a scrollable list such as a clock
// column or the preset list.
type scrollWindow struct {
	size         int
	maxVisible   int
	scrollOffset int
	// follow is set when the selection moved and the next render should
	// scroll it into view. Wheel scrolling clears it so the user can look
	// around without being pulled back.
	follow bool
}

func newScrollWindow(size, maxVisible int) *scrollWindow {
	return &scrollWindow{size: size, maxVisible: maxVisible, follow: true}
}

// Resize changes the number of items, keeping the offset in bounds.
func (w *scrollWindow) Resize(size int) {
	w.size = size
	w.scrollOffset = clamp(w.scrollOffset, 0, w.maxScroll())
}

// Scroll moves the window by delta rows.
func (w *scrollWindow) Scroll(delta int) {
	w.scrollOffset = clamp(w.scrollOffset+delta, 0, w.maxScroll())
	w.follow = false
}

// Follow asks the next render to bring the selected item into view.
func (w *scrollWindow) Follow() {
	w.follow = true
}

func (w *scrollWindow) visibleCount() int {
	return min(w.maxVisible, w.size)
}

func (w *scrollWindow) maxScroll() int {
	return max(0, w.size-w.visibleCount())
}

// Window adjusts the scroll offset for selected (-1 for none) and returns the
// first visible index and how many follow.
func (w *scrollWindow) Window(selected int) (first, count int) {
	visible := w.visibleCount()

	// Adjust scroll to keep selection visible
	if w.follow && selected >= 0 {
		if selected < w.scrollOffset {
			w.scrollOffset = selected
		} else if selected >= w.scrollOffset+visible {
			w.scrollOffset = selected - visible + 1
		}
	}

	w.scrollOffset = clamp(w.scrollOffset, 0, w.maxScroll())
	return w.scrollOffset, visible
}

func (w *scrollWindow) MoreAbove() bool { return w.scrollOffset > 0 }

func (w *scrollWindow) MoreBelow() bool { return w.scrollOffset+w.visibleCount() < w.size }

// clockColumnWidth is the rendered width of one clock value.
const clockColumnWidth = 4

// renderClockColumn renders the visible values of a clock column, hours
// 0-23 or minutes 0-59. It returns one line per value and the first value.
func renderClockColumn(w *scrollWindow, selected int, st styles) (lines []string, first int) {
	first, count := w.Window(selected)
	for i := 0; i < count; i++ {
		v := first + i
		style := st.ClockItem
		if v == selected {
			style = st.ClockSelected
		}
		lines = append(lines, style.Render(fmt.Sprintf(" %02d ", v)))
	}
	return lines, first
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
