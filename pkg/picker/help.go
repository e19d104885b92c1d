package picker

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

const helpMarkdown = `# rangepick

Pick a start and an end day. Clicking a day fills the highlighted field and
moves on to the other one; the calendar closes once both are set.

## Calendar

| Key | Action |
| --- | --- |
| arrows, hjkl | move the cursor |
| enter, space | select the day under the cursor |
| n / p | next / previous month |
| N / P | next / previous year |
| t | jump to today |
| tab | switch between start and end |
| o | open the calendar |
| esc | close the calendar, or quit when closed |
| c | clear both dates |
| y | copy the range to the clipboard |
| s | next color scheme |

## Fields

| Key | Action |
| --- | --- |
| i | type into the focused field |
| enter | commit the typed date |
| esc | stop typing |

Typed dates must match the field pattern. Out-of-range or inverted values
are ignored and the previous date is kept.

## Clock

| Key | Action |
| --- | --- |
| [ / ] | hour down / up |
| { / } | minute down / up |
| x | next field (start, end, done) |

## Other

| Key | Action |
| --- | --- |
| / | choose a preset |
| ? | toggle this help |
| enter (closed) | confirm and exit |
| q, ctrl+c | exit without confirming |

The mouse works too: click days, fields and buttons, hover to preview the
range, scroll over the calendar to change month (shift+scroll for year).
`

// renderHelp renders the help text for width. Rendering falls back to the raw
// markdown when glamour fails.
func renderHelp(width int) string {
	if width < 40 {
		width = 40
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width-4),
	)
	if err != nil {
		return helpMarkdown
	}
	out, err := r.Render(helpMarkdown)
	if err != nil {
		return helpMarkdown
	}
	return strings.TrimRight(out, "\n")
}
