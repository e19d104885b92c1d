package picker

import "github.com/charmbracelet/lipgloss"

// Base colors
var (
	Muted        = lipgloss.Color("241")
	Error        = lipgloss.Color("196")
	Text         = lipgloss.Color("252")
	TextBright   = lipgloss.Color("255")
	BgSecondary  = lipgloss.Color("235")
	BorderNormal = lipgloss.Color("240")
)

// palette is the pair of accents a color scheme contributes: Strong for
// selected endpoints and the focused field, Soft for range backgrounds.
type palette struct {
	Strong lipgloss.Color
	Soft   lipgloss.Color
}

var palettes = map[string]palette{
	"blue":   {Strong: "33", Soft: "24"},
	"green":  {Strong: "35", Soft: "22"},
	"purple": {Strong: "99", Soft: "54"},
	"orange": {Strong: "208", Soft: "130"},
	"red":    {Strong: "196", Soft: "88"},
	"teal":   {Strong: "37", Soft: "23"},
	"gray":   {Strong: "250", Soft: "238"},
}

func paletteFor(scheme string) palette {
	if p, ok := palettes[scheme]; ok {
		return p
	}
	return palettes["blue"]
}

// styles holds every style the view uses for one color scheme.
type styles struct {
	Title       lipgloss.Style
	MonthLabel  lipgloss.Style
	Weekday     lipgloss.Style
	Day         lipgloss.Style
	DayOverflow lipgloss.Style
	DayDisabled lipgloss.Style
	DaySelected lipgloss.Style
	DayRange    lipgloss.Style
	Cursor      lipgloss.Style

	Input        lipgloss.Style
	InputFocused lipgloss.Style
	Label        lipgloss.Style

	Button        lipgloss.Style
	ButtonFocused lipgloss.Style
	ButtonHover   lipgloss.Style

	ClockItem     lipgloss.Style
	ClockSelected lipgloss.Style

	ListItemNormal   lipgloss.Style
	ListItemSelected lipgloss.Style
	ListCursor       lipgloss.Style

	MutedText lipgloss.Style
	ErrorText lipgloss.Style
	Overlay   lipgloss.Style
}

func newStyles(scheme string) styles {
	p := paletteFor(scheme)
	return styles{
		Title:       lipgloss.NewStyle().Bold(true).Foreground(p.Strong),
		MonthLabel:  lipgloss.NewStyle().Bold(true),
		Weekday:     lipgloss.NewStyle().Foreground(Muted),
		Day:         lipgloss.NewStyle().Foreground(Text),
		DayOverflow: lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
		DayDisabled: lipgloss.NewStyle().Foreground(Muted).Strikethrough(true),
		DaySelected: lipgloss.NewStyle().Foreground(TextBright).Background(p.Strong).Bold(true),
		DayRange:    lipgloss.NewStyle().Foreground(TextBright).Background(p.Soft),
		Cursor:      lipgloss.NewStyle().Underline(true),

		Input: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(BorderNormal).
			Padding(0, 1),
		InputFocused: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(p.Strong).
			Padding(0, 1),
		Label: lipgloss.NewStyle().Foreground(Muted),

		Button: lipgloss.NewStyle().
			Foreground(Text).
			Background(lipgloss.Color("238")).
			Padding(0, 1),
		ButtonFocused: lipgloss.NewStyle().
			Foreground(TextBright).
			Background(p.Strong).
			Bold(true).
			Padding(0, 1),
		ButtonHover: lipgloss.NewStyle().
			Foreground(TextBright).
			Background(lipgloss.Color("245")).
			Padding(0, 1),

		ClockItem:     lipgloss.NewStyle().Foreground(Text),
		ClockSelected: lipgloss.NewStyle().Foreground(TextBright).Background(p.Strong).Bold(true),

		ListItemNormal:   lipgloss.NewStyle().Foreground(Text),
		ListItemSelected: lipgloss.NewStyle().Background(lipgloss.Color("237")).Foreground(TextBright),
		ListCursor:       lipgloss.NewStyle().Foreground(p.Strong).Bold(true),

		MutedText: lipgloss.NewStyle().Foreground(Muted),
		ErrorText: lipgloss.NewStyle().Foreground(Error),
		Overlay: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Strong).
			Background(BgSecondary).
			Padding(0, 1),
	}
}
