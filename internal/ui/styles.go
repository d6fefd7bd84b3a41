package ui

import "github.com/charmbracelet/lipgloss"

// Styles holds every style the screens render with, resolved for one theme.
type Styles struct {
	Title       lipgloss.Style
	Tab         lipgloss.Style
	ActiveTab   lipgloss.Style
	SelectedRow lipgloss.Style
	NormalRow   lipgloss.Style
	Muted       lipgloss.Style
	Badge       lipgloss.Style
	Favorite    lipgloss.Style
	StatusBar   lipgloss.Style
	StatusKey   lipgloss.Style
	Error       lipgloss.Style
	FieldError  lipgloss.Style
	Success     lipgloss.Style
	Input       lipgloss.Style
	InputFocus  lipgloss.Style
	Sheet       lipgloss.Style
	Help        lipgloss.Style
}

// palette is the small set of colors a theme varies.
type palette struct {
	primary   lipgloss.Color
	secondary lipgloss.Color
	muted     lipgloss.Color
	highlight lipgloss.Color
	success   lipgloss.Color
	danger    lipgloss.Color
	text      lipgloss.Color
	surface   lipgloss.Color
}

var darkPalette = palette{
	primary:   lipgloss.Color("208"), // orange
	secondary: lipgloss.Color("241"),
	muted:     lipgloss.Color("240"),
	highlight: lipgloss.Color("214"),
	success:   lipgloss.Color("78"),
	danger:    lipgloss.Color("196"),
	text:      lipgloss.Color("255"),
	surface:   lipgloss.Color("236"),
}

var lightPalette = palette{
	primary:   lipgloss.Color("166"),
	secondary: lipgloss.Color("245"),
	muted:     lipgloss.Color("249"),
	highlight: lipgloss.Color("130"),
	success:   lipgloss.Color("28"),
	danger:    lipgloss.Color("124"),
	text:      lipgloss.Color("235"),
	surface:   lipgloss.Color("254"),
}

// StylesFor resolves the style set for a theme name. "system" and anything
// unrecognized fall back to dark, the safe default for terminals.
func StylesFor(theme string) Styles {
	p := darkPalette
	if theme == "light" {
		p = lightPalette
	}
	return Styles{
		Title:       lipgloss.NewStyle().Bold(true).Foreground(p.primary).Padding(0, 1),
		Tab:         lipgloss.NewStyle().Foreground(p.secondary).Padding(0, 2),
		ActiveTab:   lipgloss.NewStyle().Bold(true).Foreground(p.text).Background(p.primary).Padding(0, 2),
		SelectedRow: lipgloss.NewStyle().Bold(true).Foreground(p.text).Background(p.primary).Padding(0, 1),
		NormalRow:   lipgloss.NewStyle().Foreground(p.text).Padding(0, 1),
		Muted:       lipgloss.NewStyle().Foreground(p.muted),
		Badge:       lipgloss.NewStyle().Foreground(p.primary).Background(p.surface).Padding(0, 1).MarginRight(1),
		Favorite:    lipgloss.NewStyle().Foreground(p.highlight).Bold(true),
		StatusBar:   lipgloss.NewStyle().Foreground(p.text).Background(p.surface).Padding(0, 1),
		StatusKey:   lipgloss.NewStyle().Foreground(p.highlight).Bold(true),
		Error:       lipgloss.NewStyle().Foreground(p.danger).Bold(true).Padding(0, 1),
		FieldError:  lipgloss.NewStyle().Foreground(p.danger),
		Success:     lipgloss.NewStyle().Foreground(p.success),
		Input:       lipgloss.NewStyle().Foreground(p.text),
		InputFocus:  lipgloss.NewStyle().Foreground(p.primary).Bold(true),
		Sheet:       lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(p.primary).Padding(1, 2),
		Help:        lipgloss.NewStyle().Foreground(p.muted).Padding(1, 2),
	}
}
