package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/planner/internal/models"
)

// Theme is a named palette; a project stores the name it was last viewed with
type Theme struct {
	Name string

	// Surfaces
	Background    lipgloss.Color
	Foreground    lipgloss.Color
	ForegroundDim lipgloss.Color

	// Highlights
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color

	// Outcomes
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Info    lipgloss.Color

	// Chrome
	Border      lipgloss.Color
	BorderFocus lipgloss.Color
	Selection   lipgloss.Color
}

// TokyoNight is the default color theme
var TokyoNight = Theme{
	Name: "Tokyo Night",

	Background:    lipgloss.Color("#1a1b26"),
	Foreground:    lipgloss.Color("#c0caf5"),
	ForegroundDim: lipgloss.Color("#565f89"),

	Primary:   lipgloss.Color("#7aa2f7"),
	Secondary: lipgloss.Color("#bb9af7"),
	Accent:    lipgloss.Color("#7dcfff"),

	Success: lipgloss.Color("#9ece6a"),
	Warning: lipgloss.Color("#e0af68"),
	Error:   lipgloss.Color("#f7768e"),
	Info:    lipgloss.Color("#7aa2f7"),

	Border:      lipgloss.Color("#3b4261"),
	BorderFocus: lipgloss.Color("#7aa2f7"),
	Selection:   lipgloss.Color("#33467c"),
}

var Gruvbox = Theme{
	Name: "Gruvbox",

	Background:    lipgloss.Color("#282828"),
	Foreground:    lipgloss.Color("#ebdbb2"),
	ForegroundDim: lipgloss.Color("#928374"),

	Primary:   lipgloss.Color("#fabd2f"),
	Secondary: lipgloss.Color("#d3869b"),
	Accent:    lipgloss.Color("#8ec07c"),

	Success: lipgloss.Color("#b8bb26"),
	Warning: lipgloss.Color("#fe8019"),
	Error:   lipgloss.Color("#fb4934"),
	Info:    lipgloss.Color("#83a598"),

	Border:      lipgloss.Color("#504945"),
	BorderFocus: lipgloss.Color("#fabd2f"),
	Selection:   lipgloss.Color("#3c3836"),
}

var Nord = Theme{
	Name: "Nord",

	Background:    lipgloss.Color("#2e3440"),
	Foreground:    lipgloss.Color("#eceff4"),
	ForegroundDim: lipgloss.Color("#4c566a"),

	Primary:   lipgloss.Color("#88c0d0"),
	Secondary: lipgloss.Color("#b48ead"),
	Accent:    lipgloss.Color("#8fbcbb"),

	Success: lipgloss.Color("#a3be8c"),
	Warning: lipgloss.Color("#ebcb8b"),
	Error:   lipgloss.Color("#bf616a"),
	Info:    lipgloss.Color("#81a1c1"),

	Border:      lipgloss.Color("#3b4252"),
	BorderFocus: lipgloss.Color("#88c0d0"),
	Selection:   lipgloss.Color("#434c5e"),
}

// Themes lists every selectable theme; the first is the default
var Themes = []Theme{TokyoNight, Gruvbox, Nord}

// Current holds the active theme
var Current = TokyoNight

// ByName finds a theme case-insensitively, falling back to the default
func ByName(name string) Theme {
	for _, t := range Themes {
		if strings.EqualFold(t.Name, name) {
			return t
		}
	}
	return Themes[0]
}

// Use makes the named theme current and returns it
func Use(name string) Theme {
	Current = ByName(name)
	return Current
}

// NextName returns the theme after name in Themes, wrapping around
func NextName(name string) string {
	for i, t := range Themes {
		if strings.EqualFold(t.Name, name) {
			return Themes[(i+1)%len(Themes)].Name
		}
	}
	return Themes[0].Name
}

// MaxWidth is the maximum content width for the app
const MaxWidth = 100

// ContentWidth caps the terminal width at MaxWidth
func ContentWidth(terminalWidth int) int {
	if terminalWidth > MaxWidth {
		return MaxWidth
	}
	return terminalWidth
}

// CenterView centers content horizontally on terminals wider than MaxWidth
func CenterView(content string, terminalWidth, terminalHeight int) string {
	if terminalWidth <= MaxWidth {
		return content
	}
	return lipgloss.Place(terminalWidth, terminalHeight,
		lipgloss.Center, lipgloss.Top,
		content,
	)
}

// Styles is the set of lipgloss styles the views render with
type Styles struct {
	// Headings
	Title      lipgloss.Style
	TitleMuted lipgloss.Style

	// Lists
	ListItem     lipgloss.Style
	ListSelected lipgloss.Style

	// Plan tree rows
	Phase lipgloss.Style
	Epic  lipgloss.Style
	Task  lipgloss.Style

	// Buttons
	Button        lipgloss.Style
	ButtonFocused lipgloss.Style
	ButtonPrimary lipgloss.Style

	// Input fields
	Input        lipgloss.Style
	InputFocused lipgloss.Style
	Label        lipgloss.Style

	// Popups
	Box lipgloss.Style

	// Help text
	Help     lipgloss.Style
	HelpKey  lipgloss.Style
	HelpDesc lipgloss.Style

	// Feedback lines
	StatusBar lipgloss.Style
	ErrorText lipgloss.Style
	Notice    lipgloss.Style
}

func fg(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

// framed is a rounded box whose border switches color on focus
func framed(text, border lipgloss.Color, padX int) lipgloss.Style {
	return fg(text).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, padX)
}

// NewStyles derives every style from Current; call it again after Use
func NewStyles() *Styles {
	t := Current

	return &Styles{
		Title:      fg(t.Primary).Bold(true),
		TitleMuted: fg(t.ForegroundDim),

		ListItem:     fg(t.Foreground).Padding(0, 2),
		ListSelected: fg(t.Primary).Background(t.Selection).Padding(0, 2).Bold(true),

		Phase: fg(t.Secondary).Bold(true),
		Epic:  fg(t.Accent),
		Task:  fg(t.Foreground),

		Button:        framed(t.Foreground, t.Border, 2),
		ButtonFocused: framed(t.Primary, t.BorderFocus, 2).Bold(true),
		ButtonPrimary: fg(t.Background).Background(t.Primary).Padding(0, 2).Bold(true),

		Input:        framed(t.Foreground, t.Border, 1),
		InputFocused: framed(t.Foreground, t.BorderFocus, 1),
		Label:        fg(t.ForegroundDim).Bold(true),

		Box: framed(t.Foreground, t.Border, 1),

		Help:     fg(t.ForegroundDim).Padding(1, 2),
		HelpKey:  fg(t.Primary).Bold(true),
		HelpDesc: fg(t.ForegroundDim),

		StatusBar: fg(t.ForegroundDim).Padding(0, 1),
		ErrorText: fg(t.Error).Padding(0, 1),
		Notice:    fg(t.Success).Padding(0, 1),
	}
}

// TaskStatus colors a task status badge
func TaskStatus(s models.TaskStatus) lipgloss.Style {
	t := Current
	switch s {
	case models.TaskDone:
		return fg(t.Success).Bold(true)
	case models.TaskInProgress:
		return fg(t.Info).Bold(true)
	case models.TaskBlocked:
		return fg(t.Error).Bold(true)
	default:
		return fg(t.ForegroundDim).Bold(true)
	}
}

// Priority colors a priority label
func Priority(p models.Priority) lipgloss.Style {
	switch p {
	case models.PriorityHigh:
		return fg(Current.Error)
	case models.PriorityMedium:
		return fg(Current.Warning)
	default:
		return fg(Current.ForegroundDim)
	}
}
