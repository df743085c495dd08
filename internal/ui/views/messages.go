package views

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/planner/internal/models"
	"github.com/tgienger/planner/internal/ui/styles"
)

// clamp returns val clamped between minVal and maxVal
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// SelectedProject opens a project's plan
type SelectedProject struct {
	Project models.Project
}

// BackToProjects signals to go back to project list
type BackToProjects struct{}

// BackToPlan returns from a project sub-screen to its plan
type BackToPlan struct{}

// OpenDailyLog opens the daily log form for a project
type OpenDailyLog struct {
	Project models.Project
}

// OpenLogs opens the log viewer for a project
type OpenLogs struct {
	Project models.Project
}

// OpenProperties opens the property editor
type OpenProperties struct{}

// ThemeChanged is sent after the current theme was switched so views can
// rebuild their styles
type ThemeChanged struct {
	Name string
}

// errMsg carries a failed load back into Update
type errMsg struct {
	err error
}

// overlay centers content in the area of a width x height terminal
func overlay(content string, width, height int) string {
	centered := lipgloss.Place(styles.ContentWidth(width), height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, width, height)
}

// shortcut is one line of a help popup
type shortcut struct {
	key  string
	desc string
}

func renderShortcuts(s *styles.Styles, items []shortcut) string {
	lines := []string{s.Title.Render("Keyboard Shortcuts"), ""}
	for _, it := range items {
		lines = append(lines, s.HelpKey.Width(8).Render(it.key)+it.desc)
	}
	lines = append(lines, "", s.TitleMuted.Render("Press any key to close"))
	return s.Box.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
