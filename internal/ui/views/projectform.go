package views

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/planner/internal/models"
	"github.com/tgienger/planner/internal/ui/keys"
	"github.com/tgienger/planner/internal/ui/styles"
)

// Project form focus stops; fieldCreate is the submit button
const (
	fieldName = iota
	fieldStart
	fieldEnd
	fieldCreate
	createFieldCount
)

// defaultProjectWeeks is the target end offered for a new project
const defaultProjectWeeks = 30

var projectFieldLabels = [fieldCreate]string{"Name", "Start date", "Target end date"}

// projectForm collects a new project's name and schedule
type projectForm struct {
	inputs [fieldCreate]textinput.Model
	focus  int
}

// projectDraft is a validated form submission
type projectDraft struct {
	name       string
	start, end models.Date
}

func newProjectForm() projectForm {
	var f projectForm
	placeholders := [fieldCreate]string{"Atlas", "YYYY-MM-DD", "YYYY-MM-DD"}
	for i := range f.inputs {
		f.inputs[i] = textinput.New()
		f.inputs[i].Placeholder = placeholders[i]
		f.inputs[i].CharLimit = len(models.DateLayout)
	}
	f.inputs[fieldName].CharLimit = 100
	return f
}

// reset clears the name and proposes a schedule starting today
func (f *projectForm) reset(today models.Date) {
	f.inputs[fieldName].Reset()
	f.inputs[fieldStart].SetValue(today.String())
	f.inputs[fieldEnd].SetValue(today.AddWeeks(defaultProjectWeeks).String())
	f.focus = fieldName
	f.syncFocus()
}

func (f *projectForm) move(delta int) {
	f.focus = (f.focus + delta + createFieldCount) % createFieldCount
	f.syncFocus()
}

func (f *projectForm) syncFocus() {
	for i := range f.inputs {
		if i == f.focus {
			f.inputs[i].Focus()
		} else {
			f.inputs[i].Blur()
		}
	}
}

// update handles one key; submit reports that the user asked to create
func (f *projectForm) update(msg tea.KeyMsg, km keys.KeyMap) (submit bool, cmd tea.Cmd) {
	switch {
	case key.Matches(msg, km.Save):
		return true, nil
	case key.Matches(msg, km.Tab):
		f.move(1)
		return false, nil
	case key.Matches(msg, km.ShiftTab):
		f.move(-1)
		return false, nil
	case key.Matches(msg, km.Enter):
		if f.focus == fieldCreate {
			return true, nil
		}
		f.move(1)
		return false, nil
	}

	if f.focus == fieldCreate {
		return false, nil
	}
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return false, cmd
}

// draft validates the fields
func (f *projectForm) draft() (projectDraft, error) {
	d := projectDraft{name: strings.TrimSpace(f.inputs[fieldName].Value())}
	if d.name == "" {
		return d, errors.New("project name is required")
	}

	var err error
	if d.start, err = models.ParseDate(strings.TrimSpace(f.inputs[fieldStart].Value())); err != nil {
		return d, fmt.Errorf("start date: %w", err)
	}
	if d.end, err = models.ParseDate(strings.TrimSpace(f.inputs[fieldEnd].Value())); err != nil {
		return d, fmt.Errorf("target end date: %w", err)
	}
	if d.end.Before(d.start.Time) {
		return d, errors.New("target end date is before the start date")
	}
	return d, nil
}

func (f *projectForm) view(s *styles.Styles, width int, errLine string) string {
	inputWidth := clamp(styles.ContentWidth(width)-6, 20, 50)

	rows := []string{s.Title.Render("New Project"), ""}
	for i, label := range projectFieldLabels {
		style := s.Input
		if f.focus == i {
			style = s.InputFocused
		}
		rows = append(rows, s.Label.Render(label), style.Width(inputWidth).Render(f.inputs[i].View()))
	}

	// schedule hint under the dates, only once both parse
	if start, err := models.ParseDate(f.inputs[fieldStart].Value()); err == nil {
		if end, err := models.ParseDate(f.inputs[fieldEnd].Value()); err == nil && !end.Before(start.Time) {
			weeks := int(end.Sub(start.Time).Hours() / (24 * 7))
			rows = append(rows, s.TitleMuted.Render(fmt.Sprintf("%d weeks", weeks)))
		}
	}

	btn := s.Button
	if f.focus == fieldCreate {
		btn = s.ButtonFocused
	}
	rows = append(rows,
		"",
		btn.Render(" Create "),
		errLine,
		s.TitleMuted.Render("Tab: next • Ctrl+S: save • Esc: cancel"),
	)
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
