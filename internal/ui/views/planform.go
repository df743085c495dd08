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

// Field labels, also used to read values back
const (
	labelName        = "Name"
	labelDescription = "Description"
	labelStart       = "Start date"
	labelEnd         = "End date"
	labelStatus      = "Status"
	labelAssignee    = "Assigned to"
	labelPriority    = "Priority"
	labelDue         = "Due date"
	labelLink        = "Link"
)

type formField struct {
	label string
	input textinput.Model
}

func newField(label, placeholder, value string, limit int) formField {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = limit
	in.SetValue(value)
	return formField{label: label, input: in}
}

func dateField(label string) formField {
	return newField(label, "YYYY-MM-DD (optional)", "", len(models.DateLayout))
}

// planForm adds one node of kind under the parent named parentName
type planForm struct {
	kind       rowKind
	parentID   int64
	parentName string
	fields     []formField
	focus      int
}

func newPhaseForm(project models.Project) *planForm {
	return &planForm{kind: rowPhase, parentID: project.ID, parentName: project.Name, fields: []formField{
		newField(labelName, "Phase 4: Hypercare", "", 200),
		newField(labelDescription, "", "", 500),
		dateField(labelStart),
		dateField(labelEnd),
	}}
}

func newEpicForm(phase *models.Phase) *planForm {
	return &planForm{kind: rowEpic, parentID: phase.ID, parentName: phase.Name, fields: []formField{
		newField(labelName, "Production Support", "", 200),
		newField(labelDescription, "", "", 500),
		newField(labelStatus, "Planned, In Progress, Completed, On Hold", string(models.ProjectPlanned), 20),
	}}
}

func newTaskForm(epic *models.Epic) *planForm {
	return &planForm{kind: rowTask, parentID: epic.ID, parentName: epic.Name, fields: []formField{
		newField(labelName, "Task name", "", 200),
		newField(labelDescription, "", "", 500),
		newField(labelAssignee, "", "", 100),
		newField(labelPriority, "High, Medium, Low", string(models.PriorityMedium), 10),
		dateField(labelDue),
		newField(labelLink, "https://", "", 300),
	}}
}

func newSubTaskForm(task *models.Task) *planForm {
	return &planForm{kind: rowSubTask, parentID: task.ID, parentName: task.Name, fields: []formField{
		newField(labelName, "Subtask name", "", 200),
		newField(labelAssignee, "", task.AssignedTo, 100),
	}}
}

func (f *planForm) setWidth(w int) {
	for i := range f.fields {
		f.fields[i].input.Width = w
	}
}

func (f *planForm) move(delta int) {
	f.focus = (f.focus + delta + len(f.fields)) % len(f.fields)
	f.syncFocus()
}

func (f *planForm) syncFocus() {
	for i := range f.fields {
		if i == f.focus {
			f.fields[i].input.Focus()
		} else {
			f.fields[i].input.Blur()
		}
	}
}

func (f *planForm) blur() {
	for i := range f.fields {
		f.fields[i].input.Blur()
	}
}

// update handles one key; Enter on the last field submits
func (f *planForm) update(msg tea.KeyMsg, km keys.KeyMap) (submit bool, cmd tea.Cmd) {
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
		if f.focus == len(f.fields)-1 {
			return true, nil
		}
		f.move(1)
		return false, nil
	}

	f.fields[f.focus].input, cmd = f.fields[f.focus].input.Update(msg)
	return false, cmd
}

// value returns the trimmed value of the field labelled label
func (f *planForm) value(label string) string {
	for _, fl := range f.fields {
		if fl.label == label {
			return strings.TrimSpace(fl.input.Value())
		}
	}
	return ""
}

// date parses an optional date field
func (f *planForm) date(label string) (*models.Date, error) {
	v := f.value(label)
	if v == "" {
		return nil, nil
	}
	d, err := models.ParseDate(v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", strings.ToLower(label), err)
	}
	return d.Ptr(), nil
}

// phaseDraft is a validated phase submission
type phaseDraft struct {
	name, description string
	start, end        *models.Date
}

func (f *planForm) phase() (phaseDraft, error) {
	d := phaseDraft{name: f.value(labelName), description: f.value(labelDescription)}
	if d.name == "" {
		return d, errors.New("phase name is required")
	}
	var err error
	if d.start, err = f.date(labelStart); err != nil {
		return d, err
	}
	if d.end, err = f.date(labelEnd); err != nil {
		return d, err
	}
	if d.start != nil && d.end != nil && d.end.Before(d.start.Time) {
		return d, errors.New("end date is before the start date")
	}
	return d, nil
}

// epicDraft is a validated epic submission
type epicDraft struct {
	name, description string
	status            models.EpicStatus
}

func (f *planForm) epic() (epicDraft, error) {
	d := epicDraft{name: f.value(labelName), description: f.value(labelDescription)}
	if d.name == "" {
		return d, errors.New("epic name is required")
	}
	if s := f.value(labelStatus); s != "" {
		var err error
		if d.status, err = models.ParseProjectStatus(s); err != nil {
			return d, err
		}
	}
	return d, nil
}

func (f *planForm) task() (models.NewTask, error) {
	in := models.NewTask{
		Name:        f.value(labelName),
		Description: f.value(labelDescription),
		AssignedTo:  f.value(labelAssignee),
	}
	if in.Name == "" {
		return in, errors.New("task name is required")
	}
	var err error
	if p := f.value(labelPriority); p != "" {
		if in.Priority, err = models.ParsePriority(p); err != nil {
			return in, err
		}
	}
	if in.DueDate, err = f.date(labelDue); err != nil {
		return in, err
	}
	if link := f.value(labelLink); link != "" {
		in.ExternalLink = &link
	}
	return in, nil
}

func (f *planForm) subTask() (models.NewSubTask, error) {
	in := models.NewSubTask{Name: f.value(labelName), AssignedTo: f.value(labelAssignee)}
	if in.Name == "" {
		return in, errors.New("subtask name is required")
	}
	return in, nil
}

func (f *planForm) title() string {
	switch f.kind {
	case rowPhase:
		return "New phase in " + f.parentName
	case rowEpic:
		return "New epic in " + f.parentName
	case rowTask:
		return "New task in " + f.parentName
	default:
		return "New subtask under " + f.parentName
	}
}

func (f *planForm) view(s *styles.Styles) string {
	rows := []string{s.Label.Render(f.title())}
	for i, fl := range f.fields {
		style := s.Input
		if i == f.focus {
			style = s.InputFocused
		}
		rows = append(rows, s.TitleMuted.Render(fl.label), style.Render(fl.input.View()))
	}
	rows = append(rows, s.TitleMuted.Render("Tab: next • Ctrl+S: add • Esc: cancel"))
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
