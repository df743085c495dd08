package views

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/planner/internal/db"
	"github.com/tgienger/planner/internal/models"
	"github.com/tgienger/planner/internal/ui/keys"
	"github.com/tgienger/planner/internal/ui/styles"
)

// logFieldLabels are the form's narrative fields in display order
var logFieldLabels = func() []string {
	var labels []string
	for _, f := range (models.DailyLog{}).Fields() {
		labels = append(labels, f.Label)
	}
	return labels
}()

// DailyLogView is the form for writing one day's status log
type DailyLogView struct {
	ctx     context.Context
	db      *db.DB
	project models.Project
	styles  *styles.Styles
	keys    keys.KeyMap
	nextDay key.Binding

	width  int
	height int

	date     textinput.Model
	fields   []textarea.Model
	focusIdx int // 0=date, 1..7=fields

	notice string
	err    error
}

// NewDailyLogView creates a form dated today
func NewDailyLogView(ctx context.Context, database *db.DB, project models.Project, now time.Time) *DailyLogView {
	date := textinput.New()
	date.Placeholder = "YYYY-MM-DD"
	date.CharLimit = 10
	date.SetValue(models.DateOf(now).String())

	fields := make([]textarea.Model, len(logFieldLabels))
	for i, label := range logFieldLabels {
		ta := textarea.New()
		ta.Placeholder = label
		ta.CharLimit = 5000
		ta.SetWidth(50)
		ta.SetHeight(2)
		ta.ShowLineNumbers = false
		fields[i] = ta
	}

	v := &DailyLogView{
		ctx:     ctx,
		db:      database,
		project: project,
		styles:  styles.NewStyles(),
		keys:    keys.DefaultKeyMap(),
		nextDay: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("ctrl+n", "next day"),
		),
		date:   date,
		fields: fields,
	}
	v.updateFocus()
	return v
}

func (v *DailyLogView) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (v *DailyLogView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		inputWidth := clamp(styles.ContentWidth(v.width)-10, 20, 80)
		for i := range v.fields {
			v.fields[i].SetWidth(inputWidth)
		}
		return v, nil

	case ThemeChanged:
		v.styles = styles.NewStyles()
		return v, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, v.keys.Back):
			return v, func() tea.Msg { return BackToPlan{} }

		case key.Matches(msg, v.keys.Save):
			v.submit()
			return v, nil

		case key.Matches(msg, v.nextDay):
			v.advanceDay()
			return v, nil

		case key.Matches(msg, v.keys.Tab):
			v.focusIdx = (v.focusIdx + 1) % (len(v.fields) + 1)
			v.updateFocus()
			return v, nil

		case key.Matches(msg, v.keys.ShiftTab):
			v.focusIdx = (v.focusIdx + len(v.fields)) % (len(v.fields) + 1)
			v.updateFocus()
			return v, nil
		}
	}

	var cmd tea.Cmd
	if v.focusIdx == 0 {
		v.date, cmd = v.date.Update(msg)
	} else {
		v.fields[v.focusIdx-1], cmd = v.fields[v.focusIdx-1].Update(msg)
	}
	return v, cmd
}

func (v *DailyLogView) updateFocus() {
	v.date.Blur()
	for i := range v.fields {
		v.fields[i].Blur()
	}
	if v.focusIdx == 0 {
		v.date.Focus()
	} else {
		v.fields[v.focusIdx-1].Focus()
	}
}

func (v *DailyLogView) entry() models.NewDailyLog {
	val := func(i int) string { return v.fields[i].Value() }
	return models.NewDailyLog{
		ActivitiesUS:    val(0),
		ActivitiesIndia: val(1),
		BlockersUS:      val(2),
		BlockersIndia:   val(3),
		Decisions:       val(4),
		NextStepsUS:     val(5),
		NextStepsIndia:  val(6),
	}.Trimmed()
}

// submit stores the entry and clears the narrative fields; the date is
// kept so several entries can be written for the same day
func (v *DailyLogView) submit() {
	date, err := models.ParseDate(strings.TrimSpace(v.date.Value()))
	if err != nil {
		v.notice = ""
		v.err = fmt.Errorf("log date: %w", err)
		return
	}
	in := v.entry()
	if in.IsEmpty() {
		v.notice = ""
		v.err = errors.New("enter at least some information for the daily log")
		return
	}
	in.LogDate = date.Ptr()

	l, err := v.db.AddDailyLog(v.ctx, v.project.ID, in)
	if err != nil {
		v.notice = ""
		v.err = err
		return
	}
	v.err = nil
	v.notice = fmt.Sprintf("Daily log for %s saved", l.LogDate)
	v.clearFields()
}

// advanceDay moves the log date forward one day and starts a blank entry
func (v *DailyLogView) advanceDay() {
	date, err := models.ParseDate(strings.TrimSpace(v.date.Value()))
	if err != nil {
		v.err = fmt.Errorf("log date: %w", err)
		return
	}
	next := date.AddDays(1)
	v.date.SetValue(next.String())
	v.clearFields()
	v.err = nil
	v.notice = "Logging date advanced to " + next.String()
}

func (v *DailyLogView) clearFields() {
	for i := range v.fields {
		v.fields[i].Reset()
	}
}

// View renders the view
func (v *DailyLogView) View() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	inputWidth := clamp(contentWidth-6, 20, 84)

	dateStyle := s.Input
	if v.focusIdx == 0 {
		dateStyle = s.InputFocused
	}

	rows := []string{
		s.Title.Render("Daily Log • " + v.project.Name),
		"",
		s.Label.Render("Date"),
		dateStyle.Width(16).Render(v.date.View()),
	}
	for i, label := range logFieldLabels {
		style := s.Input
		if v.focusIdx == i+1 {
			style = s.InputFocused
		}
		rows = append(rows, s.Label.Render(label), style.Width(inputWidth).Render(v.fields[i].View()))
	}

	switch {
	case v.err != nil:
		rows = append(rows, s.ErrorText.Render(v.err.Error()))
	case v.notice != "":
		rows = append(rows, s.Notice.Render(v.notice))
	}
	rows = append(rows, s.TitleMuted.Render("Tab: next • Ctrl+S: submit • Ctrl+N: next day • Esc: back"))

	return styles.CenterView(lipgloss.JoinVertical(lipgloss.Left, rows...), v.width, v.height)
}
