package views

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/planner/internal/db"
	"github.com/tgienger/planner/internal/models"
	"github.com/tgienger/planner/internal/plan"
	"github.com/tgienger/planner/internal/ui/keys"
	"github.com/tgienger/planner/internal/ui/styles"
)

type rowKind int

const (
	rowPhase rowKind = iota
	rowEpic
	rowTask
	rowSubTask
)

// planRow is one line of the flattened plan tree
type planRow struct {
	kind  rowKind
	phase *models.Phase
	epic  *models.Epic
	task  *models.Task
	sub   *models.SubTask
}

// flatten walks the tree depth first, phases before their epics before
// their tasks before their subtasks
func flatten(tree *models.PlanTree) []planRow {
	var rows []planRow
	for pi := range tree.Phases {
		ph := &tree.Phases[pi]
		rows = append(rows, planRow{kind: rowPhase, phase: &ph.Phase})
		for ei := range ph.Epics {
			ep := &ph.Epics[ei]
			rows = append(rows, planRow{kind: rowEpic, epic: &ep.Epic})
			for ti := range ep.Tasks {
				tk := &ep.Tasks[ti]
				rows = append(rows, planRow{kind: rowTask, task: &tk.Task})
				for si := range tk.SubTasks {
					rows = append(rows, planRow{kind: rowSubTask, sub: &tk.SubTasks[si]})
				}
			}
		}
	}
	return rows
}

// PlanView shows a project's phase/epic/task tree
type PlanView struct {
	ctx     context.Context
	db      *db.DB
	gen     *plan.Generator
	props   plan.PropertyGetter
	logger  *slog.Logger
	project models.Project
	tree    *models.PlanTree
	rows    []planRow
	styles  *styles.Styles
	keys    keys.KeyMap

	width  int
	height int

	cursor  int
	scrollY int
	loaded  bool
	notice  string
	err     error

	// Populate confirmation
	confirmingPopulate bool

	// Inline form adding a node under the selected row
	form *planForm

	showDetail    bool
	showHelpPopup bool
}

// NewPlanView creates a plan view for project
func NewPlanView(ctx context.Context, database *db.DB, gen *plan.Generator, props plan.PropertyGetter, logger *slog.Logger, project models.Project) *PlanView {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &PlanView{
		ctx:     ctx,
		db:      database,
		gen:     gen,
		props:   props,
		logger:  logger,
		project: project,
		styles:  styles.NewStyles(),
		keys:    keys.DefaultKeyMap(),
	}
}

// Init loads the tree
func (v *PlanView) Init() tea.Cmd {
	return v.loadPlan
}

type planLoadedMsg struct {
	tree *models.PlanTree
}

func (v *PlanView) loadPlan() tea.Msg {
	tree, err := v.db.LoadPlan(v.ctx, v.project.ID)
	if err != nil {
		return errMsg{err}
	}
	return planLoadedMsg{tree: tree}
}

// Update handles messages
func (v *PlanView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		if v.form != nil {
			v.form.setWidth(v.formWidth())
		}
		return v, nil

	case ThemeChanged:
		v.styles = styles.NewStyles()
		return v, nil

	case planLoadedMsg:
		v.tree = msg.tree
		v.project = msg.tree.Project
		v.rows = flatten(msg.tree)
		v.loaded = true
		if v.cursor >= len(v.rows) {
			v.cursor = max(0, len(v.rows)-1)
		}
		v.ensureVisible()
		return v, nil

	case errMsg:
		v.err = msg.err
		v.loaded = true
		return v, nil

	case tea.KeyMsg:
		if v.showHelpPopup {
			v.showHelpPopup = false
			return v, nil
		}

		if v.confirmingPopulate {
			return v.updateConfirmPopulate(msg)
		}

		if v.form != nil {
			return v.updateForm(msg)
		}

		return v.updateNormal(msg)
	}

	return v, nil
}

func (v *PlanView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit

	case key.Matches(msg, v.keys.Back):
		if v.showDetail {
			v.showDetail = false
			return v, nil
		}
		return v, func() tea.Msg { return BackToProjects{} }

	case key.Matches(msg, v.keys.Up):
		if v.cursor > 0 {
			v.cursor--
			v.ensureVisible()
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.cursor < len(v.rows)-1 {
			v.cursor++
			v.ensureVisible()
		}
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		if len(v.rows) > 0 {
			v.showDetail = !v.showDetail
		}
		return v, nil

	case key.Matches(msg, v.keys.Status):
		return v, v.cycleStatus()

	case key.Matches(msg, v.keys.AddPhase):
		return v, v.openForm(newPhaseForm(v.project))

	case key.Matches(msg, v.keys.AddEpic):
		if r, ok := v.selectedAncestor(rowPhase); ok {
			return v, v.openForm(newEpicForm(r.phase))
		}
		return v, v.formError("add a phase first (P)")

	case key.Matches(msg, v.keys.AddTask):
		if r, ok := v.selectedAncestor(rowEpic); ok {
			return v, v.openForm(newTaskForm(r.epic))
		}
		return v, v.formError("select an epic or one of its tasks to add a task")

	case key.Matches(msg, v.keys.New):
		if r, ok := v.selectedAncestor(rowTask); ok {
			return v, v.openForm(newSubTaskForm(r.task))
		}
		return v, v.formError("select a task to add a subtask")

	case key.Matches(msg, v.keys.Populate):
		v.confirmingPopulate = true
		v.notice = ""
		v.err = nil
		return v, nil

	case key.Matches(msg, v.keys.DailyLog):
		return v, func() tea.Msg { return OpenDailyLog{Project: v.project} }

	case key.Matches(msg, v.keys.Logs):
		return v, func() tea.Msg { return OpenLogs{Project: v.project} }

	case key.Matches(msg, v.keys.Theme):
		return v, v.cycleTheme()

	case key.Matches(msg, v.keys.Help):
		v.showHelpPopup = true
		return v, nil
	}

	return v, nil
}

// selectedAncestor returns the row of kind under the cursor or, when the
// cursor sits deeper in the tree, the row of kind that encloses it
func (v *PlanView) selectedAncestor(kind rowKind) (planRow, bool) {
	if v.cursor >= len(v.rows) {
		return planRow{}, false
	}
	for i := v.cursor; i >= 0; i-- {
		switch r := v.rows[i]; {
		case r.kind == kind:
			return r, true
		case r.kind < kind:
			return planRow{}, false
		}
	}
	return planRow{}, false
}

func (v *PlanView) formWidth() int {
	return clamp(styles.ContentWidth(v.width)-10, 20, 60)
}

func (v *PlanView) openForm(f *planForm) tea.Cmd {
	f.setWidth(v.formWidth())
	f.syncFocus()
	v.form = f
	v.notice = ""
	v.err = nil
	return textinput.Blink
}

func (v *PlanView) formError(text string) tea.Cmd {
	v.notice = ""
	v.err = errors.New(text)
	return nil
}

// cycleStatus advances the selected task or subtask to its next status
func (v *PlanView) cycleStatus() tea.Cmd {
	if v.cursor >= len(v.rows) {
		return nil
	}
	row := v.rows[v.cursor]
	switch row.kind {
	case rowTask:
		next := row.task.Status.Next()
		t, err := v.db.UpdateTaskStatus(v.ctx, row.task.ID, next)
		if err != nil {
			v.err = err
			return nil
		}
		v.err = nil
		v.notice = fmt.Sprintf("%s → %s", t.Name, t.Status)
		v.logger.Debug("task status changed", "task_id", t.ID, "status", t.Status)
	case rowSubTask:
		next := row.sub.Status.Next()
		s, err := v.db.UpdateSubTaskStatus(v.ctx, row.sub.ID, next)
		if err != nil {
			v.err = err
			return nil
		}
		v.err = nil
		v.notice = fmt.Sprintf("%s → %s", s.Name, s.Status)
		v.logger.Debug("subtask status changed", "subtask_id", s.ID, "status", s.Status)
	default:
		return nil
	}
	return v.loadPlan
}

func (v *PlanView) updateConfirmPopulate(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.confirmingPopulate = false
		return v, v.populate(false)
	case "a", "A":
		v.confirmingPopulate = false
		return v, v.populate(true)
	case "n", "N", "esc":
		v.confirmingPopulate = false
		return v, nil
	}
	return v, nil
}

func (v *PlanView) populate(appendPlan bool) tea.Cmd {
	team := plan.TeamFromProperties(v.props)
	res, err := v.gen.Populate(v.ctx, &v.project, team, plan.Options{Append: appendPlan})

	var partial *plan.PartialError
	switch {
	case errors.Is(err, plan.ErrAlreadyPopulated):
		v.err = errors.New("plan already has phases; press p then a to append another copy")
		return nil
	case errors.As(err, &partial):
		v.err = err
		return v.loadPlan
	case err != nil:
		v.err = err
		return nil
	}

	v.err = nil
	v.notice = "Added " + res.String()
	return v.loadPlan
}

func (v *PlanView) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, v.keys.Back) {
		v.closeForm()
		return v, nil
	}
	submit, cmd := v.form.update(msg, v.keys)
	if !submit {
		return v, cmd
	}
	return v, v.submitForm()
}

func (v *PlanView) closeForm() {
	v.form.blur()
	v.form = nil
}

// submitForm writes the form's node. Validation errors keep the form open.
func (v *PlanView) submitForm() tea.Cmd {
	f := v.form
	var (
		notice string
		err    error
	)
	switch f.kind {
	case rowPhase:
		d, verr := f.phase()
		if verr != nil {
			v.err = verr
			return nil
		}
		var ph *models.Phase
		if ph, err = v.db.AddPhase(v.ctx, f.parentID, d.name, d.description, d.start, d.end); err == nil {
			notice = fmt.Sprintf("Added phase %q", ph.Name)
		}
	case rowEpic:
		d, verr := f.epic()
		if verr != nil {
			v.err = verr
			return nil
		}
		var e *models.Epic
		if e, err = v.db.AddEpic(v.ctx, f.parentID, d.name, d.description, d.status); err == nil {
			notice = fmt.Sprintf("Added epic %q", e.Name)
		}
	case rowTask:
		in, verr := f.task()
		if verr != nil {
			v.err = verr
			return nil
		}
		var t *models.Task
		if t, err = v.db.AddTask(v.ctx, f.parentID, in); err == nil {
			notice = fmt.Sprintf("Added task %q", t.Name)
		}
	case rowSubTask:
		in, verr := f.subTask()
		if verr != nil {
			v.err = verr
			return nil
		}
		var s *models.SubTask
		if s, err = v.db.AddSubTask(v.ctx, f.parentID, in); err == nil {
			notice = fmt.Sprintf("Added subtask %q", s.Name)
		}
	}

	v.closeForm()
	if err != nil {
		v.err = err
		return nil
	}
	v.err = nil
	v.notice = notice
	v.logger.Debug("plan node added", "kind", f.kind, "parent_id", f.parentID)
	return v.loadPlan
}

// cycleTheme stores the next theme on the project and applies it
func (v *PlanView) cycleTheme() tea.Cmd {
	current := styles.Current.Name
	if v.project.Theme != nil {
		current = *v.project.Theme
	}
	next := styles.NextName(current)
	if err := v.db.SetProjectTheme(v.ctx, v.project.ID, next); err != nil {
		v.err = err
		return nil
	}
	v.project.Theme = &next
	styles.Use(next)
	v.notice = "Theme: " + next
	return func() tea.Msg { return ThemeChanged{Name: next} }
}

func (v *PlanView) visibleRows() int {
	return max(v.height-9, 3)
}

func (v *PlanView) ensureVisible() {
	visible := v.visibleRows()
	if v.cursor < v.scrollY {
		v.scrollY = v.cursor
	} else if v.cursor >= v.scrollY+visible {
		v.scrollY = v.cursor - visible + 1
	}
}

// View renders the view
func (v *PlanView) View() string {
	if v.showHelpPopup {
		return v.renderHelpPopup()
	}

	if v.confirmingPopulate {
		return v.renderPopulateConfirm()
	}

	var b strings.Builder
	b.WriteString(v.renderHeader())
	b.WriteString("\n\n")

	switch {
	case !v.loaded:
		b.WriteString(v.styles.TitleMuted.Render("Loading..."))
	case len(v.rows) == 0:
		b.WriteString(v.styles.TitleMuted.Render("No plan yet. Press 'p' to add the standard delivery template."))
	default:
		b.WriteString(v.renderRows())
	}

	if v.showDetail {
		b.WriteString("\n")
		b.WriteString(v.renderDetail())
	}

	if v.form != nil {
		b.WriteString("\n")
		b.WriteString(v.form.view(v.styles))
	}

	b.WriteString("\n")
	b.WriteString(v.renderStatus())
	b.WriteString(v.renderHelp())

	return styles.CenterView(b.String(), v.width, v.height)
}

func (v *PlanView) renderHeader() string {
	s := v.styles
	p := v.project

	done, total := 0, 0
	for _, r := range v.rows {
		if r.kind == rowTask {
			total++
			if r.task.Status == models.TaskDone {
				done++
			}
		}
	}

	title := s.Title.Render(p.Name)
	meta := s.TitleMuted.Render(fmt.Sprintf("%s • %s → %s • %d/%d tasks done",
		p.Status, p.StartDate, p.TargetEndDate, done, total))
	return lipgloss.JoinVertical(lipgloss.Left, title, meta)
}

func (v *PlanView) renderRows() string {
	end := min(v.scrollY+v.visibleRows(), len(v.rows))
	width := max(styles.ContentWidth(v.width)-2, 20)

	lines := make([]string, 0, end-v.scrollY)
	for i := v.scrollY; i < end; i++ {
		line := v.renderRow(v.rows[i])
		if i == v.cursor {
			line = v.styles.ListSelected.Padding(0, 0).Width(width).Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (v *PlanView) renderRow(r planRow) string {
	s := v.styles
	switch r.kind {
	case rowPhase:
		return s.Phase.Render(fmt.Sprintf("▾ %s", r.phase.Name)) + " " +
			s.TitleMuted.Render(fmt.Sprintf("(%s → %s)",
				models.FormatDate(r.phase.StartDate, "N/A"), models.FormatDate(r.phase.EndDate, "N/A")))
	case rowEpic:
		return "  " + s.Epic.Render("◆ "+r.epic.Name) + " " + s.TitleMuted.Render("["+string(r.epic.Status)+"]")
	case rowTask:
		t := r.task
		parts := []string{
			styles.TaskStatus(t.Status).Render(fmt.Sprintf("[%-11s]", t.Status)),
			s.Task.Render(t.Name),
		}
		meta := []string{}
		if t.AssignedTo != "" {
			meta = append(meta, t.AssignedTo)
		}
		meta = append(meta, styles.Priority(t.Priority).Render(string(t.Priority)))
		meta = append(meta, "due "+models.FormatDate(t.DueDate, "N/A"))
		return "    " + strings.Join(parts, " ") + " " + s.TitleMuted.Render("· ") + strings.Join(meta, s.TitleMuted.Render(" · "))
	case rowSubTask:
		st := r.sub
		line := "      └ " + styles.TaskStatus(st.Status).Render("["+string(st.Status)+"]") + " " + st.Name
		if st.AssignedTo != "" {
			line += s.TitleMuted.Render(" · " + st.AssignedTo)
		}
		return line
	}
	return ""
}

func (v *PlanView) renderDetail() string {
	s := v.styles
	if v.cursor >= len(v.rows) {
		return ""
	}
	r := v.rows[v.cursor]

	var lines []string
	field := func(label, value string) {
		if value != "" {
			lines = append(lines, s.Label.Render(label+": ")+value)
		}
	}
	switch r.kind {
	case rowPhase:
		lines = append(lines, s.Title.Render(r.phase.Name))
		field("Description", r.phase.Description)
	case rowEpic:
		lines = append(lines, s.Title.Render(r.epic.Name))
		field("Description", r.epic.Description)
		field("Status", string(r.epic.Status))
	case rowTask:
		t := r.task
		lines = append(lines, s.Title.Render(t.Name))
		field("Description", t.Description)
		field("Assigned to", t.AssignedTo)
		field("Priority", string(t.Priority))
		field("Status", string(t.Status))
		field("Due", models.FormatDate(t.DueDate, ""))
		field("Completed", models.FormatDate(t.CompletedDate, ""))
		if t.ExternalLink != nil {
			field("Link", *t.ExternalLink)
		}
	case rowSubTask:
		st := r.sub
		lines = append(lines, s.Title.Render(st.Name))
		field("Description", st.Description)
		field("Assigned to", st.AssignedTo)
		field("Status", string(st.Status))
		field("Completed", models.FormatDate(st.CompletedDate, ""))
	}

	width := clamp(styles.ContentWidth(v.width)-4, 20, 90)
	return s.Box.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (v *PlanView) renderStatus() string {
	if v.err != nil {
		return v.styles.ErrorText.Render(v.err.Error()) + "\n"
	}
	if v.notice != "" {
		return v.styles.Notice.Render(v.notice) + "\n"
	}
	return ""
}

func (v *PlanView) renderHelp() string {
	contentWidth := styles.ContentWidth(v.width)
	if contentWidth > 0 && contentWidth < 70 {
		return v.styles.Help.Render(v.styles.HelpKey.Render("?") + " help")
	}
	return v.styles.Help.Render(
		fmt.Sprintf("%s status • %s/%s/%s/%s add • %s populate • %s daily log • %s logs • %s theme • %s back",
			v.styles.HelpKey.Render("s"),
			v.styles.HelpKey.Render("P"),
			v.styles.HelpKey.Render("E"),
			v.styles.HelpKey.Render("a"),
			v.styles.HelpKey.Render("n"),
			v.styles.HelpKey.Render("p"),
			v.styles.HelpKey.Render("l"),
			v.styles.HelpKey.Render("L"),
			v.styles.HelpKey.Render("T"),
			v.styles.HelpKey.Render("esc"),
		),
	)
}

func (v *PlanView) renderHelpPopup() string {
	return overlay(renderShortcuts(v.styles, []shortcut{
		{"↑/↓", "move"},
		{"↵", "show details"},
		{"s", "cycle task status"},
		{"P", "add phase (ctrl+h)"},
		{"E", "add epic to phase (ctrl+j)"},
		{"a", "add task to epic (ctrl+l)"},
		{"n", "add subtask to task"},
		{"p", "populate delivery template"},
		{"l", "write daily log"},
		{"L", "read daily logs"},
		{"T", "switch project theme"},
		{"esc", "back to projects"},
		{"q", "quit"},
	}), v.width, v.height)
}

func (v *PlanView) renderPopulateConfirm() string {
	s := v.styles
	return overlay(lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Render("Populate Plan?"),
		"",
		s.TitleMuted.Render("Adds 3 phases, 7 epics and 28 tasks to "+v.project.Name+"."),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			s.ButtonPrimary.Render(" y  populate "),
			"  ",
			s.Button.Render(" a  append "),
			"  ",
			s.Button.Render(" n  cancel "),
		),
	), v.width, v.height)
}
