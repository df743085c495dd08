package views

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/planner/internal/db"
	"github.com/tgienger/planner/internal/models"
	"github.com/tgienger/planner/internal/ui/keys"
	"github.com/tgienger/planner/internal/ui/styles"
)

type projectItem struct {
	project models.Project
	counts  db.PlanCounts
}

func (i projectItem) Title() string { return i.project.Name }

// Description summarizes schedule and plan size on the row's second line
func (i projectItem) Description() string {
	p := i.project
	weeks := int(p.TargetEndDate.Sub(p.StartDate.Time).Hours() / (24 * 7))
	size := "no plan"
	if i.counts.Phases > 0 {
		size = fmt.Sprintf("%d tasks in %d phases", i.counts.Tasks, i.counts.Phases)
	}
	return fmt.Sprintf("%s • %s → %s (%d wks) • %s • %d logs",
		p.Status, p.StartDate, p.TargetEndDate, weeks, size, i.counts.DailyLogs)
}

func (i projectItem) FilterValue() string { return i.project.Name }

type projectDelegate struct {
	styles *styles.Styles
	width  int
}

func (d projectDelegate) Height() int                               { return 2 }
func (d projectDelegate) Spacing() int                              { return 1 }
func (d projectDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d projectDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	p, ok := item.(projectItem)
	if !ok {
		return
	}

	selected := index == m.Index()
	width := max(d.width-4, 20)

	var titleStyle, descStyle lipgloss.Style
	if selected {
		titleStyle = d.styles.ListSelected.Width(width)
		descStyle = d.styles.ListSelected.Foreground(styles.Current.ForegroundDim).Width(width)
	} else {
		titleStyle = d.styles.ListItem.Width(width)
		descStyle = d.styles.ListItem.Foreground(styles.Current.ForegroundDim).Width(width)
	}

	fmt.Fprintf(w, "%s\n%s", titleStyle.Render(p.Title()), descStyle.Render(p.Description()))
}

// ProjectListView lists projects and creates or deletes them
type ProjectListView struct {
	ctx      context.Context
	db       *db.DB
	list     list.Model
	delegate *projectDelegate
	styles   *styles.Styles
	keys     keys.KeyMap
	now      func() time.Time
	width    int
	height   int
	loaded   bool
	err      error

	creating bool
	form     projectForm

	confirmingDelete bool
	deleteTargetID   int64
	deleteTargetName string

	showHelpPopup bool
}

func NewProjectListView(ctx context.Context, database *db.DB) *ProjectListView {
	s := styles.NewStyles()
	delegate := &projectDelegate{styles: s, width: 80}

	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = "Projects"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = s.Title
	l.SetShowHelp(false)

	return &ProjectListView{
		ctx:      ctx,
		db:       database,
		list:     l,
		delegate: delegate,
		styles:   s,
		keys:     keys.DefaultKeyMap(),
		now:      time.Now,
		form:     newProjectForm(),
	}
}

func (v *ProjectListView) Init() tea.Cmd {
	return v.loadProjects
}

func (v *ProjectListView) loadProjects() tea.Msg {
	projects, err := v.db.ListProjects(v.ctx)
	if err != nil {
		return errMsg{err}
	}
	items := make([]list.Item, len(projects))
	for i, p := range projects {
		counts, err := v.db.CountPlan(v.ctx, p.ID)
		if err != nil {
			return errMsg{err}
		}
		items[i] = projectItem{project: p, counts: counts}
	}
	return projectsLoadedMsg{items: items}
}

type projectsLoadedMsg struct {
	items []list.Item
}

func (v *ProjectListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		contentWidth := styles.ContentWidth(msg.Width)
		v.delegate.width = contentWidth
		v.list.SetSize(contentWidth-4, msg.Height-6)
		return v, nil

	case ThemeChanged:
		v.styles = styles.NewStyles()
		v.delegate.styles = v.styles
		v.list.Styles.Title = v.styles.Title
		return v, nil

	case projectsLoadedMsg:
		v.list.SetItems(msg.items)
		v.loaded = true
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

		if v.confirmingDelete {
			return v.updateConfirmDelete(msg)
		}

		if v.creating {
			return v.updateCreating(msg)
		}

		// Let the list own keys while its filter is being typed
		if v.list.FilterState() == list.Filtering {
			break
		}

		switch {
		case key.Matches(msg, v.keys.Quit):
			return v, tea.Quit
		case key.Matches(msg, v.keys.Back):
			return v, nil
		case key.Matches(msg, v.keys.New):
			v.startCreate()
			return v, textinput.Blink
		case key.Matches(msg, v.keys.Properties):
			return v, func() tea.Msg { return OpenProperties{} }
		case key.Matches(msg, v.keys.Help):
			v.showHelpPopup = true
			return v, nil
		case key.Matches(msg, v.keys.Enter):
			if item, ok := v.list.SelectedItem().(projectItem); ok {
				return v, func() tea.Msg {
					return SelectedProject{Project: item.project}
				}
			}
		case key.Matches(msg, v.keys.Delete):
			if item, ok := v.list.SelectedItem().(projectItem); ok {
				v.confirmingDelete = true
				v.deleteTargetID = item.project.ID
				v.deleteTargetName = item.project.Name
				return v, nil
			}
		}
	}

	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return v, cmd
}

func (v *ProjectListView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.confirmingDelete = false
		if err := v.db.DeleteProject(v.ctx, v.deleteTargetID); err != nil {
			v.err = err
			return v, nil
		}
		v.err = nil
		return v, v.loadProjects
	case "n", "N", "esc":
		v.confirmingDelete = false
		return v, nil
	}
	return v, nil
}

func (v *ProjectListView) startCreate() {
	v.creating = true
	v.err = nil
	v.form.reset(models.DateOf(v.now()))
}

func (v *ProjectListView) updateCreating(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, v.keys.Back) {
		v.creating = false
		v.err = nil
		return v, nil
	}
	submit, cmd := v.form.update(msg, v.keys)
	if submit {
		return v, v.createProject()
	}
	return v, cmd
}

// createProject stores the drafted project and opens it
func (v *ProjectListView) createProject() tea.Cmd {
	d, err := v.form.draft()
	if err != nil {
		v.err = err
		return nil
	}

	project, err := v.db.CreateProject(v.ctx, d.name, d.start, d.end)
	switch {
	case errors.Is(err, db.ErrDuplicateName):
		v.err = fmt.Errorf("a project named %q already exists", d.name)
		return nil
	case err != nil:
		v.err = err
		return nil
	}

	v.creating = false
	v.err = nil
	return func() tea.Msg {
		return SelectedProject{Project: *project}
	}
}

// View renders the view
func (v *ProjectListView) View() string {
	if v.showHelpPopup {
		return v.renderHelpPopup()
	}

	if v.confirmingDelete {
		return v.renderDeleteConfirm()
	}

	if v.creating {
		return v.renderCreateForm()
	}

	if !v.loaded {
		return v.styles.TitleMuted.Render("Loading...")
	}

	if len(v.list.Items()) == 0 {
		return v.renderEmpty()
	}

	content := v.list.View() + "\n" + v.renderError() + v.renderHelp()
	return styles.CenterView(content, v.width, v.height)
}

func (v *ProjectListView) renderError() string {
	if v.err == nil {
		return ""
	}
	return v.styles.ErrorText.Render(v.err.Error()) + "\n"
}

func (v *ProjectListView) renderEmpty() string {
	s := v.styles
	return overlay(lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Render("No Projects"),
		"",
		s.TitleMuted.Render("A project holds one delivery plan and its daily logs."),
		s.TitleMuted.Render("Press 'n' to create one, 'c' to review team properties."),
		"",
		s.ButtonPrimary.Render(" New Project "),
		"",
		v.renderError(),
	), v.width, v.height)
}

func (v *ProjectListView) renderCreateForm() string {
	return overlay(v.form.view(v.styles, v.width, v.renderError()), v.width, v.height)
}

func (v *ProjectListView) renderHelp() string {
	contentWidth := styles.ContentWidth(v.width)
	if contentWidth > 0 && contentWidth < 60 {
		return v.styles.Help.Render(v.styles.HelpKey.Render("?") + " help")
	}
	return v.styles.Help.Render(
		fmt.Sprintf("%s open • %s new • %s del • %s filter • %s properties • %s quit",
			v.styles.HelpKey.Render("↵"),
			v.styles.HelpKey.Render("n"),
			v.styles.HelpKey.Render("d"),
			v.styles.HelpKey.Render("/"),
			v.styles.HelpKey.Render("c"),
			v.styles.HelpKey.Render("q"),
		),
	)
}

func (v *ProjectListView) renderHelpPopup() string {
	return overlay(renderShortcuts(v.styles, []shortcut{
		{"↵", "open project plan"},
		{"n", "new project"},
		{"d", "delete project"},
		{"/", "filter by name"},
		{"c", "edit team properties"},
		{"q", "quit"},
	}), v.width, v.height)
}

func (v *ProjectListView) renderDeleteConfirm() string {
	s := v.styles
	return overlay(lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render("Delete "+v.deleteTargetName+"?"),
		"",
		s.TitleMuted.Render("Its phases, epics, tasks, subtasks and daily logs go with it."),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			s.ButtonPrimary.Render(" y  delete "),
			"  ",
			s.Button.Render(" n  keep "),
		),
	), v.width, v.height)
}
