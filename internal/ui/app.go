// Package ui is the interactive terminal front end.
package ui

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tgienger/planner/internal/config"
	"github.com/tgienger/planner/internal/db"
	"github.com/tgienger/planner/internal/models"
	"github.com/tgienger/planner/internal/plan"
	"github.com/tgienger/planner/internal/ui/styles"
	"github.com/tgienger/planner/internal/ui/views"
)

// settingLastProject remembers the project that was open on exit
const settingLastProject = "last_project_id"

// View is the currently active screen
type View int

const (
	ViewProjects View = iota
	ViewPlan
	ViewDailyLog
	ViewLogs
	ViewProperties
)

// Deps are the services the interface works against
type Deps struct {
	Store     *db.DB
	Props     *config.Properties
	Generator *plan.Generator
	Logger    *slog.Logger
}

type App struct {
	ctx         context.Context
	deps        Deps
	logger      *slog.Logger
	now         func() time.Time
	currentView View

	projectList *views.ProjectListView
	planView    *views.PlanView
	dailyLog    *views.DailyLogView
	logView     *views.LogView
	properties  *views.PropertiesView

	project models.Project
	width   int
	height  int
}

// NewApp creates the root model
func NewApp(ctx context.Context, deps Deps) *App {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &App{
		ctx:         ctx,
		deps:        deps,
		logger:      logger,
		now:         time.Now,
		currentView: ViewProjects,
		projectList: views.NewProjectListView(ctx, deps.Store),
	}
}

// CurrentView reports the active screen
func (a *App) CurrentView() View {
	return a.currentView
}

func (a *App) Init() tea.Cmd {
	// Reopen the last project if it still exists
	lastProjectID, err := a.deps.Store.GetSetting(a.ctx, settingLastProject)
	if err == nil && lastProjectID != "" {
		id, err := strconv.ParseInt(lastProjectID, 10, 64)
		if err == nil {
			project, err := a.deps.Store.GetProject(a.ctx, id)
			if err == nil {
				return a.openProject(*project)
			}
			a.logger.Debug("last project unavailable", "id", id, "err", err)
		}
	}

	return a.projectList.Init()
}

func (a *App) propertyGetter() plan.PropertyGetter {
	if a.deps.Props == nil {
		return nil
	}
	return a.deps.Props
}

func (a *App) resize() tea.Cmd {
	return func() tea.Msg {
		return tea.WindowSizeMsg{Width: a.width, Height: a.height}
	}
}

func (a *App) openProject(project models.Project) tea.Cmd {
	a.currentView = ViewPlan
	a.project = project
	theme := styles.Themes[0].Name
	if project.Theme != nil {
		theme = *project.Theme
	}
	styles.Use(theme)
	a.planView = views.NewPlanView(a.ctx, a.deps.Store, a.deps.Generator, a.propertyGetter(), a.logger, project)

	if err := a.deps.Store.SetSetting(a.ctx, settingLastProject, strconv.FormatInt(project.ID, 10)); err != nil {
		a.logger.Warn("remember last project", "err", err)
	}
	a.logger.Info("opened project", "id", project.ID, "name", project.Name)

	return tea.Batch(a.planView.Init(), a.resize(), a.themeChanged())
}

func (a *App) themeChanged() tea.Cmd {
	return func() tea.Msg {
		return views.ThemeChanged{Name: styles.Current.Name}
	}
}

func (a *App) backToPlan() tea.Cmd {
	if a.planView == nil {
		return a.backToProjects()
	}
	a.currentView = ViewPlan
	// the plan may have changed while a sub-screen was open
	return tea.Batch(a.planView.Init(), a.resize())
}

func (a *App) backToProjects() tea.Cmd {
	a.currentView = ViewProjects
	if err := a.deps.Store.SetSetting(a.ctx, settingLastProject, ""); err != nil {
		a.logger.Warn("clear last project", "err", err)
	}
	return tea.Batch(a.projectList.Init(), a.resize())
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Always update project list size since it persists
		a.projectList.Update(msg)

	case views.ThemeChanged:
		// every live screen restyles, not only the active one
		var cmds []tea.Cmd
		for _, m := range a.liveViews() {
			_, cmd := m.Update(msg)
			cmds = append(cmds, cmd)
		}
		return a, tea.Batch(cmds...)

	case views.SelectedProject:
		return a, a.openProject(msg.Project)

	case views.BackToProjects:
		return a, a.backToProjects()

	case views.BackToPlan:
		return a, a.backToPlan()

	case views.OpenDailyLog:
		a.currentView = ViewDailyLog
		a.dailyLog = views.NewDailyLogView(a.ctx, a.deps.Store, msg.Project, a.now())
		return a, tea.Batch(a.dailyLog.Init(), a.resize())

	case views.OpenLogs:
		a.currentView = ViewLogs
		a.logView = views.NewLogView(a.ctx, a.deps.Store, msg.Project)
		return a, tea.Batch(a.logView.Init(), a.resize())

	case views.OpenProperties:
		if a.deps.Props == nil {
			return a, nil
		}
		a.currentView = ViewProperties
		a.properties = views.NewPropertiesView(a.deps.Props)
		return a, tea.Batch(a.properties.Init(), a.resize())
	}

	var cmd tea.Cmd
	if m := a.active(); m != nil {
		_, cmd = m.Update(msg)
	}
	return a, cmd
}

// active returns the model for the current screen
func (a *App) active() tea.Model {
	switch a.currentView {
	case ViewPlan:
		if a.planView != nil {
			return a.planView
		}
	case ViewDailyLog:
		if a.dailyLog != nil {
			return a.dailyLog
		}
	case ViewLogs:
		if a.logView != nil {
			return a.logView
		}
	case ViewProperties:
		if a.properties != nil {
			return a.properties
		}
	}
	return a.projectList
}

func (a *App) liveViews() []tea.Model {
	live := []tea.Model{a.projectList}
	if a.planView != nil {
		live = append(live, a.planView)
	}
	if a.dailyLog != nil {
		live = append(live, a.dailyLog)
	}
	if a.logView != nil {
		live = append(live, a.logView)
	}
	if a.properties != nil {
		live = append(live, a.properties)
	}
	return live
}

func (a *App) View() string {
	return a.active().View()
}
