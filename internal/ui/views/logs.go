package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/planner/internal/db"
	"github.com/tgienger/planner/internal/models"
	"github.com/tgienger/planner/internal/ui/keys"
	"github.com/tgienger/planner/internal/ui/styles"
)

// LogView is a scrollable, read-only list of a project's daily logs,
// newest first
type LogView struct {
	ctx      context.Context
	db       *db.DB
	project  models.Project
	logs     []models.DailyLog
	viewport viewport.Model
	styles   *styles.Styles
	keys     keys.KeyMap

	width  int
	height int
	loaded bool
	err    error
}

func NewLogView(ctx context.Context, database *db.DB, project models.Project) *LogView {
	return &LogView{
		ctx:      ctx,
		db:       database,
		project:  project,
		viewport: viewport.New(80, 20),
		styles:   styles.NewStyles(),
		keys:     keys.DefaultKeyMap(),
	}
}

func (v *LogView) Init() tea.Cmd {
	return v.loadLogs
}

type logsLoadedMsg struct {
	logs []models.DailyLog
}

func (v *LogView) loadLogs() tea.Msg {
	logs, err := v.db.ListDailyLogsForProject(v.ctx, v.project.ID)
	if err != nil {
		return errMsg{err}
	}
	return logsLoadedMsg{logs: logs}
}

// Update handles messages
func (v *LogView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.viewport.Width = styles.ContentWidth(msg.Width) - 2
		v.viewport.Height = max(msg.Height-6, 3)
		v.viewport.SetContent(v.renderLogs())
		return v, nil

	case ThemeChanged:
		v.styles = styles.NewStyles()
		v.viewport.SetContent(v.renderLogs())
		return v, nil

	case logsLoadedMsg:
		v.logs = msg.logs
		v.loaded = true
		v.viewport.SetContent(v.renderLogs())
		v.viewport.GotoTop()
		return v, nil

	case errMsg:
		v.err = msg.err
		v.loaded = true
		return v, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, v.keys.Back):
			return v, func() tea.Msg { return BackToPlan{} }
		case key.Matches(msg, v.keys.Quit):
			return v, tea.Quit
		case key.Matches(msg, v.keys.DailyLog):
			return v, func() tea.Msg { return OpenDailyLog{Project: v.project} }
		}
	}

	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return v, cmd
}

func (v *LogView) renderLogs() string {
	s := v.styles
	if len(v.logs) == 0 {
		return s.TitleMuted.Render("No daily logs found for this project.")
	}

	var b strings.Builder
	for i, l := range v.logs {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(s.Phase.Render(fmt.Sprintf("── %s", l.LogDate)))
		b.WriteString(s.TitleMuted.Render(fmt.Sprintf("  recorded %s", l.CreatedAt.Local().Format("15:04"))))
		b.WriteString("\n")
		for _, f := range l.Fields() {
			if f.Value == "" {
				continue
			}
			b.WriteString(s.Label.Render(f.Label))
			b.WriteString("\n")
			for _, line := range strings.Split(f.Value, "\n") {
				b.WriteString("  " + line + "\n")
			}
		}
	}
	return b.String()
}

// View renders the view
func (v *LogView) View() string {
	s := v.styles
	header := s.Title.Render("Daily Logs • "+v.project.Name) +
		s.TitleMuted.Render(fmt.Sprintf("  %d entries", len(v.logs)))

	var body string
	switch {
	case v.err != nil:
		body = s.ErrorText.Render(v.err.Error())
	case !v.loaded:
		body = s.TitleMuted.Render("Loading...")
	default:
		body = v.viewport.View()
	}

	footer := s.TitleMuted.Render(fmt.Sprintf("%3.f%% • ↑/↓ scroll • l: new entry • esc: back", v.viewport.ScrollPercent()*100))
	return styles.CenterView(lipgloss.JoinVertical(lipgloss.Left, header, "", body, footer), v.width, v.height)
}
