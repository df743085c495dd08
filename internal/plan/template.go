// Package plan seeds a project with the standard delivery skeleton and
// renders a project's plan for export.
package plan

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/tgienger/planner/internal/config"
	"github.com/tgienger/planner/internal/models"
)

// ErrAlreadyPopulated is returned when the project already has phases and
// Options.Append is not set
var ErrAlreadyPopulated = errors.New("project plan already populated")

// Writer is the part of the store the generator writes through
type Writer interface {
	ListPhases(ctx context.Context, projectID int64) ([]models.Phase, error)
	AddPhase(ctx context.Context, projectID int64, name, description string, start, end *models.Date) (*models.Phase, error)
	AddEpic(ctx context.Context, phaseID int64, name, description string, status models.EpicStatus) (*models.Epic, error)
	AddTask(ctx context.Context, epicID int64, in models.NewTask) (*models.Task, error)
}

// Team names the people the template assigns work to
type Team struct {
	SSA1       string
	SA2        string
	OffshorePM string
}

// DefaultTeam is used for any name the property file does not supply
var DefaultTeam = Team{SSA1: "SSA1", SA2: "SA2", OffshorePM: "Offshore PM"}

// PropertyGetter is satisfied by *config.Properties
type PropertyGetter interface {
	Get(section, key string) (string, bool)
}

// TeamFromProperties reads the TEAM_MEMBERS names, falling back to
// DefaultTeam per absent key
func TeamFromProperties(props PropertyGetter) Team {
	team := DefaultTeam
	if props == nil {
		return team
	}
	if v, ok := props.Get(config.SectionTeamMembers, "SSA1_Name"); ok {
		team.SSA1 = v
	}
	if v, ok := props.Get(config.SectionTeamMembers, "SA2_Name"); ok {
		team.SA2 = v
	}
	if v, ok := props.Get(config.SectionTeamMembers, "Offshore_PM_Name"); ok {
		team.OffshorePM = v
	}
	return team
}

// Options control Populate
type Options struct {
	// Append adds another skeleton to a project that already has phases
	Append bool
}

// Result counts what Populate created
type Result struct {
	Phases int
	Epics  int
	Tasks  int
}

func (r Result) String() string {
	return fmt.Sprintf("%d phases, %d epics, %d tasks", r.Phases, r.Epics, r.Tasks)
}

// PartialError reports a failure part way through Populate. Entities
// written before the failure are left in place.
type PartialError struct {
	Created Result
	Step    string
	Err     error
}

func (e *PartialError) Error() string {
	return fmt.Sprintf("populate stopped at %s after %s: %v", e.Step, e.Created, e.Err)
}

func (e *PartialError) Unwrap() error {
	return e.Err
}

// Generator writes the fixed template through a Writer
type Generator struct {
	w      Writer
	logger *slog.Logger
}

// NewGenerator returns a generator; a nil logger discards output
func NewGenerator(w Writer, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Generator{w: w, logger: logger}
}

// Populate adds the three-phase template to project. Phase and due dates
// are offsets from the project's start date; the last phase ends on the
// project's target end date.
func (g *Generator) Populate(ctx context.Context, project *models.Project, team Team, opts Options) (Result, error) {
	var res Result

	existing, err := g.w.ListPhases(ctx, project.ID)
	if err != nil {
		return res, fmt.Errorf("check existing plan: %w", err)
	}
	if len(existing) > 0 && !opts.Append {
		return res, fmt.Errorf("%w: project %q has %d phases", ErrAlreadyPopulated, project.Name, len(existing))
	}

	for _, ph := range skeleton(team) {
		start, end := ph.span(project)
		phase, err := g.w.AddPhase(ctx, project.ID, ph.name, ph.description, start, end)
		if err != nil {
			return res, &PartialError{Created: res, Step: ph.name, Err: err}
		}
		res.Phases++
		g.logger.Debug("phase added", "project_id", project.ID, "phase_id", phase.ID, "name", phase.Name)

		for _, ep := range ph.epics {
			epic, err := g.w.AddEpic(ctx, phase.ID, ep.name, ep.description, models.ProjectPlanned)
			if err != nil {
				return res, &PartialError{Created: res, Step: ep.name, Err: err}
			}
			res.Epics++

			for _, tk := range ep.tasks {
				in := models.NewTask{
					Name:        tk.name,
					Description: tk.description,
					AssignedTo:  tk.assignee,
					Priority:    tk.priority,
					Status:      models.TaskToDo,
				}
				if tk.dueInDays > 0 {
					in.DueDate = project.StartDate.AddDays(tk.dueInDays).Ptr()
				}
				if _, err := g.w.AddTask(ctx, epic.ID, in); err != nil {
					return res, &PartialError{Created: res, Step: tk.name, Err: err}
				}
				res.Tasks++
			}
		}
	}

	g.logger.Info("plan populated", "project_id", project.ID, "project", project.Name,
		"phases", res.Phases, "epics", res.Epics, "tasks", res.Tasks, "append", opts.Append)
	return res, nil
}
