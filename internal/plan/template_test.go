package plan

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgienger/planner/internal/db"
	"github.com/tgienger/planner/internal/models"
)

func newStore(t *testing.T) *db.DB {
	t.Helper()
	now := time.Date(2025, 1, 6, 8, 0, 0, 0, time.UTC)
	store, err := db.Open(filepath.Join(t.TempDir(), "plan.db"),
		db.WithClock(func() time.Time { return now }))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func newProject(t *testing.T, store *db.DB) *models.Project {
	t.Helper()
	p, err := store.CreateProject(context.Background(), "Atlas",
		models.NewDate(2025, 1, 6), models.NewDate(2025, 7, 31))
	require.NoError(t, err)
	return p
}

func TestPopulate_FreshProject(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	project := newProject(t, store)

	res, err := NewGenerator(store, nil).Populate(ctx, project, DefaultTeam, Options{})
	require.NoError(t, err)
	assert.Equal(t, Result{Phases: 3, Epics: 7, Tasks: 28}, res)

	counts, err := store.CountPlan(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, counts.Phases)
	assert.Equal(t, 7, counts.Epics)
	assert.Equal(t, 28, counts.Tasks)

	tree, err := store.LoadPlan(ctx, project.ID)
	require.NoError(t, err)
	require.Len(t, tree.Phases, 3)

	phaseDates := []struct{ start, end string }{
		{"2025-01-06", "2025-02-03"},
		{"2025-02-03", "2025-06-23"},
		{"2025-06-23", "2025-07-31"},
	}
	taskCounts := []int{8, 14, 6}
	for i, ph := range tree.Phases {
		assert.Equal(t, phaseDates[i].start, ph.StartDate.String(), ph.Name)
		assert.Equal(t, phaseDates[i].end, ph.EndDate.String(), ph.Name)

		n := 0
		for _, ep := range ph.Epics {
			assert.Equal(t, models.ProjectPlanned, ep.Status)
			n += len(ep.Tasks)
		}
		assert.Equal(t, taskCounts[i], n, ph.Name)
	}

	first := tree.Phases[0].Epics[0].Tasks[0]
	assert.Equal(t, "Client Kick-off & Expectations Alignment", first.Name)
	assert.Equal(t, "SSA1", first.AssignedTo)
	assert.Equal(t, models.PriorityHigh, first.Priority)
	assert.Equal(t, models.TaskToDo, first.Status)
	require.NotNil(t, first.DueDate)
	assert.Equal(t, "2025-01-09", first.DueDate.String())

	var dues []string
	for _, ep := range tree.Phases[0].Epics {
		for _, tk := range ep.Tasks {
			dues = append(dues, models.FormatDate(tk.DueDate, ""))
		}
	}
	assert.Equal(t, []string{
		"2025-01-09", "2025-01-13", "2025-01-20", "2025-01-20",
		"2025-01-27", "2025-01-27", "2025-02-03", "2025-02-03",
	}, dues)

	for _, ph := range tree.Phases[1:] {
		for _, ep := range ph.Epics {
			for _, tk := range ep.Tasks {
				assert.Nil(t, tk.DueDate, tk.Name)
			}
		}
	}
}

func TestPopulate_RerunGuard(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	project := newProject(t, store)
	gen := NewGenerator(store, nil)

	_, err := gen.Populate(ctx, project, DefaultTeam, Options{})
	require.NoError(t, err)

	res, err := gen.Populate(ctx, project, DefaultTeam, Options{})
	assert.ErrorIs(t, err, ErrAlreadyPopulated)
	assert.Zero(t, res)

	counts, err := store.CountPlan(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, 28, counts.Tasks)

	res, err = gen.Populate(ctx, project, DefaultTeam, Options{Append: true})
	require.NoError(t, err)
	assert.Equal(t, 28, res.Tasks)

	counts, err = store.CountPlan(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, counts.Phases)
	assert.Equal(t, 14, counts.Epics)
	assert.Equal(t, 56, counts.Tasks)
}

func TestPopulate_TeamNames(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	project := newProject(t, store)

	team := Team{SSA1: "Dana", SA2: "Ravi", OffshorePM: "Meera"}
	_, err := NewGenerator(store, nil).Populate(ctx, project, team, Options{})
	require.NoError(t, err)

	tasks, err := store.ListTasksForProject(ctx, project.ID)
	require.NoError(t, err)

	assignees := map[string]string{}
	for _, tk := range tasks {
		assignees[tk.Name] = tk.AssignedTo
	}
	assert.Equal(t, "Dana", assignees["Client Kick-off & Expectations Alignment"])
	assert.Equal(t, "Dana, Ravi", assignees["Vendor Product Architecture Deep Dive"])
	assert.Equal(t, "Meera", assignees["Offshore Team Onboarding & Environment Setup"])
	assert.Equal(t, "Meera (Offshore Team)", assignees["Ingress Source 1-5 Development & Unit Test"])
	assert.Equal(t, "Meera (Offshore Team), Dana", assignees["UAT Defect Triage & Resolution Cycles"])
}

type fakeProps map[string]string

func (f fakeProps) Get(section, key string) (string, bool) {
	v, ok := f[section+"."+key]
	return v, ok
}

func TestTeamFromProperties(t *testing.T) {
	assert.Equal(t, DefaultTeam, TeamFromProperties(nil))
	assert.Equal(t, DefaultTeam, TeamFromProperties(fakeProps{}))

	team := TeamFromProperties(fakeProps{
		"TEAM_MEMBERS.SA2_Name":         "Ravi",
		"TEAM_MEMBERS.Offshore_PM_Name": "",
	})
	assert.Equal(t, Team{SSA1: "SSA1", SA2: "Ravi", OffshorePM: ""}, team)
}

// failingWriter records calls and fails the nth AddTask
type failingWriter struct {
	phases   []models.Phase
	failTask int
	tasks    int
	nextID   int64
}

func (w *failingWriter) ListPhases(ctx context.Context, projectID int64) ([]models.Phase, error) {
	return w.phases, nil
}

func (w *failingWriter) AddPhase(ctx context.Context, projectID int64, name, description string, start, end *models.Date) (*models.Phase, error) {
	w.nextID++
	return &models.Phase{ID: w.nextID, ProjectID: projectID, Name: name}, nil
}

func (w *failingWriter) AddEpic(ctx context.Context, phaseID int64, name, description string, status models.EpicStatus) (*models.Epic, error) {
	w.nextID++
	return &models.Epic{ID: w.nextID, PhaseID: phaseID, Name: name, Status: status}, nil
}

func (w *failingWriter) AddTask(ctx context.Context, epicID int64, in models.NewTask) (*models.Task, error) {
	w.tasks++
	if w.tasks == w.failTask {
		return nil, errors.New("disk full")
	}
	w.nextID++
	return &models.Task{ID: w.nextID, EpicID: epicID, Name: in.Name}, nil
}

func TestPopulate_PartialFailure(t *testing.T) {
	w := &failingWriter{failTask: 10}
	project := &models.Project{ID: 1, Name: "Atlas",
		StartDate: models.NewDate(2025, 1, 6), TargetEndDate: models.NewDate(2025, 7, 31)}

	res, err := NewGenerator(w, nil).Populate(context.Background(), project, DefaultTeam, Options{})
	require.Error(t, err)

	var partial *PartialError
	require.ErrorAs(t, err, &partial)
	assert.Equal(t, Result{Phases: 2, Epics: 3, Tasks: 9}, partial.Created)
	assert.Equal(t, partial.Created, res)
	assert.Equal(t, "Ingress Source 6-10 Development & Unit Test", partial.Step)
	assert.Contains(t, err.Error(), "disk full")
}

func TestPopulate_ExistingPhasesFromWriter(t *testing.T) {
	w := &failingWriter{phases: []models.Phase{{ID: 1}}}
	project := &models.Project{ID: 1, Name: "Atlas"}

	_, err := NewGenerator(w, nil).Populate(context.Background(), project, DefaultTeam, Options{})
	assert.ErrorIs(t, err, ErrAlreadyPopulated)
	assert.Zero(t, w.tasks)
}
