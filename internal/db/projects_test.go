package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgienger/planner/internal/models"
)

func TestCreateProject(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t, nil)

	p, err := database.CreateProject(ctx, "Atlas", date("2025-01-06"), date("2025-07-31"))
	require.NoError(t, err)

	assert.NotZero(t, p.ID)
	assert.Equal(t, "Atlas", p.Name)
	assert.Equal(t, "2025-01-06", p.StartDate.String())
	assert.Equal(t, "2025-07-31", p.TargetEndDate.String())
	assert.Equal(t, models.ProjectPlanned, p.Status)
	assert.Nil(t, p.Theme)
	assert.True(t, p.CreatedAt.Equal(fixedNow), "created_at = %v", p.CreatedAt)
}

func TestCreateProject_DuplicateName(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t, nil)

	original, err := database.CreateProject(ctx, "Atlas", date("2025-01-06"), date("2025-07-31"))
	require.NoError(t, err)

	_, err = database.CreateProject(ctx, "Atlas", date("2026-02-02"), date("2026-09-30"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateName)

	got, err := database.GetProjectByName(ctx, "Atlas")
	require.NoError(t, err)
	assert.Equal(t, original.ID, got.ID)
	assert.Equal(t, "2025-01-06", got.StartDate.String())
	assert.Equal(t, "2025-07-31", got.TargetEndDate.String())

	projects, err := database.ListProjects(ctx)
	require.NoError(t, err)
	assert.Len(t, projects, 1)
}

func TestCreateProject_EndBeforeStart(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t, nil)

	_, err := database.CreateProject(ctx, "Atlas", date("2025-07-31"), date("2025-01-06"))
	assert.ErrorIs(t, err, ErrInvalidDates)

	// a single-day project is allowed
	_, err = database.CreateProject(ctx, "Spike", date("2025-03-10"), date("2025-03-10"))
	require.NoError(t, err)

	projects, err := database.ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "Spike", projects[0].Name)
}

func TestGetProject_NotFound(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t, nil)

	_, err := database.GetProjectByName(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = database.GetProject(ctx, 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListProjects_CreationOrder(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t, nil)

	for _, name := range []string{"Zulu", "Alpha", "Mike"} {
		_, err := database.CreateProject(ctx, name, date("2025-01-06"), date("2025-07-31"))
		require.NoError(t, err)
	}

	projects, err := database.ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 3)
	assert.Equal(t, "Zulu", projects[0].Name)
	assert.Equal(t, "Alpha", projects[1].Name)
	assert.Equal(t, "Mike", projects[2].Name)
}

func TestSetProjectStatusAndTheme(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t, nil)

	p, err := database.CreateProject(ctx, "Atlas", date("2025-01-06"), date("2025-07-31"))
	require.NoError(t, err)

	require.NoError(t, database.SetProjectStatus(ctx, p.ID, models.ProjectOnHold))
	require.NoError(t, database.SetProjectTheme(ctx, p.ID, "light"))

	got, err := database.GetProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ProjectOnHold, got.Status)
	require.NotNil(t, got.Theme)
	assert.Equal(t, "light", *got.Theme)

	require.NoError(t, database.SetProjectTheme(ctx, p.ID, ""))
	got, err = database.GetProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Theme)

	assert.ErrorIs(t, database.SetProjectStatus(ctx, 999, models.ProjectCompleted), ErrNotFound)
}

func TestDeleteProject_Cascades(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t, nil)

	doomed := seedProject(t, database, "Doomed")
	kept := seedProject(t, database, "Kept")

	require.NoError(t, database.DeleteProject(ctx, doomed))

	counts, err := database.CountPlan(ctx, doomed)
	require.NoError(t, err)
	assert.Equal(t, PlanCounts{}, counts)

	_, err = database.GetProject(ctx, doomed)
	assert.ErrorIs(t, err, ErrNotFound)

	// Only the surviving project's rows remain anywhere
	keptCounts, err := database.CountPlan(ctx, kept)
	require.NoError(t, err)
	assert.Equal(t, PlanCounts{Phases: 1, Epics: 1, Tasks: 2, SubTasks: 1, DailyLogs: 1}, keptCounts)
	assert.Equal(t, 1, tableCount(t, database, "projects"))
	assert.Equal(t, 1, tableCount(t, database, "phases"))
	assert.Equal(t, 1, tableCount(t, database, "epics"))
	assert.Equal(t, 2, tableCount(t, database, "tasks"))
	assert.Equal(t, 1, tableCount(t, database, "subtasks"))
	assert.Equal(t, 1, tableCount(t, database, "daily_logs"))

	assert.ErrorIs(t, database.DeleteProject(ctx, doomed), ErrNotFound)
}

// seedProject creates a project with one phase, one epic, two tasks,
// one subtask and one daily log
func seedProject(t *testing.T, database *DB, name string) int64 {
	t.Helper()
	ctx := context.Background()

	p, err := database.CreateProject(ctx, name, date("2025-01-06"), date("2025-07-31"))
	require.NoError(t, err)
	phase, err := database.AddPhase(ctx, p.ID, "Phase 1", "", nil, nil)
	require.NoError(t, err)
	epic, err := database.AddEpic(ctx, phase.ID, "Epic 1", "", "")
	require.NoError(t, err)
	task, err := database.AddTask(ctx, epic.ID, models.NewTask{Name: "Task 1"})
	require.NoError(t, err)
	_, err = database.AddTask(ctx, epic.ID, models.NewTask{Name: "Task 2"})
	require.NoError(t, err)
	_, err = database.AddSubTask(ctx, task.ID, models.NewSubTask{Name: "Sub 1"})
	require.NoError(t, err)
	_, err = database.AddDailyLog(ctx, p.ID, models.NewDailyLog{ActivitiesUS: "kickoff"})
	require.NoError(t, err)
	return p.ID
}
