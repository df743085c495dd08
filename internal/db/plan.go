package db

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/tgienger/planner/internal/models"
)

// PlanCounts summarizes how much of a plan a project holds
type PlanCounts struct {
	Phases    int `db:"phases"`
	Epics     int `db:"epics"`
	Tasks     int `db:"tasks"`
	SubTasks  int `db:"subtasks"`
	DailyLogs int `db:"daily_logs"`
}

// LoadPlan reads a project's whole hierarchy in a single transaction.
// Every level keeps insertion order.
func (db *DB) LoadPlan(ctx context.Context, projectID int64) (*models.PlanTree, error) {
	tree := &models.PlanTree{}
	err := db.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := getProject(ctx, tx, &tree.Project, sq.Eq{"id": projectID}); err != nil {
			return err
		}

		var phases []models.Phase
		if err := selectInto(ctx, tx, &phases, sq.Select(phaseColumns).From("phases").
			Where(sq.Eq{"project_id": projectID}).OrderBy("id ASC")); err != nil {
			return err
		}

		phaseIDs := sq.Select("id").From("phases").Where(sq.Eq{"project_id": projectID})
		var epics []models.Epic
		if err := selectInto(ctx, tx, &epics, sq.Select(epicColumns).From("epics").
			Where(sq.Expr("phase_id IN (?)", phaseIDs)).OrderBy("id ASC")); err != nil {
			return err
		}

		var tasks []models.Task
		if err := selectInto(ctx, tx, &tasks, selectTasks().
			Join("epics e ON e.id = t.epic_id").
			Join("phases p ON p.id = e.phase_id").
			Where(sq.Eq{"p.project_id": projectID}).
			OrderBy("t.id ASC")); err != nil {
			return err
		}

		var subtasks []models.SubTask
		if err := selectInto(ctx, tx, &subtasks, sq.Select("s.id, s.task_id, s.name, s.description, s.assigned_to, s.status, s.completed_date").
			From("subtasks s").
			Join("tasks t ON t.id = s.task_id").
			Join("epics e ON e.id = t.epic_id").
			Join("phases p ON p.id = e.phase_id").
			Where(sq.Eq{"p.project_id": projectID}).
			OrderBy("s.id ASC")); err != nil {
			return err
		}

		tree.Phases = assemble(phases, epics, tasks, subtasks)
		return nil
	})
	if err != nil {
		return nil, wrap("load plan", "projects", err)
	}
	return tree, nil
}

// assemble nests the flat, id-ordered rows into a tree
func assemble(phases []models.Phase, epics []models.Epic, tasks []models.Task, subtasks []models.SubTask) []models.PhaseNode {
	subsByTask := make(map[int64][]models.SubTask)
	for _, s := range subtasks {
		subsByTask[s.TaskID] = append(subsByTask[s.TaskID], s)
	}

	tasksByEpic := make(map[int64][]models.TaskNode)
	for _, t := range tasks {
		tasksByEpic[t.EpicID] = append(tasksByEpic[t.EpicID], models.TaskNode{Task: t, SubTasks: subsByTask[t.ID]})
	}

	epicsByPhase := make(map[int64][]models.EpicNode)
	for _, e := range epics {
		epicsByPhase[e.PhaseID] = append(epicsByPhase[e.PhaseID], models.EpicNode{Epic: e, Tasks: tasksByEpic[e.ID]})
	}

	nodes := make([]models.PhaseNode, 0, len(phases))
	for _, p := range phases {
		nodes = append(nodes, models.PhaseNode{Phase: p, Epics: epicsByPhase[p.ID]})
	}
	return nodes
}

// CountPlan counts a project's phases, epics, tasks, subtasks and logs
func (db *DB) CountPlan(ctx context.Context, projectID int64) (PlanCounts, error) {
	var c PlanCounts
	err := db.withTx(ctx, func(tx *sqlx.Tx) error {
		return tx.GetContext(ctx, &c, `
			SELECT
				(SELECT COUNT(*) FROM phases p WHERE p.project_id = ?) AS phases,
				(SELECT COUNT(*) FROM epics e JOIN phases p ON p.id = e.phase_id
					WHERE p.project_id = ?) AS epics,
				(SELECT COUNT(*) FROM tasks t JOIN epics e ON e.id = t.epic_id
					JOIN phases p ON p.id = e.phase_id WHERE p.project_id = ?) AS tasks,
				(SELECT COUNT(*) FROM subtasks s JOIN tasks t ON t.id = s.task_id
					JOIN epics e ON e.id = t.epic_id JOIN phases p ON p.id = e.phase_id
					WHERE p.project_id = ?) AS subtasks,
				(SELECT COUNT(*) FROM daily_logs l WHERE l.project_id = ?) AS daily_logs
		`, projectID, projectID, projectID, projectID, projectID)
	})
	if err != nil {
		return PlanCounts{}, wrap("count plan", "projects", err)
	}
	return c, nil
}
