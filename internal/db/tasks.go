package db

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/tgienger/planner/internal/models"
)

const taskColumns = "t.id, t.epic_id, t.name, t.description, t.assigned_to, t.priority, t.status, " +
	"t.external_link, t.start_date, t.due_date, t.completed_date"

// priorityRank maps the stored priority text onto its severity so that
// High sorts above Medium above Low
const priorityRank = "CASE t.priority WHEN 'High' THEN 3 WHEN 'Medium' THEN 2 WHEN 'Low' THEN 1 ELSE 0 END"

func selectTasks() sq.SelectBuilder {
	return sq.Select(taskColumns).From("tasks t")
}

// AddTask adds a task to an epic. Empty priority and status fall back to
// Medium and To Do.
func (db *DB) AddTask(ctx context.Context, epicID int64, in models.NewTask) (*models.Task, error) {
	if in.Priority == "" {
		in.Priority = models.PriorityMedium
	}
	if in.Status == "" {
		in.Status = models.TaskToDo
	}

	t := &models.Task{}
	err := db.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := requireParent(ctx, tx, "epics", epicID); err != nil {
			return err
		}

		var completed *models.Date
		if in.Status == models.TaskDone {
			completed = db.today().Ptr()
		}

		result, err := tx.ExecContext(ctx, `
			INSERT INTO tasks (epic_id, name, description, assigned_to, priority, status,
				external_link, start_date, due_date, completed_date)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, epicID, in.Name, in.Description, in.AssignedTo, in.Priority, in.Status,
			in.ExternalLink, in.StartDate, in.DueDate, completed)
		if err != nil {
			return err
		}
		id, err := result.LastInsertId()
		if err != nil {
			return err
		}
		return getInto(ctx, tx, t, selectTasks().Where(sq.Eq{"t.id": id}))
	})
	if err != nil {
		return nil, wrap("add task", "tasks", err)
	}

	db.logger.Debug("task added", "id", t.ID, "epic_id", epicID)
	return t, nil
}

// GetTask retrieves a task by ID
func (db *DB) GetTask(ctx context.Context, id int64) (*models.Task, error) {
	t := &models.Task{}
	err := db.withTx(ctx, func(tx *sqlx.Tx) error {
		return getInto(ctx, tx, t, selectTasks().Where(sq.Eq{"t.id": id}))
	})
	if err != nil {
		return nil, wrap("get task", "tasks", err)
	}
	return t, nil
}

// UpdateTaskStatus changes a task's status. Moving to Done stamps the
// completed date with today; moving away from Done leaves it as is.
func (db *DB) UpdateTaskStatus(ctx context.Context, id int64, status models.TaskStatus) (*models.Task, error) {
	t := &models.Task{}
	err := db.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := setStatus(ctx, tx, "tasks", id, status, db.today()); err != nil {
			return err
		}
		return getInto(ctx, tx, t, selectTasks().Where(sq.Eq{"t.id": id}))
	})
	if err != nil {
		return nil, wrap("update task status", "tasks", err)
	}

	db.logger.Debug("task status updated", "id", id, "status", status)
	return t, nil
}

// setStatus updates status on a task or subtask row, stamping
// completed_date when the new status is Done
func setStatus(ctx context.Context, tx *sqlx.Tx, table string, id int64, status models.TaskStatus, today models.Date) error {
	q := sq.Update(table).Set("status", status).Where(sq.Eq{"id": id})
	if status == models.TaskDone {
		q = q.Set("completed_date", today)
	}
	query, args, err := q.ToSql()
	if err != nil {
		return err
	}
	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s id %d", ErrNotFound, table, id)
	}
	return nil
}

// ListTasks returns an epic's tasks in insertion order
func (db *DB) ListTasks(ctx context.Context, epicID int64) ([]models.Task, error) {
	var tasks []models.Task
	err := db.withTx(ctx, func(tx *sqlx.Tx) error {
		return selectInto(ctx, tx, &tasks, selectTasks().
			Where(sq.Eq{"t.epic_id": epicID}).
			OrderBy("t.id ASC"))
	})
	if err != nil {
		return nil, wrap("list tasks", "tasks", err)
	}
	return tasks, nil
}

// ListTasksForProject returns every task under the project's phases,
// ordered by due date (undated tasks last), then priority High to Low,
// then insertion order
func (db *DB) ListTasksForProject(ctx context.Context, projectID int64) ([]models.Task, error) {
	var tasks []models.Task
	err := db.withTx(ctx, func(tx *sqlx.Tx) error {
		return selectInto(ctx, tx, &tasks, selectTasks().
			Join("epics e ON e.id = t.epic_id").
			Join("phases p ON p.id = e.phase_id").
			Where(sq.Eq{"p.project_id": projectID}).
			OrderBy("t.due_date IS NULL", "t.due_date ASC", priorityRank+" DESC", "t.id ASC"))
	})
	if err != nil {
		return nil, wrap("list tasks for project", "tasks", err)
	}
	return tasks, nil
}
