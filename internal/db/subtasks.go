package db

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/tgienger/planner/internal/models"
)

const subtaskColumns = "id, task_id, name, description, assigned_to, status, completed_date"

// AddSubTask adds a subtask to a task
func (db *DB) AddSubTask(ctx context.Context, taskID int64, in models.NewSubTask) (*models.SubTask, error) {
	if in.Status == "" {
		in.Status = models.TaskToDo
	}

	s := &models.SubTask{}
	err := db.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := requireParent(ctx, tx, "tasks", taskID); err != nil {
			return err
		}

		var completed *models.Date
		if in.Status == models.TaskDone {
			completed = db.today().Ptr()
		}

		result, err := tx.ExecContext(ctx, `
			INSERT INTO subtasks (task_id, name, description, assigned_to, status, completed_date)
			VALUES (?, ?, ?, ?, ?, ?)
		`, taskID, in.Name, in.Description, in.AssignedTo, in.Status, completed)
		if err != nil {
			return err
		}
		id, err := result.LastInsertId()
		if err != nil {
			return err
		}
		return getInto(ctx, tx, s, sq.Select(subtaskColumns).From("subtasks").Where(sq.Eq{"id": id}))
	})
	if err != nil {
		return nil, wrap("add subtask", "subtasks", err)
	}

	db.logger.Debug("subtask added", "id", s.ID, "task_id", taskID)
	return s, nil
}

// UpdateSubTaskStatus follows the same completed-date rule as tasks
func (db *DB) UpdateSubTaskStatus(ctx context.Context, id int64, status models.TaskStatus) (*models.SubTask, error) {
	s := &models.SubTask{}
	err := db.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := setStatus(ctx, tx, "subtasks", id, status, db.today()); err != nil {
			return err
		}
		return getInto(ctx, tx, s, sq.Select(subtaskColumns).From("subtasks").Where(sq.Eq{"id": id}))
	})
	if err != nil {
		return nil, wrap("update subtask status", "subtasks", err)
	}
	return s, nil
}

// ListSubTasks returns a task's subtasks in insertion order
func (db *DB) ListSubTasks(ctx context.Context, taskID int64) ([]models.SubTask, error) {
	var subtasks []models.SubTask
	err := db.withTx(ctx, func(tx *sqlx.Tx) error {
		return selectInto(ctx, tx, &subtasks, sq.Select(subtaskColumns).From("subtasks").
			Where(sq.Eq{"task_id": taskID}).
			OrderBy("id ASC"))
	})
	if err != nil {
		return nil, wrap("list subtasks", "subtasks", err)
	}
	return subtasks, nil
}
