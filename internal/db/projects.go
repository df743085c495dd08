package db

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/tgienger/planner/internal/models"
)

const projectColumns = "id, name, start_date, target_end_date, status, theme, created_at"

func selectProjects() sq.SelectBuilder {
	return sq.Select(projectColumns).From("projects")
}

// CreateProject creates a new project. It fails with ErrDuplicateName when
// the name is taken, leaving the existing record untouched, and with
// ErrInvalidDates when targetEnd is before start.
func (db *DB) CreateProject(ctx context.Context, name string, start, targetEnd models.Date) (*models.Project, error) {
	if targetEnd.Before(start.Time) {
		return nil, wrap("create project", "projects",
			fmt.Errorf("%w: %s is before %s", ErrInvalidDates, targetEnd, start))
	}

	p := &models.Project{}
	err := db.withTx(ctx, func(tx *sqlx.Tx) error {
		var n int
		if err := getInto(ctx, tx, &n, sq.Select("COUNT(*)").From("projects").Where(sq.Eq{"name": name})); err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("%w: %q", ErrDuplicateName, name)
		}

		result, err := tx.ExecContext(ctx, `
			INSERT INTO projects (name, start_date, target_end_date, status, created_at)
			VALUES (?, ?, ?, ?, ?)
		`, name, start, targetEnd, models.ProjectPlanned, db.now())
		if err != nil {
			return err
		}
		id, err := result.LastInsertId()
		if err != nil {
			return err
		}
		return getProject(ctx, tx, p, sq.Eq{"id": id})
	})
	if err != nil {
		return nil, wrap("create project", "projects", err)
	}

	db.logger.Info("project created", "id", p.ID, "name", p.Name)
	return p, nil
}

func getProject(ctx context.Context, tx *sqlx.Tx, p *models.Project, where sq.Eq) error {
	return getInto(ctx, tx, p, selectProjects().Where(where))
}

// GetProject retrieves a project by ID
func (db *DB) GetProject(ctx context.Context, id int64) (*models.Project, error) {
	p := &models.Project{}
	err := db.withTx(ctx, func(tx *sqlx.Tx) error {
		return getProject(ctx, tx, p, sq.Eq{"id": id})
	})
	if err != nil {
		return nil, wrap("get project", "projects", err)
	}
	return p, nil
}

// GetProjectByName retrieves a project by its exact name
func (db *DB) GetProjectByName(ctx context.Context, name string) (*models.Project, error) {
	p := &models.Project{}
	err := db.withTx(ctx, func(tx *sqlx.Tx) error {
		return getProject(ctx, tx, p, sq.Eq{"name": name})
	})
	if err != nil {
		return nil, wrap("get project by name", "projects", err)
	}
	return p, nil
}

// ListProjects returns all projects in creation order
func (db *DB) ListProjects(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	err := db.withTx(ctx, func(tx *sqlx.Tx) error {
		return selectInto(ctx, tx, &projects, selectProjects().OrderBy("id ASC"))
	})
	if err != nil {
		return nil, wrap("list projects", "projects", err)
	}
	return projects, nil
}

// SetProjectStatus updates a project's lifecycle status
func (db *DB) SetProjectStatus(ctx context.Context, id int64, status models.ProjectStatus) error {
	return db.updateProject(ctx, "set project status", id, "status", status)
}

// SetProjectTheme sets the display theme; an empty theme clears it
func (db *DB) SetProjectTheme(ctx context.Context, id int64, theme string) error {
	var value *string
	if theme != "" {
		value = &theme
	}
	return db.updateProject(ctx, "set project theme", id, "theme", value)
}

func (db *DB) updateProject(ctx context.Context, op string, id int64, column string, value any) error {
	err := db.withTx(ctx, func(tx *sqlx.Tx) error {
		query, args, err := sq.Update("projects").Set(column, value).Where(sq.Eq{"id": id}).ToSql()
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
			return fmt.Errorf("%w: project %d", ErrNotFound, id)
		}
		return nil
	})
	return wrap(op, "projects", err)
}

// DeleteProject deletes a project with all its phases, epics, tasks,
// subtasks and daily logs. Children go first, all in one transaction.
func (db *DB) DeleteProject(ctx context.Context, id int64) error {
	err := db.withTx(ctx, func(tx *sqlx.Tx) error {
		ok, err := exists(ctx, tx, "projects", id)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: project %d", ErrNotFound, id)
		}

		phaseIDs := sq.Select("id").From("phases").Where(sq.Eq{"project_id": id})
		epicIDs := sq.Select("id").From("epics").Where(sq.Expr("phase_id IN (?)", phaseIDs))
		taskIDs := sq.Select("id").From("tasks").Where(sq.Expr("epic_id IN (?)", epicIDs))

		steps := []sq.DeleteBuilder{
			sq.Delete("subtasks").Where(sq.Expr("task_id IN (?)", taskIDs)),
			sq.Delete("tasks").Where(sq.Expr("epic_id IN (?)", epicIDs)),
			sq.Delete("epics").Where(sq.Expr("phase_id IN (?)", phaseIDs)),
			sq.Delete("phases").Where(sq.Eq{"project_id": id}),
			sq.Delete("daily_logs").Where(sq.Eq{"project_id": id}),
			sq.Delete("projects").Where(sq.Eq{"id": id}),
		}
		for _, step := range steps {
			query, args, err := step.ToSql()
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return wrap("delete project", "projects", err)
	}

	db.logger.Info("project deleted", "id", id)
	return nil
}
