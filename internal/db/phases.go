package db

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/tgienger/planner/internal/models"
)

const phaseColumns = "id, project_id, name, description, start_date, end_date"

// AddPhase adds a phase to a project
func (db *DB) AddPhase(ctx context.Context, projectID int64, name, description string, start, end *models.Date) (*models.Phase, error) {
	p := &models.Phase{}
	err := db.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := requireParent(ctx, tx, "projects", projectID); err != nil {
			return err
		}
		result, err := tx.ExecContext(ctx, `
			INSERT INTO phases (project_id, name, description, start_date, end_date)
			VALUES (?, ?, ?, ?, ?)
		`, projectID, name, description, start, end)
		if err != nil {
			return err
		}
		id, err := result.LastInsertId()
		if err != nil {
			return err
		}
		return getInto(ctx, tx, p, sq.Select(phaseColumns).From("phases").Where(sq.Eq{"id": id}))
	})
	if err != nil {
		return nil, wrap("add phase", "phases", err)
	}

	db.logger.Debug("phase added", "id", p.ID, "project_id", projectID)
	return p, nil
}

// ListPhases returns a project's phases in insertion order
func (db *DB) ListPhases(ctx context.Context, projectID int64) ([]models.Phase, error) {
	var phases []models.Phase
	err := db.withTx(ctx, func(tx *sqlx.Tx) error {
		return selectInto(ctx, tx, &phases, sq.Select(phaseColumns).From("phases").
			Where(sq.Eq{"project_id": projectID}).
			OrderBy("id ASC"))
	})
	if err != nil {
		return nil, wrap("list phases", "phases", err)
	}
	return phases, nil
}

// requireParent fails with ErrParentNotFound unless table holds id
func requireParent(ctx context.Context, tx *sqlx.Tx, table string, id int64) error {
	ok, err := exists(ctx, tx, table, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s id %d", ErrParentNotFound, table, id)
	}
	return nil
}
