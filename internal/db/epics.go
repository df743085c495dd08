package db

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/tgienger/planner/internal/models"
)

const epicColumns = "id, phase_id, name, description, status"

// AddEpic adds an epic to a phase. An empty status means Planned.
func (db *DB) AddEpic(ctx context.Context, phaseID int64, name, description string, status models.EpicStatus) (*models.Epic, error) {
	if status == "" {
		status = models.ProjectPlanned
	}

	e := &models.Epic{}
	err := db.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := requireParent(ctx, tx, "phases", phaseID); err != nil {
			return err
		}
		result, err := tx.ExecContext(ctx, `
			INSERT INTO epics (phase_id, name, description, status) VALUES (?, ?, ?, ?)
		`, phaseID, name, description, status)
		if err != nil {
			return err
		}
		id, err := result.LastInsertId()
		if err != nil {
			return err
		}
		return getInto(ctx, tx, e, sq.Select(epicColumns).From("epics").Where(sq.Eq{"id": id}))
	})
	if err != nil {
		return nil, wrap("add epic", "epics", err)
	}

	db.logger.Debug("epic added", "id", e.ID, "phase_id", phaseID)
	return e, nil
}

// ListEpics returns a phase's epics in insertion order
func (db *DB) ListEpics(ctx context.Context, phaseID int64) ([]models.Epic, error) {
	var epics []models.Epic
	err := db.withTx(ctx, func(tx *sqlx.Tx) error {
		return selectInto(ctx, tx, &epics, sq.Select(epicColumns).From("epics").
			Where(sq.Eq{"phase_id": phaseID}).
			OrderBy("id ASC"))
	})
	if err != nil {
		return nil, wrap("list epics", "epics", err)
	}
	return epics, nil
}
