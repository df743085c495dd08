package db

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/tgienger/planner/internal/models"
)

const dailyLogColumns = "id, project_id, log_date, activities_us, activities_india, blockers_us, " +
	"blockers_india, decisions, next_steps_us, next_steps_india, created_at"

// AddDailyLog records a daily status entry for a project. A nil LogDate
// means today. CreatedAt always comes from the clock.
func (db *DB) AddDailyLog(ctx context.Context, projectID int64, in models.NewDailyLog) (*models.DailyLog, error) {
	logDate := db.today()
	if in.LogDate != nil {
		logDate = *in.LogDate
	}

	l := &models.DailyLog{}
	err := db.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := requireParent(ctx, tx, "projects", projectID); err != nil {
			return err
		}
		result, err := tx.ExecContext(ctx, `
			INSERT INTO daily_logs (project_id, log_date, activities_us, activities_india,
				blockers_us, blockers_india, decisions, next_steps_us, next_steps_india, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, projectID, logDate, in.ActivitiesUS, in.ActivitiesIndia, in.BlockersUS, in.BlockersIndia,
			in.Decisions, in.NextStepsUS, in.NextStepsIndia, db.now())
		if err != nil {
			return err
		}
		id, err := result.LastInsertId()
		if err != nil {
			return err
		}
		return getInto(ctx, tx, l, sq.Select(dailyLogColumns).From("daily_logs").Where(sq.Eq{"id": id}))
	})
	if err != nil {
		return nil, wrap("add daily log", "daily_logs", err)
	}

	db.logger.Debug("daily log added", "id", l.ID, "project_id", projectID, "log_date", l.LogDate)
	return l, nil
}

// ListDailyLogsForProject returns a project's logs, newest log date first.
// Logs sharing a date come back most recently inserted first.
func (db *DB) ListDailyLogsForProject(ctx context.Context, projectID int64) ([]models.DailyLog, error) {
	var logs []models.DailyLog
	err := db.withTx(ctx, func(tx *sqlx.Tx) error {
		return selectInto(ctx, tx, &logs, sq.Select(dailyLogColumns).From("daily_logs").
			Where(sq.Eq{"project_id": projectID}).
			OrderBy("log_date DESC", "id DESC"))
	})
	if err != nil {
		return nil, wrap("list daily logs", "daily_logs", err)
	}
	return logs, nil
}
