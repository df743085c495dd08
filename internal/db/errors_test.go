package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgienger/planner/internal/models"
)

func newMockDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return New(sqlx.NewDb(conn, "sqlite3")), mock
}

func TestWrap(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"no rows", sql.ErrNoRows, ErrNotFound},
		{"unique", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique}, ErrDuplicateName},
		{"foreign key", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintForeignKey}, ErrParentNotFound},
		{"io", sqlite3.Error{Code: sqlite3.ErrIoErr}, ErrStorage},
		{"other", errors.New("connection reset"), ErrStorage},
		{"sentinel passthrough", fmt.Errorf("%w: project 3", ErrParentNotFound), ErrParentNotFound},
		{"date range", fmt.Errorf("%w: 2025-01-01 is before 2025-02-01", ErrInvalidDates), ErrInvalidDates},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := wrap("op", "table", tt.err)
			assert.ErrorIs(t, err, tt.want)

			var dbErr *Error
			require.ErrorAs(t, err, &dbErr)
			assert.Equal(t, "op", dbErr.Op)
			assert.Equal(t, "table", dbErr.Table)
		})
	}

	assert.NoError(t, wrap("op", "table", nil))

	// Already classified errors are not double wrapped
	once := wrap("inner", "tasks", sql.ErrNoRows)
	assert.Same(t, once, wrap("outer", "projects", once))
}

func TestStorageFailure_BeginFails(t *testing.T) {
	database, mock := newMockDB(t)
	mock.ExpectBegin().WillReturnError(errors.New("disk I/O error"))

	_, err := database.ListProjects(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStorage)
	assert.Contains(t, err.Error(), "list projects")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStorageFailure_RollsBackOnInsertError(t *testing.T) {
	database, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM projects WHERE name = \?`).
		WithArgs("Atlas").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(`INSERT INTO projects`).
		WillReturnError(sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique})
	mock.ExpectRollback()

	_, err := database.CreateProject(context.Background(), "Atlas",
		models.NewDate(2025, 1, 6), models.NewDate(2025, 7, 31))
	assert.ErrorIs(t, err, ErrDuplicateName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStorageFailure_CommitFails(t *testing.T) {
	database, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE projects SET status = \? WHERE id = \?`).
		WithArgs(models.ProjectCompleted, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit().WillReturnError(errors.New("database is locked"))

	err := database.SetProjectStatus(context.Background(), 1, models.ProjectCompleted)
	assert.ErrorIs(t, err, ErrStorage)
	require.NoError(t, mock.ExpectationsWereMet())
}
