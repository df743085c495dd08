package db

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/tgienger/planner/internal/models"
)

//go:embed schema.sql
var schema string

// DB wraps the database connection. Every exported operation runs in its
// own transaction and releases it before returning.
type DB struct {
	*sqlx.DB
	logger *slog.Logger
	now    func() time.Time
}

// Option configures a DB
type Option func(*DB)

// WithLogger sets the logger used for write operations
func WithLogger(l *slog.Logger) Option {
	return func(db *DB) {
		if l != nil {
			db.logger = l
		}
	}
}

// WithClock overrides the time source used for today's date and
// creation timestamps
func WithClock(now func() time.Time) Option {
	return func(db *DB) {
		if now != nil {
			db.now = now
		}
	}
}

// Open opens (creating if needed) the SQLite database at path and
// initializes the schema
func Open(path string, opts ...Option) (*DB, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}

	conn, err := sqlx.Open("sqlite3", path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One writer at a time; also keeps in-transaction reads on the same connection
	conn.SetMaxOpenConns(1)

	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return New(conn, opts...), nil
}

// New wraps an already open connection without touching the schema
func New(conn *sqlx.DB, opts ...Option) *DB {
	db := &DB{
		DB:     conn,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(db)
	}
	return db
}

// today returns the current calendar date according to the clock
func (db *DB) today() models.Date {
	return models.DateOf(db.now())
}

// withTx runs fn inside a transaction, rolling back on error or panic
func (db *DB) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				err = fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
			}
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// selectInto builds q and scans every row into dest
func selectInto(ctx context.Context, tx *sqlx.Tx, dest any, q sq.SelectBuilder) error {
	query, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	return tx.SelectContext(ctx, dest, query, args...)
}

// getInto builds q and scans exactly one row into dest
func getInto(ctx context.Context, tx *sqlx.Tx, dest any, q sq.SelectBuilder) error {
	query, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	return tx.GetContext(ctx, dest, query, args...)
}

// exists reports whether table has a row with the given id
func exists(ctx context.Context, tx *sqlx.Tx, table string, id int64) (bool, error) {
	var n int
	err := getInto(ctx, tx, &n, sq.Select("COUNT(*)").From(table).Where(sq.Eq{"id": id}))
	return n > 0, err
}

// GetSetting retrieves a setting value by key
func (db *DB) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := db.QueryRowContext(ctx, "SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", wrap("get setting", "settings", err)
	}
	return value, nil
}

// SetSetting sets a setting value
func (db *DB) SetSetting(ctx context.Context, key, value string) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return wrap("set setting", "settings", err)
}
