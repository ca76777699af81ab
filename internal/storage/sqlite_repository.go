package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"cadence/internal/model"
)

// Instants and repeat rules persist in their canonical wire text, so every
// row that loads went through the same codecs the editor validates with.

type SQLiteRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		return nil, fmt.Errorf("enable wal: %w", err)
	}
	return &SQLiteRepository{db: db, now: time.Now}, nil
}

func OpenSQLite(path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	repo, err := NewSQLiteRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) DB() *sql.DB {
	return r.db
}

func (r *SQLiteRepository) CreateTask(ctx context.Context, in model.Task) error {
	if in.ID == "" {
		return errors.New("storage: task id is required")
	}
	if err := in.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tasks (id, name, scheduled_at, repeat, lifecycle, start_time, end_time, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		in.ID, in.Name, nullInstant(in.ScheduledDate), model.FormatRepeat(in.Repeat), string(in.Lifecycle),
		nullInstant(in.StartTime), nullInstant(in.EndTime), model.FormatInstant(r.now()),
	)
	return err
}

func (r *SQLiteRepository) GetTask(ctx context.Context, id string) (model.Task, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, scheduled_at, repeat, lifecycle, start_time, end_time
		FROM tasks WHERE id = ?`, id)
	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Task{}, ErrNotFound
		}
		return model.Task{}, err
	}
	return task, nil
}

func (r *SQLiteRepository) UpdateTask(ctx context.Context, in model.Task) error {
	if err := in.Validate(); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE tasks
		SET name = ?, scheduled_at = ?, repeat = ?, lifecycle = ?, start_time = ?, end_time = ?
		WHERE id = ?`,
		in.Name, nullInstant(in.ScheduledDate), model.FormatRepeat(in.Repeat), string(in.Lifecycle),
		nullInstant(in.StartTime), nullInstant(in.EndTime), in.ID,
	)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) DeleteTask(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) ListTasks(ctx context.Context, filter TaskListFilter) ([]model.Task, error) {
	query := `SELECT id, name, scheduled_at, repeat, lifecycle, start_time, end_time FROM tasks`
	args := make([]any, 0, 3)
	if filter.Lifecycle != "" {
		query += ` WHERE lifecycle = ?`
		args = append(args, string(filter.Lifecycle))
	}
	// Scheduled tasks first in calendar order, then the unscheduled backlog.
	query += ` ORDER BY scheduled_at IS NULL, scheduled_at ASC, created_at ASC, id ASC`
	query += applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Task, 0)
	for rows.Next() {
		task, scanErr := scanTask(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, task)
	}
	return out, rows.Err()
}

func applyPagination(args *[]any, limit, offset int) string {
	clause := ""
	if limit > 0 {
		clause += ` LIMIT ?`
		*args = append(*args, limit)
		if offset > 0 {
			clause += ` OFFSET ?`
			*args = append(*args, offset)
		}
	}
	return clause
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (model.Task, error) {
	var out model.Task
	var scheduled, start, end sql.NullString
	var repeat, lifecycle string
	if err := s.Scan(&out.ID, &out.Name, &scheduled, &repeat, &lifecycle, &start, &end); err != nil {
		return model.Task{}, err
	}
	rule, err := model.ParseRepeat(repeat)
	if err != nil {
		return model.Task{}, fmt.Errorf("storage: task %s: %w", out.ID, err)
	}
	out.Repeat = rule
	out.Lifecycle = model.Lifecycle(lifecycle)
	if out.ScheduledDate, err = nullableInstant(scheduled); err != nil {
		return model.Task{}, fmt.Errorf("storage: task %s scheduled_at: %w", out.ID, err)
	}
	if out.StartTime, err = nullableInstant(start); err != nil {
		return model.Task{}, fmt.Errorf("storage: task %s start_time: %w", out.ID, err)
	}
	if out.EndTime, err = nullableInstant(end); err != nil {
		return model.Task{}, fmt.Errorf("storage: task %s end_time: %w", out.ID, err)
	}
	return out, nil
}

func nullInstant(t *time.Time) any {
	if t == nil {
		return nil
	}
	return model.FormatInstant(*t)
}

func nullableInstant(v sql.NullString) (*time.Time, error) {
	if !v.Valid || v.String == "" {
		return nil, nil
	}
	t, err := model.ParseInstant(v.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func checkRowsAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
