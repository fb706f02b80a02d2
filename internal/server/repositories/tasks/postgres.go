package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/tasktracker/internal/common"
	"github.com/dmitrijs2005/tasktracker/internal/dbx"
	"github.com/dmitrijs2005/tasktracker/internal/server/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgForeignKeyViolation is raised by tasks_user_id_fkey when the owner row
// is gone.
const pgForeignKeyViolation = "23503"

const taskColumns = `id, user_id, title, description, due_date, priority, status, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*models.Task, error) {
	var (
		t   models.Task
		due sql.NullTime
	)
	err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &due, &t.Priority, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if due.Valid {
		d := due.Time
		t.DueDate = &d
	}
	return &t, nil
}

func nullTime(t *models.Task) sql.NullTime {
	if t.DueDate == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t.DueDate, Valid: true}
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func (r *PostgresRepository) single(row *sql.Row) (*models.Task, error) {
	t, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return t, nil
}

// Create stores a new task. An owner that is not a UUID or no longer exists
// yields common.ErrInvalidToken: the caller's identity no longer names a user.
func (r *PostgresRepository) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	if !validID(task.UserID) {
		return nil, common.ErrInvalidToken
	}

	query :=
		`INSERT INTO tasks (user_id, title, description, due_date, priority, status)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING ` + taskColumns

	t, err := r.single(r.db.QueryRowContext(ctx, query,
		task.UserID, task.Title, task.Description, nullTime(task), task.Priority, task.Status))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return nil, common.ErrInvalidToken
		}
		return nil, err
	}
	return t, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Task, error) {
	if !validID(id) {
		return nil, common.ErrorNotFound
	}

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	return r.single(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.Task, error) {
	if !validID(userID) {
		return []*models.Task{}, nil
	}

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, task *models.Task) (*models.Task, error) {
	if !validID(task.ID) || !validID(task.UserID) {
		return nil, common.ErrorNotFound
	}

	query :=
		`UPDATE tasks
		 SET title = $3, description = $4, due_date = $5, priority = $6, status = $7, updated_at = now()
		 WHERE id = $1 AND user_id = $2
		 RETURNING ` + taskColumns

	return r.single(r.db.QueryRowContext(ctx, query,
		task.ID, task.UserID, task.Title, task.Description, nullTime(task), task.Priority, task.Status))
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id, userID string, status models.Status) (*models.Task, error) {
	if !validID(id) || !validID(userID) {
		return nil, common.ErrorNotFound
	}

	query :=
		`UPDATE tasks
		 SET status = $3, updated_at = now()
		 WHERE id = $1 AND user_id = $2
		 RETURNING ` + taskColumns

	return r.single(r.db.QueryRowContext(ctx, query, id, userID, status))
}

func (r *PostgresRepository) Delete(ctx context.Context, id, userID string) error {
	if !validID(id) || !validID(userID) {
		return common.ErrorNotFound
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
