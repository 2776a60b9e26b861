package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/atinyakov/AIWorkspace/internal/models"
	"github.com/atinyakov/AIWorkspace/internal/supabase"
	"github.com/google/uuid"
)

const (
	taskTable = "tasks"
	// taskProjection is the fixed field set returned by task listings.
	taskProjection = "id,user_id,title,description,status,due_date,created_at"
)

// RestTaskRepository stores tasks through PostgREST.
type RestTaskRepository struct {
	client *supabase.Client
}

// NewRestTaskRepository creates a RestTaskRepository on client.
func NewRestTaskRepository(client *supabase.Client) *RestTaskRepository {
	return &RestTaskRepository{client: client}
}

// Create inserts t and returns the written rows.
func (r *RestTaskRepository) Create(ctx context.Context, t *models.Task) ([]models.Task, error) {
	rows := []models.Task{}
	if err := r.client.From(taskTable).Insert(ctx, t, &rows); err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	return rows, nil
}

// List returns every task, newest first.
func (r *RestTaskRepository) List(ctx context.Context) ([]models.Task, error) {
	rows := []models.Task{}
	if err := r.client.From(taskTable).Select(taskProjection).Order("created_at", true).Get(ctx, &rows); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return rows, nil
}

// Update writes the non-nil fields of u to the task with id and returns the
// updated rows; an unknown id yields an empty slice.
func (r *RestTaskRepository) Update(ctx context.Context, id string, u models.TaskUpdate) ([]models.Task, error) {
	rows := []models.Task{}
	if err := r.client.From(taskTable).Eq("id", id).Update(ctx, u.Columns(), &rows); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return rows, nil
}

// PostgresTaskRepository stores tasks in PostgreSQL.
type PostgresTaskRepository struct {
	DB *sql.DB
}

// NewPostgresTaskRepository creates a PostgresTaskRepository on db.
func NewPostgresTaskRepository(db *sql.DB) *PostgresTaskRepository {
	return &PostgresTaskRepository{DB: db}
}

const taskColumns = `id, user_id, title, description, status, due_date, created_at`

// Create inserts t and returns the written row.
func (r *PostgresTaskRepository) Create(ctx context.Context, t *models.Task) ([]models.Task, error) {
	id := t.ID
	if id == "" {
		id = models.ID(uuid.NewString())
	}

	row := r.DB.QueryRowContext(
		ctx,
		`INSERT INTO tasks (`+taskColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+taskColumns,
		id, t.AssignedTo, t.Title, t.Description, t.Status, t.DueDate, t.CreatedAt,
	)
	stored, err := scanTask(row)
	if err != nil {
		return nil, upstreamError("insert task", err)
	}
	return []models.Task{stored}, nil
}

// List returns every task, newest first.
func (r *PostgresTaskRepository) List(ctx context.Context) ([]models.Task, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY created_at DESC`)
	if err != nil {
		return nil, upstreamError("list tasks", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, upstreamError("scan task", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, upstreamError("list tasks", err)
	}
	return tasks, nil
}

// Update writes the non-nil fields of u to the task with id and returns the
// updated rows; an unknown id yields an empty slice.
func (r *PostgresTaskRepository) Update(ctx context.Context, id string, u models.TaskUpdate) ([]models.Task, error) {
	cols := u.Columns()
	if len(cols) == 0 {
		return []models.Task{}, nil
	}

	names := make([]string, 0, len(cols))
	for name := range cols {
		names = append(names, name)
	}
	sort.Strings(names)

	sets := make([]string, 0, len(names))
	args := make([]any, 0, len(names)+1)
	for i, name := range names {
		sets = append(sets, fmt.Sprintf("%s = $%d", name, i+1))
		args = append(args, cols[name])
	}
	args = append(args, id)

	query := fmt.Sprintf(
		`UPDATE tasks SET %s WHERE id = $%d RETURNING `+taskColumns,
		strings.Join(sets, ", "), len(args),
	)
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, upstreamError("update task", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, upstreamError("scan task", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, upstreamError("update task", err)
	}
	return tasks, nil
}

func scanTask(s rowScanner) (models.Task, error) {
	var (
		t        models.Task
		assignee sql.NullString
		due      sql.NullString
	)
	if err := s.Scan(&t.ID, &assignee, &t.Title, &t.Description, &t.Status, &due, &t.CreatedAt); err != nil {
		return models.Task{}, err
	}
	t.AssignedTo = nullableString(assignee)
	t.DueDate = nullableString(due)
	return t, nil
}
