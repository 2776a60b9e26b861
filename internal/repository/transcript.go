package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/atinyakov/AIWorkspace/internal/models"
	"github.com/atinyakov/AIWorkspace/internal/supabase"
	"github.com/google/uuid"
)

const (
	transcriptTable = "transcripts"
	// summaryProjection omits the raw transcript text.
	summaryProjection = "id,meeting_name,summary,tasks,pending_tasks,created_at"
)

// RestTranscriptRepository stores meeting transcripts through PostgREST.
type RestTranscriptRepository struct {
	client *supabase.Client
}

// NewRestTranscriptRepository creates a RestTranscriptRepository on client.
func NewRestTranscriptRepository(client *supabase.Client) *RestTranscriptRepository {
	return &RestTranscriptRepository{client: client}
}

// Create inserts t and returns the written rows.
func (r *RestTranscriptRepository) Create(ctx context.Context, t *models.Transcript) ([]models.Transcript, error) {
	rows := []models.Transcript{}
	if err := r.client.From(transcriptTable).Insert(ctx, t, &rows); err != nil {
		return nil, fmt.Errorf("insert transcript: %w", err)
	}
	return rows, nil
}

// List returns every transcript with all fields, newest first.
func (r *RestTranscriptRepository) List(ctx context.Context) ([]models.Transcript, error) {
	rows := []models.Transcript{}
	if err := r.client.From(transcriptTable).Select("*").Order("created_at", true).Get(ctx, &rows); err != nil {
		return nil, fmt.Errorf("list transcripts: %w", err)
	}
	return rows, nil
}

// RecentSummaries returns at most limit summaries, newest first.
func (r *RestTranscriptRepository) RecentSummaries(ctx context.Context, limit int) ([]models.TranscriptSummary, error) {
	rows := []models.TranscriptSummary{}
	err := r.client.From(transcriptTable).
		Select(summaryProjection).
		Order("created_at", true).
		Limit(limit).
		Get(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("list summaries: %w", err)
	}
	return rows, nil
}

// PostgresTranscriptRepository stores meeting transcripts in PostgreSQL.
type PostgresTranscriptRepository struct {
	DB *sql.DB
}

// NewPostgresTranscriptRepository creates a PostgresTranscriptRepository on db.
func NewPostgresTranscriptRepository(db *sql.DB) *PostgresTranscriptRepository {
	return &PostgresTranscriptRepository{DB: db}
}

const (
	transcriptColumns = `id, meeting_name, transcript, summary, tasks, pending_tasks, created_at`
	summaryColumns    = `id, meeting_name, summary, tasks, pending_tasks, created_at`
)

// Create inserts t and returns the written row.
func (r *PostgresTranscriptRepository) Create(ctx context.Context, t *models.Transcript) ([]models.Transcript, error) {
	id := t.ID
	if id == "" {
		id = models.ID(uuid.NewString())
	}

	var stored models.Transcript
	err := r.DB.QueryRowContext(
		ctx,
		`INSERT INTO transcripts (`+transcriptColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+transcriptColumns,
		id, t.MeetingName, t.Transcript, t.Summary, t.Tasks, t.PendingTasks, t.CreatedAt,
	).Scan(&stored.ID, &stored.MeetingName, &stored.Transcript, &stored.Summary, &stored.Tasks, &stored.PendingTasks, &stored.CreatedAt)
	if err != nil {
		return nil, upstreamError("insert transcript", err)
	}
	return []models.Transcript{stored}, nil
}

// List returns every transcript with all fields, newest first.
func (r *PostgresTranscriptRepository) List(ctx context.Context) ([]models.Transcript, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+transcriptColumns+` FROM transcripts ORDER BY created_at DESC`)
	if err != nil {
		return nil, upstreamError("list transcripts", err)
	}
	defer rows.Close()

	out := []models.Transcript{}
	for rows.Next() {
		var t models.Transcript
		if err := rows.Scan(&t.ID, &t.MeetingName, &t.Transcript, &t.Summary, &t.Tasks, &t.PendingTasks, &t.CreatedAt); err != nil {
			return nil, upstreamError("scan transcript", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, upstreamError("list transcripts", err)
	}
	return out, nil
}

// RecentSummaries returns at most limit summaries, newest first.
func (r *PostgresTranscriptRepository) RecentSummaries(ctx context.Context, limit int) ([]models.TranscriptSummary, error) {
	rows, err := r.DB.QueryContext(
		ctx,
		`SELECT `+summaryColumns+` FROM transcripts ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, upstreamError("list summaries", err)
	}
	defer rows.Close()

	out := []models.TranscriptSummary{}
	for rows.Next() {
		var s models.TranscriptSummary
		if err := rows.Scan(&s.ID, &s.MeetingName, &s.Summary, &s.Tasks, &s.PendingTasks, &s.CreatedAt); err != nil {
			return nil, upstreamError("scan summary", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, upstreamError("list summaries", err)
	}
	return out, nil
}
