package repository

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/atinyakov/AIWorkspace/internal/common"
	"github.com/atinyakov/AIWorkspace/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRestTranscriptRepository(t *testing.T) {
	repo := NewRestTranscriptRepository(newRestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/transcripts", r.URL.Path)
		q := r.URL.Query()
		switch {
		case r.Method == http.MethodPost:
			_, _ = w.Write([]byte(`[{"id":1,"meeting_name":"Standup","transcript":"hi","summary":"","tasks":"","pending_tasks":""}]`))
		case q.Get("select") == "*":
			assert.Equal(t, "created_at.desc.nullslast", q.Get("order"))
			assert.Empty(t, q.Get("limit"))
			_, _ = w.Write([]byte(`[{"id":1,"meeting_name":"Standup","transcript":"hi"}]`))
		case q.Get("select") == summaryProjection:
			assert.Equal(t, "created_at.desc.nullslast", q.Get("order"))
			assert.Equal(t, "10", q.Get("limit"))
			_, _ = w.Write([]byte(`[{"id":1,"meeting_name":"Standup","summary":"s"}]`))
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL)
		}
	}))
	ctx := context.Background()

	created, err := repo.Create(ctx, &models.Transcript{MeetingName: "Standup", Transcript: "hi"})
	require.NoError(t, err)
	require.Len(t, created, 1)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "hi", all[0].Transcript)

	summaries, err := repo.RecentSummaries(ctx, 10)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "s", summaries[0].Summary)
}

func TestPostgresTranscriptRepository(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewPostgresTranscriptRepository(db)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO transcripts`)).
		WithArgs(sqlmock.AnyArg(), "Standup", "hi", "", "", "", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "meeting_name", "transcript", "summary", "tasks", "pending_tasks", "created_at"}).
			AddRow("m-1", "Standup", "hi", "", "", "", now))

	created, err := repo.Create(ctx, &models.Transcript{MeetingName: "Standup", Transcript: "hi", CreatedAt: models.NewTimestamp(now)})
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, models.ID("m-1"), created[0].ID)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM transcripts ORDER BY created_at DESC`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "meeting_name", "transcript", "summary", "tasks", "pending_tasks", "created_at"}).
			AddRow("m-1", "Standup", "hi", "", "", "", now))

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM transcripts ORDER BY created_at DESC LIMIT $1`)).
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "meeting_name", "summary", "tasks", "pending_tasks", "created_at"}).
			AddRow("m-2", "Retro", "s2", "t", "p", now.Add(time.Hour)).
			AddRow("m-1", "Standup", "s1", "", "", now))

	summaries, err := repo.RecentSummaries(ctx, 10)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "Retro", summaries[0].MeetingName)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM transcripts`)).WillReturnError(errors.New("boom"))
	_, err = repo.RecentSummaries(ctx, 10)
	assert.ErrorIs(t, err, common.ErrUpstream)

	assert.NoError(t, mock.ExpectationsWereMet())
}
