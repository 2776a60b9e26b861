package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/atinyakov/AIWorkspace/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTranscriptService implements TranscriptService for testing.
type fakeTranscriptService struct {
	created   models.Transcript
	rows      []models.Transcript
	summaries []models.TranscriptSummary
	gotLimit  int
	err       error
}

func (f *fakeTranscriptService) Create(_ context.Context, t models.Transcript) ([]models.Transcript, error) {
	f.created = t
	if f.err != nil {
		return nil, f.err
	}
	t.ID = "1"
	return []models.Transcript{t}, nil
}

func (f *fakeTranscriptService) List(context.Context) ([]models.Transcript, error) {
	return f.rows, f.err
}

func (f *fakeTranscriptService) RecentSummaries(_ context.Context, limit int) ([]models.TranscriptSummary, error) {
	f.gotLimit = limit
	return f.summaries, f.err
}

func TestTranscriptHandler_Create(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		err          error
		expectedCode int
	}{
		{"valid", `{"meeting_name":"Standup","transcript":"hi","summary":"s"}`, nil, http.StatusOK},
		{"missing transcript", `{"meeting_name":"Standup"}`, nil, http.StatusBadRequest},
		{"missing meeting name", `{"transcript":"hi"}`, nil, http.StatusBadRequest},
		{"store failure", `{"meeting_name":"Standup","transcript":"hi"}`, errors.New("insert failed"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeTranscriptService{err: tt.err}
			h := newTestRouter(nil, nil, svc)

			rec, env := doRequest(t, h, http.MethodPost, "/meeting-transcript", tt.body)
			assert.Equal(t, tt.expectedCode, rec.Code)
			if tt.expectedCode == http.StatusOK {
				assert.Equal(t, "Standup", svc.created.MeetingName)
				assert.Equal(t, "s", svc.created.Summary)
				assert.Equal(t, "", svc.created.PendingTasks)
				assert.Contains(t, string(env.Data), `"meeting_name":"Standup"`)
			}
		})
	}
}

func TestTranscriptHandler_List(t *testing.T) {
	svc := &fakeTranscriptService{rows: []models.Transcript{{ID: "1", MeetingName: "M", Transcript: "full text"}}}
	h := newTestRouter(nil, nil, svc)

	rec, env := doRequest(t, h, http.MethodGet, "/meeting-transcript", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), `"transcript":"full text"`)
}

func TestTranscriptHandler_Summaries(t *testing.T) {
	svc := &fakeTranscriptService{summaries: []models.TranscriptSummary{{ID: "3", MeetingName: "M", Summary: "s"}}}
	h := newTestRouter(nil, nil, svc)

	rec, env := doRequest(t, h, http.MethodGet, "/meeting-summary", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.DefaultSummaryLimit, svc.gotLimit)

	var rows []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &rows))
	require.Len(t, rows, 1)
	assert.NotContains(t, rows[0], "transcript")
	assert.Equal(t, "s", rows[0]["summary"])
}
