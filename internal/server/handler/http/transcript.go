package http

import (
	"context"
	"net/http"

	"github.com/atinyakov/AIWorkspace/internal/models"
)

// TranscriptService defines the transcript operations required by
// TranscriptHandler.
type TranscriptService interface {
	// Create stores t and returns the inserted rows.
	Create(ctx context.Context, t models.Transcript) ([]models.Transcript, error)
	// List returns all transcripts, newest first.
	List(ctx context.Context) ([]models.Transcript, error)
	// RecentSummaries returns the summary projection of at most limit
	// transcripts, newest first.
	RecentSummaries(ctx context.Context, limit int) ([]models.TranscriptSummary, error)
}

// TranscriptHandler handles the meeting transcript endpoints.
type TranscriptHandler struct {
	TranscriptService TranscriptService
}

// TranscriptRequest is the JSON payload of POST /meeting-transcript.
type TranscriptRequest struct {
	MeetingName  string `json:"meeting_name" validate:"required"`
	Transcript   string `json:"transcript" validate:"required"`
	Summary      string `json:"summary"`
	Tasks        string `json:"tasks"`
	PendingTasks string `json:"pending_tasks"`
}

// Create handles POST /meeting-transcript.
func (h *TranscriptHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req TranscriptRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	rows, err := h.TranscriptService.Create(r.Context(), models.Transcript{
		MeetingName:  req.MeetingName,
		Transcript:   req.Transcript,
		Summary:      req.Summary,
		Tasks:        req.Tasks,
		PendingTasks: req.PendingTasks,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, "data", rows)
}

// List handles GET /meeting-transcript.
func (h *TranscriptHandler) List(w http.ResponseWriter, r *http.Request) {
	rows, err := h.TranscriptService.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, "data", rows)
}

// Summaries handles GET /meeting-summary and returns at most
// models.DefaultSummaryLimit summaries.
func (h *TranscriptHandler) Summaries(w http.ResponseWriter, r *http.Request) {
	rows, err := h.TranscriptService.RecentSummaries(r.Context(), models.DefaultSummaryLimit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, "data", rows)
}
