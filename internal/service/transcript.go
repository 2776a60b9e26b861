package service

import (
	"context"
	"fmt"
	"time"

	"github.com/atinyakov/AIWorkspace/internal/common"
	"github.com/atinyakov/AIWorkspace/internal/models"
)

// TranscriptRepository defines the persistence operations needed by
// TranscriptService.
type TranscriptRepository interface {
	// Create inserts t and returns the stored rows.
	Create(ctx context.Context, t *models.Transcript) ([]models.Transcript, error)
	// List returns every transcript ordered by creation time, newest first.
	List(ctx context.Context) ([]models.Transcript, error)
	// RecentSummaries returns up to limit summary rows, newest first.
	RecentSummaries(ctx context.Context, limit int) ([]models.TranscriptSummary, error)
}

// TranscriptService is the meeting transcript gateway.
type TranscriptService struct {
	repo TranscriptRepository
	now  func() time.Time
}

// NewTranscriptService constructs a TranscriptService.
func NewTranscriptService(repo TranscriptRepository) *TranscriptService {
	return &TranscriptService{repo: repo, now: time.Now}
}

// Create stores t with a server-assigned creation time.
func (s *TranscriptService) Create(ctx context.Context, t models.Transcript) ([]models.Transcript, error) {
	if t.MeetingName == "" || t.Transcript == "" {
		return nil, fmt.Errorf("%w: meeting_name and transcript are required", common.ErrValidation)
	}
	t.ID = ""
	t.CreatedAt = models.NewTimestamp(s.now())

	return s.repo.Create(ctx, &t)
}

// List returns all transcripts with every field, newest first.
func (s *TranscriptService) List(ctx context.Context) ([]models.Transcript, error) {
	return s.repo.List(ctx)
}

// RecentSummaries returns at most limit summaries, newest first. A
// non-positive limit means models.DefaultSummaryLimit.
func (s *TranscriptService) RecentSummaries(ctx context.Context, limit int) ([]models.TranscriptSummary, error) {
	if limit <= 0 {
		limit = models.DefaultSummaryLimit
	}
	return s.repo.RecentSummaries(ctx, limit)
}
