package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/atinyakov/AIWorkspace/internal/common"
	"github.com/atinyakov/AIWorkspace/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranscriptService_RecentSummaries(t *testing.T) {
	repo := &memTranscripts{}
	svc := NewTranscriptService(repo)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	svc.now = func() time.Time { tick++; return base.Add(time.Duration(tick) * time.Hour) }
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		_, err := svc.Create(ctx, models.Transcript{MeetingName: fmt.Sprintf("m%d", i), Transcript: "text"})
		require.NoError(t, err)
	}

	for _, limit := range []int{0, 10, 3} {
		summaries, err := svc.RecentSummaries(ctx, limit)
		require.NoError(t, err)

		want := limit
		if limit <= 0 {
			want = models.DefaultSummaryLimit
		}
		assert.Len(t, summaries, want)
		assert.Equal(t, "m14", summaries[0].MeetingName)
		for i := 1; i < len(summaries); i++ {
			assert.False(t, summaries[i].CreatedAt.After(summaries[i-1].CreatedAt.Time), "summaries must be newest first")
		}
	}

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 15)
	assert.Equal(t, "text", all[0].Transcript)
}

func TestTranscriptService_CreateDefaults(t *testing.T) {
	svc := NewTranscriptService(&memTranscripts{})

	created, err := svc.Create(context.Background(), models.Transcript{MeetingName: "Standup", Transcript: "hello"})
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, "", created[0].Summary)
	assert.Equal(t, "", created[0].PendingTasks)
	assert.False(t, created[0].CreatedAt.IsZero())

	_, err = svc.Create(context.Background(), models.Transcript{MeetingName: "Standup"})
	assert.ErrorIs(t, err, common.ErrValidation)
}
