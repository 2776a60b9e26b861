package models

// DefaultSummaryLimit caps the recent summaries listing.
const DefaultSummaryLimit = 10

// Transcript is a row of the transcripts table.
type Transcript struct {
	ID           ID        `json:"id,omitempty"`
	MeetingName  string    `json:"meeting_name"`
	Transcript   string    `json:"transcript"`
	Summary      string    `json:"summary"`
	Tasks        string    `json:"tasks"`
	PendingTasks string    `json:"pending_tasks"`
	CreatedAt    Timestamp `json:"created_at"`
}

// TranscriptSummary is the summary projection of a transcript, without the
// raw transcript text.
type TranscriptSummary struct {
	ID           ID        `json:"id"`
	MeetingName  string    `json:"meeting_name"`
	Summary      string    `json:"summary"`
	Tasks        string    `json:"tasks"`
	PendingTasks string    `json:"pending_tasks"`
	CreatedAt    Timestamp `json:"created_at"`
}
