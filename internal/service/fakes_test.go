package service

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"github.com/atinyakov/AIWorkspace/internal/common"
	"github.com/atinyakov/AIWorkspace/internal/models"
)

// memAccounts is an in-memory AccountRepository keyed by email.
type memAccounts struct {
	mu       sync.Mutex
	byEmail  map[string]models.Account
	updates  int
	updateFn func(email, hash string) error
}

func newMemAccounts() *memAccounts {
	return &memAccounts{byEmail: map[string]models.Account{}}
}

func (m *memAccounts) ExistsByEmail(_ context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.byEmail[email]
	return ok, nil
}

func (m *memAccounts) FindByEmail(_ context.Context, email string) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.byEmail[email]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &acc, nil
}

func (m *memAccounts) Create(_ context.Context, acc *models.Account) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *acc
	stored.ID = models.ID(strconv.Itoa(len(m.byEmail) + 1))
	m.byEmail[acc.Email] = stored
	return &stored, nil
}

func (m *memAccounts) UpdatePassword(_ context.Context, email, hash string) error {
	if m.updateFn != nil {
		if err := m.updateFn(email, hash); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.byEmail[email]
	if !ok {
		return common.ErrNotFound
	}
	acc.Password = hash
	m.byEmail[email] = acc
	m.updates++
	return nil
}

func (m *memAccounts) stored(email string) models.Account {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.byEmail[email]
}

// mockIdentities implements IdentityRepository with a func field.
type mockIdentities struct {
	CreateIdentityFunc func(ctx context.Context, email, password string, metadata map[string]any) (string, error)
	calls              int
}

func (m *mockIdentities) CreateIdentity(ctx context.Context, email, password string, metadata map[string]any) (string, error) {
	m.calls++
	if m.CreateIdentityFunc == nil {
		return "auth-" + email, nil
	}
	return m.CreateIdentityFunc(ctx, email, password, metadata)
}

// memTasks is an in-memory TaskRepository.
type memTasks struct {
	tasks   []models.Task
	updates int
}

func (m *memTasks) Create(_ context.Context, t *models.Task) ([]models.Task, error) {
	stored := *t
	stored.ID = models.ID(strconv.Itoa(len(m.tasks) + 1))
	m.tasks = append(m.tasks, stored)
	return []models.Task{stored}, nil
}

func (m *memTasks) List(_ context.Context) ([]models.Task, error) {
	out := append([]models.Task(nil), m.tasks...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt.Time) })
	return out, nil
}

func (m *memTasks) Update(_ context.Context, id string, u models.TaskUpdate) ([]models.Task, error) {
	m.updates++
	for i := range m.tasks {
		if string(m.tasks[i].ID) != id {
			continue
		}
		t := &m.tasks[i]
		if u.Title != nil {
			t.Title = *u.Title
		}
		if u.Description != nil {
			t.Description = *u.Description
		}
		if u.Status != nil {
			t.Status = *u.Status
		}
		if u.AssignedTo != nil {
			t.AssignedTo = u.AssignedTo
		}
		if u.DueDate != nil {
			t.DueDate = u.DueDate
		}
		return []models.Task{*t}, nil
	}
	return []models.Task{}, nil
}

// memTranscripts is an in-memory TranscriptRepository.
type memTranscripts struct {
	rows []models.Transcript
}

func (m *memTranscripts) Create(_ context.Context, t *models.Transcript) ([]models.Transcript, error) {
	stored := *t
	stored.ID = models.ID(strconv.Itoa(len(m.rows) + 1))
	m.rows = append(m.rows, stored)
	return []models.Transcript{stored}, nil
}

func (m *memTranscripts) sorted() []models.Transcript {
	out := append([]models.Transcript(nil), m.rows...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt.Time) })
	return out
}

func (m *memTranscripts) List(_ context.Context) ([]models.Transcript, error) {
	return m.sorted(), nil
}

func (m *memTranscripts) RecentSummaries(_ context.Context, limit int) ([]models.TranscriptSummary, error) {
	out := []models.TranscriptSummary{}
	for _, t := range m.sorted() {
		if len(out) == limit {
			break
		}
		out = append(out, models.TranscriptSummary{
			ID: t.ID, MeetingName: t.MeetingName, Summary: t.Summary,
			Tasks: t.Tasks, PendingTasks: t.PendingTasks, CreatedAt: t.CreatedAt,
		})
	}
	return out, nil
}
