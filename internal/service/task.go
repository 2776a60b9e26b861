package service

import (
	"context"
	"fmt"
	"time"

	"github.com/atinyakov/AIWorkspace/internal/common"
	"github.com/atinyakov/AIWorkspace/internal/models"
)

// TaskRepository defines the persistence operations needed by TaskService.
type TaskRepository interface {
	// Create inserts t and returns the stored rows.
	Create(ctx context.Context, t *models.Task) ([]models.Task, error)
	// List returns every task ordered by creation time, newest first.
	List(ctx context.Context) ([]models.Task, error)
	// Update writes the set fields of u to the task with id.
	Update(ctx context.Context, id string, u models.TaskUpdate) ([]models.Task, error)
}

// TaskService is the task gateway.
type TaskService struct {
	repo TaskRepository
	now  func() time.Time
}

// NewTaskService constructs a TaskService with the provided TaskRepository.
func NewTaskService(repo TaskRepository) *TaskService {
	return &TaskService{repo: repo, now: time.Now}
}

// Create stores t with a server-assigned creation time. An empty status
// becomes models.DefaultTaskStatus.
func (s *TaskService) Create(ctx context.Context, t models.Task) ([]models.Task, error) {
	if t.Title == "" {
		return nil, fmt.Errorf("%w: title is required", common.ErrValidation)
	}
	if t.Status == "" {
		t.Status = models.DefaultTaskStatus
	}
	t.ID = ""
	t.CreatedAt = models.NewTimestamp(s.now())

	return s.repo.Create(ctx, &t)
}

// List returns all tasks, newest first.
func (s *TaskService) List(ctx context.Context) ([]models.Task, error) {
	return s.repo.List(ctx)
}

// Update applies the non-nil fields of u to the task with id. An update
// with nothing to write, or for an unknown id, returns an empty slice.
func (s *TaskService) Update(ctx context.Context, id string, u models.TaskUpdate) ([]models.Task, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: task id is required", common.ErrValidation)
	}
	if u.IsEmpty() {
		return []models.Task{}, nil
	}
	return s.repo.Update(ctx, id, u)
}
