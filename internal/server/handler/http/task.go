package http

import (
	"context"
	"net/http"

	"github.com/atinyakov/AIWorkspace/internal/models"
	"github.com/go-chi/chi/v5"
)

// TaskService defines the task operations required by TaskHandler.
type TaskService interface {
	// Create stores t and returns the inserted rows.
	Create(ctx context.Context, t models.Task) ([]models.Task, error)
	// List returns all tasks, newest first.
	List(ctx context.Context) ([]models.Task, error)
	// Update applies the non-nil fields of u to the task with id and
	// returns the updated rows. An unknown id yields an empty slice.
	Update(ctx context.Context, id string, u models.TaskUpdate) ([]models.Task, error)
}

// TaskHandler handles the /tasks endpoints.
type TaskHandler struct {
	TaskService TaskService
}

// TaskRequest is the JSON payload of POST /tasks.
type TaskRequest struct {
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	AssignedTo  *string `json:"assigned_to"`
	DueDate     *string `json:"due_date"`
}

// TaskUpdateRequest is the JSON payload of PUT /tasks/{id}. Absent and
// null fields are left untouched.
type TaskUpdateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	AssignedTo  *string `json:"assigned_to"`
	DueDate     *string `json:"due_date"`
}

// Create handles POST /tasks.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req TaskRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	tasks, err := h.TaskService.Create(r.Context(), models.Task{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		AssignedTo:  req.AssignedTo,
		DueDate:     req.DueDate,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, "data", tasks)
}

// List handles GET /tasks.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.TaskService.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, "data", tasks)
}

// Update handles PUT /tasks/{id}.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req TaskUpdateRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	tasks, err := h.TaskService.Update(r.Context(), chi.URLParam(r, "id"), models.TaskUpdate{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		AssignedTo:  req.AssignedTo,
		DueDate:     req.DueDate,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, "data", tasks)
}
