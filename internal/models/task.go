package models

// DefaultTaskStatus is used when a task is created without a status.
const DefaultTaskStatus = "Pending"

// Task is a row of the tasks table.
type Task struct {
	ID ID `json:"id,omitempty"`
	// AssignedTo is the assignee reference, stored in the user_id column.
	AssignedTo  *string   `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	DueDate     *string   `json:"due_date"`
	CreatedAt   Timestamp `json:"created_at"`
}

// TaskUpdate is a partial task update. Nil fields are left untouched.
type TaskUpdate struct {
	Title       *string
	Description *string
	Status      *string
	AssignedTo  *string
	DueDate     *string
}

// Columns returns the column/value pairs of the non-nil fields.
func (u TaskUpdate) Columns() map[string]any {
	cols := make(map[string]any, 5)
	if u.Title != nil {
		cols["title"] = *u.Title
	}
	if u.Description != nil {
		cols["description"] = *u.Description
	}
	if u.Status != nil {
		cols["status"] = *u.Status
	}
	if u.AssignedTo != nil {
		cols["user_id"] = *u.AssignedTo
	}
	if u.DueDate != nil {
		cols["due_date"] = *u.DueDate
	}
	return cols
}

// IsEmpty reports whether the update would write nothing.
func (u TaskUpdate) IsEmpty() bool {
	return len(u.Columns()) == 0
}
