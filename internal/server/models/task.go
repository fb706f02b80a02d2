package models

import (
	"strings"
	"time"

	"github.com/dmitrijs2005/tasktracker/internal/common"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

func (s Status) Valid() bool {
	return s == StatusPending || s == StatusCompleted
}

// MaxTitleLength bounds task titles, counted in runes.
const MaxTitleLength = 200

// Task is owned by exactly one user. UserID is set at creation and never
// rewritten by any update path.
type Task struct {
	ID          string
	UserID      string
	Title       string
	Description string
	DueDate     *time.Time
	Priority    Priority
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TaskPatch carries the user-editable fields of a task. Nil means
// "leave unchanged"; ClearDueDate removes the due date.
type TaskPatch struct {
	Title        *string
	Description  *string
	DueDate      *time.Time
	ClearDueDate bool
	Priority     *Priority
	Status       *Status
}

// Apply copies the set fields of p onto t.
func (p TaskPatch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.ClearDueDate {
		t.DueDate = nil
	} else if p.DueDate != nil {
		d := *p.DueDate
		t.DueDate = &d
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
}

// Validate checks the fields a task must satisfy before it is stored.
func (t *Task) Validate() error {
	title := strings.TrimSpace(t.Title)
	if title == "" {
		return common.NewValidationError("title", "is required")
	}
	if len([]rune(title)) > MaxTitleLength {
		return common.NewValidationError("title", "is too long")
	}
	if !t.Priority.Valid() {
		return common.NewValidationError("priority", "must be one of low, medium, high")
	}
	if !t.Status.Valid() {
		return common.NewValidationError("status", "must be one of pending, completed")
	}
	return nil
}
