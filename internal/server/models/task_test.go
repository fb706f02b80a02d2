package models

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/tasktracker/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTask() *Task {
	return &Task{Title: "HW", Priority: PriorityMedium, Status: StatusPending}
}

func TestTask_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Task)
		field  string
	}{
		{name: "ok", mutate: func(*Task) {}},
		{name: "blank title", mutate: func(t *Task) { t.Title = "   " }, field: "title"},
		{name: "long title", mutate: func(t *Task) { t.Title = strings.Repeat("x", MaxTitleLength+1) }, field: "title"},
		{name: "bad priority", mutate: func(t *Task) { t.Priority = "urgent" }, field: "priority"},
		{name: "bad status", mutate: func(t *Task) { t.Status = "done" }, field: "status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := validTask()
			tt.mutate(task)
			err := task.Validate()
			if tt.field == "" {
				require.NoError(t, err)
				return
			}
			require.True(t, errors.Is(err, common.ErrValidation), "got %v", err)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestTaskPatch_Apply(t *testing.T) {
	due := time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)
	task := &Task{ID: "t1", UserID: "u1", Title: "old", Description: "d", Priority: PriorityLow, Status: StatusPending}

	title := "new"
	high := PriorityHigh
	TaskPatch{Title: &title, Priority: &high, DueDate: &due}.Apply(task)

	assert.Equal(t, "new", task.Title)
	assert.Equal(t, "d", task.Description)
	assert.Equal(t, PriorityHigh, task.Priority)
	assert.Equal(t, StatusPending, task.Status)
	require.NotNil(t, task.DueDate)
	assert.True(t, task.DueDate.Equal(due))
	assert.Equal(t, "u1", task.UserID)

	TaskPatch{ClearDueDate: true}.Apply(task)
	assert.Nil(t, task.DueDate)
}
