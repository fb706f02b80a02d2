package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/tasktracker/internal/common"
	"github.com/dmitrijs2005/tasktracker/internal/logging"
	"github.com/dmitrijs2005/tasktracker/internal/server/models"
	"github.com/dmitrijs2005/tasktracker/internal/server/repositories/tasks"
)

// NewTask holds the caller-supplied fields of a task being created.
// Empty Priority and Status take their defaults.
type NewTask struct {
	Title       string
	Description string
	DueDate     *time.Time
	Priority    models.Priority
	Status      models.Status
}

// TaskService runs every per-task operation through the ownership check
// in authorize before touching the store.
type TaskService struct {
	tasks  tasks.Repository
	logger logging.Logger

	// conceal answers NotFound instead of Forbidden for foreign tasks.
	conceal bool
}

func NewTaskService(repo tasks.Repository, concealForeign bool, logger logging.Logger) *TaskService {
	return &TaskService{
		tasks:   repo,
		logger:  logger.With("module", "tasks"),
		conceal: concealForeign,
	}
}

// List returns the caller's tasks, newest first. It needs no ownership
// check because the store query is filtered by the caller.
func (s *TaskService) List(ctx context.Context, callerID string) ([]*models.Task, error) {
	if callerID == "" {
		return nil, common.ErrInvalidToken
	}

	list, err := s.tasks.ListByUser(ctx, callerID)
	if err != nil {
		return nil, s.internal(ctx, "task list failed", err)
	}
	return list, nil
}

func (s *TaskService) Create(ctx context.Context, callerID string, in NewTask) (*models.Task, error) {
	if callerID == "" {
		return nil, common.ErrInvalidToken
	}

	t := &models.Task{
		UserID:      callerID,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		DueDate:     in.DueDate,
		Priority:    in.Priority,
		Status:      in.Status,
	}
	if t.Priority == "" {
		t.Priority = models.PriorityMedium
	}
	if t.Status == "" {
		t.Status = models.StatusPending
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}

	created, err := s.tasks.Create(ctx, t)
	if err != nil {
		if errors.Is(err, common.ErrInvalidToken) {
			s.logger.Warn(ctx, "task owner does not exist", "caller_id", callerID)
			return nil, common.ErrInvalidToken
		}
		return nil, s.internal(ctx, "task create failed", err)
	}
	return created, nil
}

func (s *TaskService) Get(ctx context.Context, callerID, id string) (*models.Task, error) {
	return s.authorize(ctx, callerID, id)
}

// Update applies patch to a task the caller owns. The owner is never part
// of a patch.
func (s *TaskService) Update(ctx context.Context, callerID, id string, patch models.TaskPatch) (*models.Task, error) {
	t, err := s.authorize(ctx, callerID, id)
	if err != nil {
		return nil, err
	}

	patch.Apply(t)
	t.Title = strings.TrimSpace(t.Title)
	if err := t.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.tasks.Update(ctx, t)
	if err != nil {
		return nil, s.storeErr(ctx, "task update failed", err)
	}
	return updated, nil
}

// Complete sets the status to completed and nothing else.
func (s *TaskService) Complete(ctx context.Context, callerID, id string) (*models.Task, error) {
	t, err := s.authorize(ctx, callerID, id)
	if err != nil {
		return nil, err
	}

	updated, err := s.tasks.UpdateStatus(ctx, t.ID, t.UserID, models.StatusCompleted)
	if err != nil {
		return nil, s.storeErr(ctx, "task complete failed", err)
	}
	return updated, nil
}

// Delete removes the task permanently.
func (s *TaskService) Delete(ctx context.Context, callerID, id string) error {
	t, err := s.authorize(ctx, callerID, id)
	if err != nil {
		return err
	}

	if err := s.tasks.Delete(ctx, t.ID, t.UserID); err != nil {
		return s.storeErr(ctx, "task delete failed", err)
	}
	return nil
}

// authorize fetches the task and checks that callerID owns it.
func (s *TaskService) authorize(ctx context.Context, callerID, id string) (*models.Task, error) {
	if callerID == "" {
		return nil, common.ErrInvalidToken
	}

	t, err := s.tasks.Get(ctx, id)
	if err != nil {
		return nil, s.storeErr(ctx, "task lookup failed", err)
	}

	if !sameID(t.UserID, callerID) {
		s.logger.Warn(ctx, "foreign task access denied", "task_id", t.ID, "caller_id", callerID)
		if s.conceal {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrForbidden
	}
	return t, nil
}

// sameID compares two ids by value, ignoring surrounding blanks and hex case.
func sameID(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func (s *TaskService) storeErr(ctx context.Context, msg string, err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return common.ErrorNotFound
	}
	return s.internal(ctx, msg, err)
}

func (s *TaskService) internal(ctx context.Context, msg string, err error) error {
	s.logger.Error(ctx, msg, "error", err)
	return common.ErrorInternal
}
