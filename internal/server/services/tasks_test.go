package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/tasktracker/internal/common"
	"github.com/dmitrijs2005/tasktracker/internal/logging"
	"github.com/dmitrijs2005/tasktracker/internal/server/models"
	"github.com/dmitrijs2005/tasktracker/internal/server/repositories/tasks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	ann = "11111111-1111-4111-8111-111111111111"
	bob = "22222222-2222-4222-8222-222222222222"
)

// spyTasksRepo wraps the memory store and counts mutating calls.
type spyTasksRepo struct {
	*tasks.MemoryRepository
	mutations int
	getErr    error
	createErr error
}

func (s *spyTasksRepo) Create(ctx context.Context, t *models.Task) (*models.Task, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	return s.MemoryRepository.Create(ctx, t)
}

func (s *spyTasksRepo) Get(ctx context.Context, id string) (*models.Task, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.MemoryRepository.Get(ctx, id)
}

func (s *spyTasksRepo) Update(ctx context.Context, t *models.Task) (*models.Task, error) {
	s.mutations++
	return s.MemoryRepository.Update(ctx, t)
}

func (s *spyTasksRepo) UpdateStatus(ctx context.Context, id, userID string, st models.Status) (*models.Task, error) {
	s.mutations++
	return s.MemoryRepository.UpdateStatus(ctx, id, userID, st)
}

func (s *spyTasksRepo) Delete(ctx context.Context, id, userID string) error {
	s.mutations++
	return s.MemoryRepository.Delete(ctx, id, userID)
}

func newTaskService(conceal bool) (*TaskService, *spyTasksRepo) {
	repo := &spyTasksRepo{MemoryRepository: tasks.NewMemoryRepository()}
	return NewTaskService(repo, conceal, logging.Nop{}), repo
}

func ptr[T any](v T) *T { return &v }

func TestTaskService_CreateDefaultsAndOwner(t *testing.T) {
	svc, _ := newTaskService(false)

	task, err := svc.Create(context.Background(), ann, NewTask{Title: "  HW  "})
	require.NoError(t, err)
	assert.Equal(t, ann, task.UserID)
	assert.Equal(t, "HW", task.Title)
	assert.Equal(t, models.PriorityMedium, task.Priority)
	assert.Equal(t, models.StatusPending, task.Status)
	assert.NotEmpty(t, task.ID)
}

func TestTaskService_CreateValidation(t *testing.T) {
	svc, _ := newTaskService(false)
	ctx := context.Background()

	_, err := svc.Create(ctx, ann, NewTask{Title: " "})
	require.ErrorIs(t, err, common.ErrValidation)

	_, err = svc.Create(ctx, ann, NewTask{Title: strings.Repeat("x", models.MaxTitleLength+1)})
	require.ErrorIs(t, err, common.ErrValidation)

	_, err = svc.Create(ctx, ann, NewTask{Title: "HW", Priority: "urgent"})
	require.ErrorIs(t, err, common.ErrValidation)

	_, err = svc.Create(ctx, ann, NewTask{Title: "HW", Status: "archived"})
	require.ErrorIs(t, err, common.ErrValidation)

	_, err = svc.Create(ctx, "", NewTask{Title: "HW"})
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestTaskService_ForeignAccessIsForbidden(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTaskService(false)

	task, err := svc.Create(ctx, ann, NewTask{Title: "HW"})
	require.NoError(t, err)

	_, err = svc.Get(ctx, bob, task.ID)
	require.ErrorIs(t, err, common.ErrForbidden)

	_, err = svc.Update(ctx, bob, task.ID, models.TaskPatch{Title: ptr("mine now")})
	require.ErrorIs(t, err, common.ErrForbidden)

	_, err = svc.Complete(ctx, bob, task.ID)
	require.ErrorIs(t, err, common.ErrForbidden)

	err = svc.Delete(ctx, bob, task.ID)
	require.ErrorIs(t, err, common.ErrForbidden)

	assert.Equal(t, 0, repo.mutations, "no store mutation after a failed ownership check")

	got, err := svc.Get(ctx, ann, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "HW", got.Title)
	assert.Equal(t, models.StatusPending, got.Status)
}

func TestTaskService_ConcealForeignTasks(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTaskService(true)

	task, err := svc.Create(ctx, ann, NewTask{Title: "HW"})
	require.NoError(t, err)

	_, err = svc.Get(ctx, bob, task.ID)
	require.ErrorIs(t, err, common.ErrorNotFound)
	_, err = svc.Update(ctx, bob, task.ID, models.TaskPatch{})
	require.ErrorIs(t, err, common.ErrorNotFound)
	_, err = svc.Complete(ctx, bob, task.ID)
	require.ErrorIs(t, err, common.ErrorNotFound)
	require.ErrorIs(t, svc.Delete(ctx, bob, task.ID), common.ErrorNotFound)
}

func TestTaskService_OwnerOperations(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTaskService(false)

	due := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	task, err := svc.Create(ctx, ann, NewTask{
		Title: "HW", Description: "read ch.3", DueDate: &due, Priority: models.PriorityHigh,
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, ann, task.ID, models.TaskPatch{
		Title:  ptr("HW v2"),
		Status: ptr(models.StatusPending),
	})
	require.NoError(t, err)
	assert.Equal(t, "HW v2", updated.Title)
	assert.Equal(t, "read ch.3", updated.Description)
	assert.Equal(t, ann, updated.UserID)

	_, err = svc.Update(ctx, ann, task.ID, models.TaskPatch{Title: ptr("")})
	require.ErrorIs(t, err, common.ErrValidation)

	cleared, err := svc.Update(ctx, ann, task.ID, models.TaskPatch{ClearDueDate: true})
	require.NoError(t, err)
	assert.Nil(t, cleared.DueDate)
}

func TestTaskService_CompleteChangesOnlyStatus(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTaskService(false)

	due := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	task, err := svc.Create(ctx, ann, NewTask{
		Title: "HW", Description: "read ch.3", DueDate: &due, Priority: models.PriorityLow,
	})
	require.NoError(t, err)

	done, err := svc.Complete(ctx, ann, task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, done.Status)
	assert.Equal(t, task.Title, done.Title)
	assert.Equal(t, task.Description, done.Description)
	assert.Equal(t, task.Priority, done.Priority)
	require.NotNil(t, done.DueDate)
	assert.True(t, done.DueDate.Equal(due))

	again, err := svc.Complete(ctx, ann, task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, again.Status)
}

func TestTaskService_DeleteThenGetIsNotFound(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTaskService(false)

	task, err := svc.Create(ctx, ann, NewTask{Title: "HW"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, ann, task.ID))

	_, err = svc.Get(ctx, ann, task.ID)
	require.ErrorIs(t, err, common.ErrorNotFound)
	require.ErrorIs(t, svc.Delete(ctx, ann, task.ID), common.ErrorNotFound)
}

func TestTaskService_ListIsScopedToCaller(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTaskService(false)

	for _, title := range []string{"a1", "a2"} {
		_, err := svc.Create(ctx, ann, NewTask{Title: title})
		require.NoError(t, err)
	}
	_, err := svc.Create(ctx, bob, NewTask{Title: "b1"})
	require.NoError(t, err)

	list, err := svc.List(ctx, ann)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a2", list[0].Title)
	for _, task := range list {
		assert.Equal(t, ann, task.UserID)
	}
}

func TestTaskService_OwnerComparedByValue(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTaskService(false)

	task, err := svc.Create(ctx, ann, NewTask{Title: "HW"})
	require.NoError(t, err)

	got, err := svc.Get(ctx, strings.ToUpper(ann), task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.ID, got.ID)

	_, err = svc.Complete(ctx, " "+strings.ToUpper(ann), task.ID)
	require.NoError(t, err)
}

func TestTaskService_UnknownAndStoreErrors(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTaskService(false)

	_, err := svc.Get(ctx, ann, "missing")
	require.ErrorIs(t, err, common.ErrorNotFound)

	repo.getErr = errors.New("db error: timeout")
	_, err = svc.Get(ctx, ann, "any")
	require.ErrorIs(t, err, common.ErrorInternal)
	assert.NotContains(t, err.Error(), "timeout")
}

func TestTaskService_CreateForVanishedOwner(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTaskService(false)

	repo.createErr = common.ErrInvalidToken
	_, err := svc.Create(ctx, ann, NewTask{Title: "HW"})
	require.ErrorIs(t, err, common.ErrInvalidToken)

	repo.createErr = errors.New("db error: conn reset")
	_, err = svc.Create(ctx, ann, NewTask{Title: "HW"})
	require.ErrorIs(t, err, common.ErrorInternal)
}

func TestSameID(t *testing.T) {
	assert.True(t, sameID("abc", "ABC"))
	assert.True(t, sameID(" abc", "abc "))
	assert.False(t, sameID("abc", "abd"))
	assert.False(t, sameID("", "abc"))
}
