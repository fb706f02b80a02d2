package tasks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/tasktracker/internal/common"
	"github.com/dmitrijs2005/tasktracker/internal/server/models"
	"github.com/google/uuid"
)

type memoryEntry struct {
	task models.Task
	seq  uint64
}

// MemoryRepository keeps tasks in process memory.
type MemoryRepository struct {
	mu    sync.RWMutex
	tasks map[string]*memoryEntry
	seq   uint64
	now   func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		tasks: make(map[string]*memoryEntry),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func clone(t *models.Task) *models.Task {
	out := *t
	if t.DueDate != nil {
		d := *t.DueDate
		out.DueDate = &d
	}
	return &out
}

func (r *MemoryRepository) Create(_ context.Context, task *models.Task) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := clone(task)
	stored.ID = uuid.NewString()
	stored.CreatedAt = r.now()
	stored.UpdatedAt = stored.CreatedAt

	r.seq++
	r.tasks[stored.ID] = &memoryEntry{task: *stored, seq: r.seq}
	return clone(stored), nil
}

func (r *MemoryRepository) Get(_ context.Context, id string) (*models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.tasks[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return clone(&e.task), nil
}

func (r *MemoryRepository) ListByUser(_ context.Context, userID string) ([]*models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]*memoryEntry, 0)
	for _, e := range r.tasks {
		if e.task.UserID == userID {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq > entries[j].seq })

	result := make([]*models.Task, 0, len(entries))
	for _, e := range entries {
		result = append(result, clone(&e.task))
	}
	return result, nil
}

func (r *MemoryRepository) Update(_ context.Context, task *models.Task) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.owned(task.ID, task.UserID)
	if !ok {
		return nil, common.ErrorNotFound
	}

	upd := clone(task)
	e.task.Title = upd.Title
	e.task.Description = upd.Description
	e.task.DueDate = upd.DueDate
	e.task.Priority = upd.Priority
	e.task.Status = upd.Status
	e.task.UpdatedAt = r.now()
	return clone(&e.task), nil
}

func (r *MemoryRepository) UpdateStatus(_ context.Context, id, userID string, status models.Status) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.owned(id, userID)
	if !ok {
		return nil, common.ErrorNotFound
	}
	e.task.Status = status
	e.task.UpdatedAt = r.now()
	return clone(&e.task), nil
}

func (r *MemoryRepository) Delete(_ context.Context, id, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.owned(id, userID); !ok {
		return common.ErrorNotFound
	}
	delete(r.tasks, id)
	return nil
}

// owned must be called with the lock held.
func (r *MemoryRepository) owned(id, userID string) (*memoryEntry, bool) {
	e, ok := r.tasks[id]
	if !ok || e.task.UserID != userID {
		return nil, false
	}
	return e, true
}
