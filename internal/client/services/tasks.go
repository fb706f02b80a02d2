package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/tasktracker/internal/client/client"
)

var (
	priorities = []string{"low", "medium", "high"}
	statuses   = []string{"pending", "completed"}
)

// TaskService performs task operations as the logged-in user. Any call
// rejected with 401 logs the user out locally.
type TaskService interface {
	List(ctx context.Context) ([]client.Task, error)
	Get(ctx context.Context, id string) (*client.Task, error)
	Create(ctx context.Context, in client.TaskInput) (*client.Task, error)
	Update(ctx context.Context, id string, in client.TaskInput) (*client.Task, error)
	Complete(ctx context.Context, id string) (*client.Task, error)
	Delete(ctx context.Context, id string) error
}

type taskService struct {
	client client.Client
	auth   AuthService
}

func NewTaskService(c client.Client, auth AuthService) TaskService {
	return &taskService{client: c, auth: auth}
}

func oneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}

// normalize lowercases enum fields and rejects values the server would
// refuse anyway, saving a round trip.
func normalize(in client.TaskInput) (client.TaskInput, error) {
	if in.Priority != nil {
		p := strings.ToLower(strings.TrimSpace(*in.Priority))
		if !oneOf(p, priorities) {
			return in, fmt.Errorf("%w: priority must be one of %s", client.ErrValidation, strings.Join(priorities, ", "))
		}
		in.Priority = &p
	}
	if in.Status != nil {
		s := strings.ToLower(strings.TrimSpace(*in.Status))
		if !oneOf(s, statuses) {
			return in, fmt.Errorf("%w: status must be one of %s", client.ErrValidation, strings.Join(statuses, ", "))
		}
		in.Status = &s
	}
	return in, nil
}

func (s *taskService) guard(ctx context.Context, err error) error {
	if err != nil && client.IsAuthError(err) {
		_ = s.auth.Logout(ctx)
	}
	return err
}

func (s *taskService) loggedIn() error {
	if _, ok := s.auth.Current(); !ok {
		return client.ErrNotLoggedIn
	}
	return nil
}

func (s *taskService) List(ctx context.Context) ([]client.Task, error) {
	if err := s.loggedIn(); err != nil {
		return nil, err
	}
	out, err := s.client.ListTasks(ctx)
	return out, s.guard(ctx, err)
}

func (s *taskService) Get(ctx context.Context, id string) (*client.Task, error) {
	if err := s.loggedIn(); err != nil {
		return nil, err
	}
	t, err := s.client.GetTask(ctx, id)
	return t, s.guard(ctx, err)
}

func (s *taskService) Create(ctx context.Context, in client.TaskInput) (*client.Task, error) {
	if err := s.loggedIn(); err != nil {
		return nil, err
	}
	if in.Title == nil || strings.TrimSpace(*in.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", client.ErrValidation)
	}
	in, err := normalize(in)
	if err != nil {
		return nil, err
	}
	t, err := s.client.CreateTask(ctx, in)
	return t, s.guard(ctx, err)
}

func (s *taskService) Update(ctx context.Context, id string, in client.TaskInput) (*client.Task, error) {
	if err := s.loggedIn(); err != nil {
		return nil, err
	}
	in, err := normalize(in)
	if err != nil {
		return nil, err
	}
	t, err := s.client.UpdateTask(ctx, id, in)
	return t, s.guard(ctx, err)
}

func (s *taskService) Complete(ctx context.Context, id string) (*client.Task, error) {
	if err := s.loggedIn(); err != nil {
		return nil, err
	}
	t, err := s.client.CompleteTask(ctx, id)
	return t, s.guard(ctx, err)
}

func (s *taskService) Delete(ctx context.Context, id string) error {
	if err := s.loggedIn(); err != nil {
		return err
	}
	return s.guard(ctx, s.client.DeleteTask(ctx, id))
}
