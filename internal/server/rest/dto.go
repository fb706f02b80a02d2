package rest

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/dmitrijs2005/tasktracker/internal/common"
	"github.com/dmitrijs2005/tasktracker/internal/server/models"
	"github.com/dmitrijs2005/tasktracker/internal/server/services"
)

const dateLayout = "2006-01-02"

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

func newUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.ID, Name: u.Name, Email: u.Email, CreatedAt: u.CreatedAt}
}

type loginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      userResponse `json:"user"`
}

// taskRequest is the body of POST and PUT /api/tasks. Any owner field in
// the body is ignored because there is none to bind to.
type taskRequest struct {
	Title       *string         `json:"title"`
	Description *string         `json:"description"`
	DueDate     json.RawMessage `json:"dueDate"`
	Priority    *string         `json:"priority"`
	Status      *string         `json:"status"`
}

// dueDate reports whether the field was present, and if so its value.
// null and "" mean "no due date".
func (r *taskRequest) dueDate() (present bool, due *time.Time, err error) {
	raw := bytes.TrimSpace(r.DueDate)
	if len(raw) == 0 {
		return false, nil, nil
	}
	if bytes.Equal(raw, []byte("null")) {
		return true, nil, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return true, nil, common.NewValidationError("dueDate", "must be a string")
	}
	d, err := parseDueDate(s)
	if err != nil {
		return true, nil, err
	}
	return true, d, nil
}

// parseDueDate accepts YYYY-MM-DD or RFC 3339.
func parseDueDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, common.NewValidationError("dueDate", "must be YYYY-MM-DD or RFC 3339")
	}
	t = t.UTC()
	return &t, nil
}

func lower(s *string) string {
	if s == nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(*s))
}

func (r *taskRequest) toNewTask() (services.NewTask, error) {
	_, due, err := r.dueDate()
	if err != nil {
		return services.NewTask{}, err
	}

	in := services.NewTask{
		DueDate:  due,
		Priority: models.Priority(lower(r.Priority)),
		Status:   models.Status(lower(r.Status)),
	}
	if r.Title != nil {
		in.Title = *r.Title
	}
	if r.Description != nil {
		in.Description = *r.Description
	}
	return in, nil
}

func (r *taskRequest) toPatch() (models.TaskPatch, error) {
	present, due, err := r.dueDate()
	if err != nil {
		return models.TaskPatch{}, err
	}

	patch := models.TaskPatch{
		Title:       r.Title,
		Description: r.Description,
	}
	if present {
		patch.DueDate = due
		patch.ClearDueDate = due == nil
	}
	if r.Priority != nil {
		p := models.Priority(lower(r.Priority))
		patch.Priority = &p
	}
	if r.Status != nil {
		st := models.Status(lower(r.Status))
		patch.Status = &st
	}
	return patch, nil
}

type taskResponse struct {
	ID          string     `json:"_id"`
	UserID      string     `json:"userId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"dueDate"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func newTaskResponse(t *models.Task) taskResponse {
	return taskResponse{
		ID:          t.ID,
		UserID:      t.UserID,
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate,
		Priority:    string(t.Priority),
		Status:      string(t.Status),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
