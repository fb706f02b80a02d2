package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/dmitrijs2005/tasktracker/internal/client/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strptr(s string) *string { return &s }

func loggedInTasks(t *testing.T, fc *fakeClient) (TaskService, AuthService) {
	t.Helper()
	fc.LoginRet = loginResult()
	a, _ := newAuth(t, fc)
	_, err := a.Login(context.Background(), "ann@x.io", "pw")
	require.NoError(t, err)
	fc.Calls = nil
	return NewTaskService(fc, a), a
}

func TestTasks_RequireLogin(t *testing.T) {
	fc := &fakeClient{}
	a, _ := newAuth(t, fc)
	ts := NewTaskService(fc, a)

	_, err := ts.List(context.Background())
	assert.ErrorIs(t, err, client.ErrNotLoggedIn)
	assert.ErrorIs(t, ts.Delete(context.Background(), "t1"), client.ErrNotLoggedIn)
	assert.Empty(t, fc.Calls)
}

func TestTasks_CreateValidatesLocally(t *testing.T) {
	fc := &fakeClient{}
	ts, _ := loggedInTasks(t, fc)
	ctx := context.Background()

	_, err := ts.Create(ctx, client.TaskInput{Title: strptr("  ")})
	assert.ErrorIs(t, err, client.ErrValidation)

	_, err = ts.Create(ctx, client.TaskInput{Title: strptr("T"), Priority: strptr("urgent")})
	assert.ErrorIs(t, err, client.ErrValidation)

	_, err = ts.Update(ctx, "t1", client.TaskInput{Status: strptr("in-progress")})
	assert.ErrorIs(t, err, client.ErrValidation)

	assert.Empty(t, fc.Calls)
}

func TestTasks_NormalizesEnums(t *testing.T) {
	fc := &fakeClient{TaskRet: &client.Task{ID: "t1"}}
	ts, _ := loggedInTasks(t, fc)

	_, err := ts.Update(context.Background(), "t1", client.TaskInput{Priority: strptr(" HIGH "), Status: strptr("Completed")})
	require.NoError(t, err)
	assert.Equal(t, "high", *fc.LastInput.Priority)
	assert.Equal(t, "completed", *fc.LastInput.Status)
}

func TestTasks_ForwardCalls(t *testing.T) {
	fc := &fakeClient{TaskRet: &client.Task{ID: "t1"}, TasksRet: []client.Task{{ID: "t1"}}}
	ts, _ := loggedInTasks(t, fc)
	ctx := context.Background()

	list, err := ts.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = ts.Create(ctx, client.TaskInput{Title: strptr("T")})
	require.NoError(t, err)
	_, err = ts.Get(ctx, "t1")
	require.NoError(t, err)
	_, err = ts.Complete(ctx, "t1")
	require.NoError(t, err)
	require.NoError(t, ts.Delete(ctx, "t1"))

	assert.Equal(t, []string{"ListTasks", "CreateTask", "GetTask t1", "CompleteTask t1", "DeleteTask t1"}, fc.Calls)
}

func TestTasks_UnauthorizedLogsOut(t *testing.T) {
	fc := &fakeClient{TaskErr: &client.APIError{Status: http.StatusUnauthorized}}
	ts, a := loggedInTasks(t, fc)

	_, err := ts.List(context.Background())
	assert.ErrorIs(t, err, client.ErrUnauthorized)

	_, ok := a.Current()
	assert.False(t, ok)
}

func TestTasks_ForbiddenKeepsSession(t *testing.T) {
	fc := &fakeClient{TaskErr: &client.APIError{Status: http.StatusForbidden}}
	ts, a := loggedInTasks(t, fc)

	_, err := ts.Get(context.Background(), "t2")
	assert.ErrorIs(t, err, client.ErrForbidden)

	_, ok := a.Current()
	assert.True(t, ok)
}
