package services

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/tasktracker/internal/client/client"
	"github.com/stretchr/testify/require"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// fakeClient implements client.Client with canned results.
type fakeClient struct {
	token string

	RegisterRet *client.User
	RegisterErr error
	LoginRet    *client.Session
	LoginErr    error
	MeRet       *client.User
	MeErr       error
	PingErr     error

	TasksRet []client.Task
	TaskRet  *client.Task
	TaskErr  error

	Calls     []string
	LastInput client.TaskInput
}

func (f *fakeClient) SetToken(token string) { f.token = token }

func (f *fakeClient) Ping(ctx context.Context) error {
	f.Calls = append(f.Calls, "Ping")
	return f.PingErr
}

func (f *fakeClient) Register(ctx context.Context, name, email, password string) (*client.User, error) {
	f.Calls = append(f.Calls, "Register")
	return f.RegisterRet, f.RegisterErr
}

func (f *fakeClient) Login(ctx context.Context, email, password string) (*client.Session, error) {
	f.Calls = append(f.Calls, "Login")
	if f.LoginErr != nil {
		return nil, f.LoginErr
	}
	f.token = f.LoginRet.Token
	return f.LoginRet, nil
}

func (f *fakeClient) Me(ctx context.Context) (*client.User, error) {
	f.Calls = append(f.Calls, "Me")
	return f.MeRet, f.MeErr
}

func (f *fakeClient) ListTasks(ctx context.Context) ([]client.Task, error) {
	f.Calls = append(f.Calls, "ListTasks")
	return f.TasksRet, f.TaskErr
}

func (f *fakeClient) CreateTask(ctx context.Context, in client.TaskInput) (*client.Task, error) {
	f.Calls = append(f.Calls, "CreateTask")
	f.LastInput = in
	return f.TaskRet, f.TaskErr
}

func (f *fakeClient) GetTask(ctx context.Context, id string) (*client.Task, error) {
	f.Calls = append(f.Calls, "GetTask "+id)
	return f.TaskRet, f.TaskErr
}

func (f *fakeClient) UpdateTask(ctx context.Context, id string, in client.TaskInput) (*client.Task, error) {
	f.Calls = append(f.Calls, "UpdateTask "+id)
	f.LastInput = in
	return f.TaskRet, f.TaskErr
}

func (f *fakeClient) CompleteTask(ctx context.Context, id string) (*client.Task, error) {
	f.Calls = append(f.Calls, "CompleteTask "+id)
	return f.TaskRet, f.TaskErr
}

func (f *fakeClient) DeleteTask(ctx context.Context, id string) error {
	f.Calls = append(f.Calls, "DeleteTask "+id)
	return f.TaskErr
}
