// Package client implements the HTTP client for the task tracker REST API
// and the local session database bootstrap.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/tasktracker/internal/common"
)

// Client is the task tracker API as seen by the CLI.
type Client interface {
	Ping(ctx context.Context) error
	Register(ctx context.Context, name, email, password string) (*User, error)
	Login(ctx context.Context, email, password string) (*Session, error)
	Me(ctx context.Context) (*User, error)

	ListTasks(ctx context.Context) ([]Task, error)
	CreateTask(ctx context.Context, in TaskInput) (*Task, error)
	GetTask(ctx context.Context, id string) (*Task, error)
	UpdateTask(ctx context.Context, id string, in TaskInput) (*Task, error)
	CompleteTask(ctx context.Context, id string) (*Task, error)
	DeleteTask(ctx context.Context, id string) error

	SetToken(token string)
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// HTTPClient talks to the server over JSON/HTTP. The bearer token is
// attached to every request once set.
type HTTPClient struct {
	base *url.URL
	http *http.Client

	mu    sync.RWMutex
	token string
}

// NewHTTPClient builds a client for the server at baseURL, e.g.
// "http://127.0.0.1:5000".
func NewHTTPClient(baseURL string, timeout time.Duration) (*HTTPClient, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return nil, fmt.Errorf("%w: server url must be http(s)://host[:port]", ErrInvalidConfig)
	}
	return &HTTPClient{base: u, http: &http.Client{Timeout: timeout}}, nil
}

func (c *HTTPClient) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *HTTPClient) bearer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base.String()+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := c.bearer(); tok != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerScheme+" "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var eb errorBody
		if err := json.NewDecoder(resp.Body).Decode(&eb); err == nil {
			apiErr.Category = eb.Error
			apiErr.Message = eb.Message
		}
		return apiErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrUnexpected, err)
	}
	return nil
}

func taskPath(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", fmt.Errorf("%w: task id is required", ErrValidation)
	}
	return "/api/tasks/" + url.PathEscape(id), nil
}

// Ping checks that the server answers on its welcome route.
func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/api", nil, nil)
}

func (c *HTTPClient) Register(ctx context.Context, name, email, password string) (*User, error) {
	var u User
	in := map[string]string{"name": name, "email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", in, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Login authenticates and, on success, keeps the returned token for
// subsequent calls.
func (c *HTTPClient) Login(ctx context.Context, email, password string) (*Session, error) {
	var s Session
	in := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", in, &s); err != nil {
		return nil, err
	}
	if s.Token == "" {
		return nil, fmt.Errorf("%w: empty token", ErrUnexpected)
	}
	c.SetToken(s.Token)
	return &s, nil
}

func (c *HTTPClient) Me(ctx context.Context) (*User, error) {
	var u User
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) ListTasks(ctx context.Context) ([]Task, error) {
	var out []Task
	if err := c.do(ctx, http.MethodGet, "/api/tasks", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) CreateTask(ctx context.Context, in TaskInput) (*Task, error) {
	var t Task
	if err := c.do(ctx, http.MethodPost, "/api/tasks", in, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *HTTPClient) GetTask(ctx context.Context, id string) (*Task, error) {
	p, err := taskPath(id)
	if err != nil {
		return nil, err
	}
	var t Task
	if err := c.do(ctx, http.MethodGet, p, nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *HTTPClient) UpdateTask(ctx context.Context, id string, in TaskInput) (*Task, error) {
	p, err := taskPath(id)
	if err != nil {
		return nil, err
	}
	var t Task
	if err := c.do(ctx, http.MethodPut, p, in, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *HTTPClient) CompleteTask(ctx context.Context, id string) (*Task, error) {
	p, err := taskPath(id)
	if err != nil {
		return nil, err
	}
	var t Task
	if err := c.do(ctx, http.MethodPatch, p+"/complete", nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *HTTPClient) DeleteTask(ctx context.Context, id string) error {
	p, err := taskPath(id)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, p, nil, nil)
}

// IsAuthError reports whether err means the caller must log in again.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrNotLoggedIn)
}
