// Package services contains the CLI's application services: the login
// session lifecycle and task operations on behalf of the logged-in user.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/tasktracker/internal/client/client"
	"github.com/dmitrijs2005/tasktracker/internal/client/repositories/session"
	"github.com/dmitrijs2005/tasktracker/internal/common"
	"github.com/dmitrijs2005/tasktracker/internal/dbx"
)

// AuthService manages the CLI's login session.
//
// Login persists the token locally so a later run can Restore it without
// asking for the password again. Logout only forgets the token; the server
// keeps no session state.
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*client.User, error)
	Login(ctx context.Context, email, password string) (*client.Session, error)
	Restore(ctx context.Context) (string, error)
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) (*client.User, error)
	Current() (email string, ok bool)
	Ping(ctx context.Context) error
}

type authService struct {
	client client.Client
	db     *sql.DB
	now    func() time.Time

	mu    sync.RWMutex
	email string
}

// NewAuthService constructs an AuthService bound to the given API client
// and session database.
func NewAuthService(c client.Client, db *sql.DB) AuthService {
	return &authService{client: c, db: db, now: time.Now}
}

func (a *authService) repo() session.Repository {
	return session.NewSQLiteRepository(a.db)
}

func (a *authService) setCurrent(email, token string) {
	a.mu.Lock()
	a.email = email
	a.mu.Unlock()
	a.client.SetToken(token)
}

func (a *authService) Current() (string, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.email, a.email != ""
}

func (a *authService) Register(ctx context.Context, name, email, password string) (*client.User, error) {
	return a.client.Register(ctx, name, email, password)
}

// Login authenticates against the server and saves the session in a single
// transaction.
func (a *authService) Login(ctx context.Context, email, password string) (*client.Session, error) {
	s, err := a.client.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	err = dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := session.NewSQLiteRepository(tx)
		values := []struct{ k, v string }{
			{session.KeyToken, s.Token},
			{session.KeyEmail, s.User.Email},
			{session.KeyUserID, s.User.ID},
			{session.KeyExpiresAt, s.ExpiresAt.UTC().Format(time.RFC3339)},
		}
		for _, kv := range values {
			if err := repo.Set(ctx, kv.k, kv.v); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		a.client.SetToken("")
		return nil, fmt.Errorf("session saving error: %w", err)
	}

	a.setCurrent(s.User.Email, s.Token)
	return s, nil
}

// Restore loads a previously saved session. An absent or expired session
// yields client.ErrNotLoggedIn; an expired one is also wiped.
func (a *authService) Restore(ctx context.Context) (string, error) {
	repo := a.repo()

	token, err := repo.Get(ctx, session.KeyToken)
	if errors.Is(err, common.ErrorNotFound) {
		return "", client.ErrNotLoggedIn
	}
	if err != nil {
		return "", err
	}

	email, err := repo.Get(ctx, session.KeyEmail)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return "", err
	}

	if raw, err := repo.Get(ctx, session.KeyExpiresAt); err == nil {
		exp, perr := time.Parse(time.RFC3339, raw)
		if perr != nil || !a.now().Before(exp) {
			_ = repo.Clear(ctx)
			return "", client.ErrNotLoggedIn
		}
	}

	a.setCurrent(email, token)
	return email, nil
}

func (a *authService) Logout(ctx context.Context) error {
	a.setCurrent("", "")
	return a.repo().Clear(ctx)
}

// Whoami asks the server who the current token belongs to. A rejected
// token ends the local session.
func (a *authService) Whoami(ctx context.Context) (*client.User, error) {
	if _, ok := a.Current(); !ok {
		return nil, client.ErrNotLoggedIn
	}
	u, err := a.client.Me(ctx)
	if err != nil {
		if client.IsAuthError(err) {
			_ = a.Logout(ctx)
		}
		return nil, err
	}
	return u, nil
}

func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}
