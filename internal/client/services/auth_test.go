package services

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/dmitrijs2005/tasktracker/internal/client/client"
	"github.com/dmitrijs2005/tasktracker/internal/client/repositories/session"
	"github.com/dmitrijs2005/tasktracker/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newAuth(t *testing.T, fc *fakeClient) (*authService, session.Repository) {
	t.Helper()
	db := setupDB(t)
	a := NewAuthService(fc, db).(*authService)
	a.now = func() time.Time { return fixedNow }
	return a, session.NewSQLiteRepository(db)
}

func loginResult() *client.Session {
	return &client.Session{
		Token:     "tok-1",
		ExpiresAt: fixedNow.Add(24 * time.Hour),
		User:      client.User{ID: "u1", Name: "Ann", Email: "ann@x.io"},
	}
}

func TestLogin_PersistsSession(t *testing.T) {
	ctx := context.Background()
	fc := &fakeClient{LoginRet: loginResult()}
	a, repo := newAuth(t, fc)

	s, err := a.Login(ctx, "ann@x.io", "pw")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", s.Token)

	email, ok := a.Current()
	assert.True(t, ok)
	assert.Equal(t, "ann@x.io", email)

	for k, want := range map[string]string{
		session.KeyToken:     "tok-1",
		session.KeyEmail:     "ann@x.io",
		session.KeyUserID:    "u1",
		session.KeyExpiresAt: "2026-03-02T12:00:00Z",
	} {
		got, err := repo.Get(ctx, k)
		require.NoError(t, err, k)
		assert.Equal(t, want, got, k)
	}
}

func TestLogin_ServerRejectsLeavesNoSession(t *testing.T) {
	ctx := context.Background()
	fc := &fakeClient{LoginErr: &client.APIError{Status: http.StatusUnauthorized}}
	a, repo := newAuth(t, fc)

	_, err := a.Login(ctx, "ann@x.io", "bad")
	assert.ErrorIs(t, err, client.ErrUnauthorized)

	_, ok := a.Current()
	assert.False(t, ok)
	_, err = repo.Get(ctx, session.KeyToken)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestRestore(t *testing.T) {
	ctx := context.Background()

	t.Run("nothing saved", func(t *testing.T) {
		a, _ := newAuth(t, &fakeClient{})
		_, err := a.Restore(ctx)
		assert.ErrorIs(t, err, client.ErrNotLoggedIn)
	})

	t.Run("valid session", func(t *testing.T) {
		fc := &fakeClient{}
		a, repo := newAuth(t, fc)
		require.NoError(t, repo.Set(ctx, session.KeyToken, "saved"))
		require.NoError(t, repo.Set(ctx, session.KeyEmail, "ann@x.io"))
		require.NoError(t, repo.Set(ctx, session.KeyExpiresAt, fixedNow.Add(time.Hour).Format(time.RFC3339)))

		email, err := a.Restore(ctx)
		require.NoError(t, err)
		assert.Equal(t, "ann@x.io", email)
		assert.Equal(t, "saved", fc.token)
	})

	t.Run("expired session is wiped", func(t *testing.T) {
		fc := &fakeClient{}
		a, repo := newAuth(t, fc)
		require.NoError(t, repo.Set(ctx, session.KeyToken, "old"))
		require.NoError(t, repo.Set(ctx, session.KeyExpiresAt, fixedNow.Add(-time.Minute).Format(time.RFC3339)))

		_, err := a.Restore(ctx)
		assert.ErrorIs(t, err, client.ErrNotLoggedIn)
		assert.Empty(t, fc.token)

		_, err = repo.Get(ctx, session.KeyToken)
		assert.ErrorIs(t, err, common.ErrorNotFound)
	})
}

func TestLogout_ClearsEverything(t *testing.T) {
	ctx := context.Background()
	fc := &fakeClient{LoginRet: loginResult()}
	a, repo := newAuth(t, fc)

	_, err := a.Login(ctx, "ann@x.io", "pw")
	require.NoError(t, err)

	require.NoError(t, a.Logout(ctx))

	_, ok := a.Current()
	assert.False(t, ok)
	assert.Empty(t, fc.token)
	_, err = repo.Get(ctx, session.KeyToken)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestWhoami(t *testing.T) {
	ctx := context.Background()

	t.Run("not logged in", func(t *testing.T) {
		fc := &fakeClient{}
		a, _ := newAuth(t, fc)
		_, err := a.Whoami(ctx)
		assert.ErrorIs(t, err, client.ErrNotLoggedIn)
		assert.Empty(t, fc.Calls)
	})

	t.Run("token rejected ends session", func(t *testing.T) {
		fc := &fakeClient{LoginRet: loginResult(), MeErr: &client.APIError{Status: http.StatusUnauthorized}}
		a, _ := newAuth(t, fc)
		_, err := a.Login(ctx, "ann@x.io", "pw")
		require.NoError(t, err)

		_, err = a.Whoami(ctx)
		assert.ErrorIs(t, err, client.ErrUnauthorized)
		_, ok := a.Current()
		assert.False(t, ok)
	})

	t.Run("ok", func(t *testing.T) {
		fc := &fakeClient{LoginRet: loginResult(), MeRet: &client.User{ID: "u1", Email: "ann@x.io"}}
		a, _ := newAuth(t, fc)
		_, err := a.Login(ctx, "ann@x.io", "pw")
		require.NoError(t, err)

		u, err := a.Whoami(ctx)
		require.NoError(t, err)
		assert.Equal(t, "u1", u.ID)
	})
}

func TestRegisterAndPingProxy(t *testing.T) {
	fc := &fakeClient{RegisterRet: &client.User{ID: "u9"}, PingErr: errors.New("down")}
	a, _ := newAuth(t, fc)

	u, err := a.Register(context.Background(), "Ann", "ann@x.io", "pw")
	require.NoError(t, err)
	assert.Equal(t, "u9", u.ID)
	assert.EqualError(t, a.Ping(context.Background()), "down")
}
