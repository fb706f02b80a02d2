package server

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/tasktracker/internal/server/config"
	"github.com/dmitrijs2005/tasktracker/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig() *config.Config {
	var cfg config.Config
	cfg.LoadDefaults()
	cfg.StorageBackend = config.BackendMemory
	cfg.EndpointAddrHTTP = "127.0.0.1:0"
	cfg.BcryptCost = 4
	return &cfg
}

func TestNewApp_InvalidConfig(t *testing.T) {
	cfg := memoryConfig()
	cfg.SecretKey = ""

	_, err := NewApp(context.Background(), cfg, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "secret key is empty")
}

func TestNewApp_StorageError(t *testing.T) {
	orig := newRepositoryManager
	newRepositoryManager = func(context.Context, *config.Config) (repomanager.RepositoryManager, error) {
		return nil, errors.New("refused")
	}
	t.Cleanup(func() { newRepositoryManager = orig })

	_, err := NewApp(context.Background(), memoryConfig(), &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db init error: refused")
}

func TestNewApp_LogsTokenLifetime(t *testing.T) {
	cfg := memoryConfig()
	cfg.TokenValidityDuration = 90 * time.Minute

	var logs bytes.Buffer
	_, err := NewApp(context.Background(), cfg, &logs)
	require.NoError(t, err)
	assert.Contains(t, logs.String(), `"token_ttl":"1h30m0s"`)
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	var logs bytes.Buffer
	app, err := NewApp(context.Background(), memoryConfig(), &logs)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}
}

func TestApp_RunReportsListenError(t *testing.T) {
	cfg := memoryConfig()
	cfg.EndpointAddrHTTP = "256.0.0.1:bad"

	app, err := NewApp(context.Background(), cfg, &bytes.Buffer{})
	require.NoError(t, err)

	require.Error(t, app.Run(context.Background()))
}
