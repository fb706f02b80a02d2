// Package cli implements the interactive terminal client for the task
// tracker.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"io"
	"log"
	"os"

	"github.com/dmitrijs2005/tasktracker/internal/client/client"
	"github.com/dmitrijs2005/tasktracker/internal/client/config"
	"github.com/dmitrijs2005/tasktracker/internal/client/services"
)

type App struct {
	config      *config.Config
	db          *sql.DB
	authService services.AuthService
	taskService services.TaskService
	reader      *bufio.Reader
	out         io.Writer
}

// NewApp opens the local session database and wires the API client and
// services.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	db, err := client.InitDatabase(ctx, c.SessionDBPath)
	if err != nil {
		log.Printf("error initializing database: %s", err.Error())
		return nil, err
	}

	apiClient, err := client.NewHTTPClient(c.ServerURL, c.RequestTimeout)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	as := services.NewAuthService(apiClient, db)
	ts := services.NewTaskService(apiClient, as)

	return &App{
		config:      c,
		db:          db,
		authService: as,
		taskService: ts,
		reader:      bufio.NewReader(os.Stdin),
		out:         os.Stdout,
	}, nil
}

func (a *App) isLoggedIn() bool {
	_, ok := a.authService.Current()
	return ok
}

func (a *App) status() string {
	if email, ok := a.authService.Current(); ok {
		return email
	}
	return "not logged in"
}

// Run restores a saved session if there is one and starts the REPL. It
// returns when the user exits or stdin is closed.
func (a *App) Run(ctx context.Context) {
	defer a.db.Close()

	if err := a.authService.Ping(ctx); err != nil {
		log.Printf("server %s is not reachable: %v", a.config.ServerURL, err)
	}

	email, err := a.authService.Restore(ctx)
	switch {
	case err == nil:
		printlnFn("Welcome back,", email)
	case errors.Is(err, client.ErrNotLoggedIn):
		printlnFn("Type 'register' or 'login' to get started, 'help' for commands.")
	default:
		log.Printf("error restoring session: %v", err)
	}

	runREPL(ctx, a, a.status, a.reader)
}
