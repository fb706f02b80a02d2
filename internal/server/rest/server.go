// Package rest exposes the task tracker over HTTP/JSON using gin.
package rest

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/tasktracker/internal/logging"
	"github.com/dmitrijs2005/tasktracker/internal/server/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

// TokenVerifier resolves a bearer token to the user id it was issued to.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

type Server struct {
	address string
	users   *services.UserService
	tasks   *services.TaskService
	tokens  TokenVerifier
	logger  logging.Logger
	engine  *gin.Engine
}

func NewServer(addr string, l logging.Logger, us *services.UserService, ts *services.TaskService, tokens TokenVerifier, corsOrigins []string) *Server {
	s := &Server{
		address: addr,
		users:   us,
		tasks:   ts,
		tokens:  tokens,
		logger:  l.With("module", "rest_server"),
	}
	s.engine = s.routes(corsOrigins)
	return s
}

func (s *Server) routes(corsOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(s.recovery(), s.requestLogger(), cors.New(corsConfig(corsOrigins)))
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, errorResponse{Error: "NotFound", Message: "route not found"})
	})

	api := r.Group("/api")
	api.GET("", s.welcome)

	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/register", s.register)
		authRoutes.POST("/login", s.login)
		authRoutes.GET("/me", s.identityGate(), s.me)
	}

	taskRoutes := api.Group("/tasks", s.identityGate())
	{
		taskRoutes.GET("", s.listTasks)
		taskRoutes.POST("", s.createTask)
		taskRoutes.GET("/:id", s.getTask)
		taskRoutes.PUT("/:id", s.updateTask)
		taskRoutes.DELETE("/:id", s.deleteTask)
		taskRoutes.PATCH("/:id/complete", s.completeTask)
	}

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	if len(origins) == 0 {
		cfg.AllowOriginFunc = func(string) bool { return false }
	}
	return cfg
}

// Handler returns the router, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(context.Background(), "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(shutdownCtx, "shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) welcome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Welcome to Task Tracker API"})
}
