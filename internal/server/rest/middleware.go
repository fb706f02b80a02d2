package rest

import (
	"errors"
	"runtime/debug"
	"strings"
	"time"

	"github.com/dmitrijs2005/tasktracker/internal/common"
	"github.com/dmitrijs2005/tasktracker/internal/server/auth"
	"github.com/gin-gonic/gin"
)

// identityGate verifies the bearer token and stores the caller's id in the
// request context. It never touches a store.
func (s *Server) identityGate() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		token, ok := bearerToken(c.GetHeader(common.AuthorizationHeaderName))
		if !ok {
			s.abortWithError(c, common.ErrMissingToken)
			return
		}

		userID, err := s.tokens.Verify(token)
		if err != nil {
			s.logger.Warn(ctx, "token rejected", "path", c.Request.URL.Path, "reason", err.Error())
			if !errors.Is(err, common.ErrTokenExpired) && !errors.Is(err, common.ErrInvalidToken) {
				err = common.ErrInvalidToken
			}
			s.abortWithError(c, err)
			return
		}

		c.Request = c.Request.WithContext(auth.WithUserID(ctx, userID))
		c.Next()
	}
}

// bearerToken extracts the token from "Bearer <token>". The scheme is
// matched case-insensitively.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, common.BearerScheme) {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func callerID(c *gin.Context) string {
	id, _ := auth.UserIDFromContext(c.Request.Context())
	return id
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
		)
	}
}

func (s *Server) recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error(c.Request.Context(), "panic recovered",
					"panic", r, "path", c.Request.URL.Path, "stack", string(debug.Stack()))
				s.abortWithError(c, common.ErrorInternal)
			}
		}()
		c.Next()
	}
}
