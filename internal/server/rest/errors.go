package rest

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/tasktracker/internal/common"
	"github.com/gin-gonic/gin"
)

// Error categories clients can match on.
const (
	CategoryValidation         = "ValidationError"
	CategoryDuplicateEmail     = "DuplicateEmail"
	CategoryInvalidCredentials = "InvalidCredentials"
	CategoryMissingToken       = "MissingToken"
	CategoryUnauthorized       = "Unauthorized"
	CategoryForbidden          = "Forbidden"
	CategoryNotFound           = "NotFound"
	CategoryInternal           = "Internal"
)

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// describeError maps an error to its HTTP status, category and the message
// safe to show the caller.
func describeError(err error) (int, errorResponse) {
	switch {
	case errors.Is(err, common.ErrValidation):
		return http.StatusBadRequest, errorResponse{Error: CategoryValidation, Message: err.Error()}
	case errors.Is(err, common.ErrDuplicateEmail):
		return http.StatusConflict, errorResponse{Error: CategoryDuplicateEmail, Message: "User with this email already exists"}
	case errors.Is(err, common.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorResponse{Error: CategoryInvalidCredentials, Message: "Invalid email or password"}
	case errors.Is(err, common.ErrMissingToken):
		return http.StatusUnauthorized, errorResponse{Error: CategoryMissingToken, Message: "Not authorized, no token"}
	case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrTokenExpired):
		return http.StatusUnauthorized, errorResponse{Error: CategoryUnauthorized, Message: "Not authorized, token failed"}
	case errors.Is(err, common.ErrForbidden):
		return http.StatusForbidden, errorResponse{Error: CategoryForbidden, Message: "Not authorized to access this task"}
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, errorResponse{Error: CategoryNotFound, Message: "Resource not found"}
	default:
		return http.StatusInternalServerError, errorResponse{Error: CategoryInternal, Message: "Internal server error"}
	}
}

func (s *Server) writeError(c *gin.Context, err error) {
	status, body := describeError(err)
	if status == http.StatusInternalServerError && !errors.Is(err, common.ErrorInternal) {
		s.logger.Error(c.Request.Context(), "unhandled error", "path", c.Request.URL.Path, "error", err)
	}
	c.JSON(status, body)
}

func (s *Server) abortWithError(c *gin.Context, err error) {
	s.writeError(c, err)
	c.Abort()
}
