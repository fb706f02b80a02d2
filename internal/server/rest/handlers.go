package rest

import (
	"net/http"

	"github.com/dmitrijs2005/tasktracker/internal/common"
	"github.com/gin-gonic/gin"
)

func (s *Server) bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		s.writeError(c, common.NewValidationError("body", "is not valid JSON"))
		return false
	}
	return true
}

func (s *Server) register(c *gin.Context) {
	var req registerRequest
	if !s.bindJSON(c, &req) {
		return
	}

	u, err := s.users.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newUserResponse(u))
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if !s.bindJSON(c, &req) {
		return
	}

	res, err := s.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, loginResponse{
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
		User:      newUserResponse(res.User),
	})
}

func (s *Server) me(c *gin.Context) {
	u, err := s.users.Profile(c.Request.Context(), callerID(c))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserResponse(u))
}

func (s *Server) listTasks(c *gin.Context) {
	list, err := s.tasks.List(c.Request.Context(), callerID(c))
	if err != nil {
		s.writeError(c, err)
		return
	}

	out := make([]taskResponse, 0, len(list))
	for _, t := range list {
		out = append(out, newTaskResponse(t))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) createTask(c *gin.Context) {
	var req taskRequest
	if !s.bindJSON(c, &req) {
		return
	}
	in, err := req.toNewTask()
	if err != nil {
		s.writeError(c, err)
		return
	}

	t, err := s.tasks.Create(c.Request.Context(), callerID(c), in)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newTaskResponse(t))
}

func (s *Server) getTask(c *gin.Context) {
	t, err := s.tasks.Get(c.Request.Context(), callerID(c), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newTaskResponse(t))
}

func (s *Server) updateTask(c *gin.Context) {
	var req taskRequest
	if !s.bindJSON(c, &req) {
		return
	}
	patch, err := req.toPatch()
	if err != nil {
		s.writeError(c, err)
		return
	}

	t, err := s.tasks.Update(c.Request.Context(), callerID(c), c.Param("id"), patch)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newTaskResponse(t))
}

func (s *Server) deleteTask(c *gin.Context) {
	if err := s.tasks.Delete(c.Request.Context(), callerID(c), c.Param("id")); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Task deleted successfully"})
}

// completeTask ignores the request body; only the status changes.
func (s *Server) completeTask(c *gin.Context) {
	t, err := s.tasks.Complete(c.Request.Context(), callerID(c), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newTaskResponse(t))
}
