package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hupe1980/agentnet/core"
)

// statusOf maps the error taxonomy onto HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrAlreadyExists), errors.Is(err, core.ErrPreconditionFailed):
		return http.StatusConflict
	case errors.Is(err, core.ErrCycleDetected):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(c *gin.Context, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		s.opts.Logger.Error("server.request.error", "path", c.FullPath(), "error", err.Error())
	}

	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
