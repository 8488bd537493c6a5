package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"project-management-api/internal/auth"
	"project-management-api/internal/lifecycle"
	"project-management-api/internal/models"
	"project-management-api/internal/realtime"
	"project-management-api/internal/store"

	"github.com/gin-gonic/gin"
)

// Handler holds the dependencies shared by every endpoint.
type Handler struct {
	Engine *lifecycle.Engine
	Store  *store.Store
	Auth   *auth.Issuer
	Hub    *realtime.Hub
	Logger *slog.Logger
	Now    func() time.Time
}

// New wires a handler set.
func New(engine *lifecycle.Engine, s *store.Store, issuer *auth.Issuer, hub *realtime.Hub, logger *slog.Logger) *Handler {
	return &Handler{Engine: engine, Store: s, Auth: issuer, Hub: hub, Logger: logger, Now: time.Now}
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now().UTC()
	}
	return time.Now().UTC()
}

// respondError maps core errors to HTTP status codes.
func (h *Handler) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, lifecycle.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, store.ErrDuplicate):
		status = http.StatusConflict
	case errors.Is(err, lifecycle.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, auth.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	}
	if status == http.StatusInternalServerError {
		h.Logger.ErrorContext(c.Request.Context(), "request failed",
			"method", c.Request.Method, "path", c.FullPath(), "error", err)
		c.JSON(status, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

func forbidden(c *gin.Context) {
	c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
}

// TaskView is a task as the API renders it.
type TaskView struct {
	models.Task
	DisplayState models.DisplayState `json:"displayState"`
}

func viewTask(t models.Task) TaskView {
	return TaskView{Task: t, DisplayState: models.DisplayStatus(t)}
}

func viewTasks(tasks []models.Task) []TaskView {
	out := make([]TaskView, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, viewTask(t))
	}
	return out
}

func warningStrings(warnings []error) []string {
	out := make([]string, 0, len(warnings))
	for _, w := range warnings {
		out = append(out, w.Error())
	}
	return out
}

func respondTaskResult(c *gin.Context, status int, res lifecycle.TaskResult) {
	c.JSON(status, gin.H{
		"task":     viewTask(res.Task),
		"applied":  res.Applied,
		"warnings": warningStrings(res.Warnings),
	})
}

func parseDateFlexible(dateStr string) (time.Time, bool) {
	if dateStr == "" {
		return time.Time{}, false
	}
	layouts := []string{
		"2006-01-02",  // ISO date
		"2 Jan 2006",  // e.g., 30 Oct 2025
		time.RFC3339,  // full RFC3339
		"02 Jan 2006", // zero-padded day
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, dateStr); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// parseDeadline accepts an empty string as "no deadline".
func parseDeadline(s *string) (*time.Time, bool) {
	if s == nil || *s == "" {
		return nil, true
	}
	t, ok := parseDateFlexible(*s)
	if !ok {
		return nil, false
	}
	return &t, true
}
