package handlers

import (
	"net/http"
	"slices"
	"strconv"
	"strings"

	"project-management-api/internal/lifecycle"
	"project-management-api/internal/middleware"
	"project-management-api/internal/models"
	"project-management-api/internal/store"

	"github.com/gin-gonic/gin"
)

// CreateTaskRequest represents the request payload for creating a task
type CreateTaskRequest struct {
	Title       string          `json:"title" binding:"required"`
	Description string          `json:"description"`
	ProjectID   string          `json:"projectId" binding:"required"`
	AssignedTo  string          `json:"assignedTo"`
	Priority    models.Priority `json:"priority"`
	Deadline    *string         `json:"deadline"`
}

// RejectTaskRequest carries an optional reason
type RejectTaskRequest struct {
	Reason string `json:"reason"`
}

// AssignTaskRequest names the new assignee
type AssignTaskRequest struct {
	UserID string `json:"userId" binding:"required"`
}

// UpdateProgressRequest carries the new progress. A pointer keeps 0 distinguishable from missing.
type UpdateProgressRequest struct {
	Progress *int `json:"progress" binding:"required"`
}

// CreateCommentRequest carries a comment body
type CreateCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

/*
*
ListTasks handles GET /api/tasks
Optional query params: status, projectId, assignedTo, page, limit (max 100), sort (asc|desc on created_at).
Without page/limit every matching task is returned.
*/
func (h *Handler) ListTasks(c *gin.Context) {
	status := models.TaskStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		badRequest(c, "Unknown status")
		return
	}
	tasks, err := h.Store.ListTasks(c.Request.Context(), store.TaskQuery{
		ProjectID:  c.Query("projectId"),
		AssignedTo: c.Query("assignedTo"),
		Status:     status,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondTaskPage(c, tasks)
}

// MyTasks handles GET /api/tasks/mine
func (h *Handler) MyTasks(c *gin.Context) {
	tasks, err := h.Store.ListTasks(c.Request.Context(), store.TaskQuery{AssignedTo: middleware.CurrentUserID(c)})
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondTaskPage(c, tasks)
}

func respondTaskPage(c *gin.Context, tasks []models.Task) {
	if strings.ToLower(c.DefaultQuery("sort", "asc")) == "desc" {
		tasks = slices.Clone(tasks)
		slices.Reverse(tasks)
	}
	total := len(tasks)

	_, paged := c.GetQuery("limit")
	if _, ok := c.GetQuery("page"); ok {
		paged = true
	}
	if !paged {
		c.JSON(http.StatusOK, gin.H{"tasks": viewTasks(tasks), "count": total})
		return
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "5"))
	if err != nil || limit < 1 {
		limit = 5
	}
	if limit > 100 {
		limit = 100
	}
	start := min((page-1)*limit, total)
	end := min(start+limit, total)
	totalPages := (total + limit - 1) / limit

	c.JSON(http.StatusOK, gin.H{
		"tasks": viewTasks(tasks[start:end]),
		"count": end - start,
		"pagination": gin.H{
			"page":       page,
			"limit":      limit,
			"total":      total,
			"totalPages": totalPages,
			"hasNext":    page < totalPages,
			"hasPrev":    page > 1,
		},
	})
}

// GetTask handles GET /api/tasks/:id
func (h *Handler) GetTask(c *gin.Context) {
	ctx := c.Request.Context()
	task, err := h.Store.GetTask(ctx, c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	comments, err := h.Store.ListComments(ctx, task.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": viewTask(task), "comments": comments})
}

// CreateTask handles POST /api/tasks. Managers create approved tasks; team
// members suggest pending ones.
func (h *Handler) CreateTask(c *gin.Context) {
	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request. Title and projectId are required.")
		return
	}
	deadline, ok := parseDeadline(req.Deadline)
	if !ok {
		badRequest(c, "Invalid deadline")
		return
	}
	assignee := req.AssignedTo
	if middleware.CurrentRole(c) != models.RoleManager {
		// suggestions are assigned by the manager on approval
		assignee = ""
	}
	res, err := h.Engine.AddTask(c.Request.Context(), lifecycle.NewTask{
		Title:       req.Title,
		Description: req.Description,
		ProjectID:   req.ProjectID,
		CreatedBy:   middleware.CurrentUserID(c),
		AssignedTo:  assignee,
		Priority:    req.Priority,
		Deadline:    deadline,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondTaskResult(c, http.StatusCreated, res)
}

// ApproveTask handles POST /api/tasks/:id/approve
func (h *Handler) ApproveTask(c *gin.Context) {
	res, err := h.Engine.ApproveTask(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondTaskResult(c, http.StatusOK, res)
}

// RejectTask handles POST /api/tasks/:id/reject
func (h *Handler) RejectTask(c *gin.Context) {
	var req RejectTaskRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Invalid request body")
			return
		}
	}
	res, err := h.Engine.RejectTask(c.Request.Context(), c.Param("id"), req.Reason)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondTaskResult(c, http.StatusOK, res)
}

// AssignTask handles POST /api/tasks/:id/assign
func (h *Handler) AssignTask(c *gin.Context) {
	var req AssignTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request. userId is required.")
		return
	}
	res, err := h.Engine.AssignTask(c.Request.Context(), c.Param("id"), req.UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondTaskResult(c, http.StatusOK, res)
}

// UpdateTaskProgress handles PATCH /api/tasks/:id/progress. Only the assignee
// or a manager may report progress.
func (h *Handler) UpdateTaskProgress(c *gin.Context) {
	var req UpdateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request. progress is required.")
		return
	}
	ctx := c.Request.Context()
	task, err := h.Store.GetTask(ctx, c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	if middleware.CurrentRole(c) != models.RoleManager && !task.IsAssignedTo(middleware.CurrentUserID(c)) {
		forbidden(c)
		return
	}
	res, err := h.Engine.UpdateTaskProgress(ctx, task.ID, *req.Progress)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondTaskResult(c, http.StatusOK, res)
}

// DeleteTask handles DELETE /api/tasks/:id
func (h *Handler) DeleteTask(c *gin.Context) {
	if err := h.Engine.DeleteTask(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

// ListComments handles GET /api/tasks/:id/comments
func (h *Handler) ListComments(c *gin.Context) {
	ctx := c.Request.Context()
	if _, err := h.Store.GetTask(ctx, c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	comments, err := h.Store.ListComments(ctx, c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": comments, "count": len(comments)})
}

// CreateComment handles POST /api/tasks/:id/comments
func (h *Handler) CreateComment(c *gin.Context) {
	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request. content is required.")
		return
	}
	res, err := h.Engine.AddComment(c.Request.Context(), c.Param("id"), middleware.CurrentUserID(c), req.Content)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"comment": res.Comment, "warnings": warningStrings(res.Warnings)})
}
