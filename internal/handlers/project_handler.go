package handlers

import (
	"net/http"

	"project-management-api/internal/lifecycle"
	"project-management-api/internal/metrics"
	"project-management-api/internal/middleware"
	"project-management-api/internal/models"
	"project-management-api/internal/store"

	"github.com/gin-gonic/gin"
)

// CreateProjectRequest represents the request payload for creating a project
type CreateProjectRequest struct {
	Name        string               `json:"name" binding:"required"`
	Description string               `json:"description"`
	Status      models.ProjectStatus `json:"status"`
	Priority    models.Priority      `json:"priority"`
	Deadline    *string              `json:"deadline"`
}

// UpdateProjectRequest represents the request payload for updating a project.
// An empty deadline string clears the deadline.
type UpdateProjectRequest struct {
	Name        *string               `json:"name"`
	Description *string               `json:"description"`
	Status      *models.ProjectStatus `json:"status"`
	Priority    *models.Priority      `json:"priority"`
	Deadline    *string               `json:"deadline"`
}

// ProjectView is a project with its task rollup.
type ProjectView struct {
	models.Project
	Progress  int `json:"progress"`
	TaskCount int `json:"taskCount"`
}

func (h *Handler) projectView(c *gin.Context, p models.Project) (ProjectView, error) {
	tasks, err := h.Store.ListTasks(c.Request.Context(), store.TaskQuery{ProjectID: p.ID})
	if err != nil {
		return ProjectView{}, err
	}
	return ProjectView{Project: p, Progress: metrics.GroupProgress(tasks), TaskCount: len(tasks)}, nil
}

// ListProjects handles GET /api/projects
// Optional query param: managerId
func (h *Handler) ListProjects(c *gin.Context) {
	projects, err := h.Store.ListProjects(c.Request.Context(), c.Query("managerId"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	views := make([]ProjectView, 0, len(projects))
	for _, p := range projects {
		v, err := h.projectView(c, p)
		if err != nil {
			h.respondError(c, err)
			return
		}
		views = append(views, v)
	}
	c.JSON(http.StatusOK, gin.H{"projects": views, "count": len(views)})
}

// CreateProject handles POST /api/projects. The caller becomes the manager.
func (h *Handler) CreateProject(c *gin.Context) {
	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request. Name is required.")
		return
	}
	deadline, ok := parseDeadline(req.Deadline)
	if !ok {
		badRequest(c, "Invalid deadline")
		return
	}
	p, err := h.Engine.AddProject(c.Request.Context(), lifecycle.NewProject{
		Name:        req.Name,
		Description: req.Description,
		ManagerID:   middleware.CurrentUserID(c),
		Status:      req.Status,
		Priority:    req.Priority,
		Deadline:    deadline,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ProjectView{Project: p})
}

// GetProject handles GET /api/projects/:id
func (h *Handler) GetProject(c *gin.Context) {
	p, err := h.Store.GetProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	v, err := h.projectView(c, p)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// UpdateProject handles PUT /api/projects/:id
func (h *Handler) UpdateProject(c *gin.Context) {
	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	upd := lifecycle.ProjectUpdate{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
	}
	if req.Deadline != nil {
		deadline, ok := parseDeadline(req.Deadline)
		if !ok {
			badRequest(c, "Invalid deadline")
			return
		}
		upd.Deadline = deadline
		upd.ClearDeadline = deadline == nil
	}

	res, err := h.Engine.UpdateProject(c.Request.Context(), c.Param("id"), upd)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": res.Project, "applied": res.Applied})
}

// DeleteProject handles DELETE /api/projects/:id
func (h *Handler) DeleteProject(c *gin.Context) {
	if err := h.Engine.DeleteProject(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Project deleted successfully"})
}

// ListProjectTasks handles GET /api/projects/:id/tasks
func (h *Handler) ListProjectTasks(c *gin.Context) {
	ctx := c.Request.Context()
	p, err := h.Store.GetProject(ctx, c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	tasks, err := h.Store.ListTasks(ctx, store.TaskQuery{ProjectID: p.ID})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"tasks":        viewTasks(tasks),
		"count":        len(tasks),
		"progress":     metrics.GroupProgress(tasks),
		"distribution": metrics.Distribute(tasks),
	})
}
