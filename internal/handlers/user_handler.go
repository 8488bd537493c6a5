package handlers

import (
	"net/http"

	"project-management-api/internal/lifecycle"
	"project-management-api/internal/models"

	"github.com/gin-gonic/gin"
)

// CreateMemberRequest is the payload of POST /api/users
type CreateMemberRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ListUsers returns all users, optionally narrowed by role
// GET /api/users?role=team_member
func (h *Handler) ListUsers(c *gin.Context) {
	role := models.Role(c.Query("role"))
	if role != "" && !role.Valid() {
		badRequest(c, "Unknown role")
		return
	}
	users, err := h.Store.ListUsers(c.Request.Context(), role)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"count": len(users),
	})
}

// CreateTeamMember lets a manager add a team member
// POST /api/users
func (h *Handler) CreateTeamMember(c *gin.Context) {
	var req CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request. Name, email and password are required.")
		return
	}
	user, err := h.Engine.AddTeamMember(c.Request.Context(), lifecycle.NewUser{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}
