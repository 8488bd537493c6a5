package handlers

import (
	"net/http"

	"project-management-api/internal/lifecycle"
	"project-management-api/internal/models"

	"github.com/gin-gonic/gin"
)

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest represents the registration payload
type RegisterRequest struct {
	Name     string      `json:"name" binding:"required"`
	Email    string      `json:"email" binding:"required"`
	Password string      `json:"password" binding:"required"`
	Role     models.Role `json:"role"`
}

// AuthResponse is returned by login and register
type AuthResponse struct {
	Token   string      `json:"token"`
	User    models.User `json:"user"`
	Message string      `json:"message"`
}

// Login handles POST /api/login
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request. Email and password are required.")
		return
	}

	user, err := h.Engine.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.issueToken(c, http.StatusOK, user, "Login successful")
}

// Register handles POST /api/register
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request. Name, email and password are required.")
		return
	}

	user, err := h.Engine.RegisterUser(c.Request.Context(), lifecycle.NewUser{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.issueToken(c, http.StatusCreated, user, "Registration successful")
}

func (h *Handler) issueToken(c *gin.Context, status int, user models.User, msg string) {
	token, err := h.Auth.GenerateToken(user)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(status, AuthResponse{Token: token, User: user, Message: msg})
}
