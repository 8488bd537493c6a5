package routes

import (
	"net/http"

	"project-management-api/internal/handlers"
	"project-management-api/internal/middleware"
	"project-management-api/internal/models"
	"project-management-api/internal/telemetry"

	"github.com/gin-gonic/gin"
)

// SetupRoutes builds the router. metrics may be nil, in which case /metrics
// answers 404.
func SetupRoutes(h *handlers.Handler, metrics *telemetry.Metrics) *gin.Engine {
	ginRouter := gin.New()
	ginRouter.Use(gin.Recovery(), requestLogger(h))

	// CORS middleware (for frontend integration)
	ginRouter.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Project Management API is running",
		})
	})
	ginRouter.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Public routes (no authentication required)
	api := ginRouter.Group("/api")
	{
		api.POST("/login", h.Login)
		api.POST("/register", h.Register)
	}

	// Protected routes (authentication required)
	protected := api.Group("")
	protected.Use(middleware.JWTAuthMiddleware(h.Auth))
	managerOnly := middleware.RequireRole(models.RoleManager)
	{
		protected.GET("/users", h.ListUsers)
		protected.POST("/users", managerOnly, h.CreateTeamMember)

		protected.GET("/projects", h.ListProjects)
		protected.POST("/projects", managerOnly, h.CreateProject)
		protected.GET("/projects/:id", h.GetProject)
		protected.PUT("/projects/:id", managerOnly, h.UpdateProject)
		protected.DELETE("/projects/:id", managerOnly, h.DeleteProject)
		protected.GET("/projects/:id/tasks", h.ListProjectTasks)

		protected.GET("/tasks", h.ListTasks)
		protected.GET("/tasks/mine", h.MyTasks)
		protected.GET("/tasks/:id", h.GetTask)
		protected.POST("/tasks", h.CreateTask)
		protected.POST("/tasks/:id/approve", managerOnly, h.ApproveTask)
		protected.POST("/tasks/:id/reject", managerOnly, h.RejectTask)
		protected.POST("/tasks/:id/assign", managerOnly, h.AssignTask)
		protected.PATCH("/tasks/:id/progress", h.UpdateTaskProgress)
		protected.DELETE("/tasks/:id", managerOnly, h.DeleteTask)
		protected.GET("/tasks/:id/comments", h.ListComments)
		protected.POST("/tasks/:id/comments", h.CreateComment)

		protected.GET("/notifications", h.ListNotifications)
		protected.PATCH("/notifications/:id/read", h.MarkNotificationRead)

		protected.GET("/reports", managerOnly, h.GetReport)

		protected.GET("/ws", h.WebSocket)
	}

	return ginRouter
}

func requestLogger(h *handlers.Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if h.Logger == nil {
			return
		}
		h.Logger.DebugContext(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
		)
	}
}
