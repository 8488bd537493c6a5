package handlers

import (
	"net/http"

	"project-management-api/internal/middleware"

	"github.com/gin-gonic/gin"
)

// ListNotifications handles GET /api/notifications?unread=true
func (h *Handler) ListNotifications(c *gin.Context) {
	unreadOnly := c.Query("unread") == "true"
	notes, err := h.Store.ListNotifications(c.Request.Context(), middleware.CurrentUserID(c), unreadOnly)
	if err != nil {
		h.respondError(c, err)
		return
	}
	unread := 0
	for _, n := range notes {
		if !n.Read {
			unread++
		}
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notes, "count": len(notes), "unread": unread})
}

// MarkNotificationRead handles PATCH /api/notifications/:id/read
func (h *Handler) MarkNotificationRead(c *gin.Context) {
	n, applied, err := h.Engine.MarkNotificationRead(c.Request.Context(), c.Param("id"), middleware.CurrentUserID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notification": n, "applied": applied})
}
