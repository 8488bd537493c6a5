package handlers

import (
	"net/http"
	"time"

	"project-management-api/internal/metrics"

	"github.com/gin-gonic/gin"
)

// GetReport handles GET /api/reports
// Query params: projectId, userId, status, priority, startDate, endDate (YYYY-MM-DD), minProgress, maxProgress.
func (h *Handler) GetReport(c *gin.Context) {
	var f metrics.ReportFilters
	if err := c.ShouldBindQuery(&f); err != nil {
		badRequest(c, "Invalid report filters")
		return
	}
	if f.Status != "" && !f.Status.Valid() {
		badRequest(c, "Unknown status")
		return
	}
	if f.Priority != "" && !f.Priority.Valid() {
		badRequest(c, "Unknown priority")
		return
	}
	// a bare end date includes the whole day
	if !f.EndDate.IsZero() {
		f.EndDate = f.EndDate.Add(24*time.Hour - time.Nanosecond)
	}
	if !f.StartDate.IsZero() && !f.EndDate.IsZero() && f.EndDate.Before(f.StartDate) {
		badRequest(c, "endDate must not be before startDate")
		return
	}

	snap, err := h.Store.Snapshot(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	report := metrics.GenerateReport(snap, f, h.now())
	c.JSON(http.StatusOK, gin.H{
		"tasks":           viewTasks(report.Tasks),
		"count":           len(report.Tasks),
		"distribution":    report.Distribution,
		"percent":         report.Percent,
		"projects":        report.Projects,
		"members":         report.Members,
		"recentCompleted": viewTasks(report.RecentCompleted),
		"generatedAt":     report.GeneratedAt,
		"filters":         report.Filters,
	})
}
