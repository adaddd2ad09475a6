package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Window starts are reported the way the dashboard expects them:
// a bare date for calendar windows, a full timestamp for the rolling one.
const windowDateLayout = time.DateOnly

func (h *handlerImpl) HandleDailyHours(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	summary, err := h.summaries.DailyHours(c, userID)
	if err != nil {
		abortServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":        summary.WindowStart.Format(windowDateLayout),
		"total_hours": summary.TotalHours,
	})
}

func (h *handlerImpl) HandleWeeklyHours(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	summary, err := h.summaries.WeeklyHours(c, userID)
	if err != nil {
		abortServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"week_start":  summary.WindowStart.Format(windowDateLayout),
		"total_hours": summary.TotalHours,
	})
}

func (h *handlerImpl) HandleDailyTasks(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	summary, err := h.summaries.DailyCompleted(c, userID)
	if err != nil {
		abortServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":        summary.WindowStart.Format(windowDateLayout),
		"total_tasks": summary.TotalTasks,
	})
}

func (h *handlerImpl) HandleWeeklyTasks(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	summary, err := h.summaries.WeeklyCompleted(c, userID)
	if err != nil {
		abortServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"week_start":  summary.WindowStart.Format(windowDateLayout),
		"total_tasks": summary.TotalTasks,
	})
}

// HandleWeeklyReport serves the rolling last-7-days report. The window
// here is now minus 7*24h, not the calendar week the /summary routes use.
func (h *handlerImpl) HandleWeeklyReport(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	report, err := h.summaries.WeeklyReport(c, userID)
	if err != nil {
		abortServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"since":           report.Since.Format(time.RFC3339),
		"total_completed": report.TotalCompleted,
		"total_hours":     report.TotalHours,
	})
}

func (h *handlerImpl) HandleChart(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	chart, err := h.summaries.ChartData(c, userID)
	if err != nil {
		abortServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":             chart.Date.Format(windowDateLayout),
		"week_start":       chart.WeekStart.Format(windowDateLayout),
		"daily_hours":      chart.DailyHours,
		"weekly_hours":     chart.WeeklyHours,
		"daily_completed":  chart.DailyCompleted,
		"weekly_completed": chart.WeeklyCompleted,
	})
}
