package v1

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"tasktrack/internal/models"
	"tasktrack/internal/services"
)

type taskResponse struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Priority    string  `json:"priority"`
	Deadline    *string `json:"deadline"`
	StartTime   *string `json:"start_time"`
	EndTime     *string `json:"end_time"`
	Completed   bool    `json:"completed"`
	Progress    int     `json:"progress"`
	CreatedAt   string  `json:"created_at"`
}

func newTaskResponse(task *models.Task) taskResponse {
	return taskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Category:    task.Category,
		Priority:    task.Priority,
		Deadline:    isoTimestamp(task.Deadline),
		StartTime:   isoTimestamp(task.StartTime),
		EndTime:     isoTimestamp(task.EndTime),
		Completed:   task.Completed,
		Progress:    task.Progress,
		CreatedAt:   task.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func isoTimestamp(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}

func taskIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		abort(c, newBadRequestError(errInvalidTaskID.Error()))
		return 0, false
	}
	return id, true
}

func (h *handlerImpl) listTasks(c *gin.Context) ([]taskResponse, bool) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return nil, false
	}

	tasks, err := h.tasks.ListTasks(c, userID, c.Query("search"))
	if err != nil {
		abortServiceError(c, err)
		return nil, false
	}

	response := make([]taskResponse, len(tasks))
	for i, task := range tasks {
		response[i] = newTaskResponse(task)
	}
	return response, true
}

// HandleDashboard serves GET / with the optional ?search= title filter.
func (h *handlerImpl) HandleDashboard(c *gin.Context) {
	tasks, ok := h.listTasks(c)
	if !ok {
		return
	}

	h.logger.Info().
		Int("count", len(tasks)).
		Msg("fetched dashboard tasks")
	c.JSON(http.StatusOK, gin.H{
		"tasks":        tasks,
		"search_query": c.Query("search"),
	})
}

// HandleListTasksAPI serves GET /api/tasks as a bare array of records.
func (h *handlerImpl) HandleListTasksAPI(c *gin.Context) {
	tasks, ok := h.listTasks(c)
	if !ok {
		return
	}

	h.logger.Info().
		Int("count", len(tasks)).
		Msg("fetched tasks")
	c.JSON(http.StatusOK, tasks)
}

type createTaskRequest struct {
	Title       string `json:"title" form:"title" binding:"required,max=200"`
	Description string `json:"description" form:"description" binding:"max=500"`
	Category    string `json:"category" form:"category" binding:"required,max=50"`
	Priority    string `json:"priority" form:"priority" binding:"max=20"`
	Deadline    string `json:"deadline" form:"deadline"`
}

func (h *handlerImpl) HandleCreateTask(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	var req createTaskRequest
	err := c.ShouldBind(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind request body")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	task, err := h.tasks.CreateTask(c, services.CreateTaskParams{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Priority:    req.Priority,
		Deadline:    req.Deadline,
	})
	if err != nil {
		abortServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newTaskResponse(task))
}

type updateTaskRequest struct {
	Title       *string `json:"title,omitempty" form:"title"`
	Description *string `json:"description,omitempty" form:"description"`
	Category    *string `json:"category,omitempty" form:"category"`
	Priority    *string `json:"priority,omitempty" form:"priority"`
	Completed   *bool   `json:"completed,omitempty" form:"completed"`
	Progress    *int    `json:"progress,omitempty" form:"progress"`
	Deadline    *string `json:"deadline,omitempty" form:"deadline"`
	StartTime   *string `json:"start_time,omitempty" form:"start_time"`
	EndTime     *string `json:"end_time,omitempty" form:"end_time"`
}

func (h *handlerImpl) updateTask(c *gin.Context) (*models.Task, bool) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return nil, false
	}

	taskID, ok := taskIDParam(c)
	if !ok {
		return nil, false
	}

	var req updateTaskRequest
	err := c.ShouldBind(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind request body")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return nil, false
	}

	task, err := h.tasks.UpdateTask(c, services.UpdateTaskParams{
		ID:          taskID,
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Priority:    req.Priority,
		Completed:   req.Completed,
		Progress:    req.Progress,
		Deadline:    req.Deadline,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
	})
	if err != nil {
		abortServiceError(c, err)
		return nil, false
	}
	return task, true
}

// HandleUpdateTask serves the browser-shaped POST /task/:id/update.
func (h *handlerImpl) HandleUpdateTask(c *gin.Context) {
	task, ok := h.updateTask(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, newTaskResponse(task))
}

// HandleUpdateTaskAPI serves PUT /api/tasks/:id and answers with a
// confirmation message rather than the record.
func (h *handlerImpl) HandleUpdateTaskAPI(c *gin.Context) {
	_, ok := h.updateTask(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task updated successfully via API."})
}

func (h *handlerImpl) HandleDeleteTask(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}

	err := h.tasks.DeleteTask(c, userID, taskID)
	if err != nil {
		abortServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

func (h *handlerImpl) markTask(
	c *gin.Context,
	mark func(userID string, taskID int64) (*models.Task, error),
) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}

	task, err := mark(userID, taskID)
	if err != nil {
		abortServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, newTaskResponse(task))
}

// HandleStartTask stamps start_time with the current moment, overwriting
// any earlier stamp. HandleEndTask does the same for end_time.
func (h *handlerImpl) HandleStartTask(c *gin.Context) {
	h.markTask(c, func(userID string, taskID int64) (*models.Task, error) {
		return h.tasks.StartTask(c, userID, taskID)
	})
}

func (h *handlerImpl) HandleEndTask(c *gin.Context) {
	h.markTask(c, func(userID string, taskID int64) (*models.Task, error) {
		return h.tasks.EndTask(c, userID, taskID)
	})
}

func (h *handlerImpl) HandleCompleteTask(c *gin.Context) {
	h.markTask(c, func(userID string, taskID int64) (*models.Task, error) {
		return h.tasks.CompleteTask(c, userID, taskID)
	})
}
