package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"tasktrack/internal/services"
)

type Handler interface {
	HandleSignup(c *gin.Context)
	HandleLogin(c *gin.Context)
	HandleRefresh(c *gin.Context)
	HandleLogout(c *gin.Context)
	HandleAuthMiddleware(c *gin.Context)

	HandleDashboard(c *gin.Context)
	HandleCreateTask(c *gin.Context)
	HandleUpdateTask(c *gin.Context)
	HandleDeleteTask(c *gin.Context)
	HandleStartTask(c *gin.Context)
	HandleEndTask(c *gin.Context)
	HandleCompleteTask(c *gin.Context)
	HandleListTasksAPI(c *gin.Context)
	HandleUpdateTaskAPI(c *gin.Context)

	HandleDailyHours(c *gin.Context)
	HandleWeeklyHours(c *gin.Context)
	HandleDailyTasks(c *gin.Context)
	HandleWeeklyTasks(c *gin.Context)
	HandleWeeklyReport(c *gin.Context)
	HandleChart(c *gin.Context)
}

type handlerImpl struct {
	logger    zerolog.Logger
	auth      services.AuthService
	sessions  services.SessionService
	tasks     services.TaskService
	summaries services.SummaryService
}

func New(
	logger zerolog.Logger,
	authService services.AuthService,
	sessionService services.SessionService,
	taskService services.TaskService,
	summaryService services.SummaryService,
) Handler {
	return &handlerImpl{
		logger:    logger,
		auth:      authService,
		sessions:  sessionService,
		tasks:     taskService,
		summaries: summaryService,
	}
}
