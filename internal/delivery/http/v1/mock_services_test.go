package v1

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"tasktrack/internal/models"
	"tasktrack/internal/services"
)

// Hand-rolled stubs for the service interfaces. Each method delegates to
// an optional function field so a test only wires what it exercises.

type mockAuthService struct {
	registerFn func(ctx context.Context, params services.CredentialsParams) (*services.AuthResult, error)
	loginFn    func(ctx context.Context, params services.CredentialsParams) (*services.AuthResult, error)
	refreshFn  func(ctx context.Context, params services.RefreshParams) (*services.AuthResult, error)
	logoutFn   func(ctx context.Context, userID string) error
	parseFn    func(token string) (*jwt.RegisteredClaims, error)
}

func (m *mockAuthService) Register(ctx context.Context, params services.CredentialsParams) (*services.AuthResult, error) {
	return m.registerFn(ctx, params)
}

func (m *mockAuthService) Login(ctx context.Context, params services.CredentialsParams) (*services.AuthResult, error) {
	return m.loginFn(ctx, params)
}

func (m *mockAuthService) Refresh(ctx context.Context, params services.RefreshParams) (*services.AuthResult, error) {
	return m.refreshFn(ctx, params)
}

func (m *mockAuthService) Logout(ctx context.Context, userID string) error {
	return m.logoutFn(ctx, userID)
}

func (m *mockAuthService) ParseJWTToken(token string) (*jwt.RegisteredClaims, error) {
	return m.parseFn(token)
}

type mockSessionService struct {
	getFn func(ctx context.Context, sessionID string) (*models.Session, error)
}

func (m *mockSessionService) GetSessionByID(ctx context.Context, sessionID string) (*models.Session, error) {
	return m.getFn(ctx, sessionID)
}

type mockTaskService struct {
	createFn   func(ctx context.Context, params services.CreateTaskParams) (*models.Task, error)
	getFn      func(ctx context.Context, userID string, taskID int64) (*models.Task, error)
	listFn     func(ctx context.Context, userID, titleFilter string) ([]*models.Task, error)
	updateFn   func(ctx context.Context, params services.UpdateTaskParams) (*models.Task, error)
	deleteFn   func(ctx context.Context, userID string, taskID int64) error
	startFn    func(ctx context.Context, userID string, taskID int64) (*models.Task, error)
	endFn      func(ctx context.Context, userID string, taskID int64) (*models.Task, error)
	completeFn func(ctx context.Context, userID string, taskID int64) (*models.Task, error)
}

func (m *mockTaskService) CreateTask(ctx context.Context, params services.CreateTaskParams) (*models.Task, error) {
	return m.createFn(ctx, params)
}

func (m *mockTaskService) GetTask(ctx context.Context, userID string, taskID int64) (*models.Task, error) {
	return m.getFn(ctx, userID, taskID)
}

func (m *mockTaskService) ListTasks(ctx context.Context, userID, titleFilter string) ([]*models.Task, error) {
	return m.listFn(ctx, userID, titleFilter)
}

func (m *mockTaskService) UpdateTask(ctx context.Context, params services.UpdateTaskParams) (*models.Task, error) {
	return m.updateFn(ctx, params)
}

func (m *mockTaskService) DeleteTask(ctx context.Context, userID string, taskID int64) error {
	return m.deleteFn(ctx, userID, taskID)
}

func (m *mockTaskService) StartTask(ctx context.Context, userID string, taskID int64) (*models.Task, error) {
	return m.startFn(ctx, userID, taskID)
}

func (m *mockTaskService) EndTask(ctx context.Context, userID string, taskID int64) (*models.Task, error) {
	return m.endFn(ctx, userID, taskID)
}

func (m *mockTaskService) CompleteTask(ctx context.Context, userID string, taskID int64) (*models.Task, error) {
	return m.completeFn(ctx, userID, taskID)
}

type mockSummaryService struct {
	dailyHoursFn      func(ctx context.Context, userID string) (*services.HoursSummary, error)
	weeklyHoursFn     func(ctx context.Context, userID string) (*services.HoursSummary, error)
	dailyCompletedFn  func(ctx context.Context, userID string) (*services.CompletedSummary, error)
	weeklyCompletedFn func(ctx context.Context, userID string) (*services.CompletedSummary, error)
	weeklyReportFn    func(ctx context.Context, userID string) (*services.WeeklyReport, error)
	chartDataFn       func(ctx context.Context, userID string) (*services.ChartData, error)
}

func (m *mockSummaryService) DailyHours(ctx context.Context, userID string) (*services.HoursSummary, error) {
	return m.dailyHoursFn(ctx, userID)
}

func (m *mockSummaryService) WeeklyHours(ctx context.Context, userID string) (*services.HoursSummary, error) {
	return m.weeklyHoursFn(ctx, userID)
}

func (m *mockSummaryService) DailyCompleted(ctx context.Context, userID string) (*services.CompletedSummary, error) {
	return m.dailyCompletedFn(ctx, userID)
}

func (m *mockSummaryService) WeeklyCompleted(ctx context.Context, userID string) (*services.CompletedSummary, error) {
	return m.weeklyCompletedFn(ctx, userID)
}

func (m *mockSummaryService) WeeklyReport(ctx context.Context, userID string) (*services.WeeklyReport, error) {
	return m.weeklyReportFn(ctx, userID)
}

func (m *mockSummaryService) ChartData(ctx context.Context, userID string) (*services.ChartData, error) {
	return m.chartDataFn(ctx, userID)
}

// forceUser stands in for the auth middleware on routes where the test
// isn't about authentication.
func forceUser(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(userIDCtxKey, userID)
		c.Next()
	}
}

func newTestHandler(
	auth services.AuthService,
	sessions services.SessionService,
	tasks services.TaskService,
	summaries services.SummaryService,
) *handlerImpl {
	return &handlerImpl{
		logger:    zerolog.Nop(),
		auth:      auth,
		sessions:  sessions,
		tasks:     tasks,
		summaries: summaries,
	}
}
