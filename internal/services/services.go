package services

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"tasktrack/internal/models"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrUserAlreadyExists    = errors.New("user already exists")
	ErrUserPasswordMismatch = errors.New("user password mismatch")
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionExpired       = errors.New("session expired")
	ErrTaskNotFound         = errors.New("task not found")
	ErrTaskForbidden        = errors.New("task belongs to another user")
	ErrTaskValidation       = errors.New("task validation failed")
)

type AuthService interface {
	// Register creates a user with the given username and password.
	//
	// It hashes the password, generates a unique ID and creates a
	// session with the given fingerprint and a fresh JWT token pair.
	//
	// It returns ErrUserAlreadyExists if the username is taken.
	Register(ctx context.Context, params CredentialsParams) (*AuthResult, error)

	// Login authenticates the user by username and password.
	//
	// It deletes all sessions with the same user ID and creates
	// a new session and generates a new JWT token pair.
	//
	// It returns ErrUserNotFound if the user with the given
	// username doesn't exist or ErrUserPasswordMismatch if the
	// given password doesn't match the user's password.
	Login(ctx context.Context, params CredentialsParams) (*AuthResult, error)

	// Refresh updates the session with the given refresh token.
	//
	// It returns ErrSessionNotFound if the session with the
	// given refresh token doesn't exist or ErrSessionExpired
	// if the session is expired.
	Refresh(ctx context.Context, params RefreshParams) (*AuthResult, error)

	// Logout invalidates all sessions with the given user ID.
	Logout(ctx context.Context, userID string) error

	// ParseJWTToken parses the given JWT token and returns the registered
	// claims or jwt.ErrTokenExpired if the token is expired.
	ParseJWTToken(token string) (*jwt.RegisteredClaims, error)
}

type SessionService interface {
	GetSessionByID(ctx context.Context, sessionID string) (*models.Session, error)
}

// TaskService is the task record store. Every operation is scoped to the
// owning user; a task that exists but belongs to someone else yields
// ErrTaskForbidden, a task that doesn't exist at all yields ErrTaskNotFound.
type TaskService interface {
	// CreateTask persists a new task for the owner. It returns
	// ErrTaskValidation if the title or category is empty, or
	// timecalc.ErrInvalidTimestamp if the deadline doesn't parse;
	// nothing is persisted on failure.
	CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error)

	GetTask(ctx context.Context, userID string, taskID int64) (*models.Task, error)

	// ListTasks returns all of the owner's tasks in creation order. A
	// non-empty titleFilter restricts the result to tasks whose title
	// contains it, case-insensitively.
	ListTasks(ctx context.Context, userID, titleFilter string) ([]*models.Task, error)

	// UpdateTask applies a partial update: nil fields keep their prior
	// values. For the timestamp fields an empty string clears the column
	// and a non-empty value must parse, or the whole update is rejected
	// with timecalc.ErrInvalidTimestamp.
	UpdateTask(ctx context.Context, params UpdateTaskParams) (*models.Task, error)

	DeleteTask(ctx context.Context, userID string, taskID int64) error

	// StartTask stamps start_time with the current time, overwriting any
	// prior value. EndTask does the same for end_time. CompleteTask sets
	// completed and is idempotent; there is no way back to incomplete.
	StartTask(ctx context.Context, userID string, taskID int64) (*models.Task, error)
	EndTask(ctx context.Context, userID string, taskID int64) (*models.Task, error)
	CompleteTask(ctx context.Context, userID string, taskID int64) (*models.Task, error)
}

// SummaryService computes the windowed aggregates. Daily windows start at
// midnight UTC of the current date, weekly windows at the most recent
// Monday 00:00 UTC. WeeklyReport uses a rolling last-7-days window
// instead; the two week definitions are distinct on purpose.
type SummaryService interface {
	DailyHours(ctx context.Context, userID string) (*HoursSummary, error)
	WeeklyHours(ctx context.Context, userID string) (*HoursSummary, error)
	DailyCompleted(ctx context.Context, userID string) (*CompletedSummary, error)
	WeeklyCompleted(ctx context.Context, userID string) (*CompletedSummary, error)
	WeeklyReport(ctx context.Context, userID string) (*WeeklyReport, error)
	ChartData(ctx context.Context, userID string) (*ChartData, error)
}

type CredentialsParams struct {
	Username    string
	Password    string
	Fingerprint string
}

type AuthResult struct {
	UserID                string
	SessionID             string
	AccessToken           string
	AccessTokenExpiresAt  time.Time
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
}

type RefreshParams struct {
	RefreshToken string
	Fingerprint  string
}

type CreateTaskParams struct {
	UserID      string
	Title       string
	Description string
	Category    string
	Priority    string
	// Deadline is the raw client value; empty means no deadline.
	Deadline string
}

type UpdateTaskParams struct {
	ID     int64
	UserID string

	Title       *string
	Description *string
	Category    *string
	Priority    *string
	Completed   *bool
	Progress    *int

	// Raw timestamp values: nil leaves the column alone,
	// an empty string clears it.
	Deadline  *string
	StartTime *string
	EndTime   *string
}

type HoursSummary struct {
	WindowStart time.Time
	TotalHours  float64
}

type CompletedSummary struct {
	WindowStart time.Time
	TotalTasks  int
}

// WeeklyReport aggregates the rolling last-7-days window: among tasks
// started in the window, how many are completed and how many hours they
// add up to.
type WeeklyReport struct {
	Since          time.Time
	TotalCompleted int
	TotalHours     float64
}

type ChartData struct {
	Date            time.Time
	WeekStart       time.Time
	DailyHours      float64
	WeeklyHours     float64
	DailyCompleted  int
	WeeklyCompleted int
}
