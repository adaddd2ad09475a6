package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasktrack/internal/models"
	"tasktrack/internal/services"
	"tasktrack/internal/timecalc"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testUserID = "0191d2a6-0000-7000-8000-000000000001"

func doJSON(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestHandleCreateTask(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		createFn   func(ctx context.Context, params services.CreateTaskParams) (*models.Task, error)
		wantStatus int
	}{
		{
			name: "should create a valid task",
			body: `{"title":"Write Report","category":"Work"}`,
			createFn: func(_ context.Context, params services.CreateTaskParams) (*models.Task, error) {
				return &models.Task{
					ID:       1,
					UserID:   params.UserID,
					Title:    params.Title,
					Category: params.Category,
					Priority: models.PriorityMedium,
				}, nil
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "should reject a missing title at binding",
			body:       `{"category":"Work"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "should reject an empty title as validation error",
			body: `{"title":" ","category":"Work"}`,
			createFn: func(context.Context, services.CreateTaskParams) (*models.Task, error) {
				return nil, services.ErrTaskValidation
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "should reject a malformed deadline",
			body: `{"title":"Write Report","category":"Work","deadline":"tomorrow"}`,
			createFn: func(context.Context, services.CreateTaskParams) (*models.Task, error) {
				return nil, timecalc.ErrInvalidTimestamp
			},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(nil, nil, &mockTaskService{createFn: tt.createFn}, nil)
			router := gin.New()
			router.POST("/task/create", forceUser(testUserID), h.HandleCreateTask)

			w := doJSON(t, router, http.MethodPost, "/task/create", tt.body)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusCreated {
				body := decodeBody(t, w)
				assert.Equal(t, "Write Report", body["title"])
				assert.Equal(t, models.PriorityMedium, body["priority"])
				assert.Nil(t, body["deadline"])
			}
		})
	}
}

func TestHandleDashboard_PassesSearchFilter(t *testing.T) {
	var gotUserID, gotFilter string
	tasks := &mockTaskService{
		listFn: func(_ context.Context, userID, titleFilter string) ([]*models.Task, error) {
			gotUserID = userID
			gotFilter = titleFilter
			return []*models.Task{{ID: 7, UserID: userID, Title: "Write Report"}}, nil
		},
	}

	h := newTestHandler(nil, nil, tasks, nil)
	router := gin.New()
	router.GET("/", forceUser(testUserID), h.HandleDashboard)

	w := doJSON(t, router, http.MethodGet, "/?search=report", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, testUserID, gotUserID)
	assert.Equal(t, "report", gotFilter)

	body := decodeBody(t, w)
	assert.Equal(t, "report", body["search_query"])
	assert.Len(t, body["tasks"], 1)
}

func TestHandleListTasksAPI(t *testing.T) {
	started := time.Date(2026, time.August, 31, 9, 0, 0, 0, time.UTC)
	tasks := &mockTaskService{
		listFn: func(_ context.Context, userID, _ string) ([]*models.Task, error) {
			return []*models.Task{
				{
					ID:        3,
					UserID:    userID,
					Title:     "Write Report",
					Category:  "Work",
					Priority:  "High",
					StartTime: &started,
					CreatedAt: started,
				},
			}, nil
		},
	}

	h := newTestHandler(nil, nil, tasks, nil)
	router := gin.New()
	router.GET("/api/tasks", forceUser(testUserID), h.HandleListTasksAPI)

	w := doJSON(t, router, http.MethodGet, "/api/tasks", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.Equal(t, float64(3), body[0]["id"])
	assert.Equal(t, "2026-08-31T09:00:00Z", body[0]["start_time"])
	// Optional timestamps that were never set serialize as null.
	assert.Nil(t, body[0]["end_time"])
	assert.Nil(t, body[0]["deadline"])
}

func TestHandleUpdateTaskAPI(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		body       string
		updateFn   func(ctx context.Context, params services.UpdateTaskParams) (*models.Task, error)
		wantStatus int
		wantError  bool
	}{
		{
			name: "should confirm a successful update",
			path: "/api/tasks/5",
			body: `{"title":"Renamed"}`,
			updateFn: func(_ context.Context, params services.UpdateTaskParams) (*models.Task, error) {
				return &models.Task{ID: params.ID, UserID: params.UserID, Title: *params.Title}, nil
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "should return 400 on an unparsable deadline",
			path: "/api/tasks/5",
			body: `{"deadline":"not-a-date"}`,
			updateFn: func(context.Context, services.UpdateTaskParams) (*models.Task, error) {
				return nil, timecalc.ErrInvalidTimestamp
			},
			wantStatus: http.StatusBadRequest,
			wantError:  true,
		},
		{
			name: "should return 403 for a foreign task",
			path: "/api/tasks/5",
			body: `{"title":"Renamed"}`,
			updateFn: func(context.Context, services.UpdateTaskParams) (*models.Task, error) {
				return nil, services.ErrTaskForbidden
			},
			wantStatus: http.StatusForbidden,
			wantError:  true,
		},
		{
			name: "should return 404 for an unknown task",
			path: "/api/tasks/5",
			body: `{"title":"Renamed"}`,
			updateFn: func(context.Context, services.UpdateTaskParams) (*models.Task, error) {
				return nil, services.ErrTaskNotFound
			},
			wantStatus: http.StatusNotFound,
			wantError:  true,
		},
		{
			name:       "should return 400 for a non-numeric id",
			path:       "/api/tasks/abc",
			body:       `{"title":"Renamed"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(nil, nil, &mockTaskService{updateFn: tt.updateFn}, nil)
			router := gin.New()
			router.PUT("/api/tasks/:id", forceUser(testUserID), h.HandleUpdateTaskAPI)

			w := doJSON(t, router, http.MethodPut, tt.path, tt.body)

			assert.Equal(t, tt.wantStatus, w.Code)
			body := decodeBody(t, w)
			if tt.wantError {
				assert.Contains(t, body, "error")
			} else {
				assert.Equal(t, "Task updated successfully via API.", body["message"])
			}
		})
	}
}

func TestHandleUpdateTaskAPI_Unauthenticated(t *testing.T) {
	h := newTestHandler(nil, nil, &mockTaskService{}, nil)
	router := gin.New()
	// No auth middleware on the route: the handler itself must refuse.
	router.PUT("/api/tasks/:id", h.HandleUpdateTaskAPI)

	w := doJSON(t, router, http.MethodPut, "/api/tasks/5", `{"title":"Renamed"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandleCompleteTask_Idempotent(t *testing.T) {
	var calls int
	tasks := &mockTaskService{
		completeFn: func(_ context.Context, userID string, taskID int64) (*models.Task, error) {
			calls++
			return &models.Task{ID: taskID, UserID: userID, Title: "Done thing", Completed: true}, nil
		},
	}

	h := newTestHandler(nil, nil, tasks, nil)
	router := gin.New()
	router.GET("/task/:id/complete", forceUser(testUserID), h.HandleCompleteTask)

	for i := 0; i < 2; i++ {
		w := doJSON(t, router, http.MethodGet, "/task/9/complete", "")
		require.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, true, body["completed"])
	}
	assert.Equal(t, 2, calls)
}

func TestHandleDeleteTask(t *testing.T) {
	tasks := &mockTaskService{
		deleteFn: func(_ context.Context, _ string, taskID int64) error {
			if taskID != 4 {
				return services.ErrTaskNotFound
			}
			return nil
		},
	}

	h := newTestHandler(nil, nil, tasks, nil)
	router := gin.New()
	router.GET("/task/:id/delete", forceUser(testUserID), h.HandleDeleteTask)

	w := doJSON(t, router, http.MethodGet, "/task/4/delete", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/task/99/delete", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleStartTask(t *testing.T) {
	now := time.Date(2026, time.August, 31, 10, 0, 0, 0, time.UTC)
	tasks := &mockTaskService{
		startFn: func(_ context.Context, userID string, taskID int64) (*models.Task, error) {
			return &models.Task{ID: taskID, UserID: userID, Title: "T", StartTime: &now}, nil
		},
	}

	h := newTestHandler(nil, nil, tasks, nil)
	router := gin.New()
	router.GET("/task/:id/start", forceUser(testUserID), h.HandleStartTask)

	w := doJSON(t, router, http.MethodGet, "/task/2/start", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "2026-08-31T10:00:00Z", body["start_time"])
}
