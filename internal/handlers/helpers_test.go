package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"project-management-api/internal/auth"
	"project-management-api/internal/config"
	"project-management-api/internal/lifecycle"
	"project-management-api/internal/logging"
	"project-management-api/internal/middleware"
	"project-management-api/internal/models"
	"project-management-api/internal/notify"
	"project-management-api/internal/realtime"
	"project-management-api/internal/store"
	"project-management-api/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	handler *Handler
	store   *store.Store
	issuer  *auth.Issuer
	router  *gin.Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := testutil.NewStore(t)
	testutil.SeedTeam(t, s)
	logger := logging.Discard()
	hub := realtime.NewHub()
	engine := lifecycle.New(s, notify.NewEmitter(s, hub, nil, logger), nil, nil, logger)
	engine.Now = testutil.FixedClock(time.Hour)
	issuer := auth.NewIssuer(config.AuthConfig{Secret: "test", Issuer: "test", Audience: "test", TokenTTL: time.Hour})

	h := New(engine, s, issuer, hub, logger)
	h.Now = testutil.FixedClock(48 * time.Hour)

	r := gin.New()
	r.POST("/api/login", h.Login)
	r.POST("/api/register", h.Register)
	api := r.Group("/api", middleware.JWTAuthMiddleware(issuer))
	manager := middleware.RequireRole(models.RoleManager)
	api.GET("/users", h.ListUsers)
	api.POST("/users", manager, h.CreateTeamMember)
	api.GET("/projects", h.ListProjects)
	api.POST("/projects", manager, h.CreateProject)
	api.GET("/projects/:id", h.GetProject)
	api.PUT("/projects/:id", manager, h.UpdateProject)
	api.DELETE("/projects/:id", manager, h.DeleteProject)
	api.GET("/projects/:id/tasks", h.ListProjectTasks)
	api.GET("/tasks", h.ListTasks)
	api.GET("/tasks/mine", h.MyTasks)
	api.GET("/tasks/:id", h.GetTask)
	api.POST("/tasks", h.CreateTask)
	api.POST("/tasks/:id/approve", manager, h.ApproveTask)
	api.POST("/tasks/:id/reject", manager, h.RejectTask)
	api.POST("/tasks/:id/assign", manager, h.AssignTask)
	api.PATCH("/tasks/:id/progress", h.UpdateTaskProgress)
	api.DELETE("/tasks/:id", manager, h.DeleteTask)
	api.GET("/tasks/:id/comments", h.ListComments)
	api.POST("/tasks/:id/comments", h.CreateComment)
	api.GET("/notifications", h.ListNotifications)
	api.PATCH("/notifications/:id/read", h.MarkNotificationRead)
	api.GET("/reports", manager, h.GetReport)

	return &testEnv{handler: h, store: s, issuer: issuer, router: r}
}

func (e *testEnv) token(t *testing.T, userID string) string {
	t.Helper()
	u, err := e.store.GetUser(t.Context(), userID)
	require.NoError(t, err)
	token, err := e.issuer.GenerateToken(u)
	require.NoError(t, err)
	return token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// addTask stores a task directly so tests can pick its starting state.
func (e *testEnv) addTask(t *testing.T, id string, status models.TaskStatus, progress int, assignee string) {
	t.Helper()
	task := models.Task{
		ID:        id,
		Title:     "Task " + id,
		ProjectID: testutil.ProjectID,
		CreatedBy: testutil.MemberID,
		Status:    status,
		Progress:  progress,
		Priority:  models.PriorityMedium,
		CreatedAt: testutil.FixedClock(0)(),
		UpdatedAt: testutil.FixedClock(0)(),
	}
	if assignee != "" {
		task.AssignedTo = testutil.Ptr(assignee)
	}
	require.NoError(t, e.store.CreateTask(t.Context(), task))
}

type taskResultBody struct {
	Task     TaskView `json:"task"`
	Applied  bool     `json:"applied"`
	Warnings []string `json:"warnings"`
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}
