package handlers

import (
	"net/http"
	"testing"

	"project-management-api/internal/metrics"
	"project-management-api/internal/models"
	"project-management-api/internal/testutil"

	"github.com/stretchr/testify/require"
)

type reportBody struct {
	Tasks           []TaskView           `json:"tasks"`
	Count           int                  `json:"count"`
	Distribution    metrics.Distribution `json:"distribution"`
	Percent         int                  `json:"percent"`
	Projects        []metrics.Rollup     `json:"projects"`
	Members         []metrics.Rollup     `json:"members"`
	RecentCompleted []TaskView           `json:"recentCompleted"`
}

func TestGetReport(t *testing.T) {
	env := newTestEnv(t)
	env.addTask(t, "t-1", models.StatusCompleted, 100, testutil.MemberID)
	env.addTask(t, "t-2", models.StatusApproved, 30, testutil.MemberID)
	env.addTask(t, "t-3", models.StatusPending, 0, "")
	env.addTask(t, "t-4", models.StatusApproved, 0, testutil.OtherID)
	manager := env.token(t, testutil.ManagerID)

	w := env.do(t, http.MethodGet, "/api/reports", manager, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	r := decode[reportBody](t, w)
	require.Equal(t, 4, r.Count)
	require.Equal(t, 25, r.Percent)
	require.Equal(t, metrics.Distribution{Completed: 1, InProgress: 1, NotStarted: 1, Pending: 1}, r.Distribution)
	require.Len(t, r.RecentCompleted, 1)
	require.Equal(t, []metrics.Rollup{{ID: testutil.ProjectID, Name: "Website Redesign", Total: 4, Completed: 1, Percent: 25}}, r.Projects)
	require.Len(t, r.Members, 2)

	w = env.do(t, http.MethodGet, "/api/reports?userId="+testutil.MemberID+"&status=approved", manager, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	r = decode[reportBody](t, w)
	require.Equal(t, 1, r.Count)
	require.Equal(t, "t-2", r.Tasks[0].ID)
	require.Len(t, r.Members, 1)

	w = env.do(t, http.MethodGet, "/api/reports?startDate=2024-01-01&endDate=2024-01-01", manager, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Equal(t, 4, decode[reportBody](t, w).Count)

	w = env.do(t, http.MethodGet, "/api/reports?startDate=2024-01-02", manager, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 0, decode[reportBody](t, w).Count)
}

func TestGetReport_Rejects(t *testing.T) {
	env := newTestEnv(t)
	manager := env.token(t, testutil.ManagerID)

	w := env.do(t, http.MethodGet, "/api/reports", env.token(t, testutil.MemberID), nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodGet, "/api/reports?priority=urgent", manager, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodGet, "/api/reports?startDate=2024-02-01&endDate=2024-01-01", manager, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodGet, "/api/reports?startDate=yesterday", manager, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
