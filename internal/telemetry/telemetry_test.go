package telemetry

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()
	m.Transition("task", "approve")
	m.Transition("task", "approve")
	m.Notification("task_approved")
	m.Notification("")
	m.DispatchFailure("email")

	require.Equal(t, 2.0, testutil.ToFloat64(m.Transitions().WithLabelValues("task", "approve")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.Notifications().WithLabelValues("generic")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.DispatchFailures().WithLabelValues("email")))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.Transition("task", "approve")
	m.Notification("x")
	m.DispatchFailure("email")

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler(t *testing.T) {
	m := New()
	m.Transition("project", "create")

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()
	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), `pm_transitions_total{entity="project",operation="create"} 1`)
}
