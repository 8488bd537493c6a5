package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"project-management-api/internal/middleware"
	"project-management-api/internal/models"
	"project-management-api/internal/notify"
	"project-management-api/internal/realtime"
	"project-management-api/internal/testutil"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func TestWebSocketReceivesNotifications(t *testing.T) {
	env := newTestEnv(t)
	env.router.GET("/ws", middleware.JWTAuthMiddleware(env.issuer), env.handler.WebSocket)
	srv := httptest.NewServer(env.router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=" + env.token(t, testutil.MemberID)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool {
		return env.handler.Hub.Connected(testutil.MemberID) == 1
	}, 2*time.Second, 10*time.Millisecond)

	env.addTask(t, "t-1", models.StatusPending, 0, testutil.MemberID)
	_, err = env.handler.Engine.ApproveTask(t.Context(), "t-1")
	require.NoError(t, err)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var evt struct {
		Type    string              `json:"type"`
		UserID  string              `json:"userId"`
		Payload models.Notification `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(data, &evt))
	require.Equal(t, notify.EventNotification, evt.Type)
	require.Equal(t, testutil.MemberID, evt.UserID)
	require.Equal(t, models.NotificationTaskApproved, evt.Payload.Type)

	var _ realtime.Client = (*wsClient)(nil)
}

func TestWebSocketRequiresToken(t *testing.T) {
	env := newTestEnv(t)
	env.router.GET("/ws", middleware.JWTAuthMiddleware(env.issuer), env.handler.WebSocket)
	srv := httptest.NewServer(env.router)
	defer srv.Close()

	_, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	require.Equal(t, 401, resp.StatusCode)
}
