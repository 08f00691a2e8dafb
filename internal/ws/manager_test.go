package ws_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"briefing-server/internal/domain"
	"briefing-server/internal/pipeline"
	"briefing-server/internal/ws"
)

// dialTestClient поднимает сервер вокруг Handle и подключает к нему клиента.
func dialTestClient(t *testing.T, manager *ws.Manager, sessionID string) *websocket.Conn {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		manager.Handle(w, r, sessionID)
	}))
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readProgress(t *testing.T, conn *websocket.Conn) ws.Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg ws.Message
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func TestManager_Notify(t *testing.T) {
	manager := ws.NewManager(zap.NewNop())
	defer manager.Close()

	conn := dialTestClient(t, manager, "session-123")
	other := dialTestClient(t, manager, "session-other")

	runID := uuid.New()
	manager.Notify(pipeline.ProgressEvent{
		SessionID: "session-123",
		RunID:     runID,
		Stage:     domain.StageContext,
		Status:    "running",
	})

	msg := readProgress(t, conn)
	assert.Equal(t, "progress", msg.Type)

	payload, err := json.Marshal(msg.Payload)
	require.NoError(t, err)
	var event struct {
		RunID  uuid.UUID `json:"runId"`
		Stage  string    `json:"stage"`
		Status string    `json:"status"`
	}
	require.NoError(t, json.Unmarshal(payload, &event))
	assert.Equal(t, runID, event.RunID)
	assert.Equal(t, "context", event.Stage)
	assert.Equal(t, "running", event.Status)

	// Чужая сессия событие не получает
	require.NoError(t, other.SetReadDeadline(time.Now().Add(100*time.Millisecond)))
	_, _, err = other.ReadMessage()
	assert.Error(t, err)
}

func TestManager_NotifyExcludesSessionID(t *testing.T) {
	manager := ws.NewManager(zap.NewNop())
	defer manager.Close()

	conn := dialTestClient(t, manager, "session-123")
	manager.Notify(pipeline.ProgressEvent{
		SessionID: "session-123",
		RunID:     uuid.New(),
		Stage:     domain.StageContext,
		Status:    "running",
	})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	// ID сессии служит только для маршрутизации и в провод не попадает
	assert.NotContains(t, string(data), "session-123")
}
