package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"briefing-server/internal/domain"
	"briefing-server/internal/handler"
	"briefing-server/internal/mocks"
	"briefing-server/internal/runtracker"
	"briefing-server/internal/service"
	"briefing-server/internal/session"
	"briefing-server/internal/ws"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	router *gin.Engine
	runner *mocks.MockPipelineRunner
	store  *session.Store
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	runner := mocks.NewMockPipelineRunner(t)
	store := session.NewStore(time.Hour, zap.NewNop())
	svc := service.NewBriefingService(runner, store, runtracker.New(), zap.NewNop())

	wsManager := ws.NewManager(zap.NewNop())
	t.Cleanup(wsManager.Close)

	router := gin.New()
	handler.NewBriefingHandler(svc, wsManager, zap.NewNop()).RegisterRoutes(router)
	return &testEnv{router: router, runner: runner, store: store}
}

func prepareBody(t *testing.T) *bytes.Buffer {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"companyName":     "Acme Corp",
		"objective":       "Negotiate renewal",
		"attendees":       []map[string]string{{"name": "Jane Doe", "role": "CFO"}},
		"durationMinutes": 30,
		"focusAreas":      []string{"pricing"},
	})
	require.NoError(t, err)
	return bytes.NewBuffer(body)
}

func testDocument() domain.BriefingDocument {
	return domain.BriefingDocument{
		Request: domain.MeetingRequest{
			CompanyName:     "Acme Corp",
			Objective:       "Negotiate renewal",
			Attendees:       []domain.Attendee{{Name: "Jane Doe", Role: "CFO"}},
			DurationMinutes: 30,
		},
		Markdown: "# Meeting Briefing: Acme Corp",
	}
}

func (e *testEnv) do(t *testing.T, method, path, sessionID string, body *bytes.Buffer) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequestWithContext(context.Background(), method, path, body)
	} else {
		req, err = http.NewRequestWithContext(context.Background(), method, path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if sessionID != "" {
		req.Header.Set(handler.SessionHeader, sessionID)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func TestPrepareBriefing(t *testing.T) {
	t.Run("returns the completed run", func(t *testing.T) {
		env := setupTestEnv(t)
		env.runner.On("Run", mock.Anything, "session-123", mock.AnythingOfType("uuid.UUID"), mock.Anything).
			Return(testDocument(), nil).Once()

		rec := env.do(t, http.MethodPost, "/api/briefings", "session-123", prepareBody(t))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "session-123", rec.Header().Get(handler.SessionHeader))

		var run session.Run
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &run))
		assert.Equal(t, session.RunStatusCompleted, run.Status)
		require.NotNil(t, run.Document)
		assert.Equal(t, testDocument().Markdown, run.Document.Markdown)
	})

	t.Run("issues a session id when the header is absent", func(t *testing.T) {
		env := setupTestEnv(t)
		env.runner.On("Run", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(testDocument(), nil).Once()

		rec := env.do(t, http.MethodPost, "/api/briefings", "", prepareBody(t))

		require.Equal(t, http.StatusOK, rec.Code)
		issued := rec.Header().Get(handler.SessionHeader)
		_, err := uuid.Parse(issued)
		assert.NoError(t, err)
	})

	t.Run("malformed JSON is a 400", func(t *testing.T) {
		env := setupTestEnv(t)

		rec := env.do(t, http.MethodPost, "/api/briefings", "session-123", bytes.NewBufferString("{not json"))

		require.Equal(t, http.StatusBadRequest, rec.Code)
		var apiErr handler.APIError
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
		assert.Equal(t, "invalid request body", apiErr.Message)
	})

	t.Run("validation failure is a 400 with the reason", func(t *testing.T) {
		env := setupTestEnv(t)

		body, err := json.Marshal(map[string]any{"companyName": "A"})
		require.NoError(t, err)
		rec := env.do(t, http.MethodPost, "/api/briefings", "session-123", bytes.NewBuffer(body))

		require.Equal(t, http.StatusBadRequest, rec.Code)
		var apiErr handler.APIError
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
		assert.NotEmpty(t, apiErr.Message)
		env.runner.AssertNotCalled(t, "Run", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("pipeline failure is a 502", func(t *testing.T) {
		env := setupTestEnv(t)
		env.runner.On("Run", mock.Anything, "session-123", mock.AnythingOfType("uuid.UUID"), mock.Anything).
			Return(domain.BriefingDocument{}, errors.Join(domain.ErrGenerationFailed, errors.New("stage context: search is down"))).Once()

		rec := env.do(t, http.MethodPost, "/api/briefings", "session-123", prepareBody(t))

		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})
}

func TestGetBriefing(t *testing.T) {
	t.Run("returns the stored run", func(t *testing.T) {
		env := setupTestEnv(t)
		env.runner.On("Run", mock.Anything, "session-123", mock.AnythingOfType("uuid.UUID"), mock.Anything).
			Return(testDocument(), nil).Once()

		created := env.do(t, http.MethodPost, "/api/briefings", "session-123", prepareBody(t))
		require.Equal(t, http.StatusOK, created.Code)
		var run session.Run
		require.NoError(t, json.Unmarshal(created.Body.Bytes(), &run))

		rec := env.do(t, http.MethodGet, "/api/briefings/"+run.ID.String(), "session-123", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var got session.Run
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, run.ID, got.ID)
		assert.Equal(t, session.RunStatusCompleted, got.Status)
	})

	t.Run("unknown run id is a 404", func(t *testing.T) {
		env := setupTestEnv(t)

		rec := env.do(t, http.MethodGet, "/api/briefings/"+uuid.NewString(), "session-123", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("run of another session is a 404", func(t *testing.T) {
		env := setupTestEnv(t)
		env.runner.On("Run", mock.Anything, "session-123", mock.AnythingOfType("uuid.UUID"), mock.Anything).
			Return(testDocument(), nil).Once()

		created := env.do(t, http.MethodPost, "/api/briefings", "session-123", prepareBody(t))
		var run session.Run
		require.NoError(t, json.Unmarshal(created.Body.Bytes(), &run))

		rec := env.do(t, http.MethodGet, "/api/briefings/"+run.ID.String(), "session-other", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed run id is a 400", func(t *testing.T) {
		env := setupTestEnv(t)

		rec := env.do(t, http.MethodGet, "/api/briefings/not-a-uuid", "session-123", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestDownloadBriefing(t *testing.T) {
	t.Run("serves the document as a markdown attachment", func(t *testing.T) {
		env := setupTestEnv(t)
		env.runner.On("Run", mock.Anything, "session-123", mock.AnythingOfType("uuid.UUID"), mock.Anything).
			Return(testDocument(), nil).Once()

		created := env.do(t, http.MethodPost, "/api/briefings", "session-123", prepareBody(t))
		var run session.Run
		require.NoError(t, json.Unmarshal(created.Body.Bytes(), &run))

		rec := env.do(t, http.MethodGet, "/api/briefings/"+run.ID.String()+"/download", "session-123", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/markdown; charset=utf-8", rec.Header().Get("Content-Type"))
		assert.Equal(t, `attachment; filename="briefing_acme_corp.md"`, rec.Header().Get("Content-Disposition"))
		assert.Equal(t, testDocument().Markdown, rec.Body.String())
	})

	t.Run("failed run has nothing to download", func(t *testing.T) {
		env := setupTestEnv(t)

		run, err := env.store.StartRun("session-123", testDocument().Request)
		require.NoError(t, err)
		env.store.FailRun("session-123", run.ID, "stage context: search is down")

		rec := env.do(t, http.MethodGet, "/api/briefings/"+run.ID.String()+"/download", "session-123", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHealthz(t *testing.T) {
	env := setupTestEnv(t)

	rec := env.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
