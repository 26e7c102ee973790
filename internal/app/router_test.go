package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"study_tracker/internal/config"
	"study_tracker/internal/repository"
	"study_tracker/internal/service"
	"study_tracker/pkg/lock"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type fakeDispatcher struct {
	calls int
}

func (d *fakeDispatcher) Dispatch(ctx context.Context, message, summary, channelID string) (string, error) {
	d.calls++
	return "STUDY_REMINDERS-1", nil
}

func newTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Server.Mode = gin.TestMode
	cfg.Storage.Type = "file"
	cfg.AI.Mode = "mock"
	cfg.Notification.ChannelID = "study.reminders"
	cfg.CORS.AllowedOrigins = []string{"http://localhost:3000"}
	cfg.RateLimit.MaxRequests = 1000
	cfg.RateLimit.WindowMinutes = 1
	return cfg
}

func newTestRouter(t *testing.T, dispatcher service.Dispatcher) *gin.Engine {
	t.Helper()
	backend, err := repository.NewFileBackend(t.TempDir())
	require.NoError(t, err)

	cfg := newTestConfig()
	deps := &collaborators{
		backend:    backend,
		locker:     lock.NewKeyedMutex(),
		generator:  service.MockGenerator{},
		dispatcher: dispatcher,
		calendar: service.NewCalendar(func() time.Time {
			return time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
		}, time.UTC),
	}

	repos := initRepositories(deps.backend)
	svcs := initServices(repos, cfg, deps)
	return newRouter(t.Context(), cfg, initControllers(svcs, repos))
}

func doRequest(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestRouter_Root(t *testing.T) {
	router := newTestRouter(t, nil)

	w := doRequest(t, router, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"study tracker is up"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRouter_Health(t *testing.T) {
	router := newTestRouter(t, nil)

	w := doRequest(t, router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"storage":"up"`)
}

func TestRouter_RegisterConflict(t *testing.T) {
	router := newTestRouter(t, nil)

	w := doRequest(t, router, http.MethodPost, "/register/alice", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	env := decodeEnvelope(t, w)
	assert.JSONEq(t, `{"message":"User alice registered successfully."}`, string(env.Data))

	w = doRequest(t, router, http.MethodPost, "/register/alice", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "User already exists", decodeEnvelope(t, w).Message)

	w = doRequest(t, router, http.MethodPost, "/register/..", nil)
	assert.NotEqual(t, http.StatusCreated, w.Code)
}

func TestRouter_SummaryNotFound(t *testing.T) {
	router := newTestRouter(t, nil)

	w := doRequest(t, router, http.MethodGet, "/summary/ghost", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "User not found", decodeEnvelope(t, w).Message)

	w = doRequest(t, router, http.MethodGet, "/summary/bad%20id", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "User not found", decodeEnvelope(t, w).Message)
}

func TestRouter_CheckinFlow(t *testing.T) {
	router := newTestRouter(t, nil)

	w := doRequest(t, router, http.MethodPost, "/checkin", map[string]any{
		"user_id":          "alice",
		"duration_mins":    45,
		"chapters_covered": []string{"c1"},
		"questions_done":   10,
		"mock_done":        false,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var result struct {
		Message    string `json:"message"`
		StreakDays int    `json:"streak_days"`
		Milestones struct {
			TotalHours    float64 `json:"total_hours"`
			TotalSessions int     `json:"total_sessions"`
		} `json:"milestones"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &result))
	assert.Equal(t, "Check-in successful.", result.Message)
	assert.Equal(t, 1, result.StreakDays)
	assert.Equal(t, 0.75, result.Milestones.TotalHours)
	assert.Equal(t, 1, result.Milestones.TotalSessions)

	w = doRequest(t, router, http.MethodGet, "/users", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `["alice"]`, string(decodeEnvelope(t, w).Data))

	w = doRequest(t, router, http.MethodGet, "/summary/alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var summary struct {
		UserID         string           `json:"user_id"`
		LastCheckin    string           `json:"last_checkin"`
		RecentCheckIns []map[string]any `json:"recent_check_ins"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &summary))
	assert.Equal(t, "alice", summary.UserID)
	assert.Equal(t, "2024-01-10", summary.LastCheckin)
	assert.Len(t, summary.RecentCheckIns, 1)
}

func TestRouter_CheckinValidation(t *testing.T) {
	router := newTestRouter(t, nil)

	tests := []struct {
		name string
		body any
	}{
		{name: "missing user", body: map[string]any{"duration_mins": 10}},
		{name: "negative duration", body: map[string]any{"user_id": "alice", "duration_mins": -5}},
		{name: "wrong type", body: map[string]any{"user_id": "alice", "duration_mins": "long"}},
		{name: "bad user id", body: map[string]any{"user_id": "a/b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, router, http.MethodPost, "/checkin", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}

	w := doRequest(t, router, http.MethodGet, "/users", nil)
	assert.JSONEq(t, `[]`, string(decodeEnvelope(t, w).Data))
}

func TestRouter_ReminderEvent(t *testing.T) {
	dispatcher := &fakeDispatcher{}
	router := newTestRouter(t, dispatcher)

	w := doRequest(t, router, http.MethodPost, "/events/reminder", map[string]string{"user_id": "alice"})
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body["message"], "[MOCK]")
	assert.Contains(t, body["summary"], "Study summary for alice")
	assert.Equal(t, "2024-01-10", body["date"])
	assert.Equal(t, "STUDY_REMINDERS-1", body["notification_id"])
	assert.Equal(t, 1, dispatcher.calls)

	w = doRequest(t, router, http.MethodPost, "/events/reminder", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Missing user_id in event"}`, w.Body.String())
}

func TestRouter_Metrics(t *testing.T) {
	router := newTestRouter(t, nil)

	w := doRequest(t, router, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
