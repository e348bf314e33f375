package update

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/moraesvn/projeto-estoque/internal/storage"
)

type MockTracker struct {
	mock.Mock
}

func (m *MockTracker) StartStage(ctx context.Context, sessionID int64, stage string, at time.Time) (string, error) {
	args := m.Called(ctx, sessionID, stage, at)
	return args.String(0), args.Error(1)
}

func (m *MockTracker) EndStage(ctx context.Context, sessionID int64, stage string, at time.Time) (string, error) {
	args := m.Called(ctx, sessionID, stage, at)
	return args.String(0), args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newRouter(tracker *MockTracker) *chi.Mux {
	router := chi.NewRouter()
	router.Post("/api/sessions/{id}/stages/start", StartStage(testLogger(), tracker))
	router.Post("/api/sessions/{id}/stages/end", EndStage(testLogger(), tracker))
	return router
}

func TestStartStage_Success(t *testing.T) {
	mockTracker := new(MockTracker)
	mockTracker.On("StartStage", mock.Anything, int64(7), storage.StageSeparation, time.Time{}).Return("2024-03-01 09:00:00", nil)

	body := `{"stage":"Separação"}`
	req := httptest.NewRequest(http.MethodPost, "/api/sessions/7/stages/start", strings.NewReader(body))
	rec := httptest.NewRecorder()

	newRouter(mockTracker).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp Response
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, storage.StageSeparation, resp.Stage)
	assert.Equal(t, "2024-03-01 09:00:00", resp.Timestamp)
	mockTracker.AssertExpectations(t)
}

func TestStartStage_UnknownStage(t *testing.T) {
	mockTracker := new(MockTracker)
	mockTracker.On("StartStage", mock.Anything, int64(7), "Montagem", time.Time{}).Return("", storage.ErrInvalidStage)

	body := `{"stage":"Montagem"}`
	req := httptest.NewRequest(http.MethodPost, "/api/sessions/7/stages/start", strings.NewReader(body))
	rec := httptest.NewRecorder()

	newRouter(mockTracker).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEndStage_SessionNotFound(t *testing.T) {
	mockTracker := new(MockTracker)
	mockTracker.On("EndStage", mock.Anything, int64(99), storage.StagePackaging, time.Time{}).Return("", storage.ErrNotFound)

	body := `{"stage":"Embalagem"}`
	req := httptest.NewRequest(http.MethodPost, "/api/sessions/99/stages/end", strings.NewReader(body))
	rec := httptest.NewRecorder()

	newRouter(mockTracker).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEndStage_ExplicitTimestamp(t *testing.T) {
	at := time.Date(2024, 3, 1, 10, 30, 0, 0, time.Local)

	mockTracker := new(MockTracker)
	mockTracker.On("EndStage", mock.Anything, int64(7), storage.StageChecking, at).Return("2024-03-01 10:30:00", nil)

	body := `{"stage":"Conferência","at":"2024-03-01 10:30:00"}`
	req := httptest.NewRequest(http.MethodPost, "/api/sessions/7/stages/end", strings.NewReader(body))
	rec := httptest.NewRecorder()

	newRouter(mockTracker).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	mockTracker.AssertExpectations(t)
}

func TestStartStage_BadTimestamp(t *testing.T) {
	body := `{"stage":"Separação","at":"01/03/2024 09:00"}`
	req := httptest.NewRequest(http.MethodPost, "/api/sessions/7/stages/start", strings.NewReader(body))
	rec := httptest.NewRecorder()

	newRouter(new(MockTracker)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStartStage_BadID(t *testing.T) {
	body := `{"stage":"Separação"}`
	req := httptest.NewRequest(http.MethodPost, "/api/sessions/abc/stages/start", strings.NewReader(body))
	rec := httptest.NewRecorder()

	newRouter(new(MockTracker)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
