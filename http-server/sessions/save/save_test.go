package save

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/moraesvn/projeto-estoque/internal/storage"
)

type MockTracker struct {
	mock.Mock
}

func (m *MockTracker) CreateSession(ctx context.Context, date string, operatorID, marketplaceID int64, numOrders, packersCount int) (int64, error) {
	args := m.Called(ctx, date, operatorID, marketplaceID, numOrders, packersCount)
	return args.Get(0).(int64), args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestSaveSession_Success(t *testing.T) {
	mockTracker := new(MockTracker)
	mockTracker.On("CreateSession", mock.Anything, "2024-03-01", int64(1), int64(2), 5, 2).Return(int64(42), nil)

	handler := SaveSession(testLogger(), mockTracker)

	body := `{"date":"2024-03-01","operator_id":1,"marketplace_id":2,"num_orders":5,"packers_count":2}`
	req := httptest.NewRequest(http.MethodPost, "/api/sessions", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	var resp Response
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(42), resp.ID)
	mockTracker.AssertExpectations(t)
}

func TestSaveSession_InvalidSessionRejected(t *testing.T) {
	mockTracker := new(MockTracker)
	mockTracker.On("CreateSession", mock.Anything, "", int64(1), int64(2), 0, 2).Return(int64(0), storage.ErrInvalidSession)

	handler := SaveSession(testLogger(), mockTracker)

	body := `{"operator_id":1,"marketplace_id":2,"num_orders":0,"packers_count":2}`
	req := httptest.NewRequest(http.MethodPost, "/api/sessions", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestSaveSession_BadBody(t *testing.T) {
	handler := SaveSession(testLogger(), new(MockTracker))

	req := httptest.NewRequest(http.MethodPost, "/api/sessions", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	handler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
