package status

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/carson-networks/household-ledger/internal/ledger"
	"github.com/carson-networks/household-ledger/internal/logging"
)

type mockLister struct {
	mock.Mock
}

func (m *mockLister) Households(ctx context.Context) ([]ledger.Household, error) {
	args := m.Called(ctx)
	households, _ := args.Get(0).([]ledger.Household)
	return households, args.Error(1)
}

func createTestLogData() *logging.LogData {
	logger := logging.SetupLogging()
	return logging.NewLogData(logger)
}

func TestHandler_GoodMethod(t *testing.T) {
	lister := new(mockLister)
	lister.On("Households", mock.Anything).Return([]ledger.Household{{Name: "Home"}}, nil)
	statusHandler := NewHandler(lister)
	req := httptest.NewRequest(http.MethodGet, "/status", nil)

	w := httptest.NewRecorder()

	err := statusHandler.Handler(w, req, createTestLogData())
	assert.NoError(t, err)

	res := w.Result()
	assert.Equal(t, 200, res.StatusCode)
}

func TestHandler_BadMethod(t *testing.T) {
	statusHandler := NewHandler(new(mockLister))
	req := httptest.NewRequest(http.MethodPost, "/status", nil)
	w := httptest.NewRecorder()

	err := statusHandler.Handler(w, req, createTestLogData())
	assert.Error(t, err)

	res := w.Result()
	assert.Equal(t, 400, res.StatusCode)
}

func TestHandler_StorageDown(t *testing.T) {
	lister := new(mockLister)
	lister.On("Households", mock.Anything).Return(nil, errors.New("connection refused"))
	statusHandler := NewHandler(lister)
	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	w := httptest.NewRecorder()

	err := statusHandler.Handler(w, req, createTestLogData())
	assert.Error(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, w.Result().StatusCode)
}
