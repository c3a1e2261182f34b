package billing

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/household-ledger/internal/ledger"
)

type mockReportService struct {
	mock.Mock
}

func (m *mockReportService) RunBillingCycleCheck(ctx context.Context, householdID uuid.UUID, asOf time.Time) ([]ledger.Account, error) {
	args := m.Called(ctx, householdID, asOf)
	accounts, _ := args.Get(0).([]ledger.Account)
	return accounts, args.Error(1)
}

func newTestAPI(t *testing.T, svc *mockReportService) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	NewRunBillingCheckHandler(svc).Register(api)
	return api
}

// -- HTTP integration tests (full Huma stack via humatest) --

func TestHTTP_RunBillingCheck_AsOf(t *testing.T) {
	householdID := uuid.Must(uuid.NewV4())
	asOf := time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)
	card := ledger.Account{ID: uuid.Must(uuid.NewV4()), Name: "Visa", Balance: decimal.Zero, Billing: ledger.BillingDay(15), LastBillingReset: asOf}

	mockSvc := new(mockReportService)
	mockSvc.On("RunBillingCycleCheck", mock.Anything, householdID, asOf).Return([]ledger.Account{card}, nil)

	resp := newTestAPI(t, mockSvc).Post("/v1/household/"+householdID.String()+"/billing/check", map[string]any{"asOf": "2025-07-15"})
	assert.Equal(t, http.StatusOK, resp.Code)

	var body RunBillingCheckOutput
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body.Body))
	require.Len(t, body.Body.Reset, 1)
	assert.Equal(t, "2025-07-15", body.Body.Reset[0].LastBillingReset)
}

func TestHTTP_RunBillingCheck_DefaultsToToday(t *testing.T) {
	householdID := uuid.Must(uuid.NewV4())

	mockSvc := new(mockReportService)
	mockSvc.On("RunBillingCycleCheck", mock.Anything, householdID, time.Time{}).Return(nil, nil)

	resp := newTestAPI(t, mockSvc).Post("/v1/household/"+householdID.String()+"/billing/check", map[string]any{})
	assert.Equal(t, http.StatusOK, resp.Code)

	var body RunBillingCheckOutput
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body.Body))
	assert.Empty(t, body.Body.Reset)
}
