package report

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
	"github.com/carson-networks/household-ledger/internal/summary"
)

type mockReportService struct {
	mock.Mock
}

func (m *mockReportService) GetSummary(ctx context.Context, householdID uuid.UUID, filter summary.Filter) (summary.Summary, error) {
	args := m.Called(ctx, householdID, filter)
	return args.Get(0).(summary.Summary), args.Error(1)
}

func newTestAPI(t *testing.T, svc *mockReportService) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	NewGetSummaryHandler(svc).Register(api)
	return api
}

// -- HTTP integration tests (full Huma stack via humatest) --

func TestHTTP_GetSummary(t *testing.T) {
	householdID := uuid.Must(uuid.NewV4())
	s := summary.Summary{
		Income:  decimal.Zero,
		Expense: decimal.NewFromInt(50),
		Balance: decimal.NewFromInt(-50),
		Breakdown: []summary.CategoryShare{
			{Category: "Supermarket", Total: decimal.NewFromInt(30), Percent: decimal.NewFromInt(60)},
			{Category: "Car", Total: decimal.NewFromInt(20), Percent: decimal.NewFromInt(40)},
		},
	}

	mockSvc := new(mockReportService)
	mockSvc.On("GetSummary", mock.Anything, householdID, summary.Filter{Period: summary.PeriodMonthly}).Return(s, nil)

	resp := newTestAPI(t, mockSvc).Get("/v1/household/" + householdID.String() + "/summary")
	assert.Equal(t, http.StatusOK, resp.Code)

	var body SummaryBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "50.00", body.Expense)
	assert.Equal(t, "-50.00", body.Balance)
	require.Len(t, body.Breakdown, 2)
	assert.Equal(t, CategoryShare{Category: "Supermarket", Total: "30.00", Percent: "60.00"}, body.Breakdown[0])
}

func TestHTTP_GetSummary_CustomRange(t *testing.T) {
	householdID := uuid.Must(uuid.NewV4())
	want := summary.Filter{
		Period: summary.PeriodCustom,
		Start:  time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		End:    time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
		Member: "Eli",
	}

	mockSvc := new(mockReportService)
	mockSvc.On("GetSummary", mock.Anything, householdID, want).Return(summary.Summary{Breakdown: []summary.CategoryShare{}}, nil)

	resp := newTestAPI(t, mockSvc).Get("/v1/household/" + householdID.String() +
		"/summary?period=custom&start=2025-01-01&end=2025-03-31&member=Eli")
	assert.Equal(t, http.StatusOK, resp.Code)

	var body SummaryBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotNil(t, body.Breakdown)
	assert.Empty(t, body.Breakdown)
}

func TestHTTP_GetSummary_InvalidRange(t *testing.T) {
	mockSvc := new(mockReportService)
	mockSvc.On("GetSummary", mock.Anything, mock.Anything, mock.Anything).Return(summary.Summary{}, ledger.ErrValidation)

	resp := newTestAPI(t, mockSvc).Get("/v1/household/" + uuid.Must(uuid.NewV4()).String() +
		"/summary?period=custom&start=2025-04-01&end=2025-03-31")
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}
