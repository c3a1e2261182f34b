package household

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/household-ledger/internal/ledger"
)

type mockHouseholdService struct {
	mock.Mock
}

func (m *mockHouseholdService) CreateHousehold(ctx context.Context, name, owner, email string) (ledger.Household, ledger.Member, error) {
	args := m.Called(ctx, name, owner, email)
	return args.Get(0).(ledger.Household), args.Get(1).(ledger.Member), args.Error(2)
}

func (m *mockHouseholdService) ListHouseholds(ctx context.Context) ([]ledger.Household, error) {
	args := m.Called(ctx)
	households, _ := args.Get(0).([]ledger.Household)
	return households, args.Error(1)
}

func (m *mockHouseholdService) GetHousehold(ctx context.Context, id uuid.UUID) (*ledger.Snapshot, error) {
	args := m.Called(ctx, id)
	snap, _ := args.Get(0).(*ledger.Snapshot)
	return snap, args.Error(1)
}

func newTestAPI(t *testing.T, svc *mockHouseholdService) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	NewHandler(svc).Register(api)
	return api
}

var createdAt = time.Date(2025, 7, 15, 9, 30, 0, 0, time.UTC)

// -- HTTP integration tests (full Huma stack via humatest) --

func TestHTTP_CreateHousehold(t *testing.T) {
	info := ledger.Household{ID: uuid.Must(uuid.NewV4()), Name: "Home", CreatedAt: createdAt}
	owner := ledger.Member{ID: uuid.Must(uuid.NewV4()), Name: "Dana", Role: ledger.MemberRoleAdmin, CreatedAt: createdAt}

	mockSvc := new(mockHouseholdService)
	mockSvc.On("CreateHousehold", mock.Anything, "Home", "Dana", "dana@example.com").Return(info, owner, nil)

	resp := newTestAPI(t, mockSvc).Post("/v1/household", map[string]any{
		"name": "Home", "owner": "Dana", "ownerEmail": "dana@example.com",
	})
	assert.Equal(t, http.StatusCreated, resp.Code)

	var body CreateHouseholdOutput
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body.Body))
	assert.Equal(t, info.ID.String(), body.Body.Household.ID)
	assert.Equal(t, "admin", body.Body.Owner.Role)
	assert.Equal(t, "2025-07-15T09:30:00Z", body.Body.Household.CreatedAt)
}

func TestHTTP_CreateHousehold_MissingOwner(t *testing.T) {
	mockSvc := new(mockHouseholdService)

	resp := newTestAPI(t, mockSvc).Post("/v1/household", map[string]any{"name": "Home", "owner": ""})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	mockSvc.AssertNotCalled(t, "CreateHousehold", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHTTP_CreateHousehold_WriteFailed(t *testing.T) {
	mockSvc := new(mockHouseholdService)
	mockSvc.On("CreateHousehold", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(ledger.Household{}, ledger.Member{}, ledger.NewConsistencyError("createHousehold", errors.New("timeout")))

	resp := newTestAPI(t, mockSvc).Post("/v1/household", map[string]any{"name": "Home", "owner": "Dana"})
	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
}

func TestHTTP_ListHouseholds(t *testing.T) {
	mockSvc := new(mockHouseholdService)
	mockSvc.On("ListHouseholds", mock.Anything).Return([]ledger.Household{
		{ID: uuid.Must(uuid.NewV4()), Name: "Home", CreatedAt: createdAt},
	}, nil)

	resp := newTestAPI(t, mockSvc).Get("/v1/households")
	assert.Equal(t, http.StatusOK, resp.Code)

	var body ListHouseholdsOutput
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body.Body))
	require.Len(t, body.Body.Households, 1)
	assert.Equal(t, "Home", body.Body.Households[0].Name)
}

func TestHTTP_GetHousehold(t *testing.T) {
	id := uuid.Must(uuid.NewV4())
	snap := &ledger.Snapshot{
		Household:    ledger.Household{ID: id, Name: "Home", CreatedAt: createdAt},
		Members:      []ledger.Member{{ID: uuid.Must(uuid.NewV4()), Name: "Dana", Role: ledger.MemberRoleAdmin}},
		Accounts:     make([]ledger.Account, 3),
		Transactions: make([]ledger.Transaction, 5),
	}

	mockSvc := new(mockHouseholdService)
	mockSvc.On("GetHousehold", mock.Anything, id).Return(snap, nil)
	mockSvc.On("GetHousehold", mock.Anything, mock.Anything).Return(nil, ledger.ErrHouseholdNotFound)

	api := newTestAPI(t, mockSvc)
	resp := api.Get("/v1/household/" + id.String())
	assert.Equal(t, http.StatusOK, resp.Code)

	var body GetHouseholdOutput
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body.Body))
	assert.Equal(t, 3, body.Body.AccountCount)
	assert.Equal(t, 5, body.Body.TransactionCount)
	require.Len(t, body.Body.Members, 1)

	resp = api.Get("/v1/household/" + uuid.Must(uuid.NewV4()).String())
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
