package billing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/household-ledger/internal/ledger"
	"github.com/carson-networks/household-ledger/internal/operator"
	"github.com/carson-networks/household-ledger/internal/operator/actions"
	"github.com/carson-networks/household-ledger/internal/storage/memory"
)

var fifteenth = time.Date(2025, 7, 15, 8, 0, 0, 0, time.UTC)

type mockProcessor struct {
	mock.Mock
}

func (m *mockProcessor) Households(ctx context.Context) ([]ledger.Household, error) {
	args := m.Called(ctx)
	households, _ := args.Get(0).([]ledger.Household)
	return households, args.Error(1)
}

func (m *mockProcessor) Process(ctx context.Context, householdID uuid.UUID, action actions.IAction) error {
	return m.Called(ctx, householdID, action).Error(0)
}

// newHousehold creates a household with a card billed on day 15 holding 250.
func newHousehold(t *testing.T, d *operator.OperatorDelegator) (uuid.UUID, uuid.UUID) {
	t.Helper()
	ctx := context.Background()
	id := uuid.Must(uuid.NewV4())
	require.NoError(t, d.Create(ctx, ledger.Household{ID: id, Name: "Home"},
		&actions.SeedHousehold{Owner: "Dana", Now: fifteenth}))

	add := &actions.AddAccount{
		Input: ledger.AccountInput{
			Name:           "Visa",
			Member:         "Dana",
			InitialBalance: decimal.NewFromInt(250),
			Billing:        ledger.BillingDay(15),
		},
		Now: fifteenth,
	}
	require.NoError(t, d.Process(ctx, id, add))
	return id, add.Result.ID
}

// -- RunOnce tests --

func TestRunOnce_ResetsDueAccountsOncePerDay(t *testing.T) {
	logger, _ := test.NewNullLogger()
	d := operator.NewOperatorDelegator(memory.New(), operator.Options{Logger: logger})
	defer d.Stop()
	first, firstCard := newHousehold(t, d)
	second, _ := newHousehold(t, d)

	s := NewScheduler(d, time.Hour, time.UTC, nil, logger)

	reset, err := s.RunOnce(context.Background(), fifteenth)
	require.NoError(t, err)
	require.Len(t, reset, 2)
	require.Len(t, reset[first], 1)
	assert.Equal(t, firstCard, reset[first][0].ID)
	assert.True(t, reset[first][0].Balance.IsZero())
	assert.Len(t, reset[second], 1)

	again, err := s.RunOnce(context.Background(), fifteenth.Add(6*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, again)

	l, err := d.Ledger(context.Background(), first)
	require.NoError(t, err)
	card, _ := l.Snapshot().Account(firstCard)
	assert.True(t, card.Balance.IsZero())
}

func TestRunOnce_NothingDue(t *testing.T) {
	logger, _ := test.NewNullLogger()
	d := operator.NewOperatorDelegator(memory.New(), operator.Options{Logger: logger})
	defer d.Stop()
	newHousehold(t, d)

	s := NewScheduler(d, time.Hour, time.UTC, nil, logger)
	reset, err := s.RunOnce(context.Background(), fifteenth.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Empty(t, reset)
}

func TestRunOnce_OneHouseholdFails(t *testing.T) {
	logger, hook := test.NewNullLogger()
	good, bad := uuid.Must(uuid.NewV4()), uuid.Must(uuid.NewV4())
	card := ledger.Account{ID: uuid.Must(uuid.NewV4()), Name: "Visa"}

	p := &mockProcessor{}
	p.On("Households", mock.Anything).Return([]ledger.Household{{ID: good}, {ID: bad}}, nil)
	p.On("Process", mock.Anything, good, mock.Anything).Run(func(args mock.Arguments) {
		args.Get(2).(*actions.ResetBillingCycles).Reset = []ledger.Account{card}
	}).Return(nil)
	p.On("Process", mock.Anything, bad, mock.Anything).Return(ledger.NewConsistencyError("resetBillingCycles", errors.New("timeout")))

	s := NewScheduler(p, time.Hour, time.UTC, nil, logger)
	reset, err := s.RunOnce(context.Background(), fifteenth)
	assert.ErrorIs(t, err, ledger.ErrConsistency)
	assert.Equal(t, []ledger.Account{card}, reset[good])
	assert.NotEmpty(t, hook.AllEntries())
}

func TestRunOnce_ListFails(t *testing.T) {
	logger, _ := test.NewNullLogger()
	p := &mockProcessor{}
	p.On("Households", mock.Anything).Return(nil, errors.New("db down"))

	s := NewScheduler(p, time.Hour, time.UTC, nil, logger)
	_, err := s.RunOnce(context.Background(), fifteenth)
	assert.Error(t, err)
	p.AssertNotCalled(t, "Process", mock.Anything, mock.Anything, mock.Anything)
}

// -- Run tests --

func TestRun_UsesConfiguredLocation(t *testing.T) {
	logger, _ := test.NewNullLogger()
	loc := time.FixedZone("UTC+3", 3*60*60)
	// 22:30 UTC on the 14th is already the 15th at UTC+3
	now := time.Date(2025, 7, 14, 22, 30, 0, 0, time.UTC)
	id := uuid.Must(uuid.NewV4())

	ctx, cancel := context.WithCancel(context.Background())
	p := &mockProcessor{}
	p.On("Households", mock.Anything).Return([]ledger.Household{{ID: id}}, nil)
	p.On("Process", mock.Anything, id, mock.MatchedBy(func(a *actions.ResetBillingCycles) bool {
		return a.AsOf.Day() == 15 && a.AsOf.Location() == loc
	})).Run(func(mock.Arguments) { cancel() }).Return(nil)

	s := NewScheduler(p, time.Hour, loc, func() time.Time { return now }, logger)
	assert.NoError(t, s.Run(ctx))
	p.AssertExpectations(t)
}
