// Package storagemock holds testify doubles for the storage interfaces.
package storagemock

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/mock"

	"github.com/carson-networks/household-ledger/internal/ledger"
	"github.com/carson-networks/household-ledger/internal/storage"
)

var _ storage.IWriter = (*Writer)(nil)
var _ storage.IStorage = (*Storage)(nil)

type Writer struct {
	mock.Mock
}

func (m *Writer) PutHousehold(ctx context.Context, h ledger.Household) error {
	return m.Called(ctx, h).Error(0)
}

func (m *Writer) AdvanceVersion(ctx context.Context, from int64) error {
	return m.Called(ctx, from).Error(0)
}

func (m *Writer) PutMember(ctx context.Context, member ledger.Member, position int) error {
	return m.Called(ctx, member, position).Error(0)
}

func (m *Writer) DeleteMember(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *Writer) PutCategory(ctx context.Context, c ledger.Category, position int) error {
	return m.Called(ctx, c, position).Error(0)
}

func (m *Writer) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *Writer) PutAccount(ctx context.Context, a ledger.Account) error {
	return m.Called(ctx, a).Error(0)
}

func (m *Writer) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *Writer) PutTransaction(ctx context.Context, t ledger.Transaction) error {
	return m.Called(ctx, t).Error(0)
}

func (m *Writer) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *Writer) Commit(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *Writer) Rollback(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// AcceptAll makes every put, delete and version bump succeed.
func (m *Writer) AcceptAll() *Writer {
	for _, method := range []string{
		"PutHousehold", "DeleteMember", "DeleteCategory", "PutAccount",
		"DeleteAccount", "PutTransaction", "DeleteTransaction", "AdvanceVersion",
	} {
		m.On(method, mock.Anything, mock.Anything).Return(nil).Maybe()
	}
	m.On("PutMember", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	m.On("PutCategory", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	return m
}

type Storage struct {
	mock.Mock
}

func (m *Storage) ListHouseholds(ctx context.Context) ([]ledger.Household, error) {
	args := m.Called(ctx)
	households, _ := args.Get(0).([]ledger.Household)
	return households, args.Error(1)
}

func (m *Storage) LoadHousehold(ctx context.Context, id uuid.UUID) (ledger.Snapshot, error) {
	args := m.Called(ctx, id)
	snap, _ := args.Get(0).(ledger.Snapshot)
	return snap, args.Error(1)
}

func (m *Storage) NewWriter(ctx context.Context, householdID uuid.UUID) (storage.IWriter, error) {
	args := m.Called(ctx, householdID)
	w, _ := args.Get(0).(storage.IWriter)
	return w, args.Error(1)
}

func (m *Storage) Close() error {
	return m.Called().Error(0)
}
