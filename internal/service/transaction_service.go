package service

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/household-ledger/internal/ledger"
	"github.com/carson-networks/household-ledger/internal/operator/actions"
	"github.com/carson-networks/household-ledger/internal/summary"
	"github.com/carson-networks/household-ledger/internal/txsort"
)

// TransactionService records transactions and lists them.
type TransactionService struct {
	base
	sorter *txsort.Sorter
}

func (s *TransactionService) AddTransaction(ctx context.Context, householdID uuid.UUID, in ledger.TransactionInput) (ledger.Transaction, error) {
	action := &actions.AddTransaction{Input: in, Now: s.now()}
	if err := s.operator.Process(ctx, householdID, action); err != nil {
		return ledger.Transaction{}, err
	}
	return action.Result, nil
}

func (s *TransactionService) EditTransaction(ctx context.Context, householdID, id uuid.UUID, patch ledger.TransactionPatch) (ledger.Transaction, error) {
	action := &actions.EditTransaction{ID: id, Patch: patch}
	if err := s.operator.Process(ctx, householdID, action); err != nil {
		return ledger.Transaction{}, err
	}
	return action.Result, nil
}

func (s *TransactionService) DeleteTransaction(ctx context.Context, householdID, id uuid.UUID) error {
	return s.operator.Process(ctx, householdID, &actions.DeleteTransaction{ID: id})
}

// GetSortedTransactions returns the transactions matching filter in the
// requested order. Ties keep insertion order.
func (s *TransactionService) GetSortedTransactions(ctx context.Context, householdID uuid.UUID, filter summary.Filter, order txsort.Config) ([]ledger.Transaction, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	snap, err := s.snapshot(ctx, householdID)
	if err != nil {
		return nil, err
	}
	selected, err := summary.Select(snap.Transactions, filter, s.now())
	if err != nil {
		return nil, err
	}
	return s.sorter.Sort(selected, snap.AccountNames(), order)
}

