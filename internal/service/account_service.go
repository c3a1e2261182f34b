package service

import (
	"context"
	"fmt"
	"slices"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/household-ledger/internal/ledger"
	"github.com/carson-networks/household-ledger/internal/operator/actions"
)

// AccountService handles account administration.
type AccountService struct {
	base
}

func (s *AccountService) AddAccount(ctx context.Context, householdID uuid.UUID, in ledger.AccountInput) (ledger.Account, error) {
	action := &actions.AddAccount{Input: in, Now: s.now()}
	if err := s.operator.Process(ctx, householdID, action); err != nil {
		return ledger.Account{}, err
	}
	return action.Result, nil
}

// EditAccount changes name, parent or billing mode. The balance is never touched.
func (s *AccountService) EditAccount(ctx context.Context, householdID, id uuid.UUID, patch ledger.AccountPatch) (ledger.Account, error) {
	action := &actions.EditAccount{ID: id, Patch: patch}
	if err := s.operator.Process(ctx, householdID, action); err != nil {
		return ledger.Account{}, err
	}
	return action.Result, nil
}

func (s *AccountService) DeleteAccount(ctx context.Context, householdID, id uuid.UUID) error {
	return s.operator.Process(ctx, householdID, &actions.DeleteAccount{ID: id})
}

func (s *AccountService) MoveAccount(ctx context.Context, householdID, id uuid.UUID, dir ledger.MoveDirection) error {
	return s.operator.Process(ctx, householdID, &actions.MoveAccount{ID: id, Direction: dir})
}

// ListAccounts returns one member's accounts, or every member's accounts in
// member order when member is empty. Children follow their parent.
func (s *AccountService) ListAccounts(ctx context.Context, householdID uuid.UUID, member string) ([]ledger.Account, error) {
	snap, err := s.snapshot(ctx, householdID)
	if err != nil {
		return nil, err
	}
	if member != "" {
		if !slices.ContainsFunc(snap.Members, func(m ledger.Member) bool { return m.Name == member }) {
			return nil, fmt.Errorf("%w: %q", ledger.ErrMemberNotFound, member)
		}
		return snap.AccountsForMember(member), nil
	}

	accounts := make([]ledger.Account, 0, len(snap.Accounts))
	seen := make(map[uuid.UUID]bool, len(snap.Accounts))
	for _, m := range snap.Members {
		for _, acc := range snap.AccountsForMember(m.Name) {
			if !seen[acc.ID] {
				seen[acc.ID] = true
				accounts = append(accounts, acc)
			}
		}
	}
	return accounts, nil
}
