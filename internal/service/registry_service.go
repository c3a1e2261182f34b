package service

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/household-ledger/internal/ledger"
	"github.com/carson-networks/household-ledger/internal/operator/actions"
)

// RegistryService manages the member and category registries.
type RegistryService struct {
	base
}

// AddMember registers a regular member and returns the default accounts
// created for them.
func (s *RegistryService) AddMember(ctx context.Context, householdID uuid.UUID, name, email string) (ledger.Member, []ledger.Account, error) {
	action := &actions.AddMember{MemberName: name, Role: ledger.MemberRoleMember, Email: email, Now: s.now()}
	if err := s.operator.Process(ctx, householdID, action); err != nil {
		return ledger.Member{}, nil, err
	}
	return action.Result, action.Accounts, nil
}

func (s *RegistryService) DeleteMember(ctx context.Context, householdID uuid.UUID, name string) error {
	return s.operator.Process(ctx, householdID, &actions.DeleteMember{MemberName: name})
}

// RenameMember returns the number of accounts and transactions rewritten.
func (s *RegistryService) RenameMember(ctx context.Context, householdID uuid.UUID, oldName, newName string) (int, error) {
	action := &actions.RenameMember{OldName: oldName, NewName: newName}
	if err := s.operator.Process(ctx, householdID, action); err != nil {
		return 0, err
	}
	return action.Updated, nil
}

func (s *RegistryService) ListMembers(ctx context.Context, householdID uuid.UUID) ([]ledger.Member, error) {
	snap, err := s.snapshot(ctx, householdID)
	if err != nil {
		return nil, err
	}
	return snap.Members, nil
}

func (s *RegistryService) AddCategory(ctx context.Context, householdID uuid.UUID, typ ledger.TransactionType, name string) (ledger.Category, error) {
	action := &actions.AddCategory{Type: typ, CategoryName: name}
	if err := s.operator.Process(ctx, householdID, action); err != nil {
		return ledger.Category{}, err
	}
	return action.Result, nil
}

func (s *RegistryService) DeleteCategory(ctx context.Context, householdID uuid.UUID, typ ledger.TransactionType, name string) error {
	return s.operator.Process(ctx, householdID, &actions.DeleteCategory{Type: typ, CategoryName: name})
}

func (s *RegistryService) MoveCategory(ctx context.Context, householdID uuid.UUID, typ ledger.TransactionType, name string, dir ledger.MoveDirection) error {
	return s.operator.Process(ctx, householdID, &actions.MoveCategory{Type: typ, CategoryName: name, Direction: dir})
}

// RenameCategory returns the number of transactions rewritten.
func (s *RegistryService) RenameCategory(ctx context.Context, householdID uuid.UUID, typ ledger.TransactionType, oldName, newName string) (int, error) {
	action := &actions.RenameCategory{Type: typ, OldName: oldName, NewName: newName}
	if err := s.operator.Process(ctx, householdID, action); err != nil {
		return 0, err
	}
	return action.Updated, nil
}

// ListCategories returns the registry in order, restricted to typ unless it is empty.
func (s *RegistryService) ListCategories(ctx context.Context, householdID uuid.UUID, typ ledger.TransactionType) ([]ledger.Category, error) {
	snap, err := s.snapshot(ctx, householdID)
	if err != nil {
		return nil, err
	}
	if typ == "" {
		return snap.Categories, nil
	}
	categories := make([]ledger.Category, 0, len(snap.Categories))
	for _, c := range snap.Categories {
		if c.Type == typ {
			categories = append(categories, c)
		}
	}
	return categories, nil
}
