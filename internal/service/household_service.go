package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/household-ledger/internal/ledger"
	"github.com/carson-networks/household-ledger/internal/operator/actions"
)

// HouseholdService creates and lists households.
type HouseholdService struct {
	base
}

// CreateHousehold creates a household with its owner as the first admin member.
func (s *HouseholdService) CreateHousehold(ctx context.Context, name, owner, email string) (ledger.Household, ledger.Member, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return ledger.Household{}, ledger.Member{}, fmt.Errorf("%w: household name is required", ledger.ErrValidation)
	}
	id, err := uuid.NewV4()
	if err != nil {
		return ledger.Household{}, ledger.Member{}, err
	}

	now := s.now()
	info := ledger.Household{ID: id, Name: name, CreatedAt: now}
	seed := &actions.SeedHousehold{Owner: owner, Email: email, Now: now}
	if err := s.operator.Create(ctx, info, seed); err != nil {
		return ledger.Household{}, ledger.Member{}, err
	}
	return info, seed.Result, nil
}

func (s *HouseholdService) ListHouseholds(ctx context.Context) ([]ledger.Household, error) {
	return s.operator.Households(ctx)
}

// GetHousehold returns a consistent copy of the household's state.
func (s *HouseholdService) GetHousehold(ctx context.Context, id uuid.UUID) (*ledger.Snapshot, error) {
	return s.snapshot(ctx, id)
}
