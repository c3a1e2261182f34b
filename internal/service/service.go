package service

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/household-ledger/internal/ledger"
	"github.com/carson-networks/household-ledger/internal/operator/actions"
	"github.com/carson-networks/household-ledger/internal/txsort"
)

// Clock returns the current instant.
type Clock func() time.Time

// ledgerOperator serializes mutations per household and serves reads.
type ledgerOperator interface {
	Create(ctx context.Context, info ledger.Household, seed actions.IAction) error
	Process(ctx context.Context, householdID uuid.UUID, action actions.IAction) error
	Ledger(ctx context.Context, householdID uuid.UUID) (*ledger.Ledger, error)
	Households(ctx context.Context) ([]ledger.Household, error)
}

// Service holds all business logic services.
type Service struct {
	Household   *HouseholdService
	Transaction *TransactionService
	Account     *AccountService
	Registry    *RegistryService
	Report      *ReportService
}

// NewService creates a new Service. Calendar decisions (billing days, summary
// periods) are taken in loc.
func NewService(op ledgerOperator, sorter *txsort.Sorter, loc *time.Location, clock Clock) *Service {
	if loc == nil {
		loc = time.UTC
	}
	if clock == nil {
		clock = time.Now
	}
	b := base{operator: op, loc: loc, clock: clock}
	return &Service{
		Household:   &HouseholdService{base: b},
		Transaction: &TransactionService{base: b, sorter: sorter},
		Account:     &AccountService{base: b},
		Registry:    &RegistryService{base: b},
		Report:      &ReportService{base: b},
	}
}

type base struct {
	operator ledgerOperator
	loc      *time.Location
	clock    Clock
}

func (b base) now() time.Time {
	return b.clock().In(b.loc)
}

func (b base) snapshot(ctx context.Context, householdID uuid.UUID) (*ledger.Snapshot, error) {
	l, err := b.operator.Ledger(ctx, householdID)
	if err != nil {
		return nil, err
	}
	return l.Snapshot(), nil
}
