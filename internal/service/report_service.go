package service

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/household-ledger/internal/ledger"
	"github.com/carson-networks/household-ledger/internal/operator/actions"
	"github.com/carson-networks/household-ledger/internal/summary"
)

// ReportService computes summaries and runs billing checks on demand.
type ReportService struct {
	base
}

// GetSummary totals the transactions matching filter. "Now" is read once.
func (s *ReportService) GetSummary(ctx context.Context, householdID uuid.UUID, filter summary.Filter) (summary.Summary, error) {
	if err := filter.Validate(); err != nil {
		return summary.Summary{}, err
	}
	snap, err := s.snapshot(ctx, householdID)
	if err != nil {
		return summary.Summary{}, err
	}
	return summary.Compute(snap, filter, s.now())
}

// RunBillingCycleCheck resets the household's accounts due on asOf. A zero
// asOf means today.
func (s *ReportService) RunBillingCycleCheck(ctx context.Context, householdID uuid.UUID, asOf time.Time) ([]ledger.Account, error) {
	if asOf.IsZero() {
		asOf = s.now()
	}
	action := &actions.ResetBillingCycles{AsOf: asOf}
	if err := s.operator.Process(ctx, householdID, action); err != nil {
		return nil, err
	}
	return action.Reset, nil
}
