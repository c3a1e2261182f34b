// Package billing runs the billing-cycle check for every household on a fixed
// interval.
package billing

import (
	"context"
	"sync"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/carson-networks/household-ledger/internal/ledger"
	"github.com/carson-networks/household-ledger/internal/operator/actions"
)

// maxParallel bounds how many households are checked at once.
const maxParallel = 8

type processor interface {
	Households(ctx context.Context) ([]ledger.Household, error)
	Process(ctx context.Context, householdID uuid.UUID, action actions.IAction) error
}

type Scheduler struct {
	processor processor
	interval  time.Duration
	location  *time.Location
	now       func() time.Time
	log       *logrus.Logger
}

func NewScheduler(p processor, interval time.Duration, loc *time.Location, now func() time.Time, log *logrus.Logger) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &Scheduler{processor: p, interval: interval, location: loc, now: now, log: log}
}

// Run checks once immediately and then on every tick until ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		s.tick(ctx)
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	asOf := s.now().In(s.location)
	reset, err := s.RunOnce(ctx, asOf)
	if err != nil {
		s.log.WithError(err).Error("Scheduler.tick.failed")
		return
	}
	total := 0
	for _, accounts := range reset {
		total += len(accounts)
	}
	s.log.WithFields(logrus.Fields{
		"asOf":       asOf.Format(time.DateOnly),
		"households": len(reset),
		"reset":      total,
	}).Info("Scheduler.tick.complete")
}

// RunOnce resets the due accounts of every household as of asOf and returns
// the reset accounts keyed by household. Households with nothing due are
// omitted. A failure in one household does not stop the others; the first
// error is returned after all of them ran.
func (s *Scheduler) RunOnce(ctx context.Context, asOf time.Time) (map[uuid.UUID][]ledger.Account, error) {
	households, err := s.processor.Households(ctx)
	if err != nil {
		return nil, err
	}

	var (
		mu     sync.Mutex
		result = make(map[uuid.UUID][]ledger.Account)
		g      errgroup.Group
	)
	g.SetLimit(maxParallel)
	for _, h := range households {
		g.Go(func() error {
			action := &actions.ResetBillingCycles{AsOf: asOf}
			if err := s.processor.Process(ctx, h.ID, action); err != nil {
				s.log.WithError(err).WithField("householdId", h.ID.String()).Warn("Scheduler.RunOnce.householdFailed")
				return err
			}
			if len(action.Reset) == 0 {
				return nil
			}
			mu.Lock()
			result[h.ID] = action.Reset
			mu.Unlock()
			return nil
		})
	}
	err = g.Wait()
	return result, err
}
