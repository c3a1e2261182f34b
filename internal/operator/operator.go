package operator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/household-ledger/internal/events"
	"github.com/carson-networks/household-ledger/internal/ledger"
	"github.com/carson-networks/household-ledger/internal/operator/actions"
	"github.com/carson-networks/household-ledger/internal/storage"
)

// Operator is the single writer of one household. It applies queued actions
// one at a time, so no two mutations of a household ever interleave.
type Operator struct {
	ledger       *ledger.Ledger
	storage      storage.IStorage
	publisher    events.IPublisher
	writeTimeout time.Duration
	now          func() time.Time
	log          *logrus.Logger
	queue        chan ActionItem
}

func NewOperator(l *ledger.Ledger, s storage.IStorage, opts Options, queue chan ActionItem) *Operator {
	return &Operator{
		ledger:       l,
		storage:      s,
		publisher:    opts.Publisher,
		writeTimeout: opts.WriteTimeout,
		now:          opts.Now,
		log:          opts.Logger,
		queue:        queue,
	}
}

// Run listens to the queue and processes items. Exits when the queue is closed.
func (o *Operator) Run() {
	for item := range o.queue {
		o.processItem(item)
	}
}

func (o *Operator) processItem(item ActionItem) {
	logger := o.log.WithFields(logrus.Fields{
		"householdId": o.ledger.HouseholdID().String(),
		"action":      item.action.Name(),
	})

	// the caller already gave up; do not apply a change nobody will see
	if err := item.ctx.Err(); err != nil {
		item.response <- ActionItemResponse{err: err}
		return
	}

	chg := o.ledger.Begin()
	if err := item.action.Perform(item.ctx, chg); err != nil {
		chg.Rollback()
		logger.WithError(err).Info("Operator.processItem.rejected")
		item.response <- ActionItemResponse{err: err}
		return
	}
	if chg.Empty() {
		chg.Commit()
		item.response <- ActionItemResponse{}
		return
	}

	base := chg.AdvanceVersion()
	dirty := chg.Dirty()
	if err := o.persist(item.ctx, base, dirty); err != nil {
		chg.Rollback()
		logger.WithError(err).Error("Operator.processItem.compensated")
		if errors.Is(err, storage.ErrStale) {
			o.reload(item.ctx, logger)
		}
		item.response <- ActionItemResponse{err: ledger.NewConsistencyError(item.action.Name(), err)}
		return
	}
	chg.Commit()
	item.response <- ActionItemResponse{}

	logger.WithFields(logrus.Fields{
		"accounts":     len(dirty.Accounts),
		"transactions": len(dirty.Transactions),
	}).Debug("Operator.processItem.committed")

	ev := events.NewLedgerEvent(o.ledger.HouseholdID(), item.action.Name(), dirty, o.now())
	if err := o.publisher.Publish(context.WithoutCancel(item.ctx), ev); err != nil {
		logger.WithError(err).Warn("Operator.processItem.publishFailed")
	}
}

// persist writes dirty in one storage transaction bounded by the write
// timeout. A timeout counts as a failure, and so does a household whose
// stored version moved past base.
func (o *Operator) persist(ctx context.Context, base int64, dirty ledger.Dirty) (err error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), o.writeTimeout)
	defer cancel()

	writer, err := o.storage.NewWriter(ctx, o.ledger.HouseholdID())
	if err != nil {
		return fmt.Errorf("open writer: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := writer.Rollback(context.WithoutCancel(ctx)); rbErr != nil {
				o.log.WithError(rbErr).Warn("Operator.persist.rollbackFailed")
			}
		}
	}()

	if err = writer.AdvanceVersion(ctx, base); err != nil {
		return fmt.Errorf("advance version: %w", err)
	}
	if err = storage.Flush(ctx, writer, dirty); err != nil {
		return err
	}
	if err = ctx.Err(); err != nil {
		return fmt.Errorf("write timeout: %w", err)
	}
	if err = writer.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// reload replaces the ledger with the stored household after another writer
// committed to it. On failure the ledger stays stale and the next write
// tries again.
func (o *Operator) reload(ctx context.Context, logger *logrus.Entry) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), o.writeTimeout)
	defer cancel()

	snap, err := o.storage.LoadHousehold(ctx, o.ledger.HouseholdID())
	if err == nil {
		err = o.ledger.Reload(snap)
	}
	if err != nil {
		logger.WithError(err).Error("Operator.reload.failed")
		return
	}
	logger.WithField("version", snap.Household.Version).Warn("Operator.reload.reloaded")
}

type ActionItem struct {
	ctx      context.Context
	action   actions.IAction
	response chan ActionItemResponse
}

type ActionItemResponse struct {
	err error
}
