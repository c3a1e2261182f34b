package operator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/household-ledger/internal/events"
	"github.com/carson-networks/household-ledger/internal/ledger"
	"github.com/carson-networks/household-ledger/internal/operator/actions"
	"github.com/carson-networks/household-ledger/internal/storage"
)

var ErrStopped = errors.New("operator delegator stopped")

type Options struct {
	WriteTimeout time.Duration
	QueueSize    int
	Publisher    events.IPublisher
	Logger       *logrus.Logger
	Now          func() time.Time
}

func (o *Options) setDefaults() {
	if o.WriteTimeout <= 0 {
		o.WriteTimeout = 5 * time.Second
	}
	if o.QueueSize < 1 {
		o.QueueSize = 1000
	}
	if o.Publisher == nil {
		o.Publisher = events.Noop{}
	}
	if o.Logger == nil {
		o.Logger = logrus.StandardLogger()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}

// household is a lazily loaded ledger and its operator. ready is closed once
// loading finished, successfully or not.
type household struct {
	ready    chan struct{}
	ledger   *ledger.Ledger
	operator *Operator
	queue    chan ActionItem
	err      error
}

// OperatorDelegator owns one Operator per household, loads households from
// storage on first use, and routes actions to the right queue.
type OperatorDelegator struct {
	storage storage.IStorage
	opts    Options

	mu         sync.RWMutex
	households map[uuid.UUID]*household
	stopped    bool

	wg       sync.WaitGroup
	stopOnce sync.Once
}

func NewOperatorDelegator(s storage.IStorage, opts Options) *OperatorDelegator {
	opts.setDefaults()
	return &OperatorDelegator{
		storage:    s,
		opts:       opts,
		households: make(map[uuid.UUID]*household),
	}
}

// Start loads every stored household and starts its operator.
func (d *OperatorDelegator) Start(ctx context.Context) error {
	list, err := d.storage.ListHouseholds(ctx)
	if err != nil {
		return fmt.Errorf("list households: %w", err)
	}
	for _, h := range list {
		if _, err := d.household(ctx, h.ID); err != nil {
			return err
		}
	}
	return nil
}

func (d *OperatorDelegator) Stop() {
	d.stopOnce.Do(func() {
		d.mu.Lock()
		d.stopped = true
		for _, h := range d.households {
			if h.queue != nil {
				close(h.queue)
			}
		}
		d.mu.Unlock()
		d.wg.Wait()
	})
}

// Households lists every stored household.
func (d *OperatorDelegator) Households(ctx context.Context) ([]ledger.Household, error) {
	return d.storage.ListHouseholds(ctx)
}

// Ledger returns the live ledger of a household for reads.
func (d *OperatorDelegator) Ledger(ctx context.Context, householdID uuid.UUID) (*ledger.Ledger, error) {
	h, err := d.household(ctx, householdID)
	if err != nil {
		return nil, err
	}
	return h.ledger, nil
}

func (d *OperatorDelegator) household(ctx context.Context, id uuid.UUID) (*household, error) {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return nil, ErrStopped
	}
	h, ok := d.households[id]
	if !ok {
		h = &household{ready: make(chan struct{})}
		d.households[id] = h
		d.mu.Unlock()
		d.load(ctx, id, h)
	} else {
		d.mu.Unlock()
	}

	select {
	case <-h.ready:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if h.err != nil {
		return nil, h.err
	}
	return h, nil
}

func (d *OperatorDelegator) load(ctx context.Context, id uuid.UUID, h *household) {
	defer close(h.ready)

	snap, err := d.storage.LoadHousehold(ctx, id)
	if err == nil {
		h.ledger, err = ledger.New(snap)
	}
	if err != nil {
		h.err = fmt.Errorf("load household %s: %w", id, err)
		d.mu.Lock()
		delete(d.households, id)
		d.mu.Unlock()
		return
	}
	d.start(h)
	d.opts.Logger.WithFields(logrus.Fields{
		"householdId":  id.String(),
		"accounts":     len(snap.Accounts),
		"transactions": len(snap.Transactions),
	}).Info("OperatorDelegator.load.loaded")
}

func (d *OperatorDelegator) start(h *household) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		h.err = ErrStopped
		return
	}
	h.queue = make(chan ActionItem, d.opts.QueueSize)
	h.operator = NewOperator(h.ledger, d.storage, d.opts, h.queue)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		h.operator.Run()
	}()
}

// Create stores a new household and runs seed as its first action. The
// household row and the seed's records are written in one storage transaction.
func (d *OperatorDelegator) Create(ctx context.Context, info ledger.Household, seed actions.IAction) error {
	l, err := ledger.New(ledger.Snapshot{Household: info})
	if err != nil {
		return err
	}

	h := &household{ready: make(chan struct{}), ledger: l}
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return ErrStopped
	}
	if _, exists := d.households[info.ID]; exists {
		d.mu.Unlock()
		return fmt.Errorf("%w: household %s", ledger.ErrDuplicateName, info.ID)
	}
	d.households[info.ID] = h
	d.mu.Unlock()

	dirty, err := d.seed(ctx, l, info, seed)
	if err != nil {
		h.err = err
		d.mu.Lock()
		delete(d.households, info.ID)
		d.mu.Unlock()
		close(h.ready)
		return err
	}
	d.start(h)
	close(h.ready)

	ev := events.NewLedgerEvent(info.ID, seed.Name(), dirty, d.opts.Now())
	if err := d.opts.Publisher.Publish(context.WithoutCancel(ctx), ev); err != nil {
		d.opts.Logger.WithError(err).Warn("OperatorDelegator.Create.publishFailed")
	}
	return nil
}

func (d *OperatorDelegator) seed(ctx context.Context, l *ledger.Ledger, info ledger.Household, seed actions.IAction) (ledger.Dirty, error) {
	chg := l.Begin()
	if err := seed.Perform(ctx, chg); err != nil {
		chg.Rollback()
		return ledger.Dirty{}, err
	}
	dirty := chg.Dirty()

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.opts.WriteTimeout)
	defer cancel()
	if err := d.createInStorage(writeCtx, info, dirty); err != nil {
		chg.Rollback()
		d.opts.Logger.WithError(err).WithField("householdId", info.ID.String()).
			Error("OperatorDelegator.Create.writeFailed")
		return ledger.Dirty{}, ledger.NewConsistencyError(seed.Name(), err)
	}
	chg.Commit()
	return dirty, nil
}

func (d *OperatorDelegator) createInStorage(ctx context.Context, info ledger.Household, dirty ledger.Dirty) (err error) {
	writer, err := d.storage.NewWriter(ctx, info.ID)
	if err != nil {
		return fmt.Errorf("open writer: %w", err)
	}
	defer func() {
		if err != nil {
			_ = writer.Rollback(context.WithoutCancel(ctx))
		}
	}()
	if err = writer.PutHousehold(ctx, info); err != nil {
		return fmt.Errorf("put household: %w", err)
	}
	if err = storage.Flush(ctx, writer, dirty); err != nil {
		return err
	}
	return writer.Commit(ctx)
}

// Process enqueues action on the household's operator and waits for its
// outcome. A ctx that ends before the action is dequeued cancels it.
func (d *OperatorDelegator) Process(ctx context.Context, householdID uuid.UUID, action actions.IAction) error {
	h, err := d.household(ctx, householdID)
	if err != nil {
		return err
	}

	respCh := make(chan ActionItemResponse, 1)
	item := ActionItem{
		ctx:      ctx,
		action:   action,
		response: respCh,
	}

	d.mu.RLock()
	if d.stopped {
		d.mu.RUnlock()
		return ErrStopped
	}
	select {
	case h.queue <- item:
		d.mu.RUnlock()
	case <-ctx.Done():
		d.mu.RUnlock()
		return ctx.Err()
	}

	// once queued the action may already be applying, so report its outcome
	// even when ctx ends meanwhile
	resp := <-respCh
	return resp.err
}
