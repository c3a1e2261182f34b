// Package memory is an in-process storage.IStorage used by tests and by
// DATA_BACKEND=memory. Data does not survive a restart.
package memory

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sort"
	"sync"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/household-ledger/internal/ledger"
	"github.com/carson-networks/household-ledger/internal/storage"
)

var ErrWriterClosed = errors.New("writer already committed or rolled back")

type positioned[T any] struct {
	value    T
	position int
}

type household struct {
	info         ledger.Household
	members      map[uuid.UUID]positioned[ledger.Member]
	categories   map[uuid.UUID]positioned[ledger.Category]
	accounts     map[uuid.UUID]ledger.Account
	accountSeq   []uuid.UUID
	transactions map[uuid.UUID]ledger.Transaction
	txSeq        []uuid.UUID
}

func newHousehold(info ledger.Household) *household {
	return &household{
		info:         info,
		members:      make(map[uuid.UUID]positioned[ledger.Member]),
		categories:   make(map[uuid.UUID]positioned[ledger.Category]),
		accounts:     make(map[uuid.UUID]ledger.Account),
		transactions: make(map[uuid.UUID]ledger.Transaction),
	}
}

type Store struct {
	mu         sync.RWMutex
	households map[uuid.UUID]*household
	order      []uuid.UUID
}

var _ storage.IStorage = (*Store)(nil)

func New() *Store {
	return &Store{households: make(map[uuid.UUID]*household)}
}

func (s *Store) ListHouseholds(_ context.Context) ([]ledger.Household, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ledger.Household, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.households[id].info)
	}
	return out, nil
}

func (s *Store) LoadHousehold(_ context.Context, id uuid.UUID) (ledger.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.households[id]
	if !ok {
		return ledger.Snapshot{}, fmt.Errorf("%w: %s", ledger.ErrHouseholdNotFound, id)
	}

	snap := ledger.Snapshot{
		Household:    h.info,
		Members:      byPosition(h.members),
		Categories:   byPosition(h.categories),
		Accounts:     make([]ledger.Account, 0, len(h.accountSeq)),
		Transactions: make([]ledger.Transaction, 0, len(h.txSeq)),
	}
	for _, accID := range h.accountSeq {
		snap.Accounts = append(snap.Accounts, h.accounts[accID])
	}
	for _, txID := range h.txSeq {
		snap.Transactions = append(snap.Transactions, h.transactions[txID])
	}
	return snap, nil
}

func byPosition[T any](records map[uuid.UUID]positioned[T]) []T {
	list := make([]positioned[T], 0, len(records))
	for _, r := range records {
		list = append(list, r)
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].position < list[j].position })
	out := make([]T, len(list))
	for i, r := range list {
		out[i] = r.value
	}
	return out
}

// NewWriter stages writes and applies them atomically on Commit. The
// household does not have to exist yet; PutHousehold creates it.
func (s *Store) NewWriter(_ context.Context, householdID uuid.UUID) (storage.IWriter, error) {
	return &Writer{store: s, householdID: householdID}, nil
}

func (s *Store) Close() error {
	return nil
}

// Writer is a staged write against one household.
type Writer struct {
	store       *Store
	householdID uuid.UUID
	ops         []func(h *household) error
	created     *ledger.Household
	closed      bool
}

func (w *Writer) stage(op func(h *household) error) error {
	if w.closed {
		return ErrWriterClosed
	}
	w.ops = append(w.ops, op)
	return nil
}

func (w *Writer) PutHousehold(_ context.Context, info ledger.Household) error {
	if info.ID != w.householdID {
		return fmt.Errorf("%w: household %s written through writer for %s", ledger.ErrValidation, info.ID, w.householdID)
	}
	if w.closed {
		return ErrWriterClosed
	}
	w.created = &info
	return nil
}

func (w *Writer) AdvanceVersion(_ context.Context, from int64) error {
	return w.stage(func(h *household) error {
		if h.info.Version != from {
			return fmt.Errorf("%w: household %s at version %d, expected %d", storage.ErrStale, w.householdID, h.info.Version, from)
		}
		h.info.Version = from + 1
		return nil
	})
}

func (w *Writer) PutMember(_ context.Context, m ledger.Member, position int) error {
	return w.stage(func(h *household) error {
		h.members[m.ID] = positioned[ledger.Member]{value: m, position: position}
		return nil
	})
}

func (w *Writer) DeleteMember(_ context.Context, id uuid.UUID) error {
	return w.stage(func(h *household) error {
		delete(h.members, id)
		return nil
	})
}

func (w *Writer) PutCategory(_ context.Context, c ledger.Category, position int) error {
	return w.stage(func(h *household) error {
		h.categories[c.ID] = positioned[ledger.Category]{value: c, position: position}
		return nil
	})
}

func (w *Writer) DeleteCategory(_ context.Context, id uuid.UUID) error {
	return w.stage(func(h *household) error {
		delete(h.categories, id)
		return nil
	})
}

func (w *Writer) PutAccount(_ context.Context, a ledger.Account) error {
	return w.stage(func(h *household) error {
		if a.ParentID.Valid {
			if _, ok := h.accounts[a.ParentID.UUID]; !ok {
				return fmt.Errorf("account %s: parent %w", a.ID, ledger.ErrAccountNotFound)
			}
		}
		if _, ok := h.accounts[a.ID]; !ok {
			h.accountSeq = append(h.accountSeq, a.ID)
		}
		h.accounts[a.ID] = a
		return nil
	})
}

func (w *Writer) DeleteAccount(_ context.Context, id uuid.UUID) error {
	return w.stage(func(h *household) error {
		for _, tx := range h.transactions {
			if tx.AccountID == id {
				return fmt.Errorf("account %s: %w", id, ledger.ErrHasTransactions)
			}
		}
		for _, acc := range h.accounts {
			if acc.ParentID.Valid && acc.ParentID.UUID == id {
				return fmt.Errorf("account %s: %w", id, ledger.ErrHasChildren)
			}
		}
		delete(h.accounts, id)
		h.accountSeq = slices.DeleteFunc(h.accountSeq, func(other uuid.UUID) bool { return other == id })
		return nil
	})
}

func (w *Writer) PutTransaction(_ context.Context, t ledger.Transaction) error {
	return w.stage(func(h *household) error {
		if _, ok := h.accounts[t.AccountID]; !ok {
			return fmt.Errorf("transaction %s: %w", t.ID, ledger.ErrAccountNotFound)
		}
		if _, ok := h.transactions[t.ID]; !ok {
			h.txSeq = append(h.txSeq, t.ID)
		}
		h.transactions[t.ID] = t
		return nil
	})
}

func (w *Writer) DeleteTransaction(_ context.Context, id uuid.UUID) error {
	return w.stage(func(h *household) error {
		delete(h.transactions, id)
		h.txSeq = slices.DeleteFunc(h.txSeq, func(other uuid.UUID) bool { return other == id })
		return nil
	})
}

// Commit applies the staged writes to a copy of the household and swaps it
// in only when every write succeeded.
func (w *Writer) Commit(ctx context.Context) error {
	if w.closed {
		return ErrWriterClosed
	}
	w.closed = true
	if err := ctx.Err(); err != nil {
		return err
	}

	s := w.store
	s.mu.Lock()
	defer s.mu.Unlock()

	current, exists := s.households[w.householdID]
	var h *household
	switch {
	case exists:
		h = current.clone()
		if w.created != nil {
			h.info = *w.created
		}
	case w.created != nil:
		h = newHousehold(*w.created)
	default:
		return fmt.Errorf("%w: %s", ledger.ErrHouseholdNotFound, w.householdID)
	}

	for _, op := range w.ops {
		if err := op(h); err != nil {
			return err
		}
	}
	s.households[w.householdID] = h
	if !exists {
		s.order = append(s.order, w.householdID)
	}
	return nil
}

func (w *Writer) Rollback(_ context.Context) error {
	w.closed = true
	w.ops = nil
	return nil
}

func (h *household) clone() *household {
	return &household{
		info:         h.info,
		members:      maps.Clone(h.members),
		categories:   maps.Clone(h.categories),
		accounts:     maps.Clone(h.accounts),
		accountSeq:   slices.Clone(h.accountSeq),
		transactions: maps.Clone(h.transactions),
		txSeq:        slices.Clone(h.txSeq),
	}
}
