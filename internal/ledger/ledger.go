// Package ledger holds the authoritative in-memory state of one household and
// the reconciliation rules that keep account balances consistent with its
// transactions.
//
// All mutations go through a Change, which holds the ledger's write lock from
// Begin until Commit or Rollback. Readers take a Snapshot and never observe a
// Change in progress.
package ledger

import (
	"fmt"
	"slices"
	"sync"

	"github.com/gofrs/uuid/v5"
)

type Ledger struct {
	mu        sync.RWMutex
	household Household

	accounts   map[uuid.UUID]Account
	accountSeq []uuid.UUID

	transactions map[uuid.UUID]Transaction
	txSeq        []uuid.UUID

	categories []Category
	members    []Member

	newID func() uuid.UUID
}

type Option func(*Ledger)

// WithIDGenerator replaces the uuid v4 generator used for new records.
func WithIDGenerator(gen func() uuid.UUID) Option {
	return func(l *Ledger) {
		l.newID = gen
	}
}

// New builds a ledger from persisted state. The account hierarchy is validated
// before the ledger is returned.
func New(state Snapshot, opts ...Option) (*Ledger, error) {
	l := &Ledger{
		household:    state.Household,
		accounts:     make(map[uuid.UUID]Account, len(state.Accounts)),
		transactions: make(map[uuid.UUID]Transaction, len(state.Transactions)),
		categories:   slices.Clone(state.Categories),
		members:      slices.Clone(state.Members),
		newID: func() uuid.UUID {
			return uuid.Must(uuid.NewV4())
		},
	}
	for _, opt := range opts {
		opt(l)
	}

	for _, acc := range state.Accounts {
		if _, dup := l.accounts[acc.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate account id %s", ErrValidation, acc.ID)
		}
		l.accounts[acc.ID] = acc
		l.accountSeq = append(l.accountSeq, acc.ID)
	}
	for _, acc := range state.Accounts {
		if err := l.checkHierarchy(acc); err != nil {
			return nil, fmt.Errorf("load account %s: %w", acc.ID, err)
		}
	}
	for _, tx := range state.Transactions {
		if _, ok := l.accounts[tx.AccountID]; !ok {
			return nil, fmt.Errorf("load transaction %s: %w", tx.ID, ErrAccountNotFound)
		}
		l.transactions[tx.ID] = tx
		l.txSeq = append(l.txSeq, tx.ID)
	}
	return l, nil
}

func (l *Ledger) HouseholdID() uuid.UUID {
	return l.household.ID
}

// Reload replaces the whole state with state, typically the household as
// reloaded from storage. It blocks like Begin and leaves the ledger untouched
// when state is invalid.
func (l *Ledger) Reload(state Snapshot) error {
	if state.Household.ID != l.household.ID {
		return fmt.Errorf("%w: reload of household %s with %s", ErrValidation, l.household.ID, state.Household.ID)
	}
	fresh, err := New(state, WithIDGenerator(l.newID))
	if err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.household = fresh.household
	l.accounts, l.accountSeq = fresh.accounts, fresh.accountSeq
	l.transactions, l.txSeq = fresh.transactions, fresh.txSeq
	l.categories, l.members = fresh.categories, fresh.members
	return nil
}

// Begin opens a change and blocks until no other change or snapshot holds the ledger.
func (l *Ledger) Begin() *Change {
	l.mu.Lock()
	return newChange(l)
}

// Snapshot returns a deep copy of the current state.
func (l *Ledger) Snapshot() *Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()

	snap := &Snapshot{
		Household:    l.household,
		Members:      slices.Clone(l.members),
		Categories:   slices.Clone(l.categories),
		Accounts:     make([]Account, 0, len(l.accountSeq)),
		Transactions: make([]Transaction, 0, len(l.txSeq)),
	}
	for _, id := range l.accountSeq {
		snap.Accounts = append(snap.Accounts, l.accounts[id])
	}
	for _, id := range l.txSeq {
		snap.Transactions = append(snap.Transactions, l.transactions[id])
	}
	return snap
}

// checkHierarchy enforces depth <= 2 and no self reference for acc as if it were stored.
func (l *Ledger) checkHierarchy(acc Account) error {
	if !acc.ParentID.Valid {
		return nil
	}
	parentID := acc.ParentID.UUID
	if parentID == acc.ID {
		return fmt.Errorf("%w: account cannot be its own parent", ErrHierarchy)
	}
	parent, ok := l.accounts[parentID]
	if !ok {
		return fmt.Errorf("%w: parent %s: %w", ErrHierarchy, parentID, ErrAccountNotFound)
	}
	if parent.ParentID.Valid {
		return fmt.Errorf("%w: parent %q is itself a child account", ErrHierarchy, parent.Name)
	}
	if l.hasChildren(acc.ID) {
		return fmt.Errorf("%w: account %q has children and cannot have a parent", ErrHierarchy, acc.Name)
	}
	return nil
}

func (l *Ledger) hasChildren(id uuid.UUID) bool {
	for _, acc := range l.accounts {
		if acc.ParentID.Valid && acc.ParentID.UUID == id {
			return true
		}
	}
	return false
}

func (l *Ledger) hasTransactionsFor(accountID uuid.UUID) bool {
	for _, tx := range l.transactions {
		if tx.AccountID == accountID {
			return true
		}
	}
	return false
}

func (l *Ledger) memberIndex(name string) int {
	return slices.IndexFunc(l.members, func(m Member) bool { return m.Name == name })
}

func (l *Ledger) categoryIndex(typ TransactionType, name string) int {
	return slices.IndexFunc(l.categories, func(c Category) bool {
		return c.Type == typ && c.Name == name
	})
}
