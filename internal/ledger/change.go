package ledger

import (
	"slices"
	"sort"

	"github.com/gofrs/uuid/v5"
)

// Change is one logical mutation of a ledger. It owns the ledger's write lock
// and journals an undo step for every record it touches, so Rollback restores
// the exact pre-change state.
type Change struct {
	ledger *Ledger
	undo   []func()
	closed bool

	accounts     map[uuid.UUID]Account // before-images, zero value for created
	transactions map[uuid.UUID]struct{}
	categories   map[uuid.UUID]Category
	members      map[uuid.UUID]Member

	categoriesSaved bool
	membersSaved    bool
}

func newChange(l *Ledger) *Change {
	return &Change{
		ledger:       l,
		accounts:     make(map[uuid.UUID]Account),
		transactions: make(map[uuid.UUID]struct{}),
		categories:   make(map[uuid.UUID]Category),
		members:      make(map[uuid.UUID]Member),
	}
}

// Commit makes the change visible and releases the ledger.
func (c *Change) Commit() {
	if c.closed {
		return
	}
	c.closed = true
	c.undo = nil
	c.ledger.mu.Unlock()
}

// Rollback unwinds every journaled step in reverse order and releases the ledger.
func (c *Change) Rollback() {
	if c.closed {
		return
	}
	for i := len(c.undo) - 1; i >= 0; i-- {
		c.undo[i]()
	}
	c.closed = true
	c.undo = nil
	c.ledger.mu.Unlock()
}

// Empty reports whether the change touched nothing.
func (c *Change) Empty() bool {
	return len(c.undo) == 0
}

// Snapshot returns the in-progress state as seen from inside the change.
func (c *Change) Snapshot() *Snapshot {
	l := c.ledger
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

// AdvanceVersion bumps the household version and returns the version the
// change started from.
func (c *Change) AdvanceVersion() int64 {
	l := c.ledger
	prev := l.household.Version
	l.household.Version = prev + 1
	c.undo = append(c.undo, func() { l.household.Version = prev })
	return prev
}

func (c *Change) putAccount(acc Account) error {
	if err := c.ledger.checkHierarchy(acc); err != nil {
		return err
	}
	c.storeAccount(acc)
	return nil
}

// storeAccount writes acc without hierarchy checks. Used by balance updates,
// which never change the parent link.
func (c *Change) storeAccount(acc Account) {
	l := c.ledger
	prev, existed := l.accounts[acc.ID]
	if _, seen := c.accounts[acc.ID]; !seen {
		c.accounts[acc.ID] = prev
	}
	if existed {
		c.undo = append(c.undo, func() { l.accounts[acc.ID] = prev })
	} else {
		l.accountSeq = append(l.accountSeq, acc.ID)
		c.undo = append(c.undo, func() {
			delete(l.accounts, acc.ID)
			l.accountSeq = removeID(l.accountSeq, acc.ID)
		})
	}
	l.accounts[acc.ID] = acc
}

func (c *Change) removeAccount(id uuid.UUID) {
	l := c.ledger
	prev, ok := l.accounts[id]
	if !ok {
		return
	}
	if _, seen := c.accounts[id]; !seen {
		c.accounts[id] = prev
	}
	idx := slices.Index(l.accountSeq, id)
	delete(l.accounts, id)
	l.accountSeq = removeID(l.accountSeq, id)
	c.undo = append(c.undo, func() {
		l.accounts[id] = prev
		l.accountSeq = slices.Insert(l.accountSeq, idx, id)
	})
}

func (c *Change) storeTransaction(tx Transaction) {
	l := c.ledger
	prev, existed := l.transactions[tx.ID]
	c.transactions[tx.ID] = struct{}{}
	if existed {
		c.undo = append(c.undo, func() { l.transactions[tx.ID] = prev })
	} else {
		l.txSeq = append(l.txSeq, tx.ID)
		c.undo = append(c.undo, func() {
			delete(l.transactions, tx.ID)
			l.txSeq = removeID(l.txSeq, tx.ID)
		})
	}
	l.transactions[tx.ID] = tx
}

func (c *Change) removeTransaction(id uuid.UUID) {
	l := c.ledger
	prev, ok := l.transactions[id]
	if !ok {
		return
	}
	c.transactions[id] = struct{}{}
	idx := slices.Index(l.txSeq, id)
	delete(l.transactions, id)
	l.txSeq = removeID(l.txSeq, id)
	c.undo = append(c.undo, func() {
		l.transactions[id] = prev
		l.txSeq = slices.Insert(l.txSeq, idx, id)
	})
}

// saveCategories journals the whole category registry once per change.
func (c *Change) saveCategories() {
	if c.categoriesSaved {
		return
	}
	c.categoriesSaved = true
	l := c.ledger
	prev := slices.Clone(l.categories)
	for _, cat := range prev {
		c.categories[cat.ID] = cat
	}
	c.undo = append(c.undo, func() { l.categories = prev })
}

func (c *Change) saveMembers() {
	if c.membersSaved {
		return
	}
	c.membersSaved = true
	l := c.ledger
	prev := slices.Clone(l.members)
	for _, m := range prev {
		c.members[m.ID] = m
	}
	c.undo = append(c.undo, func() { l.members = prev })
}

// Dirty lists the records a change wrote or removed, ordered so that a store
// with foreign keys can apply puts first (parents before children) and then
// deletes (children before parents).
type Dirty struct {
	Members             []Member
	Categories          []Category
	Accounts            []Account
	Transactions        []Transaction
	DeletedTransactions []uuid.UUID
	DeletedAccounts     []uuid.UUID
	DeletedCategories   []uuid.UUID
	DeletedMembers      []uuid.UUID
}

func (d Dirty) Empty() bool {
	return len(d.Members)+len(d.Categories)+len(d.Accounts)+len(d.Transactions)+
		len(d.DeletedTransactions)+len(d.DeletedAccounts)+len(d.DeletedCategories)+len(d.DeletedMembers) == 0
}

// Dirty computes the records to persist. It must be called before Commit.
func (c *Change) Dirty() Dirty {
	l := c.ledger
	var d Dirty

	if c.membersSaved {
		current := make(map[uuid.UUID]struct{}, len(l.members))
		for _, m := range l.members {
			current[m.ID] = struct{}{}
		}
		d.Members = slices.Clone(l.members)
		for id := range c.members {
			if _, ok := current[id]; !ok {
				d.DeletedMembers = append(d.DeletedMembers, id)
			}
		}
	}

	// Registry order is positional, so a touched registry is written whole.
	if c.categoriesSaved {
		current := make(map[uuid.UUID]struct{}, len(l.categories))
		for _, cat := range l.categories {
			current[cat.ID] = struct{}{}
		}
		d.Categories = slices.Clone(l.categories)
		for id := range c.categories {
			if _, ok := current[id]; !ok {
				d.DeletedCategories = append(d.DeletedCategories, id)
			}
		}
	}

	var deletedAccounts []Account
	for id, prev := range c.accounts {
		if acc, ok := l.accounts[id]; ok {
			d.Accounts = append(d.Accounts, acc)
		} else if prev.ID != uuid.Nil {
			deletedAccounts = append(deletedAccounts, prev)
		}
	}
	sort.SliceStable(d.Accounts, func(i, j int) bool {
		if d.Accounts[i].HasParent() != d.Accounts[j].HasParent() {
			return !d.Accounts[i].HasParent()
		}
		return slices.Index(l.accountSeq, d.Accounts[i].ID) < slices.Index(l.accountSeq, d.Accounts[j].ID)
	})
	sort.SliceStable(deletedAccounts, func(i, j int) bool {
		return deletedAccounts[i].HasParent() && !deletedAccounts[j].HasParent()
	})
	for _, acc := range deletedAccounts {
		d.DeletedAccounts = append(d.DeletedAccounts, acc.ID)
	}

	for _, id := range l.txSeq {
		if _, ok := c.transactions[id]; ok {
			d.Transactions = append(d.Transactions, l.transactions[id])
		}
	}
	for id := range c.transactions {
		if _, ok := l.transactions[id]; !ok {
			d.DeletedTransactions = append(d.DeletedTransactions, id)
		}
	}
	return d
}

func removeID(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	if i := slices.Index(ids, id); i >= 0 {
		return slices.Delete(ids, i, i+1)
	}
	return ids
}
