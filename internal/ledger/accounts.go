package ledger

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

// DefaultAccountNames are created for every new member.
var DefaultAccountNames = []string{"Bank Account", "Cash", "Bit"}

type AccountInput struct {
	Name           string
	Member         string
	InitialBalance decimal.Decimal
	ParentID       uuid.NullUUID
	Billing        BillingMode
}

// AccountPatch holds administrative edits. None of them touch the balance.
type AccountPatch struct {
	Name     *string
	ParentID *uuid.NullUUID
	Billing  *BillingMode
}

type MoveDirection int

const (
	MoveUp MoveDirection = iota
	MoveDown
)

// AddAccount creates an account with the given opening balance.
func (c *Change) AddAccount(in AccountInput, now time.Time) (Account, error) {
	l := c.ledger
	in.Name = strings.TrimSpace(in.Name)
	in.Member = strings.TrimSpace(in.Member)
	if in.Name == "" {
		return Account{}, fmt.Errorf("%w: account name is required", ErrValidation)
	}
	if l.memberIndex(in.Member) < 0 {
		return Account{}, fmt.Errorf("%w: member %q is not registered", ErrValidation, in.Member)
	}
	if err := in.Billing.Validate(); err != nil {
		return Account{}, err
	}

	acc := Account{
		ID:        l.newID(),
		Member:    in.Member,
		Name:      in.Name,
		Balance:   in.InitialBalance,
		ParentID:  in.ParentID,
		Billing:   in.Billing,
		Order:     l.nextAccountOrder(in.Member),
		CreatedAt: now,
	}
	if err := c.putAccount(acc); err != nil {
		return Account{}, err
	}
	return acc, nil
}

// EditAccount applies name, parent and billing-mode changes.
func (c *Change) EditAccount(id uuid.UUID, patch AccountPatch) (Account, error) {
	acc, ok := c.ledger.accounts[id]
	if !ok {
		return Account{}, fmt.Errorf("%w: %s", ErrAccountNotFound, id)
	}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return Account{}, fmt.Errorf("%w: account name is required", ErrValidation)
		}
		acc.Name = name
	}
	if patch.ParentID != nil {
		acc.ParentID = *patch.ParentID
	}
	if patch.Billing != nil {
		if err := patch.Billing.Validate(); err != nil {
			return Account{}, err
		}
		if patch.Billing.Kind != BillingDayOfMonth {
			acc.LastBillingReset = time.Time{}
		}
		acc.Billing = *patch.Billing
	}
	if err := c.putAccount(acc); err != nil {
		return Account{}, err
	}
	return acc, nil
}

// DeleteAccount removes an account that no transaction and no child references.
func (c *Change) DeleteAccount(id uuid.UUID) error {
	l := c.ledger
	if _, ok := l.accounts[id]; !ok {
		return fmt.Errorf("%w: %s", ErrAccountNotFound, id)
	}
	if l.hasTransactionsFor(id) {
		return ErrHasTransactions
	}
	if l.hasChildren(id) {
		return ErrHasChildren
	}
	c.removeAccount(id)
	return nil
}

// MoveAccount swaps a top-level account with its neighbour in the owner's ordering.
// Moving past either end is a no-op.
func (c *Change) MoveAccount(id uuid.UUID, dir MoveDirection) error {
	l := c.ledger
	acc, ok := l.accounts[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrAccountNotFound, id)
	}
	if acc.HasParent() {
		return fmt.Errorf("%w: only top-level accounts can be reordered", ErrValidation)
	}

	var siblings []Account
	for _, other := range l.accounts {
		if other.Member == acc.Member && !other.HasParent() {
			siblings = append(siblings, other)
		}
	}
	sortAccounts(siblings, l.accountSeq)

	idx := slices.IndexFunc(siblings, func(a Account) bool { return a.ID == id })
	target := idx - 1
	if dir == MoveDown {
		target = idx + 1
	}
	if target < 0 || target >= len(siblings) {
		return nil
	}

	a, b := siblings[idx], siblings[target]
	a.Order, b.Order = b.Order, a.Order
	if a.Order == b.Order {
		// legacy rows without an order: fall back to positions
		a.Order, b.Order = target, idx
	}
	c.storeAccount(a)
	c.storeAccount(b)
	return nil
}

func (l *Ledger) nextAccountOrder(member string) int {
	next := 0
	for _, acc := range l.accounts {
		if acc.Member == member && acc.Order >= next {
			next = acc.Order + 1
		}
	}
	return next
}

func (c *Change) addDefaultAccounts(member string, now time.Time) ([]Account, error) {
	accounts := make([]Account, 0, len(DefaultAccountNames))
	for _, name := range DefaultAccountNames {
		acc, err := c.AddAccount(AccountInput{Name: name, Member: member, Billing: NoBilling()}, now)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, acc)
	}
	return accounts, nil
}

// sortAccounts orders by Order, then by insertion sequence.
func sortAccounts(accounts []Account, seq []uuid.UUID) {
	sort.SliceStable(accounts, func(i, j int) bool {
		if accounts[i].Order != accounts[j].Order {
			return accounts[i].Order < accounts[j].Order
		}
		return slices.Index(seq, accounts[i].ID) < slices.Index(seq, accounts[j].ID)
	})
}
