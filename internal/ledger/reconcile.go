package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

// applyDelta is the only place a transaction moves a balance. The raw delta
// is added to the account and, unmodified, to its parent. zeroDirectDebit is
// set on the apply path only: a direct-debit account is forced back to zero
// after the delta lands, the revert path leaves it alone.
func (c *Change) applyDelta(accountID uuid.UUID, delta decimal.Decimal, zeroDirectDebit bool) error {
	l := c.ledger
	acc, ok := l.accounts[accountID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrAccountNotFound, accountID)
	}
	var parent Account
	if acc.ParentID.Valid {
		parent, ok = l.accounts[acc.ParentID.UUID]
		if !ok {
			return fmt.Errorf("%w: parent %s of %q", ErrAccountNotFound, acc.ParentID.UUID, acc.Name)
		}
	}

	acc.Balance = acc.Balance.Add(delta)
	if zeroDirectDebit && acc.Billing.Kind == BillingDirectDebit {
		acc.Balance = decimal.Zero
	}
	c.storeAccount(acc)

	if acc.ParentID.Valid {
		parent.Balance = parent.Balance.Add(delta)
		c.storeAccount(parent)
	}
	return nil
}

// Apply adds the signed amount of a transaction to accountID.
func (c *Change) Apply(accountID uuid.UUID, amount decimal.Decimal, typ TransactionType) error {
	return c.applyDelta(accountID, signedDelta(amount, typ), true)
}

// Revert removes the signed amount of a transaction from accountID.
func (c *Change) Revert(accountID uuid.UUID, amount decimal.Decimal, typ TransactionType) error {
	return c.applyDelta(accountID, signedDelta(amount, typ).Neg(), false)
}

// TransactionInput carries every caller-settable transaction field.
type TransactionInput struct {
	Type       TransactionType
	Amount     decimal.Decimal
	Category   string
	Date       time.Time
	Member     string
	AccountID  uuid.UUID
	Note       string
	Recurrence Recurrence
}

// TransactionPatch holds the fields an edit replaces; nil fields keep their value.
type TransactionPatch struct {
	Type       *TransactionType
	Amount     *decimal.Decimal
	Category   *string
	Date       *time.Time
	Member     *string
	AccountID  *uuid.UUID
	Note       *string
	Recurring  *bool
	Frequency  *Frequency
}

func (p TransactionPatch) merge(tx Transaction) TransactionInput {
	in := TransactionInput{
		Type:       tx.Type,
		Amount:     tx.Amount,
		Category:   tx.Category,
		Date:       tx.Date,
		Member:     tx.Member,
		AccountID:  tx.AccountID,
		Note:       tx.Note,
		Recurrence: tx.Recurrence,
	}
	if p.Type != nil {
		in.Type = *p.Type
	}
	if p.Amount != nil {
		in.Amount = *p.Amount
	}
	if p.Category != nil {
		in.Category = *p.Category
	}
	if p.Date != nil {
		in.Date = *p.Date
	}
	if p.Member != nil {
		in.Member = *p.Member
	}
	if p.AccountID != nil {
		in.AccountID = *p.AccountID
	}
	if p.Note != nil {
		in.Note = *p.Note
	}
	if p.Recurring != nil {
		in.Recurrence.Recurring = *p.Recurring
	}
	if p.Frequency != nil {
		in.Recurrence.Frequency = *p.Frequency
	}
	return in
}

// validateTransaction checks in against the current registries and accounts
// and returns the normalized input.
func (l *Ledger) validateTransaction(in TransactionInput) (TransactionInput, error) {
	in.Category = strings.TrimSpace(in.Category)
	in.Member = strings.TrimSpace(in.Member)
	in.Note = strings.TrimSpace(in.Note)

	if !in.Type.Valid() {
		return in, fmt.Errorf("%w: transaction type %q", ErrValidation, in.Type)
	}
	if !in.Amount.IsPositive() {
		return in, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	if in.Category == "" {
		return in, fmt.Errorf("%w: category is required", ErrValidation)
	}
	if l.categoryIndex(in.Type, in.Category) < 0 {
		return in, fmt.Errorf("%w: %s category %q is not registered", ErrValidation, in.Type, in.Category)
	}
	if in.Date.IsZero() {
		return in, fmt.Errorf("%w: date is required", ErrValidation)
	}
	in.Date = CivilDate(in.Date)
	if in.Member == "" {
		return in, fmt.Errorf("%w: member is required", ErrValidation)
	}
	if l.memberIndex(in.Member) < 0 {
		return in, fmt.Errorf("%w: member %q is not registered", ErrValidation, in.Member)
	}
	if in.Recurrence.Recurring && !in.Recurrence.Frequency.Valid() {
		return in, fmt.Errorf("%w: recurrence frequency %q", ErrValidation, in.Recurrence.Frequency)
	}
	if !in.Recurrence.Recurring {
		in.Recurrence.Frequency = ""
	}
	if _, ok := l.accounts[in.AccountID]; !ok {
		return in, fmt.Errorf("%w: %s", ErrAccountNotFound, in.AccountID)
	}
	return in, nil
}

// AddTransaction records a transaction and applies its delta.
func (c *Change) AddTransaction(in TransactionInput, now time.Time) (Transaction, error) {
	in, err := c.ledger.validateTransaction(in)
	if err != nil {
		return Transaction{}, err
	}
	tx := Transaction{
		ID:         c.ledger.newID(),
		Type:       in.Type,
		Amount:     in.Amount,
		Category:   in.Category,
		Date:       in.Date,
		Member:     in.Member,
		AccountID:  in.AccountID,
		Note:       in.Note,
		Recurrence: in.Recurrence,
		CreatedAt:  now,
	}
	if err := c.Apply(tx.AccountID, tx.Amount, tx.Type); err != nil {
		return Transaction{}, err
	}
	c.storeTransaction(tx)
	return tx, nil
}

// EditTransaction reverts the stored transaction and applies the edited one.
// Both steps happen inside the change, so no reader sees the reverted state.
func (c *Change) EditTransaction(id uuid.UUID, patch TransactionPatch) (Transaction, error) {
	old, ok := c.ledger.transactions[id]
	if !ok {
		return Transaction{}, fmt.Errorf("%w: %s", ErrTransactionNotFound, id)
	}
	in, err := c.ledger.validateTransaction(patch.merge(old))
	if err != nil {
		return Transaction{}, err
	}

	if err := c.Revert(old.AccountID, old.Amount, old.Type); err != nil {
		return Transaction{}, err
	}
	if err := c.Apply(in.AccountID, in.Amount, in.Type); err != nil {
		return Transaction{}, err
	}

	tx := old
	tx.Type = in.Type
	tx.Amount = in.Amount
	tx.Category = in.Category
	tx.Date = in.Date
	tx.Member = in.Member
	tx.AccountID = in.AccountID
	tx.Note = in.Note
	tx.Recurrence = in.Recurrence
	c.storeTransaction(tx)
	return tx, nil
}

// DeleteTransaction reverts the transaction's delta and removes it.
func (c *Change) DeleteTransaction(id uuid.UUID) (Transaction, error) {
	tx, ok := c.ledger.transactions[id]
	if !ok {
		return Transaction{}, fmt.Errorf("%w: %s", ErrTransactionNotFound, id)
	}
	if err := c.Revert(tx.AccountID, tx.Amount, tx.Type); err != nil {
		return Transaction{}, err
	}
	c.removeTransaction(id)
	return tx, nil
}
