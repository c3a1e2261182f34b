package postgres

import (
	"time"

	"github.com/aarondl/opt/null"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/household-ledger/internal/ledger"
)

var householdColumns = []any{"id", "name", "created_at", "version"}

type householdRow struct {
	ID        uuid.UUID `db:"id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
	Version   int64     `db:"version"`
}

func (r householdRow) toLedger() ledger.Household {
	return ledger.Household{ID: r.ID, Name: r.Name, CreatedAt: r.CreatedAt, Version: r.Version}
}

var memberColumns = []any{"id", "name", "role", "email", "created_at"}

type memberRow struct {
	ID        uuid.UUID        `db:"id"`
	Name      string           `db:"name"`
	Role      string           `db:"role"`
	Email     null.Val[string] `db:"email"`
	CreatedAt time.Time        `db:"created_at"`
}

func (r memberRow) toLedger() ledger.Member {
	return ledger.Member{
		ID:        r.ID,
		Name:      r.Name,
		Role:      ledger.MemberRole(r.Role),
		Email:     r.Email.GetOr(""),
		CreatedAt: r.CreatedAt,
	}
}

var categoryColumns = []any{"id", "type", "name"}

type categoryRow struct {
	ID   uuid.UUID `db:"id"`
	Type string    `db:"type"`
	Name string    `db:"name"`
}

func (r categoryRow) toLedger() ledger.Category {
	return ledger.Category{ID: r.ID, Type: ledger.TransactionType(r.Type), Name: r.Name}
}

var accountColumns = []any{
	"id", "member", "name", "balance", "parent_id", "billing_kind",
	"billing_day", "last_billing_reset", "sort_order", "created_at",
}

type accountRow struct {
	ID               uuid.UUID           `db:"id"`
	Member           string              `db:"member"`
	Name             string              `db:"name"`
	Balance          decimal.Decimal     `db:"balance"`
	ParentID         uuid.NullUUID       `db:"parent_id"`
	BillingKind      string              `db:"billing_kind"`
	BillingDay       int                 `db:"billing_day"`
	LastBillingReset null.Val[time.Time] `db:"last_billing_reset"`
	SortOrder        int                 `db:"sort_order"`
	CreatedAt        time.Time           `db:"created_at"`
}

const (
	billingKindNone   = "none"
	billingKindDirect = "direct"
	billingKindDay    = "day"
)

func billingKind(b ledger.BillingMode) string {
	switch b.Kind {
	case ledger.BillingDirectDebit:
		return billingKindDirect
	case ledger.BillingDayOfMonth:
		return billingKindDay
	}
	return billingKindNone
}

func (r accountRow) toLedger() ledger.Account {
	billing := ledger.NoBilling()
	switch r.BillingKind {
	case billingKindDirect:
		billing = ledger.DirectDebit()
	case billingKindDay:
		billing = ledger.BillingDay(r.BillingDay)
	}
	var lastReset time.Time
	if r.LastBillingReset.IsValue() {
		lastReset = ledger.CivilDate(r.LastBillingReset.MustGet())
	}
	return ledger.Account{
		ID:               r.ID,
		Member:           r.Member,
		Name:             r.Name,
		Balance:          r.Balance,
		ParentID:         r.ParentID,
		Billing:          billing,
		LastBillingReset: lastReset,
		Order:            r.SortOrder,
		CreatedAt:        r.CreatedAt,
	}
}

var transactionColumns = []any{
	"id", "account_id", "type", "amount", "category", "date",
	"member", "note", "recurring", "frequency", "created_at",
}

type transactionRow struct {
	ID        uuid.UUID       `db:"id"`
	AccountID uuid.UUID       `db:"account_id"`
	Type      string          `db:"type"`
	Amount    decimal.Decimal `db:"amount"`
	Category  string          `db:"category"`
	Date      time.Time       `db:"date"`
	Member    string          `db:"member"`
	Note      string          `db:"note"`
	Recurring bool            `db:"recurring"`
	Frequency string          `db:"frequency"`
	CreatedAt time.Time       `db:"created_at"`
}

func (r transactionRow) toLedger() ledger.Transaction {
	return ledger.Transaction{
		ID:        r.ID,
		Type:      ledger.TransactionType(r.Type),
		Amount:    r.Amount,
		Category:  r.Category,
		Date:      ledger.CivilDate(r.Date),
		Member:    r.Member,
		AccountID: r.AccountID,
		Note:      r.Note,
		Recurrence: ledger.Recurrence{
			Recurring: r.Recurring,
			Frequency: ledger.Frequency(r.Frequency),
		},
		CreatedAt: r.CreatedAt,
	}
}
