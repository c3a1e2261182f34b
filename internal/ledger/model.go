package ledger

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

// TransactionType is either an expense or an income. Categories share the same type space.
type TransactionType string

const (
	TransactionTypeExpense TransactionType = "expense"
	TransactionTypeIncome  TransactionType = "income"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	return t == TransactionTypeExpense || t == TransactionTypeIncome
}

// Frequency is the informational recurrence frequency of a transaction.
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
)

func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyYearly:
		return true
	}
	return false
}

// Recurrence is recorded with a transaction but never executed.
type Recurrence struct {
	Recurring bool
	Frequency Frequency
}

type BillingKind int8

const (
	BillingNone BillingKind = iota
	BillingDirectDebit
	BillingDayOfMonth
)

// BillingMode describes how a card-type account is settled.
type BillingMode struct {
	Kind BillingKind
	Day  int // 1..31, only for BillingDayOfMonth
}

func NoBilling() BillingMode   { return BillingMode{Kind: BillingNone} }
func DirectDebit() BillingMode { return BillingMode{Kind: BillingDirectDebit} }

func BillingDay(day int) BillingMode {
	return BillingMode{Kind: BillingDayOfMonth, Day: day}
}

func (b BillingMode) Validate() error {
	switch b.Kind {
	case BillingNone, BillingDirectDebit:
		if b.Day != 0 {
			return fmt.Errorf("%w: billing day set without day-of-month mode", ErrValidation)
		}
		return nil
	case BillingDayOfMonth:
		if b.Day < 1 || b.Day > 31 {
			return fmt.Errorf("%w: billing day %d out of range 1..31", ErrValidation, b.Day)
		}
		return nil
	}
	return fmt.Errorf("%w: unknown billing mode %d", ErrValidation, b.Kind)
}

// String renders the mode as "none", "direct" or the billing day.
func (b BillingMode) String() string {
	switch b.Kind {
	case BillingDirectDebit:
		return "direct"
	case BillingDayOfMonth:
		return strconv.Itoa(b.Day)
	}
	return "none"
}

// ParseBillingMode is the inverse of BillingMode.String. An empty string means none.
func ParseBillingMode(s string) (BillingMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return NoBilling(), nil
	case "direct", "direct-debit":
		return DirectDebit(), nil
	}
	day, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return BillingMode{}, fmt.Errorf("%w: billing mode %q", ErrValidation, s)
	}
	mode := BillingDay(day)
	if err := mode.Validate(); err != nil {
		return BillingMode{}, err
	}
	return mode, nil
}

// Household is the unit of serialization and data isolation.
// Version counts the writes committed for the household; storage refuses a
// write made against an older version.
type Household struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
	Version   int64
}

type MemberRole string

const (
	MemberRoleAdmin  MemberRole = "admin"
	MemberRoleMember MemberRole = "member"
)

type Member struct {
	ID        uuid.UUID
	Name      string
	Role      MemberRole
	Email     string
	CreatedAt time.Time
}

type Category struct {
	ID   uuid.UUID
	Type TransactionType
	Name string
}

// Account is a named balance bucket owned by one member. Member holds the owner's name.
type Account struct {
	ID               uuid.UUID
	Member           string
	Name             string
	Balance          decimal.Decimal
	ParentID         uuid.NullUUID
	Billing          BillingMode
	LastBillingReset time.Time // calendar date of the last billing-day reset, zero if never
	Order            int
	CreatedAt        time.Time
}

func (a Account) HasParent() bool {
	return a.ParentID.Valid
}

type Transaction struct {
	ID         uuid.UUID
	Type       TransactionType
	Amount     decimal.Decimal
	Category   string
	Date       time.Time
	Member     string
	AccountID  uuid.UUID
	Note       string
	Recurrence Recurrence
	CreatedAt  time.Time
}

// SignedAmount is the delta the transaction contributes to its account.
func (t Transaction) SignedAmount() decimal.Decimal {
	return signedDelta(t.Amount, t.Type)
}

func signedDelta(amount decimal.Decimal, typ TransactionType) decimal.Decimal {
	if typ == TransactionTypeExpense {
		return amount.Neg()
	}
	return amount
}

// CivilDate truncates t to its calendar date in its own location, expressed at UTC midnight.
func CivilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
