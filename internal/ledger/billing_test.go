package ledger

import (
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEffectiveBillingDay(t *testing.T) {
	tests := []struct {
		day   int
		year  int
		month time.Month
		want  int
	}{
		{15, 2025, time.July, 15},
		{31, 2025, time.July, 31},
		{31, 2025, time.April, 30},
		{31, 2025, time.February, 28},
		{30, 2024, time.February, 29},
		{29, 2024, time.February, 29},
		{1, 2025, time.February, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, EffectiveBillingDay(tt.day, tt.year, tt.month), "day %d in %s %d", tt.day, tt.month, tt.year)
	}
}

func TestResetBillingCycles(t *testing.T) {
	l := newTestLedger(t)
	parent := addAccount(t, l, AccountInput{Name: "Bank", InitialBalance: dec("1000")})
	card := addAccount(t, l, AccountInput{
		Name:     "Visa",
		ParentID: uuid.NullUUID{UUID: parent.ID, Valid: true},
		Billing:  BillingDay(15),
	})
	other := addAccount(t, l, AccountInput{Name: "Amex", Billing: BillingDay(16)})
	addTx(t, l, card.ID, TransactionTypeExpense, "120")
	addTx(t, l, other.ID, TransactionTypeExpense, "5")

	reset := mutate(t, l, func(c *Change) ([]Account, error) {
		return c.ResetBillingCycles(testNow), nil
	})
	require.Len(t, reset, 1)
	assert.Equal(t, card.ID, reset[0].ID)
	assert.Equal(t, CivilDate(testNow), reset[0].LastBillingReset)

	assertBalance(t, l, card.ID, "0")
	assertBalance(t, l, parent.ID, "880")
	assertBalance(t, l, other.ID, "-5")

	// a second run on the same day is a no-op
	addTx(t, l, card.ID, TransactionTypeExpense, "10")
	reset = mutate(t, l, func(c *Change) ([]Account, error) {
		return c.ResetBillingCycles(testNow.Add(6 * time.Hour)), nil
	})
	assert.Empty(t, reset)
	assertBalance(t, l, card.ID, "-10")
}

func TestResetBillingCyclesClampsToMonthEnd(t *testing.T) {
	l := newTestLedger(t)
	card := addAccount(t, l, AccountInput{Name: "Visa", Billing: BillingDay(31)})
	addTx(t, l, card.ID, TransactionTypeExpense, "3")

	feb27 := time.Date(2025, time.February, 27, 12, 0, 0, 0, time.UTC)
	reset := mutate(t, l, func(c *Change) ([]Account, error) { return c.ResetBillingCycles(feb27), nil })
	assert.Empty(t, reset)

	feb28 := feb27.AddDate(0, 0, 1)
	reset = mutate(t, l, func(c *Change) ([]Account, error) { return c.ResetBillingCycles(feb28), nil })
	require.Len(t, reset, 1)
	assertBalance(t, l, card.ID, "0")
}

func TestResetBillingCyclesIgnoresOtherModes(t *testing.T) {
	l := newTestLedger(t)
	plain := addAccount(t, l, AccountInput{Name: "Savings", InitialBalance: dec("50")})

	chg := l.Begin()
	reset := chg.ResetBillingCycles(testNow)
	assert.Empty(t, reset)
	assert.True(t, chg.Empty())
	chg.Commit()

	assertBalance(t, l, plain.ID, "50")
}
