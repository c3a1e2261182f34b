package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// EffectiveBillingDay clamps a billing day to the length of the given month,
// so a card billed on the 31st resets on the last day of shorter months.
func EffectiveBillingDay(day int, year int, month time.Month) int {
	last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if day > last {
		return last
	}
	return day
}

// ResetBillingCycles zeroes every day-of-month account whose effective billing
// day is asOf's calendar day and records the reset date. An account already
// reset on that date is skipped, which makes repeated runs on one day no-ops.
// Parents are not touched. The reset accounts are returned in ledger order.
func (c *Change) ResetBillingCycles(asOf time.Time) []Account {
	l := c.ledger
	today := CivilDate(asOf)
	effective := func(day int) int {
		return EffectiveBillingDay(day, today.Year(), today.Month())
	}

	var reset []Account
	for _, id := range l.accountSeq {
		acc := l.accounts[id]
		if acc.Billing.Kind != BillingDayOfMonth {
			continue
		}
		if effective(acc.Billing.Day) != today.Day() {
			continue
		}
		if !acc.LastBillingReset.IsZero() && CivilDate(acc.LastBillingReset).Equal(today) {
			continue
		}
		acc.Balance = decimal.Zero
		acc.LastBillingReset = today
		c.storeAccount(acc)
		reset = append(reset, acc)
	}
	return reset
}
