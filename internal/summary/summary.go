// Package summary derives income, expense and category totals from a
// household snapshot.
package summary

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/household-ledger/internal/ledger"
)

type Period string

const (
	PeriodMonthly Period = "monthly"
	PeriodYearly  Period = "yearly"
	PeriodCustom  Period = "custom"
)

// Filter selects the transactions a summary or listing covers.
type Filter struct {
	Period Period
	// Start and End bound a custom period, both inclusive calendar dates.
	// A zero bound leaves that side open.
	Start time.Time
	End   time.Time
	// Member restricts the result to one member's transactions. Empty means all.
	Member string
}

func (f Filter) Validate() error {
	switch f.Period {
	case PeriodMonthly, PeriodYearly:
		return nil
	case PeriodCustom:
		if !f.Start.IsZero() && !f.End.IsZero() && ledger.CivilDate(f.Start).After(ledger.CivilDate(f.End)) {
			return fmt.Errorf("%w: period start %s is after end %s", ledger.ErrValidation,
				f.Start.Format(time.DateOnly), f.End.Format(time.DateOnly))
		}
		return nil
	}
	return fmt.Errorf("%w: period %q", ledger.ErrValidation, f.Period)
}

// matcher binds a filter to one instant so every transaction is judged
// against the same month and year.
type matcher struct {
	filter     Filter
	year       int
	month      time.Month
	start, end time.Time
}

func newMatcher(f Filter, now time.Time) matcher {
	m := matcher{filter: f, year: now.Year(), month: now.Month()}
	if !f.Start.IsZero() {
		m.start = ledger.CivilDate(f.Start)
	}
	if !f.End.IsZero() {
		m.end = ledger.CivilDate(f.End)
	}
	return m
}

func (m matcher) match(tx ledger.Transaction) bool {
	if m.filter.Member != "" && tx.Member != m.filter.Member {
		return false
	}
	date := ledger.CivilDate(tx.Date)
	switch m.filter.Period {
	case PeriodMonthly:
		return date.Year() == m.year && date.Month() == m.month
	case PeriodYearly:
		return date.Year() == m.year
	case PeriodCustom:
		if !m.start.IsZero() && date.Before(m.start) {
			return false
		}
		if !m.end.IsZero() && date.After(m.end) {
			return false
		}
		return true
	}
	return false
}

// Select returns the transactions matching f, in their original order. now
// is read once and should already be in the household's time zone.
func Select(txs []ledger.Transaction, f Filter, now time.Time) ([]ledger.Transaction, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	m := newMatcher(f, now)
	var out []ledger.Transaction
	for _, tx := range txs {
		if m.match(tx) {
			out = append(out, tx)
		}
	}
	return out, nil
}

type CategoryShare struct {
	Category string
	Total    decimal.Decimal
	// Percent of the period's expense, rounded to two places.
	Percent decimal.Decimal
}

type Summary struct {
	Income    decimal.Decimal
	Expense   decimal.Decimal
	Balance   decimal.Decimal
	Breakdown []CategoryShare
}

var hundred = decimal.NewFromInt(100)

// Compute aggregates the snapshot's transactions selected by f. The
// breakdown covers expenses only and is empty when there are none.
func Compute(snap *ledger.Snapshot, f Filter, now time.Time) (Summary, error) {
	txs, err := Select(snap.Transactions, f, now)
	if err != nil {
		return Summary{}, err
	}

	s := Summary{Income: decimal.Zero, Expense: decimal.Zero}
	totals := make(map[string]decimal.Decimal)
	for _, tx := range txs {
		switch tx.Type {
		case ledger.TransactionTypeIncome:
			s.Income = s.Income.Add(tx.Amount)
		case ledger.TransactionTypeExpense:
			s.Expense = s.Expense.Add(tx.Amount)
			totals[tx.Category] = totals[tx.Category].Add(tx.Amount)
		}
	}
	s.Balance = s.Income.Sub(s.Expense)

	if s.Expense.IsZero() {
		s.Breakdown = []CategoryShare{}
		return s, nil
	}
	s.Breakdown = make([]CategoryShare, 0, len(totals))
	for category, total := range totals {
		s.Breakdown = append(s.Breakdown, CategoryShare{
			Category: category,
			Total:    total,
			Percent:  total.Mul(hundred).DivRound(s.Expense, 2),
		})
	}
	sort.Slice(s.Breakdown, func(i, j int) bool {
		a, b := s.Breakdown[i], s.Breakdown[j]
		if c := a.Total.Cmp(b.Total); c != 0 {
			return c > 0
		}
		return a.Category < b.Category
	})
	return s, nil
}
