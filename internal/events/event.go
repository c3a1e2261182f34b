// Package events publishes a notice of every committed ledger mutation.
// Publishing happens after the durable commit and never affects balances.
package events

import (
	"encoding/json"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/household-ledger/internal/ledger"
)

type AccountBalance struct {
	ID      string `json:"id"`
	Balance string `json:"balance"`
}

// LedgerEvent describes one committed mutation of a household.
type LedgerEvent struct {
	HouseholdID           string           `json:"householdId"`
	Action                string           `json:"action"`
	Accounts              []AccountBalance `json:"accounts"`
	TransactionIDs        []string         `json:"transactionIds"`
	DeletedAccountIDs     []string         `json:"deletedAccountIds,omitempty"`
	DeletedTransactionIDs []string         `json:"deletedTransactionIds,omitempty"`
	OccurredAt            time.Time        `json:"occurredAt"`
}

// NewLedgerEvent summarises the records a change touched.
func NewLedgerEvent(householdID uuid.UUID, action string, d ledger.Dirty, at time.Time) LedgerEvent {
	ev := LedgerEvent{
		HouseholdID:    householdID.String(),
		Action:         action,
		Accounts:       make([]AccountBalance, 0, len(d.Accounts)),
		TransactionIDs: make([]string, 0, len(d.Transactions)),
		OccurredAt:     at.UTC(),
	}
	for _, acc := range d.Accounts {
		ev.Accounts = append(ev.Accounts, AccountBalance{ID: acc.ID.String(), Balance: acc.Balance.String()})
	}
	for _, tx := range d.Transactions {
		ev.TransactionIDs = append(ev.TransactionIDs, tx.ID.String())
	}
	for _, id := range d.DeletedAccounts {
		ev.DeletedAccountIDs = append(ev.DeletedAccountIDs, id.String())
	}
	for _, id := range d.DeletedTransactions {
		ev.DeletedTransactionIDs = append(ev.DeletedTransactionIDs, id.String())
	}
	return ev
}

func (e LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}
