package account

import (
	"time"

	"github.com/carson-networks/household-ledger/internal/ledger"
)

// Account is the API response model for an account.
type Account struct {
	ID               string  `json:"id" doc:"Account UUID"`
	Member           string  `json:"member" doc:"Owning member name"`
	Name             string  `json:"name" doc:"Account name"`
	Balance          string  `json:"balance" doc:"Decimal balance"`
	ParentID         *string `json:"parentID,omitempty" doc:"Parent account UUID"`
	Billing          string  `json:"billing" doc:"Billing mode: none, direct or a billing day 1-31"`
	LastBillingReset string  `json:"lastBillingReset,omitempty" doc:"Date of the last billing-day reset"`
	Order            int     `json:"order" doc:"Position among the member's accounts"`
}

// FromLedger converts a ledger account to its API model.
func FromLedger(acc ledger.Account) Account {
	out := Account{
		ID:      acc.ID.String(),
		Member:  acc.Member,
		Name:    acc.Name,
		Balance: acc.Balance.String(),
		Billing: acc.Billing.String(),
		Order:   acc.Order,
	}
	if acc.ParentID.Valid {
		parent := acc.ParentID.UUID.String()
		out.ParentID = &parent
	}
	if !acc.LastBillingReset.IsZero() {
		out.LastBillingReset = acc.LastBillingReset.Format(time.DateOnly)
	}
	return out
}

func FromLedgerList(accounts []ledger.Account) []Account {
	out := make([]Account, len(accounts))
	for i, acc := range accounts {
		out[i] = FromLedger(acc)
	}
	return out
}
