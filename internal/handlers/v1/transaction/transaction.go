package transaction

import (
	"time"

	"github.com/carson-networks/household-ledger/internal/ledger"
)

// Transaction is the API response model for a transaction.
type Transaction struct {
	ID        string `json:"id" doc:"Transaction UUID"`
	Type      string `json:"type" enum:"expense,income" doc:"Transaction type"`
	Amount    string `json:"amount" doc:"Positive decimal amount"`
	Category  string `json:"category" doc:"Category name"`
	Date      string `json:"date" doc:"Calendar date (YYYY-MM-DD)"`
	Member    string `json:"member" doc:"Member name"`
	AccountID string `json:"accountID" doc:"Account UUID"`
	Note      string `json:"note,omitempty" doc:"Free-form note"`
	Recurring bool   `json:"recurring" doc:"Whether the transaction recurs"`
	Frequency string `json:"frequency,omitempty" doc:"Recurrence frequency"`
	CreatedAt string `json:"createdAt" doc:"RFC3339 creation time"`
}

func fromLedger(tx ledger.Transaction) Transaction {
	return Transaction{
		ID:        tx.ID.String(),
		Type:      string(tx.Type),
		Amount:    tx.Amount.String(),
		Category:  tx.Category,
		Date:      tx.Date.Format(time.DateOnly),
		Member:    tx.Member,
		AccountID: tx.AccountID.String(),
		Note:      tx.Note,
		Recurring: tx.Recurrence.Recurring,
		Frequency: string(tx.Recurrence.Frequency),
		CreatedAt: tx.CreatedAt.Format(time.RFC3339),
	}
}
