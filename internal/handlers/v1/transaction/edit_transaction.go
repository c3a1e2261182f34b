package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/household-ledger/internal/handlers/v1/httperr"
	"github.com/carson-networks/household-ledger/internal/ledger"
	"github.com/carson-networks/household-ledger/internal/logging"
)

// EditTransactionInput is the Huma input for editing a transaction. Omitted
// body fields keep their current value.
type EditTransactionInput struct {
	HouseholdID   string `path:"householdID" doc:"Household UUID"`
	TransactionID string `path:"transactionID" doc:"Transaction UUID"`
	Body          EditTransactionBody
}

type EditTransactionBody struct {
	Type      *string `json:"type,omitempty" enum:"expense,income" doc:"Transaction type"`
	Amount    *string `json:"amount,omitempty" doc:"Positive decimal amount"`
	Category  *string `json:"category,omitempty" doc:"Category name"`
	Date      *string `json:"date,omitempty" doc:"YYYY-MM-DD or RFC3339"`
	Member    *string `json:"member,omitempty" doc:"Member name"`
	AccountID *string `json:"accountID,omitempty" doc:"Account UUID"`
	Note      *string `json:"note,omitempty" doc:"Free-form note"`
	Recurring *bool   `json:"recurring,omitempty" doc:"Recurring flag"`
	Frequency *string `json:"frequency,omitempty" doc:"Recurrence frequency"`
}

type EditTransactionOutput struct {
	Body Transaction
}

type transactionEditor interface {
	EditTransaction(ctx context.Context, householdID, id uuid.UUID, patch ledger.TransactionPatch) (ledger.Transaction, error)
}

// EditTransactionHandler handles PATCH /v1/household/{householdID}/transaction/{transactionID}.
type EditTransactionHandler struct {
	TransactionService transactionEditor
}

func NewEditTransactionHandler(svc transactionEditor) *EditTransactionHandler {
	return &EditTransactionHandler{TransactionService: svc}
}

func (h *EditTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "edit-transaction",
		Method:      http.MethodPatch,
		Path:        "/v1/household/{householdID}/transaction/{transactionID}",
		Summary:     "Edit a transaction",
		Description: "Reverts the old transaction and applies the edited one in a single step.",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

func parsePatch(body EditTransactionBody) (ledger.TransactionPatch, error) {
	var patch ledger.TransactionPatch
	if body.Type != nil {
		typ := ledger.TransactionType(*body.Type)
		patch.Type = &typ
	}
	if body.Amount != nil {
		amount, err := httperr.ParseAmount("amount", *body.Amount)
		if err != nil {
			return patch, err
		}
		patch.Amount = &amount
	}
	if body.Date != nil {
		date, err := httperr.ParseDate("date", *body.Date)
		if err != nil {
			return patch, err
		}
		patch.Date = &date
	}
	if body.AccountID != nil {
		id, err := httperr.ParseID("accountID", *body.AccountID)
		if err != nil {
			return patch, err
		}
		patch.AccountID = &id
	}
	if body.Frequency != nil {
		freq := ledger.Frequency(*body.Frequency)
		patch.Frequency = &freq
	}
	patch.Category = body.Category
	patch.Member = body.Member
	patch.Note = body.Note
	patch.Recurring = body.Recurring
	return patch, nil
}

func (h *EditTransactionHandler) handle(ctx context.Context, input *EditTransactionInput) (*EditTransactionOutput, error) {
	logData := logging.GetLogData(ctx)

	householdID, err := httperr.ParseID("householdID", input.HouseholdID)
	if err != nil {
		return nil, err
	}
	id, err := httperr.ParseID("transactionID", input.TransactionID)
	if err != nil {
		return nil, err
	}
	patch, err := parsePatch(input.Body)
	if err != nil {
		return nil, err
	}

	stopTimer := logData.AddTiming("editTransactionMs")
	tx, err := h.TransactionService.EditTransaction(ctx, householdID, id, patch)
	stopTimer()
	if err != nil {
		return nil, httperr.FromError("failed to edit transaction", err)
	}

	logData.AddData("transactionID", tx.ID.String())
	return &EditTransactionOutput{Body: fromLedger(tx)}, nil
}
