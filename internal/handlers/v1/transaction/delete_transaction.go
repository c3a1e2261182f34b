package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/household-ledger/internal/handlers/v1/httperr"
	"github.com/carson-networks/household-ledger/internal/logging"
)

type DeleteTransactionInput struct {
	HouseholdID   string `path:"householdID" doc:"Household UUID"`
	TransactionID string `path:"transactionID" doc:"Transaction UUID"`
}

type DeleteTransactionOutput struct {
	Status int
}

type transactionDeleter interface {
	DeleteTransaction(ctx context.Context, householdID, id uuid.UUID) error
}

// DeleteTransactionHandler handles DELETE /v1/household/{householdID}/transaction/{transactionID}.
type DeleteTransactionHandler struct {
	TransactionService transactionDeleter
}

func NewDeleteTransactionHandler(svc transactionDeleter) *DeleteTransactionHandler {
	return &DeleteTransactionHandler{TransactionService: svc}
}

func (h *DeleteTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "delete-transaction",
		Method:      http.MethodDelete,
		Path:        "/v1/household/{householdID}/transaction/{transactionID}",
		Summary:     "Delete a transaction",
		Description: "Deletes a transaction and reverts its effect on the account balance.",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

func (h *DeleteTransactionHandler) handle(ctx context.Context, input *DeleteTransactionInput) (*DeleteTransactionOutput, error) {
	logData := logging.GetLogData(ctx)

	householdID, err := httperr.ParseID("householdID", input.HouseholdID)
	if err != nil {
		return nil, err
	}
	id, err := httperr.ParseID("transactionID", input.TransactionID)
	if err != nil {
		return nil, err
	}

	stopTimer := logData.AddTiming("deleteTransactionMs")
	err = h.TransactionService.DeleteTransaction(ctx, householdID, id)
	stopTimer()
	if err != nil {
		return nil, httperr.FromError("failed to delete transaction", err)
	}

	logData.AddData("transactionID", id.String())
	return &DeleteTransactionOutput{Status: http.StatusNoContent}, nil
}
