package account

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/household-ledger/internal/handlers/v1/httperr"
	"github.com/carson-networks/household-ledger/internal/logging"
)

type DeleteAccountInput struct {
	HouseholdID string `path:"householdID" doc:"Household UUID"`
	AccountID   string `path:"accountID" doc:"Account UUID"`
}

type DeleteAccountOutput struct {
	Status int
}

type accountDeleter interface {
	DeleteAccount(ctx context.Context, householdID, id uuid.UUID) error
}

// DeleteAccountHandler handles DELETE /v1/household/{householdID}/account/{accountID}.
type DeleteAccountHandler struct {
	AccountService accountDeleter
}

func NewDeleteAccountHandler(svc accountDeleter) *DeleteAccountHandler {
	return &DeleteAccountHandler{AccountService: svc}
}

func (h *DeleteAccountHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "delete-account",
		Method:      http.MethodDelete,
		Path:        "/v1/household/{householdID}/account/{accountID}",
		Summary:     "Delete an account",
		Description: "Deletes an account that has no transactions and no child accounts.",
		Tags:        []string{"Accounts"},
	}, h.handle)
}

func (h *DeleteAccountHandler) handle(ctx context.Context, input *DeleteAccountInput) (*DeleteAccountOutput, error) {
	logData := logging.GetLogData(ctx)

	householdID, err := httperr.ParseID("householdID", input.HouseholdID)
	if err != nil {
		return nil, err
	}
	id, err := httperr.ParseID("accountID", input.AccountID)
	if err != nil {
		return nil, err
	}
	logData.AddData("accountID", id.String())

	stopTimer := logData.AddTiming("deleteAccountMs")
	err = h.AccountService.DeleteAccount(ctx, householdID, id)
	stopTimer()
	if err != nil {
		return nil, httperr.FromError("failed to delete account", err)
	}
	return &DeleteAccountOutput{Status: http.StatusNoContent}, nil
}
