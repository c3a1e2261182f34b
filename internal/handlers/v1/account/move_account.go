package account

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/household-ledger/internal/handlers/v1/httperr"
	"github.com/carson-networks/household-ledger/internal/ledger"
)

type MoveAccountInput struct {
	HouseholdID string `path:"householdID" doc:"Household UUID"`
	AccountID   string `path:"accountID" doc:"Account UUID"`
	Body        struct {
		Direction string `json:"direction" enum:"up,down" doc:"Direction to move"`
	}
}

type MoveAccountOutput struct {
	Status int
}

type accountMover interface {
	MoveAccount(ctx context.Context, householdID, id uuid.UUID, dir ledger.MoveDirection) error
}

// MoveAccountHandler handles POST /v1/household/{householdID}/account/{accountID}/move.
type MoveAccountHandler struct {
	AccountService accountMover
}

func NewMoveAccountHandler(svc accountMover) *MoveAccountHandler {
	return &MoveAccountHandler{AccountService: svc}
}

func (h *MoveAccountHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "move-account",
		Method:      http.MethodPost,
		Path:        "/v1/household/{householdID}/account/{accountID}/move",
		Summary:     "Reorder an account",
		Description: "Swaps a top-level account with its neighbour in the member's ordering.",
		Tags:        []string{"Accounts"},
	}, h.handle)
}

func (h *MoveAccountHandler) handle(ctx context.Context, input *MoveAccountInput) (*MoveAccountOutput, error) {
	householdID, err := httperr.ParseID("householdID", input.HouseholdID)
	if err != nil {
		return nil, err
	}
	id, err := httperr.ParseID("accountID", input.AccountID)
	if err != nil {
		return nil, err
	}
	dir, err := httperr.ParseDirection(input.Body.Direction)
	if err != nil {
		return nil, err
	}

	if err := h.AccountService.MoveAccount(ctx, householdID, id, dir); err != nil {
		return nil, httperr.FromError("failed to move account", err)
	}
	return &MoveAccountOutput{Status: http.StatusNoContent}, nil
}
