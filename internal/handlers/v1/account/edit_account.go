package account

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/household-ledger/internal/handlers/v1/httperr"
	"github.com/carson-networks/household-ledger/internal/ledger"
	"github.com/carson-networks/household-ledger/internal/logging"
)

// EditAccountInput is the Huma input for editing an account. An empty
// parentID detaches the account from its parent.
type EditAccountInput struct {
	HouseholdID string `path:"householdID" doc:"Household UUID"`
	AccountID   string `path:"accountID" doc:"Account UUID"`
	Body        struct {
		Name     *string `json:"name,omitempty" doc:"New name"`
		ParentID *string `json:"parentID,omitempty" doc:"New parent UUID, empty string for none"`
		Billing  *string `json:"billing,omitempty" doc:"New billing mode"`
	}
}

type EditAccountOutput struct {
	Body Account
}

type accountEditor interface {
	EditAccount(ctx context.Context, householdID, id uuid.UUID, patch ledger.AccountPatch) (ledger.Account, error)
}

// EditAccountHandler handles PATCH /v1/household/{householdID}/account/{accountID}.
type EditAccountHandler struct {
	AccountService accountEditor
}

func NewEditAccountHandler(svc accountEditor) *EditAccountHandler {
	return &EditAccountHandler{AccountService: svc}
}

func (h *EditAccountHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "edit-account",
		Method:      http.MethodPatch,
		Path:        "/v1/household/{householdID}/account/{accountID}",
		Summary:     "Edit an account",
		Description: "Changes name, parent or billing mode. The balance is not affected.",
		Tags:        []string{"Accounts"},
	}, h.handle)
}

func (h *EditAccountHandler) handle(ctx context.Context, input *EditAccountInput) (*EditAccountOutput, error) {
	logData := logging.GetLogData(ctx)

	householdID, err := httperr.ParseID("householdID", input.HouseholdID)
	if err != nil {
		return nil, err
	}
	id, err := httperr.ParseID("accountID", input.AccountID)
	if err != nil {
		return nil, err
	}

	patch := ledger.AccountPatch{Name: input.Body.Name}
	if input.Body.ParentID != nil {
		parent, err := httperr.ParseOptionalID("parentID", *input.Body.ParentID)
		if err != nil {
			return nil, err
		}
		patch.ParentID = &parent
	}
	if input.Body.Billing != nil {
		billing, err := ledger.ParseBillingMode(*input.Body.Billing)
		if err != nil {
			return nil, huma.Error400BadRequest("invalid billing", err)
		}
		patch.Billing = &billing
	}

	stopTimer := logData.AddTiming("editAccountMs")
	acc, err := h.AccountService.EditAccount(ctx, householdID, id, patch)
	stopTimer()
	if err != nil {
		return nil, httperr.FromError("failed to edit account", err)
	}
	logData.AddData("accountID", acc.ID.String())
	return &EditAccountOutput{Body: FromLedger(acc)}, nil
}
