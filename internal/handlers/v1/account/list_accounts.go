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

// ListAccountsInput is the Huma input for listing accounts.
type ListAccountsInput struct {
	HouseholdID string `path:"householdID" doc:"Household UUID"`
	Member      string `query:"member" doc:"Only this member's accounts"`
}

// ListAccountsResponseBody is the response body for listing accounts.
type ListAccountsResponseBody struct {
	Accounts []Account `json:"accounts" doc:"Accounts, each parent followed by its children"`
}

type ListAccountsOutput struct {
	Body ListAccountsResponseBody
}

type accountLister interface {
	ListAccounts(ctx context.Context, householdID uuid.UUID, member string) ([]ledger.Account, error)
}

// ListAccountsHandler handles GET /v1/household/{householdID}/accounts.
type ListAccountsHandler struct {
	AccountService accountLister
}

// NewListAccountsHandler creates a new ListAccountsHandler.
func NewListAccountsHandler(svc accountLister) *ListAccountsHandler {
	return &ListAccountsHandler{AccountService: svc}
}

// Register registers the list accounts endpoint with the Huma API.
func (h *ListAccountsHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-accounts",
		Method:      http.MethodGet,
		Path:        "/v1/household/{householdID}/accounts",
		Summary:     "List accounts",
		Description: "Returns the household's accounts grouped by member and hierarchy.",
		Tags:        []string{"Accounts"},
	}, h.handle)
}

func (h *ListAccountsHandler) handle(ctx context.Context, input *ListAccountsInput) (*ListAccountsOutput, error) {
	logData := logging.GetLogData(ctx)

	householdID, err := httperr.ParseID("householdID", input.HouseholdID)
	if err != nil {
		return nil, err
	}

	stopTimer := logData.AddTiming("listAccountsMs")
	accounts, err := h.AccountService.ListAccounts(ctx, householdID, input.Member)
	stopTimer()
	if err != nil {
		return nil, httperr.FromError("failed to list accounts", err)
	}

	logData.AddData("accountCount", len(accounts))
	return &ListAccountsOutput{Body: ListAccountsResponseBody{Accounts: FromLedgerList(accounts)}}, nil
}
