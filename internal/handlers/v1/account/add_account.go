package account

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/household-ledger/internal/handlers/v1/httperr"
	"github.com/carson-networks/household-ledger/internal/ledger"
	"github.com/carson-networks/household-ledger/internal/logging"
)

// AddAccountInput is the Huma input for creating an account.
type AddAccountInput struct {
	HouseholdID string `path:"householdID" doc:"Household UUID"`
	Body        AddAccountBody
}

// AddAccountBody is the request body fields for creating an account.
type AddAccountBody struct {
	Name           string `json:"name" minLength:"1" doc:"Account name"`
	Member         string `json:"member" minLength:"1" doc:"Owning member name"`
	InitialBalance string `json:"initialBalance,omitempty" doc:"Opening balance (e.g. '0' or '1234.56'), defaults to 0"`
	ParentID       string `json:"parentID,omitempty" doc:"Parent account UUID; the parent must be top-level"`
	Billing        string `json:"billing,omitempty" doc:"Billing mode: none, direct or a billing day 1-31"`
}

type AddAccountOutput struct {
	Status int
	Body   Account
}

type accountAdder interface {
	AddAccount(ctx context.Context, householdID uuid.UUID, in ledger.AccountInput) (ledger.Account, error)
}

// AddAccountHandler handles POST /v1/household/{householdID}/account.
type AddAccountHandler struct {
	AccountService accountAdder
}

// NewAddAccountHandler creates a new AddAccountHandler.
func NewAddAccountHandler(svc accountAdder) *AddAccountHandler {
	return &AddAccountHandler{AccountService: svc}
}

// Register registers the add account endpoint with the Huma API.
func (h *AddAccountHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "add-account",
		Method:      http.MethodPost,
		Path:        "/v1/household/{householdID}/account",
		Summary:     "Create an account",
		Description: "Creates an account for a member, optionally under a parent and with a billing mode.",
		Tags:        []string{"Accounts"},
	}, h.handle)
}

func parseAddAccountInput(input *AddAccountInput) (uuid.UUID, ledger.AccountInput, error) {
	householdID, err := httperr.ParseID("householdID", input.HouseholdID)
	if err != nil {
		return uuid.Nil, ledger.AccountInput{}, err
	}
	balance := decimal.Zero
	if input.Body.InitialBalance != "" {
		if balance, err = httperr.ParseAmount("initialBalance", input.Body.InitialBalance); err != nil {
			return uuid.Nil, ledger.AccountInput{}, err
		}
	}
	parent, err := httperr.ParseOptionalID("parentID", input.Body.ParentID)
	if err != nil {
		return uuid.Nil, ledger.AccountInput{}, err
	}
	billing, err := ledger.ParseBillingMode(input.Body.Billing)
	if err != nil {
		return uuid.Nil, ledger.AccountInput{}, huma.Error400BadRequest("invalid billing", err)
	}

	return householdID, ledger.AccountInput{
		Name:           input.Body.Name,
		Member:         input.Body.Member,
		InitialBalance: balance,
		ParentID:       parent,
		Billing:        billing,
	}, nil
}

func (h *AddAccountHandler) handle(ctx context.Context, input *AddAccountInput) (*AddAccountOutput, error) {
	logData := logging.GetLogData(ctx)

	householdID, in, err := parseAddAccountInput(input)
	if err != nil {
		return nil, err
	}

	stopTimer := logData.AddTiming("addAccountMs")
	acc, err := h.AccountService.AddAccount(ctx, householdID, in)
	stopTimer()
	if err != nil {
		return nil, httperr.FromError("failed to create account", err)
	}

	logData.AddData("accountID", acc.ID.String())
	return &AddAccountOutput{Status: http.StatusCreated, Body: FromLedger(acc)}, nil
}
