package billing

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/household-ledger/internal/handlers/v1/account"
	"github.com/carson-networks/household-ledger/internal/handlers/v1/httperr"
	"github.com/carson-networks/household-ledger/internal/ledger"
	"github.com/carson-networks/household-ledger/internal/logging"
)

type RunBillingCheckInput struct {
	HouseholdID string `path:"householdID" doc:"Household UUID"`
	Body        struct {
		AsOf string `json:"asOf,omitempty" doc:"Date to check (YYYY-MM-DD), defaults to today"`
	}
}

type RunBillingCheckOutput struct {
	Body struct {
		Reset []account.Account `json:"reset" doc:"Accounts zeroed by this check"`
	}
}

type billingChecker interface {
	RunBillingCycleCheck(ctx context.Context, householdID uuid.UUID, asOf time.Time) ([]ledger.Account, error)
}

// RunBillingCheckHandler handles POST /v1/household/{householdID}/billing/check.
type RunBillingCheckHandler struct {
	ReportService billingChecker
}

func NewRunBillingCheckHandler(svc billingChecker) *RunBillingCheckHandler {
	return &RunBillingCheckHandler{ReportService: svc}
}

func (h *RunBillingCheckHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "run-billing-check",
		Method:      http.MethodPost,
		Path:        "/v1/household/{householdID}/billing/check",
		Summary:     "Run the billing-cycle check",
		Description: "Zeroes the card accounts whose billing day is the given date. Repeating it on the same day changes nothing.",
		Tags:        []string{"Billing"},
	}, h.handle)
}

func (h *RunBillingCheckHandler) handle(ctx context.Context, input *RunBillingCheckInput) (*RunBillingCheckOutput, error) {
	logData := logging.GetLogData(ctx)

	householdID, err := httperr.ParseID("householdID", input.HouseholdID)
	if err != nil {
		return nil, err
	}
	var asOf time.Time
	if input.Body.AsOf != "" {
		if asOf, err = httperr.ParseDate("asOf", input.Body.AsOf); err != nil {
			return nil, err
		}
	}

	reset, err := h.ReportService.RunBillingCycleCheck(ctx, householdID, asOf)
	if err != nil {
		return nil, httperr.FromError("failed to run billing check", err)
	}

	logData.AddData("resetCount", len(reset))
	out := &RunBillingCheckOutput{}
	out.Body.Reset = account.FromLedgerList(reset)
	return out, nil
}
