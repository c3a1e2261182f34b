package report

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/household-ledger/internal/handlers/v1/httperr"
	"github.com/carson-networks/household-ledger/internal/logging"
	"github.com/carson-networks/household-ledger/internal/summary"
)

type GetSummaryInput struct {
	HouseholdID string `path:"householdID" doc:"Household UUID"`
	Period      string `query:"period" enum:"monthly,yearly,custom" default:"monthly" doc:"Period filter"`
	Start       string `query:"start" doc:"Inclusive start date for a custom period (YYYY-MM-DD)"`
	End         string `query:"end" doc:"Inclusive end date for a custom period (YYYY-MM-DD)"`
	Member      string `query:"member" doc:"Only this member's transactions"`
}

type CategoryShare struct {
	Category string `json:"category" doc:"Expense category"`
	Total    string `json:"total" doc:"Sum of the category's expenses"`
	Percent  string `json:"percent" doc:"Share of the period's expense, two decimals"`
}

type SummaryBody struct {
	Income    string          `json:"income" doc:"Total income"`
	Expense   string          `json:"expense" doc:"Total expense"`
	Balance   string          `json:"balance" doc:"Income minus expense"`
	Breakdown []CategoryShare `json:"breakdown" doc:"Expense by category, largest first; empty when there is no expense"`
}

type GetSummaryOutput struct {
	Body SummaryBody
}

type summaryGetter interface {
	GetSummary(ctx context.Context, householdID uuid.UUID, filter summary.Filter) (summary.Summary, error)
}

// GetSummaryHandler handles GET /v1/household/{householdID}/summary.
type GetSummaryHandler struct {
	ReportService summaryGetter
}

func NewGetSummaryHandler(svc summaryGetter) *GetSummaryHandler {
	return &GetSummaryHandler{ReportService: svc}
}

func (h *GetSummaryHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-summary",
		Method:      http.MethodGet,
		Path:        "/v1/household/{householdID}/summary",
		Summary:     "Summarize a period",
		Description: "Returns income, expense, balance and the expense breakdown by category.",
		Tags:        []string{"Reports"},
	}, h.handle)
}

func (h *GetSummaryHandler) handle(ctx context.Context, input *GetSummaryInput) (*GetSummaryOutput, error) {
	logData := logging.GetLogData(ctx)

	householdID, err := httperr.ParseID("householdID", input.HouseholdID)
	if err != nil {
		return nil, err
	}
	filter, err := httperr.ParseFilter(input.Period, input.Start, input.End, input.Member)
	if err != nil {
		return nil, err
	}

	stopTimer := logData.AddTiming("getSummaryMs")
	s, err := h.ReportService.GetSummary(ctx, householdID, filter)
	stopTimer()
	if err != nil {
		return nil, httperr.FromError("failed to compute summary", err)
	}

	body := SummaryBody{
		Income:    s.Income.StringFixed(2),
		Expense:   s.Expense.StringFixed(2),
		Balance:   s.Balance.StringFixed(2),
		Breakdown: make([]CategoryShare, len(s.Breakdown)),
	}
	for i, share := range s.Breakdown {
		body.Breakdown[i] = CategoryShare{
			Category: share.Category,
			Total:    share.Total.StringFixed(2),
			Percent:  share.Percent.StringFixed(2),
		}
	}
	return &GetSummaryOutput{Body: body}, nil
}
