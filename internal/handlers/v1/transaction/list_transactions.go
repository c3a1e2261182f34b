package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/household-ledger/internal/handlers/v1/httperr"
	"github.com/carson-networks/household-ledger/internal/ledger"
	"github.com/carson-networks/household-ledger/internal/logging"
	"github.com/carson-networks/household-ledger/internal/summary"
	"github.com/carson-networks/household-ledger/internal/txsort"
)

// ListTransactionsInput is the Huma input for listing transactions.
type ListTransactionsInput struct {
	HouseholdID string `path:"householdID" doc:"Household UUID"`
	Period      string `query:"period" enum:"monthly,yearly,custom" default:"monthly" doc:"Period filter"`
	Start       string `query:"start" doc:"Inclusive start date for a custom period (YYYY-MM-DD)"`
	End         string `query:"end" doc:"Inclusive end date for a custom period (YYYY-MM-DD)"`
	Member      string `query:"member" doc:"Only this member's transactions"`
	SortKey     string `query:"sortKey" enum:"date,category,user,account,amount" default:"date" doc:"Sort column"`
	SortDir     string `query:"sortDirection" enum:"ascending,descending" default:"ascending" doc:"Sort direction"`
}

type ListTransactionsResponseBody struct {
	Transactions []Transaction `json:"transactions" doc:"Matching transactions in the requested order"`
}

type ListTransactionsOutput struct {
	Body ListTransactionsResponseBody
}

type transactionLister interface {
	GetSortedTransactions(ctx context.Context, householdID uuid.UUID, filter summary.Filter, order txsort.Config) ([]ledger.Transaction, error)
}

// ListTransactionsHandler handles GET /v1/household/{householdID}/transactions.
type ListTransactionsHandler struct {
	TransactionService transactionLister
}

func NewListTransactionsHandler(svc transactionLister) *ListTransactionsHandler {
	return &ListTransactionsHandler{TransactionService: svc}
}

// Register registers the list transactions endpoint with the Huma API.
func (h *ListTransactionsHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-transactions",
		Method:      http.MethodGet,
		Path:        "/v1/household/{householdID}/transactions",
		Summary:     "List transactions",
		Description: "Returns the transactions matching the period and member filter, stably sorted.",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

func (h *ListTransactionsHandler) handle(ctx context.Context, input *ListTransactionsInput) (*ListTransactionsOutput, error) {
	logData := logging.GetLogData(ctx)

	householdID, err := httperr.ParseID("householdID", input.HouseholdID)
	if err != nil {
		return nil, err
	}
	filter, err := httperr.ParseFilter(input.Period, input.Start, input.End, input.Member)
	if err != nil {
		return nil, err
	}
	order := txsort.Config{Key: txsort.Key(input.SortKey), Direction: txsort.Direction(input.SortDir)}

	stopTimer := logData.AddTiming("listTransactionsMs")
	txs, err := h.TransactionService.GetSortedTransactions(ctx, householdID, filter, order)
	stopTimer()
	if err != nil {
		return nil, httperr.FromError("failed to list transactions", err)
	}

	logData.AddData("transactionCount", len(txs))
	resp := ListTransactionsResponseBody{Transactions: make([]Transaction, len(txs))}
	for i, tx := range txs {
		resp.Transactions[i] = fromLedger(tx)
	}
	return &ListTransactionsOutput{Body: resp}, nil
}
