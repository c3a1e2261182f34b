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

// AddTransactionInput is the Huma input for recording a transaction.
type AddTransactionInput struct {
	HouseholdID string `path:"householdID" doc:"Household UUID"`
	Body        AddTransactionBody
}

// AddTransactionBody is the request body for recording a transaction.
type AddTransactionBody struct {
	Type      string `json:"type" enum:"expense,income" doc:"Transaction type"`
	Amount    string `json:"amount" doc:"Positive decimal amount (e.g. '12.50')"`
	Category  string `json:"category" minLength:"1" doc:"Category registered for the type"`
	Date      string `json:"date" doc:"YYYY-MM-DD or RFC3339"`
	Member    string `json:"member" minLength:"1" doc:"Member name"`
	AccountID string `json:"accountID" doc:"Account UUID"`
	Note      string `json:"note,omitempty" doc:"Free-form note"`
	Recurring bool   `json:"recurring,omitempty" doc:"Marks the transaction as recurring; nothing is generated"`
	Frequency string `json:"frequency,omitempty" enum:"daily,weekly,monthly,yearly" doc:"Required when recurring"`
}

// AddTransactionOutput is the response for recording a transaction.
type AddTransactionOutput struct {
	Status int
	Body   Transaction
}

type transactionAdder interface {
	AddTransaction(ctx context.Context, householdID uuid.UUID, in ledger.TransactionInput) (ledger.Transaction, error)
}

// AddTransactionHandler handles POST /v1/household/{householdID}/transaction.
type AddTransactionHandler struct {
	TransactionService transactionAdder
}

func NewAddTransactionHandler(svc transactionAdder) *AddTransactionHandler {
	return &AddTransactionHandler{TransactionService: svc}
}

// Register registers the add transaction endpoint with the Huma API.
func (h *AddTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "add-transaction",
		Method:      http.MethodPost,
		Path:        "/v1/household/{householdID}/transaction",
		Summary:     "Record a transaction",
		Description: "Records an expense or income and applies it to the account balance and its parent.",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

func parseAddTransactionInput(input *AddTransactionInput) (uuid.UUID, ledger.TransactionInput, error) {
	householdID, err := httperr.ParseID("householdID", input.HouseholdID)
	if err != nil {
		return uuid.Nil, ledger.TransactionInput{}, err
	}
	accountID, err := httperr.ParseID("accountID", input.Body.AccountID)
	if err != nil {
		return uuid.Nil, ledger.TransactionInput{}, err
	}
	amount, err := httperr.ParseAmount("amount", input.Body.Amount)
	if err != nil {
		return uuid.Nil, ledger.TransactionInput{}, err
	}
	date, err := httperr.ParseDate("date", input.Body.Date)
	if err != nil {
		return uuid.Nil, ledger.TransactionInput{}, err
	}

	return householdID, ledger.TransactionInput{
		Type:      ledger.TransactionType(input.Body.Type),
		Amount:    amount,
		Category:  input.Body.Category,
		Date:      date,
		Member:    input.Body.Member,
		AccountID: accountID,
		Note:      input.Body.Note,
		Recurrence: ledger.Recurrence{
			Recurring: input.Body.Recurring,
			Frequency: ledger.Frequency(input.Body.Frequency),
		},
	}, nil
}

func (h *AddTransactionHandler) handle(ctx context.Context, input *AddTransactionInput) (*AddTransactionOutput, error) {
	logData := logging.GetLogData(ctx)

	householdID, in, err := parseAddTransactionInput(input)
	if err != nil {
		return nil, err
	}

	stopTimer := logData.AddTiming("addTransactionMs")
	tx, err := h.TransactionService.AddTransaction(ctx, householdID, in)
	stopTimer()
	if err != nil {
		return nil, httperr.FromError("failed to add transaction", err)
	}

	logData.AddData("transactionID", tx.ID.String())
	return &AddTransactionOutput{Status: http.StatusCreated, Body: fromLedger(tx)}, nil
}
