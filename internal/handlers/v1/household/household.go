package household

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/household-ledger/internal/handlers/v1/httperr"
	"github.com/carson-networks/household-ledger/internal/handlers/v1/member"
	"github.com/carson-networks/household-ledger/internal/ledger"
	"github.com/carson-networks/household-ledger/internal/logging"
)

// Household is the API response model for a household.
type Household struct {
	ID        string `json:"id" doc:"Household UUID"`
	Name      string `json:"name" doc:"Household name"`
	CreatedAt string `json:"createdAt" doc:"RFC3339 creation time"`
}

func fromLedger(h ledger.Household) Household {
	return Household{ID: h.ID.String(), Name: h.Name, CreatedAt: h.CreatedAt.Format(time.RFC3339)}
}

type householdService interface {
	CreateHousehold(ctx context.Context, name, owner, email string) (ledger.Household, ledger.Member, error)
	ListHouseholds(ctx context.Context) ([]ledger.Household, error)
	GetHousehold(ctx context.Context, id uuid.UUID) (*ledger.Snapshot, error)
}

// Handler serves the household endpoints.
type Handler struct {
	HouseholdService householdService
}

func NewHandler(svc householdService) *Handler {
	return &Handler{HouseholdService: svc}
}

type CreateHouseholdInput struct {
	Body struct {
		Name       string `json:"name" minLength:"1" doc:"Household name"`
		Owner      string `json:"owner" minLength:"1" doc:"Name of the first member, who becomes admin"`
		OwnerEmail string `json:"ownerEmail,omitempty" doc:"Owner contact email"`
	}
}

type CreateHouseholdOutput struct {
	Status int
	Body   struct {
		Household Household     `json:"household"`
		Owner     member.Member `json:"owner"`
	}
}

type ListHouseholdsOutput struct {
	Body struct {
		Households []Household `json:"households"`
	}
}

type GetHouseholdInput struct {
	HouseholdID string `path:"householdID" doc:"Household UUID"`
}

type GetHouseholdOutput struct {
	Body struct {
		Household        Household       `json:"household"`
		Members          []member.Member `json:"members"`
		AccountCount     int             `json:"accountCount"`
		TransactionCount int             `json:"transactionCount"`
	}
}

// Register registers the household endpoints with the Huma API.
func (h *Handler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "create-household",
		Method:      http.MethodPost,
		Path:        "/v1/household",
		Summary:     "Create a household",
		Description: "Creates a household with its owner, the default categories and the owner's default accounts.",
		Tags:        []string{"Households"},
	}, h.create)
	huma.Register(api, huma.Operation{
		OperationID: "list-households",
		Method:      http.MethodGet,
		Path:        "/v1/households",
		Summary:     "List households",
		Tags:        []string{"Households"},
	}, h.list)
	huma.Register(api, huma.Operation{
		OperationID: "get-household",
		Method:      http.MethodGet,
		Path:        "/v1/household/{householdID}",
		Summary:     "Get a household",
		Tags:        []string{"Households"},
	}, h.get)
}

func (h *Handler) create(ctx context.Context, input *CreateHouseholdInput) (*CreateHouseholdOutput, error) {
	logData := logging.GetLogData(ctx)

	stopTimer := logData.AddTiming("createHouseholdMs")
	info, owner, err := h.HouseholdService.CreateHousehold(ctx, input.Body.Name, input.Body.Owner, input.Body.OwnerEmail)
	stopTimer()
	if err != nil {
		return nil, httperr.FromError("failed to create household", err)
	}

	logData.AddData("householdID", info.ID.String())
	out := &CreateHouseholdOutput{Status: http.StatusCreated}
	out.Body.Household = fromLedger(info)
	out.Body.Owner = member.FromLedger(owner)
	return out, nil
}

func (h *Handler) list(ctx context.Context, _ *struct{}) (*ListHouseholdsOutput, error) {
	households, err := h.HouseholdService.ListHouseholds(ctx)
	if err != nil {
		return nil, httperr.FromError("failed to list households", err)
	}
	out := &ListHouseholdsOutput{}
	out.Body.Households = make([]Household, len(households))
	for i, hh := range households {
		out.Body.Households[i] = fromLedger(hh)
	}
	return out, nil
}

func (h *Handler) get(ctx context.Context, input *GetHouseholdInput) (*GetHouseholdOutput, error) {
	id, err := httperr.ParseID("householdID", input.HouseholdID)
	if err != nil {
		return nil, err
	}
	snap, err := h.HouseholdService.GetHousehold(ctx, id)
	if err != nil {
		return nil, httperr.FromError("failed to get household", err)
	}

	out := &GetHouseholdOutput{}
	out.Body.Household = fromLedger(snap.Household)
	out.Body.Members = make([]member.Member, len(snap.Members))
	for i, m := range snap.Members {
		out.Body.Members[i] = member.FromLedger(m)
	}
	out.Body.AccountCount = len(snap.Accounts)
	out.Body.TransactionCount = len(snap.Transactions)
	return out, nil
}
