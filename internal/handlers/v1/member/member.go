package member

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

// Member is the API response model for a household member.
type Member struct {
	ID        string `json:"id" doc:"Member UUID"`
	Name      string `json:"name" doc:"Member name"`
	Role      string `json:"role" enum:"admin,member" doc:"Member role"`
	Email     string `json:"email,omitempty" doc:"Contact email"`
	CreatedAt string `json:"createdAt" doc:"RFC3339 creation time"`
}

// FromLedger converts a ledger member to its API model.
func FromLedger(m ledger.Member) Member {
	return Member{
		ID:        m.ID.String(),
		Name:      m.Name,
		Role:      string(m.Role),
		Email:     m.Email,
		CreatedAt: m.CreatedAt.Format(time.RFC3339),
	}
}

type memberService interface {
	AddMember(ctx context.Context, householdID uuid.UUID, name, email string) (ledger.Member, []ledger.Account, error)
	DeleteMember(ctx context.Context, householdID uuid.UUID, name string) error
	RenameMember(ctx context.Context, householdID uuid.UUID, oldName, newName string) (int, error)
	ListMembers(ctx context.Context, householdID uuid.UUID) ([]ledger.Member, error)
}

// Handler serves the member registry endpoints.
type Handler struct {
	RegistryService memberService
}

func NewHandler(svc memberService) *Handler {
	return &Handler{RegistryService: svc}
}

type MemberPath struct {
	HouseholdID string `path:"householdID" doc:"Household UUID"`
	Name        string `path:"name" doc:"Member name"`
}

type AddMemberInput struct {
	HouseholdID string `path:"householdID" doc:"Household UUID"`
	Body        struct {
		Name  string `json:"name" minLength:"1" doc:"Member name, unique in the household"`
		Email string `json:"email,omitempty" doc:"Contact email"`
	}
}

type AddMemberOutput struct {
	Status int
	Body   struct {
		Member   Member            `json:"member"`
		Accounts []account.Account `json:"accounts" doc:"Default accounts created for the member"`
	}
}

type DeleteMemberInput struct {
	MemberPath
}

type DeleteMemberOutput struct {
	Status int
}

type RenameMemberInput struct {
	MemberPath
	Body struct {
		NewName string `json:"newName" minLength:"1" doc:"New member name"`
	}
}

type RenameMemberOutput struct {
	Body struct {
		Updated int `json:"updated" doc:"Number of accounts and transactions rewritten"`
	}
}

type ListMembersInput struct {
	HouseholdID string `path:"householdID" doc:"Household UUID"`
}

type ListMembersOutput struct {
	Body struct {
		Members []Member `json:"members"`
	}
}

// Register registers every member endpoint with the Huma API.
func (h *Handler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "add-member",
		Method:      http.MethodPost,
		Path:        "/v1/household/{householdID}/member",
		Summary:     "Add a member",
		Description: "Adds a member and creates the member's default accounts.",
		Tags:        []string{"Members"},
	}, h.add)
	huma.Register(api, huma.Operation{
		OperationID: "delete-member",
		Method:      http.MethodDelete,
		Path:        "/v1/household/{householdID}/member/{name}",
		Summary:     "Delete a member",
		Description: "Deletes a member and the member's accounts unless transactions reference them.",
		Tags:        []string{"Members"},
	}, h.delete)
	huma.Register(api, huma.Operation{
		OperationID: "rename-member",
		Method:      http.MethodPut,
		Path:        "/v1/household/{householdID}/member/{name}",
		Summary:     "Rename a member",
		Description: "Renames the member and every account and transaction that references them.",
		Tags:        []string{"Members"},
	}, h.rename)
	huma.Register(api, huma.Operation{
		OperationID: "list-members",
		Method:      http.MethodGet,
		Path:        "/v1/household/{householdID}/members",
		Summary:     "List members",
		Tags:        []string{"Members"},
	}, h.list)
}

func (h *Handler) add(ctx context.Context, input *AddMemberInput) (*AddMemberOutput, error) {
	householdID, err := httperr.ParseID("householdID", input.HouseholdID)
	if err != nil {
		return nil, err
	}
	m, accounts, err := h.RegistryService.AddMember(ctx, householdID, input.Body.Name, input.Body.Email)
	if err != nil {
		return nil, httperr.FromError("failed to add member", err)
	}
	out := &AddMemberOutput{Status: http.StatusCreated}
	out.Body.Member = FromLedger(m)
	out.Body.Accounts = account.FromLedgerList(accounts)
	return out, nil
}

func (h *Handler) delete(ctx context.Context, input *DeleteMemberInput) (*DeleteMemberOutput, error) {
	householdID, err := httperr.ParseID("householdID", input.HouseholdID)
	if err != nil {
		return nil, err
	}
	if err := h.RegistryService.DeleteMember(ctx, householdID, input.Name); err != nil {
		return nil, httperr.FromError("failed to delete member", err)
	}
	return &DeleteMemberOutput{Status: http.StatusNoContent}, nil
}

func (h *Handler) rename(ctx context.Context, input *RenameMemberInput) (*RenameMemberOutput, error) {
	logData := logging.GetLogData(ctx)

	householdID, err := httperr.ParseID("householdID", input.HouseholdID)
	if err != nil {
		return nil, err
	}

	stopTimer := logData.AddTiming("renameMemberMs")
	n, err := h.RegistryService.RenameMember(ctx, householdID, input.Name, input.Body.NewName)
	stopTimer()
	if err != nil {
		return nil, httperr.FromError("failed to rename member", err)
	}

	logData.AddData("updated", n)
	out := &RenameMemberOutput{}
	out.Body.Updated = n
	return out, nil
}

func (h *Handler) list(ctx context.Context, input *ListMembersInput) (*ListMembersOutput, error) {
	householdID, err := httperr.ParseID("householdID", input.HouseholdID)
	if err != nil {
		return nil, err
	}
	members, err := h.RegistryService.ListMembers(ctx, householdID)
	if err != nil {
		return nil, httperr.FromError("failed to list members", err)
	}
	out := &ListMembersOutput{}
	out.Body.Members = make([]Member, len(members))
	for i, m := range members {
		out.Body.Members[i] = FromLedger(m)
	}
	return out, nil
}
