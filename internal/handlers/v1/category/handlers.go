package category

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/household-ledger/internal/handlers/v1/httperr"
	"github.com/carson-networks/household-ledger/internal/ledger"
	"github.com/carson-networks/household-ledger/internal/logging"
)

// CategoryPath addresses one registry entry.
type CategoryPath struct {
	HouseholdID string `path:"householdID" doc:"Household UUID"`
	Type        string `path:"type" enum:"expense,income" doc:"Category type"`
	Name        string `path:"name" doc:"Category name"`
}

type AddCategoryInput struct {
	HouseholdID string `path:"householdID" doc:"Household UUID"`
	Body        struct {
		Type string `json:"type" enum:"expense,income" doc:"Category type"`
		Name string `json:"name" minLength:"1" doc:"Category name, unique per type"`
	}
}

type AddCategoryOutput struct {
	Status int
	Body   Category
}

type DeleteCategoryInput struct {
	CategoryPath
}

type MoveCategoryInput struct {
	CategoryPath
	Body struct {
		Direction string `json:"direction" enum:"up,down" doc:"Direction to move"`
	}
}

type RenameCategoryInput struct {
	CategoryPath
	Body struct {
		NewName string `json:"newName" minLength:"1" doc:"New category name"`
	}
}

type RenameCategoryOutput struct {
	Body struct {
		Updated int `json:"updated" doc:"Number of transactions rewritten"`
	}
}

type ListCategoriesInput struct {
	HouseholdID string `path:"householdID" doc:"Household UUID"`
	Type        string `query:"type" enum:"expense,income" doc:"Only categories of this type"`
}

type ListCategoriesOutput struct {
	Body struct {
		Categories []Category `json:"categories" doc:"Registry entries in order"`
	}
}

type NoContentOutput struct {
	Status int
}

// Register registers every category endpoint with the Huma API.
func (h *Handler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "add-category",
		Method:      http.MethodPost,
		Path:        "/v1/household/{householdID}/category",
		Summary:     "Add a category",
		Tags:        []string{"Categories"},
	}, h.add)
	huma.Register(api, huma.Operation{
		OperationID: "delete-category",
		Method:      http.MethodDelete,
		Path:        "/v1/household/{householdID}/category/{type}/{name}",
		Summary:     "Delete a category",
		Description: "Deletes a category that no transaction of its type uses.",
		Tags:        []string{"Categories"},
	}, h.delete)
	huma.Register(api, huma.Operation{
		OperationID: "move-category",
		Method:      http.MethodPost,
		Path:        "/v1/household/{householdID}/category/{type}/{name}/move",
		Summary:     "Reorder a category",
		Tags:        []string{"Categories"},
	}, h.move)
	huma.Register(api, huma.Operation{
		OperationID: "rename-category",
		Method:      http.MethodPut,
		Path:        "/v1/household/{householdID}/category/{type}/{name}",
		Summary:     "Rename a category",
		Description: "Renames the category and every transaction of the same type that uses it.",
		Tags:        []string{"Categories"},
	}, h.rename)
	huma.Register(api, huma.Operation{
		OperationID: "list-categories",
		Method:      http.MethodGet,
		Path:        "/v1/household/{householdID}/categories",
		Summary:     "List categories",
		Tags:        []string{"Categories"},
	}, h.list)
}

func (h *Handler) add(ctx context.Context, input *AddCategoryInput) (*AddCategoryOutput, error) {
	householdID, err := httperr.ParseID("householdID", input.HouseholdID)
	if err != nil {
		return nil, err
	}
	c, err := h.RegistryService.AddCategory(ctx, householdID, ledger.TransactionType(input.Body.Type), input.Body.Name)
	if err != nil {
		return nil, httperr.FromError("failed to add category", err)
	}
	return &AddCategoryOutput{Status: http.StatusCreated, Body: fromLedger(c)}, nil
}

func (h *Handler) delete(ctx context.Context, input *DeleteCategoryInput) (*NoContentOutput, error) {
	householdID, err := httperr.ParseID("householdID", input.HouseholdID)
	if err != nil {
		return nil, err
	}
	if err := h.RegistryService.DeleteCategory(ctx, householdID, ledger.TransactionType(input.Type), input.Name); err != nil {
		return nil, httperr.FromError("failed to delete category", err)
	}
	return &NoContentOutput{Status: http.StatusNoContent}, nil
}

func (h *Handler) move(ctx context.Context, input *MoveCategoryInput) (*NoContentOutput, error) {
	householdID, err := httperr.ParseID("householdID", input.HouseholdID)
	if err != nil {
		return nil, err
	}
	dir, err := httperr.ParseDirection(input.Body.Direction)
	if err != nil {
		return nil, err
	}
	if err := h.RegistryService.MoveCategory(ctx, householdID, ledger.TransactionType(input.Type), input.Name, dir); err != nil {
		return nil, httperr.FromError("failed to move category", err)
	}
	return &NoContentOutput{Status: http.StatusNoContent}, nil
}

func (h *Handler) rename(ctx context.Context, input *RenameCategoryInput) (*RenameCategoryOutput, error) {
	logData := logging.GetLogData(ctx)

	householdID, err := httperr.ParseID("householdID", input.HouseholdID)
	if err != nil {
		return nil, err
	}

	stopTimer := logData.AddTiming("renameCategoryMs")
	n, err := h.RegistryService.RenameCategory(ctx, householdID, ledger.TransactionType(input.Type), input.Name, input.Body.NewName)
	stopTimer()
	if err != nil {
		return nil, httperr.FromError("failed to rename category", err)
	}

	logData.AddData("updated", n)
	out := &RenameCategoryOutput{}
	out.Body.Updated = n
	return out, nil
}

func (h *Handler) list(ctx context.Context, input *ListCategoriesInput) (*ListCategoriesOutput, error) {
	householdID, err := httperr.ParseID("householdID", input.HouseholdID)
	if err != nil {
		return nil, err
	}
	categories, err := h.RegistryService.ListCategories(ctx, householdID, ledger.TransactionType(input.Type))
	if err != nil {
		return nil, httperr.FromError("failed to list categories", err)
	}

	out := &ListCategoriesOutput{}
	out.Body.Categories = make([]Category, len(categories))
	for i, c := range categories {
		out.Body.Categories[i] = fromLedger(c)
	}
	return out, nil
}
