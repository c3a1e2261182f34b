package category

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/household-ledger/internal/ledger"
)

// Category is the API response model for a category registry entry.
type Category struct {
	ID   string `json:"id" doc:"Category UUID"`
	Type string `json:"type" enum:"expense,income" doc:"Transaction type the category applies to"`
	Name string `json:"name" doc:"Category name"`
}

func fromLedger(c ledger.Category) Category {
	return Category{ID: c.ID.String(), Type: string(c.Type), Name: c.Name}
}

// categoryService is what the category handlers need from the registry.
type categoryService interface {
	AddCategory(ctx context.Context, householdID uuid.UUID, typ ledger.TransactionType, name string) (ledger.Category, error)
	DeleteCategory(ctx context.Context, householdID uuid.UUID, typ ledger.TransactionType, name string) error
	MoveCategory(ctx context.Context, householdID uuid.UUID, typ ledger.TransactionType, name string, dir ledger.MoveDirection) error
	RenameCategory(ctx context.Context, householdID uuid.UUID, typ ledger.TransactionType, oldName, newName string) (int, error)
	ListCategories(ctx context.Context, householdID uuid.UUID, typ ledger.TransactionType) ([]ledger.Category, error)
}

// Handler serves the category registry endpoints.
type Handler struct {
	RegistryService categoryService
}

func NewHandler(svc categoryService) *Handler {
	return &Handler{RegistryService: svc}
}
