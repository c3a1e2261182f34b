package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/household-ledger/internal/ledger"
)

// ErrStale is returned by IWriter.AdvanceVersion when another writer
// committed to the household since it was loaded.
var ErrStale = errors.New("household changed in storage since it was loaded")

// IStorage is the durable home of every household. Implementations must
// return ledger.ErrHouseholdNotFound for an unknown household.
type IStorage interface {
	ListHouseholds(ctx context.Context) ([]ledger.Household, error)
	// LoadHousehold returns members and categories in registry order and
	// accounts and transactions in insertion order.
	LoadHousehold(ctx context.Context, id uuid.UUID) (ledger.Snapshot, error)
	// NewWriter opens a write transaction scoped to one household.
	NewWriter(ctx context.Context, householdID uuid.UUID) (IWriter, error)
	Close() error
}

// IWriter stages writes for one household. Nothing is visible to readers
// until Commit succeeds. Put methods insert or replace by id.
type IWriter interface {
	PutHousehold(ctx context.Context, h ledger.Household) error
	// AdvanceVersion moves the household from version from to from+1 and
	// fails with ErrStale when the stored version is no longer from.
	AdvanceVersion(ctx context.Context, from int64) error
	PutMember(ctx context.Context, m ledger.Member, position int) error
	DeleteMember(ctx context.Context, id uuid.UUID) error
	PutCategory(ctx context.Context, c ledger.Category, position int) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	PutAccount(ctx context.Context, a ledger.Account) error
	DeleteAccount(ctx context.Context, id uuid.UUID) error
	PutTransaction(ctx context.Context, t ledger.Transaction) error
	DeleteTransaction(ctx context.Context, id uuid.UUID) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Flush writes a change's dirty set. Puts go first, parents before
// children, then deletes in reverse dependency order.
func Flush(ctx context.Context, w IWriter, d ledger.Dirty) error {
	for i, m := range d.Members {
		if err := w.PutMember(ctx, m, i); err != nil {
			return fmt.Errorf("put member %s: %w", m.ID, err)
		}
	}
	for i, c := range d.Categories {
		if err := w.PutCategory(ctx, c, i); err != nil {
			return fmt.Errorf("put category %s: %w", c.ID, err)
		}
	}
	for _, a := range d.Accounts {
		if err := w.PutAccount(ctx, a); err != nil {
			return fmt.Errorf("put account %s: %w", a.ID, err)
		}
	}
	for _, t := range d.Transactions {
		if err := w.PutTransaction(ctx, t); err != nil {
			return fmt.Errorf("put transaction %s: %w", t.ID, err)
		}
	}
	for _, id := range d.DeletedTransactions {
		if err := w.DeleteTransaction(ctx, id); err != nil {
			return fmt.Errorf("delete transaction %s: %w", id, err)
		}
	}
	for _, id := range d.DeletedAccounts {
		if err := w.DeleteAccount(ctx, id); err != nil {
			return fmt.Errorf("delete account %s: %w", id, err)
		}
	}
	for _, id := range d.DeletedCategories {
		if err := w.DeleteCategory(ctx, id); err != nil {
			return fmt.Errorf("delete category %s: %w", id, err)
		}
	}
	for _, id := range d.DeletedMembers {
		if err := w.DeleteMember(ctx, id); err != nil {
			return fmt.Errorf("delete member %s: %w", id, err)
		}
	}
	return nil
}
