package actions

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/household-ledger/internal/ledger"
)

type AddTransaction struct {
	Input ledger.TransactionInput
	Now   time.Time

	Result ledger.Transaction
}

func (a *AddTransaction) Name() string { return "addTransaction" }

func (a *AddTransaction) Perform(_ context.Context, chg *ledger.Change) error {
	tx, err := chg.AddTransaction(a.Input, a.Now)
	if err != nil {
		return err
	}
	a.Result = tx
	return nil
}

type EditTransaction struct {
	ID    uuid.UUID
	Patch ledger.TransactionPatch

	Result ledger.Transaction
}

func (a *EditTransaction) Name() string { return "editTransaction" }

func (a *EditTransaction) Perform(_ context.Context, chg *ledger.Change) error {
	tx, err := chg.EditTransaction(a.ID, a.Patch)
	if err != nil {
		return err
	}
	a.Result = tx
	return nil
}

type DeleteTransaction struct {
	ID uuid.UUID

	Result ledger.Transaction
}

func (a *DeleteTransaction) Name() string { return "deleteTransaction" }

func (a *DeleteTransaction) Perform(_ context.Context, chg *ledger.Change) error {
	tx, err := chg.DeleteTransaction(a.ID)
	if err != nil {
		return err
	}
	a.Result = tx
	return nil
}
