package actions

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/household-ledger/internal/ledger"
)

type AddAccount struct {
	Input ledger.AccountInput
	Now   time.Time

	Result ledger.Account
}

func (a *AddAccount) Name() string { return "addAccount" }

func (a *AddAccount) Perform(_ context.Context, chg *ledger.Change) error {
	acc, err := chg.AddAccount(a.Input, a.Now)
	if err != nil {
		return err
	}
	a.Result = acc
	return nil
}

type EditAccount struct {
	ID    uuid.UUID
	Patch ledger.AccountPatch

	Result ledger.Account
}

func (a *EditAccount) Name() string { return "editAccount" }

func (a *EditAccount) Perform(_ context.Context, chg *ledger.Change) error {
	acc, err := chg.EditAccount(a.ID, a.Patch)
	if err != nil {
		return err
	}
	a.Result = acc
	return nil
}

type DeleteAccount struct {
	ID uuid.UUID
}

func (a *DeleteAccount) Name() string { return "deleteAccount" }

func (a *DeleteAccount) Perform(_ context.Context, chg *ledger.Change) error {
	return chg.DeleteAccount(a.ID)
}

type MoveAccount struct {
	ID        uuid.UUID
	Direction ledger.MoveDirection
}

func (a *MoveAccount) Name() string { return "moveAccount" }

func (a *MoveAccount) Perform(_ context.Context, chg *ledger.Change) error {
	return chg.MoveAccount(a.ID, a.Direction)
}

// ResetBillingCycles zeroes the day-of-month accounts due on AsOf.
type ResetBillingCycles struct {
	AsOf time.Time

	Reset []ledger.Account
}

func (a *ResetBillingCycles) Name() string { return "resetBillingCycles" }

func (a *ResetBillingCycles) Perform(_ context.Context, chg *ledger.Change) error {
	a.Reset = chg.ResetBillingCycles(a.AsOf)
	return nil
}
