package actions

import (
	"context"
	"time"

	"github.com/carson-networks/household-ledger/internal/ledger"
)

// SeedHousehold initialises a new household. It is the first action of
// every household.
type SeedHousehold struct {
	Owner string
	Email string
	Now   time.Time

	Result ledger.Member
}

func (a *SeedHousehold) Name() string { return "createHousehold" }

func (a *SeedHousehold) Perform(_ context.Context, chg *ledger.Change) error {
	m, err := chg.SeedHousehold(a.Owner, a.Email, a.Now)
	if err != nil {
		return err
	}
	a.Result = m
	return nil
}

type AddMember struct {
	MemberName string
	Role       ledger.MemberRole
	Email      string
	Now        time.Time

	Result   ledger.Member
	Accounts []ledger.Account
}

func (a *AddMember) Name() string { return "addMember" }

func (a *AddMember) Perform(_ context.Context, chg *ledger.Change) error {
	m, accounts, err := chg.AddMember(a.MemberName, a.Role, a.Email, a.Now)
	if err != nil {
		return err
	}
	a.Result = m
	a.Accounts = accounts
	return nil
}

type DeleteMember struct {
	MemberName string
}

func (a *DeleteMember) Name() string { return "deleteMember" }

func (a *DeleteMember) Perform(_ context.Context, chg *ledger.Change) error {
	return chg.DeleteMember(a.MemberName)
}

type RenameMember struct {
	OldName string
	NewName string

	Updated int
}

func (a *RenameMember) Name() string { return "renameMember" }

func (a *RenameMember) Perform(_ context.Context, chg *ledger.Change) error {
	n, err := chg.RenameMember(a.OldName, a.NewName)
	if err != nil {
		return err
	}
	a.Updated = n
	return nil
}

type AddCategory struct {
	Type         ledger.TransactionType
	CategoryName string

	Result ledger.Category
}

func (a *AddCategory) Name() string { return "addCategory" }

func (a *AddCategory) Perform(_ context.Context, chg *ledger.Change) error {
	c, err := chg.AddCategory(a.Type, a.CategoryName)
	if err != nil {
		return err
	}
	a.Result = c
	return nil
}

type DeleteCategory struct {
	Type         ledger.TransactionType
	CategoryName string
}

func (a *DeleteCategory) Name() string { return "deleteCategory" }

func (a *DeleteCategory) Perform(_ context.Context, chg *ledger.Change) error {
	return chg.DeleteCategory(a.Type, a.CategoryName)
}

type MoveCategory struct {
	Type         ledger.TransactionType
	CategoryName string
	Direction    ledger.MoveDirection
}

func (a *MoveCategory) Name() string { return "moveCategory" }

func (a *MoveCategory) Perform(_ context.Context, chg *ledger.Change) error {
	return chg.MoveCategory(a.Type, a.CategoryName, a.Direction)
}

type RenameCategory struct {
	Type    ledger.TransactionType
	OldName string
	NewName string

	Updated int
}

func (a *RenameCategory) Name() string { return "renameCategory" }

func (a *RenameCategory) Perform(_ context.Context, chg *ledger.Change) error {
	n, err := chg.RenameCategory(a.Type, a.OldName, a.NewName)
	if err != nil {
		return err
	}
	a.Updated = n
	return nil
}
