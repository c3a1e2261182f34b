package service

import (
	"context"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/household-ledger/internal/ledger"
	"github.com/carson-networks/household-ledger/internal/operator"
	"github.com/carson-networks/household-ledger/internal/storage/memory"
	"github.com/carson-networks/household-ledger/internal/summary"
	"github.com/carson-networks/household-ledger/internal/txsort"
)

var testNow = time.Date(2025, 7, 15, 9, 30, 0, 0, time.UTC)

type testEnv struct {
	svc         *Service
	store       *memory.Store
	householdID uuid.UUID
	bank        ledger.Account
}

// newTestService creates a service over an in-memory store with one household
// owned by "Dana".
func newTestService(t *testing.T) *testEnv {
	t.Helper()
	logger, _ := test.NewNullLogger()
	store := memory.New()
	d := operator.NewOperatorDelegator(store, operator.Options{Logger: logger, Now: func() time.Time { return testNow }})
	t.Cleanup(d.Stop)

	sorter, err := txsort.New("en")
	require.NoError(t, err)
	svc := NewService(d, sorter, time.UTC, func() time.Time { return testNow })

	h, owner, err := svc.Household.CreateHousehold(context.Background(), "Home", "Dana", "dana@example.com")
	require.NoError(t, err)
	assert.Equal(t, ledger.MemberRoleAdmin, owner.Role)

	accounts, err := svc.Account.ListAccounts(context.Background(), h.ID, "Dana")
	require.NoError(t, err)
	require.Equal(t, "Bank Account", accounts[0].Name)

	return &testEnv{svc: svc, store: store, householdID: h.ID, bank: accounts[0]}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func (e *testEnv) addTx(t *testing.T, typ ledger.TransactionType, amount, category string, date time.Time, accountID uuid.UUID) ledger.Transaction {
	t.Helper()
	tx, err := e.svc.Transaction.AddTransaction(context.Background(), e.householdID, ledger.TransactionInput{
		Type:      typ,
		Amount:    dec(amount),
		Category:  category,
		Date:      date,
		Member:    "Dana",
		AccountID: accountID,
	})
	require.NoError(t, err)
	return tx
}

func (e *testEnv) balance(t *testing.T, id uuid.UUID) decimal.Decimal {
	t.Helper()
	snap, err := e.svc.Household.GetHousehold(context.Background(), e.householdID)
	require.NoError(t, err)
	acc, ok := snap.Account(id)
	require.True(t, ok)
	return acc.Balance
}

// -- Household tests --

func TestCreateHousehold_Success(t *testing.T) {
	env := newTestService(t)

	households, err := env.svc.Household.ListHouseholds(context.Background())
	require.NoError(t, err)
	require.Len(t, households, 1)
	assert.Equal(t, "Home", households[0].Name)

	stored, err := env.store.LoadHousehold(context.Background(), env.householdID)
	require.NoError(t, err)
	assert.Equal(t, "dana@example.com", stored.Members[0].Email)
}

func TestCreateHousehold_MissingName(t *testing.T) {
	env := newTestService(t)
	_, _, err := env.svc.Household.CreateHousehold(context.Background(), "  ", "Eli", "")
	assert.ErrorIs(t, err, ledger.ErrValidation)
}

func TestGetHousehold_Unknown(t *testing.T) {
	env := newTestService(t)
	_, err := env.svc.Household.GetHousehold(context.Background(), uuid.Must(uuid.NewV4()))
	assert.ErrorIs(t, err, ledger.ErrHouseholdNotFound)
}

// -- Transaction tests --

func TestTransactions_AddEditDelete(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()
	acc, err := env.svc.Account.AddAccount(ctx, env.householdID, ledger.AccountInput{
		Name: "Checking", Member: "Dana", InitialBalance: dec("100"),
	})
	require.NoError(t, err)

	tx := env.addTx(t, ledger.TransactionTypeExpense, "30", "Supermarket", testNow, acc.ID)
	assert.True(t, env.balance(t, acc.ID).Equal(dec("70")))

	amount := dec("50")
	edited, err := env.svc.Transaction.EditTransaction(ctx, env.householdID, tx.ID, ledger.TransactionPatch{Amount: &amount})
	require.NoError(t, err)
	assert.True(t, edited.Amount.Equal(amount))
	assert.True(t, env.balance(t, acc.ID).Equal(dec("50")))

	require.NoError(t, env.svc.Transaction.DeleteTransaction(ctx, env.householdID, tx.ID))
	assert.True(t, env.balance(t, acc.ID).Equal(dec("100")))

	err = env.svc.Transaction.DeleteTransaction(ctx, env.householdID, tx.ID)
	assert.ErrorIs(t, err, ledger.ErrTransactionNotFound)
}

func TestGetSortedTransactions(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()
	cash, err := env.svc.Account.ListAccounts(ctx, env.householdID, "Dana")
	require.NoError(t, err)

	first := env.addTx(t, ledger.TransactionTypeExpense, "5", "Supermarket", testNow.AddDate(0, 0, -2), env.bank.ID)
	second := env.addTx(t, ledger.TransactionTypeExpense, "9", "Car", testNow.AddDate(0, 0, -1), cash[1].ID)
	old := env.addTx(t, ledger.TransactionTypeExpense, "1", "Car", testNow.AddDate(-1, 0, 0), env.bank.ID)

	monthly := summary.Filter{Period: summary.PeriodMonthly}
	got, err := env.svc.Transaction.GetSortedTransactions(ctx, env.householdID, monthly, txsort.Default())
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{first.ID, second.ID}, ids(got))

	byAmount := txsort.Default().Request(txsort.KeyAmount).Request(txsort.KeyAmount)
	got, err = env.svc.Transaction.GetSortedTransactions(ctx, env.householdID, monthly, byAmount)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{second.ID, first.ID}, ids(got))

	// "Bank Account" < "Cash"
	byAccount := txsort.Default().Request(txsort.KeyAccount)
	got, err = env.svc.Transaction.GetSortedTransactions(ctx, env.householdID, summary.Filter{Period: summary.PeriodCustom}, byAccount)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{first.ID, old.ID, second.ID}, ids(got))

	_, err = env.svc.Transaction.GetSortedTransactions(ctx, env.householdID, monthly, txsort.Config{Key: "color", Direction: txsort.Ascending})
	assert.ErrorIs(t, err, ledger.ErrValidation)
}

func ids(txs []ledger.Transaction) []uuid.UUID {
	out := make([]uuid.UUID, len(txs))
	for i, tx := range txs {
		out[i] = tx.ID
	}
	return out
}

// -- Account tests --

func TestAccounts_Lifecycle(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()

	card, err := env.svc.Account.AddAccount(ctx, env.householdID, ledger.AccountInput{
		Name:     "Debit",
		Member:   "Dana",
		ParentID: uuid.NullUUID{UUID: env.bank.ID, Valid: true},
		Billing:  ledger.DirectDebit(),
	})
	require.NoError(t, err)

	env.addTx(t, ledger.TransactionTypeExpense, "40", "Supermarket", testNow, card.ID)
	assert.True(t, env.balance(t, card.ID).IsZero())
	assert.True(t, env.balance(t, env.bank.ID).Equal(dec("-40")))

	err = env.svc.Account.DeleteAccount(ctx, env.householdID, card.ID)
	assert.ErrorIs(t, err, ledger.ErrHasTransactions)
	err = env.svc.Account.DeleteAccount(ctx, env.householdID, env.bank.ID)
	assert.ErrorIs(t, err, ledger.ErrConstraint)

	name := "Visa Debit"
	edited, err := env.svc.Account.EditAccount(ctx, env.householdID, card.ID, ledger.AccountPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Visa Debit", edited.Name)

	require.NoError(t, env.svc.Account.MoveAccount(ctx, env.householdID, env.bank.ID, ledger.MoveDown))
	accounts, err := env.svc.Account.ListAccounts(ctx, env.householdID, "Dana")
	require.NoError(t, err)
	names := make([]string, len(accounts))
	for i, acc := range accounts {
		names[i] = acc.Name
	}
	assert.Equal(t, []string{"Cash", "Bank Account", "Visa Debit", "Bit"}, names)
}

func TestListAccounts_AllMembersAndUnknownMember(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()
	_, created, err := env.svc.Registry.AddMember(ctx, env.householdID, "Eli", "")
	require.NoError(t, err)
	assert.Len(t, created, len(ledger.DefaultAccountNames))

	all, err := env.svc.Account.ListAccounts(ctx, env.householdID, "")
	require.NoError(t, err)
	require.Len(t, all, 2*len(ledger.DefaultAccountNames))
	assert.Equal(t, "Dana", all[0].Member)
	assert.Equal(t, "Eli", all[len(all)-1].Member)

	_, err = env.svc.Account.ListAccounts(ctx, env.householdID, "Nobody")
	assert.ErrorIs(t, err, ledger.ErrMemberNotFound)
}

// -- Registry tests --

func TestRenameCategory_CountsMatchingTransactions(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()
	env.addTx(t, ledger.TransactionTypeExpense, "1", "Car", testNow, env.bank.ID)
	env.addTx(t, ledger.TransactionTypeExpense, "2", "Car", testNow, env.bank.ID)
	env.addTx(t, ledger.TransactionTypeExpense, "3", "Misc", testNow, env.bank.ID)

	n, err := env.svc.Registry.RenameCategory(ctx, env.householdID, ledger.TransactionTypeExpense, "Car", "Vehicle")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = env.svc.Registry.RenameCategory(ctx, env.householdID, ledger.TransactionTypeExpense, "Vehicle", "Misc")
	assert.ErrorIs(t, err, ledger.ErrDuplicateName)

	categories, err := env.svc.Registry.ListCategories(ctx, env.householdID, ledger.TransactionTypeExpense)
	require.NoError(t, err)
	assert.Equal(t, "Vehicle", categories[3].Name)
}

func TestCategories_AddMoveDelete(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()

	_, err := env.svc.Registry.AddCategory(ctx, env.householdID, ledger.TransactionTypeIncome, "Gifts")
	require.NoError(t, err)
	require.NoError(t, env.svc.Registry.MoveCategory(ctx, env.householdID, ledger.TransactionTypeIncome, "Gifts", ledger.MoveUp))

	income, err := env.svc.Registry.ListCategories(ctx, env.householdID, ledger.TransactionTypeIncome)
	require.NoError(t, err)
	require.Len(t, income, 3)
	assert.Equal(t, "Gifts", income[1].Name)

	env.addTx(t, ledger.TransactionTypeIncome, "10", "Gifts", testNow, env.bank.ID)
	err = env.svc.Registry.DeleteCategory(ctx, env.householdID, ledger.TransactionTypeIncome, "Gifts")
	assert.ErrorIs(t, err, ledger.ErrCategoryInUse)

	require.NoError(t, env.svc.Registry.DeleteCategory(ctx, env.householdID, ledger.TransactionTypeIncome, "Variable Income"))
	all, err := env.svc.Registry.ListCategories(ctx, env.householdID, "")
	require.NoError(t, err)
	assert.Len(t, all, 8)
}

func TestMembers_RenameAndDelete(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()
	env.addTx(t, ledger.TransactionTypeExpense, "1", "Car", testNow, env.bank.ID)

	err := env.svc.Registry.DeleteMember(ctx, env.householdID, "Dana")
	assert.ErrorIs(t, err, ledger.ErrLastMember)

	n, err := env.svc.Registry.RenameMember(ctx, env.householdID, "Dana", "Dana K")
	require.NoError(t, err)
	// three default accounts and one transaction
	assert.Equal(t, 4, n)

	_, _, err = env.svc.Registry.AddMember(ctx, env.householdID, "Eli", "")
	require.NoError(t, err)
	require.NoError(t, env.svc.Registry.DeleteMember(ctx, env.householdID, "Eli"))

	members, err := env.svc.Registry.ListMembers(ctx, env.householdID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "Dana K", members[0].Name)

	stored, err := env.store.LoadHousehold(ctx, env.householdID)
	require.NoError(t, err)
	assert.Equal(t, "Dana K", stored.Transactions[0].Member)
	assert.Len(t, stored.Accounts, len(ledger.DefaultAccountNames))
}

// -- Report tests --

func TestGetSummary_MonthlyExcludesLastMonth(t *testing.T) {
	env := newTestService(t)
	env.addTx(t, ledger.TransactionTypeExpense, "30", "Supermarket", testNow, env.bank.ID)
	env.addTx(t, ledger.TransactionTypeExpense, "20", "Car", testNow.AddDate(0, 0, -3), env.bank.ID)
	env.addTx(t, ledger.TransactionTypeExpense, "100", "Car", testNow.AddDate(0, -1, 0), env.bank.ID)

	got, err := env.svc.Report.GetSummary(context.Background(), env.householdID, summary.Filter{Period: summary.PeriodMonthly})
	require.NoError(t, err)
	assert.True(t, got.Expense.Equal(dec("50")))
	assert.True(t, got.Balance.Equal(dec("-50")))
	require.Len(t, got.Breakdown, 2)
	assert.Equal(t, "Supermarket", got.Breakdown[0].Category)
	assert.True(t, got.Breakdown[0].Percent.Equal(dec("60")))

	_, err = env.svc.Report.GetSummary(context.Background(), env.householdID, summary.Filter{Period: "weekly"})
	assert.ErrorIs(t, err, ledger.ErrValidation)
}

func TestRunBillingCycleCheck_IdempotentSameDay(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()
	card, err := env.svc.Account.AddAccount(ctx, env.householdID, ledger.AccountInput{
		Name: "Visa", Member: "Dana", InitialBalance: dec("250"), Billing: ledger.BillingDay(15),
	})
	require.NoError(t, err)

	reset, err := env.svc.Report.RunBillingCycleCheck(ctx, env.householdID, time.Time{})
	require.NoError(t, err)
	require.Len(t, reset, 1)
	assert.Equal(t, card.ID, reset[0].ID)
	assert.True(t, env.balance(t, card.ID).IsZero())

	env.addTx(t, ledger.TransactionTypeExpense, "12", "Car", testNow, card.ID)
	reset, err = env.svc.Report.RunBillingCycleCheck(ctx, env.householdID, testNow.Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, reset)
	assert.True(t, env.balance(t, card.ID).Equal(dec("-12")))
}
