package ledger

import (
	"errors"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidatesState(t *testing.T) {
	parent := Account{ID: uuid.Must(uuid.NewV4()), Name: "Bank", Member: "Dana"}
	child := Account{ID: uuid.Must(uuid.NewV4()), Name: "Card", Member: "Dana", ParentID: nullID(parent.ID)}
	grandchild := Account{ID: uuid.Must(uuid.NewV4()), Name: "Sub", Member: "Dana", ParentID: nullID(child.ID)}

	_, err := New(Snapshot{Accounts: []Account{parent, child}})
	assert.NoError(t, err)

	_, err = New(Snapshot{Accounts: []Account{parent, child, grandchild}})
	assert.ErrorIs(t, err, ErrHierarchy)

	_, err = New(Snapshot{Accounts: []Account{parent, parent}})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = New(Snapshot{
		Accounts:     []Account{parent},
		Transactions: []Transaction{{ID: uuid.Must(uuid.NewV4()), AccountID: uuid.Must(uuid.NewV4())}},
	})
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestWithIDGenerator(t *testing.T) {
	next := 0
	ids := []uuid.UUID{uuid.Must(uuid.NewV4()), uuid.Must(uuid.NewV4())}
	l, err := New(Snapshot{}, WithIDGenerator(func() uuid.UUID {
		id := ids[next]
		next++
		return id
	}))
	require.NoError(t, err)

	chg := l.Begin()
	cat, err := chg.AddCategory(TransactionTypeExpense, "Rent")
	require.NoError(t, err)
	chg.Commit()
	assert.Equal(t, ids[0], cat.ID)
}

func TestSnapshotWaitsForChange(t *testing.T) {
	l := newTestLedger(t)
	acc := addAccount(t, l, AccountInput{Name: "Checking", InitialBalance: dec("100")})

	chg := l.Begin()
	_, err := chg.AddTransaction(TransactionInput{
		Type: TransactionTypeExpense, Amount: dec("30"), Category: "Car",
		Date: testNow, Member: "Dana", AccountID: acc.ID,
	}, testNow)
	require.NoError(t, err)

	got := make(chan *Snapshot)
	go func() { got <- l.Snapshot() }()

	select {
	case <-got:
		t.Fatal("snapshot observed a change in progress")
	case <-time.After(50 * time.Millisecond):
	}

	inside, ok := chg.Snapshot().Account(acc.ID)
	require.True(t, ok)
	assert.True(t, inside.Balance.Equal(dec("70")))

	chg.Commit()
	snap := <-got
	after, _ := snap.Account(acc.ID)
	assert.True(t, after.Balance.Equal(dec("70")))
	assert.Len(t, snap.Transactions, 1)
}

func TestSnapshotIsACopy(t *testing.T) {
	l := newTestLedger(t)
	snap := l.Snapshot()
	snap.Accounts[0].Name = "changed"
	snap.Members[0].Name = "changed"

	fresh := l.Snapshot()
	assert.Equal(t, DefaultAccountNames[0], fresh.Accounts[0].Name)
	assert.Equal(t, "Dana", fresh.Members[0].Name)
}

func TestCommitAndRollbackAreIdempotent(t *testing.T) {
	l := newTestLedger(t)
	chg := l.Begin()
	chg.Commit()
	chg.Commit()
	chg.Rollback()

	// the lock was released exactly once
	next := l.Begin()
	next.Rollback()
}

func TestAdvanceVersion(t *testing.T) {
	l := newTestLedger(t)

	chg := l.Begin()
	assert.Equal(t, int64(0), chg.AdvanceVersion())
	assert.False(t, chg.Empty())
	chg.Rollback()
	assert.Equal(t, int64(0), l.Snapshot().Household.Version)

	chg = l.Begin()
	assert.Equal(t, int64(0), chg.AdvanceVersion())
	chg.Commit()
	assert.Equal(t, int64(1), l.Snapshot().Household.Version)
}

func TestReloadReplacesState(t *testing.T) {
	l := newTestLedger(t)
	acc := addAccount(t, l, AccountInput{Name: "Checking", InitialBalance: dec("100")})

	stored := l.Snapshot()
	stored.Household.Version = 7
	for i := range stored.Accounts {
		if stored.Accounts[i].ID == acc.ID {
			stored.Accounts[i].Balance = dec("0")
		}
	}
	addTx(t, l, acc.ID, TransactionTypeExpense, "30")

	require.NoError(t, l.Reload(*stored))
	assertBalance(t, l, acc.ID, "0")
	assert.Empty(t, l.Snapshot().Transactions)
	assert.Equal(t, int64(7), l.Snapshot().Household.Version)
}

func TestReloadRejectsInvalidState(t *testing.T) {
	l := newTestLedger(t)
	before := l.Snapshot()

	other := *before
	other.Household.ID = uuid.Must(uuid.NewV4())
	assert.ErrorIs(t, l.Reload(other), ErrValidation)

	broken := *before
	broken.Transactions = []Transaction{{ID: uuid.Must(uuid.NewV4()), AccountID: uuid.Must(uuid.NewV4())}}
	assert.ErrorIs(t, l.Reload(broken), ErrAccountNotFound)

	assert.Equal(t, before, l.Snapshot())
}

func TestDirtyTransactionChange(t *testing.T) {
	l := newTestLedger(t)
	bank := addAccount(t, l, AccountInput{Name: "Bank"})
	card := addAccount(t, l, AccountInput{Name: "Card", ParentID: nullID(bank.ID)})

	chg := l.Begin()
	defer chg.Rollback()
	tx, err := chg.AddTransaction(TransactionInput{
		Type: TransactionTypeExpense, Amount: dec("4"), Category: "Misc",
		Date: testNow, Member: "Dana", AccountID: card.ID,
	}, testNow)
	require.NoError(t, err)

	d := chg.Dirty()
	assert.False(t, d.Empty())
	assert.Empty(t, d.Members)
	assert.Empty(t, d.Categories)
	require.Len(t, d.Accounts, 2)
	assert.Equal(t, bank.ID, d.Accounts[0].ID, "parents are written first")
	assert.Equal(t, card.ID, d.Accounts[1].ID)
	require.Len(t, d.Transactions, 1)
	assert.Equal(t, tx.ID, d.Transactions[0].ID)
}

func TestDirtyDeletesChildrenFirst(t *testing.T) {
	l := newTestLedger(t)
	mutate(t, l, func(c *Change) (Member, error) {
		m, _, err := c.AddMember("Noa", MemberRoleMember, "", testNow)
		return m, err
	})
	noaBank := l.Snapshot().AccountsForMember("Noa")[0]
	card := addAccount(t, l, AccountInput{Name: "Card", Member: "Noa", ParentID: nullID(noaBank.ID)})

	chg := l.Begin()
	defer chg.Rollback()
	require.NoError(t, chg.DeleteMember("Noa"))

	d := chg.Dirty()
	require.Len(t, d.DeletedAccounts, len(DefaultAccountNames)+1)
	assert.Equal(t, card.ID, d.DeletedAccounts[0])
	require.Len(t, d.DeletedMembers, 1)
	assert.Len(t, d.Members, 1)
	assert.Empty(t, d.Accounts)
}

func TestDirtyCreatedThenDeletedIsDropped(t *testing.T) {
	l := newTestLedger(t)
	chg := l.Begin()
	defer chg.Rollback()

	acc, err := chg.AddAccount(AccountInput{Name: "Temp", Member: "Dana"}, testNow)
	require.NoError(t, err)
	require.NoError(t, chg.DeleteAccount(acc.ID))

	d := chg.Dirty()
	assert.Empty(t, d.Accounts)
	assert.Empty(t, d.DeletedAccounts)
}

func TestConsistencyError(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewConsistencyError("add transaction", cause)

	assert.ErrorIs(t, err, ErrConsistency)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "add transaction")

	var ce *ConsistencyError
	require.ErrorAs(t, err, &ce)
	assert.True(t, ce.Retryable())
	assert.Same(t, err, NewConsistencyError("outer", err))
}

func TestBillingModeParsing(t *testing.T) {
	tests := []struct {
		in   string
		want BillingMode
		err  bool
	}{
		{"", NoBilling(), false},
		{"none", NoBilling(), false},
		{"Direct", DirectDebit(), false},
		{"15", BillingDay(15), false},
		{"0", BillingMode{}, true},
		{"32", BillingMode{}, true},
		{"weekly", BillingMode{}, true},
	}
	for _, tt := range tests {
		got, err := ParseBillingMode(tt.in)
		if tt.err {
			assert.ErrorIs(t, err, ErrValidation, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
		roundTrip, err := ParseBillingMode(got.String())
		require.NoError(t, err)
		assert.Equal(t, got, roundTrip)
	}
}
