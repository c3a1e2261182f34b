package postgres

import (
	"context"
	"fmt"

	"github.com/aarondl/opt/null"
	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dm"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/um"

	"github.com/carson-networks/household-ledger/internal/ledger"
	"github.com/carson-networks/household-ledger/internal/storage"
)

// Writer runs every write of one household operation in a single database
// transaction. Deletes are scoped to the writer's household.
type Writer struct {
	tx          bob.Tx
	householdID uuid.UUID
}

func (w *Writer) Commit(ctx context.Context) error {
	return w.tx.Commit(ctx)
}

func (w *Writer) Rollback(ctx context.Context) error {
	return w.tx.Rollback(ctx)
}

func (w *Writer) exec(ctx context.Context, q bob.Query) error {
	_, err := bob.Exec(ctx, w.tx, q)
	return err
}

func (w *Writer) PutHousehold(ctx context.Context, h ledger.Household) error {
	if h.ID != w.householdID {
		return fmt.Errorf("%w: household %s written through writer for %s", ledger.ErrValidation, h.ID, w.householdID)
	}
	return w.exec(ctx, psql.Insert(
		im.Into("households", "id", "name", "created_at", "version"),
		im.Values(psql.Arg(h.ID, h.Name, h.CreatedAt, h.Version)),
		im.OnConflict("id").DoUpdate(im.SetExcluded("name")),
	))
}

// AdvanceVersion row-locks the household until the transaction ends, so
// concurrent writers of one household serialize behind it.
func (w *Writer) AdvanceVersion(ctx context.Context, from int64) error {
	res, err := bob.Exec(ctx, w.tx, psql.Update(
		um.Table("households"),
		um.SetCol("version").ToArg(from+1),
		um.Where(psql.Quote("id").EQ(psql.Arg(w.householdID))),
		um.Where(psql.Quote("version").EQ(psql.Arg(from))),
	))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: household %s is no longer at version %d", storage.ErrStale, w.householdID, from)
	}
	return nil
}

func (w *Writer) PutMember(ctx context.Context, m ledger.Member, position int) error {
	return w.exec(ctx, psql.Insert(
		im.Into("members", "id", "household_id", "name", "role", "email", "position", "created_at"),
		im.Values(psql.Arg(
			m.ID, w.householdID, m.Name, string(m.Role),
			null.FromCond(m.Email, m.Email != ""), position, m.CreatedAt,
		)),
		im.OnConflict("id").DoUpdate(im.SetExcluded("name", "role", "email", "position")),
	))
}

func (w *Writer) PutCategory(ctx context.Context, c ledger.Category, position int) error {
	return w.exec(ctx, psql.Insert(
		im.Into("categories", "id", "household_id", "type", "name", "position"),
		im.Values(psql.Arg(c.ID, w.householdID, string(c.Type), c.Name, position)),
		im.OnConflict("id").DoUpdate(im.SetExcluded("name", "position")),
	))
}

func (w *Writer) PutAccount(ctx context.Context, a ledger.Account) error {
	billingDay := 0
	if a.Billing.Kind == ledger.BillingDayOfMonth {
		billingDay = a.Billing.Day
	}
	lastReset := null.FromCond(ledger.CivilDate(a.LastBillingReset), !a.LastBillingReset.IsZero())

	return w.exec(ctx, psql.Insert(
		im.Into("accounts",
			"id", "household_id", "member", "name", "balance", "parent_id",
			"billing_kind", "billing_day", "last_billing_reset", "sort_order", "created_at",
		),
		im.Values(psql.Arg(
			a.ID, w.householdID, a.Member, a.Name, a.Balance, a.ParentID,
			billingKind(a.Billing), billingDay, lastReset, a.Order, a.CreatedAt,
		)),
		im.OnConflict("id").DoUpdate(im.SetExcluded(
			"member", "name", "balance", "parent_id", "billing_kind",
			"billing_day", "last_billing_reset", "sort_order",
		)),
	))
}

func (w *Writer) PutTransaction(ctx context.Context, t ledger.Transaction) error {
	return w.exec(ctx, psql.Insert(
		im.Into("transactions",
			"id", "household_id", "account_id", "type", "amount", "category",
			"date", "member", "note", "recurring", "frequency", "created_at",
		),
		im.Values(psql.Arg(
			t.ID, w.householdID, t.AccountID, string(t.Type), t.Amount, t.Category,
			ledger.CivilDate(t.Date), t.Member, t.Note, t.Recurrence.Recurring,
			string(t.Recurrence.Frequency), t.CreatedAt,
		)),
		im.OnConflict("id").DoUpdate(im.SetExcluded(
			"account_id", "type", "amount", "category", "date",
			"member", "note", "recurring", "frequency",
		)),
	))
}

func (w *Writer) delete(ctx context.Context, table string, id uuid.UUID) error {
	return w.exec(ctx, psql.Delete(
		dm.From(table),
		dm.Where(psql.Quote("id").EQ(psql.Arg(id))),
		dm.Where(psql.Quote("household_id").EQ(psql.Arg(w.householdID))),
	))
}

func (w *Writer) DeleteMember(ctx context.Context, id uuid.UUID) error {
	return w.delete(ctx, "members", id)
}

func (w *Writer) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return w.delete(ctx, "categories", id)
}

func (w *Writer) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	return w.delete(ctx, "accounts", id)
}

func (w *Writer) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	return w.delete(ctx, "transactions", id)
}
