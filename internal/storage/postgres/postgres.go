// Package postgres is the durable storage.IStorage backed by PostgreSQL.
// Queries are built with bob's psql dialect and run on lib/pq.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gofrs/uuid/v5"
	_ "github.com/lib/pq"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/scan"

	"github.com/carson-networks/household-ledger/internal/ledger"
	"github.com/carson-networks/household-ledger/internal/storage"
)

type Store struct {
	sqlDB *sql.DB
	db    bob.DB
}

var _ storage.IStorage = (*Store)(nil)

// Open connects to dsn and verifies the connection.
func Open(ctx context.Context, dsn string) (*Store, error) {
	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return New(sqlDB), nil
}

func New(sqlDB *sql.DB) *Store {
	return &Store{sqlDB: sqlDB, db: bob.NewDB(sqlDB)}
}

// DB exposes the underlying pool for migrations.
func (s *Store) DB() *sql.DB {
	return s.sqlDB
}

func (s *Store) Close() error {
	return s.sqlDB.Close()
}

func (s *Store) ListHouseholds(ctx context.Context) ([]ledger.Household, error) {
	q := psql.Select(
		sm.Columns(householdColumns...),
		sm.From("households"),
		sm.OrderBy("created_at").Asc(),
		sm.OrderBy("id").Asc(),
	)
	rows, err := bob.All(ctx, s.db, q, scan.StructMapper[householdRow]())
	if err != nil {
		return nil, fmt.Errorf("list households: %w", err)
	}
	out := make([]ledger.Household, len(rows))
	for i, row := range rows {
		out[i] = row.toLedger()
	}
	return out, nil
}

// LoadHousehold reads the whole household inside one read-only snapshot.
func (s *Store) LoadHousehold(ctx context.Context, id uuid.UUID) (ledger.Snapshot, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return ledger.Snapshot{}, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	return loadHousehold(ctx, tx, id)
}

func whereHousehold(id uuid.UUID) bob.Mod[*dialect.SelectQuery] {
	return sm.Where(psql.Quote("household_id").EQ(psql.Arg(id)))
}

func loadHousehold(ctx context.Context, exec bob.Executor, id uuid.UUID) (ledger.Snapshot, error) {
	var snap ledger.Snapshot

	h, err := bob.One(ctx, exec, psql.Select(
		sm.Columns(householdColumns...),
		sm.From("households"),
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	), scan.StructMapper[householdRow]())
	if errors.Is(err, sql.ErrNoRows) {
		return snap, fmt.Errorf("%w: %s", ledger.ErrHouseholdNotFound, id)
	}
	if err != nil {
		return snap, fmt.Errorf("load household: %w", err)
	}
	snap.Household = h.toLedger()

	members, err := bob.All(ctx, exec, psql.Select(
		sm.Columns(memberColumns...),
		sm.From("members"),
		whereHousehold(id),
		sm.OrderBy("position").Asc(),
	), scan.StructMapper[memberRow]())
	if err != nil {
		return snap, fmt.Errorf("load members: %w", err)
	}
	for _, row := range members {
		snap.Members = append(snap.Members, row.toLedger())
	}

	categories, err := bob.All(ctx, exec, psql.Select(
		sm.Columns(categoryColumns...),
		sm.From("categories"),
		whereHousehold(id),
		sm.OrderBy("position").Asc(),
	), scan.StructMapper[categoryRow]())
	if err != nil {
		return snap, fmt.Errorf("load categories: %w", err)
	}
	for _, row := range categories {
		snap.Categories = append(snap.Categories, row.toLedger())
	}

	accounts, err := bob.All(ctx, exec, psql.Select(
		sm.Columns(accountColumns...),
		sm.From("accounts"),
		whereHousehold(id),
		sm.OrderBy("seq").Asc(),
	), scan.StructMapper[accountRow]())
	if err != nil {
		return snap, fmt.Errorf("load accounts: %w", err)
	}
	for _, row := range accounts {
		snap.Accounts = append(snap.Accounts, row.toLedger())
	}

	transactions, err := bob.All(ctx, exec, psql.Select(
		sm.Columns(transactionColumns...),
		sm.From("transactions"),
		whereHousehold(id),
		sm.OrderBy("seq").Asc(),
	), scan.StructMapper[transactionRow]())
	if err != nil {
		return snap, fmt.Errorf("load transactions: %w", err)
	}
	for _, row := range transactions {
		snap.Transactions = append(snap.Transactions, row.toLedger())
	}
	return snap, nil
}

func (s *Store) NewWriter(ctx context.Context, householdID uuid.UUID) (storage.IWriter, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	return &Writer{tx: tx, householdID: householdID}, nil
}
