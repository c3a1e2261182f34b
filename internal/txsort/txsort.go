// Package txsort orders transaction listings by a user-selected column.
package txsort

import (
	"fmt"
	"slices"

	"github.com/gofrs/uuid/v5"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/carson-networks/household-ledger/internal/ledger"
)

type Key string

const (
	KeyDate     Key = "date"
	KeyCategory Key = "category"
	KeyUser     Key = "user"
	KeyAccount  Key = "account"
	KeyAmount   Key = "amount"
)

func (k Key) Valid() bool {
	switch k {
	case KeyDate, KeyCategory, KeyUser, KeyAccount, KeyAmount:
		return true
	}
	return false
}

type Direction string

const (
	Ascending  Direction = "ascending"
	Descending Direction = "descending"
)

// Config is the current sort column and direction.
type Config struct {
	Key       Key
	Direction Direction
}

func Default() Config {
	return Config{Key: KeyDate, Direction: Ascending}
}

// Request returns the config after a user selects key: the same key flips
// the direction, a different key starts ascending.
func (c Config) Request(key Key) Config {
	if c.Key == key {
		if c.Direction == Ascending {
			return Config{Key: key, Direction: Descending}
		}
		return Config{Key: key, Direction: Ascending}
	}
	return Config{Key: key, Direction: Ascending}
}

func (c Config) Validate() error {
	if !c.Key.Valid() {
		return fmt.Errorf("%w: sort key %q", ledger.ErrValidation, c.Key)
	}
	if c.Direction != Ascending && c.Direction != Descending {
		return fmt.Errorf("%w: sort direction %q", ledger.ErrValidation, c.Direction)
	}
	return nil
}

// Sorter compares names with the collation rules of one locale.
type Sorter struct {
	tag language.Tag
}

// New parses a BCP 47 locale such as "en" or "he-IL".
func New(locale string) (*Sorter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("parse locale %q: %w", locale, err)
	}
	return &Sorter{tag: tag}, nil
}

// Locale returns the canonical form of the configured locale.
func (s *Sorter) Locale() string {
	return s.tag.String()
}

// Sort returns a sorted copy of txs. The sort is stable in both directions,
// so equal keys keep their input order. accountNames resolves account ids to
// display names for the account key; an unknown id sorts as an empty name.
func (s *Sorter) Sort(txs []ledger.Transaction, accountNames map[uuid.UUID]string, cfg Config) ([]ledger.Transaction, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	// a Collator keeps scratch buffers and must not be shared between goroutines
	col := collate.New(s.tag)

	var compare func(a, b ledger.Transaction) int
	switch cfg.Key {
	case KeyDate:
		compare = func(a, b ledger.Transaction) int { return a.Date.Compare(b.Date) }
	case KeyAmount:
		compare = func(a, b ledger.Transaction) int { return a.Amount.Cmp(b.Amount) }
	case KeyCategory:
		compare = func(a, b ledger.Transaction) int { return col.CompareString(a.Category, b.Category) }
	case KeyUser:
		compare = func(a, b ledger.Transaction) int { return col.CompareString(a.Member, b.Member) }
	case KeyAccount:
		compare = func(a, b ledger.Transaction) int {
			return col.CompareString(accountNames[a.AccountID], accountNames[b.AccountID])
		}
	}
	if cfg.Direction == Descending {
		asc := compare
		compare = func(a, b ledger.Transaction) int { return asc(b, a) }
	}

	sorted := slices.Clone(txs)
	slices.SortStableFunc(sorted, compare)
	return sorted, nil
}
