// Package actions holds the mutations an operator applies to a household
// ledger. Each action runs inside one ledger.Change and stores its result on
// itself, so the caller reads it after Process returns.
package actions

import (
	"context"

	"github.com/carson-networks/household-ledger/internal/ledger"
)

type IAction interface {
	// Name identifies the action in logs and published events.
	Name() string
	Perform(ctx context.Context, chg *ledger.Change) error
}
