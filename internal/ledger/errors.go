package ledger

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks a missing or invalid field. Nothing was applied.
	ErrValidation = errors.New("validation failed")
	ErrHierarchy  = fmt.Errorf("%w: account hierarchy", ErrValidation)

	// ErrNotFound marks an unknown id or name.
	ErrNotFound            = errors.New("not found")
	ErrHouseholdNotFound   = fmt.Errorf("household %w", ErrNotFound)
	ErrAccountNotFound     = fmt.Errorf("account %w", ErrNotFound)
	ErrTransactionNotFound = fmt.Errorf("transaction %w", ErrNotFound)
	ErrCategoryNotFound    = fmt.Errorf("category %w", ErrNotFound)
	ErrMemberNotFound      = fmt.Errorf("member %w", ErrNotFound)

	// ErrConstraint marks a blocked destructive operation. State is untouched.
	ErrConstraint      = errors.New("constraint violated")
	ErrHasTransactions = fmt.Errorf("%w: has transactions", ErrConstraint)
	ErrHasChildren     = fmt.Errorf("%w: has children", ErrConstraint)
	ErrLastMember      = fmt.Errorf("%w: last remaining member", ErrConstraint)
	ErrCategoryInUse   = fmt.Errorf("%w: category in use", ErrConstraint)
	ErrDuplicateName   = fmt.Errorf("%w: duplicate name", ErrConstraint)

	// ErrConsistency marks a durable write that failed after the in-memory mutation.
	ErrConsistency = errors.New("durable write failed")
)

// ConsistencyError is returned after the in-memory change was unwound because
// the durable write did not complete. The caller may retry the operation.
type ConsistencyError struct {
	Op  string
	Err error
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.Op, ErrConsistency, e.Err)
}

func (e *ConsistencyError) Unwrap() []error {
	return []error{ErrConsistency, e.Err}
}

// Retryable is always true: the ledger was restored to its pre-operation state.
func (e *ConsistencyError) Retryable() bool {
	return true
}

// NewConsistencyError wraps err unless it is already a ConsistencyError.
func NewConsistencyError(op string, err error) error {
	var ce *ConsistencyError
	if errors.As(err, &ce) {
		return err
	}
	return &ConsistencyError{Op: op, Err: err}
}
