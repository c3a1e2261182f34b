package httperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/household-ledger/internal/ledger"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{ledger.ErrHierarchy, http.StatusBadRequest},
		{fmt.Errorf("%w: amount", ledger.ErrValidation), http.StatusBadRequest},
		{ledger.ErrAccountNotFound, http.StatusNotFound},
		{ledger.ErrHouseholdNotFound, http.StatusNotFound},
		{ledger.ErrHasChildren, http.StatusConflict},
		{ledger.ErrDuplicateName, http.StatusConflict},
		{ledger.NewConsistencyError("addTransaction", errors.New("timeout")), http.StatusServiceUnavailable},
		{ledger.NewConsistencyError("addTransaction", fmt.Errorf("commit: %w", ledger.ErrAccountNotFound)), http.StatusServiceUnavailable},
		{ledger.NewConsistencyError("deleteAccount", fmt.Errorf("commit: %w", ledger.ErrHasTransactions)), http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Status(tt.err), tt.err.Error())
	}
}

func TestFromError_HidesInternalDetail(t *testing.T) {
	err := FromError("failed to add account", errors.New("pq: password authentication failed"))
	assert.Equal(t, http.StatusInternalServerError, err.GetStatus())
	assert.NotContains(t, err.Error(), "password")

	err = FromError("failed to add account", ledger.ErrHasTransactions)
	assert.Equal(t, http.StatusConflict, err.GetStatus())
	assert.Contains(t, err.Error(), "has transactions")
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("date", "2025-07-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC), d)

	d, err = ParseDate("date", "2025-07-15T23:30:00+02:00")
	require.NoError(t, err)
	assert.Equal(t, 15, d.Day())

	_, err = ParseDate("date", "15/07/2025")
	assert.Error(t, err)
}

func TestParseDirection(t *testing.T) {
	dir, err := ParseDirection("down")
	require.NoError(t, err)
	assert.Equal(t, ledger.MoveDown, dir)

	_, err = ParseDirection("left")
	assert.Error(t, err)
}
