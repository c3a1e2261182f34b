// Package httperr maps ledger errors onto huma status errors and parses the
// request values shared by the v1 handlers.
package httperr

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/household-ledger/internal/ledger"
	"github.com/carson-networks/household-ledger/internal/summary"
)

// Status returns the HTTP status for err. A consistency error wins over the
// storage cause it wraps.
func Status(err error) int {
	switch {
	case errors.Is(err, ledger.ErrConsistency):
		return http.StatusServiceUnavailable
	case errors.Is(err, ledger.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ledger.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrConstraint):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// FromError wraps err in a huma error. Client errors carry the ledger's
// message; server errors carry msg only.
func FromError(msg string, err error) huma.StatusError {
	status := Status(err)
	if status == http.StatusInternalServerError {
		return huma.NewError(status, msg)
	}
	return huma.NewError(status, fmt.Sprintf("%s: %v", msg, err), err)
}

func ParseID(field, s string) (uuid.UUID, error) {
	id, err := uuid.FromString(s)
	if err != nil {
		return uuid.Nil, huma.Error400BadRequest("invalid "+field, err)
	}
	return id, nil
}

// ParseOptionalID parses s unless it is empty.
func ParseOptionalID(field, s string) (uuid.NullUUID, error) {
	if s == "" {
		return uuid.NullUUID{}, nil
	}
	id, err := ParseID(field, s)
	if err != nil {
		return uuid.NullUUID{}, err
	}
	return uuid.NullUUID{UUID: id, Valid: true}, nil
}

func ParseAmount(field, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, huma.Error400BadRequest("invalid "+field, err)
	}
	return d, nil
}

// ParseDate accepts a calendar date or an RFC 3339 instant.
func ParseDate(field, s string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, huma.Error400BadRequest("invalid "+field+", want YYYY-MM-DD or RFC3339", err)
	}
	return t, nil
}

func ParseDirection(s string) (ledger.MoveDirection, error) {
	switch s {
	case "up":
		return ledger.MoveUp, nil
	case "down":
		return ledger.MoveDown, nil
	}
	return 0, huma.Error400BadRequest(fmt.Sprintf("invalid direction %q, want up or down", s))
}

// ParseFilter builds a summary filter from query values.
func ParseFilter(period, start, end, member string) (summary.Filter, error) {
	f := summary.Filter{Period: summary.Period(period), Member: member}
	var err error
	if start != "" {
		if f.Start, err = ParseDate("start", start); err != nil {
			return f, err
		}
	}
	if end != "" {
		if f.End, err = ParseDate("end", end); err != nil {
			return f, err
		}
	}
	return f, nil
}
