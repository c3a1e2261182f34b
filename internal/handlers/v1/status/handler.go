package status

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/carson-networks/household-ledger/internal/ledger"
	"github.com/carson-networks/household-ledger/internal/logging"
)

type householdLister interface {
	Households(ctx context.Context) ([]ledger.Household, error)
}

type Handler struct {
	Operator householdLister
}

func NewHandler(op householdLister) Handler {
	return Handler{Operator: op}
}

// Handler answers 200 when the store can list households and 503 otherwise.
func (h *Handler) Handler(w http.ResponseWriter, req *http.Request, logData *logging.LogData) error {
	if req.Method != http.MethodGet {
		w.WriteHeader(http.StatusBadRequest)
		return errors.New("status: method not GET")
	}

	endTimer := logData.AddTiming("storageMs")
	households, err := h.Operator.Households(req.Context())
	endTimer()
	if err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return fmt.Errorf("status: storage unavailable: %w", err)
	}

	logData.AddData("households", len(households))
	w.WriteHeader(http.StatusOK)
	return nil
}
