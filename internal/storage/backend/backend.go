// Package backend opens the storage selected by DATA_BACKEND.
package backend

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/household-ledger/internal/config"
	"github.com/carson-networks/household-ledger/internal/storage"
	"github.com/carson-networks/household-ledger/internal/storage/memory"
	"github.com/carson-networks/household-ledger/internal/storage/postgres"
)

func Open(ctx context.Context, cfg *config.Config, log *logrus.Logger) (storage.IStorage, error) {
	switch cfg.DataBackend {
	case config.BackendMemory:
		log.Warn("backend.Open: using in-memory storage, data is lost on exit")
		return memory.New(), nil
	case config.BackendPostgres:
		store, err := postgres.Open(ctx, cfg.PostgresURL())
		if err != nil {
			return nil, fmt.Errorf("postgres.Open: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown data backend %q", cfg.DataBackend)
	}
}
