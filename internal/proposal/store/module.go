package store

import (
	"context"
	"fmt"
	"log/slog"

	"go.uber.org/fx"

	"github.com/easyweek123-netizen/sme-booking-digital-presence-sub000/pkg/config"
)

// NewStorageFromConfig selects the durable backend per configuration.
// The SQLite backend is closed on application shutdown.
func NewStorageFromConfig(cfg config.StorageConfig, logger *slog.Logger, lc fx.Lifecycle) (Storage, error) {
	switch cfg.Backend {
	case "file":
		logger.Debug("Using file-backed proposal storage", "path", cfg.Path)
		return NewFileStorage(cfg.Path), nil
	case "sqlite":
		logger.Debug("Using sqlite-backed proposal storage", "path", cfg.Path)
		storage, err := OpenSQLiteStorage(context.Background(), cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite storage: %w", err)
		}
		lc.Append(fx.Hook{
			OnStop: func(context.Context) error {
				return storage.Close()
			},
		})
		return storage, nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.Backend)
	}
}

var Module = fx.Module("proposal-store",
	fx.Provide(NewStorageFromConfig),
	fx.Provide(New),
)
