package storage

import (
	"context"
	"fmt"

	"github.com/mulphico/inventory-valuation/internal/domain/repository"
	"github.com/mulphico/inventory-valuation/pkg/config"
	"github.com/mulphico/inventory-valuation/pkg/logger"
)

// Drivers soportados en STORAGE_DRIVER.
const (
	DriverLocal = "local"
	DriverS3    = "s3"
)

// New elige el store según la configuración. Con s3 verifica (o crea) el bucket al arrancar.
func New(ctx context.Context, cfg config.StorageConfig, log *logger.Logger) (repository.ArtifactStore, error) {
	switch cfg.Driver {
	case "", DriverLocal:
		return NewLocalArtifactStore(cfg.LocalDir, log)
	case DriverS3:
		store, err := NewS3ArtifactStore(ctx, cfg.S3, WithS3Logger(log))
		if err != nil {
			return nil, err
		}
		if err := store.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("storage: driver desconocido %q", cfg.Driver)
	}
}
