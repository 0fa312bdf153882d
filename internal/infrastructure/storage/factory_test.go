package storage_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mulphico/inventory-valuation/internal/infrastructure/storage"
	"github.com/mulphico/inventory-valuation/pkg/config"
	"github.com/mulphico/inventory-valuation/pkg/logger"
)

func TestNew_LocalPorDefecto(t *testing.T) {
	store, err := storage.New(context.Background(), config.StorageConfig{LocalDir: t.TempDir()}, logger.Nop())
	require.NoError(t, err)
	assert.IsType(t, &storage.LocalArtifactStore{}, store)
}

func TestNew_DriverDesconocido(t *testing.T) {
	_, err := storage.New(context.Background(), config.StorageConfig{Driver: "ftp"}, logger.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ftp")
}
