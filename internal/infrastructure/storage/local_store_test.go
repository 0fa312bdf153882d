package storage_test

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mulphico/inventory-valuation/internal/domain"
	"github.com/mulphico/inventory-valuation/internal/domain/entity"
	"github.com/mulphico/inventory-valuation/internal/infrastructure/storage"
	"github.com/mulphico/inventory-valuation/pkg/logger"
)

func newLocalStore(t *testing.T) *storage.LocalArtifactStore {
	t.Helper()
	s, err := storage.NewLocalArtifactStore(t.TempDir(), logger.Nop())
	require.NoError(t, err)
	return s
}

func TestLocalStore_PutStatOpen(t *testing.T) {
	s := newLocalStore(t)
	ctx := context.Background()
	id := uuid.NewString()
	created := time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)

	err := s.Put(ctx, entity.Artifact{
		ID:          id,
		OwnerID:     "user-1",
		Filename:    "Inventory_Valuation_Report.xlsx",
		ContentType: "application/octet-stream",
		CreatedAt:   created,
	}, []byte("contenido"))
	require.NoError(t, err)

	meta, err := s.Stat(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "user-1", meta.OwnerID)
	assert.Equal(t, "Inventory_Valuation_Report.xlsx", meta.Filename)
	assert.Equal(t, int64(len("contenido")), meta.Size)
	assert.True(t, created.Equal(meta.CreatedAt))

	rc, err := s.Open(ctx, id)
	require.NoError(t, err)
	defer rc.Close()
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "contenido", string(body))

	url, err := s.DownloadURL(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, url, "el disco local sirve el contenido directamente")
}

func TestLocalStore_Inexistente(t *testing.T) {
	s := newLocalStore(t)
	ctx := context.Background()

	_, err := s.Stat(ctx, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrArtifactNotFound)

	_, err = s.Open(ctx, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrArtifactNotFound)
}

func TestLocalStore_RutaMaliciosa(t *testing.T) {
	s := newLocalStore(t)
	ctx := context.Background()

	_, err := s.Open(ctx, "../../etc/passwd")
	assert.ErrorIs(t, err, domain.ErrArtifactNotFound)

	err = s.Put(ctx, entity.Artifact{ID: "../fuera"}, []byte("x"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNewLocalArtifactStore_SinDirectorio(t *testing.T) {
	_, err := storage.NewLocalArtifactStore("", nil)
	assert.Error(t, err)
}
