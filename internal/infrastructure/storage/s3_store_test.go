package storage_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mulphico/inventory-valuation/internal/domain"
	"github.com/mulphico/inventory-valuation/internal/infrastructure/storage"
	"github.com/mulphico/inventory-valuation/pkg/config"
)

func s3TestConfig() config.S3Config {
	return config.S3Config{
		Endpoint:       "http://localhost:9000",
		Region:         "us-east-1",
		Bucket:         "reportes",
		AccessKey:      "test-key",
		SecretKey:      "test-secret",
		UsePathStyle:   true,
		PresignMinutes: 5,
	}
}

func TestNewS3ArtifactStore_Validacion(t *testing.T) {
	t.Run("sin bucket", func(t *testing.T) {
		cfg := s3TestConfig()
		cfg.Bucket = ""
		_, err := storage.NewS3ArtifactStore(context.Background(), cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bucket")
	})

	t.Run("sin credenciales", func(t *testing.T) {
		cfg := s3TestConfig()
		cfg.SecretKey = ""
		_, err := storage.NewS3ArtifactStore(context.Background(), cfg)
		require.Error(t, err)
	})

	t.Run("configuración válida", func(t *testing.T) {
		s, err := storage.NewS3ArtifactStore(context.Background(), s3TestConfig())
		require.NoError(t, err)
		assert.Equal(t, "reportes", s.Bucket())
	})
}

// La firma de URL no requiere red.
func TestS3ArtifactStore_DownloadURLFirmada(t *testing.T) {
	s, err := storage.NewS3ArtifactStore(context.Background(), s3TestConfig(),
		storage.WithPresignExpiration(2*time.Minute))
	require.NoError(t, err)
	id := uuid.NewString()

	url, err := s.DownloadURL(context.Background(), id)
	require.NoError(t, err)

	assert.Contains(t, url, "http://localhost:9000/reportes/valuation-exports/"+id)
	assert.Contains(t, url, "X-Amz-Signature=")
	assert.Contains(t, url, "X-Amz-Expires=120")
}

func TestS3ArtifactStore_IDInvalido(t *testing.T) {
	s, err := storage.NewS3ArtifactStore(context.Background(), s3TestConfig())
	require.NoError(t, err)

	_, err = s.DownloadURL(context.Background(), "no-es-uuid")
	assert.ErrorIs(t, err, domain.ErrArtifactNotFound)
	_, err = s.Stat(context.Background(), "no-es-uuid")
	assert.ErrorIs(t, err, domain.ErrArtifactNotFound)
}
