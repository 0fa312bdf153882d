package repository

import (
	"context"
	"io"

	"github.com/mulphico/inventory-valuation/internal/domain/entity"
)

// ArtifactStore persiste exportaciones y las entrega después por ID.
// Un ID desconocido o mal formado devuelve domain.ErrArtifactNotFound.
type ArtifactStore interface {
	Put(ctx context.Context, artifact entity.Artifact, data []byte) error
	Stat(ctx context.Context, id string) (*entity.Artifact, error)
	Open(ctx context.Context, id string) (io.ReadCloser, error)

	// DownloadURL URL firmada para descarga directa; vacío si el store no la soporta
	// y el contenido debe servirse con Open.
	DownloadURL(ctx context.Context, id string) (string, error)
}
