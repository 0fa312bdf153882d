// Package storage guarda las exportaciones del reporte: disco local o un bucket compatible con S3.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/mulphico/inventory-valuation/internal/domain"
	"github.com/mulphico/inventory-valuation/internal/domain/entity"
	"github.com/mulphico/inventory-valuation/internal/domain/repository"
	"github.com/mulphico/inventory-valuation/pkg/logger"
)

var _ repository.ArtifactStore = (*LocalArtifactStore)(nil)

const (
	dataSuffix = ".bin"
	metaSuffix = ".json"
)

// LocalArtifactStore guarda cada artefacto como {dir}/{id}.bin más {dir}/{id}.json con los metadatos.
type LocalArtifactStore struct {
	dir string
	log *logger.Logger
}

// NewLocalArtifactStore crea el directorio si no existe.
func NewLocalArtifactStore(dir string, log *logger.Logger) (*LocalArtifactStore, error) {
	if dir == "" {
		return nil, errors.New("storage: directorio requerido")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: crear %s: %w", dir, err)
	}
	if log == nil {
		log = logger.Nop()
	}
	return &LocalArtifactStore{dir: dir, log: log.Component("artifact_store")}, nil
}

// Put escribe el contenido y luego los metadatos; un artefacto sin .json no es visible.
func (s *LocalArtifactStore) Put(ctx context.Context, artifact entity.Artifact, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := uuid.Parse(artifact.ID); err != nil {
		return fmt.Errorf("storage: id de artefacto inválido %q: %w", artifact.ID, domain.ErrInvalidInput)
	}
	artifact.Size = int64(len(data))

	if err := os.WriteFile(s.path(artifact.ID, dataSuffix), data, 0o644); err != nil {
		return fmt.Errorf("storage: escribir artefacto: %w", err)
	}
	meta, err := json.Marshal(artifact)
	if err != nil {
		return fmt.Errorf("storage: serializar metadatos: %w", err)
	}
	if err := os.WriteFile(s.path(artifact.ID, metaSuffix), meta, 0o644); err != nil {
		return fmt.Errorf("storage: escribir metadatos: %w", err)
	}
	s.log.Info().Str("artifact_id", artifact.ID).Int64("size", artifact.Size).Msg("artefacto guardado")
	return nil
}

// Stat lee los metadatos del artefacto.
func (s *LocalArtifactStore) Stat(ctx context.Context, id string) (*entity.Artifact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !validID(id) {
		return nil, domain.ErrArtifactNotFound
	}
	raw, err := os.ReadFile(s.path(id, metaSuffix))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrArtifactNotFound
		}
		return nil, fmt.Errorf("storage: leer metadatos: %w", err)
	}
	var a entity.Artifact
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, fmt.Errorf("storage: metadatos corruptos de %s: %w", id, err)
	}
	return &a, nil
}

// Open abre el contenido; el llamador cierra el reader.
func (s *LocalArtifactStore) Open(ctx context.Context, id string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !validID(id) {
		return nil, domain.ErrArtifactNotFound
	}
	f, err := os.Open(s.path(id, dataSuffix))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrArtifactNotFound
		}
		return nil, fmt.Errorf("storage: abrir artefacto: %w", err)
	}
	return f, nil
}

// DownloadURL el disco local no firma URLs; el contenido se sirve con Open.
func (s *LocalArtifactStore) DownloadURL(context.Context, string) (string, error) {
	return "", nil
}

func (s *LocalArtifactStore) path(id, suffix string) string {
	return filepath.Join(s.dir, id+suffix)
}

// validID solo se aceptan UUID: evita rutas arbitrarias ("../") en el nombre del archivo.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
