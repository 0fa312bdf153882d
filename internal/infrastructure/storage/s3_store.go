package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/mulphico/inventory-valuation/internal/domain"
	"github.com/mulphico/inventory-valuation/internal/domain/entity"
	"github.com/mulphico/inventory-valuation/internal/domain/repository"
	"github.com/mulphico/inventory-valuation/pkg/config"
	"github.com/mulphico/inventory-valuation/pkg/logger"
)

var _ repository.ArtifactStore = (*S3ArtifactStore)(nil)

const (
	keyPrefix          = "valuation-exports/"
	metaOwner          = "owner-id"
	metaFilename       = "filename"
	metaCreatedAt      = "created-at"
	defaultPresignTime = 15 * time.Minute
)

// S3ArtifactStore guarda artefactos en un bucket compatible con S3 (AWS, MinIO, R2).
// Los metadatos viajan como user metadata del objeto; la descarga se hace con URL firmada.
type S3ArtifactStore struct {
	client            *s3.Client
	presignClient     *s3.PresignClient
	bucket            string
	presignExpiration time.Duration
	log               *logger.Logger
}

// S3Option configura el store.
type S3Option func(*S3ArtifactStore)

// WithS3Logger define el logger.
func WithS3Logger(l *logger.Logger) S3Option {
	return func(s *S3ArtifactStore) {
		if l != nil {
			s.log = l.Component("artifact_store")
		}
	}
}

// WithPresignExpiration define la vigencia de las URL firmadas.
func WithPresignExpiration(d time.Duration) S3Option {
	return func(s *S3ArtifactStore) { s.presignExpiration = d }
}

// NewS3ArtifactStore construye el cliente con credenciales estáticas y endpoint propio.
func NewS3ArtifactStore(ctx context.Context, cfg config.S3Config, opts ...S3Option) (*S3ArtifactStore, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("storage: bucket requerido")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, errors.New("storage: access key y secret key requeridas")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("storage: configuración AWS: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if cfg.Endpoint != "" {
			endpoint := cfg.Endpoint
			if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
				endpoint = "https://" + endpoint
			}
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	s := &S3ArtifactStore{
		client:            client,
		presignClient:     s3.NewPresignClient(client),
		bucket:            cfg.Bucket,
		presignExpiration: time.Duration(cfg.PresignMinutes) * time.Minute,
		log:               logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.presignExpiration <= 0 {
		s.presignExpiration = defaultPresignTime
	}
	return s, nil
}

// EnsureBucket crea el bucket si no existe. Se llama al arrancar.
func (s *S3ArtifactStore) EnsureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err == nil {
		return nil
	}
	var notFound *types.NotFound
	var noSuchBucket *types.NoSuchBucket
	if !errors.As(err, &notFound) && !errors.As(err, &noSuchBucket) {
		return fmt.Errorf("storage: verificar bucket: %w", err)
	}

	s.log.Info().Str("bucket", s.bucket).Msg("creando bucket de exportaciones")
	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(s.bucket)})
	if err != nil {
		var owned *types.BucketAlreadyOwnedByYou
		if errors.As(err, &owned) {
			return nil
		}
		return fmt.Errorf("storage: crear bucket: %w", err)
	}
	return nil
}

// Put sube el objeto con los metadatos del artefacto.
func (s *S3ArtifactStore) Put(ctx context.Context, artifact entity.Artifact, data []byte) error {
	if !validID(artifact.ID) {
		return fmt.Errorf("storage: id de artefacto inválido %q: %w", artifact.ID, domain.ErrInvalidInput)
	}
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:             aws.String(s.bucket),
		Key:                aws.String(objectKey(artifact.ID)),
		Body:               bytes.NewReader(data),
		ContentType:        aws.String(artifact.ContentType),
		ContentDisposition: aws.String(contentDisposition(artifact.Filename)),
		Metadata: map[string]string{
			metaOwner:     artifact.OwnerID,
			metaFilename:  artifact.Filename,
			metaCreatedAt: artifact.CreatedAt.UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return fmt.Errorf("storage: subir artefacto: %w", err)
	}
	s.log.Info().Str("artifact_id", artifact.ID).Int("size", len(data)).Msg("artefacto subido")
	return nil
}

// Stat lee los metadatos con HeadObject.
func (s *S3ArtifactStore) Stat(ctx context.Context, id string) (*entity.Artifact, error) {
	if !validID(id) {
		return nil, domain.ErrArtifactNotFound
	}
	out, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey(id)),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, domain.ErrArtifactNotFound
		}
		return nil, fmt.Errorf("storage: consultar artefacto: %w", err)
	}
	a := &entity.Artifact{
		ID:          id,
		OwnerID:     out.Metadata[metaOwner],
		Filename:    out.Metadata[metaFilename],
		ContentType: aws.ToString(out.ContentType),
		Size:        aws.ToInt64(out.ContentLength),
	}
	if ts, err := time.Parse(time.RFC3339, out.Metadata[metaCreatedAt]); err == nil {
		a.CreatedAt = ts
	}
	return a, nil
}

// Open descarga el objeto; el llamador cierra el reader.
func (s *S3ArtifactStore) Open(ctx context.Context, id string) (io.ReadCloser, error) {
	if !validID(id) {
		return nil, domain.ErrArtifactNotFound
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey(id)),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, domain.ErrArtifactNotFound
		}
		return nil, fmt.Errorf("storage: descargar artefacto: %w", err)
	}
	return out.Body, nil
}

// DownloadURL firma un GET con la vigencia configurada.
func (s *S3ArtifactStore) DownloadURL(ctx context.Context, id string) (string, error) {
	if !validID(id) {
		return "", domain.ErrArtifactNotFound
	}
	req, err := s.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey(id)),
	}, s3.WithPresignExpires(s.presignExpiration))
	if err != nil {
		return "", fmt.Errorf("storage: firmar URL: %w", err)
	}
	return req.URL, nil
}

// Bucket nombre del bucket configurado.
func (s *S3ArtifactStore) Bucket() string { return s.bucket }

func objectKey(id string) string { return keyPrefix + id }

func contentDisposition(filename string) string {
	return "attachment; filename=" + strconv.Quote(filename)
}

func isNotFound(err error) bool {
	var notFound *types.NotFound
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &notFound) || errors.As(err, &noSuchKey) {
		return true
	}
	// algunos servicios compatibles no tipan el error
	return strings.Contains(err.Error(), "NotFound") || strings.Contains(err.Error(), "NoSuchKey")
}
