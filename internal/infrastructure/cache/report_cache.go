package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mulphico/inventory-valuation/internal/domain/valuation"
	"github.com/mulphico/inventory-valuation/pkg/logger"
)

const (
	versionKey  = "valuation:version"
	keyPrefix   = "valuation:report"
	bumpChannel = "valuation.bump"
	minVersion  = int64(1)
	defaultTTL  = 5 * time.Minute
)

// ReportCache guarda reportes ya calculados en Redis, indexados por la huella del alcance.
// Las claves llevan una versión global: Invalidate la incrementa y deja huérfanas las anteriores.
// Un ReportCache nil o sin cliente siempre ejecuta el loader.
type ReportCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

// NewReportCache construye la caché. ttl <= 0 usa 5 minutos.
func NewReportCache(client *redis.Client, ttl time.Duration, log *logger.Logger) *ReportCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if log == nil {
		log = logger.Nop()
	}
	return &ReportCache{client: client, ttl: ttl, log: log.Component("report_cache")}
}

// Version devuelve la versión vigente, inicializándola si no existe.
func (c *ReportCache) Version(ctx context.Context) (int64, error) {
	if c == nil || c.client == nil {
		return 0, nil
	}
	ver, err := c.client.Get(ctx, versionKey).Int64()
	if errors.Is(err, redis.Nil) || (err == nil && ver < minVersion) {
		if err := c.client.Set(ctx, versionKey, minVersion, 0).Err(); err != nil {
			return 0, err
		}
		return minVersion, nil
	}
	if err != nil {
		return 0, err
	}
	return ver, nil
}

// Key compone la clave del reporte: prefijo, política de ajustes, huella del alcance y versión.
func (c *ReportCache) Key(ctx context.Context, fingerprint, policy string) (string, error) {
	ver, err := c.Version(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:%s:%s:%d", keyPrefix, policy, fingerprint, ver), nil
}

// Fetch devuelve el reporte cacheado o lo calcula con load y lo guarda.
// hit indica si vino de Redis. Las fallas de Redis no abortan: se registran y se calcula en línea.
// Los errores de load se devuelven tal cual.
func (c *ReportCache) Fetch(
	ctx context.Context,
	fingerprint, policy string,
	load func(context.Context) (*valuation.Report, error),
) (report *valuation.Report, hit bool, err error) {
	if load == nil {
		return nil, false, errors.New("cache: loader requerido")
	}
	if c == nil || c.client == nil {
		report, err = load(ctx)
		return report, false, err
	}

	key, err := c.Key(ctx, fingerprint, policy)
	if err != nil {
		c.log.Warn().Err(err).Msg("redis no disponible; se calcula sin caché")
		report, err = load(ctx)
		return report, false, err
	}

	payload, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var cached valuation.Report
		if jerr := json.Unmarshal(payload, &cached); jerr == nil {
			return &cached, true, nil
		}
		c.log.Warn().Str("key", key).Msg("entrada de caché corrupta; se recalcula")
	case !errors.Is(err, redis.Nil):
		c.log.Warn().Err(err).Str("key", key).Msg("lectura de caché falló")
	}

	report, err = load(ctx)
	if err != nil {
		return nil, false, err
	}
	raw, err := json.Marshal(report)
	if err != nil {
		return nil, false, fmt.Errorf("cache: serializar reporte: %w", err)
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("escritura de caché falló")
	}
	return report, false, nil
}

// Invalidate incrementa la versión global y lo publica para otras instancias.
func (c *ReportCache) Invalidate(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	ver, err := c.client.Incr(ctx, versionKey).Result()
	if err != nil {
		return fmt.Errorf("cache: invalidar: %w", err)
	}
	return c.client.Publish(ctx, bumpChannel, strconv.FormatInt(ver, 10)).Err()
}
