// Package report orquesta el reporte de valorización: valida la solicitud contra el catálogo,
// agrega (con caché opcional), presenta en JSON, PDF o xlsx y persiste las exportaciones.
package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/mulphico/inventory-valuation/internal/application/dto"
	"github.com/mulphico/inventory-valuation/internal/domain"
	"github.com/mulphico/inventory-valuation/internal/domain/entity"
	"github.com/mulphico/inventory-valuation/internal/domain/repository"
	"github.com/mulphico/inventory-valuation/internal/domain/valuation"
	"github.com/mulphico/inventory-valuation/internal/observability/metrics"
	"github.com/mulphico/inventory-valuation/pkg/jwt"
	"github.com/mulphico/inventory-valuation/pkg/logger"
)

// Formatos de salida, usados como etiqueta de métricas.
const (
	FormatJSON = "json"
	FormatPDF  = "pdf"
	FormatXLSX = "xlsx"
)

// DefaultArtifactPath prefijo de la ruta de descarga de exportaciones.
const DefaultArtifactPath = "/api/reports/artifacts/"

// Settings parámetros del reporte que vienen de configuración.
type Settings struct {
	Placeholder  string
	Policy       valuation.AdjustmentPolicy
	ArtifactPath string
}

// RenderedFile documento generado en memoria.
type RenderedFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ArtifactDownload exportación lista para entregar: URL firmada o contenido.
// Exactamente uno de URL o Body viene informado; quien recibe Body debe cerrarlo.
type ArtifactDownload struct {
	Artifact entity.Artifact
	URL      string
	Body     io.ReadCloser
}

// ValuationReportUseCase caso de uso del reporte de valorización de inventario.
type ValuationReportUseCase struct {
	catalog      repository.CatalogRepository
	aggregator   *valuation.Aggregator
	cache        ReportCache
	pdf          DocumentRenderer
	workbook     WorkbookWriter
	store        repository.ArtifactStore
	policy       valuation.AdjustmentPolicy
	artifactPath string
	validate     *validator.Validate
	log          *logger.Logger
	now          func() time.Time
}

// NewValuationReportUseCase construye el caso de uso. cache puede ser nil (sin caché).
func NewValuationReportUseCase(
	queries repository.ValuationQueryRepository,
	catalog repository.CatalogRepository,
	cache ReportCache,
	pdf DocumentRenderer,
	workbook WorkbookWriter,
	store repository.ArtifactStore,
	settings Settings,
	log *logger.Logger,
) *ValuationReportUseCase {
	if log == nil {
		log = logger.Nop()
	}
	path := settings.ArtifactPath
	if path == "" {
		path = DefaultArtifactPath
	}
	return &ValuationReportUseCase{
		catalog: catalog,
		aggregator: valuation.NewAggregator(queries,
			valuation.WithPlaceholder(settings.Placeholder),
			valuation.WithAdjustmentPolicy(settings.Policy),
		),
		cache:        cache,
		pdf:          pdf,
		workbook:     workbook,
		store:        store,
		policy:       settings.Policy,
		artifactPath: path,
		validate:     validator.New(),
		log:          log.Component("valuation_report"),
		now:          time.Now,
	}
}

// Generate calcula el reporte y lo devuelve como DTO JSON.
func (uc *ValuationReportUseCase) Generate(ctx context.Context, req dto.InventoryValuationRequest) (_ *dto.InventoryValuationResponse, err error) {
	defer uc.observe(FormatJSON, uc.now(), &err)
	rep, hit, err := uc.build(ctx, req)
	if err != nil {
		return nil, err
	}
	return toResponse(rep, uc.policy, hit), nil
}

// RenderPDF calcula el reporte y lo devuelve como documento PDF.
func (uc *ValuationReportUseCase) RenderPDF(ctx context.Context, req dto.InventoryValuationRequest) (_ *RenderedFile, err error) {
	defer uc.observe(FormatPDF, uc.now(), &err)
	rep, _, err := uc.build(ctx, req)
	if err != nil {
		return nil, err
	}
	data, err := uc.pdf.Render(ctx, rep)
	if err != nil {
		return nil, fmt.Errorf("renderizar pdf: %w", err)
	}
	return &RenderedFile{Filename: uc.pdf.Filename(), ContentType: uc.pdf.ContentType(), Data: data}, nil
}

// RenderXLSX calcula el reporte y devuelve la hoja de cálculo sin persistirla.
func (uc *ValuationReportUseCase) RenderXLSX(ctx context.Context, req dto.InventoryValuationRequest) (_ *RenderedFile, err error) {
	defer uc.observe(FormatXLSX, uc.now(), &err)
	return uc.renderXLSX(ctx, req)
}

// ExportXLSX genera la hoja de cálculo y la persiste a nombre de ownerID.
func (uc *ValuationReportUseCase) ExportXLSX(ctx context.Context, ownerID string, req dto.InventoryValuationRequest) (_ *dto.ExportArtifactResponse, err error) {
	defer uc.observe(FormatXLSX, uc.now(), &err)
	if ownerID == "" {
		return nil, domain.ErrUnauthorized
	}
	file, err := uc.renderXLSX(ctx, req)
	if err != nil {
		return nil, err
	}
	art := entity.Artifact{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Filename:    file.Filename,
		ContentType: file.ContentType,
		Size:        int64(len(file.Data)),
		CreatedAt:   uc.now().UTC(),
	}
	if err := uc.store.Put(ctx, art, file.Data); err != nil {
		return nil, fmt.Errorf("guardar exportación: %w", err)
	}
	uc.log.Info().Str("artifact_id", art.ID).Str("owner_id", ownerID).Int64("size", art.Size).Msg("exportación guardada")
	return &dto.ExportArtifactResponse{
		ArtifactID: art.ID,
		Filename:   art.Filename,
		URL:        uc.artifactPath + art.ID,
	}, nil
}

// GetArtifact entrega una exportación. Solo su dueño o un admin pueden descargarla.
func (uc *ValuationReportUseCase) GetArtifact(ctx context.Context, requesterID, role, id string) (*ArtifactDownload, error) {
	art, err := uc.store.Stat(ctx, id)
	if err != nil {
		return nil, err
	}
	if art.OwnerID != requesterID && role != jwt.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	url, err := uc.store.DownloadURL(ctx, id)
	if err != nil {
		return nil, err
	}
	if url != "" {
		return &ArtifactDownload{Artifact: *art, URL: url}, nil
	}
	body, err := uc.store.Open(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ArtifactDownload{Artifact: *art, Body: body}, nil
}

// InvalidateCache descarta los reportes cacheados (p. ej. tras una carga masiva de movimientos).
func (uc *ValuationReportUseCase) InvalidateCache(ctx context.Context) error {
	if uc.cache == nil {
		return nil
	}
	if err := uc.cache.Invalidate(ctx); err != nil {
		return err
	}
	uc.log.Info().Msg("caché de reportes invalidada")
	return nil
}

func (uc *ValuationReportUseCase) renderXLSX(ctx context.Context, req dto.InventoryValuationRequest) (*RenderedFile, error) {
	rep, _, err := uc.build(ctx, req)
	if err != nil {
		return nil, err
	}
	data, err := uc.workbook.Write(rep)
	if err != nil {
		return nil, fmt.Errorf("generar xlsx: %w", err)
	}
	return &RenderedFile{Filename: uc.workbook.Filename(), ContentType: uc.workbook.ContentType(), Data: data}, nil
}

// build valida el alcance y obtiene el reporte (de caché o agregando).
func (uc *ValuationReportUseCase) build(ctx context.Context, req dto.InventoryValuationRequest) (*valuation.Report, bool, error) {
	start := uc.now()
	scope, err := uc.resolveScope(ctx, req)
	if err != nil {
		return nil, false, err
	}

	load := func(ctx context.Context) (*valuation.Report, error) {
		return uc.aggregator.Build(ctx, scope)
	}
	var (
		rep *valuation.Report
		hit bool
	)
	if uc.cache == nil {
		rep, err = load(ctx)
		metrics.IncCache(metrics.CacheDisabled)
	} else {
		rep, hit, err = uc.cache.Fetch(ctx, scope.Fingerprint(), uc.policy.String(), load)
		if hit {
			metrics.IncCache(metrics.CacheHit)
		} else {
			metrics.IncCache(metrics.CacheMiss)
		}
	}
	if err != nil {
		return nil, false, fmt.Errorf("agregar reporte: %w", err)
	}

	// un reporte de caché ya se señaló cuando se calculó
	discrepancies := countDiscrepancies(rep)
	if !hit {
		uc.flagDiscrepancies(rep)
		metrics.AddDiscrepancies(discrepancies)
	}
	metrics.AddReportLines(len(rep.Lines))
	uc.log.Info().
		Str("date_from", req.DateFrom).
		Str("date_to", req.DateTo).
		Int("locations", len(scope.LocationIDs())).
		Int("products", len(scope.ProductIDs())).
		Int("lines", len(rep.Lines)).
		Int("discrepancies", discrepancies).
		Bool("cache_hit", hit).
		Dur("elapsed", uc.now().Sub(start)).
		Msg("reporte de valorización generado")
	return rep, hit, nil
}

// flagDiscrepancies registra las líneas que no concilian. No las corrige.
func (uc *ValuationReportUseCase) flagDiscrepancies(rep *valuation.Report) {
	for _, l := range rep.Lines {
		if l.Reconciles() {
			continue
		}
		uc.log.Warn().
			Str("product_id", l.ProductID).
			Str("opening_qty", l.Opening.Quantity.String()).
			Str("net_qty", l.NetMovementQty().String()).
			Str("closing_qty", l.Closing.Quantity.String()).
			Str("discrepancy_qty", l.DiscrepancyQty().String()).
			Msg("cierre no concilia con apertura + movimientos")
	}
}

func countDiscrepancies(rep *valuation.Report) int {
	n := 0
	for _, l := range rep.Lines {
		if !l.Reconciles() {
			n++
		}
	}
	return n
}

// resolveScope valida la solicitud y la convierte en un Scope verificado contra el catálogo.
func (uc *ValuationReportUseCase) resolveScope(ctx context.Context, req dto.InventoryValuationRequest) (valuation.Scope, error) {
	if err := uc.validate.StructCtx(ctx, req); err != nil {
		return valuation.Scope{}, fmt.Errorf("%w: %s", domain.ErrInvalidInput, describeValidation(err))
	}
	from, err := time.Parse(dto.DateLayout, req.DateFrom)
	if err != nil {
		return valuation.Scope{}, fmt.Errorf("%w: date_from", domain.ErrInvalidInput)
	}
	to, err := time.Parse(dto.DateLayout, req.DateTo)
	if err != nil {
		return valuation.Scope{}, fmt.Errorf("%w: date_to", domain.ErrInvalidInput)
	}

	scope := valuation.NewScope(from, to, req.WarehouseIDs, req.LocationIDs, req.ProductIDs)
	if err := scope.Validate(); err != nil {
		return valuation.Scope{}, err
	}
	if err := uc.checkLocations(ctx, scope.WarehouseIDs(), scope.LocationIDs()); err != nil {
		return valuation.Scope{}, err
	}
	if err := uc.checkProducts(ctx, req.CategoryIDs, scope.ProductIDs()); err != nil {
		return valuation.Scope{}, err
	}
	return scope, nil
}

// checkLocations exige ubicaciones internas de las bodegas seleccionadas.
func (uc *ValuationReportUseCase) checkLocations(ctx context.Context, warehouseIDs, locationIDs []string) error {
	locs, err := uc.catalog.GetLocationsByIDs(ctx, locationIDs)
	if err != nil {
		return fmt.Errorf("consultar ubicaciones: %w", err)
	}
	byID := make(map[string]entity.Location, len(locs))
	for _, l := range locs {
		byID[l.ID] = l
	}
	whs := toSet(warehouseIDs)
	for _, id := range locationIDs {
		l, ok := byID[id]
		switch {
		case !ok:
			return fmt.Errorf("%w: ubicación %s no existe", domain.ErrInvalidScope, id)
		case !l.IsInternal():
			return fmt.Errorf("%w: ubicación %s no es interna", domain.ErrInvalidScope, id)
		case !whs[l.WarehouseID]:
			return fmt.Errorf("%w: ubicación %s no pertenece a las bodegas seleccionadas", domain.ErrInvalidScope, id)
		}
	}
	return nil
}

// checkProducts exige productos de las categorías seleccionadas.
func (uc *ValuationReportUseCase) checkProducts(ctx context.Context, categoryIDs, productIDs []string) error {
	prods, err := uc.catalog.GetProductsByIDs(ctx, productIDs)
	if err != nil {
		return fmt.Errorf("consultar productos: %w", err)
	}
	byID := make(map[string]entity.Product, len(prods))
	for _, p := range prods {
		byID[p.ID] = p
	}
	cats := toSet(categoryIDs)
	for _, id := range productIDs {
		p, ok := byID[id]
		switch {
		case !ok:
			return fmt.Errorf("%w: producto %s no existe", domain.ErrInvalidScope, id)
		case !cats[p.CategoryID]:
			return fmt.Errorf("%w: producto %s no pertenece a las categorías seleccionadas", domain.ErrInvalidScope, id)
		}
	}
	return nil
}

func (uc *ValuationReportUseCase) observe(format string, start time.Time, err *error) {
	result := metrics.ResultSuccess
	if *err != nil {
		result = metrics.ResultError
	}
	metrics.ObserveReport(format, result, uc.now().Sub(start))
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
	}
	return strings.Join(parts, ", ")
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[strings.TrimSpace(id)] = true
	}
	return set
}
