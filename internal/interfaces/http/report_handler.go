package http

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/mulphico/inventory-valuation/internal/application/dto"
	"github.com/mulphico/inventory-valuation/internal/application/report"
	"github.com/mulphico/inventory-valuation/pkg/logger"
)

// reportService contrato que el handler necesita; lo implementa *report.ValuationReportUseCase.
type reportService interface {
	Generate(ctx context.Context, req dto.InventoryValuationRequest) (*dto.InventoryValuationResponse, error)
	RenderPDF(ctx context.Context, req dto.InventoryValuationRequest) (*report.RenderedFile, error)
	ExportXLSX(ctx context.Context, ownerID string, req dto.InventoryValuationRequest) (*dto.ExportArtifactResponse, error)
	GetArtifact(ctx context.Context, requesterID, role, id string) (*report.ArtifactDownload, error)
	InvalidateCache(ctx context.Context) error
}

// ReportHandler maneja las peticiones del reporte de valorización (protegido).
type ReportHandler struct {
	uc  reportService
	log *logger.Logger
}

// NewReportHandler construye el handler.
func NewReportHandler(uc reportService, log *logger.Logger) *ReportHandler {
	return &ReportHandler{uc: uc, log: log}
}

// Generate godoc
// @Summary      Reporte de valorización de inventario
// @Tags         reports
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.InventoryValuationRequest  true  "Alcance del reporte"
// @Success      200   {object}  dto.InventoryValuationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/reports/inventory-valuation [post]
func (h *ReportHandler) Generate(c *fiber.Ctx) error {
	in, ok := h.parse(c)
	if !ok {
		return nil
	}
	out, err := h.uc.Generate(c.UserContext(), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// PDF godoc
// @Summary      Reporte de valorización en PDF
// @Tags         reports
// @Security     Bearer
// @Accept       json
// @Produce      application/pdf
// @Param        body  body  dto.InventoryValuationRequest  true  "Alcance del reporte"
// @Success      200
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/reports/inventory-valuation/pdf [post]
func (h *ReportHandler) PDF(c *fiber.Ctx) error {
	in, ok := h.parse(c)
	if !ok {
		return nil
	}
	file, err := h.uc.RenderPDF(c.UserContext(), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, file.ContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+file.Filename+`"`)
	return c.Send(file.Data)
}

// XLSX godoc
// @Summary      Exportar reporte de valorización a xlsx
// @Tags         reports
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.InventoryValuationRequest  true  "Alcance del reporte"
// @Success      201   {object}  dto.ExportArtifactResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/reports/inventory-valuation/xlsx [post]
func (h *ReportHandler) XLSX(c *fiber.Ctx) error {
	in, ok := h.parse(c)
	if !ok {
		return nil
	}
	out, err := h.uc.ExportXLSX(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Artifact godoc
// @Summary      Descargar exportación
// @Tags         reports
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        id   path  string  true  "ID del artefacto"
// @Success      200
// @Success      302
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/reports/artifacts/{id} [get]
func (h *ReportHandler) Artifact(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	dl, err := h.uc.GetArtifact(c.UserContext(), GetUserID(c), GetRole(c), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	if dl.URL != "" {
		return c.Redirect(dl.URL, fiber.StatusFound)
	}
	c.Set(fiber.HeaderContentType, dl.Artifact.ContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+dl.Artifact.Filename+`"`)
	c.Set(fiber.HeaderContentLength, strconv.FormatInt(dl.Artifact.Size, 10))
	return c.SendStream(dl.Body, int(dl.Artifact.Size))
}

// InvalidateCache godoc
// @Summary      Invalidar caché de reportes
// @Tags         reports
// @Security     Bearer
// @Success      204
// @Router       /api/reports/cache/invalidate [post]
func (h *ReportHandler) InvalidateCache(c *fiber.Ctx) error {
	if err := h.uc.InvalidateCache(c.UserContext()); err != nil {
		return respondError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// parse lee el cuerpo; si falla ya escribió la respuesta 400.
func (h *ReportHandler) parse(c *fiber.Ctx) (dto.InventoryValuationRequest, bool) {
	var in dto.InventoryValuationRequest
	if err := c.BodyParser(&in); err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		return in, false
	}
	return in, true
}
