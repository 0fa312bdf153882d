package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/mulphico/inventory-valuation/internal/application/dto"
	"github.com/mulphico/inventory-valuation/pkg/logger"
)

// catalogService contrato que el handler necesita; lo implementa *catalog.CatalogUseCase.
type catalogService interface {
	Warehouses(ctx context.Context) (*dto.CatalogListResponse[dto.WarehouseOption], error)
	Categories(ctx context.Context) (*dto.CatalogListResponse[dto.CategoryOption], error)
	Locations(ctx context.Context, warehouseIDs []string) (*dto.CatalogListResponse[dto.LocationOption], error)
	Products(ctx context.Context, categoryIDs []string) (*dto.CatalogListResponse[dto.ProductOption], error)
}

// CatalogHandler cascadas del formulario del reporte (protegido).
type CatalogHandler struct {
	uc  catalogService
	log *logger.Logger
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(uc catalogService, log *logger.Logger) *CatalogHandler {
	return &CatalogHandler{uc: uc, log: log}
}

// Warehouses godoc
// @Summary      Listar bodegas
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CatalogListResponse[dto.WarehouseOption]
// @Router       /api/catalog/warehouses [get]
func (h *CatalogHandler) Warehouses(c *fiber.Ctx) error {
	out, err := h.uc.Warehouses(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Categories godoc
// @Summary      Listar categorías
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CatalogListResponse[dto.CategoryOption]
// @Router       /api/catalog/categories [get]
func (h *CatalogHandler) Categories(c *fiber.Ctx) error {
	out, err := h.uc.Categories(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Locations godoc
// @Summary      Ubicaciones internas por bodega
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        warehouse_ids  query  []string  false  "IDs de bodega (repetido o separado por coma)"
// @Success      200  {object}  dto.CatalogListResponse[dto.LocationOption]
// @Router       /api/catalog/locations [get]
func (h *CatalogHandler) Locations(c *fiber.Ctx) error {
	out, err := h.uc.Locations(c.UserContext(), queryList(c, "warehouse_ids"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Products godoc
// @Summary      Productos por categoría
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        category_ids  query  []string  false  "IDs de categoría (repetido o separado por coma)"
// @Success      200  {object}  dto.CatalogListResponse[dto.ProductOption]
// @Router       /api/catalog/products [get]
func (h *CatalogHandler) Products(c *fiber.Ctx) error {
	out, err := h.uc.Products(c.UserContext(), queryList(c, "category_ids"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// queryList devuelve todos los valores de un parámetro repetido.
func queryList(c *fiber.Ctx, key string) []string {
	raw := c.Context().QueryArgs().PeekMulti(key)
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		out = append(out, string(v))
	}
	return out
}
