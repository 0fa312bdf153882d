package repository

import (
	"context"

	"github.com/mulphico/inventory-valuation/internal/domain/entity"
)

// CatalogRepository consultas de catálogo para el formulario del reporte
// (bodegas → ubicaciones internas, categorías → productos) y para validar el alcance.
type CatalogRepository interface {
	ListWarehouses(ctx context.Context) ([]entity.Warehouse, error)
	ListCategories(ctx context.Context) ([]entity.Category, error)

	// ListInternalLocations devuelve las ubicaciones internas de las bodegas dadas.
	// Sin bodegas devuelve todas las ubicaciones internas.
	ListInternalLocations(ctx context.Context, warehouseIDs []string) ([]entity.Location, error)

	// ListProductsByCategories devuelve los productos de las categorías dadas.
	// Sin categorías devuelve una lista vacía.
	ListProductsByCategories(ctx context.Context, categoryIDs []string) ([]entity.Product, error)

	GetLocationsByIDs(ctx context.Context, ids []string) ([]entity.Location, error)
	GetProductsByIDs(ctx context.Context, ids []string) ([]entity.Product, error)
}
