// Package catalog expone las cascadas del formulario del reporte:
// bodegas → ubicaciones internas y categorías → productos.
package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/mulphico/inventory-valuation/internal/application/dto"
	"github.com/mulphico/inventory-valuation/internal/domain/entity"
	"github.com/mulphico/inventory-valuation/internal/domain/repository"
)

// CatalogUseCase casos de uso de solo lectura sobre el catálogo.
type CatalogUseCase struct {
	repo repository.CatalogRepository
}

// NewCatalogUseCase construye el caso de uso.
func NewCatalogUseCase(repo repository.CatalogRepository) *CatalogUseCase {
	return &CatalogUseCase{repo: repo}
}

// Warehouses lista las bodegas.
func (uc *CatalogUseCase) Warehouses(ctx context.Context) (*dto.CatalogListResponse[dto.WarehouseOption], error) {
	list, err := uc.repo.ListWarehouses(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar bodegas: %w", err)
	}
	items := make([]dto.WarehouseOption, 0, len(list))
	for _, w := range list {
		items = append(items, dto.WarehouseOption{ID: w.ID, Code: w.Code, Name: w.Name})
	}
	return &dto.CatalogListResponse[dto.WarehouseOption]{Items: items, Total: len(items)}, nil
}

// Categories lista las categorías con su método de costeo efectivo.
func (uc *CatalogUseCase) Categories(ctx context.Context) (*dto.CatalogListResponse[dto.CategoryOption], error) {
	list, err := uc.repo.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar categorías: %w", err)
	}
	items := make([]dto.CategoryOption, 0, len(list))
	for i := range list {
		c := &list[i]
		items = append(items, dto.CategoryOption{
			ID:          c.ID,
			Name:        c.Name,
			DisplayName: c.DisplayName,
			CostMethod:  c.EffectiveCostMethod(),
		})
	}
	return &dto.CatalogListResponse[dto.CategoryOption]{Items: items, Total: len(items)}, nil
}

// Locations ubicaciones internas de las bodegas dadas; sin bodegas, todas las internas.
func (uc *CatalogUseCase) Locations(ctx context.Context, warehouseIDs []string) (*dto.CatalogListResponse[dto.LocationOption], error) {
	list, err := uc.repo.ListInternalLocations(ctx, cleanIDs(warehouseIDs))
	if err != nil {
		return nil, fmt.Errorf("listar ubicaciones: %w", err)
	}
	items := make([]dto.LocationOption, 0, len(list))
	for i := range list {
		l := &list[i]
		if !l.IsInternal() {
			continue
		}
		items = append(items, dto.LocationOption{ID: l.ID, WarehouseID: l.WarehouseID, Name: l.Name, FullName: l.FullName})
	}
	return &dto.CatalogListResponse[dto.LocationOption]{Items: items, Total: len(items)}, nil
}

// Products productos de las categorías dadas; sin categorías la lista es vacía.
func (uc *CatalogUseCase) Products(ctx context.Context, categoryIDs []string) (*dto.CatalogListResponse[dto.ProductOption], error) {
	ids := cleanIDs(categoryIDs)
	if len(ids) == 0 {
		return &dto.CatalogListResponse[dto.ProductOption]{Items: []dto.ProductOption{}}, nil
	}
	list, err := uc.repo.ListProductsByCategories(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("listar productos: %w", err)
	}
	items := make([]dto.ProductOption, 0, len(list))
	for _, p := range list {
		items = append(items, toProductOption(p))
	}
	return &dto.CatalogListResponse[dto.ProductOption]{Items: items, Total: len(items)}, nil
}

func toProductOption(p entity.Product) dto.ProductOption {
	return dto.ProductOption{
		ID:            p.ID,
		Name:          p.Name,
		Barcode:       p.Barcode,
		CategoryID:    p.CategoryID,
		StandardPrice: p.StandardPrice,
	}
}

// cleanIDs acepta tanto ids repetidos (?id=a&id=b) como listas separadas por coma.
func cleanIDs(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, chunk := range raw {
		for _, id := range strings.Split(chunk, ",") {
			id = strings.TrimSpace(id)
			if id == "" {
				continue
			}
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}
