package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/mulphico/inventory-valuation/internal/domain/entity"
	"github.com/mulphico/inventory-valuation/internal/domain/repository"
)

var _ repository.CatalogRepository = (*CatalogRepo)(nil)

// CatalogRepo catálogos para el formulario del reporte y la validación del alcance.
type CatalogRepo struct {
	q Querier
}

// NewCatalogRepository construye el adaptador de catálogo.
func NewCatalogRepository(q Querier) *CatalogRepo {
	return &CatalogRepo{q: q}
}

const (
	locationColumns = `id, COALESCE(warehouse_id::text, ''), name, COALESCE(complete_name, name), usage`
	productColumns  = `id, name, COALESCE(barcode, ''), COALESCE(category_id::text, ''), standard_price,
	       attributes->>'principal', attributes->>'device_type', attributes->>'model'`
)

// ListWarehouses lista todas las bodegas por nombre.
func (r *CatalogRepo) ListWarehouses(ctx context.Context) ([]entity.Warehouse, error) {
	rows, err := r.q.Query(ctx, `SELECT id, COALESCE(code, ''), name FROM warehouses ORDER BY name`)
	if err != nil {
		return nil, wrapErr("catalog.ListWarehouses", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.Warehouse, error) {
		var w entity.Warehouse
		err := row.Scan(&w.ID, &w.Code, &w.Name)
		return w, err
	})
	if err != nil {
		return nil, wrapErr("catalog.ListWarehouses scan", err)
	}
	return out, nil
}

// ListCategories lista las categorías con su ruta completa.
func (r *CatalogRepo) ListCategories(ctx context.Context) ([]entity.Category, error) {
	const query = `
	SELECT id, COALESCE(parent_id::text, ''), name, COALESCE(complete_name, name), COALESCE(cost_method, '')
	FROM product_categories
	ORDER BY COALESCE(complete_name, name)`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, wrapErr("catalog.ListCategories", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.Category, error) {
		var c entity.Category
		err := row.Scan(&c.ID, &c.ParentID, &c.Name, &c.DisplayName, &c.CostMethod)
		return c, err
	})
	if err != nil {
		return nil, wrapErr("catalog.ListCategories scan", err)
	}
	return out, nil
}

// ListInternalLocations ubicaciones internas de las bodegas; sin bodegas, todas las internas.
func (r *CatalogRepo) ListInternalLocations(ctx context.Context, warehouseIDs []string) ([]entity.Location, error) {
	query := `SELECT ` + locationColumns + ` FROM stock_locations WHERE usage = 'internal'`
	args := []any{}
	if len(warehouseIDs) > 0 {
		query += ` AND warehouse_id = ANY($1::uuid[])`
		args = append(args, warehouseIDs)
	}
	query += ` ORDER BY COALESCE(complete_name, name)`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("catalog.ListInternalLocations", err)
	}
	return collectLocations(rows, "catalog.ListInternalLocations")
}

// ListProductsByCategories productos de las categorías; sin categorías no consulta.
func (r *CatalogRepo) ListProductsByCategories(ctx context.Context, categoryIDs []string) ([]entity.Product, error) {
	if len(categoryIDs) == 0 {
		return []entity.Product{}, nil
	}
	query := `SELECT ` + productColumns + ` FROM products WHERE category_id = ANY($1::uuid[]) ORDER BY name`
	rows, err := r.q.Query(ctx, query, categoryIDs)
	if err != nil {
		return nil, wrapErr("catalog.ListProductsByCategories", err)
	}
	return collectProducts(rows, "catalog.ListProductsByCategories")
}

// GetLocationsByIDs devuelve las ubicaciones existentes entre las pedidas (las faltantes se omiten).
func (r *CatalogRepo) GetLocationsByIDs(ctx context.Context, ids []string) ([]entity.Location, error) {
	if len(ids) == 0 {
		return []entity.Location{}, nil
	}
	query := `SELECT ` + locationColumns + ` FROM stock_locations WHERE id = ANY($1::uuid[])`
	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return nil, wrapErr("catalog.GetLocationsByIDs", err)
	}
	return collectLocations(rows, "catalog.GetLocationsByIDs")
}

// GetProductsByIDs devuelve los productos existentes entre los pedidos.
func (r *CatalogRepo) GetProductsByIDs(ctx context.Context, ids []string) ([]entity.Product, error) {
	if len(ids) == 0 {
		return []entity.Product{}, nil
	}
	query := `SELECT ` + productColumns + ` FROM products WHERE id = ANY($1::uuid[])`
	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return nil, wrapErr("catalog.GetProductsByIDs", err)
	}
	return collectProducts(rows, "catalog.GetProductsByIDs")
}

func collectLocations(rows pgx.Rows, op string) ([]entity.Location, error) {
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.Location, error) {
		var l entity.Location
		err := row.Scan(&l.ID, &l.WarehouseID, &l.Name, &l.FullName, &l.Usage)
		return l, err
	})
	if err != nil {
		return nil, wrapErr(op+" scan", err)
	}
	return out, nil
}

func collectProducts(rows pgx.Rows, op string) ([]entity.Product, error) {
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.Product, error) {
		var p entity.Product
		err := row.Scan(&p.ID, &p.Name, &p.Barcode, &p.CategoryID, &p.StandardPrice,
			&p.Principal, &p.DeviceType, &p.Model)
		return p, err
	})
	if err != nil {
		return nil, wrapErr(op+" scan", err)
	}
	return out, nil
}
