package dto

import "github.com/shopspring/decimal"

// WarehouseOption bodega seleccionable en el formulario del reporte.
type WarehouseOption struct {
	ID   string `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// CategoryOption categoría seleccionable.
type CategoryOption struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	CostMethod  string `json:"cost_method"`
}

// LocationOption ubicación interna seleccionable.
type LocationOption struct {
	ID          string `json:"id"`
	WarehouseID string `json:"warehouse_id"`
	Name        string `json:"name"`
	FullName    string `json:"full_name"`
}

// ProductOption producto seleccionable.
type ProductOption struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Barcode       string          `json:"barcode"`
	CategoryID    string          `json:"category_id"`
	StandardPrice decimal.Decimal `json:"standard_price"`
}

// CatalogListResponse envoltorio de listados del catálogo.
type CatalogListResponse[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}
