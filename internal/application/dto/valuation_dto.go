package dto

import "github.com/shopspring/decimal"

// DateLayout formato de fechas aceptado en las solicitudes de reporte.
const DateLayout = "2006-01-02"

// InventoryValuationRequest entrada del reporte de valorización.
// Las ubicaciones y productos se envían ya resueltos por las cascadas del catálogo.
type InventoryValuationRequest struct {
	DateFrom     string   `json:"date_from" validate:"required,datetime=2006-01-02"`
	DateTo       string   `json:"date_to" validate:"required,datetime=2006-01-02"`
	WarehouseIDs []string `json:"warehouse_ids" validate:"required,min=1,dive,uuid"`
	LocationIDs  []string `json:"location_ids" validate:"omitempty,dive,uuid"`
	CategoryIDs  []string `json:"category_ids" validate:"required,min=1,dive,uuid"`
	ProductIDs   []string `json:"product_ids" validate:"omitempty,dive,uuid"`
}

// BucketResponse cantidad, tarifa y valor de un bucket.
type BucketResponse struct {
	Qty   decimal.Decimal `json:"qty"`
	Rate  decimal.Decimal `json:"rate"`
	Value decimal.Decimal `json:"value"`
}

// ValuationLineResponse una fila del reporte.
type ValuationLineResponse struct {
	ProductID      string          `json:"product_id"`
	Principal      string          `json:"principal"`
	Type           string          `json:"type"`
	Model          string          `json:"model"`
	Barcode        string          `json:"product_barcode"`
	ProductName    string          `json:"product_name"`
	ProductModel   string          `json:"product_model"`
	Category       string          `json:"product_category"`
	Rate           decimal.Decimal `json:"rate"`
	CostingMethod  string          `json:"costing_method"`
	Opening        BucketResponse  `json:"opening"`
	Receipt        BucketResponse  `json:"receipt"`
	Manufactured   BucketResponse  `json:"manufactured"`
	Delivered      BucketResponse  `json:"delivered"`
	Adjustment     BucketResponse  `json:"adjustment"`
	Scrap          BucketResponse  `json:"scrap"`
	Closing        BucketResponse  `json:"closing"`
	DiscrepancyQty decimal.Decimal `json:"discrepancy_qty"`
}

// ValuationTotalsResponse fila de totales.
type ValuationTotalsResponse struct {
	Opening      BucketResponse `json:"opening"`
	Receipt      BucketResponse `json:"receipt"`
	Manufactured BucketResponse `json:"manufactured"`
	Delivered    BucketResponse `json:"delivered"`
	Adjustment   BucketResponse `json:"adjustment"`
	Scrap        BucketResponse `json:"scrap"`
	Closing      BucketResponse `json:"closing"`
}

// InventoryValuationResponse salida JSON del reporte.
type InventoryValuationResponse struct {
	DateFrom         string                  `json:"date_from"`
	DateTo           string                  `json:"date_to"`
	WarehouseNames   string                  `json:"warehouse_names"`
	AdjustmentPolicy string                  `json:"adjustment_policy"`
	Lines            []ValuationLineResponse `json:"lines"`
	Totals           ValuationTotalsResponse `json:"totals"`
	Discrepancies    int                     `json:"discrepancies"`
	Cached           bool                    `json:"cached"`
}

// ExportArtifactResponse referencia a una exportación persistida.
type ExportArtifactResponse struct {
	ArtifactID string `json:"artifact_id"`
	Filename   string `json:"filename"`
	URL        string `json:"url"`
}
