package repository

import (
	"context"
	"time"

	"github.com/mulphico/inventory-valuation/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// SnapshotEdge indica en qué borde del día se toma un snapshot.
type SnapshotEdge int

const (
	// StartOfDay excluye los movimientos del propio día (balance de apertura).
	StartOfDay SnapshotEdge = iota
	// EndOfDay incluye todos los movimientos del día (balance de cierre).
	EndOfDay
)

// Snapshot cantidad en mano y valor total de un producto, restringido a un conjunto de ubicaciones.
type Snapshot struct {
	Quantity decimal.Decimal
	Value    decimal.Decimal
}

// ProductIdentity campos de identidad de un producto para el reporte.
// Los atributos personalizados son opcionales: nil significa que el despliegue no los define.
type ProductIdentity struct {
	ProductID           string
	Name                string
	Barcode             string
	CategoryDisplayName string
	CostingMethod       string
	StandardPrice       decimal.Decimal
	Principal           *string
	DeviceType          *string
	Model               *string
}

// ValuationQueryRepository puerto de solo lectura sobre movimientos y capas de valoración.
// Se asume pre-autorizado para todo el alcance consultado; no hace controles de acceso.
type ValuationQueryRepository interface {
	// GetSnapshot devuelve el balance del producto en las ubicaciones dadas a la fecha asOf.
	GetSnapshot(ctx context.Context, productID string, locationIDs []string, asOf time.Time, edge SnapshotEdge) (Snapshot, error)

	// FindDoneMoveLines devuelve las líneas realizadas con fecha en [dateFrom, dateTo] (días completos)
	// cuyo origen o destino está en locationIDs, ordenadas por fecha ascendente.
	// La procedencia viene resuelta en cada línea.
	FindDoneMoveLines(ctx context.Context, productID string, locationIDs []string, dateFrom, dateTo time.Time) ([]entity.MoveLine, error)

	// SumValuationLayers devuelve |Σ value| de las capas asociadas al movimiento (cero si no hay capas).
	SumValuationLayers(ctx context.Context, moveID string) (decimal.Decimal, error)

	// ResolveProductIdentity devuelve nombre, código de barras, categoría y método de costeo.
	ResolveProductIdentity(ctx context.Context, productID string) (*ProductIdentity, error)

	// ResolveWarehouseNames devuelve los nombres de las bodegas separados por ", ".
	ResolveWarehouseNames(ctx context.Context, warehouseIDs []string) (string, error)
}
