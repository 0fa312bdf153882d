package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una línea de movimiento. El reporte solo considera "done".
const (
	MoveLineStateDraft = "draft"
	MoveLineStateDone  = "done"
)

// Provenance indica el proceso de negocio que originó el movimiento.
// La capa de consulta la resuelve de forma anticipada (no hay navegación perezosa de relaciones).
type Provenance struct {
	IncomingPicking     bool // recepción de compra
	OutgoingPicking     bool // entrega a cliente
	ManufacturingOrder  bool // producción terminada
	ScrapOrder          bool // desecho
	InventoryAdjustment bool // ajuste explícito de inventario
}

// MoveLine es una línea de movimiento realizada (state = done) entre dos ubicaciones.
// MoveID agrupa las líneas de un mismo movimiento; las capas de valoración cuelgan del movimiento.
// MoveQuantityDone es la cantidad realizada de todas las líneas del movimiento; cero si se desconoce.
type MoveLine struct {
	ID               string
	MoveID           string
	ProductID        string
	LocationID       string // origen
	LocationDestID   string // destino
	QuantityDone     decimal.Decimal
	MoveQuantityDone decimal.Decimal
	Date             time.Time
	Provenance       Provenance
}
