package valuation

import (
	"fmt"

	"github.com/mulphico/inventory-valuation/internal/domain/entity"
)

// Kind bucket de movimiento al que se asigna una línea.
type Kind int

const (
	KindNone Kind = iota // excluida: transferencia interna, externa o no clasificada bajo InventoryOnly
	KindReceipt
	KindManufactured
	KindDelivered
	KindAdjustment
	KindScrap
)

func (k Kind) String() string {
	switch k {
	case KindReceipt:
		return "receipt"
	case KindManufactured:
		return "manufactured"
	case KindDelivered:
		return "delivered"
	case KindAdjustment:
		return "adjustment"
	case KindScrap:
		return "scrap"
	default:
		return "none"
	}
}

// AdjustmentPolicy decide qué pasa con los movimientos sin procedencia reconocida.
type AdjustmentPolicy int

const (
	// CatchAll los cuenta siempre como ajuste.
	CatchAll AdjustmentPolicy = iota
	// InventoryOnly solo cuenta los marcados como ajuste de inventario; el resto se descarta.
	InventoryOnly
)

// ParseAdjustmentPolicy interpreta el valor de configuración ("catch_all" | "inventory_only").
func ParseAdjustmentPolicy(s string) (AdjustmentPolicy, error) {
	switch s {
	case "", "catch_all":
		return CatchAll, nil
	case "inventory_only":
		return InventoryOnly, nil
	}
	return CatchAll, fmt.Errorf("política de ajuste desconocida: %q", s)
}

func (p AdjustmentPolicy) String() string {
	if p == InventoryOnly {
		return "inventory_only"
	}
	return "catch_all"
}

// Classification resultado de clasificar una línea: bucket y signo (-1 en salidas no clasificadas).
type Classification struct {
	Kind Kind
	Sign int
}

// Classify asigna la línea a un bucket según la pertenencia de origen/destino al alcance
// y la procedencia del movimiento.
//
//   - IN  (destino dentro, origen fuera): recepción → receipt, producción → manufactured, resto → adjustment (+).
//   - OUT (origen dentro, destino fuera): entrega → delivered, desecho → scrap, resto → adjustment (−).
//   - Ambos extremos dentro o ambos fuera: excluida.
func Classify(line entity.MoveLine, scope Scope, policy AdjustmentPolicy) Classification {
	srcIn := scope.HasLocation(line.LocationID)
	dstIn := scope.HasLocation(line.LocationDestID)
	p := line.Provenance

	switch {
	case dstIn && !srcIn:
		switch {
		case p.IncomingPicking:
			return Classification{Kind: KindReceipt, Sign: 1}
		case p.ManufacturingOrder:
			return Classification{Kind: KindManufactured, Sign: 1}
		}
		return adjustment(p, policy, 1)
	case srcIn && !dstIn:
		switch {
		case p.OutgoingPicking:
			return Classification{Kind: KindDelivered, Sign: 1}
		case p.ScrapOrder:
			return Classification{Kind: KindScrap, Sign: 1}
		}
		return adjustment(p, policy, -1)
	}
	return Classification{Kind: KindNone}
}

func adjustment(p entity.Provenance, policy AdjustmentPolicy, sign int) Classification {
	if policy == InventoryOnly && !p.InventoryAdjustment {
		return Classification{Kind: KindNone}
	}
	return Classification{Kind: KindAdjustment, Sign: sign}
}
