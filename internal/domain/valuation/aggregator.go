package valuation

import (
	"context"
	"fmt"

	"github.com/mulphico/inventory-valuation/internal/domain"
	"github.com/mulphico/inventory-valuation/internal/domain/entity"
	"github.com/mulphico/inventory-valuation/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// DefaultPlaceholder valor para atributos personalizados que el producto no define.
const DefaultPlaceholder = "N/A"

// Aggregator calcula una ReportLine por producto a partir del puerto de consultas.
// No tiene estado mutable compartido: cada llamada a Aggregate es independiente.
type Aggregator struct {
	repo        repository.ValuationQueryRepository
	placeholder string
	policy      AdjustmentPolicy
}

// Option configura el Aggregator.
type Option func(*Aggregator)

// WithPlaceholder define el texto para atributos personalizados ausentes.
func WithPlaceholder(p string) Option {
	return func(a *Aggregator) {
		if p != "" {
			a.placeholder = p
		}
	}
}

// WithAdjustmentPolicy define el tratamiento de movimientos sin procedencia reconocida.
func WithAdjustmentPolicy(p AdjustmentPolicy) Option {
	return func(a *Aggregator) { a.policy = p }
}

// NewAggregator construye el agregador sobre el repositorio de consultas.
func NewAggregator(repo repository.ValuationQueryRepository, opts ...Option) *Aggregator {
	a := &Aggregator{repo: repo, placeholder: DefaultPlaceholder, policy: CatchAll}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Aggregate devuelve una línea por producto del alcance, en el mismo orden.
// Sin productos o sin ubicaciones devuelve una lista vacía sin consultar el repositorio.
// Cualquier error de consulta aborta la ejecución completa: nunca hay resultados parciales.
func (a *Aggregator) Aggregate(ctx context.Context, scope Scope) ([]ReportLine, error) {
	products := scope.ProductIDs()
	locations := scope.LocationIDs()
	if len(products) == 0 || len(locations) == 0 {
		return []ReportLine{}, nil
	}

	lines := make([]ReportLine, 0, len(products))
	for _, productID := range products {
		line, err := a.aggregateProduct(ctx, scope, productID, locations)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// Build agrega y arma el Report con los metadatos del alcance y los totales.
func (a *Aggregator) Build(ctx context.Context, scope Scope) (*Report, error) {
	lines, err := a.Aggregate(ctx, scope)
	if err != nil {
		return nil, err
	}
	names := ""
	if whs := scope.WarehouseIDs(); len(whs) > 0 {
		names, err = a.repo.ResolveWarehouseNames(ctx, whs)
		if err != nil {
			return nil, fmt.Errorf("valuation: nombres de bodegas: %w", err)
		}
	}
	return &Report{
		DateFrom:       scope.DateFrom(),
		DateTo:         scope.DateTo(),
		WarehouseNames: names,
		Lines:          lines,
		Totals:         ComputeTotals(lines),
	}, nil
}

func (a *Aggregator) aggregateProduct(ctx context.Context, scope Scope, productID string, locations []string) (ReportLine, error) {
	// 1. Apertura: balance antes de cualquier movimiento de date_from
	opening, err := a.repo.GetSnapshot(ctx, productID, locations, scope.DateFrom(), repository.StartOfDay)
	if err != nil {
		return ReportLine{}, fmt.Errorf("valuation: snapshot de apertura del producto %s: %w", productID, err)
	}

	// 2. Movimientos del período
	moves, err := a.repo.FindDoneMoveLines(ctx, productID, locations, scope.DateFrom(), scope.DateTo())
	if err != nil {
		return ReportLine{}, fmt.Errorf("valuation: movimientos del producto %s: %w", productID, err)
	}

	var receipt, manufactured, delivered, adjustment, scrap tally
	// varias líneas pueden compartir el mismo movimiento; las capas se consultan una vez
	layerValues := make(map[string]decimal.Decimal)
	for _, mv := range moves {
		c := Classify(mv, scope, a.policy)
		if c.Kind == KindNone {
			continue
		}
		value, ok := layerValues[mv.MoveID]
		if !ok {
			value, err = a.repo.SumValuationLayers(ctx, mv.MoveID)
			if err != nil {
				return ReportLine{}, fmt.Errorf("valuation: capas del movimiento %s: %w", mv.MoveID, err)
			}
			value = value.Abs()
			layerValues[mv.MoveID] = value
		}
		qty := mv.QuantityDone
		value = lineShare(value, qty, mv.MoveQuantityDone)
		if c.Sign < 0 {
			qty, value = qty.Neg(), value.Neg()
		}
		switch c.Kind {
		case KindReceipt:
			receipt.add(qty, value)
		case KindManufactured:
			manufactured.add(qty, value)
		case KindDelivered:
			delivered.add(qty, value)
		case KindAdjustment:
			adjustment.add(qty, value)
		case KindScrap:
			scrap.add(qty, value)
		}
	}

	// 3. Cierre: balance incluyendo todo date_to
	closing, err := a.repo.GetSnapshot(ctx, productID, locations, scope.DateTo(), repository.EndOfDay)
	if err != nil {
		return ReportLine{}, fmt.Errorf("valuation: snapshot de cierre del producto %s: %w", productID, err)
	}

	// 4. Identidad
	ident, err := a.repo.ResolveProductIdentity(ctx, productID)
	if err != nil {
		return ReportLine{}, fmt.Errorf("valuation: identidad del producto %s: %w", productID, err)
	}
	if ident == nil {
		return ReportLine{}, fmt.Errorf("valuation: producto %s: %w", productID, domain.ErrNotFound)
	}

	return ReportLine{
		ProductID:     productID,
		Principal:     a.attr(ident.Principal),
		DeviceType:    a.attr(ident.DeviceType),
		Model:         a.attr(ident.Model),
		Barcode:       ident.Barcode,
		ProductName:   ident.Name,
		ProductModel:  ident.Name,
		Category:      ident.CategoryDisplayName,
		StandardPrice: ident.StandardPrice,
		CostingMethod: costingMethod(ident.CostingMethod),

		Opening:      NewBucket(opening.Quantity, opening.Value),
		Receipt:      receipt.bucket(),
		Manufactured: manufactured.bucket(),
		Delivered:    delivered.bucket(),
		Adjustment:   adjustment.bucket(),
		Scrap:        scrap.bucket(),
		Closing:      NewBucket(closing.Quantity, closing.Value),
	}, nil
}

// lineShare parte el valor del movimiento entre sus líneas según la cantidad de cada una.
// Sin cantidad total conocida la línea se toma como el movimiento completo.
func lineShare(moveValue, lineQty, moveQty decimal.Decimal) decimal.Decimal {
	if moveQty.Sign() <= 0 || lineQty.Equal(moveQty) {
		return moveValue
	}
	return moveValue.Mul(lineQty).Div(moveQty)
}

func (a *Aggregator) attr(v *string) string {
	if v == nil || *v == "" {
		return a.placeholder
	}
	return *v
}

func costingMethod(m string) string {
	if m == "" {
		return entity.CostMethodStandard
	}
	return m
}
