package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/mulphico/inventory-valuation/internal/domain/entity"
	"github.com/mulphico/inventory-valuation/internal/domain/repository"
)

var _ repository.ValuationQueryRepository = (*ValuationQueryRepo)(nil)

// ValuationQueryRepo consultas de solo lectura sobre movimientos y capas de valoración.
// Todas las fechas se comparan en UTC sobre límites de día: [desde 00:00, hasta+1 00:00).
type ValuationQueryRepo struct {
	q Querier
}

// NewValuationQueryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewValuationQueryRepository(q Querier) *ValuationQueryRepo {
	return &ValuationQueryRepo{q: q}
}

// GetSnapshot suma con signo las líneas realizadas que cruzan el borde del conjunto de ubicaciones
// antes del instante de corte: entradas suman, salidas restan, las internas se anulan y no se toman.
// Cada línea aporta |Σ capas| de su movimiento en proporción a su cantidad dentro del movimiento.
func (r *ValuationQueryRepo) GetSnapshot(
	ctx context.Context,
	productID string,
	locationIDs []string,
	asOf time.Time,
	edge repository.SnapshotEdge,
) (repository.Snapshot, error) {
	const query = `
	WITH crossing AS (
	    SELECT ml.move_id,
	           ml.qty_done,
	           CASE WHEN ml.location_dest_id = ANY($2::uuid[]) THEN 1 ELSE -1 END AS sign
	    FROM stock_move_lines ml
	    WHERE ml.product_id = $1
	      AND ml.state      = 'done'
	      AND ml.date       < $3
	      AND (ml.location_dest_id = ANY($2::uuid[])) <> (ml.location_id = ANY($2::uuid[]))
	),
	layers AS (
	    SELECT svl.stock_move_id, ABS(SUM(svl.value)) AS value
	    FROM stock_valuation_layers svl
	    WHERE svl.stock_move_id IN (SELECT move_id FROM crossing)
	    GROUP BY svl.stock_move_id
	),
	move_qty AS (
	    SELECT x.move_id, SUM(x.qty_done) AS qty
	    FROM stock_move_lines x
	    WHERE x.move_id IN (SELECT move_id FROM crossing)
	      AND x.state = 'done'
	    GROUP BY x.move_id
	)
	SELECT
	    COALESCE(SUM(c.sign * c.qty_done), 0) AS quantity,
	    COALESCE(SUM(c.sign * CASE
	        WHEN COALESCE(m.qty, 0) <= 0 THEN COALESCE(l.value, 0)
	        ELSE COALESCE(l.value, 0) * c.qty_done / m.qty
	    END), 0) AS value
	FROM crossing c
	LEFT JOIN layers   l ON l.stock_move_id = c.move_id
	LEFT JOIN move_qty m ON m.move_id       = c.move_id`

	var snap repository.Snapshot
	err := r.q.QueryRow(ctx, query, productID, locationIDs, cutoff(asOf, edge)).
		Scan(&snap.Quantity, &snap.Value)
	if err != nil {
		return repository.Snapshot{}, wrapErr("valuation.GetSnapshot", err)
	}
	return snap, nil
}

// FindDoneMoveLines devuelve las líneas realizadas del período que tocan alguna ubicación del alcance,
// con la procedencia del movimiento ya resuelta.
func (r *ValuationQueryRepo) FindDoneMoveLines(
	ctx context.Context,
	productID string,
	locationIDs []string,
	dateFrom, dateTo time.Time,
) ([]entity.MoveLine, error) {
	const query = `
	SELECT ml.id, ml.move_id, ml.product_id, ml.location_id, ml.location_dest_id, ml.qty_done,
	       (SELECT COALESCE(SUM(x.qty_done), 0)
	          FROM stock_move_lines x
	         WHERE x.move_id = ml.move_id AND x.state = 'done')    AS move_qty,
	       ml.date,
	       COALESCE(sm.picking_type_code = 'incoming', false) AS incoming,
	       COALESCE(sm.picking_type_code = 'outgoing', false) AS outgoing,
	       sm.production_id IS NOT NULL                       AS manufacturing,
	       sm.scrap_id      IS NOT NULL                       AS scrap,
	       sm.is_inventory                                    AS inventory
	FROM stock_move_lines ml
	JOIN stock_moves      sm ON sm.id = ml.move_id
	WHERE ml.product_id = $1
	  AND ml.state      = 'done'
	  AND ml.date      >= $3
	  AND ml.date       < $4
	  AND (ml.location_id = ANY($2::uuid[]) OR ml.location_dest_id = ANY($2::uuid[]))
	ORDER BY ml.date, ml.id`

	rows, err := r.q.Query(ctx, query, productID, locationIDs,
		cutoff(dateFrom, repository.StartOfDay), cutoff(dateTo, repository.EndOfDay))
	if err != nil {
		return nil, wrapErr("valuation.FindDoneMoveLines", err)
	}
	defer rows.Close()

	var lines []entity.MoveLine
	for rows.Next() {
		var l entity.MoveLine
		if err := rows.Scan(
			&l.ID, &l.MoveID, &l.ProductID, &l.LocationID, &l.LocationDestID, &l.QuantityDone, &l.MoveQuantityDone, &l.Date,
			&l.Provenance.IncomingPicking,
			&l.Provenance.OutgoingPicking,
			&l.Provenance.ManufacturingOrder,
			&l.Provenance.ScrapOrder,
			&l.Provenance.InventoryAdjustment,
		); err != nil {
			return nil, wrapErr("valuation.FindDoneMoveLines scan", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("valuation.FindDoneMoveLines", err)
	}
	return lines, nil
}

// SumValuationLayers devuelve |Σ value| de las capas del movimiento; cero si no tiene capas.
func (r *ValuationQueryRepo) SumValuationLayers(ctx context.Context, moveID string) (decimal.Decimal, error) {
	const query = `
	SELECT COALESCE(ABS(SUM(value)), 0)
	FROM stock_valuation_layers
	WHERE stock_move_id = $1`

	var total decimal.Decimal
	if err := r.q.QueryRow(ctx, query, moveID).Scan(&total); err != nil {
		return decimal.Zero, wrapErr("valuation.SumValuationLayers", err)
	}
	return total, nil
}

// ResolveProductIdentity devuelve la identidad del producto; nil si no existe.
// Los atributos personalizados se leen de products.attributes (jsonb) y pueden no estar.
func (r *ValuationQueryRepo) ResolveProductIdentity(ctx context.Context, productID string) (*repository.ProductIdentity, error) {
	const query = `
	SELECT p.id, p.name, COALESCE(p.barcode, ''),
	       COALESCE(c.complete_name, c.name, ''),
	       COALESCE(c.cost_method, ''),
	       p.standard_price,
	       p.attributes->>'principal',
	       p.attributes->>'device_type',
	       p.attributes->>'model'
	FROM products p
	LEFT JOIN product_categories c ON c.id = p.category_id
	WHERE p.id = $1`

	var ident repository.ProductIdentity
	err := r.q.QueryRow(ctx, query, productID).Scan(
		&ident.ProductID, &ident.Name, &ident.Barcode,
		&ident.CategoryDisplayName, &ident.CostingMethod, &ident.StandardPrice,
		&ident.Principal, &ident.DeviceType, &ident.Model,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("valuation.ResolveProductIdentity", err)
	}
	return &ident, nil
}

// ResolveWarehouseNames une los nombres en el orden en que se pidieron las bodegas.
func (r *ValuationQueryRepo) ResolveWarehouseNames(ctx context.Context, warehouseIDs []string) (string, error) {
	const query = `
	SELECT COALESCE(string_agg(name, ', ' ORDER BY array_position($1::uuid[], id)), '')
	FROM warehouses
	WHERE id = ANY($1::uuid[])`

	var names string
	if err := r.q.QueryRow(ctx, query, warehouseIDs).Scan(&names); err != nil {
		return "", wrapErr("valuation.ResolveWarehouseNames", err)
	}
	return names, nil
}

// cutoff instante exclusivo hasta el que se cuentan movimientos para un día calendario.
func cutoff(day time.Time, edge repository.SnapshotEdge) time.Time {
	y, m, d := day.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	if edge == repository.EndOfDay {
		return start.AddDate(0, 0, 1)
	}
	return start
}
