// Package valuation contiene el núcleo del reporte de valorización de inventario:
// alcance del reporte, clasificación de movimientos por bucket y armado de líneas.
package valuation

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mulphico/inventory-valuation/internal/domain"
)

const dateLayout = "2006-01-02"

// Scope alcance inmutable de una ejecución del reporte: rango de fechas, ubicaciones y productos.
// Las fechas se normalizan a días calendario (00:00 UTC). Los IDs se deduplican conservando el orden.
type Scope struct {
	dateFrom     time.Time
	dateTo       time.Time
	warehouseIDs []string
	locationIDs  []string
	productIDs   []string
	locationSet  map[string]struct{}
}

// NewScope construye el alcance. No valida; usar Validate antes de agregar.
func NewScope(dateFrom, dateTo time.Time, warehouseIDs, locationIDs, productIDs []string) Scope {
	locs := dedup(locationIDs)
	set := make(map[string]struct{}, len(locs))
	for _, id := range locs {
		set[id] = struct{}{}
	}
	return Scope{
		dateFrom:     truncateDay(dateFrom),
		dateTo:       truncateDay(dateTo),
		warehouseIDs: dedup(warehouseIDs),
		locationIDs:  locs,
		productIDs:   dedup(productIDs),
		locationSet:  set,
	}
}

// Validate rechaza alcances vacíos o contradictorios antes de iniciar la agregación.
func (s Scope) Validate() error {
	switch {
	case s.dateFrom.IsZero() || s.dateTo.IsZero():
		return fmt.Errorf("%w: date_from y date_to son obligatorias", domain.ErrInvalidScope)
	case s.dateFrom.After(s.dateTo):
		return fmt.Errorf("%w: date_from (%s) posterior a date_to (%s)",
			domain.ErrInvalidScope, s.dateFrom.Format(dateLayout), s.dateTo.Format(dateLayout))
	case len(s.locationIDs) == 0:
		return fmt.Errorf("%w: no hay ubicaciones seleccionadas", domain.ErrInvalidScope)
	case len(s.productIDs) == 0:
		return fmt.Errorf("%w: no hay productos seleccionados", domain.ErrInvalidScope)
	}
	return nil
}

// DateFrom primer día del período, truncado a medianoche UTC.
func (s Scope) DateFrom() time.Time { return s.dateFrom }

// DateTo último día del período (inclusive), truncado a medianoche UTC.
func (s Scope) DateTo() time.Time { return s.dateTo }

// WarehouseIDs, LocationIDs y ProductIDs devuelven copias; el alcance no se puede mutar.
func (s Scope) WarehouseIDs() []string { return append([]string(nil), s.warehouseIDs...) }
func (s Scope) LocationIDs() []string  { return append([]string(nil), s.locationIDs...) }
func (s Scope) ProductIDs() []string   { return append([]string(nil), s.productIDs...) }

// HasLocation indica si la ubicación pertenece al alcance.
func (s Scope) HasLocation(id string) bool {
	_, ok := s.locationSet[id]
	return ok
}

// Fingerprint identificador estable del alcance, independiente del orden de ubicaciones y bodegas.
// El orden de productos sí cuenta porque define el orden de las líneas.
func (s Scope) Fingerprint() string {
	locs := s.LocationIDs()
	sort.Strings(locs)
	whs := s.WarehouseIDs()
	sort.Strings(whs)
	raw := strings.Join([]string{
		s.dateFrom.Format(dateLayout),
		s.dateTo.Format(dateLayout),
		strings.Join(whs, ","),
		strings.Join(locs, ","),
		strings.Join(s.productIDs, ","),
	}, "|")
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func truncateDay(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dedup(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
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
	return out
}
