package valuation_test

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/mulphico/inventory-valuation/internal/domain/entity"
	"github.com/mulphico/inventory-valuation/internal/domain/repository"
	"github.com/shopspring/decimal"
)

type snapKey struct {
	productID string
	date      string
	edge      repository.SnapshotEdge
}

// fakeRepo simula el almacén externo. Igual que la BD, FindDoneMoveLines solo devuelve líneas
// que tocan alguna ubicación del alcance.
type fakeRepo struct {
	snapshots  map[snapKey]repository.Snapshot
	moves      map[string][]entity.MoveLine
	layers     map[string][]decimal.Decimal
	identities map[string]*repository.ProductIdentity
	warehouses map[string]string

	snapshotErr     error
	movesErrFor     map[string]error
	missingIdentity map[string]bool

	snapshotCalls int
	moveCalls     int
	layerCalls    map[string]int
	identityCalls int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		snapshots:  map[snapKey]repository.Snapshot{},
		moves:      map[string][]entity.MoveLine{},
		layers:     map[string][]decimal.Decimal{},
		identities: map[string]*repository.ProductIdentity{},
		warehouses: map[string]string{},
		layerCalls: map[string]int{},

		movesErrFor:     map[string]error{},
		missingIdentity: map[string]bool{},
	}
}

func (f *fakeRepo) setSnapshot(productID, date string, edge repository.SnapshotEdge, qty, value string) {
	f.snapshots[snapKey{productID, date, edge}] = repository.Snapshot{
		Quantity: decimal.RequireFromString(qty),
		Value:    decimal.RequireFromString(value),
	}
}

func (f *fakeRepo) GetSnapshot(_ context.Context, productID string, _ []string, asOf time.Time, edge repository.SnapshotEdge) (repository.Snapshot, error) {
	f.snapshotCalls++
	if f.snapshotErr != nil {
		return repository.Snapshot{}, f.snapshotErr
	}
	return f.snapshots[snapKey{productID, asOf.Format("2006-01-02"), edge}], nil
}

func (f *fakeRepo) FindDoneMoveLines(_ context.Context, productID string, locationIDs []string, dateFrom, dateTo time.Time) ([]entity.MoveLine, error) {
	f.moveCalls++
	if err, ok := f.movesErrFor[productID]; ok {
		return nil, err
	}
	in := map[string]bool{}
	for _, id := range locationIDs {
		in[id] = true
	}
	end := dateTo.AddDate(0, 0, 1)
	var out []entity.MoveLine
	for _, mv := range f.moves[productID] {
		if mv.Date.Before(dateFrom) || !mv.Date.Before(end) {
			continue
		}
		if !in[mv.LocationID] && !in[mv.LocationDestID] {
			continue
		}
		mv.MoveQuantityDone = f.moveQuantity(productID, mv.MoveID)
		out = append(out, mv)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (f *fakeRepo) SumValuationLayers(_ context.Context, moveID string) (decimal.Decimal, error) {
	f.layerCalls[moveID]++
	return decimal.Sum(decimal.Zero, f.layers[moveID]...).Abs(), nil
}

func (f *fakeRepo) ResolveProductIdentity(_ context.Context, productID string) (*repository.ProductIdentity, error) {
	f.identityCalls++
	if f.missingIdentity[productID] {
		return nil, nil
	}
	if ident, ok := f.identities[productID]; ok {
		return ident, nil
	}
	return &repository.ProductIdentity{ProductID: productID, Name: "Producto " + productID}, nil
}

func (f *fakeRepo) ResolveWarehouseNames(_ context.Context, warehouseIDs []string) (string, error) {
	names := make([]string, 0, len(warehouseIDs))
	for _, id := range warehouseIDs {
		names = append(names, f.warehouses[id])
	}
	return strings.Join(names, ", "), nil
}

// moveQuantity suma todas las líneas del movimiento, estén o no en el alcance.
func (f *fakeRepo) moveQuantity(productID, moveID string) decimal.Decimal {
	total := decimal.Zero
	for _, mv := range f.moves[productID] {
		if mv.MoveID == moveID {
			total = total.Add(mv.QuantityDone)
		}
	}
	return total
}

func (f *fakeRepo) totalLayerCalls() int {
	n := 0
	for _, c := range f.layerCalls {
		n += c
	}
	return n
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func at(s string, hour int) time.Time {
	return day(s).Add(time.Duration(hour) * time.Hour)
}

func layerValues(values ...string) []decimal.Decimal {
	out := make([]decimal.Decimal, 0, len(values))
	for _, v := range values {
		out = append(out, decimal.RequireFromString(v))
	}
	return out
}
