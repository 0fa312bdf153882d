package report_test

import (
	"bytes"
	"context"
	"io"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mulphico/inventory-valuation/internal/domain"
	"github.com/mulphico/inventory-valuation/internal/domain/entity"
	"github.com/mulphico/inventory-valuation/internal/domain/repository"
	"github.com/mulphico/inventory-valuation/internal/domain/valuation"
)

const (
	whMain    = "0b6a1f3e-7d1c-4c55-9a11-000000000001"
	whOther   = "0b6a1f3e-7d1c-4c55-9a11-000000000002"
	locStock  = "1c7b2f4e-8e2d-4d66-8b22-000000000001"
	locOther  = "1c7b2f4e-8e2d-4d66-8b22-000000000002"
	locVendor = "1c7b2f4e-8e2d-4d66-8b22-000000000003"
	catOffice = "2d8c3a5f-9f3e-4e77-9c33-000000000001"
	catParts  = "2d8c3a5f-9f3e-4e77-9c33-000000000002"
	prodDesk  = "3e9d4b6a-a04f-4f88-8d44-000000000001"
	prodBolt  = "3e9d4b6a-a04f-4f88-8d44-000000000002"
)

// fakeQueries devuelve snapshots fijos por producto; sin movimientos.
type fakeQueries struct {
	mu        sync.Mutex
	opening   map[string]repository.Snapshot
	closing   map[string]repository.Snapshot
	err       error
	snapCalls int
}

func newFakeQueries() *fakeQueries {
	return &fakeQueries{
		opening: map[string]repository.Snapshot{},
		closing: map[string]repository.Snapshot{},
	}
}

func (f *fakeQueries) set(productID string, openQty, openVal, closeQty, closeVal int64) {
	f.opening[productID] = repository.Snapshot{Quantity: decimal.NewFromInt(openQty), Value: decimal.NewFromInt(openVal)}
	f.closing[productID] = repository.Snapshot{Quantity: decimal.NewFromInt(closeQty), Value: decimal.NewFromInt(closeVal)}
}

func (f *fakeQueries) GetSnapshot(_ context.Context, productID string, _ []string, _ time.Time, edge repository.SnapshotEdge) (repository.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snapCalls++
	if f.err != nil {
		return repository.Snapshot{}, f.err
	}
	if edge == repository.StartOfDay {
		return f.opening[productID], nil
	}
	return f.closing[productID], nil
}

func (f *fakeQueries) FindDoneMoveLines(context.Context, string, []string, time.Time, time.Time) ([]entity.MoveLine, error) {
	return nil, nil
}

func (f *fakeQueries) SumValuationLayers(context.Context, string) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (f *fakeQueries) ResolveProductIdentity(_ context.Context, productID string) (*repository.ProductIdentity, error) {
	return &repository.ProductIdentity{ProductID: productID, Name: "P-" + productID[len(productID)-1:], CostingMethod: "fifo"}, nil
}

func (f *fakeQueries) ResolveWarehouseNames(context.Context, []string) (string, error) {
	return "Main", nil
}

func (f *fakeQueries) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapCalls
}

// fakeCatalog catálogo en memoria.
type fakeCatalog struct {
	locations []entity.Location
	products  []entity.Product
	calls     int
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		locations: []entity.Location{
			{ID: locStock, WarehouseID: whMain, Name: "Stock", FullName: "WH/Stock", Usage: entity.LocationUsageInternal},
			{ID: locOther, WarehouseID: whOther, Name: "Stock", FullName: "WH2/Stock", Usage: entity.LocationUsageInternal},
			{ID: locVendor, Name: "Vendors", FullName: "Partners/Vendors", Usage: entity.LocationUsageSupplier},
		},
		products: []entity.Product{
			{ID: prodDesk, Name: "Desk", CategoryID: catOffice},
			{ID: prodBolt, Name: "Bolt", CategoryID: catParts},
		},
	}
}

func (f *fakeCatalog) ListWarehouses(context.Context) ([]entity.Warehouse, error) { return nil, nil }
func (f *fakeCatalog) ListCategories(context.Context) ([]entity.Category, error)  { return nil, nil }

func (f *fakeCatalog) ListInternalLocations(context.Context, []string) ([]entity.Location, error) {
	return nil, nil
}

func (f *fakeCatalog) ListProductsByCategories(context.Context, []string) ([]entity.Product, error) {
	return nil, nil
}

func (f *fakeCatalog) GetLocationsByIDs(_ context.Context, ids []string) ([]entity.Location, error) {
	f.calls++
	var out []entity.Location
	for _, l := range f.locations {
		for _, id := range ids {
			if l.ID == id {
				out = append(out, l)
			}
		}
	}
	return out, nil
}

func (f *fakeCatalog) GetProductsByIDs(_ context.Context, ids []string) ([]entity.Product, error) {
	f.calls++
	var out []entity.Product
	for _, p := range f.products {
		for _, id := range ids {
			if p.ID == id {
				out = append(out, p)
			}
		}
	}
	return out, nil
}

// fakeCache caché en memoria por huella + política.
type fakeCache struct {
	entries     map[string]*valuation.Report
	invalidated int
}

func newFakeCache() *fakeCache { return &fakeCache{entries: map[string]*valuation.Report{}} }

func (c *fakeCache) Fetch(ctx context.Context, fp, policy string, load func(context.Context) (*valuation.Report, error)) (*valuation.Report, bool, error) {
	key := policy + ":" + fp
	if rep, ok := c.entries[key]; ok {
		return rep, true, nil
	}
	rep, err := load(ctx)
	if err != nil {
		return nil, false, err
	}
	c.entries[key] = rep
	return rep, false, nil
}

func (c *fakeCache) Invalidate(context.Context) error {
	c.invalidated++
	c.entries = map[string]*valuation.Report{}
	return nil
}

// fakeRenderer registra el último reporte recibido.
type fakeRenderer struct {
	last *valuation.Report
}

func (r *fakeRenderer) Render(_ context.Context, rep *valuation.Report) ([]byte, error) {
	r.last = rep
	return []byte("%PDF-fake"), nil
}
func (r *fakeRenderer) Filename() string    { return "Inventory_Valuation_Report.pdf" }
func (r *fakeRenderer) ContentType() string { return "application/pdf" }

type fakeWorkbook struct{}

func (fakeWorkbook) Write(rep *valuation.Report) ([]byte, error) {
	return []byte("xlsx:" + rep.WarehouseNames), nil
}
func (fakeWorkbook) Filename() string    { return "Inventory_Valuation_Report.xlsx" }
func (fakeWorkbook) ContentType() string { return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" }

// memStore ArtifactStore en memoria; url != "" simula un store con URLs firmadas.
type memStore struct {
	artifacts map[string]entity.Artifact
	data      map[string][]byte
	url       string
}

func newMemStore() *memStore {
	return &memStore{artifacts: map[string]entity.Artifact{}, data: map[string][]byte{}}
}

func (s *memStore) Put(_ context.Context, a entity.Artifact, data []byte) error {
	s.artifacts[a.ID] = a
	s.data[a.ID] = data
	return nil
}

func (s *memStore) Stat(_ context.Context, id string) (*entity.Artifact, error) {
	a, ok := s.artifacts[id]
	if !ok {
		return nil, domain.ErrArtifactNotFound
	}
	return &a, nil
}

func (s *memStore) Open(_ context.Context, id string) (io.ReadCloser, error) {
	d, ok := s.data[id]
	if !ok {
		return nil, domain.ErrArtifactNotFound
	}
	return io.NopCloser(bytes.NewReader(d)), nil
}

func (s *memStore) DownloadURL(_ context.Context, id string) (string, error) {
	if s.url == "" {
		return "", nil
	}
	return s.url + id, nil
}
