package pdf

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/mulphico/inventory-valuation/internal/domain/valuation"
)

func sampleReport(n int) *valuation.Report {
	lines := make([]valuation.ReportLine, 0, n)
	for i := 0; i < n; i++ {
		lines = append(lines, valuation.ReportLine{
			ProductID:     fmt.Sprintf("prod-%d", i),
			ProductName:   fmt.Sprintf("Producto %d", i),
			Barcode:       fmt.Sprintf("770%04d", i),
			Category:      "All / Equipos",
			CostingMethod: "standard",
			Opening:       valuation.NewBucket(decimal.NewFromInt(10), decimal.NewFromInt(100)),
			Closing:       valuation.NewBucket(decimal.NewFromInt(10), decimal.NewFromInt(100)),
		})
	}
	return &valuation.Report{
		DateFrom:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		DateTo:         time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		WarehouseNames: "Bodega Central, Bodega Norte",
		Lines:          lines,
		Totals:         valuation.ComputeTotals(lines),
	}
}

func TestRender_GeneraPDF(t *testing.T) {
	r := NewMarotoValuationRenderer(language.English)

	doc, err := r.Render(context.Background(), sampleReport(3))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")), "el documento debe ser un PDF")
}

func TestRender_VariasPaginas(t *testing.T) {
	r := NewMarotoValuationRenderer(language.English)

	short, err := r.Render(context.Background(), sampleReport(1))
	require.NoError(t, err)
	long, err := r.Render(context.Background(), sampleReport(80))
	require.NoError(t, err)

	assert.Greater(t, len(long), len(short))
}

func TestRender_ReporteVacioYNil(t *testing.T) {
	r := NewMarotoValuationRenderer(language.English)

	doc, err := r.Render(context.Background(), sampleReport(0))
	require.NoError(t, err)
	assert.NotEmpty(t, doc)

	_, err = r.Render(context.Background(), nil)
	assert.Error(t, err)
}

func TestNumber_DosDecimalesConMiles(t *testing.T) {
	r := NewMarotoValuationRenderer(language.English)

	assert.Equal(t, "1,234,567.50", r.number(decimal.RequireFromString("1234567.5")))
	assert.Equal(t, "0.00", r.number(decimal.Zero))
	assert.Equal(t, "-36.00", r.number(decimal.NewFromInt(-36)))
	assert.Equal(t, "3.33", r.number(decimal.RequireFromString("3.333333")))
}
