// Package pdf genera la versión imprimible del reporte de valorización de inventario.
//
// Layout de la página A4 horizontal:
//
//	┌──────────────────────────────────────────────────────────────────────┐
//	│  TÍTULO + período                    │  Bodegas                       │
//	│  ──────────────────────────────────────────────────────────────────  │
//	│  Product | Category | Method | Opening | Receipts | ... | Closing    │  ← se repite en cada página
//	│                              | QTY Rate Value | ...                  │
//	│  ──────────────────────────────────────────────────────────────────  │
//	│  una fila por producto                                               │
//	│  ──────────────────────────────────────────────────────────────────  │
//	│  Total                                                               │
//	└──────────────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/mulphico/inventory-valuation/internal/domain/valuation"
)

// Filename nombre con el que se descarga el PDF.
const Filename = "Inventory_Valuation_Report.pdf"

// ContentType MIME del documento.
const ContentType = "application/pdf"

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorZebra   = &props.Color{Red: 242, Green: 246, Blue: 250}
)

// ── Grilla ────────────────────────────────────────────────────────────────────

// 6 unidades de identidad + 7 grupos × 3 columnas.
const (
	gridSize     = 27
	productSpan  = 3
	categorySpan = 2
	methodSpan   = 1
	identitySpan = productSpan + categorySpan + methodSpan
	dateLayout   = "2006-01-02"
)

var groupTitles = []string{"Opening", "Receipts", "Manufactured", "Delivered", "Adjustment", "Scrap", "Closing"}

// ── Renderer ──────────────────────────────────────────────────────────────────

// MarotoValuationRenderer arma el PDF del reporte con Maroto v2.
type MarotoValuationRenderer struct {
	printer *message.Printer
}

// NewMarotoValuationRenderer construye el renderer. lang define separadores de miles y decimales.
func NewMarotoValuationRenderer(lang language.Tag) *MarotoValuationRenderer {
	return &MarotoValuationRenderer{printer: message.NewPrinter(lang)}
}

func (r *MarotoValuationRenderer) Filename() string    { return Filename }
func (r *MarotoValuationRenderer) ContentType() string { return ContentType }

// Render genera el documento y devuelve sus bytes.
func (r *MarotoValuationRenderer) Render(_ context.Context, report *valuation.Report) ([]byte, error) {
	if report == nil {
		return nil, fmt.Errorf("pdf: reporte nil")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(orientation.Horizontal).
		WithMaxGridSize(gridSize).
		WithLeftMargin(8).WithRightMargin(8).
		WithTopMargin(8).WithBottomMargin(8).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 7}).
		WithTitle("Inventory Valuation Report", true).
		Build()

	m := maroto.New(cfg)

	if err := m.RegisterHeader(r.titleRow(report), tableHeaderRow(), subHeaderRow()); err != nil {
		return nil, fmt.Errorf("pdf: encabezado: %w", err)
	}

	for i, l := range report.Lines {
		m.AddRows(r.lineRow(l, i%2 == 1))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.4}))
	m.AddRows(r.totalsRow(report.Totals))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// titleRow: título y período (izq), bodegas (der).
func (r *MarotoValuationRenderer) titleRow(report *valuation.Report) core.Row {
	period := fmt.Sprintf("%s to %s", report.DateFrom.Format(dateLayout), report.DateTo.Format(dateLayout))
	return row.New(14).Add(
		col.New(15).Add(
			text.New("INVENTORY VALUATION REPORT", props.Text{
				Style: fontstyle.Bold, Size: 12, Color: colorPrimary, Top: 1,
			}),
			text.New(period, props.Text{Size: 8, Top: 8, Color: colorGray}),
		),
		col.New(12).Add(
			text.New("Warehouses", props.Text{
				Style: fontstyle.Bold, Size: 7, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(report.WarehouseNames, "-"), props.Text{
				Size: 8, Align: align.Right, Top: 7,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 7, Align: align.Center, Color: colorWhite, Top: 1.5,
		}))
	}
	cols := []core.Col{h("Product", productSpan), h("Category", categorySpan), h("Method", methodSpan)}
	for _, title := range groupTitles {
		cols = append(cols, h(title, 3))
	}
	return row.New(6).Add(cols...).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func subHeaderRow() core.Row {
	cols := []core.Col{col.New(identitySpan)}
	for range groupTitles {
		for _, sub := range []string{"QTY", "Rate", "Value"} {
			cols = append(cols, col.New(1).Add(text.New(sub, props.Text{
				Style: fontstyle.Bold, Size: 6, Align: align.Right, Color: colorPrimary, Top: 1, Right: 0.5,
			})))
		}
	}
	return row.New(5).Add(cols...)
}

// lineRow: una fila por producto; nombre arriba y código de barras debajo.
func (r *MarotoValuationRenderer) lineRow(l valuation.ReportLine, zebra bool) core.Row {
	cols := []core.Col{
		col.New(productSpan).Add(
			text.New(l.ProductName, props.Text{Size: 7, Top: 0.5, Left: 0.5}),
			text.New(l.Barcode, props.Text{Size: 5.5, Top: 4, Left: 0.5, Color: colorGray}),
		),
		col.New(categorySpan).Add(text.New(l.Category, props.Text{Size: 6.5, Top: 1})),
		col.New(methodSpan).Add(text.New(l.CostingMethod, props.Text{Size: 6, Top: 1, Align: align.Center})),
	}
	cols = append(cols, r.bucketCols(false,
		l.Opening, l.Receipt, l.Manufactured, l.Delivered, l.Adjustment, l.Scrap, l.Closing)...)

	rw := row.New(8).Add(cols...)
	if zebra {
		rw = rw.WithStyle(&props.Cell{BackgroundColor: colorZebra})
	}
	return rw
}

func (r *MarotoValuationRenderer) totalsRow(t valuation.Totals) core.Row {
	cols := []core.Col{col.New(identitySpan).Add(text.New("Total", props.Text{
		Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
	}))}
	cols = append(cols, r.bucketCols(true,
		t.Opening, t.Receipt, t.Manufactured, t.Delivered, t.Adjustment, t.Scrap, t.Closing)...)
	return row.New(7).Add(cols...)
}

func (r *MarotoValuationRenderer) bucketCols(bold bool, buckets ...valuation.Bucket) []core.Col {
	style := fontstyle.Normal
	if bold {
		style = fontstyle.Bold
	}
	cols := make([]core.Col, 0, len(buckets)*3)
	for _, b := range buckets {
		for _, v := range []decimal.Decimal{b.Quantity, b.Rate, b.Value} {
			cols = append(cols, col.New(1).Add(text.New(r.number(v), props.Text{
				Size: 6, Style: style, Align: align.Right, Top: 1, Right: 0.5,
			})))
		}
	}
	return cols
}

// ── helpers ───────────────────────────────────────────────────────────────────

// number formatea con dos decimales y separador de miles según el idioma del renderer.
func (r *MarotoValuationRenderer) number(d decimal.Decimal) string {
	return r.printer.Sprintf("%.2f", d.Round(2).InexactFloat64())
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
