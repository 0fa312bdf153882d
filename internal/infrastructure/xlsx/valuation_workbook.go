package xlsx

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/mulphico/inventory-valuation/internal/domain/valuation"
)

// Filename nombre con el que se descarga la exportación.
const Filename = "Inventory_Valuation_Report.xlsx"

// SheetName única hoja del libro.
const SheetName = "Inventory Valuation"

// ContentType MIME del libro generado.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	headerRows   = 2
	firstDataRow = headerRows + 1 // 1-based
	numFmtTwoDec = 2              // formato integrado "0.00"
)

// Columnas de metadatos; cada una ocupa las dos filas de encabezado.
var metadataHeaders = []string{
	"Principal", "Type", "Model", "Barcode", "Product", "Product Model", "Category", "Rate", "Costing Method",
}

// Grupos de tres columnas, en el orden de los buckets.
var groupHeaders = []string{
	"Opening", "Receipts", "Manufactured", "Delivered", "Adjustment", "Scrap", "Closing",
}

var subHeaders = [3]string{"QTY", "Rate", "Value"}

// ValuationWorkbookWriter serializa un reporte a .xlsx con encabezados de dos filas.
type ValuationWorkbookWriter struct{}

// NewValuationWorkbookWriter construye el writer.
func NewValuationWorkbookWriter() *ValuationWorkbookWriter {
	return &ValuationWorkbookWriter{}
}

func (w *ValuationWorkbookWriter) Filename() string    { return Filename }
func (w *ValuationWorkbookWriter) ContentType() string { return ContentType }

// Write arma el libro: encabezados, una fila por línea en el orden del reporte y una fila de totales.
func (w *ValuationWorkbookWriter) Write(report *valuation.Report) ([]byte, error) {
	if report == nil {
		return nil, fmt.Errorf("xlsx: reporte nil")
	}
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	f.SetSheetName("Sheet1", SheetName)
	styles, err := newStyles(f)
	if err != nil {
		return nil, err
	}
	if err := writeHeaders(f, styles); err != nil {
		return nil, err
	}

	row := firstDataRow
	for _, line := range report.Lines {
		if err := writeLine(f, styles, row, line); err != nil {
			return nil, err
		}
		row++
	}
	if err := writeTotals(f, styles, row, report.Totals); err != nil {
		return nil, err
	}

	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      headerRows,
		TopLeftCell: cell(1, firstDataRow),
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("xlsx: inmovilizar encabezados: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: serializar: %w", err)
	}
	return buf.Bytes(), nil
}

type styleSet struct {
	header int
	number int
	total  int
}

func newStyles(f *excelize.File) (styleSet, error) {
	border := []excelize.Border{
		{Type: "left", Color: "999999", Style: 1},
		{Type: "right", Color: "999999", Style: 1},
		{Type: "top", Color: "999999", Style: 1},
		{Type: "bottom", Color: "999999", Style: 1},
	}
	header, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDEBF7"}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    border,
	})
	if err != nil {
		return styleSet{}, fmt.Errorf("xlsx: estilo encabezado: %w", err)
	}
	number, err := f.NewStyle(&excelize.Style{NumFmt: numFmtTwoDec})
	if err != nil {
		return styleSet{}, fmt.Errorf("xlsx: estilo numérico: %w", err)
	}
	total, err := f.NewStyle(&excelize.Style{NumFmt: numFmtTwoDec, Font: &excelize.Font{Bold: true}})
	if err != nil {
		return styleSet{}, fmt.Errorf("xlsx: estilo totales: %w", err)
	}
	return styleSet{header: header, number: number, total: total}, nil
}

func writeHeaders(f *excelize.File, s styleSet) error {
	for i, title := range metadataHeaders {
		col := i + 1
		if err := f.SetCellValue(SheetName, cell(col, 1), title); err != nil {
			return fmt.Errorf("xlsx: encabezado %s: %w", title, err)
		}
		if err := f.MergeCell(SheetName, cell(col, 1), cell(col, 2)); err != nil {
			return fmt.Errorf("xlsx: combinar %s: %w", title, err)
		}
	}
	for g, title := range groupHeaders {
		first := groupColumn(g)
		if err := f.SetCellValue(SheetName, cell(first, 1), title); err != nil {
			return fmt.Errorf("xlsx: encabezado %s: %w", title, err)
		}
		if err := f.MergeCell(SheetName, cell(first, 1), cell(first+2, 1)); err != nil {
			return fmt.Errorf("xlsx: combinar %s: %w", title, err)
		}
		for k, sub := range subHeaders {
			if err := f.SetCellValue(SheetName, cell(first+k, 2), sub); err != nil {
				return fmt.Errorf("xlsx: subencabezado %s/%s: %w", title, sub, err)
			}
		}
	}
	last := groupColumn(len(groupHeaders)-1) + 2
	if err := f.SetCellStyle(SheetName, cell(1, 1), cell(last, 2), s.header); err != nil {
		return fmt.Errorf("xlsx: estilo encabezados: %w", err)
	}
	lastName, _ := excelize.ColumnNumberToName(last)
	return f.SetColWidth(SheetName, "A", lastName, 14)
}

func writeLine(f *excelize.File, s styleSet, row int, line valuation.ReportLine) error {
	meta := []interface{}{
		line.Principal, line.DeviceType, line.Model, line.Barcode, line.ProductName,
		line.ProductModel, line.Category, line.StandardPrice.InexactFloat64(), line.CostingMethod,
	}
	for i, v := range meta {
		if err := f.SetCellValue(SheetName, cell(i+1, row), v); err != nil {
			return fmt.Errorf("xlsx: fila %d: %w", row, err)
		}
	}
	// Rate de metadatos también es numérica
	rateCol := 8
	if err := f.SetCellStyle(SheetName, cell(rateCol, row), cell(rateCol, row), s.number); err != nil {
		return fmt.Errorf("xlsx: fila %d: %w", row, err)
	}
	return writeBuckets(f, s.number, row, lineBuckets(line))
}

func writeTotals(f *excelize.File, s styleSet, row int, t valuation.Totals) error {
	if err := f.SetCellValue(SheetName, cell(1, row), "Total"); err != nil {
		return fmt.Errorf("xlsx: totales: %w", err)
	}
	buckets := []valuation.Bucket{t.Opening, t.Receipt, t.Manufactured, t.Delivered, t.Adjustment, t.Scrap, t.Closing}
	return writeBuckets(f, s.total, row, buckets)
}

func writeBuckets(f *excelize.File, style, row int, buckets []valuation.Bucket) error {
	for g, b := range buckets {
		first := groupColumn(g)
		for k, v := range []decimal.Decimal{b.Quantity, b.Rate, b.Value} {
			if err := f.SetCellValue(SheetName, cell(first+k, row), v.InexactFloat64()); err != nil {
				return fmt.Errorf("xlsx: fila %d: %w", row, err)
			}
		}
	}
	last := groupColumn(len(buckets)-1) + 2
	if err := f.SetCellStyle(SheetName, cell(groupColumn(0), row), cell(last, row), style); err != nil {
		return fmt.Errorf("xlsx: fila %d: %w", row, err)
	}
	return nil
}

func lineBuckets(l valuation.ReportLine) []valuation.Bucket {
	return []valuation.Bucket{l.Opening, l.Receipt, l.Manufactured, l.Delivered, l.Adjustment, l.Scrap, l.Closing}
}

// groupColumn primera columna (1-based) del grupo g.
func groupColumn(g int) int {
	return len(metadataHeaders) + 1 + g*len(subHeaders)
}

func cell(col, row int) string {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		// col y row siempre son positivos aquí
		panic(err)
	}
	return name
}
