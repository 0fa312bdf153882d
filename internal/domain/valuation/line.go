package valuation

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReportLine una fila del reporte por producto: identidad + los siete buckets.
// Closing es un snapshot independiente, no se deriva de opening + movimientos.
type ReportLine struct {
	ProductID     string          `json:"product_id"`
	Principal     string          `json:"principal"`
	DeviceType    string          `json:"type"`
	Model         string          `json:"model"`
	Barcode       string          `json:"product_barcode"`
	ProductName   string          `json:"product_name"`
	ProductModel  string          `json:"product_model"`
	Category      string          `json:"product_category"`
	StandardPrice decimal.Decimal `json:"rate"`
	CostingMethod string          `json:"costing_method"`

	Opening      Bucket `json:"opening"`
	Receipt      Bucket `json:"receipt"`
	Manufactured Bucket `json:"manufactured"`
	Delivered    Bucket `json:"delivered"`
	Adjustment   Bucket `json:"adjustment"`
	Scrap        Bucket `json:"scrap"`
	Closing      Bucket `json:"closing"`
}

// NetMovementQty receipt + manufactured + adjustment − delivered − scrap.
func (l ReportLine) NetMovementQty() decimal.Decimal {
	return l.Receipt.Quantity.
		Add(l.Manufactured.Quantity).
		Add(l.Adjustment.Quantity).
		Sub(l.Delivered.Quantity).
		Sub(l.Scrap.Quantity)
}

// DiscrepancyQty closing − (opening + movimientos netos). Cero cuando los datos concilian.
func (l ReportLine) DiscrepancyQty() decimal.Decimal {
	return l.Closing.Quantity.Sub(l.Opening.Quantity.Add(l.NetMovementQty()))
}

// Reconciles indica si el cierre coincide con apertura + movimientos netos.
func (l ReportLine) Reconciles() bool {
	return l.DiscrepancyQty().IsZero()
}

// Report salida completa consumida por los presentadores.
type Report struct {
	DateFrom       time.Time    `json:"date_from"`
	DateTo         time.Time    `json:"date_to"`
	WarehouseNames string       `json:"warehouse_names"`
	Lines          []ReportLine `json:"lines"`
	Totals         Totals       `json:"totals"`
}

// Totals suma de cada bucket sobre todas las líneas; las tarifas se derivan de las sumas.
type Totals struct {
	Opening      Bucket `json:"opening"`
	Receipt      Bucket `json:"receipt"`
	Manufactured Bucket `json:"manufactured"`
	Delivered    Bucket `json:"delivered"`
	Adjustment   Bucket `json:"adjustment"`
	Scrap        Bucket `json:"scrap"`
	Closing      Bucket `json:"closing"`
}

// ComputeTotals acumula las líneas en un Totals.
func ComputeTotals(lines []ReportLine) Totals {
	var opening, receipt, manufactured, delivered, adjustment, scrap, closing tally
	for _, l := range lines {
		opening.add(l.Opening.Quantity, l.Opening.Value)
		receipt.add(l.Receipt.Quantity, l.Receipt.Value)
		manufactured.add(l.Manufactured.Quantity, l.Manufactured.Value)
		delivered.add(l.Delivered.Quantity, l.Delivered.Value)
		adjustment.add(l.Adjustment.Quantity, l.Adjustment.Value)
		scrap.add(l.Scrap.Quantity, l.Scrap.Value)
		closing.add(l.Closing.Quantity, l.Closing.Value)
	}
	return Totals{
		Opening:      opening.bucket(),
		Receipt:      receipt.bucket(),
		Manufactured: manufactured.bucket(),
		Delivered:    delivered.bucket(),
		Adjustment:   adjustment.bucket(),
		Scrap:        scrap.bucket(),
		Closing:      closing.bucket(),
	}
}
