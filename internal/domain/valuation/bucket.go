package valuation

import "github.com/shopspring/decimal"

// Bucket cantidad, valor y tarifa unitaria de una categoría del reporte.
type Bucket struct {
	Quantity decimal.Decimal `json:"qty"`
	Rate     decimal.Decimal `json:"rate"`
	Value    decimal.Decimal `json:"value"`
}

// NewBucket arma el bucket y deriva la tarifa. Con cantidad cero la tarifa es cero, sin importar el valor.
func NewBucket(qty, value decimal.Decimal) Bucket {
	return Bucket{Quantity: qty, Rate: rate(value, qty), Value: value}
}

func rate(value, qty decimal.Decimal) decimal.Decimal {
	if qty.IsZero() {
		return decimal.Zero
	}
	return value.Div(qty)
}

// tally acumulador mutable usado durante la clasificación.
type tally struct {
	qty   decimal.Decimal
	value decimal.Decimal
}

func (t *tally) add(qty, value decimal.Decimal) {
	t.qty = t.qty.Add(qty)
	t.value = t.value.Add(value)
}

func (t tally) bucket() Bucket { return NewBucket(t.qty, t.value) }
