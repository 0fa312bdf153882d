package entity

import "github.com/shopspring/decimal"

// Product representa una variante de producto valorizable.
// Principal, DeviceType y Model son atributos personalizados por despliegue: nil = no definido.
type Product struct {
	ID            string
	Name          string
	Barcode       string
	CategoryID    string
	StandardPrice decimal.Decimal // costo unitario vigente
	Principal     *string
	DeviceType    *string
	Model         *string
}
