package entity

// Métodos de costeo soportados por una categoría de producto.
const (
	CostMethodStandard = "standard"
	CostMethodAverage  = "average"
	CostMethodFIFO     = "fifo"
)

// Category representa una categoría de productos (jerárquica opcional).
// DisplayName es la ruta completa ("All / Saleable / Office") que se muestra en el reporte.
type Category struct {
	ID          string
	ParentID    string // vacío si es raíz
	Name        string
	DisplayName string
	CostMethod  string // standard, average, fifo; vacío = no configurado
}

// EffectiveCostMethod devuelve el método de costeo o "standard" si la categoría no tiene uno.
func (c *Category) EffectiveCostMethod() string {
	if c == nil || c.CostMethod == "" {
		return CostMethodStandard
	}
	return c.CostMethod
}
