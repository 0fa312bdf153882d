package entity

// Warehouse representa una bodega; agrupa ubicaciones internas.
type Warehouse struct {
	ID   string
	Code string
	Name string
}
