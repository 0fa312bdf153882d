package entity

// Usos de ubicación. Solo las internas cuentan como inventario propio.
const (
	LocationUsageInternal   = "internal"
	LocationUsageSupplier   = "supplier"
	LocationUsageCustomer   = "customer"
	LocationUsageInventory  = "inventory"
	LocationUsageProduction = "production"
	LocationUsageTransit    = "transit"
	LocationUsageView       = "view"
)

// Location representa una ubicación de stock (estante, zona, ubicación virtual de proveedor, etc.).
type Location struct {
	ID          string
	WarehouseID string // vacío para ubicaciones virtuales
	Name        string
	FullName    string
	Usage       string
}

// IsInternal indica si la ubicación almacena inventario propio.
func (l *Location) IsInternal() bool {
	return l != nil && l.Usage == LocationUsageInternal
}
