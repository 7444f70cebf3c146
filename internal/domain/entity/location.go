package entity

// Clases de ubicación de inventario.
const (
	LocationBranch    = "BRANCH"    // sucursal de venta
	LocationWarehouse = "WAREHOUSE" // bodega de almacenamiento
)

// Location es una sucursal o bodega: la unidad de partición del inventario.
// Inmutable durante una transacción.
type Location struct {
	ID     string
	Kind   string // BRANCH | WAREHOUSE
	Name   string
	Active bool
}

// LocationRef referencia tipada a una ubicación (el inventario se particiona por clase+id).
type LocationRef struct {
	Kind string `json:"kind"`
	ID   string `json:"id"`
}

// IsBranch indica si la referencia apunta a una sucursal de venta.
// Solo las sucursales llevan cantidades por variante.
func (r LocationRef) IsBranch() bool { return r.Kind == LocationBranch }

// IsZero indica si la referencia está sin asignar.
func (r LocationRef) IsZero() bool { return r.ID == "" }

// Key devuelve una clave estable para mapas (kind:id).
func (r LocationRef) Key() string { return r.Kind + ":" + r.ID }
