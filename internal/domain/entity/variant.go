package entity

import "github.com/shopspring/decimal"

// Clases de variante de un producto dentro de una sucursal.
const (
	VariantColor = "COLOR"
	VariantShape = "SHAPE"
)

// UnspecifiedVariantName nombre reservado del bucket "sin especificar".
// El remanente de la cantidad de sucursal que no está repartido en variantes
// con nombre se acumula aquí durante ventas/compras; nunca se consulta como
// verdad absoluta: el remanente real siempre se deriva en el snapshot.
const UnspecifiedVariantName = "__unspecified__"

// VariantDefinition metadato de catálogo: una subdivisión color/forma de un producto.
type VariantDefinition struct {
	ID        string
	ProductID string
	Kind      string // COLOR | SHAPE
	Name      string
	ColorCode string // hex, solo para Kind=COLOR
	ImageURL  string
	SortOrder int
}

// IsUnspecified indica si la definición es el bucket reservado.
func (v *VariantDefinition) IsUnspecified() bool {
	return v.Name == UnspecifiedVariantName
}

// VariantQuantity cantidad de una variante en una sucursal.
// La suma de variantes de un producto+sucursal puede ser menor que la cantidad
// del InventoryRecord; la diferencia es el remanente "sin asignar" (derivado).
type VariantQuantity struct {
	DefinitionID string
	BranchID     string
	Quantity     decimal.Decimal
}
