package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de auditoría física de un registro de inventario.
const (
	AuditFull       = "FULL"        // conteo físico completo
	AuditInProgress = "IN_PROGRESS" // conteo en curso
	AuditNone       = "NONE"        // sin auditar
)

// InventoryRecord cantidad de un producto en una ubicación (fila por producto+ubicación).
// Se crea de forma diferida con el primer movimiento; la cantidad nunca baja de cero.
type InventoryRecord struct {
	ProductID   string
	Location    LocationRef
	Quantity    decimal.Decimal
	MinStock    decimal.Decimal
	AuditStatus string // FULL | IN_PROGRESS | NONE
	UpdatedAt   time.Time
}
