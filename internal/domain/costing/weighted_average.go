package costing

import "github.com/shopspring/decimal"

// WeightedAverage implementa la lógica de costo promedio ponderado (servicio de dominio).
// NuevoCosto = ((StockActual * CostoActual) + (CantComprada * PrecioCompra)) / (StockActual + CantComprada)
// StockActual es la existencia total sumada en todas las ubicaciones ANTES de la compra.
// Si la suma de cantidades es cero, el nuevo costo es el precio de compra.
func WeightedAverage(stockActual, costoActual, cantComprada, precioCompra decimal.Decimal) decimal.Decimal {
	sum := stockActual.Add(cantComprada)
	if sum.IsZero() {
		return precioCompra
	}
	num := stockActual.Mul(costoActual).Add(cantComprada.Mul(precioCompra))
	return num.Div(sum)
}
