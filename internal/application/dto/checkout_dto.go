package dto

import "github.com/shopspring/decimal"

// CommitRequest body para confirmar la pestaña activa del carrito.
type CommitRequest struct {
	TabID string `json:"tab_id,omitempty"` // vacío = pestaña activa
}

// CommitResponse resultado del commit: factura creada y advertencias de
// reconciliación no fatales (la factura queda en pie aunque existan).
type CommitResponse struct {
	InvoiceID string          `json:"invoice_id"`
	Type      string          `json:"type"`
	Total     decimal.Decimal `json:"total"`
	Profit    decimal.Decimal `json:"profit"`
	Warnings  []string        `json:"warnings,omitempty"`
}
