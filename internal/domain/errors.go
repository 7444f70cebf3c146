package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrEmptyCart         = errors.New("el carrito está vacío")
	ErrMissingContext    = errors.New("falta contraparte, ubicación o caja para esta operación")
	ErrNoActiveTab       = errors.New("no hay pestaña activa")
	ErrTabNotFound       = errors.New("pestaña no encontrada")
	ErrInsufficientStock = errors.New("stock insuficiente")
)
