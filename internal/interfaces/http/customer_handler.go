package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jhoicas/Tienda-api/internal/application/dto"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	"github.com/jhoicas/Tienda-api/internal/domain/repository"
)

// CustomerHandler operaciones sobre clientes y su saldo almacenado (protegido).
type CustomerHandler struct {
	customers repository.CustomerRepository
}

// NewCustomerHandler construye el handler.
func NewCustomerHandler(customers repository.CustomerRepository) *CustomerHandler {
	return &CustomerHandler{customers: customers}
}

// GetByID godoc
// @Summary      Obtener cliente con su saldo
// @Tags         customers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del cliente"
// @Success      200  {object}  entity.Customer
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/customers/{id} [get]
func (h *CustomerHandler) GetByID(c *fiber.Ctx) error {
	customer, err := h.customers.GetByID(c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	if customer == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "cliente no encontrado"})
	}
	return c.JSON(customer)
}

// CreatePayment godoc
// @Summary      Registrar abono de un cliente (reduce su saldo almacenado)
// @Tags         customers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del cliente"
// @Param        body  body  dto.CustomerPaymentRequest  true  "Monto del abono"
// @Success      201   {object}  entity.CustomerPayment
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/customers/{id}/payments [post]
func (h *CustomerHandler) CreatePayment(c *fiber.Ctx) error {
	var in dto.CustomerPaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if !in.Amount.IsPositive() {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "amount debe ser positivo"})
	}

	customer, err := h.customers.GetByID(c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	if customer == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "cliente no encontrado"})
	}

	payment := &entity.CustomerPayment{
		ID:         uuid.New().String(),
		CustomerID: customer.ID,
		Amount:     in.Amount,
		Note:       in.Note,
		CreatedAt:  time.Now(),
	}
	if err := h.customers.CreatePayment(payment); err != nil {
		return domainError(c, err)
	}
	// El abono reduce el saldo pendiente del cliente.
	if err := h.customers.AdjustBalance(customer.ID, in.Amount.Neg()); err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(payment)
}
