package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/petshop-storefront/internal/application/dto"
	"github.com/jhoicas/petshop-storefront/internal/application/usecase"
)

// OrderHandler pedidos del cliente y gestión de pedidos del personal.
type OrderHandler struct {
	uc *usecase.OrderUseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *usecase.OrderUseCase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// Mine godoc
// @Summary      Mis pedidos
// @Tags         orders
// @Produce      json
// @Param        status  query  string  false  "filtro por estado"
// @Param        page    query  int     false  "página (desde 0)"
// @Success      200  {object}  dto.Page[entity.Order]
// @Router       /orders [get]
func (h *OrderHandler) Mine(c *fiber.Ctx) error {
	var q dto.OrderListQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	out, err := h.uc.Mine(apiContext(c), q)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetByCode godoc
// @Summary      Detalle de pedido
// @Tags         orders
// @Produce      json
// @Param        code  path  string  true  "código del pedido"
// @Success      200  {object}  entity.Order
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /orders/{code} [get]
func (h *OrderHandler) GetByCode(c *fiber.Ctx) error {
	out, err := h.uc.Get(apiContext(c), c.Params("code"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Cancel cancela un pedido propio (solo pendientes).
func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	out, err := h.uc.Cancel(apiContext(c), c.Params("code"))
	if err != nil {
		return err
	}
	CurrentVisitor(c).Notices.Success("Pedido " + out.OrderCode + " cancelado")
	return c.JSON(out)
}

// Receipt godoc
// @Summary      Comprobante del pedido en PDF
// @Tags         orders
// @Produce      application/pdf
// @Param        code  path  string  true  "código del pedido"
// @Success      200  {file}  binary
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /orders/{code}/receipt [get]
func (h *OrderHandler) Receipt(c *fiber.Ctx) error {
	pdf, filename, err := h.uc.Receipt(apiContext(c), c.Params("code"))
	if err != nil {
		return err
	}
	c.Attachment(filename)
	c.Set(fiber.HeaderContentType, "application/pdf")
	return c.Send(pdf)
}

// ── Personal de tienda ───────────────────────────────────────────────────────

// All pedidos de todos los clientes (empleado o administrador).
func (h *OrderHandler) All(c *fiber.Ctx) error {
	var q dto.OrderListQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	out, err := h.uc.All(apiContext(c), q)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// UpdateStatus godoc
// @Summary      Cambiar estado de un pedido
// @Tags         staff
// @Accept       json
// @Produce      json
// @Param        code  path  string                        true  "código del pedido"
// @Param        body  body  dto.UpdateOrderStatusRequest  true  "nuevo estado"
// @Success      200   {object}  entity.Order
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /staff/orders/{code}/status [put]
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateOrderStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.UpdateStatus(apiContext(c), c.Params("code"), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}
