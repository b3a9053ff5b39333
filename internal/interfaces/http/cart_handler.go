package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/petshop-storefront/internal/application/dto"
	"github.com/jhoicas/petshop-storefront/internal/application/usecase"
)

// CartHandler carrito del cliente autenticado.
type CartHandler struct {
	uc *usecase.CartUseCase
}

// NewCartHandler construye el handler.
func NewCartHandler(uc *usecase.CartUseCase) *CartHandler {
	return &CartHandler{uc: uc}
}

// Get godoc
// @Summary      Carrito actual
// @Tags         cart
// @Produce      json
// @Success      200  {object}  entity.Cart
// @Router       /cart [get]
func (h *CartHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(apiContext(c), CurrentVisitor(c).Storage)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Add godoc
// @Summary      Añadir producto al carrito
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AddCartItemRequest  true  "producto y cantidad"
// @Success      200   {object}  entity.Cart
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /cart/items [post]
func (h *CartHandler) Add(c *fiber.Ctx) error {
	var in dto.AddCartItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	v := CurrentVisitor(c)
	out, err := h.uc.Add(apiContext(c), v.Storage, in)
	if err != nil {
		return err
	}
	v.Notices.Success("Producto añadido al carrito")
	return c.JSON(out)
}

// Update cambia la cantidad de una línea (0 la elimina).
func (h *CartHandler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id inválido"})
	}
	var in dto.UpdateCartItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Update(apiContext(c), CurrentVisitor(c).Storage, int64(id), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

func (h *CartHandler) Remove(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id inválido"})
	}
	out, err := h.uc.Remove(apiContext(c), CurrentVisitor(c).Storage, int64(id))
	if err != nil {
		return err
	}
	return c.JSON(out)
}
