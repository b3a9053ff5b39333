package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/petshop-storefront/internal/application/dto"
	"github.com/jhoicas/petshop-storefront/internal/application/usecase"
)

// AddressHandler direcciones de envío del cliente.
type AddressHandler struct {
	uc *usecase.AddressUseCase
}

// NewAddressHandler construye el handler.
func NewAddressHandler(uc *usecase.AddressUseCase) *AddressHandler {
	return &AddressHandler{uc: uc}
}

// List godoc
// @Summary      Direcciones del cliente (la predeterminada primero)
// @Tags         addresses
// @Produce      json
// @Success      200  {array}  entity.Address
// @Router       /addresses [get]
func (h *AddressHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(apiContext(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Alta de dirección
// @Tags         addresses
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AddressRequest  true  "dirección"
// @Success      201   {object}  entity.Address
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /addresses [post]
func (h *AddressHandler) Create(c *fiber.Ctx) error {
	var in dto.AddressRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(apiContext(c), in)
	if err != nil {
		return err
	}
	CurrentVisitor(c).Notices.Success("Dirección guardada")
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *AddressHandler) SetDefault(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id inválido"})
	}
	if err := h.uc.SetDefault(apiContext(c), int64(id)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *AddressHandler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id inválido"})
	}
	if err := h.uc.Delete(apiContext(c), int64(id)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
