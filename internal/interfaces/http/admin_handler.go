package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/petshop-storefront/internal/application/dto"
	"github.com/jhoicas/petshop-storefront/internal/application/usecase"
)

// AdminHandler pantallas de administración.
type AdminHandler struct {
	uc *usecase.AdminUseCase
}

func NewAdminHandler(uc *usecase.AdminUseCase) *AdminHandler {
	return &AdminHandler{uc: uc}
}

// Users godoc
// @Summary      Usuarios registrados
// @Tags         admin
// @Produce      json
// @Success      200  {object}  dto.Page[dto.UserSummary]
// @Router       /admin/users [get]
func (h *AdminHandler) Users(c *fiber.Ctx) error {
	var q dto.PageRequest
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	out, err := h.uc.Users(apiContext(c), q)
	if err != nil {
		return err
	}
	return c.JSON(out)
}
