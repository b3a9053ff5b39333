package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/petshop-storefront/internal/application/dto"
)

// NotificationHandler avisos pendientes del visitante.
type NotificationHandler struct{}

func NewNotificationHandler() *NotificationHandler {
	return &NotificationHandler{}
}

// List avisos aún vigentes.
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	return c.JSON(CurrentVisitor(c).Notices.Active())
}

// Dismiss descarta un aviso antes de que caduque.
func (h *NotificationHandler) Dismiss(c *fiber.Ctx) error {
	if !CurrentVisitor(c).Notices.Dismiss(c.Params("id")) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "aviso no encontrado"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
