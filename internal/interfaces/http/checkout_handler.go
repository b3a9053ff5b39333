package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/petshop-storefront/internal/application/checkout"
	"github.com/jhoicas/petshop-storefront/internal/application/dto"
	"github.com/jhoicas/petshop-storefront/internal/application/ports"
	"github.com/jhoicas/petshop-storefront/internal/application/usecase"
	"github.com/jhoicas/petshop-storefront/internal/application/visitor"
	"github.com/jhoicas/petshop-storefront/internal/domain"
	"github.com/jhoicas/petshop-storefront/internal/domain/entity"
	"github.com/jhoicas/petshop-storefront/pkg/metrics"
)

// PaymentOption método de pago ofrecido en la pantalla.
type PaymentOption struct {
	Value entity.PaymentMethod `json:"value"`
	Label string               `json:"label"`
}

// CheckoutScreen progreso de la secuencia más las opciones de pago.
type CheckoutScreen struct {
	checkout.Progress
	PaymentMethods []PaymentOption `json:"paymentMethods"`
}

// CheckoutHandler secuencia de compra del visitante.
type CheckoutHandler struct {
	addresses ports.AddressAPI
	orders    ports.OrderAPI
	cart      *usecase.CartUseCase
	metrics   *metrics.Metrics
	log       zerolog.Logger
}

// NewCheckoutHandler construye el handler.
func NewCheckoutHandler(addresses ports.AddressAPI, orders ports.OrderAPI, cart *usecase.CartUseCase, m *metrics.Metrics, log zerolog.Logger) *CheckoutHandler {
	return &CheckoutHandler{addresses: addresses, orders: orders, cart: cart, metrics: m, log: log}
}

// Show godoc
// @Summary      Estado del checkout (lo abre y carga datos si no existe)
// @Tags         checkout
// @Produce      json
// @Success      200  {object}  CheckoutScreen
// @Router       /checkout [get]
func (h *CheckoutHandler) Show(c *fiber.Ctx) error {
	v := CurrentVisitor(c)
	co := v.Checkout()
	if co == nil {
		return h.start(c, v)
	}
	return h.screen(c, co)
}

// Start abre una secuencia nueva (descarta la anterior) y carga sus datos.
func (h *CheckoutHandler) Start(c *fiber.Ctx) error {
	return h.start(c, CurrentVisitor(c))
}

// Reload vuelve a pedir direcciones y carrito.
func (h *CheckoutHandler) Reload(c *fiber.Ctx) error {
	co, err := h.current(c)
	if err != nil {
		return err
	}
	if err := h.load(c, co); err != nil {
		return err
	}
	return h.screen(c, co)
}

// SelectAddress godoc
// @Summary      Elegir dirección de envío
// @Tags         checkout
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SelectAddressRequest  true  "dirección"
// @Success      200   {object}  CheckoutScreen
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /checkout/address [post]
func (h *CheckoutHandler) SelectAddress(c *fiber.Ctx) error {
	co, err := h.current(c)
	if err != nil {
		return err
	}
	var in dto.SelectAddressRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := co.SelectAddress(in.AddressID); err != nil {
		return err
	}
	return h.screen(c, co)
}

// SetPayment godoc
// @Summary      Elegir método de pago y notas
// @Tags         checkout
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PaymentRequest  true  "COD | BANK_TRANSFER | CREDIT_CARD | E_WALLET"
// @Success      200   {object}  CheckoutScreen
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /checkout/payment [post]
func (h *CheckoutHandler) SetPayment(c *fiber.Ctx) error {
	co, err := h.current(c)
	if err != nil {
		return err
	}
	var in dto.PaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	method, ok := entity.ParsePaymentMethod(in.PaymentMethod)
	if !ok {
		method = entity.PaymentMethod(in.PaymentMethod)
	}
	if err := co.SetPayment(method, in.Notes); err != nil {
		return err
	}
	return h.screen(c, co)
}

// Next godoc
// @Summary      Avanzar (en el paso de pago crea el pedido)
// @Tags         checkout
// @Produce      json
// @Success      200  {object}  CheckoutScreen
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /checkout/next [post]
func (h *CheckoutHandler) Next(c *fiber.Ctx) error {
	co, err := h.current(c)
	if err != nil {
		return err
	}
	if err := co.Next(apiContext(c)); err != nil {
		return err
	}
	return h.screen(c, co)
}

func (h *CheckoutHandler) Back(c *fiber.Ctx) error {
	co, err := h.current(c)
	if err != nil {
		return err
	}
	if err := co.Back(); err != nil {
		return err
	}
	return h.screen(c, co)
}

// Cancel abandona la secuencia.
func (h *CheckoutHandler) Cancel(c *fiber.Ctx) error {
	CurrentVisitor(c).EndCheckout()
	return c.SendStatus(fiber.StatusNoContent)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func (h *CheckoutHandler) start(c *fiber.Ctx, v *visitor.Visitor) error {
	co := v.StartCheckout(h.deps(v), h.log)
	if err := h.load(c, co); err != nil {
		return err
	}
	return h.screen(c, co)
}

func (h *CheckoutHandler) current(c *fiber.Ctx) (*checkout.Checkout, error) {
	co := CurrentVisitor(c).Checkout()
	if co == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "no hay un checkout abierto")
	}
	return co, nil
}

// load carga ambos datos. Un 401/403 sube al interceptor; cualquier otro
// fallo parcial se muestra como notificación y la pantalla se pinta igual.
func (h *CheckoutHandler) load(c *fiber.Ctx, co *checkout.Checkout) error {
	err := co.Load(apiContext(c))
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrUnauthorized) || errors.Is(err, domain.ErrForbidden) {
		return err
	}
	h.log.Warn().Err(err).Msg("checkout cargado de forma parcial")
	CurrentVisitor(c).Notices.Error(ports.UserMessage(err))
	return nil
}

func (h *CheckoutHandler) deps(v *visitor.Visitor) checkout.Deps {
	return checkout.Deps{
		Addresses: h.addresses,
		Cart:      h.cart.Reader(v.Storage),
		Orders:    h.orders,
		OnOrderPlaced: func(ctx context.Context, order *entity.Order) {
			h.cart.Invalidate(ctx, v.Storage)
			if h.metrics != nil {
				h.metrics.OrdersPlaced.WithLabelValues(string(order.PaymentMethod)).Inc()
			}
			v.Notices.Success("Pedido " + order.OrderCode + " creado")
		},
		OnOrderFailed: func(ctx context.Context, err error) {
			if h.metrics != nil {
				h.metrics.OrderFailures.Inc()
			}
		},
	}
}

func (h *CheckoutHandler) screen(c *fiber.Ctx, co *checkout.Checkout) error {
	opts := make([]PaymentOption, 0, len(entity.PaymentMethods))
	for _, m := range entity.PaymentMethods {
		opts = append(opts, PaymentOption{Value: m, Label: m.Label()})
	}
	return c.JSON(CheckoutScreen{Progress: co.Progress(), PaymentMethods: opts})
}
