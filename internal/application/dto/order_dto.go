package dto

import "github.com/jhoicas/petshop-storefront/internal/domain/entity"

// CreateOrderRequest cuerpo de creación de pedido. Notes va como null si está vacío.
type CreateOrderRequest struct {
	ShippingAddressID int64                `json:"shippingAddressId"`
	PaymentMethod     entity.PaymentMethod `json:"paymentMethod"`
	Notes             *string              `json:"notes"`
}

// UpdateOrderStatusRequest cambio de estado (personal de tienda).
type UpdateOrderStatusRequest struct {
	Status string `json:"status" form:"status"`
}

// OrderListQuery filtros del listado de pedidos.
type OrderListQuery struct {
	PageRequest
	Status string `query:"status"`
}
