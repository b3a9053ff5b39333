package petapi

import (
	"context"
	"net/http"

	"github.com/jhoicas/petshop-storefront/internal/application/dto"
	"github.com/jhoicas/petshop-storefront/internal/domain/entity"
)

// ── Carrito ───────────────────────────────────────────────────────────────────

func (c *Client) GetCart(ctx context.Context) (*entity.Cart, error) {
	var cart entity.Cart
	if _, err := c.get(ctx, "/cart", nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (c *Client) AddItem(ctx context.Context, in dto.AddCartItemRequest) (*entity.Cart, error) {
	var cart entity.Cart
	if err := c.send(ctx, http.MethodPost, "/cart/items", in, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (c *Client) UpdateItem(ctx context.Context, itemID int64, in dto.UpdateCartItemRequest) (*entity.Cart, error) {
	var cart entity.Cart
	if err := c.send(ctx, http.MethodPut, idPath("/cart/items/%d", itemID), in, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (c *Client) RemoveItem(ctx context.Context, itemID int64) (*entity.Cart, error) {
	var cart entity.Cart
	if err := c.send(ctx, http.MethodDelete, idPath("/cart/items/%d", itemID), nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// ── Direcciones ───────────────────────────────────────────────────────────────

func (c *Client) ListAddresses(ctx context.Context) ([]entity.Address, error) {
	var list []entity.Address
	if _, err := c.get(ctx, "/addresses", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) CreateAddress(ctx context.Context, in dto.AddressRequest) (*entity.Address, error) {
	var a entity.Address
	if err := c.send(ctx, http.MethodPost, "/addresses", in, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *Client) SetDefaultAddress(ctx context.Context, id int64) error {
	return c.send(ctx, http.MethodPut, idPath("/addresses/%d/default", id), nil, nil)
}

func (c *Client) DeleteAddress(ctx context.Context, id int64) error {
	return c.send(ctx, http.MethodDelete, idPath("/addresses/%d", id), nil, nil)
}

// ── Pedidos ───────────────────────────────────────────────────────────────────

// CreateOrder POST /orders con {shippingAddressId, paymentMethod, notes|null}.
func (c *Client) CreateOrder(ctx context.Context, in dto.CreateOrderRequest) (*entity.Order, error) {
	var o entity.Order
	if err := c.send(ctx, http.MethodPost, "/orders", in, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (c *Client) MyOrders(ctx context.Context, q dto.OrderListQuery) ([]entity.Order, *dto.PageMetadata, error) {
	return c.listOrders(ctx, "/orders/my-orders", q)
}

func (c *Client) GetOrder(ctx context.Context, code string) (*entity.Order, error) {
	var o entity.Order
	if _, err := c.get(ctx, codePath("/orders/%s", code), nil, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (c *Client) CancelOrder(ctx context.Context, code string) (*entity.Order, error) {
	var o entity.Order
	if err := c.send(ctx, http.MethodPut, codePath("/orders/%s/cancel", code), nil, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (c *Client) AllOrders(ctx context.Context, q dto.OrderListQuery) ([]entity.Order, *dto.PageMetadata, error) {
	return c.listOrders(ctx, "/admin/orders", q)
}

func (c *Client) UpdateStatus(ctx context.Context, code string, in dto.UpdateOrderStatusRequest) (*entity.Order, error) {
	var o entity.Order
	if err := c.send(ctx, http.MethodPut, codePath("/admin/orders/%s/status", code), in, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (c *Client) listOrders(ctx context.Context, path string, q dto.OrderListQuery) ([]entity.Order, *dto.PageMetadata, error) {
	query := pageQuery(q.PageRequest)
	if q.Status != "" {
		query.Set("status", q.Status)
	}
	var list []entity.Order
	meta, err := c.get(ctx, path, query, &list)
	if err != nil {
		return nil, nil, err
	}
	return list, meta, nil
}
