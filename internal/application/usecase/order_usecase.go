package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/petshop-storefront/internal/application/dto"
	"github.com/jhoicas/petshop-storefront/internal/application/ports"
	"github.com/jhoicas/petshop-storefront/internal/domain"
	"github.com/jhoicas/petshop-storefront/internal/domain/entity"
)

// staffStatuses estados que el personal puede asignar.
var staffStatuses = map[string]bool{
	entity.OrderPending:   true,
	entity.OrderConfirmed: true,
	entity.OrderShipping:  true,
	entity.OrderDelivered: true,
	entity.OrderCancelled: true,
}

// OrderUseCase historial, detalle, cancelación y comprobante de pedidos;
// también la gestión de pedidos del personal.
type OrderUseCase struct {
	api      ports.OrderAPI
	receipts ports.ReceiptGenerator
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(api ports.OrderAPI, receipts ports.ReceiptGenerator) *OrderUseCase {
	return &OrderUseCase{api: api, receipts: receipts}
}

// Mine pedidos del usuario autenticado.
func (uc *OrderUseCase) Mine(ctx context.Context, q dto.OrderListQuery) (*dto.Page[entity.Order], error) {
	q.DefaultPage()
	q.Status = strings.ToUpper(strings.TrimSpace(q.Status))
	items, meta, err := uc.api.MyOrders(ctx, q)
	if err != nil {
		return nil, err
	}
	return &dto.Page[entity.Order]{Items: items, Page: dto.NewPageResponse(q.PageRequest, meta, len(items))}, nil
}

// Get detalle por código.
func (uc *OrderUseCase) Get(ctx context.Context, code string) (*entity.Order, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, domain.ErrInvalidInput
	}
	o, err := uc.api.GetOrder(ctx, code)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	return o, nil
}

// Cancel cancela un pedido pendiente.
func (uc *OrderUseCase) Cancel(ctx context.Context, code string) (*entity.Order, error) {
	o, err := uc.Get(ctx, code)
	if err != nil {
		return nil, err
	}
	if !o.Cancellable() {
		return nil, fmt.Errorf("%w: el pedido %s está en estado %s", domain.ErrConflict, o.OrderCode, o.Status)
	}
	return uc.api.CancelOrder(ctx, o.OrderCode)
}

// Receipt comprobante PDF del pedido.
//
// Retorna:
//   - (pdfBytes, filename, nil) si todo sale bien.
//   - domain.ErrNotFound        si el pedido no existe.
//   - domain.ErrConflict        si el pedido está cancelado.
func (uc *OrderUseCase) Receipt(ctx context.Context, code string) ([]byte, string, error) {
	o, err := uc.Get(ctx, code)
	if err != nil {
		return nil, "", err
	}
	if strings.EqualFold(o.Status, entity.OrderCancelled) {
		return nil, "", fmt.Errorf("%w: el pedido %s está cancelado", domain.ErrConflict, o.OrderCode)
	}
	pdf, err := uc.receipts.OrderReceipt(ctx, o)
	if err != nil {
		return nil, "", fmt.Errorf("comprobante: generación fallida: %w", err)
	}
	return pdf, fmt.Sprintf("don-hang_%s.pdf", o.OrderCode), nil
}

// All todos los pedidos (personal de tienda).
func (uc *OrderUseCase) All(ctx context.Context, q dto.OrderListQuery) (*dto.Page[entity.Order], error) {
	q.DefaultPage()
	q.Status = strings.ToUpper(strings.TrimSpace(q.Status))
	if q.Status != "" && !staffStatuses[q.Status] {
		return nil, fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, q.Status)
	}
	items, meta, err := uc.api.AllOrders(ctx, q)
	if err != nil {
		return nil, err
	}
	return &dto.Page[entity.Order]{Items: items, Page: dto.NewPageResponse(q.PageRequest, meta, len(items))}, nil
}

// UpdateStatus cambia el estado de un pedido (personal de tienda).
func (uc *OrderUseCase) UpdateStatus(ctx context.Context, code string, in dto.UpdateOrderStatusRequest) (*entity.Order, error) {
	code = strings.TrimSpace(code)
	in.Status = strings.ToUpper(strings.TrimSpace(in.Status))
	if code == "" || !staffStatuses[in.Status] {
		return nil, fmt.Errorf("%w: estado %q", domain.ErrValidation, in.Status)
	}
	return uc.api.UpdateStatus(ctx, code, in)
}
