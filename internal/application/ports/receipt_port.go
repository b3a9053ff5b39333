package ports

import (
	"context"

	"github.com/jhoicas/petshop-storefront/internal/domain/entity"
)

// ReceiptGenerator genera el comprobante PDF de un pedido.
type ReceiptGenerator interface {
	OrderReceipt(ctx context.Context, order *entity.Order) ([]byte, error)
}
