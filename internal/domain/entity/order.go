package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod métodos de pago admitidos por la API.
type PaymentMethod string

const (
	PaymentUnset        PaymentMethod = ""
	PaymentCOD          PaymentMethod = "COD"
	PaymentBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentCreditCard   PaymentMethod = "CREDIT_CARD"
	PaymentEWallet      PaymentMethod = "E_WALLET"
)

// PaymentMethods en el orden en que se ofrecen.
var PaymentMethods = []PaymentMethod{PaymentCOD, PaymentBankTransfer, PaymentCreditCard, PaymentEWallet}

// ParsePaymentMethod acepta el valor de la API sin distinguir mayúsculas.
func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for _, m := range PaymentMethods {
		if string(m) == s {
			return m, true
		}
	}
	return PaymentUnset, false
}

// Label nombre para mostrar.
func (m PaymentMethod) Label() string {
	switch m {
	case PaymentCOD:
		return "Thanh toán khi nhận hàng (COD)"
	case PaymentBankTransfer:
		return "Chuyển khoản ngân hàng"
	case PaymentCreditCard:
		return "Thẻ tín dụng"
	case PaymentEWallet:
		return "Ví điện tử"
	default:
		return ""
	}
}

// Estados de pedido conocidos.
const (
	OrderPending   = "PENDING"
	OrderConfirmed = "CONFIRMED"
	OrderShipping  = "SHIPPING"
	OrderDelivered = "DELIVERED"
	OrderCancelled = "CANCELLED"
)

// OrderItem línea de un pedido.
type OrderItem struct {
	ProductID   int64           `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// Order pedido creado por la API.
type Order struct {
	ID              int64           `json:"id"`
	OrderCode       string          `json:"orderCode"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	ShippingFee     decimal.Decimal `json:"shippingFee"`
	PaymentMethod   PaymentMethod   `json:"paymentMethod"`
	Status          string          `json:"status"`
	Notes           string          `json:"notes,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	Items           []OrderItem     `json:"items,omitempty"`
	ShippingAddress *Address        `json:"shippingAddress,omitempty"`
}

// Cancellable solo los pedidos pendientes pueden cancelarse desde la tienda.
func (o *Order) Cancellable() bool {
	return o != nil && strings.EqualFold(o.Status, OrderPending)
}
