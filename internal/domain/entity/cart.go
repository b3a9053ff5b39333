package entity

import "github.com/shopspring/decimal"

// CartLine línea del carrito con los precios y el stock vistos al consultarlo.
type CartLine struct {
	ID             int64            `json:"id"`
	ProductID      int64            `json:"productId"`
	ProductName    string           `json:"productName"`
	ImageURL       string           `json:"imageUrl,omitempty"`
	Quantity       int              `json:"quantity"`
	Price          decimal.Decimal  `json:"price"`
	SalePrice      *decimal.Decimal `json:"salePrice,omitempty"`
	AvailableStock int              `json:"availableStock"`
}

// UnitPrice precio efectivo: el de oferta si existe.
func (l CartLine) UnitPrice() decimal.Decimal {
	if l.SalePrice != nil && l.SalePrice.IsPositive() {
		return *l.SalePrice
	}
	return l.Price
}

// Subtotal precio efectivo por cantidad.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.UnitPrice().Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart carrito del usuario (lo posee la API; aquí solo se lee y se cachea).
type Cart struct {
	Items       []CartLine      `json:"items"`
	TotalItems  int             `json:"totalItems"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	ShippingFee decimal.Decimal `json:"shipping"`
	Total       decimal.Decimal `json:"total"`
}

// Empty sin unidades.
func (c *Cart) Empty() bool {
	return c == nil || (c.TotalItems == 0 && len(c.Items) == 0)
}

// OutOfStock líneas cuyo stock disponible es cero.
func (c *Cart) OutOfStock() []CartLine {
	if c == nil {
		return nil
	}
	var out []CartLine
	for _, l := range c.Items {
		if l.AvailableStock <= 0 {
			out = append(out, l)
		}
	}
	return out
}
