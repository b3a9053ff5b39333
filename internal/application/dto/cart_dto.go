package dto

// AddCartItemRequest añadir producto al carrito.
type AddCartItemRequest struct {
	ProductID int64 `json:"productId" form:"productId"`
	Quantity  int   `json:"quantity" form:"quantity"`
}

// UpdateCartItemRequest cambiar cantidad de una línea.
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" form:"quantity"`
}
