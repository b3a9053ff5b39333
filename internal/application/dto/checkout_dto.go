package dto

// SelectAddressRequest elegir dirección en el paso de dirección.
type SelectAddressRequest struct {
	AddressID int64 `json:"addressId" form:"addressId"`
}

// PaymentRequest método de pago y notas.
type PaymentRequest struct {
	PaymentMethod string `json:"paymentMethod" form:"paymentMethod"`
	Notes         string `json:"notes" form:"notes"`
}
