package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrValidation         = errors.New("validación fallida")
	ErrUnauthorized       = errors.New("sesión expirada o no autorizada")
	ErrForbidden          = errors.New("acceso denegado")
	ErrInvalidCredentials = errors.New("usuario o contraseña incorrectos")
	ErrNetwork            = errors.New("no se pudo conectar con el servidor, verifique su conexión")
	ErrAPI                = errors.New("la API rechazó la solicitud")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrTooManyAttempts    = errors.New("demasiados intentos, espere un momento")

	// Sesión
	ErrOperationInProgress = errors.New("ya hay una operación de sesión en curso")

	// Checkout
	ErrAddressRequired       = errors.New("seleccione una dirección de envío")
	ErrPaymentMethodRequired = errors.New("seleccione un método de pago")
	ErrOutOfStock            = errors.New("hay productos sin stock en el carrito")
	ErrEmptyCart             = errors.New("el carrito está vacío")
	ErrStageNotReady         = errors.New("los datos del paso aún no han cargado")
	ErrNoPreviousStage       = errors.New("no hay un paso anterior")
	ErrTerminalStage         = errors.New("el pedido ya fue creado")
	ErrOrderInFlight         = errors.New("el pedido se está procesando")
)

// IsValidation agrupa los errores de validación local: nunca llegan a la red.
func IsValidation(err error) bool {
	switch {
	case errors.Is(err, ErrValidation),
		errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrAddressRequired),
		errors.Is(err, ErrPaymentMethodRequired),
		errors.Is(err, ErrOutOfStock),
		errors.Is(err, ErrEmptyCart),
		errors.Is(err, ErrStageNotReady),
		errors.Is(err, ErrNoPreviousStage),
		errors.Is(err, ErrTerminalStage):
		return true
	}
	return false
}
