package ports

import (
	"context"

	"github.com/jhoicas/petshop-storefront/internal/application/dto"
	"github.com/jhoicas/petshop-storefront/internal/domain/entity"
)

// Puertos de salida hacia la API REST de la tienda. El token del usuario viaja
// en el contexto (ver petapi.WithToken); los adaptadores lo adjuntan como Bearer.
//
// Errores: domain.ErrUnauthorized (401), domain.ErrForbidden (403),
// domain.ErrNetwork (sin respuesta), domain.ErrInvalidCredentials (login
// rechazado) y domain.ErrAPI para el resto, siempre envueltos con el mensaje
// de la API.

// AuthAPI autenticación.
type AuthAPI interface {
	Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginData, error)
	Register(ctx context.Context, in dto.RegisterRequest) error
	Logout(ctx context.Context) error
}

// CartAPI carrito del usuario autenticado.
type CartAPI interface {
	GetCart(ctx context.Context) (*entity.Cart, error)
	AddItem(ctx context.Context, in dto.AddCartItemRequest) (*entity.Cart, error)
	UpdateItem(ctx context.Context, itemID int64, in dto.UpdateCartItemRequest) (*entity.Cart, error)
	RemoveItem(ctx context.Context, itemID int64) (*entity.Cart, error)
}

// AddressAPI direcciones de envío del usuario autenticado.
type AddressAPI interface {
	ListAddresses(ctx context.Context) ([]entity.Address, error)
	CreateAddress(ctx context.Context, in dto.AddressRequest) (*entity.Address, error)
	SetDefaultAddress(ctx context.Context, id int64) error
	DeleteAddress(ctx context.Context, id int64) error
}

// OrderAPI pedidos.
type OrderAPI interface {
	CreateOrder(ctx context.Context, in dto.CreateOrderRequest) (*entity.Order, error)
	MyOrders(ctx context.Context, q dto.OrderListQuery) ([]entity.Order, *dto.PageMetadata, error)
	GetOrder(ctx context.Context, code string) (*entity.Order, error)
	CancelOrder(ctx context.Context, code string) (*entity.Order, error)
	// AllOrders y UpdateStatus requieren rol empleado o administrador.
	AllOrders(ctx context.Context, q dto.OrderListQuery) ([]entity.Order, *dto.PageMetadata, error)
	UpdateStatus(ctx context.Context, code string, in dto.UpdateOrderStatusRequest) (*entity.Order, error)
}

// CatalogAPI catálogo público.
type CatalogAPI interface {
	ListProducts(ctx context.Context, q dto.ProductQuery) ([]entity.Product, *dto.PageMetadata, error)
	GetProduct(ctx context.Context, id int64) (*entity.Product, error)
}

// AdminAPI pantallas de administración.
type AdminAPI interface {
	ListUsers(ctx context.Context, q dto.PageRequest) ([]dto.UserSummary, *dto.PageMetadata, error)
}
