package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/petshop-storefront/internal/application/dto"
	"github.com/jhoicas/petshop-storefront/internal/application/ports"
	"github.com/jhoicas/petshop-storefront/internal/domain"
	"github.com/jhoicas/petshop-storefront/internal/domain/entity"
	"github.com/jhoicas/petshop-storefront/internal/domain/repository"
)

// CartUseCase carrito del visitante. Cada lectura o cambio deja una copia en la
// clave de caché del carrito del almacenamiento del visitante.
type CartUseCase struct {
	api ports.CartAPI
	log zerolog.Logger
}

// NewCartUseCase construye el caso de uso.
func NewCartUseCase(api ports.CartAPI, log zerolog.Logger) *CartUseCase {
	return &CartUseCase{api: api, log: log}
}

// Get consulta el carrito en la API y refresca la caché.
func (uc *CartUseCase) Get(ctx context.Context, cache repository.SessionStorage) (*entity.Cart, error) {
	cart, err := uc.api.GetCart(ctx)
	if err != nil {
		return nil, err
	}
	uc.store(ctx, cache, cart)
	return cart, nil
}

// Add añade un producto.
func (uc *CartUseCase) Add(ctx context.Context, cache repository.SessionStorage, in dto.AddCartItemRequest) (*entity.Cart, error) {
	if in.ProductID <= 0 {
		return nil, fmt.Errorf("%w: producto requerido", domain.ErrValidation)
	}
	if in.Quantity <= 0 {
		in.Quantity = 1
	}
	cart, err := uc.api.AddItem(ctx, in)
	if err != nil {
		return nil, err
	}
	uc.store(ctx, cache, cart)
	return cart, nil
}

// Update cambia la cantidad de una línea. Cantidad 0 elimina la línea.
func (uc *CartUseCase) Update(ctx context.Context, cache repository.SessionStorage, itemID int64, in dto.UpdateCartItemRequest) (*entity.Cart, error) {
	if in.Quantity < 0 {
		return nil, fmt.Errorf("%w: la cantidad no puede ser negativa", domain.ErrValidation)
	}
	if in.Quantity == 0 {
		return uc.Remove(ctx, cache, itemID)
	}
	cart, err := uc.api.UpdateItem(ctx, itemID, in)
	if err != nil {
		return nil, err
	}
	uc.store(ctx, cache, cart)
	return cart, nil
}

// Remove elimina una línea.
func (uc *CartUseCase) Remove(ctx context.Context, cache repository.SessionStorage, itemID int64) (*entity.Cart, error) {
	cart, err := uc.api.RemoveItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	uc.store(ctx, cache, cart)
	return cart, nil
}

// Cached último carrito visto, sin llamar a la API. nil si no hay caché.
func (uc *CartUseCase) Cached(ctx context.Context, cache repository.SessionStorage) *entity.Cart {
	raw, found, err := cache.Get(ctx, repository.KeyCart)
	if err != nil || !found {
		return nil
	}
	var cart entity.Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		uc.log.Debug().Err(err).Msg("caché de carrito ilegible, se descarta")
		_ = cache.Delete(ctx, repository.KeyCart)
		return nil
	}
	return &cart
}

// Invalidate borra la caché (tras crear un pedido el carrito de la API queda vacío).
func (uc *CartUseCase) Invalidate(ctx context.Context, cache repository.SessionStorage) {
	if err := cache.Delete(ctx, repository.KeyCart); err != nil {
		uc.log.Warn().Err(err).Msg("no se pudo invalidar la caché del carrito")
	}
}

// Reader adapta el caso de uso al lector de carrito del checkout.
func (uc *CartUseCase) Reader(cache repository.SessionStorage) CartReader {
	return CartReader{uc: uc, cache: cache}
}

// CartReader lector de carrito ligado al almacenamiento de un visitante.
type CartReader struct {
	uc    *CartUseCase
	cache repository.SessionStorage
}

func (r CartReader) GetCart(ctx context.Context) (*entity.Cart, error) {
	return r.uc.Get(ctx, r.cache)
}

func (uc *CartUseCase) store(ctx context.Context, cache repository.SessionStorage, cart *entity.Cart) {
	if cart == nil {
		return
	}
	raw, err := json.Marshal(cart)
	if err != nil {
		return
	}
	if err := cache.Set(ctx, repository.KeyCart, string(raw)); err != nil {
		uc.log.Warn().Err(err).Msg("no se pudo escribir la caché del carrito")
	}
}
