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

// AddressUseCase direcciones de envío del usuario.
type AddressUseCase struct {
	api ports.AddressAPI
}

// NewAddressUseCase construye el caso de uso.
func NewAddressUseCase(api ports.AddressAPI) *AddressUseCase {
	return &AddressUseCase{api: api}
}

// List direcciones guardadas, la predeterminada primero.
func (uc *AddressUseCase) List(ctx context.Context) ([]entity.Address, error) {
	list, err := uc.api.ListAddresses(ctx)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].IsDefault && i > 0 {
			def := list[i]
			copy(list[1:i+1], list[:i])
			list[0] = def
			break
		}
	}
	return list, nil
}

// Create valida y crea una dirección.
func (uc *AddressUseCase) Create(ctx context.Context, in dto.AddressRequest) (*entity.Address, error) {
	in.ReceiverName = strings.TrimSpace(in.ReceiverName)
	in.ReceiverPhone = strings.TrimSpace(in.ReceiverPhone)
	in.StreetAddress = strings.TrimSpace(in.StreetAddress)
	in.ProvinceName = strings.TrimSpace(in.ProvinceName)
	if in.ReceiverName == "" || in.ReceiverPhone == "" || in.StreetAddress == "" || in.ProvinceName == "" {
		return nil, fmt.Errorf("%w: nombre, teléfono, dirección y provincia son requeridos", domain.ErrValidation)
	}
	if !validPhone(in.ReceiverPhone) {
		return nil, fmt.Errorf("%w: teléfono inválido", domain.ErrValidation)
	}
	return uc.api.CreateAddress(ctx, in)
}

// SetDefault marca la dirección como predeterminada.
func (uc *AddressUseCase) SetDefault(ctx context.Context, id int64) error {
	if id <= 0 {
		return domain.ErrInvalidInput
	}
	return uc.api.SetDefaultAddress(ctx, id)
}

// Delete elimina una dirección.
func (uc *AddressUseCase) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return domain.ErrInvalidInput
	}
	return uc.api.DeleteAddress(ctx, id)
}

// validPhone 9 a 11 dígitos, admite un + inicial.
func validPhone(p string) bool {
	p = strings.TrimPrefix(p, "+")
	if len(p) < 9 || len(p) > 11 {
		return false
	}
	for _, r := range p {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
