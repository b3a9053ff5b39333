package usecase

import (
	"context"

	"github.com/jhoicas/petshop-storefront/internal/application/dto"
	"github.com/jhoicas/petshop-storefront/internal/application/ports"
)

// AdminUseCase pantallas de administración.
type AdminUseCase struct {
	api ports.AdminAPI
}

// NewAdminUseCase construye el caso de uso.
func NewAdminUseCase(api ports.AdminAPI) *AdminUseCase {
	return &AdminUseCase{api: api}
}

// Users listado paginado de usuarios.
func (uc *AdminUseCase) Users(ctx context.Context, q dto.PageRequest) (*dto.Page[dto.UserSummary], error) {
	q.DefaultPage()
	items, meta, err := uc.api.ListUsers(ctx, q)
	if err != nil {
		return nil, err
	}
	return &dto.Page[dto.UserSummary]{Items: items, Page: dto.NewPageResponse(q, meta, len(items))}, nil
}
