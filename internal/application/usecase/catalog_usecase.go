package usecase

import (
	"context"
	"strings"

	"github.com/jhoicas/petshop-storefront/internal/application/dto"
	"github.com/jhoicas/petshop-storefront/internal/application/ports"
	"github.com/jhoicas/petshop-storefront/internal/domain"
	"github.com/jhoicas/petshop-storefront/internal/domain/entity"
)

// CatalogUseCase catálogo público.
type CatalogUseCase struct {
	api ports.CatalogAPI
}

// NewCatalogUseCase construye el caso de uso.
func NewCatalogUseCase(api ports.CatalogAPI) *CatalogUseCase {
	return &CatalogUseCase{api: api}
}

// List productos paginados con filtros.
func (uc *CatalogUseCase) List(ctx context.Context, q dto.ProductQuery) (*dto.Page[entity.Product], error) {
	q.DefaultPage()
	q.Keyword = strings.TrimSpace(q.Keyword)
	items, meta, err := uc.api.ListProducts(ctx, q)
	if err != nil {
		return nil, err
	}
	return &dto.Page[entity.Product]{Items: items, Page: dto.NewPageResponse(q.PageRequest, meta, len(items))}, nil
}

// Get detalle de producto.
func (uc *CatalogUseCase) Get(ctx context.Context, id int64) (*entity.Product, error) {
	if id <= 0 {
		return nil, domain.ErrInvalidInput
	}
	p, err := uc.api.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}
