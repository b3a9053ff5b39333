package petapi

import (
	"context"
	"strconv"

	"github.com/jhoicas/petshop-storefront/internal/application/dto"
	"github.com/jhoicas/petshop-storefront/internal/domain/entity"
)

func (c *Client) ListProducts(ctx context.Context, q dto.ProductQuery) ([]entity.Product, *dto.PageMetadata, error) {
	query := pageQuery(q.PageRequest)
	if q.Keyword != "" {
		query.Set("keyword", q.Keyword)
	}
	if q.CategoryID > 0 {
		query.Set("categoryId", strconv.FormatInt(q.CategoryID, 10))
	}
	if q.BrandID > 0 {
		query.Set("brandId", strconv.FormatInt(q.BrandID, 10))
	}
	var list []entity.Product
	meta, err := c.get(ctx, "/products", query, &list)
	if err != nil {
		return nil, nil, err
	}
	return list, meta, nil
}

func (c *Client) GetProduct(ctx context.Context, id int64) (*entity.Product, error) {
	var p entity.Product
	if _, err := c.get(ctx, idPath("/products/%d", id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListUsers GET /admin/users (solo administradores).
func (c *Client) ListUsers(ctx context.Context, q dto.PageRequest) ([]dto.UserSummary, *dto.PageMetadata, error) {
	var list []dto.UserSummary
	meta, err := c.get(ctx, "/admin/users", pageQuery(q), &list)
	if err != nil {
		return nil, nil, err
	}
	return list, meta, nil
}
