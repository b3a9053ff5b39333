package entity

import "github.com/shopspring/decimal"

// Product producto del catálogo (vista de tienda).
type Product struct {
	ID           int64            `json:"id"`
	Name         string           `json:"name"`
	Description  string           `json:"description"`
	Price        decimal.Decimal  `json:"price"`
	SalePrice    *decimal.Decimal `json:"salePrice,omitempty"`
	Stock        int              `json:"stock"`
	ImageURL     string           `json:"imageUrl,omitempty"`
	CategoryName string           `json:"categoryName,omitempty"`
	BrandName    string           `json:"brandName,omitempty"`
	SizeName     string           `json:"sizeName,omitempty"`
	TypeName     string           `json:"productTypeName,omitempty"`
}

// InStock hay unidades disponibles.
func (p Product) InStock() bool { return p.Stock > 0 }
