package dto

// ProductQuery filtros del catálogo.
type ProductQuery struct {
	PageRequest
	Keyword    string `query:"keyword"`
	CategoryID int64  `query:"categoryId"`
	BrandID    int64  `query:"brandId"`
}
