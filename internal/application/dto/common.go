package dto

import "encoding/json"

// Envelope sobre de respuesta de la API de la tienda.
type Envelope struct {
	Success  bool            `json:"success"`
	Data     json.RawMessage `json:"data"`
	Message  string          `json:"message"`
	Metadata *PageMetadata   `json:"metadata,omitempty"`
}

// PageMetadata metadatos de paginación que devuelve la API.
type PageMetadata struct {
	Page          int   `json:"page,omitempty"`
	Size          int   `json:"size,omitempty"`
	TotalPages    int   `json:"totalPages"`
	TotalElements int64 `json:"totalElements"`
}

// PageRequest paginación para listados (la API cuenta páginas desde 0).
type PageRequest struct {
	Page int `query:"page"`
	Size int `query:"size"`
}

// DefaultPage aplica valores por defecto y límites.
func (p *PageRequest) DefaultPage() {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Size <= 0 {
		p.Size = 12
	}
	if p.Size > 100 {
		p.Size = 100
	}
}

// Page lista paginada genérica para las pantallas.
type Page[T any] struct {
	Items []T          `json:"items"`
	Page  PageResponse `json:"page"`
}

// PageResponse metadatos de página en respuestas del storefront.
type PageResponse struct {
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalPages    int   `json:"totalPages"`
	TotalElements int64 `json:"totalElements"`
}

// NewPageResponse combina la petición con los metadatos de la API (pueden faltar).
func NewPageResponse(req PageRequest, meta *PageMetadata, count int) PageResponse {
	out := PageResponse{Page: req.Page, Size: req.Size, TotalPages: 1, TotalElements: int64(count)}
	if meta != nil {
		out.TotalPages = meta.TotalPages
		out.TotalElements = meta.TotalElements
	}
	return out
}

// ErrorResponse cuerpo de error HTTP del storefront.
type ErrorResponse struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Redirect string `json:"redirect,omitempty"`
}
