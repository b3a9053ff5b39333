package petapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/jhoicas/petshop-storefront/internal/application/dto"
	"github.com/jhoicas/petshop-storefront/internal/domain"
)

// Login POST /auth/login. Un 400/401 aquí son credenciales rechazadas, no una
// sesión caducada.
func (c *Client) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginData, error) {
	var data dto.LoginData
	if err := c.send(ctx, http.MethodPost, "/auth/login", in, &data); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && (apiErr.Status == http.StatusBadRequest || apiErr.Status == http.StatusUnauthorized) {
			apiErr.kind = domain.ErrInvalidCredentials
		}
		return nil, err
	}
	return &data, nil
}

// Register POST /auth/register.
func (c *Client) Register(ctx context.Context, in dto.RegisterRequest) error {
	return c.send(ctx, http.MethodPost, "/auth/register", in, nil)
}

// Logout POST /auth/logout con el token del contexto.
func (c *Client) Logout(ctx context.Context) error {
	return c.send(ctx, http.MethodPost, "/auth/logout", nil, nil)
}
