// Package petapi es el adaptador HTTP hacia la API REST de la tienda.
// Implementa los puertos de internal/application/ports.
package petapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jhoicas/petshop-storefront/internal/application/dto"
	"github.com/jhoicas/petshop-storefront/internal/application/ports"
	"github.com/jhoicas/petshop-storefront/internal/domain"
	"github.com/jhoicas/petshop-storefront/pkg/config"
)

// Verificar en tiempo de compilación que Client implementa los puertos.
var (
	_ ports.AuthAPI    = (*Client)(nil)
	_ ports.CartAPI    = (*Client)(nil)
	_ ports.AddressAPI = (*Client)(nil)
	_ ports.OrderAPI   = (*Client)(nil)
	_ ports.CatalogAPI = (*Client)(nil)
	_ ports.AdminAPI   = (*Client)(nil)
)

// maxBody tope de lectura de una respuesta.
const maxBody = 4 << 20

// Client cliente REST con el sobre {success, data, message, metadata}.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

// New construye el cliente a partir de la configuración.
func New(cfg config.APIConfig, log zerolog.Logger) *Client {
	return NewWithHTTPClient(cfg.BaseURL, &http.Client{Timeout: cfg.Timeout()}, log)
}

// NewWithHTTPClient permite inyectar el http.Client (tests).
func NewWithHTTPClient(baseURL string, hc *http.Client, log zerolog.Logger) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: hc, log: log}
}

// call ejecuta la petición y decodifica data en out (si no es nil).
// Devuelve los metadatos de paginación si la API los envía.
func (c *Client) call(ctx context.Context, method, path string, query url.Values, body, out any) (*dto.PageMetadata, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("petapi: serializar request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("petapi: crear HTTP request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := ports.TokenFrom(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("method", method).Str("path", path).Msg("API no disponible")
		return nil, fmt.Errorf("%w: %s %s: %v", domain.ErrNetwork, method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("%w: leer respuesta: %v", domain.ErrNetwork, err)
	}

	c.log.Debug().Str("method", method).Str("path", path).Int("status", resp.StatusCode).Msg("API")

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, newAPIError(resp.StatusCode, raw)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}

	var env dto.Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &APIError{Status: resp.StatusCode, Message: "respuesta de la API ilegible", kind: domain.ErrAPI}
	}
	if !env.Success {
		return nil, &APIError{Status: resp.StatusCode, Message: env.Message, kind: domain.ErrAPI}
	}
	if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, fmt.Errorf("%w: deserializar data de %s: %v", domain.ErrAPI, path, err)
		}
	}
	return env.Metadata, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) (*dto.PageMetadata, error) {
	return c.call(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) send(ctx context.Context, method, path string, body, out any) error {
	_, err := c.call(ctx, method, path, nil, body, out)
	return err
}

func pageQuery(p dto.PageRequest) url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(p.Page))
	q.Set("size", strconv.Itoa(p.Size))
	return q
}

func idPath(format string, id int64) string {
	return fmt.Sprintf(format, id)
}

func codePath(format, code string) string {
	return fmt.Sprintf(format, url.PathEscape(code))
}
