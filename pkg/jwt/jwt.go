// Package jwt lee los claims del token emitido por la API de la tienda.
//
// El storefront no conoce el secreto de firma: el token se inspecciona sin
// verificar y solo con fines informativos (logs, caducidad mostrada). La
// validez real la decide la API en cada llamada (401).
package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims campos que interesan al storefront.
type Claims struct {
	jwt.RegisteredClaims
	Roles []string `json:"roles,omitempty"`
}

// Info resumen legible de un token.
type Info struct {
	Subject   string
	ExpiresAt time.Time // cero si el token no trae exp
	Roles     []string
}

// Expired informa si el token ya caducó en el instante now.
// Un token sin exp nunca se considera caducado.
func (i Info) Expired(now time.Time) bool {
	return !i.ExpiresAt.IsZero() && now.After(i.ExpiresAt)
}

// Inspect decodifica el token sin verificar la firma.
func Inspect(tokenString string) (Info, error) {
	if tokenString == "" {
		return Info{}, fmt.Errorf("jwt: token vacío")
	}
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return Info{}, fmt.Errorf("jwt: token ilegible: %w", err)
	}
	info := Info{Subject: claims.Subject, Roles: claims.Roles}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}
	return info, nil
}

// Sign firma un token HS256; lo usan los tests y el backend simulado.
func Sign(secret, subject string, roles []string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Roles: roles,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
