package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	pkgapi "github.com/iudanet/geotaste/pkg/api"
)

// AccessClaims представляет claims access токена, выданного сервером
type AccessClaims struct {
	UserID    pkgapi.ID `json:"user_id"`
	TokenType string    `json:"token_type,omitempty"`
	jwt.RegisteredClaims
}

// ParseAccessToken разбирает access токен без проверки подписи.
// Ключ подписи есть только у сервера, клиенту нужен лишь срок действия.
func ParseAccessToken(token string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	return claims, nil
}

// Expired сообщает, истек ли токен к моменту now.
// Токен без exp считается бессрочным.
func (c *AccessClaims) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && !now.Before(c.ExpiresAt.Time)
}
