// Package session turns a bearer credential into an explicit session
// context. Tokens are issued and stored by the authentication service; this
// service only verifies them and never keeps ambient global user state.
package session

import (
	"errors"
	"strings"
	"time"

	"dinedesk-pos-service/internal/order"

	"github.com/golang-jwt/jwt/v5"
)

// ErrSessionExpired covers every credential failure that should force the
// operator back through the authentication collaborator.
var ErrSessionExpired = errors.New("session expired or invalid")

type Claims struct {
	UserID    string `json:"userId"`
	SessionID string `json:"sessionId"`
	Name      string `json:"name"`
	ShopID    string `json:"shopId"`
	ShopType  string `json:"shop_type"`
	jwt.RegisteredClaims
}

// Context is the authenticated identity passed explicitly to every operation
// that needs it.
type Context struct {
	UserID    string
	SessionID string
	Name      string
	ShopID    string
	ShopType  order.ShopType
	Token     string
}

func ParseBearerToken(authHeader string) string {
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// Verify validates the HS256 access token and builds the session context.
// The raw token is retained so upstream calls can present the same
// credential the operator logged in with.
func Verify(tokenString string, secret string) (*Context, error) {
	if tokenString == "" {
		return nil, ErrSessionExpired
	}

	claims := &Claims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{"HS256"}))
	_, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, ErrSessionExpired
	}

	if claims.ExpiresAt == nil || claims.ExpiresAt.Time.Before(time.Now()) {
		return nil, ErrSessionExpired
	}

	shopType, err := order.ParseShopType(claims.ShopType)
	if err != nil {
		return nil, err
	}

	return &Context{
		UserID:    claims.UserID,
		SessionID: claims.SessionID,
		Name:      claims.Name,
		ShopID:    claims.ShopID,
		ShopType:  shopType,
		Token:     tokenString,
	}, nil
}
