package session

import (
	"errors"
	"testing"
	"time"

	"dinedesk-pos-service/internal/order"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func signTestToken(t *testing.T, secret string, mutate func(*Claims)) string {
	t.Helper()

	claims := &Claims{
		UserID:    "u-1",
		SessionID: "s-1",
		Name:      "Asha",
		ShopID:    "shop-1",
		ShopType:  "RESTAURANT",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	if mutate != nil {
		mutate(claims)
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestParseBearerToken(t *testing.T) {
	cases := []struct {
		name   string
		header string
		want   string
	}{
		{name: "standard bearer", header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{name: "lowercase scheme", header: "bearer abc.def.ghi", want: "abc.def.ghi"},
		{name: "missing scheme", header: "abc.def.ghi", want: ""},
		{name: "wrong scheme", header: "Basic abc", want: ""},
		{name: "empty header", header: "", want: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ParseBearerToken(tc.header); got != tc.want {
				t.Fatalf("ParseBearerToken(%q) = %q, want %q", tc.header, got, tc.want)
			}
		})
	}
}

func TestVerifyBuildsSessionContext(t *testing.T) {
	token := signTestToken(t, testSecret, nil)

	sess, err := Verify(token, testSecret)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if sess.SessionID != "s-1" || sess.UserID != "u-1" || sess.ShopID != "shop-1" {
		t.Fatalf("unexpected session identity: %+v", sess)
	}
	if sess.ShopType != order.ShopRestaurant {
		t.Fatalf("shop type = %q, want %q", sess.ShopType, order.ShopRestaurant)
	}
	if sess.Token != token {
		t.Fatal("raw token not retained on session context")
	}
}

func TestVerifyRejectsBadCredentials(t *testing.T) {
	cases := []struct {
		name  string
		token string
	}{
		{name: "empty token", token: ""},
		{name: "garbage token", token: "not-a-jwt"},
		{name: "wrong secret", token: signTestToken(t, "other-secret", nil)},
		{name: "expired token", token: signTestToken(t, testSecret, func(c *Claims) {
			c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
		})},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Verify(tc.token, testSecret); !errors.Is(err, ErrSessionExpired) {
				t.Fatalf("Verify error = %v, want ErrSessionExpired", err)
			}
		})
	}
}

func TestVerifyRejectsUnknownShopType(t *testing.T) {
	token := signTestToken(t, testSecret, func(c *Claims) {
		c.ShopType = "LAUNDRY"
	})

	_, err := Verify(token, testSecret)
	var oerr *order.Error
	if !errors.As(err, &oerr) || oerr.Code != order.ErrShopTypeUnknown {
		t.Fatalf("Verify error = %v, want %s", err, order.ErrShopTypeUnknown)
	}
}
