package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"dinedesk-pos-service/internal/order"
	"dinedesk-pos-service/internal/session"
)

type contextKey string

const sessionContextKey contextKey = "sessionContext"

func WithSession(ctx context.Context, sess *session.Context) context.Context {
	return context.WithValue(ctx, sessionContextKey, sess)
}

func GetSession(ctx context.Context) (*session.Context, bool) {
	value := ctx.Value(sessionContextKey)
	if value == nil {
		return nil, false
	}
	sess, ok := value.(*session.Context)
	return sess, ok
}

func writeAuthError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"error":   code,
		"message": message,
	})
}

// SessionAuth verifies the bearer token and attaches the operator session to
// the request. An expired token is the signal to log back in, so it gets a
// dedicated code the terminal reacts to.
func SessionAuth(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := session.ParseBearerToken(r.Header.Get("Authorization"))
			sess, err := session.Verify(token, jwtSecret)
			if err != nil {
				if errors.Is(err, session.ErrSessionExpired) {
					writeAuthError(w, http.StatusUnauthorized, "SESSION_EXPIRED", "Session expired. Please log in again.")
					return
				}
				var oe *order.Error
				if errors.As(err, &oe) {
					writeAuthError(w, oe.StatusCode, string(oe.Code), oe.Message)
					return
				}
				writeAuthError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authorization token required")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))
		})
	}
}

// RequireRestaurant gates the POS and kitchen surfaces on the shop type.
// Other shop types are valid sessions but have no restaurant console.
func RequireRestaurant() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := GetSession(r.Context())
			if !ok {
				writeAuthError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authorization token required")
				return
			}
			if err := sess.ShopType.CheckSupported(); err != nil {
				var oe *order.Error
				if errors.As(err, &oe) {
					writeAuthError(w, oe.StatusCode, string(oe.Code), oe.Message)
					return
				}
				writeAuthError(w, http.StatusForbidden, "SHOP_TYPE_UNSUPPORTED", err.Error())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
