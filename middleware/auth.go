package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"
)

type contextKey string

const ownerContextKey contextKey = "owner"

// Authenticate verifies the HS256 bearer token and stores the subject claim
// in the request context. Token issuance belongs to the auth provider; only
// verification happens here.
func Authenticate(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}
			raw := strings.TrimPrefix(header, "Bearer ")

			claims := jwt.MapClaims{}
			token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
				}
				return secret, nil
			})
			if err != nil || !token.Valid {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			subject, _ := claims["sub"].(string)
			if subject == "" {
				http.Error(w, "token missing subject", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), ownerContextKey, subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireOwner rejects tokens issued to anyone but the owner this process
// serves. The service holds a single user's state.
func RequireOwner(owner string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subject, err := OwnerFromContext(r.Context())
			if err != nil || subject != owner {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func OwnerFromContext(ctx context.Context) (string, error) {
	owner, ok := ctx.Value(ownerContextKey).(string)
	if !ok || owner == "" {
		return "", errors.New("owner not found in context")
	}
	return owner, nil
}
