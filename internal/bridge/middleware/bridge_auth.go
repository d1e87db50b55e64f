package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	apierrors "github.com/pribylovaa/shopping-assistant/internal/errors"
)

// BridgeAuth пропускает только запросы с Authorization: Bearer <secret>.
// Пустой secret отключает проверку.
func BridgeAuth(secret string) Middleware {
	return func(next http.Handler) http.Handler {
		if secret == "" {
			return next
		}

		want := []byte(secret)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const prefix = "Bearer "

			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, prefix) {
				apierrors.WriteError(w, apierrors.ErrUnauthorized)
				return
			}

			got := []byte(strings.TrimSpace(auth[len(prefix):]))
			if subtle.ConstantTimeCompare(got, want) != 1 {
				apierrors.WriteError(w, apierrors.ErrUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
