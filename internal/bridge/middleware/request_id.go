package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/pribylovaa/shopping-assistant/internal/apiclient"
)

const headerRequestID = "X-Request-Id"

// maxRequestIDLen — id фронтенда длиннее этого заменяется своим.
const maxRequestIDLen = 64

// RequestID принимает X-Request-Id от webview или выдаёт uuid.
// Id попадает в ответ и в контекст (apiclient.CtxRequestID), откуда его
// берут лог моста и исходящий запрос к API.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(headerRequestID)
			if !validRequestID(id) {
				id = uuid.NewString()
			}

			w.Header().Set(headerRequestID, id)
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), apiclient.CtxRequestID, id)))
		})
	}
}

// RequestIDFrom возвращает id текущего вызова или "".
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(apiclient.CtxRequestID).(string)
	return id
}

// validRequestID: непустой, не длиннее maxRequestIDLen, только [A-Za-z0-9._-].
func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '-', c == '_', c == '.':
		default:
			return false
		}
	}
	return true
}
