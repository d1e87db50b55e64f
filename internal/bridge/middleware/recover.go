package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"

	apierrors "github.com/pribylovaa/shopping-assistant/internal/errors"
)

// Recover превращает panic команды в 500 {"error":"internal error"}.
// Причина и стек уходят только в лог; http.ErrAbortHandler пробрасывается дальше.
func Recover(l *slog.Logger) Middleware {
	if l == nil {
		l = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rec)
				}

				// RequestID стоит глубже и успевает выставить заголовок ответа.
				l.LogAttrs(r.Context(), slog.LevelError, "bridge_panic",
					slog.String("request_id", w.Header().Get(headerRequestID)),
					slog.String("path", r.URL.Path),
					slog.Any("reason", rec),
					slog.String("stack", string(debug.Stack())),
				)
				apierrors.WriteError(w, apierrors.ErrInternal)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
