package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/pribylovaa/shopping-assistant/internal/pkg/log"
	"github.com/pribylovaa/shopping-assistant/internal/pkg/redact"
)

// Logging пишет запись "bridge_request" на каждый вызов моста и кладёт в
// контекст логгер с request_id. Уровень зависит от статуса: 5xx — Error,
// 4xx — Warn. Секрет моста в лог не попадает.
func Logging(l *slog.Logger) Middleware {
	if l == nil {
		l = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			reqLog := l
			if id := RequestIDFrom(ctx); id != "" {
				reqLog = reqLog.With(slog.String("request_id", id))
			}

			rec := &recorder{ResponseWriter: w}
			start := time.Now()
			next.ServeHTTP(rec, r.WithContext(log.Into(ctx, reqLog)))

			attrs := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", rec.status()),
				slog.Duration("dur", time.Since(start)),
				slog.Int("bytes", rec.written),
			}
			if r.Header.Get("Authorization") != "" {
				attrs = append(attrs, slog.String("auth", redact.Token()))
			}

			reqLog.LogAttrs(ctx, levelFor(rec.status()), "bridge_request", attrs...)
		})
	}
}

func levelFor(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
