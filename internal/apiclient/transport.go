package apiclient

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pribylovaa/shopping-assistant/internal/metrics"
	"github.com/pribylovaa/shopping-assistant/internal/pkg/log"
	"github.com/pribylovaa/shopping-assistant/internal/pkg/redact"
)

type CtxKey string

// CtxRequestID — ключ контекста, под которым мост кладёт X-Request-Id
// входящего вызова команды; уходит в исходящий запрос к API.
const CtxRequestID CtxKey = "request_id"

// RoundTripperFunc — адаптер функции к http.RoundTripper.
type RoundTripperFunc func(*http.Request) (*http.Response, error)

func (f RoundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

// Middleware — обёртка исходящего транспорта.
type Middleware func(http.RoundTripper) http.RoundTripper

// Chain применяет обёртки в порядке перечисления (первая — внешняя).
func Chain(rt http.RoundTripper, mws ...Middleware) http.RoundTripper {
	for i := len(mws) - 1; i >= 0; i-- {
		rt = mws[i](rt)
	}

	return rt
}

// WithHeaders добавляет в исходящий запрос:
//   - X-Request-Id (из контекста или новый uuid),
//   - User-Agent (если передан параметром).
func WithHeaders(userAgent string) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			r := req.Clone(req.Context())

			if r.Header.Get("X-Request-Id") == "" {
				rid, _ := r.Context().Value(CtxRequestID).(string)
				if rid == "" {
					rid = uuid.NewString()
				}
				r.Header.Set("X-Request-Id", rid)
			}
			if userAgent != "" {
				r.Header.Set("User-Agent", userAgent)
			}

			return next.RoundTrip(r)
		})
	}
}

// WithTimeout навешивает таймаут d на запрос, если у контекста ещё нет дедлайна.
// d <= 0 — no-op. Контекст отменяется при закрытии тела ответа.
func WithTimeout(d time.Duration) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		if d <= 0 {
			return next
		}

		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			if _, ok := req.Context().Deadline(); ok {
				return next.RoundTrip(req)
			}

			ctx, cancel := context.WithTimeout(req.Context(), d)
			resp, err := next.RoundTrip(req.WithContext(ctx))
			if err != nil {
				cancel()
				return nil, err
			}

			resp.Body = &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}
			return resp, nil
		})
	}
}

type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b *cancelOnClose) Close() error {
	err := b.ReadCloser.Close()
	b.cancel()
	return err
}

// WithLogging пишет одну запись "api" на каждый исходящий запрос:
// method, path, status, dur, request_id. Тела не логируются; вместо
// Authorization в записи только схема и заглушка токена.
func WithLogging(base *slog.Logger) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			l := base
			if l == nil {
				l = log.From(req.Context())
			}
			l = l.With(
				slog.String("request_id", req.Header.Get("X-Request-Id")),
				slog.String("method", req.Method),
				slog.String("path", req.URL.Path),
			)
			if auth := req.Header.Get("Authorization"); auth != "" {
				scheme, _, _ := strings.Cut(auth, " ")
				l = l.With(slog.String("auth", scheme+" "+redact.Token()))
			}

			start := time.Now()
			resp, err := next.RoundTrip(req.WithContext(log.Into(req.Context(), l)))
			dur := time.Since(start)

			if err != nil {
				l.Warn("api", slog.String("err", err.Error()), slog.Duration("dur", dur))
				return nil, err
			}

			l.Info("api", slog.Int("status", resp.StatusCode), slog.Duration("dur", dur))
			return resp, nil
		})
	}
}

// WithMetrics считает запросы и латентность; m == nil — no-op.
func WithMetrics(m *metrics.Metrics) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		if m == nil {
			return next
		}

		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			start := time.Now()
			resp, err := next.RoundTrip(req)

			status := 0
			if err == nil {
				status = resp.StatusCode
			}
			m.ObserveAPI(req.Method, req.URL.Path, status, time.Since(start))

			return resp, err
		})
	}
}
