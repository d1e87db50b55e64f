package apiclient

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/shopping-assistant/internal/metrics"
	"github.com/pribylovaa/shopping-assistant/internal/pkg/log"
)

// capHandler — тестовый slog.Handler: копит атрибуты последней записи.
type capHandler struct {
	base    []slog.Attr
	lastMsg string
	lastLvl slog.Level
	attrs   map[string]any
	count   map[string]int
}

func (h *capHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *capHandler) Handle(_ context.Context, r slog.Record) error {
	out := make(map[string]any, len(h.base)+8)
	for _, a := range h.base {
		out[a.Key] = a.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		out[a.Key] = a.Value.Any()
		return true
	})
	if h.count == nil {
		h.count = make(map[string]int)
	}
	h.count[r.Message]++
	h.lastMsg = r.Message
	h.lastLvl = r.Level
	h.attrs = out
	return nil
}

func (h *capHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	h.base = append(h.base, attrs...)
	return h
}

func (h *capHandler) WithGroup(string) slog.Handler { return h }

// okTransport отвечает 200 и отдаёт запрос наружу для проверок.
func okTransport(seen **http.Request) http.RoundTripper {
	return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		*seen = r
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader("ok")),
			Header:     make(http.Header),
			Request:    r,
		}, nil
	})
}

func newReq(t *testing.T, ctx context.Context) *http.Request {
	t.Helper()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://api.local/api/watchers", nil)
	require.NoError(t, err)
	return req
}

func TestChain_Order(t *testing.T) {
	t.Parallel()

	var order []string
	mw := func(name string) Middleware {
		return func(next http.RoundTripper) http.RoundTripper {
			return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
				order = append(order, name)
				return next.RoundTrip(r)
			})
		}
	}

	var seen *http.Request
	rt := Chain(okTransport(&seen), mw("m1"), mw("m2"))
	_, err := rt.RoundTrip(newReq(t, context.Background()))
	require.NoError(t, err)
	require.Equal(t, []string{"m1", "m2"}, order)
}

func TestWithHeaders_RequestIDFromContext(t *testing.T) {
	t.Parallel()

	var seen *http.Request
	rt := WithHeaders("desktop-test")(okTransport(&seen))

	ctx := context.WithValue(context.Background(), CtxRequestID, "rid-123")
	req := newReq(t, ctx)
	_, err := rt.RoundTrip(req)
	require.NoError(t, err)

	require.Equal(t, "rid-123", seen.Header.Get("X-Request-Id"))
	require.Equal(t, "desktop-test", seen.Header.Get("User-Agent"))
	// исходный запрос не модифицируется.
	require.Empty(t, req.Header.Get("X-Request-Id"))
}

func TestWithHeaders_GeneratesUUID(t *testing.T) {
	t.Parallel()

	var seen *http.Request
	rt := WithHeaders("")(okTransport(&seen))

	_, err := rt.RoundTrip(newReq(t, context.Background()))
	require.NoError(t, err)

	_, parseErr := uuid.Parse(seen.Header.Get("X-Request-Id"))
	require.NoError(t, parseErr)
}

func TestWithTimeout_SetsDeadline_BodyStillReadable(t *testing.T) {
	t.Parallel()

	var seen *http.Request
	rt := WithTimeout(time.Second)(okTransport(&seen))

	resp, err := rt.RoundTrip(newReq(t, context.Background()))
	require.NoError(t, err)

	_, ok := seen.Context().Deadline()
	require.True(t, ok)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, "ok", string(body))
	require.NoError(t, resp.Body.Close())

	// после Close контекст запроса отменён.
	require.ErrorIs(t, seen.Context().Err(), context.Canceled)
}

func TestWithTimeout_ZeroDuration_PassThrough(t *testing.T) {
	t.Parallel()

	var seen *http.Request
	rt := WithTimeout(0)(okTransport(&seen))

	_, err := rt.RoundTrip(newReq(t, context.Background()))
	require.NoError(t, err)

	_, ok := seen.Context().Deadline()
	require.False(t, ok, "no deadline expected when d <= 0")
}

func TestWithTimeout_DoesNotOverrideExistingDeadline(t *testing.T) {
	t.Parallel()

	parent, cancel := context.WithTimeout(context.Background(), 25*time.Millisecond)
	defer cancel()
	parentDL, _ := parent.Deadline()

	var seen *http.Request
	rt := WithTimeout(time.Second)(okTransport(&seen))

	_, err := rt.RoundTrip(newReq(t, parent))
	require.NoError(t, err)

	childDL, ok := seen.Context().Deadline()
	require.True(t, ok)
	require.WithinDuration(t, parentDL, childDL, time.Millisecond)
}

func TestWithLogging_WritesRecord_AndPutsLoggerIntoContext(t *testing.T) {
	t.Parallel()

	h := &capHandler{}
	base := slog.New(h)

	next := RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		log.From(r.Context()).Info("inner")
		return &http.Response{StatusCode: http.StatusTeapot, Body: http.NoBody, Header: make(http.Header)}, nil
	})

	req := newReq(t, context.Background())
	req.Header.Set("X-Request-Id", "rid-9")
	req.Header.Set("Authorization", "Bearer secret")

	_, err := WithLogging(base)(next).RoundTrip(req)
	require.NoError(t, err)

	require.Equal(t, 1, h.count["inner"])
	require.Equal(t, "api", h.lastMsg)
	require.Equal(t, slog.LevelInfo, h.lastLvl)
	require.Equal(t, "rid-9", h.attrs["request_id"])
	require.Equal(t, "/api/watchers", h.attrs["path"])
	require.EqualValues(t, http.StatusTeapot, h.attrs["status"])
	require.Equal(t, "Bearer [REDACTED_TOKEN]", h.attrs["auth"])

	for _, v := range h.attrs {
		if s, ok := v.(string); ok {
			require.NotContains(t, s, "secret")
		}
	}
}

func TestWithMetrics_CountsRequests(t *testing.T) {
	t.Parallel()

	m := metrics.New(prometheus.NewRegistry())
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	c := New(srv.URL+"/api", staticToken("t"), Options{Logger: silentLogger(), Metrics: m})
	_, err := c.ListWatchers(context.Background())
	require.ErrorIs(t, err, ErrFetch)

	require.Equal(t, 1.0, testutil.ToFloat64(m.APIRequestsTotal.WithLabelValues("GET", "/api/watchers", "404")))
}

func TestWithLogging_NoAuthorization_NoAuthAttr(t *testing.T) {
	t.Parallel()

	h := &capHandler{}
	next := RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody, Header: make(http.Header)}, nil
	})

	_, err := WithLogging(slog.New(h))(next).RoundTrip(newReq(t, context.Background()))
	require.NoError(t, err)

	_, hasAuth := h.attrs["auth"]
	require.False(t, hasAuth)
}
