// apiclient — тонкий прокси к внешнему REST API shopping-assistant.
//
// Особенности:
//   - каждый вызов независим: без ретраев, бэкоффа и кэша;
//   - таймаут не задаётся, если он явно не указан в Options;
//   - Authorization: Bearer <token> добавляется на verify и watchers.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/pribylovaa/shopping-assistant/internal/metrics"
	"github.com/pribylovaa/shopping-assistant/internal/models"
)

const (
	loginPath    = "/auth/login"
	verifyPath   = "/auth/verify"
	watchersPath = "/watchers"
)

// TokenSource — откуда ListWatchers берёт текущий токен (keychain.TokenStore).
type TokenSource interface {
	Retrieve(ctx context.Context) (token string, ok bool, err error)
}

// Options — параметры исходящего транспорта.
type Options struct {
	UserAgent string
	Timeout   time.Duration // <= 0 — без таймаута
	Logger    *slog.Logger
	Metrics   *metrics.Metrics
	Transport http.RoundTripper // nil — http.DefaultTransport
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
}

// New собирает клиент с цепочкой транспорта: headers -> timeout -> logging -> metrics.
func New(baseURL string, tokens TokenSource, opts Options) *Client {
	base := opts.Transport
	if base == nil {
		base = http.DefaultTransport
	}

	rt := Chain(base,
		WithHeaders(opts.UserAgent),
		WithTimeout(opts.Timeout),
		WithLogging(opts.Logger),
		WithMetrics(opts.Metrics),
	)

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Transport: rt},
		tokens:     tokens,
	}
}

// Login выполняет вход по email+пароль.
// Неуспешный статус -> ErrAuth с сырым телом ответа в тексте ошибки.
func (c *Client) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	const op = "apiclient.Login"

	resp, err := c.do(ctx, http.MethodPost, loginPath, nil, models.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		text, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%s: %w", op, &Error{
			Kind:       ErrAuth,
			StatusCode: resp.StatusCode,
			Message:    "login failed: " + string(text),
		})
	}

	var out models.LoginResponse
	if err := decode(resp.Body, &out); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &out, nil
}

// VerifyToken спрашивает сервер о валидности токена.
// Тело неуспешного ответа наружу не отдаётся.
func (c *Client) VerifyToken(ctx context.Context, token string) (*models.VerifyResponse, error) {
	const op = "apiclient.VerifyToken"

	resp, err := c.do(ctx, http.MethodGet, verifyPath, &token, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return nil, fmt.Errorf("%s: %w", op, &Error{
			Kind:       ErrAuth,
			StatusCode: resp.StatusCode,
			Message:    "token verification failed",
		})
	}

	var out models.VerifyResponse
	if err := decode(resp.Body, &out); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &out, nil
}

// ListWatchers возвращает watchers пользователя, чей токен лежит в хранилище.
// Без токена сеть не трогается.
func (c *Client) ListWatchers(ctx context.Context) ([]models.Watcher, error) {
	const op = "apiclient.ListWatchers"

	token, ok, err := c.tokens.Retrieve(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, &Error{
			Kind:    ErrNotAuthenticated,
			Message: "no token found",
		})
	}

	resp, err := c.do(ctx, http.MethodGet, watchersPath, &token, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return nil, fmt.Errorf("%s: %w", op, &Error{
			Kind:       ErrFetch,
			StatusCode: resp.StatusCode,
			Message:    "failed to fetch watchers",
		})
	}

	var out models.WatchersResponse
	if err := decode(resp.Body, &out); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out.Items, nil
}

// do отправляет запрос; ошибки сети оборачиваются в Error{Kind: ErrTransport}.
// token != nil — авторизованный вызов: Bearer уходит всегда, даже с пустым токеном.
func (c *Client) do(ctx context.Context, method, path string, token *string, body any) (*http.Response, error) {
	var rdr io.Reader
	if body != nil {
		var buf bytes.Buffer
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
		rdr = &buf
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != nil {
		req.Header.Set("Authorization", "Bearer "+*token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Kind: ErrTransport, Message: "request failed", Err: err}
	}

	return resp, nil
}

// decode разбирает тело ответа; отсутствие обязательных полей
// (models.ErrMissingField) тоже считается ErrDecode.
func decode(r io.Reader, out any) error {
	if err := json.NewDecoder(r).Decode(out); err != nil {
		return &Error{Kind: ErrDecode, Message: "unexpected response from server", Err: err}
	}

	return nil
}

func isSuccess(code int) bool { return code >= 200 && code < 300 }
