// commands — поверхность команд, которые вызывает фронтенд.
//
// Каждая команда — тонкий адаптер над хранилищем токена, API-клиентом
// или флагом сессии; никакой бизнес-логики и валидации, кроме разбора
// аргументов.
package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"time"

	apierrors "github.com/pribylovaa/shopping-assistant/internal/errors"
	"github.com/pribylovaa/shopping-assistant/internal/metrics"
	"github.com/pribylovaa/shopping-assistant/internal/models"
	"github.com/pribylovaa/shopping-assistant/internal/pkg/log"
	"github.com/pribylovaa/shopping-assistant/internal/pkg/redact"
)

// Имена команд — полный набор, доступный фронтенду.
const (
	StoreToken      = "store_token"
	GetToken        = "get_token"
	ClearToken      = "clear_token"
	Login           = "login"
	VerifyToken     = "verify_token"
	GetWatchers     = "get_watchers"
	StartMonitoring = "start_monitoring"
	StopMonitoring  = "stop_monitoring"
	IsMonitoring    = "is_monitoring"
)

// TokenStore — хранилище access-токена (keychain.TokenStore).
type TokenStore interface {
	Store(ctx context.Context, token string) error
	Retrieve(ctx context.Context) (string, bool, error)
	Clear(ctx context.Context) error
}

// API — внешний REST API (apiclient.Client).
type API interface {
	Login(ctx context.Context, email, password string) (*models.LoginResponse, error)
	VerifyToken(ctx context.Context, token string) (*models.VerifyResponse, error)
	ListWatchers(ctx context.Context) ([]models.Watcher, error)
}

// Session — флаг мониторинга (session.State).
type Session interface {
	Start()
	Stop()
	IsMonitoring() bool
}

// Handler обрабатывает одну команду; args — JSON-объект аргументов (может быть пустым).
type Handler func(ctx context.Context, args json.RawMessage) (any, error)

type Surface struct {
	handlers map[string]Handler
	metrics  *metrics.Metrics
}

// New регистрирует все команды поверх переданных зависимостей.
func New(tokens TokenStore, api API, sess Session, m *metrics.Metrics) *Surface {
	s := &Surface{
		handlers: make(map[string]Handler, 9),
		metrics:  m,
	}

	s.Register(StoreToken, func(ctx context.Context, raw json.RawMessage) (any, error) {
		var in models.TokenArgs
		if err := decodeArgs(raw, &in); err != nil {
			return nil, err
		}
		return nil, tokens.Store(ctx, in.Token)
	})

	s.Register(GetToken, func(ctx context.Context, _ json.RawMessage) (any, error) {
		token, ok, err := tokens.Retrieve(ctx)
		if err != nil || !ok {
			return nil, err
		}
		return &token, nil
	})

	s.Register(ClearToken, func(ctx context.Context, _ json.RawMessage) (any, error) {
		return nil, tokens.Clear(ctx)
	})

	s.Register(Login, func(ctx context.Context, raw json.RawMessage) (any, error) {
		var in models.LoginArgs
		if err := decodeArgs(raw, &in); err != nil {
			return nil, err
		}
		log.From(ctx).Debug("login_attempt",
			slog.String("email", redact.Email(in.Email)),
			slog.String("password", redact.Password()),
		)
		return api.Login(ctx, in.Email, in.Password)
	})

	s.Register(VerifyToken, func(ctx context.Context, raw json.RawMessage) (any, error) {
		var in models.TokenArgs
		if err := decodeArgs(raw, &in); err != nil {
			return nil, err
		}
		return api.VerifyToken(ctx, in.Token)
	})

	s.Register(GetWatchers, func(ctx context.Context, _ json.RawMessage) (any, error) {
		return api.ListWatchers(ctx)
	})

	s.Register(StartMonitoring, func(context.Context, json.RawMessage) (any, error) {
		sess.Start()
		return nil, nil
	})

	s.Register(StopMonitoring, func(context.Context, json.RawMessage) (any, error) {
		sess.Stop()
		return nil, nil
	})

	s.Register(IsMonitoring, func(context.Context, json.RawMessage) (any, error) {
		return sess.IsMonitoring(), nil
	})

	return s
}

// Register добавляет (или заменяет) обработчик команды.
func (s *Surface) Register(name string, h Handler) {
	s.handlers[name] = h
}

// Names — отсортированный список зарегистрированных команд.
func (s *Surface) Names() []string {
	names := make([]string, 0, len(s.handlers))
	for name := range s.handlers {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// Invoke выполняет команду name. Ошибка приводится к строке на границе моста
// (apierrors.ToMessage); здесь она только логируется и считается в метриках.
func (s *Surface) Invoke(ctx context.Context, name string, args json.RawMessage) (any, error) {
	h, ok := s.handlers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apierrors.ErrUnknownCommand, name)
	}

	ctx, l := log.With(ctx, slog.String("command", name))

	start := time.Now()
	out, err := h(ctx, args)
	dur := time.Since(start)

	kind := apierrors.Kind(err)
	s.metrics.ObserveCommand(name, kind, dur)

	if err != nil {
		l.Warn("command", slog.String("outcome", kind), slog.Duration("dur", dur), slog.String("err", err.Error()))
		return nil, err
	}

	l.Info("command", slog.String("outcome", kind), slog.Duration("dur", dur))
	return out, nil
}

// decodeArgs — строгий разбор аргументов: неизвестные поля запрещены,
// пустое тело означает «без аргументов».
func decodeArgs(raw json.RawMessage, out any) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("%w: %v", apierrors.ErrInvalidArguments, err)
	}

	return nil
}
