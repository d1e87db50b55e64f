// bridge — локальный HTTP-мост между фронтендом (webview) и командами бэкенда.
package bridge

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pribylovaa/shopping-assistant/internal/bridge/middleware"
	"github.com/pribylovaa/shopping-assistant/internal/tray"
)

// Invoker — поверхность команд (commands.Surface).
type Invoker interface {
	Invoke(ctx context.Context, name string, args json.RawMessage) (any, error)
	Names() []string
}

// TrayHandler — обработчик событий трея (tray.Controller).
type TrayHandler interface {
	Handle(ctx context.Context, ev tray.Event) error
}

// Options — параметры сборки роутера моста.
type Options struct {
	Logger  *slog.Logger
	Secret  string        // пустой — без проверки Authorization
	Timeout time.Duration // <= 0 — без дедлайна
}

// NewRouter собирает chi-роутер моста и оборачивает его цепочкой middleware.
// Цепочка стоит снаружи роутера, поэтому 404/405 от chi тоже логируются
// и проходят проверку секрета.
func NewRouter(cmds Invoker, tr TrayHandler, opts Options) http.Handler {
	r := chi.NewRouter()
	h := &handlers{commands: cmds, tray: tr}

	r.Post("/invoke/{command}", h.Invoke)
	r.Get("/commands", h.ListCommands)

	r.Route("/tray", func(r chi.Router) {
		r.Get("/menu", h.TrayMenu)
		r.Post("/click", h.TrayClick)
		r.Post("/menu/{id}", h.TrayMenuClick)
	})

	return middleware.Chain(r,
		middleware.Recover(opts.Logger),
		middleware.RequestID(),
		middleware.Logging(opts.Logger),
		middleware.BridgeAuth(opts.Secret),
		middleware.Timeout(opts.Timeout),
	)
}
