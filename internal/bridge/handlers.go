package bridge

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/pribylovaa/shopping-assistant/internal/errors"
	"github.com/pribylovaa/shopping-assistant/internal/tray"
)

// maxArgsBytes — предел тела вызова команды.
const maxArgsBytes = 1 << 20

type handlers struct {
	commands Invoker
	tray     TrayHandler
}

// InvokeResponse — успешный результат команды; Data == null для команд без результата.
type InvokeResponse struct {
	Data any `json:"data"`
}

type CommandsResponse struct {
	Commands []string `json:"commands"`
}

// writeJSON — единый ответ JSON с нужным Content-Type.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func (h *handlers) Invoke(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "command")

	args, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxArgsBytes))
	if err != nil {
		apierrors.WriteError(w, fmt.Errorf("%w: %v", apierrors.ErrInvalidArguments, err))
		return
	}

	out, err := h.commands.Invoke(r.Context(), name, args)
	if err != nil {
		apierrors.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, InvokeResponse{Data: out})
}

func (h *handlers) ListCommands(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, CommandsResponse{Commands: h.commands.Names()})
}

func (h *handlers) TrayMenu(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, tray.Menu())
}

func (h *handlers) TrayClick(w http.ResponseWriter, r *http.Request) {
	h.handleTray(w, r, tray.Event{Type: tray.LeftClick})
}

func (h *handlers) TrayMenuClick(w http.ResponseWriter, r *http.Request) {
	h.handleTray(w, r, tray.Event{Type: tray.MenuItemClick, ItemID: chi.URLParam(r, "id")})
}

func (h *handlers) handleTray(w http.ResponseWriter, r *http.Request, ev tray.Event) {
	if err := h.tray.Handle(r.Context(), ev); err != nil {
		apierrors.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
