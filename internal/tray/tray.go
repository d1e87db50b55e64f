// tray — реакция на события системного трея.
//
// Сам трей и окно живут в нативной оболочке; здесь только
// контракт: показать/сфокусировать главное окно и завершить процесс.
package tray

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pribylovaa/shopping-assistant/internal/pkg/log"
)

// Идентификаторы пунктов меню трея.
const (
	MenuShow = "show"
	MenuQuit = "quit"
)

// MenuItem — пункт меню трея.
type MenuItem struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Menu возвращает меню трея в порядке отображения.
func Menu() []MenuItem {
	return []MenuItem{
		{ID: MenuShow, Title: "Show Window"},
		{ID: MenuQuit, Title: "Quit"},
	}
}

// Window — главное окно приложения.
type Window interface {
	Show() error
	SetFocus() error
}

type EventType int

const (
	LeftClick EventType = iota + 1
	MenuItemClick
)

// Event — событие трея; ItemID заполнен для MenuItemClick.
type Event struct {
	Type   EventType
	ItemID string
}

type Controller struct {
	window Window
	quit   func()
}

// New — quit вызывается на пункт "Quit" (обычно отмена корневого контекста).
func New(window Window, quit func()) *Controller {
	return &Controller{window: window, quit: quit}
}

// Handle обрабатывает событие. Неизвестные события игнорируются.
func (c *Controller) Handle(ctx context.Context, ev Event) error {
	switch {
	case ev.Type == LeftClick:
		return c.showMain(ctx)
	case ev.Type == MenuItemClick && ev.ItemID == MenuShow:
		return c.showMain(ctx)
	case ev.Type == MenuItemClick && ev.ItemID == MenuQuit:
		log.From(ctx).Info("quit_requested")
		c.quit()
		return nil
	default:
		log.From(ctx).Debug("tray_event_ignored", slog.Int("type", int(ev.Type)), slog.String("item", ev.ItemID))
		return nil
	}
}

func (c *Controller) showMain(ctx context.Context) error {
	const op = "tray.showMain"

	if err := c.window.Show(); err != nil {
		return fmt.Errorf("%s: show: %w", op, err)
	}
	if err := c.window.SetFocus(); err != nil {
		return fmt.Errorf("%s: focus: %w", op, err)
	}

	log.From(ctx).Debug("window_shown")
	return nil
}
