package tray

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeWindow struct {
	calls   []string
	showErr error
}

func (w *fakeWindow) Show() error {
	w.calls = append(w.calls, "show")
	return w.showErr
}

func (w *fakeWindow) SetFocus() error {
	w.calls = append(w.calls, "focus")
	return nil
}

func TestMenu_StableIDs(t *testing.T) {
	t.Parallel()

	require.Equal(t, []MenuItem{
		{ID: "show", Title: "Show Window"},
		{ID: "quit", Title: "Quit"},
	}, Menu())
}

func TestHandle(t *testing.T) {
	t.Parallel()

	tcs := []struct {
		name      string
		ev        Event
		wantCalls []string
		wantQuit  bool
	}{
		{"left_click", Event{Type: LeftClick}, []string{"show", "focus"}, false},
		{"menu_show", Event{Type: MenuItemClick, ItemID: MenuShow}, []string{"show", "focus"}, false},
		{"menu_quit", Event{Type: MenuItemClick, ItemID: MenuQuit}, nil, true},
		{"menu_unknown", Event{Type: MenuItemClick, ItemID: "settings"}, nil, false},
		{"unknown_type", Event{Type: EventType(42)}, nil, false},
	}

	for _, tc := range tcs {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			w := &fakeWindow{}
			quit := false
			c := New(w, func() { quit = true })

			require.NoError(t, c.Handle(context.Background(), tc.ev))
			require.Equal(t, tc.wantCalls, w.calls)
			require.Equal(t, tc.wantQuit, quit)
		})
	}
}

func TestHandle_ShowError_NoFocus(t *testing.T) {
	t.Parallel()

	w := &fakeWindow{showErr: errors.New("no display")}
	c := New(w, func() {})

	err := c.Handle(context.Background(), Event{Type: LeftClick})
	require.ErrorContains(t, err, "no display")
	require.Equal(t, []string{"show"}, w.calls)
}
