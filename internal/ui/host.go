package ui

import (
	"errors"
	"fmt"
	"image"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/ownerdraw-menu/internal/menu"
	"github.com/atomicstack/ownerdraw-menu/internal/placement"
	"github.com/atomicstack/ownerdraw-menu/internal/popup"
)

var _ popup.Host = (*Model)(nil)

var errNoScreen = errors.New("terminal size unknown")

// screen is the whole terminal; the last row holds the status line.
func (m *Model) screen() image.Rectangle {
	return image.Rect(0, 0, m.width, m.height)
}

func (m *Model) playerArea() image.Rectangle {
	return image.Rect(0, 0, m.width, max(m.height-1, 0))
}

// Monitors reports the terminal as a single monitor whose work area leaves
// the status line free.
func (m *Model) Monitors() []placement.Monitor {
	return []placement.Monitor{{Bounds: m.screen(), Work: m.playerArea()}}
}

func (m *Model) OwnerBounds() image.Rectangle { return m.playerArea() }

// Capture routes all pointer input to the popup. Bubble Tea already
// delivers every mouse event to the model, so this only needs a usable
// screen.
func (m *Model) Capture() error {
	if m.width <= 0 || m.height <= 1 {
		return errNoScreen
	}
	m.captured = true
	return nil
}

func (m *Model) ReleaseCapture() { m.captured = false }

func (m *Model) Show(id menu.ID, bounds image.Rectangle) error {
	if !bounds.In(m.screen()) {
		return fmt.Errorf("%v does not fit the %dx%d terminal", bounds, m.width, m.height)
	}
	for i := range m.shown {
		if m.shown[i].id == id {
			m.shown[i].bounds = bounds
			return nil
		}
	}
	m.shown = append(m.shown, shownMenu{id: id, bounds: bounds})
	return nil
}

func (m *Model) Hide(id menu.ID) {
	for i := range m.shown {
		if m.shown[i].id == id {
			m.shown = append(m.shown[:i], m.shown[i+1:]...)
			return
		}
	}
}

// Invalidate is a no-op: View repaints every visible menu on each frame.
func (m *Model) Invalidate(menu.ID, image.Rectangle) {}

func (m *Model) Schedule(after time.Duration, tok menu.TimerToken) {
	m.cmds = append(m.cmds, tea.Tick(after, func(time.Time) tea.Msg {
		return timerMsg{Token: tok}
	}))
}

// Redeliver queues a dismissing press for the player surface once the
// popup has fully closed.
func (m *Model) Redeliver(ev menu.PointerDown) {
	m.redeliver = append(m.redeliver, ev)
}

func (m *Model) Dispatch(ev menu.Event) {
	fwd, ok := ev.(menu.Foreign)
	if !ok {
		return
	}
	if size, ok := fwd.Payload.(tea.WindowSizeMsg); ok {
		m.resized = &size
	}
}
