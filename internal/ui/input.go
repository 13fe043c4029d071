package ui

import (
	"context"
	"image"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/ownerdraw-menu/internal/menu"
)

type keyMap struct {
	Quit  key.Binding
	Open  key.Binding
	Next  key.Binding
	Theme key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:  key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Open:  key.NewBinding(key.WithKeys("m", "enter", " "), key.WithHelp("m", "open menu")),
		Next:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch menu")),
		Theme: key.NewBinding(key.WithKeys("t", "ctrl+t"), key.WithHelp("t", "theme")),
	}
}

func (k keyMap) bindings() []key.Binding {
	return []key.Binding{k.Open, k.Next, k.Theme, k.Quit}
}

// menuKeys are the key names the session understands.
var menuKeys = map[string]string{
	"up":    "up",
	"down":  "down",
	"left":  "left",
	"right": "right",
	"enter": "enter",
	"esc":   "esc",
}

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	keyMsg := msg.(tea.KeyMsg)
	if m.run != nil {
		return m.handlePopupKey(keyMsg)
	}
	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		return tea.Quit
	case key.Matches(keyMsg, m.keys.Open):
		m.open(m.openPoint())
	case key.Matches(keyMsg, m.keys.Next):
		m.cycleTarget()
	case key.Matches(keyMsg, m.keys.Theme):
		m.toggleTheme()
	}
	return nil
}

func (m *Model) handlePopupKey(msg tea.KeyMsg) tea.Cmd {
	s := msg.String()
	if s == "ctrl+c" {
		m.run.Cancel(context.Canceled)
		m.endRun()
		return tea.Quit
	}
	if s == "ctrl+t" {
		m.toggleTheme()
		return nil
	}
	if name, ok := menuKeys[s]; ok {
		m.feed(menu.Key{Name: name})
		return nil
	}
	if msg.Type == tea.KeyRunes && len(msg.Runes) == 1 && !msg.Alt {
		m.feed(menu.Key{Rune: msg.Runes[0]})
	}
	return nil
}

// openPoint is where a keyboard-opened popup appears: the last pointer
// position, or just inside the top-left corner.
func (m *Model) openPoint() image.Point {
	if m.pointer != (image.Point{}) {
		return m.pointer
	}
	return image.Pt(1, 1)
}

func (m *Model) handleMouseMsg(msg tea.Msg) tea.Cmd {
	ev := msg.(tea.MouseMsg)
	p := image.Pt(ev.X, ev.Y)
	switch ev.Action {
	case tea.MouseActionMotion:
		m.pointer = p
		if m.run != nil {
			m.feed(menu.PointerMove{Point: p})
		}
	case tea.MouseActionPress:
		button, ok := buttonOf(ev.Button)
		if !ok {
			return nil
		}
		m.pressed = button
		if m.run != nil {
			m.feed(menu.PointerDown{Point: p, Button: button})
			return nil
		}
		m.ownerPress(menu.PointerDown{Point: p, Button: button})
	case tea.MouseActionRelease:
		button, ok := buttonOf(ev.Button)
		if !ok {
			// legacy mouse encodings do not say which button was released
			button = m.pressed
		}
		if m.run != nil {
			m.feed(menu.PointerUp{Point: p, Button: button})
			return nil
		}
		if button == menu.ButtonSecondary && p.In(m.OwnerBounds()) {
			m.open(p)
		}
	}
	return nil
}

func buttonOf(b tea.MouseButton) (menu.Button, bool) {
	switch b {
	case tea.MouseButtonLeft:
		return menu.ButtonPrimary, true
	case tea.MouseButtonRight:
		return menu.ButtonSecondary, true
	case tea.MouseButtonMiddle:
		return menu.ButtonMiddle, true
	}
	return 0, false
}
