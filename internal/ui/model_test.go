package ui

import (
	"image"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/ownerdraw-menu/internal/catalog"
	"github.com/atomicstack/ownerdraw-menu/internal/menu"
	"github.com/atomicstack/ownerdraw-menu/internal/stats"
	"github.com/atomicstack/ownerdraw-menu/internal/theme"
)

func newTestModel(t *testing.T, width, height int) (*Model, *theme.Registry) {
	t.Helper()
	themes := theme.NewRegistry(theme.StylesOpener(theme.DefaultPalette()), false)
	settings := catalog.DefaultSettings()
	settings.Theme = theme.ModeLight
	m, err := NewModel(Options{
		Width:    width,
		Height:   height,
		Menu:     catalog.LabelPlayer,
		Delay:    time.Millisecond,
		Layout:   menu.CellLayout(),
		Settings: settings,
		Themes:   themes,
		Stats:    stats.New(),
	})
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	t.Cleanup(func() { _ = m.Close() })
	return m, themes
}

func mouse(x, y int, action tea.MouseAction, button tea.MouseButton) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: action, Button: button}
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// rightClick opens the target menu at (x, y) the way a terminal reports it.
func rightClick(h *Harness, x, y int) {
	h.Send(mouse(x, y, tea.MouseActionPress, tea.MouseButtonRight))
	h.Send(mouse(x, y, tea.MouseActionRelease, tea.MouseButtonRight))
}

func click(h *Harness, p image.Point) {
	h.Send(mouse(p.X, p.Y, tea.MouseActionMotion, tea.MouseButtonNone))
	h.Send(mouse(p.X, p.Y, tea.MouseActionPress, tea.MouseButtonLeft))
	h.Send(mouse(p.X, p.Y, tea.MouseActionRelease, tea.MouseButtonLeft))
}

// itemPoint is a screen point inside item i of the menu shown at level lvl.
func itemPoint(m *Model, lvl, i int) image.Point {
	b := m.shown[lvl].bounds
	mm := m.active.Arena().Get(m.shown[lvl].id)
	return image.Pt(b.Min.X+3, b.Min.Y+mm.Item(i).Top())
}

func TestRightClickOpensTargetMenu(t *testing.T) {
	m, _ := newTestModel(t, 80, 24)
	h := NewHarness(m)
	rightClick(h, 10, 2)

	if !m.Active() || len(m.shown) != 1 {
		t.Fatalf("expected the player menu shown, got %v", m.shown)
	}
	if got := m.shown[0].bounds.Min; got != image.Pt(10, 2) {
		t.Fatalf("expected menu at the click, got %v", got)
	}
	if !m.captured {
		t.Fatalf("expected pointer captured")
	}
	if view := h.View(); !strings.Contains(view, "Playback Speed") || !strings.Contains(view, "Now Playing") {
		t.Fatalf("expected menu painted over the player, got:\n%s", view)
	}
}

func TestClickCheckboxUpdatesSettings(t *testing.T) {
	m, _ := newTestModel(t, 80, 24)
	h := NewHarness(m)
	rightClick(h, 10, 2)
	click(h, itemPoint(m, 0, m.Menu(catalog.LabelPlayer).Find(catalog.FitToWindow)))

	if m.Active() || m.captured || len(m.shown) != 0 {
		t.Fatalf("expected popup closed and capture released")
	}
	if !m.Settings().FitToWindow {
		t.Fatalf("expected fit to window enabled")
	}
	if m.Status() != "selected Fit To Window" {
		t.Fatalf("unexpected status %q", m.Status())
	}
}

func TestHoverOpensSubmenuAfterDelay(t *testing.T) {
	m, _ := newTestModel(t, 80, 24)
	h := NewHarness(m)
	rightClick(h, 10, 2)

	p := itemPoint(m, 0, 0)
	h.Send(mouse(p.X, p.Y, tea.MouseActionMotion, tea.MouseButtonNone))
	if len(m.shown) != 2 {
		t.Fatalf("expected playback speed submenu shown, got %v", m.shown)
	}
	if m.shown[1].bounds.Min.X < m.shown[0].bounds.Max.X-1 {
		t.Fatalf("expected submenu beside its parent, got %v vs %v", m.shown[1].bounds, m.shown[0].bounds)
	}

	click(h, itemPoint(m, 1, 5))
	if got := m.Settings().PlaybackSpeed; got != 1.5 {
		t.Fatalf("expected playback speed 1.5, got %v", got)
	}
	speeds := m.Menu(catalog.LabelPlayer).Arena().Get(m.Menu(catalog.LabelPlayer).Item(0).Submenu())
	if !speeds.Item(5).Checked || speeds.Item(3).Checked {
		t.Fatalf("expected radio group updated in the menu")
	}
}

func TestOutsidePressIsRedelivered(t *testing.T) {
	m, _ := newTestModel(t, 80, 24)
	h := NewHarness(m)
	rightClick(h, 10, 2)

	h.Send(mouse(70, 20, tea.MouseActionPress, tea.MouseButtonLeft))
	if m.Active() {
		t.Fatalf("expected outside press to dismiss")
	}
	if m.Status() != "clicked at 70,20" {
		t.Fatalf("expected press handed to the player surface, got %q", m.Status())
	}
}

func TestOutsideRightClickReopensMenu(t *testing.T) {
	m, _ := newTestModel(t, 80, 24)
	h := NewHarness(m)
	rightClick(h, 40, 2)

	h.Send(mouse(5, 8, tea.MouseActionPress, tea.MouseButtonRight))
	if m.Active() {
		t.Fatalf("expected the first popup dismissed")
	}
	h.Send(mouse(5, 8, tea.MouseActionRelease, tea.MouseButtonRight))
	if !m.Active() || m.shown[0].bounds.Min != image.Pt(5, 8) {
		t.Fatalf("expected popup reopened at the new click, got %v", m.shown)
	}
}

func TestKeyboardNavigationCommitsSubmenuItem(t *testing.T) {
	m, _ := newTestModel(t, 80, 24)
	h := NewHarness(m)
	h.Send(runeKey('m'))
	if !m.Active() {
		t.Fatalf("expected open key to pop up the menu")
	}
	h.Send(tea.KeyMsg{Type: tea.KeyDown})
	h.Send(tea.KeyMsg{Type: tea.KeyRight})
	if len(m.shown) != 2 {
		t.Fatalf("expected submenu opened from the keyboard")
	}
	h.Send(tea.KeyMsg{Type: tea.KeyEnter})
	if m.Active() || m.Settings().PlaybackSpeed != 0.25 {
		t.Fatalf("expected first speed committed, got %v", m.Settings().PlaybackSpeed)
	}
}

func TestEscapeDismisses(t *testing.T) {
	m, _ := newTestModel(t, 80, 24)
	h := NewHarness(m)
	h.Send(runeKey('m'))
	h.Send(tea.KeyMsg{Type: tea.KeyEsc})
	if m.Active() || m.Status() != "menu dismissed" {
		t.Fatalf("expected dismissal, status %q", m.Status())
	}
}

func TestBlurDismisses(t *testing.T) {
	m, _ := newTestModel(t, 80, 24)
	h := NewHarness(m)
	h.Send(runeKey('m'))
	h.Send(tea.BlurMsg{})
	if m.Active() {
		t.Fatalf("expected focus loss to dismiss")
	}
}

func TestThemeToggleReachesMenus(t *testing.T) {
	m, themes := newTestModel(t, 80, 24)
	h := NewHarness(m)
	h.Send(runeKey('t'))

	if !themes.Dark() || !m.Menu(catalog.LabelSort).Dark() {
		t.Fatalf("expected dark theme pushed to every menu")
	}
	if m.Settings().Theme != theme.ModeDark {
		t.Fatalf("expected settings to follow, got %s", m.Settings().Theme)
	}
	player := m.Menu(catalog.LabelPlayer)
	themeMenu := player.Arena().Get(player.Item(player.Find(catalog.Theme)).Submenu())
	if !themeMenu.Item(0).Checked || themeMenu.Item(1).Checked {
		t.Fatalf("expected the dark radio checked")
	}
	if s := m.styles(); !s.Dark() {
		t.Fatalf("expected dark chrome styles")
	}
}

func TestThemeToggleDuringPopupKeepsItOpen(t *testing.T) {
	m, themes := newTestModel(t, 80, 24)
	h := NewHarness(m)
	h.Send(runeKey('m'))
	h.Send(tea.KeyMsg{Type: tea.KeyCtrlT})
	if !m.Active() || !themes.Dark() {
		t.Fatalf("expected theme change applied to the open popup")
	}
}

func TestResizeCancelsPopup(t *testing.T) {
	m, _ := newTestModel(t, 0, 0)
	h := NewHarness(m)
	h.Send(tea.WindowSizeMsg{Width: 80, Height: 24})
	h.Send(runeKey('m'))
	if !m.Active() {
		t.Fatalf("expected popup open")
	}
	h.Send(tea.WindowSizeMsg{Width: 100, Height: 30})
	if m.Active() || m.width != 100 || m.height != 30 {
		t.Fatalf("expected resize to close the popup and apply, got %dx%d", m.width, m.height)
	}
}

func TestOpenWithoutScreenFails(t *testing.T) {
	m, _ := newTestModel(t, 0, 0)
	h := NewHarness(m)
	h.Send(runeKey('m'))
	if m.Active() || !strings.Contains(m.Status(), "terminal size unknown") {
		t.Fatalf("expected capture failure, status %q", m.Status())
	}
}

func TestOpenTooSmallTerminalFails(t *testing.T) {
	m, _ := newTestModel(t, 10, 5)
	h := NewHarness(m)
	h.Send(runeKey('m'))
	if m.Active() || m.captured || !strings.Contains(m.Status(), "does not fit") {
		t.Fatalf("expected show failure, status %q", m.Status())
	}
}

func TestTabCyclesTarget(t *testing.T) {
	m, _ := newTestModel(t, 80, 24)
	h := NewHarness(m)
	h.Send(tea.KeyMsg{Type: tea.KeyTab})
	if m.Target() != catalog.LabelPlaylist {
		t.Fatalf("expected playlist target, got %s", m.Target())
	}
	h.Send(tea.KeyMsg{Type: tea.KeyTab})
	h.Send(tea.KeyMsg{Type: tea.KeyTab})
	if m.Target() != catalog.LabelPlayer {
		t.Fatalf("expected wrap to player, got %s", m.Target())
	}
}

func TestQuitAndClose(t *testing.T) {
	m, themes := newTestModel(t, 80, 24)
	h := NewHarness(m)
	h.Send(runeKey('m'))
	h.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
	if !h.Quit() || m.Active() {
		t.Fatalf("expected ctrl+c to close the popup and quit")
	}
	if err := m.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if themes.Refs() != 0 {
		t.Fatalf("expected every menu released, refs=%d", themes.Refs())
	}
}
