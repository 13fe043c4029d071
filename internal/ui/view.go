package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"

	"github.com/atomicstack/ownerdraw-menu/internal/menu"
	"github.com/atomicstack/ownerdraw-menu/internal/render/cells"
	"github.com/atomicstack/ownerdraw-menu/internal/theme"
)

// View implements tea.Model.
func (m *Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	return m.Canvas().Render() + "\n" + m.statusLine()
}

// Canvas paints the player surface and every visible menu, in show order.
func (m *Model) Canvas() *cells.Canvas {
	area := m.playerArea()
	scheme := theme.Resolve(m.themes.Dark())
	c := cells.NewCanvas(area.Dx(), area.Dy(), scheme.Foreground, scheme.Background)
	m.paintPlayer(c, scheme)
	if m.active == nil {
		return c
	}
	for _, s := range m.shown {
		mm := m.active.Arena().Get(s.id)
		if mm == nil {
			continue
		}
		menu.Paint(c.Surface(s.bounds.Min), mm, mm.Bounds())
	}
	return c
}

func (m *Model) paintPlayer(c *cells.Canvas, scheme theme.Scheme) {
	fg, bg := scheme.Foreground, scheme.Background
	muted := bg.BlendLab(fg, 0.45)
	s := m.settings
	c.Put(2, 1, "▶ Now Playing", fg, bg, true)
	c.Put(2, 3, fmt.Sprintf("speed %sx   seek %ss   fit to window %s",
		formatFloat(s.PlaybackSpeed), formatFloat(s.SeekSpeed), onOff(s.FitToWindow)), fg, bg, false)
	c.Put(2, 4, fmt.Sprintf("sort %s   group by directory %s", s.Sort, onOff(s.GroupBy)), fg, bg, false)
	c.Put(2, 5, fmt.Sprintf("theme %s   menu %s", s.Theme, m.target), muted, bg, false)
}

func (m *Model) statusLine() string {
	styles := m.styles()
	style := styles.Status
	switch {
	case m.errMsg != "":
		style = styles.StatusError
	case strings.HasPrefix(m.status, "selected "):
		style = styles.StatusResult
	}
	hint := m.hint()
	room := m.width - runewidth.StringWidth(hint)
	if room < 1 {
		hint, room = "", m.width
	}
	text := " " + truncate.StringWithTail(m.Status(), uint(max(room-2, 0)), "…")
	left := style.Width(room).Render(text)
	if hint == "" {
		return left
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, left, styles.Hint.Render(hint))
}

func (m *Model) hint() string {
	parts := make([]string, 0, 4)
	for _, b := range m.keys.bindings() {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " · ") + " "
}

// styles returns the chrome styles from the shared theme resource, which is
// only open while at least one menu is alive.
func (m *Model) styles() *theme.Styles {
	if s, ok := m.themes.Resource().(*theme.Styles); ok {
		return s
	}
	return theme.NewStyles(theme.DefaultPalette(), m.themes.Dark())
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
