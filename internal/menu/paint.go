package menu

import (
	"image"
	"image/color"
)

// Align positions text inside its rectangle.
type Align int

const (
	AlignLeft Align = iota
	AlignRight
)

// Glyph names the two images the engine draws besides text.
type Glyph int

const (
	GlyphCheck Glyph = iota
	GlyphArrow
)

// TextStyle describes one text run.
type TextStyle struct {
	Color color.Color
	Align Align
	Bold  bool
}

// Surface is the host drawing context handed to Paint, in the menu's client
// coordinates. Drawing calls must skip regions passed to Exclude.
type Surface interface {
	Fill(r image.Rectangle, c color.Color)
	Frame(r image.Rectangle, c color.Color)
	HLine(x0, x1, y int, c color.Color)
	Text(r image.Rectangle, s string, style TextStyle)
	Glyph(r image.Rectangle, g Glyph, c color.Color)
	Exclude(r image.Rectangle)
}

// Paint draws the part of m covered by dirty. A dirty rectangle equal to an
// item rectangle repaints that item alone; anything else repaints the
// background and every item.
func Paint(s Surface, m *Menu, dirty image.Rectangle) {
	m.mustBeBuilt()
	if idx := m.itemAtRect(dirty); idx >= 0 {
		m.paintItem(s, idx)
		return
	}
	PaintBackground(s, m)
	for i := range m.items {
		m.paintItem(s, i)
	}
}

// PaintBackground fills the menu with its background and draws the border.
func PaintBackground(s Surface, m *Menu) {
	scheme := m.Scheme()
	s.Fill(m.Bounds(), scheme.Background)
	if m.layout.BorderWidth > 0 {
		s.Frame(m.Bounds(), scheme.Border)
	}
}

func (m *Menu) paintItem(s Surface, i int) {
	scheme := m.Scheme()
	it := m.items[i]
	r := m.ItemRect(i)
	s.Fill(r, scheme.Brush(i == m.selected))

	if it.Kind == KindSeparator {
		s.HLine(r.Min.X, r.Max.X, r.Min.Y+r.Dy()/2, scheme.Border)
		s.Exclude(r)
		return
	}

	fg := scheme.Foreground
	if it.Disabled {
		fg = scheme.Disabled
	}
	glyph := m.layout.GlyphColumn

	if it.checkable() && it.Checked {
		side := min(glyph, r.Dy())
		top := r.Min.Y + (r.Dy()-side)/2
		box := image.Rect(r.Min.X, top, r.Min.X+side, top+side).Inset(1)
		s.Glyph(box, GlyphCheck, fg)
	}

	text := r
	text.Min.X += glyph
	text.Max.X -= glyph
	if it.Kind == KindSubmenu && m.arrow > 0 {
		arrow := image.Rect(r.Max.X-m.arrow, r.Min.Y, r.Max.X, r.Max.Y)
		s.Glyph(arrow, GlyphArrow, fg)
		text.Max.X = min(text.Max.X, arrow.Min.X)
	}

	label, accel := it.Accelerator()
	s.Text(text, label, TextStyle{Color: fg, Align: AlignLeft, Bold: m.dark})
	if accel != "" {
		s.Text(text, accel, TextStyle{Color: scheme.Disabled, Align: AlignRight, Bold: m.dark})
	}
	s.Exclude(r)
}
