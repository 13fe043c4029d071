package menu

import (
	"fmt"
	"image"

	"github.com/atomicstack/ownerdraw-menu/internal/logging/events"
	"github.com/atomicstack/ownerdraw-menu/internal/theme"
)

// Metrics is the font and screen metrics provider consulted by Build.
type Metrics interface {
	MeasureText(s string, bold bool) (int, error)
	LineHeight(bold bool) (int, error)
	MenuItemHeight() int
	CheckGlyphWidth() int
	ArrowWidth() int
}

// Layout carries the explicit border, margin and padding numbers used by
// Build. Values are in the metrics provider's units.
type Layout struct {
	BorderWidth           int
	VerticalMargin        int
	HorizontalMargin      int
	ItemVerticalPadding   int
	ItemHorizontalPadding int
	// GlyphColumn is reserved on both sides of the label for the check
	// glyph and the submenu arrow.
	GlyphColumn int
	// MinItemHeight keeps check glyphs from being clipped on short fonts.
	MinItemHeight int
	// AcceleratorSpacing separates the label from its accelerator hint.
	AcceleratorSpacing int
	// SubmenuOverlap is how far a submenu is pulled back over its parent.
	SubmenuOverlap int
}

// DefaultLayout is the pixel layout used by the desktop host.
func DefaultLayout() Layout {
	return Layout{
		BorderWidth:           1,
		VerticalMargin:        2,
		HorizontalMargin:      0,
		ItemVerticalPadding:   12,
		ItemHorizontalPadding: 5,
		GlyphColumn:           25,
		MinItemHeight:         25,
		AcceleratorSpacing:    30,
		SubmenuOverlap:        5,
	}
}

// CellLayout is the layout for terminal hosts measuring in cells.
func CellLayout() Layout {
	return Layout{
		BorderWidth:           1,
		ItemHorizontalPadding: 1,
		GlyphColumn:           2,
		MinItemHeight:         1,
		AcceleratorSpacing:    2,
	}
}

// Validate rejects negative numbers.
func (l Layout) Validate() error {
	fields := []struct {
		name string
		v    int
	}{
		{"border width", l.BorderWidth},
		{"vertical margin", l.VerticalMargin},
		{"horizontal margin", l.HorizontalMargin},
		{"item vertical padding", l.ItemVerticalPadding},
		{"item horizontal padding", l.ItemHorizontalPadding},
		{"glyph column", l.GlyphColumn},
		{"min item height", l.MinItemHeight},
		{"accelerator spacing", l.AcceleratorSpacing},
		{"submenu overlap", l.SubmenuOverlap},
	}
	for _, f := range fields {
		if f.v < 0 {
			return fmt.Errorf("%s must not be negative (got %d)", f.name, f.v)
		}
	}
	return nil
}

// Environment is what Build needs from the host.
type Environment struct {
	Metrics Metrics
	// Themes is optional. When set, a root menu acquires a theme reference
	// at Build and releases it on Destroy.
	Themes *theme.Registry
}

type measured struct {
	menu  *Menu
	tops  []int
	bots  []int
	size  image.Point
	arrow int
}

// Build sizes m and every submenu below it. It runs once: building a built
// menu panics. On failure nothing is committed and the error is returned.
func (m *Menu) Build(env Environment) error {
	if m.built {
		panic(fmt.Sprintf("menu: menu %d built twice", m.id))
	}
	if m.destroyed {
		panic(fmt.Sprintf("menu: menu %d built after Destroy", m.id))
	}
	if env.Metrics == nil {
		panic("menu: Build without a metrics provider")
	}

	// The theme decides the font weight, so it is settled before measuring.
	wasDark := m.dark
	if m.IsMain() && env.Themes != nil {
		if _, err := env.Themes.Acquire(m); err != nil {
			err = resourceErr("theme", err)
			events.Menu.BuildFailed(int(m.id), err)
			return err
		}
		m.SetDark(env.Themes.Dark())
	}

	var results []measured
	var walk func(*Menu) error
	walk = func(cur *Menu) error {
		res, err := cur.measure(env.Metrics)
		if err != nil {
			return err
		}
		results = append(results, res)
		for _, it := range cur.items {
			if it.Kind != KindSubmenu {
				continue
			}
			child := cur.arena.Get(it.submenu)
			if child == nil || child.built {
				continue
			}
			if err := walk(child); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(m); err != nil {
		if m.IsMain() && env.Themes != nil {
			_ = env.Themes.Release(m)
			m.SetDark(wasDark)
		}
		events.Menu.BuildFailed(int(m.id), err)
		return err
	}
	if m.IsMain() {
		m.themes = env.Themes
	}

	for _, res := range results {
		cur := res.menu
		for i := range cur.items {
			cur.items[i].top = res.tops[i]
			cur.items[i].bottom = res.bots[i]
		}
		cur.size = res.size
		cur.arrow = res.arrow
		cur.built = true
		events.Menu.Build(int(cur.id), len(cur.items), cur.size.X, cur.size.Y)
	}
	return nil
}

// measure computes item bounds in client coordinates without mutating m.
// The running cursor starts below the border and the top margin.
func (m *Menu) measure(metrics Metrics) (measured, error) {
	l := m.layout
	bold := m.dark
	res := measured{
		menu:  m,
		tops:  make([]int, len(m.items)),
		bots:  make([]int, len(m.items)),
		arrow: metrics.ArrowWidth(),
	}

	lineHeight, err := metrics.LineHeight(bold)
	if err != nil {
		return res, resourceErr("font", err)
	}
	textHeight := max(lineHeight+l.ItemVerticalPadding, l.MinItemHeight)
	separatorHeight := (metrics.MenuItemHeight() + 1) / 2
	checkCorrection := metrics.CheckGlyphWidth() - 1

	y := l.BorderWidth + l.VerticalMargin
	width := 0
	for i, it := range m.items {
		height := separatorHeight
		if it.Kind != KindSeparator {
			text, accel := it.Accelerator()
			w, err := metrics.MeasureText(text, bold)
			if err != nil {
				return res, resourceErr("font", err)
			}
			if accel != "" {
				aw, err := metrics.MeasureText(accel, bold)
				if err != nil {
					return res, resourceErr("font", err)
				}
				w += aw + l.AcceleratorSpacing
			}
			w += 2*l.ItemHorizontalPadding + 2*l.GlyphColumn - checkCorrection
			width = max(width, w)
			height = textHeight
		}
		res.tops[i] = y
		res.bots[i] = y + height
		y += height
	}

	res.size = image.Pt(
		width+2*(l.BorderWidth+l.HorizontalMargin),
		y+l.VerticalMargin+l.BorderWidth,
	)
	return res, nil
}
