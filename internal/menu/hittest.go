package menu

import (
	"fmt"
	"image"
)

// Bounds is the client rectangle of the whole menu.
func (m *Menu) Bounds() image.Rectangle {
	return image.Rectangle{Max: m.size}
}

// ScreenBounds is the menu rectangle at its current screen origin.
func (m *Menu) ScreenBounds() image.Rectangle {
	return m.Bounds().Add(m.origin)
}

// ClientPoint converts a screen point into the menu's client space.
func (m *Menu) ClientPoint(p image.Point) image.Point {
	return p.Sub(m.origin)
}

// ItemRect is item i's client rectangle, spanning the width between the
// left and right borders.
func (m *Menu) ItemRect(i int) image.Rectangle {
	m.mustBeBuilt()
	it := m.items[i]
	b := m.layout.BorderWidth
	return image.Rect(b, it.top, m.size.X-b, it.bottom)
}

// IndexAt hit-tests a client point. Item intervals are half-open
// [top, bottom) except for the last item, which also owns its bottom edge.
// Separators and points outside the menu yield -1.
func (m *Menu) IndexAt(p image.Point) int {
	m.mustBeBuilt()
	if p.X < 0 || p.X >= m.size.X {
		return -1
	}
	for i, it := range m.items {
		last := i == len(m.items)-1
		if p.Y >= it.top && (p.Y < it.bottom || last && p.Y == it.bottom) {
			if !it.selectable() {
				return -1
			}
			return i
		}
	}
	return -1
}

// itemAtRect matches a dirty rectangle against a known item rectangle.
func (m *Menu) itemAtRect(r image.Rectangle) int {
	for i := range m.items {
		if m.ItemRect(i) == r {
			return i
		}
	}
	return -1
}

func (m *Menu) mustBeBuilt() {
	if !m.built {
		panic(fmt.Sprintf("menu: menu %d used before Build", m.id))
	}
}
