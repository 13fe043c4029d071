// Package menu implements the owner-drawn popup menu engine: the item model
// and fluent builder, the layout pass, the paint routine and the session
// state machine that turns pointer, key and timer events into host actions.
//
// Menus live in an Arena and are addressed by a stable integer ID, so host
// windows only ever need to remember that id.
package menu

import (
	"fmt"
	"image"

	"github.com/atomicstack/ownerdraw-menu/internal/logging/events"
	"github.com/atomicstack/ownerdraw-menu/internal/theme"
)

// ID addresses a menu inside its arena.
type ID int

// NoMenu is the zero value for "no menu".
const NoMenu ID = -1

// Arena owns every menu of one tree: the root and all of its submenus.
type Arena struct {
	menus []*Menu
}

// Get returns the menu for id, or nil for unknown or destroyed menus.
func (a *Arena) Get(id ID) *Menu {
	if a == nil || id < 0 || int(id) >= len(a.menus) {
		return nil
	}
	m := a.menus[id]
	if m.destroyed {
		return nil
	}
	return m
}

// Len is the number of menus ever allocated in the arena.
func (a *Arena) Len() int { return len(a.menus) }

func (a *Arena) alloc(parent ID, dark bool, layout Layout, palette theme.Palette) *Menu {
	m := &Menu{
		arena:      a,
		id:         ID(len(a.menus)),
		parent:     parent,
		dark:       dark,
		layout:     layout,
		palette:    palette,
		selected:   -1,
		visibleSub: -1,
		pendingSub: -1,
	}
	a.menus = append(a.menus, m)
	return m
}

// Options configure a root menu. Submenus inherit them at creation.
type Options struct {
	Layout  Layout
	Palette theme.Palette
	Dark    bool
}

// Menu is a single popup surface: the root of a session or any submenu.
type Menu struct {
	arena   *Arena
	id      ID
	parent  ID
	items   []Item
	layout  Layout
	palette theme.Palette
	dark    bool

	built     bool
	destroyed bool
	size      image.Point
	arrow     int
	themes    *theme.Registry

	// transient session state
	origin     image.Point
	visible    bool
	selected   int
	visibleSub int
	pendingSub int
	pendingSeq uint64
}

// New allocates a root menu in a fresh arena. A zero Layout selects
// DefaultLayout and a zero Palette selects theme.DefaultPalette.
func New(opts Options) *Menu {
	if opts.Layout == (Layout{}) {
		opts.Layout = DefaultLayout()
	}
	if opts.Palette == (theme.Palette{}) {
		opts.Palette = theme.DefaultPalette()
	}
	return (&Arena{}).alloc(NoMenu, opts.Dark, opts.Layout, opts.Palette)
}

// ID returns the menu's arena id.
func (m *Menu) ID() ID { return m.id }

// Arena returns the arena shared by the whole tree.
func (m *Menu) Arena() *Arena { return m.arena }

// Parent returns the parent menu id, NoMenu for the root.
func (m *Menu) Parent() ID { return m.parent }

// Root returns the top of the tree.
func (m *Menu) Root() *Menu {
	r := m
	for r.parent != NoMenu {
		r = r.arena.menus[r.parent]
	}
	return r
}

// IsMain reports whether m is a session root. Only roots own theme
// references.
func (m *Menu) IsMain() bool { return m.parent == NoMenu }

// Built reports whether Build has completed.
func (m *Menu) Built() bool { return m.built }

// Size is the resolved width and height; zero before Build.
func (m *Menu) Size() image.Point { return m.size }

// Layout returns the layout configuration the menu was created with.
func (m *Menu) Layout() Layout { return m.layout }

// Dark reports the menu's current theme flag.
func (m *Menu) Dark() bool { return m.dark }

// Scheme resolves the current colors.
func (m *Menu) Scheme() theme.Scheme { return m.palette.Resolve(m.dark) }

// Len is the number of items.
func (m *Menu) Len() int { return len(m.items) }

// Item returns a copy of item i.
func (m *Menu) Item(i int) Item { return m.items[i] }

// Items returns a copy of the item list.
func (m *Menu) Items() []Item {
	out := make([]Item, len(m.items))
	copy(out, m.items)
	return out
}

// Selected is the hovered item index, -1 when idle.
func (m *Menu) Selected() int { return m.selected }

// VisibleSubmenu is the index of the item whose submenu is shown, or -1.
func (m *Menu) VisibleSubmenu() int { return m.visibleSub }

// Visible reports whether the menu's window is shown in a session.
func (m *Menu) Visible() bool { return m.visible }

// Origin is the screen position of the menu while it is shown.
func (m *Menu) Origin() image.Point { return m.origin }

// Find returns the index of the first item carrying id, or -1. Ids are
// expected to be unique within a tree.
func (m *Menu) Find(id string) int {
	for i := range m.items {
		if m.items[i].Kind != KindSeparator && m.items[i].ID == id {
			return i
		}
	}
	return -1
}

// Text appends a plain command item.
func (m *Menu) Text(id, label string) *Menu {
	m.append(Item{Kind: KindText, ID: id, Label: label})
	return m
}

// Check appends a checkbox item.
func (m *Menu) Check(id, label, value string, checked bool) *Menu {
	m.append(Item{Kind: KindCheckbox, ID: id, Label: label, Value: value, Checked: checked})
	return m
}

// Radio appends a radio item. Radio items must name a group.
func (m *Menu) Radio(id, label, value, group string, checked bool) *Menu {
	if group == "" {
		panic(fmt.Sprintf("menu: radio item %q has no group", id))
	}
	m.append(Item{Kind: KindRadio, ID: id, Label: label, Value: value, Group: group, Checked: checked})
	return m
}

// Submenu appends a submenu item and returns the new child menu, which
// inherits the parent's theme and layout.
func (m *Menu) Submenu(label string) *Menu {
	m.mustBeMutable()
	child := m.arena.alloc(m.id, m.dark, m.layout, m.palette)
	m.append(Item{Kind: KindSubmenu, ID: label, Label: label, submenu: child.id})
	return child
}

// Separator appends a horizontal rule.
func (m *Menu) Separator() *Menu {
	m.append(Item{Kind: KindSeparator})
	return m
}

func (m *Menu) append(it Item) {
	m.mustBeMutable()
	if it.Kind != KindSubmenu {
		it.submenu = NoMenu
	}
	m.items = append(m.items, it)
}

func (m *Menu) mustBeMutable() {
	if m.built {
		panic(fmt.Sprintf("menu: menu %d modified after Build", m.id))
	}
	if m.destroyed {
		panic(fmt.Sprintf("menu: menu %d used after Destroy", m.id))
	}
}

// SetEnabled toggles the disabled flag of every item with id anywhere in the
// tree below m. It reports whether any item matched.
func (m *Menu) SetEnabled(id string, enabled bool) bool {
	found := false
	for i := range m.items {
		it := &m.items[i]
		if it.Kind == KindSubmenu {
			if child := m.arena.Get(it.submenu); child != nil && child.SetEnabled(id, enabled) {
				found = true
			}
		}
		if it.Kind != KindSeparator && it.ID == id {
			it.Disabled = !enabled
			found = true
		}
	}
	return found
}

// SetChecked sets the checked flag of the checkbox or radio item with id in
// the tree below m. Radio siblings in the same group are cleared.
func (m *Menu) SetChecked(id string, checked bool) bool {
	found := false
	for i := range m.items {
		it := &m.items[i]
		if it.Kind == KindSubmenu {
			if child := m.arena.Get(it.submenu); child != nil && child.SetChecked(id, checked) {
				found = true
			}
			continue
		}
		if !it.checkable() || it.ID != id {
			continue
		}
		found = true
		if it.Kind == KindRadio && checked {
			m.toggleRadio(i)
			continue
		}
		it.Checked = checked
	}
	return found
}

// SetDark pushes a theme flag to m and its whole submenu tree. Root menus
// register with a theme.Registry through this method.
func (m *Menu) SetDark(isDark bool) {
	m.dark = isDark
	for _, it := range m.items {
		if it.Kind != KindSubmenu {
			continue
		}
		if child := m.arena.Get(it.submenu); child != nil {
			child.SetDark(isDark)
		}
	}
}

// Destroy tears down m and its subtree. A root menu releases its theme
// reference; the registry closes the shared resource after the last root.
func (m *Menu) Destroy() error {
	if m.destroyed {
		return nil
	}
	for _, it := range m.items {
		if it.Kind != KindSubmenu {
			continue
		}
		if child := m.arena.Get(it.submenu); child != nil {
			if err := child.Destroy(); err != nil {
				return err
			}
		}
	}
	m.destroyed = true
	m.visible = false
	events.Menu.Destroy(int(m.id))
	if m.themes != nil {
		themes := m.themes
		m.themes = nil
		if err := themes.Release(m); err != nil {
			return resourceErr("theme", err)
		}
	}
	return nil
}

// toggleRadio checks item idx and clears every other radio of its group in
// this menu's own item list.
func (m *Menu) toggleRadio(idx int) []int {
	it := &m.items[idx]
	if it.Group == "" {
		panic(fmt.Sprintf("menu: radio item %q has no group", it.ID))
	}
	changed := []int{}
	if !it.Checked {
		it.Checked = true
		changed = append(changed, idx)
	}
	for i := range m.items {
		other := &m.items[i]
		if i == idx || other.Kind != KindRadio || other.Group != it.Group || !other.Checked {
			continue
		}
		other.Checked = false
		changed = append(changed, i)
	}
	return changed
}

func (m *Menu) resetTransient() {
	m.visible = false
	m.selected = -1
	m.visibleSub = -1
	m.pendingSub = -1
	m.pendingSeq = 0
}

func (m *Menu) child(idx int) *Menu {
	if idx < 0 || idx >= len(m.items) {
		return nil
	}
	return m.arena.Get(m.items[idx].Submenu())
}
