package menu

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/google/uuid"

	"github.com/atomicstack/ownerdraw-menu/internal/logging/events"
	"github.com/atomicstack/ownerdraw-menu/internal/placement"
)

// SessionOptions describe the host environment of one popup.
type SessionOptions struct {
	// Monitors lists the host monitors. An empty list leaves placement
	// unconstrained.
	Monitors []placement.Monitor
	// Owner is the screen rectangle of the invoking surface. Dismissing
	// presses inside it are handed back with a Redeliver action.
	Owner image.Rectangle
	// Delay is the submenu debounce; zero selects DefaultSubmenuDelay.
	Delay time.Duration
	// ID correlates trace entries; a random id is generated when empty.
	ID string
}

// Session is one popup lifetime, from the root menu being shown to a
// selection or a dismissal. It is a pure state machine: the host feeds
// events to Handle and carries out the returned actions in order.
type Session struct {
	id       string
	root     *Menu
	arena    *Arena
	monitors []placement.Monitor
	owner    image.Rectangle
	delay    time.Duration

	seq   uint64
	open  []*Menu
	shown []ID
	query string

	done   bool
	result *Selection
	err    error
}

// Open starts a session with root's top-left corner at the screen point at,
// adjusted to fit the monitor. The returned actions show the root window.
func Open(root *Menu, at image.Point, opts SessionOptions) (*Session, []Action) {
	root.mustBeBuilt()
	if root.destroyed {
		panic(fmt.Sprintf("menu: popup of destroyed menu %d", root.id))
	}
	if opts.Delay <= 0 {
		opts.Delay = DefaultSubmenuDelay
	}
	if opts.ID == "" {
		opts.ID = uuid.NewString()
	}
	s := &Session{
		id:       opts.ID,
		root:     root,
		arena:    root.arena,
		monitors: opts.Monitors,
		owner:    opts.Owner,
		delay:    opts.Delay,
	}
	s.reset()

	res := placement.Popup(s.monitors, s.owner, at, root.size)
	root.origin = res.Origin
	root.visible = true
	s.open = []*Menu{root}
	s.shown = []ID{root.id}
	events.Session.Popup(s.id, int(root.id), res.Origin.X, res.Origin.Y)
	return s, []Action{Show{Menu: root.id, Bounds: res.Rect(root.size)}}
}

// ID is the session's trace id.
func (s *Session) ID() string { return s.id }

// Root is the menu the session was opened on.
func (s *Session) Root() *Menu { return s.root }

// Done reports whether the session reached a terminal state.
func (s *Session) Done() bool { return s.done }

// Result is the committed selection, nil while running or after dismissal.
func (s *Session) Result() *Selection { return s.result }

// Err is the failure that aborted the session, if any.
func (s *Session) Err() error { return s.err }

// Levels lists the open menus from the root to the deepest submenu.
func (s *Session) Levels() []ID {
	ids := make([]ID, len(s.open))
	for i, m := range s.open {
		ids[i] = m.id
	}
	return ids
}

// Shown lists every menu shown during the session, in first-shown order.
func (s *Session) Shown() []ID {
	return append([]ID(nil), s.shown...)
}

// Menu resolves an id in the session's arena.
func (s *Session) Menu(id ID) *Menu { return s.arena.Get(id) }

// Handle advances the state machine by one event.
func (s *Session) Handle(ev Event) []Action {
	if s.done {
		return nil
	}
	switch e := ev.(type) {
	case PointerMove:
		s.query = ""
		return s.move(e.Point)
	case PointerDown:
		return s.press(e)
	case PointerUp:
		return s.release(e)
	case TimerFired:
		return s.fire(e.Token)
	case ThemeChanged:
		return s.themeChanged(e.Dark)
	case Key:
		return s.key(e)
	case Deactivated:
		return s.dismiss(events.DismissDeactivated)
	case Foreign:
		return []Action{Forward{Event: e}}
	}
	return nil
}

// Abort ends a running session because of err. Context cancellation is
// reported as a plain dismissal.
func (s *Session) Abort(err error) []Action {
	if s.done {
		return nil
	}
	s.err = err
	events.Session.Error(s.id, err)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return s.dismiss(events.DismissCancelled)
	}
	return s.dismiss(events.DismissError)
}

func (s *Session) levelAt(p image.Point) int {
	for i := len(s.open) - 1; i >= 0; i-- {
		if p.In(s.open[i].ScreenBounds()) {
			return i
		}
	}
	return -1
}

func (s *Session) levelOf(m *Menu) int {
	for i, cur := range s.open {
		if cur == m {
			return i
		}
	}
	return -1
}

func (s *Session) move(p image.Point) []Action {
	lvl := s.levelAt(p)
	if lvl < 0 {
		return s.hover(len(s.open)-1, -1)
	}
	m := s.open[lvl]
	idx := m.IndexAt(m.ClientPoint(p))
	acts := s.hover(lvl, idx)
	if lvl+1 < len(s.open) && idx >= 0 && m.visibleSub == idx {
		acts = append(acts, s.hover(lvl+1, -1)...)
	}
	return acts
}

// hover moves level lvl's selection to idx, closing a submenu opened from a
// different item and arming the delay for a new submenu item.
func (s *Session) hover(lvl, idx int) []Action {
	m := s.open[lvl]
	if idx == m.selected {
		return nil
	}
	if idx < 0 && m.visibleSub >= 0 {
		return nil
	}

	var acts []Action
	if m.visibleSub >= 0 {
		acts = append(acts, s.closeFrom(lvl+1)...)
	}
	m.pendingSub = -1
	if m.selected >= 0 {
		acts = append(acts, Invalidate{Menu: m.id, Rect: m.ItemRect(m.selected)})
	}
	m.selected = idx
	events.Session.Hover(s.id, int(m.id), idx)
	if idx < 0 {
		return acts
	}
	acts = append(acts, Invalidate{Menu: m.id, Rect: m.ItemRect(idx)})

	if it := m.items[idx]; it.Kind == KindSubmenu && !it.Disabled {
		s.seq++
		m.pendingSub = idx
		m.pendingSeq = s.seq
		events.Session.SubmenuArm(s.id, int(m.id), idx)
		acts = append(acts, Schedule{
			After: s.delay,
			Token: TimerToken{Menu: m.id, Index: idx, Seq: s.seq},
		})
	}
	return acts
}

// closeFrom hides every open level from lvl down.
func (s *Session) closeFrom(lvl int) []Action {
	if lvl <= 0 || lvl >= len(s.open) {
		return nil
	}
	var acts []Action
	for i := len(s.open) - 1; i >= lvl; i-- {
		m := s.open[i]
		acts = append(acts, Hide{Menu: m.id})
		events.Session.SubmenuHide(s.id, int(m.id))
		m.resetTransient()
	}
	s.open[lvl-1].visibleSub = -1
	s.open = s.open[:lvl]
	return acts
}

func (s *Session) fire(tok TimerToken) []Action {
	m := s.arena.Get(tok.Menu)
	lvl := -1
	if m != nil {
		lvl = s.levelOf(m)
	}
	if lvl < 0 || m.pendingSub != tok.Index || m.pendingSeq != tok.Seq ||
		m.selected != tok.Index || m.visibleSub >= 0 {
		events.Session.StaleTimer(s.id, int(tok.Menu), tok.Index)
		return nil
	}
	return s.openSubmenu(lvl)
}

// openSubmenu shows the submenu of level lvl's selected item.
func (s *Session) openSubmenu(lvl int) []Action {
	m := s.open[lvl]
	idx := m.selected
	child := m.child(idx)
	if child == nil || m.visibleSub >= 0 {
		return nil
	}
	it := m.items[idx]
	res := placement.Submenu(
		s.monitors,
		s.owner,
		m.ScreenBounds(),
		m.origin.Y+it.top,
		m.origin.Y+it.bottom,
		child.size,
		m.layout.SubmenuOverlap,
	)
	child.resetTransient()
	child.origin = res.Origin
	child.visible = true
	m.visibleSub = idx
	m.pendingSub = -1
	s.open = append(s.open, child)
	s.remember(child.id)
	events.Session.SubmenuShow(s.id, int(child.id), res.Origin.X, res.Origin.Y)
	return []Action{Show{Menu: child.id, Bounds: res.Rect(child.size)}}
}

func (s *Session) press(e PointerDown) []Action {
	if s.levelAt(e.Point) >= 0 {
		return nil
	}
	var acts []Action
	if e.Point.In(s.owner) {
		events.Session.Redeliver(s.id, e.Point.X, e.Point.Y)
		acts = append(acts, Redeliver{Event: e})
	}
	return append(acts, s.dismiss(events.DismissOutside)...)
}

func (s *Session) release(e PointerUp) []Action {
	if e.Button != ButtonPrimary && e.Button != ButtonSecondary {
		return nil
	}
	lvl := s.levelAt(e.Point)
	if lvl < 0 {
		return nil
	}
	m := s.open[lvl]
	idx := m.IndexAt(m.ClientPoint(e.Point))
	if idx < 0 {
		return nil
	}
	return s.commit(lvl, idx)
}

// commit activates item idx of level lvl: submenus open at once, checkboxes
// and radios update their state, and anything but a submenu ends the
// session with a selection.
func (s *Session) commit(lvl, idx int) []Action {
	m := s.open[lvl]
	if m.items[idx].Disabled || !m.items[idx].selectable() {
		return nil
	}
	acts := s.hover(lvl, idx)
	it := &m.items[idx]

	switch it.Kind {
	case KindSubmenu:
		return append(acts, s.openSubmenu(lvl)...)
	case KindCheckbox:
		it.Checked = !it.Checked
		events.Session.Toggle(s.id, it.ID, it.Checked)
		acts = append(acts, Invalidate{Menu: m.id, Rect: m.ItemRect(idx)})
	case KindRadio:
		for _, i := range m.toggleRadio(idx) {
			acts = append(acts, Invalidate{Menu: m.id, Rect: m.ItemRect(i)})
		}
		events.Session.Toggle(s.id, it.ID, true)
	}

	sel := selectionOf(*it)
	events.Session.Select(s.id, sel.ID, sel.Value)
	s.result = sel
	s.finish()
	return append(acts, Close{Selection: sel})
}

func (s *Session) dismiss(reason events.DismissReason) []Action {
	events.Session.Dismiss(s.id, reason)
	s.finish()
	return []Action{Close{}}
}

func (s *Session) themeChanged(isDark bool) []Action {
	tree := s.root.Root()
	var err error
	if tree.themes != nil {
		err = tree.themes.Changed(isDark)
	}
	tree.SetDark(isDark)
	if err != nil {
		return s.Abort(resourceErr("theme", err))
	}
	acts := make([]Action, 0, len(s.open))
	for _, m := range s.open {
		acts = append(acts, Invalidate{Menu: m.id, Rect: m.Bounds()})
	}
	return acts
}

func (s *Session) finish() {
	s.done = true
	s.reset()
}

// reset clears the transient state of every menu in the tree.
func (s *Session) reset() {
	for _, m := range s.arena.menus {
		if !m.destroyed {
			m.resetTransient()
		}
	}
	s.open = nil
	s.query = ""
}

func (s *Session) remember(id ID) {
	for _, seen := range s.shown {
		if seen == id {
			return
		}
	}
	s.shown = append(s.shown, id)
}
