package menu

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/atomicstack/ownerdraw-menu/internal/logging/events"
)

// key handles navigation in the focused menu.
func (s *Session) key(k Key) []Action {
	lvl := s.focus()
	m := s.open[lvl]
	if k.Name != "" {
		s.query = ""
	}
	switch k.Name {
	case "down":
		return s.hover(lvl, m.step(m.selected, 1))
	case "up":
		return s.hover(lvl, m.step(m.selected, -1))
	case "right":
		return s.enterSubmenu(lvl)
	case "left":
		return s.closeFrom(len(s.open) - 1)
	case "esc", "escape":
		if len(s.open) > 1 {
			return s.closeFrom(len(s.open) - 1)
		}
		return s.dismiss(events.DismissEscape)
	case "enter":
		if m.selected < 0 {
			return nil
		}
		if m.items[m.selected].Kind == KindSubmenu {
			return s.enterSubmenu(lvl)
		}
		return s.commit(lvl, m.selected)
	case "":
		if k.Rune != 0 {
			return s.typeAhead(lvl, k.Rune)
		}
	}
	return nil
}

// focus is the deepest open level with a selection. A submenu opened by
// the hover delay takes keyboard focus only once an item in it is selected.
func (s *Session) focus() int {
	lvl := len(s.open) - 1
	for lvl > 0 && s.open[lvl].selected < 0 {
		lvl--
	}
	return lvl
}

// enterSubmenu opens the selected submenu right away and selects its first
// item.
func (s *Session) enterSubmenu(lvl int) []Action {
	m := s.open[lvl]
	if m.selected < 0 {
		return nil
	}
	it := m.items[m.selected]
	if it.Kind != KindSubmenu || it.Disabled {
		return nil
	}
	acts := s.openSubmenu(lvl)
	if len(s.open) <= lvl+1 {
		return acts
	}
	child := s.open[lvl+1]
	return append(acts, s.hover(lvl+1, child.step(-1, 1))...)
}

// step returns the next non-separator index from start in direction dir,
// wrapping around, or -1 if the menu has none.
func (m *Menu) step(start, dir int) int {
	n := len(m.items)
	if n == 0 {
		return -1
	}
	if start < 0 && dir < 0 {
		start = n
	}
	for k := 1; k <= n; k++ {
		i := ((start+dir*k)%n + n) % n
		if m.items[i].selectable() {
			return i
		}
	}
	return -1
}

func (s *Session) typeAhead(lvl int, r rune) []Action {
	m := s.open[lvl]
	s.query += string(r)
	idx := m.match(s.query)
	if idx < 0 && len([]rune(s.query)) > 1 {
		s.query = string(r)
		idx = m.match(s.query)
	}
	if idx < 0 {
		s.query = ""
		return nil
	}
	return s.hover(lvl, idx)
}

// match finds the item whose label best matches query. Prefix matches win,
// then the closest fuzzy distance, then the earliest item.
func (m *Menu) match(query string) int {
	var targets []string
	var index []int
	for i, it := range m.items {
		if !it.selectable() {
			continue
		}
		text, _ := it.Accelerator()
		targets = append(targets, text)
		index = append(index, i)
	}
	ranks := fuzzy.RankFindFold(query, targets)
	if len(ranks) == 0 {
		return -1
	}
	lower := strings.ToLower(query)
	prefix := func(r fuzzy.Rank) bool {
		return strings.HasPrefix(strings.ToLower(r.Target), lower)
	}
	sort.SliceStable(ranks, func(a, b int) bool {
		pa, pb := prefix(ranks[a]), prefix(ranks[b])
		if pa != pb {
			return pa
		}
		if ranks[a].Distance != ranks[b].Distance {
			return ranks[a].Distance < ranks[b].Distance
		}
		return ranks[a].OriginalIndex < ranks[b].OriginalIndex
	})
	return index[ranks[0].OriginalIndex]
}
