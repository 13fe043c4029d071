package menu

import "strings"

// Kind identifies the row variant.
type Kind int

const (
	KindText Kind = iota
	KindCheckbox
	KindRadio
	KindSubmenu
	KindSeparator
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindCheckbox:
		return "checkbox"
	case KindRadio:
		return "radio"
	case KindSubmenu:
		return "submenu"
	case KindSeparator:
		return "separator"
	}
	return "unknown"
}

// State is the item state reported with a selection.
type State int

const (
	StateNormal State = iota
	StateChecked
	StateDisabled
)

func (s State) String() string {
	switch s {
	case StateChecked:
		return "checked"
	case StateDisabled:
		return "disabled"
	}
	return "normal"
}

// Item is one row of a menu. Values returned by Menu accessors are copies;
// bounds are assigned by Build and cannot be changed from outside.
type Item struct {
	Kind     Kind
	ID       string
	Label    string
	Value    string
	Group    string
	Checked  bool
	Disabled bool

	top     int
	bottom  int
	submenu ID
}

// Top is the item's upper edge in client coordinates.
func (it Item) Top() int { return it.top }

// Bottom is the item's lower edge in client coordinates.
func (it Item) Bottom() int { return it.bottom }

// Height is Bottom-Top.
func (it Item) Height() int { return it.bottom - it.top }

// Submenu returns the child menu id for submenu items and NoMenu otherwise.
func (it Item) Submenu() ID {
	if it.Kind != KindSubmenu {
		return NoMenu
	}
	return it.submenu
}

// Accelerator splits a "Label\tCtrl+P" label into its display text and the
// accelerator hint. Labels without a tab have no hint.
func (it Item) Accelerator() (text, accel string) {
	text, accel, _ = strings.Cut(it.Label, "\t")
	return text, accel
}

// State derives the reported state from the item flags.
func (it Item) State() State {
	switch {
	case it.Disabled:
		return StateDisabled
	case it.Checked:
		return StateChecked
	}
	return StateNormal
}

func (it Item) selectable() bool {
	return it.Kind != KindSeparator
}

func (it Item) checkable() bool {
	return it.Kind == KindCheckbox || it.Kind == KindRadio
}
