package menu

import (
	"image"
	"time"
)

// DefaultSubmenuDelay is how long the pointer must rest on a submenu item
// before the submenu opens.
const DefaultSubmenuDelay = 400 * time.Millisecond

// Button identifies a pointer button.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonSecondary
	ButtonMiddle
)

func (b Button) String() string {
	switch b {
	case ButtonPrimary:
		return "primary"
	case ButtonSecondary:
		return "secondary"
	case ButtonMiddle:
		return "middle"
	}
	return "unknown"
}

// Event is input fed to Session.Handle. Pointer coordinates are in screen
// space.
type Event interface{ isEvent() }

type PointerMove struct {
	Point image.Point
}

type PointerDown struct {
	Point  image.Point
	Button Button
}

type PointerUp struct {
	Point  image.Point
	Button Button
}

// TimerFired delivers a token previously handed out with Schedule.
type TimerFired struct {
	Token TimerToken
}

// ThemeChanged is the host's explicit theme notification.
type ThemeChanged struct {
	Dark bool
}

// Key is a navigation key ("up", "down", "left", "right", "enter", "esc")
// or, when Name is empty, a typed rune.
type Key struct {
	Name string
	Rune rune
}

// Deactivated reports that the host window lost activation.
type Deactivated struct{}

// Foreign wraps host input unrelated to the session. It is forwarded back
// to the host's normal dispatch.
type Foreign struct {
	Payload any
}

func (PointerMove) isEvent()  {}
func (PointerDown) isEvent()  {}
func (PointerUp) isEvent()    {}
func (TimerFired) isEvent()   {}
func (ThemeChanged) isEvent() {}
func (Key) isEvent()          {}
func (Deactivated) isEvent()  {}
func (Foreign) isEvent()      {}

// TimerToken identifies one armed submenu delay.
type TimerToken struct {
	Menu  ID
	Index int
	Seq   uint64
}

// Action is an instruction for the host, produced by Session.Handle.
type Action interface{ isAction() }

// Show places menu's window at Bounds (screen space) and shows it.
type Show struct {
	Menu   ID
	Bounds image.Rectangle
}

// Hide hides menu's window.
type Hide struct {
	Menu ID
}

// Invalidate requests a repaint of Rect in menu's client space.
type Invalidate struct {
	Menu ID
	Rect image.Rectangle
}

// Schedule asks the host to feed TimerFired{Token} after the delay.
type Schedule struct {
	After time.Duration
	Token TimerToken
}

// Redeliver hands a dismissing press back to the invoking surface once the
// session has released capture.
type Redeliver struct {
	Event PointerDown
}

// Forward passes an unrelated event to the host's normal dispatch.
type Forward struct {
	Event Event
}

// Close ends the session. Selection is nil when the menu was dismissed.
type Close struct {
	Selection *Selection
}

func (Show) isAction()       {}
func (Hide) isAction()       {}
func (Invalidate) isAction() {}
func (Schedule) isAction()   {}
func (Redeliver) isAction()  {}
func (Forward) isAction()    {}
func (Close) isAction()      {}

// Selection is the result of a committed item.
type Selection struct {
	ID    string
	Label string
	Value string
	State State
}

func selectionOf(it Item) *Selection {
	return &Selection{ID: it.ID, Label: it.Label, Value: it.Value, State: it.State()}
}
