// Package testutil holds fakes shared by package tests: a recording popup
// host, a scripted event source and golden-file helpers.
package testutil

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/atomicstack/ownerdraw-menu/internal/menu"
	"github.com/atomicstack/ownerdraw-menu/internal/placement"
)

// Host is a popup host that records every call as a short string such as
// "show 0 (100,100)-(176,200)" or "release".
type Host struct {
	Screens    []placement.Monitor
	Owner      image.Rectangle
	CaptureErr error
	ShowErr    error

	Calls       []string
	Visible     map[menu.ID]image.Rectangle
	Scheduled   []menu.TimerToken
	Redelivered []menu.PointerDown
	Dispatched  []menu.Event
	Captured    bool

	// OnDispatch, when set, runs for every forwarded event.
	OnDispatch func(menu.Event)
}

// NewHost returns a host with a single 1920x1080 monitor whose work area
// excludes a 40px task bar, owned by an 800x600 window at the origin.
func NewHost() *Host {
	return &Host{
		Screens: []placement.Monitor{{
			Bounds: image.Rect(0, 0, 1920, 1080),
			Work:   image.Rect(0, 0, 1920, 1040),
		}},
		Owner:   image.Rect(0, 0, 800, 600),
		Visible: map[menu.ID]image.Rectangle{},
	}
}

func (h *Host) Monitors() []placement.Monitor { return h.Screens }

func (h *Host) OwnerBounds() image.Rectangle { return h.Owner }

func (h *Host) Capture() error {
	if h.CaptureErr != nil {
		return h.CaptureErr
	}
	h.Captured = true
	h.record("capture")
	return nil
}

func (h *Host) ReleaseCapture() {
	h.Captured = false
	h.record("release")
}

func (h *Host) Show(id menu.ID, bounds image.Rectangle) error {
	if h.ShowErr != nil {
		return h.ShowErr
	}
	h.Visible[id] = bounds
	h.record(fmt.Sprintf("show %d %v", id, bounds))
	return nil
}

func (h *Host) Hide(id menu.ID) {
	delete(h.Visible, id)
	h.record(fmt.Sprintf("hide %d", id))
}

func (h *Host) Invalidate(id menu.ID, rect image.Rectangle) {
	h.record(fmt.Sprintf("invalidate %d %v", id, rect))
}

func (h *Host) Schedule(after time.Duration, tok menu.TimerToken) {
	h.Scheduled = append(h.Scheduled, tok)
	h.record(fmt.Sprintf("schedule %d %d", tok.Menu, tok.Index))
}

func (h *Host) Redeliver(ev menu.PointerDown) {
	h.Redelivered = append(h.Redelivered, ev)
	h.record(fmt.Sprintf("redeliver %v", ev.Point))
}

func (h *Host) Dispatch(ev menu.Event) {
	h.Dispatched = append(h.Dispatched, ev)
	h.record("dispatch")
	if h.OnDispatch != nil {
		h.OnDispatch(ev)
	}
}

func (h *Host) record(call string) {
	h.Calls = append(h.Calls, call)
}

// Index returns the position of the first call with the given prefix, or -1.
func (h *Host) Index(prefix string) int {
	for i, c := range h.Calls {
		if len(c) >= len(prefix) && c[:len(prefix)] == prefix {
			return i
		}
	}
	return -1
}

// ErrScriptDone is returned once a Script has no events left.
var ErrScriptDone = errors.New("script exhausted")

// Script is an event source that replays a fixed list. Each entry may be a
// menu.Event or a func() menu.Event evaluated lazily, which lets a script
// refer to state such as timer tokens produced by earlier steps.
type Script struct {
	steps []any
}

// NewScript builds a script from events and lazy event funcs.
func NewScript(steps ...any) *Script {
	return &Script{steps: steps}
}

// Next implements popup.Source.
func (s *Script) Next(ctx context.Context) (menu.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(s.steps) == 0 {
		return nil, ErrScriptDone
	}
	step := s.steps[0]
	s.steps = s.steps[1:]
	switch v := step.(type) {
	case menu.Event:
		return v, nil
	case func() menu.Event:
		return v(), nil
	}
	return nil, fmt.Errorf("unsupported script step %T", step)
}
