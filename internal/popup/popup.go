// Package popup drives menu sessions against a host window layer. Run
// applies one session's actions step by step for hosts that own their event
// loop; Controller wraps a Run in a blocking pump for hosts that do not.
package popup

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/atomicstack/ownerdraw-menu/internal/menu"
	"github.com/atomicstack/ownerdraw-menu/internal/placement"
	"github.com/atomicstack/ownerdraw-menu/internal/stats"
)

// Host is the window layer a session runs against. All methods are called
// from the goroutine driving the session.
type Host interface {
	Monitors() []placement.Monitor
	// OwnerBounds is the screen rectangle of the invoking surface.
	OwnerBounds() image.Rectangle

	Capture() error
	ReleaseCapture()

	Show(id menu.ID, bounds image.Rectangle) error
	Hide(id menu.ID)
	Invalidate(id menu.ID, rect image.Rectangle)

	// Schedule must arrange for TimerFired{Token: tok} to be fed back on
	// the session goroutine after the delay.
	Schedule(after time.Duration, tok menu.TimerToken)
	// Redeliver hands a dismissing press back to the invoking surface.
	Redeliver(ev menu.PointerDown)
	// Dispatch receives input unrelated to the session.
	Dispatch(ev menu.Event)
}

// Source yields the next input event for a blocking pump.
type Source interface {
	Next(ctx context.Context) (menu.Event, error)
}

// Options tune a session.
type Options struct {
	Delay time.Duration
	Stats *stats.Collector
}

// Run is one live session bound to a host.
type Run struct {
	host  Host
	sess  *menu.Session
	stats *stats.Collector

	captured  bool
	finished  bool
	redeliver []menu.PointerDown
}

// Start captures input and shows root at the requested point. When showing
// fails the capture is released again and the error returned.
func Start(host Host, root *menu.Menu, at image.Point, opts Options) (*Run, error) {
	if err := host.Capture(); err != nil {
		err = &menu.ResourceError{Resource: "capture", Err: err}
		opts.Stats.Session(stats.OutcomeFailed)
		return nil, err
	}
	sess, acts := menu.Open(root, at, menu.SessionOptions{
		Monitors: host.Monitors(),
		Owner:    host.OwnerBounds(),
		Delay:    opts.Delay,
	})
	r := &Run{host: host, sess: sess, stats: opts.Stats, captured: true}
	if err := r.apply(acts); err != nil {
		r.apply(sess.Abort(err))
		_, err = r.Finish()
		return nil, err
	}
	return r, nil
}

// Session exposes the underlying state machine.
func (r *Run) Session() *menu.Session { return r.sess }

// Done reports whether the session has ended.
func (r *Run) Done() bool { return r.finished || r.sess.Done() }

// Feed hands one event to the session and applies the resulting actions.
// It reports whether the session has ended.
func (r *Run) Feed(ev menu.Event) bool {
	if r.Done() {
		return true
	}
	if err := r.apply(r.sess.Handle(ev)); err != nil {
		r.apply(r.sess.Abort(err))
	}
	return r.sess.Done()
}

// Cancel aborts a running session with err.
func (r *Run) Cancel(err error) {
	if r.Done() {
		return
	}
	r.apply(r.sess.Abort(err))
}

// Finish releases capture, hides every window the session showed and
// re-delivers pending presses, in that order, whatever the outcome. It is
// safe to call more than once.
func (r *Run) Finish() (*menu.Selection, error) {
	if !r.finished {
		r.finished = true
		if !r.sess.Done() {
			r.apply(r.sess.Abort(context.Canceled))
		}
		if r.captured {
			r.host.ReleaseCapture()
			r.captured = false
		}
		shown := r.sess.Shown()
		for i := len(shown) - 1; i >= 0; i-- {
			r.host.Hide(shown[i])
		}
		for _, ev := range r.redeliver {
			r.host.Redeliver(ev)
			r.stats.Redelivered()
		}
		r.redeliver = nil
		r.record()
	}
	return r.sess.Result(), r.sess.Err()
}

func (r *Run) record() {
	switch {
	case r.sess.Err() != nil:
		r.stats.Session(stats.OutcomeFailed)
	case r.sess.Result() != nil:
		r.stats.Session(stats.OutcomeSelected)
	default:
		r.stats.Session(stats.OutcomeDismissed)
	}
}

func (r *Run) apply(acts []menu.Action) error {
	root := r.sess.Root().ID()
	for _, a := range acts {
		switch a := a.(type) {
		case menu.Show:
			if err := r.host.Show(a.Menu, a.Bounds); err != nil {
				return &menu.ResourceError{Resource: "window", Err: fmt.Errorf("show menu %d: %w", a.Menu, err)}
			}
			if a.Menu != root {
				r.stats.SubmenuShown()
			}
		case menu.Hide:
			r.host.Hide(a.Menu)
		case menu.Invalidate:
			r.host.Invalidate(a.Menu, a.Rect)
		case menu.Schedule:
			r.host.Schedule(a.After, a.Token)
		case menu.Redeliver:
			r.redeliver = append(r.redeliver, a.Event)
		case menu.Forward:
			r.host.Dispatch(a.Event)
		case menu.Close:
		}
	}
	return nil
}

// Controller runs blocking popups: PopupAt returns only once the session
// has ended.
type Controller struct {
	host   Host
	source Source
	opts   Options
}

// NewController binds a host to an event source.
func NewController(host Host, source Source, opts Options) *Controller {
	return &Controller{host: host, source: source, opts: opts}
}

// PopupAt shows root at (x, y) in screen space and pumps events until a
// selection or a dismissal. A nil selection with a nil error means the menu
// was dismissed.
func (c *Controller) PopupAt(ctx context.Context, root *menu.Menu, x, y int) (*menu.Selection, error) {
	run, err := Start(c.host, root, image.Pt(x, y), c.opts)
	if err != nil {
		return nil, err
	}
	for !run.Done() {
		ev, err := c.source.Next(ctx)
		if err != nil {
			run.Cancel(err)
			break
		}
		run.Feed(ev)
	}
	return run.Finish()
}
