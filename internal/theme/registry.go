package theme

import (
	"errors"
	"fmt"

	"github.com/atomicstack/ownerdraw-menu/internal/logging/events"
)

// Resource is an opened host theme handle. Exactly one is live per registry
// while any root menu holds a reference.
type Resource interface {
	Dark() bool
	Close() error
}

// Opener acquires a fresh Resource from the host.
type Opener interface {
	Open(isDark bool) (Resource, error)
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(isDark bool) (Resource, error)

func (f OpenerFunc) Open(isDark bool) (Resource, error) { return f(isDark) }

// Subscriber receives pushed theme changes. Root menus subscribe and forward
// the flag to their whole submenu tree.
type Subscriber interface {
	SetDark(isDark bool)
}

// Registry reference-counts the shared theme resource across root menus and
// propagates theme-change notifications to every subscriber. It is owned by
// the host window layer and touched only from the UI goroutine.
type Registry struct {
	opener Opener
	res    Resource
	dark   bool
	subs   []Subscriber
}

// NewRegistry creates a registry. Nothing is opened until the first Acquire.
func NewRegistry(opener Opener, isDark bool) *Registry {
	if opener == nil {
		opener = StaticOpener
	}
	return &Registry{opener: opener, dark: isDark}
}

// Dark reports the current theme flag.
func (r *Registry) Dark() bool { return r.dark }

// Refs returns the number of live subscribers.
func (r *Registry) Refs() int { return len(r.subs) }

// Resource returns the open resource, or nil when no root menu is alive.
func (r *Registry) Resource() Resource { return r.res }

// Acquire registers sub and opens the resource for the first subscriber.
// Acquiring an already registered subscriber is a no-op.
func (r *Registry) Acquire(sub Subscriber) (Resource, error) {
	if r.index(sub) >= 0 {
		return r.res, nil
	}
	if len(r.subs) == 0 {
		res, err := r.opener.Open(r.dark)
		if err != nil {
			return nil, fmt.Errorf("open theme: %w", err)
		}
		r.res = res
		events.Theme.Open(r.dark)
	}
	r.subs = append(r.subs, sub)
	return r.res, nil
}

// Release drops sub and closes the resource once the last one is gone.
func (r *Registry) Release(sub Subscriber) error {
	idx := r.index(sub)
	if idx < 0 {
		return nil
	}
	r.subs = append(r.subs[:idx], r.subs[idx+1:]...)
	if len(r.subs) > 0 || r.res == nil {
		return nil
	}
	res := r.res
	r.res = nil
	events.Theme.Close()
	if err := res.Close(); err != nil {
		return fmt.Errorf("close theme: %w", err)
	}
	return nil
}

// Changed handles a host theme-change notification: the old resource is
// released, a fresh one opened, and every subscriber receives the new flag.
func (r *Registry) Changed(isDark bool) error {
	r.dark = isDark
	events.Theme.Change(isDark, len(r.subs))
	var errs []error
	if r.res != nil {
		if err := r.res.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close theme: %w", err))
		}
		r.res = nil
		res, err := r.opener.Open(isDark)
		if err != nil {
			errs = append(errs, fmt.Errorf("reopen theme: %w", err))
		} else {
			r.res = res
		}
	}
	for _, sub := range r.subs {
		sub.SetDark(isDark)
	}
	return errors.Join(errs...)
}

func (r *Registry) index(sub Subscriber) int {
	for i, s := range r.subs {
		if s == sub {
			return i
		}
	}
	return -1
}

type static bool

func (s static) Dark() bool   { return bool(s) }
func (s static) Close() error { return nil }

// StaticOpener opens a resource that only records the flag, for hosts with
// no native theme handle.
var StaticOpener Opener = OpenerFunc(func(isDark bool) (Resource, error) {
	return static(isDark), nil
})
