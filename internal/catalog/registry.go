package catalog

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/atomicstack/ownerdraw-menu/internal/menu"
	"github.com/atomicstack/ownerdraw-menu/internal/stats"
)

// Registry holds the built menus of an application, keyed by the label of
// the window they pop up over.
type Registry struct {
	env   menu.Environment
	stats *stats.Collector
	menus map[string]*menu.Menu
}

// NewRegistry creates an empty registry that builds menus against env.
func NewRegistry(env menu.Environment, collector *stats.Collector) *Registry {
	return &Registry{env: env, stats: collector, menus: make(map[string]*menu.Menu)}
}

// Register builds m and stores it under label. A menu already registered
// under the label is destroyed after the new one builds.
func (r *Registry) Register(label string, m *menu.Menu) error {
	start := time.Now()
	if err := m.Build(r.env); err != nil {
		return fmt.Errorf("build %s menu: %w", label, err)
	}
	r.stats.ObserveBuild(time.Since(start))
	old, ok := r.menus[label]
	r.menus[label] = m
	if ok && old != m {
		if err := old.Destroy(); err != nil {
			return fmt.Errorf("destroy previous %s menu: %w", label, err)
		}
	}
	return nil
}

// RegisterDefaults builds the player, playlist and sort menus from s.
func (r *Registry) RegisterDefaults(s Settings, opts menu.Options) error {
	menus := []struct {
		label string
		m     *menu.Menu
	}{
		{LabelPlayer, NewPlayerMenu(s, opts)},
		{LabelPlaylist, NewPlaylistMenu(opts)},
		{LabelSort, NewSortMenu(s, opts)},
	}
	for _, entry := range menus {
		if err := r.Register(entry.label, entry.m); err != nil {
			return err
		}
	}
	return nil
}

// Find returns the menu registered under label.
func (r *Registry) Find(label string) (*menu.Menu, bool) {
	m, ok := r.menus[label]
	return m, ok
}

// Labels lists registered labels in sorted order.
func (r *Registry) Labels() []string {
	labels := make([]string, 0, len(r.menus))
	for label := range r.menus {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// Remove destroys and forgets the menu under label.
func (r *Registry) Remove(label string) error {
	m, ok := r.menus[label]
	if !ok {
		return nil
	}
	delete(r.menus, label)
	return m.Destroy()
}

// Close destroys every registered menu.
func (r *Registry) Close() error {
	var errs []error
	for _, label := range r.Labels() {
		if err := r.Remove(label); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
