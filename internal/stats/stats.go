// Package stats collects Prometheus metrics about popup sessions.
package stats

import (
	"sort"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// Outcome labels a finished session.
type Outcome string

const (
	OutcomeSelected  Outcome = "selected"
	OutcomeDismissed Outcome = "dismissed"
	OutcomeFailed    Outcome = "failed"
)

// Collector owns a private registry so tests and embedders do not share the
// global one. A nil *Collector is valid and records nothing.
type Collector struct {
	registry     *prometheus.Registry
	sessions     *prometheus.CounterVec
	redeliveries prometheus.Counter
	submenus     prometheus.Counter
	builds       prometheus.Histogram
}

// New registers the session collectors on a fresh registry.
func New() *Collector {
	return NewWithRegistry(prometheus.NewRegistry())
}

// NewWithRegistry registers the collectors on reg.
func NewWithRegistry(reg *prometheus.Registry) *Collector {
	c := &Collector{
		registry: reg,
		sessions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ownerdraw_menu_sessions_total",
			Help: "Popup sessions by outcome.",
		}, []string{"outcome"}),
		redeliveries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ownerdraw_menu_redeliveries_total",
			Help: "Dismissing presses handed back to the invoking surface.",
		}),
		submenus: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ownerdraw_menu_submenus_shown_total",
			Help: "Submenu windows shown.",
		}),
		builds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ownerdraw_menu_build_seconds",
			Help:    "Time spent in menu layout.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
	}
	reg.MustRegister(c.sessions, c.redeliveries, c.submenus, c.builds)
	return c
}

// Registry exposes the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// Session counts one finished session.
func (c *Collector) Session(outcome Outcome) {
	if c == nil {
		return
	}
	c.sessions.WithLabelValues(string(outcome)).Inc()
}

// Redelivered counts one re-delivered press.
func (c *Collector) Redelivered() {
	if c == nil {
		return
	}
	c.redeliveries.Inc()
}

// SubmenuShown counts one submenu window shown.
func (c *Collector) SubmenuShown() {
	if c == nil {
		return
	}
	c.submenus.Inc()
}

// ObserveBuild records the duration of one Build call.
func (c *Collector) ObserveBuild(d time.Duration) {
	if c == nil {
		return
	}
	c.builds.Observe(d.Seconds())
}

// Snapshot flattens the registry into name{labels} -> value pairs. Counters
// report their value and histograms their sample count.
func (c *Collector) Snapshot() map[string]float64 {
	out := map[string]float64{}
	if c == nil {
		return out
	}
	families, err := c.registry.Gather()
	if err != nil {
		return out
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			key := mf.GetName() + labels(m.GetLabel())
			switch {
			case m.GetCounter() != nil:
				out[key] = m.GetCounter().GetValue()
			case m.GetHistogram() != nil:
				out[key+"_count"] = float64(m.GetHistogram().GetSampleCount())
			}
		}
	}
	return out
}

func labels(pairs []*dto.LabelPair) string {
	if len(pairs) == 0 {
		return ""
	}
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		parts = append(parts, p.GetName()+"="+p.GetValue())
	}
	sort.Strings(parts)
	return "{" + strings.Join(parts, ",") + "}"
}
