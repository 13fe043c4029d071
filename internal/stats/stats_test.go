package stats

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestSessionCountsByOutcome(t *testing.T) {
	c := New()
	c.Session(OutcomeSelected)
	c.Session(OutcomeSelected)
	c.Session(OutcomeDismissed)

	if got := testutil.ToFloat64(c.sessions.WithLabelValues("selected")); got != 2 {
		t.Fatalf("expected 2 selected sessions, got %v", got)
	}
	if got := testutil.ToFloat64(c.sessions.WithLabelValues("dismissed")); got != 1 {
		t.Fatalf("expected 1 dismissed session, got %v", got)
	}
}

func TestSnapshotFlattensRegistry(t *testing.T) {
	c := New()
	c.Session(OutcomeFailed)
	c.Redelivered()
	c.SubmenuShown()
	c.ObserveBuild(2 * time.Millisecond)

	snap := c.Snapshot()
	want := map[string]float64{
		"ownerdraw_menu_sessions_total{outcome=failed}": 1,
		"ownerdraw_menu_redeliveries_total":             1,
		"ownerdraw_menu_submenus_shown_total":           1,
		"ownerdraw_menu_build_seconds_count":            1,
	}
	for k, v := range want {
		if snap[k] != v {
			t.Fatalf("expected %s=%v, got %v (snapshot %v)", k, v, snap[k], snap)
		}
	}
}

func TestNilCollectorIsNoop(t *testing.T) {
	var c *Collector
	c.Session(OutcomeSelected)
	c.Redelivered()
	c.ObserveBuild(time.Second)
	if len(c.Snapshot()) != 0 || c.Registry() != nil {
		t.Fatalf("expected empty snapshot from nil collector")
	}
}
