package popup

import (
	"context"
	"errors"
	"image"
	"testing"

	"github.com/atomicstack/ownerdraw-menu/internal/fontmetrics"
	"github.com/atomicstack/ownerdraw-menu/internal/menu"
	"github.com/atomicstack/ownerdraw-menu/internal/stats"
	"github.com/atomicstack/ownerdraw-menu/internal/testutil"
)

func buildNested(t *testing.T) (*menu.Menu, *menu.Menu) {
	t.Helper()
	root := menu.New(menu.Options{Layout: menu.CellLayout()})
	root.Text("a", "Open")
	sub := root.Submenu("More")
	sub.Text("x", "One").Text("y", "Two")
	root.Text("c", "Close")
	if err := root.Build(menu.Environment{Metrics: fontmetrics.Cells{}}); err != nil {
		t.Fatalf("build: %v", err)
	}
	return root, sub
}

func itemPoint(m *menu.Menu, i int) image.Point {
	it := m.Item(i)
	return m.Origin().Add(image.Pt(2, (it.Top()+it.Bottom())/2))
}

func TestPopupAtReturnsSelection(t *testing.T) {
	root, _ := buildNested(t)
	host := testutil.NewHost()
	collector := stats.New()
	script := testutil.NewScript(
		func() menu.Event { return menu.PointerMove{Point: itemPoint(root, 2)} },
		func() menu.Event { return menu.PointerUp{Point: itemPoint(root, 2), Button: menu.ButtonPrimary} },
	)
	ctrl := NewController(host, script, Options{Stats: collector})

	sel, err := ctrl.PopupAt(context.Background(), root, 10, 5)
	if err != nil {
		t.Fatalf("popup: %v", err)
	}
	if sel == nil || sel.ID != "c" || sel.Label != "Close" {
		t.Fatalf("expected Close selected, got %#v", sel)
	}
	if host.Calls[0] != "capture" || host.Calls[1] != "show 0 (10,5)-(23,10)" {
		t.Fatalf("unexpected opening calls %v", host.Calls)
	}
	if host.Captured || len(host.Visible) != 0 {
		t.Fatalf("expected capture released and windows hidden")
	}
	if got := collector.Snapshot()["ownerdraw_menu_sessions_total{outcome=selected}"]; got != 1 {
		t.Fatalf("expected one selected session, got %v", got)
	}
}

func TestSubmenuOpensThroughScheduledTimer(t *testing.T) {
	root, sub := buildNested(t)
	host := testutil.NewHost()
	collector := stats.New()
	script := testutil.NewScript(
		func() menu.Event { return menu.PointerMove{Point: itemPoint(root, 1)} },
		func() menu.Event { return menu.TimerFired{Token: host.Scheduled[len(host.Scheduled)-1]} },
		func() menu.Event { return menu.PointerMove{Point: itemPoint(sub, 1)} },
		func() menu.Event { return menu.PointerUp{Point: itemPoint(sub, 1), Button: menu.ButtonPrimary} },
	)
	ctrl := NewController(host, script, Options{Stats: collector})

	sel, err := ctrl.PopupAt(context.Background(), root, 10, 5)
	if err != nil {
		t.Fatalf("popup: %v", err)
	}
	if sel == nil || sel.ID != "y" {
		t.Fatalf("expected y selected, got %#v", sel)
	}
	if host.Index("show 1 (23,7)-(34,11)") < 0 {
		t.Fatalf("expected submenu shown beside its item, calls %v", host.Calls)
	}
	if host.Index("hide 1") < host.Index("release") {
		t.Fatalf("expected capture released before hiding, calls %v", host.Calls)
	}
	if got := collector.Snapshot()["ownerdraw_menu_submenus_shown_total"]; got != 1 {
		t.Fatalf("expected one submenu shown, got %v", got)
	}
}

func TestOutsidePressIsRedeliveredAfterCleanup(t *testing.T) {
	root, _ := buildNested(t)
	host := testutil.NewHost()
	press := menu.PointerDown{Point: image.Pt(300, 200), Button: menu.ButtonSecondary}
	ctrl := NewController(host, testutil.NewScript(press), Options{})

	sel, err := ctrl.PopupAt(context.Background(), root, 10, 5)
	if err != nil || sel != nil {
		t.Fatalf("expected plain dismissal, got %#v, %v", sel, err)
	}
	release, hide, redeliver := host.Index("release"), host.Index("hide 0"), host.Index("redeliver")
	if release < 0 || hide < release || redeliver < hide {
		t.Fatalf("expected release, hide, redeliver order, calls %v", host.Calls)
	}
	if len(host.Redelivered) != 1 || host.Redelivered[0] != press {
		t.Fatalf("expected the press redelivered unchanged, got %v", host.Redelivered)
	}
}

func TestCaptureFailureShowsNothing(t *testing.T) {
	root, _ := buildNested(t)
	host := testutil.NewHost()
	host.CaptureErr = errors.New("capture denied")
	ctrl := NewController(host, testutil.NewScript(), Options{})

	_, err := ctrl.PopupAt(context.Background(), root, 10, 5)
	var rerr *menu.ResourceError
	if !errors.As(err, &rerr) || rerr.Resource != "capture" {
		t.Fatalf("expected capture error, got %v", err)
	}
	if len(host.Calls) != 0 {
		t.Fatalf("expected no host calls, got %v", host.Calls)
	}
}

func TestShowFailureReleasesCapture(t *testing.T) {
	root, _ := buildNested(t)
	host := testutil.NewHost()
	host.ShowErr = errors.New("no window class")
	ctrl := NewController(host, testutil.NewScript(), Options{})

	_, err := ctrl.PopupAt(context.Background(), root, 10, 5)
	var rerr *menu.ResourceError
	if !errors.As(err, &rerr) || rerr.Resource != "window" {
		t.Fatalf("expected window error, got %v", err)
	}
	if host.Captured || host.Index("release") < 0 {
		t.Fatalf("expected capture released, calls %v", host.Calls)
	}
	if root.Visible() {
		t.Fatalf("expected root state reset")
	}
}

func TestSourceFailureCleansUp(t *testing.T) {
	root, _ := buildNested(t)
	host := testutil.NewHost()
	ctrl := NewController(host, testutil.NewScript(
		func() menu.Event { return menu.PointerMove{Point: itemPoint(root, 0)} },
	), Options{})

	sel, err := ctrl.PopupAt(context.Background(), root, 10, 5)
	if sel != nil || !errors.Is(err, testutil.ErrScriptDone) {
		t.Fatalf("expected source error, got %#v, %v", sel, err)
	}
	if host.Captured || len(host.Visible) != 0 || root.Selected() != -1 {
		t.Fatalf("expected full cleanup after failure")
	}
}

func TestContextCancellation(t *testing.T) {
	root, _ := buildNested(t)
	host := testutil.NewHost()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ctrl := NewController(host, testutil.NewScript(menu.Deactivated{}), Options{})

	_, err := ctrl.PopupAt(ctx, root, 10, 5)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
	if host.Captured {
		t.Fatalf("expected capture released")
	}
}

func TestForeignInputIsDispatched(t *testing.T) {
	root, _ := buildNested(t)
	host := testutil.NewHost()
	run, err := Start(host, root, image.Pt(10, 5), Options{})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if run.Feed(menu.Foreign{Payload: "resize"}) {
		t.Fatalf("foreign input ended the session")
	}
	if len(host.Dispatched) != 1 {
		t.Fatalf("expected dispatch, got %v", host.Calls)
	}
	if !run.Feed(menu.Key{Name: "esc"}) {
		t.Fatalf("expected esc to end the session")
	}
	sel, err := run.Finish()
	if sel != nil || err != nil {
		t.Fatalf("expected dismissal, got %#v, %v", sel, err)
	}
	calls := len(host.Calls)
	run.Finish()
	if len(host.Calls) != calls {
		t.Fatalf("expected Finish to be idempotent")
	}
}
