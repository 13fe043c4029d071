package placement

import (
	"image"
	"testing"
)

var (
	primary = Monitor{
		Bounds: image.Rect(0, 0, 1920, 1080),
		Work:   image.Rect(0, 0, 1920, 1040),
	}
	secondary = Monitor{
		Bounds: image.Rect(1920, 0, 3200, 1024),
		Work:   image.Rect(1920, 30, 3200, 1024),
	}
	monitors = []Monitor{primary, secondary}
	owner    = image.Rect(100, 100, 900, 700)
)

func TestPopupKeepsRequestedPointWhenItFits(t *testing.T) {
	res := Popup(monitors, owner, image.Pt(400, 300), image.Pt(200, 150))
	if res.Origin != image.Pt(400, 300) {
		t.Fatalf("expected origin unchanged, got %v", res.Origin)
	}
	if res.FlippedX || res.FlippedY {
		t.Fatalf("expected no flips, got %+v", res)
	}
}

func TestPopupFlipsLeftNearRightEdge(t *testing.T) {
	size := image.Pt(200, 150)
	pt := image.Pt(primary.Work.Max.X-5, 300)
	res := Popup([]Monitor{primary}, owner, pt, size)
	if !res.FlippedX {
		t.Fatalf("expected flip-left branch")
	}
	if right := res.Origin.X + size.X; right > primary.Work.Max.X {
		t.Fatalf("menu right edge %d exceeds work area %d", right, primary.Work.Max.X)
	}
	if res.Origin.X != pt.X-size.X {
		t.Fatalf("expected x %d, got %d", pt.X-size.X, res.Origin.X)
	}
}

func TestPopupFlipsUpNearBottomEdge(t *testing.T) {
	size := image.Pt(200, 150)
	pt := image.Pt(300, primary.Work.Max.Y-10)
	res := Popup([]Monitor{primary}, owner, pt, size)
	if !res.FlippedY {
		t.Fatalf("expected flip-up branch")
	}
	if res.Origin.Y != pt.Y-size.Y {
		t.Fatalf("expected y %d, got %d", pt.Y-size.Y, res.Origin.Y)
	}
}

func TestPopupSlidesIntoWorkAreaFromTop(t *testing.T) {
	size := image.Pt(100, 100)
	pt := image.Pt(2000, 5)
	res := Popup(monitors, owner, pt, size)
	if res.Monitor != secondary {
		t.Fatalf("expected secondary monitor, got %+v", res.Monitor)
	}
	if res.Origin.Y != secondary.Work.Min.Y {
		t.Fatalf("expected slide down to %d, got %d", secondary.Work.Min.Y, res.Origin.Y)
	}
}

func TestPopupOffMonitorFallsBackToOwnerMonitor(t *testing.T) {
	size := image.Pt(100, 100)
	pt := image.Pt(-500, -500)
	res := Popup(monitors, owner, pt, size)
	if res.Monitor != primary {
		t.Fatalf("expected owner's monitor, got %+v", res.Monitor)
	}
	if res.Origin != primary.Work.Min {
		t.Fatalf("expected origin slid to work area corner, got %v", res.Origin)
	}
}

func TestPopupWithoutMonitorsIsUnconstrained(t *testing.T) {
	res := Popup(nil, owner, image.Pt(7, 9), image.Pt(10, 10))
	if res.Constrained || res.Origin != image.Pt(7, 9) {
		t.Fatalf("expected unconstrained origin, got %+v", res)
	}
}

func TestPopupContainmentAcrossBranches(t *testing.T) {
	size := image.Pt(240, 310)
	for _, mon := range monitors {
		work := mon.Work
		for x := work.Min.X - 50; x <= work.Max.X+50; x += 37 {
			for y := work.Min.Y - 50; y <= work.Max.Y+50; y += 41 {
				res := Popup([]Monitor{mon}, owner, image.Pt(x, y), size)
				if !res.Rect(size).In(work) {
					t.Fatalf("popup at (%d,%d) -> %v not inside %v", x, y, res.Rect(size), work)
				}
			}
		}
	}
}

func TestSubmenuOpensRightAndFlipsLeft(t *testing.T) {
	size := image.Pt(180, 120)
	parent := image.Rect(300, 200, 500, 400)
	res := Submenu(monitors, owner, parent, 240, 265, size, 5)
	if res.FlippedX || res.Origin != image.Pt(495, 240) {
		t.Fatalf("expected right-side placement at (495,240), got %+v", res)
	}

	parent = image.Rect(1700, 200, 1900, 400)
	res = Submenu([]Monitor{primary}, owner, parent, 240, 265, size, 5)
	if !res.FlippedX {
		t.Fatalf("expected left flip near right edge")
	}
	if res.Origin.X != parent.Min.X-size.X+5 {
		t.Fatalf("expected x %d, got %d", parent.Min.X-size.X+5, res.Origin.X)
	}
}

func TestSubmenuFlipsUpAnchoredToItemBottom(t *testing.T) {
	size := image.Pt(180, 300)
	parent := image.Rect(300, 700, 500, 1000)
	res := Submenu([]Monitor{primary}, owner, parent, 900, 925, size, 5)
	if !res.FlippedY {
		t.Fatalf("expected flip up")
	}
	if res.Origin.Y != 925-size.Y {
		t.Fatalf("expected y %d, got %d", 925-size.Y, res.Origin.Y)
	}
	if !res.Rect(size).In(primary.Work) {
		t.Fatalf("submenu %v escapes work area", res.Rect(size))
	}
}
