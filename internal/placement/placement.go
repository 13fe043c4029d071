// Package placement positions popup surfaces on a multi-monitor desktop.
// Coordinates are screen space throughout.
package placement

import "image"

// Monitor is one display. Work excludes task bars and docks.
type Monitor struct {
	Bounds image.Rectangle
	Work   image.Rectangle
}

func (m Monitor) usable() image.Rectangle {
	if m.Work.Empty() {
		return m.Bounds
	}
	return m.Work
}

// Result is a resolved popup origin.
type Result struct {
	Origin   image.Point
	FlippedX bool
	FlippedY bool
	Monitor  Monitor
	// Constrained is false when no monitor was available and the origin is
	// the requested point unchanged.
	Constrained bool
}

// Rect returns the popup rectangle for a surface of the given size.
func (r Result) Rect(size image.Point) image.Rectangle {
	return image.Rectangle{Min: r.Origin, Max: r.Origin.Add(size)}
}

// Pick returns the monitor containing pt. When pt is on no monitor it falls
// back to the monitor holding most of the owner window, then to the monitor
// nearest the owner's center.
func Pick(monitors []Monitor, pt image.Point, owner image.Rectangle) (Monitor, bool) {
	if len(monitors) == 0 {
		return Monitor{}, false
	}
	for _, m := range monitors {
		if pt.In(m.Bounds) {
			return m, true
		}
	}
	best, bestArea := -1, 0
	for i, m := range monitors {
		inter := m.Bounds.Intersect(owner)
		if area := inter.Dx() * inter.Dy(); area > bestArea {
			best, bestArea = i, area
		}
	}
	if best >= 0 {
		return monitors[best], true
	}
	center := image.Pt((owner.Min.X+owner.Max.X)/2, (owner.Min.Y+owner.Max.Y)/2)
	best, bestDist := 0, -1
	for i, m := range monitors {
		if d := distance(m.Bounds, center); bestDist < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return monitors[best], true
}

// Popup places a root popup whose top-left corner is requested at pt.
func Popup(monitors []Monitor, owner image.Rectangle, pt, size image.Point) Result {
	mon, ok := Pick(monitors, pt, owner)
	if !ok {
		return Result{Origin: pt}
	}
	work := mon.usable()
	res := Result{Origin: pt, Monitor: mon, Constrained: true}
	if res.Origin.Y < work.Min.Y {
		res.Origin.Y = work.Min.Y
	}
	if res.Origin.X < work.Min.X {
		res.Origin.X = work.Min.X
	}
	if res.Origin.Y+size.Y > work.Max.Y {
		res.Origin.Y -= size.Y
		res.FlippedY = true
	}
	if res.Origin.X+size.X > work.Max.X {
		res.Origin.X -= size.X
		res.FlippedX = true
	}
	res.Origin = clamp(res.Origin, size, work)
	return res
}

// Submenu places a child popup beside its parent item. parent is the parent
// popup's screen rectangle; top and bottom are the item's screen edges. The
// child opens to the right, overlapping the parent by overlap, and flips to
// the left only when it would overflow the monitor's right edge.
func Submenu(monitors []Monitor, owner, parent image.Rectangle, top, bottom int, size image.Point, overlap int) Result {
	anchor := image.Pt(parent.Max.X, top)
	mon, ok := Pick(monitors, anchor, owner)
	pt := image.Pt(parent.Max.X-overlap, top)
	if !ok {
		return Result{Origin: pt}
	}
	work := mon.usable()
	res := Result{Origin: pt, Monitor: mon, Constrained: true}
	if res.Origin.X+size.X > work.Max.X {
		res.Origin.X = parent.Min.X - size.X + overlap
		res.FlippedX = true
	}
	if res.Origin.Y+size.Y > work.Max.Y {
		res.Origin.Y = bottom - size.Y
		res.FlippedY = true
	}
	res.Origin = clamp(res.Origin, size, work)
	return res
}

func clamp(p, size image.Point, work image.Rectangle) image.Point {
	if p.X+size.X > work.Max.X {
		p.X = work.Max.X - size.X
	}
	if p.X < work.Min.X {
		p.X = work.Min.X
	}
	if p.Y+size.Y > work.Max.Y {
		p.Y = work.Max.Y - size.Y
	}
	if p.Y < work.Min.Y {
		p.Y = work.Min.Y
	}
	return p
}

func distance(r image.Rectangle, p image.Point) int {
	dx, dy := 0, 0
	switch {
	case p.X < r.Min.X:
		dx = r.Min.X - p.X
	case p.X >= r.Max.X:
		dx = p.X - r.Max.X + 1
	}
	switch {
	case p.Y < r.Min.Y:
		dy = r.Min.Y - p.Y
	case p.Y >= r.Max.Y:
		dy = p.Y - r.Max.Y + 1
	}
	return dx*dx + dy*dy
}
