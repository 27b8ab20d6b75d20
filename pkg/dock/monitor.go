package dock

import "github.com/bnema/undock/pkg/geom"

// ClampPlacement nudges a window placement onto the monitor showing the
// largest share of it, or onto the nearest monitor when it is fully
// off-screen. Restored snapshots and freshly inferred placements both
// pass through here so a window never materializes where no monitor is.
// Without a position or a monitor list the placement is returned as-is.
func ClampPlacement(p WindowPlacement, monitors []geom.Rect) WindowPlacement {
	rect, ok := p.Rect()
	if !ok || len(monitors) == 0 {
		return p
	}

	mon, visible := bestMonitorFor(rect, monitors)
	if visible && mon.Contains(rect.Min) && mon.Contains(geom.Pt(rect.Max.X-1, rect.Max.Y-1)) {
		return p
	}

	// Shrink to fit the monitor, then slide the origin inside it.
	size := rect.Size()
	if size.W > mon.Width() {
		size.W = mon.Width()
	}
	if size.H > mon.Height() {
		size.H = mon.Height()
	}
	pos := rect.Min
	if pos.X < mon.Min.X {
		pos.X = mon.Min.X
	}
	if pos.Y < mon.Min.Y {
		pos.Y = mon.Min.Y
	}
	if pos.X+size.W > mon.Max.X {
		pos.X = mon.Max.X - size.W
	}
	if pos.Y+size.H > mon.Max.Y {
		pos.Y = mon.Max.Y - size.H
	}

	out := p
	out.Pos = &pos
	out.Size = size
	return out
}

// bestMonitorFor picks the monitor with the largest visible overlap,
// falling back to the one nearest the rectangle's center.
func bestMonitorFor(rect geom.Rect, monitors []geom.Rect) (geom.Rect, bool) {
	best := monitors[0]
	bestArea := 0.0
	found := false
	for _, m := range monitors {
		if area := m.Intersect(rect).Area(); area > bestArea {
			best, bestArea, found = m, area, true
		}
	}
	if found {
		return best, true
	}

	center := rect.Center()
	nearest := monitors[0]
	nearestDist := nearest.DistToPoint(center)
	for _, m := range monitors[1:] {
		if d := m.DistToPoint(center); d < nearestDist {
			nearest, nearestDist = m, d
		}
	}
	return nearest, false
}
