package nav

import "math"

// DefaultConeSlope accepts candidates whose perpendicular offset is smaller
// than their distance along the requested axis (a 45 degree half-angle).
const DefaultConeSlope = 1.0

type candidate struct {
	id    ID
	dist  float64
	perp  float64
	order int
}

func (c candidate) better(o candidate) bool {
	if c.dist != o.dist {
		return c.dist < o.dist
	}
	if c.perp != o.perp {
		return c.perp < o.perp
	}
	return c.order < o.order
}

// project splits a displacement into its component along dir and the
// absolute offset perpendicular to it.
func (d Direction) project(dx, dy float64) (along, perp float64) {
	switch d {
	case Up:
		return -dy, math.Abs(dx)
	case Down:
		return dy, math.Abs(dx)
	case Left:
		return -dx, math.Abs(dy)
	default:
		return dx, math.Abs(dy)
	}
}

// nearestInDirection picks the candidate closest to origin inside the cone
// around dir.
func nearestInDirection(origin Rect, dir Direction, ids []ID, g Geometry, slope float64) (ID, bool) {
	ox, oy := origin.Center()
	var (
		best  candidate
		found bool
	)
	for i, id := range ids {
		r, ok := boundsOf(g, id)
		if !ok {
			continue
		}
		cx, cy := r.Center()
		along, perp := dir.project(cx-ox, cy-oy)
		if along <= 0 || perp >= along*slope {
			continue
		}
		c := candidate{id: id, dist: math.Hypot(cx-ox, cy-oy), perp: perp, order: i}
		if !found || c.better(best) {
			best, found = c, true
		}
	}
	return best.id, found
}

// wrapAround picks, among the candidates lying behind origin, the one nearest
// to the opposite edge of bounds on the request axis.
func wrapAround(origin, bounds Rect, dir Direction, ids []ID, g Geometry) (ID, bool) {
	ox, oy := origin.Center()
	ex, ey := ox, oy
	switch dir {
	case Right:
		ex = bounds.X
	case Left:
		ex = bounds.X + bounds.W
	case Down:
		ey = bounds.Y
	case Up:
		ey = bounds.Y + bounds.H
	}
	var (
		best  candidate
		found bool
	)
	for i, id := range ids {
		r, ok := boundsOf(g, id)
		if !ok {
			continue
		}
		cx, cy := r.Center()
		if behind, _ := dir.project(cx-ox, cy-oy); behind >= 0 {
			continue
		}
		_, perp := dir.project(cx-ex, cy-ey)
		c := candidate{id: id, dist: math.Hypot(cx-ex, cy-ey), perp: perp, order: i}
		if !found || c.better(best) {
			best, found = c, true
		}
	}
	return best.id, found
}

// menuBounds is the union of the boxes of every child of menu.
func (t *Tree) menuBounds(menu ID, g Geometry) (Rect, bool) {
	m, ok := t.menus[menu]
	if !ok {
		return Rect{}, false
	}
	var (
		out   Rect
		found bool
	)
	for _, id := range m.children {
		r, ok := boundsOf(g, id)
		if !ok {
			continue
		}
		if !found {
			out, found = r, true
			continue
		}
		out = out.Union(r)
	}
	return out, found
}

// resolveMove finds the target of a Move. Inside the focused element's menu
// it looks for the nearest sibling in the cone; failing that, a wrapping menu
// wraps to its opposite edge and never climbs. Otherwise the whole menu is
// treated as one box inside its parent menu and the search repeats one level
// up.
func (n *Navigator) resolveMove(focused ID, dir Direction, g Geometry) (ID, bool) {
	t := n.tree
	origin, ok := boundsOf(g, focused)
	if !ok {
		n.report(Diagnostic{Kind: MissingGeometry, Subject: focused, Detail: "focused element has no bounds"})
		return "", false
	}
	menu := t.focusables[focused].Menu
	skip := focused
	visited := make(map[ID]bool)
	for {
		if visited[menu] {
			n.report(Diagnostic{Kind: CycleDetected, Subject: menu, Detail: "directional climb revisited menu"})
			return "", false
		}
		visited[menu] = true
		m, ok := t.menus[menu]
		if !ok {
			return "", false
		}
		siblings := t.navigable(menu, skip)
		if to, ok := nearestInDirection(origin, dir, siblings, g, n.coneSlope); ok {
			return to, true
		}
		if m.Setting.Wrapping {
			if bounds, ok := t.menuBounds(menu, g); ok {
				if to, ok := wrapAround(origin, bounds, dir, siblings, g); ok {
					return to, true
				}
			}
			return "", false
		}
		if m.Anchor == "" {
			return "", false
		}
		unit, ok := t.menuBounds(menu, g)
		if !ok {
			unit, ok = boundsOf(g, m.Anchor)
			if !ok {
				n.report(Diagnostic{Kind: MissingGeometry, Subject: menu, Detail: "menu and anchor have no bounds"})
				return "", false
			}
		}
		origin = unit
		skip = m.Anchor
		menu = t.focusables[m.Anchor].Menu
	}
}
