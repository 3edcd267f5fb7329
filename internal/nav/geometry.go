package nav

import "math"

// Rect is an axis-aligned bounding box.
type Rect struct {
	X, Y, W, H float64
}

// Center returns the midpoint of the box.
func (r Rect) Center() (float64, float64) {
	return r.X + r.W/2, r.Y + r.H/2
}

// Contains reports whether the point lies inside the box. The right and
// bottom edges are exclusive.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Union returns the smallest box containing both r and o.
func (r Rect) Union(o Rect) Rect {
	minX := math.Min(r.X, o.X)
	minY := math.Min(r.Y, o.Y)
	maxX := math.Max(r.X+r.W, o.X+o.W)
	maxY := math.Max(r.Y+r.H, o.Y+o.H)
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// Geometry supplies the on-screen box of a focusable. Implementations must be
// free of side effects; the navigator may query the same ID several times
// during one resolution.
type Geometry interface {
	Bounds(id ID) (Rect, bool)
}

// GeometryFunc adapts a function to Geometry.
type GeometryFunc func(ID) (Rect, bool)

func (f GeometryFunc) Bounds(id ID) (Rect, bool) {
	if f == nil {
		return Rect{}, false
	}
	return f(id)
}

// Boxes is a fixed Geometry backed by a map.
type Boxes map[ID]Rect

func (b Boxes) Bounds(id ID) (Rect, bool) {
	r, ok := b[id]
	return r, ok
}

// FocusableAt returns the focusable under the point, considering only menus
// that are currently open: the roots and every menu anchored on the active
// trail. When boxes overlap the most recently registered focusable wins.
func FocusableAt(t *Tree, g Geometry, x, y float64) (ID, bool) {
	if t == nil || g == nil {
		return "", false
	}
	open := make(map[ID]bool)
	for _, root := range t.Roots() {
		open[root] = true
	}
	for _, id := range t.trail {
		if sub, ok := t.anchored[id]; ok {
			open[sub] = true
		}
	}
	var (
		best    ID
		bestSeq = -1
	)
	for menuID := range open {
		m := t.menus[menuID]
		for _, child := range m.children {
			f := t.focusables[child]
			if f.State == Blocked || f.seq < bestSeq {
				continue
			}
			r, ok := g.Bounds(child)
			if !ok || !r.Contains(x, y) {
				continue
			}
			best = child
			bestSeq = f.seq
		}
	}
	return best, bestSeq >= 0
}

func boundsOf(g Geometry, id ID) (Rect, bool) {
	if g == nil {
		return Rect{}, false
	}
	return g.Bounds(id)
}
