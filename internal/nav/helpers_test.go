package nav

import (
	"fmt"
	"reflect"
	"testing"
)

type fixture struct {
	t     *testing.T
	tree  *Tree
	boxes Boxes
	nav   *Navigator
	diags []Diagnostic
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{t: t, tree: NewTree(), boxes: Boxes{}}
	opts = append([]Option{WithDiagnostics(func(d Diagnostic) { f.diags = append(f.diags, d) })}, opts...)
	f.nav = New(f.tree, opts...)
	return f
}

func (f *fixture) menu(spec MenuSpec) {
	f.t.Helper()
	if err := f.tree.AddMenu(spec); err != nil {
		f.t.Fatalf("add menu %s: %v", spec.ID, err)
	}
}

func (f *fixture) item(spec FocusableSpec, box Rect) {
	f.t.Helper()
	if err := f.tree.AddFocusable(spec); err != nil {
		f.t.Fatalf("add focusable %s: %v", spec.ID, err)
	}
	f.boxes[spec.ID] = box
}

// row adds focusables to menu laid out left to right at y, ten cells apart.
func (f *fixture) row(menu ID, y float64, ids ...ID) {
	f.t.Helper()
	for i, id := range ids {
		f.item(FocusableSpec{ID: id, Menu: menu}, Rect{X: float64(i * 10), Y: y, W: 5, H: 1})
	}
}

func (f *fixture) send(reqs ...Request) []Event {
	f.t.Helper()
	f.nav.Submit(reqs...)
	evs := f.nav.Pass(f.boxes)
	if err := checkInvariant(f.tree); err != nil {
		f.t.Fatalf("after %v: %v", reqs, err)
	}
	return evs
}

// last sends reqs and returns the final event of the pass.
func (f *fixture) last(reqs ...Request) Event {
	f.t.Helper()
	evs := f.send(reqs...)
	if len(evs) == 0 {
		f.t.Fatalf("no events for %v", reqs)
	}
	return evs[len(evs)-1]
}

func (f *fixture) focused() ID {
	f.t.Helper()
	id, ok := f.nav.Focused()
	if !ok {
		f.t.Fatalf("nothing focused")
	}
	return id
}

func (f *fixture) expectFocus(want ID) {
	f.t.Helper()
	if got := f.focused(); got != want {
		f.t.Fatalf("expected focus on %s, got %s (trail %v)", want, got, f.tree.Trail())
	}
}

func (f *fixture) diagCount(kind DiagnosticKind) int {
	n := 0
	for _, d := range f.diags {
		if d.Kind == kind {
			n++
		}
	}
	return n
}

func expectPath(t *testing.T, label string, got []ID, want ...ID) {
	t.Helper()
	if len(got) == 0 && len(want) == 0 {
		return
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("%s: expected %v, got %v", label, want, got)
	}
}

// checkInvariant verifies the focus states against the active trail and the
// remembered children against the menu contents.
func checkInvariant(t *Tree) error {
	index := make(map[ID]int, len(t.trail))
	for i, id := range t.trail {
		index[id] = i
	}
	focused := 0
	for id, f := range t.focusables {
		i, on := index[id]
		switch {
		case on && i == 0:
			if f.State != Focused {
				return fmt.Errorf("leaf %s is %s", id, f.State)
			}
		case on:
			if f.State != Active {
				return fmt.Errorf("trail element %s is %s", id, f.State)
			}
		default:
			if f.State != Inert && f.State != Blocked {
				return fmt.Errorf("off-trail element %s is %s", id, f.State)
			}
		}
		if f.State == Focused {
			focused++
		}
	}
	if focused > 1 {
		return fmt.Errorf("%d focused elements", focused)
	}
	if len(t.trail) > 0 {
		path, ok := t.rootPath(t.trail[0])
		if !ok || !reflect.DeepEqual(path, t.trail) {
			return fmt.Errorf("trail %v does not match root path %v", t.trail, path)
		}
		top := t.focusables[t.trail[len(t.trail)-1]]
		if t.menus[top.Menu].Anchor != "" {
			return fmt.Errorf("trail %v does not end in a root menu", t.trail)
		}
	}
	for id, m := range t.menus {
		if m.Remembered != "" && indexOf(m.children, m.Remembered) < 0 {
			return fmt.Errorf("menu %s remembers %s which is not a child", id, m.Remembered)
		}
	}
	return nil
}
