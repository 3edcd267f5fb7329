package nav

import (
	"errors"
	"testing"
)

func TestAddRejectsInvalidSpecs(t *testing.T) {
	tree := NewTree()
	if err := tree.AddMenu(MenuSpec{ID: " "}); !errors.Is(err, ErrInvalidSpec) {
		t.Fatalf("expected ErrInvalidSpec, got %v", err)
	}
	if err := tree.AddMenu(MenuSpec{ID: "m", Anchor: "a", AnchorName: "a"}); !errors.Is(err, ErrInvalidSpec) {
		t.Fatalf("expected ErrInvalidSpec for double anchor, got %v", err)
	}
	if err := tree.AddMenu(MenuSpec{ID: "m"}); err != nil {
		t.Fatalf("add menu: %v", err)
	}
	if err := tree.AddFocusable(FocusableSpec{ID: "m"}); !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID across menus and focusables, got %v", err)
	}
	if err := tree.AddFocusable(FocusableSpec{ID: "x", Menu: "missing"}); !errors.Is(err, ErrUnknownMenu) {
		t.Fatalf("expected ErrUnknownMenu, got %v", err)
	}
	if err := tree.Remove("nope"); !errors.Is(err, ErrUnknownID) {
		t.Fatalf("expected ErrUnknownID, got %v", err)
	}
}

func TestAnchorCanOpenOneMenu(t *testing.T) {
	tree := NewTree()
	if err := tree.AddFocusable(FocusableSpec{ID: "a"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := tree.AddMenu(MenuSpec{ID: "first", Anchor: "a"}); err != nil {
		t.Fatalf("add first: %v", err)
	}
	if err := tree.AddMenu(MenuSpec{ID: "second", Anchor: "a"}); !errors.Is(err, ErrAnchorTaken) {
		t.Fatalf("expected ErrAnchorTaken, got %v", err)
	}
	if sub, ok := tree.SubMenu("a"); !ok || sub != "first" {
		t.Fatalf("expected a to open first, got %q %v", sub, ok)
	}
	if parent, ok := tree.ParentMenu("first"); !ok || parent != RootMenu {
		t.Fatalf("expected first under the implicit root, got %q %v", parent, ok)
	}
}

func TestNamedAnchorPicksEarliestRegistration(t *testing.T) {
	tree := NewTree()
	for _, id := range []ID{"one", "two"} {
		if err := tree.AddFocusable(FocusableSpec{ID: id, Name: "shared"}); err != nil {
			t.Fatalf("add %s: %v", id, err)
		}
	}
	if err := tree.AddMenu(MenuSpec{ID: "sub", AnchorName: "shared"}); err != nil {
		t.Fatalf("add menu: %v", err)
	}
	if m, _ := tree.Menu("sub"); m.Anchor != "one" {
		t.Fatalf("expected anchor one, got %q", m.Anchor)
	}
}

func TestPendingMenuIsNotARoot(t *testing.T) {
	tree := NewTree()
	if err := tree.AddMenu(MenuSpec{ID: "later", Anchor: "ghost"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if m, _ := tree.Menu("later"); !m.Pending() {
		t.Fatalf("expected pending menu")
	}
	if roots := tree.Roots(); len(roots) != 0 {
		t.Fatalf("expected no roots, got %v", roots)
	}
	if !tree.Detached("later") {
		t.Fatalf("expected later to be detached")
	}

	if err := tree.AddFocusable(FocusableSpec{ID: "ghost"}); err != nil {
		t.Fatalf("add ghost: %v", err)
	}
	if diags := tree.ResolvePending(1); len(diags) != 0 {
		t.Fatalf("expected clean resolution, got %v", diags)
	}
	if tree.Detached("later") {
		t.Fatalf("expected later attached")
	}
	expectPath(t, "roots", tree.Roots(), RootMenu)
}

func TestResolvePendingRejectsCycle(t *testing.T) {
	tree := NewTree()
	if err := tree.AddMenu(MenuSpec{ID: "loop", Anchor: "inside"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := tree.AddFocusable(FocusableSpec{ID: "inside", Menu: "loop"}); err != nil {
		t.Fatalf("add inside: %v", err)
	}
	diags := tree.ResolvePending(0)
	kinds := map[DiagnosticKind]bool{}
	for _, d := range diags {
		kinds[d.Kind] = true
	}
	if !kinds[AnchorRejected] || !kinds[CycleDetected] {
		t.Fatalf("expected AnchorRejected and CycleDetected, got %v", diags)
	}
	if !tree.Detached("loop") {
		t.Fatalf("expected loop to stay detached")
	}
}

func TestRemoveAnchorDetachesAndReattaches(t *testing.T) {
	tree := NewTree()
	if err := tree.AddFocusable(FocusableSpec{ID: "gear", Name: "settings"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := tree.AddMenu(MenuSpec{ID: "sub", AnchorName: "settings"}); err != nil {
		t.Fatalf("add menu: %v", err)
	}
	if err := tree.Remove("gear"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if m, _ := tree.Menu("sub"); m.Anchor != "" || !m.Pending() {
		t.Fatalf("expected sub pending after its anchor went away, got %+v", m)
	}
	if err := tree.AddFocusable(FocusableSpec{ID: "cog", Name: "settings"}); err != nil {
		t.Fatalf("add cog: %v", err)
	}
	tree.ResolvePending(0)
	if m, _ := tree.Menu("sub"); m.Anchor != "cog" {
		t.Fatalf("expected sub anchored on cog, got %q", m.Anchor)
	}
}

func TestRemoveMenuIsRecursive(t *testing.T) {
	tree := NewTree()
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	must(tree.AddMenu(MenuSpec{ID: "top"}))
	must(tree.AddFocusable(FocusableSpec{ID: "a", Menu: "top"}))
	must(tree.AddMenu(MenuSpec{ID: "mid", Anchor: "a"}))
	must(tree.AddFocusable(FocusableSpec{ID: "b", Menu: "mid"}))
	must(tree.AddMenu(MenuSpec{ID: "low", Anchor: "b"}))
	must(tree.AddFocusable(FocusableSpec{ID: "c", Menu: "low"}))

	must(tree.Remove("top"))
	if tree.Len() != 0 {
		t.Fatalf("expected every focusable removed, %d left", tree.Len())
	}
	if menus := tree.Menus(); len(menus) != 0 {
		t.Fatalf("expected every menu removed, got %v", menus)
	}
}

func TestSetBlockedRefusesTrail(t *testing.T) {
	f := newFixture(t)
	f.menu(MenuSpec{ID: "root"})
	f.row("root", 0, "a", "b")
	f.send()

	if err := f.tree.SetBlocked("a", true); !errors.Is(err, ErrOnTrail) {
		t.Fatalf("expected ErrOnTrail, got %v", err)
	}
	if err := f.tree.SetBlocked("b", true); err != nil {
		t.Fatalf("block b: %v", err)
	}
	if _, ok := f.last(Move{Dir: Right}).(NoChanges); !ok {
		t.Fatalf("expected blocked b to be skipped")
	}
	if err := f.tree.SetBlocked("b", false); err != nil {
		t.Fatalf("unblock b: %v", err)
	}
	f.send(Move{Dir: Right})
	f.expectFocus("b")
}

func TestMarkerFollowsOwningMenu(t *testing.T) {
	tree := NewTree()
	if err := tree.AddMenu(MenuSpec{ID: "tools", Marker: "toolbar"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := tree.AddFocusable(FocusableSpec{ID: "hammer", Menu: "tools"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if got := tree.Marker("hammer"); got != "toolbar" {
		t.Fatalf("expected toolbar marker, got %q", got)
	}
}

func TestTrimCommonTail(t *testing.T) {
	from, to := trimCommonTail([]ID{"x", "A", "root"}, []ID{"y", "B", "root"})
	expectPath(t, "from", from, "x", "A")
	expectPath(t, "to", to, "y", "B")

	from, to = trimCommonTail([]ID{"a1", "A"}, []ID{"A"})
	expectPath(t, "suffix from", from, "a1", "A")
	expectPath(t, "suffix to", to, "A")
}

func TestFocusableAt(t *testing.T) {
	f := newFixture(t)
	f.menu(MenuSpec{ID: "root"})
	f.row("root", 0, "A", "B")
	f.menu(MenuSpec{ID: "menuA", Anchor: "A"})
	f.row("menuA", 2, "a1")
	f.menu(MenuSpec{ID: "menuB", Anchor: "B"})
	f.row("menuB", 2, "b1")
	// overlay sits on top of A and was registered later.
	f.item(FocusableSpec{ID: "overlay", Menu: "root"}, Rect{X: 0, Y: 0, W: 2, H: 1})
	f.send()

	if id, ok := FocusableAt(f.tree, f.boxes, 12, 0.5); !ok || id != "B" {
		t.Fatalf("expected B under the point, got %q %v", id, ok)
	}
	if id, ok := FocusableAt(f.tree, f.boxes, 1, 0.5); !ok || id != "overlay" {
		t.Fatalf("expected overlay on top, got %q %v", id, ok)
	}
	// menuA is open because A is focused; menuB is closed.
	if id, ok := FocusableAt(f.tree, f.boxes, 1, 2.5); !ok || id != "a1" {
		t.Fatalf("expected a1, got %q %v", id, ok)
	}
	if _, ok := FocusableAt(f.tree, f.boxes, 50, 50); ok {
		t.Fatalf("expected nothing at an empty point")
	}
}
