package nav

import (
	"errors"
	"fmt"
	"strings"

	"github.com/atomicstack/popup-nav/internal/logging/events"
)

var (
	ErrInvalidSpec = errors.New("invalid spec")
	ErrDuplicateID = errors.New("duplicate id")
	ErrUnknownMenu = errors.New("unknown menu")
	ErrUnknownID   = errors.New("unknown id")
	ErrAnchorTaken = errors.New("anchor already opens a menu")
	ErrCycle       = errors.New("anchor would create a cycle")
	ErrOnTrail     = errors.New("element is on the active trail")
)

// MenuSpec declares a menu. At most one of Anchor and AnchorName should be
// set; when both are empty the menu is a root.
type MenuSpec struct {
	ID         ID
	Setting    Setting
	Anchor     ID
	AnchorName string
	Marker     string
}

// FocusableSpec declares a focusable. An empty Menu places it in RootMenu.
type FocusableSpec struct {
	ID       ID
	Menu     ID
	Name     string
	Priority bool
	Blocked  bool
	Behavior Behavior
}

// Tree is the arena holding menus and focusables. It is not safe for
// concurrent use; the Navigator that owns it serialises every mutation.
type Tree struct {
	menus      map[ID]*Menu
	focusables map[ID]*Focusable
	menuOrder  []ID
	// anchored maps an anchor focusable to the menu it opens.
	anchored map[ID]ID
	pending  []ID
	// trail is the active trail, focused leaf first.
	trail []ID
	seq   int
}

// NewTree returns an empty tree.
func NewTree() *Tree {
	return &Tree{
		menus:      make(map[ID]*Menu),
		focusables: make(map[ID]*Focusable),
		anchored:   make(map[ID]ID),
	}
}

// AddMenu registers a menu. An anchor that does not exist yet is queued and
// retried by ResolvePending; until then the menu is detached.
func (t *Tree) AddMenu(spec MenuSpec) error {
	if strings.TrimSpace(string(spec.ID)) == "" {
		return fmt.Errorf("menu: %w: empty id", ErrInvalidSpec)
	}
	if spec.Anchor != "" && spec.AnchorName != "" {
		return fmt.Errorf("menu %s: %w: both anchor and anchor name set", spec.ID, ErrInvalidSpec)
	}
	if t.exists(spec.ID) {
		return fmt.Errorf("menu %s: %w", spec.ID, ErrDuplicateID)
	}
	m := &Menu{
		ID:      spec.ID,
		Setting: spec.Setting,
		Marker:  spec.Marker,
		ref:     anchorRef{id: spec.Anchor, name: spec.AnchorName},
	}
	if m.ref.declared() {
		if target, ok := t.lookupAnchor(m.ref); ok {
			if _, taken := t.anchored[target]; taken {
				return fmt.Errorf("menu %s anchored on %s: %w", spec.ID, target, ErrAnchorTaken)
			}
			m.Anchor = target
			t.anchored[target] = m.ID
		} else {
			m.pending = true
			t.pending = append(t.pending, m.ID)
		}
	}
	t.menus[m.ID] = m
	t.menuOrder = append(t.menuOrder, m.ID)
	return nil
}

// AddFocusable registers a focusable at the end of its menu's children.
func (t *Tree) AddFocusable(spec FocusableSpec) error {
	if strings.TrimSpace(string(spec.ID)) == "" {
		return fmt.Errorf("focusable: %w: empty id", ErrInvalidSpec)
	}
	if t.exists(spec.ID) {
		return fmt.Errorf("focusable %s: %w", spec.ID, ErrDuplicateID)
	}
	menuID := spec.Menu
	if menuID == "" {
		menuID = RootMenu
		t.ensureRoot()
	}
	m, ok := t.menus[menuID]
	if !ok {
		return fmt.Errorf("focusable %s: %w %s", spec.ID, ErrUnknownMenu, menuID)
	}
	t.seq++
	f := &Focusable{
		ID:       spec.ID,
		Menu:     menuID,
		Name:     spec.Name,
		Priority: spec.Priority,
		Behavior: spec.Behavior,
		State:    Inert,
		seq:      t.seq,
	}
	if spec.Blocked {
		f.State = Blocked
	}
	t.focusables[f.ID] = f
	m.children = append(m.children, f.ID)
	return nil
}

// Remove deregisters a focusable or a menu. Removing a menu removes the
// focusables it owns and, transitively, the menus anchored on them. Removing
// an anchor detaches its menu, which goes back to the pending queue.
func (t *Tree) Remove(id ID) error {
	if _, ok := t.focusables[id]; ok {
		t.removeFocusable(id)
		return nil
	}
	if _, ok := t.menus[id]; ok {
		t.removeMenu(id, make(map[ID]bool))
		return nil
	}
	return fmt.Errorf("remove %s: %w", id, ErrUnknownID)
}

func (t *Tree) removeFocusable(id ID) {
	f := t.focusables[id]
	if t.onTrail(id) {
		t.dropTrail()
	}
	if m, ok := t.menus[f.Menu]; ok {
		m.children = without(m.children, id)
		if m.Remembered == id {
			m.Remembered = ""
		}
	}
	if sub, ok := t.anchored[id]; ok {
		delete(t.anchored, id)
		if m, ok := t.menus[sub]; ok {
			m.Anchor = ""
			if m.ref.declared() {
				m.pending = true
				m.ref.passes = 0
				t.pending = append(t.pending, sub)
			}
		}
	}
	delete(t.focusables, id)
}

func (t *Tree) removeMenu(id ID, visited map[ID]bool) {
	if visited[id] {
		return
	}
	visited[id] = true
	m := t.menus[id]
	for _, child := range append([]ID(nil), m.children...) {
		if sub, ok := t.anchored[child]; ok {
			t.removeMenu(sub, visited)
		}
		if _, ok := t.focusables[child]; ok {
			t.removeFocusable(child)
		}
	}
	if m.Anchor != "" {
		delete(t.anchored, m.Anchor)
	}
	t.pending = without(t.pending, id)
	t.menuOrder = without(t.menuOrder, id)
	delete(t.menus, id)
}

// ResolvePending makes one attempt at every pending anchor reference.
// References that still cannot be resolved stay queued; once they have failed
// for warnAfter consecutive passes (and every warnAfter passes after that) an
// UnresolvedAnchor diagnostic is returned. A warnAfter of zero disables the
// warning.
func (t *Tree) ResolvePending(warnAfter int) []Diagnostic {
	if len(t.pending) == 0 {
		return nil
	}
	var diags []Diagnostic
	still := t.pending[:0]
	for _, menuID := range t.pending {
		m, ok := t.menus[menuID]
		if !ok || !m.pending {
			continue
		}
		target, found := t.lookupAnchor(m.ref)
		if found {
			if err := t.attach(m, target); err != nil {
				diags = append(diags, Diagnostic{Kind: AnchorRejected, Subject: menuID, Detail: err.Error()})
				if errors.Is(err, ErrCycle) {
					diags = append(diags, Diagnostic{Kind: CycleDetected, Subject: menuID, Detail: "anchor " + string(target) + " lies inside the menu"})
				}
				still = append(still, menuID)
				continue
			}
			events.Nav.AnchorResolved(string(menuID), string(target))
			continue
		}
		m.ref.passes++
		if warnAfter > 0 && m.ref.passes%warnAfter == 0 {
			diags = append(diags, Diagnostic{
				Kind:    UnresolvedAnchor,
				Subject: menuID,
				Detail:  fmt.Sprintf("no focusable matches anchor %s after %d passes", m.ref, m.ref.passes),
			})
		}
		still = append(still, menuID)
	}
	t.pending = still
	return diags
}

func (t *Tree) attach(m *Menu, target ID) error {
	if owner, taken := t.anchored[target]; taken && owner != m.ID {
		return fmt.Errorf("menu %s anchored on %s: %w (by %s)", m.ID, target, ErrAnchorTaken, owner)
	}
	if t.withinMenu(target, m.ID) {
		return fmt.Errorf("menu %s anchored on %s: %w", m.ID, target, ErrCycle)
	}
	m.Anchor = target
	m.pending = false
	m.ref.passes = 0
	t.anchored[target] = m.ID
	return nil
}

// withinMenu reports whether the focusable lives in menu or below it.
func (t *Tree) withinMenu(focusable, menu ID) bool {
	visited := make(map[ID]bool)
	f, ok := t.focusables[focusable]
	if !ok {
		return false
	}
	current := f.Menu
	for current != "" && !visited[current] {
		if current == menu {
			return true
		}
		visited[current] = true
		parent, ok := t.ParentMenu(current)
		if !ok {
			return false
		}
		current = parent
	}
	return visited[current]
}

func (t *Tree) lookupAnchor(ref anchorRef) (ID, bool) {
	if ref.id != "" {
		if _, ok := t.focusables[ref.id]; ok {
			return ref.id, true
		}
		return "", false
	}
	if ref.name == "" {
		return "", false
	}
	var (
		best    ID
		bestSeq = -1
	)
	for id, f := range t.focusables {
		if f.Name != ref.name {
			continue
		}
		if bestSeq < 0 || f.seq < bestSeq {
			best = id
			bestSeq = f.seq
		}
	}
	return best, bestSeq >= 0
}

func (t *Tree) ensureRoot() {
	if _, ok := t.menus[RootMenu]; ok {
		return
	}
	t.menus[RootMenu] = &Menu{ID: RootMenu}
	t.menuOrder = append(t.menuOrder, RootMenu)
}

func (t *Tree) exists(id ID) bool {
	if _, ok := t.menus[id]; ok {
		return true
	}
	_, ok := t.focusables[id]
	return ok
}

// Len returns the number of registered focusables.
func (t *Tree) Len() int {
	return len(t.focusables)
}

// Focusable returns a snapshot of the focusable.
func (t *Tree) Focusable(id ID) (Focusable, bool) {
	f, ok := t.focusables[id]
	if !ok {
		return Focusable{}, false
	}
	return *f, true
}

// Menu returns a snapshot of the menu.
func (t *Tree) Menu(id ID) (Menu, bool) {
	m, ok := t.menus[id]
	if !ok {
		return Menu{}, false
	}
	snapshot := *m
	snapshot.children = append([]ID(nil), m.children...)
	return snapshot, true
}

// State returns the focus state of a focusable.
func (t *Tree) State(id ID) FocusState {
	if f, ok := t.focusables[id]; ok {
		return f.State
	}
	return Inert
}

// MenuOf returns the menu owning the focusable.
func (t *Tree) MenuOf(id ID) (ID, bool) {
	f, ok := t.focusables[id]
	if !ok {
		return "", false
	}
	return f.Menu, true
}

// ParentMenu returns the menu owning the anchor of menu.
func (t *Tree) ParentMenu(menu ID) (ID, bool) {
	m, ok := t.menus[menu]
	if !ok || m.Anchor == "" {
		return "", false
	}
	return t.MenuOf(m.Anchor)
}

// SubMenu returns the menu anchored on the focusable.
func (t *Tree) SubMenu(anchor ID) (ID, bool) {
	sub, ok := t.anchored[anchor]
	return sub, ok
}

// Children returns the direct children of a menu in insertion order.
func (t *Tree) Children(menu ID) []ID {
	m, ok := t.menus[menu]
	if !ok {
		return nil
	}
	return append([]ID(nil), m.children...)
}

// Menus returns every menu ID in registration order.
func (t *Tree) Menus() []ID {
	return append([]ID(nil), t.menuOrder...)
}

// Roots returns the attached root menus in registration order. Menus waiting
// on an anchor are not roots.
func (t *Tree) Roots() []ID {
	roots := make([]ID, 0, 2)
	for _, id := range t.menuOrder {
		m := t.menus[id]
		if m.Anchor == "" && !m.pending {
			roots = append(roots, id)
		}
	}
	return roots
}

// Detached reports whether the menu, or any menu above it, is still waiting
// on its anchor.
func (t *Tree) Detached(menu ID) bool {
	visited := make(map[ID]bool)
	for current := menu; current != "" && !visited[current]; {
		visited[current] = true
		m, ok := t.menus[current]
		if !ok {
			return true
		}
		if m.pending {
			return true
		}
		parent, ok := t.ParentMenu(current)
		if !ok {
			return false
		}
		current = parent
	}
	return true
}

// Marker returns the marker of the menu owning the focusable.
func (t *Tree) Marker(id ID) string {
	f, ok := t.focusables[id]
	if !ok {
		return ""
	}
	return t.menus[f.Menu].Marker
}

// Trail returns the active trail, focused leaf first.
func (t *Tree) Trail() []ID {
	return append([]ID(nil), t.trail...)
}

// SetBlocked blocks or unblocks a focusable. Elements on the active trail
// cannot be blocked.
func (t *Tree) SetBlocked(id ID, blocked bool) error {
	f, ok := t.focusables[id]
	if !ok {
		return fmt.Errorf("block %s: %w", id, ErrUnknownID)
	}
	if !blocked {
		if f.State == Blocked {
			f.State = Inert
		}
		return nil
	}
	if t.onTrail(id) {
		return fmt.Errorf("block %s: %w", id, ErrOnTrail)
	}
	f.State = Blocked
	return nil
}

func (t *Tree) blocked(id ID) bool {
	f, ok := t.focusables[id]
	return !ok || f.State == Blocked
}

// reachable reports whether id can take focus: it is not blocked, its menu is
// attached and no anchor on its path is blocked.
func (t *Tree) reachable(id ID) bool {
	f, ok := t.focusables[id]
	if !ok || f.State == Blocked || t.Detached(f.Menu) {
		return false
	}
	path, ok := t.rootPath(id)
	if !ok {
		return false
	}
	for _, e := range path[1:] {
		if t.blocked(e) {
			return false
		}
	}
	return true
}

func (t *Tree) onTrail(id ID) bool {
	for _, e := range t.trail {
		if e == id {
			return true
		}
	}
	return false
}

func (t *Tree) dropTrail() {
	for _, id := range t.trail {
		if f, ok := t.focusables[id]; ok && f.State != Blocked {
			f.State = Inert
		}
	}
	t.trail = nil
}

// rootPath lists the focusable followed by every anchor above it. ok is false
// when the walk meets a cycle.
func (t *Tree) rootPath(leaf ID) ([]ID, bool) {
	path := []ID{leaf}
	seen := map[ID]bool{leaf: true}
	current := leaf
	for {
		f := t.focusables[current]
		m, ok := t.menus[f.Menu]
		if !ok || m.Anchor == "" {
			return path, true
		}
		if seen[m.Anchor] {
			return path, false
		}
		seen[m.Anchor] = true
		path = append(path, m.Anchor)
		current = m.Anchor
	}
}

// commit focuses leaf. It is the only place resolution writes to the tree:
// the old trail goes Inert, the new one goes Active with leaf Focused, and
// every menu on the new path remembers its on-path child. It returns the old
// and new paths with their common ancestors trimmed.
func (t *Tree) commit(leaf ID) (from, to []ID) {
	path, _ := t.rootPath(leaf)
	old := t.trail
	for _, id := range old {
		if f, ok := t.focusables[id]; ok && f.State != Blocked {
			f.State = Inert
		}
	}
	for i, id := range path {
		f := t.focusables[id]
		if i == 0 {
			f.State = Focused
		} else {
			f.State = Active
		}
		t.menus[f.Menu].Remembered = id
	}
	t.trail = path
	from, to = trimCommonTail(append([]ID(nil), old...), append([]ID(nil), path...))
	return from, to
}

// entryChild picks the child focused when entering a menu: the remembered
// child, else the first priority child, else the first one not blocked.
func (t *Tree) entryChild(menu ID) (ID, bool) {
	m, ok := t.menus[menu]
	if !ok {
		return "", false
	}
	if m.Remembered != "" && !t.blocked(m.Remembered) {
		return m.Remembered, true
	}
	for _, id := range m.children {
		if t.focusables[id].Priority && !t.blocked(id) {
			return id, true
		}
	}
	for _, id := range m.children {
		if !t.blocked(id) {
			return id, true
		}
	}
	return "", false
}

// navigable returns the children of menu that can take focus, minus skip.
func (t *Tree) navigable(menu, skip ID) []ID {
	m, ok := t.menus[menu]
	if !ok {
		return nil
	}
	out := make([]ID, 0, len(m.children))
	for _, id := range m.children {
		if id == skip || t.blocked(id) {
			continue
		}
		out = append(out, id)
	}
	return out
}

// trimCommonTail drops the shared trailing elements of both paths, keeping
// them untouched when one path is a suffix of the other.
func trimCommonTail(a, b []ID) ([]ID, []ID) {
	if len(a) == 0 || len(b) == 0 {
		return a, b
	}
	i, j := len(a)-1, len(b)-1
	for {
		if a[i] != b[j] {
			return a[:i+1], b[:j+1]
		}
		if i == 0 || j == 0 {
			return a, b
		}
		i--
		j--
	}
}

func without(ids []ID, id ID) []ID {
	out := ids[:0]
	for _, e := range ids {
		if e != id {
			out = append(out, e)
		}
	}
	return out
}
