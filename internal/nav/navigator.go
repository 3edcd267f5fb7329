package nav

import (
	"fmt"

	"github.com/atomicstack/popup-nav/internal/logging/events"
)

// DefaultUnresolvedWarnAfter is the number of passes an anchor reference may
// stay unresolved before a diagnostic is reported.
const DefaultUnresolvedWarnAfter = 60

// Navigator owns a Tree, the lock state and the request queue. It is driven
// one pass at a time by the host and is not safe for concurrent use.
type Navigator struct {
	tree      *Tree
	lockState lockState
	queue     []Request
	passes    int
	coneSlope float64
	warnAfter int
	onDiag    func(Diagnostic)
	preferred ID
}

// Option configures a Navigator.
type Option func(*Navigator)

// WithConeSlope sets the tolerance of directional moves: a candidate is
// eligible when its perpendicular offset is below slope times its distance
// along the requested axis. Non-positive values keep the default.
func WithConeSlope(slope float64) Option {
	return func(n *Navigator) {
		if slope > 0 {
			n.coneSlope = slope
		}
	}
}

// WithUnresolvedWarnAfter sets how many passes an anchor reference may stay
// unresolved before it is reported. Zero silences the report.
func WithUnresolvedWarnAfter(passes int) Option {
	return func(n *Navigator) {
		if passes >= 0 {
			n.warnAfter = passes
		}
	}
}

// WithDiagnostics registers a hook receiving every diagnostic.
func WithDiagnostics(fn func(Diagnostic)) Option {
	return func(n *Navigator) {
		n.onDiag = fn
	}
}

// WithLock starts the navigator locked with reason, as if a Lock request had
// been resolved. Hosts use it to carry a lock over to a rebuilt tree.
func WithLock(reason string) Option {
	return func(n *Navigator) {
		n.lockState = lockState{locked: true, reason: reason}
	}
}

// WithInitialFocus makes id the first element focused, provided it can be
// reached from a root. Otherwise the usual initial focus rules apply.
func WithInitialFocus(id ID) Option {
	return func(n *Navigator) {
		n.preferred = id
	}
}

// New returns a navigator over tree. A nil tree is replaced by an empty one.
func New(tree *Tree, opts ...Option) *Navigator {
	if tree == nil {
		tree = NewTree()
	}
	n := &Navigator{
		tree:      tree,
		coneSlope: DefaultConeSlope,
		warnAfter: DefaultUnresolvedWarnAfter,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Tree returns the tree driven by the navigator. Hosts may register and
// remove elements between passes.
func (n *Navigator) Tree() *Tree {
	return n.tree
}

// Focused returns the focused focusable, if any.
func (n *Navigator) Focused() (ID, bool) {
	if len(n.tree.trail) == 0 {
		return "", false
	}
	return n.tree.trail[0], true
}

// Submit queues requests for the next pass.
func (n *Navigator) Submit(reqs ...Request) {
	for _, req := range reqs {
		if req != nil {
			n.queue = append(n.queue, req)
		}
	}
}

// Pass runs one resolution pass. Pending anchors are retried, focus is
// initialised when nothing holds it, then every queued request is resolved in
// arrival order against the state left by the one before it. geom may be nil
// when no directional request is expected.
func (n *Navigator) Pass(geom Geometry) []Event {
	n.passes++
	reqs := n.queue
	n.queue = nil
	events.Nav.Pass(n.passes, len(reqs))

	for _, d := range n.tree.ResolvePending(n.warnAfter) {
		n.report(d)
	}
	if len(reqs) > 1 {
		n.report(Diagnostic{
			Kind:   MultipleRequestsPerTick,
			Detail: fmt.Sprintf("%d requests queued; resolving in order", len(reqs)),
		})
	}

	var out []Event
	if n.tree.Len() == 0 {
		for _, req := range reqs {
			if _, ok := req.(Unlock); ok {
				out = append(out, n.trace(req, n.unlock(req)))
				continue
			}
			n.report(Diagnostic{Kind: EmptyTree, Detail: "dropped " + req.String()})
			out = append(out, n.trace(req, NoChanges{Request: req}))
		}
		return out
	}

	if _, ok := n.Focused(); !ok {
		if ev, ok := n.initialFocus(); ok {
			out = append(out, n.trace(nil, ev))
		}
	}
	for _, req := range reqs {
		out = append(out, n.trace(req, n.resolve(req, geom)))
	}
	return out
}

func (n *Navigator) resolve(req Request, geom Geometry) Event {
	t := n.tree
	if n.lockState.locked {
		if _, ok := req.(Unlock); !ok {
			return NoChanges{From: t.Trail(), Request: req, Locked: true}
		}
	}

	switch r := req.(type) {
	case Lock:
		return n.lock(r.Reason)
	case Unlock:
		return n.unlock(r)
	}

	focused, ok := n.Focused()
	if r, isFocusOn := req.(FocusOn); isFocusOn {
		return n.resolveFocusOn(focused, r)
	}
	if !ok {
		return NoChanges{Request: req}
	}

	switch r := req.(type) {
	case Move:
		to, ok := n.resolveMove(focused, r.Dir, geom)
		if !ok {
			return NoChanges{From: t.Trail(), Request: req}
		}
		return n.transition(to, req)
	case ScopeMove:
		to, ok := n.resolveScope(focused, r.Dir)
		if !ok {
			return NoChanges{From: t.Trail(), Request: req}
		}
		return n.transition(to, req)
	case Action:
		return n.resolveAction(focused, req)
	case Cancel:
		return n.resolveCancel(focused, req)
	}
	return NoChanges{From: t.Trail(), Request: req}
}

// transition commits focus on to. Landing on the element that already holds
// focus is not a change.
func (n *Navigator) transition(to ID, req Request) Event {
	if focused, ok := n.Focused(); ok && focused == to {
		return NoChanges{From: n.tree.Trail(), Request: req}
	}
	from, path := n.tree.commit(to)
	return FocusChanged{From: from, To: path}
}

// initialFocus picks the first element to focus: the preferred element when
// reachable, else a priority child of a root menu, else the first focusable
// that is not blocked, visiting roots in registration order.
func (n *Navigator) initialFocus() (Event, bool) {
	t := n.tree
	if n.preferred != "" && t.reachable(n.preferred) {
		t.commit(n.preferred)
		return InitiallyFocused{To: n.preferred}, true
	}
	roots := t.Roots()
	for _, root := range roots {
		for _, id := range t.menus[root].children {
			if t.focusables[id].Priority && !t.blocked(id) {
				t.commit(id)
				return InitiallyFocused{To: id}, true
			}
		}
	}
	for _, root := range roots {
		if id, ok := t.entryChild(root); ok {
			t.commit(id)
			return InitiallyFocused{To: id}, true
		}
	}
	n.report(Diagnostic{Kind: NoFocusable, Detail: fmt.Sprintf("%d focusables, none reachable from %d roots", t.Len(), len(roots))})
	return nil, false
}

func (n *Navigator) report(d Diagnostic) {
	events.Nav.Diagnostic(d.Kind.String(), string(d.Subject), d.Detail)
	if n.onDiag != nil {
		n.onDiag(d)
	}
}

func (n *Navigator) trace(req Request, ev Event) Event {
	name := ""
	if req != nil {
		name = req.String()
	}
	var focus string
	if id, ok := n.Focused(); ok {
		focus = string(id)
	}
	events.Nav.Resolved(name, ev.Kind(), focus)
	return ev
}
