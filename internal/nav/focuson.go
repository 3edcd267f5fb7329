package nav

func (n *Navigator) resolveFocusOn(focused ID, req FocusOn) Event {
	t := n.tree
	target, ok := t.focusables[req.Target]
	if !ok {
		n.report(Diagnostic{Kind: InvalidFocusOnTarget, Subject: req.Target, Detail: "unknown focusable"})
		return NoChanges{From: t.Trail(), Request: req}
	}
	if target.State == Blocked {
		n.report(Diagnostic{Kind: InvalidFocusOnTarget, Subject: req.Target, Detail: "focusable is blocked"})
		return Caught{From: t.Trail(), Request: req}
	}
	if req.Target == focused {
		return NoChanges{From: t.Trail(), Request: req}
	}
	if t.Detached(target.Menu) {
		n.report(Diagnostic{Kind: InvalidFocusOnTarget, Subject: req.Target, Detail: "menu is not attached to a root"})
		return Caught{From: t.Trail(), Request: req}
	}
	path, ok := t.rootPath(req.Target)
	if !ok {
		n.report(Diagnostic{Kind: CycleDetected, Subject: req.Target, Detail: "anchor chain loops"})
		return Caught{From: t.Trail(), Request: req}
	}
	for _, id := range path[1:] {
		if t.blocked(id) {
			n.report(Diagnostic{Kind: InvalidFocusOnTarget, Subject: req.Target, Detail: "anchor " + string(id) + " is blocked"})
			return Caught{From: t.Trail(), Request: req}
		}
	}
	return n.transition(req.Target, req)
}
