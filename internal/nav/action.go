package nav

func (n *Navigator) resolveAction(focused ID, req Request) Event {
	t := n.tree
	f := t.focusables[focused]
	switch f.Behavior {
	case BehaviorCancel:
		return n.resolveCancel(focused, req)
	case BehaviorLock:
		return n.lock(string(focused))
	}
	sub, ok := t.anchored[focused]
	if !ok {
		return Caught{From: t.Trail(), Request: req}
	}
	entry, ok := t.entryChild(sub)
	if !ok {
		return NoChanges{From: t.Trail(), Request: req}
	}
	return n.transition(entry, req)
}

func (n *Navigator) resolveCancel(focused ID, req Request) Event {
	t := n.tree
	m := t.menus[t.focusables[focused].Menu]
	if m.Anchor == "" || t.blocked(m.Anchor) {
		return NoChanges{From: t.Trail(), Request: req}
	}
	// m.Remembered already holds focused; commit leaves it untouched.
	return n.transition(m.Anchor, req)
}
