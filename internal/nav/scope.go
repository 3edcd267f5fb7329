package nav

// resolveScope finds the target of a ScopeMove: the closest scope menu above
// the focused element steps from its child on the active trail to the next
// or previous child, then focus descends through remembered children.
func (n *Navigator) resolveScope(focused ID, dir ScopeDirection) (ID, bool) {
	t := n.tree
	pivot := focused
	menu := t.focusables[focused].Menu
	visited := make(map[ID]bool)
	var scope *Menu
	for {
		if visited[menu] {
			n.report(Diagnostic{Kind: CycleDetected, Subject: menu, Detail: "scope search revisited menu"})
			return "", false
		}
		visited[menu] = true
		m, ok := t.menus[menu]
		if !ok {
			return "", false
		}
		if m.Setting.Scope {
			scope = m
			break
		}
		if m.Anchor == "" {
			return "", false
		}
		pivot = m.Anchor
		menu = t.focusables[pivot].Menu
	}
	idx := indexOf(scope.children, pivot)
	if idx < 0 {
		return "", false
	}
	next, ok := t.stepIndex(scope.children, idx, dir, scope.Setting.Wrapping)
	if !ok {
		return "", false
	}
	return n.descend(scope.children[next]), true
}

// stepIndex moves one position in dir, skipping blocked children. Without
// wrapping the walk stops at either end.
func (t *Tree) stepIndex(children []ID, from int, dir ScopeDirection, wrapping bool) (int, bool) {
	step := 1
	if dir == Previous {
		step = -1
	}
	i := from
	for range children {
		i += step
		if i < 0 || i >= len(children) {
			if !wrapping {
				return 0, false
			}
			i = (i + len(children)) % len(children)
		}
		if i == from {
			return 0, false
		}
		if !t.blocked(children[i]) {
			return i, true
		}
	}
	return 0, false
}

// descend follows anchors downward from id, entering each menu through its
// entry child, until it reaches a focusable that opens no menu.
func (n *Navigator) descend(id ID) ID {
	t := n.tree
	visited := make(map[ID]bool)
	for {
		sub, ok := t.anchored[id]
		if !ok {
			return id
		}
		if visited[sub] {
			n.report(Diagnostic{Kind: CycleDetected, Subject: sub, Detail: "descent revisited menu"})
			return id
		}
		visited[sub] = true
		entry, ok := t.entryChild(sub)
		if !ok {
			return id
		}
		id = entry
	}
}

func indexOf(ids []ID, id ID) int {
	for i, e := range ids {
		if e == id {
			return i
		}
	}
	return -1
}
