package nav

type lockState struct {
	locked bool
	reason string
}

func (n *Navigator) lock(reason string) Event {
	n.lockState = lockState{locked: true, reason: reason}
	return Locked{Reason: reason}
}

func (n *Navigator) unlock(req Request) Event {
	if !n.lockState.locked {
		n.report(Diagnostic{Kind: UnexpectedUnlock, Detail: "unlock received while not locked"})
		return NoChanges{From: n.tree.Trail(), Request: req}
	}
	reason := n.lockState.reason
	n.lockState = lockState{}
	return Unlocked{Reason: reason}
}

// Locked reports whether navigation is locked and why.
func (n *Navigator) Locked() (string, bool) {
	return n.lockState.reason, n.lockState.locked
}
