package nav

import "fmt"

// Direction is a planar movement direction.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// ScopeDirection orders movement between the children of a scope menu.
type ScopeDirection int

const (
	Previous ScopeDirection = iota
	Next
)

func (d ScopeDirection) String() string {
	if d == Previous {
		return "previous"
	}
	return "next"
}

// Request is a focus-change request. The concrete types are Move, ScopeMove,
// Action, Cancel, FocusOn, Lock and Unlock.
type Request interface {
	fmt.Stringer
	request()
}

// Move moves focus to the nearest focusable in a direction.
type Move struct {
	Dir Direction
}

// ScopeMove cycles between the children of the closest scope menu.
type ScopeMove struct {
	Dir ScopeDirection
}

// Action activates the focused element.
type Action struct{}

// Cancel leaves the current menu for its anchor.
type Cancel struct{}

// FocusOn jumps to an arbitrary focusable.
type FocusOn struct {
	Target ID
}

// Lock suspends navigation until Unlock.
type Lock struct {
	Reason string
}

// Unlock resumes navigation.
type Unlock struct{}

func (Move) request()      {}
func (ScopeMove) request() {}
func (Action) request()    {}
func (Cancel) request()    {}
func (FocusOn) request()   {}
func (Lock) request()      {}
func (Unlock) request()    {}

func (r Move) String() string      { return "move(" + r.Dir.String() + ")" }
func (r ScopeMove) String() string { return "scope-move(" + r.Dir.String() + ")" }
func (Action) String() string      { return "action" }
func (Cancel) String() string      { return "cancel" }
func (r FocusOn) String() string   { return "focus-on(" + string(r.Target) + ")" }
func (r Lock) String() string      { return "lock(" + r.Reason + ")" }
func (Unlock) String() string      { return "unlock" }
