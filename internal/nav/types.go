package nav

import "fmt"

// ID identifies a focusable or a menu. Both share one namespace.
type ID string

// RootMenu owns every focusable registered without an explicit menu.
const RootMenu ID = "$root"

// FocusState is the navigation state of a focusable.
type FocusState int

const (
	Inert FocusState = iota
	Active
	Focused
	Blocked
)

func (s FocusState) String() string {
	switch s {
	case Inert:
		return "inert"
	case Active:
		return "active"
	case Focused:
		return "focused"
	case Blocked:
		return "blocked"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Behavior changes how a focusable reacts to Action.
type Behavior int

const (
	// BehaviorNormal enters the menu anchored on the focusable, if any.
	BehaviorNormal Behavior = iota
	// BehaviorCancel makes Action behave like Cancel.
	BehaviorCancel
	// BehaviorLock makes Action lock navigation until Unlock is received.
	BehaviorLock
)

func (b Behavior) String() string {
	switch b {
	case BehaviorNormal:
		return "normal"
	case BehaviorCancel:
		return "cancel"
	case BehaviorLock:
		return "lock"
	default:
		return fmt.Sprintf("behavior(%d)", int(b))
	}
}

// ParseBehavior maps the textual form used in menu documents.
func ParseBehavior(s string) (Behavior, error) {
	switch s {
	case "", "normal":
		return BehaviorNormal, nil
	case "cancel":
		return BehaviorCancel, nil
	case "lock":
		return BehaviorLock, nil
	default:
		return BehaviorNormal, fmt.Errorf("unknown behavior %q", s)
	}
}

// Setting controls movement inside a menu.
type Setting struct {
	// Wrapping makes edge movement continue from the opposite side.
	Wrapping bool
	// Scope makes the menu handle ScopeMove for every descendant.
	Scope bool
}

// Focusable is a snapshot of a leaf that can hold focus.
type Focusable struct {
	ID       ID
	Menu     ID
	Name     string
	Priority bool
	Behavior Behavior
	State    FocusState

	seq int
}

// Menu is a snapshot of a menu.
type Menu struct {
	ID      ID
	Setting Setting
	// Anchor is the focusable the menu is entered from. Empty for roots and
	// for menus whose anchor reference is still pending.
	Anchor ID
	// Remembered is the child focused last, restored when the menu is
	// re-entered.
	Remembered ID
	Marker     string

	ref      anchorRef
	pending  bool
	children []ID
}

// Pending reports whether the menu's anchor reference is still unresolved.
func (m Menu) Pending() bool {
	return m.pending
}

type anchorRef struct {
	id     ID
	name   string
	passes int
}

func (r anchorRef) declared() bool {
	return r.id != "" || r.name != ""
}

func (r anchorRef) String() string {
	if r.id != "" {
		return string(r.id)
	}
	return "name:" + r.name
}
