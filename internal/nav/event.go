package nav

// Event is the outcome of one request, or of initial focus selection.
// The concrete types are NoChanges, FocusChanged, InitiallyFocused, Locked,
// Unlocked and Caught.
type Event interface {
	Kind() string
}

// NoChanges reports a request that did not move focus. Locked is set when the
// request was dropped because navigation is locked.
type NoChanges struct {
	From    []ID
	Request Request
	Locked  bool
}

// FocusChanged reports a focus transition. Both paths are leaf first; the
// ancestors they share are trimmed.
type FocusChanged struct {
	From []ID
	To   []ID
}

// InitiallyFocused reports the first focus selection.
type InitiallyFocused struct {
	To ID
}

// Locked reports that navigation is now locked.
type Locked struct {
	Reason string
}

// Unlocked reports that navigation resumed. Reason is the one given to the
// lock being released.
type Unlocked struct {
	Reason string
}

// Caught reports a valid request that was deliberately not acted on, such as
// Action on a focusable that opens no menu. Hosts treat it as an application
// level confirm.
type Caught struct {
	From    []ID
	Request Request
}

func (NoChanges) Kind() string        { return "no-changes" }
func (FocusChanged) Kind() string     { return "focus-changed" }
func (InitiallyFocused) Kind() string { return "initially-focused" }
func (Locked) Kind() string           { return "locked" }
func (Unlocked) Kind() string         { return "unlocked" }
func (Caught) Kind() string           { return "caught" }

// Focus returns the newly focused element, if the event moved focus.
func (e FocusChanged) Focus() ID {
	if len(e.To) == 0 {
		return ""
	}
	return e.To[0]
}
