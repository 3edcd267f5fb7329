package nav

import "fmt"

// DiagnosticKind classifies a Diagnostic.
type DiagnosticKind int

const (
	UnresolvedAnchor DiagnosticKind = iota
	AnchorRejected
	EmptyTree
	NoFocusable
	CycleDetected
	InvalidFocusOnTarget
	MultipleRequestsPerTick
	MissingGeometry
	UnexpectedUnlock
)

func (k DiagnosticKind) String() string {
	switch k {
	case UnresolvedAnchor:
		return "unresolved-anchor"
	case AnchorRejected:
		return "anchor-rejected"
	case EmptyTree:
		return "empty-tree"
	case NoFocusable:
		return "no-focusable"
	case CycleDetected:
		return "cycle-detected"
	case InvalidFocusOnTarget:
		return "invalid-focus-on-target"
	case MultipleRequestsPerTick:
		return "multiple-requests-per-tick"
	case MissingGeometry:
		return "missing-geometry"
	case UnexpectedUnlock:
		return "unexpected-unlock"
	default:
		return fmt.Sprintf("diagnostic(%d)", int(k))
	}
}

// Diagnostic reports a condition the navigator recovered from. None of them
// stop resolution.
type Diagnostic struct {
	Kind    DiagnosticKind
	Subject ID
	Detail  string
}

func (d Diagnostic) String() string {
	if d.Subject == "" {
		return fmt.Sprintf("%s: %s", d.Kind, d.Detail)
	}
	return fmt.Sprintf("%s [%s]: %s", d.Kind, d.Subject, d.Detail)
}
