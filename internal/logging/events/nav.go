package events

import "github.com/atomicstack/popup-nav/internal/logging"

type NavTracer struct{}

var Nav = NavTracer{}

func (NavTracer) Pass(pass, queued int) {
	logging.Trace("nav.pass", map[string]interface{}{"pass": pass, "queued": queued})
}

func (NavTracer) Resolved(request, event, focus string) {
	logging.Trace("nav.resolved", map[string]interface{}{
		"request": request,
		"event":   event,
		"focus":   focus,
	})
}

func (NavTracer) AnchorResolved(menu, anchor string) {
	logging.Trace("nav.anchor.resolved", map[string]interface{}{"menu": menu, "anchor": anchor})
}

func (NavTracer) Diagnostic(kind, subject, detail string) {
	logging.Trace("nav.diagnostic", map[string]interface{}{
		"kind":    kind,
		"subject": subject,
		"detail":  detail,
	})
}
