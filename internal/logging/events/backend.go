package events

import "github.com/atomicstack/popup-nav/internal/logging"

type BackendTracer struct{}

var Backend = BackendTracer{}

func (BackendTracer) Poll(kind string, err error) {
	payload := map[string]interface{}{"kind": kind}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("backend.poll", payload)
}

func (BackendTracer) FileChanged(path, op string) {
	logging.Trace("backend.file", map[string]interface{}{"path": path, "op": op})
}

func (BackendTracer) Stop(reason string) {
	logging.Trace("backend.stop", map[string]interface{}{"reason": reason})
}
