package events

import "github.com/atomicstack/popup-nav/internal/logging"

type UITracer struct{}

type JumpTracer struct{}

var (
	UI   = UITracer{}
	Jump = JumpTracer{}
)

func (UITracer) Key(key, request string) {
	logging.Trace("ui.key", map[string]interface{}{"key": key, "request": request})
}

func (UITracer) Click(x, y int, target string) {
	logging.Trace("ui.click", map[string]interface{}{"x": x, "y": y, "target": target})
}

func (UITracer) Caught(target, request string) {
	logging.Trace("ui.caught", map[string]interface{}{"target": target, "request": request})
}

func (UITracer) Reload(source string, err error) {
	payload := map[string]interface{}{"source": source}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("ui.reload", payload)
}

func (UITracer) Resize(width, height int) {
	logging.Trace("ui.resize", map[string]interface{}{"width": width, "height": height})
}

func (JumpTracer) Open(candidates int) {
	logging.Trace("jump.open", map[string]interface{}{"candidates": candidates})
}

func (JumpTracer) Query(query string, matches int) {
	logging.Trace("jump.query", map[string]interface{}{"query": query, "matches": matches})
}

func (JumpTracer) Submit(query, target string) {
	logging.Trace("jump.submit", map[string]interface{}{"query": query, "target": target})
}

func (JumpTracer) Cancel(query string) {
	logging.Trace("jump.cancel", map[string]interface{}{"query": query})
}
