package events

import "github.com/atomicstack/popup-nav/internal/logging"

type AppTracer struct{}

var App = AppTracer{}

// Startup describes how the process was invoked.
type Startup struct {
	Args   []string
	Flags  map[string]string
	Source string
	// Terminal names the first standard descriptor attached to a terminal,
	// empty when there is none.
	Terminal string
	Width    int
	Height   int
}

func (AppTracer) Start(s Startup) {
	payload := map[string]interface{}{
		"argv":   s.Args,
		"flags":  s.Flags,
		"source": s.Source,
	}
	if s.Terminal != "" {
		payload["terminal"] = map[string]interface{}{
			"fd":     s.Terminal,
			"width":  s.Width,
			"height": s.Height,
		}
	}
	logging.Trace("app.start", payload)
}

func (AppTracer) SceneBuilt(source string, menus, focusables int) {
	logging.Trace("app.scene", map[string]interface{}{
		"source":     source,
		"menus":      menus,
		"focusables": focusables,
	})
}

func (AppTracer) Dump(rows int) {
	logging.Trace("app.dump", map[string]interface{}{"rows": rows})
}
