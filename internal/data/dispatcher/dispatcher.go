package dispatcher

import (
	"github.com/atomicstack/popup-nav/internal/backend"
	"github.com/atomicstack/popup-nav/internal/menu"
	"github.com/atomicstack/popup-nav/internal/tmux"
)

// Result is the outcome of one backend event. Scene is set when the event
// produced a new scene; Err when either the source or the rebuild failed.
type Result struct {
	Scene   *menu.Scene
	Updated bool
	Err     error
}

// Dispatcher turns backend events into scenes.
type Dispatcher struct {
	fromTmux  func(tmux.Layout) (*menu.Scene, error)
	fromMenus func(menu.Document) (*menu.Scene, error)
}

func New() *Dispatcher {
	return &Dispatcher{fromTmux: menu.FromTmux, fromMenus: menu.Build}
}

func (d *Dispatcher) Handle(evt backend.Event) Result {
	if evt.Err != nil {
		return Result{Err: evt.Err}
	}
	var res Result
	switch evt.Kind {
	case backend.KindLayout:
		if layout, ok := evt.Data.(tmux.Layout); ok {
			res.Scene, res.Err = d.fromTmux(layout)
		}
	case backend.KindDocument:
		if doc, ok := evt.Data.(menu.Document); ok {
			res.Scene, res.Err = d.fromMenus(doc)
			if res.Scene != nil {
				res.Scene.Source = "file"
			}
		}
	}
	res.Updated = res.Scene != nil && res.Err == nil
	return res
}
