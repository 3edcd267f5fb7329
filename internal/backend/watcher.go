package backend

import (
	"context"
	"path/filepath"
	"reflect"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/atomicstack/popup-nav/internal/logging"
	"github.com/atomicstack/popup-nav/internal/logging/events"
	"github.com/atomicstack/popup-nav/internal/menu"
	"github.com/atomicstack/popup-nav/internal/tmux"
)

// Kind represents the type of data emitted by the backend watcher.
type Kind int

const (
	// KindLayout carries a tmux.Layout that differs from the previous poll.
	KindLayout Kind = iota
	// KindDocument carries a menu.Document re-read after its file changed.
	KindDocument
)

func (k Kind) String() string {
	if k == KindDocument {
		return "document"
	}
	return "layout"
}

// Event conveys updated data or an error from a backend source.
type Event struct {
	Kind Kind
	Data interface{}
	Err  error
}

// Options selects the sources a Watcher follows. A zero Interval disables
// tmux polling; an empty DocumentPath disables file watching.
type Options struct {
	SocketPath   string
	Interval     time.Duration
	DocumentPath string
	Debounce     time.Duration
}

var (
	fetchLayout  = tmux.FetchLayout
	loadDocument = menu.Load
)

// Watcher polls tmux and watches the menu document, publishing events.
type Watcher struct {
	opts Options

	ctx    context.Context
	cancel context.CancelFunc

	events chan Event
	wg     sync.WaitGroup
}

// NewWatcher starts the sources named by opts. The returned error is only
// set when the document file cannot be watched.
func NewWatcher(opts Options) (*Watcher, error) {
	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		opts:   opts,
		ctx:    ctx,
		cancel: cancel,
		events: make(chan Event, 16),
	}

	if opts.DocumentPath != "" {
		fsw, err := fsnotify.NewWatcher()
		if err != nil {
			cancel()
			return nil, err
		}
		// Editors often replace the file, so the directory is watched.
		if err := fsw.Add(filepath.Dir(opts.DocumentPath)); err != nil {
			_ = fsw.Close()
			cancel()
			return nil, err
		}
		w.wg.Add(1)
		go w.watchDocument(fsw)
	}
	if opts.Interval > 0 {
		w.startLayoutPoller()
	}

	go func() {
		w.wg.Wait()
		close(w.events)
	}()

	return w, nil
}

// Events returns a channel of backend events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Stop cancels the watcher. Sources exit after their current fetch completes;
// use Wait if a clean drain is required (e.g. in tests).
func (w *Watcher) Stop() {
	events.Backend.Stop("stop requested")
	w.cancel()
}

// Wait blocks until all source goroutines have exited and the events channel
// is closed. Call after Stop when a clean shutdown is required.
func (w *Watcher) Wait() {
	w.wg.Wait()
}

func (w *Watcher) startLayoutPoller() {
	throttle := newThrottle(250 * time.Millisecond)
	var last *tmux.Layout
	w.wg.Add(1)
	go w.poll(KindLayout, func(ctx context.Context) (interface{}, bool, error) {
		if !throttle.wait(ctx) {
			return nil, false, nil
		}
		layout, err := fetchLayout(w.opts.SocketPath)
		if err != nil {
			return nil, true, err
		}
		if last != nil && reflect.DeepEqual(*last, layout) {
			return nil, false, nil
		}
		last = &layout
		return layout, true, nil
	})
}

// poll runs fetch once immediately and then every interval. fetch reports
// whether its result is worth publishing.
func (w *Watcher) poll(kind Kind, fetch func(context.Context) (interface{}, bool, error)) {
	defer w.wg.Done()

	emit := func() bool {
		data, changed, err := fetch(w.ctx)
		events.Backend.Poll(kind.String(), err)
		if !changed {
			return true
		}
		return w.send(Event{Kind: kind, Data: data, Err: err})
	}

	if !emit() {
		return
	}

	ticker := time.NewTicker(w.opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			if !emit() {
				return
			}
		}
	}
}

func (w *Watcher) watchDocument(fsw *fsnotify.Watcher) {
	defer w.wg.Done()
	defer fsw.Close()

	target := filepath.Clean(w.opts.DocumentPath)
	debounce := w.opts.Debounce
	if debounce <= 0 {
		debounce = 100 * time.Millisecond
	}
	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			events.Backend.FileChanged(ev.Name, ev.Op.String())
			timer.Reset(debounce)
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			logging.Error(err)
			if !w.send(Event{Kind: KindDocument, Err: err}) {
				return
			}
		case <-timer.C:
			doc, err := loadDocument(target)
			events.Backend.Poll(KindDocument.String(), err)
			var data interface{}
			if err == nil {
				data = doc
			}
			if !w.send(Event{Kind: KindDocument, Data: data, Err: err}) {
				return
			}
		}
	}
}

func (w *Watcher) send(evt Event) bool {
	select {
	case <-w.ctx.Done():
		return false
	case w.events <- evt:
		return true
	}
}
