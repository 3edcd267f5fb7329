package backend

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/atomicstack/popup-nav/internal/menu"
	"github.com/atomicstack/popup-nav/internal/tmux"
)

func withStubLayouts(t *testing.T, layouts ...tmux.Layout) {
	t.Helper()
	var mu sync.Mutex
	calls := 0
	orig := fetchLayout
	fetchLayout = func(string) (tmux.Layout, error) {
		mu.Lock()
		defer mu.Unlock()
		i := calls
		if i >= len(layouts) {
			i = len(layouts) - 1
		}
		calls++
		return layouts[i], nil
	}
	t.Cleanup(func() { fetchLayout = orig })
}

func nextEvent(t *testing.T, w *Watcher, timeout time.Duration) Event {
	t.Helper()
	select {
	case evt, ok := <-w.Events():
		if !ok {
			t.Fatalf("events channel closed")
		}
		return evt
	case <-time.After(timeout):
		t.Fatalf("timed out waiting for event")
	}
	return Event{}
}

func TestLayoutPollerSkipsUnchangedLayouts(t *testing.T) {
	first := tmux.Layout{CurrentSession: "a"}
	second := tmux.Layout{CurrentSession: "b"}
	withStubLayouts(t, first, first, first, second)

	w, err := NewWatcher(Options{SocketPath: "sock", Interval: 5 * time.Millisecond})
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	defer func() {
		w.Stop()
		w.Wait()
	}()

	evt := nextEvent(t, w, time.Second)
	if evt.Kind != KindLayout || evt.Data.(tmux.Layout).CurrentSession != "a" {
		t.Fatalf("unexpected first event %+v", evt)
	}
	evt = nextEvent(t, w, 3*time.Second)
	if evt.Data.(tmux.Layout).CurrentSession != "b" {
		t.Fatalf("expected the changed layout next, got %+v", evt)
	}
}

func TestLayoutPollerReportsErrors(t *testing.T) {
	orig := fetchLayout
	fetchLayout = func(string) (tmux.Layout, error) { return tmux.Layout{}, errors.New("no server") }
	t.Cleanup(func() { fetchLayout = orig })

	w, err := NewWatcher(Options{Interval: time.Hour})
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	evt := nextEvent(t, w, time.Second)
	if evt.Err == nil || evt.Kind != KindLayout {
		t.Fatalf("expected layout error, got %+v", evt)
	}
	w.Stop()
	w.Wait()
	if _, ok := <-w.Events(); ok {
		t.Fatalf("expected channel closed after Wait")
	}
}

func TestDocumentWatcherReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "menu.yaml")
	if err := os.WriteFile(path, []byte("menus:\n  - id: one\n    items:\n      - id: a\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	w, err := NewWatcher(Options{DocumentPath: path, Debounce: 50 * time.Millisecond})
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	defer func() {
		w.Stop()
		w.Wait()
	}()

	if err := os.WriteFile(path, []byte("menus:\n  - id: two\n    items:\n      - id: b\n"), 0o600); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	evt := nextEvent(t, w, 3*time.Second)
	if evt.Kind != KindDocument || evt.Err != nil {
		t.Fatalf("unexpected event %+v", evt)
	}
	doc := evt.Data.(menu.Document)
	if len(doc.Menus) != 1 || doc.Menus[0].ID != "two" {
		t.Fatalf("expected reloaded document, got %+v", doc)
	}
}

func TestDocumentWatcherReportsParseErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "menu.yaml")
	w, err := NewWatcher(Options{DocumentPath: path, Debounce: 50 * time.Millisecond})
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	defer func() {
		w.Stop()
		w.Wait()
	}()
	// ignored: another file in the same directory
	if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o600); err != nil {
		t.Fatalf("write other: %v", err)
	}
	if err := os.WriteFile(path, []byte("menus: [\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	evt := nextEvent(t, w, 3*time.Second)
	if evt.Kind != KindDocument || evt.Err == nil {
		t.Fatalf("expected a parse error, got %+v", evt)
	}
}

func TestNewWatcherMissingDirectory(t *testing.T) {
	if _, err := NewWatcher(Options{DocumentPath: filepath.Join(t.TempDir(), "nope", "menu.yaml")}); err == nil {
		t.Fatalf("expected error watching a missing directory")
	}
}

func TestThrottleSpacesCalls(t *testing.T) {
	th := newThrottle(20 * time.Millisecond)
	ctx := context.Background()
	start := time.Now()
	if !th.wait(ctx) || !th.wait(ctx) {
		t.Fatalf("expected both waits to pass")
	}
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Fatalf("expected second wait to block, elapsed %s", elapsed)
	}
	var nilThrottle *throttle
	if !nilThrottle.wait(ctx) || !newThrottle(0).wait(ctx) {
		t.Fatalf("expected disabled throttles to pass straight through")
	}
}

func TestThrottleStopsOnCancel(t *testing.T) {
	th := newThrottle(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	if !th.wait(ctx) {
		t.Fatalf("expected first wait to pass")
	}
	cancel()
	if th.wait(ctx) {
		t.Fatalf("expected cancelled wait to fail")
	}
}
