package app

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/popup-nav/internal/backend"
	"github.com/atomicstack/popup-nav/internal/format/table"
	"github.com/atomicstack/popup-nav/internal/logging/events"
	"github.com/atomicstack/popup-nav/internal/menu"
	"github.com/atomicstack/popup-nav/internal/nav"
	"github.com/atomicstack/popup-nav/internal/tmux"
	"github.com/atomicstack/popup-nav/internal/ui"
)

// Scene sources.
const (
	SourceDemo = "demo"
	SourceFile = "file"
	SourceTmux = "tmux"
)

// Config describes user-provided application options.
type Config struct {
	SocketPath          string
	Source              string
	TreePath            string
	Watch               bool
	PollInterval        time.Duration
	Width               int
	Height              int
	ShowFooter          bool
	Verbose             bool
	UnresolvedWarnAfter int
	ConeSlope           float64
}

var (
	fetchLayout = tmux.FetchLayout
	resolveSock = tmux.ResolveSocketPath
	newWatcher  = backend.NewWatcher
	runProgram  = func(m tea.Model) error {
		program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
		_, err := program.Run()
		return err
	}
)

// Run bootstraps and executes the Bubble Tea program.
func Run(cfg Config) error {
	socketPath, err := socketFor(cfg)
	if err != nil {
		return err
	}
	defer tmux.Shutdown()

	scene, err := buildScene(cfg, socketPath)
	if err != nil {
		return err
	}

	var watcher *backend.Watcher
	if opts, ok := watchOptions(cfg, socketPath); ok {
		watcher, err = newWatcher(opts)
		if err != nil {
			return fmt.Errorf("start watcher: %w", err)
		}
		defer watcher.Stop()
	}

	model := ui.NewModel(scene, ui.Options{
		SocketPath: socketPath,
		Width:      cfg.Width,
		Height:     cfg.Height,
		ShowFooter: cfg.ShowFooter,
		Verbose:    cfg.Verbose,
		Watcher:    watcher,
		NavOptions: navOptions(cfg),
	})
	err = runProgram(model)
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

// Dump builds the scene, runs one pass and writes a table of every
// focusable with its menu, state and label.
func Dump(cfg Config, w io.Writer) error {
	socketPath, err := socketFor(cfg)
	if err != nil {
		return err
	}
	defer tmux.Shutdown()

	scene, err := buildScene(cfg, socketPath)
	if err != nil {
		return err
	}
	var diags []nav.Diagnostic
	opts := append(navOptions(cfg), nav.WithDiagnostics(func(d nav.Diagnostic) {
		diags = append(diags, d)
	}))
	navigator := nav.New(scene.Tree, opts...)
	navigator.Pass(scene.Registry)

	rows := [][]string{{"ID", "MENU", "STATE", "LABEL", "MARKER"}}
	for _, id := range scene.Registry.IDs() {
		f, ok := scene.Tree.Focusable(id)
		if !ok {
			continue
		}
		rows = append(rows, []string{
			string(id),
			string(f.Menu),
			f.State.String(),
			scene.Registry.Label(id),
			scene.Tree.Marker(id),
		})
	}
	lines := table.Format(rows, nil)
	events.App.Dump(len(rows) - 1)

	var b strings.Builder
	if scene.Title != "" {
		b.WriteString(scene.Title + "\n")
	}
	for _, line := range lines {
		b.WriteString(line + "\n")
	}
	for _, d := range append(scene.Diagnostics, diags...) {
		b.WriteString("! " + d.String() + "\n")
	}
	_, err = io.WriteString(w, b.String())
	return err
}

// socketFor resolves the tmux socket. Sources that never talk to tmux keep
// the configured value as is.
func socketFor(cfg Config) (string, error) {
	if cfg.Source != SourceTmux {
		return cfg.SocketPath, nil
	}
	socketPath, err := resolveSock(cfg.SocketPath)
	if err != nil {
		return "", fmt.Errorf("resolve socket path: %w", err)
	}
	return socketPath, nil
}

func buildScene(cfg Config, socketPath string) (*menu.Scene, error) {
	var (
		scene *menu.Scene
		err   error
	)
	switch cfg.Source {
	case SourceDemo, "":
		scene, err = menu.Build(menu.DefaultDocument())
		if err == nil {
			scene.Source = SourceDemo
		}
	case SourceFile:
		var doc menu.Document
		if doc, err = menu.Load(cfg.TreePath); err != nil {
			return nil, err
		}
		scene, err = menu.Build(doc)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", cfg.TreePath, err)
		}
		scene.Source = SourceFile
	case SourceTmux:
		var layout tmux.Layout
		layout, err = fetchLayout(socketPath)
		if err != nil {
			return nil, fmt.Errorf("fetch tmux layout: %w", err)
		}
		scene, err = menu.FromTmux(layout)
	default:
		return nil, fmt.Errorf("unknown source %q", cfg.Source)
	}
	if err != nil {
		return nil, err
	}
	events.App.SceneBuilt(scene.Source, len(scene.Tree.Menus()), scene.Tree.Len())
	return scene, nil
}

// watchOptions returns the watcher settings for cfg, or false when the
// source has nothing to watch.
func watchOptions(cfg Config, socketPath string) (backend.Options, bool) {
	if !cfg.Watch {
		return backend.Options{}, false
	}
	switch cfg.Source {
	case SourceFile:
		return backend.Options{DocumentPath: cfg.TreePath}, true
	case SourceTmux:
		return backend.Options{SocketPath: socketPath, Interval: cfg.PollInterval}, true
	}
	return backend.Options{}, false
}

func navOptions(cfg Config) []nav.Option {
	var opts []nav.Option
	if cfg.ConeSlope > 0 {
		opts = append(opts, nav.WithConeSlope(cfg.ConeSlope))
	}
	opts = append(opts, nav.WithUnresolvedWarnAfter(cfg.UnresolvedWarnAfter))
	return opts
}
