package ui

import (
	"reflect"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/popup-nav/internal/backend"
	"github.com/atomicstack/popup-nav/internal/data/dispatcher"
	"github.com/atomicstack/popup-nav/internal/menu"
	"github.com/atomicstack/popup-nav/internal/nav"
	"github.com/atomicstack/popup-nav/internal/theme"
)

const (
	headerSeparator = " > "
	eventLogSize    = 5
)

var styles = theme.Default()

type msgHandler func(tea.Msg) tea.Cmd

// Options configures a Model.
type Options struct {
	SocketPath string
	Width      int
	Height     int
	ShowFooter bool
	Verbose    bool
	Watcher    *backend.Watcher
	NavOptions []nav.Option
}

// Model implements the Bubble Tea model hosting the navigator.
type Model struct {
	scene *menu.Scene
	nav   *nav.Navigator
	opts  Options

	keys keyMap
	help help.Model
	jump *jumpPrompt

	log        []string
	errMsg     string
	infoMsg    string
	infoExpire time.Time

	width       int
	height      int
	fixedWidth  bool
	fixedHeight bool

	backend        *backend.Watcher
	dispatcher     *dispatcher.Dispatcher
	backendLastErr string

	preview    *previewData
	previewSeq int

	selected string
	startCmd tea.Cmd
	handlers map[reflect.Type]msgHandler
}

// NewModel wraps scene in a navigator and runs the first pass so the view
// starts with a focused element.
func NewModel(scene *menu.Scene, opts Options) *Model {
	m := &Model{
		opts:       opts,
		keys:       defaultKeyMap(),
		help:       help.New(),
		backend:    opts.Watcher,
		dispatcher: dispatcher.New(),
	}
	if opts.Width > 0 {
		m.width = opts.Width
		m.fixedWidth = true
	}
	if opts.Height > 0 {
		m.height = opts.Height
		m.fixedHeight = true
	}
	m.help.Width = m.width
	m.registerHandlers()
	m.startCmd = m.setScene(scene)
	return m
}

// setScene replaces the scene and the navigator driving it. The previously
// focused element is focused again when the new scene still has it, and an
// active lock stays in place.
func (m *Model) setScene(scene *menu.Scene) tea.Cmd {
	var (
		previous   nav.ID
		lockReason string
		locked     bool
	)
	if m.nav != nil {
		previous, _ = m.nav.Focused()
		lockReason, locked = m.nav.Locked()
	}
	if scene == nil {
		scene, _ = menu.Build(menu.Document{})
	}
	m.scene = scene
	opts := append([]nav.Option{nav.WithDiagnostics(m.recordDiagnostic)}, m.opts.NavOptions...)
	if previous != "" {
		opts = append(opts, nav.WithInitialFocus(previous))
	}
	if locked {
		opts = append(opts, nav.WithLock(lockReason))
	}
	m.nav = nav.New(scene.Tree, opts...)
	for _, d := range scene.Diagnostics {
		m.recordDiagnostic(d)
	}
	return m.pass()
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{}
	if m.backend != nil {
		cmds = append(cmds, waitForBackendEvent(m.backend))
	}
	if m.startCmd != nil {
		cmds = append(cmds, m.startCmd)
		m.startCmd = nil
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.jump != nil {
		if key, ok := msg.(tea.KeyMsg); ok {
			return m, m.handleJumpKey(key)
		}
	}
	if handler := m.handlerFor(msg); handler != nil {
		return m, handler(msg)
	}
	return m, nil
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):        m.handleKeyMsg,
		reflect.TypeOf(tea.MouseMsg{}):      m.handleMouseMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}): m.handleWindowSizeMsg,
		reflect.TypeOf(backendEventMsg{}):   m.handleBackendEventMsg,
		reflect.TypeOf(backendDoneMsg{}):    m.handleBackendDoneMsg,
		reflect.TypeOf(previewLoadedMsg{}):  m.handlePreviewLoadedMsg,
		reflect.TypeOf(paneSelectedMsg{}):   m.handlePaneSelectedMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

// Focused returns the focused element of the scene.
func (m *Model) Focused() (nav.ID, bool) {
	return m.nav.Focused()
}

// Selected returns the tmux pane chosen before the program quit, if any.
func (m *Model) Selected() string {
	return m.selected
}

func (m *Model) setInfo(message string) {
	m.infoMsg = message
	m.infoExpire = time.Now().Add(5 * time.Second)
}

func (m *Model) currentInfo() string {
	if m.infoMsg != "" && !m.infoExpire.IsZero() && time.Now().After(m.infoExpire) {
		m.infoMsg = ""
		m.infoExpire = time.Time{}
	}
	return m.infoMsg
}
