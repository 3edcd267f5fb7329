package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/popup-nav/internal/logging/events"
	"github.com/atomicstack/popup-nav/internal/menu"
	"github.com/atomicstack/popup-nav/internal/nav"
	"github.com/atomicstack/popup-nav/internal/tmux"
)

var (
	selectPaneFn    = tmux.SelectPane
	currentClientFn = tmux.CurrentClientID
)

type paneSelectedMsg struct {
	target string
	err    error
}

// geometry returns the boxes of the current scene.
func (m *Model) geometry() nav.Geometry {
	if m.scene == nil || m.scene.Registry == nil {
		return nav.Boxes{}
	}
	return m.scene.Registry
}

// pass submits reqs and runs one navigator pass, returning the command
// produced by the events, if any.
func (m *Model) pass(reqs ...nav.Request) tea.Cmd {
	m.nav.Submit(reqs...)
	evs := m.nav.Pass(m.geometry())
	var cmds []tea.Cmd
	for _, ev := range evs {
		if cmd := m.applyEvent(ev); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	if cmd := m.ensurePreview(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

func (m *Model) applyEvent(ev nav.Event) tea.Cmd {
	switch e := ev.(type) {
	case nav.InitiallyFocused:
		m.appendLog(fmt.Sprintf("start   %s", m.label(e.To)))
	case nav.FocusChanged:
		from := ""
		if len(e.From) > 0 {
			from = m.label(e.From[0])
		}
		m.appendLog(fmt.Sprintf("focus   %s → %s", from, m.label(e.Focus())))
		m.errMsg = ""
	case nav.NoChanges:
		if !m.opts.Verbose {
			return nil
		}
		if e.Locked {
			m.appendLog(fmt.Sprintf("locked  %s ignored", e.Request))
		} else {
			m.appendLog(fmt.Sprintf("none    %s", e.Request))
		}
	case nav.Locked:
		m.appendLog(fmt.Sprintf("lock    %s", m.label(nav.ID(e.Reason))))
	case nav.Unlocked:
		m.appendLog(fmt.Sprintf("unlock  %s", m.label(nav.ID(e.Reason))))
	case nav.Caught:
		return m.handleCaught(e)
	}
	return nil
}

// handleCaught performs the host action of a confirmed leaf. Panes are
// selected in tmux and end the program; other items only report.
func (m *Model) handleCaught(e nav.Caught) tea.Cmd {
	if len(e.From) == 0 {
		return nil
	}
	id := e.From[0]
	events.UI.Caught(string(id), fmt.Sprint(e.Request))
	m.appendLog(fmt.Sprintf("caught  %s", m.label(id)))
	entry, ok := m.scene.Registry.Find(id)
	if !ok {
		return nil
	}
	if _, isAction := e.Request.(nav.Action); !isAction {
		return nil
	}
	if entry.Kind == menu.KindPane && entry.Target != "" {
		socket := m.opts.SocketPath
		target := entry.Target
		return func() tea.Msg {
			err := selectPaneFn(socket, currentClientFn(socket), target)
			return paneSelectedMsg{target: target, err: err}
		}
	}
	m.setInfo(fmt.Sprintf("Selected %s", entry.Label))
	return nil
}

func (m *Model) handlePaneSelectedMsg(msg tea.Msg) tea.Cmd {
	res, ok := msg.(paneSelectedMsg)
	if !ok {
		return nil
	}
	if res.err != nil {
		m.errMsg = res.err.Error()
		return nil
	}
	m.selected = res.target
	return tea.Quit
}

func (m *Model) recordDiagnostic(d nav.Diagnostic) {
	m.appendLog("! " + d.String())
}

func (m *Model) appendLog(line string) {
	m.log = append(m.log, line)
	if len(m.log) > eventLogSize {
		m.log = m.log[len(m.log)-eventLogSize:]
	}
}

func (m *Model) label(id nav.ID) string {
	if m.scene == nil || m.scene.Registry == nil {
		return string(id)
	}
	return m.scene.Registry.Label(id)
}

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		return tea.Quit
	case key.Matches(keyMsg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return nil
	case key.Matches(keyMsg, m.keys.Jump):
		if _, locked := m.nav.Locked(); locked {
			return nil
		}
		return m.openJump()
	case key.Matches(keyMsg, m.keys.Lock):
		var req nav.Request = nav.Lock{Reason: "keyboard"}
		if _, locked := m.nav.Locked(); locked {
			req = nav.Unlock{}
		}
		events.UI.Key(keyMsg.String(), fmt.Sprint(req))
		return m.pass(req)
	}
	req, ok := m.keys.request(keyMsg)
	if !ok {
		return nil
	}
	events.UI.Key(keyMsg.String(), fmt.Sprint(req))
	return m.pass(req)
}

// handleMouseMsg turns a left click into FocusOn, or Action when the clicked
// element already has focus.
func (m *Model) handleMouseMsg(msg tea.Msg) tea.Cmd {
	ev, ok := msg.(tea.MouseMsg)
	if !ok {
		return nil
	}
	if ev.Action != tea.MouseActionPress || ev.Button != tea.MouseButtonLeft {
		return nil
	}
	x, y := float64(ev.X)+0.5, float64(ev.Y-m.canvasTop())+0.5
	id, found := nav.FocusableAt(m.scene.Tree, m.geometry(), x, y)
	events.UI.Click(ev.X, ev.Y, string(id))
	if !found {
		return nil
	}
	if focused, ok := m.nav.Focused(); ok && focused == id {
		return m.pass(nav.Action{})
	}
	return m.pass(nav.FocusOn{Target: id})
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	resize, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	if !m.fixedWidth {
		m.width = resize.Width
	}
	if !m.fixedHeight {
		m.height = resize.Height
	}
	m.help.Width = m.width
	events.UI.Resize(m.width, m.height)
	return nil
}

// breadcrumb lists the labels of the active trail from the root down.
func (m *Model) breadcrumb() string {
	trail := m.scene.Tree.Trail()
	parts := make([]string, 0, len(trail))
	for i := len(trail) - 1; i >= 0; i-- {
		parts = append(parts, m.label(trail[i]))
	}
	header := strings.Join(parts, headerSeparator)
	if reason, locked := m.nav.Locked(); locked {
		header += fmt.Sprintf("  [locked: %s]", m.label(nav.ID(reason)))
	}
	return header
}
