package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/popup-nav/internal/backend"
	"github.com/atomicstack/popup-nav/internal/logging/events"
)

func waitForBackendEvent(w *backend.Watcher) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-w.Events()
		if !ok {
			return backendDoneMsg{}
		}
		return backendEventMsg{event: evt}
	}
}

type backendEventMsg struct {
	event backend.Event
}

type backendDoneMsg struct{}

func (m *Model) handleBackendEventMsg(msg tea.Msg) tea.Cmd {
	eventMsg, ok := msg.(backendEventMsg)
	if !ok {
		return nil
	}
	cmd := m.applyBackendEvent(eventMsg.event)
	if m.backend != nil {
		waitCmd := waitForBackendEvent(m.backend)
		if cmd != nil {
			return tea.Batch(cmd, waitCmd)
		}
		return waitCmd
	}
	return cmd
}

func (m *Model) handleBackendDoneMsg(msg tea.Msg) tea.Cmd {
	m.backend = nil
	return nil
}

// applyBackendEvent rebuilds the scene from a new layout or document. A
// failed rebuild keeps the current scene and reports the error.
func (m *Model) applyBackendEvent(evt backend.Event) tea.Cmd {
	res := m.dispatcher.Handle(evt)
	events.UI.Reload(evt.Kind.String(), res.Err)
	if res.Err != nil {
		m.backendLastErr = res.Err.Error()
		return nil
	}
	if !res.Updated {
		return nil
	}
	m.backendLastErr = ""
	m.preview = nil
	return m.setScene(res.Scene)
}
