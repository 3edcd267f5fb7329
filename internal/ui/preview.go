package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/popup-nav/internal/menu"
	"github.com/atomicstack/popup-nav/internal/tmux"
)

const previewMaxLines = 8

type previewData struct {
	target  string
	label   string
	lines   []string
	err     string
	loading bool
	seq     int
}

type previewLoadedMsg struct {
	target string
	seq    int
	lines  []string
	err    error
}

var panePreviewFn = tmux.PanePreview

// ensurePreview starts loading a capture of the focused pane. Anything other
// than a pane clears the preview.
func (m *Model) ensurePreview() tea.Cmd {
	id, ok := m.nav.Focused()
	if !ok || m.scene.Registry == nil {
		m.preview = nil
		return nil
	}
	entry, ok := m.scene.Registry.Find(id)
	if !ok || entry.Kind != menu.KindPane || entry.Target == "" {
		m.preview = nil
		return nil
	}
	if m.preview != nil && m.preview.target == entry.Target {
		return nil
	}
	m.previewSeq++
	seq := m.previewSeq
	m.preview = &previewData{target: entry.Target, label: entry.Label, loading: true, seq: seq}
	socket := m.opts.SocketPath
	target := entry.Target
	return func() tea.Msg {
		lines, err := panePreviewFn(socket, target, previewMaxLines)
		return previewLoadedMsg{target: target, seq: seq, lines: lines, err: err}
	}
}

func (m *Model) handlePreviewLoadedMsg(msg tea.Msg) tea.Cmd {
	loaded, ok := msg.(previewLoadedMsg)
	if !ok {
		return nil
	}
	if m.preview == nil || m.preview.seq != loaded.seq || m.preview.target != loaded.target {
		return nil
	}
	m.preview.loading = false
	m.preview.lines = loaded.lines
	if loaded.err != nil {
		m.preview.err = loaded.err.Error()
	}
	return nil
}
