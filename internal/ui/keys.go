package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/popup-nav/internal/nav"
)

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	NextTab  key.Binding
	PrevTab  key.Binding
	Action   key.Binding
	Cancel   key.Binding
	Jump     key.Binding
	Lock     key.Binding
	Help     key.Binding
	Quit     key.Binding
	JumpDone key.Binding
	JumpExit key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		NextTab:  key.NewBinding(key.WithKeys("tab", "]"), key.WithHelp("tab", "next tab")),
		PrevTab:  key.NewBinding(key.WithKeys("shift+tab", "["), key.WithHelp("shift+tab", "prev tab")),
		Action:   key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "select")),
		Cancel:   key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "back")),
		Jump:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "jump")),
		Lock:     key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "lock")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		JumpDone: key.NewBinding(key.WithKeys("enter")),
		JumpExit: key.NewBinding(key.WithKeys("esc", "ctrl+c")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Action, k.Cancel, k.NextTab, k.Jump, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.NextTab, k.PrevTab, k.Action, k.Cancel},
		{k.Jump, k.Lock, k.Help, k.Quit},
	}
}

// request maps a key press to the navigation request it stands for.
func (k keyMap) request(msg tea.KeyMsg) (nav.Request, bool) {
	switch {
	case key.Matches(msg, k.Up):
		return nav.Move{Dir: nav.Up}, true
	case key.Matches(msg, k.Down):
		return nav.Move{Dir: nav.Down}, true
	case key.Matches(msg, k.Left):
		return nav.Move{Dir: nav.Left}, true
	case key.Matches(msg, k.Right):
		return nav.Move{Dir: nav.Right}, true
	case key.Matches(msg, k.NextTab):
		return nav.ScopeMove{Dir: nav.Next}, true
	case key.Matches(msg, k.PrevTab):
		return nav.ScopeMove{Dir: nav.Previous}, true
	case key.Matches(msg, k.Action):
		return nav.Action{}, true
	case key.Matches(msg, k.Cancel):
		return nav.Cancel{}, true
	}
	return nil, false
}
