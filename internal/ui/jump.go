package ui

import (
	"sort"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/atomicstack/popup-nav/internal/logging/events"
	"github.com/atomicstack/popup-nav/internal/nav"
)

const jumpMaxMatches = 5

type jumpCandidate struct {
	id    nav.ID
	label string
}

// jumpPrompt is the fuzzy finder that turns a typed label into FocusOn.
type jumpPrompt struct {
	input      textinput.Model
	candidates []jumpCandidate
	matches    []jumpCandidate
}

func (m *Model) openJump() tea.Cmd {
	in := textinput.New()
	in.Prompt = "jump: "
	in.Placeholder = "type to search"
	in.Cursor.SetMode(cursor.CursorStatic)
	if styles.FilterPrompt != nil {
		in.PromptStyle = *styles.FilterPrompt
	}
	if styles.FilterPlaceholder != nil {
		in.PlaceholderStyle = *styles.FilterPlaceholder
	}
	if styles.Filter != nil {
		in.TextStyle = *styles.Filter
	}
	p := &jumpPrompt{input: in}
	for _, id := range m.scene.Registry.IDs() {
		f, ok := m.scene.Tree.Focusable(id)
		if !ok || f.State == nav.Blocked {
			continue
		}
		p.candidates = append(p.candidates, jumpCandidate{id: id, label: m.label(id)})
	}
	p.refresh()
	m.jump = p
	events.Jump.Open(len(p.candidates))
	return p.input.Focus()
}

// refresh ranks candidates by fuzzy distance to the query. An empty query
// lists candidates in declaration order.
func (p *jumpPrompt) refresh() {
	query := p.input.Value()
	if query == "" {
		p.matches = p.candidates
		if len(p.matches) > jumpMaxMatches {
			p.matches = p.matches[:jumpMaxMatches]
		}
		return
	}
	labels := make([]string, len(p.candidates))
	for i, c := range p.candidates {
		labels[i] = c.label
	}
	ranks := fuzzy.RankFindNormalizedFold(query, labels)
	sort.Stable(ranks)
	p.matches = nil
	for _, r := range ranks {
		p.matches = append(p.matches, p.candidates[r.OriginalIndex])
		if len(p.matches) == jumpMaxMatches {
			break
		}
	}
	events.Jump.Query(query, len(ranks))
}

func (m *Model) handleJumpKey(msg tea.KeyMsg) tea.Cmd {
	p := m.jump
	switch {
	case key.Matches(msg, m.keys.JumpExit):
		events.Jump.Cancel(p.input.Value())
		m.jump = nil
		return nil
	case key.Matches(msg, m.keys.JumpDone):
		m.jump = nil
		if len(p.matches) == 0 {
			m.setInfo("No match for " + p.input.Value())
			events.Jump.Submit(p.input.Value(), "")
			return nil
		}
		target := p.matches[0].id
		events.Jump.Submit(p.input.Value(), string(target))
		return m.pass(nav.FocusOn{Target: target})
	}
	var cmd tea.Cmd
	before := p.input.Value()
	p.input, cmd = p.input.Update(msg)
	if p.input.Value() != before {
		p.refresh()
	}
	return cmd
}
