package ui

import (
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/reflow/truncate"

	"github.com/atomicstack/popup-nav/internal/nav"
)

type styledLine struct {
	text  string
	style *lipgloss.Style
	raw   bool // text already carries styling
}

// segment is one row of one focusable's box on the canvas.
type segment struct {
	x     int
	width int
	text  string
	style *lipgloss.Style
}

// View implements tea.Model.
func (m *Model) View() string {
	lines := make([]styledLine, 0, 32)
	lines = append(lines, styledLine{text: m.breadcrumb(), style: styles.Header})

	canvas := m.renderCanvas()
	if m.height > 0 {
		if room := m.height - m.reservedRows(); len(canvas) > room {
			if room < 1 {
				room = 1
			}
			canvas = canvas[:room]
		}
	}
	for _, row := range canvas {
		lines = append(lines, styledLine{text: row, raw: true})
	}

	if p := m.preview; p != nil {
		lines = append(lines, styledLine{})
		lines = append(lines, styledLine{text: "preview: " + p.label, style: styles.PreviewTitle})
		switch {
		case p.loading:
			lines = append(lines, styledLine{text: "Loading preview…", style: styles.Info})
		case p.err != "":
			lines = append(lines, styledLine{text: p.err, style: styles.PreviewError})
		default:
			for _, line := range p.lines {
				lines = append(lines, styledLine{text: line, style: styles.PreviewBody})
			}
		}
	}

	if len(m.log) > 0 {
		lines = append(lines, styledLine{})
		for _, entry := range m.log {
			style := styles.Log
			if strings.HasPrefix(entry, "! ") {
				style = styles.Diagnostic
			}
			lines = append(lines, styledLine{text: entry, style: style})
		}
	}

	if m.jump != nil {
		lines = append(lines, styledLine{})
		lines = append(lines, styledLine{text: m.jump.input.View(), raw: true})
		for _, match := range m.jump.matches {
			lines = append(lines, styledLine{text: "  " + match.label, style: styles.Match})
		}
	}

	if info := m.currentInfo(); info != "" {
		lines = append(lines, styledLine{text: info, style: styles.Info})
	}
	if m.errMsg != "" {
		lines = append(lines, styledLine{text: "Error: " + m.errMsg, style: styles.Error})
	}
	if m.backendLastErr != "" {
		lines = append(lines, styledLine{text: "Backend: " + m.backendLastErr, style: styles.Error})
	}
	if m.opts.ShowFooter {
		lines = append(lines, styledLine{})
		lines = append(lines, styledLine{text: m.help.View(m.keys), raw: true})
	}
	return renderLines(applyWidth(lines, m.width))
}

// canvasTop is the screen row of canvas row zero.
func (m *Model) canvasTop() int {
	return 1
}

// reservedRows counts the rows below the canvas that the view always keeps.
func (m *Model) reservedRows() int {
	used := m.canvasTop()
	if len(m.log) > 0 {
		used += 1 + len(m.log)
	}
	if m.opts.ShowFooter {
		used += 2
	}
	return used
}

// openMenus returns the menus whose items are drawn: the roots and every menu
// anchored on the active trail.
func (m *Model) openMenus() map[nav.ID]bool {
	tree := m.scene.Tree
	open := make(map[nav.ID]bool)
	for _, root := range tree.Roots() {
		open[root] = true
	}
	for _, id := range tree.Trail() {
		if sub, ok := tree.SubMenu(id); ok && !tree.Detached(sub) {
			open[sub] = true
		}
	}
	return open
}

// renderCanvas draws every focusable of an open menu at its box.
func (m *Model) renderCanvas() []string {
	if m.scene.Registry == nil {
		return nil
	}
	tree := m.scene.Tree
	open := m.openMenus()
	rows := map[int][]segment{}
	maxRow := -1
	for _, id := range m.scene.Registry.IDs() {
		f, ok := tree.Focusable(id)
		if !ok || !open[f.Menu] {
			continue
		}
		box, ok := m.scene.Registry.Bounds(id)
		if !ok || box.W < 1 {
			continue
		}
		style := styleFor(f.State)
		label := m.label(id)
		if f.State == nav.Blocked {
			label = "(" + label + ")"
		}
		height := int(box.H)
		if height < 1 {
			height = 1
		}
		for r := 0; r < height; r++ {
			y := int(box.Y) + r
			text := ""
			if r == 0 {
				text = " " + label
			}
			rows[y] = append(rows[y], segment{x: int(box.X), width: int(box.W), text: text, style: style})
			if y > maxRow {
				maxRow = y
			}
		}
	}
	out := make([]string, maxRow+1)
	for y := 0; y <= maxRow; y++ {
		out[y] = renderRow(rows[y])
	}
	return out
}

// renderRow lays segments left to right. A segment starting inside an
// earlier one is clipped to the space left after it.
func renderRow(segs []segment) string {
	sort.SliceStable(segs, func(i, j int) bool { return segs[i].x < segs[j].x })
	var b strings.Builder
	cursor := 0
	for _, s := range segs {
		start, width := s.x, s.width
		if start < cursor {
			width -= cursor - start
			start = cursor
		}
		if width <= 0 {
			continue
		}
		b.WriteString(strings.Repeat(" ", start-cursor))
		cell := truncate.String(s.text, uint(width))
		cell += strings.Repeat(" ", width-ansi.StringWidth(cell))
		if s.style != nil {
			cell = s.style.Render(cell)
		}
		b.WriteString(cell)
		cursor = start + width
	}
	return b.String()
}

func styleFor(state nav.FocusState) *lipgloss.Style {
	switch state {
	case nav.Focused:
		return styles.Focused
	case nav.Active:
		return styles.Active
	case nav.Blocked:
		return styles.Blocked
	default:
		return styles.Inert
	}
}

func applyWidth(lines []styledLine, width int) []styledLine {
	if width <= 0 {
		return lines
	}
	result := make([]styledLine, len(lines))
	for i, line := range lines {
		text := line.text
		if line.raw {
			if ansi.StringWidth(text) > width {
				text = truncate.StringWithTail(text, uint(width-1), "…")
			}
		} else {
			text = truncateText(text, width)
		}
		result[i] = styledLine{text: text, style: line.style, raw: line.raw}
	}
	return result
}

func renderLines(lines []styledLine) string {
	out := make([]string, len(lines))
	for i, line := range lines {
		text := line.text
		if !line.raw && line.style != nil && text != "" {
			text = line.style.Render(text)
		}
		out[i] = text
	}
	return strings.Join(out, "\n")
}

func truncateText(text string, width int) string {
	if width <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= width {
		return text
	}
	if width == 1 {
		return string(runes[:1])
	}
	return string(runes[:width-1]) + "…"
}
