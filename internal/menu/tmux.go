package menu

import (
	"fmt"
	"strconv"

	"github.com/atomicstack/popup-nav/internal/format/table"
	"github.com/atomicstack/popup-nav/internal/nav"
	"github.com/atomicstack/popup-nav/internal/tmux"
)

const (
	paneAreaWidth  = 40
	paneAreaHeight = 12
	minPaneWidth   = 4
)

// SessionMenu is the scope menu holding one tab per tmux session.
const SessionMenu = "sessions"

// FromTmux turns a server layout into a scene. Sessions form a wrapping tab
// row, each session opens a column of its windows and each window opens a
// menu of panes placed by their real geometry, scaled to a fixed area.
func FromTmux(layout tmux.Layout) (*Scene, error) {
	doc, kinds := tmuxDocument(layout)
	scene, err := Build(doc)
	if err != nil {
		return nil, err
	}
	for id, kind := range kinds {
		if e, ok := scene.Registry.entries[id]; ok {
			e.Kind = kind
		}
	}
	scene.Source = "tmux"
	return scene, nil
}

func sessionItemID(name string) string { return "session:" + name }
func windowItemID(target string) string { return "window:" + target }
func paneItemID(target string) string   { return "pane:" + target }

func tmuxDocument(layout tmux.Layout) (Document, map[nav.ID]Kind) {
	kinds := make(map[nav.ID]Kind)
	windows := make(map[string][]tmux.Window)
	for _, w := range layout.Windows {
		windows[w.Session] = append(windows[w.Session], w)
	}
	panes := make(map[string][]tmux.Pane)
	for _, p := range layout.Panes {
		panes[p.Window()] = append(panes[p.Window()], p)
	}

	doc := Document{Title: "tmux"}
	tabs := MenuDecl{ID: SessionMenu, Scope: true, Wrapping: true}
	var nested []MenuDecl
	x := 0
	for _, s := range layout.Sessions {
		label := s.Name
		if s.Current {
			label += "*"
		}
		width := table.CellWidth(label) + 2
		id := sessionItemID(s.Name)
		tabs.Items = append(tabs.Items, ItemDecl{
			ID:       id,
			Label:    label,
			Priority: s.Current,
			Target:   s.Name,
			Box:      &Box{X: x, Y: 0, W: width, H: 1},
		})
		kinds[nav.ID(id)] = KindSession
		nested = append(nested, windowMenus(s, x, windows[s.Name], panes, kinds)...)
		x += width + 1
	}
	doc.Menus = append([]MenuDecl{tabs}, nested...)
	return doc, kinds
}

func windowMenus(s tmux.Session, x int, windows []tmux.Window, panes map[string][]tmux.Pane, kinds map[nav.ID]Kind) []MenuDecl {
	if len(windows) == 0 {
		return nil
	}
	rows := make([][]string, len(windows))
	for i, w := range windows {
		rows[i] = []string{strconv.Itoa(w.Index) + ":", w.Name, fmt.Sprintf("(%d)", len(panes[w.ID]))}
	}
	labels := table.Format(rows, []table.Alignment{table.AlignRight})

	col := MenuDecl{
		ID:     "windows:" + s.Name,
		Anchor: sessionItemID(s.Name),
		Layout: LayoutColumn,
		Origin: Point{X: x, Y: 2},
	}
	var out []MenuDecl
	colWidth := 0
	for _, label := range labels {
		if w := table.CellWidth(label) + 2; w > colWidth {
			colWidth = w
		}
	}
	for i, w := range windows {
		id := windowItemID(w.ID)
		col.Items = append(col.Items, ItemDecl{
			ID:       id,
			Label:    labels[i],
			Priority: w.Active,
			Target:   w.ID,
		})
		kinds[nav.ID(id)] = KindWindow
		if m, ok := paneMenu(w, Point{X: x + colWidth + 2, Y: 2}, panes[w.ID], kinds); ok {
			out = append(out, m)
		}
	}
	return append([]MenuDecl{col}, out...)
}

func paneMenu(w tmux.Window, origin Point, panes []tmux.Pane, kinds map[nav.ID]Kind) (MenuDecl, bool) {
	if len(panes) == 0 {
		return MenuDecl{}, false
	}
	winW, winH := 1, 1
	for _, p := range panes {
		if r := p.Left + p.Width; r > winW {
			winW = r
		}
		if b := p.Top + p.Height; b > winH {
			winH = b
		}
	}
	m := MenuDecl{
		ID:       "panes:" + w.ID,
		Anchor:   windowItemID(w.ID),
		Wrapping: true,
		Marker:   "pane",
	}
	for _, p := range panes {
		box := scaleBox(p, winW, winH, origin)
		label := fmt.Sprintf("%d %s", p.Index, p.Command)
		if p.Title != "" && p.Title != p.Command {
			label += " " + p.Title
		}
		id := paneItemID(p.ID)
		m.Items = append(m.Items, ItemDecl{
			ID:       id,
			Label:    label,
			Priority: p.Active,
			Target:   p.ID,
			Box:      &box,
		})
		kinds[nav.ID(id)] = KindPane
	}
	return m, true
}

// scaleBox maps a pane's cell rectangle inside a winW x winH window onto the
// fixed pane area at origin.
func scaleBox(p tmux.Pane, winW, winH int, origin Point) Box {
	box := Box{
		X: origin.X + p.Left*paneAreaWidth/winW,
		Y: origin.Y + p.Top*paneAreaHeight/winH,
		W: p.Width * paneAreaWidth / winW,
		H: p.Height * paneAreaHeight / winH,
	}
	if box.W < minPaneWidth {
		box.W = minPaneWidth
	}
	if box.H < 1 {
		box.H = 1
	}
	return box
}
