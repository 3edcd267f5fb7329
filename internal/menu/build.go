package menu

import (
	"fmt"

	"github.com/atomicstack/popup-nav/internal/format/table"
	"github.com/atomicstack/popup-nav/internal/nav"
)

// Scene is a built navigation tree together with its presentation.
type Scene struct {
	Title       string
	Source      string
	Tree        *nav.Tree
	Registry    *Registry
	Diagnostics []nav.Diagnostic
}

// Build validates doc and registers its menus and items in a fresh tree.
// Menus are registered before items so anchors may point forwards; they are
// resolved once at the end and whatever stays pending is left to the
// navigator.
func Build(doc Document) (*Scene, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	tree := nav.NewTree()
	reg := newRegistry()

	for _, m := range doc.Menus {
		spec := nav.MenuSpec{
			ID:         nav.ID(m.ID),
			Setting:    nav.Setting{Wrapping: m.Wrapping, Scope: m.Scope},
			Anchor:     nav.ID(m.Anchor),
			AnchorName: m.AnchorName,
			Marker:     m.Marker,
		}
		if err := tree.AddMenu(spec); err != nil {
			return nil, fmt.Errorf("build menu %q: %w", m.ID, err)
		}
	}
	for _, m := range doc.Menus {
		boxes := layoutItems(m)
		for i, item := range m.Items {
			behavior, err := nav.ParseBehavior(item.Behavior)
			if err != nil {
				return nil, fmt.Errorf("build item %q: %w", item.ID, err)
			}
			spec := nav.FocusableSpec{
				ID:       nav.ID(item.ID),
				Menu:     nav.ID(m.ID),
				Name:     item.Name,
				Priority: item.Priority,
				Blocked:  item.Blocked,
				Behavior: behavior,
			}
			if err := tree.AddFocusable(spec); err != nil {
				return nil, fmt.Errorf("build item %q: %w", item.ID, err)
			}
			reg.add(Entry{
				ID:     spec.ID,
				Menu:   spec.Menu,
				Label:  item.Label,
				Box:    boxes[i],
				Kind:   KindItem,
				Target: item.Target,
			})
		}
	}

	return &Scene{
		Title:       doc.Title,
		Tree:        tree,
		Registry:    reg,
		Diagnostics: tree.ResolvePending(0),
	}, nil
}

// layoutItems computes a box for every item of m. Items with an explicit box
// keep it and do not advance the layout cursor.
func layoutItems(m MenuDecl) []nav.Rect {
	boxes := make([]nav.Rect, len(m.Items))
	cellW := 0
	for _, item := range m.Items {
		if w := labelWidth(item); w > cellW {
			cellW = w
		}
	}
	x, y := m.Origin.X, m.Origin.Y
	slot := 0
	for i, item := range m.Items {
		if item.Box != nil {
			boxes[i] = item.Box.rect()
			continue
		}
		switch m.Layout {
		case LayoutColumn:
			boxes[i] = nav.Rect{X: float64(x), Y: float64(y), W: float64(cellW), H: 1}
			y += 1 + m.Gap
		case LayoutGrid:
			col, row := slot%m.Columns, slot/m.Columns
			boxes[i] = nav.Rect{
				X: float64(m.Origin.X + col*(cellW+m.Gap)),
				Y: float64(m.Origin.Y + row*(1+m.Gap)),
				W: float64(cellW),
				H: 1,
			}
		default:
			w := labelWidth(item)
			boxes[i] = nav.Rect{X: float64(x), Y: float64(y), W: float64(w), H: 1}
			x += w + m.Gap
		}
		slot++
	}
	return boxes
}

// labelWidth is the cell width of an item's label plus one cell of padding
// on each side. Blocked items are drawn in parentheses.
func labelWidth(item ItemDecl) int {
	label := item.Label
	if label == "" {
		label = prettyLabel(item.ID)
	}
	w := table.CellWidth(label) + 2
	if item.Blocked {
		w += 2
	}
	return w
}
