package menu

import (
	"sort"
	"strings"
	"unicode"

	"github.com/atomicstack/popup-nav/internal/nav"
)

// Kind tells the host what an entry stands for.
type Kind int

const (
	KindItem Kind = iota
	KindSession
	KindWindow
	KindPane
)

func (k Kind) String() string {
	switch k {
	case KindSession:
		return "session"
	case KindWindow:
		return "window"
	case KindPane:
		return "pane"
	default:
		return "item"
	}
}

// Entry is the presentation side of a focusable.
type Entry struct {
	ID     nav.ID
	Menu   nav.ID
	Label  string
	Box    nav.Rect
	Kind   Kind
	Target string
}

// Registry keeps labels and boxes for every focusable of a scene. It
// implements nav.Geometry.
type Registry struct {
	entries map[nav.ID]*Entry
	order   []nav.ID
}

func newRegistry() *Registry {
	return &Registry{entries: make(map[nav.ID]*Entry)}
}

func (r *Registry) add(e Entry) {
	if e.Label == "" {
		e.Label = prettyLabel(string(e.ID))
	}
	if _, ok := r.entries[e.ID]; !ok {
		r.order = append(r.order, e.ID)
	}
	entry := e
	r.entries[e.ID] = &entry
}

// Find locates an entry by ID.
func (r *Registry) Find(id nav.ID) (Entry, bool) {
	e, ok := r.entries[id]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// Label returns the display label of id, or a label derived from the ID.
func (r *Registry) Label(id nav.ID) string {
	if e, ok := r.entries[id]; ok {
		return e.Label
	}
	return prettyLabel(string(id))
}

// Bounds implements nav.Geometry.
func (r *Registry) Bounds(id nav.ID) (nav.Rect, bool) {
	e, ok := r.entries[id]
	if !ok {
		return nav.Rect{}, false
	}
	return e.Box, true
}

// IDs lists every entry in declaration order.
func (r *Registry) IDs() []nav.ID {
	return append([]nav.ID(nil), r.order...)
}

// InMenu lists the entries owned by menu in declaration order.
func (r *Registry) InMenu(menu nav.ID) []Entry {
	var out []Entry
	for _, id := range r.order {
		if e := r.entries[id]; e.Menu == menu {
			out = append(out, *e)
		}
	}
	return out
}

// Extent is the smallest width and height that holds every box.
func (r *Registry) Extent() (int, int) {
	w, h := 0, 0
	for _, e := range r.entries {
		if right := int(e.Box.X + e.Box.W); right > w {
			w = right
		}
		if bottom := int(e.Box.Y + e.Box.H); bottom > h {
			h = bottom
		}
	}
	return w, h
}

// ByKind returns the IDs of entries of kind k, sorted.
func (r *Registry) ByKind(k Kind) []nav.ID {
	var out []nav.ID
	for _, id := range r.order {
		if r.entries[id].Kind == k {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func prettyLabel(id string) string {
	if id == "" {
		return id
	}
	parts := strings.FieldsFunc(id, func(r rune) bool {
		return r == '-' || r == '_' || r == ' ' || r == ':'
	})
	for i, part := range parts {
		runes := []rune(part)
		runes[0] = unicode.ToUpper(runes[0])
		for j := 1; j < len(runes); j++ {
			runes[j] = unicode.ToLower(runes[j])
		}
		parts[i] = string(runes)
	}
	return strings.Join(parts, " ")
}
