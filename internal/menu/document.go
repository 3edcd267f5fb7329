package menu

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/atomicstack/popup-nav/internal/nav"
)

// Layout names how a menu places items that carry no explicit box.
type Layout string

const (
	LayoutRow    Layout = "row"
	LayoutColumn Layout = "column"
	LayoutGrid   Layout = "grid"
)

// Document is the declarative form of a navigation scene.
type Document struct {
	Title string     `yaml:"title,omitempty"`
	Menus []MenuDecl `yaml:"menus"`
}

// MenuDecl declares one menu and the items it owns.
type MenuDecl struct {
	ID         string     `yaml:"id"`
	Wrapping   bool       `yaml:"wrapping,omitempty"`
	Scope      bool       `yaml:"scope,omitempty"`
	Anchor     string     `yaml:"anchor,omitempty"`
	AnchorName string     `yaml:"anchor_name,omitempty"`
	Marker     string     `yaml:"marker,omitempty"`
	Layout     Layout     `yaml:"layout,omitempty"`
	Columns    int        `yaml:"columns,omitempty"`
	Origin     Point      `yaml:"origin,omitempty"`
	Gap        int        `yaml:"gap,omitempty"`
	Items      []ItemDecl `yaml:"items"`
}

// ItemDecl declares one focusable.
type ItemDecl struct {
	ID       string `yaml:"id"`
	Label    string `yaml:"label,omitempty"`
	Name     string `yaml:"name,omitempty"`
	Priority bool   `yaml:"priority,omitempty"`
	Blocked  bool   `yaml:"blocked,omitempty"`
	Behavior string `yaml:"behavior,omitempty"`
	Target   string `yaml:"target,omitempty"`
	Box      *Box   `yaml:"box,omitempty"`
}

// Point is a cell position.
type Point struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// Box is an explicit cell rectangle.
type Box struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
	W int `yaml:"w"`
	H int `yaml:"h"`
}

func (b Box) rect() nav.Rect {
	return nav.Rect{X: float64(b.X), Y: float64(b.Y), W: float64(b.W), H: float64(b.H)}
}

// Parse decodes a YAML document and validates it.
func Parse(data []byte) (Document, error) {
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("decode menu document: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// Load reads and parses the document at path.
func Load(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read menu document: %w", err)
	}
	doc, err := Parse(data)
	if err != nil {
		return Document{}, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Marshal encodes the document back to YAML.
func Marshal(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Validate reports every structural problem in the document. Anchors given
// by name are not checked: they may be satisfied by a later reload and stay
// pending until then.
func (d Document) Validate() error {
	var errs []error
	seen := make(map[string]string)
	claim := func(id, what string) {
		if prev, ok := seen[id]; ok {
			errs = append(errs, fmt.Errorf("duplicate id %q (%s and %s)", id, prev, what))
			return
		}
		seen[id] = what
	}

	for i, m := range d.Menus {
		if strings.TrimSpace(m.ID) == "" {
			errs = append(errs, fmt.Errorf("menu %d: missing id", i))
		} else {
			claim(m.ID, "menu")
		}
		if m.Anchor != "" && m.AnchorName != "" {
			errs = append(errs, fmt.Errorf("menu %q: anchor and anchor_name are exclusive", m.ID))
		}
		switch m.Layout {
		case "", LayoutRow, LayoutColumn:
		case LayoutGrid:
			if m.Columns <= 0 {
				errs = append(errs, fmt.Errorf("menu %q: grid layout needs columns > 0", m.ID))
			}
		default:
			errs = append(errs, fmt.Errorf("menu %q: unknown layout %q", m.ID, m.Layout))
		}
		if m.Gap < 0 {
			errs = append(errs, fmt.Errorf("menu %q: gap must be >= 0", m.ID))
		}
		for j, item := range m.Items {
			if strings.TrimSpace(item.ID) == "" {
				errs = append(errs, fmt.Errorf("menu %q item %d: missing id", m.ID, j))
				continue
			}
			claim(item.ID, "item")
			if _, err := nav.ParseBehavior(item.Behavior); err != nil {
				errs = append(errs, fmt.Errorf("item %q: %w", item.ID, err))
			}
			if item.Box != nil && (item.Box.W <= 0 || item.Box.H <= 0) {
				errs = append(errs, fmt.Errorf("item %q: box needs positive size", item.ID))
			}
		}
	}

	for _, m := range d.Menus {
		if m.Anchor == "" {
			continue
		}
		if what, ok := seen[m.Anchor]; !ok || what != "item" {
			errs = append(errs, fmt.Errorf("menu %q: anchor %q is not an item", m.ID, m.Anchor))
		}
	}
	return errors.Join(errs...)
}
