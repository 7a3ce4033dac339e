package ui

import (
	"fmt"
	"os"
)

const defaultFontSize = 20

// Styled is a node with its resolved style and on-screen bounds, ready to draw.
type Styled struct {
	Node   *Node
	Style  ComputedStyle
	Bounds Rect
}

// Engine lays out nodes against a stylesheet. Later nodes draw over earlier ones.
// Styles are resolved once per sheet or node change.
type Engine struct {
	sheet  *Stylesheet
	nodes  []*Node
	styles []ComputedStyle
	stale  bool
}

// New returns an engine with no sheet and no nodes.
func New() *Engine {
	return &Engine{}
}

// LoadCSS replaces the stylesheet with the parsed contents of a file.
func (e *Engine) LoadCSS(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("ui: %w", err)
	}
	sheet, err := ParseCSS(string(data))
	if err != nil {
		return err
	}
	e.SetStylesheet(sheet)
	return nil
}

// SetStylesheet installs an already parsed sheet.
func (e *Engine) SetStylesheet(sheet *Stylesheet) {
	e.sheet = sheet
	e.stale = true
}

// SetNodes replaces all nodes. Passing the same nodes again keeps the style cache.
func (e *Engine) SetNodes(nodes []*Node) {
	if sameNodes(e.nodes, nodes) {
		return
	}
	e.nodes = append(e.nodes[:0], nodes...)
	e.stale = true
}

func sameNodes(a, b []*Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Style resolves the style for a class (and optional id) without a node, e.g. for book labels.
func (e *Engine) Style(class, id string) ComputedStyle {
	return ResolveProps(e.sheet.Props(class, id))
}

// Layout resolves every node's style and bounds for a screen of w×h pixels.
// Percentage positions place the node's box within the free space of the screen (or parent),
// so 50% centres it.
func (e *Engine) Layout(w, h int32) []Styled {
	if e.stale || len(e.styles) != len(e.nodes) {
		e.styles = e.styles[:0]
		for _, n := range e.nodes {
			e.styles = append(e.styles, ResolveProps(e.sheet.Props(n.Class, n.ID)))
		}
		e.stale = false
	}
	out := make([]Styled, len(e.nodes))
	for i, n := range e.nodes {
		style := e.styles[i]
		b := n.Bounds
		if style.Width > 0 {
			b.Width = float32(style.Width)
		}
		if style.Height > 0 {
			b.Height = float32(style.Height)
		}
		area := Rect{Width: float32(w), Height: float32(h)}
		if n.Parent != nil {
			area = n.Parent.Bounds
		}
		b.X, b.Y = area.X+float32(style.Left), area.Y+float32(style.Top)
		if style.LeftPct >= 0 {
			b.X = area.X + (area.Width-b.Width)*float32(style.LeftPct)/100
		}
		if style.TopPct >= 0 {
			b.Y = area.Y + (area.Height-b.Height)*float32(style.TopPct)/100
		}
		n.Bounds = b
		out[i] = Styled{Node: n, Style: style, Bounds: b}
	}
	return out
}

// HasStylesheet reports whether any rule is loaded.
func (e *Engine) HasStylesheet() bool {
	return e.sheet != nil && len(e.sheet.Rules) > 0
}

// Stylesheet may return nil.
func (e *Engine) Stylesheet() *Stylesheet {
	return e.sheet
}
