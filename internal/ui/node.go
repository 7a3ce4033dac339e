package ui

// Rect is a screen rectangle in pixels.
type Rect struct {
	X, Y, Width, Height float32
}

// Contains reports whether the point lies inside r.
func (r Rect) Contains(x, y float32) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Node is a single UI element: panel, label, etc. It has optional class and id for CSS matching,
// bounds, and optional text for labels.
type Node struct {
	Type   string // "panel", "label", etc.
	Class  string // e.g. "details" for .details
	ID     string // e.g. "main" for #main
	Bounds Rect
	Text   string
	// Parent, when set, makes Left/Top (and percentages) relative to the parent's bounds.
	// The parent must come earlier in the node list.
	Parent *Node
}

// NewNode creates a node with type and optional class, id, and text.
func NewNode(typ, class, id, text string) *Node {
	return &Node{Type: typ, Class: class, ID: id, Text: text}
}
