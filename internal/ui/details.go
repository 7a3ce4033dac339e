package ui

import "bookshelf/internal/book"

// DetailsPanel shows the selected book: title, byline and cover URL, with a close button.
// It is styled by .details, .details-title, .details-byline, .details-cover and .details-close.
type DetailsPanel struct {
	panel  *Node
	title  *Node
	byline *Node
	cover  *Node
	close  *Node

	visible bool
	bookID  string
}

// NewDetailsPanel returns a hidden panel.
func NewDetailsPanel() *DetailsPanel {
	d := &DetailsPanel{
		panel: NewNode("panel", "details", "", ""),
	}
	d.title = d.child("details-title")
	d.byline = d.child("details-byline")
	d.cover = d.child("details-cover")
	d.close = d.child("details-close")
	d.close.Text = "Close"
	return d
}

func (d *DetailsPanel) child(class string) *Node {
	n := NewNode("label", class, "", "")
	n.Parent = d.panel
	return n
}

// Show fills the panel from b and makes it visible.
func (d *DetailsPanel) Show(b book.Book) {
	d.bookID = b.ID
	d.title.Text = b.Title
	d.byline.Text = b.Byline()
	if b.HasCover() {
		d.cover.Text = b.CoverURL
	} else {
		d.cover.Text = "No cover image"
	}
	d.visible = true
}

// Hide closes the panel and forgets the book.
func (d *DetailsPanel) Hide() {
	d.visible = false
	d.bookID = ""
}

func (d *DetailsPanel) Visible() bool { return d.visible }

// BookID returns the ID of the book on display, or "" when hidden.
func (d *DetailsPanel) BookID() string { return d.bookID }

// Click handles a pointer click at (x, y) using the bounds from the last Layout. A click on the
// close button or outside the panel hides it. It reports whether the click was consumed.
func (d *DetailsPanel) Click(x, y float32) bool {
	if !d.visible {
		return false
	}
	if d.close.Bounds.Contains(x, y) || !d.panel.Bounds.Contains(x, y) {
		d.Hide()
	}
	return true
}

// AppendNodes appends the panel nodes to dst when the panel is visible.
func (d *DetailsPanel) AppendNodes(dst []*Node) []*Node {
	if !d.visible {
		return dst
	}
	return append(dst, d.panel, d.title, d.byline, d.cover, d.close)
}
