package shelf

import (
	"github.com/chewxy/math32"

	"bookshelf/internal/frame"
	"bookshelf/internal/geom"
)

// Layout fixes where and how books are placed on the row.
type Layout struct {
	RowStart geom.Vec3 // centre of the first book, relative to the frame
	BookSize geom.Vec3 // width (along the row), height, depth
	Gap      float32
	Capacity int
	BookYaw  float32 // rotation of the book mesh inside its slot group
	Spine    float32 // thickness of the spine strip
}

// DefaultLayout is the built-in row: four 0.5 wide books starting at (-0.9, 1.1, -0.22), 0.05 apart.
func DefaultLayout() Layout {
	return Layout{
		RowStart: geom.V3(-0.9, 1.1, -0.22),
		BookSize: geom.V3(0.5, 0.6, 0.15),
		Gap:      0.05,
		Capacity: 4,
		BookYaw:  math32.Pi / 2,
		Spine:    0.01,
	}
}

// LayoutFrom takes the row and book shape from a frame definition.
func LayoutFrom(d frame.Definition) Layout {
	l := DefaultLayout()
	l.RowStart = geom.V3(d.Row.Start[0], d.Row.Start[1], d.Row.Start[2])
	l.BookSize = geom.V3(d.Book.Size[0], d.Book.Size[1], d.Book.Size[2])
	l.Gap = d.Row.Gap
	l.Capacity = d.Row.Capacity
	l.BookYaw = d.Book.Yaw
	return l
}

// Step is the distance between neighbouring book centres.
func (l Layout) Step() float32 {
	return l.BookSize.X + l.Gap
}

// SlotPosition returns the centre of the book in column i.
func (l Layout) SlotPosition(i int) geom.Vec3 {
	p := l.RowStart
	p.X += float32(i) * l.Step()
	return p
}
