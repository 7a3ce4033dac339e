package overlay

import (
	"bookshelf/internal/geom"
	"bookshelf/internal/scene"
	"bookshelf/internal/shelf"
)

// Label placement constants: labels sit up and left of the projected book centre, nudged right
// by a few pixels per column so neighbouring titles don't overlap.
const (
	OffsetX      = -37.5
	OffsetY      = -22.5
	ColumnStep   = 5
	Rotation     = -90 // degrees; titles read bottom to top along the spine
	DefaultWidth = 60
	DefaultSize  = 14
)

// Label is a book title positioned in screen pixels (origin top-left).
type Label struct {
	ID    string
	Title string
	X, Y  float32
}

// Slots is what the projector needs from the shelf.
type Slots interface {
	Slots() []shelf.Slot
	RowIndex(id string) (int, bool)
}

// Projector maps shelf slots to screen positions for title labels.
type Projector struct {
	Camera scene.Camera
}

// New returns a projector for cam.
func New(cam scene.Camera) *Projector {
	return &Projector{Camera: cam}
}

// Labels computes a label for every slot visible at the given scene yaw. Results are never cached:
// call once per frame with the current yaw and viewport. Slots still waiting for a mesh, and
// slots that project behind the camera, get no label.
func (p *Projector) Labels(slots Slots, yaw float32, vp scene.Viewport) []Label {
	all := slots.Slots()
	out := make([]Label, 0, len(all))
	for _, sl := range all {
		if sl.Pending {
			continue
		}
		col, ok := slots.RowIndex(sl.ID)
		if !ok {
			continue
		}
		x, y, ok := p.Project(sl.Position, col, yaw, vp)
		if !ok {
			continue
		}
		out = append(out, Label{ID: sl.ID, Title: sl.Title, X: x, Y: y})
	}
	return out
}

// Project rotates a slot position by yaw about +Y, projects it through the camera and applies the
// label offset for column col.
func (p *Projector) Project(pos geom.Vec3, col int, yaw float32, vp scene.Viewport) (x, y float32, ok bool) {
	world := geom.RotateY(pos, yaw)
	ndc, ok := p.Camera.Project(world, vp.Aspect())
	if !ok {
		return 0, 0, false
	}
	x, y = vp.ToPixels(ndc)
	return x + OffsetX + float32(col)*ColumnStep, y + OffsetY, true
}
