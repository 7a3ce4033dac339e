package scene

import (
	"github.com/chewxy/math32"

	"bookshelf/internal/geom"
)

// Camera is a perspective camera. FovY is the vertical field of view in degrees,
// matching raylib's Camera3D.Fovy so the backend can use the same values.
type Camera struct {
	Position geom.Vec3
	Target   geom.Vec3
	Up       geom.Vec3
	FovY     float32
	Near     float32
	Far      float32
}

// DefaultCamera looks at the shelf from 3 units in front: position (0,0,3), target origin, 75° fov.
func DefaultCamera() Camera {
	return Camera{
		Position: geom.V3(0, 0, 3),
		Target:   geom.V3(0, 0, 0),
		Up:       geom.V3(0, 1, 0),
		FovY:     75,
		Near:     0.1,
		Far:      1000,
	}
}

// basis returns the camera's forward, right and up unit vectors.
func (c Camera) basis() (forward, right, up geom.Vec3) {
	forward = c.Target.Sub(c.Position).Normalize()
	right = forward.Cross(c.Up).Normalize()
	up = right.Cross(forward)
	return forward, right, up
}

func (c Camera) tanHalfFov() float32 {
	return math32.Tan(c.FovY * math32.Pi / 360)
}

// Project maps a scene-space point to normalized device coordinates ([-1,1] on both axes, +Y up).
// ok is false when the point is behind the camera or outside the near/far range.
func (c Camera) Project(p geom.Vec3, aspect float32) (ndc [2]float32, ok bool) {
	forward, right, up := c.basis()
	d := p.Sub(c.Position)
	depth := d.Dot(forward)
	if depth < c.Near || depth > c.Far {
		return ndc, false
	}
	th := c.tanHalfFov()
	if aspect <= 0 {
		aspect = 1
	}
	ndc[0] = d.Dot(right) / (depth * th * aspect)
	ndc[1] = d.Dot(up) / (depth * th)
	return ndc, true
}

// Ray returns the ray from the camera through the given normalized device coordinates.
func (c Camera) Ray(ndc [2]float32, aspect float32) geom.Ray {
	forward, right, up := c.basis()
	th := c.tanHalfFov()
	if aspect <= 0 {
		aspect = 1
	}
	dir := forward.
		Add(right.Scale(ndc[0] * th * aspect)).
		Add(up.Scale(ndc[1] * th))
	return geom.Ray{Origin: c.Position, Dir: dir.Normalize()}
}

// Viewport is the drawable surface size in pixels, supplied by the host at init and on resize.
type Viewport struct {
	Width  float32
	Height float32
}

// Aspect returns Width/Height, or 1 for a degenerate viewport.
func (v Viewport) Aspect() float32 {
	if v.Width <= 0 || v.Height <= 0 {
		return 1
	}
	return v.Width / v.Height
}

// ToNDC converts pixel coordinates (origin top-left, +Y down) to normalized device coordinates.
func (v Viewport) ToNDC(x, y float32) [2]float32 {
	if v.Width <= 0 || v.Height <= 0 {
		return [2]float32{}
	}
	return [2]float32{
		(x/v.Width)*2 - 1,
		-(y/v.Height)*2 + 1,
	}
}

// ToPixels converts normalized device coordinates back to pixel coordinates.
func (v Viewport) ToPixels(ndc [2]float32) (x, y float32) {
	x = (ndc[0] + 1) / 2 * v.Width
	y = (1 - ndc[1]) / 2 * v.Height
	return x, y
}
