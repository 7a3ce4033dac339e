package geom

import (
	"github.com/chewxy/math32"
)

// Transform places a node relative to its parent: rotate by Yaw about +Y, then translate by Position.
// The shelf only ever rotates about the vertical axis, so a full matrix is not needed.
type Transform struct {
	Position Vec3
	Yaw      float32
}

// Identity is the transform that leaves points unchanged.
var Identity = Transform{}

// Apply maps a point from the transform's local space to its parent space.
func (t Transform) Apply(p Vec3) Vec3 {
	return RotateY(p, t.Yaw).Add(t.Position)
}

// ApplyDir maps a direction (no translation) to parent space.
func (t Transform) ApplyDir(d Vec3) Vec3 {
	return RotateY(d, t.Yaw)
}

// InverseApply maps a point from parent space back into local space.
func (t Transform) InverseApply(p Vec3) Vec3 {
	return RotateY(p.Sub(t.Position), -t.Yaw)
}

// InverseApplyDir maps a direction from parent space back into local space.
func (t Transform) InverseApplyDir(d Vec3) Vec3 {
	return RotateY(d, -t.Yaw)
}

// Then composes parent (t) with child: the result maps child-local points straight to t's parent space.
func (t Transform) Then(child Transform) Transform {
	return Transform{
		Position: t.Apply(child.Position),
		Yaw:      t.Yaw + child.Yaw,
	}
}

// Ray is a half-line starting at Origin along Dir (Dir need not be unit length,
// distances returned by intersections are in units of Dir).
type Ray struct {
	Origin Vec3
	Dir    Vec3
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float32) Vec3 {
	return r.Origin.Add(r.Dir.Scale(t))
}

// IntersectBox tests r against an axis-aligned box centred at the origin with the given full size.
// Returns the nearest non-negative hit distance (slab method). A ray starting inside the box hits at its exit.
func IntersectBox(r Ray, size Vec3) (float32, bool) {
	tmin := math32.Inf(-1)
	tmax := math32.Inf(1)
	origin := r.Origin.Array()
	dir := r.Dir.Array()
	half := size.Scale(0.5).Array()
	for i := 0; i < 3; i++ {
		if dir[i] == 0 {
			// Parallel to this slab: miss unless the origin lies between its planes.
			if origin[i] < -half[i] || origin[i] > half[i] {
				return 0, false
			}
			continue
		}
		inv := 1 / dir[i]
		t1 := (-half[i] - origin[i]) * inv
		t2 := (half[i] - origin[i]) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = max(tmin, t1)
		tmax = min(tmax, t2)
		if tmin > tmax {
			return 0, false
		}
	}
	if tmax < 0 {
		return 0, false
	}
	if tmin >= 0 {
		return tmin, true
	}
	return tmax, true
}
