package geom

import (
	"github.com/chewxy/math32"
)

// Vec3 is a 3D vector or point in world units. Y is up.
type Vec3 struct {
	X, Y, Z float32
}

// V3 is shorthand for Vec3{x, y, z}.
func V3(x, y, z float32) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

func (a Vec3) Add(b Vec3) Vec3 {
	return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z}
}

func (a Vec3) Sub(b Vec3) Vec3 {
	return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z}
}

func (a Vec3) Scale(s float32) Vec3 {
	return Vec3{a.X * s, a.Y * s, a.Z * s}
}

func (a Vec3) Dot(b Vec3) float32 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

// Len returns the Euclidean length of a.
func (a Vec3) Len() float32 {
	return math32.Sqrt(a.Dot(a))
}

// Normalize returns a unit vector in the direction of a. The zero vector is returned unchanged.
func (a Vec3) Normalize() Vec3 {
	l := a.Len()
	if l == 0 {
		return a
	}
	return a.Scale(1 / l)
}

// Array returns the components as [x, y, z] (the shape used by YAML frame definitions).
func (a Vec3) Array() [3]float32 {
	return [3]float32{a.X, a.Y, a.Z}
}

// RotateY rotates p by angle radians about the +Y axis (right-handed, same as three.js
// applyAxisAngle and raylib Rotatef(angle, 0, 1, 0)).
func RotateY(p Vec3, angle float32) Vec3 {
	if angle == 0 {
		return p
	}
	s, c := math32.Sincos(angle)
	return Vec3{
		X: p.X*c + p.Z*s,
		Y: p.Y,
		Z: -p.X*s + p.Z*c,
	}
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
