package geom

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
)

const eps = 1e-5

func assertVec(t *testing.T, want, got Vec3) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, eps, "x")
	assert.InDelta(t, want.Y, got.Y, eps, "y")
	assert.InDelta(t, want.Z, got.Z, eps, "z")
}

func TestRotateY(t *testing.T) {
	tests := []struct {
		name  string
		in    Vec3
		angle float32
		want  Vec3
	}{
		{"zero angle", V3(1, 2, 3), 0, V3(1, 2, 3)},
		{"quarter turn x to -z", V3(1, 0, 0), math32.Pi / 2, V3(0, 0, -1)},
		{"quarter turn z to x", V3(0, 0, 1), math32.Pi / 2, V3(1, 0, 0)},
		{"y untouched", V3(0, 5, 0), 1.3, V3(0, 5, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertVec(t, tt.want, RotateY(tt.in, tt.angle))
		})
	}
}

func TestTransformRoundTrip(t *testing.T) {
	tr := Transform{Position: V3(1, -2, 0.5), Yaw: 0.7}
	p := V3(0.3, 0.4, -1.2)
	assertVec(t, p, tr.InverseApply(tr.Apply(p)))
	d := V3(0, 0, -1)
	assertVec(t, d, tr.InverseApplyDir(tr.ApplyDir(d)))
}

func TestTransformThen(t *testing.T) {
	parent := Transform{Yaw: math32.Pi / 2}
	child := Transform{Position: V3(1, 0, 0)}
	world := parent.Then(child)
	assertVec(t, V3(0, 0, -1), world.Position)
	assert.InDelta(t, math32.Pi/2, world.Yaw, eps)
	// Composed transform must agree with applying both in turn.
	p := V3(0.2, 0.1, 0.3)
	assertVec(t, parent.Apply(child.Apply(p)), world.Apply(p))
}

func TestIntersectBox(t *testing.T) {
	unit := V3(1, 1, 1)
	tests := []struct {
		name  string
		ray   Ray
		hit   bool
		wantT float32
	}{
		{"straight on", Ray{Origin: V3(0, 0, 3), Dir: V3(0, 0, -1)}, true, 2.5},
		{"miss to the side", Ray{Origin: V3(2, 0, 3), Dir: V3(0, 0, -1)}, false, 0},
		{"pointing away", Ray{Origin: V3(0, 0, 3), Dir: V3(0, 0, 1)}, false, 0},
		{"from inside", Ray{Origin: V3(0, 0, 0), Dir: V3(1, 0, 0)}, true, 0.5},
		{"parallel outside slab", Ray{Origin: V3(0, 0.6, 3), Dir: V3(0, 0, -1)}, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := IntersectBox(tt.ray, unit)
			assert.Equal(t, tt.hit, ok)
			if tt.hit {
				assert.InDelta(t, tt.wantT, got, eps)
			}
		})
	}
}

func TestClamp(t *testing.T) {
	assert.Equal(t, float32(0.52), Clamp(3, -0.52, 0.52))
	assert.Equal(t, float32(-0.52), Clamp(-3, -0.52, 0.52))
	assert.Equal(t, float32(0.1), Clamp(0.1, -0.52, 0.52))
}
