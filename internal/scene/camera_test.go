package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookshelf/internal/geom"
)

func TestViewportToNDC(t *testing.T) {
	vp := Viewport{Width: 800, Height: 600}
	tests := []struct {
		name string
		x, y float32
		want [2]float32
	}{
		{"centre", 400, 300, [2]float32{0, 0}},
		{"top left", 0, 0, [2]float32{-1, 1}},
		{"bottom right", 800, 600, [2]float32{1, -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := vp.ToNDC(tt.x, tt.y)
			assert.InDelta(t, tt.want[0], got[0], 1e-6)
			assert.InDelta(t, tt.want[1], got[1], 1e-6)
			x, y := vp.ToPixels(got)
			assert.InDelta(t, tt.x, x, 1e-3)
			assert.InDelta(t, tt.y, y, 1e-3)
		})
	}
}

func TestViewportDegenerate(t *testing.T) {
	vp := Viewport{}
	assert.Equal(t, float32(1), vp.Aspect())
	assert.Equal(t, [2]float32{}, vp.ToNDC(10, 10))
}

func TestCameraCentreRayLooksAtTarget(t *testing.T) {
	cam := DefaultCamera()
	r := cam.Ray([2]float32{0, 0}, 1)
	assert.InDelta(t, 0, r.Dir.X, 1e-6)
	assert.InDelta(t, 0, r.Dir.Y, 1e-6)
	assert.InDelta(t, -1, r.Dir.Z, 1e-6)
}

func TestCameraProjectInvertsRay(t *testing.T) {
	cam := DefaultCamera()
	for _, aspect := range []float32{1, 4.0 / 3.0, 16.0 / 9.0} {
		ndc := [2]float32{0.3, -0.45}
		r := cam.Ray(ndc, aspect)
		got, ok := cam.Project(r.At(2.5), aspect)
		require.True(t, ok)
		assert.InDelta(t, ndc[0], got[0], 1e-4)
		assert.InDelta(t, ndc[1], got[1], 1e-4)
	}
}

func TestCameraProjectBehind(t *testing.T) {
	cam := DefaultCamera()
	_, ok := cam.Project(geom.V3(0, 0, 5), 1)
	assert.False(t, ok)
}
