package frame

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookshelf/internal/covercolor"
	"bookshelf/internal/geom"
	"bookshelf/internal/scene"
)

func TestDefault(t *testing.T) {
	d := Default()
	assert.Equal(t, "#8b4513", d.Colour)
	require.Len(t, d.Parts, 6)
	assert.Equal(t, [3]float32{2.2, 2.4, 0.11}, d.Parts[0].Size)
	assert.Equal(t, [3]float32{0, 0, -0.55}, d.Parts[0].Position)
	assert.Equal(t, 4, d.Row.Capacity)
	assert.Equal(t, float32(0.05), d.Row.Gap)
	assert.Equal(t, [3]float32{-0.9, 1.1, -0.22}, d.Row.Start)
	assert.Equal(t, [3]float32{0.5, 0.6, 0.15}, d.Book.Size)
}

func TestBuild(t *testing.T) {
	g := scene.New()
	group, err := Default().Build(g, g.Root())
	require.NoError(t, err)

	n, ok := g.Node(group)
	require.True(t, ok)
	assert.Len(t, n.Children(), 6)

	meshes := 0
	g.Walk(func(n *scene.Node, _ geom.Transform) {
		meshes++
		assert.Equal(t, covercolor.Fallback, n.Mesh.Colour)
	})
	assert.Equal(t, 6, meshes)

	_, err = Default().Build(g, 999)
	assert.Error(t, err)
}

func TestParseInvalid(t *testing.T) {
	tests := map[string]string{
		"bad yaml":      "parts: [",
		"bad colour":    "colour: nope\nrow: {capacity: 1}\nbook: {size: [1,1,1]}",
		"zero capacity": "colour: '#fff'\nrow: {capacity: 0}\nbook: {size: [1,1,1]}",
		"flat part":     "colour: '#fff'\nparts: [{name: p, size: [1,0,1]}]\nrow: {capacity: 1}\nbook: {size: [1,1,1]}",
		"no book size":  "colour: '#fff'\nrow: {capacity: 1}",
	}
	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(src))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.yaml")
	require.NoError(t, os.WriteFile(path, defaultYAML, 0o644))
	d, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), d)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
