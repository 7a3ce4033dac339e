package frame

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"bookshelf/internal/covercolor"
	"bookshelf/internal/geom"
	"bookshelf/internal/scene"
)

//go:embed default.yaml
var defaultYAML []byte

// Part is one wooden box of the frame.
type Part struct {
	Name     string     `yaml:"name"`
	Size     [3]float32 `yaml:"size"`
	Position [3]float32 `yaml:"position"`
}

// Row describes the book row: the first book's centre, the gap between books and how many fit.
type Row struct {
	Start    [3]float32 `yaml:"start"`
	Gap      float32    `yaml:"gap"`
	Capacity int        `yaml:"capacity"`
}

// BookShape is the size of one book and the yaw applied to its mesh.
type BookShape struct {
	Size [3]float32 `yaml:"size"`
	Yaw  float32    `yaml:"yaw"`
}

// Definition is a bookshelf frame loaded from YAML (see default.yaml).
type Definition struct {
	Colour string    `yaml:"colour"`
	Parts  []Part    `yaml:"parts"`
	Row    Row       `yaml:"row"`
	Book   BookShape `yaml:"book"`
}

// Default returns the built-in frame.
func Default() Definition {
	d, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("frame: embedded default: %v", err))
	}
	return d
}

// Parse decodes and validates a YAML definition.
func Parse(data []byte) (Definition, error) {
	var d Definition
	if err := yaml.Unmarshal(data, &d); err != nil {
		return Definition{}, fmt.Errorf("frame: %w", err)
	}
	if err := d.Validate(); err != nil {
		return Definition{}, err
	}
	return d, nil
}

// Load reads a definition from path.
func Load(path string) (Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Definition{}, fmt.Errorf("frame: %w", err)
	}
	return Parse(data)
}

// Validate checks sizes and the row.
func (d Definition) Validate() error {
	if _, err := covercolor.ParseHex(d.Colour); err != nil {
		return fmt.Errorf("frame: %w", err)
	}
	for _, p := range d.Parts {
		if p.Size[0] <= 0 || p.Size[1] <= 0 || p.Size[2] <= 0 {
			return fmt.Errorf("frame: part %q has non-positive size", p.Name)
		}
	}
	if d.Row.Capacity <= 0 {
		return errors.New("frame: row capacity must be positive")
	}
	if d.Row.Gap < 0 {
		return errors.New("frame: row gap must not be negative")
	}
	if d.Book.Size[0] <= 0 || d.Book.Size[1] <= 0 || d.Book.Size[2] <= 0 {
		return errors.New("frame: book size must be positive")
	}
	return nil
}

// Build adds the frame as a group under parent and returns the group. Books are later
// attached to this group so they rotate with it.
func (d Definition) Build(g *scene.Graph, parent scene.NodeID) (scene.NodeID, error) {
	wood, err := covercolor.ParseHex(d.Colour)
	if err != nil {
		return 0, fmt.Errorf("frame: %w", err)
	}
	group := g.AddGroup(parent, "frame", geom.Identity)
	if group == 0 {
		return 0, fmt.Errorf("frame: parent node %d does not exist", parent)
	}
	for _, p := range d.Parts {
		local := geom.Transform{Position: vec(p.Position)}
		g.AddMesh(group, p.Name, local, scene.Box{Size: vec(p.Size), Colour: wood})
	}
	return group, nil
}

func vec(a [3]float32) geom.Vec3 {
	return geom.V3(a[0], a[1], a[2])
}
