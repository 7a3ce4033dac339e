package graphics

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"bookshelf/internal/geom"
	"bookshelf/internal/scene"
)

// Renderer draws scene graph boxes as lit unit cubes scaled to size. GPU resources are created in
// Load, after the window exists.
type Renderer struct {
	mesh   rl.Mesh
	mtl    rl.Material
	shader rl.Shader
	loaded bool
	lit    bool
}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// Load creates the cube mesh and material. Falls back to raylib's unlit default shader when the
// lit shader does not compile (e.g. no GLSL 330).
func (r *Renderer) Load() {
	if r.loaded {
		return
	}
	r.mesh = rl.GenMeshCube(1, 1, 1)
	r.mtl = rl.LoadMaterialDefault()
	r.shader = rl.LoadShaderFromMemory(litVS, litFS)
	if rl.IsShaderValid(r.shader) {
		r.mtl.Shader = r.shader
		r.lit = true
	}
	r.loaded = true
}

func (r *Renderer) Unload() {
	if !r.loaded {
		return
	}
	rl.UnloadMesh(&r.mesh)
	if r.lit {
		rl.UnloadShader(r.shader)
	}
	r.loaded, r.lit = false, false
}

// Camera3D converts a scene camera for raylib's 3D mode.
func Camera3D(c scene.Camera) rl.Camera3D {
	return rl.Camera3D{
		Position:   vec(c.Position),
		Target:     vec(c.Target),
		Up:         vec(c.Up),
		Fovy:       c.FovY,
		Projection: rl.CameraPerspective,
	}
}

// DrawGraph draws every mesh node of g with its world transform. Must be called between
// BeginMode3D and EndMode3D.
func (r *Renderer) DrawGraph(g *scene.Graph, cam scene.Camera) {
	if !r.loaded {
		return
	}
	if r.lit {
		r.setUniforms(cam.Position)
	}
	g.Walk(func(n *scene.Node, world geom.Transform) {
		r.drawBox(world, *n.Mesh)
	})
}

func (r *Renderer) drawBox(world geom.Transform, box scene.Box) {
	if albedo := r.mtl.GetMap(rl.MapAlbedo); albedo != nil {
		albedo.Color = rgba(box.Colour)
	}
	// Scale the unit cube, rotate about Y, then move into place.
	m := rl.MatrixMultiply(rl.MatrixScale(box.Size.X, box.Size.Y, box.Size.Z), rl.MatrixRotateY(world.Yaw))
	m = rl.MatrixMultiply(m, rl.MatrixTranslate(world.Position.X, world.Position.Y, world.Position.Z))
	rl.DrawMesh(r.mesh, r.mtl, m)
}

// setUniforms uploads per-frame lighting (cgo-safe: local arrays).
func (r *Renderer) setUniforms(viewPos geom.Vec3) {
	vp := viewPos.Array()
	ld := lightDir
	amb := ambient
	lc := lightColor
	if loc := rl.GetShaderLocation(r.shader, "viewPos"); loc >= 0 {
		rl.SetShaderValueV(r.shader, loc, vp[:], rl.ShaderUniformVec3, 1)
	}
	if loc := rl.GetShaderLocation(r.shader, "lightDir"); loc >= 0 {
		rl.SetShaderValueV(r.shader, loc, ld[:], rl.ShaderUniformVec3, 1)
	}
	if loc := rl.GetShaderLocation(r.shader, "ambient"); loc >= 0 {
		rl.SetShaderValueV(r.shader, loc, amb[:], rl.ShaderUniformVec4, 1)
	}
	if loc := rl.GetShaderLocation(r.shader, "lightColor"); loc >= 0 {
		rl.SetShaderValueV(r.shader, loc, lc[:], rl.ShaderUniformVec3, 1)
	}
	if loc := rl.GetShaderLocation(r.shader, "lightIntensity"); loc >= 0 {
		rl.SetShaderValue(r.shader, loc, []float32{lightIntensity}, rl.ShaderUniformFloat)
	}
	if loc := rl.GetShaderLocation(r.shader, "specularPower"); loc >= 0 {
		rl.SetShaderValue(r.shader, loc, []float32{specularPower}, rl.ShaderUniformFloat)
	}
	if loc := rl.GetShaderLocation(r.shader, "specularStrength"); loc >= 0 {
		rl.SetShaderValue(r.shader, loc, []float32{specularStrength}, rl.ShaderUniformFloat)
	}
}

func vec(v geom.Vec3) rl.Vector3 {
	return rl.NewVector3(v.X, v.Y, v.Z)
}

func rgba(c color.RGBA) rl.Color {
	return rl.NewColor(c.R, c.G, c.B, c.A)
}
