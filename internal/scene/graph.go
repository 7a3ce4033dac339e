package scene

import (
	"image/color"

	"bookshelf/internal/geom"
)

// NodeID identifies a node in a Graph. Zero is never a valid node.
type NodeID uint32

// Box is the only renderable geometry the shelf needs: an axis-aligned (in local space) cuboid.
type Box struct {
	Size   geom.Vec3
	Colour color.RGBA
}

// Node is a group (Mesh == nil) or a mesh. Parent is zero only for the root.
type Node struct {
	ID       NodeID
	Name     string
	Parent   NodeID
	Local    geom.Transform
	Mesh     *Box
	children []NodeID
}

// Children returns a copy of the node's child ids in insertion order.
func (n *Node) Children() []NodeID {
	out := make([]NodeID, len(n.children))
	copy(out, n.children)
	return out
}

// Graph is a retained scene graph. Nodes live in an id-keyed arena; parents hold child id lists
// and children hold their parent id, so both directions are O(1) lookups.
// A Graph is not safe for concurrent use: the frame goroutine owns it.
type Graph struct {
	nodes map[NodeID]*Node
	next  NodeID
	root  NodeID
}

// New returns a graph containing only the root group.
func New() *Graph {
	g := &Graph{nodes: make(map[NodeID]*Node)}
	g.root = g.alloc("root", 0, geom.Identity, nil)
	return g
}

func (g *Graph) alloc(name string, parent NodeID, local geom.Transform, mesh *Box) NodeID {
	g.next++
	id := g.next
	g.nodes[id] = &Node{ID: id, Name: name, Parent: parent, Local: local, Mesh: mesh}
	if p, ok := g.nodes[parent]; ok {
		p.children = append(p.children, id)
	}
	return id
}

// Root returns the root group. Its yaw is the whole scene's rotation.
func (g *Graph) Root() NodeID {
	return g.root
}

// AddGroup adds an empty group under parent. Returns 0 if parent does not exist.
func (g *Graph) AddGroup(parent NodeID, name string, local geom.Transform) NodeID {
	if _, ok := g.nodes[parent]; !ok {
		return 0
	}
	return g.alloc(name, parent, local, nil)
}

// AddMesh adds a box mesh under parent. Returns 0 if parent does not exist.
func (g *Graph) AddMesh(parent NodeID, name string, local geom.Transform, box Box) NodeID {
	if _, ok := g.nodes[parent]; !ok {
		return 0
	}
	b := box
	return g.alloc(name, parent, local, &b)
}

// Remove detaches id from its parent and releases it with its whole subtree.
// Removing the root or an unknown id is a no-op and returns false.
func (g *Graph) Remove(id NodeID) bool {
	n, ok := g.nodes[id]
	if !ok || id == g.root {
		return false
	}
	if p, ok := g.nodes[n.Parent]; ok {
		for i, c := range p.children {
			if c == id {
				p.children = append(p.children[:i], p.children[i+1:]...)
				break
			}
		}
	}
	g.release(id)
	return true
}

func (g *Graph) release(id NodeID) {
	n, ok := g.nodes[id]
	if !ok {
		return
	}
	for _, c := range n.children {
		g.release(c)
	}
	delete(g.nodes, id)
}

// Contains reports whether id is a live node.
func (g *Graph) Contains(id NodeID) bool {
	_, ok := g.nodes[id]
	return ok
}

// Node returns the node for id. The pointer stays owned by the graph; use the setters to mutate.
func (g *Graph) Node(id NodeID) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Len returns the number of live nodes, root included.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// SetPosition moves a node within its parent's space.
func (g *Graph) SetPosition(id NodeID, p geom.Vec3) {
	if n, ok := g.nodes[id]; ok {
		n.Local.Position = p
	}
}

// SetYaw sets a node's rotation about +Y in radians.
func (g *Graph) SetYaw(id NodeID, yaw float32) {
	if n, ok := g.nodes[id]; ok {
		n.Local.Yaw = yaw
	}
}

// World returns the node's transform relative to the scene (root transform included).
func (g *Graph) World(id NodeID) geom.Transform {
	n, ok := g.nodes[id]
	if !ok {
		return geom.Identity
	}
	if n.Parent == 0 {
		return n.Local
	}
	return g.World(n.Parent).Then(n.Local)
}

// Walk visits every mesh depth-first in insertion order with its world transform.
func (g *Graph) Walk(fn func(n *Node, world geom.Transform)) {
	g.walk(g.root, geom.Identity, fn)
}

func (g *Graph) walk(id NodeID, parent geom.Transform, fn func(n *Node, world geom.Transform)) {
	n, ok := g.nodes[id]
	if !ok {
		return
	}
	world := parent.Then(n.Local)
	if n.Mesh != nil {
		fn(n, world)
	}
	for _, c := range n.children {
		g.walk(c, world, fn)
	}
}

// Hit is the result of a successful Raycast.
type Hit struct {
	Node     NodeID
	Distance float32
	Point    geom.Vec3
}

// Raycast intersects ray (in scene space) with every mesh and returns the nearest hit.
func (g *Graph) Raycast(ray geom.Ray) (Hit, bool) {
	var best Hit
	found := false
	g.Walk(func(n *Node, world geom.Transform) {
		local := geom.Ray{
			Origin: world.InverseApply(ray.Origin),
			Dir:    world.InverseApplyDir(ray.Dir),
		}
		t, ok := geom.IntersectBox(local, n.Mesh.Size)
		if !ok {
			return
		}
		if !found || t < best.Distance {
			best = Hit{Node: n.ID, Distance: t, Point: ray.At(t)}
			found = true
		}
	})
	return best, found
}
