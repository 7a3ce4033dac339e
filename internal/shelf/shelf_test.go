package shelf

import (
	"image/color"
	"math"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookshelf/internal/book"
	"bookshelf/internal/covercolor"
	"bookshelf/internal/frame"
	"bookshelf/internal/geom"
	"bookshelf/internal/metrics"
	"bookshelf/internal/scene"
)

func books(ids ...string) []book.Book {
	out := make([]book.Book, len(ids))
	for i, id := range ids {
		out[i] = book.New(id, "Title "+id, nil, "https://covers.example/"+id+".jpg")
	}
	return out
}

func newShelf(t *testing.T, opts ...Option) (*Shelf, *scene.Graph) {
	t.Helper()
	g := scene.New()
	group, err := frame.Default().Build(g, g.Root())
	require.NoError(t, err)
	return New(g, group, covercolor.NewCache(nil), opts...), g
}

func xs(s *Shelf) map[string]float32 {
	out := map[string]float32{}
	for _, sl := range s.Slots() {
		out[sl.ID] = sl.Position.X
	}
	return out
}

func TestFourBookLayout(t *testing.T) {
	s, g := newShelf(t)
	res := s.Reconcile(books("a", "b", "c", "d"))
	assert.Equal(t, []string{"a", "b", "c", "d"}, res.Placed)
	assert.Empty(t, res.Rejected)

	want := map[string]float32{"a": -0.9, "b": -0.35, "c": 0.2, "d": 0.75}
	for id, x := range want {
		sl, ok := s.Slot(id)
		require.True(t, ok, id)
		assert.InDelta(t, x, sl.Position.X, 1e-5, id)
		assert.InDelta(t, 1.1, sl.Position.Y, 1e-6)
		assert.InDelta(t, -0.22, sl.Position.Z, 1e-6)
		assert.Equal(t, 0, sl.ShelfIndex)
		assert.False(t, sl.Pending)

		n, ok := g.Node(sl.Node)
		require.True(t, ok)
		assert.Equal(t, sl.Position, n.Local.Position)
	}
	assert.True(t, s.Full())
}

func TestReconcileIdempotent(t *testing.T) {
	s, g := newShelf(t)
	list := books("a", "b", "c")
	s.Reconcile(list)
	before := g.Len()
	slots := s.Slots()

	res := s.Reconcile(list)
	assert.True(t, res.Empty())
	assert.Equal(t, before, g.Len())
	assert.Equal(t, slots, s.Slots())
}

func TestCapacity(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	s, _ := newShelf(t, WithMetrics(m))

	res := s.Reconcile(books("a", "b", "c", "d", "e", "f"))
	assert.Equal(t, []string{"a", "b", "c", "d"}, res.Placed)
	assert.Equal(t, []string{"e", "f"}, res.Rejected)
	assert.Equal(t, 4, s.Len())
	assert.Equal(t, 2.0, testutil.ToFloat64(m.PlacementsRejected))

	// Rejected books stay unplaced on the next pass while the row is still full.
	res = s.Reconcile(books("a", "b", "c", "d", "e"))
	assert.Equal(t, []string{"e"}, res.Rejected)
	assert.Empty(t, res.Placed)
}

func TestRemovalFreesCapacityInSamePass(t *testing.T) {
	s, _ := newShelf(t)
	s.Reconcile(books("a", "b", "c", "d"))

	res := s.Reconcile(books("a", "c", "d", "e"))
	assert.Equal(t, []string{"b"}, res.Removed)
	assert.Equal(t, []string{"e"}, res.Placed)
	assert.Empty(t, res.Rejected)

	got := xs(s)
	assert.InDelta(t, -0.9, got["a"], 1e-5)
	assert.InDelta(t, -0.35, got["c"], 1e-5)
	assert.InDelta(t, 0.2, got["d"], 1e-5)
	assert.InDelta(t, 0.75, got["e"], 1e-5)
}

func TestRemoveMiddleRepacks(t *testing.T) {
	s, g := newShelf(t)
	s.Reconcile(books("a", "b", "c", "d"))
	bNode := mustSlot(t, s, "b").Node

	res := s.Reconcile(books("a", "c", "d"))
	assert.Equal(t, []string{"b"}, res.Removed)
	assert.False(t, g.Contains(bNode))

	for id, x := range map[string]float32{"a": -0.9, "c": -0.35, "d": 0.2} {
		sl := mustSlot(t, s, id)
		assert.InDelta(t, x, sl.Position.X, 1e-5, id)
		n, ok := g.Node(sl.Node)
		require.True(t, ok)
		assert.InDelta(t, x, n.Local.Position.X, 1e-5, id)
	}
	idx, ok := s.RowIndex("d")
	require.True(t, ok)
	assert.Equal(t, 2, idx)
}

func TestSeveralRemovalsRepackInOnePass(t *testing.T) {
	tests := map[string]struct {
		keep []string
		want map[string]float32
	}{
		"leftmost and middle": {[]string{"b", "d"}, map[string]float32{"b": -0.9, "d": -0.35}},
		"leftmost only":       {[]string{"b", "c", "d"}, map[string]float32{"b": -0.9, "c": -0.35, "d": 0.2}},
		"all but last":        {[]string{"d"}, map[string]float32{"d": -0.9}},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			s, g := newShelf(t)
			s.Reconcile(books("a", "b", "c", "d"))
			res := s.Reconcile(books(tc.keep...))
			assert.Len(t, res.Removed, 4-len(tc.keep))
			assert.Equal(t, tc.want, roundXs(s))

			for col, id := range tc.keep {
				sl := mustSlot(t, s, id)
				assert.Equal(t, col, sl.Column, id)
				n, ok := g.Node(sl.Node)
				require.True(t, ok)
				assert.InDelta(t, sl.Position.X, n.Local.Position.X, 1e-6, id)
			}
		})
	}
}

// roundXs keeps slot x positions comparable with map equality.
func roundXs(s *Shelf) map[string]float32 {
	out := xs(s)
	for id, x := range out {
		out[id] = float32(math.Round(float64(x)*100) / 100)
	}
	return out
}

func TestEmptyListRemovesAll(t *testing.T) {
	s, g := newShelf(t)
	s.Reconcile(books("a", "b"))
	res := s.Reconcile(nil)
	assert.ElementsMatch(t, []string{"a", "b"}, res.Removed)
	assert.Zero(t, s.Len())
	assert.Equal(t, 1+1+6, g.Len(), "root, frame group and six frame parts remain")
}

func TestDuplicateIDsInListPlacedOnce(t *testing.T) {
	s, _ := newShelf(t)
	list := append(books("a"), books("a")...)
	res := s.Reconcile(list)
	assert.Equal(t, []string{"a"}, res.Placed)
	assert.Equal(t, 1, s.Len())
}

func TestColourStableAcrossReAdd(t *testing.T) {
	s, g := newShelf(t)
	s.Reconcile(books("a"))
	first := mustSlot(t, s, "a").Colour

	s.Reconcile(nil)
	s.Reconcile(books("a"))
	sl := mustSlot(t, s, "a")
	assert.Equal(t, first, sl.Colour)

	// Spine is the cover colour darkened.
	var spine color.RGBA
	g.Walk(func(n *scene.Node, _ geom.Transform) {
		if n.Name == "spine" {
			spine = n.Mesh.Colour
		}
	})
	assert.Equal(t, covercolor.Spine(first), spine)
}

func TestOwnerOf(t *testing.T) {
	s, g := newShelf(t)
	s.Reconcile(books("a", "b"))

	owned := map[string]int{}
	g.Walk(func(n *scene.Node, _ geom.Transform) {
		if id, ok := s.OwnerOf(n.ID); ok {
			owned[id]++
		}
	})
	assert.Equal(t, map[string]int{"a": 2, "b": 2}, owned, "cover and spine meshes")

	_, ok := s.OwnerOf(g.Root())
	assert.False(t, ok)

	node := mustSlot(t, s, "a").Node
	s.Reconcile(books("b"))
	_, ok = s.OwnerOf(node)
	assert.False(t, ok)
}

func TestRaycastFindsBook(t *testing.T) {
	s, g := newShelf(t)
	s.Reconcile(books("a", "b"))
	b := mustSlot(t, s, "b")

	ray := geom.Ray{Origin: geom.V3(b.Position.X, b.Position.Y, 3), Dir: geom.V3(0, 0, -1)}
	hit, ok := g.Raycast(ray)
	require.True(t, ok)
	id, ok := s.OwnerOf(hit.Node)
	require.True(t, ok)
	assert.Equal(t, "b", id)
}

func TestLayoutFromFrame(t *testing.T) {
	assert.Equal(t, DefaultLayout(), LayoutFrom(frame.Default()))
}

// deferredColours never answers from cache; completions are run by the test.
type deferredColours struct {
	pending map[string][]func(color.RGBA)
}

func (d *deferredColours) Lookup(string) (color.RGBA, bool) { return color.RGBA{}, false }

func (d *deferredColours) Request(url string, done func(color.RGBA)) {
	if d.pending == nil {
		d.pending = map[string][]func(color.RGBA){}
	}
	d.pending[url] = append(d.pending[url], done)
}

func (d *deferredColours) finish(url string, c color.RGBA) {
	for _, fn := range d.pending[url] {
		fn(c)
	}
	delete(d.pending, url)
}

func TestPendingSlot(t *testing.T) {
	g := scene.New()
	src := &deferredColours{}
	var queue []func()
	s := New(g, g.Root(), src, WithPoster(func(fn func()) { queue = append(queue, fn) }))

	res := s.Reconcile(books("a", "b", "c", "d", "e"))
	assert.Equal(t, []string{"a", "b", "c", "d"}, res.Deferred)
	assert.Equal(t, []string{"e"}, res.Rejected, "pending slots reserve capacity")

	a := mustSlot(t, s, "a")
	assert.True(t, a.Pending)
	assert.Zero(t, a.Node)
	assert.Equal(t, 1, g.Len())

	want := color.RGBA{10, 20, 30, 255}
	src.finish("https://covers.example/a.jpg", want)
	require.Len(t, queue, 1)
	assert.True(t, mustSlot(t, s, "a").Pending, "completion waits for the frame queue")
	queue[0]()

	a = mustSlot(t, s, "a")
	assert.False(t, a.Pending)
	assert.Equal(t, want, a.Colour)
	assert.True(t, g.Contains(a.Node))
}

func TestPendingSlotRemovedBeforeCompletion(t *testing.T) {
	g := scene.New()
	src := &deferredColours{}
	s := New(g, g.Root(), src)

	s.Reconcile(books("a", "b"))
	res := s.Reconcile(books("b"))
	assert.Equal(t, []string{"a"}, res.Removed)
	assert.Equal(t, 0, mustSlot(t, s, "b").Column)

	src.finish("https://covers.example/a.jpg", color.RGBA{1, 1, 1, 255})
	_, ok := s.Slot("a")
	assert.False(t, ok)
	assert.Equal(t, 1, g.Len(), "no mesh for a removed slot")

	src.finish("https://covers.example/b.jpg", color.RGBA{2, 2, 2, 255})
	b := mustSlot(t, s, "b")
	assert.False(t, b.Pending)
	n, ok := g.Node(b.Node)
	require.True(t, ok)
	assert.InDelta(t, -0.9, n.Local.Position.X, 1e-5, "mesh created at the repacked position")
}

func mustSlot(t *testing.T, s *Shelf, id string) Slot {
	t.Helper()
	sl, ok := s.Slot(id)
	require.True(t, ok, id)
	return sl
}
