package shelf

import (
	"image/color"

	"bookshelf/internal/book"
	"bookshelf/internal/covercolor"
	"bookshelf/internal/geom"
	"bookshelf/internal/logger"
	"bookshelf/internal/metrics"
	"bookshelf/internal/scene"
)

// Row is the only shelf row books are placed on.
const Row = 0

// ColourSource supplies cover colours. Lookup answers from cache (or instantly);
// Request delivers a colour later, possibly on another goroutine.
type ColourSource interface {
	Lookup(url string) (color.RGBA, bool)
	Request(url string, done func(color.RGBA))
}

// Slot is a book placed on the shelf.
type Slot struct {
	ID         string
	Title      string
	ShelfIndex int
	Column     int       // position in the row, 0 is leftmost
	Position   geom.Vec3 // centre, relative to the frame group
	CoverURL   string
	Colour     color.RGBA
	Pending    bool         // colour still resolving; no mesh yet
	Node       scene.NodeID // slot group, 0 while pending
}

type slot struct {
	Slot
	nodes []scene.NodeID
}

// Result lists what one Reconcile call changed, by book ID.
type Result struct {
	Placed   []string // placed with a mesh
	Deferred []string // placed, mesh waits for its cover colour
	Removed  []string
	Rejected []string // not placed: row full
}

// Empty reports whether nothing changed.
func (r Result) Empty() bool {
	return len(r.Placed)+len(r.Deferred)+len(r.Removed)+len(r.Rejected) == 0
}

// Shelf keeps the slot table and the book meshes in the scene graph in step with a book list.
// It is owned by the frame goroutine; asynchronous colour completions are handed to the poster
// so they run there too.
type Shelf struct {
	graph   *scene.Graph
	parent  scene.NodeID
	layout  Layout
	colours ColourSource
	post    func(func())
	log     *logger.Logger
	metrics *metrics.Metrics

	slots  []*slot
	byID   map[string]*slot
	owners map[scene.NodeID]string
}

// Option configures a Shelf.
type Option func(*Shelf)

// WithLayout replaces the default slot geometry and capacity.
func WithLayout(l Layout) Option {
	return func(s *Shelf) { s.layout = l }
}

// WithLogger sets the logger; the default discards.
func WithLogger(l *logger.Logger) Option {
	return func(s *Shelf) { s.log = l }
}

// WithMetrics records placements and removals on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Shelf) { s.metrics = m }
}

// WithPoster sets how colour completions get back to the goroutine that owns the shelf.
// Without one they run on whatever goroutine delivers the colour.
func WithPoster(post func(func())) Option {
	return func(s *Shelf) { s.post = post }
}

// New returns an empty shelf attaching book meshes under parent (normally the frame group).
// A nil colour source uses a palette cache.
func New(g *scene.Graph, parent scene.NodeID, colours ColourSource, opts ...Option) *Shelf {
	if colours == nil {
		colours = covercolor.NewCache(nil)
	}
	s := &Shelf{
		graph:   g,
		parent:  parent,
		layout:  DefaultLayout(),
		colours: colours,
		byID:    make(map[string]*slot),
		owners:  make(map[scene.NodeID]string),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Reconcile makes the shelf show exactly the given books, as far as capacity allows.
// Books no longer listed are removed first, so their space can be reused by new books in the
// same call; new books are then placed in list order. A nil list means no books.
func (s *Shelf) Reconcile(books []book.Book) Result {
	var res Result
	listed := make(map[string]struct{}, len(books))
	for _, b := range books {
		listed[b.ID] = struct{}{}
	}

	for _, sl := range append([]*slot(nil), s.slots...) {
		if _, ok := listed[sl.ID]; !ok {
			s.remove(sl)
			res.Removed = append(res.Removed, sl.ID)
		}
	}

	for _, b := range books {
		if _, ok := s.byID[b.ID]; ok {
			continue
		}
		if s.rowCount(Row) >= s.layout.Capacity {
			res.Rejected = append(res.Rejected, b.ID)
			s.metrics.Rejected()
			s.log.Warn("shelf full, book not placed", "book", b.ID, "capacity", s.layout.Capacity)
			continue
		}
		if s.place(b) {
			res.Placed = append(res.Placed, b.ID)
		} else {
			res.Deferred = append(res.Deferred, b.ID)
		}
	}

	s.metrics.SetSlots(len(s.slots))
	return res
}

// place adds a slot for b and reports whether its mesh was created immediately.
func (s *Shelf) place(b book.Book) bool {
	col := s.rowCount(Row)
	sl := &slot{Slot: Slot{
		ID:         b.ID,
		Title:      b.Title,
		ShelfIndex: Row,
		Column:     col,
		Position:   s.layout.SlotPosition(col),
		CoverURL:   b.CoverURL,
	}}
	s.slots = append(s.slots, sl)
	s.byID[b.ID] = sl

	if c, ok := s.colours.Lookup(b.CoverURL); ok {
		s.attach(sl, c)
		s.metrics.Placed()
		s.log.Debug("book placed", "book", b.ID, "column", col, "colour", covercolor.Hex(c))
		return true
	}

	sl.Pending = true
	s.log.Debug("book placed, colour pending", "book", b.ID, "column", col)
	s.colours.Request(b.CoverURL, func(c color.RGBA) {
		done := func() { s.complete(sl, c) }
		if s.post != nil {
			s.post(done)
			return
		}
		done()
	})
	return false
}

// complete finishes a pending slot. A slot removed (or removed and re-added) meanwhile is left alone.
func (s *Shelf) complete(sl *slot, c color.RGBA) {
	if cur, ok := s.byID[sl.ID]; !ok || cur != sl || !sl.Pending {
		return
	}
	sl.Pending = false
	s.attach(sl, c)
	s.metrics.Placed()
	s.log.Debug("book mesh created", "book", sl.ID, "colour", covercolor.Hex(c))
}

// attach builds the slot's meshes: a group at the slot position holding the cover and a darker
// spine strip, rotated so the spine faces the camera.
func (s *Shelf) attach(sl *slot, c color.RGBA) {
	sl.Colour = c
	size := s.layout.BookSize
	group := s.graph.AddGroup(s.parent, "book:"+sl.ID, geom.Transform{Position: sl.Position})
	inner := s.graph.AddGroup(group, "book-mesh", geom.Transform{Yaw: s.layout.BookYaw})
	cover := s.graph.AddMesh(inner, "cover", geom.Identity, scene.Box{Size: size, Colour: c})
	spine := s.graph.AddMesh(inner, "spine",
		geom.Transform{Position: geom.V3(-(size.X+s.layout.Spine)/2, 0, 0)},
		scene.Box{Size: geom.V3(s.layout.Spine, size.Y, size.Z), Colour: covercolor.Spine(c)},
	)
	sl.Node = group
	sl.nodes = []scene.NodeID{group, inner, cover, spine}
	for _, n := range sl.nodes {
		s.owners[n] = sl.ID
	}
}

// remove deletes the slot and its meshes and packs the books to its right one step left.
func (s *Shelf) remove(sl *slot) {
	if sl.Node != 0 {
		s.graph.Remove(sl.Node)
	}
	for _, n := range sl.nodes {
		delete(s.owners, n)
	}
	for i, o := range s.slots {
		if o == sl {
			s.slots = append(s.slots[:i], s.slots[i+1:]...)
			break
		}
	}
	delete(s.byID, sl.ID)

	for _, o := range s.slots {
		if o.ShelfIndex != sl.ShelfIndex || o.Column <= sl.Column {
			continue
		}
		o.Column--
		o.Position.X -= s.layout.Step()
		if o.Node != 0 {
			s.graph.SetPosition(o.Node, o.Position)
		}
	}
	s.metrics.Removed()
	s.log.Debug("book removed", "book", sl.ID)
}

func (s *Shelf) rowCount(row int) int {
	n := 0
	for _, sl := range s.slots {
		if sl.ShelfIndex == row {
			n++
		}
	}
	return n
}

// Slots returns copies of the slots in placement order.
func (s *Shelf) Slots() []Slot {
	out := make([]Slot, len(s.slots))
	for i, sl := range s.slots {
		out[i] = sl.Slot
	}
	return out
}

// Slot returns a copy of the slot for a book ID.
func (s *Shelf) Slot(id string) (Slot, bool) {
	sl, ok := s.byID[id]
	if !ok {
		return Slot{}, false
	}
	return sl.Slot, true
}

// OwnerOf returns the book ID whose meshes include node.
func (s *Shelf) OwnerOf(node scene.NodeID) (string, bool) {
	id, ok := s.owners[node]
	return id, ok
}

// RowIndex returns the column of a book within its row.
func (s *Shelf) RowIndex(id string) (int, bool) {
	sl, ok := s.byID[id]
	if !ok {
		return 0, false
	}
	return sl.Column, true
}

// Full reports whether the row has no free column.
func (s *Shelf) Full() bool {
	return s.rowCount(Row) >= s.layout.Capacity
}

// Len returns the number of slots, pending ones included.
func (s *Shelf) Len() int {
	return len(s.slots)
}

// Layout returns the shelf's layout.
func (s *Shelf) Layout() Layout {
	return s.layout
}
