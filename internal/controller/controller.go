package controller

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chewxy/math32"

	"bookshelf/internal/book"
	"bookshelf/internal/collection"
	"bookshelf/internal/frame"
	"bookshelf/internal/geom"
	"bookshelf/internal/logger"
	"bookshelf/internal/metrics"
	"bookshelf/internal/overlay"
	"bookshelf/internal/scene"
	"bookshelf/internal/shelf"
)

// Interaction tuning.
const (
	DragSensitivity = 0.005 // radians per pixel of horizontal drag
	MaxRotation     = 0.52  // about 30 degrees either way
	Damping         = 0.1   // fraction of the remaining rotation applied per frame
	SettleEpsilon   = 0.001
	TapSlop         = 6 // pixels a press may travel and still count as a tap
)

// Options configures New. Zero values take the defaults.
type Options struct {
	Camera   *scene.Camera
	Viewport scene.Viewport
	Frame    *frame.Definition
	Colours  shelf.ColourSource
	Logger   *logger.Logger
	Metrics  *metrics.Metrics
}

// Controller owns the scene graph and shelf, keeps them in step with a collection store and turns
// pointer input into rotation and selection.
//
// Frame, the pointer methods, Tap, Resize and Labels must be called from one goroutine (the frame
// goroutine). Other goroutines hand work over with Post.
type Controller struct {
	store     *collection.Store
	graph     *scene.Graph
	frameNode scene.NodeID
	shelf     *shelf.Shelf
	projector *overlay.Projector
	camera    scene.Camera
	viewport  scene.Viewport
	log       *logger.Logger
	metrics   *metrics.Metrics

	dragging       bool
	anchorX        float32
	pressX, pressY float32
	travel         float32
	target         float32
	current        float32

	mu    sync.Mutex
	queue []func()
	// dirty is set by store notifications; drain reads the store itself so an
	// out-of-order notification can never apply an older list.
	dirty bool

	onSelect    func(book.Book)
	onShelfFull func([]book.Book)
	unsubscribe func()
}

// New builds the scene with the bookshelf frame and subscribes to store. Books are placed from the
// first Frame on.
func New(store *collection.Store, opts Options) (*Controller, error) {
	if store == nil {
		return nil, errors.New("controller: nil store")
	}
	cam := scene.DefaultCamera()
	if opts.Camera != nil {
		cam = *opts.Camera
	}
	def := frame.Default()
	if opts.Frame != nil {
		def = *opts.Frame
	}

	c := &Controller{
		store:     store,
		graph:     scene.New(),
		camera:    cam,
		viewport:  opts.Viewport,
		projector: overlay.New(cam),
		log:       opts.Logger,
		metrics:   opts.Metrics,
	}
	node, err := def.Build(c.graph, c.graph.Root())
	if err != nil {
		return nil, fmt.Errorf("controller: %w", err)
	}
	c.frameNode = node
	c.shelf = shelf.New(c.graph, node, opts.Colours,
		shelf.WithLayout(shelf.LayoutFrom(def)),
		shelf.WithPoster(c.Post),
		shelf.WithLogger(c.log),
		shelf.WithMetrics(c.metrics),
	)

	c.unsubscribe = store.Subscribe(func([]book.Book) {
		c.mu.Lock()
		c.dirty = true
		c.mu.Unlock()
	})
	// The initial load is applied on the first Frame, after the host has installed its handlers.
	c.dirty = true
	return c, nil
}

// Post queues fn to run at the start of the next Frame. Safe from any goroutine.
func (c *Controller) Post(fn func()) {
	c.mu.Lock()
	c.queue = append(c.queue, fn)
	c.mu.Unlock()
}

// Frame runs one frame step: pending store changes and queued work, then rotation easing.
func (c *Controller) Frame() {
	start := time.Now()
	c.drain()

	diff := c.target - c.current
	if math32.Abs(diff) > SettleEpsilon {
		c.current += diff * Damping
		c.graph.SetYaw(c.graph.Root(), c.current)
	}
	c.metrics.ObserveFrame(time.Since(start))
}

func (c *Controller) drain() {
	c.mu.Lock()
	dirty := c.dirty
	c.dirty = false
	queue := c.queue
	c.queue = nil
	c.mu.Unlock()

	if dirty {
		c.reconcile(c.store.Books())
	}
	for _, fn := range queue {
		fn()
	}
}

func (c *Controller) reconcile(books []book.Book) {
	res := c.shelf.Reconcile(books)
	if res.Empty() {
		return
	}
	c.log.Info("shelf reconciled",
		"placed", len(res.Placed), "deferred", len(res.Deferred),
		"removed", len(res.Removed), "rejected", len(res.Rejected))
	if len(res.Rejected) == 0 || c.onShelfFull == nil {
		return
	}
	rejected := make([]book.Book, 0, len(res.Rejected))
	for _, id := range res.Rejected {
		for _, b := range books {
			if b.ID == id {
				rejected = append(rejected, b)
				break
			}
		}
	}
	c.onShelfFull(rejected)
}

// PointerDown starts a drag at (x, y).
func (c *Controller) PointerDown(x, y float32) {
	c.dragging = true
	c.anchorX = x
	c.pressX, c.pressY = x, y
	c.travel = 0
}

// PointerMove rotates the target by the horizontal movement since the last event.
func (c *Controller) PointerMove(x, y float32) {
	if !c.dragging {
		return
	}
	delta := x - c.anchorX
	c.target = geom.Clamp(c.target+delta*DragSensitivity, -MaxRotation, MaxRotation)
	c.anchorX = x
	c.travel = max(c.travel, distance(c.pressX, c.pressY, x, y))
}

// PointerUp ends a drag and lets the shelf spring back to facing the camera. A press that never
// travelled further than TapSlop is treated as a tap at (x, y).
func (c *Controller) PointerUp(x, y float32) {
	if !c.dragging {
		return
	}
	c.dragging = false
	c.target = 0
	if max(c.travel, distance(c.pressX, c.pressY, x, y)) <= TapSlop {
		c.Tap(x, y)
	}
}

// CancelDrag ends a drag without a tap, e.g. when the console takes over input.
func (c *Controller) CancelDrag() {
	if c.dragging {
		c.dragging = false
		c.target = 0
	}
}

func distance(x0, y0, x1, y1 float32) float32 {
	return math32.Hypot(x1-x0, y1-y0)
}

// Tap selects the book under pixel (x, y), if any, and reports whether one was selected.
// Taps are ignored while dragging.
func (c *Controller) Tap(x, y float32) bool {
	if c.dragging {
		return false
	}
	ray := c.camera.Ray(c.viewport.ToNDC(x, y), c.viewport.Aspect())
	hit, ok := c.graph.Raycast(ray)
	if !ok {
		return false
	}
	id, ok := c.shelf.OwnerOf(hit.Node)
	if !ok {
		return false
	}
	b, ok := c.store.Book(id)
	if !ok {
		return false
	}
	c.metrics.Selected()
	c.log.Debug("book selected", "book", id)
	if c.onSelect != nil {
		c.onSelect(b)
	}
	return true
}

// Resize sets the viewport size in pixels.
func (c *Controller) Resize(width, height float32) {
	c.viewport = scene.Viewport{Width: width, Height: height}
}

// Labels returns title labels for the current rotation and viewport.
func (c *Controller) Labels() []overlay.Label {
	return c.projector.Labels(c.shelf, c.current, c.viewport)
}

// OnSelect sets the handler called with the tapped book.
func (c *Controller) OnSelect(fn func(book.Book)) {
	c.onSelect = fn
}

// OnShelfFull sets the handler called with books that did not fit on the shelf.
func (c *Controller) OnShelfFull(fn func([]book.Book)) {
	c.onShelfFull = fn
}

// Rotation returns the current and target scene yaw in radians.
func (c *Controller) Rotation() (current, target float32) {
	return c.current, c.target
}

// Dragging reports whether a drag is in progress.
func (c *Controller) Dragging() bool {
	return c.dragging
}

// Graph is the scene the host draws. Only touch it from the frame goroutine.
func (c *Controller) Graph() *scene.Graph {
	return c.graph
}

// Shelf exposes the slot table, for labels and reports.
func (c *Controller) Shelf() *shelf.Shelf {
	return c.shelf
}

// Camera returns the fixed scene camera.
func (c *Controller) Camera() scene.Camera {
	return c.camera
}

// Viewport returns the size last set by Resize.
func (c *Controller) Viewport() scene.Viewport {
	return c.viewport
}

// Close stops listening to the store.
func (c *Controller) Close() {
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
}
