// Package headless reconciles a collection onto the shelf without a window and reports the
// resulting slot table and label positions.
package headless

import (
	"context"
	"time"

	"bookshelf/internal/book"
	"bookshelf/internal/collection"
	"bookshelf/internal/controller"
	"bookshelf/internal/covercolor"
	"bookshelf/internal/frame"
	"bookshelf/internal/logger"
	"bookshelf/internal/metrics"
	"bookshelf/internal/overlay"
	"bookshelf/internal/scene"
	"bookshelf/internal/shelf"
)

// tick is the frame interval used while waiting for cover colours.
const tick = 16 * time.Millisecond

// Report is the shelf state after Layout, ready to marshal as YAML.
type Report struct {
	Viewport Size     `yaml:"viewport"`
	Yaw      float32  `yaml:"yaw"`
	Slots    []Slot   `yaml:"slots"`
	Labels   []Label  `yaml:"labels"`
	Rejected []string `yaml:"rejected,omitempty"`
}

// Size is a viewport in pixels.
type Size struct {
	Width  float32 `yaml:"width"`
	Height float32 `yaml:"height"`
}

// Slot is one placed book; Position is relative to the frame group.
type Slot struct {
	ID       string     `yaml:"id"`
	Title    string     `yaml:"title"`
	Column   int        `yaml:"column"`
	Position [3]float32 `yaml:"position,flow"`
	Colour   string     `yaml:"colour"`
	Pending  bool       `yaml:"pending,omitempty"`
}

// Label is where a title is drawn on screen, in pixels.
type Label struct {
	ID    string  `yaml:"id"`
	Title string  `yaml:"title"`
	X     float32 `yaml:"x"`
	Y     float32 `yaml:"y"`
}

// Options configures Layout. Colours may be nil (default palette); Frame nil uses the built-in frame.
type Options struct {
	Viewport scene.Viewport
	Yaw      float32
	Frame    *frame.Definition
	Colours  shelf.ColourSource
	// Wait bounds how long Layout keeps running frames for covers still being sampled.
	Wait    time.Duration
	Logger  *logger.Logger
	Metrics *metrics.Metrics
}

// Layout places the books of store and reports the result. Slots still waiting for their colour
// after opts.Wait are reported as pending.
func Layout(ctx context.Context, store *collection.Store, opts Options) (*Report, error) {
	colours := opts.Colours
	if colours == nil {
		cache := covercolor.NewCache(nil, covercolor.WithMetrics(opts.Metrics))
		defer cache.Close()
		colours = cache
	}
	ctrl, err := controller.New(store, controller.Options{
		Viewport: opts.Viewport,
		Frame:    opts.Frame,
		Colours:  colours,
		Logger:   opts.Logger,
		Metrics:  opts.Metrics,
	})
	if err != nil {
		return nil, err
	}
	defer ctrl.Close()

	var rejected []string
	ctrl.OnShelfFull(func(bs []book.Book) {
		for _, b := range bs {
			rejected = append(rejected, b.ID)
		}
	})
	ctrl.Frame()
	if hasPending(ctrl.Shelf()) && opts.Wait > 0 {
		settle(ctx, ctrl, opts.Wait)
	}

	rep := &Report{
		Viewport: Size{Width: opts.Viewport.Width, Height: opts.Viewport.Height},
		Yaw:      opts.Yaw,
		Rejected: rejected,
	}
	for _, sl := range ctrl.Shelf().Slots() {
		rep.Slots = append(rep.Slots, Slot{
			ID:       sl.ID,
			Title:    sl.Title,
			Column:   sl.Column,
			Position: sl.Position.Array(),
			Colour:   covercolor.Hex(sl.Colour),
			Pending:  sl.Pending,
		})
	}
	for _, l := range overlay.New(ctrl.Camera()).Labels(ctrl.Shelf(), opts.Yaw, opts.Viewport) {
		rep.Labels = append(rep.Labels, Label{ID: l.ID, Title: l.Title, X: l.X, Y: l.Y})
	}
	return rep, nil
}

// settle runs frames on a ticker until no slot is waiting for its colour or timeout passes.
func settle(ctx context.Context, ctrl *controller.Controller, timeout time.Duration) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	settled := make(chan struct{})
	loop := ctrl.Start(ctx, ticker.C, func() {
		if !hasPending(ctrl.Shelf()) {
			select {
			case <-settled:
			default:
				close(settled)
			}
		}
	})
	select {
	case <-settled:
	case <-ctx.Done():
	}
	loop.Stop()
}

func hasPending(s *shelf.Shelf) bool {
	for _, sl := range s.Slots() {
		if sl.Pending {
			return true
		}
	}
	return false
}
