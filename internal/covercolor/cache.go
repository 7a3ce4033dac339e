package covercolor

import (
	"context"
	"image/color"
	"sync"

	"bookshelf/internal/logger"
	"bookshelf/internal/metrics"
)

// Resolver derives a cover colour from a cover image URL.
type Resolver interface {
	Resolve(ctx context.Context, url string) (color.RGBA, error)
}

// instant is implemented by resolvers that answer without I/O; the cache resolves those inline.
type instant interface {
	Instant() bool
}

const defaultWorkers = 4

// Cache memoizes cover colours by URL. Once a URL has a colour it never changes for the
// life of the cache; failed derivations are cached as Fallback so retries stay stable.
// Slow resolvers run on a bounded set of goroutines and concurrent requests for one URL share
// a single resolution.
type Cache struct {
	resolver Resolver
	instant  bool
	log      *logger.Logger
	metrics  *metrics.Metrics

	mu      sync.Mutex
	entries map[string]color.RGBA
	waiting map[string][]func(color.RGBA)

	ctx    context.Context
	cancel context.CancelFunc
	sem    chan struct{}
	wg     sync.WaitGroup
}

// Option configures a Cache.
type Option func(*Cache)

// WithLogger sets the logger used for failed samples.
func WithLogger(l *logger.Logger) Option {
	return func(c *Cache) { c.log = l }
}

// WithMetrics counts resolutions by outcome.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Cache) { c.metrics = m }
}

// WithWorkers bounds concurrent slow resolutions.
func WithWorkers(n int) Option {
	return func(c *Cache) {
		if n > 0 {
			c.sem = make(chan struct{}, n)
		}
	}
}

// NewCache wraps r. A nil resolver uses the default palette.
func NewCache(r Resolver, opts ...Option) *Cache {
	if r == nil {
		p, _ := NewPalette(nil)
		r = p
	}
	ctx, cancel := context.WithCancel(context.Background())
	c := &Cache{
		resolver: r,
		entries:  make(map[string]color.RGBA),
		waiting:  make(map[string][]func(color.RGBA)),
		ctx:      ctx,
		cancel:   cancel,
		sem:      make(chan struct{}, defaultWorkers),
	}
	if in, ok := r.(instant); ok {
		c.instant = in.Instant()
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Lookup returns the colour for url if it is cached or can be derived without blocking.
// An empty URL always resolves to Fallback.
func (c *Cache) Lookup(url string) (color.RGBA, bool) {
	if url == "" {
		return Fallback, true
	}
	c.mu.Lock()
	col, ok := c.entries[url]
	c.mu.Unlock()
	if ok {
		c.metrics.Colour("hit")
		return col, true
	}
	if !c.instant {
		return color.RGBA{}, false
	}
	return c.resolve(c.ctx, url), true
}

// Request delivers the colour for url to done. A cached colour is delivered before Request
// returns; otherwise done runs later on a worker goroutine.
func (c *Cache) Request(url string, done func(color.RGBA)) {
	if col, ok := c.Lookup(url); ok {
		done(col)
		return
	}
	c.mu.Lock()
	if col, ok := c.entries[url]; ok {
		c.mu.Unlock()
		done(col)
		return
	}
	first := len(c.waiting[url]) == 0
	c.waiting[url] = append(c.waiting[url], done)
	c.mu.Unlock()
	if !first {
		return
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		select {
		case c.sem <- struct{}{}:
			defer func() { <-c.sem }()
		case <-c.ctx.Done():
		}
		col := c.resolve(c.ctx, url)
		c.mu.Lock()
		waiters := c.waiting[url]
		delete(c.waiting, url)
		c.mu.Unlock()
		for _, fn := range waiters {
			fn(col)
		}
	}()
}

// Resolve returns the colour for url, blocking on the resolver if needed.
func (c *Cache) Resolve(ctx context.Context, url string) color.RGBA {
	if col, ok := c.Lookup(url); ok {
		return col
	}
	return c.resolve(ctx, url)
}

// resolve runs the resolver and stores the result. If another caller stored a colour first,
// that colour wins so a URL never changes colour.
func (c *Cache) resolve(ctx context.Context, url string) color.RGBA {
	col, err := c.resolver.Resolve(ctx, url)
	outcome := "sampled"
	if c.instant {
		outcome = "palette"
	}
	if err != nil {
		c.log.Warn("cover colour fallback", "url", url, "error", err)
		col, outcome = Fallback, "fallback"
	}
	c.mu.Lock()
	if prev, ok := c.entries[url]; ok {
		c.mu.Unlock()
		return prev
	}
	c.entries[url] = col
	c.mu.Unlock()
	c.metrics.Colour(outcome)
	return col
}

// Len returns the number of cached URLs.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Close cancels in-flight resolutions and waits for their workers.
// Waiters of cancelled resolutions still receive a colour (usually Fallback).
func (c *Cache) Close() {
	c.cancel()
	c.wg.Wait()
}
