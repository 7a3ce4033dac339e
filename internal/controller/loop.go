package controller

import (
	"context"
	"sync"
	"time"
)

// Loop is a running frame loop started with Start.
type Loop struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Start runs Frame on every tick in a new goroutine, then present if it is non-nil. That goroutine
// becomes the frame goroutine; other goroutines reach the controller through Post.
// The loop ends when ctx is cancelled, ticks is closed or Stop is called.
func (c *Controller) Start(ctx context.Context, ticks <-chan time.Time, present func()) *Loop {
	ctx, cancel := context.WithCancel(ctx)
	l := &Loop{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(l.done)
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-ticks:
				if !ok {
					return
				}
				c.Frame()
				if present != nil {
					present()
				}
			}
		}
	}()
	return l
}

// Stop cancels the loop and waits for the current frame to finish. Safe to call more than once.
func (l *Loop) Stop() {
	l.once.Do(l.cancel)
	<-l.done
}

// Done is closed once the loop has exited.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}
