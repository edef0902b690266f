package player

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Loop runs posted functions one at a time, in order, on a single goroutine.
// The queue is unbounded so Post never blocks.
type Loop struct {
	logger *zap.Logger

	mu      sync.Mutex
	queue   []func()
	stopped bool

	wake chan struct{}
	done chan struct{}
}

// NewLoop creates a loop. Nothing runs until Run is called.
func NewLoop(logger *zap.Logger) *Loop {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loop{
		logger: logger,
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

// Post queues fn. Functions posted after the loop stopped are dropped.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Do queues fn and waits for it to run
func (l *Loop) Do(fn func()) error {
	ran := make(chan struct{})

	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return ErrLoopStopped
	}
	l.queue = append(l.queue, func() {
		defer close(ran)
		fn()
	})
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}

	select {
	case <-ran:
		return nil
	case <-l.done:
		// The loop may have run fn just before exiting
		select {
		case <-ran:
			return nil
		default:
			return ErrLoopStopped
		}
	}
}

// Run drains the queue until ctx is cancelled
func (l *Loop) Run(ctx context.Context) {
	defer func() {
		l.mu.Lock()
		l.stopped = true
		l.queue = nil
		l.mu.Unlock()
		close(l.done)
	}()

	for {
		for {
			fn := l.pop()
			if fn == nil {
				break
			}
			l.run(fn)
			if ctx.Err() != nil {
				return
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-l.wake:
		}
	}
}

// Done is closed once Run returns
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

func (l *Loop) pop() func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.queue) == 0 {
		return nil
	}
	fn := l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]
	return fn
}

func (l *Loop) run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("Recovered panic in player loop", zap.Any("panic", r))
		}
	}()
	fn()
}

// Dispatcher runs functions against a controller on its loop. Surfaces
// use Do for request/response commands and Post for fire-and-forget input.
type Dispatcher interface {
	Do(fn func(c *Controller)) error
	Post(fn func(c *Controller))
}

// LoopDispatcher binds a controller to the loop that owns it
type LoopDispatcher struct {
	loop       *Loop
	controller *Controller
}

// NewDispatcher creates a dispatcher for c, which must have been built
// with WithPoster(loop.Post)
func NewDispatcher(loop *Loop, c *Controller) *LoopDispatcher {
	return &LoopDispatcher{loop: loop, controller: c}
}

func (d *LoopDispatcher) Do(fn func(c *Controller)) error {
	return d.loop.Do(func() { fn(d.controller) })
}

func (d *LoopDispatcher) Post(fn func(c *Controller)) {
	d.loop.Post(func() { fn(d.controller) })
}
