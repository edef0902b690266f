package null

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/famish99/tunedeck/internal/backends"
)

// ErrNoSource is reported when Play is called before SetSource
var ErrNoSource = errors.New("no source set")

// ProbeFunc returns the duration in seconds of a source
type ProbeFunc func(ref string) (float64, error)

// Engine is a silent engine driven by the wall clock. It behaves like a
// media element without producing sound, which makes the player usable
// on hosts without audio output.
type Engine struct {
	logger    *zap.Logger
	probe     ProbeFunc
	tick      time.Duration
	loadDelay time.Duration

	mu       sync.Mutex
	events   backends.Events
	source   string
	gen      uint64 // bumped on every load; stale goroutines compare and exit
	ready    bool
	playing  bool
	position float64
	duration float64
	volume   float64
	muted    bool
	pending  []func(error) // plays requested before the source was ready
	stop     chan struct{}
}

// Option configures an Engine
type Option func(*Engine)

// WithProbe sets how source durations are determined
func WithProbe(probe ProbeFunc) Option {
	return func(e *Engine) {
		e.probe = probe
	}
}

// WithTick sets the time update interval
func WithTick(tick time.Duration) Option {
	return func(e *Engine) {
		e.tick = tick
	}
}

// WithLoadDelay sets the simulated load time
func WithLoadDelay(delay time.Duration) Option {
	return func(e *Engine) {
		e.loadDelay = delay
	}
}

// FixedDuration is a probe reporting the same duration for every source
func FixedDuration(seconds float64) ProbeFunc {
	return func(string) (float64, error) {
		return seconds, nil
	}
}

// New creates a null engine
func New(logger *zap.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		logger:   logger,
		probe:    FixedDuration(180),
		tick:     250 * time.Millisecond,
		duration: math.NaN(),
		volume:   1,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) GetBackendName() string {
	return "null"
}

func (e *Engine) Listen(events backends.Events) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = events
}

func (e *Engine) SetSource(ref string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.source = ref
}

// Load resets the playhead and loads the current source in the background
func (e *Engine) Load() {
	e.mu.Lock()
	e.stopClockLocked()
	backends.Interrupt(e.pending, backends.ErrSourceChanged)
	e.pending = nil
	e.gen++
	gen := e.gen
	source := e.source
	e.ready = false
	e.position = 0
	e.duration = math.NaN()
	e.mu.Unlock()

	go e.load(gen, source)
}

func (e *Engine) load(gen uint64, source string) {
	e.emit(gen, func(ev backends.Events) { ev.LoadStart() })

	if e.loadDelay > 0 {
		time.Sleep(e.loadDelay)
	}

	duration, err := e.probe(source)
	if err == nil && !(duration > 0) {
		err = fmt.Errorf("invalid duration %v", duration)
	}

	e.mu.Lock()
	if gen != e.gen {
		e.mu.Unlock()
		return
	}
	if err != nil {
		pending := e.pending
		e.pending = nil
		e.mu.Unlock()

		err = fmt.Errorf("failed to load %s: %w", source, err)
		e.logger.Warn("Load failed", zap.String("source", source), zap.Error(err))
		for _, done := range pending {
			done(err)
		}
		e.emit(gen, func(ev backends.Events) { ev.Error(err) })
		return
	}

	e.duration = duration
	e.ready = true
	pending := e.pending
	e.pending = nil
	if len(pending) > 0 {
		e.startClockLocked()
	}
	e.mu.Unlock()

	e.logger.Debug("Source ready", zap.String("source", source), zap.Float64("duration", duration))
	e.emit(gen, func(ev backends.Events) { ev.CanPlay() })
	for _, done := range pending {
		done(nil)
	}
}

// Play starts the clock. A play requested while loading completes once
// the source is ready.
func (e *Engine) Play(done func(error)) {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch {
	case e.source == "":
		go done(ErrNoSource)
	case !e.ready:
		e.pending = append(e.pending, done)
	default:
		if knownDuration(e.duration) && e.position >= e.duration {
			e.position = 0
		}
		e.startClockLocked()
		go done(nil)
	}
}

// Pause stops the clock and cancels plays waiting for the source
func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopClockLocked()
	backends.Interrupt(e.pending, backends.ErrPaused)
	e.pending = nil
}

func (e *Engine) Position() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.position
}

func (e *Engine) SetPosition(seconds float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if math.IsNaN(seconds) || seconds < 0 {
		seconds = 0
	}
	if knownDuration(e.duration) && seconds > e.duration {
		seconds = e.duration
	}
	e.position = seconds
}

func (e *Engine) Duration() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.duration
}

func (e *Engine) SetVolume(level float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.volume = level
}

func (e *Engine) SetMuted(muted bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.muted = muted
}

// Volume returns the output level and mute flag
func (e *Engine) Volume() (float64, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.volume, e.muted
}

// Playing reports whether the clock is running
func (e *Engine) Playing() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.playing
}

func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopClockLocked()
	e.gen++
	e.pending = nil
	return nil
}

func (e *Engine) startClockLocked() {
	if e.playing {
		return
	}
	e.playing = true
	stop := make(chan struct{})
	e.stop = stop
	go e.run(e.gen, stop)
}

func (e *Engine) stopClockLocked() {
	if e.stop != nil {
		close(e.stop)
		e.stop = nil
	}
	e.playing = false
}

func (e *Engine) run(gen uint64, stop chan struct{}) {
	ticker := time.NewTicker(e.tick)
	defer ticker.Stop()
	last := time.Now()

	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			e.mu.Lock()
			if gen != e.gen || !e.playing {
				e.mu.Unlock()
				return
			}
			e.position += now.Sub(last).Seconds()
			last = now

			ended := knownDuration(e.duration) && e.position >= e.duration
			if ended {
				e.position = e.duration
				e.playing = false
				e.stop = nil
			}
			events := e.events
			e.mu.Unlock()

			if events != nil {
				events.TimeUpdate()
				if ended {
					events.Ended()
				}
			}
			if ended {
				return
			}
		}
	}
}

// emit delivers a notification unless a newer load superseded gen
func (e *Engine) emit(gen uint64, fn func(backends.Events)) {
	e.mu.Lock()
	events := e.events
	current := gen == e.gen
	e.mu.Unlock()

	if events != nil && current {
		fn(events)
	}
}

func knownDuration(d float64) bool {
	return !math.IsNaN(d) && !math.IsInf(d, 0) && d > 0
}
