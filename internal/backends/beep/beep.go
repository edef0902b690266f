package beep

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/vorbis"
	"github.com/faiface/beep/wav"
	"go.uber.org/zap"

	"github.com/famish99/tunedeck/internal/backends"
)

const (
	// SampleRate is the speaker output rate; sources are resampled to it
	SampleRate = beep.SampleRate(44100)

	resampleQuality = 4
	timeUpdateEvery = 250 * time.Millisecond
)

// ErrNoSource is reported when Play is called before SetSource
var ErrNoSource = errors.New("no source set")

// Resolver maps a source reference to a local file path
type Resolver interface {
	Resolve(ctx context.Context, ref string) (string, error)
}

type localResolver struct{}

func (localResolver) Resolve(_ context.Context, ref string) (string, error) {
	return ref, nil
}

var initSpeaker sync.Once

// Engine plays sources through the system audio device using beep
type Engine struct {
	logger   *zap.Logger
	resolver Resolver

	mu      sync.Mutex
	events  backends.Events
	source  string
	gen     uint64
	cancel  context.CancelFunc
	ready   bool
	playing bool
	drained bool // the chain reached its end and left the mixer
	pending []func(error)
	stop    chan struct{}

	stream beep.StreamSeekCloser
	format beep.Format
	ctrl   *beep.Ctrl
	gain   *effects.Volume
	level  float64
	muted  bool
}

// New opens the audio device. resolver may be nil when all sources are
// local files.
func New(logger *zap.Logger, resolver Resolver) (*Engine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if resolver == nil {
		resolver = localResolver{}
	}

	var err error
	initSpeaker.Do(func() {
		err = speaker.Init(SampleRate, SampleRate.N(time.Second/10))
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize speaker: %w", err)
	}

	return &Engine{
		logger:   logger,
		resolver: resolver,
		level:    1,
	}, nil
}

func (e *Engine) GetBackendName() string {
	return "beep"
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

// Load releases the current stream and decodes the source in the background
func (e *Engine) Load() {
	e.mu.Lock()
	e.teardownLocked()
	e.gen++
	gen := e.gen
	source := e.source
	ctx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel
	e.mu.Unlock()

	go e.load(ctx, gen, source)
}

func (e *Engine) load(ctx context.Context, gen uint64, source string) {
	e.emit(gen, func(ev backends.Events) { ev.LoadStart() })

	stream, format, err := e.open(ctx, source)

	e.mu.Lock()
	if gen != e.gen {
		e.mu.Unlock()
		if stream != nil {
			stream.Close()
		}
		return
	}
	if err != nil {
		pending := e.pending
		e.pending = nil
		e.mu.Unlock()

		e.logger.Warn("Load failed", zap.String("source", source), zap.Error(err))
		for _, done := range pending {
			done(err)
		}
		e.emit(gen, func(ev backends.Events) { ev.Error(err) })
		return
	}

	e.stream = stream
	e.format = format
	e.ready = true
	e.attachLocked()

	pending := e.pending
	e.pending = nil
	if len(pending) > 0 {
		e.startLocked()
	}
	e.mu.Unlock()

	e.logger.Debug("Source ready",
		zap.String("source", source),
		zap.Int("sample_rate", int(format.SampleRate)),
		zap.Int("channels", format.NumChannels))
	e.emit(gen, func(ev backends.Events) { ev.CanPlay() })
	for _, done := range pending {
		done(nil)
	}
}

func (e *Engine) open(ctx context.Context, source string) (beep.StreamSeekCloser, beep.Format, error) {
	if source == "" {
		return nil, beep.Format{}, ErrNoSource
	}

	path, err := e.resolver.Resolve(ctx, source)
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("failed to resolve %s: %w", source, err)
	}

	stream, format, err := decodeFile(path)
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("failed to decode %s: %w", source, err)
	}
	return stream, format, nil
}

// attachLocked builds the playback chain for the current stream and hands
// it to the speaker, paused
func (e *Engine) attachLocked() {
	gen := e.gen

	var s beep.Streamer = e.stream
	if e.format.SampleRate != SampleRate {
		s = beep.Resample(resampleQuality, e.format.SampleRate, SampleRate, s)
	}
	s = beep.Seq(s, beep.Callback(func() {
		// Runs on the speaker goroutine with the speaker locked
		go e.finish(gen)
	}))

	ctrl := &beep.Ctrl{Streamer: s, Paused: true}
	gain := &effects.Volume{Streamer: ctrl, Base: 2}
	applyGain(gain, e.level, e.muted)

	e.ctrl = ctrl
	e.gain = gain
	e.drained = false
	speaker.Play(gain)
}

// Play unpauses the stream. A play requested while loading completes once
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
		e.startLocked()
		go done(nil)
	}
}

func (e *Engine) startLocked() {
	if e.playing {
		return
	}
	if e.drained {
		speaker.Lock()
		if e.stream.Position() >= e.stream.Len() {
			e.stream.Seek(0)
		}
		speaker.Unlock()
		e.attachLocked()
	}

	speaker.Lock()
	e.ctrl.Paused = false
	speaker.Unlock()

	e.playing = true
	stop := make(chan struct{})
	e.stop = stop
	go e.tick(e.gen, stop)
}

// Pause silences the stream and cancels plays waiting for the source
func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pauseLocked()
	backends.Interrupt(e.pending, backends.ErrPaused)
	e.pending = nil
}

func (e *Engine) pauseLocked() {
	if e.ctrl != nil {
		speaker.Lock()
		e.ctrl.Paused = true
		speaker.Unlock()
	}
	if e.stop != nil {
		close(e.stop)
		e.stop = nil
	}
	e.playing = false
}

func (e *Engine) Position() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.ready {
		return 0
	}
	speaker.Lock()
	pos := e.stream.Position()
	speaker.Unlock()
	return e.format.SampleRate.D(pos).Seconds()
}

func (e *Engine) SetPosition(seconds float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.ready || math.IsNaN(seconds) {
		return
	}

	n := e.format.SampleRate.N(time.Duration(seconds * float64(time.Second)))
	speaker.Lock()
	if n >= e.stream.Len() {
		n = e.stream.Len() - 1
	}
	if n < 0 {
		n = 0
	}
	if err := e.stream.Seek(n); err != nil {
		e.logger.Warn("Seek failed", zap.Float64("seconds", seconds), zap.Error(err))
	}
	speaker.Unlock()
}

func (e *Engine) Duration() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.ready {
		return math.NaN()
	}
	return e.format.SampleRate.D(e.stream.Len()).Seconds()
}

func (e *Engine) SetVolume(level float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.level = level
	e.updateGainLocked()
}

func (e *Engine) SetMuted(muted bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.muted = muted
	e.updateGainLocked()
}

func (e *Engine) updateGainLocked() {
	if e.gain == nil {
		return
	}
	speaker.Lock()
	applyGain(e.gain, e.level, e.muted)
	speaker.Unlock()
}

func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.teardownLocked()
	e.gen++
	return nil
}

// teardownLocked stops playback and releases the stream
func (e *Engine) teardownLocked() {
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	e.pauseLocked()
	speaker.Clear()

	if e.stream != nil {
		if err := e.stream.Close(); err != nil {
			e.logger.Debug("Failed to close stream", zap.Error(err))
		}
	}
	e.stream = nil
	e.ctrl = nil
	e.gain = nil
	e.ready = false
	e.drained = false
	backends.Interrupt(e.pending, backends.ErrSourceChanged)
	e.pending = nil
}

// finish handles the chain reaching the end of the stream
func (e *Engine) finish(gen uint64) {
	e.mu.Lock()
	if gen != e.gen {
		e.mu.Unlock()
		return
	}
	e.drained = true
	e.pauseLocked()
	e.mu.Unlock()

	e.emit(gen, func(ev backends.Events) {
		ev.TimeUpdate()
		ev.Ended()
	})
}

func (e *Engine) tick(gen uint64, stop chan struct{}) {
	ticker := time.NewTicker(timeUpdateEvery)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			e.emit(gen, func(ev backends.Events) { ev.TimeUpdate() })
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

// applyGain maps a linear level in [0,1] onto the exponential volume effect
func applyGain(v *effects.Volume, level float64, muted bool) {
	v.Silent = muted || level <= 0
	if v.Silent {
		v.Volume = 0
		return
	}
	v.Volume = math.Log2(math.Min(level, 1))
}

// decodeFile opens path with the decoder matching its extension
func decodeFile(path string) (beep.StreamSeekCloser, beep.Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, err
	}

	var (
		stream beep.StreamSeekCloser
		format beep.Format
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".mp3":
		stream, format, err = mp3.Decode(f)
	case ".wav":
		stream, format, err = wav.Decode(f)
	case ".flac":
		stream, format, err = flac.Decode(f)
	case ".ogg", ".oga":
		stream, format, err = vorbis.Decode(f)
	default:
		err = fmt.Errorf("unsupported format %q", ext)
	}
	if err != nil {
		f.Close()
		return nil, beep.Format{}, err
	}
	return stream, format, nil
}
