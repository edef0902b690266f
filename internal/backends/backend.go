package backends

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrPaused completes a play request that a later Pause overrode
	ErrPaused = errors.New("play interrupted by pause")

	// ErrSourceChanged completes a play request made for a source that a
	// new load replaced
	ErrSourceChanged = errors.New("play interrupted by source change")
)

// Events receives engine notifications. Implementations must not block;
// the player posts each notification onto its event loop.
type Events interface {
	LoadStart()      // Source load began
	CanPlay()        // Source is ready to play
	TimeUpdate()     // Playback position advanced
	Ended()          // Source played to its natural end
	Error(err error) // Source could not be loaded or played
}

// Engine defines the playback capability the player drives.
// The engine owns decoding and output; the player only issues requests.
//
//go:generate mockgen -destination=../player/mocks/engine_mock.go -package=mocks github.com/famish99/tunedeck/internal/backends Engine
type Engine interface {
	// Source handling. Load resets position and duration and is answered
	// by LoadStart followed by CanPlay or Error.
	SetSource(ref string)
	Load()

	// Playback control. Play completes asynchronously through done,
	// which may be called from any goroutine. Pause and Load complete
	// every play still waiting for readiness with ErrPaused or
	// ErrSourceChanged; the later request always wins.
	Play(done func(error))
	Pause()

	// Position is in seconds. Duration is NaN until the source is ready.
	Position() float64
	SetPosition(seconds float64)
	Duration() float64

	// Output level
	SetVolume(level float64) // 0.0 to 1.0
	SetMuted(muted bool)

	// Listen registers the notification sink
	Listen(events Events)

	Close() error
	GetBackendName() string
}

// BackendFactory creates a new engine instance
type BackendFactory func() (Engine, error)

// Registry maps engine names to factories
type Registry map[string]BackendFactory

// Create builds the named engine
func (r Registry) Create(name string) (Engine, error) {
	factory, ok := r[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown engine: %s", name)
	}
	engine, err := factory()
	if err != nil {
		return nil, fmt.Errorf("failed to create %s engine: %w", name, err)
	}
	return engine, nil
}

// Interrupt completes each pending play request with err on its own goroutine
func Interrupt(pending []func(error), err error) {
	for _, done := range pending {
		go done(err)
	}
}
