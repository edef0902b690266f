package console

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/famish99/tunedeck/internal/player"
)

// ErrNotTerminal is returned by Start when stdin is not a terminal
var ErrNotTerminal = errors.New("stdin is not a terminal")

// Host reads keyboard shortcuts from a raw-mode terminal and posts them to
// the player
type Host struct {
	logger *zap.Logger
	player player.Dispatcher
	quit   func()
	in     io.Reader
	fd     int

	mu       sync.Mutex
	oldState *term.State
	done     chan struct{}
}

// NewHost creates a host reading stdin. quit is called when q or Ctrl-C
// is pressed.
func NewHost(d player.Dispatcher, quit func(), logger *zap.Logger) *Host {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Host{
		logger: logger,
		player: d,
		quit:   quit,
		in:     os.Stdin,
		fd:     int(os.Stdin.Fd()),
	}
}

// Start puts the terminal in raw mode and begins reading keys
func (h *Host) Start() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.done != nil {
		return nil
	}
	if !term.IsTerminal(h.fd) {
		return ErrNotTerminal
	}

	state, err := term.MakeRaw(h.fd)
	if err != nil {
		return fmt.Errorf("failed to set raw mode: %w", err)
	}
	h.oldState = state
	h.done = make(chan struct{})

	go h.run(h.done)
	h.logger.Info("Keyboard shortcuts enabled",
		zap.String("keys", "space play/pause, arrows seek/volume, m mute, q quit"))
	return nil
}

// Stop restores the terminal. A read blocked on stdin is left behind and
// ends with the process.
func (h *Host) Stop() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.oldState == nil {
		return nil
	}
	err := term.Restore(h.fd, h.oldState)
	h.oldState = nil
	if err != nil {
		return fmt.Errorf("failed to restore terminal: %w", err)
	}
	return nil
}

func (h *Host) run(done chan struct{}) {
	defer close(done)

	buf := make([]byte, 64)
	var pending []byte
	for {
		n, err := h.in.Read(buf)
		if n > 0 {
			var events []Event
			events, pending = Decode(append(pending, buf[:n]...))
			h.dispatch(events)
		}
		if err != nil {
			if err != io.EOF {
				h.logger.Debug("Keyboard input closed", zap.Error(err))
			}
			return
		}
	}
}

func (h *Host) dispatch(events []Event) {
	for _, ev := range events {
		if ev.Quit {
			if h.quit != nil {
				go h.quit()
			}
			continue
		}
		key := ev.Key
		h.player.Post(func(c *player.Controller) { c.HandleKey(key) })
	}
}
