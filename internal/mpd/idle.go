package mpd

import (
	"sync"

	"go.uber.org/zap"

	"github.com/famish99/tunedeck/internal/player"
)

// MPD idle subsystems raised by the player
const (
	SubsystemPlayer   = "player"
	SubsystemPlaylist = "playlist"
	SubsystemMixer    = "mixer"
	SubsystemOptions  = "options"
)

// idleConnection represents a connection waiting in idle mode
type idleConnection struct {
	subsystems map[string]bool // Subsystems to watch (empty = all)
	notify     chan string     // Channel to send subsystem changes
	cancel     chan struct{}   // Channel to cancel idle wait
	once       sync.Once
}

func newIdleConnection(subsystems map[string]bool) *idleConnection {
	return &idleConnection{
		subsystems: subsystems,
		notify:     make(chan string, 10),
		cancel:     make(chan struct{}),
	}
}

func (ic *idleConnection) stop() {
	ic.once.Do(func() { close(ic.cancel) })
}

// Idle tracks connections waiting in idle mode. It is a player view:
// render calls are translated into subsystem change notifications.
type Idle struct {
	logger *zap.Logger
	mu     sync.RWMutex
	conns  map[*idleConnection]bool
}

var _ player.View = (*Idle)(nil)

// NewIdle creates an empty idle registry
func NewIdle(logger *zap.Logger) *Idle {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Idle{
		logger: logger,
		conns:  make(map[*idleConnection]bool),
	}
}

// register registers an idle connection to receive notifications
func (i *Idle) register(idle *idleConnection) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.conns[idle] = true
	i.logger.Debug("Registered idle connection", zap.Int("total", len(i.conns)))
}

// unregister removes an idle connection from notifications
func (i *Idle) unregister(idle *idleConnection) {
	i.mu.Lock()
	defer i.mu.Unlock()
	delete(i.conns, idle)
	i.logger.Debug("Unregistered idle connection", zap.Int("total", len(i.conns)))
}

// CancelAll wakes every idling connection without a change
func (i *Idle) CancelAll() {
	i.mu.RLock()
	defer i.mu.RUnlock()
	for idle := range i.conns {
		idle.stop()
	}
}

// NotifySubsystemChange notifies all idle connections about a subsystem change
func (i *Idle) NotifySubsystemChange(subsystem string) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	for idle := range i.conns {
		// Check if this connection is watching this subsystem
		if len(idle.subsystems) == 0 || idle.subsystems[subsystem] {
			// Send notification (non-blocking)
			select {
			case idle.notify <- subsystem:
			default:
				i.logger.Warn("Idle notification channel full", zap.String("subsystem", subsystem))
			}
		}
	}
}

// Progress ticks are not a subsystem change; clients poll status for elapsed time.
func (i *Idle) RenderProgress(player.Progress) {}

func (i *Idle) RenderSong(player.SongInfo)           { i.NotifySubsystemChange(SubsystemPlayer) }
func (i *Idle) RenderHighlight(int)                  { i.NotifySubsystemChange(SubsystemPlayer) }
func (i *Idle) RenderTransport(player.Transport)     { i.NotifySubsystemChange(SubsystemPlayer) }
func (i *Idle) RenderError(error)                    { i.NotifySubsystemChange(SubsystemPlayer) }
func (i *Idle) RenderPlaylist([]player.PlaylistItem) { i.NotifySubsystemChange(SubsystemPlaylist) }
func (i *Idle) RenderVolume(player.VolumeDisplay)    { i.NotifySubsystemChange(SubsystemMixer) }
func (i *Idle) RenderModes(player.Modes)             { i.NotifySubsystemChange(SubsystemOptions) }
