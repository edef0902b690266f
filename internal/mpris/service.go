package mpris

import (
	"errors"
	"fmt"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
	"github.com/godbus/dbus/v5/prop"
	"go.uber.org/zap"

	"github.com/famish99/tunedeck/internal/player"
)

var errOpenURINotSupported = errors.New("OpenUri is not supported")

// Service exposes the player on the session bus as an MPRIS2 media player
type Service struct {
	logger   *zap.Logger
	player   player.Dispatcher
	view     *View
	identity string
	quit     func()

	mu      sync.Mutex
	conn    *dbus.Conn
	running bool
}

// Option configures a Service
type Option func(*Service)

// WithQuit enables the Quit method, which calls fn
func WithQuit(fn func()) Option {
	return func(s *Service) {
		s.quit = fn
	}
}

// NewService creates a service that publishes view and dispatches method
// calls through d. identity is the player name shown by desktop shells.
func NewService(identity string, d player.Dispatcher, view *View, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		logger:   logger,
		player:   d,
		view:     view,
		identity: identity,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BusName returns the well-known name requested on the session bus
func (s *Service) BusName() string {
	return busNamePrefix + s.identity
}

// Start connects to the session bus, exports the MPRIS objects and claims
// the bus name
func (s *Service) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}

	if err := s.export(conn); err != nil {
		s.view.detach()
		conn.Close()
		return err
	}

	reply, err := conn.RequestName(s.BusName(), dbus.NameFlagDoNotQueue)
	if err != nil {
		s.view.detach()
		conn.Close()
		return fmt.Errorf("failed to request bus name: %w", err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		s.view.detach()
		conn.Close()
		return fmt.Errorf("bus name %s already taken", s.BusName())
	}

	s.conn = conn
	s.running = true
	s.logger.Info("MPRIS service started", zap.String("bus_name", s.BusName()))
	return nil
}

// Stop releases the bus name and closes the connection
func (s *Service) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}
	s.running = false
	s.view.detach()

	err := s.conn.Close()
	s.conn = nil
	s.logger.Info("MPRIS service stopped")
	return err
}

func (s *Service) export(conn *dbus.Conn) error {
	root := &mediaPlayer{quit: s.quit}
	methods := &playerMethods{
		player: s.player,
		logger: s.logger,
		emit: func(name string, values ...any) error {
			return conn.Emit(objectPath, name, values...)
		},
	}

	if err := conn.Export(root, objectPath, rootIface); err != nil {
		return fmt.Errorf("failed to export %s: %w", rootIface, err)
	}
	if err := conn.Export(methods, objectPath, playerIface); err != nil {
		return fmt.Errorf("failed to export %s: %w", playerIface, err)
	}

	var props *prop.Properties
	err := s.view.attach(func(values map[string]any) (PropertySetter, error) {
		p, err := prop.Export(conn, objectPath, s.propMap(values, methods))
		if err != nil {
			return nil, err
		}
		props = p
		return p, nil
	})
	if err != nil {
		return fmt.Errorf("failed to export properties: %w", err)
	}

	node := &introspect.Node{
		Name: string(objectPath),
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			prop.IntrospectData,
			{
				Name:       rootIface,
				Methods:    introspect.Methods(root),
				Properties: props.Introspection(rootIface),
			},
			{
				Name:       playerIface,
				Methods:    introspect.Methods(methods),
				Properties: props.Introspection(playerIface),
				Signals: []introspect.Signal{{
					Name: "Seeked",
					Args: []introspect.Arg{{Name: "Position", Type: "x"}},
				}},
			},
		},
	}
	if err := conn.Export(introspect.NewIntrospectable(node), objectPath, "org.freedesktop.DBus.Introspectable"); err != nil {
		return fmt.Errorf("failed to export introspection: %w", err)
	}
	return nil
}

func (s *Service) propMap(values map[string]any, methods *playerMethods) prop.Map {
	constant := func(v any) *prop.Prop {
		return &prop.Prop{Value: v, Emit: prop.EmitConst}
	}

	return prop.Map{
		rootIface: {
			"CanQuit":             constant(s.quit != nil),
			"CanRaise":            constant(false),
			"HasTrackList":        constant(false),
			"Identity":            constant(s.identity),
			"SupportedUriSchemes": constant([]string{"file", "http", "https"}),
			"SupportedMimeTypes":  constant([]string{"audio/mpeg", "audio/flac", "audio/ogg", "audio/wav"}),
		},
		playerIface: {
			"PlaybackStatus": {Value: values["PlaybackStatus"], Emit: prop.EmitTrue},
			"LoopStatus": {
				Value:    values["LoopStatus"],
				Writable: true,
				Emit:     prop.EmitTrue,
				Callback: methods.setLoopStatus,
			},
			"Shuffle": {
				Value:    values["Shuffle"],
				Writable: true,
				Emit:     prop.EmitTrue,
				Callback: methods.setShuffle,
			},
			"Volume": {
				Value:    values["Volume"],
				Writable: true,
				Emit:     prop.EmitTrue,
				Callback: methods.setVolume,
			},
			"Metadata": {Value: values["Metadata"], Emit: prop.EmitTrue},
			"Position": {Value: values["Position"], Emit: prop.EmitFalse},

			"Rate":          constant(1.0),
			"MinimumRate":   constant(1.0),
			"MaximumRate":   constant(1.0),
			"CanGoNext":     constant(true),
			"CanGoPrevious": constant(true),
			"CanPlay":       constant(true),
			"CanPause":      constant(true),
			"CanSeek":       constant(true),
			"CanControl":    constant(true),
		},
	}
}

// mediaPlayer implements org.mpris.MediaPlayer2
type mediaPlayer struct {
	quit func()
}

func (m *mediaPlayer) Raise() *dbus.Error {
	return nil
}

func (m *mediaPlayer) Quit() *dbus.Error {
	if m.quit != nil {
		go m.quit()
	}
	return nil
}

// playerMethods implements org.mpris.MediaPlayer2.Player. Property
// callbacks run with the property table locked, so they only post.
type playerMethods struct {
	player player.Dispatcher
	logger *zap.Logger
	emit   func(name string, values ...any) error
}

func (p *playerMethods) Next() *dbus.Error {
	p.player.Post((*player.Controller).NextTrack)
	return nil
}

func (p *playerMethods) Previous() *dbus.Error {
	p.player.Post((*player.Controller).PreviousTrack)
	return nil
}

func (p *playerMethods) Pause() *dbus.Error {
	p.player.Post((*player.Controller).Pause)
	return nil
}

func (p *playerMethods) PlayPause() *dbus.Error {
	p.player.Post((*player.Controller).TogglePlayPause)
	return nil
}

func (p *playerMethods) Stop() *dbus.Error {
	p.player.Post((*player.Controller).Stop)
	return nil
}

func (p *playerMethods) Play() *dbus.Error {
	p.player.Post((*player.Controller).Play)
	return nil
}

// Seek moves the playhead by offset microseconds. Seeking past the end
// skips to the next track.
func (p *playerMethods) Seek(offset int64) *dbus.Error {
	var (
		pos   float64
		moved bool
	)
	err := p.player.Do(func(c *player.Controller) {
		st := c.Status()
		if !st.HasTrack() || st.Duration <= 0 {
			return
		}
		target := st.Position + seconds(offset)
		if target > st.Duration {
			c.NextTrack()
			return
		}
		c.SeekSeconds(target)
		pos = c.Status().Position
		moved = true
	})
	if err != nil {
		return dbus.MakeFailedError(err)
	}
	if moved {
		p.seeked(pos)
	}
	return nil
}

// SetPosition seeks to an absolute position in microseconds. Calls for a
// track other than the current one, or outside it, are ignored.
func (p *playerMethods) SetPosition(track dbus.ObjectPath, position int64) *dbus.Error {
	if position < 0 {
		return nil
	}

	var (
		pos   float64
		moved bool
	)
	err := p.player.Do(func(c *player.Controller) {
		st := c.Status()
		if !st.HasTrack() || trackID(st.CurrentIndex) != track {
			return
		}
		if seconds(position) > st.Duration {
			return
		}
		c.SeekSeconds(seconds(position))
		pos = c.Status().Position
		moved = true
	})
	if err != nil {
		return dbus.MakeFailedError(err)
	}
	if moved {
		p.seeked(pos)
	}
	return nil
}

func (p *playerMethods) OpenUri(uri string) *dbus.Error {
	p.logger.Debug("Rejected OpenUri", zap.String("uri", uri))
	return dbus.MakeFailedError(errOpenURINotSupported)
}

func (p *playerMethods) seeked(pos float64) {
	if err := p.emit(playerIface+".Seeked", microseconds(pos)); err != nil {
		p.logger.Warn("Failed to emit Seeked", zap.Error(err))
	}
}

func (p *playerMethods) setLoopStatus(change *prop.Change) *dbus.Error {
	value, _ := change.Value.(string)
	mode, err := parseLoopStatus(value)
	if err != nil {
		return dbus.MakeFailedError(err)
	}
	p.player.Post(func(c *player.Controller) { c.SetRepeat(mode) })
	return nil
}

func (p *playerMethods) setShuffle(change *prop.Change) *dbus.Error {
	enabled, ok := change.Value.(bool)
	if !ok {
		return prop.ErrInvalidArg
	}
	p.player.Post(func(c *player.Controller) { c.SetShuffle(enabled) })
	return nil
}

func (p *playerMethods) setVolume(change *prop.Change) *dbus.Error {
	level, ok := change.Value.(float64)
	if !ok {
		return prop.ErrInvalidArg
	}
	p.player.Post(func(c *player.Controller) { c.SetVolume(level) })
	return nil
}
