package mpd

import (
	"fmt"
	"net"
	"sync"

	"go.uber.org/zap"

	"github.com/famish99/tunedeck/internal/player"
)

// Server implements MPD protocol server
type Server struct {
	mu          sync.Mutex
	logger      *zap.Logger
	listener    net.Listener
	player      player.Dispatcher
	idle        *Idle
	addr        string
	outputName  string
	running     bool
	enabledTags map[string]bool // Track which tag types are enabled
	tagTypesMu  sync.RWMutex    // Protects enabledTags
}

// NewServer creates a new MPD protocol server. idle must be one of the
// controller's views so state changes wake idling clients.
func NewServer(addr string, d player.Dispatcher, idle *Idle, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	// Initialize with all tags enabled by default
	enabledTags := make(map[string]bool, len(metadataFields))
	for tag := range metadataFields {
		enabledTags[tag] = true
	}

	return &Server{
		logger:      logger,
		addr:        addr,
		player:      d,
		idle:        idle,
		outputName:  "tunedeck",
		enabledTags: enabledTags,
	}
}

// SetOutputName sets the name reported by the outputs command
func (s *Server) SetOutputName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outputName = name
}

// Addr returns the listening address once started
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Start starts the MPD server
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("server already running")
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to start MPD server: %w", err)
	}

	s.listener = listener
	s.running = true

	s.logger.Info("MPD server listening", zap.String("addr", listener.Addr().String()))

	go s.acceptLoop(listener)

	return nil
}

// Stop stops the MPD server. Idle clients are released; connections
// close once their client hangs up.
func (s *Server) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	err := s.listener.Close()
	s.mu.Unlock()

	s.idle.CancelAll()
	return err
}

// acceptLoop accepts incoming connections
func (s *Server) acceptLoop(listener net.Listener) {
	for {
		conn, err := listener.Accept()
		if err != nil {
			s.mu.Lock()
			running := s.running
			s.mu.Unlock()
			if !running {
				return
			}
			s.logger.Warn("Accept error", zap.Error(err))
			continue
		}

		go s.handleConnection(conn)
	}
}
