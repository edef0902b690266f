package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"
	"github.com/rs/xid"
	"go.uber.org/zap"

	"github.com/famish99/tunedeck/internal/player"
	"github.com/famish99/tunedeck/internal/playlist"
)

const (
	websocketSubprotocol = "tunedeck_v1"
	wsReadBufferSize     = 1024
	wsWriteBufferSize    = 1024
	maxPlaylistBodySize  = 1 << 20
)

// Server serves the browser player: a websocket for intents and render
// frames plus a small REST API
type Server struct {
	logger   *zap.Logger
	hub      *Hub
	player   player.Dispatcher
	addr     string
	origins  []string
	upgrader websocket.Upgrader

	mu       sync.Mutex
	http     *http.Server
	listener net.Listener
}

// NewServer creates a web server. hub must be one of the controller's views.
// allowedOrigins applies to REST and websocket requests; empty allows any.
func NewServer(addr string, allowedOrigins []string, d player.Dispatcher, hub *Hub, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		logger:  logger,
		hub:     hub,
		player:  d,
		addr:    addr,
		origins: allowedOrigins,
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  wsReadBufferSize,
		WriteBufferSize: wsWriteBufferSize,
		Subprotocols:    []string{websocketSubprotocol},
		CheckOrigin:     s.checkOrigin,
	}
	return s
}

// Handler returns the routes wrapped with CORS handling
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter().StrictSlash(true)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/state", s.getState).Methods(http.MethodGet)
	api.HandleFunc("/playlist", s.getPlaylist).Methods(http.MethodGet)
	api.HandleFunc("/playlist", s.replacePlaylist).Methods(http.MethodPost)
	api.HandleFunc("/playlist", s.clearPlaylist).Methods(http.MethodDelete)
	r.HandleFunc("/ws", s.handleWS)

	c := cors.New(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
	})
	return c.Handler(r)
}

// Start listens on the configured address and serves in the background
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.http != nil {
		return fmt.Errorf("server already running")
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to start web server: %w", err)
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.http = srv
	s.listener = listener

	s.logger.Info("Web server listening", zap.String("addr", listener.Addr().String()))
	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Web server failed", zap.Error(err))
		}
	}()
	return nil
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

// Stop shuts the HTTP server down. Websocket clients are closed when the
// hub stops.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv := s.http
	s.http = nil
	s.listener = nil
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(s.origins) == 0 {
		return true
	}
	for _, allowed := range s.origins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("Websocket upgrade failed", zap.String("remote", r.RemoteAddr), zap.Error(err))
		return
	}

	client := NewClientConn(xid.New().String(), s.hub, s.player, conn, s.logger)
	if !s.hub.register(client) {
		conn.Close()
		return
	}
	s.logger.Info("Websocket client connected",
		zap.String("cid", client.ID),
		zap.String("remote", r.RemoteAddr))

	go client.handleSend()
	go client.handleRecv()
}

type errorResponse struct {
	OK     bool   `json:"ok"`
	Reason string `json:"reason"`
}

func respondWithJSON(m interface{}, statusCode int, w http.ResponseWriter) {
	payload, _ := json.Marshal(m)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write(payload)
}

func respondWithError(reason string, statusCode int, w http.ResponseWriter) {
	respondWithJSON(errorResponse{OK: false, Reason: reason}, statusCode, w)
}

// do runs fn on the player loop, answering 503 once the loop has stopped
func (s *Server) do(w http.ResponseWriter, fn func(c *player.Controller)) bool {
	if err := s.player.Do(fn); err != nil {
		respondWithError(err.Error(), http.StatusServiceUnavailable, w)
		return false
	}
	return true
}

func (s *Server) getState(w http.ResponseWriter, _ *http.Request) {
	var status player.Status
	if s.do(w, func(c *player.Controller) { status = c.Status() }) {
		respondWithJSON(status, http.StatusOK, w)
	}
}

func (s *Server) getPlaylist(w http.ResponseWriter, _ *http.Request) {
	var tracks []playlist.Track
	if s.do(w, func(c *player.Controller) { tracks = c.Playlist().GetAll() }) {
		respondWithJSON(tracks, http.StatusOK, w)
	}
}

func (s *Server) replacePlaylist(w http.ResponseWriter, r *http.Request) {
	var tracks []playlist.Track
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxPlaylistBodySize))
	if err := dec.Decode(&tracks); err != nil {
		respondWithError("invalid playlist: "+err.Error(), http.StatusBadRequest, w)
		return
	}

	var loadErr error
	if !s.do(w, func(c *player.Controller) { loadErr = c.Load(tracks) }) {
		return
	}
	if loadErr != nil {
		respondWithError(loadErr.Error(), http.StatusBadRequest, w)
		return
	}
	s.getPlaylist(w, r)
}

func (s *Server) clearPlaylist(w http.ResponseWriter, _ *http.Request) {
	if s.do(w, (*player.Controller).ClearQueue) {
		w.WriteHeader(http.StatusNoContent)
	}
}
