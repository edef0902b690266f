package web

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/famish99/tunedeck/internal/player"
)

const (
	clientSendQueueSize = 64

	// maxPendingErrors bounds error frames waiting for Run; state frames
	// are coalesced by kind and need no bound
	maxPendingErrors = 16
)

// replayed frame kinds, in the order a new client receives them
var replayOrder = []MessageType{
	MessageTypePlaylist,
	MessageTypeHighlight,
	MessageTypeSong,
	MessageTypeProgress,
	MessageTypeVolume,
	MessageTypeTransport,
	MessageTypeModes,
}

type directMessage struct {
	client  *ClientConn
	message *Message
}

// Hub fans render frames out to connected clients. It is a player view;
// the latest frame of each kind is replayed to clients as they join.
type Hub struct {
	logger  *zap.Logger
	clients map[string]*ClientConn
	last    map[MessageType]*Message

	// frames published but not yet taken by Run, oldest first
	mu      sync.Mutex
	pending []*Message
	wake    chan struct{}

	direct    chan directMessage
	enqClient chan *ClientConn
	deqClient chan *ClientConn
	done      chan struct{}
}

var _ player.View = (*Hub)(nil)

// NewHub creates a hub; Run must be started before clients connect
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		logger:    logger,
		clients:   make(map[string]*ClientConn),
		last:      make(map[MessageType]*Message),
		wake:      make(chan struct{}, 1),
		direct:    make(chan directMessage),
		enqClient: make(chan *ClientConn),
		deqClient: make(chan *ClientConn),
		done:      make(chan struct{}),
	}
}

// Run manages clients until ctx is cancelled
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		for id, c := range h.clients {
			delete(h.clients, id)
			close(c.sendQueue)
		}
		close(h.done)
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case <-h.wake:
			for _, m := range h.take() {
				if m.Type != MessageTypeError {
					h.last[m.Type] = m
				}
				for _, c := range h.clients {
					h.deliver(c, m)
				}
			}

		case d := <-h.direct:
			if c, ok := h.clients[d.client.ID]; ok && c == d.client {
				h.deliver(c, d.message)
			}

		case c := <-h.enqClient:
			h.clients[c.ID] = c
			h.deliver(c, &Message{Type: MessageTypeHello, Payload: &HelloMessage{ClientID: c.ID}})
			for _, t := range replayOrder {
				if m, ok := h.last[t]; ok {
					h.deliver(c, m)
				}
			}
			h.logger.Debug("Client registered", zap.String("cid", c.ID), zap.Int("clients", len(h.clients)))

		case c := <-h.deqClient:
			if _c, ok := h.clients[c.ID]; ok && _c == c {
				delete(h.clients, c.ID)
				close(c.sendQueue)
				h.logger.Debug("Client deregistered", zap.String("cid", c.ID), zap.Int("clients", len(h.clients)))
			}
		}
	}
}

// Done is closed once Run returns
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

// deliver queues m for c, dropping c if it cannot keep up
func (h *Hub) deliver(c *ClientConn, m *Message) {
	select {
	case c.sendQueue <- m:
	default:
		h.logger.Warn("Client send queue full, disconnecting", zap.String("cid", c.ID))
		delete(h.clients, c.ID)
		close(c.sendQueue)
	}
}

func (h *Hub) register(c *ClientConn) bool {
	select {
	case h.enqClient <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) unregister(c *ClientConn) {
	select {
	case h.deqClient <- c:
	case <-h.done:
	}
}

// reply sends m to c alone
func (h *Hub) reply(c *ClientConn, m *Message) {
	select {
	case h.direct <- directMessage{client: c, message: m}:
	case <-h.done:
	}
}

// publish hands a frame to Run without blocking the player loop. A state
// frame replaces any older frame of its kind that Run has not taken yet.
func (h *Hub) publish(t MessageType, payload interface{}) {
	m := &Message{Type: t, Payload: payload}

	h.mu.Lock()
	if t == MessageTypeError {
		h.pending = append(h.pending, m)
		if h.pendingErrorsLocked() > maxPendingErrors {
			h.dropOldestErrorLocked()
			h.logger.Warn("Error frames backed up, dropping oldest")
		}
	} else {
		for i, p := range h.pending {
			if p.Type == t {
				h.pending = append(h.pending[:i], h.pending[i+1:]...)
				break
			}
		}
		h.pending = append(h.pending, m)
	}
	h.mu.Unlock()

	select {
	case h.wake <- struct{}{}:
	default:
	}
}

// take removes and returns every pending frame
func (h *Hub) take() []*Message {
	h.mu.Lock()
	defer h.mu.Unlock()
	frames := h.pending
	h.pending = nil
	return frames
}

func (h *Hub) pendingErrorsLocked() int {
	n := 0
	for _, p := range h.pending {
		if p.Type == MessageTypeError {
			n++
		}
	}
	return n
}

func (h *Hub) dropOldestErrorLocked() {
	for i, p := range h.pending {
		if p.Type == MessageTypeError {
			h.pending = append(h.pending[:i], h.pending[i+1:]...)
			return
		}
	}
}

func (h *Hub) RenderSong(info player.SongInfo) {
	h.publish(MessageTypeSong, info)
}

func (h *Hub) RenderProgress(progress player.Progress) {
	h.publish(MessageTypeProgress, progress)
}

func (h *Hub) RenderVolume(volume player.VolumeDisplay) {
	h.publish(MessageTypeVolume, volume)
}

func (h *Hub) RenderPlaylist(items []player.PlaylistItem) {
	h.publish(MessageTypePlaylist, items)
}

func (h *Hub) RenderHighlight(index int) {
	h.publish(MessageTypeHighlight, &HighlightMessage{Index: index})
}

func (h *Hub) RenderTransport(transport player.Transport) {
	h.publish(MessageTypeTransport, transport)
}

func (h *Hub) RenderModes(modes player.Modes) {
	h.publish(MessageTypeModes, modes)
}

func (h *Hub) RenderError(err error) {
	msg := &ErrorMessage{Message: err.Error(), Index: player.NoTrack}
	var perr *player.PlaybackError
	if errors.As(err, &perr) {
		msg.Index = perr.Index
		msg.Source = perr.Source
	}
	h.publish(MessageTypeError, msg)
}
