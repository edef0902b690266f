package web

import (
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/famish99/tunedeck/internal/player"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 4096
)

// ClientConn encapsulates an established client websocket connection
type ClientConn struct {
	ID        string
	conn      *websocket.Conn
	sendQueue chan *Message
	hub       *Hub
	player    player.Dispatcher
	logger    *zap.Logger
}

// NewClientConn creates a client websocket connection wrapper
func NewClientConn(id string, hub *Hub, d player.Dispatcher, conn *websocket.Conn, logger *zap.Logger) *ClientConn {
	return &ClientConn{
		ID:        id,
		conn:      conn,
		sendQueue: make(chan *Message, clientSendQueueSize),
		hub:       hub,
		player:    d,
		logger:    logger.With(zap.String("cid", id)),
	}
}

// the goroutine that runs this function reads from c.conn
func (c *ClientConn) handleRecv() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info("Unexpected websocket closure", zap.Error(err))
			}
			return
		}

		var msg Message
		if err := Deserialise(data, &msg); err != nil {
			c.logger.Debug("Invalid message", zap.ByteString("data", data), zap.Error(err))
			continue
		}
		msg.Sender = c.ID
		c.handleMessage(&msg)
	}
}

// the goroutine that runs this function writes to c.conn
func (c *ClientConn) handleSend() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.sendQueue:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if msg.Type == MessageTypePong {
				// compute the service time
				p := msg.Payload.(*PongMessage)
				p.SvcTime = time.Since(msg.ReceivedAt).Seconds()
			}
			b, err := msg.Serialise()
			if err != nil {
				c.logger.Warn("Failed to serialise frame", zap.String("type", string(msg.Type)), zap.Error(err))
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, b); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage applies a client intent. Intents are posted to the player
// loop; the resulting state comes back to every client as render frames.
func (c *ClientConn) handleMessage(m *Message) {
	switch m.Type {
	case MessageTypePing:
		p := m.Payload.(*PingMessage)
		// Replies go through the hub so they are ordered with frames
		c.hub.reply(c, &Message{
			ReceivedAt: m.ReceivedAt,
			Type:       MessageTypePong,
			Payload:    &PongMessage{Timestamp: p.Timestamp},
		})
		return
	}

	fn := intent(m)
	if fn == nil {
		c.logger.Debug("Ignored message", zap.String("type", string(m.Type)))
		return
	}
	c.player.Post(fn)
}

// intent maps a client message onto a controller operation
func intent(m *Message) func(c *player.Controller) {
	switch m.Type {
	case MessageTypeToggle:
		return (*player.Controller).TogglePlayPause
	case MessageTypePlay:
		return (*player.Controller).Play
	case MessageTypePause:
		return (*player.Controller).Pause
	case MessageTypeStop:
		return (*player.Controller).Stop
	case MessageTypeNext:
		return (*player.Controller).NextTrack
	case MessageTypePrevious:
		return (*player.Controller).PreviousTrack
	case MessageTypeRepeat:
		return (*player.Controller).ToggleRepeat
	case MessageTypeClear:
		return (*player.Controller).ClearQueue
	case MessageTypePointerUp:
		return (*player.Controller).PointerUp

	case MessageTypeSelect:
		p := m.Payload.(*SelectMessage)
		return func(c *player.Controller) {
			// Out-of-range clicks are ignored
			_ = c.SelectTrack(p.Index)
		}

	case MessageTypeSeek:
		p := m.Payload.(*PointerMessage)
		if p.Fraction != nil {
			return func(c *player.Controller) { c.SeekFraction(*p.Fraction) }
		}
		return func(c *player.Controller) { c.SeekTo(p.X, p.bounds()) }

	case MessageTypeSetVolume:
		p := m.Payload.(*PointerMessage)
		if p.Fraction != nil {
			return func(c *player.Controller) { c.SetVolume(*p.Fraction) }
		}
		return func(c *player.Controller) { c.SetVolumeAt(p.X, p.bounds()) }

	case MessageTypePointerDown:
		p := m.Payload.(*PointerMessage)
		target, err := player.ParseDragTarget(p.Target)
		if err != nil || target == player.DragNone {
			return nil
		}
		return func(c *player.Controller) { c.PointerDown(target, p.X, p.bounds()) }

	case MessageTypePointerMove:
		p := m.Payload.(*PointerMessage)
		return func(c *player.Controller) { c.PointerMove(p.X) }

	case MessageTypeKey:
		key := player.Key(m.Payload.(*KeyMessage).Key)
		return func(c *player.Controller) { c.HandleKey(key) }

	case MessageTypeMute:
		p := m.Payload.(*ToggleMessage)
		return func(c *player.Controller) {
			if p.Enabled == nil || *p.Enabled != c.State().Muted {
				c.ToggleMute()
			}
		}

	case MessageTypeShuffle:
		p := m.Payload.(*ToggleMessage)
		return func(c *player.Controller) {
			if p.Enabled == nil {
				c.ToggleShuffle()
			} else {
				c.SetShuffle(*p.Enabled)
			}
		}

	case MessageTypeAutoplay:
		p := m.Payload.(*ToggleMessage)
		return func(c *player.Controller) {
			if p.Enabled == nil {
				c.ToggleAutoplay()
			} else {
				c.SetAutoplay(*p.Enabled)
			}
		}
	}
	return nil
}
