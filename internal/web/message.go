package web

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/famish99/tunedeck/internal/player"
)

// Message defines the websocket message format
type Message struct {
	Sender     string      `json:"-"`
	ReceivedAt time.Time   `json:"-"`
	Type       MessageType `json:"type"`
	Payload    interface{} `json:"payload,omitempty"`
}

type receivedMessage struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// MessageType names a frame (server to client) or an intent (client to server)
type MessageType string

// Frames
const (
	MessageTypeHello     MessageType = "hello"
	MessageTypePong      MessageType = "pong"
	MessageTypeSong      MessageType = "song"
	MessageTypeProgress  MessageType = "progress"
	MessageTypeVolume    MessageType = "volume"
	MessageTypePlaylist  MessageType = "playlist"
	MessageTypeHighlight MessageType = "highlight"
	MessageTypeTransport MessageType = "transport"
	MessageTypeModes     MessageType = "modes"
	MessageTypeError     MessageType = "error"
)

// Intents
const (
	MessageTypePing        MessageType = "ping"
	MessageTypeToggle      MessageType = "toggle"
	MessageTypePlay        MessageType = "play"
	MessageTypePause       MessageType = "pause"
	MessageTypeStop        MessageType = "stop"
	MessageTypeNext        MessageType = "next"
	MessageTypePrevious    MessageType = "previous"
	MessageTypeSelect      MessageType = "select"
	MessageTypeSeek        MessageType = "seek"
	MessageTypeSetVolume   MessageType = "setVolume"
	MessageTypeMute        MessageType = "mute"
	MessageTypeShuffle     MessageType = "shuffle"
	MessageTypeRepeat      MessageType = "repeat"
	MessageTypeAutoplay    MessageType = "autoplay"
	MessageTypeClear       MessageType = "clear"
	MessageTypeKey         MessageType = "key"
	MessageTypePointerDown MessageType = "pointerDown"
	MessageTypePointerMove MessageType = "pointerMove"
	MessageTypePointerUp   MessageType = "pointerUp"
)

type HelloMessage struct {
	ClientID string `json:"clientId"`
}

type PingMessage struct {
	Timestamp float64 `json:"sendtime"`
}

type PongMessage struct {
	Timestamp float64 `json:"sendtime"`
	SvcTime   float64 `json:"servicetime"`
}

type HighlightMessage struct {
	Index int `json:"index"`
}

type ErrorMessage struct {
	Message string `json:"message"`
	Index   int    `json:"index"`
	Source  string `json:"source,omitempty"`
}

// SelectMessage picks a playlist entry
type SelectMessage struct {
	Index int `json:"index"`
}

// PointerMessage is a click or drag on a slider. Fraction, when set, is
// used directly instead of X within [Left, Left+Width].
type PointerMessage struct {
	Target   string   `json:"target,omitempty"`
	X        float64  `json:"x"`
	Left     float64  `json:"left"`
	Width    float64  `json:"width"`
	Fraction *float64 `json:"fraction,omitempty"`
}

func (p *PointerMessage) bounds() player.Bounds {
	return player.Bounds{Left: p.Left, Width: p.Width}
}

type KeyMessage struct {
	Key string `json:"key"`
}

type ToggleMessage struct {
	Enabled *bool `json:"enabled,omitempty"`
}

// Serialise a Message to its wire format as []byte
func (m *Message) Serialise() ([]byte, error) {
	return json.Marshal(m)
}

// Deserialise a Message stored in data in its wire format back to a struct
// and store it to the value pointed to by m
func Deserialise(data []byte, m *Message) error {
	var rm receivedMessage

	if err := json.Unmarshal(data, &rm); err != nil {
		return err
	}

	m.ReceivedAt = time.Now()
	m.Type = rm.Type

	var payload interface{}
	switch m.Type {
	case MessageTypePing:
		payload = &PingMessage{}
	case MessageTypeSelect:
		payload = &SelectMessage{}
	case MessageTypeSeek, MessageTypeSetVolume, MessageTypePointerDown, MessageTypePointerMove:
		payload = &PointerMessage{}
	case MessageTypeKey:
		payload = &KeyMessage{}
	case MessageTypeShuffle, MessageTypeAutoplay, MessageTypeMute:
		payload = &ToggleMessage{}
	case MessageTypeToggle, MessageTypePlay, MessageTypePause, MessageTypeStop,
		MessageTypeNext, MessageTypePrevious, MessageTypeRepeat, MessageTypeClear,
		MessageTypePointerUp:
		m.Payload = nil
		return nil
	default:
		return fmt.Errorf("unknown message type %q", m.Type)
	}

	if len(rm.Payload) > 0 && string(rm.Payload) != "null" {
		if err := json.Unmarshal(rm.Payload, payload); err != nil {
			return fmt.Errorf("invalid %s payload: %w", m.Type, err)
		}
	}
	m.Payload = payload
	return nil
}
