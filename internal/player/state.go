package player

import (
	"fmt"
	"strings"

	"github.com/famish99/tunedeck/internal/playlist"
)

// NoTrack is the CurrentIndex value of an empty playlist
const NoTrack = -1

// RepeatMode controls what happens at the end of a track or of the playlist
type RepeatMode int

const (
	RepeatOff RepeatMode = iota // Stop after the last track
	RepeatAll                   // Loop the playlist
	RepeatOne                   // Loop the current track
)

// String returns the mode name used in config files and on the wire
func (m RepeatMode) String() string {
	switch m {
	case RepeatAll:
		return "all"
	case RepeatOne:
		return "one"
	default:
		return "off"
	}
}

// Next returns the mode that follows m in the off -> all -> one cycle
func (m RepeatMode) Next() RepeatMode {
	switch m {
	case RepeatOff:
		return RepeatAll
	case RepeatAll:
		return RepeatOne
	default:
		return RepeatOff
	}
}

// MarshalText implements encoding.TextMarshaler
func (m RepeatMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (m *RepeatMode) UnmarshalText(text []byte) error {
	mode, err := ParseRepeatMode(string(text))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

// ParseRepeatMode converts a mode name to a RepeatMode
func ParseRepeatMode(s string) (RepeatMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off", "":
		return RepeatOff, nil
	case "all":
		return RepeatAll, nil
	case "one":
		return RepeatOne, nil
	default:
		return RepeatOff, fmt.Errorf("invalid repeat mode: %q", s)
	}
}

// DragTarget identifies the slider bound to a drag session
type DragTarget int

const (
	DragNone DragTarget = iota
	DragProgress
	DragVolume
)

func (d DragTarget) String() string {
	switch d {
	case DragProgress:
		return "progress"
	case DragVolume:
		return "volume"
	default:
		return "none"
	}
}

// MarshalText implements encoding.TextMarshaler
func (d DragTarget) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *DragTarget) UnmarshalText(text []byte) error {
	target, err := ParseDragTarget(string(text))
	if err != nil {
		return err
	}
	*d = target
	return nil
}

// ParseDragTarget converts a control name to a DragTarget
func ParseDragTarget(s string) (DragTarget, error) {
	switch strings.ToLower(s) {
	case "progress":
		return DragProgress, nil
	case "volume":
		return DragVolume, nil
	case "none", "":
		return DragNone, nil
	default:
		return DragNone, fmt.Errorf("invalid drag target: %q", s)
	}
}

// State is the controller's playback state.
// Playing is the intended state, Loading is engine readiness; both are true
// while a track change waits for the engine.
type State struct {
	CurrentIndex int        `json:"currentIndex"`
	Playing      bool       `json:"playing"`
	Loading      bool       `json:"loading"`
	Volume       float64    `json:"volume"`
	Muted        bool       `json:"muted"`
	Shuffle      bool       `json:"shuffle"`
	Repeat       RepeatMode `json:"repeat"`
	Autoplay     bool       `json:"autoplay"`
	Drag         DragTarget `json:"drag"`
}

// HasTrack reports whether a track is selected
func (s State) HasTrack() bool {
	return s.CurrentIndex != NoTrack
}

// DisplayVolume is the level shown to the user: zero while muted
func (s State) DisplayVolume() float64 {
	if s.Muted {
		return 0
	}
	return s.Volume
}

// Status is a point-in-time snapshot for request/response surfaces
type Status struct {
	State
	Track           *playlist.Track `json:"track,omitempty"`
	Position        float64         `json:"position"`
	Duration        float64         `json:"duration"`
	PlaylistLength  int             `json:"playlistLength"`
	PlaylistVersion uint32          `json:"playlistVersion"`
}
