package player

import (
	"errors"
	"fmt"
)

// ErrInvalidIndex is returned for a track index outside the playlist.
// UI surfaces ignore it; the player state is left untouched.
var ErrInvalidIndex = errors.New("invalid track index")

// ErrLoopStopped is returned by Do once the event loop has exited
var ErrLoopStopped = errors.New("player loop stopped")

// PlaybackError reports that the engine could not load or play a track
type PlaybackError struct {
	Index  int
	Source string
	Err    error
}

func (e *PlaybackError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("playback failed: %v", e.Err)
	}
	return fmt.Sprintf("playback failed for track %d (%s): %v", e.Index, e.Source, e.Err)
}

func (e *PlaybackError) Unwrap() error {
	return e.Err
}
