package playlist

import (
	"fmt"
	"sync"
)

// Track represents a single playable item
type Track struct {
	Title    string  `yaml:"title" json:"title"`
	Artist   string  `yaml:"artist" json:"artist"`
	Album    string  `yaml:"album" json:"album"`
	CoverArt string  `yaml:"cover_art" json:"coverArt"`
	Source   string  `yaml:"source" json:"source"`
	Duration float64 `yaml:"duration" json:"duration"` // Seconds
}

// Validate checks that a track can be handed to an engine
func (t Track) Validate() error {
	if t.Source == "" {
		return fmt.Errorf("track %q has no source", t.Title)
	}
	if t.Duration < 0 {
		return fmt.Errorf("track %q has negative duration", t.Title)
	}
	return nil
}

// ChangeEvent records a playlist mutation for plchanges-style queries
type ChangeEvent struct {
	Version   uint32
	Operation string // "load" or "clear"
	Position  int
	Track     *Track
}

// Playlist is an ordered list of tracks. Insertion order is playback order;
// the contents change only through Load and Clear.
type Playlist struct {
	mu      sync.RWMutex
	tracks  []Track
	version uint32
	changes []ChangeEvent
}

// NewPlaylist creates a new empty playlist
func NewPlaylist() *Playlist {
	return &Playlist{
		tracks: make([]Track, 0),
	}
}

// Load replaces the playlist contents
func (p *Playlist) Load(tracks []Track) error {
	for i := range tracks {
		if err := tracks[i].Validate(); err != nil {
			return fmt.Errorf("invalid track at position %d: %w", i, err)
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.tracks = make([]Track, len(tracks))
	copy(p.tracks, tracks)
	p.version++
	p.changes = p.changes[:0]
	for i := range p.tracks {
		track := p.tracks[i]
		p.changes = append(p.changes, ChangeEvent{
			Version:   p.version,
			Operation: "load",
			Position:  i,
			Track:     &track,
		})
	}
	return nil
}

// Clear removes all tracks
func (p *Playlist) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.tracks = make([]Track, 0)
	p.version++
	p.changes = append(p.changes[:0], ChangeEvent{
		Version:   p.version,
		Operation: "clear",
		Position:  -1,
	})
}

// Get returns a copy of the track at index
func (p *Playlist) Get(index int) (Track, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if index < 0 || index >= len(p.tracks) {
		return Track{}, fmt.Errorf("invalid track index: %d", index)
	}
	return p.tracks[index], nil
}

// Contains reports whether index addresses a track
func (p *Playlist) Contains(index int) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return index >= 0 && index < len(p.tracks)
}

// Length returns the number of tracks
func (p *Playlist) Length() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.tracks)
}

// GetAll returns all tracks
func (p *Playlist) GetAll() []Track {
	p.mu.RLock()
	defer p.mu.RUnlock()

	// Return a copy to prevent external modification
	tracks := make([]Track, len(p.tracks))
	copy(tracks, p.tracks)
	return tracks
}

// GetVersion returns the playlist version, bumped on every mutation
func (p *Playlist) GetVersion() uint32 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.version
}

// GetChangesSince returns the changes recorded after version.
// Only the latest mutation is kept since every mutation replaces the whole list.
func (p *Playlist) GetChangesSince(version uint32) []ChangeEvent {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if version >= p.version {
		return nil
	}
	out := make([]ChangeEvent, len(p.changes))
	copy(out, p.changes)
	return out
}
