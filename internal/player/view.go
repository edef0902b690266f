package player

import (
	"fmt"

	"github.com/famish99/tunedeck/internal/playlist"
)

// Placeholder values shown when no track is selected
const (
	PlaceholderTitle  = "Select a song"
	PlaceholderArtist = "Unknown Artist"
	PlaceholderAlbum  = "Unknown Album"
	PlaceholderTime   = "0:00"
)

// VolumeIcon selects the speaker icon variant
type VolumeIcon int

const (
	VolumeMuted VolumeIcon = iota // Muted or zero
	VolumeLow                     // Below half
	VolumeHigh
)

func (i VolumeIcon) String() string {
	switch i {
	case VolumeMuted:
		return "muted"
	case VolumeLow:
		return "low"
	default:
		return "high"
	}
}

// MarshalText implements encoding.TextMarshaler
func (i VolumeIcon) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (i *VolumeIcon) UnmarshalText(text []byte) error {
	switch string(text) {
	case "muted":
		*i = VolumeMuted
	case "low":
		*i = VolumeLow
	case "high":
		*i = VolumeHigh
	default:
		return fmt.Errorf("invalid volume icon: %q", text)
	}
	return nil
}

// SongInfo is the now-playing card
type SongInfo struct {
	Index       int            `json:"index"`
	Title       string         `json:"title"`
	Artist      string         `json:"artist"`
	Album       string         `json:"album"`
	CoverArt    string         `json:"coverArt"`
	Duration    string         `json:"duration"`
	Track       playlist.Track `json:"-"`
	Placeholder bool           `json:"placeholder"`
}

// Progress is the progress bar fill and its time labels
type Progress struct {
	Percent  float64 `json:"percent"`
	Current  string  `json:"current"`
	Total    string  `json:"total"`
	Position float64 `json:"position"`
	Duration float64 `json:"duration"`
}

// VolumeDisplay is the volume slider fill and icon
type VolumeDisplay struct {
	Percent float64    `json:"percent"`
	Icon    VolumeIcon `json:"icon"`
	Volume  float64    `json:"volume"`
	Muted   bool       `json:"muted"`
}

// PlaylistItem is one row of the visible playlist
type PlaylistItem struct {
	Index    int    `json:"index"`
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Album    string `json:"album"`
	CoverArt string `json:"coverArt"`
	Duration string `json:"duration"`
	Active   bool   `json:"active"`
}

// Transport is the visibility of the play, pause and loading icons
type Transport struct {
	ShowPlay    bool `json:"showPlay"`
	ShowPause   bool `json:"showPause"`
	ShowSpinner bool `json:"showSpinner"`
	Playing     bool `json:"playing"`
	Loading     bool `json:"loading"`
}

// Modes is the active state of the shuffle, repeat and autoplay toggles
type Modes struct {
	Shuffle  bool       `json:"shuffle"`
	Repeat   RepeatMode `json:"repeat"`
	Autoplay bool       `json:"autoplay"`
}

// View receives UI projections of the player state. Calls are made from the
// player loop and must not block or call back into the loop synchronously.
//
//go:generate mockgen -destination=mocks/view_mock.go -package=mocks github.com/famish99/tunedeck/internal/player View
type View interface {
	RenderSong(info SongInfo)
	RenderProgress(progress Progress)
	RenderVolume(volume VolumeDisplay)
	RenderPlaylist(items []PlaylistItem)
	RenderHighlight(index int)
	RenderTransport(transport Transport)
	RenderModes(modes Modes)
	RenderError(err error)
}

// Views fans render calls out to several sinks
type Views []View

func (vs Views) RenderSong(info SongInfo) {
	for _, v := range vs {
		v.RenderSong(info)
	}
}

func (vs Views) RenderProgress(progress Progress) {
	for _, v := range vs {
		v.RenderProgress(progress)
	}
}

func (vs Views) RenderVolume(volume VolumeDisplay) {
	for _, v := range vs {
		v.RenderVolume(volume)
	}
}

func (vs Views) RenderPlaylist(items []PlaylistItem) {
	for _, v := range vs {
		v.RenderPlaylist(items)
	}
}

func (vs Views) RenderHighlight(index int) {
	for _, v := range vs {
		v.RenderHighlight(index)
	}
}

func (vs Views) RenderTransport(transport Transport) {
	for _, v := range vs {
		v.RenderTransport(transport)
	}
}

func (vs Views) RenderModes(modes Modes) {
	for _, v := range vs {
		v.RenderModes(modes)
	}
}

func (vs Views) RenderError(err error) {
	for _, v := range vs {
		v.RenderError(err)
	}
}

// NopView discards all render calls
type NopView struct{}

func (NopView) RenderSong(SongInfo)           {}
func (NopView) RenderProgress(Progress)       {}
func (NopView) RenderVolume(VolumeDisplay)    {}
func (NopView) RenderPlaylist([]PlaylistItem) {}
func (NopView) RenderHighlight(int)           {}
func (NopView) RenderTransport(Transport)     {}
func (NopView) RenderModes(Modes)             {}
func (NopView) RenderError(error)             {}

// volumeIcon picks the icon for a volume level
func volumeIcon(volume float64, muted bool) VolumeIcon {
	switch {
	case muted || volume == 0:
		return VolumeMuted
	case volume < 0.5:
		return VolumeLow
	default:
		return VolumeHigh
	}
}

// transportFor derives icon visibility. The spinner hides both icons.
func transportFor(playing, loading bool) Transport {
	return Transport{
		ShowPlay:    !loading && !playing,
		ShowPause:   !loading && playing,
		ShowSpinner: loading,
		Playing:     playing,
		Loading:     loading,
	}
}

func songInfoFor(index int, track playlist.Track) SongInfo {
	return SongInfo{
		Index:    index,
		Title:    track.Title,
		Artist:   track.Artist,
		Album:    track.Album,
		CoverArt: track.CoverArt,
		Duration: FormatTime(track.Duration),
		Track:    track,
	}
}

func placeholderSong() SongInfo {
	return SongInfo{
		Index:       NoTrack,
		Title:       PlaceholderTitle,
		Artist:      PlaceholderArtist,
		Album:       PlaceholderAlbum,
		Duration:    PlaceholderTime,
		Placeholder: true,
	}
}

func playlistItems(tracks []playlist.Track, current int) []PlaylistItem {
	items := make([]PlaylistItem, len(tracks))
	for i, t := range tracks {
		items[i] = PlaylistItem{
			Index:    i,
			Title:    t.Title,
			Artist:   t.Artist,
			Album:    t.Album,
			CoverArt: t.CoverArt,
			Duration: FormatTime(t.Duration),
			Active:   i == current,
		}
	}
	return items
}
