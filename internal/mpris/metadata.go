package mpris

import (
	"fmt"

	"github.com/godbus/dbus/v5"

	"github.com/famish99/tunedeck/internal/player"
)

const (
	busNamePrefix = "org.mpris.MediaPlayer2."

	objectPath  dbus.ObjectPath = "/org/mpris/MediaPlayer2"
	rootIface                   = "org.mpris.MediaPlayer2"
	playerIface                 = "org.mpris.MediaPlayer2.Player"

	noTrackID   dbus.ObjectPath = "/org/mpris/MediaPlayer2/TrackList/NoTrack"
	trackIDBase                 = "/org/famish99/tunedeck/track/"
)

// Playback status values
const (
	StatusPlaying = "Playing"
	StatusPaused  = "Paused"
	StatusStopped = "Stopped"
)

// Loop status values
const (
	LoopNone     = "None"
	LoopTrack    = "Track"
	LoopPlaylist = "Playlist"
)

func trackID(index int) dbus.ObjectPath {
	if index < 0 {
		return noTrackID
	}
	return dbus.ObjectPath(fmt.Sprintf("%s%d", trackIDBase, index))
}

func loopStatus(mode player.RepeatMode) string {
	switch mode {
	case player.RepeatAll:
		return LoopPlaylist
	case player.RepeatOne:
		return LoopTrack
	default:
		return LoopNone
	}
}

func parseLoopStatus(s string) (player.RepeatMode, error) {
	switch s {
	case LoopNone:
		return player.RepeatOff, nil
	case LoopPlaylist:
		return player.RepeatAll, nil
	case LoopTrack:
		return player.RepeatOne, nil
	default:
		return player.RepeatOff, fmt.Errorf("invalid loop status: %q", s)
	}
}

// playbackStatus is Stopped without a track, otherwise follows the play intent
func playbackStatus(hasTrack, playing bool) string {
	switch {
	case !hasTrack:
		return StatusStopped
	case playing:
		return StatusPlaying
	default:
		return StatusPaused
	}
}

func microseconds(seconds float64) int64 {
	return int64(seconds * 1e6)
}

func seconds(us int64) float64 {
	return float64(us) / 1e6
}

// metadataMap builds the xesam/mpris metadata dictionary for the card
func metadataMap(info player.SongInfo) map[string]dbus.Variant {
	if info.Placeholder {
		return map[string]dbus.Variant{
			"mpris:trackid": dbus.MakeVariant(noTrackID),
		}
	}

	m := map[string]dbus.Variant{
		"mpris:trackid": dbus.MakeVariant(trackID(info.Index)),
		"xesam:title":   dbus.MakeVariant(info.Title),
		"xesam:artist":  dbus.MakeVariant([]string{info.Artist}),
		"xesam:album":   dbus.MakeVariant(info.Album),
		"xesam:url":     dbus.MakeVariant(info.Track.Source),
	}
	if info.CoverArt != "" {
		m["mpris:artUrl"] = dbus.MakeVariant(info.CoverArt)
	}
	if info.Track.Duration > 0 {
		m["mpris:length"] = dbus.MakeVariant(microseconds(info.Track.Duration))
	}
	return m
}
