package mpd

import (
	"strconv"
	"strings"

	"github.com/famish99/tunedeck/internal/player"
	"github.com/famish99/tunedeck/internal/playlist"
)

// cmdClear handles the 'clear' command
func (s *Server) cmdClear(_ []string) string {
	return s.do("clear", func(c *player.Controller) error {
		c.ClearQueue()
		return nil
	})
}

// cmdPlaylistInfo handles the 'playlistinfo' command
// playlistinfo [POS] - all tracks, or only the one at POS
func (s *Server) cmdPlaylistInfo(args []string) string {
	var tracks []playlist.Track
	if err := s.player.Do(func(c *player.Controller) { tracks = c.Playlist().GetAll() }); err != nil {
		return ackError("playlistinfo", err)
	}

	var info strings.Builder
	if len(args) > 0 {
		pos, ackResp := parseIntArg("playlistinfo", args, "song position")
		if ackResp != "" {
			return ackResp
		}
		if pos < 0 || pos >= len(tracks) {
			return ack(ackErrorArg, "playlistinfo", "Bad song index")
		}
		info.WriteString(s.formatTrackInfo(&tracks[pos], pos))
	} else {
		for i := range tracks {
			info.WriteString(s.formatTrackInfo(&tracks[i], i))
		}
	}
	info.WriteString("OK\n")

	return info.String()
}

// cmdCurrentSong handles the 'currentsong' command
func (s *Server) cmdCurrentSong(_ []string) string {
	st, err := s.snapshot()
	if err != nil {
		return ackError("currentsong", err)
	}
	if st.Track == nil {
		return "OK\n" // No current song
	}

	var info strings.Builder
	info.WriteString(s.formatTrackInfo(st.Track, st.CurrentIndex))
	info.WriteString("OK\n")

	return info.String()
}

// cmdPlChanges handles the 'plchanges' command
// Returns changed songs in playlist since given version
func (s *Server) cmdPlChanges(args []string) string {
	if len(args) == 0 {
		return ack(ackErrorArg, "plchanges", "missing playlist version argument")
	}

	version64, err := strconv.ParseUint(unquote(args[0]), 10, 32)
	if err != nil {
		return ack(ackErrorArg, "plchanges", "invalid playlist version number")
	}
	requestedVersion := uint32(version64)

	var changes []playlist.ChangeEvent
	if err := s.player.Do(func(c *player.Controller) {
		changes = c.Playlist().GetChangesSince(requestedVersion)
	}); err != nil {
		return ackError("plchanges", err)
	}

	var info strings.Builder
	for _, event := range changes {
		// Only "load" events carry tracks; "clear" has nothing to show
		if event.Operation == "load" && event.Track != nil {
			info.WriteString(s.formatTrackInfo(event.Track, event.Position))
		}
	}
	info.WriteString("OK\n")

	return info.String()
}
