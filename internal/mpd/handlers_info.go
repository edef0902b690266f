package mpd

import (
	"fmt"
	"strings"

	"github.com/famish99/tunedeck/internal/player"
)

// snapshot reads the controller status on the player loop
func (s *Server) snapshot() (player.Status, error) {
	var status player.Status
	err := s.player.Do(func(c *player.Controller) { status = c.Status() })
	return status, err
}

// playbackState maps the controller state onto MPD's play/pause/stop.
// A paused track that sits at its start is reported as stopped.
func playbackState(st player.Status) string {
	switch {
	case !st.HasTrack():
		return "stop"
	case st.Playing:
		return "play"
	case st.Position > 0:
		return "pause"
	default:
		return "stop"
	}
}

func flag(b bool) int {
	if b {
		return 1
	}
	return 0
}

// cmdStatus handles the 'status' command
func (s *Server) cmdStatus(_ []string) string {
	st, err := s.snapshot()
	if err != nil {
		return ackError("status", err)
	}

	var status strings.Builder
	fmt.Fprintf(&status, "volume: %d\n", volumePercent(st.State))
	fmt.Fprintf(&status, "repeat: %d\n", flag(st.Repeat != player.RepeatOff))
	fmt.Fprintf(&status, "random: %d\n", flag(st.Shuffle))
	fmt.Fprintf(&status, "single: %d\n", flag(st.Repeat == player.RepeatOne))
	status.WriteString("consume: 0\n")
	fmt.Fprintf(&status, "playlist: %d\n", st.PlaylistVersion)
	fmt.Fprintf(&status, "playlistlength: %d\n", st.PlaylistLength)
	fmt.Fprintf(&status, "state: %s\n", playbackState(st))

	if st.HasTrack() {
		fmt.Fprintf(&status, "song: %d\n", st.CurrentIndex)
		fmt.Fprintf(&status, "songid: %d\n", st.CurrentIndex)

		// Legacy "time" field for compatibility (format: elapsed:total)
		fmt.Fprintf(&status, "time: %d:%d\n", int(st.Position), int(st.Duration))
		fmt.Fprintf(&status, "elapsed: %.3f\n", st.Position)
		fmt.Fprintf(&status, "duration: %.3f\n", st.Duration)
	}

	status.WriteString("OK\n")

	return status.String()
}

// cmdOutputs handles the 'outputs' command
func (s *Server) cmdOutputs(_ []string) string {
	s.mu.Lock()
	outputName := s.outputName
	s.mu.Unlock()

	var response strings.Builder
	response.WriteString("outputid: 0\n")
	fmt.Fprintf(&response, "outputname: %s\n", outputName)
	response.WriteString("outputenabled: 1\n")
	response.WriteString("OK\n")

	return response.String()
}

// cmdSingle handles the 'single' command. Single with repeat loops the
// current track, which is the player's repeat-one mode; turning single
// off falls back to repeating the playlist.
func (s *Server) cmdSingle(args []string) string {
	single, ackResp := parseBoolArg("single", args)
	if ackResp != "" {
		return ackResp
	}

	return s.do("single", func(c *player.Controller) error {
		mode := c.State().Repeat
		switch {
		case single:
			mode = player.RepeatOne
		case mode == player.RepeatOne:
			mode = player.RepeatAll
		}
		c.SetRepeat(mode)
		return nil
	})
}

// cmdConsume handles the 'consume' command. The queue only changes when
// replaced, so consume mode cannot be enabled.
func (s *Server) cmdConsume(args []string) string {
	consume, ackResp := parseBoolArg("consume", args)
	if ackResp != "" {
		return ackResp
	}
	if consume {
		return ack(ackErrorArg, "consume", "consume mode not supported")
	}
	return "OK\n"
}

// cmdRepeat handles the 'repeat' command
func (s *Server) cmdRepeat(args []string) string {
	repeat, ackResp := parseBoolArg("repeat", args)
	if ackResp != "" {
		return ackResp
	}

	return s.do("repeat", func(c *player.Controller) error {
		mode := c.State().Repeat
		switch {
		case !repeat:
			mode = player.RepeatOff
		case mode == player.RepeatOff:
			mode = player.RepeatAll
		}
		c.SetRepeat(mode)
		return nil
	})
}

// cmdRandom handles the 'random' command
func (s *Server) cmdRandom(args []string) string {
	random, ackResp := parseBoolArg("random", args)
	if ackResp != "" {
		return ackResp
	}

	return s.do("random", func(c *player.Controller) error {
		c.SetShuffle(random)
		return nil
	})
}
