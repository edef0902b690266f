package mpd

import (
	"fmt"
	"math"
	"strconv"

	"github.com/famish99/tunedeck/internal/player"
)

// cmdPlay handles the 'play' command
// play [POS] - start playback at optional position
func (s *Server) cmdPlay(args []string) string {
	if len(args) == 0 {
		// Resume the current track; an empty queue is a no-op
		return s.do("play", func(c *player.Controller) error {
			c.Play()
			return nil
		})
	}

	pos, ackResp := parseIntArg("play", args, "position")
	if ackResp != "" {
		return ackResp
	}
	return s.do("play", func(c *player.Controller) error {
		return c.PlayTrack(pos)
	})
}

// cmdPlayID handles the 'playid' command. Song ids are playlist positions.
func (s *Server) cmdPlayID(args []string) string {
	if len(args) == 0 {
		return s.cmdPlay(nil)
	}

	id, ackResp := parseIntArg("playid", args, "song id")
	if ackResp != "" {
		return ackResp
	}
	return s.do("playid", func(c *player.Controller) error {
		return c.PlayTrack(id)
	})
}

// cmdPause handles the 'pause' command
// pause 0 = resume, pause 1 = pause, no arg = toggle
func (s *Server) cmdPause(args []string) string {
	if len(args) == 0 {
		return s.do("pause", func(c *player.Controller) error {
			c.TogglePlayPause()
			return nil
		})
	}

	shouldPause, ackResp := parseBoolArg("pause", args)
	if ackResp != "" {
		return ackResp
	}
	return s.do("pause", func(c *player.Controller) error {
		if shouldPause {
			c.Pause()
		} else {
			c.Play()
		}
		return nil
	})
}

// cmdStop handles the 'stop' command
func (s *Server) cmdStop(_ []string) string {
	return s.do("stop", func(c *player.Controller) error {
		c.Stop()
		return nil
	})
}

// cmdNext handles the 'next' command
func (s *Server) cmdNext(_ []string) string {
	return s.do("next", func(c *player.Controller) error {
		c.NextTrack()
		return nil
	})
}

// cmdPrevious handles the 'previous' command
func (s *Server) cmdPrevious(_ []string) string {
	return s.do("previous", func(c *player.Controller) error {
		c.PreviousTrack()
		return nil
	})
}

// cmdSeek handles the 'seek' and 'seekid' commands
// seek {SONGPOS} {TIME} - seek to TIME (in seconds) within song SONGPOS
func (s *Server) cmdSeek(command string, args []string) string {
	if len(args) < 2 {
		return ack(ackErrorArg, command, "missing arguments")
	}

	pos, ackResp := parseIntArg(command, args, "song position")
	if ackResp != "" {
		return ackResp
	}
	seconds, err := strconv.ParseFloat(unquote(args[1]), 64)
	if err != nil || math.IsNaN(seconds) {
		return ack(ackErrorArg, command, "invalid time")
	}

	return s.do(command, func(c *player.Controller) error {
		// Verify that the requested song position matches the current position
		current := c.State().CurrentIndex
		if pos != current {
			return fmt.Errorf("can only seek within current song (current: %d, requested: %d)", current, pos)
		}
		c.SeekSeconds(seconds)
		return nil
	})
}

// cmdSeekCur handles the 'seekcur' command
// seekcur {TIME} - seek to TIME within the current song
// TIME can be:
//   - absolute: "120" = seek to 120 seconds
//   - relative positive: "+10" = seek forward 10 seconds
//   - relative negative: "-10" = seek backward 10 seconds
func (s *Server) cmdSeekCur(args []string) string {
	if len(args) < 1 {
		return ack(ackErrorArg, "seekcur", "missing argument")
	}

	timeArg := unquote(args[0])

	// Check if it's relative (starts with + or -)
	isRelative := len(timeArg) > 0 && (timeArg[0] == '+' || timeArg[0] == '-')

	seconds, err := strconv.ParseFloat(timeArg, 64)
	if err != nil || math.IsNaN(seconds) {
		return ack(ackErrorArg, "seekcur", "invalid time")
	}

	return s.do("seekcur", func(c *player.Controller) error {
		if isRelative {
			seconds += c.Status().Position
		}
		c.SeekSeconds(seconds)
		return nil
	})
}

// cmdSetVol handles the 'setvol' command
// setvol {VOL} - set volume to VOL (0-100)
func (s *Server) cmdSetVol(args []string) string {
	vol, ackResp := parseIntArg("setvol", args, "volume")
	if ackResp != "" {
		return ackResp
	}
	if vol < 0 || vol > 100 {
		return ack(ackErrorArg, "setvol", "Invalid volume value")
	}

	return s.do("setvol", func(c *player.Controller) error {
		c.SetVolume(float64(vol) / 100)
		return nil
	})
}

// cmdVolume handles the deprecated 'volume' command
// volume {CHANGE} - change volume by CHANGE percent
func (s *Server) cmdVolume(args []string) string {
	delta, ackResp := parseIntArg("volume", args, "volume change")
	if ackResp != "" {
		return ackResp
	}

	return s.do("volume", func(c *player.Controller) error {
		c.StepVolume(float64(delta) / 100)
		return nil
	})
}

// cmdGetVol handles the 'getvol' command
func (s *Server) cmdGetVol(_ []string) string {
	var state player.State
	if err := s.player.Do(func(c *player.Controller) { state = c.State() }); err != nil {
		return ackError("getvol", err)
	}
	return fmt.Sprintf("volume: %d\nOK\n", volumePercent(state))
}

func volumePercent(state player.State) int {
	return int(math.Round(state.DisplayVolume() * 100))
}
