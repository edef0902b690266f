package mpd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/famish99/tunedeck/internal/player"
)

// MPD ACK error codes
const (
	ackErrorArg     = 2
	ackErrorUnknown = 5
	ackErrorSystem  = 52
)

// handleCommand processes a single MPD command
func (s *Server) handleCommand(line string) string {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return "OK\n"
	}

	command := strings.ToLower(parts[0])
	args := parts[1:]

	switch command {
	case "ping":
		return "OK\n"

	case "play":
		return s.cmdPlay(args)

	case "playid":
		return s.cmdPlayID(args)

	case "pause":
		return s.cmdPause(args)

	case "stop":
		return s.cmdStop(args)

	case "next":
		return s.cmdNext(args)

	case "previous":
		return s.cmdPrevious(args)

	case "seek", "seekid":
		return s.cmdSeek(command, args)

	case "seekcur":
		return s.cmdSeekCur(args)

	case "setvol":
		return s.cmdSetVol(args)

	case "volume":
		return s.cmdVolume(args)

	case "getvol":
		return s.cmdGetVol(args)

	case "status":
		return s.cmdStatus(args)

	case "playlistinfo":
		return s.cmdPlaylistInfo(args)

	case "clear":
		return s.cmdClear(args)

	case "currentsong":
		return s.cmdCurrentSong(args)

	case "plchanges":
		return s.cmdPlChanges(args)

	case "tagtypes":
		return s.cmdTagTypes(args)

	case "outputs":
		return s.cmdOutputs(args)

	case "decoders":
		return s.cmdDecoders(args)

	case "single":
		return s.cmdSingle(args)

	case "consume":
		return s.cmdConsume(args)

	case "repeat":
		return s.cmdRepeat(args)

	case "random":
		return s.cmdRandom(args)

	case "close":
		return closeResponse // Client will close connection

	default:
		return ack(ackErrorUnknown, command, "unknown command")
	}
}

// ack formats an MPD error response
func ack(code int, command, message string) string {
	return fmt.Sprintf("ACK [%d@0] {%s} %s\n", code, command, message)
}

// ackError maps a controller error onto an ACK
func ackError(command string, err error) string {
	if errors.Is(err, player.ErrInvalidIndex) {
		return ack(ackErrorArg, command, "Bad song index")
	}
	return ack(ackErrorSystem, command, err.Error())
}

// do runs fn on the player loop and reports a stopped loop as an ACK
func (s *Server) do(command string, fn func(c *player.Controller) error) string {
	var err error
	if derr := s.player.Do(func(c *player.Controller) { err = fn(c) }); derr != nil {
		return ackError(command, derr)
	}
	if err != nil {
		return ackError(command, err)
	}
	return "OK\n"
}

// unquote strips the quotes MPD clients put around arguments
func unquote(arg string) string {
	if unquoted, err := strconv.Unquote(arg); err == nil {
		return unquoted
	}
	return arg
}

// parseBoolArg parses a required 0/1 argument
func parseBoolArg(command string, args []string) (bool, string) {
	if len(args) == 0 {
		return false, ack(ackErrorArg, command, "missing argument")
	}

	switch unquote(args[0]) {
	case "0":
		return false, ""
	case "1":
		return true, ""
	default:
		return false, ack(ackErrorArg, command, "invalid argument")
	}
}

// parseIntArg parses a required integer argument
func parseIntArg(command string, args []string, what string) (int, string) {
	if len(args) == 0 {
		return 0, ack(ackErrorArg, command, "missing "+what)
	}
	n, err := strconv.Atoi(unquote(args[0]))
	if err != nil {
		return 0, ack(ackErrorArg, command, "invalid "+what)
	}
	return n, ""
}
