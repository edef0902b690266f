package mpd

import (
	"bufio"
	"fmt"
	"net"
	"strings"

	"go.uber.org/zap"
)

const greeting = "OK MPD 0.25.0\n"

// closeResponse is returned by handleCommand for the close command
const closeResponse = ""

// handleConnection handles a single MPD client connection
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	logger := s.logger.With(zap.Stringer("client", conn.RemoteAddr()))
	logger.Info("MPD client connected")

	// Send MPD greeting
	fmt.Fprint(conn, greeting)

	// Lines are read on their own goroutine so noidle can interrupt an idle wait
	lines := make(chan string)
	done := make(chan struct{})
	defer close(done)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(conn)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
		if err := scanner.Err(); err != nil {
			logger.Debug("Connection error", zap.Error(err))
		}
	}()

	inCommandList := false
	commandListOk := false // Track if we need list_OK after each command
	commandListFailed := false
	var commandListResponses strings.Builder

	for raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		logger.Debug("MPD command", zap.String("line", line))

		// Handle command list mode
		switch line {
		case "command_list_begin", "command_list_ok_begin":
			inCommandList = true
			commandListOk = line == "command_list_ok_begin"
			commandListFailed = false
			commandListResponses.Reset()
			continue

		case "command_list_end":
			if inCommandList && !commandListFailed {
				// Send all buffered responses
				commandListResponses.WriteString("OK\n")
				fmt.Fprint(conn, commandListResponses.String())
			}
			inCommandList = false
			commandListFailed = false
			commandListResponses.Reset()
			continue
		}

		// The rest of a failed list is discarded
		if commandListFailed {
			continue
		}

		parts := strings.Fields(line)
		cmd := strings.ToLower(parts[0])

		var response string
		switch {
		case cmd == "idle" && !inCommandList:
			var ok bool
			response, ok = s.waitIdle(parts[1:], lines)
			if !ok {
				logger.Info("MPD client disconnected while idle")
				return
			}

		case cmd == "noidle":
			// Not idling: nothing to cancel
			response = "OK\n"

		default:
			response = s.handleCommand(line)
		}

		if response == closeResponse {
			break
		}

		if !inCommandList {
			// Send response immediately
			fmt.Fprint(conn, response)
			continue
		}

		if strings.HasPrefix(response, "ACK ") {
			// The first failing command ends the list
			commandListResponses.WriteString(response)
			fmt.Fprint(conn, commandListResponses.String())
			commandListFailed = true
			continue
		}

		// Buffer response (strip the final OK)
		commandListResponses.WriteString(strings.TrimSuffix(response, "OK\n"))

		// For command_list_ok_begin, add list_OK after each command
		if commandListOk {
			commandListResponses.WriteString("list_OK\n")
		}
	}

	logger.Info("MPD client disconnected")
}

// waitIdle blocks until a watched subsystem changes, the client sends
// noidle, or the server stops. ok is false when the client went away.
func (s *Server) waitIdle(args []string, lines <-chan string) (response string, ok bool) {
	// Parse subsystems to watch
	subsystems := make(map[string]bool)
	for _, arg := range args {
		subsystems[strings.ToLower(unquote(arg))] = true
	}

	idle := newIdleConnection(subsystems)
	s.idle.register(idle)
	defer s.idle.unregister(idle)

	select {
	case subsystem := <-idle.notify:
		return changedResponse(subsystem, idle.notify), true
	case <-idle.cancel:
		return "OK\n", true
	case line, open := <-lines:
		if !open {
			return "", false
		}
		// Anything other than noidle is not allowed while idling; MPD
		// treats it the same way and ends the idle.
		if strings.ToLower(strings.TrimSpace(line)) != "noidle" {
			s.logger.Debug("Command received while idle", zap.String("line", line))
		}
		return "OK\n", true
	}
}

// changedResponse reports subsystem and every other change already queued
func changedResponse(first string, pending <-chan string) string {
	seen := map[string]bool{first: true}
	var b strings.Builder
	fmt.Fprintf(&b, "changed: %s\n", first)
	for {
		select {
		case subsystem := <-pending:
			if !seen[subsystem] {
				seen[subsystem] = true
				fmt.Fprintf(&b, "changed: %s\n", subsystem)
			}
		default:
			b.WriteString("OK\n")
			return b.String()
		}
	}
}
