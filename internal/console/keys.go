package console

import "github.com/famish99/tunedeck/internal/player"

const (
	esc   = 0x1b
	ctrlC = 0x03
)

// Event is one decoded key press
type Event struct {
	Key  player.Key
	Quit bool
}

var cursorKeys = map[byte]player.Key{
	'A': player.KeyArrowUp,
	'B': player.KeyArrowDown,
	'C': player.KeyArrowRight,
	'D': player.KeyArrowLeft,
}

// Decode parses raw terminal input into key events. Arrow keys arrive as
// CSI (ESC [ X) or SS3 (ESC O X) sequences. An incomplete escape sequence at
// the end of buf is returned as rest and must be prepended to the next read.
// Bytes that map to no shortcut are dropped.
func Decode(buf []byte) (events []Event, rest []byte) {
	for i := 0; i < len(buf); i++ {
		switch b := buf[i]; b {
		case ' ':
			events = append(events, Event{Key: player.KeySpace})
		case 'm', 'M':
			events = append(events, Event{Key: player.KeyM})
		case 'q', 'Q', ctrlC:
			events = append(events, Event{Quit: true})
		case esc:
			n, key, complete := decodeEscape(buf[i:])
			if !complete {
				return events, buf[i:]
			}
			if key != "" {
				events = append(events, Event{Key: key})
			}
			i += n - 1
		}
	}
	return events, nil
}

// decodeEscape reads the sequence starting at seq[0] == ESC and returns its
// length and the key it names, if any
func decodeEscape(seq []byte) (int, player.Key, bool) {
	if len(seq) < 2 {
		return 0, "", false
	}

	switch seq[1] {
	case 'O':
		if len(seq) < 3 {
			return 0, "", false
		}
		return 3, cursorKeys[seq[2]], true
	case '[':
		// Parameters and intermediates run until a final byte in 0x40-0x7e
		for j := 2; j < len(seq); j++ {
			if seq[j] >= 0x40 && seq[j] <= 0x7e {
				if j == 2 {
					return 3, cursorKeys[seq[j]], true
				}
				return j + 1, "", true
			}
		}
		return 0, "", false
	default:
		// Lone escape followed by a regular key
		return 1, "", true
	}
}
