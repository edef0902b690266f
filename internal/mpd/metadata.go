package mpd

import (
	"fmt"
	"strings"

	"github.com/famish99/tunedeck/internal/playlist"
)

// metadataFields maps tag names to MPD field names and track values
var metadataFields = map[string]struct {
	field string
	value func(t *playlist.Track) string
}{
	"artist": {"Artist", func(t *playlist.Track) string { return t.Artist }},
	"album":  {"Album", func(t *playlist.Track) string { return t.Album }},
	"title":  {"Title", func(t *playlist.Track) string { return t.Title }},
}

// metadataOrder is the order tags are written in
var metadataOrder = []string{"artist", "album", "title"}

// decoderInfo represents a decoder plugin with its supported formats
type decoderInfo struct {
	plugin    string
	suffixes  []string
	mimeTypes []string
}

// supportedDecoders lists the formats the audio engine can decode
var supportedDecoders = []decoderInfo{
	{
		plugin:    "mad",
		suffixes:  []string{"mp3"},
		mimeTypes: []string{"audio/mpeg"},
	},
	{
		plugin:    "flac",
		suffixes:  []string{"flac"},
		mimeTypes: []string{"audio/flac", "audio/x-flac"},
	},
	{
		plugin:    "vorbis",
		suffixes:  []string{"ogg", "oga"},
		mimeTypes: []string{"audio/ogg", "audio/vorbis", "application/ogg"},
	},
	{
		plugin:    "wave",
		suffixes:  []string{"wav"},
		mimeTypes: []string{"audio/wav", "audio/x-wav"},
	},
}

// formatTrackInfo formats track information with metadata for MPD protocol
// Only outputs tags that are enabled via tagtypes command
func (s *Server) formatTrackInfo(track *playlist.Track, pos int) string {
	var info strings.Builder

	// Required fields
	fmt.Fprintf(&info, "file: %s\n", track.Source)

	s.tagTypesMu.RLock()
	for _, tag := range metadataOrder {
		if !s.enabledTags[tag] {
			continue
		}
		meta := metadataFields[tag]
		if value := meta.value(track); value != "" {
			fmt.Fprintf(&info, "%s: %s\n", meta.field, value)
		}
	}
	s.tagTypesMu.RUnlock()

	if track.Duration > 0 {
		fmt.Fprintf(&info, "Time: %d\n", int(track.Duration))
		fmt.Fprintf(&info, "duration: %.3f\n", track.Duration)
	}

	// Position and ID - always output
	fmt.Fprintf(&info, "Pos: %d\n", pos)
	fmt.Fprintf(&info, "Id: %d\n", pos)

	return info.String()
}

// cmdTagTypes handles the 'tagtypes' command
// Controls which metadata tags are returned in responses
func (s *Server) cmdTagTypes(args []string) string {
	if len(args) == 0 {
		// List all enabled tag types
		s.tagTypesMu.RLock()
		defer s.tagTypesMu.RUnlock()

		var response strings.Builder
		for _, tag := range metadataOrder {
			if s.enabledTags[tag] {
				fmt.Fprintf(&response, "tagtype: %s\n", metadataFields[tag].field)
			}
		}
		response.WriteString("OK\n")
		return response.String()
	}

	subcommand := strings.ToLower(unquote(args[0]))

	s.tagTypesMu.Lock()
	defer s.tagTypesMu.Unlock()

	switch subcommand {
	case "clear", "all":
		for tag := range s.enabledTags {
			s.enabledTags[tag] = subcommand == "all"
		}
		return "OK\n"

	case "enable", "disable":
		for _, arg := range args[1:] {
			tag := strings.ToLower(unquote(arg))
			// Tags the player has no data for are accepted and ignored
			if _, known := metadataFields[tag]; known {
				s.enabledTags[tag] = subcommand == "enable"
			}
		}
		return "OK\n"

	default:
		return ack(ackErrorArg, "tagtypes", "unknown subcommand: "+subcommand)
	}
}

// cmdDecoders handles the 'decoders' command
func (s *Server) cmdDecoders(_ []string) string {
	var response strings.Builder

	for _, decoder := range supportedDecoders {
		fmt.Fprintf(&response, "plugin: %s\n", decoder.plugin)
		for _, suffix := range decoder.suffixes {
			fmt.Fprintf(&response, "suffix: %s\n", suffix)
		}
		for _, mimeType := range decoder.mimeTypes {
			fmt.Fprintf(&response, "mime_type: %s\n", mimeType)
		}
	}

	response.WriteString("OK\n")
	return response.String()
}
