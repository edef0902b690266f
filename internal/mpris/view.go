package mpris

import (
	"sync"

	"go.uber.org/zap"

	"github.com/famish99/tunedeck/internal/player"
)

// PropertySetter updates exported D-Bus properties and emits
// PropertiesChanged where the property asks for it.
//
//go:generate mockgen -destination=mocks/property_setter_mock.go -package=mocks github.com/famish99/tunedeck/internal/mpris PropertySetter
type PropertySetter interface {
	SetMust(iface, property string, v any)
}

// View mirrors player renders into the org.mpris.MediaPlayer2.Player
// properties. Values are tracked before the service is exported so the
// initial property map reflects the current state.
type View struct {
	logger *zap.Logger

	mu       sync.Mutex
	props    PropertySetter
	values   map[string]any
	hasTrack bool
	playing  bool
}

var _ player.View = (*View)(nil)

// NewView creates a view with stopped, empty defaults
func NewView(logger *zap.Logger) *View {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &View{
		logger: logger,
		values: map[string]any{
			"PlaybackStatus": StatusStopped,
			"LoopStatus":     LoopNone,
			"Shuffle":        false,
			"Metadata":       metadataMap(player.SongInfo{Placeholder: true}),
			"Volume":         player.DefaultVolume,
			"Position":       int64(0),
		},
	}
}

// attach builds the exported properties from the current values under the
// view lock so no render is lost between the snapshot and the export
func (v *View) attach(export func(values map[string]any) (PropertySetter, error)) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	values := make(map[string]any, len(v.values))
	for k, val := range v.values {
		values[k] = val
	}
	props, err := export(values)
	if err != nil {
		return err
	}
	v.props = props
	return nil
}

func (v *View) detach() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.props = nil
}

// Value returns the last value recorded for a player property
func (v *View) Value(property string) any {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.values[property]
}

func (v *View) setLocked(property string, value any) {
	v.values[property] = value
	if v.props == nil {
		return
	}

	// SetMust panics when the change signal cannot be sent
	defer func() {
		if r := recover(); r != nil {
			v.logger.Warn("Failed to update MPRIS property",
				zap.String("property", property),
				zap.Any("error", r))
		}
	}()
	v.props.SetMust(playerIface, property, value)
}

func (v *View) updateStatusLocked() {
	status := playbackStatus(v.hasTrack, v.playing)
	if v.values["PlaybackStatus"] != status {
		v.setLocked("PlaybackStatus", status)
	}
}

func (v *View) RenderSong(info player.SongInfo) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.hasTrack = !info.Placeholder
	v.setLocked("Metadata", metadataMap(info))
	v.updateStatusLocked()
}

func (v *View) RenderProgress(progress player.Progress) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.setLocked("Position", microseconds(progress.Position))
}

func (v *View) RenderVolume(volume player.VolumeDisplay) {
	v.mu.Lock()
	defer v.mu.Unlock()
	level := volume.Volume
	if volume.Muted {
		level = 0
	}
	v.setLocked("Volume", level)
}

func (v *View) RenderPlaylist([]player.PlaylistItem) {}

func (v *View) RenderHighlight(int) {}

func (v *View) RenderTransport(transport player.Transport) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.playing = transport.Playing
	v.updateStatusLocked()
}

func (v *View) RenderModes(modes player.Modes) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if status := loopStatus(modes.Repeat); v.values["LoopStatus"] != status {
		v.setLocked("LoopStatus", status)
	}
	if v.values["Shuffle"] != modes.Shuffle {
		v.setLocked("Shuffle", modes.Shuffle)
	}
}

func (v *View) RenderError(err error) {
	v.logger.Debug("Playback error", zap.Error(err))
}
