package player

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/famish99/tunedeck/internal/backends"
	"github.com/famish99/tunedeck/internal/playlist"
)

const (
	// DefaultVolume is the startup output level
	DefaultVolume = 0.7

	// restartThreshold is how far into a track PreviousTrack restarts it
	// instead of moving to the previous entry
	restartThreshold = 3.0

	// volumeStep is the keyboard volume increment
	volumeStep = 0.1
)

// Controller is the player state machine. It is not safe for concurrent use:
// every method must run on the goroutine draining the controller's Loop.
type Controller struct {
	engine backends.Engine
	view   View
	logger *zap.Logger
	pl     *playlist.Playlist
	post   func(fn func())

	state State

	// playSeq identifies the latest play request; completions carrying an
	// older value were superseded by a pause, a track change or a newer play
	playSeq uint64

	// resumeOnReady requests playback on the next CanPlay
	resumeOnReady bool

	dragBar Bounds
}

// Option configures a Controller
type Option func(*Controller)

// WithPoster sets the function used to schedule engine callbacks onto the
// controller's goroutine. Without it callbacks run on the calling goroutine.
func WithPoster(post func(fn func())) Option {
	return func(c *Controller) {
		if post != nil {
			c.post = post
		}
	}
}

// WithVolume sets the initial volume
func WithVolume(volume float64) Option {
	return func(c *Controller) {
		c.state.Volume = clamp01(volume)
	}
}

// WithAutoplay sets the initial autoplay flag
func WithAutoplay(enabled bool) Option {
	return func(c *Controller) {
		c.state.Autoplay = enabled
	}
}

// WithRepeat sets the initial repeat mode
func WithRepeat(mode RepeatMode) Option {
	return func(c *Controller) {
		c.state.Repeat = mode
	}
}

// WithShuffle sets the initial shuffle flag
func WithShuffle(enabled bool) Option {
	return func(c *Controller) {
		c.state.Shuffle = enabled
	}
}

// New creates a controller driving engine and rendering to view.
// The playlist starts empty; call Load to populate it.
func New(engine backends.Engine, view View, logger *zap.Logger, opts ...Option) *Controller {
	if view == nil {
		view = NopView{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Controller{
		engine: engine,
		view:   view,
		logger: logger,
		pl:     playlist.NewPlaylist(),
		post:   func(fn func()) { fn() },
		state: State{
			CurrentIndex: NoTrack,
			Volume:       DefaultVolume,
			Autoplay:     true,
		},
	}
	for _, opt := range opts {
		opt(c)
	}

	engine.Listen(engineEvents{c: c})
	engine.SetVolume(c.state.Volume)
	engine.SetMuted(c.state.Muted)

	c.Refresh()
	return c
}

// State returns a copy of the playback state
func (c *Controller) State() State {
	return c.state
}

// Playlist returns the controller's playlist
func (c *Controller) Playlist() *playlist.Playlist {
	return c.pl
}

// Status returns a snapshot including the engine position
func (c *Controller) Status() Status {
	s := Status{
		State:           c.state,
		PlaylistLength:  c.pl.Length(),
		PlaylistVersion: c.pl.GetVersion(),
	}
	if !c.state.HasTrack() {
		return s
	}

	track, err := c.pl.Get(c.state.CurrentIndex)
	if err != nil {
		return s
	}
	s.Track = &track
	s.Position = finiteOrZero(c.engine.Position())
	if d := c.engine.Duration(); knownDuration(d) {
		s.Duration = d
	} else {
		s.Duration = track.Duration
	}
	return s
}

// Load replaces the playlist and loads its first track.
// Playback stops; an empty list shows the placeholder song.
func (c *Controller) Load(tracks []playlist.Track) error {
	if err := c.pl.Load(tracks); err != nil {
		return fmt.Errorf("failed to load playlist: %w", err)
	}

	c.halt()
	if c.pl.Length() == 0 {
		c.state.CurrentIndex = NoTrack
		c.renderPlaylist()
		c.renderPlaceholder()
		return nil
	}

	c.logger.Info("Playlist loaded", zap.Int("tracks", c.pl.Length()))
	c.state.CurrentIndex = 0
	c.renderPlaylist()
	return c.LoadTrack(0)
}

// LoadTrack selects the track at index and asks the engine to load it.
// It never starts playback and leaves Playing untouched.
func (c *Controller) LoadTrack(index int) error {
	track, err := c.pl.Get(index)
	if err != nil {
		return ErrInvalidIndex
	}

	// Pending plays belong to the previous source
	c.playSeq++
	c.resumeOnReady = false

	c.state.CurrentIndex = index
	c.view.RenderSong(songInfoFor(index, track))
	c.view.RenderHighlight(index)
	c.view.RenderProgress(Progress{
		Current:  PlaceholderTime,
		Total:    FormatTime(track.Duration),
		Duration: finiteOrZero(track.Duration),
	})

	c.logger.Debug("Loading track",
		zap.Int("index", index),
		zap.String("title", track.Title),
		zap.String("source", track.Source))

	c.engine.SetSource(track.Source)
	c.engine.Load()
	return nil
}

// SelectTrack is a playlist click: load index and keep playing if playing
func (c *Controller) SelectTrack(index int) error {
	return c.advance(index, c.state.Playing)
}

// PlayTrack loads index and starts playback once the engine is ready
func (c *Controller) PlayTrack(index int) error {
	return c.advance(index, true)
}

// TogglePlayPause pauses when playing and plays when paused.
// It does nothing while a source is loading or when no track is selected.
func (c *Controller) TogglePlayPause() {
	if c.state.Loading || !c.state.HasTrack() {
		return
	}
	if c.state.Playing {
		c.Pause()
		return
	}
	c.Play()
}

// Play starts playback of the current track. While loading, playback
// starts once the engine reports it can play.
func (c *Controller) Play() {
	if !c.state.HasTrack() || c.state.Playing {
		return
	}
	if c.state.Loading {
		c.resumeOnReady = true
		c.setPlaying(true)
		return
	}
	c.requestPlay()
}

// Pause stops playback at the current position
func (c *Controller) Pause() {
	if !c.state.HasTrack() {
		return
	}
	c.halt()
}

// Stop pauses and rewinds the current track
func (c *Controller) Stop() {
	if !c.state.HasTrack() {
		return
	}
	c.halt()
	c.engine.SetPosition(0)
	c.renderProgress()
}

// PreviousTrack restarts the current track when more than three seconds
// in, otherwise moves to the previous entry, wrapping to the last.
func (c *Controller) PreviousTrack() {
	if !c.state.HasTrack() {
		return
	}
	if c.engine.Position() > restartThreshold {
		c.engine.SetPosition(0)
		c.renderProgress()
		return
	}

	n := c.pl.Length()
	prev := (c.state.CurrentIndex - 1 + n) % n
	_ = c.advance(prev, c.state.Playing)
}

// NextTrack moves to the following entry. Past the end it wraps when
// repeating all and stops otherwise.
func (c *Controller) NextTrack() {
	c.next(c.state.Playing)
}

// ToggleShuffle flips the shuffle flag. Track order is unaffected.
func (c *Controller) ToggleShuffle() {
	c.SetShuffle(!c.state.Shuffle)
}

// SetShuffle sets the shuffle flag
func (c *Controller) SetShuffle(enabled bool) {
	c.state.Shuffle = enabled
	c.renderModes()
}

// ToggleRepeat cycles off -> all -> one -> off
func (c *Controller) ToggleRepeat() {
	c.SetRepeat(c.state.Repeat.Next())
}

// SetRepeat sets the repeat mode
func (c *Controller) SetRepeat(mode RepeatMode) {
	c.state.Repeat = mode
	c.renderModes()
}

// ToggleAutoplay flips the autoplay flag consulted at track end
func (c *Controller) ToggleAutoplay() {
	c.SetAutoplay(!c.state.Autoplay)
}

// SetAutoplay sets the autoplay flag
func (c *Controller) SetAutoplay(enabled bool) {
	c.state.Autoplay = enabled
	c.renderModes()
}

// SeekTo seeks to the pointer position x within bar
func (c *Controller) SeekTo(x float64, bar Bounds) {
	fraction, ok := bar.Fraction(x)
	if !ok {
		return
	}
	c.SeekFraction(fraction)
}

// SeekFraction seeks to a fraction of the track. It does nothing until the
// engine knows the duration.
func (c *Controller) SeekFraction(fraction float64) {
	d := c.engine.Duration()
	if !knownDuration(d) {
		return
	}
	c.engine.SetPosition(clamp01(fraction) * d)
	c.renderProgress()
}

// SeekSeconds seeks to an absolute position, clamped to the track
func (c *Controller) SeekSeconds(seconds float64) {
	d := c.engine.Duration()
	if !knownDuration(d) || math.IsNaN(seconds) {
		return
	}
	c.engine.SetPosition(math.Max(0, math.Min(seconds, d)))
	c.renderProgress()
}

// SetVolumeAt sets the volume from the pointer position x within bar
func (c *Controller) SetVolumeAt(x float64, bar Bounds) {
	fraction, ok := bar.Fraction(x)
	if !ok {
		return
	}
	c.SetVolume(fraction)
}

// SetVolume sets the volume, clamped to [0,1], and unmutes
func (c *Controller) SetVolume(volume float64) {
	c.state.Volume = clamp01(volume)
	c.state.Muted = false
	c.engine.SetVolume(c.state.Volume)
	c.engine.SetMuted(false)
	c.renderVolume()
}

// StepVolume changes the volume by delta, clamped to [0,1].
// The mute flag is left alone.
func (c *Controller) StepVolume(delta float64) {
	c.state.Volume = math.Round(clamp01(c.state.Volume+delta)*100) / 100
	c.engine.SetVolume(c.state.Volume)
	c.renderVolume()
}

// ToggleMute flips the mute flag
func (c *Controller) ToggleMute() {
	c.state.Muted = !c.state.Muted
	c.engine.SetMuted(c.state.Muted)
	c.renderVolume()
}

// ClearQueue stops playback, empties the playlist and resets the display
func (c *Controller) ClearQueue() {
	c.halt()
	c.setLoading(false)
	c.state.CurrentIndex = NoTrack
	c.pl.Clear()

	c.renderPlaylist()
	c.renderPlaceholder()
	c.logger.Info("Queue cleared")
}

// HandleLoadStart marks the engine as loading
func (c *Controller) HandleLoadStart() {
	c.setLoading(true)
}

// HandleCanPlay marks the engine as ready and resumes playback if a
// track change was made while playing
func (c *Controller) HandleCanPlay() {
	c.setLoading(false)
	c.renderProgress()

	if c.resumeOnReady && c.state.HasTrack() {
		c.resumeOnReady = false
		c.requestPlay()
	}
}

// HandleTimeUpdate renders playback progress
func (c *Controller) HandleTimeUpdate() {
	c.renderProgress()
}

// HandleEnded applies the repeat and autoplay rules at the natural end of
// a track.
func (c *Controller) HandleEnded() {
	if !c.state.HasTrack() {
		return
	}

	switch {
	case c.state.Repeat == RepeatOne:
		c.engine.SetPosition(0)
		c.renderProgress()
		if c.state.Autoplay {
			c.requestPlay()
		} else {
			c.setPlaying(false)
		}
	case c.state.Autoplay:
		c.next(true)
	default:
		c.playSeq++
		c.setPlaying(false)
	}
}

// HandleError clears the playing and loading state and reports err.
// Playback is not retried.
func (c *Controller) HandleError(err error) {
	c.fail(err)
}

// Refresh re-renders every projection of the current state
func (c *Controller) Refresh() {
	c.renderPlaylist()
	if track, err := c.pl.Get(c.state.CurrentIndex); err == nil {
		c.view.RenderSong(songInfoFor(c.state.CurrentIndex, track))
		c.view.RenderHighlight(c.state.CurrentIndex)
		c.renderProgress()
	} else {
		c.renderPlaceholder()
	}
	c.renderVolume()
	c.renderTransport()
	c.renderModes()
}

func (c *Controller) next(resume bool) {
	if !c.state.HasTrack() {
		return
	}

	next := c.state.CurrentIndex + 1
	if next >= c.pl.Length() {
		if c.state.Repeat != RepeatAll {
			c.halt()
			return
		}
		next = 0
	}
	_ = c.advance(next, resume)
}

// advance loads index and, when resume is set, plays it once ready
func (c *Controller) advance(index int, resume bool) error {
	if err := c.LoadTrack(index); err != nil {
		return err
	}
	c.resumeOnReady = resume
	return nil
}

// halt pauses the engine and drops any pending play
func (c *Controller) halt() {
	c.playSeq++
	c.resumeOnReady = false
	c.engine.Pause()
	c.setPlaying(false)
}

func (c *Controller) requestPlay() {
	c.playSeq++
	seq := c.playSeq
	c.engine.Play(func(err error) {
		c.post(func() { c.finishPlay(seq, err) })
	})
}

func (c *Controller) finishPlay(seq uint64, err error) {
	if seq != c.playSeq {
		return
	}
	if err != nil {
		c.fail(err)
		return
	}
	c.setPlaying(true)
}

func (c *Controller) fail(err error) {
	c.playSeq++
	c.resumeOnReady = false

	var perr *PlaybackError
	if !errors.As(err, &perr) {
		perr = &PlaybackError{Index: c.state.CurrentIndex, Err: err}
		if track, gerr := c.pl.Get(c.state.CurrentIndex); gerr == nil {
			perr.Source = track.Source
		}
	}

	c.logger.Error("Playback error",
		zap.Int("index", perr.Index),
		zap.String("source", perr.Source),
		zap.Error(perr.Err))

	c.state.Loading = false
	c.state.Playing = false
	c.renderTransport()
	c.view.RenderError(perr)
}

func (c *Controller) setPlaying(playing bool) {
	c.state.Playing = playing
	c.renderTransport()
}

func (c *Controller) setLoading(loading bool) {
	c.state.Loading = loading
	c.renderTransport()
}

func (c *Controller) renderTransport() {
	c.view.RenderTransport(transportFor(c.state.Playing, c.state.Loading))
}

func (c *Controller) renderModes() {
	c.view.RenderModes(Modes{
		Shuffle:  c.state.Shuffle,
		Repeat:   c.state.Repeat,
		Autoplay: c.state.Autoplay,
	})
}

func (c *Controller) renderVolume() {
	display := c.state.DisplayVolume()
	c.view.RenderVolume(VolumeDisplay{
		Percent: display * 100,
		Icon:    volumeIcon(c.state.Volume, c.state.Muted),
		Volume:  c.state.Volume,
		Muted:   c.state.Muted,
	})
}

// renderProgress renders the bar once the engine knows the duration. An
// empty queue keeps its placeholders even if a late engine event arrives.
func (c *Controller) renderProgress() {
	if !c.state.HasTrack() {
		return
	}
	d := c.engine.Duration()
	if !knownDuration(d) {
		return
	}
	pos := finiteOrZero(c.engine.Position())
	c.view.RenderProgress(Progress{
		Percent:  clamp01(pos/d) * 100,
		Current:  FormatTime(pos),
		Total:    FormatTime(d),
		Position: pos,
		Duration: d,
	})
}

func (c *Controller) renderPlaylist() {
	c.view.RenderPlaylist(playlistItems(c.pl.GetAll(), c.state.CurrentIndex))
	c.view.RenderHighlight(c.state.CurrentIndex)
}

func (c *Controller) renderPlaceholder() {
	c.view.RenderSong(placeholderSong())
	c.view.RenderProgress(Progress{
		Current: PlaceholderTime,
		Total:   PlaceholderTime,
	})
}

// engineEvents forwards engine notifications onto the controller goroutine
type engineEvents struct {
	c *Controller
}

func (e engineEvents) LoadStart()  { e.c.post(e.c.HandleLoadStart) }
func (e engineEvents) CanPlay()    { e.c.post(e.c.HandleCanPlay) }
func (e engineEvents) TimeUpdate() { e.c.post(e.c.HandleTimeUpdate) }
func (e engineEvents) Ended()      { e.c.post(e.c.HandleEnded) }

func (e engineEvents) Error(err error) {
	e.c.post(func() { e.c.HandleError(err) })
}
