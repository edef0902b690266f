package player_test

import (
	"errors"
	"testing"

	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/famish99/tunedeck/internal/player"
	"github.com/famish99/tunedeck/internal/player/mocks"
)

// allowRenders accepts any render call not covered by a stricter expectation
func allowRenders(v *mocks.MockView) {
	v.EXPECT().RenderSong(gomock.Any()).AnyTimes()
	v.EXPECT().RenderProgress(gomock.Any()).AnyTimes()
	v.EXPECT().RenderVolume(gomock.Any()).AnyTimes()
	v.EXPECT().RenderPlaylist(gomock.Any()).AnyTimes()
	v.EXPECT().RenderHighlight(gomock.Any()).AnyTimes()
	v.EXPECT().RenderTransport(gomock.Any()).AnyTimes()
	v.EXPECT().RenderModes(gomock.Any()).AnyTimes()
}

func newMockController(t *testing.T, opts ...player.Option) (*player.Controller, *mocks.MockEngine, *mocks.MockView) {
	t.Helper()
	ctrl := gomock.NewController(t)
	engine := mocks.NewMockEngine(ctrl)
	view := mocks.NewMockView(ctrl)

	engine.EXPECT().Listen(gomock.Any())
	engine.EXPECT().SetVolume(gomock.Any())
	engine.EXPECT().SetMuted(false)
	allowRenders(view)

	return player.New(engine, view, zap.NewNop(), opts...), engine, view
}

func TestLoadDrivesEngine(t *testing.T) {
	ctrl := gomock.NewController(t)
	engine := mocks.NewMockEngine(ctrl)
	view := mocks.NewMockView(ctrl)
	allowRenders(view)

	engine.EXPECT().Listen(gomock.Any())
	engine.EXPECT().SetVolume(0.5)
	engine.EXPECT().SetMuted(false)
	c := player.New(engine, view, zap.NewNop(), player.WithVolume(0.5))

	gomock.InOrder(
		engine.EXPECT().Pause(),
		engine.EXPECT().SetSource("music/a.mp3"),
		engine.EXPECT().Load(),
	)

	if err := c.Load(testTracks()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
}

func TestLoadTrackSetsSourceBeforeLoad(t *testing.T) {
	c, engine, _ := newMockController(t)

	engine.EXPECT().Pause()
	engine.EXPECT().SetSource("music/a.mp3")
	engine.EXPECT().Load()
	if err := c.Load(testTracks()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	gomock.InOrder(
		engine.EXPECT().SetSource("music/c.mp3"),
		engine.EXPECT().Load(),
	)
	if err := c.LoadTrack(2); err != nil {
		t.Fatalf("LoadTrack failed: %v", err)
	}

	// Out of range indices never reach the engine
	if err := c.LoadTrack(3); !errors.Is(err, player.ErrInvalidIndex) {
		t.Errorf("err = %v, want ErrInvalidIndex", err)
	}
}

func TestPlayFailureRendersError(t *testing.T) {
	c, engine, view := newMockController(t)

	engine.EXPECT().Pause()
	engine.EXPECT().SetSource("music/a.mp3")
	engine.EXPECT().Load()
	if err := c.Load(testTracks()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	cause := errors.New("not allowed")
	engine.EXPECT().Play(gomock.Any()).Do(func(done func(error)) {
		done(cause)
	})
	view.EXPECT().RenderError(gomock.Any()).Do(func(err error) {
		var perr *player.PlaybackError
		if !errors.As(err, &perr) {
			t.Fatalf("rendered %T, want *PlaybackError", err)
		}
		if !errors.Is(err, cause) {
			t.Errorf("error %v does not wrap cause", err)
		}
		if perr.Source != "music/a.mp3" {
			t.Errorf("Source = %q", perr.Source)
		}
	})

	c.TogglePlayPause()

	if c.State().Playing {
		t.Error("playing after failed play")
	}
}

func TestCanPlayResumesOnlyAfterTrackChange(t *testing.T) {
	c, engine, _ := newMockController(t)

	engine.EXPECT().Pause().AnyTimes()
	engine.EXPECT().SetSource(gomock.Any()).AnyTimes()
	engine.EXPECT().Load().AnyTimes()
	engine.EXPECT().Position().Return(0.0).AnyTimes()
	engine.EXPECT().Duration().Return(10.0).AnyTimes()
	if err := c.Load(testTracks()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// Plain readiness never starts playback
	c.HandleCanPlay()

	engine.EXPECT().Play(gomock.Any()).Do(func(done func(error)) { done(nil) })
	c.TogglePlayPause()

	// The next track resumes exactly once, on can-play
	c.NextTrack()
	engine.EXPECT().Play(gomock.Any()).Do(func(done func(error)) { done(nil) })
	c.HandleLoadStart()
	c.HandleCanPlay()
	c.HandleCanPlay()

	if s := c.State(); !s.Playing || s.CurrentIndex != 1 {
		t.Errorf("state = %+v", s)
	}
}
