package player_test

import (
	"testing"

	"github.com/famish99/tunedeck/internal/player"
)

func TestHandleKey(t *testing.T) {
	tests := []struct {
		name        string
		key         player.Key
		wantPrevent bool
		check       func(t *testing.T, s player.State, e *fakeEngine)
	}{
		{
			name:        "space toggles play",
			key:         player.KeySpace,
			wantPrevent: true,
			check: func(t *testing.T, s player.State, e *fakeEngine) {
				if len(e.plays) != 1 {
					t.Errorf("plays = %d, want 1", len(e.plays))
				}
			},
		},
		{
			name: "right arrow next",
			key:  player.KeyArrowRight,
			check: func(t *testing.T, s player.State, e *fakeEngine) {
				if s.CurrentIndex != 1 {
					t.Errorf("CurrentIndex = %d, want 1", s.CurrentIndex)
				}
			},
		},
		{
			name: "left arrow previous",
			key:  player.KeyArrowLeft,
			check: func(t *testing.T, s player.State, e *fakeEngine) {
				if s.CurrentIndex != 2 {
					t.Errorf("CurrentIndex = %d, want 2", s.CurrentIndex)
				}
			},
		},
		{
			name:        "up arrow raises volume",
			key:         player.KeyArrowUp,
			wantPrevent: true,
			check: func(t *testing.T, s player.State, e *fakeEngine) {
				if s.Volume != 0.8 || e.volume != 0.8 {
					t.Errorf("volume = %v engine %v, want 0.8", s.Volume, e.volume)
				}
			},
		},
		{
			name:        "down arrow lowers volume",
			key:         player.KeyArrowDown,
			wantPrevent: true,
			check: func(t *testing.T, s player.State, e *fakeEngine) {
				if s.Volume != 0.6 {
					t.Errorf("volume = %v, want 0.6", s.Volume)
				}
			},
		},
		{
			name: "m mutes",
			key:  player.KeyM,
			check: func(t *testing.T, s player.State, e *fakeEngine) {
				if !s.Muted || !e.muted {
					t.Error("expected muted")
				}
			},
		},
		{
			name: "other keys ignored",
			key:  player.Key("KeyQ"),
			check: func(t *testing.T, s player.State, e *fakeEngine) {
				if s.CurrentIndex != 0 || s.Muted || s.Volume != player.DefaultVolume || len(e.plays) != 0 {
					t.Errorf("state changed: %+v", s)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, engine, _ := newTestController(t, testTracks())
			engine.ready(10)

			if got := c.HandleKey(tt.key); got != tt.wantPrevent {
				t.Errorf("HandleKey(%q) = %v, want %v", tt.key, got, tt.wantPrevent)
			}
			tt.check(t, c.State(), engine)
		})
	}
}

func TestVolumeKeysClamp(t *testing.T) {
	c, _, _ := newTestController(t, testTracks(), player.WithVolume(0.95))

	c.HandleKey(player.KeyArrowUp)
	c.HandleKey(player.KeyArrowUp)
	if got := c.State().Volume; got != 1 {
		t.Errorf("volume = %v, want 1", got)
	}

	for i := 0; i < 12; i++ {
		c.HandleKey(player.KeyArrowDown)
	}
	if got := c.State().Volume; got != 0 {
		t.Errorf("volume = %v, want 0", got)
	}
}

func TestVolumeKeysKeepMute(t *testing.T) {
	c, _, view := newTestController(t, testTracks())
	c.ToggleMute()

	c.HandleKey(player.KeyArrowUp)

	if !c.State().Muted || view.volume.Percent != 0 {
		t.Errorf("volume step must not unmute: %+v", view.volume)
	}
}

func TestDragSession(t *testing.T) {
	bar := player.Bounds{Left: 0, Width: 100}
	c, engine, _ := newTestController(t, testTracks())
	engine.ready(10)

	c.PointerDown(player.DragProgress, 50, bar)
	if c.State().Drag != player.DragProgress || engine.position != 5 {
		t.Fatalf("drag start: state %+v position %v", c.State(), engine.position)
	}

	c.PointerMove(80)
	if engine.position != 8 {
		t.Errorf("position = %v, want 8", engine.position)
	}

	c.PointerMove(250)
	if engine.position != 10 {
		t.Errorf("position = %v, want clamped 10", engine.position)
	}

	c.PointerUp()
	c.PointerMove(10)
	if c.State().Drag != player.DragNone || engine.position != 10 {
		t.Errorf("move after release applied: position %v", engine.position)
	}

	// A new session replaces the binding
	c.PointerDown(player.DragVolume, 30, bar)
	c.PointerMove(40)
	if got := c.State().Volume; got != 0.4 {
		t.Errorf("volume = %v, want 0.4", got)
	}
	if engine.position != 10 {
		t.Error("volume drag moved the playhead")
	}
}
