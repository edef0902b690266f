package null

import (
	"errors"
	"math"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/famish99/tunedeck/internal/backends"
)

// eventLog forwards notifications onto a channel
type eventLog struct {
	ch chan string
}

func newEventLog() *eventLog {
	return &eventLog{ch: make(chan string, 256)}
}

func (l *eventLog) LoadStart()      { l.ch <- "loadstart" }
func (l *eventLog) CanPlay()        { l.ch <- "canplay" }
func (l *eventLog) Ended()          { l.ch <- "ended" }
func (l *eventLog) Error(err error) { l.ch <- "error" }

// TimeUpdate is dropped when the log is full so a running clock never blocks
func (l *eventLog) TimeUpdate() {
	select {
	case l.ch <- "timeupdate":
	default:
	}
}

// waitFor consumes events until want arrives
func (l *eventLog) waitFor(t *testing.T, want string) {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case got := <-l.ch:
			if got == want {
				return
			}
		case <-timeout:
			t.Fatalf("timed out waiting for %s", want)
		}
	}
}

func newTestEngine(t *testing.T, opts ...Option) (*Engine, *eventLog) {
	t.Helper()
	opts = append([]Option{WithTick(5 * time.Millisecond)}, opts...)
	e := New(zap.NewNop(), opts...)
	events := newEventLog()
	e.Listen(events)
	t.Cleanup(func() { _ = e.Close() })
	return e, events
}

func TestLoadReportsDuration(t *testing.T) {
	e, events := newTestEngine(t, WithProbe(FixedDuration(42)))

	if !math.IsNaN(e.Duration()) {
		t.Errorf("Duration() = %v before load, want NaN", e.Duration())
	}

	e.SetSource("music/a.mp3")
	e.Load()
	events.waitFor(t, "loadstart")
	events.waitFor(t, "canplay")

	if got := e.Duration(); got != 42 {
		t.Errorf("Duration() = %v, want 42", got)
	}
	if e.Position() != 0 {
		t.Errorf("Position() = %v, want 0", e.Position())
	}
}

func TestLoadError(t *testing.T) {
	probeErr := errors.New("unreadable")
	e, events := newTestEngine(t, WithProbe(func(string) (float64, error) {
		return 0, probeErr
	}))

	e.SetSource("music/broken.mp3")
	e.Load()
	events.waitFor(t, "error")

	if !math.IsNaN(e.Duration()) {
		t.Error("duration set after failed load")
	}
}

func TestPlayRunsToEnd(t *testing.T) {
	e, events := newTestEngine(t, WithProbe(FixedDuration(0.05)))
	e.SetSource("music/short.mp3")
	e.Load()
	events.waitFor(t, "canplay")

	result := make(chan error, 1)
	e.Play(func(err error) { result <- err })
	if err := <-result; err != nil {
		t.Fatalf("Play failed: %v", err)
	}

	events.waitFor(t, "timeupdate")
	events.waitFor(t, "ended")

	if e.Playing() {
		t.Error("still playing after end")
	}
	if got := e.Position(); got != 0.05 {
		t.Errorf("Position() = %v, want duration", got)
	}
}

func TestPlayBeforeReady(t *testing.T) {
	e, events := newTestEngine(t, WithLoadDelay(20*time.Millisecond))
	e.SetSource("music/a.mp3")
	e.Load()

	result := make(chan error, 1)
	e.Play(func(err error) { result <- err })

	select {
	case err := <-result:
		if err != nil {
			t.Fatalf("Play failed: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("pending play never completed")
	}
	events.waitFor(t, "canplay")
	if !e.Playing() {
		t.Error("clock not started")
	}
}

func TestPauseBeforeReady(t *testing.T) {
	e, events := newTestEngine(t, WithLoadDelay(30*time.Millisecond))
	e.SetSource("music/a.mp3")
	e.Load()

	result := make(chan error, 1)
	e.Play(func(err error) { result <- err })
	e.Pause()

	if err := <-result; !errors.Is(err, backends.ErrPaused) {
		t.Errorf("err = %v, want ErrPaused", err)
	}
	events.waitFor(t, "canplay")
	time.Sleep(20 * time.Millisecond)
	if e.Playing() || e.Position() != 0 {
		t.Errorf("playing = %v at %v after pause won", e.Playing(), e.Position())
	}
}

func TestReloadCancelsPendingPlay(t *testing.T) {
	e, events := newTestEngine(t, WithLoadDelay(30*time.Millisecond))
	e.SetSource("music/a.mp3")
	e.Load()

	result := make(chan error, 1)
	e.Play(func(err error) { result <- err })

	e.SetSource("music/b.mp3")
	e.Load()

	if err := <-result; !errors.Is(err, backends.ErrSourceChanged) {
		t.Errorf("err = %v, want ErrSourceChanged", err)
	}
	events.waitFor(t, "canplay")
	time.Sleep(20 * time.Millisecond)
	if e.Playing() {
		t.Error("new source started from a play made for the old one")
	}
}

func TestPlayWithoutSource(t *testing.T) {
	e, _ := newTestEngine(t)

	result := make(chan error, 1)
	e.Play(func(err error) { result <- err })

	if err := <-result; !errors.Is(err, ErrNoSource) {
		t.Errorf("err = %v, want ErrNoSource", err)
	}
}

func TestPauseAndSeek(t *testing.T) {
	e, events := newTestEngine(t, WithProbe(FixedDuration(60)))
	e.SetSource("music/a.mp3")
	e.Load()
	events.waitFor(t, "canplay")

	done := make(chan error, 1)
	e.Play(func(err error) { done <- err })
	<-done
	events.waitFor(t, "timeupdate")

	e.Pause()
	if e.Playing() {
		t.Fatal("still playing after pause")
	}

	e.SetPosition(30)
	if got := e.Position(); got != 30 {
		t.Errorf("Position() = %v, want 30", got)
	}
	e.SetPosition(500)
	if got := e.Position(); got != 60 {
		t.Errorf("Position() = %v, want clamped 60", got)
	}
	e.SetPosition(-2)
	if got := e.Position(); got != 0 {
		t.Errorf("Position() = %v, want 0", got)
	}
}

func TestReloadStopsClock(t *testing.T) {
	e, events := newTestEngine(t, WithProbe(FixedDuration(60)))
	e.SetSource("music/a.mp3")
	e.Load()
	events.waitFor(t, "canplay")

	done := make(chan error, 1)
	e.Play(func(err error) { done <- err })
	<-done

	e.SetSource("music/b.mp3")
	e.Load()
	if e.Playing() {
		t.Error("load must stop playback")
	}
	events.waitFor(t, "canplay")
	if e.Position() != 0 {
		t.Errorf("Position() = %v after reload", e.Position())
	}
}

func TestVolume(t *testing.T) {
	e, _ := newTestEngine(t)
	e.SetVolume(0.3)
	e.SetMuted(true)

	level, muted := e.Volume()
	if level != 0.3 || !muted {
		t.Errorf("Volume() = %v, %v", level, muted)
	}
	if e.GetBackendName() != "null" {
		t.Errorf("GetBackendName() = %q", e.GetBackendName())
	}
}
