package console

import (
	"context"
	"io"
	"reflect"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/famish99/tunedeck/internal/backends/null"
	"github.com/famish99/tunedeck/internal/player"
	"github.com/famish99/tunedeck/internal/playlist"
)

func keys(ks ...player.Key) []Event {
	events := make([]Event, len(ks))
	for i, k := range ks {
		events[i] = Event{Key: k}
	}
	return events
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		want     []Event
		wantRest string
	}{
		{name: "space", input: " ", want: keys(player.KeySpace)},
		{name: "mute either case", input: "mM", want: keys(player.KeyM, player.KeyM)},
		{name: "csi arrows", input: "\x1b[A\x1b[B\x1b[C\x1b[D",
			want: keys(player.KeyArrowUp, player.KeyArrowDown, player.KeyArrowRight, player.KeyArrowLeft)},
		{name: "application cursor mode", input: "\x1bOC", want: keys(player.KeyArrowRight)},
		{name: "quit", input: "q\x03", want: []Event{{Quit: true}, {Quit: true}}},
		{name: "unmapped bytes dropped", input: "xyz\r"},
		{name: "other csi sequences skipped", input: "\x1b[1;5A \x1b[3~", want: keys(player.KeySpace)},
		{name: "lone escape", input: "\x1bm", want: keys(player.KeyM)},
		{name: "split csi", input: " \x1b[", want: keys(player.KeySpace), wantRest: "\x1b["},
		{name: "split escape", input: "\x1b", wantRest: "\x1b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, rest := Decode([]byte(tt.input))
			if !reflect.DeepEqual(events, tt.want) {
				t.Errorf("events = %+v, want %+v", events, tt.want)
			}
			if string(rest) != tt.wantRest {
				t.Errorf("rest = %q, want %q", rest, tt.wantRest)
			}
		})
	}
}

func TestHostDispatchesKeys(t *testing.T) {
	logger := zap.NewNop()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loop := player.NewLoop(logger)
	go loop.Run(ctx)
	engine := null.New(logger, null.WithProbe(null.FixedDuration(100)), null.WithTick(time.Hour))
	defer engine.Close()
	c := player.New(engine, nil, logger, player.WithPoster(loop.Post))
	d := player.NewDispatcher(loop, c)

	if err := d.Do(func(c *player.Controller) {
		if err := c.Load([]playlist.Track{{Title: "A", Source: "music/a.mp3", Duration: 10}}); err != nil {
			t.Errorf("Load failed: %v", err)
		}
	}); err != nil {
		t.Fatal(err)
	}

	quit := make(chan struct{})
	r, w := io.Pipe()
	h := NewHost(d, func() { close(quit) }, logger)
	h.in = r
	done := make(chan struct{})
	go h.run(done)

	// The escape sequence is split across two reads
	for _, chunk := range []string{"\x1b", "[Am"} {
		if _, err := w.Write([]byte(chunk)); err != nil {
			t.Fatal(err)
		}
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		var s player.State
		if err := d.Do(func(c *player.Controller) { s = c.State() }); err != nil {
			t.Fatal(err)
		}
		if s.Muted && s.Volume == 0.8 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("keys not applied: %+v", s)
		}
		time.Sleep(time.Millisecond)
	}

	if _, err := w.Write([]byte("q")); err != nil {
		t.Fatal(err)
	}
	select {
	case <-quit:
	case <-time.After(time.Second):
		t.Fatal("q did not quit")
	}

	w.Close()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("reader did not stop at EOF")
	}
}

func TestStartRequiresTerminal(t *testing.T) {
	h := NewHost(nil, nil, zap.NewNop())
	h.fd = -1
	if err := h.Start(); err != ErrNotTerminal {
		t.Errorf("Start() = %v, want ErrNotTerminal", err)
	}
	if err := h.Stop(); err != nil {
		t.Errorf("Stop() = %v", err)
	}
}
