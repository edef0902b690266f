package beep

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/wav"
	"go.uber.org/zap"

	"github.com/famish99/tunedeck/internal/backends"
)

func writeSilence(t *testing.T, path string, format beep.Format, samples int) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := wav.Encode(f, beep.Silence(samples), format); err != nil {
		t.Fatalf("wav.Encode failed: %v", err)
	}
}

func TestDecodeFileWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.WAV")
	format := beep.Format{SampleRate: 8000, NumChannels: 2, Precision: 2}
	writeSilence(t, path, format, 16000)

	stream, got, err := decodeFile(path)
	if err != nil {
		t.Fatalf("decodeFile failed: %v", err)
	}
	defer stream.Close()

	if got.SampleRate != 8000 || got.NumChannels != 2 {
		t.Errorf("format = %+v", got)
	}
	if seconds := got.SampleRate.D(stream.Len()).Seconds(); seconds != 2 {
		t.Errorf("duration = %v, want 2s", seconds)
	}
}

func TestDecodeFileErrors(t *testing.T) {
	dir := t.TempDir()
	unknown := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(unknown, []byte("hello"), 0644); err != nil {
		t.Fatal(err)
	}
	corrupt := filepath.Join(dir, "corrupt.wav")
	if err := os.WriteFile(corrupt, []byte("not a riff header"), 0644); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{unknown, corrupt, filepath.Join(dir, "missing.mp3")} {
		if _, _, err := decodeFile(path); err == nil {
			t.Errorf("decodeFile(%s) succeeded, want error", filepath.Base(path))
		}
	}
}

func TestApplyGain(t *testing.T) {
	tests := []struct {
		level      float64
		muted      bool
		wantSilent bool
		wantVolume float64
	}{
		{level: 1, wantVolume: 0},
		{level: 0.5, wantVolume: -1},
		{level: 0.25, wantVolume: -2},
		{level: 0, wantSilent: true},
		{level: 0.8, muted: true, wantSilent: true},
	}

	for _, tt := range tests {
		v := &effects.Volume{Base: 2}
		applyGain(v, tt.level, tt.muted)
		if v.Silent != tt.wantSilent {
			t.Errorf("level %v muted %v: Silent = %v", tt.level, tt.muted, v.Silent)
		}
		if !tt.wantSilent && math.Abs(v.Volume-tt.wantVolume) > 1e-9 {
			t.Errorf("level %v: Volume = %v, want %v", tt.level, v.Volume, tt.wantVolume)
		}
	}
}

// The engine is built without a stream so no audio device is touched
func TestPauseCancelsPendingPlay(t *testing.T) {
	e := &Engine{logger: zap.NewNop(), resolver: localResolver{}, level: 1}
	e.SetSource("music/a.wav")

	result := make(chan error, 1)
	e.Play(func(err error) { result <- err })
	e.Pause()

	select {
	case err := <-result:
		if !errors.Is(err, backends.ErrPaused) {
			t.Errorf("err = %v, want ErrPaused", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("pending play never completed")
	}
	if len(e.pending) != 0 || e.playing {
		t.Errorf("pending = %d, playing = %v after pause", len(e.pending), e.playing)
	}
}
